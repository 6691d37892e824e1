package service

import (
	"bytes"
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidthMM = 210.0
	// One PDF page holds an A4-proportioned slice of the rasterized
	// document (210x297mm).
	pageAspect = 297.0 / 210.0
	// Rasterized pages wider than this are downscaled before embedding.
	maxImageWidth = 1588
)

// BuildPDF embeds a rasterized document image into a paginated PDF.
// The image is sliced vertically into A4-proportioned pages; a last
// short slice produces a page sized to its own aspect ratio.
func BuildPDF(screenshot []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(screenshot))
	if err != nil {
		return nil, fmt.Errorf("failed to decode rasterized page: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageWidth {
		log.Printf("🔄 BuildPDF: downscaling rasterized page %dx%d -> width %d", bounds.Dx(), bounds.Dy(), maxImageWidth)
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
		bounds = img.Bounds()
	}

	pages := paginateImage(img)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm", Size: gofpdf.SizeType{Wd: pdfPageWidthMM, Ht: pdfPageWidthMM * pageAspect}})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, page := range pages {
		pageBounds := page.Bounds()
		heightMM := pdfPageWidthMM * float64(pageBounds.Dy()) / float64(pageBounds.Dx())

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, page, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pdfPageWidthMM, Ht: heightMM})
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, pdfPageWidthMM, heightMM, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	log.Printf("✓ BuildPDF: %d page(s), %d bytes", len(pages), out.Len())
	return out.Bytes(), nil
}

// paginateImage slices a tall document image into page-height crops.
func paginateImage(img image.Image) []image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pageHeight := int(float64(width) * pageAspect)

	if height <= pageHeight {
		return []image.Image{img}
	}

	var pages []image.Image
	for top := 0; top < height; top += pageHeight {
		bottom := top + pageHeight
		if bottom > height {
			bottom = height
		}
		pages = append(pages, imaging.Crop(img, image.Rect(0, top, width, bottom)))
	}
	return pages
}
