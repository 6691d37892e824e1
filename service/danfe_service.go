package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"gestao-pesos/models"
)

// DanfeService renders the printable DANFE of a fiscal invoice: it
// fills the HTML template, rasterizes it on an off-screen surface and
// embeds the result into a paginated PDF.
type DanfeService struct {
	templatePath string
	settings     *models.FiscalSettings
	newSurface   SurfaceFactory
}

// NewDanfeService creates a new DanfeService. The surface factory is
// injected so callers can supply an alternative rendering backend.
func NewDanfeService(templatePath string, settings *models.FiscalSettings, factory SurfaceFactory) *DanfeService {
	if factory == nil {
		factory = NewChromeSurface
	}
	return &DanfeService{
		templatePath: templatePath,
		settings:     settings,
		newSurface:   factory,
	}
}

// Ensure DanfeService implements DanfeServiceInterface
var _ DanfeServiceInterface = (*DanfeService)(nil)

// Render produces the DANFE PDF for the invoice. Non-authorized
// invoices come out watermarked SEM VALOR FISCAL instead of showing
// the access-key/protocol block.
func (s *DanfeService) Render(ctx context.Context, nota *models.NotaFiscal) ([]byte, error) {
	log.Printf("📄 Render: DANFE for nota id=%d numero=%s status=%s", nota.ID, nota.NumeroNFe, nota.Status)

	html, err := s.FillDanfeHTML(nota)
	if err != nil {
		return nil, err
	}

	surface, err := s.newSurface(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire render surface: %w", err)
	}
	// The surface must be released even when the render is abandoned
	// mid-flight.
	defer surface.Release()

	if err := surface.Fill(ctx, html); err != nil {
		return nil, err
	}

	screenshot, err := surface.Rasterize(ctx)
	if err != nil {
		return nil, err
	}

	pdf, err := BuildPDF(screenshot)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Render: DANFE for nota %s ready (%d bytes)", nota.NumeroNFe, len(pdf))
	return pdf, nil
}

// FillDanfeHTML loads the template, parses it into segments and fills
// it with the invoice's token map.
func (s *DanfeService) FillDanfeHTML(nota *models.NotaFiscal) (string, error) {
	text, err := os.ReadFile(s.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read danfe template: %w", err)
	}

	segments := ParseTemplate(string(text))
	values := BuildTokenMap(nota, s.settings)
	return FillTemplate(segments, values), nil
}

// DanfeFileName is the download name of the rendered PDF.
func DanfeFileName(nota *models.NotaFiscal) string {
	return fmt.Sprintf("DANFE_NFe_%s.pdf", nota.NumeroNFe)
}

// XMLFileName is the download name of the exported XML document.
func XMLFileName(nota *models.NotaFiscal) string {
	return fmt.Sprintf("NFe_%s.xml", nota.NumeroNFe)
}
