package finance

import (
	"gestao-pesos/models"
)

// TaxBreakdown holds the approximate taxes derived from the product
// lines of a fiscal invoice.
type TaxBreakdown struct {
	ProdutosTotal float64
	ICMS          float64
	PIS           float64
	COFINS        float64
	ValorTotal    float64
}

// ApproximateTaxes computes the tax approximation for fiscal product
// lines: ICMS, PIS and COFINS over the product total at the configured
// rates, and the final invoice value after other costs and discount.
// Pure and stateless; never applies to plain (non-fiscal) orders.
func ApproximateTaxes(produtos []models.ProdutoNFe, outrasDespesas, desconto float64, settings *models.FiscalSettings) TaxBreakdown {
	var produtosTotal float64
	for _, p := range produtos {
		produtosTotal += p.Quantidade * p.ValorUnitario
	}

	return TaxBreakdown{
		ProdutosTotal: Round2(produtosTotal),
		ICMS:          Round2(produtosTotal * settings.AliquotaICMSPadrao / 100),
		PIS:           Round2(produtosTotal * settings.AliquotaPIS / 100),
		COFINS:        Round2(produtosTotal * settings.AliquotaCOFINS / 100),
		ValorTotal:    Round2(produtosTotal + outrasDespesas - desconto),
	}
}

// ApplyTaxes recomputes the invoice's derived tax fields from its
// current product lines, other costs and discount. Idempotent: running
// it twice on unchanged inputs yields the same invoice. Also fills the
// per-line ICMS base and value at the configured rate.
func ApplyTaxes(nota *models.NotaFiscal, settings *models.FiscalSettings) {
	breakdown := ApproximateTaxes(nota.Produtos, nota.OutrasDespesas, nota.Desconto, settings)

	nota.ProdutosTotal = breakdown.ProdutosTotal
	nota.BaseICMS = breakdown.ProdutosTotal
	nota.ValorICMS = breakdown.ICMS
	nota.ValorPIS = breakdown.PIS
	nota.ValorCOFINS = breakdown.COFINS
	nota.TributosAproximados = Round2(breakdown.ICMS + breakdown.PIS + breakdown.COFINS)
	nota.TotalAmount = breakdown.ValorTotal

	for i := range nota.Produtos {
		p := &nota.Produtos[i]
		if p.AliquotaICMS == 0 {
			p.AliquotaICMS = settings.AliquotaICMSPadrao
		}
		p.BaseCalculoICMS = Round2(p.Quantidade * p.ValorUnitario)
		p.ValorICMS = Round2(p.BaseCalculoICMS * p.AliquotaICMS / 100)
	}
}
