package finance

import (
	"reflect"
	"testing"

	"gestao-pesos/models"
)

func testSettings() *models.FiscalSettings {
	return &models.FiscalSettings{
		AliquotaICMSPadrao: 18,
		AliquotaPIS:        0.65,
		AliquotaCOFINS:     3,
	}
}

func TestApproximateTaxes(t *testing.T) {
	produtos := []models.ProdutoNFe{
		{Descricao: "Peso padrão 2kg M1", Quantidade: 2, ValorUnitario: 100},
		{Descricao: "Peso padrão 5kg M1", Quantidade: 1, ValorUnitario: 800},
	}

	breakdown := ApproximateTaxes(produtos, 20, 50, testSettings())

	if breakdown.ProdutosTotal != 1000 {
		t.Errorf("produtos_total = %v, want 1000", breakdown.ProdutosTotal)
	}
	if breakdown.ICMS != 180 {
		t.Errorf("icms = %v, want 180", breakdown.ICMS)
	}
	if breakdown.PIS != 6.5 {
		t.Errorf("pis = %v, want 6.5", breakdown.PIS)
	}
	if breakdown.COFINS != 30 {
		t.Errorf("cofins = %v, want 30", breakdown.COFINS)
	}
	if breakdown.ValorTotal != 970 {
		t.Errorf("valor_total = %v, want 970", breakdown.ValorTotal)
	}
}

func TestApproximateTaxesEmptyProducts(t *testing.T) {
	breakdown := ApproximateTaxes(nil, 0, 0, testSettings())

	if breakdown.ProdutosTotal != 0 || breakdown.ICMS != 0 || breakdown.PIS != 0 || breakdown.COFINS != 0 {
		t.Errorf("empty products produced non-zero taxes: %+v", breakdown)
	}
}

func TestApplyTaxes(t *testing.T) {
	nota := &models.NotaFiscal{
		Produtos: []models.ProdutoNFe{
			{Descricao: "Peso padrão 2kg M1", Quantidade: 2, ValorUnitario: 100},
		},
		OutrasDespesas: 10,
		Desconto:       5,
	}

	ApplyTaxes(nota, testSettings())

	if nota.ProdutosTotal != 200 {
		t.Errorf("produtos_total = %v, want 200", nota.ProdutosTotal)
	}
	if nota.BaseICMS != 200 {
		t.Errorf("base_icms = %v, want 200", nota.BaseICMS)
	}
	if nota.ValorICMS != 36 {
		t.Errorf("valor_icms = %v, want 36", nota.ValorICMS)
	}
	if nota.ValorPIS != 1.3 {
		t.Errorf("valor_pis = %v, want 1.3", nota.ValorPIS)
	}
	if nota.ValorCOFINS != 6 {
		t.Errorf("valor_cofins = %v, want 6", nota.ValorCOFINS)
	}
	if nota.TributosAproximados != 43.3 {
		t.Errorf("tributos_aproximados = %v, want 43.3", nota.TributosAproximados)
	}
	if nota.TotalAmount != 205 {
		t.Errorf("total_amount = %v, want 205", nota.TotalAmount)
	}

	line := nota.Produtos[0]
	if line.AliquotaICMS != 18 {
		t.Errorf("line aliquota_icms = %v, want 18", line.AliquotaICMS)
	}
	if line.BaseCalculoICMS != 200 {
		t.Errorf("line base_calculo_icms = %v, want 200", line.BaseCalculoICMS)
	}
	if line.ValorICMS != 36 {
		t.Errorf("line valor_icms = %v, want 36", line.ValorICMS)
	}
}

func TestApplyTaxesIsIdempotent(t *testing.T) {
	nota := &models.NotaFiscal{
		Produtos: []models.ProdutoNFe{
			{Descricao: "Peso padrão 2kg M1", Quantidade: 2, ValorUnitario: 100},
			{Descricao: "Peso padrão 5kg M1", Quantidade: 1, ValorUnitario: 800},
		},
		OutrasDespesas: 20,
		Desconto:       50,
	}

	ApplyTaxes(nota, testSettings())
	first := *nota
	firstProdutos := append([]models.ProdutoNFe(nil), nota.Produtos...)

	ApplyTaxes(nota, testSettings())

	if !reflect.DeepEqual(first, *nota) {
		t.Errorf("second ApplyTaxes changed the invoice:\nfirst:  %+v\nsecond: %+v", first, *nota)
	}
	if !reflect.DeepEqual(firstProdutos, nota.Produtos) {
		t.Errorf("second ApplyTaxes changed the product lines:\nfirst:  %+v\nsecond: %+v", firstProdutos, nota.Produtos)
	}
}

func TestApplyTaxesKeepsExplicitLineRate(t *testing.T) {
	nota := &models.NotaFiscal{
		Produtos: []models.ProdutoNFe{
			{Descricao: "Peso padrão 2kg M1", Quantidade: 1, ValorUnitario: 100, AliquotaICMS: 12},
		},
	}

	ApplyTaxes(nota, testSettings())

	if nota.Produtos[0].AliquotaICMS != 12 {
		t.Errorf("line aliquota_icms = %v, want 12 (explicit rate kept)", nota.Produtos[0].AliquotaICMS)
	}
	if nota.Produtos[0].ValorICMS != 12 {
		t.Errorf("line valor_icms = %v, want 12", nota.Produtos[0].ValorICMS)
	}
}
