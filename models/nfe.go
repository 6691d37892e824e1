package models

// StatusNFe is the lifecycle status of a fiscal invoice.
// rascunho -> aguardando -> autorizada, with cancelada reachable from
// any non-terminal status. autorizada and cancelada are terminal.
type StatusNFe string

const (
	StatusRascunho   StatusNFe = "rascunho"
	StatusAguardando StatusNFe = "aguardando"
	StatusPronta     StatusNFe = "pronta"
	StatusAutorizada StatusNFe = "autorizada"
	StatusCancelada  StatusNFe = "cancelada"
)

// Terminal reports whether no further transition is defined for s.
func (s StatusNFe) Terminal() bool {
	return s == StatusAutorizada || s == StatusCancelada
}

// ProdutoNFe is a product line of a fiscal invoice. Immutable once the
// invoice reaches autorizada.
type ProdutoNFe struct {
	Codigo          string  `json:"codigo,omitempty"`
	Descricao       string  `json:"descricao"`
	NCM             string  `json:"ncm"`
	CFOP            string  `json:"cfop"`
	CST             string  `json:"cst,omitempty"`
	Unidade         string  `json:"unidade,omitempty"`
	Quantidade      float64 `json:"quantidade"`
	ValorUnitario   float64 `json:"valor_unitario"`
	BaseCalculoICMS float64 `json:"base_calculo_icms"`
	ValorICMS       float64 `json:"valor_icms"`
	ValorIPI        float64 `json:"valor_ipi"`
	AliquotaICMS    float64 `json:"aliquota_icms"`
	AliquotaIPI     float64 `json:"aliquota_ipi"`
}

// Transportadora holds the optional carrier block of an invoice.
type Transportadora struct {
	Nome          string  `json:"nome"`
	CNPJ          string  `json:"cnpj"`
	IE            string  `json:"ie,omitempty"`
	Endereco      string  `json:"endereco"`
	Municipio     string  `json:"municipio"`
	UF            string  `json:"uf"`
	Especie       string  `json:"especie"`
	Marca         string  `json:"marca"`
	Quantidade    float64 `json:"quantidade"`
	PesoBruto     float64 `json:"peso_bruto"`
	PesoLiquido   float64 `json:"peso_liquido"`
	Placa         string  `json:"placa"`
	UFPlaca       string  `json:"uf_placa"`
	RNTC          string  `json:"rntc"`
	NumeroVolumes string  `json:"numero_volumes"`
	FretePorConta string  `json:"frete_por_conta"`
}

// NotaFiscal is a self-contained fiscal record. It may originate from
// an Order but carries its own identity, issuer/recipient data and tax
// aggregates once created.
type NotaFiscal struct {
	ID           int64     `json:"id"`
	NumeroNFe    string    `json:"numero_nfe"`
	Serie        string    `json:"serie"`
	TipoOperacao string    `json:"tipo_operacao"` // entrada | saida
	Status       StatusNFe `json:"status"`
	NaturezaOp   string    `json:"natureza_operacao"`

	DataEmissao string `json:"data_emissao"`
	DataSaida   string `json:"data_saida,omitempty"`
	HoraSaida   string `json:"hora_saida,omitempty"`

	CustomerName    string `json:"customer_name"`
	CustomerCpfCnpj string `json:"customer_cpf_cnpj"`
	CustomerIE      string `json:"customer_ie,omitempty"`
	CustomerEnd     string `json:"customer_endereco"`
	CustomerBairro  string `json:"customer_bairro"`
	CustomerCidade  string `json:"customer_cidade"`
	CustomerUF      string `json:"customer_uf"`
	CustomerCEP     string `json:"customer_cep"`
	CustomerFone    string `json:"customer_fone,omitempty"`

	Seller         string `json:"seller"`
	SellerCNPJ     string `json:"seller_cnpj"`
	SellerIE       string `json:"seller_ie,omitempty"`
	SellerIEST     string `json:"seller_ie_st,omitempty"`
	SellerIM       string `json:"seller_im,omitempty"`
	SellerEndereco string `json:"seller_endereco"`
	SellerCidade   string `json:"seller_cidade"`
	SellerUF       string `json:"seller_uf"`
	SellerBairro   string `json:"seller_bairro"`
	SellerCEP      string `json:"seller_cep"`
	SellerFone     string `json:"seller_fone,omitempty"`

	ChaveAcesso string `json:"chave_acesso"`
	Protocolo   string `json:"protocolo,omitempty"`

	TotalAmount         float64 `json:"total_amount"`
	ProdutosTotal       float64 `json:"produtos_total"`
	BaseICMS            float64 `json:"base_icms"`
	ValorICMS           float64 `json:"valor_icms"`
	ValorPIS            float64 `json:"valor_pis"`
	ValorCOFINS         float64 `json:"valor_cofins"`
	ValorIPI            float64 `json:"valor_ipi"`
	ValorFrete          float64 `json:"valor_frete"`
	ValorSeguro         float64 `json:"valor_seguro"`
	Desconto            float64 `json:"desconto"`
	OutrasDespesas      float64 `json:"outras_despesas"`
	TributosAproximados float64 `json:"tributos_aproximados"`

	PaymentMethod string        `json:"payment_method"`
	SaleDate      string        `json:"sale_date"`
	Installments  []Installment `json:"installments,omitempty"`

	Produtos       []ProdutoNFe    `json:"produtos"`
	Transportadora *Transportadora `json:"transportadora,omitempty"`

	InformacoesAdicionais string `json:"informacoes_adicionais,omitempty"`
	Observations          string `json:"observations,omitempty"`
	CreatedDate           string `json:"created_date"`
}
