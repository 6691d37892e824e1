package models

// Tax regime values carried to the CRT code in the XML.
const (
	RegimeSimplesNacional = "simples_nacional"
	RegimeLucroPresumido  = "lucro_presumido"
	RegimeLucroReal       = "lucro_real"
)

// FiscalSettings is the issuer-wide configuration read by the tax
// engine and the XML builder. Loaded once per process from a JSON
// config file; read-only afterwards.
type FiscalSettings struct {
	RegimeTributario   string  `json:"regime_tributario"`
	CNPJEmitente       string  `json:"cnpj_emitente"`
	RazaoSocial        string  `json:"razao_social"`
	NomeFantasia       string  `json:"nome_fantasia,omitempty"`
	InscricaoEstadual  string  `json:"inscricao_estadual"`
	UF                 string  `json:"uf"`
	Municipio          string  `json:"municipio"`
	Endereco           string  `json:"endereco"`
	Bairro             string  `json:"bairro"`
	CEP                string  `json:"cep"`
	CodigoMunicipio    string  `json:"codigo_municipio"` // IBGE code
	CodigoUF           string  `json:"codigo_uf"`
	CNAEPrincipal      string  `json:"cnae_principal"`
	SerieNFe           string  `json:"serie_nfe"`  // ex: 1
	ModeloNFe          string  `json:"modelo_nfe"` // ex: 55
	CSOSNPadrao        string  `json:"csosn_padrao"`
	CFOPPadrao         string  `json:"cfop_padrao"`
	OrigemPadrao       string  `json:"origem_padrao"`
	AliquotaICMSPadrao float64 `json:"aliquota_icms_padrao"` // percent, ex: 18
	AliquotaPIS        float64 `json:"aliquota_pis"`         // percent, ex: 0.65
	AliquotaCOFINS     float64 `json:"aliquota_cofins"`      // percent, ex: 3
	CESTPadrao         string  `json:"cest_padrao,omitempty"`
}

// CRT returns the tax regime code used by the emit block of the XML.
func (s *FiscalSettings) CRT() string {
	if s.RegimeTributario == RegimeSimplesNacional {
		return "1"
	}
	return "3"
}
