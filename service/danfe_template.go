package service

import (
	"fmt"
	"html"
	"strings"

	"gestao-pesos/models"
	"gestao-pesos/utils"
)

// TemplateSegment is one piece of a parsed document template: either a
// literal run of text or a single bracketed placeholder token.
type TemplateSegment struct {
	Literal string
	Token   string
}

// ParseTemplate splits template text into an ordered list of literal
// and placeholder segments. A placeholder is a bracketed token made of
// lowercase letters, digits and underscores, e.g. [nl_invoice]. Any
// bracket pair that does not form a valid token stays literal, so a
// token can never match part of another.
func ParseTemplate(text string) []TemplateSegment {
	var segments []TemplateSegment
	for len(text) > 0 {
		open := strings.IndexByte(text, '[')
		if open < 0 {
			segments = append(segments, TemplateSegment{Literal: text})
			break
		}
		close := strings.IndexByte(text[open:], ']')
		if close < 0 {
			segments = append(segments, TemplateSegment{Literal: text})
			break
		}
		token := text[open+1 : open+close]
		if !validToken(token) {
			segments = append(segments, TemplateSegment{Literal: text[:open+1]})
			text = text[open+1:]
			continue
		}
		if open > 0 {
			segments = append(segments, TemplateSegment{Literal: text[:open]})
		}
		segments = append(segments, TemplateSegment{Token: token})
		text = text[open+close+1:]
	}
	return segments
}

func validToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

// FillTemplate renders the segments against the token map. Tokens with
// no value resolve to an empty string, never an error.
func FillTemplate(segments []TemplateSegment, values map[string]string) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Token == "" {
			b.WriteString(seg.Literal)
			continue
		}
		b.WriteString(values[seg.Token])
	}
	return b.String()
}

// rawTokens carry markup built by us and are not HTML-escaped when the
// token map is assembled.
var rawTokens = map[string]bool{
	"items":     true,
	"watermark": true,
}

// BuildTokenMap assembles the token -> value substitution map for a
// fiscal invoice: identity and address fields, formatted dates,
// localized monetary values, punctuated CPF/CNPJ, the expanded item
// rows and the fiscal-validity block. Invoices that are not
// autorizada get the SEM VALOR FISCAL watermark and an empty access
// key/protocol block.
func BuildTokenMap(nota *models.NotaFiscal, settings *models.FiscalSettings) map[string]string {
	values := map[string]string{
		"nl_invoice":               nota.NumeroNFe,
		"nl_serie":                 nota.Serie,
		"tp_operacao":              nota.TipoOperacao,
		"ds_natureza_operacao":     nota.NaturezaOp,
		"dt_emissao":               utils.FormatDate(nota.DataEmissao),
		"dt_saida":                 utils.FormatDate(nota.DataSaida),
		"ds_company_issuer_name":   issuerName(nota, settings),
		"nr_company_issuer_cnpj":   utils.FormatCpfCnpj(issuerCNPJ(nota, settings)),
		"ds_company_issuer_ie":     issuerIE(nota, settings),
		"ds_company_issuer_addr":   issuerAddress(nota, settings),
		"ds_customer_name":         nota.CustomerName,
		"nr_customer_cpf_cnpj":     utils.FormatCpfCnpj(nota.CustomerCpfCnpj),
		"ds_customer_ie":           nota.CustomerIE,
		"ds_customer_addr":         joinNonEmpty(", ", nota.CustomerEnd, nota.CustomerBairro),
		"ds_customer_city":         joinNonEmpty(" - ", nota.CustomerCidade, nota.CustomerUF),
		"nr_customer_cep":          nota.CustomerCEP,
		"ds_payment_method":        paymentLabel(nota.PaymentMethod),
		"vl_products":              utils.FormatMoney(nota.ProdutosTotal),
		"vl_icms_base":             utils.FormatMoney(nota.BaseICMS),
		"vl_icms":                  utils.FormatMoney(nota.ValorICMS),
		"vl_pis":                   utils.FormatMoney(nota.ValorPIS),
		"vl_cofins":                utils.FormatMoney(nota.ValorCOFINS),
		"vl_ipi":                   utils.FormatMoney(nota.ValorIPI),
		"vl_freight":               utils.FormatMoney(nota.ValorFrete),
		"vl_insurance":             utils.FormatMoney(nota.ValorSeguro),
		"vl_discount":              utils.FormatMoney(nota.Desconto),
		"vl_other":                 utils.FormatMoney(nota.OutrasDespesas),
		"vl_taxes_approx":          utils.FormatMoney(nota.TributosAproximados),
		"vl_total":                 utils.FormatMoney(nota.TotalAmount),
		"ds_informacoes_adicionais": nota.InformacoesAdicionais,
	}

	if nota.Status == models.StatusAutorizada {
		values["nl_chave_acesso"] = nota.ChaveAcesso
		values["nl_protocolo"] = nota.Protocolo
		values["watermark"] = ""
	} else {
		// Only an authorized invoice shows the official access-key and
		// protocol block; anything else is visibly marked invalid.
		values["nl_chave_acesso"] = ""
		values["nl_protocolo"] = ""
		values["watermark"] = `<div class="watermark">SEM VALOR FISCAL</div>`
	}

	for token, value := range values {
		if !rawTokens[token] {
			values[token] = html.EscapeString(value)
		}
	}
	values["items"] = expandItems(nota.Produtos)
	return values
}

// expandItems renders one table row per product line, in order.
func expandItems(produtos []models.ProdutoNFe) string {
	var b strings.Builder
	for _, p := range produtos {
		unidade := p.Unidade
		if unidade == "" {
			unidade = "UN"
		}
		b.WriteString("<tr>")
		b.WriteString("<td>" + html.EscapeString(p.Codigo) + "</td>")
		b.WriteString("<td>" + html.EscapeString(p.Descricao) + "</td>")
		b.WriteString("<td>" + html.EscapeString(p.NCM) + "</td>")
		b.WriteString("<td>" + html.EscapeString(p.CFOP) + "</td>")
		b.WriteString("<td>" + html.EscapeString(unidade) + "</td>")
		b.WriteString("<td>" + fmt.Sprintf("%.2f", p.Quantidade) + "</td>")
		b.WriteString("<td>" + html.EscapeString(utils.FormatMoney(p.ValorUnitario)) + "</td>")
		b.WriteString("<td>" + html.EscapeString(utils.FormatMoney(p.Quantidade*p.ValorUnitario)) + "</td>")
		b.WriteString("</tr>\n")
	}
	return b.String()
}

func issuerName(nota *models.NotaFiscal, settings *models.FiscalSettings) string {
	if nota.Seller != "" {
		return nota.Seller
	}
	return settings.RazaoSocial
}

func issuerCNPJ(nota *models.NotaFiscal, settings *models.FiscalSettings) string {
	if nota.SellerCNPJ != "" {
		return nota.SellerCNPJ
	}
	return settings.CNPJEmitente
}

func issuerIE(nota *models.NotaFiscal, settings *models.FiscalSettings) string {
	if nota.SellerIE != "" {
		return nota.SellerIE
	}
	return settings.InscricaoEstadual
}

func issuerAddress(nota *models.NotaFiscal, settings *models.FiscalSettings) string {
	addr := joinNonEmpty(", ", nota.SellerEndereco, nota.SellerBairro)
	city := joinNonEmpty(" - ", nota.SellerCidade, nota.SellerUF)
	if addr == "" && city == "" {
		addr = settings.Endereco
		city = joinNonEmpty(" - ", settings.Municipio, settings.UF)
	}
	return joinNonEmpty(", ", addr, city)
}

var paymentLabels = map[string]string{
	models.PaymentBoleto:        "Boleto Bancário",
	models.PaymentPix:           "PIX",
	models.PaymentCartaoCredito: "Cartão de Crédito",
	models.PaymentCartaoDebito:  "Cartão de Débito",
}

func paymentLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
