package service

import (
	"encoding/xml"
	"fmt"
	"time"

	"gestao-pesos/models"
	"gestao-pesos/utils"
)

// XMLService serializes orders and fiscal invoices into the nfeProc
// document hierarchy. Pure serialization: deterministic for a given
// input (apart from the emission timestamp of a plain order) and free
// of side effects.
type XMLService struct{}

// NewXMLService creates a new XMLService
func NewXMLService() *XMLService {
	return &XMLService{}
}

// Ensure XMLService implements XMLServiceInterface
var _ XMLServiceInterface = (*XMLService)(nil)

const nfeNamespace = "http://www.portalfiscal.inf.br/nfe"

// Node hierarchy of the generated document. Numeric fields are carried
// as pre-formatted strings so every value serializes with exactly two
// decimal places.
type nfeProc struct {
	XMLName xml.Name `xml:"nfeProc"`
	Xmlns   string   `xml:"xmlns,attr"`
	Versao  string   `xml:"versao,attr"`
	NFe     nfeNode  `xml:"NFe"`
}

type nfeNode struct {
	InfNFe infNFeNode `xml:"infNFe"`
}

type infNFeNode struct {
	ID     string     `xml:"Id,attr"`
	Versao string     `xml:"versao,attr"`
	Ide    ideNode    `xml:"ide"`
	Emit   emitNode   `xml:"emit"`
	Dest   destNode   `xml:"dest"`
	Det    []detNode  `xml:"det"`
	Total  totalNode  `xml:"total"`
}

type ideNode struct {
	CUF    string `xml:"cUF"`
	NatOp  string `xml:"natOp"`
	Mod    string `xml:"mod"`
	Serie  string `xml:"serie"`
	NNF    string `xml:"nNF"`
	DhEmi  string `xml:"dhEmi"`
	TpNF   string `xml:"tpNF"`
	IdDest string `xml:"idDest"`
}

type enderNode struct {
	XLgr    string `xml:"xLgr"`
	Nro     string `xml:"nro"`
	XBairro string `xml:"xBairro"`
	CMun    string `xml:"cMun"`
	XMun    string `xml:"xMun"`
	UF      string `xml:"UF"`
	CEP     string `xml:"CEP"`
	CPais   string `xml:"cPais"`
	XPais   string `xml:"xPais"`
}

type emitNode struct {
	CNPJ      string    `xml:"CNPJ"`
	XNome     string    `xml:"xNome"`
	XFant     string    `xml:"xFant"`
	IE        string    `xml:"IE"`
	CRT       string    `xml:"CRT"`
	EnderEmit enderNode `xml:"enderEmit"`
}

type destNode struct {
	CNPJ      string    `xml:"CNPJ,omitempty"`
	CPF       string    `xml:"CPF,omitempty"`
	XNome     string    `xml:"xNome"`
	IndIEDest string    `xml:"indIEDest"`
	EnderDest enderNode `xml:"enderDest"`
}

type detNode struct {
	NItem   string      `xml:"nItem,attr"`
	Prod    prodNode    `xml:"prod"`
	Imposto impostoNode `xml:"imposto"`
}

type prodNode struct {
	CProd   string `xml:"cProd"`
	XProd   string `xml:"xProd"`
	NCM     string `xml:"NCM"`
	CFOP    string `xml:"CFOP"`
	UCom    string `xml:"uCom"`
	QCom    string `xml:"qCom"`
	VUnCom  string `xml:"vUnCom"`
	VProd   string `xml:"vProd"`
	UTrib   string `xml:"uTrib"`
	QTrib   string `xml:"qTrib"`
	VUnTrib string `xml:"vUnTrib"`
	IndTot  string `xml:"indTot"`
}

type impostoNode struct {
	ICMS icmsNode `xml:"ICMS"`
}

type icmsNode struct {
	ICMSSN102 icmsSN102Node `xml:"ICMSSN102"`
}

type icmsSN102Node struct {
	Orig  string `xml:"orig"`
	CSOSN string `xml:"CSOSN"`
}

type totalNode struct {
	ICMSTot icmsTotNode `xml:"ICMSTot"`
}

type icmsTotNode struct {
	VBC    string `xml:"vBC"`
	VICMS  string `xml:"vICMS"`
	VProd  string `xml:"vProd"`
	VFrete string `xml:"vFrete"`
	VDesc  string `xml:"vDesc"`
	VOutro string `xml:"vOutro"`
	VNF    string `xml:"vNF"`
}

// Build serializes an order plus the issuer settings into the fiscal
// XML document. Every order item becomes exactly one det node, in the
// original order. Aggregate vBC/vICMS are emitted as literal zero.
func (s *XMLService) Build(order *models.Order, settings *models.FiscalSettings) (string, error) {
	doc := s.envelope(settings)
	ide := &doc.NFe.InfNFe.Ide
	ide.NNF = fmt.Sprintf("%d", order.ID)
	ide.DhEmi = time.Now().Format(time.RFC3339)

	doc.NFe.InfNFe.Dest = buildDest(order.CustomerCpfCnpj, order.CustomerName, "", "", "", "")

	for i, item := range order.Items {
		doc.NFe.InfNFe.Det = append(doc.NFe.InfNFe.Det, detNode{
			NItem: fmt.Sprintf("%d", i+1),
			Prod: prodNode{
				CProd:   item.ProductID,
				XProd:   item.ProductName,
				NCM:     "",
				CFOP:    settings.CFOPPadrao,
				UCom:    "UN",
				QCom:    money(item.Quantity),
				VUnCom:  money(item.UnitPrice),
				VProd:   money(item.TotalPrice),
				UTrib:   "UN",
				QTrib:   money(item.Quantity),
				VUnTrib: money(item.UnitPrice),
				IndTot:  "1",
			},
			Imposto: impostoNode{ICMS: icmsNode{ICMSSN102: icmsSN102Node{
				Orig:  settings.OrigemPadrao,
				CSOSN: settings.CSOSNPadrao,
			}}},
		})
	}

	doc.NFe.InfNFe.Total = totalNode{ICMSTot: icmsTotNode{
		VBC:    money(0),
		VICMS:  money(0),
		VProd:  money(order.Subtotal),
		VFrete: money(order.ShippingCost),
		VDesc:  money(order.DiscountTotal),
		VOutro: money(order.AdditionalCost),
		VNF:    money(order.TotalAmount),
	}}

	return marshalDoc(doc)
}

// BuildFromNota serializes a fiscal invoice, used by the XML export
// action. The invoice's own identity (number, series, emission date,
// access key) takes precedence over the settings defaults.
func (s *XMLService) BuildFromNota(nota *models.NotaFiscal, settings *models.FiscalSettings) (string, error) {
	doc := s.envelope(settings)
	ide := &doc.NFe.InfNFe.Ide
	ide.NNF = nota.NumeroNFe
	if nota.Serie != "" {
		ide.Serie = nota.Serie
	}
	if nota.NaturezaOp != "" {
		ide.NatOp = nota.NaturezaOp
	}
	if nota.DataEmissao != "" {
		ide.DhEmi = nota.DataEmissao
	} else {
		ide.DhEmi = time.Now().Format(time.RFC3339)
	}
	if nota.TipoOperacao == "entrada" {
		ide.TpNF = "0"
	}
	if nota.ChaveAcesso != "" {
		doc.NFe.InfNFe.ID = "NFe" + nota.ChaveAcesso
	}

	doc.NFe.InfNFe.Dest = buildDest(nota.CustomerCpfCnpj, nota.CustomerName,
		nota.CustomerEnd, nota.CustomerBairro, nota.CustomerCidade, nota.CustomerUF)
	if nota.CustomerCEP != "" {
		doc.NFe.InfNFe.Dest.EnderDest.CEP = nota.CustomerCEP
	}

	for i, p := range nota.Produtos {
		cfop := p.CFOP
		if cfop == "" {
			cfop = settings.CFOPPadrao
		}
		unidade := p.Unidade
		if unidade == "" {
			unidade = "UN"
		}
		doc.NFe.InfNFe.Det = append(doc.NFe.InfNFe.Det, detNode{
			NItem: fmt.Sprintf("%d", i+1),
			Prod: prodNode{
				CProd:   p.Codigo,
				XProd:   p.Descricao,
				NCM:     p.NCM,
				CFOP:    cfop,
				UCom:    unidade,
				QCom:    money(p.Quantidade),
				VUnCom:  money(p.ValorUnitario),
				VProd:   money(p.Quantidade * p.ValorUnitario),
				UTrib:   unidade,
				QTrib:   money(p.Quantidade),
				VUnTrib: money(p.ValorUnitario),
				IndTot:  "1",
			},
			Imposto: impostoNode{ICMS: icmsNode{ICMSSN102: icmsSN102Node{
				Orig:  settings.OrigemPadrao,
				CSOSN: settings.CSOSNPadrao,
			}}},
		})
	}

	doc.NFe.InfNFe.Total = totalNode{ICMSTot: icmsTotNode{
		VBC:    money(0),
		VICMS:  money(0),
		VProd:  money(nota.ProdutosTotal),
		VFrete: money(nota.ValorFrete),
		VDesc:  money(nota.Desconto),
		VOutro: money(nota.OutrasDespesas),
		VNF:    money(nota.TotalAmount),
	}}

	return marshalDoc(doc)
}

// envelope builds the document skeleton shared by both entry points:
// namespace, version, ide defaults and the emit block from settings.
func (s *XMLService) envelope(settings *models.FiscalSettings) *nfeProc {
	return &nfeProc{
		Xmlns:  nfeNamespace,
		Versao: "4.00",
		NFe: nfeNode{InfNFe: infNFeNode{
			Versao: "4.00",
			Ide: ideNode{
				CUF:    defaultStr(settings.CodigoUF, "35"),
				NatOp:  "VENDA DE MERCADORIA",
				Mod:    settings.ModeloNFe,
				Serie:  settings.SerieNFe,
				TpNF:   "1",
				IdDest: "1",
			},
			Emit: emitNode{
				CNPJ:  utils.DigitsOnly(settings.CNPJEmitente),
				XNome: settings.RazaoSocial,
				XFant: defaultStr(settings.NomeFantasia, settings.RazaoSocial),
				IE:    settings.InscricaoEstadual,
				CRT:   settings.CRT(),
				EnderEmit: enderNode{
					XLgr:    defaultStr(settings.Endereco, "Rua Exemplo"),
					Nro:     "123",
					XBairro: defaultStr(settings.Bairro, "Centro"),
					CMun:    defaultStr(settings.CodigoMunicipio, "3550308"),
					XMun:    settings.Municipio,
					UF:      settings.UF,
					CEP:     defaultStr(utils.DigitsOnly(settings.CEP), "01001000"),
					CPais:   "1058",
					XPais:   "BRASIL",
				},
			},
		}},
	}
}

func buildDest(cpfCnpj, name, endereco, bairro, cidade, uf string) destNode {
	dest := destNode{
		XNome:     name,
		IndIEDest: "9",
		EnderDest: enderNode{
			XLgr:    defaultStr(endereco, "Rua Cliente"),
			Nro:     "456",
			XBairro: defaultStr(bairro, "Bairro Cliente"),
			CMun:    "3550308",
			XMun:    defaultStr(cidade, "São Paulo"),
			UF:      defaultStr(uf, "SP"),
			CEP:     "01002000",
			CPais:   "1058",
			XPais:   "BRASIL",
		},
	}
	digits := utils.DigitsOnly(cpfCnpj)
	if len(digits) == 14 {
		dest.CNPJ = digits
	} else {
		dest.CPF = digits
	}
	return dest
}

func marshalDoc(doc *nfeProc) (string, error) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal nfe document: %w", err)
	}
	return xml.Header + string(out), nil
}

// money renders a monetary or quantity value with exactly two decimal
// places, as required by every numeric field of the document.
func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
