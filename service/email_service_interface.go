package service

import (
	"context"

	"gestao-pesos/models"
)

// EmailAttachment is one file attached to an outgoing message.
type EmailAttachment struct {
	Filename string
	MimeType string
	Data     []byte
}

// EmailMessage is a composed outgoing e-mail.
type EmailMessage struct {
	To          string
	Subject     string
	Body        string
	Attachments []EmailAttachment
}

// EmailServiceInterface defines the contract for the e-mail-sending
// collaborator that delivers the DANFE and XML to the customer.
type EmailServiceInterface interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// ComposeDanfeEmail builds the standard DANFE delivery message with
// the PDF and XML attached.
func ComposeDanfeEmail(nota *models.NotaFiscal, to string, pdf, xml []byte) *EmailMessage {
	return &EmailMessage{
		To:      to,
		Subject: "DANFE da NF-e " + nota.NumeroNFe,
		Body:    "Segue em anexo a DANFE e o XML da sua nota fiscal.",
		Attachments: []EmailAttachment{
			{Filename: DanfeFileName(nota), MimeType: "application/pdf", Data: pdf},
			{Filename: XMLFileName(nota), MimeType: "application/xml", Data: xml},
		},
	}
}
