package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime/multipart"
	"net/textproto"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// LogEmailService is the simulated sender: it only logs the composed
// message and never transmits anything.
type LogEmailService struct{}

// NewLogEmailService creates a new LogEmailService
func NewLogEmailService() *LogEmailService {
	return &LogEmailService{}
}

// Ensure LogEmailService implements EmailServiceInterface
var _ EmailServiceInterface = (*LogEmailService)(nil)

// Send logs the message instead of delivering it.
func (s *LogEmailService) Send(_ context.Context, msg *EmailMessage) error {
	log.Printf("📧 Send (simulated): to=%s subject=%q attachments=%d", msg.To, msg.Subject, len(msg.Attachments))
	for _, a := range msg.Attachments {
		log.Printf("   📎 %s (%s, %d bytes)", a.Filename, a.MimeType, len(a.Data))
	}
	return nil
}

// GmailEmailService delivers messages through the Gmail API using a
// Service Account credentials file.
type GmailEmailService struct {
	client *gmail.Service
	from   string
}

// NewGmailEmailService creates a new GmailEmailService
// credentialsPath should be the path to the Service Account JSON file
func NewGmailEmailService(credentialsPath, from string) (*GmailEmailService, error) {
	ctx := context.Background()

	gmailService, err := gmail.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(gmail.GmailSendScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailEmailService{
		client: gmailService,
		from:   from,
	}, nil
}

// Ensure GmailEmailService implements EmailServiceInterface
var _ EmailServiceInterface = (*GmailEmailService)(nil)

// Send composes an RFC 822 message with the attachments and submits it
// through the authenticated account.
func (s *GmailEmailService) Send(ctx context.Context, msg *EmailMessage) error {
	raw, err := buildMime(s.from, msg)
	if err != nil {
		return fmt.Errorf("failed to compose message: %w", err)
	}

	gm := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	if _, err := s.client.Users.Messages.Send("me", gm).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("✅ Send: email delivered to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

// buildMime renders the message as a multipart/mixed MIME document.
func buildMime(from string, msg *EmailMessage) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	body, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	for _, a := range msg.Attachments {
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.MimeType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
		})
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(a.Data)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
