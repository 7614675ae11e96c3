package email

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/sentinel-ews/sentinel/internal/config"
)

// SMTPProvider delivers mail over plain SMTP with optional auth. Each
// message is sent as multipart/alternative with text and HTML parts.
type SMTPProvider struct {
	addr     string
	host     string
	username string
	password string
	from     string
	log      *zap.Logger
}

func NewSMTP(cfg config.Config, log *zap.Logger) *SMTPProvider {
	return &SMTPProvider{
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		host:     cfg.SMTPHost,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		log:      log.Named("email.smtp"),
	}
}

func (p *SMTPProvider) Send(ctx context.Context, to []string, subject, textBody, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := p.buildMessage(to, subject, textBody, htmlBody)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	var auth smtp.Auth
	if p.username != "" {
		auth = smtp.PlainAuth("", p.username, p.password, p.host)
	}

	if err := smtp.SendMail(p.addr, auth, p.from, to, msg); err != nil {
		p.log.Error("smtp send failed",
			zap.Strings("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (p *SMTPProvider) buildMessage(to []string, subject, textBody, htmlBody string) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", p.from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", writer.Boundary())
	buf.WriteString("\r\n")

	// Plain text first so clients prefer the HTML alternative.
	if err := writePart(writer, "text/plain; charset=UTF-8", textBody); err != nil {
		return nil, err
	}
	if err := writePart(writer, "text/html; charset=UTF-8", htmlBody); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(writer *multipart.Writer, contentType, body string) error {
	header := map[string][]string{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}
