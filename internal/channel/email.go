package channel

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/ro-service/api/internal/pkg/logger"
)

// Mail is one outgoing message with a plain-text and an HTML part.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a Mail through one email relay.
type Mailer interface {
	Name() string
	SendMail(ctx context.Context, m Mail) (messageID string, err error)
}

var htmlBody = template.Must(template.New("reminder").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">RO Service Reminder</h2>
  <div style="background: #f3f4f6; padding: 20px; border-radius: 8px;">
    <pre style="white-space: pre-wrap; font-family: monospace;">{{.}}</pre>
  </div>
  <p style="color: #6b7280; font-size: 12px; margin-top: 20px;">
    This is an automated message from RO Maintenance System
  </p>
</div>
`))

// RenderHTML wraps a plain-text body in the reminder HTML template.
func RenderHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := htmlBody.Execute(&buf, body); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type Email struct {
	mailer  Mailer
	timeout time.Duration
	log     *zap.Logger
}

// NewEmail builds the adapter. A nil mailer makes every send a
// not_configured failure.
func NewEmail(mailer Mailer, timeout time.Duration, log *zap.Logger) *Email {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Email{mailer: mailer, timeout: timeout, log: logger.OrNop(log)}
}

func (e *Email) Send(ctx context.Context, to, subject, body string) (res Result) {
	if e.mailer == nil {
		e.log.Warn("email transport not configured")
		return Failed(KindNotConfigured, "email credentials not configured")
	}
	provider := e.mailer.Name()
	defer func() {
		if p := recover(); p != nil {
			e.log.Error("email transport panicked", zap.String("provider", provider), zap.Any("panic", p))
			res = Failed(KindTransport, fmt.Sprintf("%s: unexpected failure: %v", provider, p))
			res.Provider = provider
		}
	}()

	html, err := RenderHTML(body)
	if err != nil {
		res = Failed(KindTransport, fmt.Sprintf("render html: %v", err))
		res.Provider = provider
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	msgID, err := e.mailer.SendMail(ctx, Mail{To: to, Subject: subject, Text: body, HTML: html})
	if err != nil {
		e.log.Warn("email send failed", zap.String("provider", provider), zap.String("to", to), zap.Error(err))
		return classify(provider, err)
	}
	e.log.Info("email sent", zap.String("provider", provider), zap.String("to", to), zap.String("message_id", msgID))
	return Sent(provider, msgID)
}
