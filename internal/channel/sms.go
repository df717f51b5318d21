package channel

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/ro-service/api/internal/pkg/logger"
)

// SMSTransport delivers one SMS to a 10-digit local number. Implementations
// add whatever country prefix their provider needs.
type SMSTransport interface {
	Name() string
	SendSMS(ctx context.Context, number, message string) (messageID string, err error)
}

type SMSOptions struct {
	CountryCode string // literal prefix stripped before validation, e.g. "+91"
	MaxLength   int
	Timeout     time.Duration
}

// SMS normalises, validates and truncates before handing off to the transport.
type SMS struct {
	transport SMSTransport
	opts      SMSOptions
	log       *zap.Logger
}

// NewSMS builds the adapter. A nil transport is allowed and makes every send
// a not_configured failure.
func NewSMS(transport SMSTransport, opts SMSOptions, log *zap.Logger) *SMS {
	if opts.MaxLength <= 0 {
		opts.MaxLength = 500
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &SMS{transport: transport, opts: opts, log: logger.OrNop(log)}
}

func (s *SMS) Send(ctx context.Context, phone, message string) (res Result) {
	if s.transport == nil {
		s.log.Warn("sms transport not configured")
		return Failed(KindNotConfigured, "SMS gateway API key not configured")
	}
	provider := s.transport.Name()
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("sms transport panicked", zap.String("provider", provider), zap.Any("panic", p))
			res = Failed(KindTransport, fmt.Sprintf("%s: unexpected failure: %v", provider, p))
			res.Provider = provider
		}
	}()

	number, ok := NormalizePhone(phone, s.opts.CountryCode)
	if !ok {
		res = Failed(KindInvalidRecipient, "Invalid phone number format")
		res.Provider = provider
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	msgID, err := s.transport.SendSMS(ctx, number, Truncate(message, s.opts.MaxLength))
	if err != nil {
		s.log.Warn("sms send failed", zap.String("provider", provider), zap.String("number", number), zap.Error(err))
		return classify(provider, err)
	}
	s.log.Info("sms sent", zap.String("provider", provider), zap.String("number", number), zap.String("message_id", msgID))
	return Sent(provider, msgID)
}

// NormalizePhone strips the literal country-code prefix and every non-digit,
// reporting whether exactly 10 digits remain.
func NormalizePhone(phone, countryCode string) (string, bool) {
	phone = strings.TrimSpace(phone)
	if countryCode != "" {
		phone = strings.TrimPrefix(phone, countryCode)
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
	return digits, len(digits) == 10
}

// Truncate cuts message to at most max runes.
func Truncate(message string, max int) string {
	runes := []rune(message)
	if len(runes) <= max {
		return message
	}
	return string(runes[:max])
}
