// Package twilio sends SMS through the Twilio Messages API.
package twilio

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/ro-service/api/internal/channel"
)

type Config struct {
	AccountSID  string
	AuthToken   string
	FromNumber  string
	CountryCode string
}

// messageCreator is the slice of the Twilio REST API the sender needs.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Sender implements channel.SMSTransport.
type Sender struct {
	api         messageCreator
	from        string
	countryCode string
}

func New(cfg Config) (*Sender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, fmt.Errorf("twilio: %w", channel.ErrNotConfigured)
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Sender{api: client.Api, from: cfg.FromNumber, countryCode: cfg.CountryCode}, nil
}

func (s *Sender) Name() string { return "twilio" }

type result struct {
	sid string
	err error
}

// SendSMS sends message to a 10-digit local number. The Twilio client has no
// context support, so the call runs in its own goroutine and is abandoned
// when ctx ends.
func (s *Sender) SendSMS(ctx context.Context, number, message string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(s.countryCode + number)
	params.SetFrom(s.from)
	params.SetBody(message)

	done := make(chan result, 1)
	go func() {
		resp, err := s.api.CreateMessage(params)
		if err != nil {
			done <- result{err: err}
			return
		}
		sid := ""
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		done <- result{sid: sid}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			var restErr *twilioclient.TwilioRestError
			if errors.As(r.err, &restErr) && restErr.Status >= 400 && restErr.Status < 500 {
				return "", fmt.Errorf("%w: %s", channel.ErrRejected, restErr.Message)
			}
			return "", fmt.Errorf("twilio create message: %w", r.err)
		}
		return r.sid, nil
	}
}
