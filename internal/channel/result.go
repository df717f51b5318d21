// Package channel holds the SMS and email adapters used by the reminder job.
// Adapters never return Go errors: every outcome, including a missing
// transport, is reported as a Result.
package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/ro-service/api/internal/domain"
)

// ErrorKind categorises a failed delivery.
type ErrorKind string

const (
	KindNotConfigured    ErrorKind = "not_configured"
	KindInvalidRecipient ErrorKind = "invalid_recipient"
	KindRejected         ErrorKind = "rejected"
	KindTimeout          ErrorKind = "timeout"
	KindTransport        ErrorKind = "transport"
)

// ErrRejected is wrapped by transports when the provider answered but
// refused the message.
var ErrRejected = errors.New("provider rejected message")

// ErrNotConfigured is returned by transport constructors missing credentials.
var ErrNotConfigured = errors.New("not configured")

// Result is the outcome of one send. OK results carry Provider and
// MessageID, failed ones carry Kind and Detail.
type Result struct {
	OK        bool
	Provider  string
	MessageID string
	Kind      ErrorKind
	Detail    string
}

func Sent(provider, messageID string) Result {
	return Result{OK: true, Provider: provider, MessageID: messageID}
}

func Failed(kind ErrorKind, detail string) Result {
	return Result{Kind: kind, Detail: detail}
}

// Outcome converts r into the shape stored on a notification log entry.
func (r Result) Outcome() *domain.ChannelOutcome {
	if r.OK {
		return &domain.ChannelOutcome{Status: domain.StatusSent, Provider: r.Provider, MessageID: r.MessageID}
	}
	return &domain.ChannelOutcome{Status: domain.StatusFailed, Provider: r.Provider, ErrorKind: string(r.Kind), Error: r.Detail}
}

// classify maps a transport error onto a failed Result.
func classify(provider string, err error) Result {
	var res Result
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		res = Failed(KindTimeout, fmt.Sprintf("%s timed out: %v", provider, err))
	case errors.Is(err, ErrRejected):
		res = Failed(KindRejected, err.Error())
	default:
		res = Failed(KindTransport, err.Error())
	}
	res.Provider = provider
	return res
}
