package reminder

import (
	"context"
	"time"

	"github.com/ro-service/api/internal/channel"
	"github.com/ro-service/api/internal/domain"
)

type recordStore interface {
	ListNextServiceBetween(ctx context.Context, from, to time.Time) ([]domain.ServiceRecord, error)
	MarkNotified(ctx context.Context, recordID string, at time.Time) error
}

type customerStore interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error)
}

type logStore interface {
	ExistsBetween(ctx context.Context, recordID string, from, to time.Time) (bool, error)
	Create(ctx context.Context, n *domain.NotificationLog) error
}

// SMSSender and EmailSender are satisfied by channel.SMS and channel.Email.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) channel.Result
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) channel.Result
}
