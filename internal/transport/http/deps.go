package http

import (
	"context"
	"io"
	"time"

	"github.com/ro-service/api/internal/domain"
)

// CustomerRepository is the minimal interface the router requires from a customer store.
type CustomerRepository interface {
	Put(ctx context.Context, c *domain.Customer) error
	Get(ctx context.Context, customerID string) (*domain.Customer, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error)
	Update(ctx context.Context, customerID string, updates map[string]interface{}) error
	Delete(ctx context.Context, customerID string) error
	List(ctx context.Context, technicianID string) ([]domain.Customer, error)
}

// RecordRepository is the minimal interface the router requires from a service record store.
type RecordRepository interface {
	Put(ctx context.Context, r *domain.ServiceRecord) error
	Get(ctx context.Context, recordID string) (*domain.ServiceRecord, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.ServiceRecord, error)
	Update(ctx context.Context, recordID string, updates map[string]interface{}) error
	Delete(ctx context.Context, recordID string) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.ServiceRecord, error)
	DeleteByCustomer(ctx context.Context, customerID string) (int, error)
	ListNextServiceFrom(ctx context.Context, from time.Time) ([]domain.ServiceRecord, error)
}

// NotificationRepository is the minimal interface the router requires from the notification log.
type NotificationRepository interface {
	List(ctx context.Context) ([]domain.NotificationLog, error)
}

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}
