package technician

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ro-service/api/internal/domain"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName  = "name"
	fieldEmail = "email"
	fieldPhone = "phone"
)

type Service interface {
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, req domain.UpdateUserRequest) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListByRole(ctx, domain.RoleTechnician)
}

// UpdateProfile edits the caller's own account.
func (s *service) UpdateProfile(ctx context.Context, actor domain.Actor, req domain.UpdateUserRequest) (*domain.User, error) {
	return s.apply(ctx, actor.UserID, req)
}

// Update edits a technician account. Admin accounts cannot be modified.
func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if _, err := s.technician(ctx, userID); err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, req)
}

// Delete removes a technician account. Their customers keep the technician id.
func (s *service) Delete(ctx context.Context, userID string) error {
	if _, err := s.technician(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}

func (s *service) technician(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == domain.RoleAdmin {
		return nil, fmt.Errorf("cannot modify admin account: %w", domain.ErrForbidden)
	}
	return u, nil
}

func (s *service) apply(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates[fieldName] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && *req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		existing, err := s.repo.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.UserID != userID:
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		updates[fieldEmail] = email
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		updates[fieldPhone] = strings.TrimSpace(*req.Phone)
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}
