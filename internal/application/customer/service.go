package customer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/pkg/id"
	"github.com/ro-service/api/internal/pkg/logger"
	"github.com/ro-service/api/internal/pkg/page"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName        = "name"
	fieldPhone       = "phone"
	fieldEmail       = "email"
	fieldAddress     = "address"
	fieldModel       = "model"
	fieldInstalledOn = "installed_on"
	fieldImages      = "images"
	fieldNotes       = "notes"
)

const dateLayout = "2006-01-02"

type ListQuery struct {
	Search string
	Page   page.Params
}

type Service interface {
	List(ctx context.Context, actor domain.Actor, q ListQuery) (page.Result[domain.Customer], error)
	Get(ctx context.Context, actor domain.Actor, customerID string) (*domain.Customer, error)
	Create(ctx context.Context, actor domain.Actor, req domain.CreateCustomerRequest) (*domain.Customer, error)
	Update(ctx context.Context, actor domain.Actor, customerID string, req domain.UpdateCustomerRequest) (*domain.Customer, error)
	Delete(ctx context.Context, actor domain.Actor, customerID string) error
}

type customerStore interface {
	Put(ctx context.Context, c *domain.Customer) error
	Get(ctx context.Context, customerID string) (*domain.Customer, error)
	Update(ctx context.Context, customerID string, updates map[string]interface{}) error
	Delete(ctx context.Context, customerID string) error
	List(ctx context.Context, technicianID string) ([]domain.Customer, error)
}

type recordStore interface {
	DeleteByCustomer(ctx context.Context, customerID string) (int, error)
}

type ServiceDeps struct {
	CustomerRepo customerStore
	RecordRepo   recordStore
	Location     *time.Location
	Logger       *zap.Logger
}

type service struct {
	repo    customerStore
	records recordStore
	loc     *time.Location
	log     *zap.Logger
	now     func() time.Time
}

func NewService(deps ServiceDeps) Service {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:    deps.CustomerRepo,
		records: deps.RecordRepo,
		loc:     loc,
		log:     logger.OrNop(deps.Logger),
		now:     time.Now,
	}
}

// Getter loads one customer.
type Getter interface {
	Get(ctx context.Context, customerID string) (*domain.Customer, error)
}

// Authorize loads a customer and checks that actor may act on it. Admins
// may act on every customer, technicians only on their own.
func Authorize(ctx context.Context, repo Getter, actor domain.Actor, customerID string) (*domain.Customer, error) {
	c, err := repo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && c.TechnicianID != actor.UserID {
		return nil, fmt.Errorf("customer %s belongs to another technician: %w", customerID, domain.ErrForbidden)
	}
	return c, nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, q ListQuery) (page.Result[domain.Customer], error) {
	owner := ""
	if !actor.IsAdmin() {
		owner = actor.UserID
	}
	all, err := s.repo.List(ctx, owner)
	if err != nil {
		return page.Result[domain.Customer]{}, err
	}
	matched := filter(all, q.Search)
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return page.Slice(matched, page.Normalize(q.Page, 10, 100)), nil
}

// filter keeps customers whose name, phone or model contains every word
// of search, case-insensitively.
func filter(customers []domain.Customer, search string) []domain.Customer {
	terms := strings.Fields(strings.ToLower(search))
	if len(terms) == 0 {
		return customers
	}
	out := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		hay := strings.ToLower(c.Name + " " + c.Phone + " " + c.Model)
		ok := true
		for _, t := range terms {
			if !strings.Contains(hay, t) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *service) Get(ctx context.Context, actor domain.Actor, customerID string) (*domain.Customer, error) {
	return Authorize(ctx, s.repo, actor, customerID)
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	now := s.now().UTC()
	installed := now
	if req.InstalledOn != "" {
		t, err := time.ParseInLocation(dateLayout, req.InstalledOn, s.loc)
		if err != nil {
			return nil, fmt.Errorf("installedOn must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		installed = t
	}
	c := &domain.Customer{
		CustomerID:   id.NewAt(now),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Address:      strings.TrimSpace(req.Address),
		Model:        strings.TrimSpace(req.Model),
		InstalledOn:  installed,
		Images:       nonNil(req.Images),
		Notes:        req.Notes,
		TechnicianID: actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("customer created", zap.String("customer_id", c.CustomerID), zap.String("technician_id", c.TechnicianID))
	return c, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, customerID string, req domain.UpdateCustomerRequest) (*domain.Customer, error) {
	if _, err := Authorize(ctx, s.repo, actor, customerID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates[fieldPhone] = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		updates[fieldEmail] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Address != nil {
		updates[fieldAddress] = *req.Address
	}
	if req.Model != nil {
		updates[fieldModel] = strings.TrimSpace(*req.Model)
	}
	if req.InstalledOn != nil {
		t, err := time.ParseInLocation(dateLayout, *req.InstalledOn, s.loc)
		if err != nil {
			return nil, fmt.Errorf("installedOn must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldInstalledOn] = t
	}
	if req.Images != nil {
		updates[fieldImages] = nonNil(*req.Images)
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, customerID)
	}
	if err := s.repo.Update(ctx, customerID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, customerID)
}

// Delete removes the customer and every service record it owns.
func (s *service) Delete(ctx context.Context, actor domain.Actor, customerID string) error {
	if _, err := Authorize(ctx, s.repo, actor, customerID); err != nil {
		return err
	}
	n, err := s.records.DeleteByCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("delete records of customer %s: %w", customerID, err)
	}
	if err := s.repo.Delete(ctx, customerID); err != nil {
		return err
	}
	s.log.Info("customer deleted", zap.String("customer_id", customerID), zap.Int("records_deleted", n))
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
