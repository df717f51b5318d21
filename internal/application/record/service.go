package record

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ro-service/api/internal/application/customer"
	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/pkg/id"
	"github.com/ro-service/api/internal/pkg/page"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldServiceDate     = "service_date"
	fieldTechnician      = "technician"
	fieldPartsReplaced   = "parts_replaced"
	fieldPriorityParts   = "priority_parts"
	fieldNextServiceDate = "next_service_date"
	fieldNotes           = "notes"
	fieldImages          = "images"
)

const dateLayout = "2006-01-02"

type Service interface {
	ListForCustomer(ctx context.Context, actor domain.Actor, customerID string) ([]domain.ServiceRecord, error)
	Create(ctx context.Context, actor domain.Actor, customerID string, req domain.CreateRecordRequest) (*domain.ServiceRecord, error)
	Get(ctx context.Context, actor domain.Actor, recordID string) (*domain.RecordWithCustomer, error)
	Update(ctx context.Context, actor domain.Actor, recordID string, req domain.UpdateRecordRequest) (*domain.ServiceRecord, error)
	Delete(ctx context.Context, actor domain.Actor, recordID string) error
	Upcoming(ctx context.Context, actor domain.Actor, p page.Params) (page.Result[domain.RecordWithCustomer], error)
}

type recordStore interface {
	Put(ctx context.Context, r *domain.ServiceRecord) error
	Get(ctx context.Context, recordID string) (*domain.ServiceRecord, error)
	Update(ctx context.Context, recordID string, updates map[string]interface{}) error
	Delete(ctx context.Context, recordID string) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.ServiceRecord, error)
	ListNextServiceFrom(ctx context.Context, from time.Time) ([]domain.ServiceRecord, error)
}

type customerStore interface {
	customer.Getter
	GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error)
}

type ServiceDeps struct {
	RecordRepo   recordStore
	CustomerRepo customerStore
	Location     *time.Location
}

type service struct {
	repo      recordStore
	customers customerStore
	loc       *time.Location
	now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: deps.RecordRepo, customers: deps.CustomerRepo, loc: loc, now: time.Now}
}

func (s *service) ListForCustomer(ctx context.Context, actor domain.Actor, customerID string) ([]domain.ServiceRecord, error) {
	if _, err := customer.Authorize(ctx, s.customers, actor, customerID); err != nil {
		return nil, err
	}
	recs, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ServiceDate.After(recs[j].ServiceDate) })
	return recs, nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, customerID string, req domain.CreateRecordRequest) (*domain.ServiceRecord, error) {
	if _, err := customer.Authorize(ctx, s.customers, actor, customerID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	serviceDate := now
	if req.ServiceDate != "" {
		t, err := s.parseDate("serviceDate", req.ServiceDate)
		if err != nil {
			return nil, err
		}
		serviceDate = t
	}
	next, err := s.parseDate("nextServiceDate", req.NextServiceDate)
	if err != nil {
		return nil, err
	}
	r := &domain.ServiceRecord{
		ServiceRecordID: id.NewAt(now),
		CustomerID:      customerID,
		ServiceDate:     serviceDate,
		Technician:      req.Technician,
		PartsReplaced:   nonNil(req.PartsReplaced),
		PriorityParts:   nonNilParts(req.PriorityParts),
		NextServiceDate: next,
		Notes:           req.Notes,
		Images:          nonNil(req.Images),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// authorizeRecord loads a record and checks access through its customer.
func (s *service) authorizeRecord(ctx context.Context, actor domain.Actor, recordID string) (*domain.ServiceRecord, *domain.Customer, error) {
	r, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return nil, nil, err
	}
	c, err := customer.Authorize(ctx, s.customers, actor, r.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	return r, c, nil
}

func (s *service) Get(ctx context.Context, actor domain.Actor, recordID string) (*domain.RecordWithCustomer, error) {
	r, c, err := s.authorizeRecord(ctx, actor, recordID)
	if err != nil {
		return nil, err
	}
	return &domain.RecordWithCustomer{ServiceRecord: *r, Customer: c.Summary()}, nil
}

// Update applies a partial update. The notified flag is owned by the
// reminder job and cannot be changed here.
func (s *service) Update(ctx context.Context, actor domain.Actor, recordID string, req domain.UpdateRecordRequest) (*domain.ServiceRecord, error) {
	if _, _, err := s.authorizeRecord(ctx, actor, recordID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.ServiceDate != nil {
		t, err := s.parseDate("serviceDate", *req.ServiceDate)
		if err != nil {
			return nil, err
		}
		updates[fieldServiceDate] = t
	}
	if req.NextServiceDate != nil {
		t, err := s.parseDate("nextServiceDate", *req.NextServiceDate)
		if err != nil {
			return nil, err
		}
		updates[fieldNextServiceDate] = t
	}
	if req.Technician != nil {
		updates[fieldTechnician] = *req.Technician
	}
	if req.PartsReplaced != nil {
		updates[fieldPartsReplaced] = nonNil(*req.PartsReplaced)
	}
	if req.PriorityParts != nil {
		updates[fieldPriorityParts] = nonNilParts(*req.PriorityParts)
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if req.Images != nil {
		updates[fieldImages] = nonNil(*req.Images)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, recordID, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, recordID)
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, recordID string) error {
	if _, _, err := s.authorizeRecord(ctx, actor, recordID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, recordID)
}

// Upcoming lists records due today or later, soonest first. Technicians only
// see records of their own customers.
func (s *service) Upcoming(ctx context.Context, actor domain.Actor, p page.Params) (page.Result[domain.RecordWithCustomer], error) {
	y, m, d := s.now().In(s.loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, s.loc)

	recs, err := s.repo.ListNextServiceFrom(ctx, today)
	if err != nil {
		return page.Result[domain.RecordWithCustomer]{}, err
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.CustomerID)
	}
	customers, err := s.customers.GetMany(ctx, ids)
	if err != nil {
		return page.Result[domain.RecordWithCustomer]{}, err
	}

	out := make([]domain.RecordWithCustomer, 0, len(recs))
	for _, r := range recs {
		c, ok := customers[r.CustomerID]
		if !actor.IsAdmin() && (!ok || c.TechnicianID != actor.UserID) {
			continue
		}
		row := domain.RecordWithCustomer{ServiceRecord: r}
		if ok {
			row.Customer = c.Summary()
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextServiceDate.Before(out[j].NextServiceDate) })
	return page.Slice(out, page.Normalize(p, 10, 100)), nil
}

func (s *service) parseDate(field, v string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, v, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format: %w", field, domain.ErrBadRequest)
	}
	return t, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilParts(p []domain.PriorityPart) []domain.PriorityPart {
	if p == nil {
		return []domain.PriorityPart{}
	}
	return p
}
