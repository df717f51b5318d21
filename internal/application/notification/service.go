package notification

import (
	"context"
	"sort"

	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/pkg/page"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service interface {
	// List returns log entries newest first, each joined with its customer
	// and the next service date of its record when those still exist.
	List(ctx context.Context, p page.Params) (page.Result[domain.NotificationView], error)
}

type logStore interface {
	List(ctx context.Context) ([]domain.NotificationLog, error)
}

type recordStore interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.ServiceRecord, error)
}

type customerStore interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error)
}

type ServiceDeps struct {
	LogRepo      logStore
	RecordRepo   recordStore
	CustomerRepo customerStore
}

type service struct {
	logs      logStore
	records   recordStore
	customers customerStore
}

func NewService(deps ServiceDeps) Service {
	return &service{logs: deps.LogRepo, records: deps.RecordRepo, customers: deps.CustomerRepo}
}

func (s *service) List(ctx context.Context, p page.Params) (page.Result[domain.NotificationView], error) {
	logs, err := s.logs.List(ctx)
	if err != nil {
		return page.Result[domain.NotificationView]{}, err
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].SentAt.After(logs[j].SentAt) })

	// only the requested page is joined
	res := page.Slice(logs, page.Normalize(p, defaultLimit, maxLimit))
	recordIDs := make([]string, 0, len(res.Items))
	customerIDs := make([]string, 0, len(res.Items))
	for _, l := range res.Items {
		recordIDs = append(recordIDs, l.ServiceRecordID)
		customerIDs = append(customerIDs, l.CustomerID)
	}
	records, err := s.records.GetMany(ctx, recordIDs)
	if err != nil {
		return page.Result[domain.NotificationView]{}, err
	}
	customers, err := s.customers.GetMany(ctx, customerIDs)
	if err != nil {
		return page.Result[domain.NotificationView]{}, err
	}

	views := make([]domain.NotificationView, 0, len(res.Items))
	for _, l := range res.Items {
		v := domain.NotificationView{NotificationLog: l}
		if c, ok := customers[l.CustomerID]; ok {
			v.Customer = c.Summary()
		}
		if r, ok := records[l.ServiceRecordID]; ok {
			next := r.NextServiceDate
			v.NextServiceDate = &next
		}
		views = append(views, v)
	}
	return page.Result[domain.NotificationView]{
		Items:      views,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
	}, nil
}
