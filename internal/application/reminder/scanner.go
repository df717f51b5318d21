package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/pkg/logger"
)

// Scanner finds service records due within the lookahead window and joins
// each with its customer.
type Scanner struct {
	records   recordStore
	customers customerStore
	log       *zap.Logger
}

func NewScanner(records recordStore, customers customerStore, log *zap.Logger) *Scanner {
	return &Scanner{records: records, customers: customers, log: logger.OrNop(log)}
}

// Due returns records whose next service date falls on today..today+3 in
// now's location. Records whose customer is gone are logged and dropped.
func (s *Scanner) Due(ctx context.Context, now time.Time) ([]domain.DueRecord, error) {
	from, to := DueWindow(now)
	recs, err := s.records.ListNextServiceBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list due records: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.CustomerID)
	}
	customers, err := s.customers.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load customers for due records: %w", err)
	}

	due := make([]domain.DueRecord, 0, len(recs))
	for _, r := range recs {
		c, ok := customers[r.CustomerID]
		if !ok {
			s.log.Warn("skipping due record without customer",
				zap.String("service_record_id", r.ServiceRecordID),
				zap.String("customer_id", r.CustomerID))
			continue
		}
		due = append(due, domain.DueRecord{Record: r, Customer: c})
	}
	return due, nil
}
