package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ro-service/api/internal/channel"
	"github.com/ro-service/api/internal/domain"
)

// memStore mimics the DynamoDB repos: second-precision range filters, a
// one-way notified flag, conditional log inserts and calls that fail once
// their context is done.
type memStore struct {
	mu        sync.Mutex
	records   map[string]*domain.ServiceRecord
	customers map[string]domain.Customer
	logs      []domain.NotificationLog

	scanErr   error
	existsErr error
	logErr    error
	markErr   error
	marks     int
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*domain.ServiceRecord{}, customers: map[string]domain.Customer{}}
}

func (m *memStore) addCustomer(c domain.Customer) { m.customers[c.CustomerID] = c }

func (m *memStore) addRecord(r domain.ServiceRecord) { m.records[r.ServiceRecordID] = &r }

func (m *memStore) ListNextServiceBetween(ctx context.Context, from, to time.Time) ([]domain.ServiceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	var out []domain.ServiceRecord
	for _, r := range m.records {
		ts := r.NextServiceDate.Unix()
		if ts >= from.Unix() && ts <= to.Unix() {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) MarkNotified(ctx context.Context, recordID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks++
	if m.markErr != nil {
		return m.markErr
	}
	r, ok := m.records[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	if !r.Notified {
		r.Notified = true
		r.NotifiedAt = &at
	}
	return nil
}

func (m *memStore) GetMany(_ context.Context, ids []string) (map[string]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Customer{}
	for _, id := range ids {
		if c, ok := m.customers[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *memStore) ExistsBetween(ctx context.Context, recordID string, from, to time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, l := range m.logs {
		ts := l.SentAt.Unix()
		if l.ServiceRecordID == recordID && ts >= from.Unix() && ts <= to.Unix() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Create(ctx context.Context, n *domain.NotificationLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.logErr != nil {
		return m.logErr
	}
	for _, l := range m.logs {
		if l.NotificationID == n.NotificationID {
			return domain.ErrConflict
		}
	}
	m.logs = append(m.logs, *n)
	return nil
}

func (m *memStore) logsFor(recordID string) []domain.NotificationLog {
	var out []domain.NotificationLog
	for _, l := range m.logs {
		if l.ServiceRecordID == recordID {
			out = append(out, l)
		}
	}
	return out
}

type smsCall struct{ phone, message string }

type fakeSMS struct {
	calls  []smsCall
	result func(phone string) channel.Result
}

func (f *fakeSMS) Send(_ context.Context, phone, message string) channel.Result {
	f.calls = append(f.calls, smsCall{phone, message})
	if f.result != nil {
		return f.result(phone)
	}
	return channel.Sent("fake-sms", "sms-"+phone)
}

type emailCall struct{ to, subject, body string }

type fakeEmail struct {
	calls  []emailCall
	result func(to string) channel.Result
}

func (f *fakeEmail) Send(_ context.Context, to, subject, body string) channel.Result {
	f.calls = append(f.calls, emailCall{to, subject, body})
	if f.result != nil {
		return f.result(to)
	}
	return channel.Sent("fake-email", "mail-"+to)
}

var errStorage = errors.New("storage unavailable")
