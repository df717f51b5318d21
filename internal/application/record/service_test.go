package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/pkg/page"
)

// --- mocks ---

type mockRecordStore struct{ mock.Mock }

func (m *mockRecordStore) Put(ctx context.Context, r *domain.ServiceRecord) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockRecordStore) Get(ctx context.Context, recordID string) (*domain.ServiceRecord, error) {
	args := m.Called(ctx, recordID)
	if r, _ := args.Get(0).(*domain.ServiceRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRecordStore) Update(ctx context.Context, recordID string, updates map[string]interface{}) error {
	return m.Called(ctx, recordID, updates).Error(0)
}
func (m *mockRecordStore) Delete(ctx context.Context, recordID string) error {
	return m.Called(ctx, recordID).Error(0)
}
func (m *mockRecordStore) ListByCustomer(ctx context.Context, customerID string) ([]domain.ServiceRecord, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.ServiceRecord), args.Error(1)
}
func (m *mockRecordStore) ListNextServiceFrom(ctx context.Context, from time.Time) ([]domain.ServiceRecord, error) {
	args := m.Called(ctx, from)
	return args.Get(0).([]domain.ServiceRecord), args.Error(1)
}

type mockCustomerStore struct{ mock.Mock }

func (m *mockCustomerStore) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if c, _ := args.Get(0).(*domain.Customer); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCustomerStore) GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]domain.Customer), args.Error(1)
}

// --- helpers ---

var (
	admin = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	tech  = domain.Actor{UserID: "tech-1", Role: domain.RoleTechnician}
	other = domain.Actor{UserID: "tech-2", Role: domain.RoleTechnician}

	fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
)

func newService(rs *mockRecordStore, cs *mockCustomerStore) *service {
	svc := NewService(ServiceDeps{RecordRepo: rs, CustomerRepo: cs, Location: time.UTC}).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func ownedCustomer() *domain.Customer {
	return &domain.Customer{CustomerID: "c1", Name: "Asha", Phone: "9876543210", TechnicianID: "tech-1"}
}

// --- tests ---

func TestCreate_ParsesDatesAndDefaultsServiceDate(t *testing.T) {
	rs := &mockRecordStore{}
	cs := &mockCustomerStore{}
	cs.On("Get", mock.Anything, "c1").Return(ownedCustomer(), nil)
	rs.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.ServiceRecord) bool {
		return r.CustomerID == "c1" &&
			r.NextServiceDate.Equal(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)) &&
			r.ServiceDate.Equal(fixedNow) && !r.Notified &&
			r.PartsReplaced != nil && r.PriorityParts != nil
	})).Return(nil)

	_, err := newService(rs, cs).Create(context.Background(), tech, "c1", domain.CreateRecordRequest{NextServiceDate: "2026-06-10"})
	require.NoError(t, err)
	rs.AssertExpectations(t)
}

func TestCreate_ForbiddenForOtherTechnician(t *testing.T) {
	rs := &mockRecordStore{}
	cs := &mockCustomerStore{}
	cs.On("Get", mock.Anything, "c1").Return(ownedCustomer(), nil)

	_, err := newService(rs, cs).Create(context.Background(), other, "c1", domain.CreateRecordRequest{NextServiceDate: "2026-06-10"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	rs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_BadDate(t *testing.T) {
	cs := &mockCustomerStore{}
	cs.On("Get", mock.Anything, "c1").Return(ownedCustomer(), nil)

	_, err := newService(&mockRecordStore{}, cs).Create(context.Background(), tech, "c1", domain.CreateRecordRequest{NextServiceDate: "10-06-2026"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestListForCustomer_NewestServiceFirst(t *testing.T) {
	rs := &mockRecordStore{}
	cs := &mockCustomerStore{}
	cs.On("Get", mock.Anything, "c1").Return(ownedCustomer(), nil)
	rs.On("ListByCustomer", mock.Anything, "c1").Return([]domain.ServiceRecord{
		{ServiceRecordID: "old", ServiceDate: fixedNow.AddDate(0, -6, 0)},
		{ServiceRecordID: "new", ServiceDate: fixedNow},
	}, nil)

	recs, err := newService(rs, cs).ListForCustomer(context.Background(), tech, "c1")
	require.NoError(t, err)
	assert.Equal(t, "new", recs[0].ServiceRecordID)
	assert.Equal(t, "old", recs[1].ServiceRecordID)
}

func TestGet_IncludesCustomerSummary(t *testing.T) {
	rs := &mockRecordStore{}
	cs := &mockCustomerStore{}
	rs.On("Get", mock.Anything, "r1").Return(&domain.ServiceRecord{ServiceRecordID: "r1", CustomerID: "c1"}, nil)
	cs.On("Get", mock.Anything, "c1").Return(ownedCustomer(), nil)

	got, err := newService(rs, cs).Get(context.Background(), tech, "r1")
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Asha", got.Customer.Name)
}

func TestUpdate_DoesNotTouchNotified(t *testing.T) {
	next := "2026-09-01"
	rs := &mockRecordStore{}
	cs := &mockCustomerStore{}
	rs.On("Get", mock.Anything, "r1").Return(&domain.ServiceRecord{ServiceRecordID: "r1", CustomerID: "c1"}, nil)
	cs.On("Get", mock.Anything, "c1").Return(ownedCustomer(), nil)
	rs.On("Update", mock.Anything, "r1", map[string]interface{}{
		"next_service_date": time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}).Return(nil)

	_, err := newService(rs, cs).Update(context.Background(), admin, "r1", domain.UpdateRecordRequest{NextServiceDate: &next})
	require.NoError(t, err)
	rs.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	rs := &mockRecordStore{}
	rs.On("Get", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	err := newService(rs, &mockCustomerStore{}).Delete(context.Background(), admin, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpcoming_ScopedSortedPaged(t *testing.T) {
	rs := &mockRecordStore{}
	cs := &mockCustomerStore{}
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rs.On("ListNextServiceFrom", mock.Anything, today).Return([]domain.ServiceRecord{
		{ServiceRecordID: "late", CustomerID: "c1", NextServiceDate: today.AddDate(0, 0, 9)},
		{ServiceRecordID: "soon", CustomerID: "c1", NextServiceDate: today.AddDate(0, 0, 1)},
		{ServiceRecordID: "theirs", CustomerID: "c2", NextServiceDate: today},
	}, nil)
	cs.On("GetMany", mock.Anything, mock.Anything).Return(map[string]domain.Customer{
		"c1": *ownedCustomer(),
		"c2": {CustomerID: "c2", TechnicianID: "tech-2"},
	}, nil)

	res, err := newService(rs, cs).Upcoming(context.Background(), tech, page.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "soon", res.Items[0].ServiceRecordID)
	assert.Equal(t, "late", res.Items[1].ServiceRecordID)
	assert.Equal(t, "Asha", res.Items[0].Customer.Name)

	res, err = newService(rs, cs).Upcoming(context.Background(), admin, page.Params{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, "theirs", res.Items[0].ServiceRecordID)
}
