package http

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ro-service/api/internal/application/reminder"
	"github.com/ro-service/api/internal/config"
	"github.com/ro-service/api/internal/domain"
	jwtinfra "github.com/ro-service/api/internal/infrastructure/jwt"
)

// --- fakes ---

type stubCustomers struct{ list []domain.Customer }

func (s *stubCustomers) Put(context.Context, *domain.Customer) error { return nil }
func (s *stubCustomers) Get(_ context.Context, id string) (*domain.Customer, error) {
	for _, c := range s.list {
		if c.CustomerID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (s *stubCustomers) GetMany(context.Context, []string) (map[string]domain.Customer, error) {
	return map[string]domain.Customer{}, nil
}
func (s *stubCustomers) Update(context.Context, string, map[string]interface{}) error { return nil }
func (s *stubCustomers) Delete(context.Context, string) error                         { return nil }
func (s *stubCustomers) List(_ context.Context, technicianID string) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range s.list {
		if technicianID == "" || c.TechnicianID == technicianID {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubRecords struct{}

func (stubRecords) Put(context.Context, *domain.ServiceRecord) error { return nil }
func (stubRecords) Get(context.Context, string) (*domain.ServiceRecord, error) {
	return nil, domain.ErrNotFound
}
func (stubRecords) GetMany(context.Context, []string) (map[string]domain.ServiceRecord, error) {
	return map[string]domain.ServiceRecord{}, nil
}
func (stubRecords) Update(context.Context, string, map[string]interface{}) error { return nil }
func (stubRecords) Delete(context.Context, string) error                         { return nil }
func (stubRecords) ListByCustomer(context.Context, string) ([]domain.ServiceRecord, error) {
	return nil, nil
}
func (stubRecords) DeleteByCustomer(context.Context, string) (int, error) { return 0, nil }
func (stubRecords) ListNextServiceFrom(context.Context, time.Time) ([]domain.ServiceRecord, error) {
	return nil, nil
}

type stubLogs struct{}

func (stubLogs) List(context.Context) ([]domain.NotificationLog, error) { return nil, nil }

type stubUsers struct{}

func (stubUsers) Get(context.Context, string) (*domain.User, error)        { return nil, domain.ErrNotFound }
func (stubUsers) GetByEmail(context.Context, string) (*domain.User, error) { return nil, domain.ErrNotFound }
func (stubUsers) ListByRole(context.Context, string) ([]domain.User, error) {
	return []domain.User{{UserID: "t1", Role: domain.RoleTechnician}}, nil
}
func (stubUsers) Update(context.Context, string, map[string]interface{}) error { return nil }
func (stubUsers) Delete(context.Context, string) error                         { return nil }

type stubObjects struct{}

func (stubObjects) Upload(context.Context, string, io.Reader, string) (string, error) {
	return "https://img.example/x", nil
}

type countingRunner struct{ calls int }

func (c *countingRunner) Run(context.Context, time.Time) reminder.RunResult {
	c.calls++
	return reminder.RunResult{Success: true, Message: "Processed 0 notifications"}
}

// --- helpers ---

func newTestRouter(t *testing.T) (http.Handler, *jwtinfra.Provider, *countingRunner) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	p := jwtinfra.NewProviderFromKeys(key, &key.PublicKey, time.Hour)

	runner := &countingRunner{}
	cfg := &config.Config{Timezone: time.UTC, AllowedOrigins: []string{"*"}, UploadMaxBytes: 5 << 20}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewRouter(ctx, cfg, &Deps{
		CustomerRepo: &stubCustomers{list: []domain.Customer{
			{CustomerID: "c1", TechnicianID: "t1"},
			{CustomerID: "c2", TechnicianID: "t2"},
		}},
		RecordRepo:       stubRecords{},
		NotificationRepo: stubLogs{},
		UserRepo:         stubUsers{},
		ObjectStore:      stubObjects{},
		Verifier:         p,
		Reminder:         runner,
	})
	return h, p, runner
}

func do(t *testing.T, h http.Handler, p *jwtinfra.Provider, method, target, userID, role string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, nil)
	if userID != "" {
		token, err := p.Sign(userID, role)
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

// --- tests ---

func TestRouter_HealthIsPublic(t *testing.T) {
	h, p, _ := newTestRouter(t)
	rr := do(t, h, p, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"OK"`)
}

func TestRouter_RequiresToken(t *testing.T) {
	h, p, _ := newTestRouter(t)
	rr := do(t, h, p, http.MethodGet, "/api/customers", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_TechnicianSeesOwnCustomers(t *testing.T) {
	h, p, _ := newTestRouter(t)
	rr := do(t, h, p, http.MethodGet, "/api/customers", "t1", domain.RoleTechnician)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)

	rr = do(t, h, p, http.MethodGet, "/api/customers/c2", "t1", domain.RoleTechnician)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_TriggerIsAdminOnly(t *testing.T) {
	h, p, runner := newTestRouter(t)

	rr := do(t, h, p, http.MethodPost, "/api/notifications/trigger", "t1", domain.RoleTechnician)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 0, runner.calls)

	rr = do(t, h, p, http.MethodGet, "/api/notifications/trigger", "a1", domain.RoleAdmin)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, runner.calls)
}

func TestRouter_TechniciansListIsAdminOnly(t *testing.T) {
	h, p, _ := newTestRouter(t)
	assert.Equal(t, http.StatusForbidden, do(t, h, p, http.MethodGet, "/api/technicians", "t1", domain.RoleTechnician).Code)
	assert.Equal(t, http.StatusOK, do(t, h, p, http.MethodGet, "/api/technicians", "a1", domain.RoleAdmin).Code)
}

func TestRouter_UpcomingNotShadowedByID(t *testing.T) {
	h, p, _ := newTestRouter(t)
	rr := do(t, h, p, http.MethodGet, "/api/records/upcoming/all", "a1", domain.RoleAdmin)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)
}
