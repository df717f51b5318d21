package fast2sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ro-service/api/internal/channel"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(Config{APIKey: "key-1", SenderID: "TXTIND", Route: "v3", URL: url}, nil)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.True(t, errors.Is(err, channel.ErrNotConfigured))
}

func TestSendSMS_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key-1", r.Header.Get("authorization"))

		var body sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "9876543210", body.Numbers)
		assert.Equal(t, "v3", body.Route)
		assert.Equal(t, "TXTIND", body.SenderID)
		assert.Equal(t, "english", body.Language)
		assert.Equal(t, "hello", body.Message)

		_, _ = w.Write([]byte(`{"return":true,"request_id":"req-42","message":["SMS sent successfully."]}`))
	}))
	defer srv.Close()

	id, err := newTestClient(t, srv.URL).SendSMS(context.Background(), "9876543210", "hello")
	require.NoError(t, err)
	assert.Equal(t, "req-42", id)
}

func TestSendSMS_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"return":false,"status_code":412,"message":"Invalid Authentication"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).SendSMS(context.Background(), "9876543210", "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, channel.ErrRejected))
	assert.Contains(t, err.Error(), "Invalid Authentication")
}

func TestSendSMS_ServerErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).SendSMS(context.Background(), "9876543210", "hello")
	require.Error(t, err)
	assert.False(t, errors.Is(err, channel.ErrRejected))
}

func TestSendSMS_HonoursContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := newTestClient(t, srv.URL).SendSMS(ctx, "9876543210", "hello")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestResponseMessage(t *testing.T) {
	assert.Equal(t, "a", responseMessage(json.RawMessage(`"a"`)))
	assert.Equal(t, "b", responseMessage(json.RawMessage(`["b","c"]`)))
	assert.Equal(t, "SMS sending failed", responseMessage(nil))
}
