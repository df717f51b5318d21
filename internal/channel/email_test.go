package channel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Name() string { return "smtp" }

func (m *mockMailer) SendMail(ctx context.Context, mail Mail) (string, error) {
	args := m.Called(ctx, mail)
	return args.String(0), args.Error(1)
}

func TestRenderHTML_EscapesBody(t *testing.T) {
	html, err := RenderHTML("Name: <script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "RO Service Reminder")
}

func TestEmail_NotConfigured(t *testing.T) {
	res := NewEmail(nil, time.Second, nil).Send(context.Background(), "a@example.com", "s", "b")
	assert.False(t, res.OK)
	assert.Equal(t, KindNotConfigured, res.Kind)
	assert.Contains(t, res.Detail, "not configured")
}

func TestEmail_Sends(t *testing.T) {
	m := new(mockMailer)
	m.On("SendMail", mock.Anything, mock.MatchedBy(func(mail Mail) bool {
		return mail.To == "a@example.com" && mail.Subject == "subj" && mail.Text == "body" && mail.HTML != ""
	})).Return("<id@ro>", nil)

	res := NewEmail(m, time.Second, nil).Send(context.Background(), "a@example.com", "subj", "body")
	assert.True(t, res.OK)
	assert.Equal(t, "smtp", res.Provider)
	assert.Equal(t, "<id@ro>", res.MessageID)
	m.AssertExpectations(t)
}

func TestEmail_Timeout(t *testing.T) {
	m := new(mockMailer)
	m.On("SendMail", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return("", context.DeadlineExceeded)

	res := NewEmail(m, 10*time.Millisecond, nil).Send(context.Background(), "a@example.com", "s", "b")
	assert.Equal(t, KindTimeout, res.Kind)
}
