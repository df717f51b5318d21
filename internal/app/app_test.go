package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ro-service/api/internal/config"
	"github.com/ro-service/api/internal/infrastructure/fast2sms"
	"github.com/ro-service/api/internal/infrastructure/twilio"
)

func notifyConfig(n config.NotifyConfig) *config.Config {
	return &config.Config{AWSRegion: "us-east-1", Notify: n}
}

func TestSMSTransport_Fast2SMS(t *testing.T) {
	tr, err := SMSTransport(context.Background(), notifyConfig(config.NotifyConfig{
		SMSProvider:    config.SMSProviderFast2SMS,
		Fast2SMSAPIKey: "key",
	}))
	require.NoError(t, err)
	assert.IsType(t, &fast2sms.Client{}, tr)
}

func TestSMSTransport_Twilio(t *testing.T) {
	tr, err := SMSTransport(context.Background(), notifyConfig(config.NotifyConfig{
		SMSProvider:       config.SMSProviderTwilio,
		TwilioAccountSID:  "AC123",
		TwilioAuthToken:   "token",
		TwilioPhoneNumber: "+15550001111",
	}))
	require.NoError(t, err)
	assert.IsType(t, &twilio.Sender{}, tr)
}

func TestSMSTransport_MissingCredentialsIsNilInterface(t *testing.T) {
	for _, provider := range []string{config.SMSProviderFast2SMS, config.SMSProviderTwilio} {
		tr, err := SMSTransport(context.Background(), notifyConfig(config.NotifyConfig{SMSProvider: provider}))
		require.NoError(t, err, provider)
		assert.True(t, tr == nil, provider)
	}
}

func TestSMSTransport_Unknown(t *testing.T) {
	_, err := SMSTransport(context.Background(), notifyConfig(config.NotifyConfig{SMSProvider: "pigeon"}))
	assert.ErrorContains(t, err, "pigeon")
}

func TestMailer_MissingCredentialsIsNilInterface(t *testing.T) {
	m := Mailer(notifyConfig(config.NotifyConfig{SMTPHost: "smtp.example.com", SMTPPort: "587"}))
	assert.True(t, m == nil)
}

func TestMailer_Configured(t *testing.T) {
	m := Mailer(notifyConfig(config.NotifyConfig{
		SMTPHost: "smtp.example.com", SMTPPort: "587",
		SMTPUsername: "shop@example.com", SMTPPassword: "pw",
	}))
	assert.NotNil(t, m)
}
