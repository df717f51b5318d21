package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables
// and an optional config.yaml.
type Config struct {
	AppPort   string
	AppEnv    string
	Timezone  *time.Location
	LogLevel  string
	LogFormat string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	UploadMaxBytes int64

	JWTPublicKeyPath string
	AllowedOrigins   []string // CORS allowed origins

	Notify NotifyConfig
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Customers      string
	ServiceRecords string
	Notifications  string
	Users          string
}

// NotifyConfig is everything the due-service reminder job needs. Empty
// credentials disable the matching channel, empty admin contacts drop the
// admin recipient.
type NotifyConfig struct {
	Cron           string
	RunTimeout     time.Duration
	ChannelTimeout time.Duration

	SMSProvider    string // fast2sms | sns | twilio
	SMSCountryCode string
	SMSMaxLength   int

	Fast2SMSAPIKey   string
	Fast2SMSSenderID string
	Fast2SMSRoute    string
	Fast2SMSURL      string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	SNSRegion string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFromName string

	AdminPhone string
	AdminEmail string
}

const (
	SMSProviderFast2SMS = "fast2sms"
	SMSProviderSNS      = "sns"
	SMSProviderTwilio   = "twilio"
)

// Load reads all configuration. Environment variables win over config.yaml,
// which wins over the defaults below.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("load APP_TIMEZONE %q: %w", v.GetString("APP_TIMEZONE"), err)
	}

	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		Timezone:       loc,
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		AWSRegion:      v.GetString("AWS_REGION"),
		AWSEndpointURL: v.GetString("AWS_ENDPOINT_URL"),
		AWSAccessKeyID: v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
		DynamoTables: DynamoTables{
			Customers:      v.GetString("DYNAMO_TABLE_CUSTOMERS"),
			ServiceRecords: v.GetString("DYNAMO_TABLE_SERVICE_RECORDS"),
			Notifications:  v.GetString("DYNAMO_TABLE_NOTIFICATIONS"),
			Users:          v.GetString("DYNAMO_TABLE_USERS"),
		},
		S3BucketName:     v.GetString("S3_BUCKET_NAME"),
		UploadMaxBytes:   v.GetInt64("UPLOAD_MAX_BYTES"),
		JWTPublicKeyPath: v.GetString("JWT_PUBLIC_KEY_PATH"),
		AllowedOrigins:   splitList(v.GetString("ALLOWED_ORIGINS")),
		Notify: NotifyConfig{
			Cron:              v.GetString("NOTIFY_CRON"),
			RunTimeout:        v.GetDuration("NOTIFY_RUN_TIMEOUT"),
			ChannelTimeout:    v.GetDuration("CHANNEL_TIMEOUT"),
			SMSProvider:       strings.ToLower(v.GetString("SMS_PROVIDER")),
			SMSCountryCode:    v.GetString("SMS_COUNTRY_CODE"),
			SMSMaxLength:      v.GetInt("SMS_MAX_LENGTH"),
			Fast2SMSAPIKey:    v.GetString("FAST2SMS_API_KEY"),
			Fast2SMSSenderID:  v.GetString("FAST2SMS_SENDER_ID"),
			Fast2SMSRoute:     v.GetString("FAST2SMS_ROUTE"),
			Fast2SMSURL:       v.GetString("FAST2SMS_URL"),
			TwilioAccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
			TwilioPhoneNumber: v.GetString("TWILIO_PHONE_NUMBER"),
			SNSRegion:         v.GetString("SNS_REGION"),
			SMTPHost:          v.GetString("SMTP_HOST"),
			SMTPPort:          v.GetString("SMTP_PORT"),
			SMTPUsername:      firstNonEmpty(v.GetString("SMTP_USERNAME"), v.GetString("GMAIL_USER")),
			SMTPPassword:      firstNonEmpty(v.GetString("SMTP_PASSWORD"), v.GetString("GMAIL_APP_PASSWORD")),
			SMTPFromName:      v.GetString("SMTP_FROM_NAME"),
			AdminPhone:        v.GetString("ADMIN_PHONE"),
			AdminEmail:        v.GetString("ADMIN_EMAIL"),
		},
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.IsDevelopment() {
			cfg.LogFormat = "console"
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the process cannot start with. Missing channel
// credentials are not errors.
func (c *Config) Validate() error {
	switch c.Notify.SMSProvider {
	case SMSProviderFast2SMS, SMSProviderSNS, SMSProviderTwilio:
	default:
		return fmt.Errorf("SMS_PROVIDER must be one of fast2sms, sns, twilio; got %q", c.Notify.SMSProvider)
	}
	if c.Notify.ChannelTimeout <= 0 {
		return fmt.Errorf("CHANNEL_TIMEOUT must be positive")
	}
	if c.Notify.SMSMaxLength <= 0 {
		return fmt.Errorf("SMS_MAX_LENGTH must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT_URL", "")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("DYNAMO_TABLE_CUSTOMERS", "customers")
	v.SetDefault("DYNAMO_TABLE_SERVICE_RECORDS", "service_records")
	v.SetDefault("DYNAMO_TABLE_NOTIFICATIONS", "notifications")
	v.SetDefault("DYNAMO_TABLE_USERS", "users")
	v.SetDefault("S3_BUCKET_NAME", "ro-maintenance")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	v.SetDefault("JWT_PUBLIC_KEY_PATH", "./public_key.pem")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	v.SetDefault("NOTIFY_CRON", "0 8 * * *")
	v.SetDefault("NOTIFY_RUN_TIMEOUT", 10*time.Minute)
	v.SetDefault("CHANNEL_TIMEOUT", 10*time.Second)
	v.SetDefault("SMS_PROVIDER", SMSProviderFast2SMS)
	v.SetDefault("SMS_COUNTRY_CODE", "+91")
	v.SetDefault("SMS_MAX_LENGTH", 500)
	v.SetDefault("FAST2SMS_API_KEY", "")
	v.SetDefault("FAST2SMS_SENDER_ID", "TXTIND")
	v.SetDefault("FAST2SMS_ROUTE", "v3")
	v.SetDefault("FAST2SMS_URL", "https://www.fast2sms.com/dev/bulkV2")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")
	v.SetDefault("SNS_REGION", "us-east-1")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("GMAIL_USER", "")
	v.SetDefault("GMAIL_APP_PASSWORD", "")
	v.SetDefault("SMTP_FROM_NAME", "RO Service")
	v.SetDefault("ADMIN_PHONE", "")
	v.SetDefault("ADMIN_EMAIL", "")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
