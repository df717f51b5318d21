// Package app wires configuration, storage, transports and services into
// the runnable pieces the binaries start.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/ro-service/api/internal/application/reminder"
	"github.com/ro-service/api/internal/channel"
	"github.com/ro-service/api/internal/config"
	"github.com/ro-service/api/internal/infrastructure/dynamo"
	"github.com/ro-service/api/internal/infrastructure/fast2sms"
	jwtinfra "github.com/ro-service/api/internal/infrastructure/jwt"
	s3infra "github.com/ro-service/api/internal/infrastructure/s3"
	"github.com/ro-service/api/internal/infrastructure/smtp"
	"github.com/ro-service/api/internal/infrastructure/sns"
	"github.com/ro-service/api/internal/infrastructure/twilio"
	"github.com/ro-service/api/internal/pkg/logger"
	"github.com/ro-service/api/internal/scheduler"
	transporthttp "github.com/ro-service/api/internal/transport/http"
)

// Repos are the DynamoDB repositories shared by the API and the reminder job.
type Repos struct {
	Customers     *dynamo.CustomerRepo
	Records       *dynamo.ServiceRecordRepo
	Notifications *dynamo.NotificationRepo
	Users         *dynamo.UserRepo
}

// NewRepos connects to DynamoDB and creates missing tables.
func NewRepos(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Repos, error) {
	client, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	dynamo.Bootstrap(ctx, client, cfg.DynamoTables, logger.OrNop(log))
	return reposFor(client, cfg.DynamoTables), nil
}

func reposFor(client *dynamodb.Client, tables config.DynamoTables) *Repos {
	return &Repos{
		Customers:     dynamo.NewCustomerRepo(client, tables.Customers),
		Records:       dynamo.NewServiceRecordRepo(client, tables.ServiceRecords),
		Notifications: dynamo.NewNotificationRepo(client, tables.Notifications),
		Users:         dynamo.NewUserRepo(client, tables.Users),
	}
}

// NewReminder builds the due-service orchestrator with the configured
// channels. Unconfigured channels are logged and fail per send.
func NewReminder(ctx context.Context, cfg *config.Config, repos *Repos, log *zap.Logger) (*reminder.Service, error) {
	log = logger.OrNop(log)
	transport, err := SMSTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		log.Warn("SMS channel not configured", zap.String("provider", cfg.Notify.SMSProvider))
	}
	mailer := Mailer(cfg)
	if mailer == nil {
		log.Warn("email channel not configured")
	}

	sms := channel.NewSMS(transport, channel.SMSOptions{
		CountryCode: cfg.Notify.SMSCountryCode,
		MaxLength:   cfg.Notify.SMSMaxLength,
		Timeout:     cfg.Notify.ChannelTimeout,
	}, log.Named("sms"))
	email := channel.NewEmail(mailer, cfg.Notify.ChannelTimeout, log.Named("email"))

	return reminder.NewService(
		repos.Records,
		repos.Customers,
		repos.Notifications,
		sms,
		email,
		reminder.AdminContact{Phone: cfg.Notify.AdminPhone, Email: cfg.Notify.AdminEmail},
		log.Named("reminder"),
	), nil
}

// SMSTransport returns the transport selected by SMS_PROVIDER, or nil when
// that provider lacks credentials.
func SMSTransport(ctx context.Context, cfg *config.Config) (channel.SMSTransport, error) {
	n := cfg.Notify
	switch n.SMSProvider {
	case config.SMSProviderFast2SMS:
		c, err := fast2sms.New(fast2sms.Config{
			APIKey:   n.Fast2SMSAPIKey,
			SenderID: n.Fast2SMSSenderID,
			Route:    n.Fast2SMSRoute,
			URL:      n.Fast2SMSURL,
		}, nil)
		if errors.Is(err, channel.ErrNotConfigured) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.SMSProviderTwilio:
		s, err := twilio.New(twilio.Config{
			AccountSID:  n.TwilioAccountSID,
			AuthToken:   n.TwilioAuthToken,
			FromNumber:  n.TwilioPhoneNumber,
			CountryCode: n.SMSCountryCode,
		})
		if errors.Is(err, channel.ErrNotConfigured) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.SMSProviderSNS:
		s, err := sns.NewSender(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("sns sender: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown SMS provider %q", n.SMSProvider)
	}
}

// Mailer returns the SMTP mailer, or nil when credentials are missing.
func Mailer(cfg *config.Config) channel.Mailer {
	m, err := smtp.NewMailer(cfg.Notify)
	if err != nil {
		return nil
	}
	return m
}

// API is the HTTP server side of the process.
type API struct {
	Handler   http.Handler
	Scheduler *scheduler.Scheduler
}

// NewAPI builds the router and the cron scheduler around one reminder service.
func NewAPI(ctx context.Context, cfg *config.Config, repos *Repos, log *zap.Logger) (*API, error) {
	log = logger.OrNop(log)
	verifier, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("jwt provider: %w", err)
	}
	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rem, err := NewReminder(ctx, cfg, repos, log)
	if err != nil {
		return nil, err
	}
	sched, err := scheduler.New(cfg.Notify.Cron, cfg.Timezone, rem, cfg.Notify.RunTimeout, log.Named("scheduler"))
	if err != nil {
		return nil, err
	}

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		CustomerRepo:     repos.Customers,
		RecordRepo:       repos.Records,
		NotificationRepo: repos.Notifications,
		UserRepo:         repos.Users,
		ObjectStore:      s3infra.NewStore(s3Client, cfg.S3BucketName, cfg.AWSRegion, cfg.AWSEndpointURL),
		Verifier:         verifier,
		Reminder:         rem,
		Logger:           log.Named("http"),
	})
	return &API{Handler: router, Scheduler: sched}, nil
}
