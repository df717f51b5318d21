// Package reminder runs the daily due-service check: it finds records due in
// the next few days, sends SMS and email reminders to the admin and the
// customer, logs one entry per record and flags records on their due day.
package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/pkg/id"
	"github.com/ro-service/api/internal/pkg/logger"
)

// RunResult summarises one run. Failed runs carry only Error.
type RunResult struct {
	Success bool
	Count   int
	Skipped int
	Message string
	Error   string
}

func (r RunResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, r.Error})
	}
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Count   int    `json:"count"`
		Skipped int    `json:"skipped"`
		Message string `json:"message"`
	}{true, r.Count, r.Skipped, r.Message})
}

// Service is the dispatch orchestrator. Runs process records one at a time
// and may overlap; the dedup check and the per-day log id keep them
// idempotent.
type Service struct {
	scanner *Scanner
	dedup   *Dedup
	records recordStore
	logs    logStore
	sms     SMSSender
	email   EmailSender
	admin   AdminContact
	log     *zap.Logger
}

func NewService(
	records recordStore,
	customers customerStore,
	logs logStore,
	sms SMSSender,
	email EmailSender,
	admin AdminContact,
	log *zap.Logger,
) *Service {
	log = logger.OrNop(log)
	return &Service{
		scanner: NewScanner(records, customers, log),
		dedup:   NewDedup(logs),
		records: records,
		logs:    logs,
		sms:     sms,
		email:   email,
		admin:   admin,
		log:     log,
	}
}

// Run performs one due-service check as of now. Calendar days are those of
// now's location. Only a failed scan fails the run. Cancelling ctx stops
// the run before the next record; a record already being delivered is still
// logged.
func (s *Service) Run(ctx context.Context, now time.Time) RunResult {
	due, err := s.scanner.Due(ctx, now)
	if err != nil {
		s.log.Error("due-service scan failed", zap.Error(err))
		return RunResult{Error: err.Error()}
	}
	s.log.Info("due-service check started", zap.Int("due", len(due)), zap.String("day", dayKey(now)))

	var res RunResult
	for i, d := range due {
		if ctx.Err() != nil {
			res.Skipped += len(due) - i
			s.log.Warn("due-service check cancelled, remaining records skipped",
				zap.Int("remaining", len(due)-i), zap.Error(ctx.Err()))
			break
		}
		if s.processSafely(ctx, now, d) {
			res.Count++
		} else {
			res.Skipped++
		}
	}
	res.Success = true
	res.Message = fmt.Sprintf("Processed %d notifications", res.Count)
	s.log.Info("due-service check finished", zap.Int("sent", res.Count), zap.Int("skipped", res.Skipped))
	return res
}

func (s *Service) processSafely(ctx context.Context, now time.Time, d domain.DueRecord) (dispatched bool) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("panic while processing due record",
				zap.String("service_record_id", d.Record.ServiceRecordID), zap.Any("panic", p))
			dispatched = false
		}
	}()
	return s.process(ctx, now, d)
}

// process handles one record and reports whether reminders were dispatched.
func (s *Service) process(ctx context.Context, now time.Time, d domain.DueRecord) bool {
	rec := d.Record
	log := s.log.With(zap.String("service_record_id", rec.ServiceRecordID), zap.String("customer_id", rec.CustomerID))

	days := daysUntil(now, rec.NextServiceDate)
	urgency, ok := Classify(days)
	if !ok {
		log.Warn("skipping record outside reminder window", zap.Int("days_until", days))
		return false
	}

	sent, err := s.dedup.SentToday(ctx, rec.ServiceRecordID, now)
	if err != nil {
		log.Error("dedup check failed, skipping record", zap.Error(err))
		return false
	}
	if sent {
		log.Debug("reminder already sent today")
		return false
	}

	message := RenderMessage(d, urgency, now.Location())
	subject := Subject(d.Customer, urgency)

	outcomes := make([]domain.RecipientOutcome, 0, 2)
	for _, r := range Recipients(s.admin, d.Customer) {
		outcomes = append(outcomes, s.deliver(ctx, r, subject, message))
	}

	entry := &domain.NotificationLog{
		NotificationID:  id.ForDay(rec.ServiceRecordID, dayKey(now)),
		ServiceRecordID: rec.ServiceRecordID,
		CustomerID:      rec.CustomerID,
		Channel:         channelOf(outcomes),
		To:              summarize(outcomes),
		Message:         message,
		Status:          statusOf(outcomes),
		Error:           errorSummary(outcomes),
		Outcomes:        outcomes,
		DayKey:          dayKey(now),
		SentAt:          now,
	}
	// Reminders already went out, so record them even if ctx was cancelled
	// during delivery.
	writeCtx := context.WithoutCancel(ctx)
	if err := s.logs.Create(writeCtx, entry); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			log.Warn("notification already logged by a concurrent run", zap.String("notification_id", entry.NotificationID))
		} else {
			log.Error("failed to write notification log", zap.Error(err))
		}
	}
	log.Info("reminder dispatched",
		zap.String("urgency", urgency.Tag),
		zap.String("status", entry.Status),
		zap.String("to", entry.To))

	if urgency.DaysUntil == 0 && !rec.Notified {
		if err := s.records.MarkNotified(writeCtx, rec.ServiceRecordID, now); err != nil {
			log.Error("failed to mark record notified", zap.Error(err))
		}
	}
	return true
}

// deliver sends SMS then email to one recipient, skipping channels the
// recipient has no contact for.
func (s *Service) deliver(ctx context.Context, r Recipient, subject, message string) domain.RecipientOutcome {
	out := domain.RecipientOutcome{Recipient: r.Name, Phone: r.Phone, Email: r.Email}
	if r.Phone != "" {
		out.SMSOutcome = s.sms.Send(ctx, r.Phone, message).Outcome()
	}
	if r.Email != "" {
		out.EmailOutcome = s.email.Send(ctx, r.Email, subject, message).Outcome()
	}
	return out
}

func statusOf(outcomes []domain.RecipientOutcome) string {
	for _, o := range outcomes {
		if o.SMSStatus() == domain.StatusSent || o.EmailStatus() == domain.StatusSent {
			return domain.StatusSent
		}
	}
	return domain.StatusFailed
}

func channelOf(outcomes []domain.RecipientOutcome) string {
	var sms, email bool
	for _, o := range outcomes {
		sms = sms || o.SMSOutcome != nil
		email = email || o.EmailOutcome != nil
	}
	switch {
	case sms && !email:
		return domain.ChannelSMS
	case email && !sms:
		return domain.ChannelEmail
	default:
		return domain.ChannelBoth
	}
}

// summarize renders e.g. "Admin (SMS: sent, Email: failed), Asha (SMS: sent)".
func summarize(outcomes []domain.RecipientOutcome) string {
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		var ch []string
		if st := o.SMSStatus(); st != "" {
			ch = append(ch, "SMS: "+st)
		}
		if st := o.EmailStatus(); st != "" {
			ch = append(ch, "Email: "+st)
		}
		if len(ch) == 0 {
			ch = append(ch, "no contact")
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", o.Recipient, strings.Join(ch, ", ")))
	}
	return strings.Join(parts, ", ")
}

// errorSummary lists failed channels only, e.g. "Admin SMS: timed out".
func errorSummary(outcomes []domain.RecipientOutcome) string {
	var parts []string
	for _, o := range outcomes {
		if o.SMSStatus() == domain.StatusFailed {
			parts = append(parts, fmt.Sprintf("%s SMS: %s", o.Recipient, o.SMSOutcome.Error))
		}
		if o.EmailStatus() == domain.StatusFailed {
			parts = append(parts, fmt.Sprintf("%s Email: %s", o.Recipient, o.EmailOutcome.Error))
		}
	}
	return strings.Join(parts, "; ")
}
