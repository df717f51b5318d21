package domain

import "time"

// Delivery channels recorded on a notification log entry.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
	ChannelBoth  = "both"
)

// Overall and per-channel delivery statuses.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// ChannelOutcome is the result of one channel attempt to one recipient.
type ChannelOutcome struct {
	Status    string `json:"status" dynamodbav:"status"`
	Provider  string `json:"provider,omitempty" dynamodbav:"provider,omitempty"`
	MessageID string `json:"messageId,omitempty" dynamodbav:"message_id,omitempty"`
	ErrorKind string `json:"errorKind,omitempty" dynamodbav:"error_kind,omitempty"`
	Error     string `json:"error,omitempty" dynamodbav:"error,omitempty"`
}

// RecipientOutcome holds the attempted channels for one recipient. A nil
// channel was not attempted because the recipient lacks that contact method.
type RecipientOutcome struct {
	Recipient    string          `json:"recipient" dynamodbav:"recipient"`
	Phone        string          `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Email        string          `json:"email,omitempty" dynamodbav:"email,omitempty"`
	SMSOutcome   *ChannelOutcome `json:"smsOutcome,omitempty" dynamodbav:"sms_outcome,omitempty"`
	EmailOutcome *ChannelOutcome `json:"emailOutcome,omitempty" dynamodbav:"email_outcome,omitempty"`
}

// SMSStatus returns the SMS status, or "" when SMS was not attempted.
func (o RecipientOutcome) SMSStatus() string {
	if o.SMSOutcome == nil {
		return ""
	}
	return o.SMSOutcome.Status
}

// EmailStatus returns the email status, or "" when email was not attempted.
func (o RecipientOutcome) EmailStatus() string {
	if o.EmailOutcome == nil {
		return ""
	}
	return o.EmailOutcome.Status
}

// NotificationLog is the immutable audit entry for one dispatch attempt of
// one service record on one calendar day.
type NotificationLog struct {
	NotificationID  string             `json:"id" dynamodbav:"notification_id"`
	ServiceRecordID string             `json:"serviceRecordId" dynamodbav:"service_record_id"`
	CustomerID      string             `json:"customerId" dynamodbav:"customer_id"`
	Channel         string             `json:"channel" dynamodbav:"channel"`
	To              string             `json:"to" dynamodbav:"to"`
	Message         string             `json:"message" dynamodbav:"message"`
	Status          string             `json:"status" dynamodbav:"status"`
	Error           string             `json:"error,omitempty" dynamodbav:"error,omitempty"`
	Outcomes        []RecipientOutcome `json:"outcomes" dynamodbav:"outcomes"`
	DayKey          string             `json:"dayKey" dynamodbav:"day_key"`
	SentAt          time.Time          `json:"sentAt" dynamodbav:"sent_at,unixtime"`
}

// NotificationView is a log entry joined with its customer and record.
type NotificationView struct {
	NotificationLog
	Customer        *CustomerSummary `json:"customer,omitempty"`
	NextServiceDate *time.Time       `json:"nextServiceDate,omitempty"`
}
