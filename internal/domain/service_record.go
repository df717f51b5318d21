package domain

import "time"

// PriorityPart is a part that needs attention on the next visit.
type PriorityPart struct {
	Part string `json:"part" dynamodbav:"part"`
	Care string `json:"care" dynamodbav:"care"`
}

// ServiceRecord is one maintenance visit plus the next scheduled one.
// NextServiceDate and NotifiedAt are stored as Unix seconds so range queries
// compare numerically.
type ServiceRecord struct {
	ServiceRecordID string         `json:"id" dynamodbav:"service_record_id"`
	CustomerID      string         `json:"customerId" dynamodbav:"customer_id"`
	ServiceDate     time.Time      `json:"serviceDate" dynamodbav:"service_date"`
	Technician      string         `json:"technician,omitempty" dynamodbav:"technician,omitempty"`
	PartsReplaced   []string       `json:"partsReplaced" dynamodbav:"parts_replaced"`
	PriorityParts   []PriorityPart `json:"priorityParts" dynamodbav:"priority_parts"`
	NextServiceDate time.Time      `json:"nextServiceDate" dynamodbav:"next_service_date,unixtime"`
	Notes           string         `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	Images          []string       `json:"images" dynamodbav:"images"`
	Notified        bool           `json:"notified" dynamodbav:"notified"`
	NotifiedAt      *time.Time     `json:"notifiedAt,omitempty" dynamodbav:"notified_at,omitempty,unixtime"`
	CreatedAt       time.Time      `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" dynamodbav:"updated_at"`
}

// DueRecord is a ServiceRecord joined with its owning Customer.
type DueRecord struct {
	Record   ServiceRecord
	Customer Customer
}

type CreateRecordRequest struct {
	ServiceDate     string         `json:"serviceDate" validate:"omitempty,datetime=2006-01-02"` // defaults to today
	Technician      string         `json:"technician"`
	PartsReplaced   []string       `json:"partsReplaced"`
	PriorityParts   []PriorityPart `json:"priorityParts" validate:"dive"`
	NextServiceDate string         `json:"nextServiceDate" validate:"required,datetime=2006-01-02"`
	Notes           string         `json:"notes"`
	Images          []string       `json:"images"`
}

type UpdateRecordRequest struct {
	ServiceDate     *string         `json:"serviceDate"`
	Technician      *string         `json:"technician"`
	PartsReplaced   *[]string       `json:"partsReplaced"`
	PriorityParts   *[]PriorityPart `json:"priorityParts"`
	NextServiceDate *string         `json:"nextServiceDate"`
	Notes           *string         `json:"notes"`
	Images          *[]string       `json:"images"`
}

// RecordWithCustomer is a record joined with a summary of its customer.
type RecordWithCustomer struct {
	ServiceRecord
	Customer *CustomerSummary `json:"customer,omitempty"`
}
