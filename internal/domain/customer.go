package domain

import "time"

type Customer struct {
	CustomerID   string    `json:"id" dynamodbav:"customer_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Phone        string    `json:"phone" dynamodbav:"phone"`
	Email        string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Address      string    `json:"address,omitempty" dynamodbav:"address,omitempty"`
	Model        string    `json:"model" dynamodbav:"model"`
	InstalledOn  time.Time `json:"installedOn" dynamodbav:"installed_on"`
	Images       []string  `json:"images" dynamodbav:"images"`
	Notes        string    `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	TechnicianID string    `json:"technicianId" dynamodbav:"technician_id"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateCustomerRequest struct {
	Name        string   `json:"name" validate:"required"`
	Phone       string   `json:"phone" validate:"required"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Address     string   `json:"address"`
	Model       string   `json:"model" validate:"required"`
	InstalledOn string   `json:"installedOn" validate:"omitempty,datetime=2006-01-02"` // defaults to today
	Images      []string `json:"images"`
	Notes       string   `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1"`
	Phone       *string   `json:"phone" validate:"omitempty,min=1"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Address     *string   `json:"address"`
	Model       *string   `json:"model" validate:"omitempty,min=1"`
	InstalledOn *string   `json:"installedOn"` // expected format: YYYY-MM-DD
	Images      *[]string `json:"images"`
	Notes       *string   `json:"notes"`
}

// CustomerSummary is the customer subset embedded in record and log listings.
type CustomerSummary struct {
	CustomerID string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Model      string `json:"model,omitempty"`
	Address    string `json:"address,omitempty"`
}

func (c Customer) Summary() *CustomerSummary {
	return &CustomerSummary{CustomerID: c.CustomerID, Name: c.Name, Phone: c.Phone, Model: c.Model, Address: c.Address}
}
