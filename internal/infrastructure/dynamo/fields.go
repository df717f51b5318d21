package dynamo

// DynamoDB attribute names used in expressions across all repos.
const (
	fieldCustomerID      = "customer_id"
	fieldServiceRecordID = "service_record_id"
	fieldNotificationID  = "notification_id"
	fieldUserID          = "user_id"
	fieldTechnicianID    = "technician_id"
	fieldNextServiceDate = "next_service_date"
	fieldNotified        = "notified"
	fieldNotifiedAt      = "notified_at"
	fieldSentAt          = "sent_at"
	fieldRole            = "role"
	fieldUpdatedAt       = "updated_at"
)

// Index names created by Bootstrap.
const (
	indexCustomerTechnician = "technician_id-index"
	indexCustomerPhone      = "phone-index"
	indexRecordCustomer     = "customer_id-index"
	indexNotificationRecord = "service_record_id-sent_at-index"
	indexUserRole           = "role-index"
	indexUserEmail          = "email-index"
)
