package domain

import "time"

// PaymentEventType is the closed set of gateway events the pipeline
// recognizes. Anything else parses to PaymentEventIgnored and is acknowledged
// without processing.
type PaymentEventType string

const (
	PaymentEventConfirmed PaymentEventType = "PAYMENT_CONFIRMED"
	PaymentEventReceived  PaymentEventType = "PAYMENT_RECEIVED"
	PaymentEventOverdue   PaymentEventType = "PAYMENT_OVERDUE"
	PaymentEventRefunded  PaymentEventType = "PAYMENT_REFUNDED"
	PaymentEventDeleted   PaymentEventType = "PAYMENT_DELETED"
	PaymentEventIgnored   PaymentEventType = ""
)

// ParsePaymentEvent maps a gateway event name onto the recognized set.
func ParsePaymentEvent(s string) PaymentEventType {
	switch PaymentEventType(s) {
	case PaymentEventConfirmed, PaymentEventReceived, PaymentEventOverdue,
		PaymentEventRefunded, PaymentEventDeleted:
		return PaymentEventType(s)
	}
	return PaymentEventIgnored
}

// PaymentStatusConfirmed is the payment status required for posting.
const PaymentStatusConfirmed = "CONFIRMED"

// PaymentNotification is the envelope delivered by the payment gateway.
type PaymentNotification struct {
	Event     string          `json:"event"`
	Payment   *PaymentPayload `json:"payment"`
	Timestamp string          `json:"timestamp,omitempty"`
	WebhookID string          `json:"id,omitempty"`
}

// PaymentPayload is the payment sub-object of a gateway notification.
// Value is expressed in minor currency units (cents).
type PaymentPayload struct {
	ID                    string `json:"id" validate:"required"`
	Customer              string `json:"customer" validate:"required"`
	Subscription          string `json:"subscription,omitempty"`
	Value                 int64  `json:"value" validate:"gt=0"`
	Description           string `json:"description" validate:"required"`
	DueDate               string `json:"dueDate,omitempty"`
	OriginalDueDate       string `json:"originalDueDate,omitempty"`
	BillingType           string `json:"billingType,omitempty"`
	InvoiceURL            string `json:"invoiceUrl,omitempty"`
	TransactionReceiptURL string `json:"transactionReceiptUrl,omitempty"`
	Status                string `json:"status" validate:"required"`
}

// CompetenceDate resolves the accounting date of the payment, falling back to
// the original due date and finally to now.
func (p *PaymentPayload) CompetenceDate(now time.Time) time.Time {
	for _, s := range []string{p.DueDate, p.OriginalDueDate} {
		if s == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return now
}

// WebhookLog is the audit record of one inbound notification, written for
// every well-formed request whether or not it was authenticated or processed.
// The pipeline never deletes these rows.
type WebhookLog struct {
	ID          string
	Event       string
	Payload     []byte
	Signature   string
	Processed   bool
	ProcessedAt *time.Time
	Error       *string
	CreatedAt   time.Time
}
