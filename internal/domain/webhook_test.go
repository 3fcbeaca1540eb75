package domain

import (
	"testing"
	"time"
)

func TestParsePaymentEvent(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentEventType
	}{
		{"PAYMENT_CONFIRMED", PaymentEventConfirmed},
		{"PAYMENT_RECEIVED", PaymentEventReceived},
		{"PAYMENT_OVERDUE", PaymentEventOverdue},
		{"PAYMENT_REFUNDED", PaymentEventRefunded},
		{"PAYMENT_DELETED", PaymentEventDeleted},
		{"PAYMENT_UPDATED", PaymentEventIgnored},
		{"payment_confirmed", PaymentEventIgnored},
		{"", PaymentEventIgnored},
	}

	for _, tt := range tests {
		if got := ParsePaymentEvent(tt.in); got != tt.want {
			t.Errorf("ParsePaymentEvent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaymentPayload_CompetenceDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		payload PaymentPayload
		want    string
	}{
		{
			name:    "due date wins",
			payload: PaymentPayload{DueDate: "2025-06-10", OriginalDueDate: "2025-06-01"},
			want:    "2025-06-10",
		},
		{
			name:    "falls back to original due date",
			payload: PaymentPayload{OriginalDueDate: "2025-06-01"},
			want:    "2025-06-01",
		},
		{
			name:    "rfc3339 accepted",
			payload: PaymentPayload{DueDate: "2025-06-10T12:30:00Z"},
			want:    "2025-06-10",
		},
		{
			name:    "unparseable falls back to now",
			payload: PaymentPayload{DueDate: "10/06/2025"},
			want:    "2025-06-15",
		},
		{
			name:    "empty falls back to now",
			payload: PaymentPayload{},
			want:    "2025-06-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.payload.CompetenceDate(now).Format("2006-01-02")
			if got != tt.want {
				t.Errorf("CompetenceDate() = %s, want %s", got, tt.want)
			}
		})
	}
}
