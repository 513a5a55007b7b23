package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a fee record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOverdue, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how a payment was made. The empty value means the method
// was not recorded.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCard     PaymentMethod = "card"
	MethodCheck    PaymentMethod = "check"
	MethodPayroll  PaymentMethod = "payroll"
)

// Valid reports whether m is empty or one of the known methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case "", MethodCash, MethodTransfer, MethodCard, MethodCheck, MethodPayroll:
		return true
	}
	return false
}

// FeeRecord is one row of the fee ledger. A record with a status of pending
// or overdue is an expectation; a paid record is a fulfillment. Paid records
// are only ever inserted, never rewritten from an existing expectation.
type FeeRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// StudentID references the student this record belongs to.
	StudentID string `json:"student_id"`

	// InstallmentNumber is the record's position in the payment plan.
	// Nil for free payments, which sit outside the plan.
	InstallmentNumber *int `json:"installment_number"`

	// Amount is the currency amount exactly as persisted. Kept raw so
	// malformed legacy values round-trip; use AmountValue for arithmetic.
	Amount string `json:"amount"`

	Status Status `json:"status"`

	// DueDate is required for pending/overdue records (YYYY-MM-DD).
	DueDate string `json:"due_date,omitempty"`

	// PaymentDate is set only when Status is paid (YYYY-MM-DD).
	PaymentDate string `json:"payment_date,omitempty"`

	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`

	// Free-form metadata, passed through untouched by all validation logic.
	ReceiptFolio  string `json:"receipt_folio,omitempty"`
	BankReference string `json:"bank_reference,omitempty"`
	Notes         string `json:"notes,omitempty"`

	// CreatedAt is the Unix timestamp when the record was inserted.
	CreatedAt int64 `json:"created_at"`
}

// AmountValue parses the raw amount. Malformed values come back as zero;
// the validator never accepts a payment against a zero amount, so corruption
// degrades to a mismatch rather than a silent acceptance.
func (r *FeeRecord) AmountValue() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Installment is one numbered slot of a student's payment plan, derived from
// the fee records sharing that number. Recomputed per query, never persisted.
type Installment struct {
	Number int `json:"number"`

	// ExpectedAmount comes from the authoritative record for this number.
	ExpectedAmount decimal.Decimal `json:"expected_amount"`

	// IsPaid is true when any record with this number is paid.
	IsPaid bool `json:"is_paid"`

	// IsPending is true when the authoritative record is pending or overdue.
	IsPending bool `json:"is_pending"`

	DueDate     string `json:"due_date,omitempty"`
	PaymentDate string `json:"payment_date,omitempty"`
}
