package models

import "github.com/shopspring/decimal"

// PaymentCandidate is a proposed payment as collected by the UI. It is the
// input to validation and is never persisted as-is.
type PaymentCandidate struct {
	StudentID string

	Amount decimal.Decimal

	// InstallmentNumber selects the installment being paid. For free
	// payments it is an optional label only and is never validated.
	InstallmentNumber *int

	// IsFreePayment marks a payment outside the installment plan.
	IsFreePayment bool

	PaymentMethod PaymentMethod
	PaymentDate   string

	// Opaque metadata carried onto the resulting record untouched.
	ReceiptFolio  string
	BankReference string
	Notes         string
}

// Outcome classifies a payment candidate against the installment plan.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeAmountMismatch     Outcome = "amount_mismatch"
	OutcomeAlreadyPaid        Outcome = "already_paid"
	OutcomeUnknownInstallment Outcome = "unknown_installment"
	OutcomeMissingInstallment Outcome = "missing_installment_selection"
)

// Verdict is the result of validating one payment candidate.
type Verdict struct {
	Outcome Outcome `json:"outcome"`

	// Matched is the installment the candidate was checked against, when
	// one was found. Absent for free payments.
	Matched *Installment `json:"matched_installment,omitempty"`

	// Message explains the verdict for display. Never used for control
	// flow.
	Message string `json:"message"`
}

// Blocking reports whether the verdict rules out a write entirely.
// An amount mismatch is recoverable via explicit confirmation; the
// blocking outcomes are not.
func (v Verdict) Blocking() bool {
	switch v.Outcome {
	case OutcomeAlreadyPaid, OutcomeUnknownInstallment, OutcomeMissingInstallment:
		return true
	}
	return false
}

// SubmissionStatus is the terminal state of one payment submission.
type SubmissionStatus string

const (
	SubmissionAccepted            SubmissionStatus = "accepted"
	SubmissionRejected            SubmissionStatus = "rejected"
	SubmissionPendingConfirmation SubmissionStatus = "pending_confirmation"
)

// SubmissionResult is what a payment submission returns to the caller.
// Record is set only when accepted; Verdict is set for the other states so
// the UI can show the user what to fix or confirm.
type SubmissionResult struct {
	Status  SubmissionStatus `json:"status"`
	Record  *FeeRecord       `json:"record,omitempty"`
	Verdict *Verdict         `json:"verdict,omitempty"`
}
