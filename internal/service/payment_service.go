// Package service holds the orchestrating layer between the HTTP surface
// and storage. Services carry no state beyond their injected store and run
// one read plus at most one write per call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feeledger/feeledger/internal/models"
	"github.com/feeledger/feeledger/internal/reconcile"
	"github.com/feeledger/feeledger/internal/storage"
)

// FeeRecordStore is the slice of the store the payment orchestrator needs.
// Narrow on purpose so tests can substitute an in-memory fake.
type FeeRecordStore interface {
	ListFeeRecordsByStudent(ctx context.Context, studentID string) ([]models.FeeRecord, error)
	InsertFeeRecord(ctx context.Context, rec *models.FeeRecord) error
}

// PaymentService orchestrates payment submission: aggregation, validation,
// confirmation escalation, and the final insert. It is the only component
// in the core with side effects.
type PaymentService struct {
	store FeeRecordStore
}

// NewPaymentService creates a new PaymentService with the given storage
// backend.
func NewPaymentService(store FeeRecordStore) *PaymentService {
	return &PaymentService{store: store}
}

// InstallmentPlan returns the student's derived installment catalog.
func (s *PaymentService) InstallmentPlan(ctx context.Context, studentID string) ([]models.Installment, error) {
	records, err := s.store.ListFeeRecordsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fee records: %w", err)
	}
	return reconcile.Aggregate(records), nil
}

// SubmitPayment validates the candidate against the student's installment
// catalog and, when allowed, inserts one new paid fee record.
//
// Blocking verdicts reject without writing. An amount mismatch comes back
// as pending_confirmation unless confirmMismatch is set, in which case the
// write proceeds with the candidate's amount and the discrepancy is
// appended to the record's notes for audit. Store failures are returned as
// errors; nothing partial ever persists, so the caller can simply retry
// from scratch.
func (s *PaymentService) SubmitPayment(ctx context.Context, candidate models.PaymentCandidate, confirmMismatch bool) (*models.SubmissionResult, error) {
	records, err := s.store.ListFeeRecordsByStudent(ctx, candidate.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fee records: %w", err)
	}

	catalog := reconcile.Aggregate(records)
	verdict := reconcile.Validate(candidate, catalog)

	if verdict.Blocking() {
		slog.Info("payment rejected",
			"student_id", candidate.StudentID,
			"outcome", verdict.Outcome,
		)
		return &models.SubmissionResult{Status: models.SubmissionRejected, Verdict: &verdict}, nil
	}

	if verdict.Outcome == models.OutcomeAmountMismatch && !confirmMismatch {
		slog.Info("payment needs confirmation",
			"student_id", candidate.StudentID,
			"expected", verdict.Matched.ExpectedAmount,
			"given", candidate.Amount,
		)
		return &models.SubmissionResult{Status: models.SubmissionPendingConfirmation, Verdict: &verdict}, nil
	}

	rec := buildPaidRecord(candidate, verdict)
	if err := s.store.InsertFeeRecord(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrDuplicatePaid) {
			// Lost a race with a concurrent submission: the store-level
			// uniqueness constraint caught what the stale catalog missed.
			msg := "an identical payment was recorded concurrently"
			if candidate.InstallmentNumber != nil {
				msg = fmt.Sprintf("installment %d was paid concurrently", *candidate.InstallmentNumber)
			}
			lost := models.Verdict{
				Outcome: models.OutcomeAlreadyPaid,
				Matched: verdict.Matched,
				Message: msg,
			}
			slog.Warn("payment lost duplicate race",
				"student_id", candidate.StudentID,
				"free_payment", candidate.IsFreePayment,
			)
			return &models.SubmissionResult{Status: models.SubmissionRejected, Verdict: &lost}, nil
		}
		return nil, fmt.Errorf("failed to insert fee record: %w", err)
	}

	slog.Info("payment accepted",
		"student_id", candidate.StudentID,
		"record_id", rec.ID,
		"amount", rec.Amount,
		"free_payment", candidate.IsFreePayment,
	)
	return &models.SubmissionResult{Status: models.SubmissionAccepted, Record: rec}, nil
}

// buildPaidRecord turns an approved candidate into the fee record to
// insert. The existing pending/overdue row, if any, is never touched; the
// new paid record becomes authoritative through aggregation precedence.
func buildPaidRecord(candidate models.PaymentCandidate, verdict models.Verdict) *models.FeeRecord {
	rec := &models.FeeRecord{
		StudentID:     candidate.StudentID,
		Amount:        candidate.Amount.String(),
		Status:        models.StatusPaid,
		PaymentDate:   candidate.PaymentDate,
		PaymentMethod: candidate.PaymentMethod,
		ReceiptFolio:  candidate.ReceiptFolio,
		BankReference: candidate.BankReference,
		Notes:         candidate.Notes,
	}
	if rec.PaymentDate == "" {
		rec.PaymentDate = time.Now().Format("2006-01-02")
	}
	if candidate.InstallmentNumber != nil {
		// Validated selection, or an unvalidated label on a free payment.
		n := *candidate.InstallmentNumber
		rec.InstallmentNumber = &n
	}
	if verdict.Outcome == models.OutcomeAmountMismatch {
		audit := fmt.Sprintf("amount confirmed despite mismatch: expected %s, paid %s",
			verdict.Matched.ExpectedAmount, candidate.Amount)
		if rec.Notes != "" {
			rec.Notes += "; "
		}
		rec.Notes += audit
	}
	return rec
}
