package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feeledger/feeledger/internal/models"
)

// LedgerStore is the slice of the store the fee CRUD service needs.
type LedgerStore interface {
	ListFeeRecordsByStudent(ctx context.Context, studentID string) ([]models.FeeRecord, error)
	ListFeeRecords(ctx context.Context) ([]models.FeeRecord, error)
	GetFeeRecord(ctx context.Context, id string) (*models.FeeRecord, error)
	InsertFeeRecord(ctx context.Context, rec *models.FeeRecord) error
	UpdateFeeRecord(ctx context.Context, rec *models.FeeRecord) error
	CancelFeeRecord(ctx context.Context, id string) error
}

// FeeService manages the fee record collection around the payment core:
// creating expectations, editing metadata, cancelling, and reporting.
type FeeService struct {
	store LedgerStore
}

// NewFeeService creates a new FeeService with the given storage backend.
func NewFeeService(store LedgerStore) *FeeService {
	return &FeeService{store: store}
}

// ExpectationInput describes a new pending installment expectation.
type ExpectationInput struct {
	StudentID         string
	InstallmentNumber int
	Amount            decimal.Decimal
	DueDate           string
	Notes             string
}

// CreateExpectation inserts a pending record defining what an installment
// should cost and when it falls due.
func (s *FeeService) CreateExpectation(ctx context.Context, in ExpectationInput) (*models.FeeRecord, error) {
	if in.StudentID == "" {
		return nil, fmt.Errorf("student_id is required")
	}
	if in.InstallmentNumber <= 0 {
		return nil, fmt.Errorf("installment_number must be positive")
	}
	if in.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if _, err := time.Parse("2006-01-02", in.DueDate); err != nil {
		return nil, fmt.Errorf("due_date must be YYYY-MM-DD")
	}

	n := in.InstallmentNumber
	rec := &models.FeeRecord{
		StudentID:         in.StudentID,
		InstallmentNumber: &n,
		Amount:            in.Amount.String(),
		Status:            models.StatusPending,
		DueDate:           in.DueDate,
		Notes:             in.Notes,
	}
	if err := s.store.InsertFeeRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to insert expectation: %w", err)
	}

	slog.Info("expectation created",
		"student_id", in.StudentID,
		"installment", in.InstallmentNumber,
		"amount", rec.Amount,
		"due_date", in.DueDate,
	)
	return rec, nil
}

// ListByStudent returns a student's raw fee records, optionally filtered by
// status. Filtering happens here, not in the store, so the store contract
// stays "by student" only.
func (s *FeeService) ListByStudent(ctx context.Context, studentID string, status models.Status) ([]models.FeeRecord, error) {
	records, err := s.store.ListFeeRecordsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee records: %w", err)
	}
	if status == "" {
		return records, nil
	}
	filtered := make([]models.FeeRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == status {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// RecordUpdate carries the editable fields of a fee record. Amount and
// status stay immutable through this path; payments go through the
// orchestrator and cancellation through Cancel.
type RecordUpdate struct {
	DueDate       string
	PaymentMethod models.PaymentMethod
	ReceiptFolio  string
	BankReference string
	Notes         string
}

// Update edits a record's metadata.
func (s *FeeService) Update(ctx context.Context, id string, upd RecordUpdate) (*models.FeeRecord, error) {
	rec, err := s.store.GetFeeRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.DueDate != "" {
		if _, err := time.Parse("2006-01-02", upd.DueDate); err != nil {
			return nil, fmt.Errorf("due_date must be YYYY-MM-DD")
		}
		rec.DueDate = upd.DueDate
	}
	if !upd.PaymentMethod.Valid() {
		return nil, fmt.Errorf("unknown payment method %q", upd.PaymentMethod)
	}
	if upd.PaymentMethod != "" {
		rec.PaymentMethod = upd.PaymentMethod
	}
	rec.ReceiptFolio = upd.ReceiptFolio
	rec.BankReference = upd.BankReference
	rec.Notes = upd.Notes

	if err := s.store.UpdateFeeRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Cancel marks a record cancelled.
func (s *FeeService) Cancel(ctx context.Context, id string) error {
	if err := s.store.CancelFeeRecord(ctx, id); err != nil {
		return err
	}
	slog.Info("fee record cancelled", "record_id", id)
	return nil
}
