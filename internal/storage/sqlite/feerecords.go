package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/feeledger/feeledger/internal/models"
	"github.com/feeledger/feeledger/internal/storage"
)

const feeRecordColumns = `id, student_id, installment_number, amount, status,
	due_date, payment_date, payment_method, receipt_folio, bank_reference, notes, created_at`

func scanFeeRecord(scanner interface{ Scan(...any) error }) (models.FeeRecord, error) {
	var rec models.FeeRecord
	var number sql.NullInt64
	err := scanner.Scan(&rec.ID, &rec.StudentID, &number, &rec.Amount, &rec.Status,
		&rec.DueDate, &rec.PaymentDate, &rec.PaymentMethod,
		&rec.ReceiptFolio, &rec.BankReference, &rec.Notes, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	if number.Valid {
		n := int(number.Int64)
		rec.InstallmentNumber = &n
	}
	return rec, nil
}

// installmentArg converts an optional installment number into a SQL value.
func installmentArg(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

// ListFeeRecordsByStudent returns all fee records for one student.
func (s *SQLiteStore) ListFeeRecordsByStudent(ctx context.Context, studentID string) ([]models.FeeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+feeRecordColumns+` FROM fee_records
		 WHERE student_id = ?
		 ORDER BY installment_number IS NULL, installment_number, created_at`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee records: %w", err)
	}
	return collectFeeRecords(rows)
}

// ListFeeRecords returns every fee record in the ledger.
func (s *SQLiteStore) ListFeeRecords(ctx context.Context) ([]models.FeeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+feeRecordColumns+` FROM fee_records ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee records: %w", err)
	}
	return collectFeeRecords(rows)
}

func collectFeeRecords(rows *sql.Rows) ([]models.FeeRecord, error) {
	defer rows.Close()

	var records []models.FeeRecord
	for rows.Next() {
		rec, err := scanFeeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fee records: %w", err)
	}
	return records, nil
}

// GetFeeRecord retrieves one fee record by ID.
func (s *SQLiteStore) GetFeeRecord(ctx context.Context, id string) (*models.FeeRecord, error) {
	rec, err := scanFeeRecord(s.db.QueryRowContext(ctx,
		`SELECT `+feeRecordColumns+` FROM fee_records WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fee record: %w", err)
	}
	return &rec, nil
}

// InsertFeeRecord persists a new fee record, generating its ID and
// CreatedAt. A second paid record for an installment that already has one
// trips the partial unique index and comes back as ErrDuplicatePaid.
func (s *SQLiteStore) InsertFeeRecord(ctx context.Context, rec *models.FeeRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fee_records (`+feeRecordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StudentID, installmentArg(rec.InstallmentNumber), rec.Amount, rec.Status,
		rec.DueDate, rec.PaymentDate, rec.PaymentMethod,
		rec.ReceiptFolio, rec.BankReference, rec.Notes, rec.CreatedAt,
	)
	if err != nil {
		if rec.Status == models.StatusPaid && isUniqueViolation(err) {
			return storage.ErrDuplicatePaid
		}
		return fmt.Errorf("failed to insert fee record: %w", err)
	}
	return nil
}

// UpdateFeeRecord rewrites the mutable fields of an existing record.
func (s *SQLiteStore) UpdateFeeRecord(ctx context.Context, rec *models.FeeRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE fee_records
		 SET due_date = ?, payment_method = ?, receipt_folio = ?, bank_reference = ?, notes = ?
		 WHERE id = ?`,
		rec.DueDate, rec.PaymentMethod, rec.ReceiptFolio, rec.BankReference, rec.Notes, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update fee record: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CancelFeeRecord marks a record cancelled.
func (s *SQLiteStore) CancelFeeRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE fee_records SET status = ? WHERE id = ?`, models.StatusCancelled, id)
	if err != nil {
		return fmt.Errorf("failed to cancel fee record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to cancel fee record: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
