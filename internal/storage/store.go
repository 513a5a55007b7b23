// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/feeledger/feeledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePaid is returned when inserting a paid record for an
	// installment that already has one. Backed by a uniqueness constraint
	// so concurrent submissions for the same installment cannot both land.
	ErrDuplicatePaid = errors.New("installment already has a paid record")

	// ErrEmailExists is returned when creating a user with a taken email.
	ErrEmailExists = errors.New("email already registered")
)

// Store defines the interface for fee ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// ListFeeRecordsByStudent returns every fee record for one student,
	// with no filtering beyond the student scope.
	ListFeeRecordsByStudent(ctx context.Context, studentID string) ([]models.FeeRecord, error)

	// ListFeeRecords returns every fee record in the ledger.
	ListFeeRecords(ctx context.Context) ([]models.FeeRecord, error)

	// GetFeeRecord retrieves one fee record by ID.
	GetFeeRecord(ctx context.Context, id string) (*models.FeeRecord, error)

	// InsertFeeRecord persists a new fee record. The ID and CreatedAt
	// fields are populated by the store. Inserting a second paid record
	// for the same (student, installment) pair fails with
	// ErrDuplicatePaid.
	InsertFeeRecord(ctx context.Context, rec *models.FeeRecord) error

	// UpdateFeeRecord rewrites an existing record's mutable fields
	// (due date, method, metadata). Status and amount of paid records
	// are not touched through this path.
	UpdateFeeRecord(ctx context.Context, rec *models.FeeRecord) error

	// CancelFeeRecord marks a record cancelled, the administrative
	// escape hatch outside the payment path.
	CancelFeeRecord(ctx context.Context, id string) error

	// Students
	CreateStudent(ctx context.Context, st *models.Student) error
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	UpdateStudent(ctx context.Context, st *models.Student) error
	DeleteStudent(ctx context.Context, id string) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
