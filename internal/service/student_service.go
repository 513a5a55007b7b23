package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/feeledger/feeledger/internal/models"
)

// StudentStore is the slice of the store the student service needs.
type StudentStore interface {
	CreateStudent(ctx context.Context, st *models.Student) error
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	UpdateStudent(ctx context.Context, st *models.Student) error
	DeleteStudent(ctx context.Context, id string) error
}

// StudentService manages the student roster.
type StudentService struct {
	store StudentStore
}

// NewStudentService creates a new StudentService with the given storage
// backend.
func NewStudentService(store StudentStore) *StudentService {
	return &StudentService{store: store}
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, st *models.Student) error {
	if st.Name == "" {
		return fmt.Errorf("name is required")
	}
	st.Active = true
	if err := s.store.CreateStudent(ctx, st); err != nil {
		return err
	}
	slog.Info("student registered", "student_id", st.ID, "name", st.Name)
	return nil
}

// Get retrieves one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return s.store.GetStudent(ctx, id)
}

// List returns all students.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	return s.store.ListStudents(ctx)
}

// Update rewrites a student's details.
func (s *StudentService) Update(ctx context.Context, st *models.Student) error {
	if st.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.store.UpdateStudent(ctx, st)
}

// Delete removes a student and their ledger history.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteStudent(ctx, id); err != nil {
		return err
	}
	slog.Warn("student deleted with ledger history", "student_id", id)
	return nil
}
