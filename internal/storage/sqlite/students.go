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

func scanStudent(scanner interface{ Scan(...any) error }) (models.Student, error) {
	var st models.Student
	err := scanner.Scan(&st.ID, &st.Name, &st.Grade, &st.GuardianName, &st.GuardianPhone,
		&st.Active, &st.CreatedAt)
	return st, err
}

// CreateStudent inserts a new student, generating its ID and CreatedAt.
func (s *SQLiteStore) CreateStudent(ctx context.Context, st *models.Student) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.CreatedAt == 0 {
		st.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO students (id, name, grade, guardian_name, guardian_phone, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Name, st.Grade, st.GuardianName, st.GuardianPhone, st.Active, st.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}
	return nil
}

// GetStudent retrieves a student by ID.
func (s *SQLiteStore) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	st, err := scanStudent(s.db.QueryRowContext(ctx,
		`SELECT id, name, grade, guardian_name, guardian_phone, active, created_at
		 FROM students WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &st, nil
}

// ListStudents returns all students ordered by name.
func (s *SQLiteStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, grade, guardian_name, guardian_phone, active, created_at
		 FROM students ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}
	return students, nil
}

// UpdateStudent rewrites a student's fields.
func (s *SQLiteStore) UpdateStudent(ctx context.Context, st *models.Student) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE students SET name = ?, grade = ?, guardian_name = ?, guardian_phone = ?, active = ?
		 WHERE id = ?`,
		st.Name, st.Grade, st.GuardianName, st.GuardianPhone, st.Active, st.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteStudent removes a student and, via the foreign key cascade, their
// fee records.
func (s *SQLiteStore) DeleteStudent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
