package reconcile

import (
	"reflect"
	"testing"

	"github.com/feeledger/feeledger/internal/models"
)

func num(n int) *int { return &n }

func TestAggregate(t *testing.T) {
	tests := []struct {
		name         string
		records      []models.FeeRecord
		validateFunc func(t *testing.T, catalog []models.Installment)
	}{
		{
			name:    "empty input yields empty catalog",
			records: nil,
			validateFunc: func(t *testing.T, catalog []models.Installment) {
				if len(catalog) != 0 {
					t.Errorf("catalog len = %d, want 0", len(catalog))
				}
			},
		},
		{
			name: "one installment per distinct number, sorted ascending",
			records: []models.FeeRecord{
				{ID: "c", StudentID: "s1", InstallmentNumber: num(3), Amount: "50000", Status: models.StatusPending, DueDate: "2026-03-10"},
				{ID: "a", StudentID: "s1", InstallmentNumber: num(1), Amount: "50000", Status: models.StatusPaid, PaymentDate: "2026-01-09"},
				{ID: "b", StudentID: "s1", InstallmentNumber: num(2), Amount: "50000", Status: models.StatusOverdue, DueDate: "2026-02-10"},
			},
			validateFunc: func(t *testing.T, catalog []models.Installment) {
				if len(catalog) != 3 {
					t.Fatalf("catalog len = %d, want 3", len(catalog))
				}
				for i, want := range []int{1, 2, 3} {
					if catalog[i].Number != want {
						t.Errorf("catalog[%d].Number = %d, want %d", i, catalog[i].Number, want)
					}
				}
				if !catalog[0].IsPaid || catalog[0].IsPending {
					t.Errorf("installment 1: IsPaid=%v IsPending=%v, want paid", catalog[0].IsPaid, catalog[0].IsPending)
				}
				if !catalog[1].IsPending {
					t.Error("installment 2 (overdue) should be pending")
				}
			},
		},
		{
			name: "paid record beats stale pending row for the same number",
			records: []models.FeeRecord{
				{ID: "stale", StudentID: "s1", InstallmentNumber: num(4), Amount: "45000", Status: models.StatusPending, DueDate: "2026-04-10"},
				{ID: "paid", StudentID: "s1", InstallmentNumber: num(4), Amount: "45000", Status: models.StatusPaid, PaymentDate: "2026-04-12"},
			},
			validateFunc: func(t *testing.T, catalog []models.Installment) {
				if len(catalog) != 1 {
					t.Fatalf("catalog len = %d, want 1", len(catalog))
				}
				if !catalog[0].IsPaid {
					t.Error("paid record must take precedence over pending")
				}
				if catalog[0].PaymentDate != "2026-04-12" {
					t.Errorf("PaymentDate = %q, want 2026-04-12", catalog[0].PaymentDate)
				}
			},
		},
		{
			name: "duplicate paid rows resolve to the latest payment date",
			records: []models.FeeRecord{
				{ID: "p1", StudentID: "s1", InstallmentNumber: num(2), Amount: "30000", Status: models.StatusPaid, PaymentDate: "2026-02-01"},
				{ID: "p2", StudentID: "s1", InstallmentNumber: num(2), Amount: "31000", Status: models.StatusPaid, PaymentDate: "2026-02-15"},
			},
			validateFunc: func(t *testing.T, catalog []models.Installment) {
				if catalog[0].PaymentDate != "2026-02-15" {
					t.Errorf("PaymentDate = %q, want the later 2026-02-15", catalog[0].PaymentDate)
				}
				if catalog[0].ExpectedAmount.String() != "31000" {
					t.Errorf("ExpectedAmount = %s, want 31000", catalog[0].ExpectedAmount)
				}
			},
		},
		{
			name: "duplicate expectations resolve to the latest due date",
			records: []models.FeeRecord{
				{ID: "old", StudentID: "s1", InstallmentNumber: num(5), Amount: "40000", Status: models.StatusPending, DueDate: "2026-05-01"},
				{ID: "new", StudentID: "s1", InstallmentNumber: num(5), Amount: "42000", Status: models.StatusPending, DueDate: "2026-05-20"},
			},
			validateFunc: func(t *testing.T, catalog []models.Installment) {
				if catalog[0].ExpectedAmount.String() != "42000" {
					t.Errorf("ExpectedAmount = %s, want the re-defined 42000", catalog[0].ExpectedAmount)
				}
				if catalog[0].DueDate != "2026-05-20" {
					t.Errorf("DueDate = %q, want 2026-05-20", catalog[0].DueDate)
				}
			},
		},
		{
			name: "free payments never appear in the catalog",
			records: []models.FeeRecord{
				{ID: "f1", StudentID: "s1", Amount: "12000", Status: models.StatusPaid, PaymentDate: "2026-01-05"},
				{ID: "f2", StudentID: "s1", Amount: "8000", Status: models.StatusPaid, PaymentDate: "2026-01-06"},
				{ID: "r1", StudentID: "s1", InstallmentNumber: num(1), Amount: "50000", Status: models.StatusPending, DueDate: "2026-01-10"},
			},
			validateFunc: func(t *testing.T, catalog []models.Installment) {
				if len(catalog) != 1 {
					t.Fatalf("catalog len = %d, want 1 (free payments excluded)", len(catalog))
				}
				if catalog[0].Number != 1 {
					t.Errorf("Number = %d, want 1", catalog[0].Number)
				}
			},
		},
		{
			name: "malformed amount degrades to zero",
			records: []models.FeeRecord{
				{ID: "bad", StudentID: "s1", InstallmentNumber: num(7), Amount: "not-a-number", Status: models.StatusPending, DueDate: "2026-07-10"},
			},
			validateFunc: func(t *testing.T, catalog []models.Installment) {
				if !catalog[0].ExpectedAmount.IsZero() {
					t.Errorf("ExpectedAmount = %s, want 0 for malformed input", catalog[0].ExpectedAmount)
				}
			},
		},
		{
			name: "cancelled-only installment is neither paid nor pending",
			records: []models.FeeRecord{
				{ID: "c1", StudentID: "s1", InstallmentNumber: num(6), Amount: "40000", Status: models.StatusCancelled, DueDate: "2026-06-10"},
			},
			validateFunc: func(t *testing.T, catalog []models.Installment) {
				if catalog[0].IsPaid || catalog[0].IsPending {
					t.Errorf("cancelled installment: IsPaid=%v IsPending=%v, want false/false", catalog[0].IsPaid, catalog[0].IsPending)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := Aggregate(tt.records)
			tt.validateFunc(t, catalog)
		})
	}
}

func TestAggregateDeterminism(t *testing.T) {
	records := []models.FeeRecord{
		{ID: "a", InstallmentNumber: num(1), Amount: "50000", Status: models.StatusPaid, PaymentDate: "2026-01-09"},
		{ID: "b", InstallmentNumber: num(1), Amount: "50000", Status: models.StatusPending, DueDate: "2026-01-10"},
		{ID: "c", InstallmentNumber: num(2), Amount: "50000", Status: models.StatusPending, DueDate: "2026-02-10"},
		{ID: "d", InstallmentNumber: num(2), Amount: "52000", Status: models.StatusPending, DueDate: "2026-02-10"},
		{ID: "e", Amount: "9000", Status: models.StatusPaid, PaymentDate: "2026-01-02"},
	}

	first := Aggregate(records)

	// Same records, reversed input order, must yield an identical catalog.
	reversed := make([]models.FeeRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	second := Aggregate(reversed)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregate is input-order dependent:\n first = %+v\nsecond = %+v", first, second)
	}

	// Equal due dates on installment 2: the higher record ID wins, so "d".
	if first[1].ExpectedAmount.String() != "52000" {
		t.Errorf("installment 2 amount = %s, want 52000 (id tie-break)", first[1].ExpectedAmount)
	}
}
