package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/feeledger/feeledger/internal/models"
	"github.com/feeledger/feeledger/internal/reconcile"
)

// Summary is the dashboard roll-up over a set of fee records.
type Summary struct {
	// Expected sums the unpaid installments' expected amounts, using the
	// same aggregation the payment core uses, so stale expectations
	// superseded by a paid record are not counted.
	Expected decimal.Decimal `json:"expected"`

	// Collected sums every paid record, free payments included.
	Collected decimal.Decimal `json:"collected"`

	Counts struct {
		Pending   int `json:"pending"`
		Overdue   int `json:"overdue"`
		Paid      int `json:"paid"`
		Cancelled int `json:"cancelled"`
		Free      int `json:"free_payments"`
	} `json:"counts"`
}

// Summarize reduces fee records (possibly spanning many students) into
// dashboard totals. Pure. The overdue count is display-level only: pending
// installments whose due date has passed the given day are shown as
// overdue without anything being mutated.
func Summarize(records []models.FeeRecord, today string) Summary {
	var sum Summary
	sum.Expected = decimal.Zero
	sum.Collected = decimal.Zero

	byStudent := make(map[string][]models.FeeRecord)
	for _, rec := range records {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)

		switch rec.Status {
		case models.StatusPaid:
			sum.Collected = sum.Collected.Add(rec.AmountValue())
			sum.Counts.Paid++
			if rec.InstallmentNumber == nil {
				sum.Counts.Free++
			}
		case models.StatusCancelled:
			sum.Counts.Cancelled++
		}
	}

	for _, recs := range byStudent {
		for _, inst := range reconcile.Aggregate(recs) {
			if !inst.IsPending {
				continue
			}
			sum.Expected = sum.Expected.Add(inst.ExpectedAmount)
			if inst.DueDate != "" && inst.DueDate < today {
				sum.Counts.Overdue++
			} else {
				sum.Counts.Pending++
			}
		}
	}
	return sum
}

// Dashboard builds the school-wide summary, or a per-student one when
// studentID is set.
func (s *FeeService) Dashboard(ctx context.Context, studentID, today string) (*Summary, error) {
	var (
		records []models.FeeRecord
		err     error
	)
	if studentID != "" {
		records, err = s.store.ListFeeRecordsByStudent(ctx, studentID)
	} else {
		records, err = s.store.ListFeeRecords(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fee records: %w", err)
	}

	sum := Summarize(records, today)
	return &sum, nil
}
