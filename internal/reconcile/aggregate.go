// Package reconcile implements the pure installment reconciliation core:
// deriving a student's installment catalog from raw fee records, and
// validating proposed payments against that catalog. Both entry points are
// side-effect free and deterministic, so callers can re-run them freely.
package reconcile

import (
	"sort"

	"github.com/feeledger/feeledger/internal/models"
)

// Aggregate reduces one student's fee records into a numbered installment
// catalog, one entry per distinct installment number, sorted ascending.
//
// Records without an installment number are free payments and never appear
// in the catalog. When several records share a number, the authoritative
// one is chosen by precedence: a paid record beats any non-paid record;
// among paid records the latest payment date wins; among non-paid records
// the latest due date wins (the most recently defined expectation). Ties on
// equal dates fall back to record ID so the result never depends on input
// order.
func Aggregate(records []models.FeeRecord) []models.Installment {
	authoritative := make(map[int]models.FeeRecord)
	for _, rec := range records {
		if rec.InstallmentNumber == nil {
			continue
		}
		n := *rec.InstallmentNumber
		cur, ok := authoritative[n]
		if !ok || supersedes(rec, cur) {
			authoritative[n] = rec
		}
	}

	catalog := make([]models.Installment, 0, len(authoritative))
	for n, rec := range authoritative {
		catalog = append(catalog, models.Installment{
			Number:         n,
			ExpectedAmount: rec.AmountValue(),
			IsPaid:         rec.Status == models.StatusPaid,
			IsPending:      rec.Status == models.StatusPending || rec.Status == models.StatusOverdue,
			DueDate:        rec.DueDate,
			PaymentDate:    rec.PaymentDate,
		})
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].Number < catalog[j].Number })
	return catalog
}

// supersedes reports whether a should replace b as the authoritative record
// for their shared installment number.
func supersedes(a, b models.FeeRecord) bool {
	aPaid := a.Status == models.StatusPaid
	bPaid := b.Status == models.StatusPaid
	if aPaid != bPaid {
		return aPaid
	}
	if aPaid {
		// Duplicate paid rows are a data anomaly; the latest payment wins.
		if a.PaymentDate != b.PaymentDate {
			return a.PaymentDate > b.PaymentDate
		}
		return a.ID > b.ID
	}
	if a.DueDate != b.DueDate {
		return a.DueDate > b.DueDate
	}
	return a.ID > b.ID
}
