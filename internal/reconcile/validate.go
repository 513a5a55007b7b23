package reconcile

import (
	"fmt"

	"github.com/feeledger/feeledger/internal/models"
)

// Validate classifies a payment candidate against the installment catalog
// and returns exactly one verdict. It is total: any well-formed candidate
// and any catalog (including empty) produce a verdict, never a panic.
//
// Free payments always validate ok and are never matched against the
// catalog; an installment number on a free payment is a label only. For
// plan payments the candidate must name a known, unpaid installment and
// match its expected amount exactly (decimal equality, not fuzzy). A
// non-positive amount never validates ok, even against a zero-amount
// installment left behind by a corrupted record.
func Validate(candidate models.PaymentCandidate, catalog []models.Installment) models.Verdict {
	if candidate.IsFreePayment {
		return models.Verdict{
			Outcome: models.OutcomeOK,
			Message: "free payment, not matched against the installment plan",
		}
	}

	if candidate.InstallmentNumber == nil {
		return models.Verdict{
			Outcome: models.OutcomeMissingInstallment,
			Message: "select an installment or mark the payment as free",
		}
	}
	n := *candidate.InstallmentNumber

	var matched *models.Installment
	for i := range catalog {
		if catalog[i].Number == n {
			inst := catalog[i] // copy, the verdict must not alias the catalog
			matched = &inst
			break
		}
	}
	if matched == nil {
		return models.Verdict{
			Outcome: models.OutcomeUnknownInstallment,
			Message: fmt.Sprintf("installment %d is not part of the student's plan", n),
		}
	}

	if matched.IsPaid {
		return models.Verdict{
			Outcome: models.OutcomeAlreadyPaid,
			Matched: matched,
			Message: fmt.Sprintf("installment %d was already paid on %s", n, matched.PaymentDate),
		}
	}

	if candidate.Amount.Sign() <= 0 || !candidate.Amount.Equal(matched.ExpectedAmount) {
		return models.Verdict{
			Outcome: models.OutcomeAmountMismatch,
			Matched: matched,
			Message: fmt.Sprintf("installment %d expects %s, got %s",
				n, matched.ExpectedAmount, candidate.Amount),
		}
	}

	return models.Verdict{
		Outcome: models.OutcomeOK,
		Matched: matched,
		Message: fmt.Sprintf("installment %d matched", n),
	}
}
