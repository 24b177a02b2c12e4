package billing

import (
	"sort"

	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Allocation is one slice of a customer-level payment assigned to an
// invoice. Invoices reached after the payment is exhausted get a zero
// allocation so the result always covers every open invoice.
type Allocation struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	Amount        valueobject.Money
}

// AllocatePayment distributes a customer-level payment across the
// customer's open invoices, oldest first. Ordering is by invoice date
// with the invoice id as a deterministic tie-breaker. Each invoice
// absorbs at most its outstanding balance.
//
// The amount must be positive and must not exceed the combined
// outstanding balance; an excessive amount rejects the whole payment
// rather than allocating a prefix.
func AllocatePayment(amount valueobject.Money, invoices []*Invoice) ([]Allocation, error) {
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	open := make([]*Invoice, 0, len(invoices))
	outstanding := valueobject.Zero(amount.Currency())
	for _, inv := range invoices {
		if !inv.IsOpen() {
			continue
		}
		var err error
		outstanding, err = outstanding.Add(inv.BalanceAmount)
		if err != nil {
			return nil, shared.NewDomainError("INVARIANT_VIOLATION", err.Error())
		}
		open = append(open, inv)
	}

	if exceeds, err := amount.GreaterThan(outstanding); err != nil {
		return nil, shared.NewDomainError("INVARIANT_VIOLATION", err.Error())
	} else if exceeds {
		return nil, shared.ErrExceedsOutstanding
	}

	sort.SliceStable(open, func(a, b int) bool {
		if open[a].InvoiceDate.Equal(open[b].InvoiceDate) {
			return open[a].ID.String() < open[b].ID.String()
		}
		return open[a].InvoiceDate.Before(open[b].InvoiceDate)
	})

	remaining := amount
	allocations := make([]Allocation, 0, len(open))
	for _, inv := range open {
		slice := valueobject.Zero(amount.Currency())
		if remaining.IsPositive() {
			var err error
			slice, err = remaining.Min(inv.BalanceAmount)
			if err != nil {
				return nil, shared.NewDomainError("INVARIANT_VIOLATION", err.Error())
			}
			remaining = remaining.MustSubtract(slice)
		}
		allocations = append(allocations, Allocation{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        slice,
		})
	}

	if !remaining.IsZero() {
		return nil, shared.ErrInvariantViolation
	}
	return allocations, nil
}
