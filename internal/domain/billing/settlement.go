package billing

import (
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
)

// Settlement is the result of recomputing an invoice's derived fields
// from its full payment history
type Settlement struct {
	Total         valueobject.Money
	Paid          valueobject.Money
	Balance       valueobject.Money
	PendingCheque valueobject.Money
	Status        PaymentStatus
}

// CalculateSettlement derives {paid, balance, pending cheque, status}
// for an invoice from the complete set of its payment rows. The
// calculation is pure and idempotent: it never looks at previously
// stored derived fields.
//
// Recognition rule: cash/card/bank-transfer payments and CLEARED
// cheques count toward paid; PENDING cheques accumulate separately;
// BOUNCED and CANCELLED cheques count nowhere. The balance is floored
// at zero, and the paid/total comparison happens at cent precision.
func CalculateSettlement(total valueobject.Money, payments []*Payment) (Settlement, error) {
	currency := total.Currency()
	paid := valueobject.Zero(currency)
	pending := valueobject.Zero(currency)

	for _, p := range payments {
		if !p.Amount.IsPositive() {
			return Settlement{}, shared.ErrInvariantViolation
		}

		var err error
		switch {
		case p.CountsTowardPaid():
			paid, err = paid.Add(p.Amount)
		case p.IsPendingCheque():
			pending, err = pending.Add(p.Amount)
		}
		if err != nil {
			return Settlement{}, shared.NewDomainError("INVARIANT_VIOLATION", err.Error())
		}
	}

	balance, err := total.Subtract(paid)
	if err != nil {
		return Settlement{}, shared.NewDomainError("INVARIANT_VIOLATION", err.Error())
	}
	if balance.IsNegative() {
		// Overpayment is absorbed: the ledger never reports a negative balance.
		balance = valueobject.Zero(currency)
	}

	status := PaymentStatusUnpaid
	switch {
	case paid.EqualsRounded(total) || mustGTE(paid, total):
		status = PaymentStatusPaid
	case paid.IsPositive():
		status = PaymentStatusPartial
	}

	return Settlement{
		Total:         total,
		Paid:          paid,
		Balance:       balance,
		PendingCheque: pending,
		Status:        status,
	}, nil
}

// mustGTE compares same-currency amounts; the currencies were already
// checked by the arithmetic above.
func mustGTE(a, b valueobject.Money) bool {
	ok, err := a.GreaterThanOrEqual(b)
	if err != nil {
		return false
	}
	return ok
}
