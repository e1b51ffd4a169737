package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypePayment    = "payment"
	TypeRefund     = "refund"
	TypeWithdrawal = "withdrawal"
	TypeDeposit    = "deposit"
)

// Transaction is an append-only ledger entry. Amount is always the
// positive magnitude; the type decides the sign applied to the balance.
// OrderTitle is the joined listing title of the referenced order,
// populated on reads only.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	OrderID     *string         `json:"order_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
	OrderTitle  string          `json:"order_title,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BalanceInfo is the cached money view of a user.
type BalanceInfo struct {
	Balance     decimal.Decimal `json:"balance"`
	TotalEarned decimal.Decimal `json:"total_earned"`
}

type CreateInput struct {
	UserID      string          `json:"user_id"`
	OrderID     *string         `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
}

// Delta returns the signed balance change for a transaction type:
// deposits and refunds credit, payments and withdrawals debit.
func Delta(txType string, amount decimal.Decimal) (decimal.Decimal, bool) {
	switch txType {
	case TypeDeposit, TypeRefund:
		return amount, true
	case TypePayment, TypeWithdrawal:
		return amount.Neg(), true
	default:
		return decimal.Zero, false
	}
}
