package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/db"
)

type PgStore struct{}

// Append runs the whole ledger write in one transaction: lock the user
// row, insert the entry, adjust the balance with an atomic increment,
// and credit the freelancer when a payment settles an order.
func (PgStore) Append(ctx context.Context, t *Transaction, delta decimal.Decimal) error {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.Internal("transaction start failed", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, t.UserID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to lock user", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (id, user_id, order_id, amount, type, status, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.UserID, t.OrderID, t.Amount, t.Type, t.Status, t.Description, t.CreatedAt,
	)
	if err != nil {
		return apperr.Internal("could not record transaction", err)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2`,
		delta, t.UserID); err != nil {
		return apperr.Internal("failed to adjust balance", err)
	}

	if t.Type == TypePayment && t.OrderID != nil {
		if _, err = tx.Exec(ctx,
			`UPDATE users
			 SET total_earned = total_earned + $1, completed_jobs = completed_jobs + 1
			 WHERE id = (SELECT freelancer_id FROM orders WHERE id = $2)`,
			t.Amount, *t.OrderID); err != nil {
			return apperr.Internal("failed to credit freelancer", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return apperr.Internal("commit failed", err)
	}
	return nil
}

// Reads join the referenced order through to its listing so entries
// carry a human-readable label.
const txDetailQuery = `
	SELECT t.id, t.user_id, t.order_id, t.amount, t.type, t.status, COALESCE(t.description,''),
	       COALESCE(g.title, p.title, ''), t.created_at
	FROM transactions t
	LEFT JOIN orders o ON o.id = t.order_id
	LEFT JOIN gigs g ON g.id = o.gig_id
	LEFT JOIN projects p ON p.id = o.project_id`

func (PgStore) Get(ctx context.Context, id string) (*Transaction, error) {
	var t Transaction
	err := db.Conn.QueryRow(ctx, txDetailQuery+` WHERE t.id = $1`, id).Scan(
		&t.ID, &t.UserID, &t.OrderID, &t.Amount, &t.Type, &t.Status, &t.Description, &t.OrderTitle, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, apperr.Internal("failed to fetch transaction", err)
	}
	return &t, nil
}

func (PgStore) ListByUser(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := db.Conn.Query(ctx,
		txDetailQuery+` WHERE t.user_id = $1 ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list transactions", err)
	}
	defer rows.Close()

	var list []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.OrderID, &t.Amount, &t.Type, &t.Status, &t.Description, &t.OrderTitle, &t.CreatedAt); err != nil {
			return nil, apperr.Internal("failed to scan transaction", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (PgStore) Balance(ctx context.Context, userID string) (*BalanceInfo, error) {
	var b BalanceInfo
	err := db.Conn.QueryRow(ctx,
		`SELECT balance, total_earned FROM users WHERE id = $1`, userID,
	).Scan(&b.Balance, &b.TotalEarned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to fetch balance", err)
	}
	return &b, nil
}
