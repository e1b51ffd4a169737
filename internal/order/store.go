package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/db"
)

type PgStore struct{}

func (PgStore) Insert(ctx context.Context, o *Order) error {
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO orders (id, gig_id, project_id, client_id, freelancer_id, amount, requirements, delivery_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.GigID, o.ProjectID, o.ClientID, o.FreelancerID, o.Amount, o.Requirements, o.DeliveryDate, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if db.IsCheckViolation(err) {
			return apperr.BadRequest("order violates a constraint")
		}
		return apperr.Internal("could not create order", err)
	}
	return nil
}

const orderCols = `id, gig_id, project_id, client_id, freelancer_id, amount, COALESCE(requirements,''), delivery_date, status, created_at, updated_at`

func (PgStore) Get(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := db.Conn.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.GigID, &o.ProjectID, &o.ClientID, &o.FreelancerID, &o.Amount,
		&o.Requirements, &o.DeliveryDate, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("failed to fetch order", err)
	}
	return &o, nil
}

const orderDetailQuery = `
	SELECT o.id, o.gig_id, o.project_id, o.client_id, o.freelancer_id, o.amount,
	       COALESCE(o.requirements,''), o.delivery_date, o.status, o.created_at, o.updated_at,
	       COALESCE(g.title, p.title, ''), cu.name, fu.name
	FROM orders o
	LEFT JOIN gigs g ON g.id = o.gig_id
	LEFT JOIN projects p ON p.id = o.project_id
	JOIN users cu ON cu.id = o.client_id
	JOIN users fu ON fu.id = o.freelancer_id`

func (PgStore) GetDetail(ctx context.Context, id string) (*OrderDetail, error) {
	var d OrderDetail
	err := db.Conn.QueryRow(ctx, orderDetailQuery+` WHERE o.id = $1`, id).Scan(
		&d.ID, &d.GigID, &d.ProjectID, &d.ClientID, &d.FreelancerID, &d.Amount,
		&d.Requirements, &d.DeliveryDate, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.ListingTitle, &d.ClientName, &d.FreelancerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("failed to fetch order", err)
	}
	return &d, nil
}

func (PgStore) ListByClient(ctx context.Context, clientID string) ([]OrderDetail, error) {
	return listOrders(ctx, ` WHERE o.client_id = $1 ORDER BY o.created_at DESC`, clientID)
}

func (PgStore) ListByFreelancer(ctx context.Context, freelancerID string) ([]OrderDetail, error) {
	return listOrders(ctx, ` WHERE o.freelancer_id = $1 ORDER BY o.created_at DESC`, freelancerID)
}

func listOrders(ctx context.Context, clause string, arg any) ([]OrderDetail, error) {
	rows, err := db.Conn.Query(ctx, orderDetailQuery+clause, arg)
	if err != nil {
		return nil, apperr.Internal("failed to list orders", err)
	}
	defer rows.Close()

	var orders []OrderDetail
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(&d.ID, &d.GigID, &d.ProjectID, &d.ClientID, &d.FreelancerID, &d.Amount,
			&d.Requirements, &d.DeliveryDate, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.ListingTitle, &d.ClientName, &d.FreelancerName); err != nil {
			return nil, apperr.Internal("failed to scan order", err)
		}
		orders = append(orders, d)
	}
	return orders, rows.Err()
}

func (PgStore) UpdateFields(ctx context.Context, id string, in UpdateInput) error {
	sets, args := []string{}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Requirements != nil {
		add("requirements", *in.Requirements)
	}
	if in.DeliveryDate != nil {
		add("delivery_date", *in.DeliveryDate)
	}
	if len(sets) == 0 {
		return nil
	}
	add("updated_at", time.Now())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	ct, err := db.Conn.Exec(ctx, query, args...)
	if err != nil {
		return apperr.Internal("failed to update order", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}

// Transition locks the order row, re-checks the move against the graph,
// and applies it. Concurrent transitions on the same order serialize
// here; a loser that raced past the service-level check fails cleanly.
func (PgStore) Transition(ctx context.Context, id, newStatus string) error {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.Internal("transaction start failed", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("order not found")
		}
		return apperr.Internal("failed to lock order", err)
	}
	if !CanTransition(current, newStatus) {
		return apperr.BadRequest("illegal status transition from " + current + " to " + newStatus)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		newStatus, time.Now(), id); err != nil {
		return apperr.Internal("failed to update order status", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return apperr.Internal("commit failed", err)
	}
	return nil
}
