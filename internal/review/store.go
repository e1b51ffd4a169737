package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/db"
)

type PgStore struct{}

func (PgStore) OrderParties(ctx context.Context, orderID string) (string, string, string, error) {
	var clientID, freelancerID, status string
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id, freelancer_id, status FROM orders WHERE id = $1`, orderID,
	).Scan(&clientID, &freelancerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", "", apperr.NotFound("order not found")
		}
		return "", "", "", apperr.Internal("failed to fetch order", err)
	}
	return clientID, freelancerID, status, nil
}

// InsertAndRecompute writes the review and refreshes the reviewee's
// cached rating in one transaction. The reviewee row is locked first so
// two concurrent reviews both land in the aggregate.
func (PgStore) InsertAndRecompute(ctx context.Context, r *Review) error {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.Internal("transaction start failed", err)
	}
	defer tx.Rollback(ctx)

	var revieweeID string
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, r.RevieweeID).Scan(&revieweeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("reviewee not found")
		}
		return apperr.Internal("failed to lock reviewee", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO reviews (id, order_id, reviewer_id, reviewee_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.OrderID, r.ReviewerID, r.RevieweeID, r.Rating, r.Comment, r.CreatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("you already reviewed this order")
		}
		return apperr.Internal("could not create review", err)
	}

	// ROUND(avg, 1) keeps one decimal place, matching the users.rating
	// column precision.
	_, err = tx.Exec(ctx,
		`UPDATE users
		 SET rating = (SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE reviewee_id = $1)
		 WHERE id = $1`,
		r.RevieweeID,
	)
	if err != nil {
		return apperr.Internal("failed to refresh rating", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return apperr.Internal("commit failed", err)
	}
	return nil
}

const reviewDetailQuery = `
	SELECT r.id, r.order_id, r.reviewer_id, r.reviewee_id, r.rating, COALESCE(r.comment,''), r.created_at,
	       ru.name, eu.name
	FROM reviews r
	JOIN users ru ON ru.id = r.reviewer_id
	JOIN users eu ON eu.id = r.reviewee_id`

func (PgStore) Get(ctx context.Context, id string) (*ReviewDetail, error) {
	var d ReviewDetail
	err := db.Conn.QueryRow(ctx, reviewDetailQuery+` WHERE r.id = $1`, id).Scan(
		&d.ID, &d.OrderID, &d.ReviewerID, &d.RevieweeID, &d.Rating, &d.Comment, &d.CreatedAt,
		&d.ReviewerName, &d.RevieweeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal("failed to fetch review", err)
	}
	return &d, nil
}

func (PgStore) ListByReviewee(ctx context.Context, userID string) ([]ReviewDetail, error) {
	rows, err := db.Conn.Query(ctx, reviewDetailQuery+` WHERE r.reviewee_id = $1 ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []ReviewDetail
	for rows.Next() {
		var d ReviewDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ReviewerID, &d.RevieweeID, &d.Rating, &d.Comment, &d.CreatedAt,
			&d.ReviewerName, &d.RevieweeName); err != nil {
			return nil, apperr.Internal("failed to scan review", err)
		}
		reviews = append(reviews, d)
	}
	return reviews, rows.Err()
}
