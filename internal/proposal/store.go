package proposal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/db"
	"github.com/workhive/workhive/internal/listing"
)

type PgStore struct{}

func (PgStore) ProjectOwnerStatus(ctx context.Context, projectID string) (string, string, error) {
	var ownerID, status string
	err := db.Conn.QueryRow(ctx,
		`SELECT client_id, status FROM projects WHERE id = $1`, projectID,
	).Scan(&ownerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperr.NotFound("project not found")
		}
		return "", "", apperr.Internal("failed to fetch project", err)
	}
	return ownerID, status, nil
}

func (PgStore) Insert(ctx context.Context, p *Proposal) error {
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO proposals (id, project_id, freelancer_id, cover_letter, proposed_amount, delivery_days, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.ProjectID, p.FreelancerID, p.CoverLetter, p.ProposedAmount, p.DeliveryDays, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("you already submitted a proposal for this project")
		}
		return apperr.Internal("could not create proposal", err)
	}
	return nil
}

const proposalCols = `id, project_id, freelancer_id, COALESCE(cover_letter,''), proposed_amount, COALESCE(delivery_days,0), status, created_at, updated_at`

func (PgStore) Get(ctx context.Context, id string) (*Proposal, error) {
	var p Proposal
	err := db.Conn.QueryRow(ctx,
		`SELECT `+proposalCols+` FROM proposals WHERE id = $1`, id,
	).Scan(&p.ID, &p.ProjectID, &p.FreelancerID, &p.CoverLetter, &p.ProposedAmount, &p.DeliveryDays, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("proposal not found")
		}
		return nil, apperr.Internal("failed to fetch proposal", err)
	}
	return &p, nil
}

func (PgStore) GetDetail(ctx context.Context, id string) (*ProposalDetail, error) {
	var d ProposalDetail
	err := db.Conn.QueryRow(ctx,
		`SELECT p.id, p.project_id, p.freelancer_id, COALESCE(p.cover_letter,''), p.proposed_amount,
		        COALESCE(p.delivery_days,0), p.status, p.created_at, p.updated_at,
		        u.name, u.rating::float, pr.title
		 FROM proposals p
		 JOIN users u ON u.id = p.freelancer_id
		 JOIN projects pr ON pr.id = p.project_id
		 WHERE p.id = $1`,
		id,
	).Scan(&d.ID, &d.ProjectID, &d.FreelancerID, &d.CoverLetter, &d.ProposedAmount,
		&d.DeliveryDays, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.FreelancerName, &d.FreelancerRating, &d.ProjectTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("proposal not found")
		}
		return nil, apperr.Internal("failed to fetch proposal", err)
	}
	return &d, nil
}

func (PgStore) Update(ctx context.Context, id string, in UpdateInput) error {
	sets, args := []string{}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.CoverLetter != nil {
		add("cover_letter", *in.CoverLetter)
	}
	if in.ProposedAmount != nil {
		add("proposed_amount", *in.ProposedAmount)
	}
	if in.DeliveryDays != nil {
		add("delivery_days", *in.DeliveryDays)
	}
	if len(sets) == 0 {
		return nil
	}
	add("updated_at", time.Now())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE proposals SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	ct, err := db.Conn.Exec(ctx, query, args...)
	if err != nil {
		return apperr.Internal("failed to update proposal", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("proposal not found")
	}
	return nil
}

func (PgStore) ListByProject(ctx context.Context, projectID string) ([]Proposal, error) {
	rows, err := db.Conn.Query(ctx,
		`SELECT `+proposalCols+` FROM proposals WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to list proposals", err)
	}
	defer rows.Close()
	return scanProposals(rows)
}

func (PgStore) ListByFreelancer(ctx context.Context, freelancerID string) ([]Proposal, error) {
	rows, err := db.Conn.Query(ctx,
		`SELECT `+proposalCols+` FROM proposals WHERE freelancer_id = $1 ORDER BY created_at DESC`,
		freelancerID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to list proposals", err)
	}
	defer rows.Close()
	return scanProposals(rows)
}

func (PgStore) Delete(ctx context.Context, id string) error {
	ct, err := db.Conn.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal("failed to delete proposal", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("proposal not found")
	}
	return nil
}

// AcceptCascade serializes the transition on the proposal and project
// rows. The pending/open checks run again under the lock so two
// concurrent accepts cannot both win.
func (PgStore) AcceptCascade(ctx context.Context, id string) error {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return apperr.Internal("transaction start failed", err)
	}
	defer tx.Rollback(ctx)

	var projectID, propStatus string
	err = tx.QueryRow(ctx,
		`SELECT project_id, status FROM proposals WHERE id = $1 FOR UPDATE`, id,
	).Scan(&projectID, &propStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("proposal not found")
		}
		return apperr.Internal("failed to lock proposal", err)
	}
	if propStatus != StatusPending {
		return apperr.BadRequest("proposal is not pending")
	}

	var projectStatus string
	err = tx.QueryRow(ctx,
		`SELECT status FROM projects WHERE id = $1 FOR UPDATE`, projectID,
	).Scan(&projectStatus)
	if err != nil {
		return apperr.Internal("failed to lock project", err)
	}
	if projectStatus != listing.ProjectOpen {
		return apperr.BadRequest("project is no longer open")
	}

	now := time.Now()
	if _, err = tx.Exec(ctx,
		`UPDATE proposals SET status = $1, updated_at = $2 WHERE id = $3`,
		StatusAccepted, now, id); err != nil {
		return apperr.Internal("failed to accept proposal", err)
	}
	if _, err = tx.Exec(ctx,
		`UPDATE projects SET status = $1, updated_at = $2 WHERE id = $3`,
		listing.ProjectInProgress, now, projectID); err != nil {
		return apperr.Internal("failed to update project", err)
	}
	if _, err = tx.Exec(ctx,
		`UPDATE proposals SET status = $1, updated_at = $2
		 WHERE project_id = $3 AND id <> $4 AND status = $5`,
		StatusRejected, now, projectID, id, StatusPending); err != nil {
		return apperr.Internal("failed to reject sibling proposals", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return apperr.Internal("commit failed", err)
	}
	return nil
}

func (PgStore) RejectPending(ctx context.Context, id string) error {
	ct, err := db.Conn.Exec(ctx,
		`UPDATE proposals SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		StatusRejected, time.Now(), id, StatusPending,
	)
	if err != nil {
		return apperr.Internal("failed to reject proposal", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.BadRequest("proposal is not pending")
	}
	return nil
}

func scanProposals(rows pgx.Rows) ([]Proposal, error) {
	var proposals []Proposal
	for rows.Next() {
		var p Proposal
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.FreelancerID, &p.CoverLetter,
			&p.ProposedAmount, &p.DeliveryDays, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Internal("failed to scan proposal", err)
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
