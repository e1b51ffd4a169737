package listing

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

// PgStore persists listings through the shared pgx pool. All predicates
// use bound parameters; free text goes through ILIKE with the pattern as
// an argument, never interpolated.
type PgStore struct{}

func (PgStore) InsertGig(ctx context.Context, g *Gig) error {
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO gigs (id, freelancer_id, title, description, category, price, delivery_days, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		g.ID, g.FreelancerID, g.Title, g.Description, g.Category, g.Price, g.DeliveryDays, g.Status, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return apperr.Internal("could not create gig", err)
	}
	return nil
}

func (PgStore) GetGig(ctx context.Context, id string) (*Gig, error) {
	var g Gig
	err := db.Conn.QueryRow(ctx,
		`SELECT id, freelancer_id, title, COALESCE(description,''), COALESCE(category,''), price, COALESCE(delivery_days,0), status, created_at, updated_at
		 FROM gigs WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.FreelancerID, &g.Title, &g.Description, &g.Category, &g.Price, &g.DeliveryDays, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("gig not found")
		}
		return nil, apperr.Internal("failed to fetch gig", err)
	}
	return &g, nil
}

func (PgStore) GetGigDetail(ctx context.Context, id string) (*GigDetail, error) {
	var d GigDetail
	err := db.Conn.QueryRow(ctx,
		`SELECT g.id, g.freelancer_id, g.title, COALESCE(g.description,''), COALESCE(g.category,''), g.price,
		        COALESCE(g.delivery_days,0), g.status, g.created_at, g.updated_at,
		        u.name, u.rating::float,
		        COALESCE(r.cnt, 0), COALESCE(r.avg_rating, 0)
		 FROM gigs g
		 JOIN users u ON u.id = g.freelancer_id
		 LEFT JOIN (
		     SELECT o.gig_id, COUNT(*) AS cnt, AVG(rv.rating)::float AS avg_rating
		     FROM reviews rv
		     JOIN orders o ON o.id = rv.order_id
		     WHERE o.gig_id IS NOT NULL
		     GROUP BY o.gig_id
		 ) r ON r.gig_id = g.id
		 WHERE g.id = $1`,
		id,
	).Scan(&d.ID, &d.FreelancerID, &d.Title, &d.Description, &d.Category, &d.Price,
		&d.DeliveryDays, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.FreelancerName, &d.FreelancerRating, &d.ReviewsCount, &d.AverageRating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("gig not found")
		}
		return nil, apperr.Internal("failed to fetch gig", err)
	}
	return &d, nil
}

func (PgStore) UpdateGig(ctx context.Context, id string, in UpdateGigInput) error {
	sets, args := []string{}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.Price != nil {
		add("price", *in.Price)
	}
	if in.DeliveryDays != nil {
		add("delivery_days", *in.DeliveryDays)
	}
	if in.Status != nil {
		add("status", *in.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	add("updated_at", time.Now())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE gigs SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	ct, err := db.Conn.Exec(ctx, query, args...)
	if err != nil {
		return apperr.Internal("failed to update gig", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("gig not found")
	}
	return nil
}

func (PgStore) ListGigsByFreelancer(ctx context.Context, freelancerID string) ([]Gig, error) {
	rows, err := db.Conn.Query(ctx,
		`SELECT id, freelancer_id, title, COALESCE(description,''), COALESCE(category,''), price, COALESCE(delivery_days,0), status, created_at, updated_at
		 FROM gigs WHERE freelancer_id = $1 ORDER BY created_at DESC`,
		freelancerID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to list gigs", err)
	}
	defer rows.Close()
	return scanGigs(rows)
}

func (PgStore) SearchGigs(ctx context.Context, f GigFilter) ([]Gig, error) {
	query := `SELECT g.id, g.freelancer_id, g.title, COALESCE(g.description,''), COALESCE(g.category,''), g.price,
	                 COALESCE(g.delivery_days,0), g.status, g.created_at, g.updated_at
	          FROM gigs g
	          JOIN users u ON u.id = g.freelancer_id`
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	status := f.Status
	if status == "" {
		status = GigActive
	}
	where = append(where, "g.status = "+arg(status))

	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		where = append(where, fmt.Sprintf("(g.title ILIKE %s OR g.description ILIKE %s)", p, p))
	}
	if f.Category != "" {
		where = append(where, "g.category = "+arg(f.Category))
	}
	if f.MinPrice != nil {
		where = append(where, "g.price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "g.price <= "+arg(*f.MaxPrice))
	}

	query += " WHERE " + strings.Join(where, " AND ")

	switch f.SortBy {
	case "price":
		query += " ORDER BY g.price ASC"
	case "rating":
		query += " ORDER BY u.rating DESC"
	default:
		query += " ORDER BY g.created_at DESC"
	}
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(f.Limit), arg(f.Offset))

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal("gig search failed", err)
	}
	defer rows.Close()
	return scanGigs(rows)
}

func scanGigs(rows pgx.Rows) ([]Gig, error) {
	var gigs []Gig
	for rows.Next() {
		var g Gig
		if err := rows.Scan(&g.ID, &g.FreelancerID, &g.Title, &g.Description, &g.Category,
			&g.Price, &g.DeliveryDays, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, apperr.Internal("failed to scan gig", err)
		}
		gigs = append(gigs, g)
	}
	return gigs, rows.Err()
}

func (PgStore) InsertProject(ctx context.Context, p *Project) error {
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO projects (id, client_id, title, description, category, budget_min, budget_max, duration_days, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.ClientID, p.Title, p.Description, p.Category, p.BudgetMin, p.BudgetMax, p.DurationDays, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperr.Internal("could not create project", err)
	}
	return nil
}

func (PgStore) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := db.Conn.QueryRow(ctx,
		`SELECT id, client_id, title, COALESCE(description,''), COALESCE(category,''), COALESCE(budget_min,0), COALESCE(budget_max,0), COALESCE(duration_days,0), status, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.ClientID, &p.Title, &p.Description, &p.Category, &p.BudgetMin, &p.BudgetMax, &p.DurationDays, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, apperr.Internal("failed to fetch project", err)
	}
	return &p, nil
}

func (PgStore) GetProjectDetail(ctx context.Context, id string) (*ProjectDetail, error) {
	var d ProjectDetail
	err := db.Conn.QueryRow(ctx,
		`SELECT p.id, p.client_id, p.title, COALESCE(p.description,''), COALESCE(p.category,''),
		        COALESCE(p.budget_min,0), COALESCE(p.budget_max,0), COALESCE(p.duration_days,0),
		        p.status, p.created_at, p.updated_at,
		        u.name,
		        (SELECT COUNT(*) FROM proposals WHERE project_id = p.id)
		 FROM projects p
		 JOIN users u ON u.id = p.client_id
		 WHERE p.id = $1`,
		id,
	).Scan(&d.ID, &d.ClientID, &d.Title, &d.Description, &d.Category,
		&d.BudgetMin, &d.BudgetMax, &d.DurationDays,
		&d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.ClientName, &d.ProposalsCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, apperr.Internal("failed to fetch project", err)
	}
	return &d, nil
}

func (PgStore) UpdateProject(ctx context.Context, id string, in UpdateProjectInput) error {
	sets, args := []string{}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.BudgetMin != nil {
		add("budget_min", *in.BudgetMin)
	}
	if in.BudgetMax != nil {
		add("budget_max", *in.BudgetMax)
	}
	if in.DurationDays != nil {
		add("duration_days", *in.DurationDays)
	}
	if in.Status != nil {
		add("status", *in.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	add("updated_at", time.Now())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	ct, err := db.Conn.Exec(ctx, query, args...)
	if err != nil {
		return apperr.Internal("failed to update project", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("project not found")
	}
	return nil
}

func (PgStore) ListProjectsByClient(ctx context.Context, clientID string) ([]Project, error) {
	rows, err := db.Conn.Query(ctx,
		`SELECT id, client_id, title, COALESCE(description,''), COALESCE(category,''), COALESCE(budget_min,0), COALESCE(budget_max,0), COALESCE(duration_days,0), status, created_at, updated_at
		 FROM projects WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to list projects", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (PgStore) SearchProjects(ctx context.Context, f ProjectFilter) ([]Project, error) {
	query := `SELECT id, client_id, title, COALESCE(description,''), COALESCE(category,''), COALESCE(budget_min,0), COALESCE(budget_max,0), COALESCE(duration_days,0), status, created_at, updated_at
	          FROM projects`
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		where = append(where, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.MinBudget != nil {
		where = append(where, "budget_max >= "+arg(*f.MinBudget))
	}
	if f.MaxBudget != nil {
		where = append(where, "budget_min <= "+arg(*f.MaxBudget))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch f.SortBy {
	case "budget":
		query += " ORDER BY budget_max DESC"
	default:
		query += " ORDER BY created_at DESC"
	}
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(f.Limit), arg(f.Offset))

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal("project search failed", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanProjects(rows pgx.Rows) ([]Project, error) {
	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Title, &p.Description, &p.Category,
			&p.BudgetMin, &p.BudgetMax, &p.DurationDays, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Internal("failed to scan project", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
