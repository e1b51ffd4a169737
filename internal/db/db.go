package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/workhive/workhive/internal/config"
	"github.com/workhive/workhive/internal/logger"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and ensures the schema is in place.
func Init() {
	dsn := config.App.DSN()

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Log.Fatal("unable to connect to database", zap.Error(err))
	}

	if err = Conn.Ping(context.Background()); err != nil {
		logger.Log.Fatal("unable to ping database", zap.Error(err))
	}

	logger.Log.Info("connected to postgres")

	ensureSchema()
}

// ensureSchema creates all tables and constraints if missing. Statements
// are idempotent so startup is safe against an existing database.
func ensureSchema() {
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('client','freelancer','admin')),
			balance NUMERIC(14,2) NOT NULL DEFAULT 0,
			total_earned NUMERIC(14,2) NOT NULL DEFAULT 0,
			rating NUMERIC(2,1) NOT NULL DEFAULT 0,
			completed_jobs INTEGER NOT NULL DEFAULT 0,
			avatar_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS gigs (
			id UUID PRIMARY KEY,
			freelancer_id UUID NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT,
			category TEXT,
			price NUMERIC(14,2) NOT NULL,
			delivery_days INTEGER,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','paused','deleted')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_gigs_freelancer ON gigs(freelancer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_gigs_status ON gigs(status)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT,
			category TEXT,
			budget_min NUMERIC(14,2),
			budget_max NUMERIC(14,2),
			duration_days INTEGER,
			status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open','in_progress','completed','cancelled')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,
		`CREATE TABLE IF NOT EXISTS proposals (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id),
			freelancer_id UUID NOT NULL REFERENCES users(id),
			cover_letter TEXT,
			proposed_amount NUMERIC(14,2) NOT NULL,
			delivery_days INTEGER,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','accepted','rejected')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (project_id, freelancer_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_proposals_freelancer ON proposals(freelancer_id)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			gig_id UUID NULL REFERENCES gigs(id),
			project_id UUID NULL REFERENCES projects(id),
			client_id UUID NOT NULL REFERENCES users(id),
			freelancer_id UUID NOT NULL REFERENCES users(id),
			amount NUMERIC(14,2) NOT NULL,
			requirements TEXT,
			delivery_date TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','in_progress','delivered','completed','cancelled','disputed')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK ((gig_id IS NULL) <> (project_id IS NULL)),
			CHECK (client_id <> freelancer_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_freelancer ON orders(freelancer_id)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			reviewer_id UUID NOT NULL REFERENCES users(id),
			reviewee_id UUID NOT NULL REFERENCES users(id),
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (order_id, reviewer_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_reviewee ON reviews(reviewee_id)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			order_id UUID NULL REFERENCES orders(id),
			amount NUMERIC(14,2) NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('payment','refund','withdrawal','deposit')),
			status TEXT NOT NULL DEFAULT 'completed',
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := Conn.Exec(ctx, stmt); err != nil {
			logger.Log.Fatal("schema ensure failed", zap.Error(err))
		}
	}

	logger.Log.Info("schema ensured")
}
