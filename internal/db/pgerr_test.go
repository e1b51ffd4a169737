package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	require.True(t, IsUniqueViolation(dup))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert user: %w", dup)))

	// A storage outage must never be mistaken for a duplicate.
	require.False(t, IsUniqueViolation(errors.New("connection refused")))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23514"}))
	require.False(t, IsUniqueViolation(nil))
}

func TestIsCheckViolation(t *testing.T) {
	chk := &pgconn.PgError{Code: "23514"}
	require.True(t, IsCheckViolation(chk))
	require.False(t, IsCheckViolation(&pgconn.PgError{Code: "23505"}))
	require.False(t, IsCheckViolation(errors.New("broken pipe")))
}
