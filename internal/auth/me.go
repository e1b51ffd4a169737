package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/workhive/workhive/internal/db"
	"github.com/workhive/workhive/internal/user"
)

// Me returns the authenticated user's account, including cached stats.
func Me(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var u user.User
	var avatar *string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, name, email, role, balance, total_earned, rating, completed_jobs, avatar_url, is_active, created_at
		 FROM users WHERE id = $1`,
		uid,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Balance, &u.TotalEarned,
		&u.Rating, &u.CompletedJobs, &avatar, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}
	if avatar != nil {
		u.AvatarURL = *avatar
	}

	return c.JSON(http.StatusOK, u)
}
