package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/workhive/workhive/internal/db"
)

// GetPublicProfile handles GET /users/:id/profile
func GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	var p PublicProfile
	var avatar *string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, name, role, rating, completed_jobs, avatar_url, created_at
		 FROM users WHERE id = $1 AND is_active`,
		userID,
	).Scan(&p.ID, &p.Name, &p.Role, &p.Rating, &p.CompletedJobs, &avatar, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}
	if avatar != nil {
		p.AvatarURL = *avatar
	}

	return c.JSON(http.StatusOK, p)
}

// UpdateProfile handles PATCH /users/profile for the authenticated user.
// Only name and avatar are caller-mutable; the cached aggregates are not.
func UpdateProfile(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Name      *string `json:"name"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == nil && req.AvatarURL == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	ctx := context.Background()
	if req.Name != nil {
		if _, err := db.Conn.Exec(ctx,
			`UPDATE users SET name = $1, updated_at = $2 WHERE id = $3`,
			*req.Name, time.Now(), uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
		}
	}
	if req.AvatarURL != nil {
		if _, err := db.Conn.Exec(ctx,
			`UPDATE users SET avatar_url = $1, updated_at = $2 WHERE id = $3`,
			*req.AvatarURL, time.Now(), uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}
