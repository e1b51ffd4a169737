package review

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workhive/workhive/internal/alerts"
	"github.com/workhive/workhive/internal/apperr"
)

func svc() *Service { return NewService(PgStore{}) }

// Create handles POST /reviews.
func Create(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	r, err := svc().Create(c.Request().Context(), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}

	alerts.NotifyReviewReceived(r.ID, r.OrderID, r.RevieweeID)

	return c.JSON(http.StatusCreated, r)
}

// Get handles GET /reviews/:id.
func Get(c echo.Context) error {
	d, err := svc().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListForUser handles GET /users/:id/reviews.
func ListForUser(c echo.Context) error {
	reviews, err := svc().ListByUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}
