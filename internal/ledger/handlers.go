package ledger

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workhive/workhive/internal/apperr"
)

func svc() *Service { return NewService(PgStore{}) }

// Create handles POST /admin/transactions (admin only, route-gated).
func Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	t, err := svc().Create(c.Request().Context(), in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Get handles GET /transactions/:id. Parties other than the entry's
// owner or an admin get a 403.
func Get(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	t, err := svc().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.JSON(c, err)
	}
	if t.UserID != uid && role != "admin" {
		return apperr.JSON(c, apperr.Forbidden("not your transaction"))
	}
	return c.JSON(http.StatusOK, t)
}

// ListMine handles GET /transactions.
func ListMine(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	list, err := svc().ListByUser(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transactions": list})
}

// Balance handles GET /balance.
func Balance(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	b, err := svc().GetBalance(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
