package order

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workhive/workhive/internal/alerts"
	"github.com/workhive/workhive/internal/apperr"
)

func svc() *Service { return NewService(PgStore{}) }

// Create handles POST /orders (client only).
func Create(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	o, err := svc().Create(c.Request().Context(), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// Get handles GET /orders/:id (parties only).
func Get(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	d, err := svc().Get(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListBuying handles GET /orders/buying.
func ListBuying(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	orders, err := svc().ListByClient(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// ListSelling handles GET /orders/selling.
func ListSelling(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	orders, err := svc().ListByFreelancer(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Update handles PATCH /orders/:id (either party).
func Update(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	o, err := svc().Update(c.Request().Context(), c.Param("id"), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}

	// Best-effort counterpart notifications for the milestone moves.
	switch milestone(in) {
	case StatusDelivered:
		alerts.NotifyOrderDelivered(o.ID, o.ClientID, o.FreelancerID)
	case StatusCompleted:
		alerts.NotifyOrderCompleted(o.ID, o.ClientID, o.FreelancerID)
	}

	return c.JSON(http.StatusOK, o)
}

// milestone returns the status a request actually moved to, or "" for
// field-only updates. Keeps re-saves of an already-delivered order from
// re-notifying anyone.
func milestone(in UpdateInput) string {
	if in.Status == nil {
		return ""
	}
	return *in.Status
}

// Cancel handles POST /orders/:id/cancel (either party, pending only).
func Cancel(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	o, err := svc().Cancel(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}

	alerts.NotifyOrderCancelled(o.ID, o.ClientID, o.FreelancerID)

	return c.JSON(http.StatusOK, o)
}
