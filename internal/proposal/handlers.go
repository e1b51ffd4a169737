package proposal

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workhive/workhive/internal/alerts"
	"github.com/workhive/workhive/internal/apperr"
)

func svc() *Service { return NewService(PgStore{}) }

// Submit handles POST /proposals (freelancer only).
func Submit(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var in SubmitInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	p, err := svc().Submit(c.Request().Context(), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /proposals/:id.
func Get(c echo.Context) error {
	d, err := svc().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListByProject handles GET /projects/:id/proposals (project owner only).
func ListByProject(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	proposals, err := svc().ListByProject(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"proposals": proposals})
}

// ListMine handles GET /proposals/me (freelancer only).
func ListMine(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	proposals, err := svc().ListByFreelancer(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"proposals": proposals})
}

// Update handles PATCH /proposals/:id (submitting freelancer only).
func Update(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	p, err := svc().Update(c.Request().Context(), c.Param("id"), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Accept handles POST /proposals/:id/accept (project owner only).
func Accept(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	p, err := svc().Accept(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}

	// Best-effort notification to the winning freelancer.
	alerts.NotifyProposalAccepted(p.ID, p.ProjectID, p.FreelancerID)

	return c.JSON(http.StatusOK, p)
}

// Reject handles POST /proposals/:id/reject (project owner only).
func Reject(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	p, err := svc().Reject(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /proposals/:id (submitting freelancer, pending only).
func Delete(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	if err := svc().Delete(c.Request().Context(), c.Param("id"), uid); err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "proposal deleted"})
}
