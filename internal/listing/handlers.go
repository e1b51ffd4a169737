package listing

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/workhive/workhive/internal/apperr"
)

func svc() *Service { return NewService(PgStore{}) }

// CreateGig handles POST /gigs (freelancer only, enforced by route middleware).
func CreateGig(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var in CreateGigInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	g, err := svc().CreateGig(c.Request().Context(), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// GetGig handles GET /gigs/:id (public).
func GetGig(c echo.Context) error {
	d, err := svc().GetGig(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateGig handles PATCH /gigs/:id.
func UpdateGig(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var in UpdateGigInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	g, err := svc().UpdateGig(c.Request().Context(), c.Param("id"), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// DeleteGig handles DELETE /gigs/:id (soft delete).
func DeleteGig(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if err := svc().DeleteGig(c.Request().Context(), c.Param("id"), uid); err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "gig deleted"})
}

// GetMyGigs handles GET /gigs/me.
func GetMyGigs(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	gigs, err := svc().ListFreelancerGigs(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"gigs": gigs})
}

// SearchGigs handles GET /gigs (public discovery).
func SearchGigs(c echo.Context) error {
	f := GigFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		SortBy:   c.QueryParam("sort"),
	}

	var bad bool
	f.MinPrice = decimalParam(c, "min_price", &bad)
	f.MaxPrice = decimalParam(c, "max_price", &bad)
	f.Limit = intParam(c, "limit", &bad)
	f.Offset = intParam(c, "offset", &bad)
	if bad {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed filter value"})
	}

	gigs := svc().SearchGigs(c.Request().Context(), f)
	return c.JSON(http.StatusOK, echo.Map{"gigs": gigs})
}

// CreateProject handles POST /projects (client only).
func CreateProject(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var in CreateProjectInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	p, err := svc().CreateProject(c.Request().Context(), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// GetProject handles GET /projects/:id (public).
func GetProject(c echo.Context) error {
	d, err := svc().GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateProject handles PATCH /projects/:id.
func UpdateProject(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var in UpdateProjectInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	p, err := svc().UpdateProject(c.Request().Context(), c.Param("id"), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteProject handles DELETE /projects/:id (soft delete via cancel).
func DeleteProject(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if err := svc().DeleteProject(c.Request().Context(), c.Param("id"), uid); err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "project cancelled"})
}

// GetMyProjects handles GET /projects/me.
func GetMyProjects(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	projects, err := svc().ListClientProjects(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"projects": projects})
}

// SearchProjects handles GET /projects (public discovery).
func SearchProjects(c echo.Context) error {
	f := ProjectFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		SortBy:   c.QueryParam("sort"),
	}

	var bad bool
	f.MinBudget = decimalParam(c, "min_budget", &bad)
	f.MaxBudget = decimalParam(c, "max_budget", &bad)
	f.Limit = intParam(c, "limit", &bad)
	f.Offset = intParam(c, "offset", &bad)
	if bad {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed filter value"})
	}

	projects := svc().SearchProjects(c.Request().Context(), f)
	return c.JSON(http.StatusOK, echo.Map{"projects": projects})
}

func decimalParam(c echo.Context, name string, bad *bool) *decimal.Decimal {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		*bad = true
		return nil
	}
	return &d
}

func intParam(c echo.Context, name string, bad *bool) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*bad = true
		return 0
	}
	return v
}
