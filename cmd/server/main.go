package main

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/workhive/workhive/internal/alerts"
	"github.com/workhive/workhive/internal/auth"
	"github.com/workhive/workhive/internal/config"
	"github.com/workhive/workhive/internal/db"
	"github.com/workhive/workhive/internal/ledger"
	"github.com/workhive/workhive/internal/listing"
	"github.com/workhive/workhive/internal/logger"
	mware "github.com/workhive/workhive/internal/middleware"
	"github.com/workhive/workhive/internal/order"
	"github.com/workhive/workhive/internal/proposal"
	"github.com/workhive/workhive/internal/review"
	"github.com/workhive/workhive/internal/user"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	config.Load()
	db.Init()
	alerts.Init()
	defer alerts.Close()

	e := echo.New()

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "workhive"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)

	e.GET("/users/:id/profile", user.GetPublicProfile)
	e.GET("/users/:id/reviews", review.ListForUser)

	e.GET("/gigs", listing.SearchGigs)
	e.GET("/gigs/:id", listing.GetGig)
	e.GET("/projects", listing.SearchProjects)
	e.GET("/projects/:id", listing.GetProject)
	e.GET("/reviews/:id", review.Get)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)
	api.PATCH("/users/profile", user.UpdateProfile)

	api.POST("/gigs", listing.CreateGig, mware.RequireRoles("freelancer"))
	api.GET("/gigs/me", listing.GetMyGigs, mware.RequireRoles("freelancer"))
	api.PATCH("/gigs/:id", listing.UpdateGig)
	api.DELETE("/gigs/:id", listing.DeleteGig)

	api.POST("/projects", listing.CreateProject, mware.RequireRoles("client"))
	api.GET("/projects/me", listing.GetMyProjects, mware.RequireRoles("client"))
	api.PATCH("/projects/:id", listing.UpdateProject)
	api.DELETE("/projects/:id", listing.DeleteProject)

	api.POST("/proposals", proposal.Submit, mware.RequireRoles("freelancer"))
	api.GET("/proposals/me", proposal.ListMine, mware.RequireRoles("freelancer"))
	api.GET("/proposals/:id", proposal.Get)
	api.PATCH("/proposals/:id", proposal.Update)
	api.DELETE("/proposals/:id", proposal.Delete)
	api.POST("/proposals/:id/accept", proposal.Accept, mware.RequireRoles("client"))
	api.POST("/proposals/:id/reject", proposal.Reject, mware.RequireRoles("client"))
	api.GET("/projects/:id/proposals", proposal.ListByProject)

	api.POST("/orders", order.Create, mware.RequireRoles("client"))
	api.GET("/orders/buying", order.ListBuying)
	api.GET("/orders/selling", order.ListSelling)
	api.GET("/orders/:id", order.Get)
	api.PATCH("/orders/:id", order.Update)
	api.POST("/orders/:id/cancel", order.Cancel)

	api.POST("/reviews", review.Create)

	api.GET("/balance", ledger.Balance)
	api.GET("/transactions", ledger.ListMine)
	api.GET("/transactions/:id", ledger.Get)

	// Admin routes
	admin := e.Group("/admin")
	admin.Use(mware.JWTMiddleware)
	admin.Use(mware.AdminGuard)

	admin.POST("/transactions", ledger.Create)

	if err := e.Start(":" + config.App.Port); err != nil {
		logger.Log.Fatal("server error", zap.Error(err))
	}
}
