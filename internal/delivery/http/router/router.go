// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"oj/internal/delivery/http/middleware"
	"oj/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	SubmissionHandler *handler.SubmissionHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	submissionHandler *handler.SubmissionHandler
	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		userHandler:       params.UserHandler,
		submissionHandler: params.SubmissionHandler,
		sessionMiddleware: params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/requestLink", r.authHandler.RequestLink)
		// Verify accepts both the POSTed form and the emailed link.
		authGroup.POST("/verify", r.authHandler.Verify)
		authGroup.GET("/verify", r.authHandler.Verify)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	// Routes that require an authenticated session
	userGroup := api.Group("/users")
	userGroup.Use(r.sessionMiddleware.Authenticate)
	{
		userGroup.GET("/me", r.userHandler.Me)
	}

	problemGroup := api.Group("/problems")
	problemGroup.Use(r.sessionMiddleware.Authenticate)
	{
		problemGroup.POST("/:id/submissions", r.submissionHandler.Submit)
	}

	submissionGroup := api.Group("/submissions")
	submissionGroup.Use(r.sessionMiddleware.Authenticate)
	{
		submissionGroup.GET("/:id", r.submissionHandler.GetSubmission)
	}
}
