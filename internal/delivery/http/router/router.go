// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"shorts/internal/delivery/http/middleware"
	"shorts/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	JobHandler     *handler.JobHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	jobHandler     *handler.JobHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		jobHandler:     params.JobHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/callback", r.authHandler.Callback)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	// Dashboard routes that require authentication
	dashboardGroup := e.Group("/dashboard")
	dashboardGroup.Use(r.authMiddleware.Authenticate)
	{
		dashboardGroup.GET("/jobs", r.jobHandler.List)
		dashboardGroup.POST("/jobs", r.jobHandler.Submit)
		dashboardGroup.GET("/jobs/stream", r.jobHandler.Stream)
	}
}
