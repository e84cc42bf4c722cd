package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/joinboard/backend/api/handler"
	"github.com/joinboard/backend/internal/metrics"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Contact *apiHandler.ContactHandler
	Task    *apiHandler.TaskHandler
	Profile *apiHandler.ProfileHandler
	Health  *apiHandler.HealthHandler
}

type Options struct {
	EnableMetrics bool
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, opts Options) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Health)
	if opts.EnableMetrics {
		r.GET("/metrics", metrics.Handler())
	}

	// Auth routes
	r.POST("/api/auth/registration", observe("/api/auth/registration", handlers.Auth.Register))
	r.POST("/api/auth/login", observe("/api/auth/login", handlers.Auth.Login))
	r.POST("/api/auth/guest-login", observe("/api/auth/guest-login", handlers.Auth.GuestLogin))

	// Protected routes
	protected := func(path string, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return authMiddleware(observe(path, h))
	}

	r.GET("/api/contacts", protected("/api/contacts", handlers.Contact.GetContacts))
	r.POST("/api/contacts", protected("/api/contacts", handlers.Contact.CreateContacts))
	r.GET("/api/contacts/{id}", protected("/api/contacts/{id}", handlers.Contact.GetContact))
	r.PUT("/api/contacts/{id}", protected("/api/contacts/{id}", handlers.Contact.UpdateContact))
	r.DELETE("/api/contacts/{id}", protected("/api/contacts/{id}", handlers.Contact.DeleteContact))

	r.GET("/api/tasks", protected("/api/tasks", handlers.Task.GetTasks))
	r.POST("/api/tasks", protected("/api/tasks", handlers.Task.CreateTasks))
	r.GET("/api/tasks/{id}", protected("/api/tasks/{id}", handlers.Task.GetTask))
	r.PUT("/api/tasks/{id}", protected("/api/tasks/{id}", handlers.Task.UpdateTask))
	r.DELETE("/api/tasks/{id}", protected("/api/tasks/{id}", handlers.Task.DeleteTask))

	r.GET("/api/profile", protected("/api/profile", handlers.Profile.GetProfile))
	r.DELETE("/api/profile", protected("/api/profile", handlers.Profile.DeleteProfile))

	return r
}

// observe wraps a handler so the request counter sees the route template, not
// the expanded path.
func observe(path string, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		next(ctx)
		metrics.ObserveRequest(string(ctx.Method()), path, ctx.Response.StatusCode())
	}
}
