package routes

import (
	"helperhub/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything the registry mounts. Nil handlers are skipped.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Session   *handler.SessionHandler
	Providers *handler.ProviderHandler
	Profile   *handler.ProfileHandler
	Requests  *handler.RequestHandler

	// Notifications serves the websocket upgrade at /ws.
	Notifications fiber.Handler
}

type Registry struct {
	handlers Handlers
	auth     fiber.Handler
}

func NewRegistry(handlers Handlers, auth fiber.Handler) *Registry {
	return &Registry{handlers: handlers, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(app)
	}
	if r.handlers.Notifications != nil {
		app.Get("/ws", r.handlers.Notifications)
	}

	api := app.Group("/api")
	r.registerV1(api.Group("/v1"))
}

func (r *Registry) registerV1(v1 fiber.Router) {
	h := r.handlers

	if h.Auth != nil {
		h.Auth.RegisterRoutes(v1.Group("/auth"))
	}
	if h.Catalog != nil {
		h.Catalog.RegisterRoutes(v1)
	}

	protected := v1
	if r.auth != nil {
		protected = v1.Group("", r.auth)
	}

	if h.Session != nil {
		h.Session.RegisterRoutes(protected)
	}
	if h.Providers != nil {
		h.Providers.RegisterRoutes(protected)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(protected)
	}
	if h.Requests != nil {
		h.Requests.RegisterRoutes(protected)
	}
}
