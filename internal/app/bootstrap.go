package app

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"helperhub/internal/config"
	"helperhub/internal/database/migration"
	"helperhub/internal/delivery/http/handler"
	"helperhub/internal/delivery/http/middleware"
	"helperhub/internal/delivery/http/routes"
	"helperhub/internal/infrastructure/storage"
	"helperhub/internal/usecase"
	"helperhub/internal/ws"
	"helperhub/migrations"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// uploadSlack leaves room for multipart framing around the image itself.
const uploadSlack = 1 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	cfg := c.Config

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: int(cfg.Limits.MaxImageBytes) + uploadSlack,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)
	if mountLocalFiles(f, cfg.Storage) && c.Logger != nil {
		c.Logger.Printf("[Bootstrap] serving local profile images path=/%s", usecase.ProfileImagePrefix)
	}

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects every dependency, applies pending migrations and
// starts the websocket hub. The returned cleanup closes what was opened.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	migCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	applied, err := migration.Runner{FS: MigrationsFS(cfg.App.MigrationsDir), Logger: logger}.Run(migCtx, c.DB.SQLDB())
	if err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Printf("[Bootstrap] migrations applied count=%d", applied)

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

// MigrationsFS prefers an on-disk directory and falls back to the files
// compiled into the binary.
func MigrationsFS(dir string) fs.FS {
	if strings.TrimSpace(dir) != "" {
		return os.DirFS(dir)
	}
	return migrations.FS
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(errMw.Middleware())

	accessLog := middleware.NewAccessLogMiddleware(logger)
	app.Use(accessLog.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	cfg := c.Config
	authMw := middleware.NewAuthMiddleware(c.JWT)
	limiter := middleware.NewRateLimiter(cfg.Limits.RequestsPerMinute, cfg.Limits.RequestBurst)
	notifications := ws.NewHandler(c.Hub, c.VerifyAccessToken, c.Logger)

	routes.NewRegistry(routes.Handlers{
		Health:        handler.NewHealthHandler(c.DB, c.Cache),
		Auth:          handler.NewAuthHandler(c.Auth),
		Catalog:       handler.NewCatalogHandler(),
		Session:       handler.NewSessionHandler(c.Sessions, c.Logger),
		Providers:     handler.NewProviderHandler(c.Matching, c.Reviews, c.Sessions, cfg.Limits.ReviewsPerCard),
		Profile:       handler.NewProfileHandler(c.Profiles, c.Business),
		Requests:      handler.NewRequestHandler(c.Requests, limiter.Middleware()),
		Notifications: notifications.HandleNotifications,
	}, authMw.Middleware()).Register(app)
}

// mountLocalFiles serves stored profile images when local storage hands out
// root-relative URLs.
func mountLocalFiles(app *fiber.App, cfg config.StorageConfig) bool {
	dir, ok := storage.ServedLocally(cfg)
	if !ok {
		return false
	}
	app.Get("/"+usecase.ProfileImagePrefix+"*", static.New(filepath.Join(dir, usecase.ProfileImagePrefix)))
	return true
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
