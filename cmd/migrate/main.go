package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"helperhub/internal/app"
	"helperhub/internal/config"
	"helperhub/internal/database/migration"
	"helperhub/internal/database/seeder"

	"github.com/joho/godotenv"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo employers, job seekers and reviews after migrating")
	seedPassword := flag.String("seed-password", "", "password for demo accounts (default SEED_PASSWORD or \"password123\")")
	status := flag.Bool("status", false, "list pending migrations and exit")
	only := flag.String("only", "", "comma separated seeder names to run, e.g. accounts,reviews")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("[Config] .env not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewDBContainer(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	r := migration.Runner{FS: app.MigrationsFS(cfg.App.MigrationsDir), Logger: logger}

	if *status {
		pending, err := r.Pending(migCtx, c.DB.SQLDB())
		if err != nil {
			logger.Fatalf("migration status failed: %v", err)
		}
		for _, m := range pending {
			logger.Printf("[Migrate] pending version=%d file=%s", m.Version, m.Filename)
		}
		logger.Printf("[Migrate] pending=%d", len(pending))
		return
	}

	applied, err := r.Run(migCtx, c.DB.SQLDB())
	if err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
	logger.Printf("[Migrate] done applied=%d", applied)

	if !*seed {
		return
	}

	password := *seedPassword
	if password == "" {
		password = os.Getenv("SEED_PASSWORD")
	}
	if password == "" {
		password = "password123"
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), time.Minute)
	defer seedCancel()
	runner := seeder.Runner{Seeders: seeder.Defaults(password), Logger: logger}
	if *only != "" {
		runner.Only = strings.Split(*only, ",")
	}
	if err := runner.Run(seedCtx, c.DB); err != nil {
		logger.Fatalf("seed failed: %v", err)
	}
}
