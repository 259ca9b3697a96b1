package main

import (
	"context"
	"database/sql"
	"embed"
	"sentinelle/internal/app"
	"sentinelle/internal/config"
	"sentinelle/internal/repo"
	"sentinelle/internal/secrets"

	fiberlog "github.com/gofiber/fiber/v2/log"
	_ "github.com/lib/pq"
)

//go:embed all:static
var staticFS embed.FS

func main() {
	ctx := context.Background()

	settings, err := config.LoadSettings()
	if err != nil {
		fiberlog.Fatalf("failed to load settings: %v", err)
	}

	var db *sql.DB
	if dbUrl := settings.DatabaseURL(); dbUrl != "" {
		db, err = sql.Open("postgres", dbUrl)
		if err != nil {
			fiberlog.Fatalf("failed to open db: %v", err)
		}
		defer func(db *sql.DB) {
			err := db.Close()
			if err != nil {
				fiberlog.Fatalf("failed to close db: %+v", err)
			}
		}(db)

		if err = repo.New(db).EnsureSchema(ctx); err != nil {
			fiberlog.Fatalf("failed to prepare schema: %v", err)
		}
	} else {
		fiberlog.Warn("DATABASE_URL is not set, login attempts are kept in memory")
	}

	cfg, err := config.NewConfigFromEnvironment(ctx, settings, db, secrets.New(), staticFS)
	if err != nil {
		fiberlog.Fatalf("invalid configuration: %v", err)
	}

	a := app.New(cfg)

	fiberlog.Fatal(a.Listen(cfg.Host + ":" + cfg.Port))
}
