package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/safar/labecommerce/internal/config"
	"github.com/safar/labecommerce/internal/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/run_migrations.go [up|down]")
	}

	direction := os.Args[1]
	if direction != database.MigrateUp && direction != database.MigrateDown {
		log.Fatal("Direction must be 'up' or 'down'")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	var (
		db      *sql.DB
		dialect database.Dialect
	)
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		dialect = database.DialectPostgres
		db, err = database.NewConnection(&cfg.Database)
	case config.BackendSQLite:
		dialect = database.DialectSQLite
		db, err = database.NewSQLiteConnection(cfg.Database.SQLitePath)
	default:
		log.Fatalf("STORE_BACKEND %q has no schema to migrate", cfg.Store.Backend)
	}
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, dialect, direction); err != nil {
		log.Fatalf("Migrate %s: %v", direction, err)
	}

	log.Printf("Successfully ran migrations %s (%s)", direction, dialect)
}
