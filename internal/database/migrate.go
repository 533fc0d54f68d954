package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

//go:embed migrations
var migrationFS embed.FS

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Builder returns a squirrel statement builder using the dialect's
// placeholder format.
func (d Dialect) Builder() sq.StatementBuilderType {
	if d == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// InsertionOrder is the column that reflects row insertion order in the
// users and products tables.
func (d Dialect) InsertionOrder() string {
	if d == DialectPostgres {
		return "seq"
	}
	return "rowid"
}

// Migrate applies (up) or reverts (down) the embedded schema files for the
// dialect. Applied files are tracked in schema_migrations so running up
// twice is a no-op.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, direction string) error {
	if direction != MigrateUp && direction != MigrateDown {
		return fmt.Errorf("direction must be %q or %q, got %q", MigrateUp, MigrateDown, direction)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	files, err := migrationFiles(dialect, direction)
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}

	for _, file := range files {
		name := migrationName(file)
		if (direction == MigrateUp) == applied[name] {
			slog.Debug("migration skipped", "file", file, "direction", direction)
			continue
		}

		if err := applyMigration(ctx, db, dialect, file, direction); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		slog.Info("migration applied", "file", file, "direction", direction)
	}

	return nil
}

func appliedMigrations(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func migrationFiles(dialect Dialect, direction string) ([]string, error) {
	dir := path.Join("migrations", string(dialect))
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), "."+direction+".sql") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	if direction == MigrateDown {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	return files, nil
}

// migrationName strips directory and direction so up and down files of the
// same step share one schema_migrations row.
func migrationName(file string) string {
	base := path.Base(file)
	base = strings.TrimSuffix(base, ".up.sql")
	return strings.TrimSuffix(base, ".down.sql")
}

func applyMigration(ctx context.Context, db *sql.DB, dialect Dialect, file, direction string) error {
	content, err := fs.ReadFile(migrationFS, file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	return WithTransaction(ctx, db, TxOptions{}, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute sql: %w", err)
		}

		var record sq.Sqlizer
		if direction == MigrateUp {
			record = dialect.Builder().Insert("schema_migrations").Columns("filename").Values(migrationName(file))
		} else {
			record = dialect.Builder().Delete("schema_migrations").Where(sq.Eq{"filename": migrationName(file)})
		}

		query, args, err := record.ToSql()
		if err != nil {
			return fmt.Errorf("build migration record: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("record migration: %w", err)
		}
		return nil
	})
}
