package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/safar/labecommerce/internal/database"
)

// runner is satisfied by both *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore keeps the collections in relational tables (see the embedded
// migrations in internal/database). Statements are built with squirrel
// for the connection's dialect.
type SQLStore struct {
	*sqlQuerier
	db *sql.DB
}

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sql.DB, dialect database.Dialect) *SQLStore {
	return &SQLStore{
		sqlQuerier: &sqlQuerier{run: db, dialect: dialect, sb: dialect.Builder()},
		db:         db,
	}
}

func openSQLStore(ctx context.Context, db *sql.DB, dialect database.Dialect) (*SQLStore, error) {
	if err := database.Migrate(ctx, db, dialect, database.MigrateUp); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return NewSQLStore(db, dialect), nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection pool.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Atomic runs fn inside one database transaction, rolling back on error and
// retrying transient conflicts.
func (s *SQLStore) Atomic(ctx context.Context, fn func(q Querier) error) error {
	return database.WithRetry(ctx, s.db, s.dialect.WriteTxOptions(), func(tx *sql.Tx) error {
		return fn(&sqlQuerier{run: tx, dialect: s.dialect, sb: s.sb})
	})
}

type sqlQuerier struct {
	run     runner
	dialect database.Dialect
	sb      sq.StatementBuilderType
}

func (q *sqlQuerier) queryRow(ctx context.Context, b sq.Sqlizer) (*sql.Row, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return q.run.QueryRowContext(ctx, query, args...), nil
}

func (q *sqlQuerier) query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return q.run.QueryContext(ctx, query, args...)
}

func (q *sqlQuerier) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return q.run.ExecContext(ctx, query, args...)
}

type scanner interface {
	Scan(dest ...any) error
}

// scanAll collects every row with scan, which must call rows.Scan once.
func scanAll[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

// writeErr maps driver errors of an insert or update to store sentinels.
func writeErr(op string, err error, notFound error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, database.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
