package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/safar/labecommerce/internal/database"
	"github.com/safar/labecommerce/internal/models"
)

const userColumns = "id, email, password"

func scanUser(row scanner) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Password); err != nil {
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func (q *sqlQuerier) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := q.query(ctx, q.sb.Select(userColumns).From("users").OrderBy(q.dialect.InsertionOrder()))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return scanAll(rows, scanUser)
}

func (q *sqlQuerier) getUserWhere(ctx context.Context, op string, pred sq.Eq) (*models.User, error) {
	row, err := q.queryRow(ctx, q.sb.Select(userColumns).From("users").Where(pred))
	if err != nil {
		return nil, err
	}

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (q *sqlQuerier) GetUser(ctx context.Context, id string) (*models.User, error) {
	return q.getUserWhere(ctx, "get user", sq.Eq{"id": id})
}

func (q *sqlQuerier) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return q.getUserWhere(ctx, "find user by email", sq.Eq{"email": email})
}

func (q *sqlQuerier) CreateUser(ctx context.Context, user *models.User) error {
	row, err := q.queryRow(ctx, q.sb.Insert("users").
		Columns("id", "email", "password").
		Values(user.ID, user.Email, user.Password).
		Suffix("RETURNING "+userColumns))
	if err != nil {
		return err
	}

	created, err := scanUser(row)
	if err != nil {
		return writeErr("create user", err, database.ErrUserNotFound)
	}
	*user = created
	return nil
}

func (q *sqlQuerier) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Empty() {
		return q.GetUser(ctx, id)
	}

	b := q.sb.Update("users").Where(sq.Eq{"id": id}).Suffix("RETURNING " + userColumns)
	if patch.Email != nil {
		b = b.Set("email", *patch.Email)
	}
	if patch.Password != nil {
		b = b.Set("password", *patch.Password)
	}

	row, err := q.queryRow(ctx, b)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(row)
	if err != nil {
		return nil, writeErr("update user", err, database.ErrUserNotFound)
	}
	return &user, nil
}
