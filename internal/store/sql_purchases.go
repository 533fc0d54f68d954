package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/safar/labecommerce/internal/database"
	"github.com/safar/labecommerce/internal/models"
)

const purchaseColumns = "user_id, product_id, quantity, total_price"

func scanPurchase(row scanner) (models.Purchase, error) {
	var p models.Purchase
	if err := row.Scan(&p.UserID, &p.ProductID, &p.Quantity, &p.TotalPrice); err != nil {
		return models.Purchase{}, fmt.Errorf("scan purchase: %w", err)
	}
	return p, nil
}

func (q *sqlQuerier) selectPurchases() sq.SelectBuilder {
	return q.sb.Select(purchaseColumns).From("purchases").OrderBy("id")
}

func (q *sqlQuerier) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	rows, err := q.query(ctx, q.selectPurchases())
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return scanAll(rows, scanPurchase)
}

func (q *sqlQuerier) ListPurchasesByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	rows, err := q.query(ctx, q.selectPurchases().Where(sq.Eq{"user_id": userID}))
	if err != nil {
		return nil, fmt.Errorf("list purchases by user: %w", err)
	}
	return scanAll(rows, scanPurchase)
}

func (q *sqlQuerier) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	row, err := q.queryRow(ctx, q.sb.Insert("purchases").
		Columns("user_id", "product_id", "quantity", "total_price").
		Values(purchase.UserID, purchase.ProductID, purchase.Quantity, purchase.TotalPrice).
		Suffix("RETURNING "+purchaseColumns))
	if err != nil {
		return err
	}

	created, err := scanPurchase(row)
	if err != nil {
		return writeErr("create purchase", err, database.ErrUserNotFound)
	}
	*purchase = created
	return nil
}
