package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/safar/labecommerce/internal/database"
	"github.com/safar/labecommerce/internal/models"
)

const productColumns = "id, name, price, category"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanProduct(row scanner) (models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category); err != nil {
		return models.Product{}, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

func (q *sqlQuerier) selectProducts() sq.SelectBuilder {
	return q.sb.Select(productColumns).From("products").OrderBy(q.dialect.InsertionOrder())
}

func (q *sqlQuerier) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := q.query(ctx, q.selectProducts())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return scanAll(rows, scanProduct)
}

func (q *sqlQuerier) getProductWhere(ctx context.Context, op string, pred sq.Eq) (*models.Product, error) {
	row, err := q.queryRow(ctx, q.selectProducts().Where(pred).Limit(1))
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (q *sqlQuerier) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return q.getProductWhere(ctx, "get product", sq.Eq{"id": id})
}

func (q *sqlQuerier) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	return q.getProductWhere(ctx, "find product by name", sq.Eq{"name": name})
}

// SearchProducts pushes the match down as a LIKE only for ASCII terms.
// SQLite's LOWER folds ASCII letters only, so other terms are matched in Go
// against every product.
func (q *sqlQuerier) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	b := q.selectProducts()
	ascii := isASCII(term)
	if ascii {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		b = b.Where(sq.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, pattern))
	}

	rows, err := q.query(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	all, err := scanAll(rows, scanProduct)
	if err != nil || ascii {
		return all, err
	}

	var found []models.Product
	for _, p := range all {
		if nameContains(p.Name, term) {
			found = append(found, p)
		}
	}
	return found, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func (q *sqlQuerier) CreateProduct(ctx context.Context, product *models.Product) error {
	row, err := q.queryRow(ctx, q.sb.Insert("products").
		Columns("id", "name", "price", "category").
		Values(product.ID, product.Name, product.Price, string(product.Category)).
		Suffix("RETURNING "+productColumns))
	if err != nil {
		return err
	}

	created, err := scanProduct(row)
	if err != nil {
		return writeErr("create product", err, database.ErrProductNotFound)
	}
	*product = created
	return nil
}

func (q *sqlQuerier) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if patch.Empty() {
		return q.GetProduct(ctx, id)
	}

	b := q.sb.Update("products").Where(sq.Eq{"id": id}).Suffix("RETURNING " + productColumns)
	if patch.Name != nil {
		b = b.Set("name", *patch.Name)
	}
	if patch.Price != nil {
		b = b.Set("price", *patch.Price)
	}
	if patch.Category != nil {
		b = b.Set("category", string(*patch.Category))
	}

	row, err := q.queryRow(ctx, b)
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(row)
	if err != nil {
		return nil, writeErr("update product", err, database.ErrProductNotFound)
	}
	return &p, nil
}

func (q *sqlQuerier) DeleteProduct(ctx context.Context, id string) (bool, error) {
	res, err := q.exec(ctx, q.sb.Delete("products").Where(sq.Eq{"id": id}))
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return n > 0, nil
}
