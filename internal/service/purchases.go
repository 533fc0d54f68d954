package service

import (
	"context"

	"github.com/safar/labecommerce/internal/models"
	"github.com/safar/labecommerce/internal/store"
	"github.com/safar/labecommerce/internal/validation"
	"github.com/shopspring/decimal"
)

type PurchaseService struct {
	pipeline *Pipeline
}

func (s *PurchaseService) List(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.pipeline.Run(ctx, Mutation{
		Name:     "list purchases",
		ReadOnly: true,
		Resolve: func(ctx context.Context, q store.Querier) (err error) {
			purchases, err = q.ListPurchases(ctx)
			if err != nil {
				return err
			}
			purchases, err = nonEmpty(purchases, "no purchases found")
			return err
		},
	})
	return purchases, err
}

// Create records a purchase. The user and the product must exist and
// totalPrice must equal the product's current price times quantity. The
// stored total is never recomputed afterwards.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*models.Purchase, error) {
	var (
		product  *models.Product
		purchase models.Purchase
	)

	err := s.pipeline.Run(ctx, Mutation{
		Name:     "create purchase",
		Validate: func() error { return validation.Struct(req) },
		Resolve: func(ctx context.Context, q store.Querier) (err error) {
			_, err = resolveOr(func() (*models.User, error) { return q.GetUser(ctx, req.UserID) },
				notFound(`user not found, check the "userId"`))
			if err != nil {
				return err
			}
			product, err = resolveOr(func() (*models.Product, error) { return q.GetProduct(ctx, req.ProductID) },
				notFound(`product not found, check the "productId"`))
			return err
		},
		Check: func(ctx context.Context, q store.Querier) error {
			expected := product.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
			if !expected.Equal(*req.TotalPrice) {
				return conflict("total price is wrong: expected %s", expected.String())
			}
			return nil
		},
		Commit: func(ctx context.Context, q store.Querier) error {
			purchase = models.Purchase{
				UserID:     req.UserID,
				ProductID:  req.ProductID,
				Quantity:   req.Quantity,
				TotalPrice: *req.TotalPrice,
			}
			return q.CreatePurchase(ctx, &purchase)
		},
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}
