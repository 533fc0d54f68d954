package service

import (
	"context"

	"github.com/safar/labecommerce/internal/models"
	"github.com/safar/labecommerce/internal/store"
	"github.com/safar/labecommerce/internal/validation"
)

type ProductService struct {
	pipeline *Pipeline
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.pipeline.Run(ctx, Mutation{
		Name:     "list products",
		ReadOnly: true,
		Resolve: func(ctx context.Context, q store.Querier) (err error) {
			products, err = q.ListProducts(ctx)
			if err != nil {
				return err
			}
			products, err = nonEmpty(products, "no products found")
			return err
		},
	})
	return products, err
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	var product *models.Product
	err := s.pipeline.Run(ctx, Mutation{
		Name:     "get product",
		ReadOnly: true,
		Validate: validateID("id", id),
		Resolve: func(ctx context.Context, q store.Querier) (err error) {
			product, err = resolveOr(func() (*models.Product, error) { return q.GetProduct(ctx, id) },
				notFound("product not found"))
			return err
		},
	})
	return product, err
}

// Search returns the products whose name contains term, ignoring case.
func (s *ProductService) Search(ctx context.Context, term string) ([]models.Product, error) {
	var products []models.Product
	err := s.pipeline.Run(ctx, Mutation{
		Name:     "search products",
		ReadOnly: true,
		Validate: func() error { return validation.Var("q", term, "required,min=1") },
		Resolve: func(ctx context.Context, q store.Querier) (err error) {
			products, err = q.SearchProducts(ctx, term)
			if err != nil {
				return err
			}
			products, err = nonEmpty(products, "no products match the search")
			return err
		},
	})
	return products, err
}

// Create adds a product. Both the id and the name must be unused.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	var product models.Product

	err := s.pipeline.Run(ctx, Mutation{
		Name:     "create product",
		Validate: func() error { return validation.Struct(req) },
		Check: func(ctx context.Context, q store.Querier) error {
			if err := requireAbsent(func() (*models.Product, error) { return q.GetProduct(ctx, req.ID) },
				"a product with this id already exists"); err != nil {
				return err
			}
			return requireAbsent(func() (*models.Product, error) { return q.FindProductByName(ctx, req.Name) },
				"a product with this name already exists")
		},
		Commit: func(ctx context.Context, q store.Querier) error {
			product = models.Product{ID: req.ID, Name: req.Name, Price: *req.Price, Category: req.Category}
			return duplicateAs(q.CreateProduct(ctx, &product), "a product with this id already exists")
		},
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update changes the fields present in req. An unknown id is a validation
// failure.
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*models.Product, error) {
	var updated *models.Product

	err := s.pipeline.Run(ctx, Mutation{
		Name: "update product",
		Validate: func() error {
			if err := validation.Var("id", id, "required"); err != nil {
				return err
			}
			return validation.Struct(req)
		},
		Resolve: func(ctx context.Context, q store.Querier) error {
			_, err := resolveOr(func() (*models.Product, error) { return q.GetProduct(ctx, id) },
				invalid("product does not exist"))
			return err
		},
		Commit: func(ctx context.Context, q store.Querier) (err error) {
			updated, err = q.UpdateProduct(ctx, id, req.Patch())
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a product. Purchases that reference it are kept.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.pipeline.Run(ctx, Mutation{
		Name:     "delete product",
		Validate: validateID("id", id),
		Resolve: func(ctx context.Context, q store.Querier) error {
			_, err := resolveOr(func() (*models.Product, error) { return q.GetProduct(ctx, id) },
				invalid("product does not exist"))
			return err
		},
		Commit: func(ctx context.Context, q store.Querier) error {
			existed, err := q.DeleteProduct(ctx, id)
			if err == nil && !existed {
				return invalid("product does not exist")
			}
			return err
		},
	})
}
