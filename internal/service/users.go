package service

import (
	"context"

	"github.com/safar/labecommerce/internal/models"
	"github.com/safar/labecommerce/internal/store"
	"github.com/safar/labecommerce/internal/validation"
)

type UserService struct {
	pipeline *Pipeline
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.pipeline.Run(ctx, Mutation{
		Name:     "list users",
		ReadOnly: true,
		Resolve: func(ctx context.Context, q store.Querier) (err error) {
			users, err = q.ListUsers(ctx)
			if err != nil {
				return err
			}
			users, err = nonEmpty(users, "no users found")
			return err
		},
	})
	return users, err
}

// Create registers a user. The id and the email must both be unused.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user := models.User{ID: req.ID, Email: req.Email, Password: req.Password}

	err := s.pipeline.Run(ctx, Mutation{
		Name:     "create user",
		Validate: func() error { return validation.Struct(req) },
		Check: func(ctx context.Context, q store.Querier) error {
			if err := requireAbsent(func() (*models.User, error) { return q.GetUser(ctx, req.ID) },
				"a user with this id already exists"); err != nil {
				return err
			}
			return requireAbsent(func() (*models.User, error) { return q.FindUserByEmail(ctx, req.Email) },
				"a user with this email already exists")
		},
		Commit: func(ctx context.Context, q store.Querier) error {
			return duplicateAs(q.CreateUser(ctx, &user), "a user with this id or email already exists")
		},
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update changes the fields present in req. An unknown id is a validation
// failure, and the new email must not belong to another user.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	var updated *models.User

	err := s.pipeline.Run(ctx, Mutation{
		Name: "update user",
		Validate: func() error {
			if err := validation.Var("id", id, "required"); err != nil {
				return err
			}
			return validation.Struct(req)
		},
		Resolve: func(ctx context.Context, q store.Querier) error {
			_, err := resolveOr(func() (*models.User, error) { return q.GetUser(ctx, id) },
				invalid("user does not exist"))
			return err
		},
		Check: func(ctx context.Context, q store.Querier) error {
			if req.Email == nil {
				return nil
			}
			other, err := q.FindUserByEmail(ctx, *req.Email)
			switch {
			case isNotFound(err):
				return nil
			case err != nil:
				return err
			case other.ID != id:
				return conflict("a user with this email already exists")
			}
			return nil
		},
		Commit: func(ctx context.Context, q store.Querier) (err error) {
			updated, err = q.UpdateUser(ctx, id, req.Patch())
			return duplicateAs(err, "a user with this email already exists")
		},
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListPurchases returns the purchases of one user. An unknown user is a
// validation failure; a user without purchases is not found.
func (s *UserService) ListPurchases(ctx context.Context, userID string) ([]models.Purchase, error) {
	var purchases []models.Purchase

	err := s.pipeline.Run(ctx, Mutation{
		Name:     "list user purchases",
		ReadOnly: true,
		Validate: validateID("id", userID),
		Resolve: func(ctx context.Context, q store.Querier) error {
			_, err := resolveOr(func() (*models.User, error) { return q.GetUser(ctx, userID) },
				invalid("user not found, check the id and try again"))
			if err != nil {
				return err
			}
			purchases, err = q.ListPurchasesByUser(ctx, userID)
			if err != nil {
				return err
			}
			purchases, err = nonEmpty(purchases, "no purchases found for this user")
			return err
		},
	})
	return purchases, err
}
