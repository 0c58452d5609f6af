package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/pagination"
)

type stubRepo struct {
	findByID  func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	findByIDs func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	list      func(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error)
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.findByID(ctx, id)
}

func (s *stubRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	return s.findByIDs(ctx, ids)
}

func (s *stubRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error) {
	return s.list(ctx, params, filters)
}

func (s *stubRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	return 0, nil
}

func (s *stubRepo) IncrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	return 0, nil
}

func TestGetRejectsNilID(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetMapsMissingRowToNotFound(t *testing.T) {
	svc, err := NewService(&stubRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return nil, gorm.ErrRecordNotFound
		},
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetHidesUnsellableProducts(t *testing.T) {
	svc, err := NewService(&stubRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{ID: id, Status: enums.ProductStatusPending}, nil
		},
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetReturnsSellableProduct(t *testing.T) {
	id := uuid.New()
	svc, err := NewService(&stubRepo{
		findByID: func(ctx context.Context, got uuid.UUID) (*models.Product, error) {
			require.Equal(t, id, got)
			return &models.Product{ID: got, Status: enums.ProductStatusActive, Name: "Lamp"}, nil
		},
	})
	require.NoError(t, err)

	product, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Lamp", product.Name)
}
