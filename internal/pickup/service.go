package pickup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
)

// Service exposes pickup point reads for checkout plus admin management.
type Service interface {
	ListActive(ctx context.Context, city string) ([]models.PickupPoint, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PickupPoint, error)
	Create(ctx context.Context, input CreateInput) (*models.PickupPoint, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// CreateInput describes a new collection location.
type CreateInput struct {
	Name    string  `json:"name" validate:"required"`
	City    string  `json:"city" validate:"required"`
	Address string  `json:"address" validate:"required"`
	Phone   *string `json:"phone,omitempty"`
}

type service struct {
	repo Repository
}

// NewService builds the pickup point service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pickup repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListActive(ctx context.Context, city string) ([]models.PickupPoint, error) {
	points, err := s.repo.ListActive(ctx, strings.TrimSpace(city))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pickup points")
	}
	return points, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PickupPoint, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup point id required")
	}
	point, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pickup point not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pickup point")
	}
	return point, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.PickupPoint, error) {
	name := strings.TrimSpace(input.Name)
	city := strings.TrimSpace(input.City)
	address := strings.TrimSpace(input.Address)
	if name == "" || city == "" || address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, city and address are required")
	}

	point := &models.PickupPoint{
		Name:    name,
		City:    city,
		Address: address,
		Phone:   input.Phone,
		Active:  true,
	}
	created, err := s.repo.Create(ctx, point)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pickup point")
	}
	return created, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pickup point id required")
	}
	found, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pickup point")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pickup point not found")
	}
	return nil
}
