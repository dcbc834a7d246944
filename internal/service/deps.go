package service

import (
	"context"
	"time"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/repository"
)

// Repos required by the services (interfaces to allow stubbing in tests).

type CastRegistry interface {
	Create(ctx context.Context, q repository.Querier, cast *models.Cast) error
	GetByCode(ctx context.Context, q repository.Querier, code string) (*models.Cast, error)
	GetByID(ctx context.Context, q repository.Querier, id int64) (*models.Cast, error)
	DecrementQuantity(ctx context.Context, q repository.Querier, code string) error
	Delete(ctx context.Context, q repository.Querier, id int64) error
	List(ctx context.Context, q repository.Querier, filter repository.CastFilter, page repository.PageRequest) ([]models.Cast, error)
}

type Ledger interface {
	Create(ctx context.Context, q repository.Querier, entry *models.DiscountCode) error
	GetByID(ctx context.Context, q repository.Querier, id string) (*models.DiscountCode, error)
	ListForCustomer(ctx context.Context, q repository.Querier, customerID string, isUsed *bool) ([]models.DiscountCode, error)
	MarkUsed(ctx context.Context, q repository.Querier, id string, at time.Time) error
}
