package service

import (
	"context"
	"time"

	"fooddash/internal/configs"
	"fooddash/internal/models"
	"fooddash/internal/repository"

	"github.com/go-playground/validator/v10"
)

// API is the surface the HTTP layer consumes.
type API interface {
	CreateOrder(ctx context.Context, actor models.Actor, in CreateOrderInput) (models.Order, error)
	GetOrder(ctx context.Context, actor models.Actor, id string) (models.Order, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, target models.OrderStatus, reason, detail string) (models.Order, error)
	CancelOrder(ctx context.Context, actor models.Actor, id, reason, detail string) (models.Order, error)
	AssignDelivery(ctx context.Context, actor models.Actor, orderID, partnerID string) (models.Order, error)
	VerifyDeliveryOTP(ctx context.Context, actor models.Actor, orderID, code string) (models.Order, error)
	OrderStats(ctx context.Context, actor models.Actor, from, to time.Time) (OrderStats, error)

	CreateReview(ctx context.Context, actor models.Actor, in CreateReviewInput) (models.Review, error)
	RebuildRatings(ctx context.Context, actor models.Actor) error
}

// EventPublisher is the notification boundary: order events go out on it
// best-effort after successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

type Service struct {
	orders  repository.Orders
	reviews repository.Reviews
	catalog repository.Catalog
	cache   repository.OrderCache

	events  EventPublisher
	pricing configs.PricingConfig

	v   *validator.Validate
	now func() time.Time
}

func NewService(repo *repository.Repository, events EventPublisher, pricing configs.PricingConfig) *Service {
	return &Service{
		orders:  repo.Orders,
		reviews: repo.Reviews,
		catalog: repo.Catalog,
		cache:   repo.OrderCache,
		events:  events,
		pricing: pricing,
		v:       validator.New(),
		now:     time.Now,
	}
}
