package repository

import (
	"context"
	"time"

	"fooddash/internal/models"
	"fooddash/internal/repository/cache"
	"fooddash/internal/repository/mongodb"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinels are shared with the mongodb implementations so the service layer
// can test against a single set of values.
var (
	ErrNotFound  = mongodb.ErrNotFound
	ErrDuplicate = mongodb.ErrDuplicate
	// ErrConflict means a conditional update matched no document: the
	// expected prior state was gone by write time.
	ErrConflict = mongodb.ErrConflict
)

type Orders interface {
	Create(ctx context.Context, ord models.Order) (string, error)
	Get(ctx context.Context, id string) (models.Order, error)
	Update(ctx context.Context, ord models.Order) error
	// UpdateChecked persists ord only if the stored status still equals
	// expected; returns ErrConflict otherwise.
	UpdateChecked(ctx context.Context, ord models.Order, expected models.OrderStatus) error
	// AssignPartner sets the partner only if the order is still unassigned.
	AssignPartner(ctx context.Context, orderID, partnerID string) error
	AttachRating(ctx context.Context, orderID string, rating models.OrderRating) error
	Stats(ctx context.Context, customerID, restaurantID string, from, to time.Time) (total int, revenue float64, byStatus map[string]int, err error)
	CountByPartner(ctx context.Context, partnerID string) (total, completed int, err error)
}

type Reviews interface {
	Create(ctx context.Context, rev models.Review) (string, error)
	GetByOrder(ctx context.Context, orderID string) (models.Review, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Review, error)
	ListByPartner(ctx context.Context, partnerID string) ([]models.Review, error)
	ListByMenuItem(ctx context.Context, menuItemID string) ([]models.Review, error)
	ListAll(ctx context.Context) ([]models.Review, error)
}

type Catalog interface {
	Restaurant(ctx context.Context, id string) (models.Restaurant, error)
	MenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error)
	Address(ctx context.Context, id string) (models.Address, error)
	Partner(ctx context.Context, id string) (models.DeliveryPartner, error)
	// ClaimPartner points the partner at the order only if the partner is
	// online and has no current order; increments totalOrders.
	ClaimPartner(ctx context.Context, partnerID, orderID string) error
	// ReleasePartner clears currentOrderId if it still points at orderID.
	ReleasePartner(ctx context.Context, partnerID, orderID string) error
	UpdatePartnerStats(ctx context.Context, partnerID string, stats models.PartnerStatistics) error
	UpdateRestaurantRating(ctx context.Context, id string, r models.RatingSummary) error
	UpdatePartnerRating(ctx context.Context, id string, r models.RatingSummary) error
	UpdateMenuItemRating(ctx context.Context, id string, r models.RatingSummary) error
}

type OrderCache interface {
	PutOrder(id string, ord models.Order)
	GetOrder(id string) (models.Order, bool)
	DeleteOrder(id string)
}

type Repository struct {
	Orders
	Reviews
	Catalog
	OrderCache

	kv *cache.ShardedCache
}

func NewRepository(db *mongo.Database, cacheTTL time.Duration) *Repository {
	kv := cache.NewShardedCache(cache.WithShardTTL(cacheTTL))
	return &Repository{
		Orders:     mongodb.NewOrderRepo(db),
		Reviews:    mongodb.NewReviewRepo(db),
		Catalog:    mongodb.NewCatalogRepo(db),
		OrderCache: cache.NewOrderCache(kv),
		kv:         kv,
	}
}

// Close stops the cache janitor goroutine.
func (r *Repository) Close() {
	if r.kv != nil {
		r.kv.Close()
	}
}
