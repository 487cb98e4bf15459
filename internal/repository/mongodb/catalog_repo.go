package mongodb

import (
	"context"
	"errors"
	"time"

	"fooddash/internal/models"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepo covers the catalog collections the order core reads from:
// restaurants, menu items, addresses and delivery partners.
type CatalogRepo struct {
	restaurants *mongo.Collection
	menuItems   *mongo.Collection
	addresses   *mongo.Collection
	partners    *mongo.Collection
}

func NewCatalogRepo(db *mongo.Database) *CatalogRepo {
	return &CatalogRepo{
		restaurants: db.Collection(collRestaurants),
		menuItems:   db.Collection(collMenuItems),
		addresses:   db.Collection(collAddresses),
		partners:    db.Collection(collPartners),
	}
}

func (r *CatalogRepo) Restaurant(ctx context.Context, id string) (models.Restaurant, error) {
	var out models.Restaurant
	err := r.restaurants.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Restaurant{}, ErrNotFound
	}
	if err != nil {
		return models.Restaurant{}, pkgerrors.Wrap(err, "find restaurant")
	}
	return out, nil
}

func (r *CatalogRepo) MenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	cursor, err := r.menuItems.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find menu items")
	}
	defer cursor.Close(ctx)

	var out []models.MenuItem
	if err := cursor.All(ctx, &out); err != nil {
		return nil, pkgerrors.Wrap(err, "decode menu items")
	}
	return out, nil
}

func (r *CatalogRepo) Address(ctx context.Context, id string) (models.Address, error) {
	var out models.Address
	err := r.addresses.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Address{}, ErrNotFound
	}
	if err != nil {
		return models.Address{}, pkgerrors.Wrap(err, "find address")
	}
	return out, nil
}

func (r *CatalogRepo) Partner(ctx context.Context, id string) (models.DeliveryPartner, error) {
	var out models.DeliveryPartner
	err := r.partners.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DeliveryPartner{}, ErrNotFound
	}
	if err != nil {
		return models.DeliveryPartner{}, pkgerrors.Wrap(err, "find partner")
	}
	return out, nil
}

// ClaimPartner is the accept-order guard: the write only matches while the
// partner is online and idle, so a partner can never hold two active orders.
func (r *CatalogRepo) ClaimPartner(ctx context.Context, partnerID, orderID string) error {
	filter := bson.M{
		"_id":            partnerID,
		"isOnline":       true,
		"currentOrderId": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{
		"$set": bson.M{"currentOrderId": orderID},
		"$inc": bson.M{"statistics.totalOrders": 1},
	}
	res, err := r.partners.UpdateOne(ctx, filter, update)
	if err != nil {
		return pkgerrors.Wrap(err, "claim partner")
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *CatalogRepo) ReleasePartner(ctx context.Context, partnerID, orderID string) error {
	_, err := r.partners.UpdateOne(ctx,
		bson.M{"_id": partnerID, "currentOrderId": orderID},
		bson.M{"$unset": bson.M{"currentOrderId": ""}})
	return pkgerrors.Wrap(err, "release partner")
}

func (r *CatalogRepo) UpdatePartnerStats(ctx context.Context, partnerID string, stats models.PartnerStatistics) error {
	_, err := r.partners.UpdateOne(ctx, bson.M{"_id": partnerID},
		bson.M{"$set": bson.M{"statistics": stats}})
	return pkgerrors.Wrap(err, "update partner stats")
}

func (r *CatalogRepo) UpdateRestaurantRating(ctx context.Context, id string, rating models.RatingSummary) error {
	return r.setRating(ctx, r.restaurants, id, rating)
}

func (r *CatalogRepo) UpdatePartnerRating(ctx context.Context, id string, rating models.RatingSummary) error {
	return r.setRating(ctx, r.partners, id, rating)
}

func (r *CatalogRepo) UpdateMenuItemRating(ctx context.Context, id string, rating models.RatingSummary) error {
	return r.setRating(ctx, r.menuItems, id, rating)
}

func (r *CatalogRepo) setRating(ctx context.Context, coll *mongo.Collection, id string, rating models.RatingSummary) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"rating": rating, "ratingUpdatedAt": time.Now().UTC()}})
	if err != nil {
		return pkgerrors.Wrap(err, "update rating")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
