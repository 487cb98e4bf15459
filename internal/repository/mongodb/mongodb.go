package mongodb

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	ErrConflict  = errors.New("conflict")
)

const (
	collOrders      = "orders"
	collReviews     = "reviews"
	collRestaurants = "restaurants"
	collMenuItems   = "menu_items"
	collAddresses   = "addresses"
	collPartners    = "delivery_partners"
)

func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "mongo connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, pkgerrors.Wrap(err, "mongo ping")
	}
	return client.Database(dbName), nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// index on reviews.orderId is what enforces one review per order.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(collReviews).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return pkgerrors.Wrap(err, "reviews index")
	}

	_, err = db.Collection(collOrders).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "deliveryPartnerId", Value: 1}}},
	})
	if err != nil {
		return pkgerrors.Wrap(err, "orders indexes")
	}

	_, err = db.Collection(collReviews).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "restaurantId", Value: 1}}},
		{Keys: bson.D{{Key: "deliveryPartnerId", Value: 1}}},
		{Keys: bson.D{{Key: "itemRatings.menuItemId", Value: 1}}},
	})
	return pkgerrors.Wrap(err, "reviews secondary indexes")
}
