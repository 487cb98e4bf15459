package mongodb

import (
	"context"
	"errors"
	"time"

	"fooddash/internal/models"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type OrderRepo struct {
	coll *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{coll: db.Collection(collOrders)}
}

func (r *OrderRepo) Create(ctx context.Context, ord models.Order) (string, error) {
	if ord.ID == "" {
		ord.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, ord); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", pkgerrors.Wrap(err, "insert order")
	}
	return ord.ID, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (models.Order, error) {
	var ord models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ord)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, pkgerrors.Wrap(err, "find order")
	}
	return ord, nil
}

func (r *OrderRepo) Update(ctx context.Context, ord models.Order) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": ord.ID}, ord)
	if err != nil {
		return pkgerrors.Wrap(err, "replace order")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateChecked replaces the order only while its stored status still equals
// expected, closing the check-then-act window on status transitions.
func (r *OrderRepo) UpdateChecked(ctx context.Context, ord models.Order, expected models.OrderStatus) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": ord.ID, "orderStatus": expected}, ord)
	if err != nil {
		return pkgerrors.Wrap(err, "replace order checked")
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *OrderRepo) AssignPartner(ctx context.Context, orderID, partnerID string) error {
	filter := bson.M{
		"_id":               orderID,
		"deliveryPartnerId": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{
		"deliveryPartnerId": partnerID,
		"updatedAt":         time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return pkgerrors.Wrap(err, "assign partner")
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *OrderRepo) AttachRating(ctx context.Context, orderID string, rating models.OrderRating) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"rating": rating, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return pkgerrors.Wrap(err, "attach rating")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Stats(ctx context.Context, customerID, restaurantID string, from, to time.Time) (total int, revenue float64, byStatus map[string]int, err error) {
	match := bson.M{"createdAt": bson.M{"$gte": from, "$lte": to}}
	if customerID != "" {
		match["customerId"] = customerID
	}
	if restaurantID != "" {
		match["restaurantId"] = restaurantID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$orderStatus",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$pricing.total"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, nil, pkgerrors.Wrap(err, "order stats")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status  string  `bson:"_id"`
		Count   int     `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, nil, pkgerrors.Wrap(err, "order stats decode")
	}

	byStatus = make(map[string]int, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
		total += row.Count
		if row.Status == string(models.StatusDelivered) {
			revenue += row.Revenue
		}
	}
	return total, revenue, byStatus, nil
}

func (r *OrderRepo) CountByPartner(ctx context.Context, partnerID string) (total, completed int, err error) {
	t, err := r.coll.CountDocuments(ctx, bson.M{"deliveryPartnerId": partnerID})
	if err != nil {
		return 0, 0, pkgerrors.Wrap(err, "count by partner")
	}
	c, err := r.coll.CountDocuments(ctx, bson.M{
		"deliveryPartnerId": partnerID,
		"orderStatus":       models.StatusDelivered,
	})
	if err != nil {
		return 0, 0, pkgerrors.Wrap(err, "count completed by partner")
	}
	return int(t), int(c), nil
}
