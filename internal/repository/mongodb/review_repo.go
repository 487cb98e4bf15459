package mongodb

import (
	"context"
	"errors"

	"fooddash/internal/models"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRepo struct {
	coll *mongo.Collection
}

func NewReviewRepo(db *mongo.Database) *ReviewRepo {
	return &ReviewRepo{coll: db.Collection(collReviews)}
}

func (r *ReviewRepo) Create(ctx context.Context, rev models.Review) (string, error) {
	if rev.ID == "" {
		rev.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, rev); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", pkgerrors.Wrap(err, "insert review")
	}
	return rev.ID, nil
}

func (r *ReviewRepo) GetByOrder(ctx context.Context, orderID string) (models.Review, error) {
	var rev models.Review
	err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&rev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Review{}, ErrNotFound
	}
	if err != nil {
		return models.Review{}, pkgerrors.Wrap(err, "find review by order")
	}
	return rev, nil
}

// The List* methods feed the rating aggregator and therefore exclude hidden
// reviews.

func (r *ReviewRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Review, error) {
	return r.list(ctx, bson.M{"restaurantId": restaurantID, "isHidden": false})
}

func (r *ReviewRepo) ListByPartner(ctx context.Context, partnerID string) ([]models.Review, error) {
	return r.list(ctx, bson.M{"deliveryPartnerId": partnerID, "isHidden": false})
}

func (r *ReviewRepo) ListByMenuItem(ctx context.Context, menuItemID string) ([]models.Review, error) {
	return r.list(ctx, bson.M{"itemRatings.menuItemId": menuItemID, "isHidden": false})
}

func (r *ReviewRepo) ListAll(ctx context.Context) ([]models.Review, error) {
	return r.list(ctx, bson.M{"isHidden": false})
}

func (r *ReviewRepo) list(ctx context.Context, filter bson.M) ([]models.Review, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find reviews")
	}
	defer cursor.Close(ctx)

	var out []models.Review
	if err := cursor.All(ctx, &out); err != nil {
		return nil, pkgerrors.Wrap(err, "decode reviews")
	}
	return out, nil
}
