package service

import (
	"context"
	"errors"
	"fmt"

	"fooddash/internal/models"
	"fooddash/internal/repository"

	"github.com/sirupsen/logrus"
)

type CreateReviewInput struct {
	OrderID     string              `json:"order" validate:"required"`
	Food        int                 `json:"food" validate:"gte=1,lte=5"`
	Delivery    int                 `json:"delivery" validate:"gte=1,lte=5"`
	Service     int                 `json:"service" validate:"gte=1,lte=5"`
	Comment     string              `json:"comment,omitempty" validate:"max=1000"`
	ItemRatings []models.ItemRating `json:"item_ratings,omitempty" validate:"dive"`
}

func (s *Service) CreateReview(ctx context.Context, actor models.Actor, in CreateReviewInput) (models.Review, error) {
	if actor.Role != models.RoleCustomer {
		return models.Review{}, fmt.Errorf("%w: only customers write reviews", ErrForbidden)
	}
	if err := s.validateStruct(in); err != nil {
		return models.Review{}, err
	}

	ord, err := s.orders.Get(ctx, in.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Review{}, ErrNotFound
	}
	if err != nil {
		return models.Review{}, err
	}
	if ord.CustomerID != actor.ID {
		return models.Review{}, fmt.Errorf("%w: not your order", ErrForbidden)
	}
	if ord.OrderStatus != models.StatusDelivered {
		return models.Review{}, fmt.Errorf("%w: only delivered orders can be reviewed", ErrConflict)
	}

	for _, ir := range in.ItemRatings {
		if !orderContainsItem(ord, ir.MenuItemID) {
			return models.Review{}, fmt.Errorf("%w: menu item %s is not part of this order", ErrValidation, ir.MenuItemID)
		}
	}

	rev := models.Review{
		OrderID:           ord.ID,
		CustomerID:        actor.ID,
		RestaurantID:      ord.RestaurantID,
		DeliveryPartnerID: ord.DeliveryPartnerID,
		Ratings: models.Ratings{
			Food:     in.Food,
			Delivery: in.Delivery,
			Service:  in.Service,
			Overall:  round1(float64(in.Food+in.Delivery+in.Service) / 3),
		},
		ItemRatings: in.ItemRatings,
		Comment:     in.Comment,
		CreatedAt:   s.now().UTC(),
	}

	id, err := s.reviews.Create(ctx, rev)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Review{}, fmt.Errorf("%w: this order has already been reviewed", ErrConflict)
	}
	if err != nil {
		return models.Review{}, err
	}
	rev.ID = id

	// The review is the source of truth from here on; everything below is a
	// best-effort cache refresh that RebuildRatings can redo.
	if err := s.orders.AttachRating(ctx, ord.ID, models.OrderRating{ReviewID: rev.ID, Overall: rev.Ratings.Overall}); err != nil {
		logrus.WithError(err).WithField("order", ord.ID).Warn("attach rating to order failed")
	}
	s.cache.DeleteOrder(ord.ID)

	if err := s.aggregateForReview(ctx, rev); err != nil {
		logrus.WithError(err).WithField("review", rev.ID).Warn("rating aggregation failed")
	}
	return rev, nil
}

func orderContainsItem(ord models.Order, menuItemID string) bool {
	for _, it := range ord.Items {
		if it.MenuItemID == menuItemID {
			return true
		}
	}
	return false
}

// aggregateForReview recomputes every aggregate the review touches by
// rescanning the full related-review set; no running averages.
func (s *Service) aggregateForReview(ctx context.Context, rev models.Review) error {
	if err := s.recomputeRestaurantRating(ctx, rev.RestaurantID); err != nil {
		return err
	}
	if rev.DeliveryPartnerID != "" {
		if err := s.recomputePartnerRating(ctx, rev.DeliveryPartnerID); err != nil {
			return err
		}
	}
	for _, ir := range rev.ItemRatings {
		if err := s.recomputeMenuItemRating(ctx, ir.MenuItemID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) recomputeRestaurantRating(ctx context.Context, restaurantID string) error {
	reviews, err := s.reviews.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return err
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Ratings.Overall
	}
	summary := models.RatingSummary{Count: len(reviews)}
	if len(reviews) > 0 {
		summary.Average = round1(sum / float64(len(reviews)))
	}
	return s.catalog.UpdateRestaurantRating(ctx, restaurantID, summary)
}

func (s *Service) recomputePartnerRating(ctx context.Context, partnerID string) error {
	reviews, err := s.reviews.ListByPartner(ctx, partnerID)
	if err != nil {
		return err
	}
	var sum float64
	for _, r := range reviews {
		sum += float64(r.Ratings.Delivery)
	}
	summary := models.RatingSummary{Count: len(reviews)}
	if len(reviews) > 0 {
		summary.Average = round1(sum / float64(len(reviews)))
	}
	return s.catalog.UpdatePartnerRating(ctx, partnerID, summary)
}

func (s *Service) recomputeMenuItemRating(ctx context.Context, menuItemID string) error {
	reviews, err := s.reviews.ListByMenuItem(ctx, menuItemID)
	if err != nil {
		return err
	}
	var sum float64
	var count int
	for _, r := range reviews {
		for _, ir := range r.ItemRatings {
			if ir.MenuItemID == menuItemID {
				sum += float64(ir.Rating)
				count++
			}
		}
	}
	summary := models.RatingSummary{Count: count}
	if count > 0 {
		summary.Average = round1(sum / float64(count))
	}
	return s.catalog.UpdateMenuItemRating(ctx, menuItemID, summary)
}

// RebuildRatings re-runs the aggregation over the whole review set; aggregate
// fields are derived caches and can always be reconstructed this way.
func (s *Service) RebuildRatings(ctx context.Context, actor models.Actor) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: admin only", ErrForbidden)
	}

	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return err
	}

	restaurants := make(map[string]struct{})
	partners := make(map[string]struct{})
	menuItems := make(map[string]struct{})
	for _, r := range reviews {
		restaurants[r.RestaurantID] = struct{}{}
		if r.DeliveryPartnerID != "" {
			partners[r.DeliveryPartnerID] = struct{}{}
		}
		for _, ir := range r.ItemRatings {
			menuItems[ir.MenuItemID] = struct{}{}
		}
	}

	for id := range restaurants {
		if err := s.recomputeRestaurantRating(ctx, id); err != nil {
			logrus.WithError(err).WithField("restaurant", id).Warn("rating rebuild failed")
		}
	}
	for id := range partners {
		if err := s.recomputePartnerRating(ctx, id); err != nil {
			logrus.WithError(err).WithField("partner", id).Warn("rating rebuild failed")
		}
	}
	for id := range menuItems {
		if err := s.recomputeMenuItemRating(ctx, id); err != nil {
			logrus.WithError(err).WithField("menu_item", id).Warn("rating rebuild failed")
		}
	}
	return nil
}
