package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"fooddash/internal/models"
	"fooddash/internal/repository"

	"github.com/sirupsen/logrus"
)

var orderSeq uint64

// nextOrderNumber is timestamp-derived but sequenced atomically, so two
// orders created in the same instant still get distinct numbers.
func nextOrderNumber(now time.Time) string {
	seq := atomic.AddUint64(&orderSeq, 1)
	return fmt.Sprintf("ORD-%s-%04d", now.UTC().Format("20060102150405"), seq%10000)
}

type OrderStats struct {
	TotalOrders  int            `json:"total_orders"`
	TotalRevenue float64        `json:"total_revenue"`
	ByStatus     map[string]int `json:"by_status"`
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
}

type orderEvent struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Status      models.OrderStatus `json:"status"`
	ActorRole   models.Role        `json:"actor_role"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

func (s *Service) CreateOrder(ctx context.Context, actor models.Actor, in CreateOrderInput) (models.Order, error) {
	if actor.Role != models.RoleCustomer {
		return models.Order{}, fmt.Errorf("%w: only customers place orders", ErrForbidden)
	}

	ord, err := s.priceOrder(ctx, actor.ID, in)
	if err != nil {
		return models.Order{}, err
	}

	otp, err := newDeliveryOTP(ord.CreatedAt, s.pricing.OTPTTL)
	if err != nil {
		return models.Order{}, err
	}
	ord.OTP = &otp

	id, err := s.orders.Create(ctx, ord)
	if err != nil {
		return models.Order{}, err
	}
	ord.ID = id

	s.cache.PutOrder(ord.ID, ord)
	s.publishOrderEvent(ctx, ord, actor)
	return ord, nil
}

func (s *Service) GetOrder(ctx context.Context, actor models.Actor, id string) (models.Order, error) {
	if ord, ok := s.cache.GetOrder(id); ok {
		if err := authorizeView(ord, actor); err != nil {
			return models.Order{}, err
		}
		return ord, nil
	}

	ord, err := s.orders.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	if err := authorizeView(ord, actor); err != nil {
		return models.Order{}, err
	}
	s.cache.PutOrder(ord.ID, ord)
	return ord, nil
}

func authorizeView(ord models.Order, actor models.Actor) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleCustomer:
		if actor.ID == ord.CustomerID {
			return nil
		}
	case models.RoleRestaurantOwner:
		if actor.RestaurantID == ord.RestaurantID {
			return nil
		}
	case models.RoleDeliveryPartner:
		if ord.DeliveryPartnerID != "" && actor.ID == ord.DeliveryPartnerID {
			return nil
		}
	}
	return fmt.Errorf("%w: not allowed to view this order", ErrForbidden)
}

func (s *Service) UpdateStatus(ctx context.Context, actor models.Actor, id string, target models.OrderStatus, reason, detail string) (models.Order, error) {
	// delivered is reachable only through VerifyDeliveryOTP; the plain status
	// endpoint must not skip the code check.
	if target == models.StatusDelivered {
		return models.Order{}, fmt.Errorf("%w: delivery is confirmed by verifying the delivery code", ErrValidation)
	}

	ord, err := s.orders.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return s.applyTransition(ctx, actor, ord, target, models.CancellationReason(reason), detail)
}

func (s *Service) CancelOrder(ctx context.Context, actor models.Actor, id, reason, detail string) (models.Order, error) {
	if actor.Role != models.RoleCustomer && actor.Role != models.RoleAdmin {
		return models.Order{}, fmt.Errorf("%w: only the customer or an admin may cancel", ErrForbidden)
	}
	return s.UpdateStatus(ctx, actor, id, models.StatusCancelled, reason, detail)
}

// applyTransition plans, applies and persists a status change with a
// conditional write on the prior status; a lost race surfaces as a conflict
// rather than a silent double-apply.
func (s *Service) applyTransition(ctx context.Context, actor models.Actor, ord models.Order, target models.OrderStatus, reason models.CancellationReason, detail string) (models.Order, error) {
	plan, err := PlanTransition(ord, target, actor, reason, detail, s.now().UTC())
	if err != nil {
		return models.Order{}, err
	}
	plan.Apply(&ord)

	if err := s.orders.UpdateChecked(ctx, ord, plan.From); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.Order{}, fmt.Errorf("%w: order status changed concurrently", ErrConflict)
		}
		return models.Order{}, err
	}
	s.cache.DeleteOrder(ord.ID)

	if ord.OrderStatus.Terminal() && ord.DeliveryPartnerID != "" {
		s.settlePartner(ctx, ord)
	}
	s.publishOrderEvent(ctx, ord, actor)
	return ord, nil
}

// settlePartner frees the partner and refreshes the derived statistics from
// the full order set. Best-effort: the transition already committed.
func (s *Service) settlePartner(ctx context.Context, ord models.Order) {
	if err := s.catalog.ReleasePartner(ctx, ord.DeliveryPartnerID, ord.ID); err != nil {
		logrus.WithError(err).WithField("partner", ord.DeliveryPartnerID).Warn("release partner failed")
	}

	total, completed, err := s.orders.CountByPartner(ctx, ord.DeliveryPartnerID)
	if err != nil {
		logrus.WithError(err).WithField("partner", ord.DeliveryPartnerID).Warn("partner stats recount failed")
		return
	}
	stats := models.PartnerStatistics{
		TotalOrders:     total,
		CompletedOrders: completed,
	}
	if total > 0 {
		stats.CompletionRate = math.Round(100 * float64(completed) / float64(total))
	}
	if err := s.catalog.UpdatePartnerStats(ctx, ord.DeliveryPartnerID, stats); err != nil {
		logrus.WithError(err).WithField("partner", ord.DeliveryPartnerID).Warn("partner stats write failed")
	}
}

func (s *Service) AssignDelivery(ctx context.Context, actor models.Actor, orderID, partnerID string) (models.Order, error) {
	ord, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleRestaurantOwner:
		if actor.RestaurantID != ord.RestaurantID {
			return models.Order{}, fmt.Errorf("%w: not your restaurant's order", ErrForbidden)
		}
	case models.RoleDeliveryPartner:
		// accept-order path: a partner may claim an unassigned order for
		// themselves.
		if actor.ID != partnerID {
			return models.Order{}, fmt.Errorf("%w: partners may only accept orders for themselves", ErrForbidden)
		}
	default:
		return models.Order{}, fmt.Errorf("%w: not allowed to assign delivery", ErrForbidden)
	}

	if ord.DeliveryPartnerID != "" {
		return models.Order{}, fmt.Errorf("%w: order already has a delivery partner", ErrConflict)
	}
	if ord.OrderStatus.Terminal() {
		return models.Order{}, fmt.Errorf("%w: order is already %s", ErrConflict, ord.OrderStatus)
	}

	partner, err := s.catalog.Partner(ctx, partnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, fmt.Errorf("%w: delivery partner not found", ErrValidation)
	}
	if err != nil {
		return models.Order{}, err
	}
	if !partner.IsOnline {
		return models.Order{}, fmt.Errorf("%w: delivery partner is offline", ErrConflict)
	}
	if partner.CurrentOrderID != "" {
		return models.Order{}, fmt.Errorf("%w: delivery partner already has an active order", ErrConflict)
	}

	// Two separate document writes; the claim is conditional so two partners
	// can never both hold the order, but a crash between them can leave the
	// pair inconsistent (accepted gap).
	if err := s.catalog.ClaimPartner(ctx, partnerID, ord.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.Order{}, fmt.Errorf("%w: delivery partner already has an active order", ErrConflict)
		}
		return models.Order{}, err
	}
	if err := s.orders.AssignPartner(ctx, ord.ID, partnerID); err != nil {
		if relErr := s.catalog.ReleasePartner(ctx, partnerID, ord.ID); relErr != nil {
			logrus.WithError(relErr).WithField("partner", partnerID).Warn("rollback partner claim failed")
		}
		if errors.Is(err, repository.ErrConflict) {
			return models.Order{}, fmt.Errorf("%w: order already has a delivery partner", ErrConflict)
		}
		return models.Order{}, err
	}

	ord.DeliveryPartnerID = partnerID
	ord.UpdatedAt = s.now().UTC()
	s.cache.DeleteOrder(ord.ID)
	s.publishOrderEvent(ctx, ord, actor)
	return ord, nil
}

func (s *Service) VerifyDeliveryOTP(ctx context.Context, actor models.Actor, orderID, code string) (models.Order, error) {
	if actor.Role != models.RoleDeliveryPartner && actor.Role != models.RoleAdmin {
		return models.Order{}, fmt.Errorf("%w: only the delivery partner or an admin may confirm delivery", ErrForbidden)
	}

	ord, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	// assignment is checked before the code so an unassigned partner never
	// learns whether a guessed code matches.
	if actor.Role == models.RoleDeliveryPartner && actor.ID != ord.DeliveryPartnerID {
		return models.Order{}, fmt.Errorf("%w: not your delivery", ErrForbidden)
	}

	if err := verifyOTP(ord, code, s.now().UTC()); err != nil {
		return models.Order{}, err
	}
	return s.applyTransition(ctx, actor, ord, models.StatusDelivered, "", "")
}

func (s *Service) OrderStats(ctx context.Context, actor models.Actor, from, to time.Time) (OrderStats, error) {
	now := s.now().UTC()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return OrderStats{}, fmt.Errorf("%w: start date is after end date", ErrValidation)
	}

	var customerID, restaurantID string
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleCustomer:
		customerID = actor.ID
	case models.RoleRestaurantOwner:
		restaurantID = actor.RestaurantID
	default:
		return OrderStats{}, fmt.Errorf("%w: no stats scope for this role", ErrForbidden)
	}

	total, revenue, byStatus, err := s.orders.Stats(ctx, customerID, restaurantID, from, to)
	if err != nil {
		return OrderStats{}, err
	}
	return OrderStats{
		TotalOrders:  total,
		TotalRevenue: revenue,
		ByStatus:     byStatus,
		From:         from,
		To:           to,
	}, nil
}

// publishOrderEvent is best-effort; the order write already committed.
func (s *Service) publishOrderEvent(ctx context.Context, ord models.Order, actor models.Actor) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(orderEvent{
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		Status:      ord.OrderStatus,
		ActorRole:   actor.Role,
		OccurredAt:  s.now().UTC(),
	})
	if err != nil {
		logrus.WithError(err).Warn("order event marshal failed")
		return
	}
	if err := s.events.Publish(ctx, ord.ID, payload); err != nil {
		logrus.WithError(err).WithField("order", ord.ID).Warn("order event publish failed")
	}
}
