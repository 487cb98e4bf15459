package service

import (
	"fmt"
	"time"

	"fooddash/internal/models"
)

// transitionTable is the single source of truth for legal status moves.
// delivered, cancelled and refunded are terminal.
var transitionTable = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:        {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:      {models.StatusPreparing, models.StatusCancelled},
	models.StatusPreparing:      {models.StatusReadyForPickup, models.StatusCancelled},
	models.StatusReadyForPickup: {models.StatusOutForDelivery, models.StatusCancelled},
	models.StatusOutForDelivery: {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered:      {},
	models.StatusCancelled:      {},
	models.StatusRefunded:       {},
}

// customerCancellable are the only states a customer may cancel from.
var customerCancellable = map[models.OrderStatus]bool{
	models.StatusPending:   true,
	models.StatusConfirmed: true,
	models.StatusPreparing: true,
}

var timelineVocab = map[models.OrderStatus]string{
	models.StatusPending:        "order_placed",
	models.StatusConfirmed:      "order_confirmed",
	models.StatusPreparing:      "preparing",
	models.StatusReadyForPickup: "ready_for_pickup",
	models.StatusOutForDelivery: "out_for_delivery",
	models.StatusDelivered:      "delivered",
	models.StatusCancelled:      "cancelled",
}

func timelineStatus(s models.OrderStatus) string {
	if mapped, ok := timelineVocab[s]; ok {
		return mapped
	}
	return string(s)
}

func canTransition(from, to models.OrderStatus) bool {
	for _, t := range transitionTable[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionPlan lists the mutations a validated transition requires, so side
// effects stay visible and reusable instead of hiding in save hooks.
type TransitionPlan struct {
	From         models.OrderStatus
	To           models.OrderStatus
	Timeline     models.TimelineEntry
	Cancellation *models.CancellationDetails
	DeliveredAt  *time.Time
	ClearOTP     bool
}

func (p TransitionPlan) Apply(ord *models.Order) {
	ord.OrderStatus = p.To
	ord.Timeline = append(ord.Timeline, p.Timeline)
	if p.Cancellation != nil {
		ord.CancellationDetails = p.Cancellation
	}
	if p.DeliveredAt != nil {
		ord.ActualDeliveryTime = p.DeliveredAt
	}
	if p.ClearOTP {
		ord.OTP = nil
	}
	ord.UpdatedAt = p.Timeline.Timestamp
}

func authorizeTransition(ord models.Order, to models.OrderStatus, actor models.Actor) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleRestaurantOwner:
		if actor.RestaurantID == ord.RestaurantID {
			return nil
		}
	case models.RoleDeliveryPartner:
		if ord.DeliveryPartnerID != "" && actor.ID == ord.DeliveryPartnerID {
			return nil
		}
	case models.RoleCustomer:
		if actor.ID != ord.CustomerID {
			break
		}
		if to != models.StatusCancelled {
			return fmt.Errorf("%w: customers may only cancel orders", ErrForbidden)
		}
		if !customerCancellable[ord.OrderStatus] {
			return fmt.Errorf("%w: order can no longer be cancelled", ErrConflict)
		}
		return nil
	}
	return fmt.Errorf("%w: not allowed to update this order", ErrForbidden)
}

// PlanTransition validates authorization first, then the transition table,
// and returns the mutations to apply. No writes happen here.
func PlanTransition(ord models.Order, to models.OrderStatus, actor models.Actor, reason models.CancellationReason, detail string, now time.Time) (TransitionPlan, error) {
	if err := authorizeTransition(ord, to, actor); err != nil {
		return TransitionPlan{}, err
	}
	if !canTransition(ord.OrderStatus, to) {
		return TransitionPlan{}, fmt.Errorf("%w: invalid transition from %s to %s", ErrConflict, ord.OrderStatus, to)
	}

	plan := TransitionPlan{
		From: ord.OrderStatus,
		To:   to,
		Timeline: models.TimelineEntry{
			Status:      timelineStatus(to),
			Timestamp:   now,
			Description: fmt.Sprintf("Status changed to %s", to),
		},
	}

	switch to {
	case models.StatusCancelled:
		if reason == "" {
			reason = defaultCancellationReason(actor.Role)
		}
		if !reason.Valid() {
			return TransitionPlan{}, fmt.Errorf("%w: unknown cancellation reason %q", ErrValidation, reason)
		}
		plan.Cancellation = &models.CancellationDetails{
			Reason:       reason,
			Detail:       detail,
			CancelledBy:  actor.Role,
			RefundAmount: ord.Pricing.Total,
			RefundStatus: "pending",
			CancelledAt:  now,
		}
	case models.StatusDelivered:
		ts := now
		plan.DeliveredAt = &ts
		plan.ClearOTP = true
	}
	return plan, nil
}

func defaultCancellationReason(role models.Role) models.CancellationReason {
	switch role {
	case models.RoleCustomer:
		return models.ReasonCustomerRequest
	case models.RoleRestaurantOwner:
		return models.ReasonRestaurantUnavail
	default:
		return models.ReasonOther
	}
}
