package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fooddash/internal/models"
)

var allStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusPreparing,
	models.StatusReadyForPickup,
	models.StatusOutForDelivery,
	models.StatusDelivered,
	models.StatusCancelled,
	models.StatusRefunded,
}

func Test_TransitionTable_Exhaustive(t *testing.T) {
	allowed := map[models.OrderStatus]map[models.OrderStatus]bool{
		models.StatusPending:        {models.StatusConfirmed: true, models.StatusCancelled: true},
		models.StatusConfirmed:      {models.StatusPreparing: true, models.StatusCancelled: true},
		models.StatusPreparing:      {models.StatusReadyForPickup: true, models.StatusCancelled: true},
		models.StatusReadyForPickup: {models.StatusOutForDelivery: true, models.StatusCancelled: true},
		models.StatusOutForDelivery: {models.StatusDelivered: true, models.StatusCancelled: true},
		models.StatusDelivered:      {},
		models.StatusCancelled:      {},
		models.StatusRefunded:       {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			require.Equalf(t, allowed[from][to], canTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func Test_PlanTransition_Authorization(t *testing.T) {
	cases := []struct {
		name    string
		status  models.OrderStatus
		partner string
		actor   models.Actor
		to      models.OrderStatus
		wantErr error
	}{
		{
			name:   "admin may drive any legal move",
			status: models.StatusPending,
			actor:  models.Actor{ID: "root", Role: models.RoleAdmin},
			to:     models.StatusConfirmed,
		},
		{
			name:   "owner of the restaurant",
			status: models.StatusConfirmed,
			actor:  models.Actor{ID: "own-1", Role: models.RoleRestaurantOwner, RestaurantID: "rest-1"},
			to:     models.StatusPreparing,
		},
		{
			name:    "owner of another restaurant",
			status:  models.StatusConfirmed,
			actor:   models.Actor{ID: "own-2", Role: models.RoleRestaurantOwner, RestaurantID: "rest-9"},
			to:      models.StatusPreparing,
			wantErr: ErrForbidden,
		},
		{
			name:    "assigned partner",
			status:  models.StatusReadyForPickup,
			partner: "part-1",
			actor:   models.Actor{ID: "part-1", Role: models.RoleDeliveryPartner},
			to:      models.StatusOutForDelivery,
		},
		{
			name:    "unassigned partner",
			status:  models.StatusReadyForPickup,
			actor:   models.Actor{ID: "part-1", Role: models.RoleDeliveryPartner},
			to:      models.StatusOutForDelivery,
			wantErr: ErrForbidden,
		},
		{
			name:    "some other partner",
			status:  models.StatusReadyForPickup,
			partner: "part-1",
			actor:   models.Actor{ID: "part-2", Role: models.RoleDeliveryPartner},
			to:      models.StatusOutForDelivery,
			wantErr: ErrForbidden,
		},
		{
			name:   "customer cancels pending order",
			status: models.StatusPending,
			actor:  customer,
			to:     models.StatusCancelled,
		},
		{
			name:   "customer cancels while preparing",
			status: models.StatusPreparing,
			actor:  customer,
			to:     models.StatusCancelled,
		},
		{
			name:    "customer cannot cancel once out for delivery",
			status:  models.StatusOutForDelivery,
			actor:   customer,
			to:      models.StatusCancelled,
			wantErr: ErrConflict,
		},
		{
			name:    "customer cannot confirm",
			status:  models.StatusPending,
			actor:   customer,
			to:      models.StatusConfirmed,
			wantErr: ErrForbidden,
		},
		{
			name:    "stranger customer",
			status:  models.StatusPending,
			actor:   models.Actor{ID: "cust-9", Role: models.RoleCustomer},
			to:      models.StatusCancelled,
			wantErr: ErrForbidden,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ord := testOrder(tc.status)
			ord.DeliveryPartnerID = tc.partner

			_, err := PlanTransition(ord, tc.to, tc.actor, "", "", testNow)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func Test_PlanTransition_IllegalMove(t *testing.T) {
	ord := testOrder(models.StatusPending)
	admin := models.Actor{ID: "root", Role: models.RoleAdmin}

	_, err := PlanTransition(ord, models.StatusDelivered, admin, "", "", testNow)
	require.ErrorIs(t, err, ErrConflict)

	_, err = PlanTransition(testOrder(models.StatusDelivered), models.StatusPending, admin, "", "", testNow)
	require.ErrorIs(t, err, ErrConflict)
}

func Test_PlanTransition_CancellationDetails(t *testing.T) {
	ord := testOrder(models.StatusPending)

	plan, err := PlanTransition(ord, models.StatusCancelled, customer, "", "changed my mind", testNow)
	require.NoError(t, err)
	require.NotNil(t, plan.Cancellation)
	require.Equal(t, models.ReasonCustomerRequest, plan.Cancellation.Reason)
	require.Equal(t, "changed my mind", plan.Cancellation.Detail)
	require.Equal(t, models.RoleCustomer, plan.Cancellation.CancelledBy)
	require.Equal(t, ord.Pricing.Total, plan.Cancellation.RefundAmount)
	require.Equal(t, "pending", plan.Cancellation.RefundStatus)
	require.Equal(t, testNow, plan.Cancellation.CancelledAt)

	owner := models.Actor{ID: "own-1", Role: models.RoleRestaurantOwner, RestaurantID: "rest-1"}
	plan, err = PlanTransition(ord, models.StatusCancelled, owner, "", "", testNow)
	require.NoError(t, err)
	require.Equal(t, models.ReasonRestaurantUnavail, plan.Cancellation.Reason)

	_, err = PlanTransition(ord, models.StatusCancelled, customer, "vibes", "", testNow)
	require.ErrorIs(t, err, ErrValidation)
}

func Test_PlanTransition_DeliveredApply(t *testing.T) {
	ord := testOrder(models.StatusOutForDelivery)
	ord.DeliveryPartnerID = "part-1"
	actor := models.Actor{ID: "part-1", Role: models.RoleDeliveryPartner}

	plan, err := PlanTransition(ord, models.StatusDelivered, actor, "", "", testNow)
	require.NoError(t, err)
	require.True(t, plan.ClearOTP)
	require.NotNil(t, plan.DeliveredAt)
	require.Equal(t, testNow, *plan.DeliveredAt)

	plan.Apply(&ord)
	require.Equal(t, models.StatusDelivered, ord.OrderStatus)
	require.Nil(t, ord.OTP)
	require.NotNil(t, ord.ActualDeliveryTime)
	require.Equal(t, testNow, *ord.ActualDeliveryTime)
	require.Equal(t, testNow, ord.UpdatedAt)
	require.Equal(t, "delivered", ord.Timeline[len(ord.Timeline)-1].Status)
}

func Test_TimelineStatusVocabulary(t *testing.T) {
	want := map[models.OrderStatus]string{
		models.StatusPending:        "order_placed",
		models.StatusConfirmed:      "order_confirmed",
		models.StatusPreparing:      "preparing",
		models.StatusReadyForPickup: "ready_for_pickup",
		models.StatusOutForDelivery: "out_for_delivery",
		models.StatusDelivered:      "delivered",
		models.StatusCancelled:      "cancelled",
	}
	for s, label := range want {
		require.Equal(t, label, timelineStatus(s))
	}

	// anything outside the vocabulary passes through verbatim
	require.Equal(t, "refund_pending", timelineStatus(models.OrderStatus("refund_pending")))
}
