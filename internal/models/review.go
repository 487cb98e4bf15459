package models

import "time"

type Ratings struct {
	Food     int     `json:"food" bson:"food" validate:"gte=1,lte=5"`
	Delivery int     `json:"delivery" bson:"delivery" validate:"gte=1,lte=5"`
	Service  int     `json:"service" bson:"service" validate:"gte=1,lte=5"`
	Overall  float64 `json:"overall" bson:"overall"`
}

type ItemRating struct {
	MenuItemID string `json:"menu_item_id" bson:"menuItemId" validate:"required"`
	Rating     int    `json:"rating" bson:"rating" validate:"gte=1,lte=5"`
}

// Review is the source of truth for every aggregate rating; at most one
// review exists per order.
type Review struct {
	ID                string       `json:"id" bson:"_id,omitempty"`
	OrderID           string       `json:"order_id" bson:"orderId" validate:"required"`
	CustomerID        string       `json:"customer_id" bson:"customerId" validate:"required"`
	RestaurantID      string       `json:"restaurant_id" bson:"restaurantId" validate:"required"`
	DeliveryPartnerID string       `json:"delivery_partner_id,omitempty" bson:"deliveryPartnerId,omitempty"`
	Ratings           Ratings      `json:"ratings" bson:"ratings"`
	ItemRatings       []ItemRating `json:"item_ratings,omitempty" bson:"itemRatings,omitempty" validate:"dive"`
	Comment           string       `json:"comment,omitempty" bson:"comment,omitempty" validate:"max=1000"`
	IsHidden          bool         `json:"is_hidden" bson:"isHidden"`
	CreatedAt         time.Time    `json:"created_at" bson:"createdAt"`
}
