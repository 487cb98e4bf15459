package models

// Catalog documents as the pricing engine reads them. The catalog itself is
// owned elsewhere; orders only take snapshots from it.

type RatingSummary struct {
	Average float64 `json:"average" bson:"average"`
	Count   int     `json:"count" bson:"count"`
}

type DeliveryTime struct {
	Min int `json:"min" bson:"min"`
	Max int `json:"max" bson:"max"`
}

type Restaurant struct {
	ID           string        `json:"id" bson:"_id,omitempty"`
	OwnerID      string        `json:"owner_id" bson:"ownerId"`
	Name         string        `json:"name" bson:"name"`
	IsActive     bool          `json:"is_active" bson:"isActive"`
	MinimumOrder float64       `json:"minimum_order" bson:"minimumOrder"`
	DeliveryFee  float64       `json:"delivery_fee" bson:"deliveryFee"`
	DeliveryTime DeliveryTime  `json:"delivery_time" bson:"deliveryTime"`
	Rating       RatingSummary `json:"rating" bson:"rating"`
}

type Variant struct {
	Name            string   `json:"name" bson:"name"`
	Price           float64  `json:"price" bson:"price"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty" bson:"discountedPrice,omitempty"`
}

type AddOn struct {
	Name        string  `json:"name" bson:"name"`
	Price       float64 `json:"price" bson:"price"`
	IsAvailable bool    `json:"is_available" bson:"isAvailable"`
}

type CustomizationOption struct {
	Name          string  `json:"name" bson:"name"`
	PriceModifier float64 `json:"price_modifier" bson:"priceModifier"`
}

type Customization struct {
	Name    string                `json:"name" bson:"name"`
	Options []CustomizationOption `json:"options" bson:"options"`
}

type MenuItem struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	RestaurantID    string          `json:"restaurant_id" bson:"restaurantId"`
	Name            string          `json:"name" bson:"name"`
	Price           float64         `json:"price" bson:"price"`
	DiscountedPrice *float64        `json:"discounted_price,omitempty" bson:"discountedPrice,omitempty"`
	IsAvailable     bool            `json:"is_available" bson:"isAvailable"`
	Variants        []Variant       `json:"variants,omitempty" bson:"variants,omitempty"`
	AddOns          []AddOn         `json:"add_ons,omitempty" bson:"addOns,omitempty"`
	Customizations  []Customization `json:"customizations,omitempty" bson:"customizations,omitempty"`
	Rating          RatingSummary   `json:"rating" bson:"rating"`
}

type Address struct {
	ID     string `json:"id" bson:"_id,omitempty"`
	UserID string `json:"user_id" bson:"userId"`
	Line1  string `json:"line1" bson:"line1"`
	City   string `json:"city" bson:"city"`
	Pin    string `json:"pin" bson:"pin"`
}

type PartnerStatistics struct {
	TotalOrders     int     `json:"total_orders" bson:"totalOrders"`
	CompletedOrders int     `json:"completed_orders" bson:"completedOrders"`
	CompletionRate  float64 `json:"completion_rate" bson:"completionRate"`
}

type DeliveryPartner struct {
	ID             string            `json:"id" bson:"_id,omitempty"`
	Name           string            `json:"name" bson:"name"`
	IsOnline       bool              `json:"is_online" bson:"isOnline"`
	CurrentOrderID string            `json:"current_order_id,omitempty" bson:"currentOrderId,omitempty"`
	Statistics     PartnerStatistics `json:"statistics" bson:"statistics"`
	Rating         RatingSummary     `json:"rating" bson:"rating"`
}
