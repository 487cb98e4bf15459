package models

import (
	"time"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRefunded       OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentWallet     PaymentMethod = "wallet"
	PaymentNetBanking PaymentMethod = "netbanking"
)

type CancellationReason string

const (
	ReasonCustomerRequest    CancellationReason = "customer_request"
	ReasonRestaurantUnavail  CancellationReason = "restaurant_unavailable"
	ReasonItemUnavailable    CancellationReason = "item_unavailable"
	ReasonPaymentFailed      CancellationReason = "payment_failed"
	ReasonPartnerUnavailable CancellationReason = "delivery_partner_unavailable"
	ReasonWeatherConditions  CancellationReason = "weather_conditions"
	ReasonOther              CancellationReason = "other"
)

func (r CancellationReason) Valid() bool {
	switch r {
	case ReasonCustomerRequest, ReasonRestaurantUnavail, ReasonItemUnavailable,
		ReasonPaymentFailed, ReasonPartnerUnavailable, ReasonWeatherConditions, ReasonOther:
		return true
	}
	return false
}

// VariantSnapshot and AddOnSnapshot are copies of catalog data captured at
// order creation; they are never re-read from the catalog afterwards.
type VariantSnapshot struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

type AddOnSnapshot struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

type CustomizationSelection struct {
	Name          string  `json:"name" bson:"name"`
	Option        string  `json:"option" bson:"option"`
	PriceModifier float64 `json:"price_modifier" bson:"priceModifier"`
}

type OrderItem struct {
	MenuItemID          string                   `json:"menu_item_id" bson:"menuItemId" validate:"required"`
	Name                string                   `json:"name" bson:"name" validate:"required"`
	UnitPrice           float64                  `json:"unit_price" bson:"unitPrice" validate:"gte=0"`
	Quantity            int                      `json:"quantity" bson:"quantity" validate:"gte=1"`
	Variant             *VariantSnapshot         `json:"variant,omitempty" bson:"variant,omitempty"`
	AddOns              []AddOnSnapshot          `json:"add_ons,omitempty" bson:"addOns,omitempty"`
	Customizations      []CustomizationSelection `json:"customizations,omitempty" bson:"customizations,omitempty"`
	SpecialInstructions string                   `json:"special_instructions,omitempty" bson:"specialInstructions,omitempty" validate:"max=200"`
	ItemTotal           float64                  `json:"item_total" bson:"itemTotal"`
}

type Tax struct {
	CGST float64 `json:"cgst" bson:"cgst"`
	SGST float64 `json:"sgst" bson:"sgst"`
	IGST float64 `json:"igst" bson:"igst"`
}

// Pricing is computed once at creation; Total always equals the sum of the
// other components less the discount.
type Pricing struct {
	Subtotal     float64 `json:"subtotal" bson:"subtotal" validate:"gte=0"`
	DeliveryFee  float64 `json:"delivery_fee" bson:"deliveryFee" validate:"gte=0"`
	Tax          Tax     `json:"tax" bson:"tax"`
	Discount     float64 `json:"discount" bson:"discount" validate:"gte=0"`
	PlatformFee  float64 `json:"platform_fee" bson:"platformFee" validate:"gte=0"`
	PackagingFee float64 `json:"packaging_fee" bson:"packagingFee" validate:"gte=0"`
	Total        float64 `json:"total" bson:"total" validate:"gte=0"`
}

type TimelineEntry struct {
	Status      string    `json:"status" bson:"status"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	Description string    `json:"description" bson:"description"`
}

type DeliveryOTP struct {
	Code      string    `json:"code" bson:"code"`
	ExpiresAt time.Time `json:"expires_at" bson:"expiresAt"`
}

type CancellationDetails struct {
	Reason       CancellationReason `json:"reason" bson:"reason"`
	Detail       string             `json:"detail,omitempty" bson:"detail,omitempty"`
	CancelledBy  Role               `json:"cancelled_by" bson:"cancelledBy"`
	RefundAmount float64            `json:"refund_amount" bson:"refundAmount"`
	RefundStatus string             `json:"refund_status" bson:"refundStatus"`
	CancelledAt  time.Time          `json:"cancelled_at" bson:"cancelledAt"`
}

type OrderRating struct {
	ReviewID string  `json:"review_id" bson:"reviewId"`
	Overall  float64 `json:"overall" bson:"overall"`
}

type Order struct {
	ID                    string               `json:"id" bson:"_id,omitempty"`
	OrderNumber           string               `json:"order_number" bson:"orderNumber" validate:"required"`
	CustomerID            string               `json:"customer_id" bson:"customerId" validate:"required"`
	RestaurantID          string               `json:"restaurant_id" bson:"restaurantId" validate:"required"`
	DeliveryPartnerID     string               `json:"delivery_partner_id,omitempty" bson:"deliveryPartnerId,omitempty"`
	DeliveryAddressID     string               `json:"delivery_address_id" bson:"deliveryAddressId" validate:"required"`
	Items                 []OrderItem          `json:"items" bson:"items" validate:"required,min=1,dive"`
	Pricing               Pricing              `json:"pricing" bson:"pricing"`
	OrderStatus           OrderStatus          `json:"order_status" bson:"orderStatus" validate:"required"`
	PaymentStatus         PaymentStatus        `json:"payment_status" bson:"paymentStatus" validate:"required"`
	PaymentMethod         PaymentMethod        `json:"payment_method" bson:"paymentMethod" validate:"required,oneof=cash card upi wallet netbanking"`
	SpecialInstructions   string               `json:"special_instructions,omitempty" bson:"specialInstructions,omitempty" validate:"max=200"`
	Timeline              []TimelineEntry      `json:"timeline" bson:"timeline"`
	OTP                   *DeliveryOTP         `json:"-" bson:"otp,omitempty"`
	CancellationDetails   *CancellationDetails `json:"cancellation_details,omitempty" bson:"cancellationDetails,omitempty"`
	Rating                *OrderRating         `json:"rating,omitempty" bson:"rating,omitempty"`
	EstimatedDeliveryTime time.Time            `json:"estimated_delivery_time" bson:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time           `json:"actual_delivery_time,omitempty" bson:"actualDeliveryTime,omitempty"`
	CreatedAt             time.Time            `json:"created_at" bson:"createdAt"`
	UpdatedAt             time.Time            `json:"updated_at" bson:"updatedAt"`
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}
