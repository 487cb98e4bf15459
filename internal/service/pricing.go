package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"fooddash/internal/models"
	"fooddash/internal/repository"

	"github.com/go-playground/validator/v10"
)

type CustomizationChoice struct {
	Name   string `json:"name" validate:"required"`
	Option string `json:"option" validate:"required"`
}

type CartLine struct {
	MenuItemID          string                `json:"menu_item_id" validate:"required"`
	Quantity            int                   `json:"quantity" validate:"gte=1"`
	Variant             string                `json:"variant,omitempty"`
	AddOns              []string              `json:"add_ons,omitempty"`
	Customizations      []CustomizationChoice `json:"customizations,omitempty" validate:"dive"`
	SpecialInstructions string                `json:"special_instructions,omitempty" validate:"max=200"`
}

type CreateOrderInput struct {
	RestaurantID        string               `json:"restaurant" validate:"required"`
	DeliveryAddressID   string               `json:"delivery_address" validate:"required"`
	PaymentMethod       models.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card upi wallet netbanking"`
	Items               []CartLine           `json:"items" validate:"required,min=1,dive"`
	SpecialInstructions string               `json:"special_instructions,omitempty" validate:"max=200"`
}

func humanizeValidationErrors(errs validator.ValidationErrors) string {
	var b strings.Builder
	for _, fe := range errs {
		if fe.Param() != "" {
			fmt.Fprintf(&b, "%s: %s=%s; ", fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			fmt.Fprintf(&b, "%s: %s; ", fe.Namespace(), fe.Tag())
		}
	}
	s := b.String()
	if len(s) > 2 {
		s = s[:len(s)-2]
	}
	return s
}

func (s *Service) validateStruct(v any) error {
	if err := s.v.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrValidation, humanizeValidationErrors(verrs))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round1(x float64) float64 { return math.Round(x*10) / 10 }

// priceOrder turns a cart into a fully priced, unsaved order draft. Every
// precondition is checked here, before any write happens.
func (s *Service) priceOrder(ctx context.Context, customerID string, in CreateOrderInput) (models.Order, error) {
	if err := s.validateStruct(in); err != nil {
		return models.Order{}, err
	}

	restaurant, err := s.catalog.Restaurant(ctx, in.RestaurantID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, fmt.Errorf("%w: restaurant not found", ErrValidation)
	}
	if err != nil {
		return models.Order{}, err
	}
	if !restaurant.IsActive {
		return models.Order{}, fmt.Errorf("%w: restaurant is not accepting orders", ErrConflict)
	}

	address, err := s.catalog.Address(ctx, in.DeliveryAddressID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, fmt.Errorf("%w: invalid delivery address", ErrValidation)
	}
	if err != nil {
		return models.Order{}, err
	}
	if address.UserID != customerID {
		return models.Order{}, fmt.Errorf("%w: invalid delivery address", ErrValidation)
	}

	ids := make([]string, 0, len(in.Items))
	seen := make(map[string]struct{}, len(in.Items))
	for _, line := range in.Items {
		if _, ok := seen[line.MenuItemID]; !ok {
			seen[line.MenuItemID] = struct{}{}
			ids = append(ids, line.MenuItemID)
		}
	}
	menuItems, err := s.catalog.MenuItems(ctx, ids)
	if err != nil {
		return models.Order{}, err
	}
	byID := make(map[string]models.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		item, err := priceLine(byID, line)
		if err != nil {
			return models.Order{}, err
		}
		subtotal += item.ItemTotal
		orderItems = append(orderItems, item)
	}
	subtotal = round2(subtotal)

	if subtotal < restaurant.MinimumOrder {
		return models.Order{}, fmt.Errorf("%w: order total %.2f is below the minimum order value %.2f",
			ErrConflict, subtotal, restaurant.MinimumOrder)
	}

	gstHalf := s.pricing.GSTPercent / 2
	pricing := models.Pricing{
		Subtotal:     subtotal,
		DeliveryFee:  restaurant.DeliveryFee,
		PlatformFee:  math.Round(subtotal * s.pricing.PlatformFeePercent / 100),
		PackagingFee: s.pricing.PackagingFee,
		Tax: models.Tax{
			CGST: round2(subtotal * gstHalf / 100),
			SGST: round2(subtotal * gstHalf / 100),
			IGST: 0,
		},
	}
	pricing.Total = round2(pricing.Subtotal + pricing.DeliveryFee + pricing.PlatformFee +
		pricing.PackagingFee + pricing.Tax.CGST + pricing.Tax.SGST + pricing.Tax.IGST - pricing.Discount)

	now := s.now().UTC()
	eta := time.Duration(float64(restaurant.DeliveryTime.Min+restaurant.DeliveryTime.Max) / 2 * float64(time.Minute))

	ord := models.Order{
		OrderNumber:           nextOrderNumber(now),
		CustomerID:            customerID,
		RestaurantID:          restaurant.ID,
		DeliveryAddressID:     address.ID,
		Items:                 orderItems,
		Pricing:               pricing,
		OrderStatus:           models.StatusPending,
		PaymentStatus:         models.PaymentPending,
		PaymentMethod:         in.PaymentMethod,
		SpecialInstructions:   in.SpecialInstructions,
		EstimatedDeliveryTime: now.Add(eta),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	ord.Timeline = []models.TimelineEntry{{
		Status:      timelineStatus(models.StatusPending),
		Timestamp:   now,
		Description: "Order placed",
	}}
	return ord, nil
}

// priceLine resolves catalog snapshots for one cart line. Customization
// modifiers may be negative; the order-level subtotal check still applies.
func priceLine(byID map[string]models.MenuItem, line CartLine) (models.OrderItem, error) {
	mi, ok := byID[line.MenuItemID]
	if !ok {
		return models.OrderItem{}, fmt.Errorf("%w: menu item %s not found", ErrValidation, line.MenuItemID)
	}
	if !mi.IsAvailable {
		return models.OrderItem{}, fmt.Errorf("%w: %s is currently unavailable", ErrValidation, mi.Name)
	}

	item := models.OrderItem{
		MenuItemID:          mi.ID,
		Name:                mi.Name,
		Quantity:            line.Quantity,
		SpecialInstructions: line.SpecialInstructions,
	}

	unitPrice := mi.Price
	if mi.DiscountedPrice != nil {
		unitPrice = *mi.DiscountedPrice
	}
	if line.Variant != "" {
		variant, ok := findVariant(mi.Variants, line.Variant)
		if !ok {
			return models.OrderItem{}, fmt.Errorf("%w: variant %q not available for %s", ErrValidation, line.Variant, mi.Name)
		}
		unitPrice = variant.Price
		if variant.DiscountedPrice != nil {
			unitPrice = *variant.DiscountedPrice
		}
		item.Variant = &models.VariantSnapshot{Name: variant.Name, Price: unitPrice}
	}
	item.UnitPrice = unitPrice

	qty := float64(line.Quantity)
	total := unitPrice * qty

	for _, name := range line.AddOns {
		addOn, ok := findAddOn(mi.AddOns, name)
		if !ok || !addOn.IsAvailable {
			return models.OrderItem{}, fmt.Errorf("%w: add-on %q not available for %s", ErrValidation, name, mi.Name)
		}
		item.AddOns = append(item.AddOns, models.AddOnSnapshot{Name: addOn.Name, Price: addOn.Price})
		total += addOn.Price * qty
	}

	for _, choice := range line.Customizations {
		opt, ok := findCustomization(mi.Customizations, choice)
		if !ok {
			return models.OrderItem{}, fmt.Errorf("%w: customization %q/%q not available for %s",
				ErrValidation, choice.Name, choice.Option, mi.Name)
		}
		item.Customizations = append(item.Customizations, models.CustomizationSelection{
			Name:          choice.Name,
			Option:        opt.Name,
			PriceModifier: opt.PriceModifier,
		})
		total += opt.PriceModifier * qty
	}

	item.ItemTotal = round2(total)
	return item, nil
}

func findVariant(variants []models.Variant, name string) (models.Variant, bool) {
	for _, v := range variants {
		if v.Name == name {
			return v, true
		}
	}
	return models.Variant{}, false
}

func findAddOn(addOns []models.AddOn, name string) (models.AddOn, bool) {
	for _, a := range addOns {
		if a.Name == name {
			return a, true
		}
	}
	return models.AddOn{}, false
}

func findCustomization(customizations []models.Customization, choice CustomizationChoice) (models.CustomizationOption, bool) {
	for _, c := range customizations {
		if c.Name != choice.Name {
			continue
		}
		for _, opt := range c.Options {
			if opt.Name == choice.Option {
				return opt, true
			}
		}
	}
	return models.CustomizationOption{}, false
}
