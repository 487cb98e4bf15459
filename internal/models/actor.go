package models

type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleDeliveryPartner Role = "delivery_partner"
	RoleAdmin           Role = "admin"
)

// Actor identifies the authenticated caller; identity itself comes from the
// auth collaborator, decoded at the HTTP boundary.
type Actor struct {
	ID           string `json:"id"`
	Role         Role   `json:"role"`
	RestaurantID string `json:"restaurant_id,omitempty"`
}
