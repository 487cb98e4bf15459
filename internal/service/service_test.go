package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"fooddash/internal/configs"
	"fooddash/internal/models"
	"fooddash/internal/repository"
)

// testNow is the frozen clock every stubbed service runs on.
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type ordersStub struct {
	byID     map[string]models.Order
	attached map[string]models.OrderRating

	createErr        error
	updateCheckedErr error
	assignErr        error

	countTotal     int
	countCompleted int
	countErr       error

	statsTotal      int
	statsRevenue    float64
	statsByStatus   map[string]int
	statsErr        error
	statsCustomer   string
	statsRestaurant string
	statsFrom       time.Time
	statsTo         time.Time
}

func newOrdersStub(orders ...models.Order) *ordersStub {
	s := &ordersStub{
		byID:     make(map[string]models.Order),
		attached: make(map[string]models.OrderRating),
	}
	for _, o := range orders {
		s.byID[o.ID] = o
	}
	return s
}

func (s *ordersStub) Create(_ context.Context, ord models.Order) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	if ord.ID == "" {
		ord.ID = fmt.Sprintf("ord-%d", len(s.byID)+1)
	}
	s.byID[ord.ID] = ord
	return ord.ID, nil
}

func (s *ordersStub) Get(_ context.Context, id string) (models.Order, error) {
	ord, ok := s.byID[id]
	if !ok {
		return models.Order{}, repository.ErrNotFound
	}
	return ord, nil
}

func (s *ordersStub) Update(_ context.Context, ord models.Order) error {
	s.byID[ord.ID] = ord
	return nil
}

func (s *ordersStub) UpdateChecked(_ context.Context, ord models.Order, expected models.OrderStatus) error {
	if s.updateCheckedErr != nil {
		return s.updateCheckedErr
	}
	cur, ok := s.byID[ord.ID]
	if !ok || cur.OrderStatus != expected {
		return repository.ErrConflict
	}
	s.byID[ord.ID] = ord
	return nil
}

func (s *ordersStub) AssignPartner(_ context.Context, orderID, partnerID string) error {
	if s.assignErr != nil {
		return s.assignErr
	}
	cur, ok := s.byID[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.DeliveryPartnerID != "" {
		return repository.ErrConflict
	}
	cur.DeliveryPartnerID = partnerID
	s.byID[orderID] = cur
	return nil
}

func (s *ordersStub) AttachRating(_ context.Context, orderID string, rating models.OrderRating) error {
	s.attached[orderID] = rating
	return nil
}

func (s *ordersStub) Stats(_ context.Context, customerID, restaurantID string, from, to time.Time) (int, float64, map[string]int, error) {
	s.statsCustomer, s.statsRestaurant = customerID, restaurantID
	s.statsFrom, s.statsTo = from, to
	return s.statsTotal, s.statsRevenue, s.statsByStatus, s.statsErr
}

func (s *ordersStub) CountByPartner(_ context.Context, _ string) (int, int, error) {
	return s.countTotal, s.countCompleted, s.countErr
}

type reviewsStub struct {
	all       []models.Review
	createErr error
	listErr   error
}

func (s *reviewsStub) Create(_ context.Context, rev models.Review) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	for _, r := range s.all {
		if r.OrderID == rev.OrderID {
			return "", repository.ErrDuplicate
		}
	}
	rev.ID = fmt.Sprintf("rev-%d", len(s.all)+1)
	s.all = append(s.all, rev)
	return rev.ID, nil
}

func (s *reviewsStub) GetByOrder(_ context.Context, orderID string) (models.Review, error) {
	for _, r := range s.all {
		if r.OrderID == orderID {
			return r, nil
		}
	}
	return models.Review{}, repository.ErrNotFound
}

func (s *reviewsStub) ListByRestaurant(_ context.Context, restaurantID string) ([]models.Review, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Review
	for _, r := range s.all {
		if r.RestaurantID == restaurantID && !r.IsHidden {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reviewsStub) ListByPartner(_ context.Context, partnerID string) ([]models.Review, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Review
	for _, r := range s.all {
		if r.DeliveryPartnerID == partnerID && !r.IsHidden {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *reviewsStub) ListByMenuItem(_ context.Context, menuItemID string) ([]models.Review, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Review
	for _, r := range s.all {
		if r.IsHidden {
			continue
		}
		for _, ir := range r.ItemRatings {
			if ir.MenuItemID == menuItemID {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (s *reviewsStub) ListAll(_ context.Context) ([]models.Review, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Review
	for _, r := range s.all {
		if !r.IsHidden {
			out = append(out, r)
		}
	}
	return out, nil
}

type catalogStub struct {
	restaurants map[string]models.Restaurant
	menuItems   map[string]models.MenuItem
	addresses   map[string]models.Address
	partners    map[string]models.DeliveryPartner

	claimErr            error
	restaurantRatingErr error

	released          []string
	partnerStats      map[string]models.PartnerStatistics
	restaurantRatings map[string]models.RatingSummary
	partnerRatings    map[string]models.RatingSummary
	menuItemRatings   map[string]models.RatingSummary
}

func (s *catalogStub) Restaurant(_ context.Context, id string) (models.Restaurant, error) {
	r, ok := s.restaurants[id]
	if !ok {
		return models.Restaurant{}, repository.ErrNotFound
	}
	return r, nil
}

func (s *catalogStub) MenuItems(_ context.Context, ids []string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, id := range ids {
		if mi, ok := s.menuItems[id]; ok {
			out = append(out, mi)
		}
	}
	return out, nil
}

func (s *catalogStub) Address(_ context.Context, id string) (models.Address, error) {
	a, ok := s.addresses[id]
	if !ok {
		return models.Address{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *catalogStub) Partner(_ context.Context, id string) (models.DeliveryPartner, error) {
	p, ok := s.partners[id]
	if !ok {
		return models.DeliveryPartner{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *catalogStub) ClaimPartner(_ context.Context, partnerID, orderID string) error {
	if s.claimErr != nil {
		return s.claimErr
	}
	p, ok := s.partners[partnerID]
	if !ok {
		return repository.ErrNotFound
	}
	if !p.IsOnline || p.CurrentOrderID != "" {
		return repository.ErrConflict
	}
	p.CurrentOrderID = orderID
	p.Statistics.TotalOrders++
	s.partners[partnerID] = p
	return nil
}

func (s *catalogStub) ReleasePartner(_ context.Context, partnerID, orderID string) error {
	s.released = append(s.released, partnerID)
	p, ok := s.partners[partnerID]
	if ok && p.CurrentOrderID == orderID {
		p.CurrentOrderID = ""
		s.partners[partnerID] = p
	}
	return nil
}

func (s *catalogStub) UpdatePartnerStats(_ context.Context, partnerID string, stats models.PartnerStatistics) error {
	s.partnerStats[partnerID] = stats
	return nil
}

func (s *catalogStub) UpdateRestaurantRating(_ context.Context, id string, r models.RatingSummary) error {
	if s.restaurantRatingErr != nil {
		return s.restaurantRatingErr
	}
	s.restaurantRatings[id] = r
	return nil
}

func (s *catalogStub) UpdatePartnerRating(_ context.Context, id string, r models.RatingSummary) error {
	s.partnerRatings[id] = r
	return nil
}

func (s *catalogStub) UpdateMenuItemRating(_ context.Context, id string, r models.RatingSummary) error {
	s.menuItemRatings[id] = r
	return nil
}

type cacheStub struct {
	m       map[string]models.Order
	puts    int
	deletes int
}

func newCacheStub() *cacheStub { return &cacheStub{m: make(map[string]models.Order)} }

func (s *cacheStub) PutOrder(id string, ord models.Order) { s.m[id] = ord; s.puts++ }

func (s *cacheStub) GetOrder(id string) (models.Order, bool) {
	ord, ok := s.m[id]
	return ord, ok
}

func (s *cacheStub) DeleteOrder(id string) { delete(s.m, id); s.deletes++ }

type publisherStub struct {
	keys     []string
	payloads [][]byte
	err      error
}

func (p *publisherStub) Publish(_ context.Context, key string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, payload)
	return nil
}

var (
	_ repository.Orders     = (*ordersStub)(nil)
	_ repository.Reviews    = (*reviewsStub)(nil)
	_ repository.Catalog    = (*catalogStub)(nil)
	_ repository.OrderCache = (*cacheStub)(nil)
	_ EventPublisher        = (*publisherStub)(nil)
)

func float64p(v float64) *float64 { return &v }

func testCatalog() *catalogStub {
	return &catalogStub{
		restaurants: map[string]models.Restaurant{
			"rest-1": {
				ID:           "rest-1",
				OwnerID:      "own-1",
				Name:         "Masala Box",
				IsActive:     true,
				MinimumOrder: 100,
				DeliveryFee:  30,
				DeliveryTime: models.DeliveryTime{Min: 20, Max: 40},
			},
			"rest-closed": {
				ID:       "rest-closed",
				OwnerID:  "own-2",
				Name:     "Shut Shack",
				IsActive: false,
			},
		},
		menuItems: map[string]models.MenuItem{
			"item-1": {
				ID:           "item-1",
				RestaurantID: "rest-1",
				Name:         "Paneer Wrap",
				Price:        100,
				IsAvailable:  true,
				Variants: []models.Variant{
					{Name: "Large", Price: 150},
					{Name: "Jumbo", Price: 200, DiscountedPrice: float64p(180)},
				},
				AddOns: []models.AddOn{
					{Name: "Cheese", Price: 20, IsAvailable: true},
					{Name: "Truffle", Price: 50, IsAvailable: false},
				},
				Customizations: []models.Customization{
					{Name: "Spice", Options: []models.CustomizationOption{
						{Name: "Extra Hot", PriceModifier: 5},
						{Name: "No Onion", PriceModifier: -10},
					}},
				},
			},
			"item-2": {
				ID:           "item-2",
				RestaurantID: "rest-1",
				Name:         "Cold Coffee",
				Price:        90,
				IsAvailable:  false,
			},
		},
		addresses: map[string]models.Address{
			"addr-1": {ID: "addr-1", UserID: "cust-1", Line1: "12 MG Road", City: "Pune", Pin: "411001"},
			"addr-2": {ID: "addr-2", UserID: "cust-2", Line1: "4 FC Road", City: "Pune", Pin: "411004"},
		},
		partners: map[string]models.DeliveryPartner{
			"part-1":       {ID: "part-1", Name: "Ravi", IsOnline: true},
			"part-2":       {ID: "part-2", Name: "Meena", IsOnline: true},
			"part-offline": {ID: "part-offline", Name: "Asif", IsOnline: false},
			"part-busy":    {ID: "part-busy", Name: "Lata", IsOnline: true, CurrentOrderID: "ord-elsewhere"},
		},
		partnerStats:      make(map[string]models.PartnerStatistics),
		restaurantRatings: make(map[string]models.RatingSummary),
		partnerRatings:    make(map[string]models.RatingSummary),
		menuItemRatings:   make(map[string]models.RatingSummary),
	}
}

// testOrder is a priced ord-1 for cust-1 at rest-1 in the given status.
func testOrder(status models.OrderStatus) models.Order {
	created := testNow.Add(-time.Hour)
	return models.Order{
		ID:                "ord-1",
		OrderNumber:       "ORD-20250601110000-0001",
		CustomerID:        "cust-1",
		RestaurantID:      "rest-1",
		DeliveryAddressID: "addr-1",
		Items: []models.OrderItem{{
			MenuItemID: "item-1",
			Name:       "Paneer Wrap",
			UnitPrice:  100,
			Quantity:   2,
			ItemTotal:  200,
		}},
		Pricing: models.Pricing{
			Subtotal:     200,
			DeliveryFee:  30,
			PlatformFee:  4,
			PackagingFee: 10,
			Tax:          models.Tax{CGST: 5, SGST: 5},
			Total:        254,
		},
		OrderStatus:   status,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: models.PaymentUPI,
		Timeline: []models.TimelineEntry{{
			Status:      "order_placed",
			Timestamp:   created,
			Description: "Order placed",
		}},
		OTP:                   &models.DeliveryOTP{Code: "4217", ExpiresAt: testNow.Add(20 * time.Minute)},
		EstimatedDeliveryTime: created.Add(30 * time.Minute),
		CreatedAt:             created,
		UpdatedAt:             created,
	}
}

func newTestService(orders *ordersStub, reviews *reviewsStub, catalog *catalogStub) (*Service, *cacheStub, *publisherStub) {
	cch := newCacheStub()
	pub := &publisherStub{}
	svc := &Service{
		orders:  orders,
		reviews: reviews,
		catalog: catalog,
		cache:   cch,
		events:  pub,
		pricing: configs.PricingConfig{
			PlatformFeePercent: 2,
			PackagingFee:       10,
			GSTPercent:         5,
			OTPTTL:             30 * time.Minute,
		},
		v:   validator.New(),
		now: func() time.Time { return testNow },
	}
	return svc, cch, pub
}
