package cache

import (
	"fooddash/internal/models"
)

// OrderCacheRepo is a read-through cache over the orders collection; entries
// are dropped on every write so stale statuses are never served.
type OrderCacheRepo struct {
	cch KV
}

func NewOrderCache(cch KV) *OrderCacheRepo {
	return &OrderCacheRepo{cch: cch}
}

func (o *OrderCacheRepo) PutOrder(id string, ord models.Order) {
	o.cch.Put(id, ord)
}

func (o *OrderCacheRepo) GetOrder(id string) (models.Order, bool) {
	v, ok := o.cch.Get(id)
	if !ok {
		return models.Order{}, false
	}
	ord, ok := v.(models.Order)
	if !ok {
		return models.Order{}, false
	}
	return ord, true
}

func (o *OrderCacheRepo) DeleteOrder(id string) {
	o.cch.Delete(id)
}
