// Package orders is the append-only store of created leads and booked orders.
// Records are immutable after creation; there are no update or delete
// operations.
package orders

import (
	"sync"

	"github.com/google/uuid"
)

// Lead is a qualified caller captured once per conversation.
type Lead struct {
	LeadID  uuid.UUID `json:"lead_id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Email   string    `json:"email,omitempty"`
	QuoteID string    `json:"quote_id,omitempty"`
}

// Order is a booking confirmation referencing an externally supplied quote id.
type Order struct {
	OrderID uuid.UUID `json:"order_id"`
	QuoteID string    `json:"quote_id"`
}

// Repository stores leads and orders in memory, each under a fresh unique id.
type Repository struct {
	mu     sync.RWMutex
	leads  map[uuid.UUID]Lead
	orders map[uuid.UUID]Order
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		leads:  make(map[uuid.UUID]Lead),
		orders: make(map[uuid.UUID]Order),
	}
}

// CreateLead stores a new lead and returns it with its fresh id.
func (r *Repository) CreateLead(name, phone, email, quoteID string) Lead {
	lead := Lead{LeadID: uuid.New(), Name: name, Phone: phone, Email: email, QuoteID: quoteID}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.LeadID] = lead
	return lead
}

// CreateOrder stores a new order and returns it with its fresh id.
func (r *Repository) CreateOrder(quoteID string) Order {
	order := Order{OrderID: uuid.New(), QuoteID: quoteID}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.OrderID] = order
	return order
}

// Lead looks up a stored lead.
func (r *Repository) Lead(id uuid.UUID) (Lead, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.leads[id]
	return lead, ok
}

// Order looks up a stored order.
func (r *Repository) Order(id uuid.UUID) (Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	return order, ok
}

// CountLeads returns the number of stored leads.
func (r *Repository) CountLeads() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}

// CountOrders returns the number of stored orders.
func (r *Repository) CountOrders() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
