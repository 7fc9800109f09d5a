// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"rentalvoice_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Dialog Domain Events
// =============================================================================

// CallCompleted is published when all required slots for a call are filled.
type CallCompleted struct {
	BaseEvent
	Tenant       string            `json:"tenant"`
	CallID       string            `json:"callId"`
	CallerNumber string            `json:"callerNumber"`
	Slots        map[string]string `json:"slots"`
}

func (e CallCompleted) EventName() string { return "dialog.call.completed" }

// ReasoningFailed is published when the reasoning oracle errors on a turn.
// Subscribers send the best-effort fallback notification so no lead is lost.
type ReasoningFailed struct {
	BaseEvent
	Tenant       string            `json:"tenant"`
	CallID       string            `json:"callId"`
	CallerNumber string            `json:"callerNumber"`
	Slots        map[string]string `json:"slots"`
	Reason       string            `json:"reason"`
}

func (e ReasoningFailed) EventName() string { return "dialog.reasoning.failed" }

// =============================================================================
// Order Domain Events
// =============================================================================

// LeadCreated is published when a new lead is stored.
type LeadCreated struct {
	BaseEvent
	Tenant  string    `json:"tenant"`
	LeadID  uuid.UUID `json:"leadId"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Email   string    `json:"email,omitempty"`
	QuoteID string    `json:"quoteId,omitempty"`
}

func (e LeadCreated) EventName() string { return "orders.lead.created" }

// OrderBooked is published when a booking confirmation creates an order.
type OrderBooked struct {
	BaseEvent
	Tenant  string    `json:"tenant"`
	OrderID uuid.UUID `json:"orderId"`
	QuoteID string    `json:"quoteId"`
}

func (e OrderBooked) EventName() string { return "orders.order.booked" }
