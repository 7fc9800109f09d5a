// Package booking provides the availability, quoting and ordering module.
package booking

import (
	"rentalvoice_backend/internal/booking/handler"
	apphttp "rentalvoice_backend/internal/http"
	"rentalvoice_backend/internal/tools"
)

// Module represents the booking domain module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the booking module.
func NewModule(dispatcher *tools.Dispatcher) *Module {
	return &Module{handler: handler.New(dispatcher)}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "booking"
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
