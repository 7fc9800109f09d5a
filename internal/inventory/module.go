// Package inventory provides the admin catalog management module.
package inventory

import (
	apphttp "rentalvoice_backend/internal/http"
	"rentalvoice_backend/internal/inventory/handler"
	"rentalvoice_backend/platform/validator"
)

// Module represents the inventory admin module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the inventory module.
func NewModule(val *validator.Validator) *Module {
	return &Module{handler: handler.New(val)}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "inventory"
}

// RegisterRoutes registers the module's routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
