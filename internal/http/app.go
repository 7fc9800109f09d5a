package http

import (
	"rentalvoice_backend/internal/events"
	"rentalvoice_backend/internal/tenancy"
	"rentalvoice_backend/platform/config"
	"rentalvoice_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.TenancyConfig
	config.AdminConfig
	config.RateLimitConfig
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Registry resolves tenants and owns their pricing engines.
	Registry *tenancy.Registry
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
