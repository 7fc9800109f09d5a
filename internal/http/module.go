// Package http provides HTTP server infrastructure including the Module
// interface that all domain modules implement for route registration.
package http

import (
	"github.com/gin-gonic/gin"

	"rentalvoice_backend/platform/config"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
// This avoids passing many parameters to each module's RegisterRoutes method.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the /v1 route group with tenant resolution applied.
	V1 *gin.RouterGroup
	// Admin is the admin-only route group under /admin. Requests carry a
	// valid admin key and a resolved tenant before any handler runs.
	Admin *gin.RouterGroup
	// Config exposes tenancy settings to modules that resolve tenants
	// outside the shared middleware.
	Config config.TenancyConfig
}
