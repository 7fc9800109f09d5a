package tenancy

import (
	"github.com/gin-gonic/gin"

	"rentalvoice_backend/internal/http/response"
	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/platform/config"
)

const (
	// ContextTenantKey is the gin context key for the resolved tenant slug.
	ContextTenantKey = "tenant"
	// ContextEngineKey is the gin context key for the tenant's pricing engine.
	ContextEngineKey = "engine"

	didHeader       = "X-Caller-DID"
	twilioDIDHeader = "X-Twilio-Called"
)

// Middleware resolves the tenant for every request on the group and injects
// the tenant slug and its engine into the request context.
func Middleware(registry *Registry, cfg config.TenancyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		did := ""
		if cfg.GetTenantFromDID() {
			did = c.GetHeader(didHeader)
			if did == "" {
				did = c.GetHeader(twilioDIDHeader)
			}
		}

		tenant, err := registry.Resolve(c.GetHeader(cfg.GetTenantHeader()), did)
		if err != nil {
			response.AppError(c, err)
			c.Abort()
			return
		}

		eng, err := registry.Engine(tenant)
		if err != nil {
			response.AppError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextTenantKey, tenant)
		c.Set(ContextEngineKey, eng)
		c.Next()
	}
}

// EngineFrom extracts the tenant engine placed in the context by Middleware.
func EngineFrom(c *gin.Context) (*pricing.Engine, string) {
	eng := c.MustGet(ContextEngineKey).(*pricing.Engine)
	tenant := c.GetString(ContextTenantKey)
	return eng, tenant
}
