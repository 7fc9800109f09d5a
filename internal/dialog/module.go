package dialog

import (
	"rentalvoice_backend/internal/dialog/handler"
	"rentalvoice_backend/internal/dialog/service"
	"rentalvoice_backend/internal/email"
	"rentalvoice_backend/internal/events"
	apphttp "rentalvoice_backend/internal/http"
	"rentalvoice_backend/internal/reason"
	"rentalvoice_backend/internal/session"
	"rentalvoice_backend/internal/speech"
	"rentalvoice_backend/internal/tools"
	"rentalvoice_backend/platform/logger"
	"rentalvoice_backend/platform/validator"
)

// Module represents the dialog domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the dialog module with all dependencies wired.
// speechCache may be nil when synthesis is not configured.
func NewModule(store session.Store, extractor reason.Extractor, oracle reason.Oracle, dispatcher *tools.Dispatcher, sender email.Sender, bus events.Bus, speechCache *speech.Cache, val *validator.Validator, log *logger.Logger, notifyTo string) *Module {
	svc := service.New(store, extractor, oracle, dispatcher, sender, bus, log, notifyTo)
	h := handler.New(svc, speechCache, val)
	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "dialog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
