package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalvoice_backend/internal/http/response"
	"rentalvoice_backend/internal/tenancy"
	"rentalvoice_backend/internal/tools"
)

const msgInvalidRequest = "invalid request"

// Handler exposes the pricing and ordering tools as plain HTTP endpoints.
// Bodies are the same argument objects the reasoning oracle emits, so the
// dispatcher normalizes both paths identically.
type Handler struct {
	dispatcher *tools.Dispatcher
}

// New creates a new booking handler.
func New(dispatcher *tools.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// RegisterRoutes registers the booking routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/availability", h.run(tools.ToolCheckAvailability))
	rg.POST("/quote", h.run(tools.ToolQuote))
	rg.POST("/leads", h.run(tools.ToolCreateLead))
	rg.POST("/book", h.run(tools.ToolBook))
}

func (h *Handler) run(tool string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var args map[string]any
		if err := c.ShouldBindJSON(&args); err != nil {
			response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
			return
		}

		eng, tenant := tenancy.EngineFrom(c)
		result, err := h.dispatcher.Run(c.Request.Context(), eng, tenant, tool, args, "")
		if err != nil {
			response.AppError(c, err)
			return
		}
		response.OK(c, result)
	}
}
