package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalvoice_backend/internal/http/response"
	"rentalvoice_backend/internal/inventory/transport"
	"rentalvoice_backend/internal/tenancy"
	"rentalvoice_backend/platform/apperr"
	"rentalvoice_backend/platform/validator"
)

const msgInvalidRequest = "invalid request"

// Handler handles admin catalog CRUD. Every mutation is flushed to the
// tenant's settings file before the response, so the catalog survives
// restarts.
type Handler struct {
	val *validator.Validator
}

// New creates a new inventory handler.
func New(val *validator.Validator) *Handler {
	return &Handler{val: val}
}

// RegisterRoutes registers the inventory admin routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inventory", h.List)
	rg.POST("/inventory", h.Create)
	rg.PUT("/inventory/:id", h.Update)
	rg.DELETE("/inventory/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	eng, _ := tenancy.EngineFrom(c)
	response.OK(c, gin.H{"items": eng.ListItems()})
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	eng, _ := tenancy.EngineFrom(c)
	item := eng.AddItem(req.Name, req.DailyPrice, req.Qty)
	if err := eng.Save(); err != nil {
		response.AppError(c, apperr.Wrap(apperr.KindInternal, "persist catalog", err))
		return
	}
	response.JSON(c, http.StatusCreated, item)
}

func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	eng, _ := tenancy.EngineFrom(c)
	item, err := eng.UpdateItem(c.Param("id"), req.Name, req.DailyPrice, req.Qty)
	if err != nil {
		response.AppError(c, err)
		return
	}
	if err := eng.Save(); err != nil {
		response.AppError(c, apperr.Wrap(apperr.KindInternal, "persist catalog", err))
		return
	}
	response.OK(c, item)
}

func (h *Handler) Delete(c *gin.Context) {
	eng, _ := tenancy.EngineFrom(c)
	if err := eng.DeleteItem(c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}
	if err := eng.Save(); err != nil {
		response.AppError(c, apperr.Wrap(apperr.KindInternal, "persist catalog", err))
		return
	}
	c.Status(http.StatusNoContent)
}
