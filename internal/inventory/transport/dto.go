// Package transport defines request DTOs for the inventory admin surface.
package transport

// CreateItemRequest adds a catalog item.
type CreateItemRequest struct {
	Name       string  `json:"name" validate:"required"`
	DailyPrice float64 `json:"daily_price" validate:"gte=0"`
	Qty        int     `json:"qty" validate:"gte=0"`
}

// UpdateItemRequest patches a catalog item. Nil fields are left unchanged.
type UpdateItemRequest struct {
	Name       *string  `json:"name"`
	DailyPrice *float64 `json:"daily_price" validate:"omitempty,gte=0"`
	Qty        *int     `json:"qty" validate:"omitempty,gte=0"`
}
