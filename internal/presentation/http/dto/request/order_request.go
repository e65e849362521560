package request

// UpdateOrderStatusRequest moves an order to a new fulfilment status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
