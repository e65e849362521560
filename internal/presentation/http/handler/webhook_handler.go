package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/application/service"
	"github.com/kiramedia/checkout-api/internal/infrastructure/gateway"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/response"
)

// WebhookHandler receives asynchronous payment notifications from the gateway
type WebhookHandler struct {
	notificationService *service.NotificationService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(notificationService *service.NotificationService) *WebhookHandler {
	return &WebhookHandler{notificationService: notificationService}
}

// Notify ingests one gateway notification. The gateway retries anything that
// is not a 2xx, so persistence failures are surfaced as 500 on purpose.
func (h *WebhookHandler) Notify(c *gin.Context) {
	var payload gateway.TransactionStatus
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid notification body")
		return
	}

	result, err := h.notificationService.ProcessNotification(c.Request.Context(), &payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification processed", result)
}
