package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bajabeat/descargas/internal/application/billing/usecases"
	"github.com/bajabeat/descargas/internal/shared/logger"
	"github.com/bajabeat/descargas/internal/shared/utils"
)

// WebhookHandler receives normalized payment confirmations. Provider
// signature verification happens upstream; whatever arrives here is
// trusted and only has to be applied exactly once.
type WebhookHandler struct {
	fulfillOrderUC fulfillOrderUseCase
	logger         logger.Interface
}

func NewWebhookHandler(fulfillOrderUC fulfillOrderUseCase) *WebhookHandler {
	return &WebhookHandler{
		fulfillOrderUC: fulfillOrderUC,
		logger:         logger.NewLogger(),
	}
}

type PaymentConfirmationRequest struct {
	OrderID       uint   `json:"order_id" binding:"required"`
	ProviderTxnID string `json:"provider_txn_id" binding:"required"`
}

type PaymentConfirmationResponse struct {
	OrderID     uint `json:"order_id"`
	AlreadyPaid bool `json:"already_paid"`
}

// ConfirmPayment applies a payment confirmation to its order. Replays of
// the same confirmation answer 200 so the provider stops redelivering.
func (h *WebhookHandler) ConfirmPayment(c *gin.Context) {
	var req PaymentConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid payment confirmation payload", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.fulfillOrderUC.Execute(c.Request.Context(), usecases.FulfillOrderCommand{
		OrderID:       req.OrderID,
		ProviderTxnID: req.ProviderTxnID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment confirmation processed", PaymentConfirmationResponse{
		OrderID:     req.OrderID,
		AlreadyPaid: result.AlreadyPaid,
	})
}
