package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bajabeat/descargas/internal/application/billing/usecases"
	"github.com/bajabeat/descargas/internal/shared/logger"
	"github.com/bajabeat/descargas/internal/shared/utils"
)

// BillingHandler exposes the customer-initiated billing operations: plan
// changes, cancellations, cash vouchers and add-on purchases.
type BillingHandler struct {
	changePlanUC   changePlanUseCase
	cancelUC       cancelSubscriptionUseCase
	issueVoucherUC issueCashVoucherUseCase
	buyAddonUC     purchaseAddonUseCase
	logger         logger.Interface
}

func NewBillingHandler(
	changePlanUC changePlanUseCase,
	cancelUC cancelSubscriptionUseCase,
	issueVoucherUC issueCashVoucherUseCase,
	buyAddonUC purchaseAddonUseCase,
) *BillingHandler {
	return &BillingHandler{
		changePlanUC:   changePlanUC,
		cancelUC:       cancelUC,
		issueVoucherUC: issueVoucherUC,
		buyAddonUC:     buyAddonUC,
		logger:         logger.NewLogger(),
	}
}

type ChangePlanRequest struct {
	UserID    uint `json:"user_id" binding:"required"`
	NewPlanID uint `json:"new_plan_id" binding:"required"`
}

func (h *BillingHandler) ChangePlan(c *gin.Context) {
	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for plan change", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.changePlanUC.Execute(c.Request.Context(), usecases.ChangePlanCommand{
		UserID:    req.UserID,
		NewPlanID: req.NewPlanID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "plan changed", result)
}

type CancelSubscriptionRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
	Comment string `json:"comment"`
}

func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	var req CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for cancellation", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		UserID:  req.UserID,
		Reason:  req.Reason,
		Comment: req.Comment,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription canceled", result)
}

type IssueVoucherRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	PlanID uint   `json:"plan_id" binding:"required"`
	Method string `json:"method" binding:"required,oneof=OXXO SPEI CASH"`
}

func (h *BillingHandler) IssueVoucher(c *gin.Context) {
	var req IssueVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for voucher", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.issueVoucherUC.Execute(c.Request.Context(), usecases.IssueCashVoucherCommand{
		UserID: req.UserID,
		PlanID: req.PlanID,
		Method: req.Method,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Reused {
		utils.SuccessResponse(c, http.StatusOK, "existing voucher still payable", result)
		return
	}
	utils.CreatedResponse(c, result, "voucher issued")
}

type PurchaseAddonRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	AddonID uint   `json:"addon_id" binding:"required"`
	Method  string `json:"method" binding:"required,oneof=OXXO SPEI CASH"`
}

func (h *BillingHandler) PurchaseAddon(c *gin.Context) {
	var req PurchaseAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for addon purchase", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.buyAddonUC.Execute(c.Request.Context(), usecases.PurchaseAddonCommand{
		UserID:  req.UserID,
		AddonID: req.AddonID,
		Method:  req.Method,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "addon order opened")
}
