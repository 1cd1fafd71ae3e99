package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bajabeat/descargas/internal/application/billing/usecases"
	"github.com/bajabeat/descargas/internal/shared/logger"
	"github.com/bajabeat/descargas/internal/shared/utils"
)

type TrialHandler struct {
	eligibilityUC resolveTrialEligibilityUseCase
	startTrialUC  startTrialUseCase
	logger        logger.Interface
}

func NewTrialHandler(
	eligibilityUC resolveTrialEligibilityUseCase,
	startTrialUC startTrialUseCase,
) *TrialHandler {
	return &TrialHandler{
		eligibilityUC: eligibilityUC,
		startTrialUC:  startTrialUC,
		logger:        logger.NewLogger(),
	}
}

type TrialEligibilityResponse struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// GetEligibility reports whether the user may start a free trial and, if
// not, the first reason that disqualifies them.
func (h *TrialHandler) GetEligibility(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	result, err := h.eligibilityUC.Execute(c.Request.Context(), usecases.ResolveTrialEligibilityCommand{
		UserID: uint(userID),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", TrialEligibilityResponse{
		Eligible: result.Eligible,
		Reason:   string(result.Reason),
	})
}

type StartTrialRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (h *TrialHandler) StartTrial(c *gin.Context) {
	var req StartTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for trial start", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.startTrialUC.Execute(c.Request.Context(), usecases.StartTrialCommand{
		UserID: req.UserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "trial started")
}
