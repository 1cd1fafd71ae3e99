package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bajabeat/descargas/internal/application/billing/usecases"
	"github.com/bajabeat/descargas/internal/shared/logger"
	"github.com/bajabeat/descargas/internal/shared/utils"
)

// QuotaHandler serves the account page's view of the FTP quota rows.
type QuotaHandler struct {
	snapshotUC getQuotaSnapshotUseCase
	logger     logger.Interface
}

func NewQuotaHandler(snapshotUC getQuotaSnapshotUseCase) *QuotaHandler {
	return &QuotaHandler{
		snapshotUC: snapshotUC,
		logger:     logger.NewLogger(),
	}
}

// GetSnapshot returns the base and add-on quota rows for a user.
func (h *QuotaHandler) GetSnapshot(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	snapshot, err := h.snapshotUC.Execute(c.Request.Context(), usecases.GetQuotaSnapshotQuery{
		UserID: uint(userID),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", snapshot)
}
