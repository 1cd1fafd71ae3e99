package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bajabeat/descargas/internal/application/billing/dto"
	"github.com/bajabeat/descargas/internal/application/billing/usecases"
	"github.com/bajabeat/descargas/internal/interfaces/http/handlers/testutil"
	"github.com/bajabeat/descargas/internal/shared/errors"
)

type mockGetQuotaSnapshotUC struct {
	result    *dto.QuotaSnapshot
	err       error
	lastQuery usecases.GetQuotaSnapshotQuery
}

func (m *mockGetQuotaSnapshotUC) Execute(ctx context.Context, query usecases.GetQuotaSnapshotQuery) (*dto.QuotaSnapshot, error) {
	m.lastQuery = query
	return m.result, m.err
}

func TestQuotaHandler_GetSnapshot_Success(t *testing.T) {
	periodEnd := time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC)
	mockUC := &mockGetQuotaSnapshotUC{result: &dto.QuotaSnapshot{
		UserID:    10,
		PlanID:    1,
		PlanName:  "Plan 50GB",
		PeriodEnd: &periodEnd,
		Base: &dto.AccountQuota{
			Account:        "maria",
			BytesAvailable: 50 << 30,
			BytesUsed:      12 << 30,
			BytesRemaining: 38 << 30,
		},
		GeneratedAt: time.Now().UTC(),
	}}
	handler := NewQuotaHandler(mockUC)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/quota/snapshot", nil)
	testutil.SetQueryParams(c, map[string]string{"user_id": "10"})
	handler.GetSnapshot(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(10), mockUC.lastQuery.UserID)

	var body dto.QuotaSnapshot
	require.NoError(t, testutil.ParseResponse(w, &struct {
		Data *dto.QuotaSnapshot `json:"data"`
	}{&body}))
	assert.Equal(t, "Plan 50GB", body.PlanName)
	require.NotNil(t, body.Base)
	assert.Equal(t, int64(38<<30), body.Base.BytesRemaining)
}

func TestQuotaHandler_GetSnapshot_MissingUserID(t *testing.T) {
	mockUC := &mockGetQuotaSnapshotUC{}
	handler := NewQuotaHandler(mockUC)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/quota/snapshot", nil)
	handler.GetSnapshot(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockUC.lastQuery.UserID)
}

func TestQuotaHandler_GetSnapshot_UserNotFound(t *testing.T) {
	mockUC := &mockGetQuotaSnapshotUC{err: errors.NewNotFoundError("user not found")}
	handler := NewQuotaHandler(mockUC)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/quota/snapshot", nil)
	testutil.SetQueryParams(c, map[string]string{"user_id": "9999"})
	handler.GetSnapshot(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
