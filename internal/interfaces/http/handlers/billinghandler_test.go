package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bajabeat/descargas/internal/application/billing/usecases"
	"github.com/bajabeat/descargas/internal/interfaces/http/handlers/testutil"
	"github.com/bajabeat/descargas/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockChangePlanUC struct {
	result  *usecases.ChangePlanResult
	err     error
	lastCmd usecases.ChangePlanCommand
}

func (m *mockChangePlanUC) Execute(ctx context.Context, cmd usecases.ChangePlanCommand) (*usecases.ChangePlanResult, error) {
	m.lastCmd = cmd
	return m.result, m.err
}

type mockCancelSubscriptionUC struct {
	result  *usecases.CancelSubscriptionResult
	err     error
	lastCmd usecases.CancelSubscriptionCommand
}

func (m *mockCancelSubscriptionUC) Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*usecases.CancelSubscriptionResult, error) {
	m.lastCmd = cmd
	return m.result, m.err
}

type mockIssueCashVoucherUC struct {
	result *usecases.IssueCashVoucherResult
	err    error
}

func (m *mockIssueCashVoucherUC) Execute(ctx context.Context, cmd usecases.IssueCashVoucherCommand) (*usecases.IssueCashVoucherResult, error) {
	return m.result, m.err
}

type mockPurchaseAddonUC struct {
	result *usecases.PurchaseAddonResult
	err    error
}

func (m *mockPurchaseAddonUC) Execute(ctx context.Context, cmd usecases.PurchaseAddonCommand) (*usecases.PurchaseAddonResult, error) {
	return m.result, m.err
}

func newTestBillingHandler(
	changePlanUC changePlanUseCase,
	cancelUC cancelSubscriptionUseCase,
	issueVoucherUC issueCashVoucherUseCase,
	buyAddonUC purchaseAddonUseCase,
) *BillingHandler {
	return NewBillingHandler(changePlanUC, cancelUC, issueVoucherUC, buyAddonUC)
}

// =====================================================================
// ChangePlan
// =====================================================================

func TestBillingHandler_ChangePlan_Success(t *testing.T) {
	mockUC := &mockChangePlanUC{result: &usecases.ChangePlanResult{OrderID: 7, FromPlanID: 1, ToPlanID: 2}}
	handler := newTestBillingHandler(mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/plan-changes", ChangePlanRequest{
		UserID:    10,
		NewPlanID: 2,
	})
	handler.ChangePlan(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(10), mockUC.lastCmd.UserID)
	assert.Equal(t, uint(2), mockUC.lastCmd.NewPlanID)
}

func TestBillingHandler_ChangePlan_InvalidBody(t *testing.T) {
	mockUC := &mockChangePlanUC{}
	handler := newTestBillingHandler(mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/plan-changes", map[string]interface{}{
		"user_id": 10,
	})
	handler.ChangePlan(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_ChangePlan_ConcurrentChange(t *testing.T) {
	mockUC := &mockChangePlanUC{err: errors.NewConflictError("another plan change is in progress")}
	handler := newTestBillingHandler(mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/plan-changes", ChangePlanRequest{
		UserID:    10,
		NewPlanID: 2,
	})
	handler.ChangePlan(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBillingHandler_ChangePlan_ProviderFailureHidesDetail(t *testing.T) {
	mockUC := &mockChangePlanUC{err: errors.NewProviderError("payment provider rejected the plan change", "raw gateway response")}
	handler := newTestBillingHandler(mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/plan-changes", ChangePlanRequest{
		UserID:    10,
		NewPlanID: 2,
	})
	handler.ChangePlan(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
}

// =====================================================================
// CancelSubscription
// =====================================================================

func TestBillingHandler_CancelSubscription_Success(t *testing.T) {
	mockUC := &mockCancelSubscriptionUC{result: &usecases.CancelSubscriptionResult{
		SubscriptionID: 3,
		PaidThrough:    "2026-09-30",
	}}
	handler := newTestBillingHandler(nil, mockUC, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/cancellations", CancelSubscriptionRequest{
		UserID:  10,
		Reason:  "too_expensive",
		Comment: "switching providers",
	})
	handler.CancelSubscription(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "too_expensive", mockUC.lastCmd.Reason)
	assert.Equal(t, "switching providers", mockUC.lastCmd.Comment)
}

func TestBillingHandler_CancelSubscription_MissingReason(t *testing.T) {
	mockUC := &mockCancelSubscriptionUC{}
	handler := newTestBillingHandler(nil, mockUC, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/cancellations", map[string]interface{}{
		"user_id": 10,
	})
	handler.CancelSubscription(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_CancelSubscription_NoActiveSubscription(t *testing.T) {
	mockUC := &mockCancelSubscriptionUC{err: errors.NewNotFoundError("no active subscription")}
	handler := newTestBillingHandler(nil, mockUC, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/cancellations", CancelSubscriptionRequest{
		UserID: 10,
		Reason: "too_expensive",
	})
	handler.CancelSubscription(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =====================================================================
// IssueVoucher
// =====================================================================

func TestBillingHandler_IssueVoucher_New(t *testing.T) {
	mockUC := &mockIssueCashVoucherUC{result: &usecases.IssueCashVoucherResult{
		OrderID:    5,
		Reference:  "930012345678901234",
		BarcodeURL: "https://vouchers.example/930012345678901234.png",
		ExpiresAt:  time.Now().Add(72 * time.Hour),
	}}
	handler := newTestBillingHandler(nil, nil, mockUC, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/vouchers", IssueVoucherRequest{
		UserID: 10,
		PlanID: 1,
		Method: "OXXO",
	})
	handler.IssueVoucher(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBillingHandler_IssueVoucher_ReusedAnswers200(t *testing.T) {
	mockUC := &mockIssueCashVoucherUC{result: &usecases.IssueCashVoucherResult{
		OrderID:   5,
		Reference: "930012345678901234",
		Reused:    true,
	}}
	handler := newTestBillingHandler(nil, nil, mockUC, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/vouchers", IssueVoucherRequest{
		UserID: 10,
		PlanID: 1,
		Method: "SPEI",
	})
	handler.IssueVoucher(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBillingHandler_IssueVoucher_UnknownMethod(t *testing.T) {
	mockUC := &mockIssueCashVoucherUC{}
	handler := newTestBillingHandler(nil, nil, mockUC, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/vouchers", map[string]interface{}{
		"user_id": 10,
		"plan_id": 1,
		"method":  "CHEQUE",
	})
	handler.IssueVoucher(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// PurchaseAddon
// =====================================================================

func TestBillingHandler_PurchaseAddon_Success(t *testing.T) {
	mockUC := &mockPurchaseAddonUC{result: &usecases.PurchaseAddonResult{
		OrderID:   8,
		Reference: "930098765432109876",
		ExpiresAt: time.Now().Add(72 * time.Hour),
	}}
	handler := newTestBillingHandler(nil, nil, nil, mockUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/addon-orders", PurchaseAddonRequest{
		UserID:  10,
		AddonID: 2,
		Method:  "OXXO",
	})
	handler.PurchaseAddon(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBillingHandler_PurchaseAddon_RequiresActiveSubscription(t *testing.T) {
	mockUC := &mockPurchaseAddonUC{err: errors.NewPreconditionError("an active subscription is required")}
	handler := newTestBillingHandler(nil, nil, nil, mockUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/billing/addon-orders", PurchaseAddonRequest{
		UserID:  10,
		AddonID: 2,
		Method:  "OXXO",
	})
	handler.PurchaseAddon(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}
