package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bajabeat/descargas/internal/application/billing/usecases"
	"github.com/bajabeat/descargas/internal/interfaces/http/handlers/testutil"
	"github.com/bajabeat/descargas/internal/shared/errors"
)

type mockFulfillOrderUC struct {
	result  *usecases.FulfillOrderResult
	err     error
	lastCmd usecases.FulfillOrderCommand
}

func (m *mockFulfillOrderUC) Execute(ctx context.Context, cmd usecases.FulfillOrderCommand) (*usecases.FulfillOrderResult, error) {
	m.lastCmd = cmd
	return m.result, m.err
}

func TestWebhookHandler_ConfirmPayment_Success(t *testing.T) {
	mockUC := &mockFulfillOrderUC{result: &usecases.FulfillOrderResult{AlreadyPaid: false}}
	handler := NewWebhookHandler(mockUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/webhooks/payment-confirmations", PaymentConfirmationRequest{
		OrderID:       42,
		ProviderTxnID: "pi_123",
	})
	handler.ConfirmPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var body PaymentConfirmationResponse
	require.NoError(t, testutil.ParseResponse(w, &struct {
		Data *PaymentConfirmationResponse `json:"data"`
	}{&body}))
	assert.Equal(t, uint(42), body.OrderID)
	assert.False(t, body.AlreadyPaid)

	assert.Equal(t, uint(42), mockUC.lastCmd.OrderID)
	assert.Equal(t, "pi_123", mockUC.lastCmd.ProviderTxnID)
}

func TestWebhookHandler_ConfirmPayment_Replay(t *testing.T) {
	mockUC := &mockFulfillOrderUC{result: &usecases.FulfillOrderResult{AlreadyPaid: true}}
	handler := NewWebhookHandler(mockUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/webhooks/payment-confirmations", PaymentConfirmationRequest{
		OrderID:       42,
		ProviderTxnID: "pi_123",
	})
	handler.ConfirmPayment(c)

	// Replays answer 200 so the provider stops redelivering.
	assert.Equal(t, http.StatusOK, w.Code)

	var body PaymentConfirmationResponse
	require.NoError(t, testutil.ParseResponse(w, &struct {
		Data *PaymentConfirmationResponse `json:"data"`
	}{&body}))
	assert.True(t, body.AlreadyPaid)
}

func TestWebhookHandler_ConfirmPayment_InvalidBody(t *testing.T) {
	mockUC := &mockFulfillOrderUC{}
	handler := NewWebhookHandler(mockUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/webhooks/payment-confirmations", map[string]interface{}{
		"order_id": 42,
	})
	handler.ConfirmPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockUC.lastCmd.OrderID)
}

func TestWebhookHandler_ConfirmPayment_OrderNotFound(t *testing.T) {
	mockUC := &mockFulfillOrderUC{err: errors.NewNotFoundError("order not found")}
	handler := NewWebhookHandler(mockUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/webhooks/payment-confirmations", PaymentConfirmationRequest{
		OrderID:       9999,
		ProviderTxnID: "pi_123",
	})
	handler.ConfirmPayment(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "order not found", resp.Error.Message)
}
