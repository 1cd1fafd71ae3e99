package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bajabeat/descargas/internal/application/billing/gateway"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

// VoucherClient talks to the cash payment provider that issues OXXO and
// SPEI references. The provider charges on settlement through a webhook;
// this client only creates and inspects the pending references.
type VoucherClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

var _ gateway.VoucherGateway = (*VoucherClient)(nil)

func NewVoucherClient(baseURL, apiKey string, logger logger.Interface) *VoucherClient {
	return &VoucherClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: providerRequestTimeout},
		logger:     logger,
	}
}

type voucherChargeRequest struct {
	OrderReference string `json:"order_reference"`
	CustomerEmail  string `json:"customer_email"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	ExpiresAt      int64  `json:"expires_at"`
}

type voucherChargeResponse struct {
	ID            string `json:"id"`
	Reference     string `json:"reference"`
	BarcodeURL    string `json:"barcode_url"`
	ExpiresAt     int64  `json:"expires_at"`
	Status        string `json:"status"`
	FailureCode   string `json:"failure_code"`
	FailureDetail string `json:"failure_message"`
}

func (c *VoucherClient) CreateVoucher(ctx context.Context, req gateway.CreateVoucherRequest) (*gateway.Voucher, error) {
	payload, err := json.Marshal(voucherChargeRequest{
		OrderReference: req.OrderReference,
		CustomerEmail:  req.CustomerEmail,
		Amount:         req.AmountInCents,
		Currency:       strings.ToUpper(req.Currency),
		ExpiresAt:      req.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode voucher request: %w", err)
	}

	charge, err := c.do(ctx, http.MethodPost, "/charges", payload, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	c.logger.Infow("issued cash voucher",
		"order_reference", req.OrderReference, "provider_txn_id", charge.ID)

	return chargeToVoucher(charge), nil
}

func (c *VoucherClient) GetVoucher(ctx context.Context, providerTxnID string) (*gateway.Voucher, error) {
	charge, err := c.do(ctx, http.MethodGet, "/charges/"+url.PathEscape(providerTxnID), nil, "")
	if err != nil {
		return nil, err
	}
	return chargeToVoucher(charge), nil
}

func chargeToVoucher(charge *voucherChargeResponse) *gateway.Voucher {
	return &gateway.Voucher{
		ProviderTxnID: charge.ID,
		Reference:     charge.Reference,
		BarcodeURL:    charge.BarcodeURL,
		ExpiresAt:     time.Unix(charge.ExpiresAt, 0).UTC(),
	}
}

func (c *VoucherClient) do(ctx context.Context, method, path string, payload []byte, idempotencyKey string) (*voucherChargeResponse, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build voucher provider request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voucher provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read voucher provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var charge voucherChargeResponse
		_ = json.Unmarshal(data, &charge)
		return nil, &providerError{
			provider:   "voucher",
			statusCode: resp.StatusCode,
			code:       charge.FailureCode,
			message:    charge.FailureDetail,
		}
	}

	var charge voucherChargeResponse
	if err := json.Unmarshal(data, &charge); err != nil {
		return nil, fmt.Errorf("failed to decode voucher provider response: %w", err)
	}
	return &charge, nil
}
