// Package billing adapts the external payment providers to the gateway
// interfaces the billing flows depend on. All three clients speak plain
// HTTP; provider SDK churn is not worth the dependency for the handful of
// endpoints used here.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bajabeat/descargas/internal/application/billing/gateway"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

const (
	providerRequestTimeout = 15 * time.Second
	// Maximum response body size accepted from a provider (256KB)
	maxProviderResponseSize = 256 << 10
)

// CardClient talks to the Stripe-compatible card provider. Requests are
// form encoded, authenticated with a bearer secret key, and carry the
// caller's idempotency key where the operation provisions anything.
type CardClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

var _ gateway.CardGateway = (*CardClient)(nil)

func NewCardClient(baseURL, apiKey string, logger logger.Interface) *CardClient {
	return &CardClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: providerRequestTimeout},
		logger:     logger,
	}
}

type cardSubscriptionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Items  struct {
		Data []struct {
			ID    string `json:"id"`
			Price struct {
				ID      string `json:"id"`
				Product string `json:"product"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type cardPriceResponse struct {
	ID      string `json:"id"`
	Product string `json:"product"`
}

type cardProductResponse struct {
	ID string `json:"id"`
}

type cardErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *CardClient) GetRecurringItem(ctx context.Context, subscriptionRef string) (*gateway.RecurringItem, error) {
	var sub cardSubscriptionResponse
	if err := c.do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(subscriptionRef), nil, "", &sub); err != nil {
		return nil, err
	}

	if len(sub.Items.Data) != 1 {
		return nil, fmt.Errorf("subscription %s has %d items, expected exactly one", subscriptionRef, len(sub.Items.Data))
	}

	item := sub.Items.Data[0]
	return &gateway.RecurringItem{
		SubscriptionRef: sub.ID,
		ItemRef:         item.ID,
		PriceRef:        item.Price.ID,
		ProductRef:      item.Price.Product,
	}, nil
}

func (c *CardClient) UpdateRecurringItemPrice(ctx context.Context, itemRef, priceRef string) error {
	form := url.Values{}
	form.Set("price", priceRef)
	form.Set("proration_behavior", "create_prorations")

	return c.do(ctx, http.MethodPost, "/subscription_items/"+url.PathEscape(itemRef), form, "", nil)
}

func (c *CardClient) EnsureRecurringPrice(ctx context.Context, req gateway.EnsureRecurringPriceRequest) (*gateway.RecurringPrice, error) {
	// Idempotency keys make both calls replay-safe: a retry after a
	// half-finished provisioning returns the same product and price.
	productForm := url.Values{}
	productForm.Set("name", req.PlanName)

	var product cardProductResponse
	if err := c.do(ctx, http.MethodPost, "/products", productForm, req.IdempotencyKey+"-product", &product); err != nil {
		return nil, err
	}

	priceForm := url.Values{}
	priceForm.Set("product", product.ID)
	priceForm.Set("unit_amount", strconv.FormatInt(req.AmountInCents, 10))
	priceForm.Set("currency", strings.ToLower(req.Currency))
	priceForm.Set("recurring[interval]", "month")
	priceForm.Set("lookup_key", req.PriceKey)

	var price cardPriceResponse
	if err := c.do(ctx, http.MethodPost, "/prices", priceForm, req.IdempotencyKey, &price); err != nil {
		return nil, err
	}

	c.logger.Infow("provisioned recurring card price",
		"plan_id", req.PlanID, "price_ref", price.ID, "product_ref", price.Product)

	return &gateway.RecurringPrice{PriceRef: price.ID, ProductRef: price.Product}, nil
}

func (c *CardClient) CancelSubscription(ctx context.Context, subscriptionRef string) error {
	err := c.do(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(subscriptionRef), nil, "", nil)
	if err != nil {
		// Canceling twice is a no-op, a replayed cancellation must not fail.
		var provErr *providerError
		if errors.As(err, &provErr) && provErr.alreadyCanceled() {
			c.logger.Debugw("card subscription already canceled", "subscription_ref", subscriptionRef)
			return nil
		}
		return err
	}
	return nil
}

func (c *CardClient) do(ctx context.Context, method, path string, form url.Values, idempotencyKey string, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build card provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("card provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read card provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp cardErrorResponse
		_ = json.Unmarshal(data, &errResp)
		return &providerError{
			provider:   "card",
			statusCode: resp.StatusCode,
			code:       errResp.Error.Code,
			message:    errResp.Error.Message,
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode card provider response: %w", err)
		}
	}
	return nil
}
