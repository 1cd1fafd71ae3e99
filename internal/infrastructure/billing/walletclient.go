package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bajabeat/descargas/internal/application/billing/gateway"
	"github.com/bajabeat/descargas/internal/shared/biztime"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

// tokenExpirySlack refreshes the OAuth token a little before the provider
// would reject it.
const tokenExpirySlack = 60 * time.Second

// WalletClient talks to the PayPal-compatible wallet provider. It obtains
// a client-credentials OAuth token lazily and caches it until shortly
// before expiry.
type WalletClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       logger.Interface

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ gateway.WalletGateway = (*WalletClient)(nil)

func NewWalletClient(baseURL, clientID, clientSecret string, logger logger.Interface) *WalletClient {
	return &WalletClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: providerRequestTimeout},
		logger:       logger,
	}
}

type walletTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type walletErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (c *WalletClient) ReviseSubscriptionPlan(ctx context.Context, subscriptionRef, newWalletPlanID string) error {
	body := map[string]string{"plan_id": newWalletPlanID}

	if err := c.do(ctx, http.MethodPost,
		"/v1/billing/subscriptions/"+url.PathEscape(subscriptionRef)+"/revise", body); err != nil {
		return err
	}

	c.logger.Infow("revised wallet subscription plan",
		"subscription_ref", subscriptionRef, "wallet_plan_id", newWalletPlanID)
	return nil
}

func (c *WalletClient) CancelSubscription(ctx context.Context, subscriptionRef, reason string) error {
	body := map[string]string{"reason": reason}

	err := c.do(ctx, http.MethodPost,
		"/v1/billing/subscriptions/"+url.PathEscape(subscriptionRef)+"/cancel", body)
	if err != nil {
		// Canceling twice is a no-op, a replayed cancellation must not fail.
		var provErr *providerError
		if errors.As(err, &provErr) && provErr.alreadyCanceled() {
			c.logger.Debugw("wallet subscription already canceled", "subscription_ref", subscriptionRef)
			return nil
		}
		return err
	}
	return nil
}

func (c *WalletClient) do(ctx context.Context, method, path string, body interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode wallet provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build wallet provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wallet provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read wallet provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp walletErrorResponse
		_ = json.Unmarshal(data, &errResp)
		return &providerError{
			provider:   "wallet",
			statusCode: resp.StatusCode,
			code:       errResp.Name,
			message:    errResp.Message,
		}
	}
	return nil
}

func (c *WalletClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := biztime.NowUTC()
	if c.accessToken != "" && now.Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build wallet token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wallet token request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read wallet token response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", &providerError{provider: "wallet", statusCode: resp.StatusCode, message: "token request rejected"}
	}

	var tokenResp walletTokenResponse
	if err := json.Unmarshal(data, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode wallet token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("wallet provider returned empty access token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = now.Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
