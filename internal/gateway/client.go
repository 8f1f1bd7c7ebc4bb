package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client registers orders with the provider's REST API. The amount is
// sent in minor units (paise for INR), which is what hosted gateways
// expect.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type createOrderRequest struct {
	Receipt  string `json:"receipt"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type gatewayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Initiate creates a provider-side order scoped to the given amount and
// returns the provider's order reference.
func (c *Client) Initiate(ctx context.Context, orderRef uuid.UUID, amount float64, currency string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		Receipt:  orderRef.String(),
		Amount:   toMinorUnits(amount),
		Currency: currency,
	})
	if err != nil {
		return "", fmt.Errorf("marshal gateway order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var gwErr gatewayErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&gwErr); decodeErr == nil && gwErr.Error.Description != "" {
			return "", fmt.Errorf("%w: %s (%s)", ErrGatewayRejected, gwErr.Error.Description, gwErr.Error.Code)
		}
		return "", fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode)
	}

	var created createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: empty order id in response", ErrGatewayRejected)
	}

	return created.ID, nil
}

// HostedCheckoutURL is where the browser is sent to complete payment.
func (c *Client) HostedCheckoutURL(gatewayRef string) string {
	return fmt.Sprintf("%s/checkout/%s", c.baseURL, gatewayRef)
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
