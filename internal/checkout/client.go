package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/startupstack/startupstack/internal/config"
)

// ErrNotConfigured means the LemonSqueezy credentials are missing. Handlers
// must map it to a generic configuration error without detail.
var ErrNotConfigured = errors.New("checkout client not configured")

// Checkout is a created hosted-checkout session.
type Checkout struct {
	ID  string
	URL string
}

// Client creates hosted checkouts via the LemonSqueezy JSON:API.
type Client struct {
	apiKey  string
	storeID string
	baseURL string
	httpc   *http.Client
}

// NewClient creates a checkout client from config.
func NewClient(cfg config.CheckoutConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		storeID: cfg.StoreID,
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
}

type checkoutRequest struct {
	Data checkoutData `json:"data"`
}

type checkoutData struct {
	Type          string                `json:"type"`
	Attributes    checkoutAttributes    `json:"attributes"`
	Relationships checkoutRelationships `json:"relationships"`
}

type checkoutAttributes struct {
	CheckoutData struct {
		Email  string            `json:"email"`
		Custom map[string]string `json:"custom"`
	} `json:"checkout_data"`
}

type checkoutRelationships struct {
	Store   relationship `json:"store"`
	Variant relationship `json:"variant"`
}

type relationship struct {
	Data relationshipData `json:"data"`
}

type relationshipData struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type checkoutResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Create opens a hosted checkout for the given customer and variant. The
// user ID rides along as custom data so the payment webhook can attribute
// the purchase.
func (c *Client) Create(ctx context.Context, email string, userID uuid.UUID, variantID string) (*Checkout, error) {
	if c.apiKey == "" || c.storeID == "" {
		return nil, ErrNotConfigured
	}

	var attrs checkoutAttributes
	attrs.CheckoutData.Email = email
	attrs.CheckoutData.Custom = map[string]string{"user_id": userID.String()}

	body := checkoutRequest{
		Data: checkoutData{
			Type:       "checkouts",
			Attributes: attrs,
			Relationships: checkoutRelationships{
				Store:   relationship{Data: relationshipData{Type: "stores", ID: c.storeID}},
				Variant: relationship{Data: relationshipData{Type: "variants", ID: variantID}},
			},
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkouts", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating checkout request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling checkout API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiResp checkoutResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err := json.Unmarshal(raw, &apiResp); err == nil && len(apiResp.Errors) > 0 {
			return nil, fmt.Errorf("checkout API status %d: %s", resp.StatusCode, apiResp.Errors[0].Detail)
		}
		return nil, fmt.Errorf("checkout API status %d", resp.StatusCode)
	}

	var apiResp checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decoding checkout response: %w", err)
	}
	if apiResp.Data.ID == "" || apiResp.Data.Attributes.URL == "" {
		return nil, fmt.Errorf("checkout API returned incomplete session")
	}

	return &Checkout{ID: apiResp.Data.ID, URL: apiResp.Data.Attributes.URL}, nil
}
