package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"account-service/pkg/common"
)

// BridgeClient talks to the external trading bridge, a record-store API
// holding the live account telemetry. The bridge is authoritative; this
// service only reads from it.
type BridgeClient struct {
	BaseURL  string
	Email    string
	Password string

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewBridgeClient() *BridgeClient {
	baseURL := os.Getenv("BRIDGE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}
	return &BridgeClient{
		BaseURL:  baseURL,
		Email:    os.Getenv("BRIDGE_ADMIN_EMAIL"),
		Password: os.Getenv("BRIDGE_ADMIN_PASSWORD"),
	}
}

type BridgeUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	Verified bool   `json:"verified"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
}

type BridgeAccount struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MetaTraderID string  `json:"meta_trader_id"`
	Balance      float64 `json:"balance"`
	Equity       float64 `json:"equity"`
	Margin       float64 `json:"margin"`
	TotalPnl     float64 `json:"total_pnl"`
	Status       string  `json:"status"`
	User         string  `json:"user"`
	Created      string  `json:"created"`
	Updated      string  `json:"updated"`
	ExpireDate   string  `json:"expire_date"`
}

type bridgeList struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalItems int               `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

// authenticate refreshes the admin token when missing or stale.
func (c *BridgeClient) authenticate() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	resp, err := common.Post(c.BaseURL+"/api/admins/auth-with-password", map[string]string{
		"identity": c.Email,
		"password": c.Password,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("bridge authentication failed: %w", err)
	}

	data, ok := resp.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected bridge auth response")
	}
	token, _ := data["token"].(string)
	if token == "" {
		return "", fmt.Errorf("bridge auth response missing token")
	}

	c.token = token
	c.tokenExp = time.Now().Add(10 * time.Minute)
	return c.token, nil
}

func (c *BridgeClient) list(collection, filter string, perPage int) (*bridgeList, error) {
	token, err := c.authenticate()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/collections/%s/records?page=1&perPage=%d&filter=%s",
		c.BaseURL, collection, perPage, url.QueryEscape(filter))

	resp, err := common.Get(endpoint, map[string]string{"Authorization": token})
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON to get the typed record list out of the
	// generic response body.
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	var result bridgeList
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserByEmail resolves a bridge user record, nil when none matches.
func (c *BridgeClient) GetUserByEmail(email string) (*BridgeUser, error) {
	result, err := c.list("users", fmt.Sprintf("email = %q", email), 1)
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var user BridgeUser
	if err := json.Unmarshal(result.Items[0], &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAccountsByUser lists the trading accounts owned by a bridge user.
func (c *BridgeClient) GetAccountsByUser(bridgeUserID string) ([]BridgeAccount, error) {
	result, err := c.list("accounts", fmt.Sprintf("user = %q", bridgeUserID), 50)
	if err != nil {
		return nil, err
	}

	accounts := make([]BridgeAccount, 0, len(result.Items))
	for _, item := range result.Items {
		var account BridgeAccount
		if err := json.Unmarshal(item, &account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
