package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"friends-service/internal/apperror"
)

// Account is the directory's view of a user. The core only relies on the
// identity and the active flag; the rest is passed through to responses.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Client looks up accounts in the external account directory.
type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
	}
}

func (c *Client) GetAccount(ctx context.Context, id int64) (*Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/accounts/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NotFound("account not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("account directory returned status %d", resp.StatusCode)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Exists reports whether the account id resolves in the directory.
func (c *Client) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := c.GetAccount(ctx, id)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsActive reports whether the account exists and is active.
func (c *Client) IsActive(ctx context.Context, id int64) (bool, error) {
	account, err := c.GetAccount(ctx, id)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.IsActive, nil
}
