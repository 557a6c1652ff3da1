// Package identity talks to the external identity provider that exchanges
// one-time login codes for stable identities. With no credentials
// configured it runs in deterministic mock mode for local development.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/apex/log"

	"pawrescue/apperr"
)

// MockIdentity is the single fixed identity returned for every code in
// mock mode. It never varies, so local data stays attached to one user.
const MockIdentity = "mock_user_persistent_id_888"

type Client struct {
	appID      string
	secret     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(appID, secret, baseURL string, timeout time.Duration) *Client {
	return &Client{
		appID:   appID,
		secret:  secret,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// MockMode reports whether the client operates without provider
// credentials.
func (c *Client) MockMode() bool {
	return c.secret == ""
}

type sessionResponse struct {
	OpenID  string `json:"openid"`
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Exchange swaps a one-time login code for the caller's stable identity.
// Network failures surface as ErrIdentityProviderUnavailable and malformed
// answers as ErrIdentityProviderProtocol; callers degrade, never block.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	if c.MockMode() {
		log.Debugf("identity exchange running in mock mode, code=%s", code)
		return MockIdentity, nil
	}

	q := url.Values{}
	q.Set("appid", c.appID)
	q.Set("secret", c.secret)
	q.Set("js_code", code)
	q.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create exchange request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity exchange: %w: %v", apperr.ErrIdentityProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read exchange response: %w: %v", apperr.ErrIdentityProviderUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("identity provider status %d: %w", resp.StatusCode, apperr.ErrIdentityProviderUnavailable)
	}

	var parsed sessionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode exchange response: %w: %v", apperr.ErrIdentityProviderProtocol, err)
	}
	if parsed.ErrCode != 0 {
		return "", fmt.Errorf("identity provider errcode %d %q: %w",
			parsed.ErrCode, parsed.ErrMsg, apperr.ErrIdentityProviderProtocol)
	}
	if parsed.OpenID == "" {
		return "", fmt.Errorf("identity provider returned no identity: %w", apperr.ErrIdentityProviderProtocol)
	}

	return parsed.OpenID, nil
}
