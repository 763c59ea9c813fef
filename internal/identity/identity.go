// Package identity verifies session tokens against the hosted identity
// provider. A missing or invalid token is not an error: the rest of the
// system works with no identity present.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Identity is the verified user behind a session token.
type Identity struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Verifier resolves a session token to an identity, or nil when the token is
// absent or rejected.
type Verifier interface {
	Verify(ctx context.Context, sessionToken string) (*Identity, error)
}

type Config struct {
	BaseURL string
	APIKey  string
}

// Client verifies tokens with the provider's session-verification endpoint.
type Client struct {
	config     Config
	httpClient *resty.Client
}

func NewClient(config Config) *Client {
	return &Client{
		config:     config,
		httpClient: resty.New(),
	}
}

type verifyResponse struct {
	UserID       string `json:"user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ImageURL     string `json:"image_url"`
	EmailAddress string `json:"email_address"`
}

// Verify resolves a session token. Unauthorized and not-found responses map
// to a nil identity; other failures are returned as errors.
func (c *Client) Verify(ctx context.Context, sessionToken string) (*Identity, error) {
	if sessionToken == "" {
		return nil, nil
	}

	res, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.config.APIKey).
		SetBody(map[string]string{"token": sessionToken}).
		Post(fmt.Sprintf("%s/v1/sessions/verify", strings.TrimSuffix(c.config.BaseURL, "/")))
	if err != nil {
		return nil, fmt.Errorf("httpClient.Post > %w", err)
	}
	if res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}

	var body verifyResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if body.UserID == "" {
		return nil, nil
	}

	name := strings.TrimSpace(body.FirstName + " " + body.LastName)
	if name == "" {
		name = "User"
	}
	return &Identity{
		UserID:   body.UserID,
		Email:    body.EmailAddress,
		Name:     name,
		ImageURL: body.ImageURL,
	}, nil
}
