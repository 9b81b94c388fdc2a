// Package keycloak provides an admin REST client used to mirror user
// accounts into the identity provider.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	identityapp "github.com/mealportal/backend/internal/application/identity"
	"github.com/mealportal/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure Client implements IdentityProvider
var _ identityapp.IdentityProvider = (*Client)(nil)

// tokenSkew is subtracted from the token lifetime so a token is never
// used right at its expiry.
const tokenSkew = 10 * time.Second

// Client talks to the Keycloak admin REST API using the client
// credentials grant. The access token is cached until shortly before
// it expires.
type Client struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Client from configuration.
func NewClient(cfg *config.KeycloakConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("keycloak configuration is required")
	}
	if cfg.BaseURL == "" || cfg.Realm == "" {
		return nil, errors.New("keycloak base URL and realm are required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		realm:        cfg.Realm,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}, nil
}

type userRepresentation struct {
	Username      string                     `json:"username"`
	Email         string                     `json:"email"`
	FirstName     string                     `json:"firstName"`
	LastName      string                     `json:"lastName"`
	Enabled       bool                       `json:"enabled"`
	EmailVerified bool                       `json:"emailVerified"`
	Credentials   []credentialRepresentation `json:"credentials,omitempty"`
}

type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// CreateUser provisions an enabled account and returns the id Keycloak
// assigned, read from the Location header of the 201 response.
func (c *Client) CreateUser(ctx context.Context, username, email, firstName, lastName, password string) (string, error) {
	body := userRepresentation{
		Username:      username,
		Email:         email,
		FirstName:     firstName,
		LastName:      lastName,
		Enabled:       true,
		EmailVerified: true,
		Credentials: []credentialRepresentation{{
			Type:      "password",
			Value:     password,
			Temporary: false,
		}},
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users", c.baseURL, c.realm)
	resp, err := c.doJSON(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", c.apiError("create user", resp)
	}

	location := resp.Header.Get("Location")
	idx := strings.LastIndex(location, "/")
	if location == "" || idx == len(location)-1 {
		return "", errors.New("keycloak did not return the created user's location")
	}
	userID := location[idx+1:]

	c.logger.Info("Provisioned identity-provider account",
		zap.String("username", username),
		zap.String("keycloak_user_id", userID))
	return userID, nil
}

// SetPassword replaces the account's password with a permanent one.
func (c *Client) SetPassword(ctx context.Context, providerUserID, password string) error {
	body := credentialRepresentation{
		Type:      "password",
		Value:     password,
		Temporary: false,
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s/reset-password",
		c.baseURL, c.realm, url.PathEscape(providerUserID))
	resp, err := c.doJSON(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.apiError("set password", resp)
	}
	return nil
}

// DeleteUser removes the account. A 404 is treated as success so a
// delete retried after a partial failure converges.
func (c *Client) DeleteUser(ctx context.Context, providerUserID string) error {
	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s",
		c.baseURL, c.realm, url.PathEscape(providerUserID))
	resp, err := c.doJSON(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return c.apiError("delete user", resp)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any) (*http.Response, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.httpClient.Do(req)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached admin token, fetching a fresh one through the
// client credentials grant when needed.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	endpoint := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.baseURL, c.realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("keycloak token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("keycloak token request returned status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("keycloak token response is missing access_token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenSkew)
	return c.accessToken, nil
}

func (c *Client) apiError(op string, resp *http.Response) error {
	return fmt.Errorf("keycloak %s returned status %d", op, resp.StatusCode)
}
