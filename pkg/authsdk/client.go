package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the orgauth service. It provides the public
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and returns a session for it.
func (c *SDKClient) Register(ctx context.Context, email, password string) (*Session, error) {
	var resp TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register", "",
		credentials{Email: email, Password: password}, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// Login exchanges credentials for a session.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", "",
		credentials{Email: email, Password: password}, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// InspectInvite decodes an invite token. It fails with INVALID_TOKEN for
// expired, forged or session tokens.
func (c *SDKClient) InspectInvite(ctx context.Context, token string) (*Invite, error) {
	var resp inspectResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invites/inspect", "",
		inspectRequest{Token: token}, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp.Invite, nil
}

// GetLiveness calls the liveness probe.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", "", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetReadiness calls the readiness probe.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", "", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}
