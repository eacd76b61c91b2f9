package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Session makes requests on behalf of one logged-in user.
type Session struct {
	client    *SDKClient
	token     string
	expiresAt time.Time
}

func newSession(client *SDKClient, resp TokenResponse) *Session {
	return &Session{
		client:    client,
		token:     resp.Token,
		expiresAt: time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
}

// NewSessionFromToken wraps a session token obtained elsewhere.
func (c *SDKClient) NewSessionFromToken(token string, expiresAt time.Time) *Session {
	return &Session{client: c, token: token, expiresAt: expiresAt}
}

// Token returns the bearer token.
func (s *Session) Token() string { return s.token }

// Expired reports whether the token has passed its expiry.
func (s *Session) Expired() bool { return !time.Now().Before(s.expiresAt) }

func orgPath(id string) string {
	return "/v1/organisations/" + url.PathEscape(id)
}

// SetupOrganisation creates an organisation owned by the session user.
func (s *Session) SetupOrganisation(ctx context.Context, name, description string) (*Organisation, error) {
	var resp organisationResponse
	if err := s.client.doJSON(ctx, http.MethodPost, "/v1/organisations", s.token,
		organisationRequest{Name: name, Description: description}, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp.Organisation, nil
}

// ListOrganisations returns the organisations the session user owns.
func (s *Session) ListOrganisations(ctx context.Context) ([]Organisation, error) {
	var resp organisationListResponse
	if err := s.client.doJSON(ctx, http.MethodGet, "/v1/organisations", s.token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Organisations, nil
}

func (s *Session) GetOrganisation(ctx context.Context, id string) (*Organisation, error) {
	var resp organisationResponse
	if err := s.client.doJSON(ctx, http.MethodGet, orgPath(id), s.token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp.Organisation, nil
}

// UpdateOrganisation replaces name and description. Owner only.
func (s *Session) UpdateOrganisation(ctx context.Context, id, name, description string) (*Organisation, error) {
	var resp organisationResponse
	if err := s.client.doJSON(ctx, http.MethodPost, orgPath(id), s.token,
		organisationRequest{Name: name, Description: description}, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp.Organisation, nil
}

// Invite asks the service to email invites to emails. It returns the number
// of addresses accepted for dispatch; delivery happens asynchronously.
func (s *Session) Invite(ctx context.Context, orgID string, emails []string, manager bool) (int, error) {
	var resp inviteResponse
	if err := s.client.doJSON(ctx, http.MethodPost, orgPath(orgID)+"/invites", s.token,
		inviteRequest{Emails: emails, Manager: manager}, &resp, http.StatusAccepted); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
