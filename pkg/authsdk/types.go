package authsdk

import "time"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type Organisation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type organisationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type organisationResponse struct {
	Organisation Organisation `json:"organisation"`
}

type organisationListResponse struct {
	Organisations []Organisation `json:"organisations"`
}

type inviteRequest struct {
	Emails  []string `json:"emails"`
	Manager bool     `json:"manager"`
}

type inviteResponse struct {
	Count int `json:"count"`
}

// Invite is what an invite token grants.
type Invite struct {
	Email          string `json:"email"`
	Manager        bool   `json:"manager"`
	OrganisationID string `json:"organisation_id"`
}

type inspectRequest struct {
	Token string `json:"token"`
}

type inspectResponse struct {
	Invite Invite `json:"invite"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
