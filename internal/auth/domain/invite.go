package domain

// InviteRequest asks for one invite per address, in order. Duplicates are
// kept and each gets its own token.
type InviteRequest struct {
	Emails         []string
	Manager        bool
	OrganisationID string
}

// InviteGrant is what a verified invite token carries.
type InviteGrant struct {
	Email          string `json:"email"`
	Manager        bool   `json:"manager"`
	OrganisationID string `json:"organisation_id"`
}

// InviteResult is the outcome of one address in a batch.
type InviteResult struct {
	Email string
	Token string
	Err   error
}
