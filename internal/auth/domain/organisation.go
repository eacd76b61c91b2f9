package domain

import "time"

// Organisation is a tenant. OwnerID is set at creation and is the only input
// to authorization decisions; the update path never changes it.
type Organisation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
