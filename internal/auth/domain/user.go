package domain

import "time"

// User is a registered identity. Email is unique and compared byte for byte.
type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id PHC string, never returned to callers
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
