package domain

import "time"

// User is the stored identity record. PasswordHash is a bcrypt digest with
// embedded salt and cost; it never appears in responses or logs.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
