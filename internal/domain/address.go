package domain

import "time"

// Address belongs to a user's address book.
type Address struct {
	ID        string
	UserID    string
	Street    string
	City      string
	State     string
	Zip       string
	Country   string
	IsDefault bool
	CreatedAt time.Time
}
