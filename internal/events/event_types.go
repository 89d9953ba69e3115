package events

import (
	"time"

	"github.com/spec-kit/marketplace/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventProductCreated EventType = "product_created"
	EventProductUpdated EventType = "product_updated"
	EventProductDeleted EventType = "product_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// ProductCreatedPayload payload.
type ProductCreatedPayload struct {
	ProductID string       `json:"product_id"`
	SellerID  string       `json:"seller_id"`
	Title     string       `json:"title"`
	Price     domain.Price `json:"price"`
	Stock     int          `json:"stock"`
}

// ProductChangedPayload payload for updates and deletions.
type ProductChangedPayload struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
}
