package domain

import "time"

// Currency enumerates supported price currencies.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
)

// Price is an amount in a specific currency.
type Price struct {
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

// Product is a catalog entry owned by a seller.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       Price
	SellerID    string
	Images      []string
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
