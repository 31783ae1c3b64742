package models

import "time"

// Order is the persisted checkout header. TotalPrice is always computed
// server-side from catalog prices, never taken from the client.
type Order struct {
	ID            int64     `json:"id" db:"id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	TotalPrice    float64   `json:"total_price" db:"total_price"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	CustomerID    *int64    `json:"customer_id,omitempty" db:"customer_id"`

	Items    []OrderItem `json:"items"`
	Customer *Customer   `json:"customer,omitempty"`
}

// OrderItem snapshots one sold line. Name, price and details are frozen at
// sale time so later catalog edits or deletions never rewrite history.
type OrderItem struct {
	ID            int64   `json:"id" db:"id"`
	OrderID       int64   `json:"order_id" db:"order_id"`
	ProductName   string  `json:"product_name" db:"product_name"`
	Quantity      int     `json:"quantity" db:"quantity"`
	PriceAtMoment float64 `json:"price_at_moment" db:"price_at_moment"`
	Details       *string `json:"details,omitempty" db:"details"`
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	CustomerID *int64 `form:"customer_id"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}
