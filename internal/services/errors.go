package services

import "errors"

// Pagination defaults shared by the list queries.
const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Shared service-level errors. Handlers translate these to HTTP statuses.
var (
	// ErrNotFound is returned when a referenced catalog entity does not exist.
	ErrNotFound = errors.New("referenced entity not found")

	// ErrValidation is returned for malformed input, e.g. a cart line whose
	// variant does not belong to its product.
	ErrValidation = errors.New("validation error")

	// ErrInsufficientStock is returned when the configured policy rejects a
	// sale that would drive a tracked sellable item's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock for item")

	// ErrCheckoutFailed wraps any failure inside a checkout transaction; the
	// transaction is fully rolled back before it surfaces.
	ErrCheckoutFailed = errors.New("checkout failed")
)
