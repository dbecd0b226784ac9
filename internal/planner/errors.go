package planner

import "errors"

// Client-side validation failures. No request is sent when one of these is returned.
var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrNegativeWater = errors.New("amount cannot be negative")
	ErrInvalidAmount = errors.New("amount must be a whole number of milliliters")
	ErrInvalidWeight = errors.New("weight must be a positive whole number of grams")
	ErrEmptyText     = errors.New("text is required")
	ErrNoSection     = errors.New("section is required")
	ErrBadIndex      = errors.New("index must be zero or greater")
	ErrQueryTooShort = errors.New("search needs at least 2 characters")
)
