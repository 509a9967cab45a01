package service

import "errors"

// Common service errors
var (
	// ErrQuoteNotFound is returned when a quote does not exist
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrInvalidStatus is returned when a save request carries an unknown quote status
	ErrInvalidStatus = errors.New("invalid quote status")

	// ErrInvalidMarginType is returned when a save request carries an unknown margin type
	ErrInvalidMarginType = errors.New("invalid margin type")

	// ErrFlightSearchFailed is returned when the flight provider call fails
	ErrFlightSearchFailed = errors.New("flight search failed")
)
