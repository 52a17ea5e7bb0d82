package model

import "errors"

var (
	// ErrUnavailable means history for an asset is missing or malformed.
	ErrUnavailable = errors.New("history unavailable")
	// ErrInsufficientHistory means the series is too short for an indicator warm-up window.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrProviderFailure means the asset universe could not be acquired.
	ErrProviderFailure = errors.New("provider failure")
)
