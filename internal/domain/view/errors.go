package view

import "errors"

// Sentinel kinds for invalid view state.
var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownMetric = errors.New("unknown primary metric")
	ErrUnknownSystem = errors.New("unknown system type")
	ErrUnknownView   = errors.New("unknown view")
	ErrBadDirection  = errors.New("sort direction must be asc or desc")
)
