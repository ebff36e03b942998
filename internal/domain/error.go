package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrUnknownTier     = errors.New("unknown catalog tier")
	ErrUnknownChannel  = errors.New("unknown payment channel")
	ErrUnauthorized    = errors.New("caller is not the administrator")
	ErrTerminalStatus  = errors.New("record already has a terminal status")
	ErrInvalidArgument = errors.New("invalid argument")
)
