package domain

import "errors"

// Storage errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrNotImplemented = errors.New("not implemented")
)

// Access code errors
var (
	ErrAccessCodeRedeemed = errors.New("access code already redeemed")
	ErrAccessCodeExpired  = errors.New("access code expired")
)
