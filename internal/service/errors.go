package service

import "errors"

var ErrNotFound = errors.New("not found")

var (
	ErrDecode     = errors.New("decode")
	ErrValidation = errors.New("validation")
	ErrForbidden  = errors.New("forbidden")
	// ErrConflict covers state conflicts: illegal transitions, duplicate
	// reviews, already-assigned orders, below-minimum carts.
	ErrConflict = errors.New("conflict")
	ErrExpired  = errors.New("expired")
)
