package service

import "errors"

// Business failures the request layer maps to stable messages and status
// classes. Storage unavailability is anything outside this set.
var (
	ErrNotFound        = errors.New("code not found")
	ErrExhausted       = errors.New("pool exhausted")
	ErrCooldown        = errors.New("claimed recently, retry after the window")
	ErrAlreadyUsed     = errors.New("code already used")
	ErrExpired         = errors.New("code expired")
	ErrWrongType       = errors.New("code kind mismatch")
	ErrInvalidArgument = errors.New("invalid argument")
)
