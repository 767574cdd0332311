package auth

import "errors"

var (
	ErrNotAuthenticated = errors.New("auth: not authenticated")
	ErrProfileMissing   = errors.New("auth: profile missing")
	ErrInvalidToken     = errors.New("auth: invalid token")
	ErrNotFound         = errors.New("auth: not found")
	ErrAlreadyExists    = errors.New("auth: already exists")
	ErrInvalidInput     = errors.New("auth: invalid input")
)
