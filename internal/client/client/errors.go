package client

import "errors"

var (
	ErrUnavailable         = errors.New("server unavailable")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
)
