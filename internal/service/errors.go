package service

import "errors"

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidCriteria  = errors.New("invalid criteria")
)
