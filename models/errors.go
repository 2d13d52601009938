package models

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrStateConflict = errors.New("state conflict")
	ErrValidation    = errors.New("validation failed")
)
