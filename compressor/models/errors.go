package models

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid transform config")
	ErrUnknownFormat = errors.New("unknown output format")
)
