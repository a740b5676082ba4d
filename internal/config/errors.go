package config

import "errors"

var (
	ErrLoad    = errors.New("failed to load layout")
	ErrInvalid = errors.New("invalid layout")
)
