package config

import "errors"

var (
	// ErrConfigLoadFailed indicates the config file could not be loaded or validated.
	ErrConfigLoadFailed = errors.New("config load failed")
)
