package config

import "errors"

var (
	// ErrParsingConfig indicates environment variables could not be parsed
	// into the configuration struct.
	ErrParsingConfig = errors.New("failed to parse config from environment")
)
