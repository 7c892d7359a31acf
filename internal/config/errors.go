package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates missing or malformed remote origins.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidAdapterConfigs indicates an unusable retry policy
	// (for example, zero attempts or zero retry delay).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid background loop settings
	// (for example, zero hold interval or inverted fallback bounds).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidWatchConfigs indicates a malformed or relative watch path.
	ErrInvalidWatchConfigs = errors.New("invalid watch configuration")
)
