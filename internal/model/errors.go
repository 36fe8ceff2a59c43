package model

import "errors"

// Error kinds for configuration resolution. All of them are fatal; callers
// match with errors.Is and the wrapped message names the offending input.
var (
	ErrConflict       = errors.New("mutually exclusive inputs")
	ErrValidation     = errors.New("invalid value")
	ErrFormat         = errors.New("malformed input")
	ErrNotFound       = errors.New("not found")
	ErrClassification = errors.New("no use_case found")
	ErrConfiguration  = errors.New("unsupported configuration")
)
