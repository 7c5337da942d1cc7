package analyses

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyEmail   = errors.New("email text is required")
	ErrUpstreamJSON = errors.New("model output did not contain valid JSON")
)
