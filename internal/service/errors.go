package service

import "errors"

var (
	// ErrInvalidBatch wraps every reason a reorder batch is refused.
	ErrInvalidBatch = errors.New("invalid reorder batch")
	// ErrInvalidContext is returned for a parent context that is neither the
	// root nor a prefixed node id.
	ErrInvalidContext = errors.New("invalid parent context")
)
