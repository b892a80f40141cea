package content

import "errors"

// Error kinds for the exposed operations. Transports map these to status
// distinctions; a sandbox escape is always forbidden, never downgraded to
// not-found, so audit logs can tell the two apart.
var (
	ErrForbidden  = errors.New("forbidden path")
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("invalid request")
	ErrRender     = errors.New("render failed")
)
