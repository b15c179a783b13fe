package capture

import "errors"

var (
	// ErrNotFound is returned by repositories when a capture does not exist
	ErrNotFound = errors.New("capture not found")

	// ErrEndpointNotFound is returned when no endpoint is registered for a path
	ErrEndpointNotFound = errors.New("endpoint not found")

	// ErrEndpointInactive is returned when the endpoint exists but is disabled
	ErrEndpointInactive = errors.New("endpoint inactive")
)
