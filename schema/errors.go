package schema

import "errors"

var (
	// ErrTransport indicates the control endpoint was unreachable or replied with a non-success status.
	ErrTransport = errors.New("control endpoint transport failed")
	// ErrResponseRead indicates the control endpoint response body could not be read.
	ErrResponseRead = errors.New("control endpoint response unreadable")
	// ErrVerificationTimeout indicates a freshly opened tab never appeared in the listing.
	ErrVerificationTimeout = errors.New("tab verification timed out")
	// ErrFilesystem indicates a metadata query failed for a reason other than non-existence.
	ErrFilesystem = errors.New("filesystem query failed")
	// ErrInvalidPath indicates an empty or otherwise unusable document path.
	ErrInvalidPath = errors.New("invalid document path")
	// ErrInvalidCommand indicates a malformed or unsupported control command.
	ErrInvalidCommand = errors.New("invalid command")
)
