package docstore

import "errors"

var (
	ErrNotFound        = errors.New("document not found")
	ErrConflict        = errors.New("document already exists")
	ErrConcurrency     = errors.New("document was modified or deleted by another session")
	ErrMultipleResults = errors.New("sequence contains more than one element")
	ErrSessionClosed   = errors.New("session has been closed")
	ErrMissingKey      = errors.New("document has no key")
)
