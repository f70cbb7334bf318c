package cache

// SentinelError is an error.
type SentinelError string

const (
	// ErrNotFound indicates missing or expired cache entry.
	ErrNotFound = SentinelError("missing cache entry")

	// ErrEmptyKey indicates violated key precondition.
	ErrEmptyKey = SentinelError("empty cache key")

	// ErrNothingToInvalidate indicates no caches were added to Invalidator.
	ErrNothingToInvalidate = SentinelError("nothing to invalidate")

	// ErrAlreadyInvalidated indicates recent invalidation.
	ErrAlreadyInvalidated = SentinelError("already invalidated")
)

// Error implements error.
func (e SentinelError) Error() string {
	return string(e)
}
