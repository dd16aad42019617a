package config

import "errors"

var (
	// ErrInvalidPattern is returned when a domain pattern is rejected at
	// registration time. The mapping is left exactly as it was.
	ErrInvalidPattern = errors.New("config: invalid domain pattern")

	// ErrInvalidHostname is returned by Resolve for an empty lookup key.
	ErrInvalidHostname = errors.New("config: invalid hostname")

	// ErrNoCredential is returned by Resolve when no pattern matches and
	// the mapping carries no default credential. It fails only the single
	// handshake that triggered the lookup.
	ErrNoCredential = errors.New("config: no credential for hostname")

	// ErrMappingSealed is returned by Add on a mapping owned by a
	// snapshot. Snapshot state never changes after construction.
	ErrMappingSealed = errors.New("config: domain mapping is sealed")
)
