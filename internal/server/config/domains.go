package config

import (
	"fmt"
	"sort"
	"strings"
)

// DomainMapping maps normalized hostname patterns to values of type V,
// typically TLS credential contexts selected by SNI.
//
// Two pattern forms are supported: an exact hostname
// ("api.example.com") and a single-level wildcard ("*.example.com")
// matching any strict subdomain of the suffix, however deeply nested.
// The bare suffix itself never matches its wildcard; register an exact
// entry if the apex should resolve too.
//
// A mapping owned by a Builder is mutable through Add. The copy taken
// for a Snapshot is sealed: it rejects Add and is safe for
// unsynchronized concurrent Resolve calls.
type DomainMapping[V any] struct {
	patterns   map[string]V
	def        V
	hasDefault bool
	sealed     bool
}

// NewDomainMapping creates an empty mapping with no default value.
func NewDomainMapping[V any]() *DomainMapping[V] {
	return &DomainMapping[V]{patterns: make(map[string]V)}
}

// NewDomainMappingWithDefault creates an empty mapping whose default
// value is returned when no pattern matches a resolved hostname.
func NewDomainMappingWithDefault[V any](def V) *DomainMapping[V] {
	return &DomainMapping[V]{
		patterns:   make(map[string]V),
		def:        def,
		hasDefault: true,
	}
}

// checkPattern validates a normalized pattern. Shared by Add and by
// file-config verification so malformed patterns are rejected before
// any snapshot exists.
func checkPattern(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	if p == "*" || p == "*." {
		return fmt.Errorf("%w: bare wildcard %q", ErrInvalidPattern, p)
	}
	return nil
}

// Add registers a pattern, replacing any existing value for the same
// normalized pattern (last write wins). Patterns are lower-cased on
// insertion. A malformed pattern leaves the mapping untouched.
func (m *DomainMapping[V]) Add(pattern string, value V) error {
	if m.sealed {
		return ErrMappingSealed
	}
	p := strings.ToLower(pattern)
	if err := checkPattern(p); err != nil {
		return err
	}
	m.patterns[p] = value
	return nil
}

// Resolve selects the value for a hostname, most specific match first:
// an exact entry always beats a covering wildcard, and a longer
// wildcard beats a shorter one. Hostnames are lower-cased before
// matching. An empty hostname fails with ErrInvalidHostname; a
// hostname with no match and no default fails with ErrNoCredential.
func (m *DomainMapping[V]) Resolve(hostname string) (V, error) {
	var zero V
	if hostname == "" {
		return zero, fmt.Errorf("%w: empty hostname", ErrInvalidHostname)
	}
	host := strings.ToLower(hostname)

	if v, ok := m.patterns[host]; ok {
		return v, nil
	}

	// Strip labels left to right, probing the wildcard covering each
	// remaining suffix. "a.b.example.com" tries "*.b.example.com" then
	// "*.example.com" then "*.com". The final single-label remainder is
	// never probed, so "example.com" does not match "*.example.com".
	for rest := host; ; {
		i := strings.IndexByte(rest, '.')
		if i < 0 {
			break
		}
		rest = rest[i+1:]
		if v, ok := m.patterns["*."+rest]; ok {
			return v, nil
		}
	}

	if m.hasDefault {
		return m.def, nil
	}
	return zero, fmt.Errorf("%w: %s", ErrNoCredential, host)
}

// Default returns the mapping's default value, if one is set.
func (m *DomainMapping[V]) Default() (V, bool) {
	return m.def, m.hasDefault
}

// Len returns the number of registered patterns.
func (m *DomainMapping[V]) Len() int {
	return len(m.patterns)
}

// Patterns returns the registered patterns in sorted order.
func (m *DomainMapping[V]) Patterns() []string {
	out := make([]string, 0, len(m.patterns))
	for p := range m.patterns {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// clone rebuilds the mapping into fresh storage sharing the source's
// default value, and seals the copy. Later Add calls on the source
// cannot reach the clone.
func (m *DomainMapping[V]) clone() *DomainMapping[V] {
	c := &DomainMapping[V]{
		patterns:   make(map[string]V, len(m.patterns)),
		def:        m.def,
		hasDefault: m.hasDefault,
		sealed:     true,
	}
	for p, v := range m.patterns {
		c.patterns[p] = v
	}
	return c
}
