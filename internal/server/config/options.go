package config

// Option identifies a socket option applied to accepted connections.
// Keys are opaque to this package; the connection-lifecycle manager
// interprets them when configuring each socket.
type Option string

// Well-known socket options.
const (
	OptionKeepAlive       Option = "keep-alive"
	OptionKeepAlivePeriod Option = "keep-alive-period"
	OptionNoDelay         Option = "tcp-no-delay"
	OptionRecvBuffer      Option = "recv-buffer"
	OptionSendBuffer      Option = "send-buffer"
	OptionLinger          Option = "linger"

	// Listen-time knobs. Not every platform honors them; unsupported
	// keys are skipped when options are applied.
	OptionReusePort   Option = "reuse-port"
	OptionFastOpen    Option = "tcp-fast-open"
	OptionDeferAccept Option = "tcp-defer-accept"
)

// OptionEntry is a single key/value pair in an OptionSet.
type OptionEntry struct {
	Key   Option
	Value any
}

// OptionSet is an immutable, insertion-ordered set of socket options.
// Order is preserved because applying one option can depend on an
// earlier one already being in effect.
type OptionSet struct {
	entries []OptionEntry
	index   map[Option]int
}

// newOptionSet copies src into an immutable set. The source slice is
// never aliased, so builder mutation after the copy has no effect.
func newOptionSet(src []OptionEntry) *OptionSet {
	s := &OptionSet{
		entries: make([]OptionEntry, len(src)),
		index:   make(map[Option]int, len(src)),
	}
	copy(s.entries, src)
	for i, e := range s.entries {
		s.index[e.Key] = i
	}
	return s
}

// Get returns the value for a key, if present.
func (s *OptionSet) Get(key Option) (any, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return s.entries[i].Value, true
}

// Entries returns the options in insertion order. The returned slice
// is a copy; callers may iterate it any number of times.
func (s *OptionSet) Entries() []OptionEntry {
	out := make([]OptionEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of options in the set.
func (s *OptionSet) Len() int {
	return len(s.entries)
}
