package cache

// ScopedKeyer wraps a Keyer with a prefix so several graphs or tenants can
// share one backend without key collisions.
//
// Example usage:
//
//	// Per-project keys
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:billing:")
//
//	// Shared keys
//	sharedKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// NodeKey generates a prefixed canonical node key.
func (k *ScopedKeyer) NodeKey(resolver, value string) string {
	return k.prefix + k.inner.NodeKey(resolver, value)
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(hash string) string {
	return k.prefix + k.inner.DocumentKey(hash)
}
