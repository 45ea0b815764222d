package cache

// Keyer builds cache keys.
type Keyer interface {
	// NodeKey returns the key of the canonical node for value under the
	// named resolver.
	NodeKey(resolver, value string) string

	// DocumentKey returns the key of a whole encoded document, addressed by
	// its content hash.
	DocumentKey(hash string) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// NodeKey returns "node:<resolver>:<sha256(value)>".
func (DefaultKeyer) NodeKey(resolver, value string) string {
	return hashKey("node:"+resolver, value)
}

// DocumentKey returns "doc:<hash>".
func (DefaultKeyer) DocumentKey(hash string) string {
	return "doc:" + hash
}
