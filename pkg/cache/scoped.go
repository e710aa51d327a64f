package cache

// ScopedKeyer wraps a Keyer with a prefix so deployments sharing one
// backend stay isolated, for example several API instances pointing at
// the same Redis:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "labelspread:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer defaults to [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PlacementKey generates a prefixed key for an arranged result.
func (k *ScopedKeyer) PlacementKey(setHash string, opts PlacementKeyOpts) string {
	return k.prefix + k.inner.PlacementKey(setHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
