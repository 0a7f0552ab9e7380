package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several tenants or
// deployments can share one backend:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SourceKey(kind, location string) string {
	return k.prefix + k.inner.SourceKey(kind, location)
}

func (k *ScopedKeyer) TableKey(storeHash, table string, opts TableKeyOpts) string {
	return k.prefix + k.inner.TableKey(storeHash, table, opts)
}

func (k *ScopedKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(tableHash, opts)
}
