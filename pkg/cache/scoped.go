package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// (or grid indexes) can share one Redis without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "hexglobe:h3:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// If inner is nil, a DefaultKeyer is used.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GeometryKey generates a prefixed geometry key.
func (k *ScopedKeyer) GeometryKey(op, cell, arg string) string {
	return k.prefix + k.inner.GeometryKey(op, cell, arg)
}

// NeighborsKey generates a prefixed neighbors key.
func (k *ScopedKeyer) NeighborsKey(cell string) string {
	return k.prefix + k.inner.NeighborsKey(cell)
}

// LadderKey generates a prefixed ladder key.
func (k *ScopedKeyer) LadderKey(cell string) string {
	return k.prefix + k.inner.LadderKey(cell)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(center string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(center, opts)
}

// LocateKey generates a prefixed locate key.
func (k *ScopedKeyer) LocateKey(lat, lng float64, res int) string {
	return k.prefix + k.inner.LocateKey(lat, lng, res)
}
