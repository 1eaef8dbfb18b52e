package cache

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when
// no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                          {}
func (NoopMetrics) Miss()                         {}
func (NoopMetrics) Evict(EvictReason)             {}
func (NoopMetrics) Size(entries int, usage int64) {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}

// Stats is a point-in-time snapshot of cache counters. Entries counts
// resident entries; Usage includes charge still held by pinned,
// already-detached entries. Evictions counts capacity-driven evictions.
type Stats struct {
	Entries   int
	Usage     int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
