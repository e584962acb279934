package executor

// Counters is a set of named, additive counters. Partitions build their own
// Counters and the executor merges the committed ones, so no counter is ever
// shared between goroutines.
type Counters map[string]int64

// Add increments the named counter by delta.
func (c Counters) Add(name string, delta int64) {
	c[name] += delta
}

// Get returns the named counter, or zero.
func (c Counters) Get(name string) int64 {
	return c[name]
}

// Merge adds every counter of other into c.
func (c Counters) Merge(other Counters) {
	for name, v := range other {
		c[name] += v
	}
}
