package core

import "fmt"

// StateMetrics counts what a state controller and its cache did. One
// instance per controller; no locking, the owner is single threaded.
type StateMetrics struct {
	Resolves          uint64
	Hits              uint64
	Constructs        uint64
	ConstructFailures uint64
	Binds             uint64
	SkippedBinds      uint64
	BindFailures      uint64
	Purges            uint64
	Evictions         uint64
	Releases          uint64
}

func (m *StateMetrics) RecordResolve(hit bool) {
	m.Resolves++
	if hit {
		m.Hits++
	}
}

func (m *StateMetrics) RecordConstruct(err error) {
	if err != nil {
		m.ConstructFailures++
		return
	}
	m.Constructs++
}

func (m *StateMetrics) RecordBind(err error) {
	if err != nil {
		m.BindFailures++
		return
	}
	m.Binds++
}

func (m *StateMetrics) RecordSkippedBind() {
	m.SkippedBinds++
}

func (m *StateMetrics) RecordPurge() {
	m.Purges++
}

// RecordEviction counts one full eviction that released n entries.
func (m *StateMetrics) RecordEviction(n int) {
	m.Evictions++
	m.Releases += uint64(n)
}

func (m *StateMetrics) RecordRelease() {
	m.Releases++
}

// HitRatio returns the share of resolves answered from the cache.
func (m *StateMetrics) HitRatio() float64 {
	if m.Resolves == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.Resolves)
}

// Snapshot returns a copy that is safe to keep around.
func (m *StateMetrics) Snapshot() StateMetrics {
	return *m
}

func (m StateMetrics) String() string {
	return fmt.Sprintf("resolves=%d hits=%d constructs=%d construct_failures=%d binds=%d skipped=%d bind_failures=%d purges=%d evictions=%d releases=%d",
		m.Resolves, m.Hits, m.Constructs, m.ConstructFailures, m.Binds, m.SkippedBinds, m.BindFailures, m.Purges, m.Evictions, m.Releases)
}
