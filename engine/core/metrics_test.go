package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateMetrics(t *testing.T) {
	m := &StateMetrics{}
	assert.Zero(t, m.HitRatio())

	m.RecordResolve(false)
	m.RecordConstruct(nil)
	m.RecordResolve(true)
	m.RecordResolve(false)
	m.RecordConstruct(errors.New("boom"))
	m.RecordBind(nil)
	m.RecordBind(errors.New("boom"))
	m.RecordSkippedBind()
	m.RecordPurge()
	m.RecordRelease()
	m.RecordEviction(3)

	snap := m.Snapshot()
	assert.Equal(t, uint64(3), snap.Resolves)
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(1), snap.Constructs)
	assert.Equal(t, uint64(1), snap.ConstructFailures)
	assert.Equal(t, uint64(1), snap.Binds)
	assert.Equal(t, uint64(1), snap.BindFailures)
	assert.Equal(t, uint64(1), snap.SkippedBinds)
	assert.Equal(t, uint64(1), snap.Purges)
	assert.Equal(t, uint64(1), snap.Evictions)
	assert.Equal(t, uint64(4), snap.Releases)
	assert.InDelta(t, 1.0/3.0, snap.HitRatio(), 1e-9)
	assert.Contains(t, snap.String(), "constructs=1")

	m.RecordBind(nil)
	assert.Equal(t, uint64(1), snap.Binds, "snapshot must not follow the live counters")
}
