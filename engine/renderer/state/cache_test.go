package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEqualValuesShareOneHandle(t *testing.T) {
	f := &fakeBackend[BlendState]{}
	c := newFakeCache(f)

	a, err := c.Resolve(BlendNonPremultiplied())
	require.NoError(t, err)
	b, err := c.Resolve(BlendNonPremultiplied())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, f.constructs, 1)
	assert.Equal(t, 1, c.Len())
}

func TestCacheDistinctValuesGetDistinctHandles(t *testing.T) {
	f := &fakeBackend[DepthStencilState]{}
	c := newFakeCache(f)

	a, err := c.Resolve(DepthDefault())
	require.NoError(t, err)
	b, err := c.Resolve(DepthRead())
	require.NoError(t, err)
	n, err := c.Resolve(DepthNone())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, n)
	assert.NotEqual(t, a, n)
	assert.Len(t, f.constructs, 3)
}

func TestCachePurgeForcesReconstruction(t *testing.T) {
	f := &fakeBackend[RasterizerState]{}
	c := newFakeCache(f)

	first, err := c.Resolve(RasterizerWireframe())
	require.NoError(t, err)

	handle, found, err := c.Purge(RasterizerWireframe())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first, handle)
	assert.Equal(t, []int{first}, f.releases)
	assert.Zero(t, c.Len())

	second, err := c.Resolve(RasterizerWireframe())
	require.NoError(t, err)
	assert.Len(t, f.constructs, 2)
	assert.NotEqual(t, first, second)
}

func TestCachePurgeAbsentIsNoop(t *testing.T) {
	f := &fakeBackend[RasterizerState]{}
	c := newFakeCache(f)
	_, err := c.Resolve(RasterizerCullBack())
	require.NoError(t, err)

	_, found, err := c.Purge(RasterizerCullNone())
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, f.releases)
	assert.Equal(t, 1, c.Len())
}

func TestCacheEvictAllReleasesEveryHandleOnce(t *testing.T) {
	f := &fakeBackend[SamplerState]{}
	c := newFakeCache(f)
	for _, s := range []SamplerState{SamplerLinearClamp(), SamplerLinearWrap(), SamplerPointClamp(), SamplerPointWrap()} {
		_, err := c.Resolve(s)
		require.NoError(t, err)
	}

	require.NoError(t, c.EvictAll())
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, f.releases)
	assert.Zero(t, c.Len())

	require.NoError(t, c.EvictAll())
	assert.Len(t, f.releases, 4)

	_, err := c.Resolve(SamplerLinearClamp())
	require.NoError(t, err)
	assert.Len(t, f.constructs, 5)
}

func TestCacheEvictAllCollectsReleaseErrors(t *testing.T) {
	f := &fakeBackend[SamplerState]{failRelease: true}
	c := newFakeCache(f)
	_, err := c.Resolve(SamplerLinearClamp())
	require.NoError(t, err)
	_, err = c.Resolve(SamplerPointClamp())
	require.NoError(t, err)

	err = c.EvictAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, errFake)
	assert.Len(t, f.releases, 2)
	assert.Zero(t, c.Len())
}

func TestCacheFailedConstructionIsNotStored(t *testing.T) {
	reject := true
	f := &fakeBackend[BlendState]{rejectConstruct: func(BlendState) bool { return reject }}
	c := newFakeCache(f)

	_, err := c.Resolve(BlendAdditive())
	require.Error(t, err)

	var creationErr *StateCreationError
	require.True(t, errors.As(err, &creationErr))
	assert.Equal(t, StageBlend, creationErr.Stage)
	assert.Equal(t, BlendAdditive(), creationErr.Descriptor)
	assert.ErrorIs(t, err, errFake)
	assert.Zero(t, c.Len())

	reject = false
	h, err := c.Resolve(BlendAdditive())
	require.NoError(t, err)
	assert.Equal(t, 1, h)
	assert.Len(t, f.constructs, 1)
}

func TestCacheEpsilonEqualDescriptorsHit(t *testing.T) {
	f := &fakeBackend[RasterizerState]{}
	c := newFakeCache(f)

	a := RasterizerCullBack()
	a.SlopeScaledDepthBias = 0.5
	b := a
	b.SlopeScaledDepthBias = 0.5 + Epsilon/4

	ha, err := c.Resolve(a)
	require.NoError(t, err)
	hb, err := c.Resolve(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, f.constructs, 1)

	d := a
	d.SlopeScaledDepthBias = 0.75
	hd, err := c.Resolve(d)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hd)
}

func TestCacheStoresNormalizedSamplerKey(t *testing.T) {
	f := &fakeBackend[SamplerState]{}
	c := newFakeCache(f)

	inverted := SamplerLinearClamp()
	inverted.MinimumLevelOfDetail = 10
	inverted.MaximumLevelOfDetail = 0

	_, err := c.Resolve(inverted)
	require.NoError(t, err)
	require.Len(t, f.constructs, 1)
	assert.Equal(t, float32(0), f.constructs[0].MinimumLevelOfDetail)
	assert.Equal(t, float32(10), f.constructs[0].MaximumLevelOfDetail)

	ordered := inverted
	ordered.MinimumLevelOfDetail, ordered.MaximumLevelOfDetail = 0, 10
	_, ok := c.Lookup(ordered)
	assert.True(t, ok)
}

func TestCacheLookupDoesNotConstruct(t *testing.T) {
	f := &fakeBackend[BlendState]{}
	c := newFakeCache(f)

	_, ok := c.Lookup(BlendOpaque())
	assert.False(t, ok)
	assert.Empty(t, f.constructs)
}

func TestCacheMaxEntriesOnlyWarns(t *testing.T) {
	f := &fakeBackend[RasterizerState]{}
	c := newFakeCache(f)
	c.SetMaxEntries(2)

	for i := int32(0); i < 5; i++ {
		r := RasterizerCullBack()
		r.DepthBias = i
		_, err := c.Resolve(r)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, c.Len())
	assert.Empty(t, f.releases)
}
