package state

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertConsistent[D Descriptor[D]](t *testing.T, a, b D) {
	t.Helper()
	if a.Equal(b) {
		assert.Equal(t, a.Hash(), b.Hash(), "equal descriptors must hash alike: %+v / %+v", a, b)
	}
	assert.Equal(t, a.Equal(b), b.Equal(a))
}

func TestBlendPresetsAreDistinctAndConsistent(t *testing.T) {
	presets := []BlendState{BlendOpaque(), BlendAlpha(), BlendNonPremultiplied(), BlendAdditive()}
	for i := range presets {
		assert.True(t, presets[i].Equal(presets[i]))
		for j := range presets {
			assertConsistent(t, presets[i], presets[j])
			if i != j {
				assert.False(t, presets[i].Equal(presets[j]))
			}
		}
	}
	assert.True(t, BlendDefault().Equal(BlendOpaque()))
}

func TestBlendEqualComparesEveryTarget(t *testing.T) {
	a := BlendOpaque()
	b := BlendOpaque()
	b.RenderTargets[7].WriteMask = ColorWriteRed

	// independent blending is off, the targets still take part in equality
	assert.False(t, a.Equal(b))
	assert.True(t, a.Applied().Equal(b.Applied()))
}

func TestBlendApplied(t *testing.T) {
	b := BlendOpaque().WithTarget(0, BlendAdditive().RenderTargets[0])
	applied := b.Applied()
	for i := 0; i < MaxRenderTargets; i++ {
		assert.Equal(t, b.RenderTargets[0], applied.RenderTargets[i])
	}

	b.IndependentBlendEnable = true
	assert.Equal(t, b, b.Applied())
}

func TestPresetsReturnCopies(t *testing.T) {
	b := BlendOpaque()
	b.RenderTargets[0].IsBlendingEnabled = true
	assert.False(t, BlendOpaque().RenderTargets[0].IsBlendingEnabled)

	s := SamplerDefault()
	s.AddressU = TextureAddressWrap
	assert.Equal(t, TextureAddressClamp, SamplerDefault().AddressU)
}

func TestBlendValidate(t *testing.T) {
	assert.NoError(t, BlendOpaque().Validate())
	assert.NoError(t, BlendAdditive().Validate())

	var warning *InvalidDescriptorWarning
	err := BlendState{}.Validate()
	require.True(t, errors.As(err, &warning))
	assert.Equal(t, StageBlend, warning.Stage)

	half := BlendOpaque()
	half.RenderTargets[0].IsBlendingEnabled = true
	half.RenderTargets[0].SourceBlend = BlendUnset
	assert.Error(t, half.Validate())
}

func TestDepthStencilEqualityAndValidate(t *testing.T) {
	a := DepthDefault()
	b := DepthDefault()
	b.BackFace.PassOperation = StencilReplace
	assert.False(t, a.Equal(b))
	assertConsistent(t, a, DepthDefault())

	assert.NoError(t, DepthDefault().Validate())
	assert.NoError(t, DepthRead().Validate())
	assert.NoError(t, DepthNone().Validate())
	assert.Error(t, DepthStencilState{}.Validate())

	s := DepthDefault()
	s.IsStencilEnabled = true
	s.FrontFace.Comparison = CompareUnset
	assert.Error(t, s.Validate())
}

func TestRasterizerEpsilonEquality(t *testing.T) {
	a := RasterizerDefault()
	a.SlopeScaledDepthBias = 1.5
	b := a
	b.SlopeScaledDepthBias = 1.5 + Epsilon/2
	assert.True(t, a.Equal(b))
	assertConsistent(t, a, b)

	b.SlopeScaledDepthBias = 1.5 + 10*Epsilon
	assert.False(t, a.Equal(b))

	c := a
	c.DepthBias = 4
	assert.False(t, a.Equal(c))
}

func TestRasterizerValidate(t *testing.T) {
	assert.NoError(t, RasterizerDefault().Validate())
	assert.NoError(t, RasterizerWireframe().Validate())
	assert.Error(t, RasterizerState{}.Validate())

	r := RasterizerDefault()
	r.DepthBiasClamp = float32(math.NaN())
	assert.Error(t, r.Validate())
	assert.True(t, r.Equal(r), "a NaN field still equals itself")
	assert.False(t, r.Equal(RasterizerDefault()))
}

func TestSamplerDefaults(t *testing.T) {
	s := SamplerDefault()
	assert.Equal(t, TextureFilterLinear, s.Filter)
	assert.Equal(t, TextureAddressClamp, s.AddressU)
	assert.Equal(t, TextureAddressClamp, s.AddressV)
	assert.Equal(t, TextureAddressClamp, s.AddressW)
	assert.Equal(t, float32(-math.MaxFloat32), s.MinimumLevelOfDetail)
	assert.Equal(t, float32(math.MaxFloat32), s.MaximumLevelOfDetail)
	assert.Equal(t, MaxSamplerAnisotropy, s.MaximumAnisotropy)
	assert.Equal(t, CompareNever, s.ComparisonFunction)
	assert.False(t, s.IsComparison())
	assert.NoError(t, s.Validate())
	assertConsistent(t, s, SamplerDefault())
}

func TestSamplerLodSwapOnCreation(t *testing.T) {
	s := SamplerDefault()
	s.MinimumLevelOfDetail = 10
	s.MaximumLevelOfDetail = 0

	created := NewSamplerState(s)
	assert.Equal(t, float32(0), created.MinimumLevelOfDetail)
	assert.Equal(t, float32(10), created.MaximumLevelOfDetail)
	assert.Equal(t, created, created.Normalize())
}

func TestSamplerEquality(t *testing.T) {
	a := SamplerDefault()
	b := SamplerDefault()
	b.BorderColor = Color4{R: 1, G: 1, B: 1, A: 1}
	assert.False(t, a.Equal(b))

	b = SamplerDefault()
	b.MipMapLevelOfDetailBias = Epsilon / 2
	assert.True(t, a.Equal(b))
	assertConsistent(t, a, b)

	b.AddressW = TextureAddressMirror
	assert.False(t, a.Equal(b))
}

func TestSamplerValidate(t *testing.T) {
	assert.Error(t, SamplerState{}.Validate())

	s := SamplerAnisotropicWrap()
	assert.NoError(t, s.Validate())
	s.MaximumAnisotropy = 32
	assert.Error(t, s.Validate())
}

func TestTextureFilterComponents(t *testing.T) {
	minify, magnify, mip := TextureFilterMinPointMagLinearMipLinear.Components()
	assert.Equal(t, FilterTypePoint, minify)
	assert.Equal(t, FilterTypeLinear, magnify)
	assert.Equal(t, FilterTypeLinear, mip)

	minify, magnify, mip = TextureFilterPoint.Components()
	assert.Equal(t, []FilterType{FilterTypePoint, FilterTypePoint, FilterTypePoint}, []FilterType{minify, magnify, mip})
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "InverseSourceAlpha", BlendInverseSourceAlpha.String())
	assert.Equal(t, "Add", BlendOperationAdd.String())
	assert.Equal(t, "LessEqual", CompareLessEqual.String())
	assert.Equal(t, "Keep", StencilKeep.String())
	assert.Equal(t, "Back", CullModeBack.String())
	assert.Equal(t, "Wireframe", FillModeWireframe.String())
	assert.Equal(t, "Anisotropic", TextureFilterAnisotropic.String())
	assert.Equal(t, "Clamp", TextureAddressClamp.String())
	assert.Equal(t, "All", ColorWriteAll.String())
	assert.Equal(t, "RA", (ColorWriteRed | ColorWriteAlpha).String())
	assert.Equal(t, "Blend(99)", Blend(99).String())
}
