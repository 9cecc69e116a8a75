package state

import "math"

// MaxSamplerAnisotropy is the highest anisotropy level devices accept.
const MaxSamplerAnisotropy int32 = 16

/** @brief Texture sampling configuration. */
type SamplerState struct {
	Filter   TextureFilter
	AddressU TextureAddressMode
	AddressV TextureAddressMode
	AddressW TextureAddressMode
	/** @brief Offset added to the computed mip level. */
	MipMapLevelOfDetailBias float32
	/** @brief Clamp used with anisotropic filtering, 1 to 16. */
	MaximumAnisotropy  int32
	ComparisonFunction CompareFunction
	/** @brief Colour returned for Border addressing. */
	BorderColor Color4
	/** @brief Lower end of the mip range. Swapped with the upper end when larger. */
	MinimumLevelOfDetail float32
	MaximumLevelOfDetail float32
}

// NewSamplerState returns s ready to be used as a cache key.
func NewSamplerState(s SamplerState) SamplerState {
	return s.Normalize()
}

// Normalize swaps an inverted level of detail range instead of rejecting it.
func (s SamplerState) Normalize() SamplerState {
	if s.MinimumLevelOfDetail > s.MaximumLevelOfDetail {
		s.MinimumLevelOfDetail, s.MaximumLevelOfDetail = s.MaximumLevelOfDetail, s.MinimumLevelOfDetail
	}
	return s
}

func (s SamplerState) Stage() Stage {
	return StageSampler
}

func (s SamplerState) Equal(o SamplerState) bool {
	return s.Filter == o.Filter &&
		s.AddressU == o.AddressU &&
		s.AddressV == o.AddressV &&
		s.AddressW == o.AddressW &&
		floatEqual(s.MipMapLevelOfDetailBias, o.MipMapLevelOfDetailBias) &&
		s.MaximumAnisotropy == o.MaximumAnisotropy &&
		s.ComparisonFunction == o.ComparisonFunction &&
		s.BorderColor.Equal(o.BorderColor) &&
		floatEqual(s.MinimumLevelOfDetail, o.MinimumLevelOfDetail) &&
		floatEqual(s.MaximumLevelOfDetail, o.MaximumLevelOfDetail)
}

func (s SamplerState) Hash() uint64 {
	h := hashCombine(hashSeed, uint64(s.Filter))
	h = hashCombine(h, uint64(s.AddressU))
	h = hashCombine(h, uint64(s.AddressV))
	h = hashCombine(h, uint64(s.AddressW))
	h = hashCombine(h, uint64(uint32(s.MaximumAnisotropy)))
	h = hashCombine(h, uint64(s.ComparisonFunction))
	return h
}

// IsComparison reports whether the sampler performs depth comparison.
func (s SamplerState) IsComparison() bool {
	return s.ComparisonFunction != CompareUnset && s.ComparisonFunction != CompareNever
}

func (s SamplerState) Validate() error {
	var reasons []string
	if s.AddressU == TextureAddressUnset && s.AddressV == TextureAddressUnset && s.AddressW == TextureAddressUnset {
		reasons = append(reasons, "all address modes are unset")
	}
	if s.Filter == TextureFilterUnset {
		reasons = append(reasons, "filter is unset")
	}
	if s.Filter == TextureFilterAnisotropic && (s.MaximumAnisotropy < 1 || s.MaximumAnisotropy > MaxSamplerAnisotropy) {
		reasons = append(reasons, "anisotropic filtering needs a maximum anisotropy between 1 and 16")
	}
	if !isFinite(s.MipMapLevelOfDetailBias) || math.IsNaN(float64(s.MinimumLevelOfDetail)) || math.IsNaN(float64(s.MaximumLevelOfDetail)) {
		reasons = append(reasons, "level of detail values must be numbers")
	}
	return newWarning(StageSampler, reasons)
}

func samplerPreset(filter TextureFilter, address TextureAddressMode) SamplerState {
	return SamplerState{
		Filter:                  filter,
		AddressU:                address,
		AddressV:                address,
		AddressW:                address,
		MipMapLevelOfDetailBias: 0,
		MaximumAnisotropy:       MaxSamplerAnisotropy,
		ComparisonFunction:      CompareNever,
		BorderColor:             Color4{},
		MinimumLevelOfDetail:    -math.MaxFloat32,
		MaximumLevelOfDetail:    math.MaxFloat32,
	}
}

// SamplerDefault is linear filtering with clamped addressing and an
// unbounded mip range.
func SamplerDefault() SamplerState {
	return SamplerLinearClamp()
}

func SamplerLinearClamp() SamplerState {
	return samplerPreset(TextureFilterLinear, TextureAddressClamp)
}

func SamplerLinearWrap() SamplerState {
	return samplerPreset(TextureFilterLinear, TextureAddressWrap)
}

func SamplerPointClamp() SamplerState {
	return samplerPreset(TextureFilterPoint, TextureAddressClamp)
}

func SamplerPointWrap() SamplerState {
	return samplerPreset(TextureFilterPoint, TextureAddressWrap)
}

func SamplerAnisotropicClamp() SamplerState {
	return samplerPreset(TextureFilterAnisotropic, TextureAddressClamp)
}

func SamplerAnisotropicWrap() SamplerState {
	return samplerPreset(TextureFilterAnisotropic, TextureAddressWrap)
}
