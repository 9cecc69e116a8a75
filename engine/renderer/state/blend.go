package state

import "strconv"

// MaxRenderTargets is the number of simultaneously bound render targets a
// blend descriptor carries state for.
const MaxRenderTargets = 8

/** @brief Blend configuration of a single render target. */
type BlendTarget struct {
	/** @brief Enables blending for this target. When false the source colour is written as-is. */
	IsBlendingEnabled bool
	/** @brief Factor applied to the source colour. */
	SourceBlend Blend
	/** @brief Factor applied to the destination colour. */
	DestinationBlend Blend
	/** @brief How the weighted colours are combined. */
	BlendOperation BlendOperation
	/** @brief Factor applied to the source alpha. */
	SourceAlphaBlend Blend
	/** @brief Factor applied to the destination alpha. */
	DestinationAlphaBlend Blend
	/** @brief How the weighted alphas are combined. */
	AlphaBlendOperation BlendOperation
	/** @brief Channels written to the render target. */
	WriteMask ColorWriteChannels
}

func (t BlendTarget) Equal(o BlendTarget) bool {
	return t.IsBlendingEnabled == o.IsBlendingEnabled &&
		t.SourceBlend == o.SourceBlend &&
		t.DestinationBlend == o.DestinationBlend &&
		t.BlendOperation == o.BlendOperation &&
		t.SourceAlphaBlend == o.SourceAlphaBlend &&
		t.DestinationAlphaBlend == o.DestinationAlphaBlend &&
		t.AlphaBlendOperation == o.AlphaBlendOperation &&
		t.WriteMask == o.WriteMask
}

func (t BlendTarget) hash(h uint64) uint64 {
	h = hashCombine(h, hashBool(t.IsBlendingEnabled))
	h = hashCombine(h, uint64(t.SourceBlend))
	h = hashCombine(h, uint64(t.DestinationBlend))
	h = hashCombine(h, uint64(t.BlendOperation))
	h = hashCombine(h, uint64(t.SourceAlphaBlend))
	h = hashCombine(h, uint64(t.DestinationAlphaBlend))
	h = hashCombine(h, uint64(t.AlphaBlendOperation))
	h = hashCombine(h, uint64(t.WriteMask))
	return h
}

/** @brief Output merger blend configuration. */
type BlendState struct {
	/** @brief Use the alpha channel as a multisample coverage mask. */
	AlphaToCoverageEnable bool
	/** @brief When false only RenderTargets[0] is applied, to every target. */
	IndependentBlendEnable bool
	RenderTargets          [MaxRenderTargets]BlendTarget
}

func (b BlendState) Stage() Stage {
	return StageBlend
}

// Equal compares all render targets, whatever IndependentBlendEnable says.
func (b BlendState) Equal(o BlendState) bool {
	if b.AlphaToCoverageEnable != o.AlphaToCoverageEnable || b.IndependentBlendEnable != o.IndependentBlendEnable {
		return false
	}
	for i := 0; i < MaxRenderTargets; i++ {
		if !b.RenderTargets[i].Equal(o.RenderTargets[i]) {
			return false
		}
	}
	return true
}

func (b BlendState) Hash() uint64 {
	h := hashCombine(hashSeed, hashBool(b.AlphaToCoverageEnable))
	h = hashCombine(h, hashBool(b.IndependentBlendEnable))
	for i := 0; i < MaxRenderTargets; i++ {
		h = b.RenderTargets[i].hash(h)
	}
	return h
}

func (b BlendState) Validate() error {
	var reasons []string

	unset := true
	for _, t := range b.RenderTargets {
		if t.BlendOperation != BlendOperationUnset || t.AlphaBlendOperation != BlendOperationUnset {
			unset = false
			break
		}
	}
	if unset {
		reasons = append(reasons, "blend operations are unset on every render target")
	}

	for i, t := range b.effectiveTargets() {
		if !t.IsBlendingEnabled {
			continue
		}
		if t.SourceBlend == BlendUnset || t.DestinationBlend == BlendUnset ||
			t.SourceAlphaBlend == BlendUnset || t.DestinationAlphaBlend == BlendUnset {
			reasons = append(reasons, "render target "+strconv.Itoa(i)+" enables blending with unset blend factors")
		}
	}
	return newWarning(StageBlend, reasons)
}

func (b BlendState) effectiveTargets() []BlendTarget {
	if !b.IndependentBlendEnable {
		return b.RenderTargets[:1]
	}
	return b.RenderTargets[:]
}

// Applied returns the descriptor as the device has to see it: with
// independent blending off, render target 0 is replicated to every target.
func (b BlendState) Applied() BlendState {
	if b.IndependentBlendEnable {
		return b
	}
	out := b
	for i := 1; i < MaxRenderTargets; i++ {
		out.RenderTargets[i] = b.RenderTargets[0]
	}
	return out
}

// WithTarget returns a copy with render target i replaced.
func (b BlendState) WithTarget(i int, t BlendTarget) BlendState {
	b.RenderTargets[i] = t
	return b
}

func opaqueTarget() BlendTarget {
	return BlendTarget{
		IsBlendingEnabled:     false,
		SourceBlend:           BlendOne,
		DestinationBlend:      BlendZero,
		BlendOperation:        BlendOperationAdd,
		SourceAlphaBlend:      BlendOne,
		DestinationAlphaBlend: BlendZero,
		AlphaBlendOperation:   BlendOperationAdd,
		WriteMask:             ColorWriteAll,
	}
}

func blendPreset(t BlendTarget) BlendState {
	b := BlendState{}
	for i := range b.RenderTargets {
		b.RenderTargets[i] = t
	}
	return b
}

// BlendDefault disables blending on every target and writes all channels.
func BlendDefault() BlendState {
	return BlendOpaque()
}

func BlendOpaque() BlendState {
	return blendPreset(opaqueTarget())
}

// BlendAlpha blends premultiplied alpha sources.
func BlendAlpha() BlendState {
	t := opaqueTarget()
	t.IsBlendingEnabled = true
	t.SourceBlend = BlendOne
	t.SourceAlphaBlend = BlendOne
	t.DestinationBlend = BlendInverseSourceAlpha
	t.DestinationAlphaBlend = BlendInverseSourceAlpha
	return blendPreset(t)
}

// BlendNonPremultiplied is the classic SourceAlpha / InverseSourceAlpha mix.
func BlendNonPremultiplied() BlendState {
	t := opaqueTarget()
	t.IsBlendingEnabled = true
	t.SourceBlend = BlendSourceAlpha
	t.SourceAlphaBlend = BlendSourceAlpha
	t.DestinationBlend = BlendInverseSourceAlpha
	t.DestinationAlphaBlend = BlendInverseSourceAlpha
	return blendPreset(t)
}

func BlendAdditive() BlendState {
	t := opaqueTarget()
	t.IsBlendingEnabled = true
	t.SourceBlend = BlendSourceAlpha
	t.SourceAlphaBlend = BlendSourceAlpha
	t.DestinationBlend = BlendOne
	t.DestinationAlphaBlend = BlendOne
	return blendPreset(t)
}
