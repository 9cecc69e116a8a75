package state

/** @brief Stencil operations for one triangle facing. */
type StencilFace struct {
	/** @brief Applied when the stencil test fails. */
	FailOperation StencilOperation
	/** @brief Applied when the stencil test passes and the depth test fails. */
	DepthFailOperation StencilOperation
	/** @brief Applied when both tests pass. */
	PassOperation StencilOperation
	/** @brief Compares the reference value against the stored stencil value. */
	Comparison CompareFunction
}

func (f StencilFace) Equal(o StencilFace) bool {
	return f.FailOperation == o.FailOperation &&
		f.DepthFailOperation == o.DepthFailOperation &&
		f.PassOperation == o.PassOperation &&
		f.Comparison == o.Comparison
}

func (f StencilFace) hash(h uint64) uint64 {
	h = hashCombine(h, uint64(f.FailOperation))
	h = hashCombine(h, uint64(f.DepthFailOperation))
	h = hashCombine(h, uint64(f.PassOperation))
	h = hashCombine(h, uint64(f.Comparison))
	return h
}

func (f StencilFace) unset() bool {
	return f.FailOperation == StencilUnset && f.DepthFailOperation == StencilUnset && f.PassOperation == StencilUnset
}

/** @brief Depth and stencil test configuration. */
type DepthStencilState struct {
	IsDepthEnabled   bool
	DepthWriteMask   DepthWriteMask
	DepthComparison  CompareFunction
	IsStencilEnabled bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        StencilFace
	BackFace         StencilFace
}

func (d DepthStencilState) Stage() Stage {
	return StageDepthStencil
}

func (d DepthStencilState) Equal(o DepthStencilState) bool {
	return d.IsDepthEnabled == o.IsDepthEnabled &&
		d.DepthWriteMask == o.DepthWriteMask &&
		d.DepthComparison == o.DepthComparison &&
		d.IsStencilEnabled == o.IsStencilEnabled &&
		d.StencilReadMask == o.StencilReadMask &&
		d.StencilWriteMask == o.StencilWriteMask &&
		d.FrontFace.Equal(o.FrontFace) &&
		d.BackFace.Equal(o.BackFace)
}

func (d DepthStencilState) Hash() uint64 {
	h := hashCombine(hashSeed, hashBool(d.IsDepthEnabled))
	h = hashCombine(h, uint64(d.DepthWriteMask))
	h = hashCombine(h, uint64(d.DepthComparison))
	h = hashCombine(h, hashBool(d.IsStencilEnabled))
	h = hashCombine(h, uint64(d.StencilReadMask))
	h = hashCombine(h, uint64(d.StencilWriteMask))
	h = d.FrontFace.hash(h)
	h = d.BackFace.hash(h)
	return h
}

func (d DepthStencilState) Validate() error {
	var reasons []string
	if d.FrontFace.unset() && d.BackFace.unset() {
		reasons = append(reasons, "all stencil operations are unset")
	}
	if d.IsDepthEnabled && d.DepthComparison == CompareUnset {
		reasons = append(reasons, "depth test enabled with an unset comparison")
	}
	if d.IsStencilEnabled && (d.FrontFace.Comparison == CompareUnset || d.BackFace.Comparison == CompareUnset) {
		reasons = append(reasons, "stencil test enabled with an unset comparison")
	}
	return newWarning(StageDepthStencil, reasons)
}

func keepFace() StencilFace {
	return StencilFace{
		FailOperation:      StencilKeep,
		DepthFailOperation: StencilKeep,
		PassOperation:      StencilKeep,
		Comparison:         CompareAlways,
	}
}

// DepthDefault tests and writes depth with a Less comparison, stencil off.
func DepthDefault() DepthStencilState {
	return DepthStencilState{
		IsDepthEnabled:   true,
		DepthWriteMask:   DepthWriteMaskAll,
		DepthComparison:  CompareLess,
		IsStencilEnabled: false,
		StencilReadMask:  0xff,
		StencilWriteMask: 0xff,
		FrontFace:        keepFace(),
		BackFace:         keepFace(),
	}
}

// DepthRead tests depth without writing it.
func DepthRead() DepthStencilState {
	d := DepthDefault()
	d.DepthWriteMask = DepthWriteMaskZero
	d.DepthComparison = CompareLessEqual
	return d
}

func DepthNone() DepthStencilState {
	d := DepthDefault()
	d.IsDepthEnabled = false
	d.DepthWriteMask = DepthWriteMaskZero
	return d
}
