package state

/** @brief Rasterizer configuration. */
type RasterizerState struct {
	FillMode FillMode
	CullMode CullMode
	/** @brief Counter clockwise triangles are front facing when true. */
	IsFrontCounterClockwise bool
	/** @brief Constant depth value added to each pixel. */
	DepthBias int32
	/** @brief Maximum depth bias of a pixel. Compared with Epsilon. */
	DepthBiasClamp float32
	/** @brief Scalar on a pixel's slope. Compared with Epsilon. */
	SlopeScaledDepthBias     float32
	IsDepthClipEnabled       bool
	IsScissorEnabled         bool
	IsMultisampleEnabled     bool
	IsAntialiasedLineEnabled bool
}

func (r RasterizerState) Stage() Stage {
	return StageRasterizer
}

func (r RasterizerState) Equal(o RasterizerState) bool {
	return r.FillMode == o.FillMode &&
		r.CullMode == o.CullMode &&
		r.IsFrontCounterClockwise == o.IsFrontCounterClockwise &&
		r.DepthBias == o.DepthBias &&
		floatEqual(r.DepthBiasClamp, o.DepthBiasClamp) &&
		floatEqual(r.SlopeScaledDepthBias, o.SlopeScaledDepthBias) &&
		r.IsDepthClipEnabled == o.IsDepthClipEnabled &&
		r.IsScissorEnabled == o.IsScissorEnabled &&
		r.IsMultisampleEnabled == o.IsMultisampleEnabled &&
		r.IsAntialiasedLineEnabled == o.IsAntialiasedLineEnabled
}

func (r RasterizerState) Hash() uint64 {
	h := hashCombine(hashSeed, uint64(r.FillMode))
	h = hashCombine(h, uint64(r.CullMode))
	h = hashCombine(h, hashBool(r.IsFrontCounterClockwise))
	h = hashCombine(h, uint64(uint32(r.DepthBias)))
	h = hashCombine(h, hashBool(r.IsDepthClipEnabled))
	h = hashCombine(h, hashBool(r.IsScissorEnabled))
	h = hashCombine(h, hashBool(r.IsMultisampleEnabled))
	h = hashCombine(h, hashBool(r.IsAntialiasedLineEnabled))
	return h
}

func (r RasterizerState) Validate() error {
	var reasons []string
	if r.FillMode == FillModeUnset && r.CullMode == CullModeUnset {
		reasons = append(reasons, "fill and cull modes are unset")
	}
	if !isFinite(r.DepthBiasClamp) || !isFinite(r.SlopeScaledDepthBias) {
		reasons = append(reasons, "depth bias clamp and slope must be finite")
	}
	return newWarning(StageRasterizer, reasons)
}

// RasterizerDefault fills solid triangles and culls back faces.
func RasterizerDefault() RasterizerState {
	return RasterizerCullBack()
}

func RasterizerCullBack() RasterizerState {
	return RasterizerState{
		FillMode:                 FillModeSolid,
		CullMode:                 CullModeBack,
		IsFrontCounterClockwise:  false,
		DepthBias:                0,
		DepthBiasClamp:           0,
		SlopeScaledDepthBias:     0,
		IsDepthClipEnabled:       true,
		IsScissorEnabled:         false,
		IsMultisampleEnabled:     false,
		IsAntialiasedLineEnabled: false,
	}
}

func RasterizerCullFront() RasterizerState {
	r := RasterizerCullBack()
	r.CullMode = CullModeFront
	return r
}

func RasterizerCullNone() RasterizerState {
	r := RasterizerCullBack()
	r.CullMode = CullModeNone
	return r
}

func RasterizerWireframe() RasterizerState {
	r := RasterizerCullNone()
	r.FillMode = FillModeWireframe
	return r
}
