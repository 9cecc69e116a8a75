package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer/state"
)

func blendFactor(b state.Blend) (vk.BlendFactor, error) {
	switch b {
	case state.BlendZero:
		return vk.BlendFactorZero, nil
	case state.BlendOne:
		return vk.BlendFactorOne, nil
	case state.BlendSourceColor:
		return vk.BlendFactorSrcColor, nil
	case state.BlendInverseSourceColor:
		return vk.BlendFactorOneMinusSrcColor, nil
	case state.BlendSourceAlpha:
		return vk.BlendFactorSrcAlpha, nil
	case state.BlendInverseSourceAlpha:
		return vk.BlendFactorOneMinusSrcAlpha, nil
	case state.BlendDestinationColor:
		return vk.BlendFactorDstColor, nil
	case state.BlendInverseDestinationColor:
		return vk.BlendFactorOneMinusDstColor, nil
	case state.BlendDestinationAlpha:
		return vk.BlendFactorDstAlpha, nil
	case state.BlendInverseDestinationAlpha:
		return vk.BlendFactorOneMinusDstAlpha, nil
	case state.BlendSourceAlphaSaturate:
		return vk.BlendFactorSrcAlphaSaturate, nil
	case state.BlendBlendFactor:
		return vk.BlendFactorConstantColor, nil
	case state.BlendInverseBlendFactor:
		return vk.BlendFactorOneMinusConstantColor, nil
	}
	return 0, fmt.Errorf("%w: blend factor %s", core.ErrStateRejected, b)
}

func blendOp(op state.BlendOperation) (vk.BlendOp, error) {
	switch op {
	case state.BlendOperationAdd:
		return vk.BlendOpAdd, nil
	case state.BlendOperationSubtract:
		return vk.BlendOpSubtract, nil
	case state.BlendOperationReverseSubtract:
		return vk.BlendOpReverseSubtract, nil
	case state.BlendOperationMin:
		return vk.BlendOpMin, nil
	case state.BlendOperationMax:
		return vk.BlendOpMax, nil
	}
	return 0, fmt.Errorf("%w: blend operation %s", core.ErrStateRejected, op)
}

func colorWriteMask(c state.ColorWriteChannels) vk.ColorComponentFlags {
	var mask vk.ColorComponentFlags
	if c&state.ColorWriteRed != 0 {
		mask |= vk.ColorComponentFlags(vk.ColorComponentRBit)
	}
	if c&state.ColorWriteGreen != 0 {
		mask |= vk.ColorComponentFlags(vk.ColorComponentGBit)
	}
	if c&state.ColorWriteBlue != 0 {
		mask |= vk.ColorComponentFlags(vk.ColorComponentBBit)
	}
	if c&state.ColorWriteAlpha != 0 {
		mask |= vk.ColorComponentFlags(vk.ColorComponentABit)
	}
	return mask
}

func compareOp(c state.CompareFunction) (vk.CompareOp, error) {
	switch c {
	case state.CompareNever:
		return vk.CompareOpNever, nil
	case state.CompareLess:
		return vk.CompareOpLess, nil
	case state.CompareEqual:
		return vk.CompareOpEqual, nil
	case state.CompareLessEqual:
		return vk.CompareOpLessOrEqual, nil
	case state.CompareGreater:
		return vk.CompareOpGreater, nil
	case state.CompareNotEqual:
		return vk.CompareOpNotEqual, nil
	case state.CompareGreaterEqual:
		return vk.CompareOpGreaterOrEqual, nil
	case state.CompareAlways:
		return vk.CompareOpAlways, nil
	}
	return 0, fmt.Errorf("%w: compare function %s", core.ErrStateRejected, c)
}

func stencilOp(s state.StencilOperation) (vk.StencilOp, error) {
	switch s {
	case state.StencilKeep:
		return vk.StencilOpKeep, nil
	case state.StencilZero:
		return vk.StencilOpZero, nil
	case state.StencilReplace:
		return vk.StencilOpReplace, nil
	case state.StencilIncrementSaturate:
		return vk.StencilOpIncrementAndClamp, nil
	case state.StencilDecrementSaturate:
		return vk.StencilOpDecrementAndClamp, nil
	case state.StencilInvert:
		return vk.StencilOpInvert, nil
	case state.StencilIncrement:
		return vk.StencilOpIncrementAndWrap, nil
	case state.StencilDecrement:
		return vk.StencilOpDecrementAndWrap, nil
	}
	return 0, fmt.Errorf("%w: stencil operation %s", core.ErrStateRejected, s)
}

func cullMode(c state.CullMode) (vk.CullModeFlags, error) {
	switch c {
	case state.CullModeNone:
		return vk.CullModeFlags(vk.CullModeNone), nil
	case state.CullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit), nil
	case state.CullModeBack:
		return vk.CullModeFlags(vk.CullModeBackBit), nil
	}
	return 0, fmt.Errorf("%w: cull mode %s", core.ErrStateRejected, c)
}

func polygonMode(f state.FillMode) (vk.PolygonMode, error) {
	switch f {
	case state.FillModeSolid:
		return vk.PolygonModeFill, nil
	case state.FillModeWireframe:
		return vk.PolygonModeLine, nil
	}
	return 0, fmt.Errorf("%w: fill mode %s", core.ErrStateRejected, f)
}

func frontFace(counterClockwise bool) vk.FrontFace {
	if counterClockwise {
		return vk.FrontFaceCounterClockwise
	}
	return vk.FrontFaceClockwise
}

func filter(f state.FilterType) vk.Filter {
	if f == state.FilterTypeLinear {
		return vk.FilterLinear
	}
	return vk.FilterNearest
}

func mipmapMode(f state.FilterType) vk.SamplerMipmapMode {
	if f == state.FilterTypeLinear {
		return vk.SamplerMipmapModeLinear
	}
	return vk.SamplerMipmapModeNearest
}

func addressMode(a state.TextureAddressMode) (vk.SamplerAddressMode, error) {
	switch a {
	case state.TextureAddressWrap:
		return vk.SamplerAddressModeRepeat, nil
	case state.TextureAddressMirror:
		return vk.SamplerAddressModeMirroredRepeat, nil
	case state.TextureAddressClamp:
		return vk.SamplerAddressModeClampToEdge, nil
	case state.TextureAddressBorder:
		return vk.SamplerAddressModeClampToBorder, nil
	case state.TextureAddressMirrorOnce:
		return vk.SamplerAddressModeMirrorClampToEdge, nil
	}
	return 0, fmt.Errorf("%w: address mode %s", core.ErrStateRejected, a)
}

// Vulkan only knows three border colors, anything else snaps to the closest.
func borderColor(c state.Color4) vk.BorderColor {
	if c.A < 0.5 {
		return vk.BorderColorFloatTransparentBlack
	}
	if c.R+c.G+c.B >= 1.5 {
		return vk.BorderColorFloatOpaqueWhite
	}
	return vk.BorderColorFloatOpaqueBlack
}

func vkBool(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
