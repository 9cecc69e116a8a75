package state

import "fmt"

// The zero value of every enumeration below is the "unset" sentinel. A
// descriptor built field by field that leaves a whole sub-feature at zero was
// most likely never configured, see the Validate methods.

// Stage names the fixed-function stage a descriptor configures.
type Stage string

const (
	StageBlend        Stage = "blend"
	StageDepthStencil Stage = "depth_stencil"
	StageRasterizer   Stage = "rasterizer"
	StageSampler      Stage = "sampler"
)

/** @brief Blend factor applied to a source or destination operand. */
type Blend uint8

const (
	BlendUnset Blend = iota
	BlendZero
	BlendOne
	BlendSourceColor
	BlendInverseSourceColor
	BlendSourceAlpha
	BlendInverseSourceAlpha
	BlendDestinationAlpha
	BlendInverseDestinationAlpha
	BlendDestinationColor
	BlendInverseDestinationColor
	BlendSourceAlphaSaturate
	BlendBlendFactor
	BlendInverseBlendFactor
)

var blendNames = [...]string{
	"Unset", "Zero", "One", "SourceColor", "InverseSourceColor", "SourceAlpha",
	"InverseSourceAlpha", "DestinationAlpha", "InverseDestinationAlpha",
	"DestinationColor", "InverseDestinationColor", "SourceAlphaSaturate",
	"BlendFactor", "InverseBlendFactor",
}

func (b Blend) String() string {
	return enumName(blendNames[:], int(b), "Blend")
}

/** @brief How the weighted source and destination are combined. */
type BlendOperation uint8

const (
	BlendOperationUnset BlendOperation = iota
	BlendOperationAdd
	BlendOperationSubtract
	BlendOperationReverseSubtract
	BlendOperationMin
	BlendOperationMax
)

var blendOperationNames = [...]string{"Unset", "Add", "Subtract", "ReverseSubtract", "Min", "Max"}

func (b BlendOperation) String() string {
	return enumName(blendOperationNames[:], int(b), "BlendOperation")
}

/** @brief Bit mask of the colour channels a render target accepts. */
type ColorWriteChannels uint8

const (
	ColorWriteNone  ColorWriteChannels = 0x0
	ColorWriteRed   ColorWriteChannels = 0x1
	ColorWriteGreen ColorWriteChannels = 0x2
	ColorWriteBlue  ColorWriteChannels = 0x4
	ColorWriteAlpha ColorWriteChannels = 0x8
	ColorWriteAll   ColorWriteChannels = ColorWriteRed | ColorWriteGreen | ColorWriteBlue | ColorWriteAlpha
)

func (c ColorWriteChannels) String() string {
	if c == ColorWriteNone {
		return "None"
	}
	if c == ColorWriteAll {
		return "All"
	}
	s := ""
	for _, ch := range []struct {
		bit  ColorWriteChannels
		name string
	}{{ColorWriteRed, "R"}, {ColorWriteGreen, "G"}, {ColorWriteBlue, "B"}, {ColorWriteAlpha, "A"}} {
		if c&ch.bit != 0 {
			s += ch.name
		}
	}
	return s
}

/** @brief Comparison used by depth, stencil and comparison samplers. */
type CompareFunction uint8

const (
	CompareUnset CompareFunction = iota
	CompareNever
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

var compareNames = [...]string{"Unset", "Never", "Less", "Equal", "LessEqual", "Greater", "NotEqual", "GreaterEqual", "Always"}

func (c CompareFunction) String() string {
	return enumName(compareNames[:], int(c), "CompareFunction")
}

/** @brief What happens to the stencil buffer value. */
type StencilOperation uint8

const (
	StencilUnset StencilOperation = iota
	StencilKeep
	StencilZero
	StencilReplace
	StencilIncrementSaturate
	StencilDecrementSaturate
	StencilInvert
	StencilIncrement
	StencilDecrement
)

var stencilNames = [...]string{"Unset", "Keep", "Zero", "Replace", "IncrementSaturate", "DecrementSaturate", "Invert", "Increment", "Decrement"}

func (s StencilOperation) String() string {
	return enumName(stencilNames[:], int(s), "StencilOperation")
}

type DepthWriteMask uint8

const (
	DepthWriteMaskZero DepthWriteMask = iota
	DepthWriteMaskAll
)

func (d DepthWriteMask) String() string {
	return enumName([]string{"Zero", "All"}, int(d), "DepthWriteMask")
}

/** @brief Which triangles are discarded by the rasterizer. */
type CullMode uint8

const (
	CullModeUnset CullMode = iota
	CullModeNone
	CullModeFront
	CullModeBack
)

func (c CullMode) String() string {
	return enumName([]string{"Unset", "None", "Front", "Back"}, int(c), "CullMode")
}

type FillMode uint8

const (
	FillModeUnset FillMode = iota
	FillModeSolid
	FillModeWireframe
)

func (f FillMode) String() string {
	return enumName([]string{"Unset", "Solid", "Wireframe"}, int(f), "FillMode")
}

/** @brief Filtering used for minification, magnification and mip selection. */
type TextureFilter uint8

const (
	TextureFilterUnset TextureFilter = iota
	TextureFilterLinear
	TextureFilterPoint
	TextureFilterAnisotropic
	TextureFilterLinearMipPoint
	TextureFilterPointMipLinear
	TextureFilterMinLinearMagPointMipLinear
	TextureFilterMinLinearMagPointMipPoint
	TextureFilterMinPointMagLinearMipLinear
	TextureFilterMinPointMagLinearMipPoint
)

var textureFilterNames = [...]string{
	"Unset", "Linear", "Point", "Anisotropic", "LinearMipPoint", "PointMipLinear",
	"MinLinearMagPointMipLinear", "MinLinearMagPointMipPoint",
	"MinPointMagLinearMipLinear", "MinPointMagLinearMipPoint",
}

func (t TextureFilter) String() string {
	return enumName(textureFilterNames[:], int(t), "TextureFilter")
}

// FilterType is the per-axis component of a TextureFilter.
type FilterType uint8

const (
	FilterTypePoint FilterType = iota
	FilterTypeLinear
)

// Components splits the filter into its minification, magnification and mip
// components. Anisotropic filtering reports linear for all three.
func (t TextureFilter) Components() (minify, magnify, mip FilterType) {
	switch t {
	case TextureFilterPoint:
		return FilterTypePoint, FilterTypePoint, FilterTypePoint
	case TextureFilterLinearMipPoint:
		return FilterTypeLinear, FilterTypeLinear, FilterTypePoint
	case TextureFilterPointMipLinear:
		return FilterTypePoint, FilterTypePoint, FilterTypeLinear
	case TextureFilterMinLinearMagPointMipLinear:
		return FilterTypeLinear, FilterTypePoint, FilterTypeLinear
	case TextureFilterMinLinearMagPointMipPoint:
		return FilterTypeLinear, FilterTypePoint, FilterTypePoint
	case TextureFilterMinPointMagLinearMipLinear:
		return FilterTypePoint, FilterTypeLinear, FilterTypeLinear
	case TextureFilterMinPointMagLinearMipPoint:
		return FilterTypePoint, FilterTypeLinear, FilterTypePoint
	default:
		return FilterTypeLinear, FilterTypeLinear, FilterTypeLinear
	}
}

/** @brief What a sampler does with coordinates outside [0, 1]. */
type TextureAddressMode uint8

const (
	TextureAddressUnset TextureAddressMode = iota
	TextureAddressWrap
	TextureAddressMirror
	TextureAddressClamp
	TextureAddressBorder
	TextureAddressMirrorOnce
)

func (t TextureAddressMode) String() string {
	return enumName([]string{"Unset", "Wrap", "Mirror", "Clamp", "Border", "MirrorOnce"}, int(t), "TextureAddressMode")
}

func enumName(names []string, v int, kind string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}
