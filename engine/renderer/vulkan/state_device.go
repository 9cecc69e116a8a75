package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer/state"
)

// StateObject is the native form of one state descriptor. Blend, depth
// stencil and rasterizer objects are pipeline create-info fragments that get
// baked into a vk.Pipeline; samplers are real driver objects.
type StateObject struct {
	Stage state.Stage

	ColorBlendAttachments []vk.PipelineColorBlendAttachmentState
	AlphaToCoverage       bool

	DepthStencil vk.PipelineDepthStencilStateCreateInfo

	Rasterization    vk.PipelineRasterizationStateCreateInfo
	IsScissorEnabled bool
	IsMultisampled   bool

	Sampler vk.Sampler

	released bool
}

// PipelineStates is the set of objects currently bound, read when a
// graphics pipeline is built.
type PipelineStates struct {
	Blend        *StateObject
	DepthStencil *StateObject
	Rasterizer   *StateObject
	Sampler      *StateObject
}

// StateDevice implements state.Device on top of a Vulkan logical device.
type StateDevice struct {
	device        vk.Device
	allocator     *vk.AllocationCallbacks
	maxAnisotropy float32
	locks         *VulkanLockPool

	active PipelineStates
	live   int
}

// NewStateDevice wraps a logical device. maxAnisotropy is the physical
// device limit, descriptors asking for more are clamped to it.
func NewStateDevice(device vk.Device, allocator *vk.AllocationCallbacks, maxAnisotropy float32) *StateDevice {
	return &StateDevice{
		device:        device,
		allocator:     allocator,
		maxAnisotropy: maxAnisotropy,
		locks:         NewVulkanLockPool(),
	}
}

// Active returns the bound objects.
func (sd *StateDevice) Active() PipelineStates {
	return sd.active
}

// LiveObjects returns how many state objects have not been released.
func (sd *StateDevice) LiveObjects() int {
	return sd.live
}

func (sd *StateDevice) slot(stage state.Stage) **StateObject {
	switch stage {
	case state.StageBlend:
		return &sd.active.Blend
	case state.StageDepthStencil:
		return &sd.active.DepthStencil
	case state.StageRasterizer:
		return &sd.active.Rasterizer
	default:
		return &sd.active.Sampler
	}
}

func (sd *StateDevice) bind(stage state.Stage, obj *StateObject) error {
	if obj == nil || obj.released {
		return fmt.Errorf("%w: %s object", core.ErrHandleReleased, stage)
	}
	if obj.Stage != stage {
		return fmt.Errorf("%w: %s object bound as %s", core.ErrBindRejected, obj.Stage, stage)
	}
	*sd.slot(stage) = obj
	return nil
}

func (sd *StateDevice) release(stage state.Stage, obj *StateObject, destroy func() error) error {
	if obj == nil || obj.released || obj.Stage != stage {
		return fmt.Errorf("%w: %s object", core.ErrHandleReleased, stage)
	}
	if destroy != nil {
		if err := destroy(); err != nil {
			return fmt.Errorf("release %s object: %w", stage, err)
		}
	}
	obj.released = true
	if s := sd.slot(stage); *s == obj {
		*s = nil
	}
	sd.live--
	return nil
}

func newBlendObject(desc state.BlendState) (*StateObject, error) {
	obj := &StateObject{
		Stage:                 state.StageBlend,
		AlphaToCoverage:       desc.AlphaToCoverageEnable,
		ColorBlendAttachments: make([]vk.PipelineColorBlendAttachmentState, 0, state.MaxRenderTargets),
	}
	for i, t := range desc.RenderTargets {
		var err error
		attachment := vk.PipelineColorBlendAttachmentState{
			BlendEnable:    vkBool(t.IsBlendingEnabled),
			ColorWriteMask: colorWriteMask(t.WriteMask),
		}
		if attachment.SrcColorBlendFactor, err = blendFactor(t.SourceBlend); err != nil {
			return nil, fmt.Errorf("render target %d: %w", i, err)
		}
		if attachment.DstColorBlendFactor, err = blendFactor(t.DestinationBlend); err != nil {
			return nil, fmt.Errorf("render target %d: %w", i, err)
		}
		if attachment.ColorBlendOp, err = blendOp(t.BlendOperation); err != nil {
			return nil, fmt.Errorf("render target %d: %w", i, err)
		}
		if attachment.SrcAlphaBlendFactor, err = blendFactor(t.SourceAlphaBlend); err != nil {
			return nil, fmt.Errorf("render target %d: %w", i, err)
		}
		if attachment.DstAlphaBlendFactor, err = blendFactor(t.DestinationAlphaBlend); err != nil {
			return nil, fmt.Errorf("render target %d: %w", i, err)
		}
		if attachment.AlphaBlendOp, err = blendOp(t.AlphaBlendOperation); err != nil {
			return nil, fmt.Errorf("render target %d: %w", i, err)
		}
		obj.ColorBlendAttachments = append(obj.ColorBlendAttachments, attachment)
	}
	return obj, nil
}

func stencilOpState(face state.StencilFace, readMask, writeMask uint8) (vk.StencilOpState, error) {
	var (
		s   vk.StencilOpState
		err error
	)
	if s.FailOp, err = stencilOp(face.FailOperation); err != nil {
		return s, err
	}
	if s.DepthFailOp, err = stencilOp(face.DepthFailOperation); err != nil {
		return s, err
	}
	if s.PassOp, err = stencilOp(face.PassOperation); err != nil {
		return s, err
	}
	if s.CompareOp, err = compareOp(face.Comparison); err != nil {
		return s, err
	}
	s.CompareMask = uint32(readMask)
	s.WriteMask = uint32(writeMask)
	return s, nil
}

func newDepthStencilObject(desc state.DepthStencilState) (*StateObject, error) {
	info := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       vkBool(desc.IsDepthEnabled),
		DepthWriteEnable:      vkBool(desc.IsDepthEnabled && desc.DepthWriteMask == state.DepthWriteMaskAll),
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vkBool(desc.IsStencilEnabled),
		MinDepthBounds:        0.0,
		MaxDepthBounds:        1.0,
	}
	var err error
	if info.DepthCompareOp, err = compareOp(desc.DepthComparison); err != nil {
		return nil, err
	}
	if info.Front, err = stencilOpState(desc.FrontFace, desc.StencilReadMask, desc.StencilWriteMask); err != nil {
		return nil, fmt.Errorf("front face: %w", err)
	}
	if info.Back, err = stencilOpState(desc.BackFace, desc.StencilReadMask, desc.StencilWriteMask); err != nil {
		return nil, fmt.Errorf("back face: %w", err)
	}
	return &StateObject{Stage: state.StageDepthStencil, DepthStencil: info}, nil
}

func newRasterizerObject(desc state.RasterizerState) (*StateObject, error) {
	info := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vkBool(!desc.IsDepthClipEnabled),
		RasterizerDiscardEnable: vk.False,
		LineWidth:               1.0,
		FrontFace:               frontFace(desc.IsFrontCounterClockwise),
		DepthBiasEnable:         vkBool(desc.DepthBias != 0 || desc.SlopeScaledDepthBias != 0),
		DepthBiasConstantFactor: float32(desc.DepthBias),
		DepthBiasClamp:          desc.DepthBiasClamp,
		DepthBiasSlopeFactor:    desc.SlopeScaledDepthBias,
	}
	var err error
	if info.PolygonMode, err = polygonMode(desc.FillMode); err != nil {
		return nil, err
	}
	if info.CullMode, err = cullMode(desc.CullMode); err != nil {
		return nil, err
	}
	return &StateObject{
		Stage:            state.StageRasterizer,
		Rasterization:    info,
		IsScissorEnabled: desc.IsScissorEnabled,
		IsMultisampled:   desc.IsMultisampleEnabled,
	}, nil
}

func samplerCreateInfo(desc state.SamplerState, maxAnisotropy float32) (vk.SamplerCreateInfo, error) {
	minify, magnify, mip := desc.Filter.Components()
	info := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               filter(magnify),
		MinFilter:               filter(minify),
		MipmapMode:              mipmapMode(mip),
		MipLodBias:              desc.MipMapLevelOfDetailBias,
		MinLod:                  desc.MinimumLevelOfDetail,
		MaxLod:                  desc.MaximumLevelOfDetail,
		BorderColor:             borderColor(desc.BorderColor),
		UnnormalizedCoordinates: vk.False,
		AnisotropyEnable:        vk.False,
		CompareEnable:           vkBool(desc.IsComparison()),
	}
	if desc.Filter == state.TextureFilterUnset {
		return info, fmt.Errorf("%w: filter %s", core.ErrStateRejected, desc.Filter)
	}
	if desc.Filter == state.TextureFilterAnisotropic {
		info.AnisotropyEnable = vk.True
		info.MaxAnisotropy = min(float32(desc.MaximumAnisotropy), maxAnisotropy)
	}
	var err error
	if info.AddressModeU, err = addressMode(desc.AddressU); err != nil {
		return info, err
	}
	if info.AddressModeV, err = addressMode(desc.AddressV); err != nil {
		return info, err
	}
	if info.AddressModeW, err = addressMode(desc.AddressW); err != nil {
		return info, err
	}
	if info.CompareOp, err = compareOp(desc.ComparisonFunction); err != nil {
		info.CompareOp = vk.CompareOpNever
		if desc.IsComparison() {
			return info, err
		}
	}
	return info, nil
}

func (sd *StateDevice) created(obj *StateObject) *StateObject {
	sd.live++
	core.LogDebug("vulkan %s state object created, %d live", obj.Stage, sd.live)
	return obj
}

func (sd *StateDevice) CreateBlendState(desc state.BlendState) (*StateObject, error) {
	obj, err := newBlendObject(desc)
	if err != nil {
		return nil, err
	}
	return sd.created(obj), nil
}

func (sd *StateDevice) BindBlendState(obj *StateObject) error {
	return sd.bind(state.StageBlend, obj)
}

func (sd *StateDevice) ReleaseBlendState(obj *StateObject) error {
	return sd.release(state.StageBlend, obj, nil)
}

func (sd *StateDevice) CreateDepthStencilState(desc state.DepthStencilState) (*StateObject, error) {
	obj, err := newDepthStencilObject(desc)
	if err != nil {
		return nil, err
	}
	return sd.created(obj), nil
}

func (sd *StateDevice) BindDepthStencilState(obj *StateObject) error {
	return sd.bind(state.StageDepthStencil, obj)
}

func (sd *StateDevice) ReleaseDepthStencilState(obj *StateObject) error {
	return sd.release(state.StageDepthStencil, obj, nil)
}

func (sd *StateDevice) CreateRasterizerState(desc state.RasterizerState) (*StateObject, error) {
	obj, err := newRasterizerObject(desc)
	if err != nil {
		return nil, err
	}
	return sd.created(obj), nil
}

func (sd *StateDevice) BindRasterizerState(obj *StateObject) error {
	return sd.bind(state.StageRasterizer, obj)
}

func (sd *StateDevice) ReleaseRasterizerState(obj *StateObject) error {
	return sd.release(state.StageRasterizer, obj, nil)
}

func (sd *StateDevice) CreateSamplerState(desc state.SamplerState) (*StateObject, error) {
	info, err := samplerCreateInfo(desc, sd.maxAnisotropy)
	if err != nil {
		return nil, err
	}

	var sampler vk.Sampler
	if err := sd.locks.SafeCall(SamplerManagement, func() error {
		result := vk.CreateSampler(sd.device, &info, sd.allocator, &sampler)
		if !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkCreateSampler failed with %s", VulkanResultString(result, true))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return sd.created(&StateObject{Stage: state.StageSampler, Sampler: sampler}), nil
}

func (sd *StateDevice) BindSamplerState(obj *StateObject) error {
	return sd.bind(state.StageSampler, obj)
}

func (sd *StateDevice) ReleaseSamplerState(obj *StateObject) error {
	return sd.release(state.StageSampler, obj, func() error {
		return sd.locks.SafeCall(SamplerManagement, func() error {
			vk.DestroySampler(sd.device, obj.Sampler, sd.allocator)
			obj.Sampler = nil
			return nil
		})
	})
}

var _ state.Device[*StateObject] = (*StateDevice)(nil)
