package vulkan

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anima-state/engine/core"
)

var ErrStateNotBound = errors.New("pipeline state not bound")

/**
 * @brief Holds a Vulkan pipeline and its layout.
 */
type VulkanPipeline struct {
	/** @brief The internal pipeline handle. */
	Handle vk.Pipeline
	/** @brief The pipeline layout. */
	PipelineLayout vk.PipelineLayout
}

type MemoryRange struct {
	Offset uint64
	Size   uint64
}

type VulkanPipelineConfig struct {
	/** @brief The renderpass to associate with the pipeline. */
	Renderpass vk.RenderPass
	/** @brief The number of color attachments of the renderpass subpass. */
	ColorAttachmentCount uint32
	/** @brief The stride of the vertex data to be used (ex: sizeof(vertex_3d)) */
	Stride uint32
	/** @brief An array of attributes. */
	Attributes []vk.VertexInputAttributeDescription
	/** @brief An array of descriptor set layouts. */
	DescriptorSetLayouts []vk.DescriptorSetLayout
	/** @brief An array of stages. */
	Stages []vk.PipelineShaderStageCreateInfo
	/** @brief The initial viewport configuration. */
	Viewport vk.Viewport
	/** @brief The initial scissor configuration. */
	Scissor vk.Rect2D
	/** @brief An array of push constant data ranges. */
	PushConstantRanges []MemoryRange
}

// pipelineStateInfos turns the bound state objects into the fixed-function
// parts of a graphics pipeline create info.
func pipelineStateInfos(states PipelineStates, config *VulkanPipelineConfig) (
	vk.PipelineRasterizationStateCreateInfo,
	vk.PipelineMultisampleStateCreateInfo,
	vk.PipelineDepthStencilStateCreateInfo,
	vk.PipelineColorBlendStateCreateInfo,
	error,
) {
	var (
		raster      vk.PipelineRasterizationStateCreateInfo
		multisample vk.PipelineMultisampleStateCreateInfo
		depth       vk.PipelineDepthStencilStateCreateInfo
		blend       vk.PipelineColorBlendStateCreateInfo
	)
	switch {
	case states.Blend == nil:
		return raster, multisample, depth, blend, fmt.Errorf("%w: blend", ErrStateNotBound)
	case states.DepthStencil == nil:
		return raster, multisample, depth, blend, fmt.Errorf("%w: depth stencil", ErrStateNotBound)
	case states.Rasterizer == nil:
		return raster, multisample, depth, blend, fmt.Errorf("%w: rasterizer", ErrStateNotBound)
	}
	if config.ColorAttachmentCount > uint32(len(states.Blend.ColorBlendAttachments)) {
		return raster, multisample, depth, blend, fmt.Errorf("cannot have more than %d color attachments. Passed count: %d",
			len(states.Blend.ColorBlendAttachments), config.ColorAttachmentCount)
	}

	raster = states.Rasterizer.Rasterization

	multisample = vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:   vk.False,
		RasterizationSamples:  vk.SampleCount1Bit,
		MinSampleShading:      1.0,
		PSampleMask:           nil,
		AlphaToCoverageEnable: vkBool(states.Blend.AlphaToCoverage),
		AlphaToOneEnable:      vk.False,
	}
	if states.Rasterizer.IsMultisampled {
		multisample.SampleShadingEnable = vk.True
	}

	depth = states.DepthStencil.DepthStencil

	attachments := states.Blend.ColorBlendAttachments[:config.ColorAttachmentCount]
	blend = vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: config.ColorAttachmentCount,
		PAttachments:    attachments,
	}
	return raster, multisample, depth, blend, nil
}

// NewGraphicsPipeline builds a pipeline from the fixed-function state
// currently bound on sd.
func NewGraphicsPipeline(sd *StateDevice, config *VulkanPipelineConfig) (*VulkanPipeline, error) {
	outPipeline := &VulkanPipeline{}

	rasterizerCreateInfo, multisamplingCreateInfo, depthStencil, colorBlendStateCreateInfo, err := pipelineStateInfos(sd.Active(), config)
	if err != nil {
		return nil, err
	}
	rasterizerCreateInfo.Deref()
	multisamplingCreateInfo.Deref()
	depthStencil.Deref()
	colorBlendStateCreateInfo.Deref()

	// Viewport state
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{config.Viewport},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{config.Scissor},
	}
	viewportState.Deref()

	// Dynamic state. The scissor only becomes dynamic when the rasterizer asks for it.
	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateLineWidth,
	}
	if sd.Active().Rasterizer.IsScissorEnabled {
		dynamicStates = append(dynamicStates, vk.DynamicStateScissor)
	}

	dynamicStateCreateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}
	dynamicStateCreateInfo.Deref()

	// Vertex input
	bindingDescription := vk.VertexInputBindingDescription{
		Binding:   0, // Binding index
		Stride:    config.Stride,
		InputRate: vk.VertexInputRateVertex, // Move to next data entry for each vertex.
	}
	bindingDescription.Deref()

	// Attributes
	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   1,
		PVertexBindingDescriptions:      []vk.VertexInputBindingDescription{bindingDescription},
		VertexAttributeDescriptionCount: uint32(len(config.Attributes)),
		PVertexAttributeDescriptions:    config.Attributes,
	}
	vertexInputInfo.Deref()

	// Input assembly
	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}
	inputAssembly.Deref()

	// Pipeline layout
	pipelineLayoutCreateInfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(config.DescriptorSetLayouts)),
		PSetLayouts:    config.DescriptorSetLayouts,
	}

	// Push constants
	if len(config.PushConstantRanges) > 0 {
		// 32 ranges of 4 bytes fill the 128 bytes every implementation guarantees.
		if len(config.PushConstantRanges) > 32 {
			return nil, fmt.Errorf("func NewGraphicsPipeline: cannot have more than 32 push constant ranges. Passed count: %d", len(config.PushConstantRanges))
		}
		ranges := make([]vk.PushConstantRange, len(config.PushConstantRanges))
		for i, r := range config.PushConstantRanges {
			ranges[i].StageFlags = vk.ShaderStageFlags(vk.ShaderStageVertexBit) | vk.ShaderStageFlags(vk.ShaderStageFragmentBit)
			ranges[i].Offset = uint32(r.Offset)
			ranges[i].Size = uint32(r.Size)
			ranges[i].Deref()
		}
		pipelineLayoutCreateInfo.PushConstantRangeCount = uint32(len(ranges))
		pipelineLayoutCreateInfo.PPushConstantRanges = ranges
	}
	pipelineLayoutCreateInfo.Deref()

	if err := sd.locks.SafeCall(PipelineManagement, func() error {
		var pPipelineLayout vk.PipelineLayout
		result := vk.CreatePipelineLayout(sd.device, &pipelineLayoutCreateInfo, sd.allocator, &pPipelineLayout)
		if !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkCreatePipelineLayout failed with %s", VulkanResultString(result, true))
		}
		outPipeline.PipelineLayout = pPipelineLayout
		return nil
	}); err != nil {
		return nil, err
	}

	// Pipeline create
	pipelineCreateInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(config.Stages)),
		PStages:             config.Stages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizerCreateInfo,
		PMultisampleState:   &multisamplingCreateInfo,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlendStateCreateInfo,
		PDynamicState:       &dynamicStateCreateInfo,
		PTessellationState:  nil,
		Layout:              outPipeline.PipelineLayout,
		RenderPass:          config.Renderpass,
		Subpass:             0,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}
	pipelineCreateInfo.Deref()

	pPipelines := make([]vk.Pipeline, 1)

	if err := sd.locks.SafeCall(PipelineManagement, func() error {
		result := vk.CreateGraphicsPipelines(sd.device, vk.NullPipelineCache, 1,
			[]vk.GraphicsPipelineCreateInfo{pipelineCreateInfo}, sd.allocator, pPipelines)
		if !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkCreateGraphicsPipelines failed with %s", VulkanResultString(result, true))
		}
		return nil
	}); err != nil {
		return nil, errors.Join(err, outPipeline.Destroy(sd))
	}

	outPipeline.Handle = pPipelines[0]

	core.LogDebug("Graphics pipeline created!")
	return outPipeline, nil
}

func (pipeline *VulkanPipeline) Destroy(sd *StateDevice) error {
	// Destroy pipeline
	if pipeline.Handle != nil {
		if err := sd.locks.SafeCall(PipelineManagement, func() error {
			vk.DestroyPipeline(sd.device, pipeline.Handle, sd.allocator)
			pipeline.Handle = nil
			return nil
		}); err != nil {
			return err
		}
	}
	// Destroy layout
	if pipeline.PipelineLayout != nil {
		if err := sd.locks.SafeCall(PipelineManagement, func() error {
			vk.DestroyPipelineLayout(sd.device, pipeline.PipelineLayout, sd.allocator)
			pipeline.PipelineLayout = nil
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (pipeline *VulkanPipeline) Bind(sd *StateDevice, commandBuffer vk.CommandBuffer, bindPoint vk.PipelineBindPoint) error {
	return sd.locks.SafeCall(CommandBufferManagement, func() error {
		vk.CmdBindPipeline(commandBuffer, bindPoint, pipeline.Handle)
		return nil
	})
}
