package vulkan

import (
	"errors"
	"sync"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer/state"
)

func TestConvertRejectsUnset(t *testing.T) {
	_, err := blendFactor(state.BlendUnset)
	assert.ErrorIs(t, err, core.ErrStateRejected)
	_, err = blendOp(state.BlendOperationUnset)
	assert.ErrorIs(t, err, core.ErrStateRejected)
	_, err = compareOp(state.CompareUnset)
	assert.ErrorIs(t, err, core.ErrStateRejected)
	_, err = stencilOp(state.StencilUnset)
	assert.ErrorIs(t, err, core.ErrStateRejected)
	_, err = cullMode(state.CullModeUnset)
	assert.ErrorIs(t, err, core.ErrStateRejected)
	_, err = polygonMode(state.FillModeUnset)
	assert.ErrorIs(t, err, core.ErrStateRejected)
	_, err = addressMode(state.TextureAddressUnset)
	assert.ErrorIs(t, err, core.ErrStateRejected)
}

func TestConvertValues(t *testing.T) {
	f, err := blendFactor(state.BlendInverseSourceAlpha)
	require.NoError(t, err)
	assert.Equal(t, vk.BlendFactorOneMinusSrcAlpha, f)

	c, err := compareOp(state.CompareLessEqual)
	require.NoError(t, err)
	assert.Equal(t, vk.CompareOpLessOrEqual, c)

	s, err := stencilOp(state.StencilIncrementSaturate)
	require.NoError(t, err)
	assert.Equal(t, vk.StencilOpIncrementAndClamp, s)

	a, err := addressMode(state.TextureAddressMirrorOnce)
	require.NoError(t, err)
	assert.Equal(t, vk.SamplerAddressModeMirrorClampToEdge, a)

	assert.Equal(t, vk.FrontFaceClockwise, frontFace(false))
	assert.Equal(t, vk.ColorComponentFlags(0), colorWriteMask(state.ColorWriteNone))
	assert.Equal(t,
		vk.ColorComponentFlags(vk.ColorComponentRBit)|vk.ColorComponentFlags(vk.ColorComponentABit),
		colorWriteMask(state.ColorWriteRed|state.ColorWriteAlpha))

	assert.Equal(t, vk.BorderColorFloatTransparentBlack, borderColor(state.Color4{}))
	assert.Equal(t, vk.BorderColorFloatOpaqueBlack, borderColor(state.Color4{A: 1}))
	assert.Equal(t, vk.BorderColorFloatOpaqueWhite, borderColor(state.Color4{R: 1, G: 1, B: 1, A: 1}))
}

func TestBlendObject(t *testing.T) {
	obj, err := newBlendObject(state.BlendAlpha().Applied())
	require.NoError(t, err)
	require.Len(t, obj.ColorBlendAttachments, state.MaxRenderTargets)

	for _, a := range obj.ColorBlendAttachments {
		assert.Equal(t, vk.Bool32(vk.True), a.BlendEnable)
		assert.Equal(t, vk.BlendFactorOne, a.SrcColorBlendFactor)
		assert.Equal(t, vk.BlendFactorOneMinusSrcAlpha, a.DstColorBlendFactor)
		assert.Equal(t, vk.BlendOpAdd, a.ColorBlendOp)
	}

	_, err = newBlendObject(state.BlendState{})
	assert.ErrorIs(t, err, core.ErrStateRejected)
}

func TestDepthStencilObject(t *testing.T) {
	obj, err := newDepthStencilObject(state.DepthDefault())
	require.NoError(t, err)
	assert.Equal(t, vk.Bool32(vk.True), obj.DepthStencil.DepthTestEnable)
	assert.Equal(t, vk.Bool32(vk.True), obj.DepthStencil.DepthWriteEnable)
	assert.Equal(t, vk.CompareOpLess, obj.DepthStencil.DepthCompareOp)
	assert.Equal(t, vk.StencilOpKeep, obj.DepthStencil.Front.PassOp)
	assert.Equal(t, uint32(0xff), obj.DepthStencil.Back.CompareMask)

	read, err := newDepthStencilObject(state.DepthRead())
	require.NoError(t, err)
	assert.Equal(t, vk.Bool32(vk.False), read.DepthStencil.DepthWriteEnable)
}

func TestRasterizerObject(t *testing.T) {
	desc := state.RasterizerWireframe()
	desc.DepthBias = 4
	desc.SlopeScaledDepthBias = 1.5

	obj, err := newRasterizerObject(desc)
	require.NoError(t, err)
	assert.Equal(t, vk.PolygonModeLine, obj.Rasterization.PolygonMode)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeNone), obj.Rasterization.CullMode)
	assert.Equal(t, vk.Bool32(vk.True), obj.Rasterization.DepthBiasEnable)
	assert.Equal(t, float32(4), obj.Rasterization.DepthBiasConstantFactor)
	assert.Equal(t, float32(1.5), obj.Rasterization.DepthBiasSlopeFactor)

	back, err := newRasterizerObject(state.RasterizerDefault())
	require.NoError(t, err)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), back.Rasterization.CullMode)
	assert.Equal(t, vk.Bool32(vk.False), back.Rasterization.DepthClampEnable)
	assert.Equal(t, vk.Bool32(vk.False), back.Rasterization.DepthBiasEnable)
}

func TestSamplerCreateInfo(t *testing.T) {
	info, err := samplerCreateInfo(state.SamplerPointWrap(), 16)
	require.NoError(t, err)
	assert.Equal(t, vk.FilterNearest, info.MinFilter)
	assert.Equal(t, vk.FilterNearest, info.MagFilter)
	assert.Equal(t, vk.SamplerMipmapModeNearest, info.MipmapMode)
	assert.Equal(t, vk.SamplerAddressModeRepeat, info.AddressModeU)
	assert.Equal(t, vk.Bool32(vk.False), info.AnisotropyEnable)

	aniso, err := samplerCreateInfo(state.SamplerAnisotropicClamp(), 8)
	require.NoError(t, err)
	assert.Equal(t, vk.Bool32(vk.True), aniso.AnisotropyEnable)
	assert.Equal(t, float32(8), aniso.MaxAnisotropy)

	mixed := state.SamplerLinearClamp()
	mixed.Filter = state.TextureFilterMinPointMagLinearMipPoint
	info, err = samplerCreateInfo(mixed, 16)
	require.NoError(t, err)
	assert.Equal(t, vk.FilterNearest, info.MinFilter)
	assert.Equal(t, vk.FilterLinear, info.MagFilter)
	assert.Equal(t, vk.SamplerMipmapModeNearest, info.MipmapMode)

	_, err = samplerCreateInfo(state.SamplerState{}, 16)
	assert.ErrorIs(t, err, core.ErrStateRejected)
}

func TestStateDeviceBindRelease(t *testing.T) {
	sd := NewStateDevice(nil, nil, 16)

	blend, err := sd.CreateBlendState(state.BlendOpaque().Applied())
	require.NoError(t, err)
	raster, err := sd.CreateRasterizerState(state.RasterizerDefault())
	require.NoError(t, err)
	assert.Equal(t, 2, sd.LiveObjects())

	require.NoError(t, sd.BindBlendState(blend))
	assert.ErrorIs(t, sd.BindBlendState(raster), core.ErrBindRejected)
	assert.Same(t, blend, sd.Active().Blend)

	require.NoError(t, sd.ReleaseBlendState(blend))
	assert.Nil(t, sd.Active().Blend)
	assert.ErrorIs(t, sd.ReleaseBlendState(blend), core.ErrHandleReleased)
	assert.ErrorIs(t, sd.BindBlendState(blend), core.ErrHandleReleased)
	assert.Equal(t, 1, sd.LiveObjects())
}

func TestStateDeviceReleaseReportsDestroyFailure(t *testing.T) {
	sd := NewStateDevice(nil, nil, 16)
	obj := sd.created(&StateObject{Stage: state.StageSampler})
	require.NoError(t, sd.bind(state.StageSampler, obj))

	destroyErr := errors.New("destroy failed")
	err := sd.release(state.StageSampler, obj, func() error { return destroyErr })
	assert.ErrorIs(t, err, destroyErr)
	assert.False(t, obj.released)
	assert.Same(t, obj, sd.Active().Sampler)
	assert.Equal(t, 1, sd.LiveObjects())

	require.NoError(t, sd.release(state.StageSampler, obj, func() error { return nil }))
	assert.Nil(t, sd.Active().Sampler)
	assert.Zero(t, sd.LiveObjects())
}

func TestStateDeviceDrivesControllers(t *testing.T) {
	sd := NewStateDevice(nil, nil, 16)
	blend := state.NewBlendController[*StateObject](sd)
	depth := state.NewDepthStencilController[*StateObject](sd)
	raster := state.NewRasterizerController[*StateObject](sd)

	require.NoError(t, blend.Reset())
	require.NoError(t, depth.Reset())
	require.NoError(t, raster.Reset())
	require.NoError(t, raster.Set(state.RasterizerCullNone()))

	config := &VulkanPipelineConfig{ColorAttachmentCount: 1}
	rasterInfo, _, depthInfo, blendInfo, err := pipelineStateInfos(sd.Active(), config)
	require.NoError(t, err)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeNone), rasterInfo.CullMode)
	assert.Equal(t, vk.CompareOpLess, depthInfo.DepthCompareOp)
	assert.Equal(t, uint32(1), blendInfo.AttachmentCount)
	assert.Len(t, blendInfo.PAttachments, 1)

	require.NoError(t, blend.Close())
	_, _, _, _, err = pipelineStateInfos(sd.Active(), config)
	assert.ErrorIs(t, err, ErrStateNotBound)
}

func TestPipelineStateInfosAttachmentCount(t *testing.T) {
	sd := NewStateDevice(nil, nil, 16)
	for _, fn := range []func() error{
		func() error { o, _ := sd.CreateBlendState(state.BlendOpaque()); return sd.BindBlendState(o) },
		func() error { o, _ := sd.CreateDepthStencilState(state.DepthNone()); return sd.BindDepthStencilState(o) },
		func() error { o, _ := sd.CreateRasterizerState(state.RasterizerDefault()); return sd.BindRasterizerState(o) },
	} {
		require.NoError(t, fn())
	}

	_, _, _, _, err := pipelineStateInfos(sd.Active(), &VulkanPipelineConfig{ColorAttachmentCount: state.MaxRenderTargets + 1})
	assert.Error(t, err)
}

func TestLockPoolSerializes(t *testing.T) {
	pool := NewVulkanLockPool()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.SafeCall(SamplerManagement, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestVulkanResult(t *testing.T) {
	assert.True(t, VulkanResultIsSuccess(vk.Success))
	assert.True(t, VulkanResultIsSuccess(vk.Incomplete))
	assert.False(t, VulkanResultIsSuccess(vk.ErrorDeviceLost))
	assert.Equal(t, "VK_ERROR_DEVICE_LOST", VulkanResultString(vk.ErrorDeviceLost, false))
	assert.Contains(t, VulkanResultString(vk.ErrorOutOfHostMemory, true), "host memory")
}
