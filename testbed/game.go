package testbed

import (
	"github.com/spaghettifunk/anima-state/engine"
	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer"
	"github.com/spaghettifunk/anima-state/engine/renderer/state"
)

type TestGame struct {
	*engine.Game
}

type renderPass struct {
	name  string
	state renderer.PipelineState
}

type gameState struct {
	passes    []renderPass
	wireframe bool
	drawCalls uint64
}

// NewTestGame builds a game drawing a typical frame: shadow map, opaque
// world, skybox, transparent objects and UI on top.
func NewTestGame(configPath string, frames uint64) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:            "Anima State Testbed",
				ConfigPath:      configPath,
				WatchConfig:     configPath != "",
				FrameCount:      frames,
				TargetFrameRate: 60,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnRender = tg.Render
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	shadow := renderer.DefaultPipelineState()
	shadow.Blend = state.BlendOpaque().WithTarget(0, state.BlendTarget{
		SourceBlend:           state.BlendOne,
		DestinationBlend:      state.BlendZero,
		BlendOperation:        state.BlendOperationAdd,
		SourceAlphaBlend:      state.BlendOne,
		DestinationAlphaBlend: state.BlendZero,
		AlphaBlendOperation:   state.BlendOperationAdd,
		WriteMask:             state.ColorWriteNone,
	})
	shadow.Rasterizer = state.RasterizerCullFront()
	shadow.Rasterizer.DepthBias = 2
	shadow.Rasterizer.SlopeScaledDepthBias = 1.5
	shadow.Sampler = state.NewSamplerState(state.SamplerState{
		Filter:               state.TextureFilterLinear,
		AddressU:             state.TextureAddressBorder,
		AddressV:             state.TextureAddressBorder,
		AddressW:             state.TextureAddressBorder,
		ComparisonFunction:   state.CompareLessEqual,
		BorderColor:          state.Color4{R: 1, G: 1, B: 1, A: 1},
		MinimumLevelOfDetail: 0,
		MaximumLevelOfDetail: 0,
	})

	opaque := renderer.DefaultPipelineState()
	opaque.Sampler = state.SamplerAnisotropicWrap()

	skybox := renderer.DefaultPipelineState()
	skybox.DepthStencil = state.DepthRead()
	skybox.Rasterizer = state.RasterizerCullNone()

	transparent := renderer.DefaultPipelineState()
	transparent.Blend = state.BlendAlpha()
	transparent.DepthStencil = state.DepthRead()
	transparent.Sampler = state.SamplerLinearWrap()

	ui := renderer.DefaultPipelineState()
	ui.Blend = state.BlendNonPremultiplied()
	ui.DepthStencil = state.DepthNone()
	ui.Rasterizer = state.RasterizerCullNone()
	ui.Rasterizer.IsScissorEnabled = true
	ui.Sampler = state.SamplerPointClamp()

	g.state().passes = []renderPass{
		{name: "shadow", state: shadow},
		{name: "opaque", state: opaque},
		{name: "skybox", state: skybox},
		{name: "transparent", state: transparent},
		{name: "ui", state: ui},
	}
	return nil
}

func (g *TestGame) Render(frame uint64, pipeline engine.PipelineApplier) error {
	s := g.state()

	// toggle the debug wireframe view every second
	if frame > 0 && frame%60 == 0 {
		s.wireframe = !s.wireframe
		core.LogDebug("wireframe view: %t", s.wireframe)
	}

	for _, pass := range s.passes {
		ps := pass.state
		if s.wireframe && pass.name == "opaque" {
			ps.Rasterizer = state.RasterizerWireframe()
		}
		// float noise below the comparison tolerance must not cost a bind
		ps.Sampler.MipMapLevelOfDetailBias += float32(frame%2) * 1e-8

		if err := pipeline.Apply(ps); err != nil {
			core.LogError("pass %s: %s", pass.name, err.Error())
			return err
		}
		s.drawCalls++
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("testbed issued %d passes", g.state().drawCalls)
	return nil
}
