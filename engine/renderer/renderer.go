package renderer

import (
	"errors"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer/state"
)

// PipelineState is the complete fixed-function configuration of a draw.
type PipelineState struct {
	Blend        state.BlendState
	DepthStencil state.DepthStencilState
	Rasterizer   state.RasterizerState
	Sampler      state.SamplerState
}

// DefaultPipelineState returns the state every context starts from.
func DefaultPipelineState() PipelineState {
	return PipelineState{
		Blend:        state.BlendDefault(),
		DepthStencil: state.DepthDefault(),
		Rasterizer:   state.RasterizerDefault(),
		Sampler:      state.SamplerDefault(),
	}
}

/**
 * @brief A rendering context owns one controller per fixed-function stage.
 * Each context has its own caches, contexts never share native objects.
 */
type RenderContext[H comparable] struct {
	ID uuid.UUID

	Blend        *state.BlendController[H]
	DepthStencil *state.DepthStencilController[H]
	Rasterizer   *state.RasterizerController[H]
	Sampler      *state.SamplerController[H]

	isClosed bool
}

// NewRenderContext builds the four controllers on dev and binds their
// defaults. A nil config means core.DefaultConfig().
func NewRenderContext[H comparable](dev state.Device[H], cfg *core.Config) (*RenderContext[H], error) {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	opts := []state.Option{
		state.WithValidation(cfg.State.Validate),
		state.WithMaxCacheEntries(cfg.State.MaxCacheEntries),
	}

	rc := &RenderContext[H]{
		ID:           uuid.New(),
		Blend:        state.NewBlendController[H](dev, opts...),
		DepthStencil: state.NewDepthStencilController[H](dev, opts...),
		Rasterizer:   state.NewRasterizerController[H](dev, opts...),
		Sampler:      state.NewSamplerController[H](dev, opts...),
	}
	if err := rc.Reset(); err != nil {
		return nil, errors.Join(err, rc.Close())
	}
	core.LogInfo("render context %s created", rc.ID)
	return rc, nil
}

// Apply sets every stage, in blend, depth stencil, rasterizer, sampler
// order. It stops at the first failure; stages already applied keep their
// new state.
func (rc *RenderContext[H]) Apply(ps PipelineState) error {
	if err := rc.Blend.Set(ps.Blend); err != nil {
		return err
	}
	if err := rc.DepthStencil.Set(ps.DepthStencil); err != nil {
		return err
	}
	if err := rc.Rasterizer.Set(ps.Rasterizer); err != nil {
		return err
	}
	return rc.Sampler.Set(ps.Sampler)
}

// Current returns the state last applied on every stage.
func (rc *RenderContext[H]) Current() PipelineState {
	return PipelineState{
		Blend:        rc.Blend.Current(),
		DepthStencil: rc.DepthStencil.Current(),
		Rasterizer:   rc.Rasterizer.Current(),
		Sampler:      rc.Sampler.Current(),
	}
}

// Reset restores the defaults of every stage, e.g. after a device reset.
// Every stage is reset even when one of them fails.
func (rc *RenderContext[H]) Reset() error {
	rc.isClosed = false
	return errors.Join(
		rc.Blend.Reset(),
		rc.DepthStencil.Reset(),
		rc.Rasterizer.Reset(),
		rc.Sampler.Reset(),
	)
}

// Close releases every native object the context created. Calling it again
// does nothing.
func (rc *RenderContext[H]) Close() error {
	if rc.isClosed {
		return nil
	}
	rc.isClosed = true
	err := errors.Join(
		rc.Blend.Close(),
		rc.DepthStencil.Close(),
		rc.Rasterizer.Close(),
		rc.Sampler.Close(),
	)
	core.LogInfo("render context %s closed", rc.ID)
	return err
}

// Metrics returns a snapshot of every controller's counters.
func (rc *RenderContext[H]) Metrics() map[state.Stage]core.StateMetrics {
	return map[state.Stage]core.StateMetrics{
		state.StageBlend:        rc.Blend.Metrics(),
		state.StageDepthStencil: rc.DepthStencil.Metrics(),
		state.StageRasterizer:   rc.Rasterizer.Metrics(),
		state.StageSampler:      rc.Sampler.Metrics(),
	}
}

// Configure applies the reloadable part of a config to every controller.
func (rc *RenderContext[H]) Configure(cfg *core.Config) {
	rc.Blend.SetValidation(cfg.State.Validate)
	rc.DepthStencil.SetValidation(cfg.State.Validate)
	rc.Rasterizer.SetValidation(cfg.State.Validate)
	rc.Sampler.SetValidation(cfg.State.Validate)

	rc.Blend.SetMaxCacheEntries(cfg.State.MaxCacheEntries)
	rc.DepthStencil.SetMaxCacheEntries(cfg.State.MaxCacheEntries)
	rc.Rasterizer.SetMaxCacheEntries(cfg.State.MaxCacheEntries)
	rc.Sampler.SetMaxCacheEntries(cfg.State.MaxCacheEntries)
}
