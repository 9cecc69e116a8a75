package engine

import "github.com/spaghettifunk/anima-state/engine/renderer"

// PipelineApplier is the part of a render context a game draws with.
type PipelineApplier interface {
	Apply(ps renderer.PipelineState) error
	Current() renderer.PipelineState
}

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnRender          Render
	FnShutdown        Shutdown
}

type Initialize func() error
type Render func(frame uint64, pipeline PipelineApplier) error
type Shutdown func() error
