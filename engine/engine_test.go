package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer"
	"github.com/spaghettifunk/anima-state/engine/renderer/state"
)

func newTestGame(frames uint64, render Render) *Game {
	return &Game{
		ApplicationConfig: &ApplicationConfig{
			Name:       "engine test",
			FrameCount: frames,
		},
		FnRender: render,
	}
}

func TestEngineRunsFrames(t *testing.T) {
	passes := []renderer.PipelineState{renderer.DefaultPipelineState(), renderer.DefaultPipelineState()}
	passes[1].Blend = state.BlendAlpha()
	passes[1].DepthStencil = state.DepthRead()

	g := newTestGame(10, func(frame uint64, pipeline PipelineApplier) error {
		for _, p := range passes {
			if err := pipeline.Apply(p); err != nil {
				return err
			}
		}
		return nil
	})

	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())
	assert.Equal(t, uint64(10), e.Frames())

	m := e.Metrics()
	// the two blend states alternate, each is built once
	assert.Equal(t, uint64(2), m[state.StageBlend].Constructs)
	assert.Equal(t, uint64(20), m[state.StageBlend].Binds)
	assert.Equal(t, uint64(1), m[state.StageRasterizer].Binds)

	require.NoError(t, e.Shutdown())
	assert.Equal(t, 0, e.Device().LiveObjects())
	require.NoError(t, e.Shutdown())
}

func TestEngineRenderFailureStopsRun(t *testing.T) {
	boom := errors.New("boom")
	g := newTestGame(0, func(frame uint64, pipeline PipelineApplier) error {
		if frame == 3 {
			return boom
		}
		return nil
	})

	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	assert.ErrorIs(t, e.Run(), boom)
	assert.Equal(t, uint64(3), e.Frames())
	require.NoError(t, e.Shutdown())
}

func TestEngineStop(t *testing.T) {
	g := newTestGame(0, nil)
	g.ApplicationConfig.TargetFrameRate = 1000

	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	go func() {
		time.Sleep(20 * time.Millisecond)
		e.Stop()
		e.Stop()
	}()
	require.NoError(t, e.Run())
	assert.Greater(t, e.Frames(), uint64(0))
	require.NoError(t, e.Shutdown())
}

func TestEngineStageOrder(t *testing.T) {
	e, err := New(newTestGame(1, nil))
	require.NoError(t, err)
	assert.Error(t, e.Run())
	require.NoError(t, e.Initialize())
	assert.Error(t, e.Initialize())
	require.NoError(t, e.Shutdown())
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
	_, err = New(&Game{})
	assert.Error(t, err)

	g := newTestGame(1, nil)
	g.ApplicationConfig.ConfigPath = filepath.Join(t.TempDir(), "missing.toml")
	_, err = New(g)
	assert.Error(t, err)
}

func TestEngineLoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[logging]
level = "warn"

[state]
validate = true

[device]
backend = "vulkan"
feature_level = 9
`), 0o644))

	g := newTestGame(1, nil)
	g.ApplicationConfig.ConfigPath = path

	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	assert.Equal(t, 9, e.Device().FeatureLevel())
	require.NoError(t, e.Shutdown())
	require.NoError(t, core.SetLogLevel("info"))
}

func TestEngineConfigReload(t *testing.T) {
	g := newTestGame(0, nil)
	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	older := core.DefaultConfig()
	newer := core.DefaultConfig()
	newer.State.MaxCacheEntries = 8
	newer.Device.FeatureLevel = 9

	// only the newest pending config survives
	e.onConfigChanged(older)
	e.onConfigChanged(newer)
	require.Len(t, e.reloads, 1)

	cfg := <-e.reloads
	e.applyConfig(cfg)
	assert.Equal(t, 8, e.config.State.MaxCacheEntries)
	assert.Equal(t, 11, e.config.Device.FeatureLevel)
}
