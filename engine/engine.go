package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer"
	"github.com/spaghettifunk/anima-state/engine/renderer/headless"
	"github.com/spaghettifunk/anima-state/engine/renderer/state"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *core.Config
	watcher      *core.ConfigWatcher
	reloads      chan *core.Config
	context      *renderer.RenderContext[headless.Handle]
	device       *headless.Device
	clock        *core.Clock
	frame        uint64

	stopOnce sync.Once
	stop     chan struct{}
}

// New loads the configuration of g. The render context only exists once
// Initialize succeeds.
func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, errors.New("engine: game and application config are required")
	}

	cfg := core.DefaultConfig()
	if path := g.ApplicationConfig.ConfigPath; path != "" {
		var err error
		if cfg, err = core.LoadConfig(path); err != nil {
			core.LogError(err.Error())
			return nil, err
		}
	}
	if err := cfg.Apply(); err != nil {
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageBootComplete,
		gameInstance: g,
		config:       cfg,
		reloads:      make(chan *core.Config, 1),
		clock:        core.NewClock(),
		stop:         make(chan struct{}),
	}, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return fmt.Errorf("engine: cannot initialize from stage %d", e.currentStage)
	}

	// the vulkan state device needs a logical device created by the windowing
	// layer, the engine loop itself always drives the headless device
	if e.config.Device.Backend != core.BackendHeadless {
		core.LogWarn("device backend %q needs an external logical device, falling back to %q", e.config.Device.Backend, core.BackendHeadless)
		e.config.Device.Backend = core.BackendHeadless
	}

	rc, dev, err := renderer.NewHeadlessContext(e.config)
	if err != nil {
		return err
	}
	e.context = rc
	e.device = dev

	if e.gameInstance.ApplicationConfig.WatchConfig && e.gameInstance.ApplicationConfig.ConfigPath != "" {
		w, err := core.NewConfigWatcher(e.gameInstance.ApplicationConfig.ConfigPath, e.onConfigChanged)
		if err != nil {
			return errors.Join(err, rc.Close())
		}
		if err := w.Start(); err != nil {
			return errors.Join(err, w.Close(), rc.Close())
		}
		e.watcher = w
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized (feature level %d)", e.gameInstance.ApplicationConfig.Name, dev.FeatureLevel())
	return nil
}

// onConfigChanged runs on the watcher goroutine. Only the newest pending
// config is kept, the frame loop picks it up.
func (e *Engine) onConfigChanged(cfg *core.Config) {
	for {
		select {
		case e.reloads <- cfg:
			return
		default:
		}
		select {
		case <-e.reloads:
		default:
		}
	}
}

func (e *Engine) applyConfig(cfg *core.Config) {
	if err := cfg.Apply(); err != nil {
		core.LogWarn("config reload: %s", err.Error())
		return
	}
	if cfg.Device != e.config.Device {
		core.LogWarn("config reload: device settings only take effect after a restart")
		cfg.Device = e.config.Device
	}
	e.context.Configure(cfg)
	e.config = cfg
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine: cannot run from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning

	app := e.gameInstance.ApplicationConfig
	var targetFrameTime time.Duration
	if app.TargetFrameRate > 0 {
		targetFrameTime = time.Duration(float64(time.Second) / app.TargetFrameRate)
	}

	e.clock.Start()
	for app.FrameCount == 0 || e.frame < app.FrameCount {
		select {
		case <-e.stop:
			return nil
		case cfg := <-e.reloads:
			e.applyConfig(cfg)
		default:
		}

		frameStart := time.Now()
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(e.frame, e.context); err != nil {
				core.LogError("Game render failed at frame %d, shutting down.", e.frame)
				return err
			}
		}
		e.frame++
		e.clock.Update()

		if remaining := targetFrameTime - time.Since(frameStart); remaining > 0 {
			// If there is time left, give it back to the OS.
			select {
			case <-e.stop:
				return nil
			case <-time.After(remaining):
			}
		}
	}
	return nil
}

// Stop makes Run return after the current frame. Safe to call from any
// goroutine and more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stop)
	})
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.clock.Stop()

	var errs []error
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
	}
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.context != nil {
		errs = append(errs, e.context.Close())
	}
	core.LogInfo("%s shut down after %d frames in %.3fs", e.gameInstance.ApplicationConfig.Name, e.frame, e.clock.Elapsed())
	return errors.Join(errs...)
}

// Frames returns the number of frames rendered so far.
func (e *Engine) Frames() uint64 {
	return e.frame
}

// Metrics returns the counters of every state controller.
func (e *Engine) Metrics() map[state.Stage]core.StateMetrics {
	if e.context == nil {
		return nil
	}
	return e.context.Metrics()
}

// Device returns the device the engine renders on, nil before Initialize.
func (e *Engine) Device() *headless.Device {
	return e.device
}
