package headless

import (
	"fmt"

	"github.com/spaghettifunk/anima-state/engine/containers"
	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer/state"
)

// Handle identifies a state object living on the headless device. The zero
// handle is never handed out.
type Handle uint32

const NoHandle Handle = 0

// CallOp is the kind of device call recorded in the history.
type CallOp uint8

const (
	CallCreate CallOp = iota
	CallBind
	CallRelease
)

func (o CallOp) String() string {
	switch o {
	case CallCreate:
		return "create"
	case CallBind:
		return "bind"
	case CallRelease:
		return "release"
	default:
		return fmt.Sprintf("CallOp(%d)", o)
	}
}

type Call struct {
	Op     CallOp
	Stage  state.Stage
	Handle Handle
}

type StageStats struct {
	Creates  int
	Binds    int
	Releases int
	Live     int
}

type object struct {
	stage state.Stage
	desc  any
}

// Device is an in-memory graphics device. It validates descriptors the way a
// driver would for its feature level, hands out handles and keeps track of
// the state bound per stage. Useful for tests, tools and servers without a
// GPU. Not safe for concurrent use.
type Device struct {
	featureLevel int
	ids          *core.IdentifierPool
	objects      map[Handle]object
	active       map[state.Stage]Handle
	stats        map[state.Stage]*StageStats
	history      *containers.RingQueue[Call]
	failBind     map[state.Stage]bool
}

// New creates a device for the given feature level (9, 10, 11...). Levels
// below 10 reject independent blending and anisotropy above 2.
func New(featureLevel int, historySize int) *Device {
	return &Device{
		featureLevel: featureLevel,
		ids:          core.NewIdentifierPool(64),
		objects:      make(map[Handle]object),
		active:       make(map[state.Stage]Handle),
		stats:        make(map[state.Stage]*StageStats),
		history:      containers.NewRingQueue[Call](historySize),
		failBind:     make(map[state.Stage]bool),
	}
}

func (d *Device) FeatureLevel() int {
	return d.featureLevel
}

// Active returns the handle bound for stage.
func (d *Device) Active(stage state.Stage) (Handle, bool) {
	h, ok := d.active[stage]
	return h, ok
}

// Descriptor returns the descriptor a live handle was built from.
func (d *Device) Descriptor(h Handle) (any, bool) {
	o, ok := d.objects[h]
	if !ok {
		return nil, false
	}
	return o.desc, true
}

func (d *Device) Stats(stage state.Stage) StageStats {
	if s, ok := d.stats[stage]; ok {
		return *s
	}
	return StageStats{}
}

// LiveObjects returns how many state objects have not been released.
func (d *Device) LiveObjects() int {
	return len(d.objects)
}

// History returns the most recent device calls, oldest first.
func (d *Device) History() []Call {
	return d.history.Items()
}

// FailNextBind makes the next bind for stage fail, as a lost device would.
func (d *Device) FailNextBind(stage state.Stage) {
	d.failBind[stage] = true
}

func (d *Device) stageStats(stage state.Stage) *StageStats {
	s, ok := d.stats[stage]
	if !ok {
		s = &StageStats{}
		d.stats[stage] = s
	}
	return s
}

func (d *Device) create(stage state.Stage, desc any, reasons []string) (Handle, error) {
	if len(reasons) > 0 {
		return NoHandle, fmt.Errorf("%w: %s (feature level %d)", core.ErrStateRejected, reasons[0], d.featureLevel)
	}
	h := Handle(d.ids.AcquireNewID(stage) + 1)
	d.objects[h] = object{stage: stage, desc: desc}
	s := d.stageStats(stage)
	s.Creates++
	s.Live++
	d.history.Push(Call{Op: CallCreate, Stage: stage, Handle: h})
	return h, nil
}

func (d *Device) bind(stage state.Stage, h Handle) error {
	if d.failBind[stage] {
		delete(d.failBind, stage)
		return fmt.Errorf("%w: %s handle %d", core.ErrBindRejected, stage, h)
	}
	o, ok := d.objects[h]
	if !ok {
		return fmt.Errorf("%w: %s handle %d", core.ErrHandleReleased, stage, h)
	}
	if o.stage != stage {
		return fmt.Errorf("%w: handle %d is a %s object, not %s", core.ErrBindRejected, h, o.stage, stage)
	}
	d.active[stage] = h
	d.stageStats(stage).Binds++
	d.history.Push(Call{Op: CallBind, Stage: stage, Handle: h})
	return nil
}

func (d *Device) release(stage state.Stage, h Handle) error {
	o, ok := d.objects[h]
	if !ok || o.stage != stage {
		return fmt.Errorf("%w: %s handle %d", core.ErrHandleReleased, stage, h)
	}
	if err := d.ids.ReleaseID(uint32(h) - 1); err != nil {
		return err
	}
	delete(d.objects, h)
	if d.active[stage] == h {
		// the pipeline keeps using the object until something else is bound
		core.LogDebug("headless device: released the active %s object %d", stage, h)
	}
	s := d.stageStats(stage)
	s.Releases++
	s.Live--
	d.history.Push(Call{Op: CallRelease, Stage: stage, Handle: h})
	return nil
}

func (d *Device) CreateBlendState(desc state.BlendState) (Handle, error) {
	var reasons []string
	if desc.IndependentBlendEnable && d.featureLevel < 10 {
		reasons = append(reasons, "independent blending is not supported")
	}
	for i, t := range desc.RenderTargets {
		if t.BlendOperation == state.BlendOperationUnset || t.AlphaBlendOperation == state.BlendOperationUnset ||
			t.SourceBlend == state.BlendUnset || t.DestinationBlend == state.BlendUnset ||
			t.SourceAlphaBlend == state.BlendUnset || t.DestinationAlphaBlend == state.BlendUnset {
			reasons = append(reasons, fmt.Sprintf("render target %d has unset blend values", i))
			break
		}
	}
	return d.create(state.StageBlend, desc, reasons)
}

func (d *Device) BindBlendState(h Handle) error {
	return d.bind(state.StageBlend, h)
}

func (d *Device) ReleaseBlendState(h Handle) error {
	return d.release(state.StageBlend, h)
}

func (d *Device) CreateDepthStencilState(desc state.DepthStencilState) (Handle, error) {
	var reasons []string
	if desc.DepthComparison == state.CompareUnset {
		reasons = append(reasons, "depth comparison is unset")
	}
	for _, f := range []state.StencilFace{desc.FrontFace, desc.BackFace} {
		if f.FailOperation == state.StencilUnset || f.DepthFailOperation == state.StencilUnset ||
			f.PassOperation == state.StencilUnset || f.Comparison == state.CompareUnset {
			reasons = append(reasons, "stencil face has unset operations")
			break
		}
	}
	return d.create(state.StageDepthStencil, desc, reasons)
}

func (d *Device) BindDepthStencilState(h Handle) error {
	return d.bind(state.StageDepthStencil, h)
}

func (d *Device) ReleaseDepthStencilState(h Handle) error {
	return d.release(state.StageDepthStencil, h)
}

func (d *Device) CreateRasterizerState(desc state.RasterizerState) (Handle, error) {
	var reasons []string
	if desc.FillMode == state.FillModeUnset || desc.CullMode == state.CullModeUnset {
		reasons = append(reasons, "fill or cull mode is unset")
	}
	if desc.DepthBiasClamp != desc.DepthBiasClamp || desc.SlopeScaledDepthBias != desc.SlopeScaledDepthBias {
		reasons = append(reasons, "depth bias is not a number")
	}
	return d.create(state.StageRasterizer, desc, reasons)
}

func (d *Device) BindRasterizerState(h Handle) error {
	return d.bind(state.StageRasterizer, h)
}

func (d *Device) ReleaseRasterizerState(h Handle) error {
	return d.release(state.StageRasterizer, h)
}

func (d *Device) CreateSamplerState(desc state.SamplerState) (Handle, error) {
	var reasons []string
	if desc.Filter == state.TextureFilterUnset {
		reasons = append(reasons, "filter is unset")
	}
	if desc.AddressU == state.TextureAddressUnset || desc.AddressV == state.TextureAddressUnset || desc.AddressW == state.TextureAddressUnset {
		reasons = append(reasons, "address mode is unset")
	}
	if desc.Filter == state.TextureFilterAnisotropic {
		limit := state.MaxSamplerAnisotropy
		if d.featureLevel < 10 {
			limit = 2
		}
		if desc.MaximumAnisotropy < 1 || desc.MaximumAnisotropy > limit {
			reasons = append(reasons, fmt.Sprintf("maximum anisotropy %d outside [1, %d]", desc.MaximumAnisotropy, limit))
		}
	}
	if desc.MinimumLevelOfDetail > desc.MaximumLevelOfDetail {
		reasons = append(reasons, "inverted level of detail range")
	}
	return d.create(state.StageSampler, desc, reasons)
}

func (d *Device) BindSamplerState(h Handle) error {
	return d.bind(state.StageSampler, h)
}

func (d *Device) ReleaseSamplerState(h Handle) error {
	return d.release(state.StageSampler, h)
}

var _ state.Device[Handle] = (*Device)(nil)
