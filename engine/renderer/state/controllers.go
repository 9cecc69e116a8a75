package state

// The device interfaces below are what a graphics backend implements for each
// stage. H is the backend's native handle type.

type BlendDevice[H comparable] interface {
	CreateBlendState(desc BlendState) (H, error)
	BindBlendState(handle H) error
	ReleaseBlendState(handle H) error
}

type DepthStencilDevice[H comparable] interface {
	CreateDepthStencilState(desc DepthStencilState) (H, error)
	BindDepthStencilState(handle H) error
	ReleaseDepthStencilState(handle H) error
}

type RasterizerDevice[H comparable] interface {
	CreateRasterizerState(desc RasterizerState) (H, error)
	BindRasterizerState(handle H) error
	ReleaseRasterizerState(handle H) error
}

type SamplerDevice[H comparable] interface {
	CreateSamplerState(desc SamplerState) (H, error)
	BindSamplerState(handle H) error
	ReleaseSamplerState(handle H) error
}

// Device is a backend able to drive every fixed-function stage.
type Device[H comparable] interface {
	BlendDevice[H]
	DepthStencilDevice[H]
	RasterizerDevice[H]
	SamplerDevice[H]
}

// Blend

type blendBackend[H comparable] struct {
	device BlendDevice[H]
}

// With independent blending off only render target 0 is meaningful, the
// device receives it replicated to every target.
func (b blendBackend[H]) ConstructNative(desc BlendState) (H, error) {
	return b.device.CreateBlendState(desc.Applied())
}

func (b blendBackend[H]) BindNative(handle H) error {
	return b.device.BindBlendState(handle)
}

func (b blendBackend[H]) ReleaseNative(handle H) error {
	return b.device.ReleaseBlendState(handle)
}

type BlendController[H comparable] struct {
	*Controller[BlendState, H]
}

func NewBlendController[H comparable](device BlendDevice[H], opts ...Option) *BlendController[H] {
	return &BlendController[H]{
		Controller: NewController[BlendState, H](BlendDefault(), blendBackend[H]{device: device}, opts...),
	}
}

// Depth / stencil

type depthStencilBackend[H comparable] struct {
	device DepthStencilDevice[H]
}

func (b depthStencilBackend[H]) ConstructNative(desc DepthStencilState) (H, error) {
	return b.device.CreateDepthStencilState(desc)
}

func (b depthStencilBackend[H]) BindNative(handle H) error {
	return b.device.BindDepthStencilState(handle)
}

func (b depthStencilBackend[H]) ReleaseNative(handle H) error {
	return b.device.ReleaseDepthStencilState(handle)
}

type DepthStencilController[H comparable] struct {
	*Controller[DepthStencilState, H]
}

func NewDepthStencilController[H comparable](device DepthStencilDevice[H], opts ...Option) *DepthStencilController[H] {
	return &DepthStencilController[H]{
		Controller: NewController[DepthStencilState, H](DepthDefault(), depthStencilBackend[H]{device: device}, opts...),
	}
}

// Rasterizer

type rasterizerBackend[H comparable] struct {
	device RasterizerDevice[H]
}

func (b rasterizerBackend[H]) ConstructNative(desc RasterizerState) (H, error) {
	return b.device.CreateRasterizerState(desc)
}

func (b rasterizerBackend[H]) BindNative(handle H) error {
	return b.device.BindRasterizerState(handle)
}

func (b rasterizerBackend[H]) ReleaseNative(handle H) error {
	return b.device.ReleaseRasterizerState(handle)
}

type RasterizerController[H comparable] struct {
	*Controller[RasterizerState, H]
}

func NewRasterizerController[H comparable](device RasterizerDevice[H], opts ...Option) *RasterizerController[H] {
	return &RasterizerController[H]{
		Controller: NewController[RasterizerState, H](RasterizerDefault(), rasterizerBackend[H]{device: device}, opts...),
	}
}

// Sampler

type samplerBackend[H comparable] struct {
	device SamplerDevice[H]
}

func (b samplerBackend[H]) ConstructNative(desc SamplerState) (H, error) {
	return b.device.CreateSamplerState(desc.Normalize())
}

func (b samplerBackend[H]) BindNative(handle H) error {
	return b.device.BindSamplerState(handle)
}

func (b samplerBackend[H]) ReleaseNative(handle H) error {
	return b.device.ReleaseSamplerState(handle)
}

type SamplerController[H comparable] struct {
	*Controller[SamplerState, H]
}

func NewSamplerController[H comparable](device SamplerDevice[H], opts ...Option) *SamplerController[H] {
	return &SamplerController[H]{
		Controller: NewController[SamplerState, H](SamplerDefault(), samplerBackend[H]{device: device}, opts...),
	}
}
