package renderer

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/engine/renderer/headless"
	"github.com/spaghettifunk/anima-state/engine/renderer/vulkan"
)

const headlessHistorySize = 256

// NewHeadlessContext creates a context on an in-memory device using the
// feature level of cfg.
func NewHeadlessContext(cfg *core.Config) (*RenderContext[headless.Handle], *headless.Device, error) {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	if cfg.Device.Backend != core.BackendHeadless {
		return nil, nil, fmt.Errorf("device backend is %q, not %q", cfg.Device.Backend, core.BackendHeadless)
	}
	dev := headless.New(cfg.Device.FeatureLevel, headlessHistorySize)
	rc, err := NewRenderContext[headless.Handle](dev, cfg)
	if err != nil {
		return nil, nil, err
	}
	return rc, dev, nil
}

// NewVulkanContext creates a context on an existing logical device. The
// instance, surface and swapchain belong to the caller.
func NewVulkanContext(device vk.Device, allocator *vk.AllocationCallbacks, maxAnisotropy float32, cfg *core.Config) (*RenderContext[*vulkan.StateObject], *vulkan.StateDevice, error) {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	if cfg.Device.Backend != core.BackendVulkan {
		return nil, nil, fmt.Errorf("device backend is %q, not %q", cfg.Device.Backend, core.BackendVulkan)
	}
	sd := vulkan.NewStateDevice(device, allocator, maxAnisotropy)
	rc, err := NewRenderContext[*vulkan.StateObject](sd, cfg)
	if err != nil {
		return nil, nil, err
	}
	return rc, sd, nil
}
