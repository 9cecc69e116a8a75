package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

type resultDescription struct {
	name     string
	extended string
}

// From: https://www.khronos.org/registry/vulkan/specs/1.3-extensions/man/html/VkResult.html
// Only the codes the state objects can run into are spelled out.
var resultDescriptions = map[vk.Result]resultDescription{
	vk.Success:                {"VK_SUCCESS", "Command successfully completed"},
	vk.ErrorOutOfHostMemory:   {"VK_ERROR_OUT_OF_HOST_MEMORY", "A host memory allocation has failed."},
	vk.ErrorOutOfDeviceMemory: {"VK_ERROR_OUT_OF_DEVICE_MEMORY", "A device memory allocation has failed."},
	vk.ErrorDeviceLost:        {"VK_ERROR_DEVICE_LOST", "The logical or physical device has been lost."},
	vk.ErrorTooManyObjects:    {"VK_ERROR_TOO_MANY_OBJECTS", "Too many objects of the type have already been created."},
	vk.ErrorFeatureNotPresent: {"VK_ERROR_FEATURE_NOT_PRESENT", "A requested feature is not supported."},
	vk.ErrorInvalidShaderNv:   {"VK_ERROR_INVALID_SHADER_NV", "One or more shaders failed to compile or link."},
	vk.ErrorUnknown:           {"VK_ERROR_UNKNOWN", "An unknown error has occurred."},
}

func VulkanResultString(result vk.Result, getExtended bool) string {
	d, ok := resultDescriptions[result]
	if !ok {
		return fmt.Sprintf("VkResult(%d)", int32(result))
	}
	if getExtended {
		return d.name + " " + d.extended
	}
	return d.name
}

// Negative results are errors, everything else is a success code.
func VulkanResultIsSuccess(result vk.Result) bool {
	return result >= 0
}
