/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package native describes the explicit GPU API the façade drives. Everything here
is opaque to the façade: handles are plain integers and entry points are interface
methods, so a backend can be a real driver or an in-memory recorder.
*/
package native

import "goarrg.com/rhi/vez/vk"

type (
	Buffer              uint64
	Image               uint64
	ImageView           uint64
	BufferView          uint64
	Sampler             uint64
	ShaderModule        uint64
	DescriptorSetLayout uint64
	DescriptorPool      uint64
	DescriptorSet       uint64
	PipelineLayout      uint64
	Pipeline            uint64
	RenderPass          uint64
	Framebuffer         uint64
	CommandPool         uint64
	CommandBuffer       uint64
	Fence               uint64
	Semaphore           uint64
	Event               uint64
	QueryPool           uint64
	Surface             uint64
	Swapchain           uint64
	Queue               uint64
	Allocation          uint64
)

/*
Driver is the entry point of a backend.
*/
type Driver interface {
	CreateInstance(info InstanceCreateInfo) (Instance, error)
}

type Instance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
	DestroySurface(Surface)
	Destroy()
}

type PhysicalDevice interface {
	Properties() PhysicalDeviceProperties
	QueueFamilies() []QueueFamilyProperties
	FormatProperties(vk.Format) FormatProperties

	SurfaceSupport(family uint32, surface Surface) (bool, error)
	SurfaceCapabilities(surface Surface) (SurfaceCapabilities, error)
	SurfaceFormats(surface Surface) ([]vk.SurfaceFormat, error)
	SurfacePresentModes(surface Surface) ([]vk.PresentMode, error)

	CreateDevice(info DeviceCreateInfo) (Device, error)
}

type InstanceCreateInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         uint32
	EnabledLayers      []string
	EnabledExtensions  []string
}

type PhysicalDeviceLimits struct {
	MaxImageDimension1D              uint32
	MaxImageDimension2D              uint32
	MaxImageDimension3D              uint32
	MaxImageDimensionCube            uint32
	MaxImageArrayLayers              uint32
	MaxBoundDescriptorSets           uint32
	MaxPushConstantsSize             uint32
	MaxColorAttachments              uint32
	MaxViewports                     uint32
	NonCoherentAtomSize              uint64
	MinUniformBufferOffsetAlignment  uint64
	MinStorageBufferOffsetAlignment  uint64
	OptimalBufferCopyOffsetAlignment uint64
	TimestampPeriod                  float32
	FramebufferColorSampleCounts     vk.SampleCountFlags
	FramebufferDepthSampleCounts     vk.SampleCountFlags
}

type PhysicalDeviceProperties struct {
	APIVersion    uint32
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
	Type          vk.PhysicalDeviceType
	Name          string
	Limits        PhysicalDeviceLimits
}

type QueueFamilyProperties struct {
	Flags              vk.QueueFlags
	Count              uint32
	TimestampValidBits uint32
}

type FormatProperties struct {
	LinearTilingFeatures  vk.FormatFeatureFlags
	OptimalTilingFeatures vk.FormatFeatureFlags
	BufferFeatures        vk.FormatFeatureFlags
}

type SurfaceCapabilities struct {
	MinImageCount           uint32
	MaxImageCount           uint32
	CurrentExtent           vk.Extent2D
	MinImageExtent          vk.Extent2D
	MaxImageExtent          vk.Extent2D
	MaxImageArrayLayers     uint32
	SupportedTransforms     vk.SurfaceTransformFlags
	CurrentTransform        vk.SurfaceTransformFlags
	SupportedCompositeAlpha vk.CompositeAlphaFlags
	SupportedUsage          vk.ImageUsageFlags
}

type DeviceQueueCreateInfo struct {
	Family     uint32
	Priorities []float32
}

type DeviceCreateInfo struct {
	Queues            []DeviceQueueCreateInfo
	EnabledLayers     []string
	EnabledExtensions []string
}
