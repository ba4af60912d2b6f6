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

package native

import "goarrg.com/rhi/vez/vk"

/*
Device is a logical device. Creation calls return a null handle together with a
non nil error on failure; destroy calls accept null handles.
*/
type Device interface {
	Commands

	Queue(family, index uint32) Queue
	WaitIdle() error
	Destroy()

	// CreateBuffer and CreateImage go through the memory allocator, the returned
	// Allocation is Allocation(0) when AllocationNoAllocationBit was requested.
	CreateBuffer(info BufferCreateInfo, mem AllocationCreateInfo) (Buffer, Allocation, error)
	DestroyBuffer(Buffer, Allocation)
	CreateImage(info ImageCreateInfo, mem AllocationCreateInfo) (Image, Allocation, error)
	DestroyImage(Image, Allocation)
	MapMemory(Allocation) ([]byte, error)
	UnmapMemory(Allocation)
	FlushMemory(a Allocation, offset, size uint64) error
	InvalidateMemory(a Allocation, offset, size uint64) error

	CreateBufferView(info BufferViewCreateInfo) (BufferView, error)
	DestroyBufferView(BufferView)
	CreateImageView(info ImageViewCreateInfo) (ImageView, error)
	DestroyImageView(ImageView)
	CreateSampler(info SamplerCreateInfo) (Sampler, error)
	DestroySampler(Sampler)

	CreateShaderModule(code []uint32) (ShaderModule, error)
	DestroyShaderModule(ShaderModule)

	CreateDescriptorSetLayout(bindings []DescriptorSetLayoutBinding) (DescriptorSetLayout, error)
	DestroyDescriptorSetLayout(DescriptorSetLayout)
	CreateDescriptorPool(maxSets uint32, sizes []DescriptorPoolSize) (DescriptorPool, error)
	DestroyDescriptorPool(DescriptorPool)
	AllocateDescriptorSet(pool DescriptorPool, layout DescriptorSetLayout) (DescriptorSet, error)
	FreeDescriptorSet(pool DescriptorPool, set DescriptorSet)
	UpdateDescriptorSet(set DescriptorSet, writes []DescriptorWrite)

	CreatePipelineLayout(info PipelineLayoutCreateInfo) (PipelineLayout, error)
	DestroyPipelineLayout(PipelineLayout)
	CreateRenderPass(info RenderPassCreateInfo) (RenderPass, error)
	DestroyRenderPass(RenderPass)
	CreateFramebuffer(info FramebufferCreateInfo) (Framebuffer, error)
	DestroyFramebuffer(Framebuffer)
	CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (Pipeline, error)
	CreateComputePipeline(info ComputePipelineCreateInfo) (Pipeline, error)
	DestroyPipeline(Pipeline)

	CreateCommandPool(family uint32) (CommandPool, error)
	DestroyCommandPool(CommandPool)
	AllocateCommandBuffer(pool CommandPool) (CommandBuffer, error)
	FreeCommandBuffer(pool CommandPool, cb CommandBuffer)
	BeginCommandBuffer(cb CommandBuffer, flags vk.CommandBufferUsageFlags) error
	EndCommandBuffer(cb CommandBuffer) error
	ResetCommandBuffer(cb CommandBuffer) error

	CreateFence(signaled bool) (Fence, error)
	DestroyFence(Fence)
	// WaitForFences returns vk.Timeout when the timeout (in nanoseconds) expires.
	WaitForFences(fences []Fence, waitAll bool, timeout uint64) error
	ResetFences(fences []Fence) error
	// FenceStatus returns nil when signaled and vk.NotReady otherwise.
	FenceStatus(Fence) error
	CreateSemaphore() (Semaphore, error)
	DestroySemaphore(Semaphore)
	CreateEvent() (Event, error)
	DestroyEvent(Event)
	// EventStatus returns vk.EventSet or vk.EventReset.
	EventStatus(Event) vk.Result
	SetEvent(Event) error
	ResetEvent(Event) error
	CreateQueryPool(info QueryPoolCreateInfo) (QueryPool, error)
	DestroyQueryPool(QueryPool)
	QueryPoolResults(pool QueryPool, first, count uint32, data []byte, stride uint64, flags vk.QueryResultFlags) error

	QueueSubmit(q Queue, submits []SubmitInfo, fence Fence) error
	QueueWaitIdle(q Queue) error
	// QueuePresent returns the per swapchain results alongside the overall one.
	QueuePresent(q Queue, info PresentInfo) ([]vk.Result, error)

	CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error)
	DestroySwapchain(Swapchain)
	SwapchainImages(Swapchain) ([]Image, error)
	AcquireNextImage(sc Swapchain, timeout uint64, semaphore Semaphore, fence Fence) (uint32, error)
}

type MemoryUsage int32

const (
	MemoryUsageUnknown MemoryUsage = iota
	MemoryUsageGPUOnly
	MemoryUsageCPUOnly
	MemoryUsageCPUToGPU
	MemoryUsageGPUToCPU
)

func (u MemoryUsage) String() string {
	switch u {
	case MemoryUsageGPUOnly:
		return "GPUOnly"
	case MemoryUsageCPUOnly:
		return "CPUOnly"
	case MemoryUsageCPUToGPU:
		return "CPUToGPU"
	case MemoryUsageGPUToCPU:
		return "GPUToCPU"
	default:
		return "Unknown"
	}
}

type AllocationFlags uint32

const (
	AllocationDedicatedBit AllocationFlags = 1 << iota
	// AllocationNoAllocationBit creates the object without backing memory, the
	// caller binds external memory itself.
	AllocationNoAllocationBit
)

type AllocationCreateInfo struct {
	Usage MemoryUsage
	Flags AllocationFlags
}

type BufferCreateInfo struct {
	Size               uint64
	Usage              vk.BufferUsageFlags
	SharingMode        vk.SharingMode
	QueueFamilyIndices []uint32
}

type ImageCreateInfo struct {
	Flags              vk.ImageCreateFlags
	ImageType          vk.ImageType
	Format             vk.Format
	Extent             vk.Extent3D
	MipLevels          uint32
	ArrayLayers        uint32
	Samples            vk.SampleCountFlags
	Tiling             vk.ImageTiling
	Usage              vk.ImageUsageFlags
	SharingMode        vk.SharingMode
	QueueFamilyIndices []uint32
	InitialLayout      vk.ImageLayout
}

type BufferViewCreateInfo struct {
	Buffer Buffer
	Format vk.Format
	Offset uint64
	Range  uint64
}

type ImageViewCreateInfo struct {
	Image            Image
	ViewType         vk.ImageViewType
	Format           vk.Format
	Components       vk.ComponentMapping
	SubresourceRange vk.ImageSubresourceRange
}

type SamplerCreateInfo struct {
	MagFilter               vk.Filter
	MinFilter               vk.Filter
	MipmapMode              vk.SamplerMipmapMode
	AddressModeU            vk.SamplerAddressMode
	AddressModeV            vk.SamplerAddressMode
	AddressModeW            vk.SamplerAddressMode
	MipLodBias              float32
	AnisotropyEnable        bool
	MaxAnisotropy           float32
	CompareEnable           bool
	CompareOp               vk.CompareOp
	MinLod                  float32
	MaxLod                  float32
	BorderColor             vk.BorderColor
	UnnormalizedCoordinates bool
}

type DescriptorSetLayoutBinding struct {
	Binding         uint32
	DescriptorType  vk.DescriptorType
	DescriptorCount uint32
	StageFlags      vk.ShaderStageFlags
}

type DescriptorPoolSize struct {
	Type            vk.DescriptorType
	DescriptorCount uint32
}

type DescriptorBufferInfo struct {
	Buffer Buffer
	Offset uint64
	Range  uint64
}

type DescriptorImageInfo struct {
	Sampler     Sampler
	ImageView   ImageView
	ImageLayout vk.ImageLayout
}

/*
DescriptorWrite updates a single array element, which of BufferInfo, ImageInfo
or TexelBufferView is read depends on DescriptorType.
*/
type DescriptorWrite struct {
	Binding         uint32
	ArrayElement    uint32
	DescriptorType  vk.DescriptorType
	BufferInfo      DescriptorBufferInfo
	ImageInfo       DescriptorImageInfo
	TexelBufferView BufferView
}

type PushConstantRange struct {
	StageFlags vk.ShaderStageFlags
	Offset     uint32
	Size       uint32
}

type PipelineLayoutCreateInfo struct {
	SetLayouts         []DescriptorSetLayout
	PushConstantRanges []PushConstantRange
}

type AttachmentDescription struct {
	Format         vk.Format
	Samples        vk.SampleCountFlags
	LoadOp         vk.AttachmentLoadOp
	StoreOp        vk.AttachmentStoreOp
	StencilLoadOp  vk.AttachmentLoadOp
	StencilStoreOp vk.AttachmentStoreOp
	InitialLayout  vk.ImageLayout
	FinalLayout    vk.ImageLayout
}

type AttachmentReference struct {
	Attachment uint32
	Layout     vk.ImageLayout
}

type SubpassDescription struct {
	InputAttachments       []AttachmentReference
	ColorAttachments       []AttachmentReference
	ResolveAttachments     []AttachmentReference
	DepthStencilAttachment *AttachmentReference
	PreserveAttachments    []uint32
}

type SubpassDependency struct {
	SrcSubpass      uint32
	DstSubpass      uint32
	SrcStageMask    vk.PipelineStageFlags
	DstStageMask    vk.PipelineStageFlags
	SrcAccessMask   vk.AccessFlags
	DstAccessMask   vk.AccessFlags
	DependencyFlags vk.DependencyFlags
}

type RenderPassCreateInfo struct {
	Attachments  []AttachmentDescription
	Subpasses    []SubpassDescription
	Dependencies []SubpassDependency
}

type FramebufferCreateInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Width       uint32
	Height      uint32
	Layers      uint32
}

type SpecializationMapEntry struct {
	ConstantID uint32
	Offset     uint32
	Size       uint64
}

type SpecializationInfo struct {
	MapEntries []SpecializationMapEntry
	Data       []byte
}

type ShaderStageCreateInfo struct {
	Stage          vk.ShaderStageFlags
	Module         ShaderModule
	EntryPoint     string
	Specialization *SpecializationInfo
}

type VertexInputBindingDescription struct {
	Binding   uint32
	Stride    uint32
	InputRate vk.VertexInputRate
}

type VertexInputAttributeDescription struct {
	Location uint32
	Binding  uint32
	Format   vk.Format
	Offset   uint32
}

type StencilOpState struct {
	FailOp      vk.StencilOp
	PassOp      vk.StencilOp
	DepthFailOp vk.StencilOp
	CompareOp   vk.CompareOp
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

type ColorBlendAttachmentState struct {
	BlendEnable         bool
	SrcColorBlendFactor vk.BlendFactor
	DstColorBlendFactor vk.BlendFactor
	ColorBlendOp        vk.BlendOp
	SrcAlphaBlendFactor vk.BlendFactor
	DstAlphaBlendFactor vk.BlendFactor
	AlphaBlendOp        vk.BlendOp
	ColorWriteMask      vk.ColorComponentFlags
}

type GraphicsPipelineCreateInfo struct {
	Stages []ShaderStageCreateInfo

	VertexBindings   []VertexInputBindingDescription
	VertexAttributes []VertexInputAttributeDescription

	Topology               vk.PrimitiveTopology
	PrimitiveRestartEnable bool
	PatchControlPoints     uint32
	ViewportCount          uint32

	DepthClampEnable        bool
	RasterizerDiscardEnable bool
	PolygonMode             vk.PolygonMode
	CullMode                vk.CullModeFlags
	FrontFace               vk.FrontFace
	DepthBiasEnable         bool
	LineWidth               float32

	RasterizationSamples  vk.SampleCountFlags
	SampleShadingEnable   bool
	MinSampleShading      float32
	AlphaToCoverageEnable bool
	AlphaToOneEnable      bool

	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompareOp        vk.CompareOp
	DepthBoundsTestEnable bool
	StencilTestEnable     bool
	Front                 StencilOpState
	Back                  StencilOpState

	LogicOpEnable    bool
	LogicOp          vk.LogicOp
	BlendAttachments []ColorBlendAttachmentState

	DynamicStates []vk.DynamicState

	Layout     PipelineLayout
	RenderPass RenderPass
	Subpass    uint32
}

type ComputePipelineCreateInfo struct {
	Stage  ShaderStageCreateInfo
	Layout PipelineLayout
}

type QueryPoolCreateInfo struct {
	QueryType          vk.QueryType
	QueryCount         uint32
	PipelineStatistics vk.QueryPipelineStatisticFlags
}

type SubmitInfo struct {
	WaitSemaphores    []Semaphore
	WaitDstStageMasks []vk.PipelineStageFlags
	CommandBuffers    []CommandBuffer
	SignalSemaphores  []Semaphore
}

type PresentInfo struct {
	WaitSemaphores []Semaphore
	Swapchains     []Swapchain
	ImageIndices   []uint32
}

type SwapchainCreateInfo struct {
	Surface            Surface
	MinImageCount      uint32
	ImageFormat        vk.Format
	ImageColorSpace    vk.ColorSpace
	ImageExtent        vk.Extent2D
	ImageArrayLayers   uint32
	ImageUsage         vk.ImageUsageFlags
	SharingMode        vk.SharingMode
	QueueFamilyIndices []uint32
	PreTransform       vk.SurfaceTransformFlags
	CompositeAlpha     vk.CompositeAlphaFlags
	PresentMode        vk.PresentMode
	Clipped            bool
	OldSwapchain       Swapchain
}
