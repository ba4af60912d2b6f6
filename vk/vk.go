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
Package vk holds the plain values of the native API: enums, flag sets and the
small structs that are passed by value. Every constant has the same numeric value
as the native API so backends convert with a cast.
*/
package vk

const (
	SubpassExternal      = ^uint32(0)
	AttachmentUnused     = ^uint32(0)
	QueueFamilyIgnored   = ^uint32(0)
	RemainingMipLevels   = ^uint32(0)
	RemainingArrayLayers = ^uint32(0)
	WholeSize            = ^uint64(0)
)

type ImageLayout int32

const (
	ImageLayoutUndefined                     ImageLayout = 0
	ImageLayoutGeneral                       ImageLayout = 1
	ImageLayoutColorAttachmentOptimal        ImageLayout = 2
	ImageLayoutDepthStencilAttachmentOptimal ImageLayout = 3
	ImageLayoutDepthStencilReadOnlyOptimal   ImageLayout = 4
	ImageLayoutShaderReadOnlyOptimal         ImageLayout = 5
	ImageLayoutTransferSrcOptimal            ImageLayout = 6
	ImageLayoutTransferDstOptimal            ImageLayout = 7
	ImageLayoutPreinitialized                ImageLayout = 8
	ImageLayoutPresentSrc                    ImageLayout = 1000001002
)

func (l ImageLayout) String() string {
	switch l {
	case ImageLayoutUndefined:
		return "Undefined"
	case ImageLayoutGeneral:
		return "General"
	case ImageLayoutColorAttachmentOptimal:
		return "ColorAttachmentOptimal"
	case ImageLayoutDepthStencilAttachmentOptimal:
		return "DepthStencilAttachmentOptimal"
	case ImageLayoutDepthStencilReadOnlyOptimal:
		return "DepthStencilReadOnlyOptimal"
	case ImageLayoutShaderReadOnlyOptimal:
		return "ShaderReadOnlyOptimal"
	case ImageLayoutTransferSrcOptimal:
		return "TransferSrcOptimal"
	case ImageLayoutTransferDstOptimal:
		return "TransferDstOptimal"
	case ImageLayoutPreinitialized:
		return "Preinitialized"
	case ImageLayoutPresentSrc:
		return "PresentSrc"
	default:
		return "Unknown"
	}
}

type AccessFlags uint32

const (
	AccessIndirectCommandReadBit         AccessFlags = 0x00000001
	AccessIndexReadBit                   AccessFlags = 0x00000002
	AccessVertexAttributeReadBit         AccessFlags = 0x00000004
	AccessUniformReadBit                 AccessFlags = 0x00000008
	AccessInputAttachmentReadBit         AccessFlags = 0x00000010
	AccessShaderReadBit                  AccessFlags = 0x00000020
	AccessShaderWriteBit                 AccessFlags = 0x00000040
	AccessColorAttachmentReadBit         AccessFlags = 0x00000080
	AccessColorAttachmentWriteBit        AccessFlags = 0x00000100
	AccessDepthStencilAttachmentReadBit  AccessFlags = 0x00000200
	AccessDepthStencilAttachmentWriteBit AccessFlags = 0x00000400
	AccessTransferReadBit                AccessFlags = 0x00000800
	AccessTransferWriteBit               AccessFlags = 0x00001000
	AccessHostReadBit                    AccessFlags = 0x00002000
	AccessHostWriteBit                   AccessFlags = 0x00004000
	AccessMemoryReadBit                  AccessFlags = 0x00008000
	AccessMemoryWriteBit                 AccessFlags = 0x00010000

	AccessReadBits = AccessIndirectCommandReadBit | AccessIndexReadBit | AccessVertexAttributeReadBit |
		AccessUniformReadBit | AccessInputAttachmentReadBit | AccessShaderReadBit | AccessColorAttachmentReadBit |
		AccessDepthStencilAttachmentReadBit | AccessTransferReadBit | AccessHostReadBit | AccessMemoryReadBit
	AccessWriteBits = AccessShaderWriteBit | AccessColorAttachmentWriteBit | AccessDepthStencilAttachmentWriteBit |
		AccessTransferWriteBit | AccessHostWriteBit | AccessMemoryWriteBit
)

type PipelineStageFlags uint32

const (
	PipelineStageTopOfPipeBit                    PipelineStageFlags = 0x00000001
	PipelineStageDrawIndirectBit                 PipelineStageFlags = 0x00000002
	PipelineStageVertexInputBit                  PipelineStageFlags = 0x00000004
	PipelineStageVertexShaderBit                 PipelineStageFlags = 0x00000008
	PipelineStageTessellationControlShaderBit    PipelineStageFlags = 0x00000010
	PipelineStageTessellationEvaluationShaderBit PipelineStageFlags = 0x00000020
	PipelineStageGeometryShaderBit               PipelineStageFlags = 0x00000040
	PipelineStageFragmentShaderBit               PipelineStageFlags = 0x00000080
	PipelineStageEarlyFragmentTestsBit           PipelineStageFlags = 0x00000100
	PipelineStageLateFragmentTestsBit            PipelineStageFlags = 0x00000200
	PipelineStageColorAttachmentOutputBit        PipelineStageFlags = 0x00000400
	PipelineStageComputeShaderBit                PipelineStageFlags = 0x00000800
	PipelineStageTransferBit                     PipelineStageFlags = 0x00001000
	PipelineStageBottomOfPipeBit                 PipelineStageFlags = 0x00002000
	PipelineStageHostBit                         PipelineStageFlags = 0x00004000
	PipelineStageAllGraphicsBit                  PipelineStageFlags = 0x00008000
	PipelineStageAllCommandsBit                  PipelineStageFlags = 0x00010000
)

type DependencyFlags uint32

const (
	DependencyByRegionBit DependencyFlags = 0x00000001
)

type ImageUsageFlags uint32

const (
	ImageUsageTransferSrcBit            ImageUsageFlags = 0x00000001
	ImageUsageTransferDstBit            ImageUsageFlags = 0x00000002
	ImageUsageSampledBit                ImageUsageFlags = 0x00000004
	ImageUsageStorageBit                ImageUsageFlags = 0x00000008
	ImageUsageColorAttachmentBit        ImageUsageFlags = 0x00000010
	ImageUsageDepthStencilAttachmentBit ImageUsageFlags = 0x00000020
	ImageUsageTransientAttachmentBit    ImageUsageFlags = 0x00000040
	ImageUsageInputAttachmentBit        ImageUsageFlags = 0x00000080
)

type ImageCreateFlags uint32

const (
	ImageCreateMutableFormatBit ImageCreateFlags = 0x00000008
	ImageCreateCubeCompatible   ImageCreateFlags = 0x00000010
)

type BufferUsageFlags uint32

const (
	BufferUsageTransferSrcBit        BufferUsageFlags = 0x00000001
	BufferUsageTransferDstBit        BufferUsageFlags = 0x00000002
	BufferUsageUniformTexelBufferBit BufferUsageFlags = 0x00000004
	BufferUsageStorageTexelBufferBit BufferUsageFlags = 0x00000008
	BufferUsageUniformBufferBit      BufferUsageFlags = 0x00000010
	BufferUsageStorageBufferBit      BufferUsageFlags = 0x00000020
	BufferUsageIndexBufferBit        BufferUsageFlags = 0x00000040
	BufferUsageVertexBufferBit       BufferUsageFlags = 0x00000080
	BufferUsageIndirectBufferBit     BufferUsageFlags = 0x00000100
)

type ImageAspectFlags uint32

const (
	ImageAspectColorBit   ImageAspectFlags = 0x00000001
	ImageAspectDepthBit   ImageAspectFlags = 0x00000002
	ImageAspectStencilBit ImageAspectFlags = 0x00000004
)

type SampleCountFlags uint32

const (
	SampleCount1Bit  SampleCountFlags = 0x00000001
	SampleCount2Bit  SampleCountFlags = 0x00000002
	SampleCount4Bit  SampleCountFlags = 0x00000004
	SampleCount8Bit  SampleCountFlags = 0x00000008
	SampleCount16Bit SampleCountFlags = 0x00000010
	SampleCount32Bit SampleCountFlags = 0x00000020
	SampleCount64Bit SampleCountFlags = 0x00000040
)

type ImageType int32

const (
	ImageType1D ImageType = 0
	ImageType2D ImageType = 1
	ImageType3D ImageType = 2
)

type ImageViewType int32

const (
	ImageViewType1D        ImageViewType = 0
	ImageViewType2D        ImageViewType = 1
	ImageViewType3D        ImageViewType = 2
	ImageViewTypeCube      ImageViewType = 3
	ImageViewType1DArray   ImageViewType = 4
	ImageViewType2DArray   ImageViewType = 5
	ImageViewTypeCubeArray ImageViewType = 6
)

type ImageTiling int32

const (
	ImageTilingOptimal ImageTiling = 0
	ImageTilingLinear  ImageTiling = 1
)

type SharingMode int32

const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

type ComponentSwizzle int32

const (
	ComponentSwizzleIdentity ComponentSwizzle = 0
	ComponentSwizzleZero     ComponentSwizzle = 1
	ComponentSwizzleOne      ComponentSwizzle = 2
	ComponentSwizzleR        ComponentSwizzle = 3
	ComponentSwizzleG        ComponentSwizzle = 4
	ComponentSwizzleB        ComponentSwizzle = 5
	ComponentSwizzleA        ComponentSwizzle = 6
)

type Filter int32

const (
	FilterNearest Filter = 0
	FilterLinear  Filter = 1
)

type SamplerMipmapMode int32

const (
	SamplerMipmapModeNearest SamplerMipmapMode = 0
	SamplerMipmapModeLinear  SamplerMipmapMode = 1
)

type SamplerAddressMode int32

const (
	SamplerAddressModeRepeat            SamplerAddressMode = 0
	SamplerAddressModeMirroredRepeat    SamplerAddressMode = 1
	SamplerAddressModeClampToEdge       SamplerAddressMode = 2
	SamplerAddressModeClampToBorder     SamplerAddressMode = 3
	SamplerAddressModeMirrorClampToEdge SamplerAddressMode = 4
)

type BorderColor int32

const (
	BorderColorFloatTransparentBlack BorderColor = 0
	BorderColorIntTransparentBlack   BorderColor = 1
	BorderColorFloatOpaqueBlack      BorderColor = 2
	BorderColorIntOpaqueBlack        BorderColor = 3
	BorderColorFloatOpaqueWhite      BorderColor = 4
	BorderColorIntOpaqueWhite        BorderColor = 5
)

type CompareOp int32

const (
	CompareOpNever          CompareOp = 0
	CompareOpLess           CompareOp = 1
	CompareOpEqual          CompareOp = 2
	CompareOpLessOrEqual    CompareOp = 3
	CompareOpGreater        CompareOp = 4
	CompareOpNotEqual       CompareOp = 5
	CompareOpGreaterOrEqual CompareOp = 6
	CompareOpAlways         CompareOp = 7
)

type StencilOp int32

const (
	StencilOpKeep              StencilOp = 0
	StencilOpZero              StencilOp = 1
	StencilOpReplace           StencilOp = 2
	StencilOpIncrementAndClamp StencilOp = 3
	StencilOpDecrementAndClamp StencilOp = 4
	StencilOpInvert            StencilOp = 5
	StencilOpIncrementAndWrap  StencilOp = 6
	StencilOpDecrementAndWrap  StencilOp = 7
)

type StencilFaceFlags uint32

const (
	StencilFaceFrontBit     StencilFaceFlags = 0x00000001
	StencilFaceBackBit      StencilFaceFlags = 0x00000002
	StencilFaceFrontAndBack StencilFaceFlags = 0x00000003
)

type BlendFactor int32

const (
	BlendFactorZero                  BlendFactor = 0
	BlendFactorOne                   BlendFactor = 1
	BlendFactorSrcColor              BlendFactor = 2
	BlendFactorOneMinusSrcColor      BlendFactor = 3
	BlendFactorDstColor              BlendFactor = 4
	BlendFactorOneMinusDstColor      BlendFactor = 5
	BlendFactorSrcAlpha              BlendFactor = 6
	BlendFactorOneMinusSrcAlpha      BlendFactor = 7
	BlendFactorDstAlpha              BlendFactor = 8
	BlendFactorOneMinusDstAlpha      BlendFactor = 9
	BlendFactorConstantColor         BlendFactor = 10
	BlendFactorOneMinusConstantColor BlendFactor = 11
	BlendFactorConstantAlpha         BlendFactor = 12
	BlendFactorOneMinusConstantAlpha BlendFactor = 13
	BlendFactorSrcAlphaSaturate      BlendFactor = 14
	BlendFactorSrc1Color             BlendFactor = 15
	BlendFactorOneMinusSrc1Color     BlendFactor = 16
	BlendFactorSrc1Alpha             BlendFactor = 17
	BlendFactorOneMinusSrc1Alpha     BlendFactor = 18
)

type BlendOp int32

const (
	BlendOpAdd             BlendOp = 0
	BlendOpSubtract        BlendOp = 1
	BlendOpReverseSubtract BlendOp = 2
	BlendOpMin             BlendOp = 3
	BlendOpMax             BlendOp = 4
)

type LogicOp int32

const (
	LogicOpClear        LogicOp = 0
	LogicOpAnd          LogicOp = 1
	LogicOpAndReverse   LogicOp = 2
	LogicOpCopy         LogicOp = 3
	LogicOpAndInverted  LogicOp = 4
	LogicOpNoOp         LogicOp = 5
	LogicOpXor          LogicOp = 6
	LogicOpOr           LogicOp = 7
	LogicOpNor          LogicOp = 8
	LogicOpEquivalent   LogicOp = 9
	LogicOpInvert       LogicOp = 10
	LogicOpOrReverse    LogicOp = 11
	LogicOpCopyInverted LogicOp = 12
	LogicOpOrInverted   LogicOp = 13
	LogicOpNand         LogicOp = 14
	LogicOpSet          LogicOp = 15
)

type ColorComponentFlags uint32

const (
	ColorComponentRBit ColorComponentFlags = 0x00000001
	ColorComponentGBit ColorComponentFlags = 0x00000002
	ColorComponentBBit ColorComponentFlags = 0x00000004
	ColorComponentABit ColorComponentFlags = 0x00000008

	ColorComponentAll = ColorComponentRBit | ColorComponentGBit | ColorComponentBBit | ColorComponentABit
)

type CullModeFlags uint32

const (
	CullModeNone         CullModeFlags = 0
	CullModeFrontBit     CullModeFlags = 0x00000001
	CullModeBackBit      CullModeFlags = 0x00000002
	CullModeFrontAndBack CullModeFlags = 0x00000003
)

type FrontFace int32

const (
	FrontFaceCounterClockwise FrontFace = 0
	FrontFaceClockwise        FrontFace = 1
)

type PolygonMode int32

const (
	PolygonModeFill  PolygonMode = 0
	PolygonModeLine  PolygonMode = 1
	PolygonModePoint PolygonMode = 2
)

type PrimitiveTopology int32

const (
	PrimitiveTopologyPointList                  PrimitiveTopology = 0
	PrimitiveTopologyLineList                   PrimitiveTopology = 1
	PrimitiveTopologyLineStrip                  PrimitiveTopology = 2
	PrimitiveTopologyTriangleList               PrimitiveTopology = 3
	PrimitiveTopologyTriangleStrip              PrimitiveTopology = 4
	PrimitiveTopologyTriangleFan                PrimitiveTopology = 5
	PrimitiveTopologyLineListWithAdjacency      PrimitiveTopology = 6
	PrimitiveTopologyLineStripWithAdjacency     PrimitiveTopology = 7
	PrimitiveTopologyTriangleListWithAdjacency  PrimitiveTopology = 8
	PrimitiveTopologyTriangleStripWithAdjacency PrimitiveTopology = 9
	PrimitiveTopologyPatchList                  PrimitiveTopology = 10
)

type IndexType int32

const (
	IndexTypeUint16 IndexType = 0
	IndexTypeUint32 IndexType = 1
)

type AttachmentLoadOp int32

const (
	AttachmentLoadOpLoad     AttachmentLoadOp = 0
	AttachmentLoadOpClear    AttachmentLoadOp = 1
	AttachmentLoadOpDontCare AttachmentLoadOp = 2
)

type AttachmentStoreOp int32

const (
	AttachmentStoreOpStore    AttachmentStoreOp = 0
	AttachmentStoreOpDontCare AttachmentStoreOp = 1
)

type PipelineBindPoint int32

const (
	PipelineBindPointGraphics PipelineBindPoint = 0
	PipelineBindPointCompute  PipelineBindPoint = 1
)

type ShaderStageFlags uint32

const (
	ShaderStageVertexBit                 ShaderStageFlags = 0x00000001
	ShaderStageTessellationControlBit    ShaderStageFlags = 0x00000002
	ShaderStageTessellationEvaluationBit ShaderStageFlags = 0x00000004
	ShaderStageGeometryBit               ShaderStageFlags = 0x00000008
	ShaderStageFragmentBit               ShaderStageFlags = 0x00000010
	ShaderStageComputeBit                ShaderStageFlags = 0x00000020
	ShaderStageAllGraphics               ShaderStageFlags = 0x0000001F
	ShaderStageAll                       ShaderStageFlags = 0x7FFFFFFF
)

func (s ShaderStageFlags) String() string {
	switch s {
	case ShaderStageVertexBit:
		return "Vertex"
	case ShaderStageTessellationControlBit:
		return "TessellationControl"
	case ShaderStageTessellationEvaluationBit:
		return "TessellationEvaluation"
	case ShaderStageGeometryBit:
		return "Geometry"
	case ShaderStageFragmentBit:
		return "Fragment"
	case ShaderStageComputeBit:
		return "Compute"
	case 0:
		return "None"
	}
	str := ""
	for b := ShaderStageVertexBit; b <= ShaderStageComputeBit; b <<= 1 {
		if s&b != 0 {
			str += b.String() + "|"
		}
	}
	if str == "" {
		return "Unknown"
	}
	return str[:len(str)-1]
}

type DescriptorType int32

const (
	DescriptorTypeSampler              DescriptorType = 0
	DescriptorTypeCombinedImageSampler DescriptorType = 1
	DescriptorTypeSampledImage         DescriptorType = 2
	DescriptorTypeStorageImage         DescriptorType = 3
	DescriptorTypeUniformTexelBuffer   DescriptorType = 4
	DescriptorTypeStorageTexelBuffer   DescriptorType = 5
	DescriptorTypeUniformBuffer        DescriptorType = 6
	DescriptorTypeStorageBuffer        DescriptorType = 7
	DescriptorTypeUniformBufferDynamic DescriptorType = 8
	DescriptorTypeStorageBufferDynamic DescriptorType = 9
	DescriptorTypeInputAttachment      DescriptorType = 10
)

func (t DescriptorType) String() string {
	switch t {
	case DescriptorTypeSampler:
		return "Sampler"
	case DescriptorTypeCombinedImageSampler:
		return "CombinedImageSampler"
	case DescriptorTypeSampledImage:
		return "SampledImage"
	case DescriptorTypeStorageImage:
		return "StorageImage"
	case DescriptorTypeUniformTexelBuffer:
		return "UniformTexelBuffer"
	case DescriptorTypeStorageTexelBuffer:
		return "StorageTexelBuffer"
	case DescriptorTypeUniformBuffer:
		return "UniformBuffer"
	case DescriptorTypeStorageBuffer:
		return "StorageBuffer"
	case DescriptorTypeUniformBufferDynamic:
		return "UniformBufferDynamic"
	case DescriptorTypeStorageBufferDynamic:
		return "StorageBufferDynamic"
	case DescriptorTypeInputAttachment:
		return "InputAttachment"
	default:
		return "Unknown"
	}
}

type VertexInputRate int32

const (
	VertexInputRateVertex   VertexInputRate = 0
	VertexInputRateInstance VertexInputRate = 1
)

type DynamicState int32

const (
	DynamicStateViewport           DynamicState = 0
	DynamicStateScissor            DynamicState = 1
	DynamicStateLineWidth          DynamicState = 2
	DynamicStateDepthBias          DynamicState = 3
	DynamicStateBlendConstants     DynamicState = 4
	DynamicStateDepthBounds        DynamicState = 5
	DynamicStateStencilCompareMask DynamicState = 6
	DynamicStateStencilWriteMask   DynamicState = 7
	DynamicStateStencilReference   DynamicState = 8
)

type QueueFlags uint32

const (
	QueueGraphicsBit      QueueFlags = 0x00000001
	QueueComputeBit       QueueFlags = 0x00000002
	QueueTransferBit      QueueFlags = 0x00000004
	QueueSparseBindingBit QueueFlags = 0x00000008
)

type CommandBufferUsageFlags uint32

const (
	CommandBufferUsageOneTimeSubmitBit      CommandBufferUsageFlags = 0x00000001
	CommandBufferUsageRenderPassContinueBit CommandBufferUsageFlags = 0x00000002
	CommandBufferUsageSimultaneousUseBit    CommandBufferUsageFlags = 0x00000004
)

type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFifo        PresentMode = 2
	PresentModeFifoRelaxed PresentMode = 3
)

type ColorSpace int32

const (
	ColorSpaceSrgbNonlinear ColorSpace = 0
)

type SurfaceTransformFlags uint32

const (
	SurfaceTransformIdentityBit SurfaceTransformFlags = 0x00000001
)

type CompositeAlphaFlags uint32

const (
	CompositeAlphaOpaqueBit         CompositeAlphaFlags = 0x00000001
	CompositeAlphaPreMultipliedBit  CompositeAlphaFlags = 0x00000002
	CompositeAlphaPostMultipliedBit CompositeAlphaFlags = 0x00000004
	CompositeAlphaInheritBit        CompositeAlphaFlags = 0x00000008
)

type QueryType int32

const (
	QueryTypeOcclusion          QueryType = 0
	QueryTypePipelineStatistics QueryType = 1
	QueryTypeTimestamp          QueryType = 2
)

type QueryPipelineStatisticFlags uint32

type QueryControlFlags uint32

const (
	QueryControlPreciseBit QueryControlFlags = 0x00000001
)

type QueryResultFlags uint32

const (
	QueryResult64Bit               QueryResultFlags = 0x00000001
	QueryResultWaitBit             QueryResultFlags = 0x00000002
	QueryResultWithAvailabilityBit QueryResultFlags = 0x00000004
	QueryResultPartialBit          QueryResultFlags = 0x00000008
)

type FormatFeatureFlags uint32

const (
	FormatFeatureSampledImageBit             FormatFeatureFlags = 0x00000001
	FormatFeatureStorageImageBit             FormatFeatureFlags = 0x00000002
	FormatFeatureUniformTexelBufferBit       FormatFeatureFlags = 0x00000008
	FormatFeatureStorageTexelBufferBit       FormatFeatureFlags = 0x00000010
	FormatFeatureVertexBufferBit             FormatFeatureFlags = 0x00000040
	FormatFeatureColorAttachmentBit          FormatFeatureFlags = 0x00000080
	FormatFeatureColorAttachmentBlendBit     FormatFeatureFlags = 0x00000100
	FormatFeatureDepthStencilAttachmentBit   FormatFeatureFlags = 0x00000200
	FormatFeatureBlitSrcBit                  FormatFeatureFlags = 0x00000400
	FormatFeatureBlitDstBit                  FormatFeatureFlags = 0x00000800
	FormatFeatureSampledImageFilterLinearBit FormatFeatureFlags = 0x00001000
	FormatFeatureTransferSrcBit              FormatFeatureFlags = 0x00004000
	FormatFeatureTransferDstBit              FormatFeatureFlags = 0x00008000
)

type MemoryPropertyFlags uint32

const (
	MemoryPropertyDeviceLocalBit  MemoryPropertyFlags = 0x00000001
	MemoryPropertyHostVisibleBit  MemoryPropertyFlags = 0x00000002
	MemoryPropertyHostCoherentBit MemoryPropertyFlags = 0x00000004
	MemoryPropertyHostCachedBit   MemoryPropertyFlags = 0x00000008
)

type PhysicalDeviceType int32

const (
	PhysicalDeviceTypeOther         PhysicalDeviceType = 0
	PhysicalDeviceTypeIntegratedGPU PhysicalDeviceType = 1
	PhysicalDeviceTypeDiscreteGPU   PhysicalDeviceType = 2
	PhysicalDeviceTypeVirtualGPU    PhysicalDeviceType = 3
	PhysicalDeviceTypeCPU           PhysicalDeviceType = 4
)

func (t PhysicalDeviceType) String() string {
	switch t {
	case PhysicalDeviceTypeIntegratedGPU:
		return "IntegratedGPU"
	case PhysicalDeviceTypeDiscreteGPU:
		return "DiscreteGPU"
	case PhysicalDeviceTypeVirtualGPU:
		return "VirtualGPU"
	case PhysicalDeviceTypeCPU:
		return "CPU"
	default:
		return "Other"
	}
}
