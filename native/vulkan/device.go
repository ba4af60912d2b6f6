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

package vulkan

import (
	"sync"
	"unsafe"

	vulkan "github.com/goki/vulkan"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
allocation is one dedicated device memory object, every buffer and image gets
its own.
*/
type allocation struct {
	memory vulkan.DeviceMemory
	size   uint64
	mapped unsafe.Pointer
}

type swapchain struct {
	handle vulkan.Swapchain
	images []native.Image
}

type Device struct {
	physical *physicalDevice
	handle   vulkan.Device

	queueMtx sync.Mutex
	queueIDs map[[2]uint32]native.Queue
	queues   registry[vulkan.Queue]

	allocations     registry[*allocation]
	buffers         registry[vulkan.Buffer]
	images          registry[vulkan.Image]
	bufferViews     registry[vulkan.BufferView]
	imageViews      registry[vulkan.ImageView]
	samplers        registry[vulkan.Sampler]
	shaderModules   registry[vulkan.ShaderModule]
	setLayouts      registry[vulkan.DescriptorSetLayout]
	descriptorPools registry[vulkan.DescriptorPool]
	descriptorSets  registry[vulkan.DescriptorSet]
	pipelineLayouts registry[vulkan.PipelineLayout]
	renderPasses    registry[vulkan.RenderPass]
	framebuffers    registry[vulkan.Framebuffer]
	pipelines       registry[vulkan.Pipeline]
	commandPools    registry[vulkan.CommandPool]
	commandBuffers  registry[vulkan.CommandBuffer]
	fences          registry[vulkan.Fence]
	semaphores      registry[vulkan.Semaphore]
	events          registry[vulkan.Event]
	queryPools      registry[vulkan.QueryPool]
	swapchains      registry[*swapchain]

	pipelineCache vulkan.PipelineCache
}

func newDevice(p *physicalDevice, h vulkan.Device) *Device {
	d := &Device{physical: p, handle: h, queueIDs: map[[2]uint32]native.Queue{}}
	var cache vulkan.PipelineCache
	ret := vulkan.CreatePipelineCache(h, &vulkan.PipelineCacheCreateInfo{
		SType: vulkan.StructureTypePipelineCacheCreateInfo,
	}, nil, &cache)
	if err := result(ret); err != nil {
		logger.WPrintf("Failed to create pipeline cache: %s", err)
	} else {
		d.pipelineCache = cache
	}
	return d
}

func (d *Device) Queue(family, index uint32) native.Queue {
	d.queueMtx.Lock()
	defer d.queueMtx.Unlock()
	key := [2]uint32{family, index}
	if q, ok := d.queueIDs[key]; ok {
		return q
	}
	var h vulkan.Queue
	vulkan.GetDeviceQueue(d.handle, family, index, &h)
	q := native.Queue(d.queues.add(h))
	d.queueIDs[key] = q
	return q
}

func (d *Device) WaitIdle() error {
	return result(vulkan.DeviceWaitIdle(d.handle))
}

func (d *Device) Destroy() {
	if d.pipelineCache != nil {
		vulkan.DestroyPipelineCache(d.handle, d.pipelineCache, nil)
	}
	leaks := map[string]int{
		"Buffer":        d.buffers.len(),
		"Image":         d.images.len(),
		"Pipeline":      d.pipelines.len(),
		"CommandPool":   d.commandPools.len(),
		"DescriptorSet": d.descriptorSets.len(),
	}
	for kind, n := range leaks {
		if n > 0 {
			logger.WPrintf("Destroying device with %d live objects of kind %s", n, kind)
		}
	}
	vulkan.DestroyDevice(d.handle, nil)
}

func memoryProperties(usage native.MemoryUsage) (required, preferred vulkan.MemoryPropertyFlags) {
	deviceLocal := vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit)
	hostVisible := vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyHostVisibleBit)
	hostCoherent := vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyHostCoherentBit)
	hostCached := vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyHostCachedBit)
	switch usage {
	case native.MemoryUsageGPUOnly:
		return deviceLocal, deviceLocal
	case native.MemoryUsageCPUOnly:
		return hostVisible | hostCoherent, hostVisible | hostCoherent
	case native.MemoryUsageCPUToGPU:
		return hostVisible, hostVisible | deviceLocal
	case native.MemoryUsageGPUToCPU:
		return hostVisible, hostVisible | hostCached
	}
	return 0, 0
}

func (d *Device) allocate(reqs vulkan.MemoryRequirements, mem native.AllocationCreateInfo) (native.Allocation, error) {
	reqs.Deref()
	required, preferred := memoryProperties(mem.Usage)
	index, ok := d.physical.memoryType(reqs.MemoryTypeBits, required, preferred)
	if !ok {
		logger.EPrintf("No memory type for usage %s and type bits 0x%X", mem.Usage, reqs.MemoryTypeBits)
		return 0, vk.ErrorOutOfDeviceMemory
	}
	var h vulkan.DeviceMemory
	ret := vulkan.AllocateMemory(d.handle, &vulkan.MemoryAllocateInfo{
		SType:           vulkan.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: index,
	}, nil, &h)
	if err := result(ret); err != nil {
		logger.EPrintf("Failed to allocate %d bytes of memory type %d: %s", reqs.Size, index, err)
		return 0, err
	}
	return native.Allocation(d.allocations.add(&allocation{memory: h, size: uint64(reqs.Size)})), nil
}

func (d *Device) free(a native.Allocation) {
	if m, ok := d.allocations.remove(uint64(a)); ok {
		if m.mapped != nil {
			vulkan.UnmapMemory(d.handle, m.memory)
		}
		vulkan.FreeMemory(d.handle, m.memory, nil)
	}
}

func (d *Device) CreateBuffer(info native.BufferCreateInfo, mem native.AllocationCreateInfo) (native.Buffer, native.Allocation, error) {
	var h vulkan.Buffer
	ret := vulkan.CreateBuffer(d.handle, &vulkan.BufferCreateInfo{
		SType:                 vulkan.StructureTypeBufferCreateInfo,
		Size:                  vulkan.DeviceSize(info.Size),
		Usage:                 vulkan.BufferUsageFlags(info.Usage),
		SharingMode:           vulkan.SharingMode(info.SharingMode),
		QueueFamilyIndexCount: uint32(len(info.QueueFamilyIndices)),
		PQueueFamilyIndices:   info.QueueFamilyIndices,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, 0, err
	}
	if mem.Flags&native.AllocationNoAllocationBit != 0 {
		return native.Buffer(d.buffers.add(h)), 0, nil
	}

	var reqs vulkan.MemoryRequirements
	vulkan.GetBufferMemoryRequirements(d.handle, h, &reqs)
	a, err := d.allocate(reqs, mem)
	if err != nil {
		vulkan.DestroyBuffer(d.handle, h, nil)
		return 0, 0, err
	}
	if err := result(vulkan.BindBufferMemory(d.handle, h, d.allocations.get(uint64(a)).memory, 0)); err != nil {
		d.free(a)
		vulkan.DestroyBuffer(d.handle, h, nil)
		return 0, 0, err
	}
	return native.Buffer(d.buffers.add(h)), a, nil
}

func (d *Device) DestroyBuffer(b native.Buffer, a native.Allocation) {
	if h, ok := d.buffers.remove(uint64(b)); ok {
		vulkan.DestroyBuffer(d.handle, h, nil)
	}
	d.free(a)
}

func (d *Device) CreateImage(info native.ImageCreateInfo, mem native.AllocationCreateInfo) (native.Image, native.Allocation, error) {
	var h vulkan.Image
	ret := vulkan.CreateImage(d.handle, &vulkan.ImageCreateInfo{
		SType:                 vulkan.StructureTypeImageCreateInfo,
		Flags:                 vulkan.ImageCreateFlags(info.Flags),
		ImageType:             vulkan.ImageType(info.ImageType),
		Format:                vulkan.Format(info.Format),
		Extent:                extent3D(info.Extent),
		MipLevels:             info.MipLevels,
		ArrayLayers:           info.ArrayLayers,
		Samples:               vulkan.SampleCountFlagBits(info.Samples),
		Tiling:                vulkan.ImageTiling(info.Tiling),
		Usage:                 vulkan.ImageUsageFlags(info.Usage),
		SharingMode:           vulkan.SharingMode(info.SharingMode),
		QueueFamilyIndexCount: uint32(len(info.QueueFamilyIndices)),
		PQueueFamilyIndices:   info.QueueFamilyIndices,
		InitialLayout:         vulkan.ImageLayout(info.InitialLayout),
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, 0, err
	}
	if mem.Flags&native.AllocationNoAllocationBit != 0 {
		return native.Image(d.images.add(h)), 0, nil
	}

	var reqs vulkan.MemoryRequirements
	vulkan.GetImageMemoryRequirements(d.handle, h, &reqs)
	a, err := d.allocate(reqs, mem)
	if err != nil {
		vulkan.DestroyImage(d.handle, h, nil)
		return 0, 0, err
	}
	if err := result(vulkan.BindImageMemory(d.handle, h, d.allocations.get(uint64(a)).memory, 0)); err != nil {
		d.free(a)
		vulkan.DestroyImage(d.handle, h, nil)
		return 0, 0, err
	}
	return native.Image(d.images.add(h)), a, nil
}

func (d *Device) DestroyImage(i native.Image, a native.Allocation) {
	if h, ok := d.images.remove(uint64(i)); ok {
		vulkan.DestroyImage(d.handle, h, nil)
	}
	d.free(a)
}

func (d *Device) MapMemory(a native.Allocation) ([]byte, error) {
	m := d.allocations.get(uint64(a))
	if m == nil {
		return nil, vk.ErrorMemoryMapFailed
	}
	if m.mapped == nil {
		var ptr unsafe.Pointer
		if err := result(vulkan.MapMemory(d.handle, m.memory, 0, vulkan.DeviceSize(vulkan.WholeSize), 0, &ptr)); err != nil {
			return nil, err
		}
		m.mapped = ptr
	}
	return unsafe.Slice((*byte)(m.mapped), m.size), nil
}

func (d *Device) UnmapMemory(a native.Allocation) {
	m := d.allocations.get(uint64(a))
	if m == nil || m.mapped == nil {
		return
	}
	vulkan.UnmapMemory(d.handle, m.memory)
	m.mapped = nil
}

/*
mappedRange widens a range to the non coherent atom size, a range reaching the
end of the allocation covers the whole remainder.
*/
func (d *Device) mappedRange(a native.Allocation, offset, size uint64) (vulkan.MappedMemoryRange, bool) {
	m := d.allocations.get(uint64(a))
	if m == nil {
		return vulkan.MappedMemoryRange{}, false
	}
	atom := max(d.physical.properties.Limits.NonCoherentAtomSize, 1)
	start := offset / atom * atom
	end := (offset + size + atom - 1) / atom * atom
	r := vulkan.MappedMemoryRange{
		SType:  vulkan.StructureTypeMappedMemoryRange,
		Memory: m.memory,
		Offset: vulkan.DeviceSize(start),
		Size:   vulkan.DeviceSize(end - start),
	}
	if end >= m.size {
		r.Size = vulkan.DeviceSize(vulkan.WholeSize)
	}
	return r, true
}

func (d *Device) FlushMemory(a native.Allocation, offset, size uint64) error {
	r, ok := d.mappedRange(a, offset, size)
	if !ok {
		return vk.ErrorMemoryMapFailed
	}
	return result(vulkan.FlushMappedMemoryRanges(d.handle, 1, []vulkan.MappedMemoryRange{r}))
}

func (d *Device) InvalidateMemory(a native.Allocation, offset, size uint64) error {
	r, ok := d.mappedRange(a, offset, size)
	if !ok {
		return vk.ErrorMemoryMapFailed
	}
	return result(vulkan.InvalidateMappedMemoryRanges(d.handle, 1, []vulkan.MappedMemoryRange{r}))
}

func (d *Device) CreateBufferView(info native.BufferViewCreateInfo) (native.BufferView, error) {
	var h vulkan.BufferView
	ret := vulkan.CreateBufferView(d.handle, &vulkan.BufferViewCreateInfo{
		SType:  vulkan.StructureTypeBufferViewCreateInfo,
		Buffer: d.buffers.get(uint64(info.Buffer)),
		Format: vulkan.Format(info.Format),
		Offset: vulkan.DeviceSize(info.Offset),
		Range:  vulkan.DeviceSize(info.Range),
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.BufferView(d.bufferViews.add(h)), nil
}

func (d *Device) DestroyBufferView(v native.BufferView) {
	if h, ok := d.bufferViews.remove(uint64(v)); ok {
		vulkan.DestroyBufferView(d.handle, h, nil)
	}
}

func (d *Device) CreateImageView(info native.ImageViewCreateInfo) (native.ImageView, error) {
	var h vulkan.ImageView
	ret := vulkan.CreateImageView(d.handle, &vulkan.ImageViewCreateInfo{
		SType:    vulkan.StructureTypeImageViewCreateInfo,
		Image:    d.images.get(uint64(info.Image)),
		ViewType: vulkan.ImageViewType(info.ViewType),
		Format:   vulkan.Format(info.Format),
		Components: vulkan.ComponentMapping{
			R: vulkan.ComponentSwizzle(info.Components.R),
			G: vulkan.ComponentSwizzle(info.Components.G),
			B: vulkan.ComponentSwizzle(info.Components.B),
			A: vulkan.ComponentSwizzle(info.Components.A),
		},
		SubresourceRange: subresourceRange(info.SubresourceRange),
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.ImageView(d.imageViews.add(h)), nil
}

func (d *Device) DestroyImageView(v native.ImageView) {
	if h, ok := d.imageViews.remove(uint64(v)); ok {
		vulkan.DestroyImageView(d.handle, h, nil)
	}
}

func (d *Device) CreateSampler(info native.SamplerCreateInfo) (native.Sampler, error) {
	var h vulkan.Sampler
	ret := vulkan.CreateSampler(d.handle, &vulkan.SamplerCreateInfo{
		SType:                   vulkan.StructureTypeSamplerCreateInfo,
		MagFilter:               vulkan.Filter(info.MagFilter),
		MinFilter:               vulkan.Filter(info.MinFilter),
		MipmapMode:              vulkan.SamplerMipmapMode(info.MipmapMode),
		AddressModeU:            vulkan.SamplerAddressMode(info.AddressModeU),
		AddressModeV:            vulkan.SamplerAddressMode(info.AddressModeV),
		AddressModeW:            vulkan.SamplerAddressMode(info.AddressModeW),
		MipLodBias:              info.MipLodBias,
		AnisotropyEnable:        bool32(info.AnisotropyEnable),
		MaxAnisotropy:           info.MaxAnisotropy,
		CompareEnable:           bool32(info.CompareEnable),
		CompareOp:               vulkan.CompareOp(info.CompareOp),
		MinLod:                  info.MinLod,
		MaxLod:                  info.MaxLod,
		BorderColor:             vulkan.BorderColor(info.BorderColor),
		UnnormalizedCoordinates: bool32(info.UnnormalizedCoordinates),
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.Sampler(d.samplers.add(h)), nil
}

func (d *Device) DestroySampler(s native.Sampler) {
	if h, ok := d.samplers.remove(uint64(s)); ok {
		vulkan.DestroySampler(d.handle, h, nil)
	}
}

func (d *Device) CreateShaderModule(code []uint32) (native.ShaderModule, error) {
	var h vulkan.ShaderModule
	ret := vulkan.CreateShaderModule(d.handle, &vulkan.ShaderModuleCreateInfo{
		SType:    vulkan.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code) * 4),
		PCode:    code,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.ShaderModule(d.shaderModules.add(h)), nil
}

func (d *Device) DestroyShaderModule(m native.ShaderModule) {
	if h, ok := d.shaderModules.remove(uint64(m)); ok {
		vulkan.DestroyShaderModule(d.handle, h, nil)
	}
}

func (d *Device) CreateDescriptorSetLayout(bindings []native.DescriptorSetLayoutBinding) (native.DescriptorSetLayout, error) {
	binds := make([]vulkan.DescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		binds[i] = vulkan.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  vulkan.DescriptorType(b.DescriptorType),
			DescriptorCount: b.DescriptorCount,
			StageFlags:      vulkan.ShaderStageFlags(b.StageFlags),
		}
	}
	var h vulkan.DescriptorSetLayout
	ret := vulkan.CreateDescriptorSetLayout(d.handle, &vulkan.DescriptorSetLayoutCreateInfo{
		SType:        vulkan.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(binds)),
		PBindings:    binds,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.DescriptorSetLayout(d.setLayouts.add(h)), nil
}

func (d *Device) DestroyDescriptorSetLayout(l native.DescriptorSetLayout) {
	if h, ok := d.setLayouts.remove(uint64(l)); ok {
		vulkan.DestroyDescriptorSetLayout(d.handle, h, nil)
	}
}

func (d *Device) CreateDescriptorPool(maxSets uint32, sizes []native.DescriptorPoolSize) (native.DescriptorPool, error) {
	pools := make([]vulkan.DescriptorPoolSize, len(sizes))
	for i, s := range sizes {
		pools[i] = vulkan.DescriptorPoolSize{Type: vulkan.DescriptorType(s.Type), DescriptorCount: s.DescriptorCount}
	}
	var h vulkan.DescriptorPool
	ret := vulkan.CreateDescriptorPool(d.handle, &vulkan.DescriptorPoolCreateInfo{
		SType:         vulkan.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vulkan.DescriptorPoolCreateFlags(vulkan.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       maxSets,
		PoolSizeCount: uint32(len(pools)),
		PPoolSizes:    pools,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.DescriptorPool(d.descriptorPools.add(h)), nil
}

func (d *Device) DestroyDescriptorPool(p native.DescriptorPool) {
	if h, ok := d.descriptorPools.remove(uint64(p)); ok {
		vulkan.DestroyDescriptorPool(d.handle, h, nil)
	}
}

func (d *Device) AllocateDescriptorSet(pool native.DescriptorPool, layout native.DescriptorSetLayout) (native.DescriptorSet, error) {
	var h vulkan.DescriptorSet
	ret := vulkan.AllocateDescriptorSets(d.handle, &vulkan.DescriptorSetAllocateInfo{
		SType:              vulkan.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.descriptorPools.get(uint64(pool)),
		DescriptorSetCount: 1,
		PSetLayouts:        []vulkan.DescriptorSetLayout{d.setLayouts.get(uint64(layout))},
	}, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.DescriptorSet(d.descriptorSets.add(h)), nil
}

func (d *Device) FreeDescriptorSet(pool native.DescriptorPool, set native.DescriptorSet) {
	if h, ok := d.descriptorSets.remove(uint64(set)); ok {
		vulkan.FreeDescriptorSets(d.handle, d.descriptorPools.get(uint64(pool)), 1, &h)
	}
}

func (d *Device) UpdateDescriptorSet(set native.DescriptorSet, writes []native.DescriptorWrite) {
	if len(writes) == 0 {
		return
	}
	h := d.descriptorSets.get(uint64(set))
	out := make([]vulkan.WriteDescriptorSet, len(writes))
	for i, w := range writes {
		out[i] = vulkan.WriteDescriptorSet{
			SType:           vulkan.StructureTypeWriteDescriptorSet,
			DstSet:          h,
			DstBinding:      w.Binding,
			DstArrayElement: w.ArrayElement,
			DescriptorCount: 1,
			DescriptorType:  vulkan.DescriptorType(w.DescriptorType),
		}
		switch w.DescriptorType {
		case vk.DescriptorTypeUniformTexelBuffer, vk.DescriptorTypeStorageTexelBuffer:
			out[i].PTexelBufferView = []vulkan.BufferView{d.bufferViews.get(uint64(w.TexelBufferView))}
		case vk.DescriptorTypeUniformBuffer, vk.DescriptorTypeStorageBuffer,
			vk.DescriptorTypeUniformBufferDynamic, vk.DescriptorTypeStorageBufferDynamic:
			out[i].PBufferInfo = []vulkan.DescriptorBufferInfo{{
				Buffer: d.buffers.get(uint64(w.BufferInfo.Buffer)),
				Offset: vulkan.DeviceSize(w.BufferInfo.Offset),
				Range:  vulkan.DeviceSize(w.BufferInfo.Range),
			}}
		default:
			out[i].PImageInfo = []vulkan.DescriptorImageInfo{{
				Sampler:     d.samplers.get(uint64(w.ImageInfo.Sampler)),
				ImageView:   d.imageViews.get(uint64(w.ImageInfo.ImageView)),
				ImageLayout: vulkan.ImageLayout(w.ImageInfo.ImageLayout),
			}}
		}
	}
	vulkan.UpdateDescriptorSets(d.handle, uint32(len(out)), out, 0, nil)
}

func (d *Device) CreatePipelineLayout(info native.PipelineLayoutCreateInfo) (native.PipelineLayout, error) {
	layouts := make([]vulkan.DescriptorSetLayout, len(info.SetLayouts))
	for i, l := range info.SetLayouts {
		layouts[i] = d.setLayouts.get(uint64(l))
	}
	ranges := make([]vulkan.PushConstantRange, len(info.PushConstantRanges))
	for i, r := range info.PushConstantRanges {
		ranges[i] = vulkan.PushConstantRange{StageFlags: vulkan.ShaderStageFlags(r.StageFlags), Offset: r.Offset, Size: r.Size}
	}
	var h vulkan.PipelineLayout
	ret := vulkan.CreatePipelineLayout(d.handle, &vulkan.PipelineLayoutCreateInfo{
		SType:                  vulkan.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(layouts)),
		PSetLayouts:            layouts,
		PushConstantRangeCount: uint32(len(ranges)),
		PPushConstantRanges:    ranges,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.PipelineLayout(d.pipelineLayouts.add(h)), nil
}

func (d *Device) DestroyPipelineLayout(l native.PipelineLayout) {
	if h, ok := d.pipelineLayouts.remove(uint64(l)); ok {
		vulkan.DestroyPipelineLayout(d.handle, h, nil)
	}
}

func attachmentReferences(refs []native.AttachmentReference) []vulkan.AttachmentReference {
	if len(refs) == 0 {
		return nil
	}
	out := make([]vulkan.AttachmentReference, len(refs))
	for i, r := range refs {
		out[i] = vulkan.AttachmentReference{Attachment: r.Attachment, Layout: vulkan.ImageLayout(r.Layout)}
	}
	return out
}

func (d *Device) CreateRenderPass(info native.RenderPassCreateInfo) (native.RenderPass, error) {
	attachments := make([]vulkan.AttachmentDescription, len(info.Attachments))
	for i, a := range info.Attachments {
		attachments[i] = vulkan.AttachmentDescription{
			Format:         vulkan.Format(a.Format),
			Samples:        vulkan.SampleCountFlagBits(a.Samples),
			LoadOp:         vulkan.AttachmentLoadOp(a.LoadOp),
			StoreOp:        vulkan.AttachmentStoreOp(a.StoreOp),
			StencilLoadOp:  vulkan.AttachmentLoadOp(a.StencilLoadOp),
			StencilStoreOp: vulkan.AttachmentStoreOp(a.StencilStoreOp),
			InitialLayout:  vulkan.ImageLayout(a.InitialLayout),
			FinalLayout:    vulkan.ImageLayout(a.FinalLayout),
		}
	}
	subpasses := make([]vulkan.SubpassDescription, len(info.Subpasses))
	for i, s := range info.Subpasses {
		subpasses[i] = vulkan.SubpassDescription{
			PipelineBindPoint:       vulkan.PipelineBindPointGraphics,
			InputAttachmentCount:    uint32(len(s.InputAttachments)),
			PInputAttachments:       attachmentReferences(s.InputAttachments),
			ColorAttachmentCount:    uint32(len(s.ColorAttachments)),
			PColorAttachments:       attachmentReferences(s.ColorAttachments),
			PResolveAttachments:     attachmentReferences(s.ResolveAttachments),
			PreserveAttachmentCount: uint32(len(s.PreserveAttachments)),
			PPreserveAttachments:    s.PreserveAttachments,
		}
		if s.DepthStencilAttachment != nil {
			subpasses[i].PDepthStencilAttachment = &vulkan.AttachmentReference{
				Attachment: s.DepthStencilAttachment.Attachment,
				Layout:     vulkan.ImageLayout(s.DepthStencilAttachment.Layout),
			}
		}
	}
	dependencies := make([]vulkan.SubpassDependency, len(info.Dependencies))
	for i, dep := range info.Dependencies {
		dependencies[i] = vulkan.SubpassDependency{
			SrcSubpass:      dep.SrcSubpass,
			DstSubpass:      dep.DstSubpass,
			SrcStageMask:    vulkan.PipelineStageFlags(dep.SrcStageMask),
			DstStageMask:    vulkan.PipelineStageFlags(dep.DstStageMask),
			SrcAccessMask:   vulkan.AccessFlags(dep.SrcAccessMask),
			DstAccessMask:   vulkan.AccessFlags(dep.DstAccessMask),
			DependencyFlags: vulkan.DependencyFlags(dep.DependencyFlags),
		}
	}
	var h vulkan.RenderPass
	ret := vulkan.CreateRenderPass(d.handle, &vulkan.RenderPassCreateInfo{
		SType:           vulkan.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.RenderPass(d.renderPasses.add(h)), nil
}

func (d *Device) DestroyRenderPass(rp native.RenderPass) {
	if h, ok := d.renderPasses.remove(uint64(rp)); ok {
		vulkan.DestroyRenderPass(d.handle, h, nil)
	}
}

func (d *Device) CreateFramebuffer(info native.FramebufferCreateInfo) (native.Framebuffer, error) {
	views := make([]vulkan.ImageView, len(info.Attachments))
	for i, v := range info.Attachments {
		views[i] = d.imageViews.get(uint64(v))
	}
	var h vulkan.Framebuffer
	ret := vulkan.CreateFramebuffer(d.handle, &vulkan.FramebufferCreateInfo{
		SType:           vulkan.StructureTypeFramebufferCreateInfo,
		RenderPass:      d.renderPasses.get(uint64(info.RenderPass)),
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           info.Width,
		Height:          info.Height,
		Layers:          info.Layers,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.Framebuffer(d.framebuffers.add(h)), nil
}

func (d *Device) DestroyFramebuffer(fb native.Framebuffer) {
	if h, ok := d.framebuffers.remove(uint64(fb)); ok {
		vulkan.DestroyFramebuffer(d.handle, h, nil)
	}
}

func (d *Device) shaderStage(s native.ShaderStageCreateInfo) vulkan.PipelineShaderStageCreateInfo {
	entry := s.EntryPoint
	if entry == "" {
		entry = "main"
	}
	stage := vulkan.PipelineShaderStageCreateInfo{
		SType:  vulkan.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vulkan.ShaderStageFlagBits(s.Stage),
		Module: d.shaderModules.get(uint64(s.Module)),
		PName:  entry + "\x00",
	}
	if s.Specialization != nil && len(s.Specialization.MapEntries) > 0 {
		entries := make([]vulkan.SpecializationMapEntry, len(s.Specialization.MapEntries))
		for i, e := range s.Specialization.MapEntries {
			entries[i] = vulkan.SpecializationMapEntry{ConstantID: e.ConstantID, Offset: e.Offset, Size: uint64(e.Size)}
		}
		stage.PSpecializationInfo = []vulkan.SpecializationInfo{{
			MapEntryCount: uint32(len(entries)),
			PMapEntries:   entries,
			DataSize:      uint64(len(s.Specialization.Data)),
			PData:         unsafe.Pointer(unsafe.SliceData(s.Specialization.Data)),
		}}
	}
	return stage
}

func (d *Device) createPipelines(create func(cache vulkan.PipelineCache, out []vulkan.Pipeline) vulkan.Result) (native.Pipeline, error) {
	out := make([]vulkan.Pipeline, 1)
	if err := result(create(d.pipelineCache, out)); err != nil {
		return 0, err
	}
	return native.Pipeline(d.pipelines.add(out[0])), nil
}

func (d *Device) CreateGraphicsPipeline(info native.GraphicsPipelineCreateInfo) (native.Pipeline, error) {
	stages := make([]vulkan.PipelineShaderStageCreateInfo, len(info.Stages))
	for i, s := range info.Stages {
		stages[i] = d.shaderStage(s)
	}
	bindings := make([]vulkan.VertexInputBindingDescription, len(info.VertexBindings))
	for i, b := range info.VertexBindings {
		bindings[i] = vulkan.VertexInputBindingDescription{Binding: b.Binding, Stride: b.Stride, InputRate: vulkan.VertexInputRate(b.InputRate)}
	}
	attributes := make([]vulkan.VertexInputAttributeDescription, len(info.VertexAttributes))
	for i, a := range info.VertexAttributes {
		attributes[i] = vulkan.VertexInputAttributeDescription{Location: a.Location, Binding: a.Binding, Format: vulkan.Format(a.Format), Offset: a.Offset}
	}
	blend := make([]vulkan.PipelineColorBlendAttachmentState, len(info.BlendAttachments))
	for i, b := range info.BlendAttachments {
		blend[i] = vulkan.PipelineColorBlendAttachmentState{
			BlendEnable:         bool32(b.BlendEnable),
			SrcColorBlendFactor: vulkan.BlendFactor(b.SrcColorBlendFactor),
			DstColorBlendFactor: vulkan.BlendFactor(b.DstColorBlendFactor),
			ColorBlendOp:        vulkan.BlendOp(b.ColorBlendOp),
			SrcAlphaBlendFactor: vulkan.BlendFactor(b.SrcAlphaBlendFactor),
			DstAlphaBlendFactor: vulkan.BlendFactor(b.DstAlphaBlendFactor),
			AlphaBlendOp:        vulkan.BlendOp(b.AlphaBlendOp),
			ColorWriteMask:      vulkan.ColorComponentFlags(b.ColorWriteMask),
		}
	}
	dynamic := make([]vulkan.DynamicState, len(info.DynamicStates))
	for i, s := range info.DynamicStates {
		dynamic[i] = vulkan.DynamicState(s)
	}
	stencil := func(s native.StencilOpState) vulkan.StencilOpState {
		return vulkan.StencilOpState{
			FailOp:      vulkan.StencilOp(s.FailOp),
			PassOp:      vulkan.StencilOp(s.PassOp),
			DepthFailOp: vulkan.StencilOp(s.DepthFailOp),
			CompareOp:   vulkan.CompareOp(s.CompareOp),
			CompareMask: s.CompareMask,
			WriteMask:   s.WriteMask,
			Reference:   s.Reference,
		}
	}
	viewports := max(info.ViewportCount, 1)

	create := vulkan.GraphicsPipelineCreateInfo{
		SType:      vulkan.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vulkan.PipelineVertexInputStateCreateInfo{
			SType:                           vulkan.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(bindings)),
			PVertexBindingDescriptions:      bindings,
			VertexAttributeDescriptionCount: uint32(len(attributes)),
			PVertexAttributeDescriptions:    attributes,
		},
		PInputAssemblyState: &vulkan.PipelineInputAssemblyStateCreateInfo{
			SType:                  vulkan.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology:               vulkan.PrimitiveTopology(info.Topology),
			PrimitiveRestartEnable: bool32(info.PrimitiveRestartEnable),
		},
		PViewportState: &vulkan.PipelineViewportStateCreateInfo{
			SType:         vulkan.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: viewports,
			ScissorCount:  viewports,
		},
		PRasterizationState: &vulkan.PipelineRasterizationStateCreateInfo{
			SType:                   vulkan.StructureTypePipelineRasterizationStateCreateInfo,
			DepthClampEnable:        bool32(info.DepthClampEnable),
			RasterizerDiscardEnable: bool32(info.RasterizerDiscardEnable),
			PolygonMode:             vulkan.PolygonMode(info.PolygonMode),
			CullMode:                vulkan.CullModeFlags(info.CullMode),
			FrontFace:               vulkan.FrontFace(info.FrontFace),
			DepthBiasEnable:         bool32(info.DepthBiasEnable),
			LineWidth:               info.LineWidth,
		},
		PMultisampleState: &vulkan.PipelineMultisampleStateCreateInfo{
			SType:                 vulkan.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples:  vulkan.SampleCountFlagBits(info.RasterizationSamples),
			SampleShadingEnable:   bool32(info.SampleShadingEnable),
			MinSampleShading:      info.MinSampleShading,
			AlphaToCoverageEnable: bool32(info.AlphaToCoverageEnable),
			AlphaToOneEnable:      bool32(info.AlphaToOneEnable),
		},
		PDepthStencilState: &vulkan.PipelineDepthStencilStateCreateInfo{
			SType:                 vulkan.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:       bool32(info.DepthTestEnable),
			DepthWriteEnable:      bool32(info.DepthWriteEnable),
			DepthCompareOp:        vulkan.CompareOp(info.DepthCompareOp),
			DepthBoundsTestEnable: bool32(info.DepthBoundsTestEnable),
			StencilTestEnable:     bool32(info.StencilTestEnable),
			Front:                 stencil(info.Front),
			Back:                  stencil(info.Back),
			MaxDepthBounds:        1,
		},
		PColorBlendState: &vulkan.PipelineColorBlendStateCreateInfo{
			SType:           vulkan.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   bool32(info.LogicOpEnable),
			LogicOp:         vulkan.LogicOp(info.LogicOp),
			AttachmentCount: uint32(len(blend)),
			PAttachments:    blend,
		},
		PDynamicState: &vulkan.PipelineDynamicStateCreateInfo{
			SType:             vulkan.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: uint32(len(dynamic)),
			PDynamicStates:    dynamic,
		},
		Layout:     d.pipelineLayouts.get(uint64(info.Layout)),
		RenderPass: d.renderPasses.get(uint64(info.RenderPass)),
		Subpass:    info.Subpass,
	}
	if info.PatchControlPoints > 0 {
		create.PTessellationState = &vulkan.PipelineTessellationStateCreateInfo{
			SType:              vulkan.StructureTypePipelineTessellationStateCreateInfo,
			PatchControlPoints: info.PatchControlPoints,
		}
	}
	return d.createPipelines(func(cache vulkan.PipelineCache, out []vulkan.Pipeline) vulkan.Result {
		return vulkan.CreateGraphicsPipelines(d.handle, cache, 1, []vulkan.GraphicsPipelineCreateInfo{create}, nil, out)
	})
}

func (d *Device) CreateComputePipeline(info native.ComputePipelineCreateInfo) (native.Pipeline, error) {
	create := vulkan.ComputePipelineCreateInfo{
		SType:  vulkan.StructureTypeComputePipelineCreateInfo,
		Stage:  d.shaderStage(info.Stage),
		Layout: d.pipelineLayouts.get(uint64(info.Layout)),
	}
	return d.createPipelines(func(cache vulkan.PipelineCache, out []vulkan.Pipeline) vulkan.Result {
		return vulkan.CreateComputePipelines(d.handle, cache, 1, []vulkan.ComputePipelineCreateInfo{create}, nil, out)
	})
}

func (d *Device) DestroyPipeline(p native.Pipeline) {
	if h, ok := d.pipelines.remove(uint64(p)); ok {
		vulkan.DestroyPipeline(d.handle, h, nil)
	}
}

func (d *Device) CreateCommandPool(family uint32) (native.CommandPool, error) {
	var h vulkan.CommandPool
	ret := vulkan.CreateCommandPool(d.handle, &vulkan.CommandPoolCreateInfo{
		SType:            vulkan.StructureTypeCommandPoolCreateInfo,
		Flags:            vulkan.CommandPoolCreateFlags(vulkan.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.CommandPool(d.commandPools.add(h)), nil
}

func (d *Device) DestroyCommandPool(p native.CommandPool) {
	if h, ok := d.commandPools.remove(uint64(p)); ok {
		vulkan.DestroyCommandPool(d.handle, h, nil)
	}
}

func (d *Device) AllocateCommandBuffer(pool native.CommandPool) (native.CommandBuffer, error) {
	out := make([]vulkan.CommandBuffer, 1)
	ret := vulkan.AllocateCommandBuffers(d.handle, &vulkan.CommandBufferAllocateInfo{
		SType:              vulkan.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.commandPools.get(uint64(pool)),
		Level:              vulkan.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, out)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.CommandBuffer(d.commandBuffers.add(out[0])), nil
}

func (d *Device) FreeCommandBuffer(pool native.CommandPool, cb native.CommandBuffer) {
	if h, ok := d.commandBuffers.remove(uint64(cb)); ok {
		vulkan.FreeCommandBuffers(d.handle, d.commandPools.get(uint64(pool)), 1, []vulkan.CommandBuffer{h})
	}
}

func (d *Device) BeginCommandBuffer(cb native.CommandBuffer, flags vk.CommandBufferUsageFlags) error {
	return result(vulkan.BeginCommandBuffer(d.commandBuffers.get(uint64(cb)), &vulkan.CommandBufferBeginInfo{
		SType: vulkan.StructureTypeCommandBufferBeginInfo,
		Flags: vulkan.CommandBufferUsageFlags(flags),
	}))
}

func (d *Device) EndCommandBuffer(cb native.CommandBuffer) error {
	return result(vulkan.EndCommandBuffer(d.commandBuffers.get(uint64(cb))))
}

func (d *Device) ResetCommandBuffer(cb native.CommandBuffer) error {
	return result(vulkan.ResetCommandBuffer(d.commandBuffers.get(uint64(cb)), 0))
}

func (d *Device) CreateFence(signaled bool) (native.Fence, error) {
	info := &vulkan.FenceCreateInfo{SType: vulkan.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vulkan.FenceCreateFlags(vulkan.FenceCreateSignaledBit)
	}
	var h vulkan.Fence
	if err := result(vulkan.CreateFence(d.handle, info, nil, &h)); err != nil {
		return 0, err
	}
	return native.Fence(d.fences.add(h)), nil
}

func (d *Device) DestroyFence(f native.Fence) {
	if h, ok := d.fences.remove(uint64(f)); ok {
		vulkan.DestroyFence(d.handle, h, nil)
	}
}

func (d *Device) fenceHandles(fences []native.Fence) []vulkan.Fence {
	out := make([]vulkan.Fence, len(fences))
	for i, f := range fences {
		out[i] = d.fences.get(uint64(f))
	}
	return out
}

func (d *Device) WaitForFences(fences []native.Fence, waitAll bool, timeout uint64) error {
	if len(fences) == 0 {
		return nil
	}
	return result(vulkan.WaitForFences(d.handle, uint32(len(fences)), d.fenceHandles(fences), bool32(waitAll), timeout))
}

func (d *Device) ResetFences(fences []native.Fence) error {
	if len(fences) == 0 {
		return nil
	}
	return result(vulkan.ResetFences(d.handle, uint32(len(fences)), d.fenceHandles(fences)))
}

func (d *Device) FenceStatus(f native.Fence) error {
	return result(vulkan.GetFenceStatus(d.handle, d.fences.get(uint64(f))))
}

func (d *Device) CreateSemaphore() (native.Semaphore, error) {
	var h vulkan.Semaphore
	ret := vulkan.CreateSemaphore(d.handle, &vulkan.SemaphoreCreateInfo{
		SType: vulkan.StructureTypeSemaphoreCreateInfo,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.Semaphore(d.semaphores.add(h)), nil
}

func (d *Device) DestroySemaphore(s native.Semaphore) {
	if h, ok := d.semaphores.remove(uint64(s)); ok {
		vulkan.DestroySemaphore(d.handle, h, nil)
	}
}

func (d *Device) semaphoreHandles(semaphores []native.Semaphore) []vulkan.Semaphore {
	if len(semaphores) == 0 {
		return nil
	}
	out := make([]vulkan.Semaphore, len(semaphores))
	for i, s := range semaphores {
		out[i] = d.semaphores.get(uint64(s))
	}
	return out
}

func (d *Device) CreateEvent() (native.Event, error) {
	var h vulkan.Event
	ret := vulkan.CreateEvent(d.handle, &vulkan.EventCreateInfo{
		SType: vulkan.StructureTypeEventCreateInfo,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.Event(d.events.add(h)), nil
}

func (d *Device) DestroyEvent(e native.Event) {
	if h, ok := d.events.remove(uint64(e)); ok {
		vulkan.DestroyEvent(d.handle, h, nil)
	}
}

func (d *Device) EventStatus(e native.Event) vk.Result {
	return vk.Result(vulkan.GetEventStatus(d.handle, d.events.get(uint64(e))))
}

func (d *Device) SetEvent(e native.Event) error {
	return result(vulkan.SetEvent(d.handle, d.events.get(uint64(e))))
}

func (d *Device) ResetEvent(e native.Event) error {
	return result(vulkan.ResetEvent(d.handle, d.events.get(uint64(e))))
}

func (d *Device) CreateQueryPool(info native.QueryPoolCreateInfo) (native.QueryPool, error) {
	var h vulkan.QueryPool
	ret := vulkan.CreateQueryPool(d.handle, &vulkan.QueryPoolCreateInfo{
		SType:              vulkan.StructureTypeQueryPoolCreateInfo,
		QueryType:          vulkan.QueryType(info.QueryType),
		QueryCount:         info.QueryCount,
		PipelineStatistics: vulkan.QueryPipelineStatisticFlags(info.PipelineStatistics),
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.QueryPool(d.queryPools.add(h)), nil
}

func (d *Device) DestroyQueryPool(p native.QueryPool) {
	if h, ok := d.queryPools.remove(uint64(p)); ok {
		vulkan.DestroyQueryPool(d.handle, h, nil)
	}
}

func (d *Device) QueryPoolResults(pool native.QueryPool, first, count uint32, data []byte, stride uint64, flags vk.QueryResultFlags) error {
	if len(data) == 0 {
		return nil
	}
	return result(vulkan.GetQueryPoolResults(d.handle, d.queryPools.get(uint64(pool)), first, count,
		uint64(len(data)), unsafe.Pointer(unsafe.SliceData(data)), vulkan.DeviceSize(stride), vulkan.QueryResultFlags(flags)))
}

func (d *Device) QueueSubmit(q native.Queue, submits []native.SubmitInfo, fence native.Fence) error {
	infos := make([]vulkan.SubmitInfo, len(submits))
	for i, s := range submits {
		stages := make([]vulkan.PipelineStageFlags, len(s.WaitDstStageMasks))
		for j, m := range s.WaitDstStageMasks {
			stages[j] = vulkan.PipelineStageFlags(m)
		}
		cbs := make([]vulkan.CommandBuffer, len(s.CommandBuffers))
		for j, cb := range s.CommandBuffers {
			cbs[j] = d.commandBuffers.get(uint64(cb))
		}
		infos[i] = vulkan.SubmitInfo{
			SType:                vulkan.StructureTypeSubmitInfo,
			WaitSemaphoreCount:   uint32(len(s.WaitSemaphores)),
			PWaitSemaphores:      d.semaphoreHandles(s.WaitSemaphores),
			PWaitDstStageMask:    stages,
			CommandBufferCount:   uint32(len(cbs)),
			PCommandBuffers:      cbs,
			SignalSemaphoreCount: uint32(len(s.SignalSemaphores)),
			PSignalSemaphores:    d.semaphoreHandles(s.SignalSemaphores),
		}
	}
	var f vulkan.Fence
	if fence != 0 {
		f = d.fences.get(uint64(fence))
	}
	return result(vulkan.QueueSubmit(d.queues.get(uint64(q)), uint32(len(infos)), infos, f))
}

func (d *Device) QueueWaitIdle(q native.Queue) error {
	return result(vulkan.QueueWaitIdle(d.queues.get(uint64(q))))
}

func (d *Device) QueuePresent(q native.Queue, info native.PresentInfo) ([]vk.Result, error) {
	swapchains := make([]vulkan.Swapchain, len(info.Swapchains))
	for i, sc := range info.Swapchains {
		if s := d.swapchains.get(uint64(sc)); s != nil {
			swapchains[i] = s.handle
		}
	}
	results := make([]vulkan.Result, len(swapchains))
	ret := vulkan.QueuePresent(d.queues.get(uint64(q)), &vulkan.PresentInfo{
		SType:              vulkan.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(info.WaitSemaphores)),
		PWaitSemaphores:    d.semaphoreHandles(info.WaitSemaphores),
		SwapchainCount:     uint32(len(swapchains)),
		PSwapchains:        swapchains,
		PImageIndices:      info.ImageIndices,
		PResults:           results,
	})
	out := make([]vk.Result, len(results))
	for i, r := range results {
		out[i] = vk.Result(r)
	}
	if ret == vulkan.Suboptimal {
		return out, nil
	}
	return out, result(ret)
}

func (d *Device) CreateSwapchain(info native.SwapchainCreateInfo) (native.Swapchain, error) {
	surface := d.physical.instance.surfaces.get(uint64(info.Surface))
	if surface == nil {
		return 0, vk.ErrorSurfaceLost
	}
	var old vulkan.Swapchain
	if s := d.swapchains.get(uint64(info.OldSwapchain)); s != nil {
		old = s.handle
	}
	var h vulkan.Swapchain
	ret := vulkan.CreateSwapchain(d.handle, &vulkan.SwapchainCreateInfo{
		SType:                 vulkan.StructureTypeSwapchainCreateInfo,
		Surface:               surface,
		MinImageCount:         info.MinImageCount,
		ImageFormat:           vulkan.Format(info.ImageFormat),
		ImageColorSpace:       vulkan.ColorSpace(info.ImageColorSpace),
		ImageExtent:           extent2D(info.ImageExtent),
		ImageArrayLayers:      info.ImageArrayLayers,
		ImageUsage:            vulkan.ImageUsageFlags(info.ImageUsage),
		ImageSharingMode:      vulkan.SharingMode(info.SharingMode),
		QueueFamilyIndexCount: uint32(len(info.QueueFamilyIndices)),
		PQueueFamilyIndices:   info.QueueFamilyIndices,
		PreTransform:          vulkan.SurfaceTransformFlagBits(info.PreTransform),
		CompositeAlpha:        vulkan.CompositeAlphaFlagBits(info.CompositeAlpha),
		PresentMode:           vulkan.PresentMode(info.PresentMode),
		Clipped:               bool32(info.Clipped),
		OldSwapchain:          old,
	}, nil, &h)
	if err := result(ret); err != nil {
		return 0, err
	}
	return native.Swapchain(d.swapchains.add(&swapchain{handle: h})), nil
}

func (d *Device) DestroySwapchain(sc native.Swapchain) {
	s, ok := d.swapchains.remove(uint64(sc))
	if !ok {
		return
	}
	for _, img := range s.images {
		d.images.remove(uint64(img))
	}
	vulkan.DestroySwapchain(d.handle, s.handle, nil)
}

func (d *Device) SwapchainImages(sc native.Swapchain) ([]native.Image, error) {
	s := d.swapchains.get(uint64(sc))
	if s == nil {
		return nil, vk.ErrorSurfaceLost
	}
	if s.images != nil {
		return append([]native.Image(nil), s.images...), nil
	}
	var count uint32
	if err := result(vulkan.GetSwapchainImages(d.handle, s.handle, &count, nil)); err != nil {
		return nil, err
	}
	images := make([]vulkan.Image, count)
	if err := result(vulkan.GetSwapchainImages(d.handle, s.handle, &count, images)); err != nil {
		return nil, err
	}
	for _, img := range images[:count] {
		s.images = append(s.images, native.Image(d.images.add(img)))
	}
	return append([]native.Image(nil), s.images...), nil
}

func (d *Device) AcquireNextImage(sc native.Swapchain, timeout uint64, semaphore native.Semaphore, fence native.Fence) (uint32, error) {
	s := d.swapchains.get(uint64(sc))
	if s == nil {
		return 0, vk.ErrorOutOfDate
	}
	var sem vulkan.Semaphore
	if semaphore != 0 {
		sem = d.semaphores.get(uint64(semaphore))
	}
	var f vulkan.Fence
	if fence != 0 {
		f = d.fences.get(uint64(fence))
	}
	var idx uint32
	ret := vulkan.AcquireNextImage(d.handle, s.handle, timeout, sem, f, &idx)
	if ret == vulkan.Suboptimal {
		return idx, vk.Suboptimal
	}
	return idx, result(ret)
}
