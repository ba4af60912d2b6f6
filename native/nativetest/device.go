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

package nativetest

import (
	"slices"
	"sync"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
Kinds of objects counted by Created, Destroyed and Live.
*/
const (
	KindBuffer              = "Buffer"
	KindImage               = "Image"
	KindBufferView          = "BufferView"
	KindImageView           = "ImageView"
	KindSampler             = "Sampler"
	KindShaderModule        = "ShaderModule"
	KindDescriptorSetLayout = "DescriptorSetLayout"
	KindDescriptorPool      = "DescriptorPool"
	KindDescriptorSet       = "DescriptorSet"
	KindPipelineLayout      = "PipelineLayout"
	KindRenderPass          = "RenderPass"
	KindFramebuffer         = "Framebuffer"
	KindPipeline            = "Pipeline"
	KindCommandPool         = "CommandPool"
	KindCommandBuffer       = "CommandBuffer"
	KindFence               = "Fence"
	KindSemaphore           = "Semaphore"
	KindEvent               = "Event"
	KindQueryPool           = "QueryPool"
	KindSwapchain           = "Swapchain"
	KindAllocation          = "Allocation"
)

var (
	_ native.Driver = (*Driver)(nil)
	_ native.Device = (*Device)(nil)
)

type recordingState int

const (
	stateInitial recordingState = iota
	stateRecording
	stateExecutable
)

type recording struct {
	state recordingState
	flags vk.CommandBufferUsageFlags
	calls []Call
}

type descriptorPool struct {
	maxSets uint32
	sets    map[native.DescriptorSet]struct{}
}

type swapchain struct {
	info   native.SwapchainCreateInfo
	images []native.Image
	next   uint32
}

type image struct {
	info native.ImageCreateInfo
	// data is laid out tightly, layer major then mip.
	data []byte
}

/*
Submission is a snapshot of a QueueSubmit call.
*/
type Submission struct {
	Queue  native.Queue
	Infos  []native.SubmitInfo
	Fence  native.Fence
	Calls  [][]Call
	Serial int
}

type Device struct {
	mtx    sync.Mutex
	config Config
	info   native.DeviceCreateInfo

	next      uint64
	live      map[uint64]string
	created   map[string]int
	destroyed map[string]int
	failures  map[string]error

	memory     map[native.Allocation][]byte
	mapped     map[native.Allocation]bool
	buffers    map[native.Buffer]native.BufferCreateInfo
	bufferMem  map[native.Buffer]native.Allocation
	images     map[native.Image]*image
	imageViews map[native.ImageView]native.ImageViewCreateInfo

	descriptorPools map[native.DescriptorPool]*descriptorPool
	descriptorSets  map[native.DescriptorSet][]native.DescriptorWrite
	setLayouts      map[native.DescriptorSetLayout][]native.DescriptorSetLayoutBinding
	pipelineLayouts map[native.PipelineLayout]native.PipelineLayoutCreateInfo
	renderPasses    map[native.RenderPass]native.RenderPassCreateInfo
	framebuffers    map[native.Framebuffer]native.FramebufferCreateInfo
	graphics        map[native.Pipeline]native.GraphicsPipelineCreateInfo
	compute         map[native.Pipeline]native.ComputePipelineCreateInfo

	recordings map[native.CommandBuffer]*recording
	fences     map[native.Fence]bool
	events     map[native.Event]bool
	swapchains map[native.Swapchain]*swapchain

	submits  []Submission
	presents []native.PresentInfo
	acquires []Acquire
	flushes  [][2]uint64
	held     map[native.Fence]bool
}

func newDevice(config Config, info native.DeviceCreateInfo) *Device {
	return &Device{
		config:          config,
		info:            info,
		live:            map[uint64]string{},
		created:         map[string]int{},
		destroyed:       map[string]int{},
		failures:        map[string]error{},
		memory:          map[native.Allocation][]byte{},
		mapped:          map[native.Allocation]bool{},
		buffers:         map[native.Buffer]native.BufferCreateInfo{},
		bufferMem:       map[native.Buffer]native.Allocation{},
		images:          map[native.Image]*image{},
		imageViews:      map[native.ImageView]native.ImageViewCreateInfo{},
		descriptorPools: map[native.DescriptorPool]*descriptorPool{},
		descriptorSets:  map[native.DescriptorSet][]native.DescriptorWrite{},
		setLayouts:      map[native.DescriptorSetLayout][]native.DescriptorSetLayoutBinding{},
		pipelineLayouts: map[native.PipelineLayout]native.PipelineLayoutCreateInfo{},
		renderPasses:    map[native.RenderPass]native.RenderPassCreateInfo{},
		framebuffers:    map[native.Framebuffer]native.FramebufferCreateInfo{},
		graphics:        map[native.Pipeline]native.GraphicsPipelineCreateInfo{},
		compute:         map[native.Pipeline]native.ComputePipelineCreateInfo{},
		recordings:      map[native.CommandBuffer]*recording{},
		fences:          map[native.Fence]bool{},
		events:          map[native.Event]bool{},
		swapchains:      map[native.Swapchain]*swapchain{},
		held:            map[native.Fence]bool{},
	}
}

func (d *Device) newHandle(kind string) uint64 {
	d.next++
	d.live[d.next] = kind
	d.created[kind]++
	return d.next
}

func (d *Device) release(kind string, h uint64) {
	if h == 0 {
		return
	}
	if k, ok := d.live[h]; ok && k == kind {
		delete(d.live, h)
		d.destroyed[kind]++
	}
}

func (d *Device) fail(op string) error {
	if err, ok := d.failures[op]; ok {
		delete(d.failures, op)
		return err
	}
	return nil
}

/*
FailNext makes the next call of the named method (for example "CreateImage")
return err.
*/
func (d *Device) FailNext(op string, err error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.failures[op] = err
}

func (d *Device) Created(kind string) int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.created[kind]
}

func (d *Device) Destroyed(kind string) int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.destroyed[kind]
}

func (d *Device) Live(kind string) int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.created[kind] - d.destroyed[kind]
}

func (d *Device) CreateInfo() native.DeviceCreateInfo {
	return d.info
}

func (d *Device) Queue(family, index uint32) native.Queue {
	return native.Queue(uint64(family)<<32 | uint64(index) | 1<<63)
}

func (d *Device) WaitIdle() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.fail("WaitIdle")
}

func (d *Device) Destroy() {}

func (d *Device) CreateBuffer(info native.BufferCreateInfo, mem native.AllocationCreateInfo) (native.Buffer, native.Allocation, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateBuffer"); err != nil {
		return 0, 0, err
	}
	if info.Size == 0 {
		return 0, 0, vk.ErrorValidationFailed
	}
	b := native.Buffer(d.newHandle(KindBuffer))
	d.buffers[b] = info
	if (mem.Flags & native.AllocationNoAllocationBit) != 0 {
		return b, 0, nil
	}
	a := native.Allocation(d.newHandle(KindAllocation))
	d.memory[a] = make([]byte, info.Size)
	d.bufferMem[b] = a
	return b, a, nil
}

func (d *Device) DestroyBuffer(b native.Buffer, a native.Allocation) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindBuffer, uint64(b))
	delete(d.buffers, b)
	delete(d.bufferMem, b)
	if a != 0 {
		d.release(KindAllocation, uint64(a))
		delete(d.memory, a)
		delete(d.mapped, a)
	}
}

func imageByteSize(info native.ImageCreateInfo) int {
	size := 0
	for l := uint32(0); l < info.ArrayLayers; l++ {
		for m := uint32(0); m < info.MipLevels; m++ {
			size += mipByteSize(info, m)
		}
	}
	return size
}

func mipExtent(info native.ImageCreateInfo, mip uint32) vk.Extent3D {
	return vk.Extent3D{
		Width:  max(info.Extent.Width>>mip, 1),
		Height: max(info.Extent.Height>>mip, 1),
		Depth:  max(info.Extent.Depth>>mip, 1),
	}
}

func mipByteSize(info native.ImageCreateInfo, mip uint32) int {
	e := mipExtent(info, mip)
	b := info.Format.BlockExtent()
	if b.Width == 0 {
		return 0
	}
	bw := (e.Width + b.Width - 1) / b.Width
	bh := (e.Height + b.Height - 1) / b.Height
	return int(bw*bh*e.Depth) * int(info.Format.BlockSize())
}

func (d *Device) CreateImage(info native.ImageCreateInfo, mem native.AllocationCreateInfo) (native.Image, native.Allocation, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateImage"); err != nil {
		return 0, 0, err
	}
	i := native.Image(d.newHandle(KindImage))
	info.QueueFamilyIndices = slices.Clone(info.QueueFamilyIndices)
	d.images[i] = &image{info: info, data: make([]byte, imageByteSize(info))}
	if (mem.Flags & native.AllocationNoAllocationBit) != 0 {
		return i, 0, nil
	}
	a := native.Allocation(d.newHandle(KindAllocation))
	return i, a, nil
}

func (d *Device) DestroyImage(i native.Image, a native.Allocation) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindImage, uint64(i))
	delete(d.images, i)
	if a != 0 {
		d.release(KindAllocation, uint64(a))
	}
}

func (d *Device) MapMemory(a native.Allocation) ([]byte, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("MapMemory"); err != nil {
		return nil, err
	}
	m, ok := d.memory[a]
	if !ok {
		return nil, vk.ErrorMemoryMapFailed
	}
	d.mapped[a] = true
	return m, nil
}

func (d *Device) UnmapMemory(a native.Allocation) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	delete(d.mapped, a)
}

func (d *Device) FlushMemory(a native.Allocation, offset, size uint64) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.flushes = append(d.flushes, [2]uint64{offset, size})
	return d.fail("FlushMemory")
}

func (d *Device) InvalidateMemory(a native.Allocation, offset, size uint64) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.fail("InvalidateMemory")
}

/*
Flushes returns every (offset, size) pair passed to FlushMemory.
*/
func (d *Device) Flushes() [][2]uint64 {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return slices.Clone(d.flushes)
}

func (d *Device) CreateBufferView(info native.BufferViewCreateInfo) (native.BufferView, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateBufferView"); err != nil {
		return 0, err
	}
	return native.BufferView(d.newHandle(KindBufferView)), nil
}

func (d *Device) DestroyBufferView(v native.BufferView) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindBufferView, uint64(v))
}

func (d *Device) CreateImageView(info native.ImageViewCreateInfo) (native.ImageView, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateImageView"); err != nil {
		return 0, err
	}
	v := native.ImageView(d.newHandle(KindImageView))
	d.imageViews[v] = info
	return v, nil
}

func (d *Device) DestroyImageView(v native.ImageView) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindImageView, uint64(v))
	delete(d.imageViews, v)
}

func (d *Device) CreateSampler(native.SamplerCreateInfo) (native.Sampler, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateSampler"); err != nil {
		return 0, err
	}
	return native.Sampler(d.newHandle(KindSampler)), nil
}

func (d *Device) DestroySampler(s native.Sampler) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindSampler, uint64(s))
}

func (d *Device) CreateShaderModule(code []uint32) (native.ShaderModule, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateShaderModule"); err != nil {
		return 0, err
	}
	if len(code) == 0 {
		return 0, vk.ErrorInitializationFailed
	}
	return native.ShaderModule(d.newHandle(KindShaderModule)), nil
}

func (d *Device) DestroyShaderModule(m native.ShaderModule) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindShaderModule, uint64(m))
}

func (d *Device) CreateDescriptorSetLayout(bindings []native.DescriptorSetLayoutBinding) (native.DescriptorSetLayout, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateDescriptorSetLayout"); err != nil {
		return 0, err
	}
	l := native.DescriptorSetLayout(d.newHandle(KindDescriptorSetLayout))
	d.setLayouts[l] = slices.Clone(bindings)
	return l, nil
}

func (d *Device) DestroyDescriptorSetLayout(l native.DescriptorSetLayout) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindDescriptorSetLayout, uint64(l))
	delete(d.setLayouts, l)
}

func (d *Device) CreateDescriptorPool(maxSets uint32, sizes []native.DescriptorPoolSize) (native.DescriptorPool, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateDescriptorPool"); err != nil {
		return 0, err
	}
	p := native.DescriptorPool(d.newHandle(KindDescriptorPool))
	d.descriptorPools[p] = &descriptorPool{maxSets: maxSets, sets: map[native.DescriptorSet]struct{}{}}
	return p, nil
}

func (d *Device) DestroyDescriptorPool(p native.DescriptorPool) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if pool, ok := d.descriptorPools[p]; ok {
		for s := range pool.sets {
			d.release(KindDescriptorSet, uint64(s))
			delete(d.descriptorSets, s)
		}
	}
	d.release(KindDescriptorPool, uint64(p))
	delete(d.descriptorPools, p)
}

func (d *Device) AllocateDescriptorSet(p native.DescriptorPool, l native.DescriptorSetLayout) (native.DescriptorSet, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("AllocateDescriptorSet"); err != nil {
		return 0, err
	}
	pool, ok := d.descriptorPools[p]
	if !ok {
		return 0, vk.ErrorValidationFailed
	}
	if uint32(len(pool.sets)) >= pool.maxSets {
		return 0, vk.ErrorOutOfPoolMemory
	}
	s := native.DescriptorSet(d.newHandle(KindDescriptorSet))
	pool.sets[s] = struct{}{}
	d.descriptorSets[s] = nil
	return s, nil
}

func (d *Device) FreeDescriptorSet(p native.DescriptorPool, s native.DescriptorSet) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if pool, ok := d.descriptorPools[p]; ok {
		delete(pool.sets, s)
	}
	d.release(KindDescriptorSet, uint64(s))
	delete(d.descriptorSets, s)
}

func (d *Device) UpdateDescriptorSet(s native.DescriptorSet, writes []native.DescriptorWrite) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.descriptorSets[s] = append(d.descriptorSets[s], writes...)
}

/*
DescriptorWrites returns every write applied to a live descriptor set.
*/
func (d *Device) DescriptorWrites(s native.DescriptorSet) []native.DescriptorWrite {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return slices.Clone(d.descriptorSets[s])
}

func (d *Device) DescriptorSetLayoutBindings(l native.DescriptorSetLayout) []native.DescriptorSetLayoutBinding {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return slices.Clone(d.setLayouts[l])
}

func (d *Device) CreatePipelineLayout(info native.PipelineLayoutCreateInfo) (native.PipelineLayout, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreatePipelineLayout"); err != nil {
		return 0, err
	}
	l := native.PipelineLayout(d.newHandle(KindPipelineLayout))
	d.pipelineLayouts[l] = native.PipelineLayoutCreateInfo{
		SetLayouts:         slices.Clone(info.SetLayouts),
		PushConstantRanges: slices.Clone(info.PushConstantRanges),
	}
	return l, nil
}

func (d *Device) DestroyPipelineLayout(l native.PipelineLayout) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindPipelineLayout, uint64(l))
	delete(d.pipelineLayouts, l)
}

func (d *Device) PipelineLayout(l native.PipelineLayout) native.PipelineLayoutCreateInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.pipelineLayouts[l]
}

func (d *Device) CreateRenderPass(info native.RenderPassCreateInfo) (native.RenderPass, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateRenderPass"); err != nil {
		return 0, err
	}
	if len(info.Subpasses) == 0 {
		return 0, vk.ErrorValidationFailed
	}
	rp := native.RenderPass(d.newHandle(KindRenderPass))
	d.renderPasses[rp] = info
	return rp, nil
}

func (d *Device) DestroyRenderPass(rp native.RenderPass) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindRenderPass, uint64(rp))
	delete(d.renderPasses, rp)
}

func (d *Device) RenderPass(rp native.RenderPass) native.RenderPassCreateInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.renderPasses[rp]
}

func (d *Device) CreateFramebuffer(info native.FramebufferCreateInfo) (native.Framebuffer, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateFramebuffer"); err != nil {
		return 0, err
	}
	fb := native.Framebuffer(d.newHandle(KindFramebuffer))
	info.Attachments = slices.Clone(info.Attachments)
	d.framebuffers[fb] = info
	return fb, nil
}

func (d *Device) DestroyFramebuffer(fb native.Framebuffer) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindFramebuffer, uint64(fb))
	delete(d.framebuffers, fb)
}

func (d *Device) Framebuffer(fb native.Framebuffer) native.FramebufferCreateInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.framebuffers[fb]
}

func (d *Device) CreateGraphicsPipeline(info native.GraphicsPipelineCreateInfo) (native.Pipeline, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateGraphicsPipeline"); err != nil {
		return 0, err
	}
	p := native.Pipeline(d.newHandle(KindPipeline))
	d.graphics[p] = info
	return p, nil
}

func (d *Device) CreateComputePipeline(info native.ComputePipelineCreateInfo) (native.Pipeline, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateComputePipeline"); err != nil {
		return 0, err
	}
	p := native.Pipeline(d.newHandle(KindPipeline))
	d.compute[p] = info
	return p, nil
}

func (d *Device) DestroyPipeline(p native.Pipeline) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindPipeline, uint64(p))
	delete(d.graphics, p)
	delete(d.compute, p)
}

func (d *Device) GraphicsPipeline(p native.Pipeline) native.GraphicsPipelineCreateInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.graphics[p]
}

func (d *Device) CreateCommandPool(family uint32) (native.CommandPool, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateCommandPool"); err != nil {
		return 0, err
	}
	return native.CommandPool(d.newHandle(KindCommandPool)), nil
}

func (d *Device) DestroyCommandPool(p native.CommandPool) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindCommandPool, uint64(p))
}

func (d *Device) AllocateCommandBuffer(native.CommandPool) (native.CommandBuffer, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("AllocateCommandBuffer"); err != nil {
		return 0, err
	}
	cb := native.CommandBuffer(d.newHandle(KindCommandBuffer))
	d.recordings[cb] = &recording{}
	return cb, nil
}

func (d *Device) FreeCommandBuffer(_ native.CommandPool, cb native.CommandBuffer) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindCommandBuffer, uint64(cb))
	delete(d.recordings, cb)
}

func (d *Device) BeginCommandBuffer(cb native.CommandBuffer, flags vk.CommandBufferUsageFlags) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("BeginCommandBuffer"); err != nil {
		return err
	}
	r, ok := d.recordings[cb]
	if !ok || r.state == stateRecording {
		return vk.ErrorValidationFailed
	}
	r.state = stateRecording
	r.flags = flags
	r.calls = nil
	return nil
}

func (d *Device) EndCommandBuffer(cb native.CommandBuffer) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("EndCommandBuffer"); err != nil {
		return err
	}
	r, ok := d.recordings[cb]
	if !ok || r.state != stateRecording {
		return vk.ErrorValidationFailed
	}
	r.state = stateExecutable
	return nil
}

func (d *Device) ResetCommandBuffer(cb native.CommandBuffer) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	r, ok := d.recordings[cb]
	if !ok {
		return vk.ErrorValidationFailed
	}
	r.state = stateInitial
	r.calls = nil
	return nil
}

/*
Calls returns the commands recorded into cb by its latest recording.
*/
func (d *Device) Calls(cb native.CommandBuffer) []Call {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if r, ok := d.recordings[cb]; ok {
		return slices.Clone(r.calls)
	}
	return nil
}

/*
Ops returns the names of the commands recorded into cb.
*/
func (d *Device) Ops(cb native.CommandBuffer) []string {
	calls := d.Calls(cb)
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

func (d *Device) CreateFence(signaled bool) (native.Fence, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateFence"); err != nil {
		return 0, err
	}
	f := native.Fence(d.newHandle(KindFence))
	d.fences[f] = signaled
	return f, nil
}

func (d *Device) DestroyFence(f native.Fence) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindFence, uint64(f))
	delete(d.fences, f)
}

func (d *Device) WaitForFences(fences []native.Fence, waitAll bool, timeout uint64) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("WaitForFences"); err != nil {
		return err
	}
	signaled := 0
	for _, f := range fences {
		if d.fences[f] {
			signaled++
		}
	}
	if signaled == len(fences) || (!waitAll && signaled > 0) {
		return nil
	}
	return vk.Timeout
}

func (d *Device) ResetFences(fences []native.Fence) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	for _, f := range fences {
		if _, ok := d.fences[f]; ok {
			d.fences[f] = false
		}
	}
	return nil
}

func (d *Device) FenceStatus(f native.Fence) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.fences[f] {
		return nil
	}
	return vk.NotReady
}

/*
HoldFence leaves f unsignaled even after the submission that carries it.
*/
func (d *Device) HoldFence(f native.Fence) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.fences[f] = false
	d.held[f] = true
}

/*
ReleaseFences signals every fence held by HoldFence.
*/
func (d *Device) ReleaseFences() {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	for f := range d.held {
		if _, ok := d.fences[f]; ok {
			d.fences[f] = true
		}
	}
	clear(d.held)
}

func (d *Device) CreateSemaphore() (native.Semaphore, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateSemaphore"); err != nil {
		return 0, err
	}
	return native.Semaphore(d.newHandle(KindSemaphore)), nil
}

func (d *Device) DestroySemaphore(s native.Semaphore) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindSemaphore, uint64(s))
}

func (d *Device) CreateEvent() (native.Event, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateEvent"); err != nil {
		return 0, err
	}
	e := native.Event(d.newHandle(KindEvent))
	d.events[e] = false
	return e, nil
}

func (d *Device) DestroyEvent(e native.Event) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindEvent, uint64(e))
	delete(d.events, e)
}

func (d *Device) EventStatus(e native.Event) vk.Result {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.events[e] {
		return vk.EventSet
	}
	return vk.EventReset
}

func (d *Device) SetEvent(e native.Event) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.events[e] = true
	return nil
}

func (d *Device) ResetEvent(e native.Event) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.events[e] = false
	return nil
}

func (d *Device) CreateQueryPool(info native.QueryPoolCreateInfo) (native.QueryPool, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateQueryPool"); err != nil {
		return 0, err
	}
	return native.QueryPool(d.newHandle(KindQueryPool)), nil
}

func (d *Device) DestroyQueryPool(p native.QueryPool) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.release(KindQueryPool, uint64(p))
}

func (d *Device) QueryPoolResults(_ native.QueryPool, _, count uint32, data []byte, stride uint64, _ vk.QueryResultFlags) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if uint64(len(data)) < uint64(count)*stride {
		return vk.ErrorValidationFailed
	}
	clear(data)
	return nil
}

func (d *Device) CreateSwapchain(info native.SwapchainCreateInfo) (native.Swapchain, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("CreateSwapchain"); err != nil {
		return 0, err
	}
	sc := &swapchain{info: info}
	for range info.MinImageCount {
		i := native.Image(d.newHandle(KindImage))
		d.images[i] = &image{info: native.ImageCreateInfo{
			ImageType:   vk.ImageType2D,
			Format:      info.ImageFormat,
			Extent:      vk.Extent3D{Width: info.ImageExtent.Width, Height: info.ImageExtent.Height, Depth: 1},
			MipLevels:   1,
			ArrayLayers: info.ImageArrayLayers,
			Samples:     vk.SampleCount1Bit,
			Usage:       info.ImageUsage,
		}}
		sc.images = append(sc.images, i)
	}
	h := native.Swapchain(d.newHandle(KindSwapchain))
	d.swapchains[h] = sc
	return h, nil
}

func (d *Device) DestroySwapchain(h native.Swapchain) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if sc, ok := d.swapchains[h]; ok {
		for _, i := range sc.images {
			d.release(KindImage, uint64(i))
			delete(d.images, i)
		}
	}
	d.release(KindSwapchain, uint64(h))
	delete(d.swapchains, h)
}

func (d *Device) SwapchainImages(h native.Swapchain) ([]native.Image, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	sc, ok := d.swapchains[h]
	if !ok {
		return nil, vk.ErrorSurfaceLost
	}
	return slices.Clone(sc.images), nil
}

/*
Acquire is one successful AcquireNextImage call.
*/
type Acquire struct {
	Swapchain native.Swapchain
	Semaphore native.Semaphore
	Fence     native.Fence
	Index     uint32
}

func (d *Device) AcquireNextImage(h native.Swapchain, _ uint64, s native.Semaphore, f native.Fence) (uint32, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("AcquireNextImage"); err != nil {
		return 0, err
	}
	sc, ok := d.swapchains[h]
	if !ok {
		return 0, vk.ErrorSurfaceLost
	}
	idx := sc.next
	sc.next = (sc.next + 1) % uint32(len(sc.images))
	if f != 0 {
		d.fences[f] = true
	}
	d.acquires = append(d.acquires, Acquire{Swapchain: h, Semaphore: s, Fence: f, Index: idx})
	return idx, nil
}

func (d *Device) Acquires() []Acquire {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return slices.Clone(d.acquires)
}

func (d *Device) SwapchainCreateInfo(h native.Swapchain) native.SwapchainCreateInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if sc, ok := d.swapchains[h]; ok {
		return sc.info
	}
	return native.SwapchainCreateInfo{}
}

func (d *Device) QueuePresent(_ native.Queue, info native.PresentInfo) ([]vk.Result, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("QueuePresent"); err != nil {
		return nil, err
	}
	d.presents = append(d.presents, native.PresentInfo{
		WaitSemaphores: slices.Clone(info.WaitSemaphores),
		Swapchains:     slices.Clone(info.Swapchains),
		ImageIndices:   slices.Clone(info.ImageIndices),
	})
	results := make([]vk.Result, len(info.Swapchains))
	return results, nil
}

func (d *Device) Presents() []native.PresentInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return slices.Clone(d.presents)
}

func (d *Device) QueueWaitIdle(native.Queue) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.fail("QueueWaitIdle")
}

/*
Submissions returns a snapshot of every QueueSubmit call.
*/
func (d *Device) Submissions() []Submission {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return slices.Clone(d.submits)
}

/*
BufferContents returns a copy of the memory backing b.
*/
func (d *Device) BufferContents(b native.Buffer) []byte {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return slices.Clone(d.memory[d.bufferMem[b]])
}

/*
ImageContents returns a copy of the tightly packed texel data of one mip level of
one array layer.
*/
func (d *Device) ImageContents(i native.Image, mip, layer uint32) []byte {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	img, ok := d.images[i]
	if !ok {
		return nil
	}
	off, size := img.subresource(mip, layer)
	return slices.Clone(img.data[off : off+size])
}

func (img *image) subresource(mip, layer uint32) (int, int) {
	off := 0
	for l := uint32(0); l < img.info.ArrayLayers; l++ {
		for m := uint32(0); m < img.info.MipLevels; m++ {
			size := mipByteSize(img.info, m)
			if l == layer && m == mip {
				return off, size
			}
			off += size
		}
	}
	return 0, 0
}

func (d *Device) ImageCreateInfo(i native.Image) native.ImageCreateInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if img, ok := d.images[i]; ok {
		return img.info
	}
	return native.ImageCreateInfo{}
}

func (d *Device) BufferCreateInfo(b native.Buffer) native.BufferCreateInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.buffers[b]
}
