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

package vez

import (
	"goarrg.com/rhi/vez/internal/stream"
	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type commandBufferState uint8

const (
	commandBufferInitial commandBufferState = iota
	commandBufferRecording
	commandBufferExecutable
)

/*
pipelineBind binds a pipeline before the token at pos. Graphics binds recorded
inside a render pass get their handle when the pass ends.
*/
type pipelineBind struct {
	pos       int
	bindPoint vk.PipelineBindPoint
	handle    native.Pipeline
	pipeline  *Pipeline
	state     graphicsState
	pass      int
	subpass   uint32
}

type setBind struct {
	pos       int
	bindPoint vk.PipelineBindPoint
	layout    native.PipelineLayout
	set       uint32
	handle    native.DescriptorSet
}

type transientSet struct {
	layout *descriptorSetLayout
	page   *descriptorPoolPage
	handle native.DescriptorSet
}

/*
trackedAccess is a resource access made by every draw or dispatch using the
descriptor set it was written into.
*/
type trackedAccess struct {
	buffer *Buffer
	image  *Image
	stages vk.PipelineStageFlags
	access vk.AccessFlags
	layout vk.ImageLayout
}

/*
boundSets mirrors the descriptor sets bound at one bind point. A nil entry in
sets is not bound, versions holds the binding table version each was written
from.
*/
type boundSets struct {
	layout   *pipelineLayout
	sets     []*descriptorSetLayout
	versions []uint64
	accesses [][]trackedAccess
	// pipeline the accesses were derived for
	pipelines []*Pipeline
}

func bindPointIndex(bp vk.PipelineBindPoint) int {
	if bp == vk.PipelineBindPointCompute {
		return 1
	}
	return 0
}

/*
CommandBuffer encodes commands into a stream while recording and decodes them
into its native command buffer on End. A command buffer must only be used by
one goroutine at a time, recording commands outside of Begin and End aborts.
*/
type CommandBuffer struct {
	noCopy util.NoCopy
	device *Device
	queue  *Queue
	pool   *commandPool
	handle native.CommandBuffer

	state commandBufferState
	usage vk.CommandBufferUsageFlags
	err   error

	stream   *stream.Stream
	tracker  barrierTracker
	bindings bindingTable
	graphics graphicsState
	dynamic  dynamicStateMask

	compute      *Pipeline
	computeDirty bool
	lastBound    *Pipeline
	bound        [2]boundSets

	vertexBuffers []*Buffer
	indexBuffer   *Buffer

	renderPasses  []*renderPassDesc
	pass          int
	passBinds     int
	subpass       uint32
	pipelineBinds []pipelineBind
	setBinds      []setBind
	transient     []transientSet
}

func (cb *CommandBuffer) Handle() native.CommandBuffer {
	cb.noCopy.Check()
	return cb.handle
}

func (cb *CommandBuffer) Queue() *Queue {
	cb.noCopy.Check()
	return cb.queue
}

/*
AllocateCommandBuffers allocates n command buffers from the command pool of
q's family.
*/
func (d *Device) AllocateCommandBuffers(q *Queue, n uint32) ([]*CommandBuffer, error) {
	d.noCopy.Check()
	if q == nil || q.device != d || n == 0 {
		return nil, ErrorBadArgument
	}
	pool, err := d.commandPool(q.family)
	if err != nil {
		return nil, err
	}

	cbs := make([]*CommandBuffer, 0, n)
	pool.mtx.Lock()
	defer pool.mtx.Unlock()
	for range n {
		h, err := d.native.AllocateCommandBuffer(pool.handle)
		if err != nil {
			instance.logger.EPrintf("Failed to allocate command buffer from family %d: %s", q.family, err)
			for _, cb := range cbs {
				d.native.FreeCommandBuffer(pool.handle, cb.handle)
				cb.noCopy.Close()
			}
			return nil, err
		}
		cb := &CommandBuffer{
			device: d,
			queue:  q,
			pool:   pool,
			handle: h,
			stream: stream.New(d.config.StreamPageSize),
			pass:   -1,
		}
		cb.tracker.reset()
		cb.graphics.reset()
		cb.noCopy.Init()
		cbs = append(cbs, cb)
	}
	return cbs, nil
}

/*
FreeCommandBuffers releases everything held by cbs and frees them, they must
not be pending.
*/
func (d *Device) FreeCommandBuffers(cbs []*CommandBuffer) {
	d.noCopy.Check()
	for _, cb := range cbs {
		if cb == nil {
			continue
		}
		cb.noCopy.Check()
		cb.destroy()
	}
}

func (cb *CommandBuffer) destroy() {
	cb.release()
	cb.pool.mtx.Lock()
	cb.device.native.FreeCommandBuffer(cb.pool.handle, cb.handle)
	cb.pool.mtx.Unlock()
	cb.stream.Release()
	cb.noCopy.Close()
}

/*
release frees the transient descriptor sets of the last recording in reverse
allocation order and drops its render pass references.
*/
func (cb *CommandBuffer) release() {
	d := cb.device
	for i := len(cb.transient) - 1; i >= 0; i-- {
		t := cb.transient[i]
		t.layout.free(d, t.page, t.handle)
	}
	clear(cb.transient)
	cb.transient = cb.transient[:0]

	for _, desc := range cb.renderPasses {
		if desc.rp != nil {
			d.renderPasses.release(desc.rp)
		}
	}
	clear(cb.renderPasses)
	cb.renderPasses = cb.renderPasses[:0]
	clear(cb.pipelineBinds)
	cb.pipelineBinds = cb.pipelineBinds[:0]
	cb.setBinds = cb.setBinds[:0]

	cb.stream.Reset()
	cb.tracker.reset()
	cb.bindings.reset()
	cb.graphics.reset()
	cb.dynamic = 0
	cb.compute = nil
	cb.computeDirty = false
	cb.lastBound = nil
	cb.bound = [2]boundSets{}
	clear(cb.vertexBuffers)
	cb.vertexBuffers = cb.vertexBuffers[:0]
	cb.indexBuffer = nil
	cb.pass = -1
	cb.passBinds = 0
	cb.subpass = 0
	cb.err = nil
}

/*
Begin starts a new recording, ErrorNotReady is returned while a recording is
already in progress. Everything held by the previous recording is released.
*/
func (cb *CommandBuffer) Begin(usage vk.CommandBufferUsageFlags) error {
	cb.noCopy.Check()
	if cb.state == commandBufferRecording {
		return ErrorNotReady
	}
	cb.release()
	cb.usage = usage
	cb.state = commandBufferRecording
	return nil
}

/*
abandon drops the recording in progress without decoding it.
*/
func (cb *CommandBuffer) abandon() {
	cb.release()
	cb.state = commandBufferInitial
}

/*
End appends the barriers restoring every image to its default layout and
decodes the recording into the native command buffer. The first error hit
while recording is returned here and leaves cb in the initial state.
*/
func (cb *CommandBuffer) End() error {
	cb.noCopy.Check()
	if cb.state != commandBufferRecording {
		return ErrorBadArgument
	}
	if cb.pass >= 0 {
		instance.logger.WPrintf("Trying to end command buffer %s inside a render pass", toHex(cb.handle))
		cb.fail(ErrorBadArgument)
	}
	if cb.err != nil {
		err := cb.err
		cb.abandon()
		return err
	}
	cb.tracker.finish(cb.stream.Tell())

	d := cb.device
	cb.pool.mtx.Lock()
	defer cb.pool.mtx.Unlock()
	if err := d.native.BeginCommandBuffer(cb.handle, cb.usage); err != nil {
		instance.logger.EPrintf("Failed to begin command buffer %s: %s", toHex(cb.handle), err)
		cb.abandon()
		return err
	}
	if err := cb.decode(); err != nil {
		instance.logger.EPrintf("Failed to decode command buffer %s: %s", toHex(cb.handle), err)
		_ = d.native.EndCommandBuffer(cb.handle)
		cb.abandon()
		return err
	}
	if err := d.native.EndCommandBuffer(cb.handle); err != nil {
		instance.logger.EPrintf("Failed to end command buffer %s: %s", toHex(cb.handle), err)
		cb.abandon()
		return err
	}
	cb.state = commandBufferExecutable
	return nil
}

/*
Reset resets the native command buffer and releases everything held by the
last recording.
*/
func (cb *CommandBuffer) Reset() error {
	cb.noCopy.Check()
	cb.release()
	cb.state = commandBufferInitial
	cb.pool.mtx.Lock()
	defer cb.pool.mtx.Unlock()
	return cb.device.native.ResetCommandBuffer(cb.handle)
}

func (cb *CommandBuffer) check(name string) {
	cb.noCopy.Check()
	if cb.state != commandBufferRecording {
		abort("Trying to record %s on command buffer %s outside of Begin/End", name, toHex(cb.handle))
	}
}

/*
fail keeps the first recording error, End returns it.
*/
func (cb *CommandBuffer) fail(err error) {
	if cb.err == nil {
		cb.err = err
	}
}

func (cb *CommandBuffer) put(id cmdID) int {
	pos := cb.stream.Tell()
	stream.Put(cb.stream, id)
	return pos
}

/*
pipelineBarrier schedules a barrier at the current position, used for the
layout initialization of new images.
*/
func (cb *CommandBuffer) pipelineBarrier(barrier native.PipelineBarrier) {
	cb.check("PipelineBarrier")
	cb.tracker.explicit(cb.stream.Tell(), barrier)
}

/*
BindPipeline makes p the pipeline of the next draws or dispatches of its bind
point. The native bind happens at the next draw or dispatch.
*/
func (cb *CommandBuffer) BindPipeline(p *Pipeline) {
	cb.check("BindPipeline")
	if p == nil {
		cb.fail(ErrorBadArgument)
		return
	}
	p.noCopy.Check()
	switch p.bindPoint {
	case vk.PipelineBindPointGraphics:
		cb.graphics.pipeline = p
		cb.graphics.dirty = true
	case vk.PipelineBindPointCompute:
		cb.compute = p
		cb.computeDirty = true
	}
	cb.lastBound = p
	cb.put(cmdBindPipeline)
	stream.Put(cb.stream, bindPipelineCmd{bindPoint: p.bindPoint})
}

/*
PushConstants updates the push constant range of the last bound pipeline,
offset and len(data) must be multiples of 4 inside the pipeline's range.
*/
func (cb *CommandBuffer) PushConstants(offset uint32, data []byte) {
	cb.check("PushConstants")
	p := cb.lastBound
	if p == nil {
		instance.logger.WPrintf("Trying to push constants without a bound pipeline")
		cb.fail(ErrorBadArgument)
		return
	}
	r := p.pushConstants()
	end := uint64(offset) + uint64(len(data))
	if len(data) == 0 || offset%4 != 0 || len(data)%4 != 0 || offset < r.Offset || end > uint64(r.Offset)+uint64(r.Size) {
		instance.logger.WPrintf("Trying to push constants [%d, %d) outside of range [%d, %d)", offset, end, r.Offset, r.Offset+r.Size)
		cb.fail(ErrorBadArgument)
		return
	}
	cb.put(cmdPushConstants)
	stream.Put(cb.stream, pushConstantsCmd{layout: p.layout.handle, stages: r.StageFlags, offset: offset})
	stream.PutBytes(cb.stream, data)
}

/*
BindBuffer binds size bytes of b starting at offset to an array element of a
uniform or storage buffer binding, a nil b unbinds it.
*/
func (cb *CommandBuffer) BindBuffer(b *Buffer, offset, size uint64, set, binding, element uint32) {
	cb.check("BindBuffer")
	if b == nil {
		cb.bindings.bind(set, binding, element, bindingInfo{})
		return
	}
	b.noCopy.Check()
	if offset >= b.info.Size || (size != vk.WholeSize && (size == 0 || offset+size > b.info.Size)) {
		instance.logger.WPrintf("Trying to bind [%d, +%d) of buffer %s with size %d", offset, size, toHex(b.handle), b.info.Size)
		cb.fail(ErrorBadArgument)
		return
	}
	cb.bindings.bind(set, binding, element, bindingInfo{kind: bindingBuffer, buffer: b, offset: offset, size: size})
}

func (cb *CommandBuffer) BindBufferView(v *BufferView, set, binding, element uint32) {
	cb.check("BindBufferView")
	if v == nil {
		cb.bindings.bind(set, binding, element, bindingInfo{})
		return
	}
	v.noCopy.Check()
	cb.bindings.bind(set, binding, element, bindingInfo{kind: bindingBufferView, bufferView: v})
}

/*
BindImageView binds v to an array element of an image binding, sampler is only
read by combined image sampler bindings. A nil v unbinds it.
*/
func (cb *CommandBuffer) BindImageView(v *ImageView, sampler *Sampler, set, binding, element uint32) {
	cb.check("BindImageView")
	if v == nil {
		cb.bindings.bind(set, binding, element, bindingInfo{})
		return
	}
	v.noCopy.Check()
	if sampler != nil {
		sampler.noCopy.Check()
	}
	cb.bindings.bind(set, binding, element, bindingInfo{kind: bindingImage, imageView: v, sampler: sampler})
}

func (cb *CommandBuffer) BindSampler(s *Sampler, set, binding, element uint32) {
	cb.check("BindSampler")
	if s == nil {
		cb.bindings.bind(set, binding, element, bindingInfo{})
		return
	}
	s.noCopy.Check()
	cb.bindings.bind(set, binding, element, bindingInfo{kind: bindingSampler, sampler: s})
}

func shaderPipelineStages(s vk.ShaderStageFlags) vk.PipelineStageFlags {
	var out vk.PipelineStageFlags
	if hasBits(s, vk.ShaderStageVertexBit) {
		out |= vk.PipelineStageVertexShaderBit
	}
	if hasBits(s, vk.ShaderStageTessellationControlBit) {
		out |= vk.PipelineStageTessellationControlShaderBit
	}
	if hasBits(s, vk.ShaderStageTessellationEvaluationBit) {
		out |= vk.PipelineStageTessellationEvaluationShaderBit
	}
	if hasBits(s, vk.ShaderStageGeometryBit) {
		out |= vk.PipelineStageGeometryShaderBit
	}
	if hasBits(s, vk.ShaderStageFragmentBit) {
		out |= vk.PipelineStageFragmentShaderBit
	}
	if hasBits(s, vk.ShaderStageComputeBit) {
		out |= vk.PipelineStageComputeShaderBit
	}
	return out
}

func storageAccess(a ResourceAccess) vk.AccessFlags {
	var out vk.AccessFlags
	if hasBits(a, ResourceAccessRead) {
		out |= vk.AccessShaderReadBit
	}
	if hasBits(a, ResourceAccessWrite) {
		out |= vk.AccessShaderWriteBit
	}
	if out == 0 {
		out = vk.AccessShaderReadBit | vk.AccessShaderWriteBit
	}
	return out
}

func readableLayout(l vk.ImageLayout) bool {
	switch l {
	case vk.ImageLayoutGeneral, vk.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutDepthStencilReadOnlyOptimal:
		return true
	}
	return false
}

/*
descriptorWrites translates the bound elements of set into writes for layout l
of p. Unbound or mismatched elements are skipped with a warning.
*/
func (cb *CommandBuffer) descriptorWrites(p *Pipeline, set uint32, l *descriptorSetLayout) ([]native.DescriptorWrite, []trackedAccess) {
	var writes []native.DescriptorWrite
	var accesses []trackedAccess

	for _, lb := range l.bindings {
		res := p.descriptors[[2]uint32{set, lb.Binding}]
		stages := shaderPipelineStages(lb.StageFlags)
		for e := range lb.DescriptorCount {
			info, ok := cb.bindings.lookup(set, lb.Binding, e)
			if !ok {
				instance.logger.WPrintf("Set [%d] binding [%d] element [%d] (%s) is unbound", set, lb.Binding, e, res.Name)
				continue
			}
			w := native.DescriptorWrite{Binding: lb.Binding, ArrayElement: e, DescriptorType: lb.DescriptorType}

			switch lb.DescriptorType {
			case vk.DescriptorTypeUniformBuffer, vk.DescriptorTypeStorageBuffer:
				if info.kind != bindingBuffer {
					break
				}
				w.BufferInfo = native.DescriptorBufferInfo{Buffer: info.buffer.handle, Offset: info.offset, Range: info.size}
				a := trackedAccess{buffer: info.buffer, stages: stages, access: vk.AccessUniformReadBit}
				if lb.DescriptorType == vk.DescriptorTypeStorageBuffer {
					a.access = storageAccess(res.Access)
				}
				accesses = append(accesses, a)
				writes = append(writes, w)
				continue

			case vk.DescriptorTypeUniformTexelBuffer, vk.DescriptorTypeStorageTexelBuffer:
				if info.kind != bindingBufferView {
					break
				}
				w.TexelBufferView = info.bufferView.handle
				a := trackedAccess{buffer: info.bufferView.info.Buffer, stages: stages, access: vk.AccessShaderReadBit}
				if lb.DescriptorType == vk.DescriptorTypeStorageTexelBuffer {
					a.access = storageAccess(res.Access)
				}
				accesses = append(accesses, a)
				writes = append(writes, w)
				continue

			case vk.DescriptorTypeSampler:
				if info.sampler == nil {
					break
				}
				w.ImageInfo.Sampler = info.sampler.handle
				writes = append(writes, w)
				continue

			case vk.DescriptorTypeCombinedImageSampler, vk.DescriptorTypeSampledImage,
				vk.DescriptorTypeStorageImage, vk.DescriptorTypeInputAttachment:
				if info.kind != bindingImage || (lb.DescriptorType == vk.DescriptorTypeCombinedImageSampler && info.sampler == nil) {
					break
				}
				img := info.imageView.image
				w.ImageInfo.ImageView = info.imageView.handle
				if info.sampler != nil && lb.DescriptorType == vk.DescriptorTypeCombinedImageSampler {
					w.ImageInfo.Sampler = info.sampler.handle
				}
				a := trackedAccess{image: img, stages: stages, access: vk.AccessShaderReadBit}
				switch lb.DescriptorType {
				case vk.DescriptorTypeInputAttachment:
					w.ImageInfo.ImageLayout = info.layout
					writes = append(writes, w)
					continue
				case vk.DescriptorTypeStorageImage:
					a.layout = vk.ImageLayoutGeneral
					a.access = storageAccess(res.Access)
				default:
					a.layout = cb.tracker.imageLayout(img)
					if !readableLayout(a.layout) {
						a.layout = vk.ImageLayoutShaderReadOnlyOptimal
					}
				}
				w.ImageInfo.ImageLayout = a.layout
				accesses = append(accesses, a)
				writes = append(writes, w)
				continue
			}
			instance.logger.WPrintf("Set [%d] binding [%d] element [%d] (%s) is a %s but the bound resource does not match",
				set, lb.Binding, e, res.Name, toHex(lb.DescriptorType))
		}
	}
	return writes, accesses
}

/*
flushDescriptors writes and schedules a descriptor set at pos for every set of
p that is dirty or not bound with p's layout, then tracks the accesses of every
set p uses.
*/
func (cb *CommandBuffer) flushDescriptors(pos int, p *Pipeline) {
	d := cb.device
	b := &cb.bound[bindPointIndex(p.bindPoint)]

	if b.layout == nil || b.layout.pushConstants != p.layout.pushConstants {
		b.sets = b.sets[:0]
	}
	valid := 0
	for valid < min(len(b.sets), len(p.setLayouts)) && b.sets[valid] == p.setLayouts[valid] {
		valid++
	}
	n := len(p.setLayouts)
	b.sets = growSlice(b.sets[:valid], n)[:n]
	b.versions = growSlice(b.versions[:valid], n)[:n]
	b.accesses = growSlice(b.accesses[:valid], n)[:n]
	b.pipelines = growSlice(b.pipelines[:valid], n)[:n]
	for i := valid; i < n; i++ {
		b.sets[i] = nil
		b.accesses[i] = nil
		b.pipelines[i] = nil
	}
	b.layout = p.layout

	for i, l := range p.setLayouts {
		set := uint32(i)
		if len(l.bindings) == 0 {
			b.sets[i] = l
			continue
		}
		version := cb.bindings.version(set)
		if b.sets[i] == l && b.versions[i] == version {
			// a layout may be shared by pipelines declaring different access
			if b.pipelines[i] != p {
				_, b.accesses[i] = cb.descriptorWrites(p, set, l)
				b.pipelines[i] = p
			}
			continue
		}
		h, page, err := l.allocate(d)
		if err != nil {
			instance.logger.WPrintf("Failed to allocate descriptor set [%d] with layout %s, skipping: %s", set, l.id, err)
			b.sets[i] = nil
			b.accesses[i] = nil
			b.pipelines[i] = nil
			continue
		}
		cb.transient = append(cb.transient, transientSet{layout: l, page: page, handle: h})
		writes, accesses := cb.descriptorWrites(p, set, l)
		if len(writes) > 0 {
			d.native.UpdateDescriptorSet(h, writes)
		}
		cb.setBinds = append(cb.setBinds, setBind{pos: pos, bindPoint: p.bindPoint, layout: p.layout.handle, set: set, handle: h})
		b.sets[i] = l
		b.versions[i] = version
		b.accesses[i] = accesses
		b.pipelines[i] = p
	}

	for _, accesses := range b.accesses {
		for _, a := range accesses {
			if a.buffer != nil {
				cb.tracker.buffer(a.buffer, pos, a.stages, a.access)
			} else {
				cb.tracker.image(a.image, pos, a.stages, a.access, a.layout, false)
			}
		}
	}
}

func (cb *CommandBuffer) SetEvent(e *Event, stages vk.PipelineStageFlags) {
	cb.event("SetEvent", cmdSetEvent, e, stages)
}

func (cb *CommandBuffer) ResetEvent(e *Event, stages vk.PipelineStageFlags) {
	cb.event("ResetEvent", cmdResetEvent, e, stages)
}

func (cb *CommandBuffer) event(name string, id cmdID, e *Event, stages vk.PipelineStageFlags) {
	if !cb.outsideRenderPass(name) {
		return
	}
	if e == nil || stages == 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	e.noCopy.Check()
	cb.put(id)
	stream.Put(cb.stream, eventCmd{event: e.handle, stages: stages})
}

func (cb *CommandBuffer) ResetQueryPool(p *QueryPool, first, count uint32) {
	if !cb.outsideRenderPass("ResetQueryPool") {
		return
	}
	if !cb.validQueries(p, first, count) {
		return
	}
	cb.put(cmdResetQueryPool)
	stream.Put(cb.stream, queryPoolCmd{pool: p.handle, first: first, count: count})
}

func (cb *CommandBuffer) BeginQuery(p *QueryPool, query uint32, flags vk.QueryControlFlags) {
	cb.check("BeginQuery")
	if !cb.validQueries(p, query, 1) {
		return
	}
	cb.put(cmdBeginQuery)
	stream.Put(cb.stream, queryPoolCmd{pool: p.handle, first: query, flags: flags})
}

func (cb *CommandBuffer) EndQuery(p *QueryPool, query uint32) {
	cb.check("EndQuery")
	if !cb.validQueries(p, query, 1) {
		return
	}
	cb.put(cmdEndQuery)
	stream.Put(cb.stream, queryPoolCmd{pool: p.handle, first: query})
}

func (cb *CommandBuffer) WriteTimestamp(stage vk.PipelineStageFlags, p *QueryPool, query uint32) {
	cb.check("WriteTimestamp")
	if !cb.validQueries(p, query, 1) {
		return
	}
	cb.put(cmdWriteTimestamp)
	stream.Put(cb.stream, queryPoolCmd{pool: p.handle, first: query, stage: stage})
}

func (cb *CommandBuffer) validQueries(p *QueryPool, first, count uint32) bool {
	if p == nil {
		cb.fail(ErrorBadArgument)
		return false
	}
	p.noCopy.Check()
	if count == 0 || uint64(first)+uint64(count) > uint64(p.info.QueryCount) {
		instance.logger.WPrintf("Trying to use queries [%d, +%d) of a pool with %d queries", first, count, p.info.QueryCount)
		cb.fail(ErrorBadArgument)
		return false
	}
	return true
}

/*
outsideRenderPass checks that name is recorded outside of a render pass.
*/
func (cb *CommandBuffer) outsideRenderPass(name string) bool {
	cb.check(name)
	if cb.pass >= 0 {
		instance.logger.WPrintf("Trying to record %s inside a render pass", name)
		cb.fail(ErrorBadArgument)
		return false
	}
	return true
}
