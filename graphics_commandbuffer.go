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
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
BeginRenderPass opens a render pass on info.Framebuffer. The native render
pass is derived from what the pass's subpasses use once EndRenderPass is
recorded.
*/
func (cb *CommandBuffer) BeginRenderPass(info RenderPassBeginInfo) {
	if !cb.outsideRenderPass("BeginRenderPass") {
		return
	}
	fb := info.Framebuffer
	if fb == nil {
		cb.fail(ErrorBadArgument)
		return
	}
	fb.noCopy.Check()
	if len(info.Attachments) > len(fb.attachments) {
		instance.logger.WPrintf("Trying to begin render pass with %d attachment infos on a framebuffer with %d attachments",
			len(info.Attachments), len(fb.attachments))
		cb.fail(ErrorBadArgument)
		return
	}

	desc := &renderPassDesc{
		framebuffer: fb,
		renderArea:  info.RenderArea,
		attachments: make([]AttachmentInfo, len(fb.attachments)),
		depth:       fb.depth,
	}
	copy(desc.attachments, info.Attachments)
	if desc.renderArea.Extent.Width == 0 || desc.renderArea.Extent.Height == 0 {
		desc.renderArea = vk.Rect2D{Extent: fb.extent}
	}
	desc.nextSubpass()

	pos := cb.stream.Tell()
	desc.pos = pos
	cb.tracker.beginRenderPass(pos)
	for i, v := range fb.attachments {
		load := desc.attachments[i].LoadOp == vk.AttachmentLoadOpLoad
		if i == fb.depth {
			cb.tracker.image(v.image, pos,
				vk.PipelineStageEarlyFragmentTestsBit|vk.PipelineStageLateFragmentTestsBit,
				vk.AccessDepthStencilAttachmentReadBit|vk.AccessDepthStencilAttachmentWriteBit,
				attachmentLayout(v.info.Format), !load)
			continue
		}
		access := vk.AccessColorAttachmentWriteBit
		if load {
			access |= vk.AccessColorAttachmentReadBit
		}
		cb.tracker.image(v.image, pos, vk.PipelineStageColorAttachmentOutputBit, access, attachmentLayout(v.info.Format), !load)
	}

	cb.renderPasses = append(cb.renderPasses, desc)
	cb.pass = len(cb.renderPasses) - 1
	cb.passBinds = len(cb.pipelineBinds)
	cb.subpass = 0
	cb.graphics.dirty = true
	cb.put(cmdBeginRenderPass)
	stream.Put(cb.stream, beginRenderPassCmd{desc: uint32(cb.pass)})
}

func (cb *CommandBuffer) NextSubpass() {
	if !cb.insideRenderPass("NextSubpass") {
		return
	}
	cb.renderPasses[cb.pass].nextSubpass()
	cb.subpass++
	cb.graphics.dirty = true
	cb.put(cmdNextSubpass)
}

/*
EndRenderPass closes the render pass, acquires the matching cached native
render pass and bakes every graphics pipeline bound inside it.
*/
func (cb *CommandBuffer) EndRenderPass() {
	if !cb.insideRenderPass("EndRenderPass") {
		return
	}
	d := cb.device
	desc := cb.renderPasses[cb.pass]
	rp, err := d.renderPasses.acquire(desc.createInfo())
	if err != nil {
		cb.fail(err)
	} else {
		desc.rp = rp
		for i := cb.passBinds; i < len(cb.pipelineBinds); i++ {
			b := &cb.pipelineBinds[i]
			if b.bindPoint != vk.PipelineBindPointGraphics {
				continue
			}
			h, err := d.pipelines.graphicsPipeline(b.pipeline, rp, b.subpass, &b.state)
			if err != nil {
				cb.fail(err)
				continue
			}
			b.handle = h
		}
	}

	pos := cb.put(cmdEndRenderPass)
	cb.tracker.endRenderPass()
	for _, v := range desc.framebuffer.attachments {
		cb.tracker.setImagePos(v.image, pos)
	}
	cb.pass = -1
	cb.subpass = 0
}

func (cb *CommandBuffer) insideRenderPass(name string) bool {
	cb.check(name)
	if cb.pass < 0 {
		instance.logger.WPrintf("Trying to record %s outside of a render pass", name)
		cb.fail(ErrorBadArgument)
		return false
	}
	return true
}

func (cb *CommandBuffer) SetInputAssemblyState(s InputAssemblyState) {
	cb.check("SetInputAssemblyState")
	cb.graphics.setInputAssembly(s)
}

func (cb *CommandBuffer) SetRasterizationState(s RasterizationState) {
	cb.check("SetRasterizationState")
	cb.graphics.setRasterization(s)
}

func (cb *CommandBuffer) SetMultisampleState(s MultisampleState) {
	cb.check("SetMultisampleState")
	cb.graphics.setMultisample(s)
}

func (cb *CommandBuffer) SetDepthStencilState(s DepthStencilState) {
	cb.check("SetDepthStencilState")
	cb.graphics.setDepthStencil(s)
}

/*
SetColorBlendState accepts at most one attachment state per possible color
attachment.
*/
func (cb *CommandBuffer) SetColorBlendState(s ColorBlendState) {
	cb.check("SetColorBlendState")
	if len(s.Attachments) > maxColorBlendAttachments {
		instance.logger.WPrintf("Trying to set %d color blend attachments, max is %d", len(s.Attachments), maxColorBlendAttachments)
		cb.fail(ErrorBadArgument)
		return
	}
	cb.graphics.setColorBlend(s)
}

/*
SetVertexInputFormat overrides the format derived from the vertex shader, nil
goes back to the derived one.
*/
func (cb *CommandBuffer) SetVertexInputFormat(f *VertexInputFormat) {
	cb.check("SetVertexInputFormat")
	if f != nil {
		f.noCopy.Check()
	}
	cb.graphics.setVertexFormat(f)
}

func (cb *CommandBuffer) SetViewportState(viewportCount uint32) {
	cb.check("SetViewportState")
	cb.graphics.setViewportCount(viewportCount)
}

func (cb *CommandBuffer) SetViewport(first uint32, viewports []vk.Viewport) {
	cb.check("SetViewport")
	if len(viewports) == 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	cb.put(cmdSetViewport)
	stream.Put(cb.stream, firstCmd{first: first})
	stream.PutSlice(cb.stream, viewports)
	cb.dynamic |= dynamicStateBit(vk.DynamicStateViewport)
}

func (cb *CommandBuffer) SetScissor(first uint32, scissors []vk.Rect2D) {
	cb.check("SetScissor")
	if len(scissors) == 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	cb.put(cmdSetScissor)
	stream.Put(cb.stream, firstCmd{first: first})
	stream.PutSlice(cb.stream, scissors)
	cb.dynamic |= dynamicStateBit(vk.DynamicStateScissor)
}

func (cb *CommandBuffer) SetLineWidth(width float32) {
	cb.check("SetLineWidth")
	cb.put(cmdSetLineWidth)
	stream.Put(cb.stream, width)
	cb.dynamic |= dynamicStateBit(vk.DynamicStateLineWidth)
}

func (cb *CommandBuffer) SetDepthBias(constantFactor, clamp, slopeFactor float32) {
	cb.check("SetDepthBias")
	cb.put(cmdSetDepthBias)
	stream.Put(cb.stream, depthBiasCmd{constantFactor: constantFactor, clamp: clamp, slopeFactor: slopeFactor})
	cb.dynamic |= dynamicStateBit(vk.DynamicStateDepthBias)
}

func (cb *CommandBuffer) SetBlendConstants(constants [4]float32) {
	cb.check("SetBlendConstants")
	cb.put(cmdSetBlendConstants)
	stream.Put(cb.stream, constants)
	cb.dynamic |= dynamicStateBit(vk.DynamicStateBlendConstants)
}

func (cb *CommandBuffer) SetDepthBounds(minDepth, maxDepth float32) {
	cb.check("SetDepthBounds")
	cb.put(cmdSetDepthBounds)
	stream.Put(cb.stream, depthBoundsCmd{min: minDepth, max: maxDepth})
	cb.dynamic |= dynamicStateBit(vk.DynamicStateDepthBounds)
}

func (cb *CommandBuffer) SetStencilCompareMask(faces vk.StencilFaceFlags, mask uint32) {
	cb.setStencil("SetStencilCompareMask", cmdSetStencilCompareMask, vk.DynamicStateStencilCompareMask, faces, mask)
}

func (cb *CommandBuffer) SetStencilWriteMask(faces vk.StencilFaceFlags, mask uint32) {
	cb.setStencil("SetStencilWriteMask", cmdSetStencilWriteMask, vk.DynamicStateStencilWriteMask, faces, mask)
}

func (cb *CommandBuffer) SetStencilReference(faces vk.StencilFaceFlags, reference uint32) {
	cb.setStencil("SetStencilReference", cmdSetStencilReference, vk.DynamicStateStencilReference, faces, reference)
}

func (cb *CommandBuffer) setStencil(name string, id cmdID, state vk.DynamicState, faces vk.StencilFaceFlags, value uint32) {
	cb.check(name)
	if faces == 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	cb.put(id)
	stream.Put(cb.stream, stencilCmd{faces: faces, value: value})
	// both faces have to be set before the state counts as set
	if faces == vk.StencilFaceFrontAndBack {
		cb.dynamic |= dynamicStateBit(state)
	}
}

/*
seedDynamicStates records defaults for the dynamic states in missing, the
viewports and scissors cover the render area.
*/
func (cb *CommandBuffer) seedDynamicStates(desc *renderPassDesc, missing dynamicStateMask) {
	area := desc.renderArea
	n := max(cb.graphics.viewportCount, 1)
	if hasBits(missing, dynamicStateBit(vk.DynamicStateViewport)) {
		viewports := make([]vk.Viewport, n)
		for i := range viewports {
			viewports[i] = vk.Viewport{
				X:        float32(area.Offset.X),
				Y:        float32(area.Offset.Y),
				Width:    float32(area.Extent.Width),
				Height:   float32(area.Extent.Height),
				MinDepth: 0,
				MaxDepth: 1,
			}
		}
		cb.SetViewport(0, viewports)
	}
	if hasBits(missing, dynamicStateBit(vk.DynamicStateScissor)) {
		scissors := make([]vk.Rect2D, n)
		for i := range scissors {
			scissors[i] = area
		}
		cb.SetScissor(0, scissors)
	}
	if hasBits(missing, dynamicStateBit(vk.DynamicStateLineWidth)) {
		cb.SetLineWidth(1)
	}
	if hasBits(missing, dynamicStateBit(vk.DynamicStateDepthBias)) {
		cb.SetDepthBias(0, 1, 1)
	}
	if hasBits(missing, dynamicStateBit(vk.DynamicStateBlendConstants)) {
		cb.SetBlendConstants([4]float32{1, 1, 1, 1})
	}
	if hasBits(missing, dynamicStateBit(vk.DynamicStateDepthBounds)) {
		cb.SetDepthBounds(0, 1)
	}
	if hasBits(missing, dynamicStateBit(vk.DynamicStateStencilCompareMask)) {
		cb.SetStencilCompareMask(vk.StencilFaceFrontAndBack, ^uint32(0))
	}
	if hasBits(missing, dynamicStateBit(vk.DynamicStateStencilWriteMask)) {
		cb.SetStencilWriteMask(vk.StencilFaceFrontAndBack, ^uint32(0))
	}
	if hasBits(missing, dynamicStateBit(vk.DynamicStateStencilReference)) {
		cb.SetStencilReference(vk.StencilFaceFrontAndBack, 0)
	}
}

/*
useAttachments marks the attachments the bound pipeline touches in the current
subpass: fragment outputs write color attachments by location, the depth
stencil state decides the depth use and input attachments are bound to the
framebuffer's view.
*/
func (cb *CommandBuffer) useAttachments(desc *renderPassDesc, p *Pipeline) {
	for _, r := range p.resourcesOf(ResourceOutput, vk.ShaderStageFragmentBit) {
		for l := r.Location; l < r.Location+max(r.ArraySize, 1); l++ {
			if int(l) != desc.depth {
				desc.use(l, attachmentColor)
			}
		}
	}
	if desc.depth >= 0 {
		ds := cb.graphics.depthStencil
		if ds.DepthTestEnable || ds.StencilTestEnable || ds.DepthBoundsTestEnable {
			desc.use(uint32(desc.depth), attachmentDepthRead)
		}
		if (ds.DepthTestEnable && ds.DepthWriteEnable) || ds.StencilTestEnable {
			desc.use(uint32(desc.depth), attachmentDepthWrite)
		}
	}
	for _, r := range p.resourcesOf(ResourceInputAttachment, vk.ShaderStageFragmentBit) {
		a := r.InputAttachmentIndex
		if int(a) >= len(desc.framebuffer.attachments) {
			instance.logger.WPrintf("Input attachment %q index %d is outside of the framebuffer's %d attachments",
				r.Name, a, len(desc.framebuffer.attachments))
			continue
		}
		desc.use(a, attachmentInput)
		v := desc.framebuffer.attachments[a]
		cb.bindings.bind(r.Set, r.Binding, 0, bindingInfo{
			kind:      bindingImage,
			imageView: v,
			layout:    inputAttachmentLayout(v.info.Format),
		})
	}
}

/*
prepareDraw validates the state of a draw and schedules everything it needs
at the position of its token, false means the draw must not be recorded.
*/
func (cb *CommandBuffer) prepareDraw(name string) (int, bool) {
	if !cb.insideRenderPass(name) {
		return 0, false
	}
	p := cb.graphics.pipeline
	if p == nil {
		instance.logger.WPrintf("Trying to record %s without a bound graphics pipeline", name)
		cb.fail(ErrorBadArgument)
		return 0, false
	}
	desc := cb.renderPasses[cb.pass]
	if missing := cb.graphics.requiredDynamicStates() &^ cb.dynamic; missing != 0 {
		cb.seedDynamicStates(desc, missing)
	}

	pos := cb.stream.Tell()
	if cb.graphics.dirty {
		cb.useAttachments(desc, p)
		cb.pipelineBinds = append(cb.pipelineBinds, pipelineBind{
			pos:       pos,
			bindPoint: vk.PipelineBindPointGraphics,
			pipeline:  p,
			state:     cb.graphics,
			pass:      cb.pass,
			subpass:   cb.subpass,
		})
		cb.graphics.dirty = false
	}
	cb.flushDescriptors(pos, p)

	for _, b := range cb.vertexBuffers {
		if b != nil {
			cb.tracker.buffer(b, pos, vk.PipelineStageVertexInputBit, vk.AccessVertexAttributeReadBit)
		}
	}
	return pos, true
}

/*
BindVertexBuffers binds buffers starting at binding first, a nil buffer leaves
its binding untracked.
*/
func (cb *CommandBuffer) BindVertexBuffers(first uint32, buffers []*Buffer, offsets []uint64) {
	cb.check("BindVertexBuffers")
	if len(buffers) == 0 || len(buffers) != len(offsets) {
		cb.fail(ErrorBadArgument)
		return
	}
	handles := make([]native.Buffer, len(buffers))
	n := int(first) + len(buffers)
	cb.vertexBuffers = growSlice(cb.vertexBuffers, n)[:max(len(cb.vertexBuffers), n)]
	for i, b := range buffers {
		if b == nil {
			instance.logger.WPrintf("Trying to bind nil vertex buffer to binding %d", int(first)+i)
			cb.fail(ErrorBadArgument)
			return
		}
		b.noCopy.Check()
		handles[i] = b.handle
		cb.vertexBuffers[int(first)+i] = b
	}
	cb.put(cmdBindVertexBuffers)
	stream.Put(cb.stream, bindVertexBuffersCmd{first: first})
	stream.PutSlice(cb.stream, handles)
	stream.PutSlice(cb.stream, offsets)
}

func (cb *CommandBuffer) BindIndexBuffer(b *Buffer, offset uint64, indexType vk.IndexType) {
	cb.check("BindIndexBuffer")
	if b == nil || offset >= b.info.Size {
		cb.fail(ErrorBadArgument)
		return
	}
	b.noCopy.Check()
	cb.indexBuffer = b
	cb.put(cmdBindIndexBuffer)
	stream.Put(cb.stream, bindIndexBufferCmd{buffer: b.handle, offset: offset, indexType: indexType})
}

func (cb *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if _, ok := cb.prepareDraw("Draw"); !ok {
		return
	}
	cb.put(cmdDraw)
	stream.Put(cb.stream, drawCmd{
		vertexCount:   vertexCount,
		instanceCount: instanceCount,
		firstVertex:   firstVertex,
		firstInstance: firstInstance,
	})
}

func (cb *CommandBuffer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	pos, ok := cb.prepareIndexed("DrawIndexed")
	if !ok {
		return
	}
	cb.tracker.buffer(cb.indexBuffer, pos, vk.PipelineStageVertexInputBit, vk.AccessIndexReadBit)
	cb.put(cmdDrawIndexed)
	stream.Put(cb.stream, drawIndexedCmd{
		indexCount:    indexCount,
		instanceCount: instanceCount,
		firstIndex:    firstIndex,
		vertexOffset:  vertexOffset,
		firstInstance: firstInstance,
	})
}

func (cb *CommandBuffer) prepareIndexed(name string) (int, bool) {
	cb.check(name)
	if cb.indexBuffer == nil {
		instance.logger.WPrintf("Trying to record %s without a bound index buffer", name)
		cb.fail(ErrorBadArgument)
		return 0, false
	}
	return cb.prepareDraw(name)
}

func (cb *CommandBuffer) DrawIndirect(b *Buffer, offset uint64, drawCount, stride uint32) {
	cb.drawIndirect("DrawIndirect", cmdDrawIndirect, b, offset, drawCount, stride)
}

func (cb *CommandBuffer) DrawIndexedIndirect(b *Buffer, offset uint64, drawCount, stride uint32) {
	cb.drawIndirect("DrawIndexedIndirect", cmdDrawIndexedIndirect, b, offset, drawCount, stride)
}

func (cb *CommandBuffer) drawIndirect(name string, id cmdID, b *Buffer, offset uint64, drawCount, stride uint32) {
	cb.check(name)
	if b == nil || offset%4 != 0 || offset >= b.info.Size {
		cb.fail(ErrorBadArgument)
		return
	}
	b.noCopy.Check()

	var pos int
	var ok bool
	if id == cmdDrawIndexedIndirect {
		pos, ok = cb.prepareIndexed(name)
	} else {
		pos, ok = cb.prepareDraw(name)
	}
	if !ok {
		return
	}
	if id == cmdDrawIndexedIndirect {
		cb.tracker.buffer(cb.indexBuffer, pos, vk.PipelineStageVertexInputBit, vk.AccessIndexReadBit)
	}
	cb.tracker.buffer(b, pos, vk.PipelineStageDrawIndirectBit, vk.AccessIndirectCommandReadBit)
	cb.put(id)
	stream.Put(cb.stream, drawIndirectCmd{buffer: b.handle, offset: offset, drawCount: drawCount, stride: stride})
}

/*
ClearAttachments clears regions of the current subpass's attachments,
ColorAttachment indexes the framebuffer's attachments.
*/
func (cb *CommandBuffer) ClearAttachments(attachments []vk.ClearAttachment, rects []vk.ClearRect) {
	if !cb.insideRenderPass("ClearAttachments") {
		return
	}
	if len(attachments) == 0 || len(rects) == 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	desc := cb.renderPasses[cb.pass]
	for _, a := range attachments {
		if hasBits(a.AspectMask, vk.ImageAspectColorBit) {
			if int(a.ColorAttachment) >= len(desc.attachments) || int(a.ColorAttachment) == desc.depth {
				cb.fail(ErrorBadArgument)
				return
			}
			desc.use(a.ColorAttachment, attachmentColor)
		} else if desc.depth >= 0 {
			desc.use(uint32(desc.depth), attachmentDepthWrite)
		}
	}
	cb.put(cmdClearAttachments)
	stream.PutSlice(cb.stream, attachments)
	stream.PutSlice(cb.stream, rects)
}
