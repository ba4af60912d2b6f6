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

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
Call is one recorded command. Args holds the command specific arguments, for
example native.PipelineBarrier for "PipelineBarrier" or DrawArgs for "Draw".
*/
type Call struct {
	Op   string
	Args any
}

type BindPipelineArgs struct {
	BindPoint vk.PipelineBindPoint
	Pipeline  native.Pipeline
}

type BindDescriptorSetsArgs struct {
	BindPoint vk.PipelineBindPoint
	Layout    native.PipelineLayout
	FirstSet  uint32
	Sets      []native.DescriptorSet
}

type PushConstantsArgs struct {
	Layout native.PipelineLayout
	Stages vk.ShaderStageFlags
	Offset uint32
	Data   []byte
}

type BindVertexBuffersArgs struct {
	FirstBinding uint32
	Buffers      []native.Buffer
	Offsets      []uint64
}

type BindIndexBufferArgs struct {
	Buffer    native.Buffer
	Offset    uint64
	IndexType vk.IndexType
}

type ViewportArgs struct {
	First     uint32
	Viewports []vk.Viewport
}

type ScissorArgs struct {
	First    uint32
	Scissors []vk.Rect2D
}

type DepthBiasArgs struct {
	ConstantFactor, Clamp, SlopeFactor float32
}

type StencilArgs struct {
	Faces vk.StencilFaceFlags
	Value uint32
}

type DrawArgs struct {
	VertexCount, InstanceCount, FirstVertex, FirstInstance uint32
}

type DrawIndexedArgs struct {
	IndexCount, InstanceCount, FirstIndex uint32
	VertexOffset                          int32
	FirstInstance                         uint32
}

type IndirectArgs struct {
	Buffer    native.Buffer
	Offset    uint64
	DrawCount uint32
	Stride    uint32
}

type DispatchArgs struct {
	X, Y, Z uint32
}

type CopyBufferArgs struct {
	Src, Dst native.Buffer
	Regions  []vk.BufferCopy
}

type CopyImageArgs struct {
	Src       native.Image
	SrcLayout vk.ImageLayout
	Dst       native.Image
	DstLayout vk.ImageLayout
	Regions   []vk.ImageCopy
}

type BlitImageArgs struct {
	Src       native.Image
	SrcLayout vk.ImageLayout
	Dst       native.Image
	DstLayout vk.ImageLayout
	Regions   []vk.ImageBlit
	Filter    vk.Filter
}

type ResolveImageArgs struct {
	Src       native.Image
	SrcLayout vk.ImageLayout
	Dst       native.Image
	DstLayout vk.ImageLayout
	Regions   []vk.ImageResolve
}

type BufferImageCopyArgs struct {
	Buffer  native.Buffer
	Image   native.Image
	Layout  vk.ImageLayout
	Regions []vk.BufferImageCopy
}

type UpdateBufferArgs struct {
	Dst    native.Buffer
	Offset uint64
	Data   []byte
}

type FillBufferArgs struct {
	Dst          native.Buffer
	Offset, Size uint64
	Data         uint32
}

type ClearColorImageArgs struct {
	Image  native.Image
	Layout vk.ImageLayout
	Color  vk.ClearColorValue
	Ranges []vk.ImageSubresourceRange
}

type ClearDepthStencilImageArgs struct {
	Image  native.Image
	Layout vk.ImageLayout
	Value  vk.ClearDepthStencilValue
	Ranges []vk.ImageSubresourceRange
}

type ClearAttachmentsArgs struct {
	Attachments []vk.ClearAttachment
	Rects       []vk.ClearRect
}

type EventArgs struct {
	Event  native.Event
	Stages vk.PipelineStageFlags
}

type QueryArgs struct {
	Pool  native.QueryPool
	First uint32
	Count uint32
	Flags vk.QueryControlFlags
	Stage vk.PipelineStageFlags
}

func (d *Device) record(cb native.CommandBuffer, op string, args any) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	r, ok := d.recordings[cb]
	if !ok || r.state != stateRecording {
		panic("nativetest: " + op + " recorded outside of Begin/End")
	}
	r.calls = append(r.calls, Call{Op: op, Args: args})
}

func (d *Device) CmdPipelineBarrier(cb native.CommandBuffer, b native.PipelineBarrier) {
	d.record(cb, "PipelineBarrier", native.PipelineBarrier{
		SrcStageMask:    b.SrcStageMask,
		DstStageMask:    b.DstStageMask,
		DependencyFlags: b.DependencyFlags,
		MemoryBarriers:  slices.Clone(b.MemoryBarriers),
		BufferBarriers:  slices.Clone(b.BufferBarriers),
		ImageBarriers:   slices.Clone(b.ImageBarriers),
	})
}

func (d *Device) CmdBeginRenderPass(cb native.CommandBuffer, info native.RenderPassBeginInfo) {
	info.ClearValues = slices.Clone(info.ClearValues)
	d.record(cb, "BeginRenderPass", info)
}

func (d *Device) CmdNextSubpass(cb native.CommandBuffer) {
	d.record(cb, "NextSubpass", nil)
}

func (d *Device) CmdEndRenderPass(cb native.CommandBuffer) {
	d.record(cb, "EndRenderPass", nil)
}

func (d *Device) CmdBindPipeline(cb native.CommandBuffer, bindPoint vk.PipelineBindPoint, p native.Pipeline) {
	d.record(cb, "BindPipeline", BindPipelineArgs{bindPoint, p})
}

func (d *Device) CmdBindDescriptorSets(cb native.CommandBuffer, bindPoint vk.PipelineBindPoint, layout native.PipelineLayout, firstSet uint32, sets []native.DescriptorSet) {
	d.record(cb, "BindDescriptorSets", BindDescriptorSetsArgs{bindPoint, layout, firstSet, slices.Clone(sets)})
}

func (d *Device) CmdPushConstants(cb native.CommandBuffer, layout native.PipelineLayout, stages vk.ShaderStageFlags, offset uint32, data []byte) {
	d.record(cb, "PushConstants", PushConstantsArgs{layout, stages, offset, slices.Clone(data)})
}

func (d *Device) CmdBindVertexBuffers(cb native.CommandBuffer, first uint32, buffers []native.Buffer, offsets []uint64) {
	d.record(cb, "BindVertexBuffers", BindVertexBuffersArgs{first, slices.Clone(buffers), slices.Clone(offsets)})
}

func (d *Device) CmdBindIndexBuffer(cb native.CommandBuffer, buffer native.Buffer, offset uint64, indexType vk.IndexType) {
	d.record(cb, "BindIndexBuffer", BindIndexBufferArgs{buffer, offset, indexType})
}

func (d *Device) CmdSetViewport(cb native.CommandBuffer, first uint32, viewports []vk.Viewport) {
	d.record(cb, "SetViewport", ViewportArgs{first, slices.Clone(viewports)})
}

func (d *Device) CmdSetScissor(cb native.CommandBuffer, first uint32, scissors []vk.Rect2D) {
	d.record(cb, "SetScissor", ScissorArgs{first, slices.Clone(scissors)})
}

func (d *Device) CmdSetLineWidth(cb native.CommandBuffer, width float32) {
	d.record(cb, "SetLineWidth", width)
}

func (d *Device) CmdSetDepthBias(cb native.CommandBuffer, constantFactor, clamp, slopeFactor float32) {
	d.record(cb, "SetDepthBias", DepthBiasArgs{constantFactor, clamp, slopeFactor})
}

func (d *Device) CmdSetBlendConstants(cb native.CommandBuffer, constants [4]float32) {
	d.record(cb, "SetBlendConstants", constants)
}

func (d *Device) CmdSetDepthBounds(cb native.CommandBuffer, minDepth, maxDepth float32) {
	d.record(cb, "SetDepthBounds", [2]float32{minDepth, maxDepth})
}

func (d *Device) CmdSetStencilCompareMask(cb native.CommandBuffer, faces vk.StencilFaceFlags, mask uint32) {
	d.record(cb, "SetStencilCompareMask", StencilArgs{faces, mask})
}

func (d *Device) CmdSetStencilWriteMask(cb native.CommandBuffer, faces vk.StencilFaceFlags, mask uint32) {
	d.record(cb, "SetStencilWriteMask", StencilArgs{faces, mask})
}

func (d *Device) CmdSetStencilReference(cb native.CommandBuffer, faces vk.StencilFaceFlags, reference uint32) {
	d.record(cb, "SetStencilReference", StencilArgs{faces, reference})
}

func (d *Device) CmdDraw(cb native.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	d.record(cb, "Draw", DrawArgs{vertexCount, instanceCount, firstVertex, firstInstance})
}

func (d *Device) CmdDrawIndexed(cb native.CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	d.record(cb, "DrawIndexed", DrawIndexedArgs{indexCount, instanceCount, firstIndex, vertexOffset, firstInstance})
}

func (d *Device) CmdDrawIndirect(cb native.CommandBuffer, buffer native.Buffer, offset uint64, drawCount, stride uint32) {
	d.record(cb, "DrawIndirect", IndirectArgs{buffer, offset, drawCount, stride})
}

func (d *Device) CmdDrawIndexedIndirect(cb native.CommandBuffer, buffer native.Buffer, offset uint64, drawCount, stride uint32) {
	d.record(cb, "DrawIndexedIndirect", IndirectArgs{buffer, offset, drawCount, stride})
}

func (d *Device) CmdDispatch(cb native.CommandBuffer, x, y, z uint32) {
	d.record(cb, "Dispatch", DispatchArgs{x, y, z})
}

func (d *Device) CmdDispatchIndirect(cb native.CommandBuffer, buffer native.Buffer, offset uint64) {
	d.record(cb, "DispatchIndirect", IndirectArgs{Buffer: buffer, Offset: offset})
}

func (d *Device) CmdCopyBuffer(cb native.CommandBuffer, src, dst native.Buffer, regions []vk.BufferCopy) {
	d.record(cb, "CopyBuffer", CopyBufferArgs{src, dst, slices.Clone(regions)})
}

func (d *Device) CmdCopyImage(cb native.CommandBuffer, src native.Image, srcLayout vk.ImageLayout, dst native.Image, dstLayout vk.ImageLayout, regions []vk.ImageCopy) {
	d.record(cb, "CopyImage", CopyImageArgs{src, srcLayout, dst, dstLayout, slices.Clone(regions)})
}

func (d *Device) CmdBlitImage(cb native.CommandBuffer, src native.Image, srcLayout vk.ImageLayout, dst native.Image, dstLayout vk.ImageLayout, regions []vk.ImageBlit, filter vk.Filter) {
	d.record(cb, "BlitImage", BlitImageArgs{src, srcLayout, dst, dstLayout, slices.Clone(regions), filter})
}

func (d *Device) CmdCopyBufferToImage(cb native.CommandBuffer, src native.Buffer, dst native.Image, dstLayout vk.ImageLayout, regions []vk.BufferImageCopy) {
	d.record(cb, "CopyBufferToImage", BufferImageCopyArgs{src, dst, dstLayout, slices.Clone(regions)})
}

func (d *Device) CmdCopyImageToBuffer(cb native.CommandBuffer, src native.Image, srcLayout vk.ImageLayout, dst native.Buffer, regions []vk.BufferImageCopy) {
	d.record(cb, "CopyImageToBuffer", BufferImageCopyArgs{dst, src, srcLayout, slices.Clone(regions)})
}

func (d *Device) CmdUpdateBuffer(cb native.CommandBuffer, dst native.Buffer, offset uint64, data []byte) {
	d.record(cb, "UpdateBuffer", UpdateBufferArgs{dst, offset, slices.Clone(data)})
}

func (d *Device) CmdFillBuffer(cb native.CommandBuffer, dst native.Buffer, offset, size uint64, data uint32) {
	d.record(cb, "FillBuffer", FillBufferArgs{dst, offset, size, data})
}

func (d *Device) CmdClearColorImage(cb native.CommandBuffer, image native.Image, layout vk.ImageLayout, color vk.ClearColorValue, ranges []vk.ImageSubresourceRange) {
	d.record(cb, "ClearColorImage", ClearColorImageArgs{image, layout, color, slices.Clone(ranges)})
}

func (d *Device) CmdClearDepthStencilImage(cb native.CommandBuffer, image native.Image, layout vk.ImageLayout, value vk.ClearDepthStencilValue, ranges []vk.ImageSubresourceRange) {
	d.record(cb, "ClearDepthStencilImage", ClearDepthStencilImageArgs{image, layout, value, slices.Clone(ranges)})
}

func (d *Device) CmdClearAttachments(cb native.CommandBuffer, attachments []vk.ClearAttachment, rects []vk.ClearRect) {
	d.record(cb, "ClearAttachments", ClearAttachmentsArgs{slices.Clone(attachments), slices.Clone(rects)})
}

func (d *Device) CmdResolveImage(cb native.CommandBuffer, src native.Image, srcLayout vk.ImageLayout, dst native.Image, dstLayout vk.ImageLayout, regions []vk.ImageResolve) {
	d.record(cb, "ResolveImage", ResolveImageArgs{src, srcLayout, dst, dstLayout, slices.Clone(regions)})
}

func (d *Device) CmdSetEvent(cb native.CommandBuffer, event native.Event, stages vk.PipelineStageFlags) {
	d.record(cb, "SetEvent", EventArgs{event, stages})
}

func (d *Device) CmdResetEvent(cb native.CommandBuffer, event native.Event, stages vk.PipelineStageFlags) {
	d.record(cb, "ResetEvent", EventArgs{event, stages})
}

func (d *Device) CmdResetQueryPool(cb native.CommandBuffer, pool native.QueryPool, first, count uint32) {
	d.record(cb, "ResetQueryPool", QueryArgs{Pool: pool, First: first, Count: count})
}

func (d *Device) CmdBeginQuery(cb native.CommandBuffer, pool native.QueryPool, query uint32, flags vk.QueryControlFlags) {
	d.record(cb, "BeginQuery", QueryArgs{Pool: pool, First: query, Count: 1, Flags: flags})
}

func (d *Device) CmdEndQuery(cb native.CommandBuffer, pool native.QueryPool, query uint32) {
	d.record(cb, "EndQuery", QueryArgs{Pool: pool, First: query, Count: 1})
}

func (d *Device) CmdWriteTimestamp(cb native.CommandBuffer, stage vk.PipelineStageFlags, pool native.QueryPool, query uint32) {
	d.record(cb, "WriteTimestamp", QueryArgs{Pool: pool, First: query, Count: 1, Stage: stage})
}

/*
Barriers returns every pipeline barrier recorded into cb, in order.
*/
func (d *Device) Barriers(cb native.CommandBuffer) []native.PipelineBarrier {
	var ret []native.PipelineBarrier
	for _, c := range d.Calls(cb) {
		if b, ok := c.Args.(native.PipelineBarrier); ok {
			ret = append(ret, b)
		}
	}
	return ret
}
