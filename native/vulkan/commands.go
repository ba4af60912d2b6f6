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
	"unsafe"

	vulkan "github.com/goki/vulkan"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

func (d *Device) cmd(cb native.CommandBuffer) vulkan.CommandBuffer {
	return d.commandBuffers.get(uint64(cb))
}

func (d *Device) CmdPipelineBarrier(cb native.CommandBuffer, barrier native.PipelineBarrier) {
	memory := make([]vulkan.MemoryBarrier, len(barrier.MemoryBarriers))
	for i, b := range barrier.MemoryBarriers {
		memory[i] = vulkan.MemoryBarrier{
			SType:         vulkan.StructureTypeMemoryBarrier,
			SrcAccessMask: vulkan.AccessFlags(b.SrcAccessMask),
			DstAccessMask: vulkan.AccessFlags(b.DstAccessMask),
		}
	}
	buffers := make([]vulkan.BufferMemoryBarrier, len(barrier.BufferBarriers))
	for i, b := range barrier.BufferBarriers {
		buffers[i] = vulkan.BufferMemoryBarrier{
			SType:               vulkan.StructureTypeBufferMemoryBarrier,
			SrcAccessMask:       vulkan.AccessFlags(b.SrcAccessMask),
			DstAccessMask:       vulkan.AccessFlags(b.DstAccessMask),
			SrcQueueFamilyIndex: b.SrcQueueFamilyIndex,
			DstQueueFamilyIndex: b.DstQueueFamilyIndex,
			Buffer:              d.buffers.get(uint64(b.Buffer)),
			Offset:              vulkan.DeviceSize(b.Offset),
			Size:                vulkan.DeviceSize(b.Size),
		}
	}
	images := make([]vulkan.ImageMemoryBarrier, len(barrier.ImageBarriers))
	for i, b := range barrier.ImageBarriers {
		images[i] = vulkan.ImageMemoryBarrier{
			SType:               vulkan.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       vulkan.AccessFlags(b.SrcAccessMask),
			DstAccessMask:       vulkan.AccessFlags(b.DstAccessMask),
			OldLayout:           vulkan.ImageLayout(b.OldLayout),
			NewLayout:           vulkan.ImageLayout(b.NewLayout),
			SrcQueueFamilyIndex: b.SrcQueueFamilyIndex,
			DstQueueFamilyIndex: b.DstQueueFamilyIndex,
			Image:               d.images.get(uint64(b.Image)),
			SubresourceRange:    subresourceRange(b.SubresourceRange),
		}
	}
	vulkan.CmdPipelineBarrier(d.cmd(cb),
		vulkan.PipelineStageFlags(barrier.SrcStageMask), vulkan.PipelineStageFlags(barrier.DstStageMask),
		vulkan.DependencyFlags(barrier.DependencyFlags),
		uint32(len(memory)), memory, uint32(len(buffers)), buffers, uint32(len(images)), images)
}

func (d *Device) CmdBeginRenderPass(cb native.CommandBuffer, info native.RenderPassBeginInfo) {
	clears := make([]vulkan.ClearValue, len(info.ClearValues))
	for i, c := range info.ClearValues {
		clears[i] = clearValue(c)
	}
	vulkan.CmdBeginRenderPass(d.cmd(cb), &vulkan.RenderPassBeginInfo{
		SType:           vulkan.StructureTypeRenderPassBeginInfo,
		RenderPass:      d.renderPasses.get(uint64(info.RenderPass)),
		Framebuffer:     d.framebuffers.get(uint64(info.Framebuffer)),
		RenderArea:      rect2D(info.RenderArea),
		ClearValueCount: uint32(len(clears)),
		PClearValues:    clears,
	}, vulkan.SubpassContentsInline)
}

func (d *Device) CmdNextSubpass(cb native.CommandBuffer) {
	vulkan.CmdNextSubpass(d.cmd(cb), vulkan.SubpassContentsInline)
}

func (d *Device) CmdEndRenderPass(cb native.CommandBuffer) {
	vulkan.CmdEndRenderPass(d.cmd(cb))
}

func (d *Device) CmdBindPipeline(cb native.CommandBuffer, bindPoint vk.PipelineBindPoint, pipeline native.Pipeline) {
	vulkan.CmdBindPipeline(d.cmd(cb), vulkan.PipelineBindPoint(bindPoint), d.pipelines.get(uint64(pipeline)))
}

func (d *Device) CmdBindDescriptorSets(cb native.CommandBuffer, bindPoint vk.PipelineBindPoint, layout native.PipelineLayout, firstSet uint32, sets []native.DescriptorSet) {
	if len(sets) == 0 {
		return
	}
	handles := make([]vulkan.DescriptorSet, len(sets))
	for i, s := range sets {
		handles[i] = d.descriptorSets.get(uint64(s))
	}
	vulkan.CmdBindDescriptorSets(d.cmd(cb), vulkan.PipelineBindPoint(bindPoint), d.pipelineLayouts.get(uint64(layout)),
		firstSet, uint32(len(handles)), handles, 0, nil)
}

func (d *Device) CmdPushConstants(cb native.CommandBuffer, layout native.PipelineLayout, stages vk.ShaderStageFlags, offset uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	vulkan.CmdPushConstants(d.cmd(cb), d.pipelineLayouts.get(uint64(layout)), vulkan.ShaderStageFlags(stages),
		offset, uint32(len(data)), unsafe.Pointer(unsafe.SliceData(data)))
}

func (d *Device) CmdBindVertexBuffers(cb native.CommandBuffer, firstBinding uint32, buffers []native.Buffer, offsets []uint64) {
	if len(buffers) == 0 {
		return
	}
	handles := make([]vulkan.Buffer, len(buffers))
	sizes := make([]vulkan.DeviceSize, len(buffers))
	for i, b := range buffers {
		handles[i] = d.buffers.get(uint64(b))
		if i < len(offsets) {
			sizes[i] = vulkan.DeviceSize(offsets[i])
		}
	}
	vulkan.CmdBindVertexBuffers(d.cmd(cb), firstBinding, uint32(len(handles)), handles, sizes)
}

func (d *Device) CmdBindIndexBuffer(cb native.CommandBuffer, buffer native.Buffer, offset uint64, indexType vk.IndexType) {
	vulkan.CmdBindIndexBuffer(d.cmd(cb), d.buffers.get(uint64(buffer)), vulkan.DeviceSize(offset), vulkan.IndexType(indexType))
}

func (d *Device) CmdSetViewport(cb native.CommandBuffer, first uint32, viewports []vk.Viewport) {
	out := make([]vulkan.Viewport, len(viewports))
	for i, v := range viewports {
		out[i] = vulkan.Viewport{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height, MinDepth: v.MinDepth, MaxDepth: v.MaxDepth}
	}
	vulkan.CmdSetViewport(d.cmd(cb), first, uint32(len(out)), out)
}

func (d *Device) CmdSetScissor(cb native.CommandBuffer, first uint32, scissors []vk.Rect2D) {
	out := make([]vulkan.Rect2D, len(scissors))
	for i, s := range scissors {
		out[i] = rect2D(s)
	}
	vulkan.CmdSetScissor(d.cmd(cb), first, uint32(len(out)), out)
}

func (d *Device) CmdSetLineWidth(cb native.CommandBuffer, width float32) {
	vulkan.CmdSetLineWidth(d.cmd(cb), width)
}

func (d *Device) CmdSetDepthBias(cb native.CommandBuffer, constantFactor, clamp, slopeFactor float32) {
	vulkan.CmdSetDepthBias(d.cmd(cb), constantFactor, clamp, slopeFactor)
}

func (d *Device) CmdSetBlendConstants(cb native.CommandBuffer, constants [4]float32) {
	vulkan.CmdSetBlendConstants(d.cmd(cb), &constants)
}

func (d *Device) CmdSetDepthBounds(cb native.CommandBuffer, minDepth, maxDepth float32) {
	vulkan.CmdSetDepthBounds(d.cmd(cb), minDepth, maxDepth)
}

func (d *Device) CmdSetStencilCompareMask(cb native.CommandBuffer, faces vk.StencilFaceFlags, mask uint32) {
	vulkan.CmdSetStencilCompareMask(d.cmd(cb), vulkan.StencilFaceFlags(faces), mask)
}

func (d *Device) CmdSetStencilWriteMask(cb native.CommandBuffer, faces vk.StencilFaceFlags, mask uint32) {
	vulkan.CmdSetStencilWriteMask(d.cmd(cb), vulkan.StencilFaceFlags(faces), mask)
}

func (d *Device) CmdSetStencilReference(cb native.CommandBuffer, faces vk.StencilFaceFlags, reference uint32) {
	vulkan.CmdSetStencilReference(d.cmd(cb), vulkan.StencilFaceFlags(faces), reference)
}

func (d *Device) CmdDraw(cb native.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vulkan.CmdDraw(d.cmd(cb), vertexCount, instanceCount, firstVertex, firstInstance)
}

func (d *Device) CmdDrawIndexed(cb native.CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	vulkan.CmdDrawIndexed(d.cmd(cb), indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func (d *Device) CmdDrawIndirect(cb native.CommandBuffer, buffer native.Buffer, offset uint64, drawCount, stride uint32) {
	vulkan.CmdDrawIndirect(d.cmd(cb), d.buffers.get(uint64(buffer)), vulkan.DeviceSize(offset), drawCount, stride)
}

func (d *Device) CmdDrawIndexedIndirect(cb native.CommandBuffer, buffer native.Buffer, offset uint64, drawCount, stride uint32) {
	vulkan.CmdDrawIndexedIndirect(d.cmd(cb), d.buffers.get(uint64(buffer)), vulkan.DeviceSize(offset), drawCount, stride)
}

func (d *Device) CmdDispatch(cb native.CommandBuffer, x, y, z uint32) {
	vulkan.CmdDispatch(d.cmd(cb), x, y, z)
}

func (d *Device) CmdDispatchIndirect(cb native.CommandBuffer, buffer native.Buffer, offset uint64) {
	vulkan.CmdDispatchIndirect(d.cmd(cb), d.buffers.get(uint64(buffer)), vulkan.DeviceSize(offset))
}

func (d *Device) CmdCopyBuffer(cb native.CommandBuffer, src, dst native.Buffer, regions []vk.BufferCopy) {
	out := make([]vulkan.BufferCopy, len(regions))
	for i, r := range regions {
		out[i] = vulkan.BufferCopy{
			SrcOffset: vulkan.DeviceSize(r.SrcOffset),
			DstOffset: vulkan.DeviceSize(r.DstOffset),
			Size:      vulkan.DeviceSize(r.Size),
		}
	}
	vulkan.CmdCopyBuffer(d.cmd(cb), d.buffers.get(uint64(src)), d.buffers.get(uint64(dst)), uint32(len(out)), out)
}

func (d *Device) CmdCopyImage(cb native.CommandBuffer, src native.Image, srcLayout vk.ImageLayout, dst native.Image, dstLayout vk.ImageLayout, regions []vk.ImageCopy) {
	out := make([]vulkan.ImageCopy, len(regions))
	for i, r := range regions {
		out[i] = vulkan.ImageCopy{
			SrcSubresource: subresourceLayers(r.SrcSubresource),
			SrcOffset:      offset3D(r.SrcOffset),
			DstSubresource: subresourceLayers(r.DstSubresource),
			DstOffset:      offset3D(r.DstOffset),
			Extent:         extent3D(r.Extent),
		}
	}
	vulkan.CmdCopyImage(d.cmd(cb), d.images.get(uint64(src)), vulkan.ImageLayout(srcLayout),
		d.images.get(uint64(dst)), vulkan.ImageLayout(dstLayout), uint32(len(out)), out)
}

func (d *Device) CmdBlitImage(cb native.CommandBuffer, src native.Image, srcLayout vk.ImageLayout, dst native.Image, dstLayout vk.ImageLayout, regions []vk.ImageBlit, filter vk.Filter) {
	out := make([]vulkan.ImageBlit, len(regions))
	for i, r := range regions {
		out[i] = vulkan.ImageBlit{
			SrcSubresource: subresourceLayers(r.SrcSubresource),
			SrcOffsets:     [2]vulkan.Offset3D{offset3D(r.SrcOffsets[0]), offset3D(r.SrcOffsets[1])},
			DstSubresource: subresourceLayers(r.DstSubresource),
			DstOffsets:     [2]vulkan.Offset3D{offset3D(r.DstOffsets[0]), offset3D(r.DstOffsets[1])},
		}
	}
	vulkan.CmdBlitImage(d.cmd(cb), d.images.get(uint64(src)), vulkan.ImageLayout(srcLayout),
		d.images.get(uint64(dst)), vulkan.ImageLayout(dstLayout), uint32(len(out)), out, vulkan.Filter(filter))
}

func bufferImageCopies(regions []vk.BufferImageCopy) []vulkan.BufferImageCopy {
	out := make([]vulkan.BufferImageCopy, len(regions))
	for i, r := range regions {
		out[i] = vulkan.BufferImageCopy{
			BufferOffset:      vulkan.DeviceSize(r.BufferOffset),
			BufferRowLength:   r.BufferRowLength,
			BufferImageHeight: r.BufferImageHeight,
			ImageSubresource:  subresourceLayers(r.ImageSubresource),
			ImageOffset:       offset3D(r.ImageOffset),
			ImageExtent:       extent3D(r.ImageExtent),
		}
	}
	return out
}

func (d *Device) CmdCopyBufferToImage(cb native.CommandBuffer, src native.Buffer, dst native.Image, dstLayout vk.ImageLayout, regions []vk.BufferImageCopy) {
	out := bufferImageCopies(regions)
	vulkan.CmdCopyBufferToImage(d.cmd(cb), d.buffers.get(uint64(src)), d.images.get(uint64(dst)),
		vulkan.ImageLayout(dstLayout), uint32(len(out)), out)
}

func (d *Device) CmdCopyImageToBuffer(cb native.CommandBuffer, src native.Image, srcLayout vk.ImageLayout, dst native.Buffer, regions []vk.BufferImageCopy) {
	out := bufferImageCopies(regions)
	vulkan.CmdCopyImageToBuffer(d.cmd(cb), d.images.get(uint64(src)), vulkan.ImageLayout(srcLayout),
		d.buffers.get(uint64(dst)), uint32(len(out)), out)
}

func (d *Device) CmdUpdateBuffer(cb native.CommandBuffer, dst native.Buffer, offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	vulkan.CmdUpdateBuffer(d.cmd(cb), d.buffers.get(uint64(dst)), vulkan.DeviceSize(offset),
		vulkan.DeviceSize(len(data)), (*uint32)(unsafe.Pointer(unsafe.SliceData(data))))
}

func (d *Device) CmdFillBuffer(cb native.CommandBuffer, dst native.Buffer, offset, size uint64, data uint32) {
	vulkan.CmdFillBuffer(d.cmd(cb), d.buffers.get(uint64(dst)), vulkan.DeviceSize(offset), vulkan.DeviceSize(size), data)
}

func subresourceRanges(ranges []vk.ImageSubresourceRange) []vulkan.ImageSubresourceRange {
	out := make([]vulkan.ImageSubresourceRange, len(ranges))
	for i, r := range ranges {
		out[i] = subresourceRange(r)
	}
	return out
}

func (d *Device) CmdClearColorImage(cb native.CommandBuffer, image native.Image, layout vk.ImageLayout, color vk.ClearColorValue, ranges []vk.ImageSubresourceRange) {
	value := clearColorValue(color)
	out := subresourceRanges(ranges)
	vulkan.CmdClearColorImage(d.cmd(cb), d.images.get(uint64(image)), vulkan.ImageLayout(layout), &value, uint32(len(out)), out)
}

func (d *Device) CmdClearDepthStencilImage(cb native.CommandBuffer, image native.Image, layout vk.ImageLayout, value vk.ClearDepthStencilValue, ranges []vk.ImageSubresourceRange) {
	out := subresourceRanges(ranges)
	vulkan.CmdClearDepthStencilImage(d.cmd(cb), d.images.get(uint64(image)), vulkan.ImageLayout(layout),
		&vulkan.ClearDepthStencilValue{Depth: value.Depth, Stencil: value.Stencil}, uint32(len(out)), out)
}

func (d *Device) CmdClearAttachments(cb native.CommandBuffer, attachments []vk.ClearAttachment, rects []vk.ClearRect) {
	clears := make([]vulkan.ClearAttachment, len(attachments))
	for i, a := range attachments {
		clears[i] = vulkan.ClearAttachment{
			AspectMask:      vulkan.ImageAspectFlags(a.AspectMask),
			ColorAttachment: a.ColorAttachment,
			ClearValue:      clearValue(a.ClearValue),
		}
	}
	out := make([]vulkan.ClearRect, len(rects))
	for i, r := range rects {
		out[i] = vulkan.ClearRect{Rect: rect2D(r.Rect), BaseArrayLayer: r.BaseArrayLayer, LayerCount: r.LayerCount}
	}
	vulkan.CmdClearAttachments(d.cmd(cb), uint32(len(clears)), clears, uint32(len(out)), out)
}

func (d *Device) CmdResolveImage(cb native.CommandBuffer, src native.Image, srcLayout vk.ImageLayout, dst native.Image, dstLayout vk.ImageLayout, regions []vk.ImageResolve) {
	out := make([]vulkan.ImageResolve, len(regions))
	for i, r := range regions {
		out[i] = vulkan.ImageResolve{
			SrcSubresource: subresourceLayers(r.SrcSubresource),
			SrcOffset:      offset3D(r.SrcOffset),
			DstSubresource: subresourceLayers(r.DstSubresource),
			DstOffset:      offset3D(r.DstOffset),
			Extent:         extent3D(r.Extent),
		}
	}
	vulkan.CmdResolveImage(d.cmd(cb), d.images.get(uint64(src)), vulkan.ImageLayout(srcLayout),
		d.images.get(uint64(dst)), vulkan.ImageLayout(dstLayout), uint32(len(out)), out)
}

func (d *Device) CmdSetEvent(cb native.CommandBuffer, event native.Event, stages vk.PipelineStageFlags) {
	vulkan.CmdSetEvent(d.cmd(cb), d.events.get(uint64(event)), vulkan.PipelineStageFlags(stages))
}

func (d *Device) CmdResetEvent(cb native.CommandBuffer, event native.Event, stages vk.PipelineStageFlags) {
	vulkan.CmdResetEvent(d.cmd(cb), d.events.get(uint64(event)), vulkan.PipelineStageFlags(stages))
}

func (d *Device) CmdResetQueryPool(cb native.CommandBuffer, pool native.QueryPool, first, count uint32) {
	vulkan.CmdResetQueryPool(d.cmd(cb), d.queryPools.get(uint64(pool)), first, count)
}

func (d *Device) CmdBeginQuery(cb native.CommandBuffer, pool native.QueryPool, query uint32, flags vk.QueryControlFlags) {
	vulkan.CmdBeginQuery(d.cmd(cb), d.queryPools.get(uint64(pool)), query, vulkan.QueryControlFlags(flags))
}

func (d *Device) CmdEndQuery(cb native.CommandBuffer, pool native.QueryPool, query uint32) {
	vulkan.CmdEndQuery(d.cmd(cb), d.queryPools.get(uint64(pool)), query)
}

func (d *Device) CmdWriteTimestamp(cb native.CommandBuffer, stage vk.PipelineStageFlags, pool native.QueryPool, query uint32) {
	vulkan.CmdWriteTimestamp(d.cmd(cb), vulkan.PipelineStageFlagBits(stage), d.queryPools.get(uint64(pool)), query)
}
