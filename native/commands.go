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

type MemoryBarrier struct {
	SrcAccessMask vk.AccessFlags
	DstAccessMask vk.AccessFlags
}

type BufferMemoryBarrier struct {
	SrcAccessMask       vk.AccessFlags
	DstAccessMask       vk.AccessFlags
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Buffer              Buffer
	Offset              uint64
	Size                uint64
}

type ImageMemoryBarrier struct {
	SrcAccessMask       vk.AccessFlags
	DstAccessMask       vk.AccessFlags
	OldLayout           vk.ImageLayout
	NewLayout           vk.ImageLayout
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Image               Image
	SubresourceRange    vk.ImageSubresourceRange
}

type PipelineBarrier struct {
	SrcStageMask    vk.PipelineStageFlags
	DstStageMask    vk.PipelineStageFlags
	DependencyFlags vk.DependencyFlags
	MemoryBarriers  []MemoryBarrier
	BufferBarriers  []BufferMemoryBarrier
	ImageBarriers   []ImageMemoryBarrier
}

type RenderPassBeginInfo struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  vk.Rect2D
	ClearValues []vk.ClearValue
}

/*
Commands records into a command buffer that is between BeginCommandBuffer and
EndCommandBuffer. Slices are only read for the duration of the call.
*/
type Commands interface {
	CmdPipelineBarrier(cb CommandBuffer, barrier PipelineBarrier)

	CmdBeginRenderPass(cb CommandBuffer, info RenderPassBeginInfo)
	CmdNextSubpass(cb CommandBuffer)
	CmdEndRenderPass(cb CommandBuffer)

	CmdBindPipeline(cb CommandBuffer, bindPoint vk.PipelineBindPoint, pipeline Pipeline)
	CmdBindDescriptorSets(cb CommandBuffer, bindPoint vk.PipelineBindPoint, layout PipelineLayout, firstSet uint32, sets []DescriptorSet)
	CmdPushConstants(cb CommandBuffer, layout PipelineLayout, stages vk.ShaderStageFlags, offset uint32, data []byte)
	CmdBindVertexBuffers(cb CommandBuffer, firstBinding uint32, buffers []Buffer, offsets []uint64)
	CmdBindIndexBuffer(cb CommandBuffer, buffer Buffer, offset uint64, indexType vk.IndexType)

	CmdSetViewport(cb CommandBuffer, first uint32, viewports []vk.Viewport)
	CmdSetScissor(cb CommandBuffer, first uint32, scissors []vk.Rect2D)
	CmdSetLineWidth(cb CommandBuffer, width float32)
	CmdSetDepthBias(cb CommandBuffer, constantFactor, clamp, slopeFactor float32)
	CmdSetBlendConstants(cb CommandBuffer, constants [4]float32)
	CmdSetDepthBounds(cb CommandBuffer, minDepth, maxDepth float32)
	CmdSetStencilCompareMask(cb CommandBuffer, faces vk.StencilFaceFlags, mask uint32)
	CmdSetStencilWriteMask(cb CommandBuffer, faces vk.StencilFaceFlags, mask uint32)
	CmdSetStencilReference(cb CommandBuffer, faces vk.StencilFaceFlags, reference uint32)

	CmdDraw(cb CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32)
	CmdDrawIndexed(cb CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	CmdDrawIndirect(cb CommandBuffer, buffer Buffer, offset uint64, drawCount, stride uint32)
	CmdDrawIndexedIndirect(cb CommandBuffer, buffer Buffer, offset uint64, drawCount, stride uint32)
	CmdDispatch(cb CommandBuffer, x, y, z uint32)
	CmdDispatchIndirect(cb CommandBuffer, buffer Buffer, offset uint64)

	CmdCopyBuffer(cb CommandBuffer, src, dst Buffer, regions []vk.BufferCopy)
	CmdCopyImage(cb CommandBuffer, src Image, srcLayout vk.ImageLayout, dst Image, dstLayout vk.ImageLayout, regions []vk.ImageCopy)
	CmdBlitImage(cb CommandBuffer, src Image, srcLayout vk.ImageLayout, dst Image, dstLayout vk.ImageLayout, regions []vk.ImageBlit, filter vk.Filter)
	CmdCopyBufferToImage(cb CommandBuffer, src Buffer, dst Image, dstLayout vk.ImageLayout, regions []vk.BufferImageCopy)
	CmdCopyImageToBuffer(cb CommandBuffer, src Image, srcLayout vk.ImageLayout, dst Buffer, regions []vk.BufferImageCopy)
	CmdUpdateBuffer(cb CommandBuffer, dst Buffer, offset uint64, data []byte)
	CmdFillBuffer(cb CommandBuffer, dst Buffer, offset, size uint64, data uint32)
	CmdClearColorImage(cb CommandBuffer, image Image, layout vk.ImageLayout, color vk.ClearColorValue, ranges []vk.ImageSubresourceRange)
	CmdClearDepthStencilImage(cb CommandBuffer, image Image, layout vk.ImageLayout, value vk.ClearDepthStencilValue, ranges []vk.ImageSubresourceRange)
	CmdClearAttachments(cb CommandBuffer, attachments []vk.ClearAttachment, rects []vk.ClearRect)
	CmdResolveImage(cb CommandBuffer, src Image, srcLayout vk.ImageLayout, dst Image, dstLayout vk.ImageLayout, regions []vk.ImageResolve)

	CmdSetEvent(cb CommandBuffer, event Event, stages vk.PipelineStageFlags)
	CmdResetEvent(cb CommandBuffer, event Event, stages vk.PipelineStageFlags)

	CmdResetQueryPool(cb CommandBuffer, pool QueryPool, first, count uint32)
	CmdBeginQuery(cb CommandBuffer, pool QueryPool, query uint32, flags vk.QueryControlFlags)
	CmdEndQuery(cb CommandBuffer, pool QueryPool, query uint32)
	CmdWriteTimestamp(cb CommandBuffer, stage vk.PipelineStageFlags, pool QueryPool, query uint32)
}
