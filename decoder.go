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
	"goarrg.com/debug"
	"goarrg.com/rhi/vez/internal/stream"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
decoder replays a recorded stream into a native command buffer. Before every
token it emits, in order, the barriers, pipeline binds and descriptor set binds
scheduled at the token's position.
*/
type decoder struct {
	cb     *CommandBuffer
	native native.Device
	handle native.CommandBuffer
	s      *stream.Stream

	records  int
	pipeline int
	sets     int
}

func (cb *CommandBuffer) decode() error {
	dec := decoder{cb: cb, native: cb.device.native, handle: cb.handle, s: cb.stream}
	cb.stream.Seek(0)
	for cb.stream.Remaining() > 0 {
		pos := cb.stream.ReadPos()
		dec.flushBarriers(pos)
		if err := dec.bindPipelines(pos); err != nil {
			return err
		}
		dec.bindSets(pos)

		id, err := stream.Get[cmdID](cb.stream)
		if err != nil {
			return err
		}
		if id >= cmdCount {
			return debug.Errorf("Unknown command token %d at %d", id, pos)
		}
		if err := decoders[id](&dec); err != nil {
			return debug.ErrorWrapf(err, "Failed to decode %s at %d", id, pos)
		}
	}
	dec.flushBarriers(cb.stream.Tell())
	return nil
}

func (dec *decoder) flushBarriers(pos int) {
	records := dec.cb.tracker.records
	for ; dec.records < len(records) && records[dec.records].pos <= pos; dec.records++ {
		dec.native.CmdPipelineBarrier(dec.handle, records[dec.records].barrier)
	}
}

func (dec *decoder) bindPipelines(pos int) error {
	binds := dec.cb.pipelineBinds
	for ; dec.pipeline < len(binds) && binds[dec.pipeline].pos <= pos; dec.pipeline++ {
		b := binds[dec.pipeline]
		if b.handle == 0 {
			return debug.Errorf("Pipeline bound at %d was never baked", b.pos)
		}
		dec.native.CmdBindPipeline(dec.handle, b.bindPoint, b.handle)
	}
	return nil
}

func (dec *decoder) bindSets(pos int) {
	binds := dec.cb.setBinds
	for ; dec.sets < len(binds) && binds[dec.sets].pos <= pos; dec.sets++ {
		b := binds[dec.sets]
		dec.native.CmdBindDescriptorSets(dec.handle, b.bindPoint, b.layout, b.set, []native.DescriptorSet{b.handle})
	}
}

func decodePayload[T any](dec *decoder) (T, error) {
	return stream.Get[T](dec.s)
}

/*
aspectMask returns the aspects of the image behind h, used for regions
recorded with a zero aspect mask.
*/
func (dec *decoder) aspectMask(h native.Image) (vk.ImageAspectFlags, error) {
	img, ok := dec.cb.device.images.lookup(h)
	if !ok {
		return 0, debug.Errorf("Unknown image %s", toHex(h))
	}
	return img.info.Format.AspectMask(), nil
}

func (dec *decoder) fixLayers(h native.Image, layers ...*vk.ImageSubresourceLayers) error {
	for _, l := range layers {
		if l.AspectMask != 0 {
			continue
		}
		mask, err := dec.aspectMask(h)
		if err != nil {
			return err
		}
		l.AspectMask = mask
	}
	return nil
}

func (dec *decoder) fixRanges(h native.Image, ranges []vk.ImageSubresourceRange) error {
	for i := range ranges {
		if ranges[i].AspectMask != 0 {
			continue
		}
		mask, err := dec.aspectMask(h)
		if err != nil {
			return err
		}
		ranges[i].AspectMask = mask
	}
	return nil
}

var decoders = [cmdCount]func(dec *decoder) error{
	cmdBeginRenderPass: func(dec *decoder) error {
		c, err := decodePayload[beginRenderPassCmd](dec)
		if err != nil {
			return err
		}
		if int(c.desc) >= len(dec.cb.renderPasses) {
			return debug.Errorf("Render pass %d out of range", c.desc)
		}
		desc := dec.cb.renderPasses[c.desc]
		if desc.rp == nil {
			return debug.Errorf("Render pass %d was never ended", c.desc)
		}
		fb, err := desc.framebuffer.native(desc.rp)
		if err != nil {
			return err
		}
		dec.native.CmdBeginRenderPass(dec.handle, native.RenderPassBeginInfo{
			RenderPass:  desc.rp.handle,
			Framebuffer: fb,
			RenderArea:  desc.renderArea,
			ClearValues: desc.clearValues(),
		})
		return nil
	},
	cmdNextSubpass: func(dec *decoder) error {
		dec.native.CmdNextSubpass(dec.handle)
		return nil
	},
	cmdEndRenderPass: func(dec *decoder) error {
		dec.native.CmdEndRenderPass(dec.handle)
		return nil
	},
	cmdBindPipeline: func(dec *decoder) error {
		// the native bind is scheduled at the next draw or dispatch
		_, err := decodePayload[bindPipelineCmd](dec)
		return err
	},
	cmdPushConstants: func(dec *decoder) error {
		c, err := decodePayload[pushConstantsCmd](dec)
		if err != nil {
			return err
		}
		data, err := stream.GetSlice[byte](dec.s)
		if err != nil {
			return err
		}
		dec.native.CmdPushConstants(dec.handle, c.layout, c.stages, c.offset, data)
		return nil
	},
	cmdBindVertexBuffers: func(dec *decoder) error {
		c, err := decodePayload[bindVertexBuffersCmd](dec)
		if err != nil {
			return err
		}
		buffers, err := stream.GetSlice[native.Buffer](dec.s)
		if err != nil {
			return err
		}
		offsets, err := stream.GetSlice[uint64](dec.s)
		if err != nil {
			return err
		}
		dec.native.CmdBindVertexBuffers(dec.handle, c.first, buffers, offsets)
		return nil
	},
	cmdBindIndexBuffer: func(dec *decoder) error {
		c, err := decodePayload[bindIndexBufferCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdBindIndexBuffer(dec.handle, c.buffer, c.offset, c.indexType)
		return nil
	},
	cmdSetViewport: func(dec *decoder) error {
		c, err := decodePayload[firstCmd](dec)
		if err != nil {
			return err
		}
		viewports, err := stream.GetSlice[vk.Viewport](dec.s)
		if err != nil {
			return err
		}
		dec.native.CmdSetViewport(dec.handle, c.first, viewports)
		return nil
	},
	cmdSetScissor: func(dec *decoder) error {
		c, err := decodePayload[firstCmd](dec)
		if err != nil {
			return err
		}
		scissors, err := stream.GetSlice[vk.Rect2D](dec.s)
		if err != nil {
			return err
		}
		dec.native.CmdSetScissor(dec.handle, c.first, scissors)
		return nil
	},
	cmdSetLineWidth: func(dec *decoder) error {
		w, err := decodePayload[float32](dec)
		if err != nil {
			return err
		}
		dec.native.CmdSetLineWidth(dec.handle, w)
		return nil
	},
	cmdSetDepthBias: func(dec *decoder) error {
		c, err := decodePayload[depthBiasCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdSetDepthBias(dec.handle, c.constantFactor, c.clamp, c.slopeFactor)
		return nil
	},
	cmdSetBlendConstants: func(dec *decoder) error {
		c, err := decodePayload[[4]float32](dec)
		if err != nil {
			return err
		}
		dec.native.CmdSetBlendConstants(dec.handle, c)
		return nil
	},
	cmdSetDepthBounds: func(dec *decoder) error {
		c, err := decodePayload[depthBoundsCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdSetDepthBounds(dec.handle, c.min, c.max)
		return nil
	},
	cmdSetStencilCompareMask: func(dec *decoder) error {
		c, err := decodePayload[stencilCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdSetStencilCompareMask(dec.handle, c.faces, c.value)
		return nil
	},
	cmdSetStencilWriteMask: func(dec *decoder) error {
		c, err := decodePayload[stencilCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdSetStencilWriteMask(dec.handle, c.faces, c.value)
		return nil
	},
	cmdSetStencilReference: func(dec *decoder) error {
		c, err := decodePayload[stencilCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdSetStencilReference(dec.handle, c.faces, c.value)
		return nil
	},
	cmdDraw: func(dec *decoder) error {
		c, err := decodePayload[drawCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdDraw(dec.handle, c.vertexCount, c.instanceCount, c.firstVertex, c.firstInstance)
		return nil
	},
	cmdDrawIndexed: func(dec *decoder) error {
		c, err := decodePayload[drawIndexedCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdDrawIndexed(dec.handle, c.indexCount, c.instanceCount, c.firstIndex, c.vertexOffset, c.firstInstance)
		return nil
	},
	cmdDrawIndirect: func(dec *decoder) error {
		c, err := decodePayload[drawIndirectCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdDrawIndirect(dec.handle, c.buffer, c.offset, c.drawCount, c.stride)
		return nil
	},
	cmdDrawIndexedIndirect: func(dec *decoder) error {
		c, err := decodePayload[drawIndirectCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdDrawIndexedIndirect(dec.handle, c.buffer, c.offset, c.drawCount, c.stride)
		return nil
	},
	cmdDispatch: func(dec *decoder) error {
		c, err := decodePayload[dispatchCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdDispatch(dec.handle, c.x, c.y, c.z)
		return nil
	},
	cmdDispatchIndirect: func(dec *decoder) error {
		c, err := decodePayload[dispatchIndirectCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdDispatchIndirect(dec.handle, c.buffer, c.offset)
		return nil
	},
	cmdCopyBuffer: func(dec *decoder) error {
		c, err := decodePayload[copyBufferCmd](dec)
		if err != nil {
			return err
		}
		regions, err := stream.GetSlice[vk.BufferCopy](dec.s)
		if err != nil {
			return err
		}
		dec.native.CmdCopyBuffer(dec.handle, c.src, c.dst, regions)
		return nil
	},
	cmdCopyImage: func(dec *decoder) error {
		c, err := decodePayload[imageToImageCmd](dec)
		if err != nil {
			return err
		}
		regions, err := stream.GetSlice[vk.ImageCopy](dec.s)
		if err != nil {
			return err
		}
		for i := range regions {
			if err := dec.fixLayers(c.src, &regions[i].SrcSubresource); err != nil {
				return err
			}
			if err := dec.fixLayers(c.dst, &regions[i].DstSubresource); err != nil {
				return err
			}
		}
		dec.native.CmdCopyImage(dec.handle, c.src, c.srcLayout, c.dst, c.dstLayout, regions)
		return nil
	},
	cmdBlitImage: func(dec *decoder) error {
		c, err := decodePayload[imageToImageCmd](dec)
		if err != nil {
			return err
		}
		regions, err := stream.GetSlice[vk.ImageBlit](dec.s)
		if err != nil {
			return err
		}
		for i := range regions {
			if err := dec.fixLayers(c.src, &regions[i].SrcSubresource); err != nil {
				return err
			}
			if err := dec.fixLayers(c.dst, &regions[i].DstSubresource); err != nil {
				return err
			}
		}
		dec.native.CmdBlitImage(dec.handle, c.src, c.srcLayout, c.dst, c.dstLayout, regions, c.filter)
		return nil
	},
	cmdCopyBufferToImage: func(dec *decoder) error {
		c, err := decodePayload[bufferImageCmd](dec)
		if err != nil {
			return err
		}
		regions, err := stream.GetSlice[vk.BufferImageCopy](dec.s)
		if err != nil {
			return err
		}
		for i := range regions {
			if err := dec.fixLayers(c.image, &regions[i].ImageSubresource); err != nil {
				return err
			}
		}
		dec.native.CmdCopyBufferToImage(dec.handle, c.buffer, c.image, c.layout, regions)
		return nil
	},
	cmdCopyImageToBuffer: func(dec *decoder) error {
		c, err := decodePayload[bufferImageCmd](dec)
		if err != nil {
			return err
		}
		regions, err := stream.GetSlice[vk.BufferImageCopy](dec.s)
		if err != nil {
			return err
		}
		for i := range regions {
			if err := dec.fixLayers(c.image, &regions[i].ImageSubresource); err != nil {
				return err
			}
		}
		dec.native.CmdCopyImageToBuffer(dec.handle, c.image, c.layout, c.buffer, regions)
		return nil
	},
	cmdUpdateBuffer: func(dec *decoder) error {
		c, err := decodePayload[updateBufferCmd](dec)
		if err != nil {
			return err
		}
		data, err := stream.GetSlice[byte](dec.s)
		if err != nil {
			return err
		}
		dec.native.CmdUpdateBuffer(dec.handle, c.dst, c.offset, data)
		return nil
	},
	cmdFillBuffer: func(dec *decoder) error {
		c, err := decodePayload[fillBufferCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdFillBuffer(dec.handle, c.dst, c.offset, c.size, c.data)
		return nil
	},
	cmdClearColorImage: func(dec *decoder) error {
		c, err := decodePayload[clearColorImageCmd](dec)
		if err != nil {
			return err
		}
		ranges, err := stream.GetSlice[vk.ImageSubresourceRange](dec.s)
		if err != nil {
			return err
		}
		if err := dec.fixRanges(c.image, ranges); err != nil {
			return err
		}
		dec.native.CmdClearColorImage(dec.handle, c.image, c.layout, c.color, ranges)
		return nil
	},
	cmdClearDepthStencilImage: func(dec *decoder) error {
		c, err := decodePayload[clearDepthStencilImageCmd](dec)
		if err != nil {
			return err
		}
		ranges, err := stream.GetSlice[vk.ImageSubresourceRange](dec.s)
		if err != nil {
			return err
		}
		if err := dec.fixRanges(c.image, ranges); err != nil {
			return err
		}
		dec.native.CmdClearDepthStencilImage(dec.handle, c.image, c.layout, c.value, ranges)
		return nil
	},
	cmdClearAttachments: func(dec *decoder) error {
		attachments, err := stream.GetSlice[vk.ClearAttachment](dec.s)
		if err != nil {
			return err
		}
		rects, err := stream.GetSlice[vk.ClearRect](dec.s)
		if err != nil {
			return err
		}
		dec.native.CmdClearAttachments(dec.handle, attachments, rects)
		return nil
	},
	cmdResolveImage: func(dec *decoder) error {
		c, err := decodePayload[imageToImageCmd](dec)
		if err != nil {
			return err
		}
		regions, err := stream.GetSlice[vk.ImageResolve](dec.s)
		if err != nil {
			return err
		}
		for i := range regions {
			if err := dec.fixLayers(c.src, &regions[i].SrcSubresource); err != nil {
				return err
			}
			if err := dec.fixLayers(c.dst, &regions[i].DstSubresource); err != nil {
				return err
			}
		}
		dec.native.CmdResolveImage(dec.handle, c.src, c.srcLayout, c.dst, c.dstLayout, regions)
		return nil
	},
	cmdSetEvent: func(dec *decoder) error {
		c, err := decodePayload[eventCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdSetEvent(dec.handle, c.event, c.stages)
		return nil
	},
	cmdResetEvent: func(dec *decoder) error {
		c, err := decodePayload[eventCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdResetEvent(dec.handle, c.event, c.stages)
		return nil
	},
	cmdResetQueryPool: func(dec *decoder) error {
		c, err := decodePayload[queryPoolCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdResetQueryPool(dec.handle, c.pool, c.first, c.count)
		return nil
	},
	cmdBeginQuery: func(dec *decoder) error {
		c, err := decodePayload[queryPoolCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdBeginQuery(dec.handle, c.pool, c.first, c.flags)
		return nil
	},
	cmdEndQuery: func(dec *decoder) error {
		c, err := decodePayload[queryPoolCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdEndQuery(dec.handle, c.pool, c.first)
		return nil
	},
	cmdWriteTimestamp: func(dec *decoder) error {
		c, err := decodePayload[queryPoolCmd](dec)
		if err != nil {
			return err
		}
		dec.native.CmdWriteTimestamp(dec.handle, c.stage, c.pool, c.first)
		return nil
	},
}
