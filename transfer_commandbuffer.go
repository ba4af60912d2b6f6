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
	"goarrg.com/rhi/vez/vk"
)

const maxUpdateBufferSize = 65536

func (cb *CommandBuffer) validBuffer(b *Buffer, offset, size uint64) bool {
	if b == nil {
		cb.fail(ErrorBadArgument)
		return false
	}
	b.noCopy.Check()
	if size == 0 || offset >= b.info.Size || size > b.info.Size-offset {
		instance.logger.WPrintf("Trying to access [%d, +%d) of buffer %s with size %d", offset, size, toHex(b.handle), b.info.Size)
		cb.fail(ErrorBadArgument)
		return false
	}
	return true
}

func (cb *CommandBuffer) validImage(img *Image, l vk.ImageSubresourceLayers) bool {
	if img == nil {
		cb.fail(ErrorBadArgument)
		return false
	}
	img.noCopy.Check()
	if l.MipLevel >= img.info.MipLevels || l.LayerCount == 0 || l.BaseArrayLayer+l.LayerCount > img.info.ArrayLayers {
		instance.logger.WPrintf("Trying to access mip %d layers [%d, +%d) of image %s with %d mips and %d layers",
			l.MipLevel, l.BaseArrayLayer, l.LayerCount, toHex(img.handle), img.info.MipLevels, img.info.ArrayLayers)
		cb.fail(ErrorBadArgument)
		return false
	}
	return true
}

/*
transferImages tracks a transfer from src to dst and returns their layouts,
an image that is both source and destination stays in the general layout.
*/
func (cb *CommandBuffer) transferImages(src, dst *Image, discard bool) (vk.ImageLayout, vk.ImageLayout) {
	pos := cb.stream.Tell()
	if src == dst {
		cb.tracker.image(src, pos, vk.PipelineStageTransferBit, vk.AccessTransferReadBit|vk.AccessTransferWriteBit,
			vk.ImageLayoutGeneral, false)
		return vk.ImageLayoutGeneral, vk.ImageLayoutGeneral
	}
	cb.tracker.image(src, pos, vk.PipelineStageTransferBit, vk.AccessTransferReadBit, vk.ImageLayoutTransferSrcOptimal, false)
	cb.tracker.image(dst, pos, vk.PipelineStageTransferBit, vk.AccessTransferWriteBit, vk.ImageLayoutTransferDstOptimal, discard)
	return vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutTransferDstOptimal
}

func (cb *CommandBuffer) transferBuffers(src, dst *Buffer) {
	pos := cb.stream.Tell()
	if src == dst {
		cb.tracker.buffer(src, pos, vk.PipelineStageTransferBit, vk.AccessTransferReadBit|vk.AccessTransferWriteBit)
		return
	}
	if src != nil {
		cb.tracker.buffer(src, pos, vk.PipelineStageTransferBit, vk.AccessTransferReadBit)
	}
	if dst != nil {
		cb.tracker.buffer(dst, pos, vk.PipelineStageTransferBit, vk.AccessTransferWriteBit)
	}
}

func (cb *CommandBuffer) CopyBuffer(src, dst *Buffer, regions []vk.BufferCopy) {
	if !cb.outsideRenderPass("CopyBuffer") {
		return
	}
	if len(regions) == 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	for _, r := range regions {
		if !cb.validBuffer(src, r.SrcOffset, r.Size) || !cb.validBuffer(dst, r.DstOffset, r.Size) {
			return
		}
	}
	cb.transferBuffers(src, dst)
	cb.put(cmdCopyBuffer)
	stream.Put(cb.stream, copyBufferCmd{src: src.handle, dst: dst.handle})
	stream.PutSlice(cb.stream, regions)
}

func (cb *CommandBuffer) CopyImage(src, dst *Image, regions []vk.ImageCopy) {
	cb.copyImage(src, dst, regions, false)
}

func (cb *CommandBuffer) copyImage(src, dst *Image, regions []vk.ImageCopy, discard bool) {
	if !cb.outsideRenderPass("CopyImage") {
		return
	}
	if len(regions) == 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	for _, r := range regions {
		if !cb.validImage(src, r.SrcSubresource) || !cb.validImage(dst, r.DstSubresource) {
			return
		}
	}
	srcLayout, dstLayout := cb.transferImages(src, dst, discard)
	cb.put(cmdCopyImage)
	stream.Put(cb.stream, imageToImageCmd{src: src.handle, srcLayout: srcLayout, dst: dst.handle, dstLayout: dstLayout})
	stream.PutSlice(cb.stream, regions)
}

func (cb *CommandBuffer) BlitImage(src, dst *Image, regions []vk.ImageBlit, filter vk.Filter) {
	cb.blitImage(src, dst, regions, filter, false)
}

func (cb *CommandBuffer) blitImage(src, dst *Image, regions []vk.ImageBlit, filter vk.Filter, discard bool) {
	if !cb.outsideRenderPass("BlitImage") {
		return
	}
	if len(regions) == 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	for _, r := range regions {
		if !cb.validImage(src, r.SrcSubresource) || !cb.validImage(dst, r.DstSubresource) {
			return
		}
	}
	srcLayout, dstLayout := cb.transferImages(src, dst, discard)
	cb.put(cmdBlitImage)
	stream.Put(cb.stream, imageToImageCmd{src: src.handle, srcLayout: srcLayout, dst: dst.handle, dstLayout: dstLayout, filter: filter})
	stream.PutSlice(cb.stream, regions)
}

/*
ResolveImage resolves the multisampled src into the single sampled dst.
*/
func (cb *CommandBuffer) ResolveImage(src, dst *Image, regions []vk.ImageResolve) {
	cb.resolveImage(src, dst, regions, false)
}

func (cb *CommandBuffer) resolveImage(src, dst *Image, regions []vk.ImageResolve, discard bool) {
	if !cb.outsideRenderPass("ResolveImage") {
		return
	}
	if len(regions) == 0 || src == dst {
		cb.fail(ErrorBadArgument)
		return
	}
	for _, r := range regions {
		if !cb.validImage(src, r.SrcSubresource) || !cb.validImage(dst, r.DstSubresource) {
			return
		}
	}
	if src.info.Samples <= vk.SampleCount1Bit || dst.info.Samples > vk.SampleCount1Bit {
		instance.logger.WPrintf("Trying to resolve image %s with %d samples into image %s with %d samples",
			toHex(src.handle), src.info.Samples, toHex(dst.handle), dst.info.Samples)
		cb.fail(ErrorBadArgument)
		return
	}
	srcLayout, dstLayout := cb.transferImages(src, dst, discard)
	cb.put(cmdResolveImage)
	stream.Put(cb.stream, imageToImageCmd{src: src.handle, srcLayout: srcLayout, dst: dst.handle, dstLayout: dstLayout})
	stream.PutSlice(cb.stream, regions)
}

func (cb *CommandBuffer) CopyBufferToImage(src *Buffer, dst *Image, regions []vk.BufferImageCopy) {
	if !cb.outsideRenderPass("CopyBufferToImage") {
		return
	}
	if !cb.validBufferImage(src, dst, regions) {
		return
	}
	cb.transferBuffers(src, nil)
	cb.tracker.image(dst, cb.stream.Tell(), vk.PipelineStageTransferBit, vk.AccessTransferWriteBit, vk.ImageLayoutTransferDstOptimal, false)
	cb.put(cmdCopyBufferToImage)
	stream.Put(cb.stream, bufferImageCmd{buffer: src.handle, image: dst.handle, layout: vk.ImageLayoutTransferDstOptimal})
	stream.PutSlice(cb.stream, regions)
}

func (cb *CommandBuffer) CopyImageToBuffer(src *Image, dst *Buffer, regions []vk.BufferImageCopy) {
	if !cb.outsideRenderPass("CopyImageToBuffer") {
		return
	}
	if !cb.validBufferImage(dst, src, regions) {
		return
	}
	cb.tracker.image(src, cb.stream.Tell(), vk.PipelineStageTransferBit, vk.AccessTransferReadBit, vk.ImageLayoutTransferSrcOptimal, false)
	cb.transferBuffers(nil, dst)
	cb.put(cmdCopyImageToBuffer)
	stream.Put(cb.stream, bufferImageCmd{buffer: dst.handle, image: src.handle, layout: vk.ImageLayoutTransferSrcOptimal})
	stream.PutSlice(cb.stream, regions)
}

func (cb *CommandBuffer) validBufferImage(b *Buffer, img *Image, regions []vk.BufferImageCopy) bool {
	if len(regions) == 0 || b == nil {
		cb.fail(ErrorBadArgument)
		return false
	}
	b.noCopy.Check()
	for _, r := range regions {
		if !cb.validImage(img, r.ImageSubresource) {
			return false
		}
		if r.BufferOffset >= b.info.Size {
			instance.logger.WPrintf("Trying to copy at offset %d of buffer %s with size %d", r.BufferOffset, toHex(b.handle), b.info.Size)
			cb.fail(ErrorBadArgument)
			return false
		}
	}
	return true
}

/*
UpdateBuffer writes data inline in the command buffer, len(data) and offset
must be multiples of 4 and data at most 65536 bytes.
*/
func (cb *CommandBuffer) UpdateBuffer(dst *Buffer, offset uint64, data []byte) {
	if !cb.outsideRenderPass("UpdateBuffer") {
		return
	}
	if len(data) > maxUpdateBufferSize || len(data)%4 != 0 || offset%4 != 0 {
		instance.logger.WPrintf("Trying to update %d bytes at offset %d, both must be multiples of 4 and the size at most %d",
			len(data), offset, maxUpdateBufferSize)
		cb.fail(ErrorBadArgument)
		return
	}
	if !cb.validBuffer(dst, offset, uint64(len(data))) {
		return
	}
	cb.transferBuffers(nil, dst)
	cb.put(cmdUpdateBuffer)
	stream.Put(cb.stream, updateBufferCmd{dst: dst.handle, offset: offset})
	stream.PutBytes(cb.stream, data)
}

/*
FillBuffer writes data repeated over size bytes, a size of vk.WholeSize fills
up to the end of dst rounded down to a multiple of 4.
*/
func (cb *CommandBuffer) FillBuffer(dst *Buffer, offset, size uint64, data uint32) {
	if !cb.outsideRenderPass("FillBuffer") {
		return
	}
	if dst != nil && size == vk.WholeSize && offset < dst.info.Size {
		size = (dst.info.Size - offset) &^ 3
	}
	if offset%4 != 0 || size%4 != 0 {
		cb.fail(ErrorBadArgument)
		return
	}
	if !cb.validBuffer(dst, offset, size) {
		return
	}
	cb.transferBuffers(nil, dst)
	cb.put(cmdFillBuffer)
	stream.Put(cb.stream, fillBufferCmd{dst: dst.handle, offset: offset, size: size, data: data})
}

/*
ClearColorImage clears ranges of img, an empty ranges clears all of it.
*/
func (cb *CommandBuffer) ClearColorImage(img *Image, color vk.ClearColorValue, ranges []vk.ImageSubresourceRange) {
	layout, ranges, ok := cb.clearImage("ClearColorImage", img, ranges)
	if !ok {
		return
	}
	cb.put(cmdClearColorImage)
	stream.Put(cb.stream, clearColorImageCmd{image: img.handle, layout: layout, color: color})
	stream.PutSlice(cb.stream, ranges)
}

func (cb *CommandBuffer) ClearDepthStencilImage(img *Image, value vk.ClearDepthStencilValue, ranges []vk.ImageSubresourceRange) {
	if img != nil && !img.info.Format.IsDepthStencil() {
		cb.check("ClearDepthStencilImage")
		cb.fail(ErrorBadArgument)
		return
	}
	layout, ranges, ok := cb.clearImage("ClearDepthStencilImage", img, ranges)
	if !ok {
		return
	}
	cb.put(cmdClearDepthStencilImage)
	stream.Put(cb.stream, clearDepthStencilImageCmd{image: img.handle, layout: layout, value: value})
	stream.PutSlice(cb.stream, ranges)
}

func (cb *CommandBuffer) clearImage(name string, img *Image, ranges []vk.ImageSubresourceRange) (vk.ImageLayout, []vk.ImageSubresourceRange, bool) {
	if !cb.outsideRenderPass(name) {
		return 0, nil, false
	}
	if img == nil {
		cb.fail(ErrorBadArgument)
		return 0, nil, false
	}
	img.noCopy.Check()
	// a clear of the whole image does not need its contents
	discard := len(ranges) == 0
	if discard {
		ranges = []vk.ImageSubresourceRange{img.fullRange()}
	}
	cb.tracker.image(img, cb.stream.Tell(), vk.PipelineStageTransferBit, vk.AccessTransferWriteBit, vk.ImageLayoutTransferDstOptimal, discard)
	return vk.ImageLayoutTransferDstOptimal, ranges, true
}
