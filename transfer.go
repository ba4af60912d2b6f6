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
	"sync"
	"sync/atomic"

	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/vk"
)

var _ util.HostWriter = (*stagingBuffer)(nil)

/*
stagingBuffer is the persistently mapped host visible buffer every host to
device transfer goes through. It is created on first use and held for the
whole transfer.
*/
type stagingBuffer struct {
	device *Device
	mtx    sync.Mutex
	buffer *Buffer
	mapped []byte
	// set while buffer exists, readable without mtx
	live atomic.Bool
}

func (s *stagingBuffer) lock() error {
	s.mtx.Lock()
	if s.buffer != nil {
		return nil
	}
	d := s.device
	b, err := d.CreateBuffer(MemoryCPUToGPU, BufferCreateInfo{
		Size:  d.config.StagingBufferSize,
		Usage: vk.BufferUsageTransferSrcBit,
	})
	if err != nil {
		s.mtx.Unlock()
		return err
	}
	m, err := d.MapBuffer(b, 0, vk.WholeSize)
	if err != nil {
		d.DestroyBuffer(b)
		s.mtx.Unlock()
		return err
	}
	s.buffer = b
	s.mapped = m
	s.live.Store(true)
	instance.logger.VPrintf("Created staging buffer %s of size %d", toHex(b.handle), len(m))
	return nil
}

func (s *stagingBuffer) unlock() {
	s.mtx.Unlock()
}

/*
flush makes the first size bytes visible to the device, widened to the non
coherent atom size.
*/
func (s *stagingBuffer) flush(size uint64) error {
	return s.device.FlushMappedBufferRanges([]MappedBufferRange{{Buffer: s.buffer, Offset: 0, Size: size}})
}

func (s *stagingBuffer) HostWrite(offset uintptr, data []byte) {
	copy(s.mapped[offset:], data)
}

func (s *stagingBuffer) destroy() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.buffer == nil {
		return
	}
	s.live.Store(false)
	s.device.DestroyBuffer(s.buffer)
	s.buffer = nil
	s.mapped = nil
}

/*
BufferSubData copies data into b at offset through the staging buffer, one
submission per staging sized window. The call blocks until the last window
has been copied.
*/
func (d *Device) BufferSubData(b *Buffer, offset uint64, data []byte) error {
	d.noCopy.Check()
	if b == nil {
		return ErrorBadArgument
	}
	b.noCopy.Check()
	size := uint64(len(data))
	if size == 0 {
		return nil
	}
	if offset+size > b.info.Size || offset+size < offset {
		instance.logger.WPrintf("Trying to write %d bytes at offset %d of buffer %s with size %d", size, offset, toHex(b.handle), b.info.Size)
		return ErrorBadArgument
	}
	if !hasBits(b.info.Usage, vk.BufferUsageTransferDstBit) {
		instance.logger.WPrintf("Buffer %s was not created with transfer dst usage", toHex(b.handle))
		return ErrorBadArgument
	}

	s := &d.staging
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	window := uint64(len(s.mapped))
	for done := uint64(0); done < size; {
		n := min(size-done, window)
		util.HostWriteSlice(s, 0, data[done:done+n])
		if err := s.flush(n); err != nil {
			return err
		}
		err := d.submitOneTime(func(cb *CommandBuffer) error {
			cb.CopyBuffer(s.buffer, b, []vk.BufferCopy{{SrcOffset: 0, DstOffset: offset + done, Size: n}})
			return nil
		})
		if err != nil {
			instance.logger.EPrintf("Failed to copy %d bytes to buffer %s: %s", n, toHex(b.handle), err)
			return err
		}
		instance.logger.VPrintf("Staged %d bytes into buffer %s at offset %d", n, toHex(b.handle), offset+done)
		done += n
	}
	return nil
}

/*
ImageSubDataInfo describes the region of an image written by ImageSubData.
DataRowLength and DataImageHeight are the source row length and slice height
in texels, zero means tightly packed to ImageExtent.
*/
type ImageSubDataInfo struct {
	DataRowLength    uint32
	DataImageHeight  uint32
	ImageSubresource vk.ImageSubresourceLayers
	ImageOffset      vk.Offset3D
	ImageExtent      vk.Extent3D
}

/*
imageWindow is the number of slices, block rows and block columns staged per
submission.
*/
type imageWindow struct {
	slices, rows, cols uint32
}

/*
imageLayout describes the source data of an image transfer in blocks, a block
is a single texel for uncompressed formats.
*/
type imageLayout struct {
	blockExtent vk.Extent3D
	blockSize   uint64

	// image region in blocks
	width, height, slices uint32
	// source strides in blocks
	rowLength, imageHeight uint32
	// source slices per layer
	depth uint32
}

func newImageLayout(format vk.Format, info ImageSubDataInfo) imageLayout {
	be := format.BlockExtent()
	be.Width = max(be.Width, 1)
	be.Height = max(be.Height, 1)
	rowLength := info.DataRowLength
	if rowLength == 0 {
		rowLength = info.ImageExtent.Width
	}
	imageHeight := info.DataImageHeight
	if imageHeight == 0 {
		imageHeight = info.ImageExtent.Height
	}
	return imageLayout{
		blockExtent: be,
		blockSize:   uint64(format.BlockSize()),
		width:       util.DivRoundUp(info.ImageExtent.Width, be.Width),
		height:      util.DivRoundUp(info.ImageExtent.Height, be.Height),
		slices:      info.ImageExtent.Depth * max(info.ImageSubresource.LayerCount, 1),
		rowLength:   util.DivRoundUp(rowLength, be.Width),
		imageHeight: util.DivRoundUp(imageHeight, be.Height),
		depth:       info.ImageExtent.Depth,
	}
}

/*
sourceOffset returns the byte offset of the block at (x, y) of slice s in the
source data.
*/
func (l imageLayout) sourceOffset(s, y, x uint32) uint64 {
	return ((uint64(s)*uint64(l.imageHeight)+uint64(y))*uint64(l.rowLength) + uint64(x)) * l.blockSize
}

/*
sourceSize returns the number of bytes the source data must hold.
*/
func (l imageLayout) sourceSize() uint64 {
	return l.sourceOffset(l.slices-1, l.height-1, l.width-1) + l.blockSize
}

/*
regionAlignment is the alignment of buffer offsets of copy regions, a multiple
of both the block size and 4.
*/
func (l imageLayout) regionAlignment() uint64 {
	a := l.blockSize
	for a%4 != 0 {
		a += l.blockSize
	}
	return a
}

/*
window picks the largest window that fits into capacity bytes: whole slices,
then whole rows, then columns.
*/
func (l imageLayout) window(capacity uint64) (imageWindow, bool) {
	align := l.regionAlignment()
	sliceStride := util.AlignUp(uint64(l.width)*uint64(l.height)*l.blockSize, align)
	if n := capacity / sliceStride; n > 0 {
		return imageWindow{slices: uint32(min(n, uint64(l.slices))), rows: l.height, cols: l.width}, true
	}
	rowSize := uint64(l.width) * l.blockSize
	if n := capacity / rowSize; n > 0 {
		return imageWindow{slices: 1, rows: uint32(min(n, uint64(l.height))), cols: l.width}, true
	}
	if n := capacity / l.blockSize; n > 0 {
		return imageWindow{slices: 1, rows: 1, cols: uint32(n)}, true
	}
	return imageWindow{}, false
}

func (d *Device) validImageSubData(img *Image, data []byte, info ImageSubDataInfo) error {
	format := img.info.Format
	if format.BlockSize() == 0 {
		return ErrorBadArgument
	}
	if format.HasDepth() && format.HasStencil() && info.ImageSubresource.AspectMask == 0 {
		instance.logger.WPrintf("Trying to write image %s with format %s without selecting an aspect", toHex(img.handle), format)
		return ErrorBadArgument
	}
	if !hasBits(img.info.Usage, vk.ImageUsageTransferDstBit) {
		instance.logger.WPrintf("Image %s was not created with transfer dst usage", toHex(img.handle))
		return ErrorBadArgument
	}
	sub := info.ImageSubresource
	if sub.MipLevel >= img.info.MipLevels || sub.BaseArrayLayer+max(sub.LayerCount, 1) > img.info.ArrayLayers {
		return ErrorBadArgument
	}
	e := info.ImageExtent
	if e.Width == 0 || e.Height == 0 || e.Depth == 0 || info.ImageOffset.X < 0 || info.ImageOffset.Y < 0 || info.ImageOffset.Z < 0 {
		return ErrorBadArgument
	}
	mip := vk.Extent3D{
		Width:  max(img.info.Extent.Width>>sub.MipLevel, 1),
		Height: max(img.info.Extent.Height>>sub.MipLevel, 1),
		Depth:  max(img.info.Extent.Depth>>sub.MipLevel, 1),
	}
	if uint32(info.ImageOffset.X)+e.Width > mip.Width || uint32(info.ImageOffset.Y)+e.Height > mip.Height ||
		uint32(info.ImageOffset.Z)+e.Depth > mip.Depth {
		instance.logger.WPrintf("Region %+v at %+v is outside of mip %d of image %s", e, info.ImageOffset, sub.MipLevel, toHex(img.handle))
		return ErrorBadArgument
	}
	if (info.DataRowLength != 0 && info.DataRowLength < e.Width) || (info.DataImageHeight != 0 && info.DataImageHeight < e.Height) {
		return ErrorBadArgument
	}
	if l := newImageLayout(format, info); uint64(len(data)) < l.sourceSize() {
		instance.logger.WPrintf("Trying to write image %s with %d bytes, expected %d", toHex(img.handle), len(data), l.sourceSize())
		return ErrorBadArgument
	}
	return nil
}

/*
ImageSubData copies data into a region of img through the staging buffer.
Compressed formats are transferred in whole blocks. The image is returned to
its default layout after every window and the call blocks until the last one
has been copied.
*/
func (d *Device) ImageSubData(img *Image, data []byte, info ImageSubDataInfo) error {
	d.noCopy.Check()
	if img == nil {
		return ErrorBadArgument
	}
	img.noCopy.Check()
	if err := d.validImageSubData(img, data, info); err != nil {
		return err
	}

	s := &d.staging
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	l := newImageLayout(img.info.Format, info)
	win, ok := l.window(uint64(len(s.mapped)))
	if !ok {
		return ErrorBadArgument
	}
	sub := info.ImageSubresource
	sub.LayerCount = 1
	align := l.regionAlignment()
	regions := make([]vk.BufferImageCopy, 0, win.slices)

	for s0 := uint32(0); s0 < l.slices; s0 += win.slices {
		for y0 := uint32(0); y0 < l.height; y0 += win.rows {
			for x0 := uint32(0); x0 < l.width; x0 += win.cols {
				regions = regions[:0]
				offset, end := uint64(0), uint64(0)
				rows := min(win.rows, l.height-y0)
				cols := min(win.cols, l.width-x0)
				rowSize := uint64(cols) * l.blockSize

				for slice := s0; slice < min(s0+win.slices, l.slices); slice++ {
					for y := range rows {
						src := l.sourceOffset(slice, y0+y, x0)
						util.HostWriteSlice(s, uintptr(offset+uint64(y)*rowSize), data[src:src+rowSize])
					}
					r := vk.BufferImageCopy{
						BufferOffset:     offset,
						ImageSubresource: sub,
						ImageOffset: vk.Offset3D{
							X: info.ImageOffset.X + int32(x0*l.blockExtent.Width),
							Y: info.ImageOffset.Y + int32(y0*l.blockExtent.Height),
							Z: info.ImageOffset.Z + int32(slice%l.depth),
						},
						ImageExtent: vk.Extent3D{
							Width:  min(cols*l.blockExtent.Width, info.ImageExtent.Width-x0*l.blockExtent.Width),
							Height: min(rows*l.blockExtent.Height, info.ImageExtent.Height-y0*l.blockExtent.Height),
							Depth:  1,
						},
					}
					r.ImageSubresource.BaseArrayLayer += slice / l.depth
					regions = append(regions, r)
					end = offset + uint64(rows)*rowSize
					offset = util.AlignUp(end, align)
				}

				if err := s.flush(end); err != nil {
					return err
				}
				err := d.submitOneTime(func(cb *CommandBuffer) error {
					cb.CopyBufferToImage(s.buffer, img, regions)
					return nil
				})
				if err != nil {
					instance.logger.EPrintf("Failed to copy %d regions to image %s: %s", len(regions), toHex(img.handle), err)
					return err
				}
				instance.logger.VPrintf("Staged %d bytes into image %s, slices [%d, %d) rows [%d, %d) cols [%d, %d)",
					end, toHex(img.handle), s0, s0+uint32(len(regions)), y0, y0+rows, x0, x0+cols)
			}
		}
	}
	return nil
}
