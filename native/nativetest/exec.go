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
	"encoding/binary"
	"slices"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

func (d *Device) QueueSubmit(q native.Queue, submits []native.SubmitInfo, fence native.Fence) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := d.fail("QueueSubmit"); err != nil {
		return err
	}

	s := Submission{Queue: q, Fence: fence, Serial: len(d.submits)}
	for _, info := range submits {
		s.Infos = append(s.Infos, native.SubmitInfo{
			WaitSemaphores:    slices.Clone(info.WaitSemaphores),
			WaitDstStageMasks: slices.Clone(info.WaitDstStageMasks),
			CommandBuffers:    slices.Clone(info.CommandBuffers),
			SignalSemaphores:  slices.Clone(info.SignalSemaphores),
		})
		for _, cb := range info.CommandBuffers {
			r, ok := d.recordings[cb]
			if !ok || r.state != stateExecutable {
				return vk.ErrorValidationFailed
			}
			calls := slices.Clone(r.calls)
			s.Calls = append(s.Calls, calls)
			for _, c := range calls {
				d.execute(c)
			}
		}
	}
	d.submits = append(d.submits, s)

	if fence != 0 && !d.held[fence] {
		d.fences[fence] = true
	}
	return nil
}

func (d *Device) execute(c Call) {
	switch a := c.Args.(type) {
	case CopyBufferArgs:
		src, dst := d.memory[d.bufferMem[a.Src]], d.memory[d.bufferMem[a.Dst]]
		for _, r := range a.Regions {
			copy(dst[r.DstOffset:r.DstOffset+r.Size], src[r.SrcOffset:r.SrcOffset+r.Size])
		}
	case UpdateBufferArgs:
		copy(d.memory[d.bufferMem[a.Dst]][a.Offset:], a.Data)
	case FillBufferArgs:
		dst := d.memory[d.bufferMem[a.Dst]]
		size := a.Size
		if size == vk.WholeSize {
			size = (uint64(len(dst)) - a.Offset) &^ 3
		}
		for o := a.Offset; o+4 <= a.Offset+size; o += 4 {
			binary.LittleEndian.PutUint32(dst[o:], a.Data)
		}
	case BufferImageCopyArgs:
		mem := d.memory[d.bufferMem[a.Buffer]]
		img, ok := d.images[a.Image]
		if !ok || mem == nil {
			return
		}
		for _, r := range a.Regions {
			img.copyRegion(mem, r, c.Op == "CopyBufferToImage")
		}
	case ClearColorImageArgs:
		img, ok := d.images[a.Image]
		if !ok {
			return
		}
		for _, r := range a.Ranges {
			img.clearColor(a.Color, r)
		}
	}
}

func (img *image) copyRegion(mem []byte, r vk.BufferImageCopy, toImage bool) {
	block := img.info.Format.BlockExtent()
	blockSize := uint64(img.info.Format.BlockSize())
	if block.Width == 0 {
		return
	}
	extent := mipExtent(img.info, r.ImageSubresource.MipLevel)
	rowBlocks := uint64((extent.Width + block.Width - 1) / block.Width)
	sliceRows := uint64((extent.Height + block.Height - 1) / block.Height)

	rowLength := r.BufferRowLength
	if rowLength == 0 {
		rowLength = r.ImageExtent.Width
	}
	imageHeight := r.BufferImageHeight
	if imageHeight == 0 {
		imageHeight = r.ImageExtent.Height
	}
	bufRowBlocks := uint64((rowLength + block.Width - 1) / block.Width)
	bufSliceRows := uint64((imageHeight + block.Height - 1) / block.Height)

	copyBlocksX := uint64((r.ImageExtent.Width + block.Width - 1) / block.Width)
	copyBlocksY := uint64((r.ImageExtent.Height + block.Height - 1) / block.Height)
	x0 := uint64(uint32(r.ImageOffset.X) / block.Width)
	y0 := uint64(uint32(r.ImageOffset.Y) / block.Height)

	layers := r.ImageSubresource.LayerCount
	if layers == vk.RemainingArrayLayers {
		layers = img.info.ArrayLayers - r.ImageSubresource.BaseArrayLayer
	}

	bufOffset := r.BufferOffset
	for l := uint32(0); l < layers; l++ {
		base, _ := img.subresource(r.ImageSubresource.MipLevel, r.ImageSubresource.BaseArrayLayer+l)
		for z := uint64(0); z < uint64(r.ImageExtent.Depth); z++ {
			for y := uint64(0); y < copyBlocksY; y++ {
				imgOff := uint64(base) + (((uint64(r.ImageOffset.Z)+z)*sliceRows+y0+y)*rowBlocks+x0)*blockSize
				bufOff := bufOffset + ((z*bufSliceRows)+y)*bufRowBlocks*blockSize
				n := copyBlocksX * blockSize
				if toImage {
					copy(img.data[imgOff:imgOff+n], mem[bufOff:bufOff+n])
				} else {
					copy(mem[bufOff:bufOff+n], img.data[imgOff:imgOff+n])
				}
			}
		}
		bufOffset += uint64(r.ImageExtent.Depth) * bufSliceRows * bufRowBlocks * blockSize
	}
}

func (img *image) clearColor(c vk.ClearColorValue, r vk.ImageSubresourceRange) {
	blockSize := int(img.info.Format.BlockSize())
	if blockSize == 0 || img.info.Format.IsCompressed() {
		return
	}
	var texel [16]byte
	for i := range 4 {
		binary.LittleEndian.PutUint32(texel[i*4:], c[i])
	}
	levels := r.LevelCount
	if levels == vk.RemainingMipLevels {
		levels = img.info.MipLevels - r.BaseMipLevel
	}
	layers := r.LayerCount
	if layers == vk.RemainingArrayLayers {
		layers = img.info.ArrayLayers - r.BaseArrayLayer
	}
	for l := r.BaseArrayLayer; l < r.BaseArrayLayer+layers; l++ {
		for m := r.BaseMipLevel; m < r.BaseMipLevel+levels; m++ {
			off, size := img.subresource(m, l)
			for o := off; o+blockSize <= off+size; o += blockSize {
				copy(img.data[o:o+blockSize], texel[:min(blockSize, 16)])
			}
		}
	}
}
