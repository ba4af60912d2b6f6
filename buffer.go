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
	"strings"
	"sync"

	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
MemoryFlags selects where a resource lives. One usage class (the zero value is
GPU only) may be combined with MemoryDedicatedAllocation or MemoryNoAllocation.
*/
type MemoryFlags uint32

const (
	MemoryGPUOnly MemoryFlags = 0
	MemoryCPUOnly MemoryFlags = 1 << (iota - 1)
	MemoryCPUToGPU
	MemoryGPUToCPU
	MemoryDedicatedAllocation
	// MemoryNoAllocation creates the resource without memory so that external
	// memory can be bound to it.
	MemoryNoAllocation

	memoryUsageMask = MemoryCPUOnly | MemoryCPUToGPU | MemoryGPUToCPU
)

var memoryUsageTable = map[MemoryFlags]native.MemoryUsage{
	MemoryGPUOnly:  native.MemoryUsageGPUOnly,
	MemoryCPUOnly:  native.MemoryUsageCPUOnly,
	MemoryCPUToGPU: native.MemoryUsageCPUToGPU,
	MemoryGPUToCPU: native.MemoryUsageGPUToCPU,
}

var allocationFlagTable = map[MemoryFlags]native.AllocationFlags{
	MemoryDedicatedAllocation: native.AllocationDedicatedBit,
	MemoryNoAllocation:        native.AllocationNoAllocationBit,
}

func (f MemoryFlags) String() string {
	str := ""
	switch f & memoryUsageMask {
	case MemoryGPUOnly:
		str = "GPUOnly|"
	case MemoryCPUOnly:
		str = "CPUOnly|"
	case MemoryCPUToGPU:
		str = "CPUToGPU|"
	case MemoryGPUToCPU:
		str = "GPUToCPU|"
	default:
		str = "Invalid|"
	}
	if hasBits(f, MemoryDedicatedAllocation) {
		str += "Dedicated|"
	}
	if hasBits(f, MemoryNoAllocation) {
		str += "NoAllocation|"
	}
	return strings.TrimSuffix(str, "|")
}

func (f MemoryFlags) hostVisible() bool {
	return (f & memoryUsageMask) != 0
}

/*
allocationInfo decodes f through the usage and allocation flag tables, more than
one usage class is a bad argument.
*/
func (f MemoryFlags) allocationInfo() (native.AllocationCreateInfo, error) {
	usage, ok := memoryUsageTable[f&memoryUsageMask]
	if !ok {
		return native.AllocationCreateInfo{}, ErrorBadArgument
	}
	info := native.AllocationCreateInfo{Usage: usage}
	for bit, flag := range allocationFlagTable {
		if hasBits(f, bit) {
			info.Flags |= flag
		}
	}
	return info, nil
}

/*
sharingMode picks the sharing mode for a queue family set: empty means every
family of the device, one family is exclusive and several are concurrent.
*/
func (d *Device) sharingMode(families []uint32) (vk.SharingMode, []uint32, error) {
	for _, f := range families {
		if int(f) >= len(d.families) {
			return vk.SharingModeExclusive, nil, ErrorBadArgument
		}
	}
	switch {
	case len(families) == 1:
		return vk.SharingModeExclusive, nil, nil
	case len(families) > 1:
		return vk.SharingModeConcurrent, families, nil
	case len(d.families) == 1:
		return vk.SharingModeExclusive, nil, nil
	}
	all := make([]uint32, len(d.families))
	for i := range all {
		all[i] = uint32(i)
	}
	return vk.SharingModeConcurrent, all, nil
}

type BufferCreateInfo struct {
	Size  uint64
	Usage vk.BufferUsageFlags
	// QueueFamilyIndices lists the families the buffer is shared between, an
	// empty list shares it with every family.
	QueueFamilyIndices []uint32
}

type Buffer struct {
	noCopy     util.NoCopy
	device     *Device
	handle     native.Buffer
	allocation native.Allocation
	info       BufferCreateInfo
	memory     MemoryFlags
	imported   bool

	mapMtx sync.Mutex
	mapped []byte
}

func (b *Buffer) Handle() native.Buffer {
	b.noCopy.Check()
	return b.handle
}

func (b *Buffer) Size() uint64 {
	b.noCopy.Check()
	return b.info.Size
}

func (b *Buffer) Usage() vk.BufferUsageFlags {
	b.noCopy.Check()
	return b.info.Usage
}

func (b *Buffer) MemoryFlags() MemoryFlags {
	b.noCopy.Check()
	return b.memory
}

func (d *Device) CreateBuffer(memFlags MemoryFlags, info BufferCreateInfo) (*Buffer, error) {
	d.noCopy.Check()
	if info.Size == 0 || info.Usage == 0 {
		return nil, ErrorBadArgument
	}
	alloc, err := memFlags.allocationInfo()
	if err != nil {
		return nil, err
	}
	sharing, families, err := d.sharingMode(info.QueueFamilyIndices)
	if err != nil {
		return nil, err
	}

	h, a, err := d.native.CreateBuffer(native.BufferCreateInfo{
		Size:               info.Size,
		Usage:              info.Usage,
		SharingMode:        sharing,
		QueueFamilyIndices: families,
	}, alloc)
	if err != nil {
		instance.logger.EPrintf("Failed to create buffer of size %d with memory %s: %s", info.Size, memFlags, err)
		return nil, err
	}

	info.QueueFamilyIndices = families
	b := &Buffer{device: d, handle: h, allocation: a, info: info, memory: memFlags}
	b.noCopy.Init()
	d.buffers.insert(h, b)
	return b, nil
}

/*
ImportBuffer wraps a buffer created directly through the native device so it
can be used in recordings. DestroyBuffer on the result only forgets the record.
*/
func (d *Device) ImportBuffer(h native.Buffer, info BufferCreateInfo) (*Buffer, error) {
	d.noCopy.Check()
	if h == 0 {
		return nil, ErrorBadArgument
	}
	if b, ok := d.buffers.lookup(h); ok {
		return b, nil
	}
	b := &Buffer{device: d, handle: h, info: info, imported: true}
	b.noCopy.Init()
	d.buffers.insert(h, b)
	return b, nil
}

func (d *Device) DestroyBuffer(b *Buffer) {
	d.noCopy.Check()
	if b == nil {
		return
	}
	b.noCopy.Check()
	d.buffers.remove(b.handle)
	if !b.imported {
		b.mapMtx.Lock()
		if b.mapped != nil {
			d.native.UnmapMemory(b.allocation)
			b.mapped = nil
		}
		b.mapMtx.Unlock()
		d.native.DestroyBuffer(b.handle, b.allocation)
	}
	b.noCopy.Close()
}

/*
MapBuffer returns size bytes of b's memory starting at offset, vk.WholeSize maps
to the end. The memory stays mapped until UnmapBuffer.
*/
func (d *Device) MapBuffer(b *Buffer, offset, size uint64) ([]byte, error) {
	d.noCopy.Check()
	b.noCopy.Check()
	if !b.memory.hostVisible() || b.allocation == 0 {
		return nil, ErrorMemoryMapFailed
	}
	if size == vk.WholeSize && offset <= b.info.Size {
		size = b.info.Size - offset
	}
	if offset+size > b.info.Size || offset+size < offset {
		return nil, ErrorBadArgument
	}

	b.mapMtx.Lock()
	defer b.mapMtx.Unlock()
	if b.mapped == nil {
		m, err := d.native.MapMemory(b.allocation)
		if err != nil {
			instance.logger.EPrintf("Failed to map buffer %s: %s", toHex(b.handle), err)
			return nil, err
		}
		b.mapped = m
	}
	return b.mapped[offset : offset+size : offset+size], nil
}

func (d *Device) UnmapBuffer(b *Buffer) {
	d.noCopy.Check()
	b.noCopy.Check()
	b.mapMtx.Lock()
	defer b.mapMtx.Unlock()
	if b.mapped == nil {
		return
	}
	d.native.UnmapMemory(b.allocation)
	b.mapped = nil
}

type MappedBufferRange struct {
	Buffer *Buffer
	Offset uint64
	// Size of vk.WholeSize covers the rest of the buffer.
	Size uint64
}

/*
atomRange widens r to the non coherent atom size of the device, clamped to the
buffer's size.
*/
func (d *Device) atomRange(r MappedBufferRange) (uint64, uint64, error) {
	size := r.Buffer.info.Size
	if r.Offset >= size {
		return 0, 0, ErrorBadArgument
	}
	end := size
	if r.Size != vk.WholeSize {
		end = r.Offset + r.Size
		if end > size || end < r.Offset {
			return 0, 0, ErrorBadArgument
		}
	}
	atom := max(d.limits.NonCoherentAtomSize, 1)
	offset := util.AlignDown(r.Offset, atom)
	end = min(util.AlignUp(end, atom), size)
	return offset, end - offset, nil
}

func (d *Device) FlushMappedBufferRanges(ranges []MappedBufferRange) error {
	d.noCopy.Check()
	for _, r := range ranges {
		r.Buffer.noCopy.Check()
		offset, size, err := d.atomRange(r)
		if err != nil {
			return err
		}
		if err := d.native.FlushMemory(r.Buffer.allocation, offset, size); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) InvalidateMappedBufferRanges(ranges []MappedBufferRange) error {
	d.noCopy.Check()
	for _, r := range ranges {
		r.Buffer.noCopy.Check()
		offset, size, err := d.atomRange(r)
		if err != nil {
			return err
		}
		if err := d.native.InvalidateMemory(r.Buffer.allocation, offset, size); err != nil {
			return err
		}
	}
	return nil
}

type BufferViewCreateInfo struct {
	Buffer *Buffer
	Format vk.Format
	Offset uint64
	// Range of vk.WholeSize covers the rest of the buffer.
	Range uint64
}

type BufferView struct {
	noCopy util.NoCopy
	handle native.BufferView
	info   BufferViewCreateInfo
}

func (v *BufferView) Handle() native.BufferView {
	v.noCopy.Check()
	return v.handle
}

func (v *BufferView) Buffer() *Buffer {
	v.noCopy.Check()
	return v.info.Buffer
}

/*
CreateBufferView rejects views that do not fit inside the buffer.
*/
func (d *Device) CreateBufferView(info BufferViewCreateInfo) (*BufferView, error) {
	d.noCopy.Check()
	if info.Buffer == nil || info.Format == vk.FormatUndefined {
		return nil, ErrorBadArgument
	}
	info.Buffer.noCopy.Check()
	size := info.Buffer.info.Size
	if info.Offset >= size {
		return nil, ErrorBadArgument
	}
	if info.Range == vk.WholeSize {
		info.Range = size - info.Offset
	}
	if info.Range == 0 || info.Offset+info.Range > size || info.Offset+info.Range < info.Offset {
		return nil, ErrorBadArgument
	}

	h, err := d.native.CreateBufferView(native.BufferViewCreateInfo{
		Buffer: info.Buffer.handle,
		Format: info.Format,
		Offset: info.Offset,
		Range:  info.Range,
	})
	if err != nil {
		instance.logger.EPrintf("Failed to create buffer view of %s: %s", toHex(info.Buffer.handle), err)
		return nil, err
	}
	v := &BufferView{handle: h, info: info}
	v.noCopy.Init()
	return v, nil
}

func (d *Device) DestroyBufferView(v *BufferView) {
	d.noCopy.Check()
	if v == nil {
		return
	}
	v.noCopy.Check()
	d.native.DestroyBufferView(v.handle)
	v.noCopy.Close()
}
