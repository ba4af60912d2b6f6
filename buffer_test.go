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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/rhi/vez/native/nativetest"
	"goarrg.com/rhi/vez/vk"
)

func TestMemoryFlagsString(t *testing.T) {
	assert.Equal(t, "GPUOnly", MemoryGPUOnly.String())
	assert.Equal(t, "CPUToGPU|Dedicated", (MemoryCPUToGPU | MemoryDedicatedAllocation).String())
	assert.Equal(t, "GPUToCPU|NoAllocation", (MemoryGPUToCPU | MemoryNoAllocation).String())
	assert.Equal(t, "Invalid", (MemoryCPUOnly | MemoryGPUToCPU).String())
}

func TestCreateBufferValidation(t *testing.T) {
	d := newTestEnv(t).device
	tests := []struct {
		name  string
		flags MemoryFlags
		info  BufferCreateInfo
	}{
		{"ZeroSize", MemoryGPUOnly, BufferCreateInfo{Usage: vk.BufferUsageStorageBufferBit}},
		{"ZeroUsage", MemoryGPUOnly, BufferCreateInfo{Size: 16}},
		{"TwoMemoryUsages", MemoryCPUOnly | MemoryCPUToGPU, BufferCreateInfo{Size: 16, Usage: vk.BufferUsageStorageBufferBit}},
		{"UnknownFamily", MemoryGPUOnly, BufferCreateInfo{Size: 16, Usage: vk.BufferUsageStorageBufferBit, QueueFamilyIndices: []uint32{5}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.CreateBuffer(tc.flags, tc.info)
			assert.ErrorIs(t, err, ErrorBadArgument)
		})
	}
}

func TestBufferSharingMode(t *testing.T) {
	e := newTestEnv(t)
	d := e.device

	shared, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 16, Usage: vk.BufferUsageVertexBufferBit})
	require.NoError(t, err)
	info := e.native.BufferCreateInfo(shared.Handle())
	assert.Equal(t, vk.SharingModeConcurrent, info.SharingMode)
	assert.Equal(t, []uint32{0, 1, 2}, info.QueueFamilyIndices)

	exclusive, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{
		Size: 16, Usage: vk.BufferUsageVertexBufferBit, QueueFamilyIndices: []uint32{1},
	})
	require.NoError(t, err)
	assert.Equal(t, vk.SharingModeExclusive, e.native.BufferCreateInfo(exclusive.Handle()).SharingMode)
}

func TestMapBuffer(t *testing.T) {
	e := newTestEnv(t)
	d := e.device

	gpu, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 64, Usage: vk.BufferUsageStorageBufferBit})
	require.NoError(t, err)
	_, err = d.MapBuffer(gpu, 0, vk.WholeSize)
	assert.ErrorIs(t, err, ErrorMemoryMapFailed)

	b, err := d.CreateBuffer(MemoryCPUOnly, BufferCreateInfo{Size: 64, Usage: vk.BufferUsageTransferSrcBit})
	require.NoError(t, err)
	m, err := d.MapBuffer(b, 16, 32)
	require.NoError(t, err)
	assert.Len(t, m, 32)
	for i := range m {
		m[i] = byte(i + 1)
	}
	contents := e.native.BufferContents(b.Handle())
	assert.Equal(t, m, contents[16:48])
	assert.Zero(t, contents[0])

	rest, err := d.MapBuffer(b, 48, vk.WholeSize)
	require.NoError(t, err)
	assert.Len(t, rest, 16)

	_, err = d.MapBuffer(b, 60, 8)
	assert.ErrorIs(t, err, ErrorBadArgument)

	d.UnmapBuffer(b)
	d.UnmapBuffer(b)
}

func TestFlushMappedBufferRanges(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	b, err := d.CreateBuffer(MemoryCPUToGPU, BufferCreateInfo{Size: 200, Usage: vk.BufferUsageTransferSrcBit})
	require.NoError(t, err)

	require.NoError(t, d.FlushMappedBufferRanges([]MappedBufferRange{
		{Buffer: b, Offset: 10, Size: 20},
		{Buffer: b, Offset: 130, Size: vk.WholeSize},
		{Buffer: b, Offset: 64, Size: 64},
	}))
	assert.Equal(t, [][2]uint64{{0, 64}, {128, 72}, {64, 64}}, e.native.Flushes())

	assert.ErrorIs(t, d.FlushMappedBufferRanges([]MappedBufferRange{{Buffer: b, Offset: 200, Size: 1}}), ErrorBadArgument)
	assert.ErrorIs(t, d.InvalidateMappedBufferRanges([]MappedBufferRange{{Buffer: b, Offset: 100, Size: 101}}), ErrorBadArgument)
	assert.NoError(t, d.InvalidateMappedBufferRanges([]MappedBufferRange{{Buffer: b, Offset: 0, Size: vk.WholeSize}}))
}

func TestBufferView(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	b, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 256, Usage: vk.BufferUsageUniformTexelBufferBit})
	require.NoError(t, err)

	v, err := d.CreateBufferView(BufferViewCreateInfo{Buffer: b, Format: vk.FormatR32Uint, Offset: 64, Range: vk.WholeSize})
	require.NoError(t, err)
	assert.Same(t, b, v.Buffer())
	assert.Equal(t, 1, e.native.Live(nativetest.KindBufferView))

	_, err = d.CreateBufferView(BufferViewCreateInfo{Buffer: b, Format: vk.FormatR32Uint, Offset: 128, Range: 256})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateBufferView(BufferViewCreateInfo{Buffer: b, Offset: 0, Range: 16})
	assert.ErrorIs(t, err, ErrorBadArgument)

	d.DestroyBufferView(v)
	assert.Equal(t, 0, e.native.Live(nativetest.KindBufferView))
}

func TestLookupAndImportBuffer(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	b, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 16, Usage: vk.BufferUsageIndexBufferBit})
	require.NoError(t, err)

	found, err := d.LookupBuffer(b.Handle())
	require.NoError(t, err)
	assert.Same(t, b, found)

	h := b.Handle()
	d.DestroyBuffer(b)
	_, err = d.LookupBuffer(h)
	assert.ErrorIs(t, err, ErrorIncomplete)

	imported, err := d.ImportBuffer(h, BufferCreateInfo{Size: 16, Usage: vk.BufferUsageIndexBufferBit})
	require.NoError(t, err)
	again, err := d.ImportBuffer(h, BufferCreateInfo{})
	require.NoError(t, err)
	assert.Same(t, imported, again)
	d.DestroyBuffer(imported)

	_, err = d.ImportBuffer(0, BufferCreateInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)
}

func TestBufferSubData(t *testing.T) {
	e := newTestEnvWith(t, nativetest.DefaultConfig(), DeviceConfig{StagingBufferSize: 256})
	d := e.device
	b, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 1024, Usage: vk.BufferUsageTransferDstBit | vk.BufferUsageStorageBufferBit})
	require.NoError(t, err)

	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i * 7)
	}
	before := len(e.native.Submissions())
	require.NoError(t, d.BufferSubData(b, 8, data))

	submissions := e.native.Submissions()[before:]
	require.Len(t, submissions, 4)
	sizes := []uint64{256, 256, 256, 232}
	for i, s := range submissions {
		require.Len(t, s.Calls, 1)
		var copies []nativetest.CopyBufferArgs
		for _, c := range s.Calls[0] {
			if a, ok := c.Args.(nativetest.CopyBufferArgs); ok {
				copies = append(copies, a)
			}
		}
		require.Len(t, copies, 1)
		assert.Equal(t, b.Handle(), copies[0].Dst)
		assert.Equal(t, vk.BufferCopy{SrcOffset: 0, DstOffset: 8 + uint64(i)*256, Size: sizes[i]}, copies[0].Regions[0])
	}
	assert.Equal(t, data, e.native.BufferContents(b.Handle())[8:1008])
}

func TestBufferSubDataValidation(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	b, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 64, Usage: vk.BufferUsageTransferDstBit})
	require.NoError(t, err)
	noDst, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 64, Usage: vk.BufferUsageStorageBufferBit})
	require.NoError(t, err)

	assert.ErrorIs(t, d.BufferSubData(nil, 0, []byte{1}), ErrorBadArgument)
	assert.ErrorIs(t, d.BufferSubData(b, 60, make([]byte, 8)), ErrorBadArgument)
	assert.ErrorIs(t, d.BufferSubData(noDst, 0, make([]byte, 8)), ErrorBadArgument)

	before := len(e.native.Submissions())
	assert.NoError(t, d.BufferSubData(b, 0, nil))
	assert.Len(t, e.native.Submissions(), before)
}
