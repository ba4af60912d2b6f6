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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

func testDevice(t *testing.T) *Device {
	t.Helper()
	inst, err := NewDriver(DefaultConfig()).CreateInstance(native.InstanceCreateInfo{})
	require.NoError(t, err)
	pds, err := inst.PhysicalDevices()
	require.NoError(t, err)
	require.Len(t, pds, 1)
	dev, err := pds[0].CreateDevice(native.DeviceCreateInfo{})
	require.NoError(t, err)
	return dev.(*Device)
}

func TestHandleAccounting(t *testing.T) {
	d := testDevice(t)
	b, a, err := d.CreateBuffer(native.BufferCreateInfo{Size: 64}, native.AllocationCreateInfo{Usage: native.MemoryUsageCPUOnly})
	require.NoError(t, err)
	assert.NotZero(t, b)
	assert.NotZero(t, a)
	assert.Equal(t, 1, d.Live(KindBuffer))

	d.DestroyBuffer(b, a)
	d.DestroyBuffer(b, a)
	assert.Equal(t, 0, d.Live(KindBuffer))
	assert.Equal(t, 1, d.Destroyed(KindBuffer))
	assert.Equal(t, 0, d.Live(KindAllocation))
}

func TestFailNext(t *testing.T) {
	d := testDevice(t)
	d.FailNext("CreateImage", vk.ErrorOutOfDeviceMemory)
	_, _, err := d.CreateImage(native.ImageCreateInfo{Format: vk.FormatR8G8B8A8Unorm}, native.AllocationCreateInfo{})
	assert.ErrorIs(t, err, vk.ErrorOutOfDeviceMemory)
	_, _, err = d.CreateImage(native.ImageCreateInfo{
		Format: vk.FormatR8G8B8A8Unorm, Extent: vk.Extent3D{Width: 4, Height: 4, Depth: 1},
		MipLevels: 1, ArrayLayers: 1,
	}, native.AllocationCreateInfo{})
	assert.NoError(t, err)
}

func TestSubmitExecutesTransfers(t *testing.T) {
	d := testDevice(t)
	src, srcMem, err := d.CreateBuffer(native.BufferCreateInfo{Size: 64}, native.AllocationCreateInfo{Usage: native.MemoryUsageCPUOnly})
	require.NoError(t, err)
	dst, _, err := d.CreateBuffer(native.BufferCreateInfo{Size: 64}, native.AllocationCreateInfo{Usage: native.MemoryUsageGPUOnly})
	require.NoError(t, err)
	img, _, err := d.CreateImage(native.ImageCreateInfo{
		ImageType: vk.ImageType2D, Format: vk.FormatR8G8B8A8Unorm,
		Extent: vk.Extent3D{Width: 2, Height: 2, Depth: 1}, MipLevels: 1, ArrayLayers: 1,
	}, native.AllocationCreateInfo{Usage: native.MemoryUsageGPUOnly})
	require.NoError(t, err)

	m, err := d.MapMemory(srcMem)
	require.NoError(t, err)
	for i := range m {
		m[i] = byte(i)
	}

	pool, err := d.CreateCommandPool(0)
	require.NoError(t, err)
	cb, err := d.AllocateCommandBuffer(pool)
	require.NoError(t, err)
	require.NoError(t, d.BeginCommandBuffer(cb, vk.CommandBufferUsageOneTimeSubmitBit))
	d.CmdCopyBuffer(cb, src, dst, []vk.BufferCopy{{SrcOffset: 8, DstOffset: 0, Size: 8}})
	d.CmdFillBuffer(cb, dst, 16, 8, 0xAABBCCDD)
	d.CmdCopyBufferToImage(cb, src, img, vk.ImageLayoutTransferDstOptimal, []vk.BufferImageCopy{{
		ImageSubresource: vk.ImageSubresourceLayers{AspectMask: vk.ImageAspectColorBit, LayerCount: 1},
		ImageExtent:      vk.Extent3D{Width: 2, Height: 2, Depth: 1},
	}})
	require.NoError(t, d.EndCommandBuffer(cb))
	assert.Equal(t, []string{"CopyBuffer", "FillBuffer", "CopyBufferToImage"}, d.Ops(cb))

	f, err := d.CreateFence(false)
	require.NoError(t, err)
	assert.ErrorIs(t, d.FenceStatus(f), vk.NotReady)
	require.NoError(t, d.QueueSubmit(d.Queue(0, 0), []native.SubmitInfo{{CommandBuffers: []native.CommandBuffer{cb}}}, f))
	assert.NoError(t, d.FenceStatus(f))

	out := d.BufferContents(dst)
	assert.Equal(t, []byte{8, 9, 10, 11, 12, 13, 14, 15}, out[:8])
	assert.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA, 0xDD, 0xCC, 0xBB, 0xAA}, out[16:24])
	assert.Equal(t, m[:16], d.ImageContents(img, 0, 0))
	assert.Len(t, d.Submissions(), 1)
}

func TestHeldFence(t *testing.T) {
	d := testDevice(t)
	f, err := d.CreateFence(false)
	require.NoError(t, err)
	d.HoldFence(f)
	require.NoError(t, d.QueueSubmit(d.Queue(0, 0), nil, f))
	assert.ErrorIs(t, d.WaitForFences([]native.Fence{f}, true, 0), vk.Timeout)
	d.ReleaseFences()
	assert.NoError(t, d.WaitForFences([]native.Fence{f}, true, 0))
}

func TestRecordingOutsideBeginPanics(t *testing.T) {
	d := testDevice(t)
	pool, err := d.CreateCommandPool(0)
	require.NoError(t, err)
	cb, err := d.AllocateCommandBuffer(pool)
	require.NoError(t, err)
	assert.Panics(t, func() { d.CmdDraw(cb, 3, 1, 0, 0) })
}

func TestDescriptorPoolCapacity(t *testing.T) {
	d := testDevice(t)
	l, err := d.CreateDescriptorSetLayout(nil)
	require.NoError(t, err)
	p, err := d.CreateDescriptorPool(1, nil)
	require.NoError(t, err)
	_, err = d.AllocateDescriptorSet(p, l)
	require.NoError(t, err)
	_, err = d.AllocateDescriptorSet(p, l)
	assert.ErrorIs(t, err, vk.ErrorOutOfPoolMemory)
	d.DestroyDescriptorPool(p)
	assert.Equal(t, 0, d.Live(KindDescriptorSet))
}
