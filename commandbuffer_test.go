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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/rhi/vez/internal/spirv"
	"goarrg.com/rhi/vez/internal/spirv/spirvtest"
	"goarrg.com/rhi/vez/native/nativetest"
	"goarrg.com/rhi/vez/vk"
)

func newTransferBuffers(t *testing.T, d *Device, n int, size uint64) []*Buffer {
	t.Helper()
	buffers := make([]*Buffer, n)
	for i := range buffers {
		b, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{
			Size:  size,
			Usage: vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit | vk.BufferUsageStorageBufferBit,
		})
		require.NoError(t, err)
		buffers[i] = b
	}
	return buffers
}

func TestCommandBufferLifecycle(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)

	_, err := d.AllocateCommandBuffers(nil, 1)
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.AllocateCommandBuffers(q, 0)
	assert.ErrorIs(t, err, ErrorBadArgument)
	other := newTestEnv(t)
	_, err = d.AllocateCommandBuffers(other.graphicsQueue(t), 1)
	assert.ErrorIs(t, err, ErrorBadArgument)

	cbs, err := d.AllocateCommandBuffers(q, 2)
	require.NoError(t, err)
	require.Len(t, cbs, 2)
	assert.Same(t, q, cbs[0].Queue())
	assert.NotEqual(t, cbs[0].Handle(), cbs[1].Handle())
	assert.Equal(t, 1, e.native.Live(nativetest.KindCommandPool))

	cb := cbs[0]
	assert.ErrorIs(t, cb.End(), ErrorBadArgument)
	require.NoError(t, cb.Begin(0))
	assert.ErrorIs(t, cb.Begin(0), ErrorNotReady)
	require.NoError(t, cb.End())
	require.NoError(t, cb.Reset())
	assert.ErrorIs(t, cb.End(), ErrorBadArgument)

	d.FreeCommandBuffers(cbs)
	assert.Equal(t, 0, e.native.Live(nativetest.KindCommandBuffer))
}

func TestRecordingOutsideBeginAborts(t *testing.T) {
	e := newTestEnv(t)
	b := newTransferBuffers(t, e.device, 1, 64)[0]
	cbs, err := e.device.AllocateCommandBuffers(e.graphicsQueue(t), 1)
	require.NoError(t, err)
	assert.Panics(t, func() { cbs[0].FillBuffer(b, 0, vk.WholeSize, 0) })
}

func TestBufferHazardBarriers(t *testing.T) {
	e := newTestEnv(t)
	q := e.graphicsQueue(t)
	bufs := newTransferBuffers(t, e.device, 3, 64)
	a, b, c := bufs[0], bufs[1], bufs[2]
	region := []vk.BufferCopy{{Size: 64}}

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.CopyBuffer(a, b, region)
		cb.CopyBuffer(b, c, region)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"CopyBuffer", "PipelineBarrier", "CopyBuffer"}, e.native.Ops(cb.Handle()))
	barriers := e.native.Barriers(cb.Handle())
	require.Len(t, barriers, 1)
	require.Len(t, barriers[0].BufferBarriers, 1)
	bb := barriers[0].BufferBarriers[0]
	assert.Equal(t, b.Handle(), bb.Buffer)
	assert.Equal(t, vk.AccessTransferWriteBit, bb.SrcAccessMask)
	assert.Equal(t, vk.AccessTransferReadBit, bb.DstAccessMask)

	cb, err = e.record(t, q, func(cb *CommandBuffer) {
		cb.CopyBuffer(a, b, region)
		cb.CopyBuffer(a, c, region)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"CopyBuffer", "CopyBuffer"}, e.native.Ops(cb.Handle()))
}

func TestUpdateAndFillBuffer(t *testing.T) {
	e := newTestEnv(t)
	q := e.graphicsQueue(t)
	b := newTransferBuffers(t, e.device, 1, 66)[0]

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.FillBuffer(b, 0, vk.WholeSize, 0xAABBCCDD)
		cb.UpdateBuffer(b, 8, []byte{1, 2, 3, 4})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"FillBuffer", "PipelineBarrier", "UpdateBuffer"}, e.native.Ops(cb.Handle()))
	fill := e.native.Calls(cb.Handle())[0].Args.(nativetest.FillBufferArgs)
	assert.Equal(t, uint64(64), fill.Size)

	e.submit(t, q, cb)
	contents := e.native.BufferContents(b.Handle())
	assert.Equal(t, uint32(0xAABBCCDD), binary.LittleEndian.Uint32(contents[0:]))
	assert.Equal(t, []byte{1, 2, 3, 4}, contents[8:12])
	assert.Equal(t, uint32(0xAABBCCDD), binary.LittleEndian.Uint32(contents[60:]))
	assert.Equal(t, []byte{0, 0}, contents[64:])
}

func TestRecordingErrorsReturnedByEnd(t *testing.T) {
	e := newTestEnv(t)
	q := e.graphicsQueue(t)
	b := newTransferBuffers(t, e.device, 1, 64)[0]
	readOnly, err := e.device.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 64, Usage: vk.BufferUsageStorageBufferBit})
	require.NoError(t, err)

	tests := []struct {
		name   string
		record func(cb *CommandBuffer)
	}{
		{"UpdateUnaligned", func(cb *CommandBuffer) { cb.UpdateBuffer(b, 0, []byte{1, 2, 3}) }},
		{"UpdateTooLarge", func(cb *CommandBuffer) { cb.UpdateBuffer(b, 0, make([]byte, 65540)) }},
		{"FillOutOfRange", func(cb *CommandBuffer) { cb.FillBuffer(b, 32, 64, 0) }},
		{"CopyNil", func(cb *CommandBuffer) { cb.CopyBuffer(nil, b, []vk.BufferCopy{{Size: 4}}) }},
		{"CopyOutOfRange", func(cb *CommandBuffer) { cb.CopyBuffer(b, readOnly, []vk.BufferCopy{{SrcOffset: 60, Size: 8}}) }},
		{"DispatchWithoutPipeline", func(cb *CommandBuffer) { cb.Dispatch(1, 1, 1) }},
		{"DrawOutsideRenderPass", func(cb *CommandBuffer) { cb.Draw(3, 1, 0, 0) }},
		{"EndRenderPassOutsideRenderPass", func(cb *CommandBuffer) { cb.EndRenderPass() }},
		{"VertexBufferCountMismatch", func(cb *CommandBuffer) { cb.BindVertexBuffers(0, []*Buffer{b}, nil) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cbs, err := e.device.AllocateCommandBuffers(q, 1)
			require.NoError(t, err)
			cb := cbs[0]
			require.NoError(t, cb.Begin(0))
			tc.record(cb)
			assert.ErrorIs(t, cb.End(), ErrorBadArgument)

			// the failed recording is dropped and cb can record again
			require.NoError(t, cb.Begin(0))
			require.NoError(t, cb.End())
			assert.Empty(t, e.native.Ops(cb.Handle()))
		})
	}
}

func TestCopyBufferToImageTransitions(t *testing.T) {
	e := newTestEnv(t)
	q := e.graphicsQueue(t)
	src := newTransferBuffers(t, e.device, 1, 256)[0]
	img, err := e.device.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 8, 8, vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit))
	require.NoError(t, err)

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.CopyBufferToImage(src, img, []vk.BufferImageCopy{{
			ImageSubresource: vk.ImageSubresourceLayers{AspectMask: vk.ImageAspectColorBit, LayerCount: 1},
			ImageExtent:      vk.Extent3D{Width: 8, Height: 8, Depth: 1},
		}})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PipelineBarrier", "CopyBufferToImage", "PipelineBarrier"}, e.native.Ops(cb.Handle()))

	barriers := e.native.Barriers(cb.Handle())
	require.Len(t, barriers, 2)
	require.Len(t, barriers[0].ImageBarriers, 1)
	assert.Equal(t, vk.ImageLayoutShaderReadOnlyOptimal, barriers[0].ImageBarriers[0].OldLayout)
	assert.Equal(t, vk.ImageLayoutTransferDstOptimal, barriers[0].ImageBarriers[0].NewLayout)
	require.Len(t, barriers[1].ImageBarriers, 1)
	assert.Equal(t, vk.ImageLayoutTransferDstOptimal, barriers[1].ImageBarriers[0].OldLayout)
	assert.Equal(t, vk.ImageLayoutShaderReadOnlyOptimal, barriers[1].ImageBarriers[0].NewLayout)

	copyArgs := e.native.Calls(cb.Handle())[1].Args.(nativetest.BufferImageCopyArgs)
	assert.Equal(t, vk.ImageLayoutTransferDstOptimal, copyArgs.Layout)
}

func TestClearColorImage(t *testing.T) {
	e := newTestEnv(t)
	q := e.graphicsQueue(t)
	img, err := e.device.CreateImage(MemoryGPUOnly, image2D(vk.FormatR32Uint, 4, 4, vk.ImageUsageTransferDstBit))
	require.NoError(t, err)

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.ClearColorImage(img, vk.ClearColorUint32(7, 0, 0, 0), nil)
	})
	require.NoError(t, err)
	barriers := e.native.Barriers(cb.Handle())
	require.Len(t, barriers, 1)
	assert.Equal(t, vk.ImageLayoutUndefined, barriers[0].ImageBarriers[0].OldLayout)
	assert.Equal(t, vk.ImageLayoutTransferDstOptimal, barriers[0].ImageBarriers[0].NewLayout)
	clearArgs := e.native.Calls(cb.Handle())[1].Args.(nativetest.ClearColorImageArgs)
	assert.Equal(t, []vk.ImageSubresourceRange{{AspectMask: vk.ImageAspectColorBit, LevelCount: 1, LayerCount: 1}}, clearArgs.Ranges)

	e.submit(t, q, cb)
	texels := e.native.ImageContents(img.Handle(), 0, 0)
	require.Len(t, texels, 64)
	for i := 0; i < len(texels); i += 4 {
		assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(texels[i:]))
	}
}

func TestEventsAndQueries(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)

	ev, err := d.CreateEvent()
	require.NoError(t, err)
	assert.Equal(t, vk.EventReset, d.EventStatus(ev))
	require.NoError(t, d.SetEvent(ev))
	assert.Equal(t, vk.EventSet, d.EventStatus(ev))
	require.NoError(t, d.ResetEvent(ev))
	assert.Equal(t, vk.EventReset, d.EventStatus(ev))

	_, err = d.CreateQueryPool(QueryPoolCreateInfo{QueryType: vk.QueryTypeTimestamp})
	assert.ErrorIs(t, err, ErrorBadArgument)
	pool, err := d.CreateQueryPool(QueryPoolCreateInfo{QueryType: vk.QueryTypeTimestamp, QueryCount: 2})
	require.NoError(t, err)

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.ResetQueryPool(pool, 0, 2)
		cb.WriteTimestamp(vk.PipelineStageTopOfPipeBit, pool, 0)
		cb.SetEvent(ev, vk.PipelineStageBottomOfPipeBit)
		cb.WriteTimestamp(vk.PipelineStageBottomOfPipeBit, pool, 1)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ResetQueryPool", "WriteTimestamp", "SetEvent", "WriteTimestamp"}, e.native.Ops(cb.Handle()))

	results := make([]byte, 16)
	assert.NoError(t, d.QueryPoolResults(pool, 0, 2, results, 8, vk.QueryResult64Bit))
	assert.ErrorIs(t, d.QueryPoolResults(pool, 1, 2, results, 8, vk.QueryResult64Bit), ErrorBadArgument)
	assert.ErrorIs(t, d.QueryPoolResults(pool, 0, 2, results[:8], 8, vk.QueryResult64Bit), ErrorBadArgument)

	d.DestroyQueryPool(pool)
	d.DestroyEvent(ev)
	assert.Equal(t, 0, e.native.Live(nativetest.KindEvent))
	assert.Equal(t, 0, e.native.Live(nativetest.KindQueryPool))
}

func TestConsecutiveStorageWritesBarrier(t *testing.T) {
	e := newTestEnv(t)
	p := createComputePipeline(t, e.device)
	b := newTransferBuffers(t, e.device, 1, 256)[0]

	cb, err := e.record(t, e.graphicsQueue(t), func(cb *CommandBuffer) {
		cb.BindPipeline(p)
		cb.BindBuffer(b, 0, vk.WholeSize, 0, 0, 0)
		cb.Dispatch(1, 1, 1)
		cb.Dispatch(1, 1, 1)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"BindPipeline", "BindDescriptorSets", "Dispatch", "PipelineBarrier", "Dispatch"}, e.native.Ops(cb.Handle()))

	barriers := e.native.Barriers(cb.Handle())
	require.Len(t, barriers, 1)
	assert.Equal(t, vk.PipelineStageComputeShaderBit, barriers[0].SrcStageMask)
	assert.Equal(t, vk.PipelineStageComputeShaderBit, barriers[0].DstStageMask)
	require.Len(t, barriers[0].BufferBarriers, 1)
	bb := barriers[0].BufferBarriers[0]
	assert.Equal(t, b.Handle(), bb.Buffer)
	assert.Equal(t, vk.AccessShaderWriteBit, bb.SrcAccessMask)
	assert.Equal(t, vk.AccessShaderReadBit|vk.AccessShaderWriteBit, bb.DstAccessMask)
}

func TestSharedLayoutTracksBoundPipelineAccess(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	m := createShader(t, d, vk.ShaderStageComputeBit, spirvtest.Shader{
		Model:           spirv.ExecutionModelGLCompute,
		ReadOnlyBuffers: []spirvtest.Binding{{Name: "data", Set: 0, Binding: 0}},
	})
	reader, err := d.CreateComputePipeline(ComputePipelineCreateInfo{Stage: PipelineShaderStageCreateInfo{Module: m}})
	require.NoError(t, err)
	writer := createComputePipeline(t, d)
	require.Equal(t, reader.Layout(), writer.Layout())
	bufs := newTransferBuffers(t, d, 2, 256)
	b, c := bufs[0], bufs[1]

	cb, err := e.record(t, e.graphicsQueue(t), func(cb *CommandBuffer) {
		cb.BindPipeline(reader)
		cb.BindBuffer(b, 0, vk.WholeSize, 0, 0, 0)
		cb.Dispatch(1, 1, 1)
		cb.BindPipeline(writer)
		cb.Dispatch(1, 1, 1)
		cb.CopyBuffer(b, c, []vk.BufferCopy{{Size: 256}})
	})
	require.NoError(t, err)
	ops := e.native.Ops(cb.Handle())
	require.GreaterOrEqual(t, len(ops), 2)
	assert.Equal(t, []string{"PipelineBarrier", "CopyBuffer"}, ops[len(ops)-2:])

	// the write after the read needs an execution dependency, the copy after
	// the write a memory dependency
	barriers := e.native.Barriers(cb.Handle())
	require.Len(t, barriers, 2)
	require.Len(t, barriers[0].BufferBarriers, 1)
	assert.Equal(t, vk.AccessFlags(0), barriers[0].BufferBarriers[0].SrcAccessMask)
	last := barriers[1]
	assert.Equal(t, vk.PipelineStageComputeShaderBit, last.SrcStageMask)
	assert.Equal(t, vk.PipelineStageTransferBit, last.DstStageMask)
	require.Len(t, last.BufferBarriers, 1)
	assert.Equal(t, b.Handle(), last.BufferBarriers[0].Buffer)
	assert.Equal(t, vk.AccessShaderWriteBit, last.BufferBarriers[0].SrcAccessMask)
	assert.Equal(t, vk.AccessTransferReadBit, last.BufferBarriers[0].DstAccessMask)
}

func TestNullBindingErasesSlot(t *testing.T) {
	e := newTestEnv(t)
	p := createComputePipeline(t, e.device)
	b := newTransferBuffers(t, e.device, 1, 256)[0]

	cb, err := e.record(t, e.graphicsQueue(t), func(cb *CommandBuffer) {
		cb.BindPipeline(p)
		cb.BindBuffer(b, 0, vk.WholeSize, 0, 0, 0)
		cb.Dispatch(1, 1, 1)
		cb.BindBuffer(nil, 0, 0, 0, 0, 0)
		cb.Dispatch(1, 1, 1)
	})
	require.NoError(t, err)
	ops := e.native.Ops(cb.Handle())
	assert.Equal(t, []string{"BindPipeline", "BindDescriptorSets", "Dispatch", "BindDescriptorSets", "Dispatch"}, ops)

	calls := e.native.Calls(cb.Handle())
	first := calls[1].Args.(nativetest.BindDescriptorSetsArgs)
	second := calls[3].Args.(nativetest.BindDescriptorSetsArgs)
	require.Len(t, first.Sets, 1)
	require.Len(t, second.Sets, 1)
	assert.NotEqual(t, first.Sets[0], second.Sets[0])
	assert.Len(t, e.native.DescriptorWrites(first.Sets[0]), 1)
	assert.Empty(t, e.native.DescriptorWrites(second.Sets[0]))
}
