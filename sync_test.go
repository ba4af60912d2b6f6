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
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"goarrg.com/rhi/vez/native/nativetest"
	"goarrg.com/rhi/vez/vk"
)

func (e *testEnv) emptyCommandBuffer(t *testing.T, q *Queue) *CommandBuffer {
	t.Helper()
	cb, err := e.record(t, q, func(*CommandBuffer) {})
	require.NoError(t, err)
	return cb
}

func TestSubmitRecyclesFences(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	cb := e.emptyCommandBuffer(t, q)

	s1 := e.submit(t, q, cb)
	require.NotNil(t, s1.Fence)
	assert.NoError(t, d.FenceStatus(s1.Fence))
	assert.Equal(t, 1, d.Stats().TrackedFences)
	assert.Equal(t, uint64(1), d.Stats().Submissions)
	d.DestroyFence(s1.Fence)
	assert.Equal(t, 0, d.Stats().PooledFences)

	s2 := e.submit(t, q, cb)
	s3 := e.submit(t, q, cb)
	// the third submission sweeps every signaled fence
	assert.Equal(t, 0, d.Stats().TrackedFences)
	assert.Equal(t, 1, d.Stats().PooledFences)

	d.DestroyFence(s2.Fence)
	d.DestroyFence(s3.Fence)
	assert.Equal(t, 3, d.Stats().PooledFences)

	s4 := e.submit(t, q, cb)
	assert.Equal(t, 2, d.Stats().PooledFences)
	d.DestroyFence(s4.Fence)
}

func TestSweepStopsAtPendingFence(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	cb := e.emptyCommandBuffer(t, q)
	infos := []SubmitInfo{{CommandBuffers: []*CommandBuffer{cb}}}

	f, err := d.CreateFence(false)
	require.NoError(t, err)
	e.native.HoldFence(f.Handle())
	s, err := q.Submit(infos, f)
	require.NoError(t, err)
	assert.Same(t, f, s.Fence)

	assert.ErrorIs(t, d.WaitForFences([]*Fence{f}, true, time.Millisecond), vk.Timeout)
	assert.ErrorIs(t, d.FenceStatus(f), vk.NotReady)

	e.submit(t, q, cb)
	e.submit(t, q, cb)
	assert.Equal(t, 3, d.Stats().TrackedFences)

	e.native.ReleaseFences()
	assert.NoError(t, d.WaitForFences([]*Fence{f}, true, time.Millisecond))
	for range 3 {
		e.submit(t, q, cb)
	}
	assert.Equal(t, 0, d.Stats().TrackedFences)

	d.DestroyFence(f)
	assert.NoError(t, d.WaitIdle())
}

func TestSubmitSemaphores(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	cb := e.emptyCommandBuffer(t, q)

	s, err := q.Submit([]SubmitInfo{{CommandBuffers: []*CommandBuffer{cb}, SignalSemaphores: 2}}, nil)
	require.NoError(t, err)
	require.Len(t, s.SignalSemaphores, 1)
	require.Len(t, s.SignalSemaphores[0], 2)
	first, second := s.SignalSemaphores[0][0], s.SignalSemaphores[0][1]
	handle := first.Handle()
	d.DestroySemaphore(second)

	pooled := d.Stats().PooledSemaphores
	_, err = q.Submit([]SubmitInfo{{
		WaitSemaphores:    []*Semaphore{first},
		WaitDstStageMasks: []vk.PipelineStageFlags{vk.PipelineStageTransferBit},
		CommandBuffers:    []*CommandBuffer{cb},
	}}, nil)
	require.NoError(t, err)
	submissions := e.native.Submissions()
	last := submissions[len(submissions)-1]
	require.Len(t, last.Infos, 1)
	assert.Equal(t, handle, last.Infos[0].WaitSemaphores[0])
	assert.Equal(t, pooled, d.Stats().PooledSemaphores)

	require.NoError(t, d.WaitIdle())
	assert.Equal(t, pooled+1, d.Stats().PooledSemaphores)
	assert.Equal(t, 0, d.Stats().TrackedFences)
}

func TestSubmitValidation(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	ready := e.emptyCommandBuffer(t, q)

	fresh, err := d.AllocateCommandBuffers(q, 1)
	require.NoError(t, err)
	cq, err := d.ComputeQueue(0)
	require.NoError(t, err)
	computeCB := e.emptyCommandBuffer(t, cq)
	sem, err := d.CreateSemaphore()
	require.NoError(t, err)
	defer d.DestroySemaphore(sem)

	tests := []struct {
		name  string
		infos []SubmitInfo
	}{
		{"Empty", nil},
		{"NilCommandBuffer", []SubmitInfo{{CommandBuffers: []*CommandBuffer{nil}}}},
		{"NotExecutable", []SubmitInfo{{CommandBuffers: []*CommandBuffer{fresh[0]}}}},
		{"WrongFamily", []SubmitInfo{{CommandBuffers: []*CommandBuffer{computeCB}}}},
		{"MissingMask", []SubmitInfo{{WaitSemaphores: []*Semaphore{sem}, CommandBuffers: []*CommandBuffer{ready}}}},
		{"ZeroMask", []SubmitInfo{{
			WaitSemaphores:    []*Semaphore{sem},
			WaitDstStageMasks: []vk.PipelineStageFlags{0},
			CommandBuffers:    []*CommandBuffer{ready},
		}}},
		{"LaterInfoInvalid", []SubmitInfo{
			{CommandBuffers: []*CommandBuffer{ready}, SignalSemaphores: 1},
			{CommandBuffers: []*CommandBuffer{fresh[0]}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := len(e.native.Submissions())
			_, err := q.Submit(tc.infos, nil)
			assert.ErrorIs(t, err, ErrorBadArgument)
			assert.Len(t, e.native.Submissions(), before)
		})
	}
	assert.Equal(t, 0, d.Stats().TrackedFences)

	assert.ErrorIs(t, d.WaitForFences([]*Fence{nil}, true, time.Millisecond), ErrorBadArgument)
}

func TestCreateSignaledFence(t *testing.T) {
	d := newTestEnv(t).device
	f, err := d.CreateFence(true)
	require.NoError(t, err)
	assert.NoError(t, d.FenceStatus(f))
	assert.NoError(t, d.WaitForFences([]*Fence{f}, true, 0))

	pending, err := d.CreateFence(false)
	require.NoError(t, err)
	assert.ErrorIs(t, d.WaitForFences([]*Fence{f, pending}, true, 0), vk.Timeout)
	assert.NoError(t, d.WaitForFences([]*Fence{f, pending}, false, 0))

	d.DestroyFence(pending)
	d.DestroyFence(f)
	assert.Equal(t, 2, d.Stats().PooledFences)
}

func TestConcurrentUploadsAndSubmits(t *testing.T) {
	e := newTestEnvWith(t, nativetest.DefaultConfig(), DeviceConfig{StagingBufferSize: 512})
	d := e.device
	q := e.graphicsQueue(t)

	const workers = 8
	buffers := make([]*Buffer, workers)
	payloads := make([][]byte, workers)

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			b, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{
				Size:  2048,
				Usage: vk.BufferUsageTransferDstBit | vk.BufferUsageTransferSrcBit,
			})
			if err != nil {
				return err
			}
			payload := bytes.Repeat([]byte{byte(i + 1)}, 1500)
			if err := d.BufferSubData(b, 0, payload); err != nil {
				return err
			}

			cbs, err := d.AllocateCommandBuffers(q, 1)
			if err != nil {
				return err
			}
			cb := cbs[0]
			if err := cb.Begin(vk.CommandBufferUsageOneTimeSubmitBit); err != nil {
				return err
			}
			cb.FillBuffer(b, 1500, 548, uint32(i+1)*0x01010101)
			if err := cb.End(); err != nil {
				return err
			}
			s, err := q.Submit([]SubmitInfo{{CommandBuffers: []*CommandBuffer{cb}}}, nil)
			if err != nil {
				return err
			}
			if err := d.WaitForFences([]*Fence{s.Fence}, true, time.Second); err != nil {
				return err
			}
			d.DestroyFence(s.Fence)
			buffers[i] = b
			payloads[i] = bytes.Repeat([]byte{byte(i + 1)}, 2048)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, b := range buffers {
		assert.Equal(t, payloads[i], e.native.BufferContents(b.Handle()), "buffer %d", i)
	}
	assert.Equal(t, uint64(workers), d.Stats().Submissions)
	assert.Equal(t, workers, d.Stats().Buffers)
}

func TestQueryPool(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)

	_, err := d.CreateQueryPool(QueryPoolCreateInfo{QueryType: vk.QueryTypeTimestamp})
	assert.ErrorIs(t, err, ErrorBadArgument)

	p, err := d.CreateQueryPool(QueryPoolCreateInfo{QueryType: vk.QueryTypeTimestamp, QueryCount: 4})
	require.NoError(t, err)
	assert.Equal(t, 1, e.native.Live(nativetest.KindQueryPool))

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.ResetQueryPool(p, 0, 4)
		cb.WriteTimestamp(vk.PipelineStageBottomOfPipeBit, p, 0)
		cb.BeginQuery(p, 1, 0)
		cb.EndQuery(p, 1)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ResetQueryPool", "WriteTimestamp", "BeginQuery", "EndQuery"}, e.native.Ops(cb.Handle()))
	ts := e.native.Calls(cb.Handle())[1].Args.(nativetest.QueryArgs)
	assert.Equal(t, p.Handle(), ts.Pool)
	assert.Equal(t, vk.PipelineStageBottomOfPipeBit, ts.Stage)

	_, err = e.record(t, q, func(cb *CommandBuffer) {
		cb.ResetQueryPool(p, 2, 3)
	})
	assert.ErrorIs(t, err, ErrorBadArgument)

	data := bytes.Repeat([]byte{0xFF}, 32)
	require.NoError(t, d.QueryPoolResults(p, 0, 4, data, 8, vk.QueryResult64Bit))
	assert.Equal(t, make([]byte, 32), data)
	assert.ErrorIs(t, d.QueryPoolResults(p, 2, 3, data, 8, vk.QueryResult64Bit), ErrorBadArgument)
	assert.ErrorIs(t, d.QueryPoolResults(p, 0, 4, data[:16], 8, vk.QueryResult64Bit), ErrorBadArgument)

	d.DestroyQueryPool(p)
	assert.Equal(t, 0, e.native.Live(nativetest.KindQueryPool))
}

func TestRenderPassSweepPeriod(t *testing.T) {
	e := newTestEnvWith(t, nativetest.DefaultConfig(), DeviceConfig{RenderPassSweepPeriod: 2})
	d := e.device
	q := e.graphicsQueue(t)
	p := createGraphicsPipeline(t, d)
	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 16, 16, vk.ImageUsageColorAttachmentBit))
	require.NoError(t, err)
	view, err := d.CreateImageView(ImageViewCreateInfo{Image: img})
	require.NoError(t, err)
	fb, err := d.CreateFramebuffer(FramebufferCreateInfo{Attachments: []*ImageView{view}})
	require.NoError(t, err)
	draw := func(cb *CommandBuffer) {
		cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
		cb.BindPipeline(p)
		cb.Draw(3, 1, 0, 0)
		cb.EndRenderPass()
	}

	cb, err := e.record(t, q, draw)
	require.NoError(t, err)
	e.submit(t, q, cb)
	e.submit(t, q, e.emptyCommandBuffer(t, q))
	// still referenced by cb at the first sweep
	assert.Equal(t, 1, d.Stats().RenderPasses)
	assert.Equal(t, 1, e.native.Live(nativetest.KindRenderPass))
	assert.Equal(t, 1, e.native.Live(nativetest.KindPipeline))

	require.NoError(t, cb.Reset())
	e.submit(t, q, e.emptyCommandBuffer(t, q))
	assert.Equal(t, 1, e.native.Live(nativetest.KindRenderPass))

	e.submit(t, q, e.emptyCommandBuffer(t, q))
	stats := d.Stats()
	assert.Equal(t, 0, stats.RenderPasses)
	assert.Equal(t, 0, stats.Pipelines)
	assert.Equal(t, 0, e.native.Live(nativetest.KindRenderPass))
	assert.Equal(t, 0, e.native.Live(nativetest.KindFramebuffer))
	assert.Equal(t, 0, e.native.Live(nativetest.KindPipeline))

	// the purged pipeline is baked again against a new render pass
	_, err = e.record(t, q, draw)
	require.NoError(t, err)
	assert.Equal(t, 2, e.native.Created(nativetest.KindRenderPass))
	assert.Equal(t, 2, e.native.Created(nativetest.KindPipeline))
	assert.Equal(t, uint64(2), d.Stats().PipelineMisses)
}

func TestBufferSubDataSubmissionCount(t *testing.T) {
	const staging = 256
	e := newTestEnvWith(t, nativetest.DefaultConfig(), DeviceConfig{StagingBufferSize: staging})
	d := e.device
	b, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 4096, Usage: vk.BufferUsageTransferDstBit})
	require.NoError(t, err)

	tests := []struct {
		size int
		want int
	}{
		{1, 1},
		{staging - 1, 1},
		{staging, 1},
		{staging + 1, 2},
		{3 * staging, 3},
		{4096, 16},
	}
	for _, tc := range tests {
		before := len(e.native.Submissions())
		data := bytes.Repeat([]byte{byte(tc.size)}, tc.size)
		require.NoError(t, d.BufferSubData(b, 0, data))
		assert.Len(t, e.native.Submissions()[before:], tc.want, "size %d", tc.size)
		assert.Equal(t, data, e.native.BufferContents(b.Handle())[:tc.size], "size %d", tc.size)
	}
	// the staging buffer is internal
	assert.Equal(t, 1, d.Stats().Buffers)
	assert.Equal(t, 2, e.native.Live(nativetest.KindBuffer))
}
