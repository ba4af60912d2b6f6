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

package managed

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/rhi/vez"
	"goarrg.com/rhi/vez/native/nativetest"
	"goarrg.com/rhi/vez/vk"
)

func newTestDevice(t *testing.T) (*vez.Device, *vez.Queue, *nativetest.Device) {
	t.Helper()
	driver := nativetest.NewDriver(nativetest.DefaultConfig())
	inst, err := vez.CreateInstance(driver, vez.InstanceCreateInfo{})
	require.NoError(t, err)
	d, err := inst.CreateDevice(inst.PhysicalDevices()[0], vez.DeviceCreateInfo{})
	require.NoError(t, err)
	t.Cleanup(func() {
		d.Destroy()
		inst.Destroy()
	})
	q, err := d.GraphicsQueue(0)
	require.NoError(t, err)
	return d, q, driver.Devices()[0]
}

func TestNewFrames(t *testing.T) {
	d, q, n := newTestDevice(t)

	_, err := NewFrames(nil, q, 2)
	assert.ErrorIs(t, err, vez.ErrorBadArgument)

	fs, err := NewFrames(d, q, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultFramesInFlight, fs.Len())
	assert.Equal(t, DefaultFramesInFlight, n.Live(nativetest.KindCommandBuffer))
	fs.Destroy()
	assert.Equal(t, 0, n.Live(nativetest.KindCommandBuffer))
}

func TestFramesRing(t *testing.T) {
	d, q, n := newTestDevice(t)
	b, err := d.CreateBuffer(vez.MemoryGPUOnly, vez.BufferCreateInfo{
		Size:  256,
		Usage: vk.BufferUsageTransferDstBit,
	})
	require.NoError(t, err)
	defer d.DestroyBuffer(b)

	fs, err := NewFrames(d, q, 3)
	require.NoError(t, err)
	defer fs.Destroy()

	destroyed := map[int]int{}
	for i := range 7 {
		f, err := fs.Begin()
		require.NoError(t, err)
		assert.Equal(t, i%3, f.Index())
		if i >= 3 {
			// the destroyer queued by the previous frame with this index has run
			assert.Equal(t, 1, destroyed[i-3])
		}
		assert.Zero(t, destroyed[i])
		f.CommandBuffer().FillBuffer(b, 0, 256, uint32(i)*0x01010101)
		f.QueueDestroy(DestroyFunc(func() { destroyed[i]++ }))
		signals, err := f.End(FrameSubmitInfo{})
		require.NoError(t, err)
		assert.Empty(t, signals)
	}
	assert.Len(t, n.Submissions(), 7)
	assert.Equal(t, bytes.Repeat([]byte{6}, 256), n.BufferContents(b.Handle()))

	require.NoError(t, fs.Wait())
	for i := range 7 {
		assert.Equal(t, 1, destroyed[i], "frame %d", i)
	}
}

func TestFrameSemaphores(t *testing.T) {
	d, q, n := newTestDevice(t)
	fs, err := NewFrames(d, q, 2)
	require.NoError(t, err)
	defer fs.Destroy()

	f, err := fs.Begin()
	require.NoError(t, err)
	signals, err := f.End(FrameSubmitInfo{SignalSemaphores: 1})
	require.NoError(t, err)
	require.Len(t, signals, 1)
	handle := signals[0].Handle()

	f, err = fs.Begin()
	require.NoError(t, err)
	_, err = f.End(FrameSubmitInfo{
		WaitSemaphores:    signals,
		WaitDstStageMasks: []vk.PipelineStageFlags{vk.PipelineStageAllCommandsBit},
	})
	require.NoError(t, err)
	submissions := n.Submissions()
	assert.Equal(t, handle, submissions[len(submissions)-1].Infos[0].WaitSemaphores[0])
}

func TestFrameCancelAndMisuse(t *testing.T) {
	d, q, n := newTestDevice(t)
	fs, err := NewFrames(d, q, 2)
	require.NoError(t, err)
	defer fs.Destroy()

	f, err := fs.Begin()
	require.NoError(t, err)
	assert.Panics(t, func() { _, _ = fs.Begin() })
	assert.Panics(t, func() { _ = fs.Wait() })

	ran := false
	f.QueueDestroy(DestroyFunc(func() { ran = true }))
	require.NoError(t, f.Cancel())
	assert.Empty(t, n.Submissions())
	assert.Panics(t, func() { f.Index() })

	f, err = fs.Begin()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Index())
	assert.False(t, ran)

	// a recording error drops the frame without submitting it
	f.CommandBuffer().EndRenderPass()
	_, err = f.End(FrameSubmitInfo{})
	assert.ErrorIs(t, err, vez.ErrorBadArgument)
	assert.Empty(t, n.Submissions())

	f, err = fs.Begin()
	require.NoError(t, err)
	assert.Equal(t, 0, f.Index())
	assert.True(t, ran)
	require.NoError(t, f.Cancel())
}
