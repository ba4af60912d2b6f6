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
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/native/nativetest"
	"goarrg.com/rhi/vez/vk"
)

type testEnv struct {
	driver   *nativetest.Driver
	instance *Instance
	device   *Device
	native   *nativetest.Device
}

func newTestEnvWith(t *testing.T, config nativetest.Config, dc DeviceConfig) *testEnv {
	t.Helper()
	driver := nativetest.NewDriver(config)
	inst, err := CreateInstance(driver, InstanceCreateInfo{})
	require.NoError(t, err)
	pds := inst.PhysicalDevices()
	require.Len(t, pds, 1)
	d, err := inst.CreateDevice(pds[0], DeviceCreateInfo{Config: dc})
	require.NoError(t, err)
	devices := driver.Devices()
	require.Len(t, devices, 1)
	t.Cleanup(func() {
		d.Destroy()
		inst.Destroy()
	})
	return &testEnv{driver: driver, instance: inst, device: d, native: devices[0]}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nativetest.DefaultConfig(), DeviceConfig{})
}

/*
record allocates a command buffer on q, records f into it and ends it.
*/
func (e *testEnv) record(t *testing.T, q *Queue, f func(cb *CommandBuffer)) (*CommandBuffer, error) {
	t.Helper()
	cbs, err := e.device.AllocateCommandBuffers(q, 1)
	require.NoError(t, err)
	cb := cbs[0]
	require.NoError(t, cb.Begin(0))
	f(cb)
	return cb, cb.End()
}

func (e *testEnv) graphicsQueue(t *testing.T) *Queue {
	t.Helper()
	q, err := e.device.GraphicsQueue(0)
	require.NoError(t, err)
	return q
}

func (e *testEnv) submit(t *testing.T, q *Queue, cb *CommandBuffer) Submission {
	t.Helper()
	s, err := q.Submit([]SubmitInfo{{CommandBuffers: []*CommandBuffer{cb}}}, nil)
	require.NoError(t, err)
	return s
}

func opIndex(ops []string, op string) int {
	return slices.Index(ops, op)
}

func TestCreateInstance(t *testing.T) {
	_, err := CreateInstance(nil, InstanceCreateInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)

	e := newTestEnv(t)
	pds := e.instance.PhysicalDevices()
	require.Len(t, pds, 1)
	pd := pds[0]
	assert.Equal(t, "nativetest", pd.Properties().Name)
	assert.Equal(t, "Unknown: 0x1234", pd.VendorID().String())
	assert.Len(t, pd.QueueFamilies(), 3)
	assert.Contains(t, pd.String(), "api 1.3.0")

	b, err := json.Marshal(pd)
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
}

func TestVendorID(t *testing.T) {
	assert.Equal(t, "AMD", VendorAMD.String())
	assert.Equal(t, "NVIDIA", VendorNVIDIA.String())
	assert.Equal(t, "Intel", VendorIntel.String())
	assert.Equal(t, "Unknown: 0x00AB", VendorID(0xAB).String())
}

func TestSurfaceSupport(t *testing.T) {
	config := nativetest.DefaultConfig()
	config.UnsupportedSurfaces = []native.Surface{2}
	e := newTestEnvWith(t, config, DeviceConfig{})
	pd := e.device.PhysicalDevice()

	ok, err := pd.SurfaceSupport(0, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pd.SurfaceSupport(2, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = pd.SurfaceSupport(0, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = pd.SurfaceSupport(3, 1)
	assert.ErrorIs(t, err, ErrorBadArgument)
}

func TestCreateDeviceExposesEveryQueue(t *testing.T) {
	e := newTestEnv(t)
	info := e.native.CreateInfo()
	require.Len(t, info.Queues, 3)
	for f, want := range []int{1, 2, 1} {
		assert.Equal(t, uint32(f), info.Queues[f].Family)
		assert.Len(t, info.Queues[f].Priorities, want)
	}

	other := newTestEnv(t)
	_, err := e.instance.CreateDevice(other.instance.PhysicalDevices()[0], DeviceCreateInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = e.instance.CreateDevice(nil, DeviceCreateInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = e.instance.CreateDevice(e.instance.PhysicalDevices()[0], DeviceCreateInfo{Config: DeviceConfig{PresentRingSize: 17}})
	assert.ErrorIs(t, err, ErrorBadArgument)
}

func TestQueueSelection(t *testing.T) {
	e := newTestEnv(t)
	d := e.device

	q, err := d.Queue(1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), q.Family())
	assert.Equal(t, uint32(1), q.Index())
	assert.Equal(t, vk.QueueComputeBit|vk.QueueTransferBit, q.Flags())

	_, err = d.Queue(1, 2)
	assert.ErrorIs(t, err, ErrorIncomplete)
	_, err = d.Queue(3, 0)
	assert.ErrorIs(t, err, ErrorIncomplete)

	tests := []struct {
		name   string
		get    func(uint32) (*Queue, error)
		index  uint32
		family uint32
	}{
		{"Graphics", d.GraphicsQueue, 0, 0},
		{"Compute", d.ComputeQueue, 0, 1},
		{"ComputeSecond", d.ComputeQueue, 1, 1},
		{"Transfer", d.TransferQueue, 0, 2},
		{"TransferSecond", d.TransferQueue, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := tc.get(tc.index)
			require.NoError(t, err)
			assert.Equal(t, tc.family, q.Family())
			assert.Equal(t, tc.index, q.Index())
		})
	}

	_, err = d.ComputeQueue(2)
	assert.ErrorIs(t, err, ErrorIncomplete)
	_, err = d.GraphicsQueue(1)
	assert.ErrorIs(t, err, ErrorIncomplete)
}

func TestDeviceStats(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	b, err := d.CreateBuffer(MemoryGPUOnly, BufferCreateInfo{Size: 64, Usage: vk.BufferUsageStorageBufferBit})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Stats().Buffers)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.True(t, json.Valid(out))

	d.DestroyBuffer(b)
	assert.Equal(t, 0, d.Stats().Buffers)
	assert.Equal(t, 0, e.native.Live(nativetest.KindBuffer))
}
