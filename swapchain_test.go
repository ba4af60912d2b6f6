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

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/native/nativetest"
	"goarrg.com/rhi/vez/vk"
)

const testSurface native.Surface = 1

func TestSwapchainImageCount(t *testing.T) {
	tests := []struct {
		name   string
		min    uint32
		max    uint32
		triple bool
		want   uint32
	}{
		{"Double", 2, 8, false, 3},
		{"Triple", 2, 8, true, 3},
		{"MinThree", 3, 0, false, 4},
		{"TripleBelowMin", 4, 0, true, 4},
		{"ClampedToMax", 2, 2, false, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caps := native.SurfaceCapabilities{MinImageCount: tc.min, MaxImageCount: tc.max}
			assert.Equal(t, tc.want, swapchainImageCount(caps, tc.triple))
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	all := []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox, vk.PresentModeImmediate}
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode(all, true))
	assert.Equal(t, vk.PresentModeMailbox, choosePresentMode(all, false))
	assert.Equal(t, vk.PresentModeImmediate, choosePresentMode([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeImmediate}, false))
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode([]vk.PresentMode{vk.PresentModeFifo}, false))
}

func TestChooseSurfaceFormat(t *testing.T) {
	bgra := vk.SurfaceFormat{Format: vk.FormatB8G8R8A8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	srgb := vk.SurfaceFormat{Format: vk.FormatB8G8R8A8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	rgba := vk.SurfaceFormat{Format: vk.FormatR8G8B8A8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	f, ok := chooseSurfaceFormat([]vk.SurfaceFormat{bgra, srgb}, srgb)
	assert.True(t, ok)
	assert.Equal(t, srgb, f)
	f, ok = chooseSurfaceFormat([]vk.SurfaceFormat{bgra, srgb}, rgba)
	assert.True(t, ok)
	assert.Equal(t, bgra, f)
	f, ok = chooseSurfaceFormat([]vk.SurfaceFormat{{Format: vk.FormatUndefined}}, rgba)
	assert.True(t, ok)
	assert.Equal(t, rgba, f)
	_, ok = chooseSurfaceFormat(nil, rgba)
	assert.False(t, ok)
}

func TestCreateSwapchain(t *testing.T) {
	e := newTestEnv(t)
	d := e.device

	sc, err := d.CreateSwapchain(SwapchainCreateInfo{Surface: testSurface})
	require.NoError(t, err)
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, sc.Extent())
	assert.Equal(t, vk.PresentModeMailbox, sc.PresentMode())
	assert.Equal(t, vk.FormatB8G8R8A8Unorm, sc.SurfaceFormat().Format)

	info := e.native.SwapchainCreateInfo(sc.Handle())
	assert.Equal(t, uint32(3), info.MinImageCount)
	assert.Equal(t, vk.ImageUsageColorAttachmentBit|vk.ImageUsageTransferDstBit, info.ImageUsage)
	assert.Equal(t, vk.CompositeAlphaOpaqueBit, info.CompositeAlpha)

	// swapchain images are known to the device and rest in the present layout
	images, err := e.native.SwapchainImages(sc.Handle())
	require.NoError(t, err)
	require.Len(t, images, 3)
	img, err := d.LookupImage(images[0])
	require.NoError(t, err)
	assert.Equal(t, vk.ImageLayoutPresentSrc, img.DefaultLayout())

	old := sc.Handle()
	require.NoError(t, sc.SetVSync(true))
	assert.Equal(t, vk.PresentModeFifo, sc.PresentMode())
	assert.NotEqual(t, old, sc.Handle())
	assert.Equal(t, old, e.native.SwapchainCreateInfo(sc.Handle()).OldSwapchain)
	assert.Equal(t, 1, e.native.Live(nativetest.KindSwapchain))
	_, err = d.LookupImage(images[0])
	assert.ErrorIs(t, err, ErrorIncomplete)

	created := e.native.Created(nativetest.KindSwapchain)
	require.NoError(t, sc.SetVSync(true))
	assert.Equal(t, created, e.native.Created(nativetest.KindSwapchain))

	d.DestroySwapchain(sc)
	assert.Equal(t, 0, e.native.Live(nativetest.KindSwapchain))
}

func TestCreateSwapchainPreferredFormat(t *testing.T) {
	d := newTestEnv(t).device
	want := vk.SurfaceFormat{Format: vk.FormatB8G8R8A8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	sc, err := d.CreateSwapchain(SwapchainCreateInfo{Surface: testSurface, Format: want, TripleBuffer: true, VSync: true})
	require.NoError(t, err)
	assert.Equal(t, want, sc.SurfaceFormat())
	assert.Equal(t, vk.PresentModeFifo, sc.PresentMode())
	d.DestroySwapchain(sc)
}

func TestCreateSwapchainErrors(t *testing.T) {
	config := nativetest.DefaultConfig()
	config.UnsupportedSurfaces = []native.Surface{5}
	d := newTestEnvWith(t, config, DeviceConfig{}).device

	_, err := d.CreateSwapchain(SwapchainCreateInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateSwapchain(SwapchainCreateInfo{Surface: 5})
	assert.ErrorIs(t, err, ErrorIncompatibleDisplay)

	config = nativetest.DefaultConfig()
	config.SurfaceCapabilities.SupportedUsage = vk.ImageUsageColorAttachmentBit
	d = newTestEnvWith(t, config, DeviceConfig{}).device
	_, err = d.CreateSwapchain(SwapchainCreateInfo{Surface: testSurface})
	assert.ErrorIs(t, err, ErrorIncompatibleDisplay)
}

func presentOps(e *testEnv) []string {
	submissions := e.native.Submissions()
	last := submissions[len(submissions)-1]
	var ops []string
	for _, c := range last.Calls[0] {
		ops = append(ops, c.Op)
	}
	return ops
}

func TestPresent(t *testing.T) {
	e := newTestEnvWith(t, nativetest.DefaultConfig(), DeviceConfig{PresentRingSize: 2})
	d := e.device
	q := e.graphicsQueue(t)

	sc, err := d.CreateSwapchain(SwapchainCreateInfo{Surface: testSurface})
	require.NoError(t, err)
	defer d.DestroySwapchain(sc)
	src, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatB8G8R8A8Unorm, 640, 480, vk.ImageUsageTransferSrcBit|vk.ImageUsageSampledBit))
	require.NoError(t, err)

	p, err := q.Present(PresentInfo{Swapchains: []*Swapchain{sc}, Images: []*Image{src}, SignalSemaphores: 1})
	require.NoError(t, err)
	assert.Equal(t, []vk.Result{vk.Success}, p.Results)
	require.Len(t, p.SignalSemaphores, 1)
	d.DestroySemaphore(p.SignalSemaphores[0])

	assert.Equal(t, []string{"PipelineBarrier", "CopyImage", "PipelineBarrier"}, presentOps(e))
	presents := e.native.Presents()
	require.Len(t, presents, 1)
	assert.Equal(t, []native.Swapchain{sc.Handle()}, presents[0].Swapchains)
	assert.Equal(t, []uint32{0}, presents[0].ImageIndices)
	require.Len(t, presents[0].WaitSemaphores, 1)

	acquires := e.native.Acquires()
	require.Len(t, acquires, 1)
	last := e.native.Submissions()[len(e.native.Submissions())-1]
	assert.Contains(t, last.Infos[0].WaitSemaphores, acquires[0].Semaphore)
	assert.Equal(t, presents[0].WaitSemaphores[0], last.Infos[0].SignalSemaphores[0])

	// the acquired image goes back to the present layout
	barriers := e.native.Barriers(last.Infos[0].CommandBuffers[0])
	target := barriers[len(barriers)-1].ImageBarriers
	require.NotEmpty(t, target)
	found := false
	for _, b := range target {
		if b.NewLayout == vk.ImageLayoutPresentSrc {
			found = true
			assert.Equal(t, vk.ImageLayoutTransferDstOptimal, b.OldLayout)
		}
	}
	assert.True(t, found)

	// more presents than slots recycle the ring
	for range 4 {
		_, err := q.Present(PresentInfo{Swapchains: []*Swapchain{sc}, Images: []*Image{src}})
		require.NoError(t, err)
	}
	assert.Len(t, e.native.Presents(), 5)
	assert.Equal(t, []uint32{1}, e.native.Presents()[4].ImageIndices)
}

func TestPresentWaitsAndBlits(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)

	sc, err := d.CreateSwapchain(SwapchainCreateInfo{Surface: testSurface})
	require.NoError(t, err)
	defer d.DestroySwapchain(sc)
	src, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 320, 240, vk.ImageUsageTransferSrcBit|vk.ImageUsageColorAttachmentBit))
	require.NoError(t, err)

	s, err := q.Submit([]SubmitInfo{{CommandBuffers: []*CommandBuffer{e.emptyCommandBuffer(t, q)}, SignalSemaphores: 1}}, nil)
	require.NoError(t, err)
	rendered := s.SignalSemaphores[0][0]
	handle := rendered.Handle()

	_, err = q.Present(PresentInfo{
		WaitSemaphores:    []*Semaphore{rendered},
		WaitDstStageMasks: []vk.PipelineStageFlags{vk.PipelineStageTransferBit},
		Swapchains:        []*Swapchain{sc},
		Images:            []*Image{src},
	})
	require.NoError(t, err)
	assert.Contains(t, presentOps(e), "BlitImage")
	last := e.native.Submissions()[len(e.native.Submissions())-1]
	assert.Equal(t, handle, last.Infos[0].WaitSemaphores[0])
	assert.Len(t, last.Infos[0].WaitDstStageMasks, 2)
	d.DestroyFence(s.Fence)
}

func TestPresentRecreatesSwapchain(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)

	sc, err := d.CreateSwapchain(SwapchainCreateInfo{Surface: testSurface})
	require.NoError(t, err)
	defer d.DestroySwapchain(sc)
	src, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatB8G8R8A8Unorm, 640, 480, vk.ImageUsageTransferSrcBit))
	require.NoError(t, err)
	present := PresentInfo{Swapchains: []*Swapchain{sc}, Images: []*Image{src}}

	e.driver.SetSurfaceExtent(800, 600)
	_, err = q.Present(present)
	require.NoError(t, err)
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, sc.Extent())
	assert.Equal(t, 2, e.native.Created(nativetest.KindSwapchain))
	assert.Contains(t, presentOps(e), "BlitImage")

	e.native.FailNext("AcquireNextImage", vk.ErrorOutOfDate)
	_, err = q.Present(present)
	require.NoError(t, err)
	assert.Equal(t, 3, e.native.Created(nativetest.KindSwapchain))
	assert.Equal(t, 1, e.native.Live(nativetest.KindSwapchain))

	e.native.FailNext("AcquireNextImage", vk.ErrorSurfaceLost)
	_, err = q.Present(present)
	assert.ErrorIs(t, err, vk.ErrorSurfaceLost)
	require.NoError(t, d.WaitIdle())
}

func TestPresentValidation(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	sc, err := d.CreateSwapchain(SwapchainCreateInfo{Surface: testSurface})
	require.NoError(t, err)
	defer d.DestroySwapchain(sc)
	src, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatB8G8R8A8Unorm, 640, 480, vk.ImageUsageTransferSrcBit))
	require.NoError(t, err)

	_, err = q.Present(PresentInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = q.Present(PresentInfo{Swapchains: []*Swapchain{sc}})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = q.Present(PresentInfo{Swapchains: []*Swapchain{sc}, Images: []*Image{nil}})
	assert.ErrorIs(t, err, ErrorBadArgument)

	cq, err := d.ComputeQueue(0)
	require.NoError(t, err)
	_, err = cq.Present(PresentInfo{Swapchains: []*Swapchain{sc}, Images: []*Image{src}})
	assert.ErrorIs(t, err, ErrorBadArgument)
	assert.Empty(t, e.native.Presents())
}
