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
	"slices"
	"sync"

	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type SwapchainCreateInfo struct {
	Surface native.Surface
	// Format is used when the surface supports it, the first supported format
	// is used otherwise.
	Format       vk.SurfaceFormat
	TripleBuffer bool
	VSync        bool
}

/*
Swapchain images are only written by Queue.Present, they rest in the present
layout.
*/
type Swapchain struct {
	noCopy util.NoCopy
	device *Device

	mtx         sync.Mutex
	handle      native.Swapchain
	info        SwapchainCreateInfo
	format      vk.SurfaceFormat
	extent      vk.Extent2D
	presentMode vk.PresentMode
	images      []*Image
}

func (sc *Swapchain) Handle() native.Swapchain {
	sc.noCopy.Check()
	sc.mtx.Lock()
	defer sc.mtx.Unlock()
	return sc.handle
}

func (sc *Swapchain) SurfaceFormat() vk.SurfaceFormat {
	sc.noCopy.Check()
	sc.mtx.Lock()
	defer sc.mtx.Unlock()
	return sc.format
}

func (sc *Swapchain) Extent() vk.Extent2D {
	sc.noCopy.Check()
	sc.mtx.Lock()
	defer sc.mtx.Unlock()
	return sc.extent
}

func (sc *Swapchain) PresentMode() vk.PresentMode {
	sc.noCopy.Check()
	sc.mtx.Lock()
	defer sc.mtx.Unlock()
	return sc.presentMode
}

func choosePresentMode(modes []vk.PresentMode, vsync bool) vk.PresentMode {
	if vsync {
		return vk.PresentModeFifo
	}
	for _, want := range []vk.PresentMode{vk.PresentModeMailbox, vk.PresentModeImmediate} {
		if slices.Contains(modes, want) {
			return want
		}
	}
	return vk.PresentModeFifo
}

func chooseSurfaceFormat(formats []vk.SurfaceFormat, want vk.SurfaceFormat) (vk.SurfaceFormat, bool) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, false
	}
	if slices.Contains(formats, want) {
		return want, true
	}
	// a single undefined format means any format is supported
	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		return want, true
	}
	return formats[0], true
}

func swapchainImageCount(caps native.SurfaceCapabilities, tripleBuffer bool) uint32 {
	n := caps.MinImageCount + 1
	if tripleBuffer {
		n = 3
	}
	n = max(n, caps.MinImageCount)
	if caps.MaxImageCount > 0 {
		n = min(n, caps.MaxImageCount)
	}
	return n
}

func swapchainExtent(caps native.SurfaceCapabilities, cur vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != ^uint32(0) {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  min(max(cur.Width, caps.MinImageExtent.Width), caps.MaxImageExtent.Width),
		Height: min(max(cur.Height, caps.MinImageExtent.Height), caps.MaxImageExtent.Height),
	}
}

/*
CreateSwapchain returns ErrorIncompatibleDisplay when no queue family of the
device can present to the surface.
*/
func (d *Device) CreateSwapchain(info SwapchainCreateInfo) (*Swapchain, error) {
	d.noCopy.Check()
	if info.Surface == 0 {
		return nil, ErrorBadArgument
	}
	pd := d.physical.native
	supported := false
	for f := range d.families {
		ok, err := pd.SurfaceSupport(uint32(f), info.Surface)
		if err != nil {
			return nil, err
		}
		supported = supported || ok
	}
	if !supported {
		instance.logger.EPrintf("No queue family of %s can present to surface %s", d.physical, toHex(uint64(info.Surface)))
		return nil, ErrorIncompatibleDisplay
	}

	formats, err := pd.SurfaceFormats(info.Surface)
	if err != nil {
		return nil, err
	}
	format, ok := chooseSurfaceFormat(formats, info.Format)
	if !ok {
		return nil, ErrorIncompatibleDisplay
	}

	sc := &Swapchain{device: d, info: info, format: format}
	if err := sc.create(); err != nil {
		return nil, err
	}
	sc.noCopy.Init()
	return sc, nil
}

/*
create (re)creates the native swapchain with the current surface extent and
present mode, replacing the previous one. Must be called with mtx held.
*/
func (sc *Swapchain) create() error {
	d := sc.device
	pd := d.physical.native
	caps, err := pd.SurfaceCapabilities(sc.info.Surface)
	if err != nil {
		return err
	}
	modes, err := pd.SurfacePresentModes(sc.info.Surface)
	if err != nil {
		return err
	}
	extent := swapchainExtent(caps, sc.extent)
	mode := choosePresentMode(modes, sc.info.VSync)
	usage := (vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit) & caps.SupportedUsage
	if !hasBits(usage, vk.ImageUsageTransferDstBit) {
		instance.logger.EPrintf("Surface %s does not support transfer dst usage", toHex(uint64(sc.info.Surface)))
		return ErrorIncompatibleDisplay
	}
	alpha := vk.CompositeAlphaOpaqueBit
	if !hasBits(caps.SupportedCompositeAlpha, alpha) {
		alpha = caps.SupportedCompositeAlpha & -caps.SupportedCompositeAlpha
	}

	old := sc.handle
	h, err := d.native.CreateSwapchain(native.SwapchainCreateInfo{
		Surface:          sc.info.Surface,
		MinImageCount:    swapchainImageCount(caps, sc.info.TripleBuffer),
		ImageFormat:      sc.format.Format,
		ImageColorSpace:  sc.format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       usage,
		SharingMode:      vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   alpha,
		PresentMode:      mode,
		Clipped:          true,
		OldSwapchain:     old,
	})
	if err != nil {
		instance.logger.EPrintf("Failed to create swapchain with extent %+v: %s", extent, err)
		return err
	}
	handles, err := d.native.SwapchainImages(h)
	if err != nil {
		d.native.DestroySwapchain(h)
		return err
	}

	sc.releaseImages()
	if old != 0 {
		d.native.DestroySwapchain(old)
	}
	sc.handle = h
	sc.extent = extent
	sc.presentMode = mode
	for _, img := range handles {
		image := &Image{
			device: d,
			handle: img,
			info: ImageCreateInfo{
				ImageType:   vk.ImageType2D,
				Format:      sc.format.Format,
				Extent:      vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
				MipLevels:   1,
				ArrayLayers: 1,
				Samples:     vk.SampleCount1Bit,
				Tiling:      vk.ImageTilingOptimal,
				Usage:       usage,
			},
			defaultLayout: vk.ImageLayoutPresentSrc,
			swapchain:     true,
		}
		image.noCopy.Init()
		d.images.insert(img, image)
		sc.images = append(sc.images, image)
	}
	instance.logger.VPrintf("Created swapchain %s with %d images of %+v, present mode %d", toHex(h), len(handles), extent, mode)
	return nil
}

func (sc *Swapchain) releaseImages() {
	for _, img := range sc.images {
		sc.device.images.remove(img.handle)
		img.noCopy.Close()
	}
	clear(sc.images)
	sc.images = sc.images[:0]
}

/*
acquire returns the next image, recreating the swapchain first when the
surface extent changed. semaphore is signaled once the image is available.
*/
func (sc *Swapchain) acquire(semaphore native.Semaphore) (uint32, *Image, error) {
	d := sc.device
	sc.mtx.Lock()
	defer sc.mtx.Unlock()

	caps, err := d.physical.native.SurfaceCapabilities(sc.info.Surface)
	if err != nil {
		return 0, nil, err
	}
	if e := swapchainExtent(caps, sc.extent); e != sc.extent {
		if err := sc.recreate(); err != nil {
			return 0, nil, err
		}
	}

	idx, err := d.native.AcquireNextImage(sc.handle, ^uint64(0), semaphore, 0)
	if err == vk.ErrorOutOfDate {
		if err := sc.recreate(); err != nil {
			return 0, nil, err
		}
		idx, err = d.native.AcquireNextImage(sc.handle, ^uint64(0), semaphore, 0)
	}
	if err != nil && err != vk.Suboptimal {
		instance.logger.EPrintf("Failed to acquire image of swapchain %s: %s", toHex(sc.handle), err)
		return 0, nil, err
	}
	if int(idx) >= len(sc.images) {
		return 0, nil, ErrorIncomplete
	}
	return idx, sc.images[idx], nil
}

/*
recreate waits for the device to be idle since the old images may still be
read by a pending present.
*/
func (sc *Swapchain) recreate() error {
	if err := sc.device.WaitIdle(); err != nil {
		return err
	}
	return sc.create()
}

/*
SetVSync recreates the swapchain when the present mode changes.
*/
func (sc *Swapchain) SetVSync(enabled bool) error {
	sc.noCopy.Check()
	sc.mtx.Lock()
	defer sc.mtx.Unlock()
	if sc.info.VSync == enabled {
		return nil
	}
	sc.info.VSync = enabled
	return sc.recreate()
}

func (d *Device) DestroySwapchain(sc *Swapchain) {
	d.noCopy.Check()
	if sc == nil {
		return
	}
	sc.noCopy.Check()
	sc.mtx.Lock()
	defer sc.mtx.Unlock()
	sc.releaseImages()
	d.native.DestroySwapchain(sc.handle)
	sc.handle = 0
	sc.noCopy.Close()
}
