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

	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type FramebufferCreateInfo struct {
	Attachments []*ImageView
	// Width and Height of 0 take the extent of the first attachment's base
	// mip level, Layers of 0 is 1.
	Width  uint32
	Height uint32
	Layers uint32
}

/*
Framebuffer is a tuple of attachments. The native framebuffer is created per
render pass the first time a recording using both is decoded.
*/
type Framebuffer struct {
	noCopy      util.NoCopy
	device      *Device
	attachments []*ImageView
	extent      vk.Extent2D
	layers      uint32
	depth       int

	// guarded by Device.framebufferMtx
	natives map[*renderPass]native.Framebuffer
}

func (fb *Framebuffer) Attachments() []*ImageView {
	fb.noCopy.Check()
	return slices.Clone(fb.attachments)
}

func (fb *Framebuffer) Extent() vk.Extent2D {
	fb.noCopy.Check()
	return fb.extent
}

func (fb *Framebuffer) Layers() uint32 {
	fb.noCopy.Check()
	return fb.layers
}

func mipExtent(extent vk.Extent3D, level uint32) vk.Extent2D {
	return vk.Extent2D{Width: max(extent.Width>>level, 1), Height: max(extent.Height>>level, 1)}
}

/*
CreateFramebuffer validates that every attachment covers the framebuffer and
that at most one attachment has a depth or stencil format.
*/
func (d *Device) CreateFramebuffer(info FramebufferCreateInfo) (*Framebuffer, error) {
	d.noCopy.Check()
	if len(info.Attachments) == 0 {
		return nil, ErrorBadArgument
	}
	if limit := d.limits.MaxColorAttachments; limit > 0 && uint32(len(info.Attachments)) > limit+1 {
		instance.logger.WPrintf("Trying to create framebuffer with %d attachments, MaxColorAttachments is %d", len(info.Attachments), limit)
		return nil, ErrorBadArgument
	}

	fb := &Framebuffer{
		device:      d,
		attachments: slices.Clone(info.Attachments),
		layers:      max(info.Layers, 1),
		depth:       -1,
		natives:     map[*renderPass]native.Framebuffer{},
	}
	for i, v := range info.Attachments {
		if v == nil {
			return nil, ErrorBadArgument
		}
		v.noCopy.Check()
		r := v.info.SubresourceRange
		e := mipExtent(v.image.info.Extent, r.BaseMipLevel)
		if i == 0 {
			fb.extent = vk.Extent2D{Width: info.Width, Height: info.Height}
			if fb.extent.Width == 0 || fb.extent.Height == 0 {
				fb.extent = e
			}
		}
		if e.Width < fb.extent.Width || e.Height < fb.extent.Height || r.LayerCount < fb.layers {
			instance.logger.WPrintf("Framebuffer attachment %d with extent %+v and %d layers does not cover %+v and %d layers",
				i, e, r.LayerCount, fb.extent, fb.layers)
			return nil, ErrorBadArgument
		}
		if v.info.Format.HasDepth() || v.info.Format.HasStencil() {
			if fb.depth >= 0 {
				instance.logger.WPrintf("Framebuffer attachments %d and %d both have a depth stencil format", fb.depth, i)
				return nil, ErrorBadArgument
			}
			fb.depth = i
		}
	}
	fb.noCopy.Init()
	return fb, nil
}

/*
native returns the framebuffer of fb compatible with rp.
*/
func (fb *Framebuffer) native(rp *renderPass) (native.Framebuffer, error) {
	d := fb.device
	d.framebufferMtx.Lock()
	defer d.framebufferMtx.Unlock()
	if h, ok := fb.natives[rp]; ok {
		return h, nil
	}

	views := make([]native.ImageView, len(fb.attachments))
	for i, v := range fb.attachments {
		views[i] = v.handle
	}
	h, err := d.native.CreateFramebuffer(native.FramebufferCreateInfo{
		RenderPass:  rp.handle,
		Attachments: views,
		Width:       fb.extent.Width,
		Height:      fb.extent.Height,
		Layers:      fb.layers,
	})
	if err != nil {
		instance.logger.EPrintf("Failed to create framebuffer for render pass %s: %s", toHex(rp.handle), err)
		return 0, err
	}
	fb.natives[rp] = h
	rp.framebuffers[fb] = h
	return h, nil
}

func (d *Device) DestroyFramebuffer(fb *Framebuffer) {
	d.noCopy.Check()
	if fb == nil {
		return
	}
	fb.noCopy.Check()
	d.framebufferMtx.Lock()
	for rp, h := range fb.natives {
		d.native.DestroyFramebuffer(h)
		delete(rp.framebuffers, fb)
	}
	clear(fb.natives)
	d.framebufferMtx.Unlock()
	fb.noCopy.Close()
}
