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
	"goarrg.com/gmath"

	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type ImageCreateInfo struct {
	Flags     vk.ImageCreateFlags
	ImageType vk.ImageType
	Format    vk.Format
	Extent    vk.Extent3D
	// MipLevels, ArrayLayers and Samples default to 1.
	MipLevels   uint32
	ArrayLayers uint32
	Samples     vk.SampleCountFlags
	Tiling      vk.ImageTiling
	Usage       vk.ImageUsageFlags
	// QueueFamilyIndices lists the families the image is shared between, an
	// empty list shares it with every family.
	QueueFamilyIndices []uint32
}

type Image struct {
	noCopy        util.NoCopy
	device        *Device
	handle        native.Image
	allocation    native.Allocation
	info          ImageCreateInfo
	memory        MemoryFlags
	defaultLayout vk.ImageLayout
	// imported and swapchain images are owned elsewhere.
	imported  bool
	swapchain bool
}

func (img *Image) Handle() native.Image {
	img.noCopy.Check()
	return img.handle
}

func (img *Image) Info() ImageCreateInfo {
	img.noCopy.Check()
	return img.info
}

func (img *Image) Format() vk.Format {
	img.noCopy.Check()
	return img.info.Format
}

func (img *Image) Extent() vk.Extent3D {
	img.noCopy.Check()
	return img.info.Extent
}

func (img *Image) Samples() vk.SampleCountFlags {
	img.noCopy.Check()
	return img.info.Samples
}

/*
DefaultLayout is the layout img is in whenever it is not used by a pending
recording.
*/
func (img *Image) DefaultLayout() vk.ImageLayout {
	img.noCopy.Check()
	return img.defaultLayout
}

func (img *Image) fullRange() vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask:     img.info.Format.AspectMask(),
		BaseMipLevel:   0,
		LevelCount:     img.info.MipLevels,
		BaseArrayLayer: 0,
		LayerCount:     img.info.ArrayLayers,
	}
}

/*
defaultImageLayout derives the resting layout from usage, the first matching
usage of color attachment, depth stencil attachment, storage, sampled, input
attachment, transfer dst and transfer src wins.
*/
func defaultImageLayout(usage vk.ImageUsageFlags) vk.ImageLayout {
	switch {
	case hasBits(usage, vk.ImageUsageColorAttachmentBit):
		return vk.ImageLayoutColorAttachmentOptimal
	case hasBits(usage, vk.ImageUsageDepthStencilAttachmentBit):
		return vk.ImageLayoutDepthStencilAttachmentOptimal
	case hasBits(usage, vk.ImageUsageStorageBit):
		return vk.ImageLayoutGeneral
	case hasBits(usage, vk.ImageUsageSampledBit):
		return vk.ImageLayoutShaderReadOnlyOptimal
	case hasBits(usage, vk.ImageUsageInputAttachmentBit):
		return vk.ImageLayoutShaderReadOnlyOptimal
	case hasBits(usage, vk.ImageUsageTransferDstBit):
		return vk.ImageLayoutTransferDstOptimal
	case hasBits(usage, vk.ImageUsageTransferSrcBit):
		return vk.ImageLayoutTransferSrcOptimal
	}
	return vk.ImageLayoutUndefined
}

func (d *Device) validateImage(info *ImageCreateInfo) error {
	if info.Format == vk.FormatUndefined || info.Format.BlockSize() == 0 {
		instance.logger.WPrintf("Trying to create image with invalid format %s", info.Format)
		return ErrorBadArgument
	}
	if defaultImageLayout(info.Usage) == vk.ImageLayoutUndefined {
		instance.logger.WPrintf("Trying to create image with usage 0x%X which has no default layout", uint32(info.Usage))
		return ErrorBadArgument
	}
	if info.MipLevels == 0 {
		info.MipLevels = 1
	}
	if info.ArrayLayers == 0 {
		info.ArrayLayers = 1
	}
	if info.Samples == 0 {
		info.Samples = vk.SampleCount1Bit
	}
	if info.ArrayLayers > d.limits.MaxImageArrayLayers {
		instance.logger.WPrintf("Trying to create image with ArrayLayers [%d] which is larger than MaxImageArrayLayers [%d]",
			info.ArrayLayers, d.limits.MaxImageArrayLayers)
		return ErrorBadArgument
	}

	extent := gmath.Extent3u32{X: info.Extent.Width, Y: info.Extent.Height, Z: info.Extent.Depth}
	lo := gmath.Extent3u32{X: 1, Y: 1, Z: 1}
	var hi gmath.Extent3u32
	switch info.ImageType {
	case vk.ImageType1D:
		hi = gmath.Extent3u32{X: d.limits.MaxImageDimension1D, Y: 1, Z: 1}
	case vk.ImageType2D:
		if hasBits(info.Flags, vk.ImageCreateCubeCompatible) {
			if info.Extent.Width != info.Extent.Height || (info.ArrayLayers%6) != 0 {
				instance.logger.WPrintf("Trying to create cube image with Extent [%+v] and ArrayLayers [%d]", info.Extent, info.ArrayLayers)
				return ErrorBadArgument
			}
			hi = gmath.Extent3u32{X: d.limits.MaxImageDimensionCube, Y: d.limits.MaxImageDimensionCube, Z: 1}
		} else {
			hi = gmath.Extent3u32{X: d.limits.MaxImageDimension2D, Y: d.limits.MaxImageDimension2D, Z: 1}
		}
	case vk.ImageType3D:
		if info.ArrayLayers != 1 {
			instance.logger.WPrintf("Trying to create 3D image with ArrayLayers [%d], a value != 1 is only valid for 1D and 2D images", info.ArrayLayers)
			return ErrorBadArgument
		}
		hi = gmath.Extent3u32{X: d.limits.MaxImageDimension3D, Y: d.limits.MaxImageDimension3D, Z: d.limits.MaxImageDimension3D}
	default:
		instance.logger.WPrintf("Trying to create image with invalid ImageType [%d]", info.ImageType)
		return ErrorBadArgument
	}
	if !extent.InRange(lo, hi) {
		instance.logger.WPrintf("Trying to create image with Extent [%+v] outside of [%+v, %+v]", info.Extent, lo, hi)
		return ErrorBadArgument
	}
	return nil
}

/*
CreateImage creates an image and transitions it to its default layout before
returning. Images created with MemoryNoAllocation are left undefined until
InitializeImageLayout is called after binding their memory.
*/
func (d *Device) CreateImage(memFlags MemoryFlags, info ImageCreateInfo) (*Image, error) {
	d.noCopy.Check()
	if err := d.validateImage(&info); err != nil {
		return nil, err
	}
	alloc, err := memFlags.allocationInfo()
	if err != nil {
		return nil, err
	}
	sharing, families, err := d.sharingMode(info.QueueFamilyIndices)
	if err != nil {
		return nil, err
	}

	h, a, err := d.native.CreateImage(native.ImageCreateInfo{
		Flags:              info.Flags,
		ImageType:          info.ImageType,
		Format:             info.Format,
		Extent:             info.Extent,
		MipLevels:          info.MipLevels,
		ArrayLayers:        info.ArrayLayers,
		Samples:            info.Samples,
		Tiling:             info.Tiling,
		Usage:              info.Usage,
		SharingMode:        sharing,
		QueueFamilyIndices: families,
		InitialLayout:      vk.ImageLayoutUndefined,
	}, alloc)
	if err != nil {
		instance.logger.EPrintf("Failed to create %s image with extent %+v: %s", info.Format, info.Extent, err)
		return nil, err
	}

	info.QueueFamilyIndices = families
	img := &Image{
		device:        d,
		handle:        h,
		allocation:    a,
		info:          info,
		memory:        memFlags,
		defaultLayout: defaultImageLayout(info.Usage),
	}
	img.noCopy.Init()

	if !hasBits(memFlags, MemoryNoAllocation) {
		if err := d.initializeImageLayouts([]*Image{img}); err != nil {
			d.native.DestroyImage(h, a)
			img.noCopy.Close()
			return nil, err
		}
	}
	d.images.insert(h, img)
	return img, nil
}

/*
InitializeImageLayout transitions an image created with MemoryNoAllocation
from undefined to its default layout, it must be called once memory is bound.
*/
func (d *Device) InitializeImageLayout(img *Image) error {
	d.noCopy.Check()
	img.noCopy.Check()
	return d.initializeImageLayouts([]*Image{img})
}

func (d *Device) initializeImageLayouts(images []*Image) error {
	barrier := native.PipelineBarrier{
		SrcStageMask: vk.PipelineStageTopOfPipeBit,
		DstStageMask: vk.PipelineStageAllCommandsBit,
	}
	for _, img := range images {
		barrier.ImageBarriers = append(barrier.ImageBarriers, native.ImageMemoryBarrier{
			DstAccessMask:       vk.AccessMemoryReadBit | vk.AccessMemoryWriteBit,
			OldLayout:           vk.ImageLayoutUndefined,
			NewLayout:           img.defaultLayout,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               img.handle,
			SubresourceRange:    img.fullRange(),
		})
	}
	err := d.submitOneTime(func(cb *CommandBuffer) error {
		cb.pipelineBarrier(barrier)
		return nil
	})
	if err != nil {
		instance.logger.EPrintf("Failed to transition %d images to their default layout: %s", len(images), err)
	}
	return err
}

/*
ImportImage wraps an image created directly through the native device so it can
be used in recordings. The image must already be in layout whenever it is not
used by a recording. DestroyImage on the result only forgets the record.
*/
func (d *Device) ImportImage(h native.Image, info ImageCreateInfo, layout vk.ImageLayout) (*Image, error) {
	d.noCopy.Check()
	if h == 0 || layout == vk.ImageLayoutUndefined {
		return nil, ErrorBadArgument
	}
	if img, ok := d.images.lookup(h); ok {
		return img, nil
	}
	info.MipLevels = max(info.MipLevels, 1)
	info.ArrayLayers = max(info.ArrayLayers, 1)
	if info.Samples == 0 {
		info.Samples = vk.SampleCount1Bit
	}
	img := &Image{device: d, handle: h, info: info, defaultLayout: layout, imported: true}
	img.noCopy.Init()
	d.images.insert(h, img)
	return img, nil
}

func (d *Device) DestroyImage(img *Image) {
	d.noCopy.Check()
	if img == nil {
		return
	}
	img.noCopy.Check()
	if img.swapchain {
		abort("Trying to destroy image %s owned by a swapchain", toHex(img.handle))
	}
	d.images.remove(img.handle)
	if !img.imported {
		d.native.DestroyImage(img.handle, img.allocation)
	}
	img.noCopy.Close()
}

type ImageViewCreateInfo struct {
	Image *Image
	// ViewType of ImageViewType1D on a non 1D image is derived from the image.
	ViewType vk.ImageViewType
	// Format of FormatUndefined uses the image's format.
	Format     vk.Format
	Components vk.ComponentMapping
	// A zero AspectMask uses the format's aspects, zero counts cover the
	// remaining levels and layers.
	SubresourceRange vk.ImageSubresourceRange
}

type ImageView struct {
	noCopy util.NoCopy
	handle native.ImageView
	image  *Image
	info   ImageViewCreateInfo
}

func (v *ImageView) Handle() native.ImageView {
	v.noCopy.Check()
	return v.handle
}

func (v *ImageView) Image() *Image {
	v.noCopy.Check()
	return v.image
}

func (v *ImageView) Format() vk.Format {
	v.noCopy.Check()
	return v.info.Format
}

/*
SubresourceRange returns the range of the view with every count resolved.
*/
func (v *ImageView) SubresourceRange() vk.ImageSubresourceRange {
	v.noCopy.Check()
	return v.info.SubresourceRange
}

func defaultViewType(info ImageCreateInfo) vk.ImageViewType {
	if hasBits(info.Flags, vk.ImageCreateCubeCompatible) {
		if info.ArrayLayers > 6 {
			return vk.ImageViewTypeCubeArray
		}
		return vk.ImageViewTypeCube
	}
	if info.ArrayLayers > 1 {
		switch info.ImageType {
		case vk.ImageType1D:
			return vk.ImageViewType1DArray
		case vk.ImageType2D:
			return vk.ImageViewType2DArray
		}
	}
	return vk.ImageViewType(info.ImageType)
}

func (d *Device) CreateImageView(info ImageViewCreateInfo) (*ImageView, error) {
	d.noCopy.Check()
	if info.Image == nil {
		return nil, ErrorBadArgument
	}
	img := info.Image
	img.noCopy.Check()

	if info.ViewType == vk.ImageViewType1D && img.info.ImageType != vk.ImageType1D {
		info.ViewType = defaultViewType(img.info)
	}
	if info.Format == vk.FormatUndefined {
		info.Format = img.info.Format
	}
	r := &info.SubresourceRange
	if r.AspectMask == 0 {
		r.AspectMask = info.Format.AspectMask()
	}
	if r.BaseMipLevel >= img.info.MipLevels || r.BaseArrayLayer >= img.info.ArrayLayers {
		return nil, ErrorBadArgument
	}
	if r.LevelCount == 0 || r.LevelCount == vk.RemainingMipLevels {
		r.LevelCount = img.info.MipLevels - r.BaseMipLevel
	}
	if r.LayerCount == 0 || r.LayerCount == vk.RemainingArrayLayers {
		r.LayerCount = img.info.ArrayLayers - r.BaseArrayLayer
	}
	if r.BaseMipLevel+r.LevelCount > img.info.MipLevels || r.BaseArrayLayer+r.LayerCount > img.info.ArrayLayers {
		return nil, ErrorBadArgument
	}

	h, err := d.native.CreateImageView(native.ImageViewCreateInfo{
		Image:            img.handle,
		ViewType:         info.ViewType,
		Format:           info.Format,
		Components:       info.Components,
		SubresourceRange: info.SubresourceRange,
	})
	if err != nil {
		instance.logger.EPrintf("Failed to create image view of %s: %s", toHex(img.handle), err)
		return nil, err
	}
	v := &ImageView{handle: h, image: img, info: info}
	v.noCopy.Init()
	return v, nil
}

func (d *Device) DestroyImageView(v *ImageView) {
	d.noCopy.Check()
	if v == nil {
		return
	}
	v.noCopy.Check()
	d.native.DestroyImageView(v.handle)
	v.noCopy.Close()
}

type SamplerCreateInfo = native.SamplerCreateInfo

type Sampler struct {
	noCopy util.NoCopy
	handle native.Sampler
	info   SamplerCreateInfo
}

func (s *Sampler) Handle() native.Sampler {
	s.noCopy.Check()
	return s.handle
}

func (d *Device) CreateSampler(info SamplerCreateInfo) (*Sampler, error) {
	d.noCopy.Check()
	if info.AnisotropyEnable && info.MaxAnisotropy < 1 {
		return nil, ErrorBadArgument
	}
	if info.MaxLod < info.MinLod {
		return nil, ErrorBadArgument
	}
	h, err := d.native.CreateSampler(info)
	if err != nil {
		instance.logger.EPrintf("Failed to create sampler: %s", err)
		return nil, err
	}
	s := &Sampler{handle: h, info: info}
	s.noCopy.Init()
	return s, nil
}

func (d *Device) DestroySampler(s *Sampler) {
	d.noCopy.Check()
	if s == nil {
		return
	}
	s.noCopy.Check()
	d.native.DestroySampler(s.handle)
	s.noCopy.Close()
}
