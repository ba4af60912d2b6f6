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

func image2D(format vk.Format, w, h uint32, usage vk.ImageUsageFlags) ImageCreateInfo {
	return ImageCreateInfo{
		ImageType: vk.ImageType2D,
		Format:    format,
		Extent:    vk.Extent3D{Width: w, Height: h, Depth: 1},
		Usage:     usage,
	}
}

func TestDefaultImageLayout(t *testing.T) {
	tests := []struct {
		usage vk.ImageUsageFlags
		want  vk.ImageLayout
	}{
		{vk.ImageUsageColorAttachmentBit | vk.ImageUsageSampledBit, vk.ImageLayoutColorAttachmentOptimal},
		{vk.ImageUsageDepthStencilAttachmentBit | vk.ImageUsageSampledBit, vk.ImageLayoutDepthStencilAttachmentOptimal},
		{vk.ImageUsageStorageBit | vk.ImageUsageSampledBit, vk.ImageLayoutGeneral},
		{vk.ImageUsageSampledBit | vk.ImageUsageTransferDstBit, vk.ImageLayoutShaderReadOnlyOptimal},
		{vk.ImageUsageInputAttachmentBit, vk.ImageLayoutShaderReadOnlyOptimal},
		{vk.ImageUsageTransferDstBit | vk.ImageUsageTransferSrcBit, vk.ImageLayoutTransferDstOptimal},
		{vk.ImageUsageTransferSrcBit, vk.ImageLayoutTransferSrcOptimal},
		{0, vk.ImageLayoutUndefined},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, defaultImageLayout(tc.usage), "usage 0x%X", uint32(tc.usage))
	}
}

func TestCreateImageTransitionsToDefaultLayout(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	before := len(e.native.Submissions())

	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 32, 32, vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit))
	require.NoError(t, err)
	assert.Equal(t, vk.ImageLayoutShaderReadOnlyOptimal, img.DefaultLayout())
	assert.Equal(t, uint32(1), img.Info().MipLevels)
	assert.Equal(t, uint32(1), img.Info().ArrayLayers)
	assert.Equal(t, vk.SampleCount1Bit, img.Samples())

	submissions := e.native.Submissions()[before:]
	require.Len(t, submissions, 1)
	calls := submissions[0].Calls[0]
	require.Len(t, calls, 1)
	barrier, ok := calls[0].Args.(native.PipelineBarrier)
	require.True(t, ok)
	require.Len(t, barrier.ImageBarriers, 1)
	ib := barrier.ImageBarriers[0]
	assert.Equal(t, img.Handle(), ib.Image)
	assert.Equal(t, vk.ImageLayoutUndefined, ib.OldLayout)
	assert.Equal(t, vk.ImageLayoutShaderReadOnlyOptimal, ib.NewLayout)
	assert.Equal(t, vk.ImageAspectColorBit, ib.SubresourceRange.AspectMask)

	found, err := d.LookupImage(img.Handle())
	require.NoError(t, err)
	assert.Same(t, img, found)
	assert.Equal(t, 1, d.Stats().Images)
}

func TestCreateImageWithoutAllocation(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	before := len(e.native.Submissions())

	img, err := d.CreateImage(MemoryGPUOnly|MemoryNoAllocation, image2D(vk.FormatR8G8B8A8Unorm, 8, 8, vk.ImageUsageStorageBit))
	require.NoError(t, err)
	assert.Len(t, e.native.Submissions(), before)

	require.NoError(t, d.InitializeImageLayout(img))
	submissions := e.native.Submissions()[before:]
	require.Len(t, submissions, 1)
	barriers := e.native.Barriers(submissions[0].Infos[0].CommandBuffers[0])
	require.Len(t, barriers, 1)
	assert.Equal(t, vk.ImageLayoutGeneral, barriers[0].ImageBarriers[0].NewLayout)
}

func TestCreateImageValidation(t *testing.T) {
	d := newTestEnv(t).device
	cube := image2D(vk.FormatR8G8B8A8Unorm, 16, 8, vk.ImageUsageSampledBit)
	cube.Flags = vk.ImageCreateCubeCompatible
	cube.ArrayLayers = 6
	volume := ImageCreateInfo{
		ImageType:   vk.ImageType3D,
		Format:      vk.FormatR8G8B8A8Unorm,
		Extent:      vk.Extent3D{Width: 4, Height: 4, Depth: 4},
		ArrayLayers: 2,
		Usage:       vk.ImageUsageSampledBit,
	}

	tests := []struct {
		name string
		info ImageCreateInfo
	}{
		{"UndefinedFormat", image2D(vk.FormatUndefined, 4, 4, vk.ImageUsageSampledBit)},
		{"NoDefaultLayout", image2D(vk.FormatR8G8B8A8Unorm, 4, 4, 0)},
		{"ZeroExtent", image2D(vk.FormatR8G8B8A8Unorm, 0, 4, vk.ImageUsageSampledBit)},
		{"TooLarge", image2D(vk.FormatR8G8B8A8Unorm, 16385, 4, vk.ImageUsageSampledBit)},
		{"CubeNotSquare", cube},
		{"LayeredVolume", volume},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.CreateImage(MemoryGPUOnly, tc.info)
			assert.ErrorIs(t, err, ErrorBadArgument)
		})
	}
}

func TestImageView(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	info := image2D(vk.FormatR8G8B8A8Unorm, 16, 16, vk.ImageUsageSampledBit)
	info.MipLevels = 3
	info.ArrayLayers = 4
	img, err := d.CreateImage(MemoryGPUOnly, info)
	require.NoError(t, err)

	v, err := d.CreateImageView(ImageViewCreateInfo{Image: img, SubresourceRange: vk.ImageSubresourceRange{BaseMipLevel: 1}})
	require.NoError(t, err)
	assert.Same(t, img, v.Image())
	assert.Equal(t, vk.FormatR8G8B8A8Unorm, v.Format())
	assert.Equal(t, vk.ImageSubresourceRange{
		AspectMask:   vk.ImageAspectColorBit,
		BaseMipLevel: 1,
		LevelCount:   2,
		LayerCount:   4,
	}, v.SubresourceRange())
	assert.Equal(t, 1, e.native.Live(nativetest.KindImageView))

	_, err = d.CreateImageView(ImageViewCreateInfo{Image: img, SubresourceRange: vk.ImageSubresourceRange{BaseMipLevel: 3}})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateImageView(ImageViewCreateInfo{Image: img, SubresourceRange: vk.ImageSubresourceRange{BaseArrayLayer: 2, LayerCount: 3}})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateImageView(ImageViewCreateInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)

	d.DestroyImageView(v)
	assert.Equal(t, 0, e.native.Live(nativetest.KindImageView))

	s, err := d.CreateSampler(SamplerCreateInfo{})
	require.NoError(t, err)
	assert.Equal(t, 1, e.native.Live(nativetest.KindSampler))
	d.DestroySampler(s)
	assert.Equal(t, 0, e.native.Live(nativetest.KindSampler))
}

func TestImageSubData(t *testing.T) {
	e := newTestEnvWith(t, nativetest.DefaultConfig(), DeviceConfig{StagingBufferSize: 256})
	d := e.device
	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 16, 16, vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit))
	require.NoError(t, err)

	data := make([]byte, 16*16*4)
	for i := range data {
		data[i] = byte(i*31 + 5)
	}
	before := len(e.native.Submissions())
	require.NoError(t, d.ImageSubData(img, data, ImageSubDataInfo{
		ImageSubresource: vk.ImageSubresourceLayers{AspectMask: vk.ImageAspectColorBit},
		ImageExtent:      vk.Extent3D{Width: 16, Height: 16, Depth: 1},
	}))
	// four rows of 64 bytes fill one staging window
	submissions := e.native.Submissions()[before:]
	assert.Len(t, submissions, 4)
	assert.Equal(t, data, e.native.ImageContents(img.Handle(), 0, 0))

	ops := e.native.Ops(submissions[0].Infos[0].CommandBuffers[0])
	assert.Equal(t, []string{"PipelineBarrier", "CopyBufferToImage", "PipelineBarrier"}, ops)
}

func TestImageSubDataLayers(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	info := image2D(vk.FormatR32Uint, 4, 4, vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit)
	info.ArrayLayers = 2
	img, err := d.CreateImage(MemoryGPUOnly, info)
	require.NoError(t, err)

	data := make([]byte, 2*4*4*4)
	for i := range data {
		data[i] = byte(i)
	}
	before := len(e.native.Submissions())
	require.NoError(t, d.ImageSubData(img, data, ImageSubDataInfo{
		ImageSubresource: vk.ImageSubresourceLayers{AspectMask: vk.ImageAspectColorBit, LayerCount: 2},
		ImageExtent:      vk.Extent3D{Width: 4, Height: 4, Depth: 1},
	}))
	assert.Len(t, e.native.Submissions(), before+1)
	assert.Equal(t, data[:64], e.native.ImageContents(img.Handle(), 0, 0))
	assert.Equal(t, data[64:], e.native.ImageContents(img.Handle(), 0, 1))
}

func TestImageSubDataCompressed(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatBC1RGBAUnormBlock, 4, 4, vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit))
	require.NoError(t, err)

	block := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, d.ImageSubData(img, block, ImageSubDataInfo{
		ImageExtent: vk.Extent3D{Width: 4, Height: 4, Depth: 1},
	}))
	assert.Equal(t, block, e.native.ImageContents(img.Handle(), 0, 0))
}

func TestImageSubDataValidation(t *testing.T) {
	d := newTestEnv(t).device
	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 8, 8, vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit))
	require.NoError(t, err)
	sampledOnly, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 8, 8, vk.ImageUsageSampledBit))
	require.NoError(t, err)
	depth, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatD24UnormS8Uint, 8, 8,
		vk.ImageUsageDepthStencilAttachmentBit|vk.ImageUsageTransferDstBit))
	require.NoError(t, err)

	full := ImageSubDataInfo{ImageExtent: vk.Extent3D{Width: 8, Height: 8, Depth: 1}}
	outside := full
	outside.ImageOffset = vk.Offset3D{X: 4}
	shortRows := full
	shortRows.DataRowLength = 4

	assert.ErrorIs(t, d.ImageSubData(nil, make([]byte, 256), full), ErrorBadArgument)
	assert.ErrorIs(t, d.ImageSubData(img, make([]byte, 255), full), ErrorBadArgument)
	assert.ErrorIs(t, d.ImageSubData(img, make([]byte, 256), outside), ErrorBadArgument)
	assert.ErrorIs(t, d.ImageSubData(img, make([]byte, 256), shortRows), ErrorBadArgument)
	assert.ErrorIs(t, d.ImageSubData(sampledOnly, make([]byte, 256), full), ErrorBadArgument)
	assert.ErrorIs(t, d.ImageSubData(depth, make([]byte, 256), full), ErrorBadArgument)
}
