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

package vk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInfo(t *testing.T) {
	assert.Equal(t, uint32(4), FormatB8G8R8A8Unorm.BlockSize())
	assert.Equal(t, Extent3D{1, 1, 1}, FormatB8G8R8A8Unorm.BlockExtent())
	assert.Equal(t, ImageAspectColorBit, FormatR8G8B8A8Srgb.AspectMask())

	assert.Equal(t, uint32(16), FormatR32G32B32A32Sfloat.BlockSize())
	assert.Equal(t, uint32(6), FormatR16G16B16Sfloat.BlockSize())
	assert.Equal(t, uint32(2), FormatR5G6B5UnormPack16.BlockSize())

	assert.True(t, FormatBC1RGBAUnormBlock.IsCompressed())
	assert.Equal(t, uint32(8), FormatBC1RGBAUnormBlock.BlockSize())
	assert.Equal(t, uint32(16), FormatBC7UnormBlock.BlockSize())
	assert.Equal(t, Extent3D{8, 6, 1}, FormatASTC8x6UnormBlock.BlockExtent())
	assert.Equal(t, Extent3D{12, 12, 1}, FormatASTC12x12SrgbBlock.BlockExtent())
}

func TestFormatAspect(t *testing.T) {
	assert.True(t, FormatD32Sfloat.HasDepth())
	assert.False(t, FormatD32Sfloat.HasStencil())
	assert.True(t, FormatD24UnormS8Uint.HasDepth())
	assert.True(t, FormatD24UnormS8Uint.HasStencil())
	assert.True(t, FormatS8Uint.IsDepthStencil())
	assert.False(t, FormatR8Unorm.IsDepthStencil())
	assert.Equal(t, ImageAspectDepthBit|ImageAspectStencilBit, FormatD32SfloatS8Uint.AspectMask())
}

func TestFormatUnknown(t *testing.T) {
	assert.Equal(t, FormatInfo{}, Format(-1).Info())
	assert.Equal(t, FormatInfo{}, Format(100000).Info())
	assert.Equal(t, "Unknown", Format(100000).String())
	assert.Equal(t, "B8G8R8A8Unorm", FormatB8G8R8A8Unorm.String())
}

func TestResult(t *testing.T) {
	assert.NoError(t, Success.Err())
	assert.ErrorIs(t, NotReady.Err(), NotReady)
	assert.Equal(t, "vk: ErrorDeviceLost", ErrorDeviceLost.Error())
	assert.Equal(t, "Result(42)", Result(42).String())

	var err error = ErrorOutOfDate
	assert.True(t, errors.Is(err, ErrorOutOfDate))
	assert.False(t, errors.Is(err, ErrorSurfaceLost))
}

func TestClearValues(t *testing.T) {
	c := ClearColorFloat32(0.3, 0.3, 0.3, 0)
	assert.Equal(t, [4]float32{0.3, 0.3, 0.3, 0}, c.Float32())
	assert.Equal(t, c, ClearValueColor(c).Color())

	ds := ClearValueDepthStencil(1, 7)
	assert.Equal(t, ClearDepthStencilValue{Depth: 1, Stencil: 7}, ds.DepthStencil())
}
