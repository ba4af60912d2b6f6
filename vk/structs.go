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

import "math"

type Extent2D struct {
	Width, Height uint32
}

type Extent3D struct {
	Width, Height, Depth uint32
}

type Offset2D struct {
	X, Y int32
}

type Offset3D struct {
	X, Y, Z int32
}

type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

type Viewport struct {
	X, Y, Width, Height, MinDepth, MaxDepth float32
}

type ImageSubresourceRange struct {
	AspectMask     ImageAspectFlags
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type ImageSubresourceLayers struct {
	AspectMask     ImageAspectFlags
	MipLevel       uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type ComponentMapping struct {
	R, G, B, A ComponentSwizzle
}

/*
ClearColorValue holds the raw bits of a color clear value, interpretation
(float, int, uint) depends on the format it is applied to.
*/
type ClearColorValue [4]uint32

func ClearColorFloat32(r, g, b, a float32) ClearColorValue {
	return ClearColorValue{math.Float32bits(r), math.Float32bits(g), math.Float32bits(b), math.Float32bits(a)}
}

func ClearColorInt32(r, g, b, a int32) ClearColorValue {
	return ClearColorValue{uint32(r), uint32(g), uint32(b), uint32(a)}
}

func ClearColorUint32(r, g, b, a uint32) ClearColorValue {
	return ClearColorValue{r, g, b, a}
}

func (c ClearColorValue) Float32() [4]float32 {
	return [4]float32{
		math.Float32frombits(c[0]), math.Float32frombits(c[1]),
		math.Float32frombits(c[2]), math.Float32frombits(c[3]),
	}
}

type ClearDepthStencilValue struct {
	Depth   float32
	Stencil uint32
}

/*
ClearValue has the memory layout of the native clear value union, the first two
words double as depth and stencil.
*/
type ClearValue [4]uint32

func ClearValueColor(c ClearColorValue) ClearValue {
	return ClearValue(c)
}

func ClearValueDepthStencil(depth float32, stencil uint32) ClearValue {
	return ClearValue{math.Float32bits(depth), stencil}
}

func (c ClearValue) Color() ClearColorValue {
	return ClearColorValue(c)
}

func (c ClearValue) DepthStencil() ClearDepthStencilValue {
	return ClearDepthStencilValue{Depth: math.Float32frombits(c[0]), Stencil: c[1]}
}

type BufferCopy struct {
	SrcOffset uint64
	DstOffset uint64
	Size      uint64
}

type ImageCopy struct {
	SrcSubresource ImageSubresourceLayers
	SrcOffset      Offset3D
	DstSubresource ImageSubresourceLayers
	DstOffset      Offset3D
	Extent         Extent3D
}

type ImageBlit struct {
	SrcSubresource ImageSubresourceLayers
	SrcOffsets     [2]Offset3D
	DstSubresource ImageSubresourceLayers
	DstOffsets     [2]Offset3D
}

type BufferImageCopy struct {
	BufferOffset      uint64
	BufferRowLength   uint32
	BufferImageHeight uint32
	ImageSubresource  ImageSubresourceLayers
	ImageOffset       Offset3D
	ImageExtent       Extent3D
}

type ImageResolve struct {
	SrcSubresource ImageSubresourceLayers
	SrcOffset      Offset3D
	DstSubresource ImageSubresourceLayers
	DstOffset      Offset3D
	Extent         Extent3D
}

type ClearAttachment struct {
	AspectMask      ImageAspectFlags
	ColorAttachment uint32
	ClearValue      ClearValue
}

type ClearRect struct {
	Rect           Rect2D
	BaseArrayLayer uint32
	LayerCount     uint32
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}
