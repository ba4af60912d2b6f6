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
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
cmdID is the token that starts every command in a stream. Payloads hold only
native handles and plain values.
*/
type cmdID uint8

const (
	cmdBeginRenderPass cmdID = iota
	cmdNextSubpass
	cmdEndRenderPass
	cmdBindPipeline
	cmdPushConstants
	cmdBindVertexBuffers
	cmdBindIndexBuffer
	cmdSetViewport
	cmdSetScissor
	cmdSetLineWidth
	cmdSetDepthBias
	cmdSetBlendConstants
	cmdSetDepthBounds
	cmdSetStencilCompareMask
	cmdSetStencilWriteMask
	cmdSetStencilReference
	cmdDraw
	cmdDrawIndexed
	cmdDrawIndirect
	cmdDrawIndexedIndirect
	cmdDispatch
	cmdDispatchIndirect
	cmdCopyBuffer
	cmdCopyImage
	cmdBlitImage
	cmdCopyBufferToImage
	cmdCopyImageToBuffer
	cmdUpdateBuffer
	cmdFillBuffer
	cmdClearColorImage
	cmdClearDepthStencilImage
	cmdClearAttachments
	cmdResolveImage
	cmdSetEvent
	cmdResetEvent
	cmdResetQueryPool
	cmdBeginQuery
	cmdEndQuery
	cmdWriteTimestamp

	cmdCount
)

var cmdNames = [cmdCount]string{
	cmdBeginRenderPass:        "BeginRenderPass",
	cmdNextSubpass:            "NextSubpass",
	cmdEndRenderPass:          "EndRenderPass",
	cmdBindPipeline:           "BindPipeline",
	cmdPushConstants:          "PushConstants",
	cmdBindVertexBuffers:      "BindVertexBuffers",
	cmdBindIndexBuffer:        "BindIndexBuffer",
	cmdSetViewport:            "SetViewport",
	cmdSetScissor:             "SetScissor",
	cmdSetLineWidth:           "SetLineWidth",
	cmdSetDepthBias:           "SetDepthBias",
	cmdSetBlendConstants:      "SetBlendConstants",
	cmdSetDepthBounds:         "SetDepthBounds",
	cmdSetStencilCompareMask:  "SetStencilCompareMask",
	cmdSetStencilWriteMask:    "SetStencilWriteMask",
	cmdSetStencilReference:    "SetStencilReference",
	cmdDraw:                   "Draw",
	cmdDrawIndexed:            "DrawIndexed",
	cmdDrawIndirect:           "DrawIndirect",
	cmdDrawIndexedIndirect:    "DrawIndexedIndirect",
	cmdDispatch:               "Dispatch",
	cmdDispatchIndirect:       "DispatchIndirect",
	cmdCopyBuffer:             "CopyBuffer",
	cmdCopyImage:              "CopyImage",
	cmdBlitImage:              "BlitImage",
	cmdCopyBufferToImage:      "CopyBufferToImage",
	cmdCopyImageToBuffer:      "CopyImageToBuffer",
	cmdUpdateBuffer:           "UpdateBuffer",
	cmdFillBuffer:             "FillBuffer",
	cmdClearColorImage:        "ClearColorImage",
	cmdClearDepthStencilImage: "ClearDepthStencilImage",
	cmdClearAttachments:       "ClearAttachments",
	cmdResolveImage:           "ResolveImage",
	cmdSetEvent:               "SetEvent",
	cmdResetEvent:             "ResetEvent",
	cmdResetQueryPool:         "ResetQueryPool",
	cmdBeginQuery:             "BeginQuery",
	cmdEndQuery:               "EndQuery",
	cmdWriteTimestamp:         "WriteTimestamp",
}

func (id cmdID) String() string {
	if id < cmdCount {
		return cmdNames[id]
	}
	return "Unknown"
}

type beginRenderPassCmd struct {
	desc uint32
}

type bindPipelineCmd struct {
	bindPoint vk.PipelineBindPoint
}

type pushConstantsCmd struct {
	layout native.PipelineLayout
	stages vk.ShaderStageFlags
	offset uint32
}

type bindVertexBuffersCmd struct {
	first uint32
}

type bindIndexBufferCmd struct {
	buffer    native.Buffer
	offset    uint64
	indexType vk.IndexType
}

type firstCmd struct {
	first uint32
}

type depthBiasCmd struct {
	constantFactor float32
	clamp          float32
	slopeFactor    float32
}

type depthBoundsCmd struct {
	min float32
	max float32
}

type stencilCmd struct {
	faces vk.StencilFaceFlags
	value uint32
}

type drawCmd struct {
	vertexCount   uint32
	instanceCount uint32
	firstVertex   uint32
	firstInstance uint32
}

type drawIndexedCmd struct {
	indexCount    uint32
	instanceCount uint32
	firstIndex    uint32
	vertexOffset  int32
	firstInstance uint32
}

type drawIndirectCmd struct {
	buffer    native.Buffer
	offset    uint64
	drawCount uint32
	stride    uint32
}

type dispatchCmd struct {
	x, y, z uint32
}

type dispatchIndirectCmd struct {
	buffer native.Buffer
	offset uint64
}

type copyBufferCmd struct {
	src native.Buffer
	dst native.Buffer
}

type imageToImageCmd struct {
	src       native.Image
	srcLayout vk.ImageLayout
	dst       native.Image
	dstLayout vk.ImageLayout
	filter    vk.Filter
}

type bufferImageCmd struct {
	buffer native.Buffer
	image  native.Image
	layout vk.ImageLayout
}

type updateBufferCmd struct {
	dst    native.Buffer
	offset uint64
}

type fillBufferCmd struct {
	dst    native.Buffer
	offset uint64
	size   uint64
	data   uint32
}

type clearColorImageCmd struct {
	image  native.Image
	layout vk.ImageLayout
	color  vk.ClearColorValue
}

type clearDepthStencilImageCmd struct {
	image  native.Image
	layout vk.ImageLayout
	value  vk.ClearDepthStencilValue
}

type eventCmd struct {
	event  native.Event
	stages vk.PipelineStageFlags
}

type queryPoolCmd struct {
	pool  native.QueryPool
	first uint32
	count uint32
	flags vk.QueryControlFlags
	stage vk.PipelineStageFlags
}
