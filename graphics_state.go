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
	"math"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

const maxColorBlendAttachments = 8

type InputAssemblyState struct {
	Topology               vk.PrimitiveTopology
	PrimitiveRestartEnable bool
}

type RasterizationState struct {
	DepthClampEnable        bool
	RasterizerDiscardEnable bool
	PolygonMode             vk.PolygonMode
	CullMode                vk.CullModeFlags
	FrontFace               vk.FrontFace
	DepthBiasEnable         bool
}

type MultisampleState struct {
	// RasterizationSamples of 0 takes the sample count of the subpass
	// attachments.
	RasterizationSamples  vk.SampleCountFlags
	SampleShadingEnable   bool
	MinSampleShading      float32
	AlphaToCoverageEnable bool
	AlphaToOneEnable      bool
}

/*
StencilOpState leaves out the masks and reference, they are always dynamic.
*/
type StencilOpState struct {
	FailOp      vk.StencilOp
	PassOp      vk.StencilOp
	DepthFailOp vk.StencilOp
	CompareOp   vk.CompareOp
}

type DepthStencilState struct {
	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompareOp        vk.CompareOp
	DepthBoundsTestEnable bool
	StencilTestEnable     bool
	Front                 StencilOpState
	Back                  StencilOpState
}

type ColorBlendAttachmentState = native.ColorBlendAttachmentState

/*
ColorBlendState with no Attachments applies the default attachment state to
every color attachment of the subpass.
*/
type ColorBlendState struct {
	LogicOpEnable bool
	LogicOp       vk.LogicOp
	Attachments   []ColorBlendAttachmentState
}

var defaultColorBlendAttachment = ColorBlendAttachmentState{
	SrcColorBlendFactor: vk.BlendFactorOne,
	DstColorBlendFactor: vk.BlendFactorZero,
	ColorBlendOp:        vk.BlendOpAdd,
	SrcAlphaBlendFactor: vk.BlendFactorOne,
	DstAlphaBlendFactor: vk.BlendFactorZero,
	AlphaBlendOp:        vk.BlendOpAdd,
	ColorWriteMask:      vk.ColorComponentAll,
}

var defaultStencilOpState = StencilOpState{
	FailOp:      vk.StencilOpReplace,
	PassOp:      vk.StencilOpReplace,
	DepthFailOp: vk.StencilOpReplace,
	CompareOp:   vk.CompareOpAlways,
}

func DefaultInputAssemblyState() InputAssemblyState {
	return InputAssemblyState{Topology: vk.PrimitiveTopologyTriangleList}
}

func DefaultRasterizationState() RasterizationState {
	return RasterizationState{
		PolygonMode: vk.PolygonModeFill,
		CullMode:    vk.CullModeNone,
		FrontFace:   vk.FrontFaceCounterClockwise,
	}
}

func DefaultMultisampleState() MultisampleState {
	return MultisampleState{}
}

func DefaultDepthStencilState() DepthStencilState {
	return DepthStencilState{
		DepthWriteEnable: true,
		DepthCompareOp:   vk.CompareOpLessOrEqual,
		Front:            defaultStencilOpState,
		Back:             defaultStencilOpState,
	}
}

func DefaultColorBlendState() ColorBlendState {
	return ColorBlendState{LogicOp: vk.LogicOpCopy}
}

/*
graphicsState is the fixed function state of the next draw. It is copied by
value into every subpass pipeline binding so it must not hold slices.
*/
type graphicsState struct {
	pipeline      *Pipeline
	vertexFormat  *VertexInputFormat
	viewportCount uint32

	inputAssembly InputAssemblyState
	rasterization RasterizationState
	multisample   MultisampleState
	depthStencil  DepthStencilState
	logicOpEnable bool
	logicOp       vk.LogicOp
	blend         [maxColorBlendAttachments]ColorBlendAttachmentState
	blendCount    uint32

	dirty bool
}

func (s *graphicsState) reset() {
	*s = graphicsState{
		viewportCount: 1,
		inputAssembly: DefaultInputAssemblyState(),
		rasterization: DefaultRasterizationState(),
		multisample:   DefaultMultisampleState(),
		depthStencil:  DefaultDepthStencilState(),
		logicOp:       vk.LogicOpCopy,
		dirty:         true,
	}
}

func (s *graphicsState) setInputAssembly(v InputAssemblyState) {
	if s.inputAssembly != v {
		s.inputAssembly = v
		s.dirty = true
	}
}

func (s *graphicsState) setRasterization(v RasterizationState) {
	if s.rasterization != v {
		s.rasterization = v
		s.dirty = true
	}
}

func (s *graphicsState) setMultisample(v MultisampleState) {
	if s.multisample != v {
		s.multisample = v
		s.dirty = true
	}
}

func (s *graphicsState) setDepthStencil(v DepthStencilState) {
	if s.depthStencil != v {
		s.depthStencil = v
		s.dirty = true
	}
}

func (s *graphicsState) setColorBlend(v ColorBlendState) {
	n := min(len(v.Attachments), maxColorBlendAttachments)
	var blend [maxColorBlendAttachments]ColorBlendAttachmentState
	copy(blend[:], v.Attachments[:n])
	if s.logicOpEnable != v.LogicOpEnable || s.logicOp != v.LogicOp || s.blendCount != uint32(n) || s.blend != blend {
		s.logicOpEnable = v.LogicOpEnable
		s.logicOp = v.LogicOp
		s.blend = blend
		s.blendCount = uint32(n)
		s.dirty = true
	}
}

func (s *graphicsState) setVertexFormat(f *VertexInputFormat) {
	if s.vertexFormat != f {
		s.vertexFormat = f
		s.dirty = true
	}
}

func (s *graphicsState) setViewportCount(n uint32) {
	n = max(n, 1)
	if s.viewportCount != n {
		s.viewportCount = n
		s.dirty = true
	}
}

/*
blendAttachments returns one attachment state per color attachment of the
subpass, padding with the default state.
*/
func (s *graphicsState) blendAttachments(colorAttachments int) []ColorBlendAttachmentState {
	out := make([]ColorBlendAttachmentState, colorAttachments)
	for i := range out {
		if uint32(i) < s.blendCount {
			out[i] = s.blend[i]
		} else {
			out[i] = defaultColorBlendAttachment
		}
	}
	return out
}

/*
requiredDynamicStates returns the dynamic states that must hold a value before
a draw with s. Pipelines make every state dynamic but only these are read.
*/
func (s *graphicsState) requiredDynamicStates() dynamicStateMask {
	m := dynamicStateBit(vk.DynamicStateViewport) | dynamicStateBit(vk.DynamicStateScissor) |
		dynamicStateBit(vk.DynamicStateLineWidth) | dynamicStateBit(vk.DynamicStateDepthBias) |
		dynamicStateBit(vk.DynamicStateBlendConstants) | dynamicStateBit(vk.DynamicStateDepthBounds)
	if s.depthStencil.StencilTestEnable {
		m |= dynamicStateBit(vk.DynamicStateStencilCompareMask) | dynamicStateBit(vk.DynamicStateStencilWriteMask) |
			dynamicStateBit(vk.DynamicStateStencilReference)
	}
	return m
}

type dynamicStateMask uint32

func dynamicStateBit(s vk.DynamicState) dynamicStateMask {
	return 1 << uint32(s)
}

var allDynamicStates = []vk.DynamicState{
	vk.DynamicStateViewport,
	vk.DynamicStateScissor,
	vk.DynamicStateLineWidth,
	vk.DynamicStateDepthBias,
	vk.DynamicStateBlendConstants,
	vk.DynamicStateDepthBounds,
	vk.DynamicStateStencilCompareMask,
	vk.DynamicStateStencilWriteMask,
	vk.DynamicStateStencilReference,
}

/*
graphicsStateKey is the comparable identity of a graphicsState, the pipeline
itself is keyed separately.
*/
type graphicsStateKey struct {
	words        [4]uint32
	blend        [maxColorBlendAttachments]uint32
	vertexFormat *VertexInputFormat
}

type bitPacker struct {
	word  uint32
	shift uint32
}

func (p *bitPacker) put(v uint32, bits uint32) {
	p.word |= (v & (1<<bits - 1)) << p.shift
	p.shift += bits
}

func (p *bitPacker) bool(v bool) {
	if v {
		p.put(1, 1)
	} else {
		p.put(0, 1)
	}
}

func packStencilOpState(p *bitPacker, s StencilOpState) {
	p.put(uint32(s.FailOp), 3)
	p.put(uint32(s.PassOp), 3)
	p.put(uint32(s.DepthFailOp), 3)
	p.put(uint32(s.CompareOp), 3)
}

func packColorBlendAttachment(a ColorBlendAttachmentState) uint32 {
	p := bitPacker{}
	p.bool(a.BlendEnable)
	p.put(uint32(a.SrcColorBlendFactor), 5)
	p.put(uint32(a.DstColorBlendFactor), 5)
	p.put(uint32(a.ColorBlendOp), 3)
	p.put(uint32(a.SrcAlphaBlendFactor), 5)
	p.put(uint32(a.DstAlphaBlendFactor), 5)
	p.put(uint32(a.AlphaBlendOp), 3)
	p.put(uint32(a.ColorWriteMask), 4)
	return p.word
}

func (s *graphicsState) key() graphicsStateKey {
	k := graphicsStateKey{vertexFormat: s.vertexFormat}

	p := bitPacker{}
	p.put(uint32(s.inputAssembly.Topology), 4)
	p.bool(s.inputAssembly.PrimitiveRestartEnable)
	p.bool(s.rasterization.DepthClampEnable)
	p.bool(s.rasterization.RasterizerDiscardEnable)
	p.put(uint32(s.rasterization.PolygonMode), 2)
	p.put(uint32(s.rasterization.CullMode), 2)
	p.put(uint32(s.rasterization.FrontFace), 1)
	p.bool(s.rasterization.DepthBiasEnable)
	p.bool(s.depthStencil.DepthTestEnable)
	p.bool(s.depthStencil.DepthWriteEnable)
	p.put(uint32(s.depthStencil.DepthCompareOp), 3)
	p.bool(s.depthStencil.DepthBoundsTestEnable)
	p.bool(s.depthStencil.StencilTestEnable)
	p.bool(s.logicOpEnable)
	p.put(uint32(s.logicOp), 4)
	k.words[0] = p.word

	p = bitPacker{}
	packStencilOpState(&p, s.depthStencil.Front)
	packStencilOpState(&p, s.depthStencil.Back)
	p.put(s.viewportCount, 5)
	k.words[1] = p.word

	k.words[2] = math.Float32bits(s.multisample.MinSampleShading)

	p = bitPacker{}
	p.put(uint32(s.multisample.RasterizationSamples), 7)
	p.bool(s.multisample.SampleShadingEnable)
	p.bool(s.multisample.AlphaToCoverageEnable)
	p.bool(s.multisample.AlphaToOneEnable)
	p.put(s.blendCount, 4)
	k.words[3] = p.word

	for i := range s.blendCount {
		k.blend[i] = packColorBlendAttachment(s.blend[i])
	}
	return k
}
