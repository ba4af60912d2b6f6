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

package spirv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assembler struct {
	body []uint32
	next uint32
}

func (a *assembler) id() uint32 {
	a.next++
	return a.next
}

func (a *assembler) op(op Op, operands ...uint32) {
	a.body = append(a.body, uint32(len(operands)+1)<<16|uint32(op))
	a.body = append(a.body, operands...)
}

func (a *assembler) words() []uint32 {
	return append([]uint32{Magic, 0x00010300, 0, a.next + 1, 0}, a.body...)
}

func str(s string) []uint32 {
	b := append([]byte(s), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	w := make([]uint32, len(b)/4)
	for i := range w {
		w[i] = uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
	}
	return w
}

func cat(parts ...any) []uint32 {
	var ret []uint32
	for _, p := range parts {
		switch v := p.(type) {
		case uint32:
			ret = append(ret, v)
		case []uint32:
			ret = append(ret, v...)
		case Decoration:
			ret = append(ret, uint32(v))
		case StorageClass:
			ret = append(ret, uint32(v))
		}
	}
	return ret
}

/*
fragmentModule assembles the equivalent of:

	layout(location = 1) in vec2 uv;
	layout(location = 0) out vec4 color;
	layout(set = 0, binding = 0) uniform UBO { mat4 mvp; vec4 tint; } ubo;
	layout(set = 0, binding = 1) uniform sampler2D tex;
	layout(set = 0, binding = 2) readonly buffer Data { float values[]; } data;
	layout(set = 0, binding = 3) uniform sampler samplers[4];
	layout(input_attachment_index = 0, set = 1, binding = 0) uniform subpassInput gbuffer;
	layout(push_constant) uniform Push { vec4 offset; float scale; } push;
	layout(constant_id = 3) const uint kCount = 7;
	in vec4 gl_FragCoord;
*/
func fragmentModule() []uint32 {
	a := &assembler{}
	main := a.id()
	tVoid, tFloat, tUint, tVec2, tVec4, tMat4 := a.id(), a.id(), a.id(), a.id(), a.id(), a.id()
	vUV, vColor, vUBO, vTex, vData, vSamplers, vGBuffer, vPush, vFragCoord := a.id(), a.id(), a.id(), a.id(), a.id(), a.id(), a.id(), a.id(), a.id()
	tUBO, pUBO := a.id(), a.id()
	tImage, tSampledImage, pSampledImage := a.id(), a.id(), a.id()
	tRuntime, tData, pData := a.id(), a.id(), a.id()
	tSampler, cFour, tSamplerArray, pSamplerArray := a.id(), a.id(), a.id(), a.id()
	tSubpass, pSubpass := a.id(), a.id()
	tPush, pPush := a.id(), a.id()
	pInVec2, pOutVec4, pInVec4 := a.id(), a.id(), a.id()
	cCount := a.id()

	a.op(OpEntryPoint, cat(uint32(ExecutionModelFragment), main, str("main"), vUV, vColor, vFragCoord)...)
	a.op(OpName, cat(vUV, str("uv"))...)
	a.op(OpName, cat(vColor, str("color"))...)
	a.op(OpName, cat(tUBO, str("UBO"))...)
	a.op(OpName, cat(vUBO, str("ubo"))...)
	a.op(OpMemberName, cat(tUBO, uint32(0), str("mvp"))...)
	a.op(OpMemberName, cat(tUBO, uint32(1), str("tint"))...)
	a.op(OpName, cat(vTex, str("tex"))...)
	a.op(OpName, cat(tData, str("Data"))...)
	a.op(OpName, cat(vSamplers, str("samplers"))...)
	a.op(OpName, cat(vGBuffer, str("gbuffer"))...)
	a.op(OpName, cat(tPush, str("Push"))...)
	a.op(OpName, cat(cCount, str("kCount"))...)

	a.op(OpDecorate, cat(vUV, DecorationLocation, uint32(1))...)
	a.op(OpDecorate, cat(vColor, DecorationLocation, uint32(0))...)
	a.op(OpDecorate, cat(vFragCoord, DecorationBuiltIn, uint32(15))...)
	a.op(OpDecorate, cat(tUBO, DecorationBlock)...)
	a.op(OpMemberDecorate, cat(tUBO, uint32(0), DecorationColMajor)...)
	a.op(OpMemberDecorate, cat(tUBO, uint32(0), DecorationOffset, uint32(0))...)
	a.op(OpMemberDecorate, cat(tUBO, uint32(0), DecorationMatrixStride, uint32(16))...)
	a.op(OpMemberDecorate, cat(tUBO, uint32(1), DecorationOffset, uint32(64))...)
	a.op(OpDecorate, cat(vUBO, DecorationDescriptorSet, uint32(0))...)
	a.op(OpDecorate, cat(vUBO, DecorationBinding, uint32(0))...)
	a.op(OpDecorate, cat(vTex, DecorationDescriptorSet, uint32(0))...)
	a.op(OpDecorate, cat(vTex, DecorationBinding, uint32(1))...)
	a.op(OpDecorate, cat(tRuntime, DecorationArrayStride, uint32(4))...)
	a.op(OpDecorate, cat(tData, DecorationBlock)...)
	a.op(OpMemberDecorate, cat(tData, uint32(0), DecorationOffset, uint32(0))...)
	a.op(OpMemberDecorate, cat(tData, uint32(0), DecorationNonWritable)...)
	a.op(OpDecorate, cat(vData, DecorationDescriptorSet, uint32(0))...)
	a.op(OpDecorate, cat(vData, DecorationBinding, uint32(2))...)
	a.op(OpDecorate, cat(vSamplers, DecorationDescriptorSet, uint32(0))...)
	a.op(OpDecorate, cat(vSamplers, DecorationBinding, uint32(3))...)
	a.op(OpDecorate, cat(vGBuffer, DecorationDescriptorSet, uint32(1))...)
	a.op(OpDecorate, cat(vGBuffer, DecorationBinding, uint32(0))...)
	a.op(OpDecorate, cat(vGBuffer, DecorationInputAttachmentIndex, uint32(0))...)
	a.op(OpDecorate, cat(tPush, DecorationBlock)...)
	a.op(OpMemberDecorate, cat(tPush, uint32(0), DecorationOffset, uint32(0))...)
	a.op(OpMemberDecorate, cat(tPush, uint32(1), DecorationOffset, uint32(16))...)
	a.op(OpDecorate, cat(cCount, DecorationSpecID, uint32(3))...)

	a.op(OpTypeVoid, tVoid)
	a.op(OpTypeFloat, tFloat, 32)
	a.op(OpTypeInt, tUint, 32, 0)
	a.op(OpTypeVector, tVec2, tFloat, 2)
	a.op(OpTypeVector, tVec4, tFloat, 4)
	a.op(OpTypeMatrix, tMat4, tVec4, 4)
	a.op(OpTypePointer, cat(pInVec2, StorageClassInput, tVec2)...)
	a.op(OpTypePointer, cat(pOutVec4, StorageClassOutput, tVec4)...)
	a.op(OpTypePointer, cat(pInVec4, StorageClassInput, tVec4)...)
	a.op(OpTypeStruct, tUBO, tMat4, tVec4)
	a.op(OpTypePointer, cat(pUBO, StorageClassUniform, tUBO)...)
	a.op(OpTypeImage, tImage, tFloat, uint32(Dim2D), 0, 0, 0, 1, 0)
	a.op(OpTypeSampledImage, tSampledImage, tImage)
	a.op(OpTypePointer, cat(pSampledImage, StorageClassUniformConstant, tSampledImage)...)
	a.op(OpTypeRuntimeArray, tRuntime, tFloat)
	a.op(OpTypeStruct, tData, tRuntime)
	a.op(OpTypePointer, cat(pData, StorageClassStorageBuffer, tData)...)
	a.op(OpTypeSampler, tSampler)
	a.op(OpConstant, tUint, cFour, 4)
	a.op(OpTypeArray, tSamplerArray, tSampler, cFour)
	a.op(OpTypePointer, cat(pSamplerArray, StorageClassUniformConstant, tSamplerArray)...)
	a.op(OpTypeImage, tSubpass, tFloat, uint32(DimSubpassData), 0, 0, 0, 2, 0)
	a.op(OpTypePointer, cat(pSubpass, StorageClassUniformConstant, tSubpass)...)
	a.op(OpTypeStruct, tPush, tVec4, tFloat)
	a.op(OpTypePointer, cat(pPush, StorageClassPushConstant, tPush)...)
	a.op(OpSpecConstant, tUint, cCount, 7)

	a.op(OpVariable, cat(pInVec2, vUV, StorageClassInput)...)
	a.op(OpVariable, cat(pOutVec4, vColor, StorageClassOutput)...)
	a.op(OpVariable, cat(pInVec4, vFragCoord, StorageClassInput)...)
	a.op(OpVariable, cat(pUBO, vUBO, StorageClassUniform)...)
	a.op(OpVariable, cat(pSampledImage, vTex, StorageClassUniformConstant)...)
	a.op(OpVariable, cat(pData, vData, StorageClassStorageBuffer)...)
	a.op(OpVariable, cat(pSamplerArray, vSamplers, StorageClassUniformConstant)...)
	a.op(OpVariable, cat(pSubpass, vGBuffer, StorageClassUniformConstant)...)
	a.op(OpVariable, cat(pPush, vPush, StorageClassPushConstant)...)
	return a.words()
}

func findResource(t *testing.T, r Reflection, kind ResourceKind) Resource {
	t.Helper()
	for _, res := range r.Resources {
		if res.Kind == kind {
			return res
		}
	}
	require.Failf(t, "missing resource", "no resource of kind %s", kind)
	return Resource{}
}

func TestReflectFragment(t *testing.T) {
	m, err := Parse(fragmentModule())
	require.NoError(t, err)
	require.Len(t, m.EntryPoints, 1)
	assert.Equal(t, ExecutionModelFragment, m.EntryPoints[0].Model)

	r, err := m.Reflect("main")
	require.NoError(t, err)
	assert.Len(t, r.Resources, 8, "gl_FragCoord must not be reflected")

	in := findResource(t, r, ResourceInput)
	assert.Equal(t, "uv", in.Name)
	assert.Equal(t, uint32(1), in.Location)
	assert.Equal(t, BaseTypeFloat, in.BaseType)
	assert.Equal(t, uint32(2), in.VecSize)
	assert.Equal(t, AccessRead, in.Access)

	out := findResource(t, r, ResourceOutput)
	assert.Equal(t, uint32(0), out.Location)
	assert.Equal(t, uint32(4), out.VecSize)
	assert.Equal(t, AccessWrite, out.Access)

	ubo := findResource(t, r, ResourceUniformBuffer)
	assert.Equal(t, "UBO", ubo.Name)
	assert.Equal(t, uint32(80), ubo.Size)
	require.Len(t, ubo.Members, 2)
	assert.Equal(t, Member{Name: "mvp", BaseType: BaseTypeFloat, Offset: 0, Size: 64, VecSize: 4, Columns: 4, ArraySize: 1}, ubo.Members[0])
	assert.Equal(t, uint32(64), ubo.Members[1].Offset)

	tex := findResource(t, r, ResourceCombinedImageSampler)
	assert.Equal(t, uint32(1), tex.Binding)
	assert.Equal(t, BaseTypeFloat, tex.BaseType)

	data := findResource(t, r, ResourceStorageBuffer)
	assert.Equal(t, AccessRead, data.Access)
	assert.Equal(t, uint32(0), data.Size)
	assert.Equal(t, uint32(0), data.Members[0].ArraySize)

	samplers := findResource(t, r, ResourceSampler)
	assert.Equal(t, uint32(4), samplers.ArraySize)

	gbuffer := findResource(t, r, ResourceInputAttachment)
	assert.Equal(t, uint32(1), gbuffer.Set)
	assert.Equal(t, uint32(0), gbuffer.InputAttachmentIndex)

	push := findResource(t, r, ResourcePushConstantBuffer)
	assert.Equal(t, "Push", push.Name)
	assert.Equal(t, uint32(20), push.Size)

	require.Len(t, r.SpecConstants, 1)
	assert.Equal(t, SpecConstant{ID: 3, Name: "kCount", BaseType: BaseTypeUInt, Default: 7}, r.SpecConstants[0])
}

func TestReflectCompute(t *testing.T) {
	a := &assembler{}
	main := a.id()
	tFloat, tImage, pImage, vImage := a.id(), a.id(), a.id(), a.id()
	a.op(OpEntryPoint, cat(uint32(ExecutionModelGLCompute), main, str("cs_main"))...)
	a.op(OpExecutionMode, main, executionModeLocalSize, 8, 4, 1)
	a.op(OpDecorate, cat(vImage, DecorationNonReadable)...)
	a.op(OpDecorate, cat(vImage, DecorationBinding, uint32(2))...)
	a.op(OpTypeFloat, tFloat, 32)
	a.op(OpTypeImage, tImage, tFloat, uint32(Dim2D), 0, 0, 0, 2, 1)
	a.op(OpTypePointer, cat(pImage, StorageClassUniformConstant, tImage)...)
	a.op(OpVariable, cat(pImage, vImage, StorageClassUniformConstant)...)

	m, err := Parse(a.words())
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{8, 4, 1}, m.EntryPoints[0].LocalSize)

	_, err = m.Reflect("main")
	assert.Error(t, err)

	r, err := m.Reflect("")
	require.NoError(t, err)
	img := findResource(t, r, ResourceStorageImage)
	assert.Equal(t, AccessWrite, img.Access)
	assert.Equal(t, uint32(2), img.Binding)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]uint32{1, 2, 3})
	assert.Error(t, err)

	_, err = Parse([]uint32{0xDEADBEEF, 0, 0, 0, 0})
	assert.Error(t, err)

	words := fragmentModule()
	_, err = Parse(words[:len(words)-2])
	assert.Error(t, err)

	_, err = Parse([]uint32{Magic, 0x00010000, 0, 1, 0})
	assert.Error(t, err, "a module without entry points is rejected")
}

func TestParseSwappedEndianness(t *testing.T) {
	words := fragmentModule()
	swapped := make([]uint32, len(words))
	for i, w := range words {
		swapped[i] = w<<24 | (w<<8)&0xFF0000 | (w>>8)&0xFF00 | w>>24
	}
	m, err := Parse(swapped)
	require.NoError(t, err)
	assert.Equal(t, "main", m.EntryPoints[0].Name)
}
