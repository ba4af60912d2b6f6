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

/*
Package spirvtest assembles minimal SPIR-V modules that declare an interface
without any code, enough for reflection driven tests.
*/
package spirvtest

import (
	"goarrg.com/rhi/vez/internal/spirv"
)

type Assembler struct {
	body []uint32
	next uint32
}

func (a *Assembler) ID() uint32 {
	a.next++
	return a.next
}

func (a *Assembler) Op(op spirv.Op, operands ...uint32) {
	a.body = append(a.body, uint32(len(operands)+1)<<16|uint32(op))
	a.body = append(a.body, operands...)
}

func (a *Assembler) Words() []uint32 {
	return append([]uint32{spirv.Magic, 0x00010300, 0, a.next + 1, 0}, a.body...)
}

func String(s string) []uint32 {
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

type ScalarType int

const (
	Float ScalarType = iota
	Int
	UInt
)

/*
Var is a stage input or output of Components (1 to 4) scalars.
*/
type Var struct {
	Name       string
	Location   uint32
	Type       ScalarType
	Components uint32
}

type Binding struct {
	Name    string
	Set     uint32
	Binding uint32
}

type InputAttachment struct {
	Binding
	Index uint32
}

/*
Shader describes the interface of a single entry point named EntryPoint, or
"main" when empty.
*/
type Shader struct {
	Model      spirv.ExecutionModel
	EntryPoint string
	LocalSize  [3]uint32

	Inputs  []Var
	Outputs []Var

	UniformBuffers        []Binding
	StorageBuffers        []Binding
	ReadOnlyBuffers       []Binding
	CombinedImageSamplers []Binding
	SampledImages         []Binding
	Samplers              []Binding
	StorageImages         []Binding
	InputAttachments      []InputAttachment
	// PushConstants is the number of vec4 members of the push constant block.
	PushConstants uint32
}

type builder struct {
	a       *Assembler
	decl    Assembler
	scalars map[ScalarType]uint32
	vectors map[[2]uint32]uint32
}

func (b *builder) scalar(t ScalarType) uint32 {
	if id, ok := b.scalars[t]; ok {
		return id
	}
	id := b.a.ID()
	switch t {
	case Float:
		b.decl.Op(spirv.OpTypeFloat, id, 32)
	case Int:
		b.decl.Op(spirv.OpTypeInt, id, 32, 1)
	case UInt:
		b.decl.Op(spirv.OpTypeInt, id, 32, 0)
	}
	b.scalars[t] = id
	return id
}

func (b *builder) vector(t ScalarType, n uint32) uint32 {
	s := b.scalar(t)
	if n <= 1 {
		return s
	}
	key := [2]uint32{s, n}
	if id, ok := b.vectors[key]; ok {
		return id
	}
	id := b.a.ID()
	b.decl.Op(spirv.OpTypeVector, id, s, n)
	b.vectors[key] = id
	return id
}

func (b *builder) pointer(storage spirv.StorageClass, t uint32) uint32 {
	id := b.a.ID()
	b.decl.Op(spirv.OpTypePointer, id, uint32(storage), t)
	return id
}

func (b *builder) variable(ptr uint32, storage spirv.StorageClass) uint32 {
	id := b.a.ID()
	b.decl.Op(spirv.OpVariable, ptr, id, uint32(storage))
	return id
}

func (b *builder) name(id uint32, name string) {
	if name != "" {
		b.a.Op(spirv.OpName, append([]uint32{id}, String(name)...)...)
	}
}

func (b *builder) bind(id uint32, r Binding) {
	b.name(id, r.Name)
	b.a.Op(spirv.OpDecorate, id, uint32(spirv.DecorationDescriptorSet), r.Set)
	b.a.Op(spirv.OpDecorate, id, uint32(spirv.DecorationBinding), r.Binding)
}

func (b *builder) block(members uint32, memberType uint32, readOnly bool) uint32 {
	ids := make([]uint32, members)
	for i := range ids {
		ids[i] = memberType
	}
	id := b.a.ID()
	b.decl.Op(spirv.OpTypeStruct, append([]uint32{id}, ids...)...)
	b.a.Op(spirv.OpDecorate, id, uint32(spirv.DecorationBlock))
	for i := range members {
		b.a.Op(spirv.OpMemberDecorate, id, i, uint32(spirv.DecorationOffset), i*16)
		if readOnly {
			b.a.Op(spirv.OpMemberDecorate, id, i, uint32(spirv.DecorationNonWritable))
		}
	}
	return id
}

/*
Assemble returns the module words. Annotations are emitted before the type and
variable declarations as the binary layout requires.
*/
func (s Shader) Assemble() []uint32 {
	a := &Assembler{}
	b := &builder{a: a, scalars: map[ScalarType]uint32{}, vectors: map[[2]uint32]uint32{}}
	main := a.ID()
	entry := s.EntryPoint
	if entry == "" {
		entry = "main"
	}

	var interfaceIDs []uint32
	for _, v := range s.Inputs {
		ptr := b.pointer(spirv.StorageClassInput, b.vector(v.Type, v.Components))
		id := b.variable(ptr, spirv.StorageClassInput)
		b.name(id, v.Name)
		a.Op(spirv.OpDecorate, id, uint32(spirv.DecorationLocation), v.Location)
		interfaceIDs = append(interfaceIDs, id)
	}
	for _, v := range s.Outputs {
		ptr := b.pointer(spirv.StorageClassOutput, b.vector(v.Type, v.Components))
		id := b.variable(ptr, spirv.StorageClassOutput)
		b.name(id, v.Name)
		a.Op(spirv.OpDecorate, id, uint32(spirv.DecorationLocation), v.Location)
		interfaceIDs = append(interfaceIDs, id)
	}

	vec4 := b.vector(Float, 4)
	for _, r := range s.UniformBuffers {
		t := b.block(1, vec4, false)
		b.bind(b.variable(b.pointer(spirv.StorageClassUniform, t), spirv.StorageClassUniform), r)
	}
	for _, r := range s.StorageBuffers {
		t := b.block(1, vec4, false)
		b.bind(b.variable(b.pointer(spirv.StorageClassStorageBuffer, t), spirv.StorageClassStorageBuffer), r)
	}
	for _, r := range s.ReadOnlyBuffers {
		t := b.block(1, vec4, true)
		b.bind(b.variable(b.pointer(spirv.StorageClassStorageBuffer, t), spirv.StorageClassStorageBuffer), r)
	}

	image := func(dim spirv.Dim, sampled uint32) uint32 {
		id := a.ID()
		b.decl.Op(spirv.OpTypeImage, id, b.scalar(Float), uint32(dim), 0, 0, 0, sampled, 0)
		return id
	}
	for _, r := range s.CombinedImageSamplers {
		t := a.ID()
		b.decl.Op(spirv.OpTypeSampledImage, t, image(spirv.Dim2D, 1))
		b.bind(b.variable(b.pointer(spirv.StorageClassUniformConstant, t), spirv.StorageClassUniformConstant), r)
	}
	for _, r := range s.SampledImages {
		t := image(spirv.Dim2D, 1)
		b.bind(b.variable(b.pointer(spirv.StorageClassUniformConstant, t), spirv.StorageClassUniformConstant), r)
	}
	for _, r := range s.Samplers {
		t := a.ID()
		b.decl.Op(spirv.OpTypeSampler, t)
		b.bind(b.variable(b.pointer(spirv.StorageClassUniformConstant, t), spirv.StorageClassUniformConstant), r)
	}
	for _, r := range s.StorageImages {
		t := image(spirv.Dim2D, 2)
		b.bind(b.variable(b.pointer(spirv.StorageClassUniformConstant, t), spirv.StorageClassUniformConstant), r)
	}
	for _, r := range s.InputAttachments {
		t := image(spirv.DimSubpassData, 2)
		id := b.variable(b.pointer(spirv.StorageClassUniformConstant, t), spirv.StorageClassUniformConstant)
		b.bind(id, r.Binding)
		a.Op(spirv.OpDecorate, id, uint32(spirv.DecorationInputAttachmentIndex), r.Index)
	}
	if s.PushConstants > 0 {
		t := b.block(s.PushConstants, vec4, false)
		b.variable(b.pointer(spirv.StorageClassPushConstant, t), spirv.StorageClassPushConstant)
	}

	head := &Assembler{}
	ep := append([]uint32{uint32(s.Model), main}, String(entry)...)
	head.Op(spirv.OpEntryPoint, append(ep, interfaceIDs...)...)
	if s.Model == spirv.ExecutionModelGLCompute {
		ls := s.LocalSize
		if ls == [3]uint32{} {
			ls = [3]uint32{1, 1, 1}
		}
		head.Op(spirv.OpExecutionMode, main, 17, ls[0], ls[1], ls[2])
	}

	words := []uint32{spirv.Magic, 0x00010300, 0, a.next + 1, 0}
	words = append(words, head.body...)
	words = append(words, a.body...)
	return append(words, b.decl.body...)
}
