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
	"cmp"
	"slices"

	"goarrg.com/debug"
)

type ResourceKind uint32

const (
	ResourceInput ResourceKind = iota
	ResourceOutput
	ResourceSampler
	ResourceCombinedImageSampler
	ResourceSampledImage
	ResourceStorageImage
	ResourceUniformTexelBuffer
	ResourceStorageTexelBuffer
	ResourceUniformBuffer
	ResourceStorageBuffer
	ResourceInputAttachment
	ResourcePushConstantBuffer
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceInput:
		return "Input"
	case ResourceOutput:
		return "Output"
	case ResourceSampler:
		return "Sampler"
	case ResourceCombinedImageSampler:
		return "CombinedImageSampler"
	case ResourceSampledImage:
		return "SampledImage"
	case ResourceStorageImage:
		return "StorageImage"
	case ResourceUniformTexelBuffer:
		return "UniformTexelBuffer"
	case ResourceStorageTexelBuffer:
		return "StorageTexelBuffer"
	case ResourceUniformBuffer:
		return "UniformBuffer"
	case ResourceStorageBuffer:
		return "StorageBuffer"
	case ResourceInputAttachment:
		return "InputAttachment"
	case ResourcePushConstantBuffer:
		return "PushConstantBuffer"
	default:
		return "Unknown"
	}
}

type BaseType uint32

const (
	BaseTypeUnknown BaseType = iota
	BaseTypeBool
	BaseTypeChar
	BaseTypeInt
	BaseTypeUInt
	BaseTypeInt64
	BaseTypeUInt64
	BaseTypeHalf
	BaseTypeFloat
	BaseTypeDouble
	BaseTypeStruct
)

func (t BaseType) String() string {
	switch t {
	case BaseTypeBool:
		return "Bool"
	case BaseTypeChar:
		return "Char"
	case BaseTypeInt:
		return "Int"
	case BaseTypeUInt:
		return "UInt"
	case BaseTypeInt64:
		return "Int64"
	case BaseTypeUInt64:
		return "UInt64"
	case BaseTypeHalf:
		return "Half"
	case BaseTypeFloat:
		return "Float"
	case BaseTypeDouble:
		return "Double"
	case BaseTypeStruct:
		return "Struct"
	default:
		return "Unknown"
	}
}

type Access uint32

const (
	AccessRead Access = 1 << iota
	AccessWrite
)

type Member struct {
	Name      string
	BaseType  BaseType
	Offset    uint32
	Size      uint32
	VecSize   uint32
	Columns   uint32
	ArraySize uint32
	Members   []Member
}

/*
Resource is one reflected interface variable. ArraySize is 1 for non arrays and
0 for runtime sized arrays.
*/
type Resource struct {
	Kind                 ResourceKind
	BaseType             BaseType
	Access               Access
	Set                  uint32
	Binding              uint32
	Location             uint32
	InputAttachmentIndex uint32
	VecSize              uint32
	Columns              uint32
	ArraySize            uint32
	Offset               uint32
	Size                 uint32
	Name                 string
	Members              []Member
}

type SpecConstant struct {
	ID       uint32
	Name     string
	BaseType BaseType
	Default  uint64
}

type Reflection struct {
	EntryPoint    EntryPoint
	Resources     []Resource
	SpecConstants []SpecConstant
}

/*
Reflect collects the resources of the named entry point, an empty name selects
the first entry point of the module.
*/
func (m *Module) Reflect(entryPoint string) (Reflection, error) {
	ep := -1
	for i, e := range m.EntryPoints {
		if entryPoint == "" || e.Name == entryPoint {
			ep = i
			break
		}
	}
	if ep < 0 {
		return Reflection{}, debug.Errorf("entry point %q not found", entryPoint)
	}

	r := Reflection{EntryPoint: m.EntryPoints[ep]}
	interfaceIDs := map[uint32]struct{}{}
	for _, id := range r.EntryPoint.interfaceIDs {
		interfaceIDs[id] = struct{}{}
	}

	for _, v := range m.variables {
		res, ok, err := m.reflectVariable(v, interfaceIDs)
		if err != nil {
			return Reflection{}, debug.ErrorWrapf(err, "variable %d (%q)", v.id, m.names[v.id])
		}
		if ok {
			r.Resources = append(r.Resources, res)
		}
	}
	slices.SortStableFunc(r.Resources, func(a, b Resource) int {
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Set, b.Set),
			cmp.Compare(a.Binding, b.Binding),
			cmp.Compare(a.Location, b.Location),
		)
	})

	for _, id := range m.specConstants {
		d := m.decorations[id]
		if !d.is(DecorationSpecID) {
			continue
		}
		c := m.constants[id]
		r.SpecConstants = append(r.SpecConstants, SpecConstant{
			ID:       d.specID,
			Name:     m.names[id],
			BaseType: m.baseType(c.typeID),
			Default:  c.value,
		})
	}
	slices.SortFunc(r.SpecConstants, func(a, b SpecConstant) int { return cmp.Compare(a.ID, b.ID) })

	return r, nil
}

func (m *Module) typeOf(id uint32) (*typeInfo, error) {
	t, ok := m.types[id]
	if !ok {
		return nil, debug.Errorf("undefined type %d", id)
	}
	return t, nil
}

/*
unwrapArrays strips array types and returns the element type id with the
product of the array lengths, 0 if any level is runtime sized.
*/
func (m *Module) unwrapArrays(id uint32) (uint32, uint32, error) {
	size := uint32(1)
	for {
		t, err := m.typeOf(id)
		if err != nil {
			return 0, 0, err
		}
		switch t.op {
		case OpTypeArray:
			c, ok := m.constants[t.length]
			if !ok {
				return 0, 0, debug.Errorf("array length %d is not a constant", t.length)
			}
			size *= uint32(c.value)
		case OpTypeRuntimeArray:
			size = 0
		default:
			return id, size, nil
		}
		id = t.elem
	}
}

func (m *Module) isBuiltIn(v variable, pointee uint32) bool {
	if m.decorations[v.id].is(DecorationBuiltIn) {
		return true
	}
	t, ok := m.types[pointee]
	if !ok || t.op != OpTypeStruct {
		return false
	}
	for i := range t.members {
		if m.memberDecorations[pointee][uint32(i)].is(DecorationBuiltIn) {
			return true
		}
	}
	return false
}

func (m *Module) reflectVariable(v variable, interfaceIDs map[uint32]struct{}) (Resource, bool, error) {
	ptr, err := m.typeOf(v.typeID)
	if err != nil {
		return Resource{}, false, err
	}
	if ptr.op != OpTypePointer {
		return Resource{}, false, debug.Errorf("variable type %d is not a pointer", v.typeID)
	}

	elemID, arraySize, err := m.unwrapArrays(ptr.elem)
	if err != nil {
		return Resource{}, false, err
	}
	elem, err := m.typeOf(elemID)
	if err != nil {
		return Resource{}, false, err
	}

	d := m.decorations[v.id]
	if d == nil {
		d = &decoration{}
	}
	res := Resource{
		Set:                  d.set,
		Binding:              d.binding,
		Location:             d.location,
		InputAttachmentIndex: d.inputAttachmentIndex,
		ArraySize:            arraySize,
		Name:                 m.names[v.id],
		Access:               AccessRead,
	}

	switch v.storage {
	case StorageClassInput, StorageClassOutput:
		if _, ok := interfaceIDs[v.id]; !ok && len(interfaceIDs) > 0 {
			return Resource{}, false, nil
		}
		if m.isBuiltIn(v, elemID) {
			return Resource{}, false, nil
		}
		res.Kind = ResourceInput
		if v.storage == StorageClassOutput {
			res.Kind = ResourceOutput
			res.Access = AccessWrite
		}
		res.BaseType = m.baseType(elemID)
		res.VecSize, res.Columns = m.shape(elemID)
		res.Size, err = m.sizeOf(elemID, 0)
		if err != nil {
			return Resource{}, false, err
		}
		return res, true, nil

	case StorageClassUniform, StorageClassStorageBuffer, StorageClassPushConstant:
		if elem.op != OpTypeStruct {
			return Resource{}, false, debug.Errorf("buffer block is not a struct")
		}
		switch {
		case v.storage == StorageClassPushConstant:
			res.Kind = ResourcePushConstantBuffer
		case v.storage == StorageClassStorageBuffer || m.decorations[elemID].is(DecorationBufferBlock):
			res.Kind = ResourceStorageBuffer
			res.Access = m.blockAccess(elemID)
		default:
			res.Kind = ResourceUniformBuffer
		}
		if n, ok := m.names[elemID]; ok && n != "" {
			res.Name = n
		}
		res.BaseType = BaseTypeStruct
		res.Members, err = m.members(elemID)
		if err != nil {
			return Resource{}, false, err
		}
		res.Size, err = m.sizeOf(elemID, 0)
		if err != nil {
			return Resource{}, false, err
		}
		if v.storage == StorageClassPushConstant && len(res.Members) > 0 {
			res.Offset = res.Members[0].Offset
			res.Size -= res.Offset
		}
		return res, true, nil

	case StorageClassUniformConstant:
		switch elem.op {
		case OpTypeSampler:
			res.Kind = ResourceSampler
		case OpTypeSampledImage:
			res.Kind = ResourceCombinedImageSampler
			res.BaseType = m.imageBaseType(elem.elem)
		case OpTypeImage:
			res.BaseType = m.baseType(elem.elem)
			switch {
			case elem.dim == DimSubpassData:
				res.Kind = ResourceInputAttachment
			case elem.dim == DimBuffer && elem.sampled == 2:
				res.Kind = ResourceStorageTexelBuffer
				res.Access = variableAccess(d)
			case elem.dim == DimBuffer:
				res.Kind = ResourceUniformTexelBuffer
			case elem.sampled == 2:
				res.Kind = ResourceStorageImage
				res.Access = variableAccess(d)
			default:
				res.Kind = ResourceSampledImage
			}
		default:
			return Resource{}, false, nil
		}
		return res, true, nil
	}

	return Resource{}, false, nil
}

func variableAccess(d *decoration) Access {
	switch {
	case d.is(DecorationNonWritable):
		return AccessRead
	case d.is(DecorationNonReadable):
		return AccessWrite
	default:
		return AccessRead | AccessWrite
	}
}

func (m *Module) blockAccess(structID uint32) Access {
	t := m.types[structID]
	readOnly, writeOnly := true, true
	for i := range t.members {
		md := m.memberDecorations[structID][uint32(i)]
		readOnly = readOnly && md.is(DecorationNonWritable)
		writeOnly = writeOnly && md.is(DecorationNonReadable)
	}
	switch {
	case len(t.members) > 0 && readOnly:
		return AccessRead
	case len(t.members) > 0 && writeOnly:
		return AccessWrite
	default:
		return AccessRead | AccessWrite
	}
}

func (m *Module) imageBaseType(imageID uint32) BaseType {
	t, ok := m.types[imageID]
	if !ok {
		return BaseTypeUnknown
	}
	return m.baseType(t.elem)
}

func (m *Module) baseType(id uint32) BaseType {
	t, ok := m.types[id]
	if !ok {
		return BaseTypeUnknown
	}
	switch t.op {
	case OpTypeBool:
		return BaseTypeBool
	case OpTypeInt:
		switch {
		case t.width == 8:
			return BaseTypeChar
		case t.width == 64 && t.signed:
			return BaseTypeInt64
		case t.width == 64:
			return BaseTypeUInt64
		case t.signed:
			return BaseTypeInt
		default:
			return BaseTypeUInt
		}
	case OpTypeFloat:
		switch t.width {
		case 16:
			return BaseTypeHalf
		case 64:
			return BaseTypeDouble
		default:
			return BaseTypeFloat
		}
	case OpTypeVector, OpTypeMatrix, OpTypeArray, OpTypeRuntimeArray:
		return m.baseType(t.elem)
	case OpTypeStruct:
		return BaseTypeStruct
	}
	return BaseTypeUnknown
}

func (m *Module) shape(id uint32) (vecSize, columns uint32) {
	t, ok := m.types[id]
	if !ok {
		return 0, 0
	}
	switch t.op {
	case OpTypeVector:
		return t.count, 1
	case OpTypeMatrix:
		v, _ := m.shape(t.elem)
		return v, t.count
	case OpTypeBool, OpTypeInt, OpTypeFloat:
		return 1, 1
	}
	return 0, 0
}

/*
sizeOf returns the byte size of a type, matrixStride comes from the enclosing
struct member when non zero.
*/
func (m *Module) sizeOf(id, matrixStride uint32) (uint32, error) {
	t, err := m.typeOf(id)
	if err != nil {
		return 0, err
	}
	switch t.op {
	case OpTypeBool:
		return 4, nil
	case OpTypeInt, OpTypeFloat:
		return t.width / 8, nil
	case OpTypeVector:
		s, err := m.sizeOf(t.elem, 0)
		return s * t.count, err
	case OpTypeMatrix:
		if matrixStride != 0 {
			return matrixStride * t.count, nil
		}
		s, err := m.sizeOf(t.elem, 0)
		return s * t.count, err
	case OpTypeArray:
		c, ok := m.constants[t.length]
		if !ok {
			return 0, debug.Errorf("array length %d is not a constant", t.length)
		}
		if d := m.decorations[id]; d.is(DecorationArrayStride) {
			return d.arrayStride * uint32(c.value), nil
		}
		s, err := m.sizeOf(t.elem, matrixStride)
		return s * uint32(c.value), err
	case OpTypeRuntimeArray:
		return 0, nil
	case OpTypeStruct:
		size := uint32(0)
		for i, member := range t.members {
			md := m.memberDecorations[id][uint32(i)]
			var offset, stride uint32
			if md != nil {
				offset, stride = md.offset, md.matrixStride
			}
			s, err := m.sizeOf(member, stride)
			if err != nil {
				return 0, err
			}
			size = max(size, offset+s)
		}
		return size, nil
	}
	return 0, nil
}

func (m *Module) members(structID uint32) ([]Member, error) {
	t := m.types[structID]
	ret := make([]Member, 0, len(t.members))
	for i, memberID := range t.members {
		md := m.memberDecorations[structID][uint32(i)]
		var offset, stride uint32
		if md != nil {
			offset, stride = md.offset, md.matrixStride
		}

		elemID, arraySize, err := m.unwrapArrays(memberID)
		if err != nil {
			return nil, err
		}
		size, err := m.sizeOf(memberID, stride)
		if err != nil {
			return nil, err
		}
		member := Member{
			Name:      m.memberNames[structID][uint32(i)],
			BaseType:  m.baseType(elemID),
			Offset:    offset,
			Size:      size,
			ArraySize: arraySize,
		}
		member.VecSize, member.Columns = m.shape(elemID)
		if m.types[elemID].op == OpTypeStruct {
			member.Members, err = m.members(elemID)
			if err != nil {
				return nil, err
			}
		}
		ret = append(ret, member)
	}
	return ret, nil
}
