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
Package spirv parses SPIR-V modules and reflects the resources an entry point
interfaces with: stage inputs and outputs, descriptor bindings, push constant
blocks and specialization constants.
*/
package spirv

import (
	"math/bits"

	"goarrg.com/debug"
)

const Magic = 0x07230203

type Op uint16

const (
	OpName              Op = 5
	OpMemberName        Op = 6
	OpEntryPoint        Op = 15
	OpExecutionMode     Op = 16
	OpTypeVoid          Op = 19
	OpTypeBool          Op = 20
	OpTypeInt           Op = 21
	OpTypeFloat         Op = 22
	OpTypeVector        Op = 23
	OpTypeMatrix        Op = 24
	OpTypeImage         Op = 25
	OpTypeSampler       Op = 26
	OpTypeSampledImage  Op = 27
	OpTypeArray         Op = 28
	OpTypeRuntimeArray  Op = 29
	OpTypeStruct        Op = 30
	OpTypePointer       Op = 32
	OpTypeFunction      Op = 33
	OpConstantTrue      Op = 41
	OpConstantFalse     Op = 42
	OpConstant          Op = 43
	OpSpecConstantTrue  Op = 48
	OpSpecConstantFalse Op = 49
	OpSpecConstant      Op = 50
	OpFunction          Op = 54
	OpVariable          Op = 59
	OpDecorate          Op = 71
	OpMemberDecorate    Op = 72
)

type Decoration uint32

const (
	DecorationSpecID               Decoration = 1
	DecorationBlock                Decoration = 2
	DecorationBufferBlock          Decoration = 3
	DecorationRowMajor             Decoration = 4
	DecorationColMajor             Decoration = 5
	DecorationArrayStride          Decoration = 6
	DecorationMatrixStride         Decoration = 7
	DecorationBuiltIn              Decoration = 11
	DecorationNonWritable          Decoration = 24
	DecorationNonReadable          Decoration = 25
	DecorationLocation             Decoration = 30
	DecorationComponent            Decoration = 31
	DecorationIndex                Decoration = 32
	DecorationBinding              Decoration = 33
	DecorationDescriptorSet        Decoration = 34
	DecorationOffset               Decoration = 35
	DecorationInputAttachmentIndex Decoration = 43
)

type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassPushConstant    StorageClass = 9
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

type Dim uint32

const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

const executionModeLocalSize = 17

type ExecutionModel uint32

const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
)

func (m ExecutionModel) String() string {
	switch m {
	case ExecutionModelVertex:
		return "Vertex"
	case ExecutionModelTessellationControl:
		return "TessellationControl"
	case ExecutionModelTessellationEvaluation:
		return "TessellationEvaluation"
	case ExecutionModelGeometry:
		return "Geometry"
	case ExecutionModelFragment:
		return "Fragment"
	case ExecutionModelGLCompute:
		return "GLCompute"
	default:
		return "Unknown"
	}
}

type EntryPoint struct {
	Name         string
	Model        ExecutionModel
	LocalSize    [3]uint32
	id           uint32
	interfaceIDs []uint32
}

type decoration struct {
	has                  uint64
	specID               uint32
	arrayStride          uint32
	matrixStride         uint32
	builtIn              uint32
	location             uint32
	component            uint32
	binding              uint32
	set                  uint32
	offset               uint32
	inputAttachmentIndex uint32
}

func (d *decoration) is(dec Decoration) bool {
	return d != nil && (d.has&(1<<dec)) != 0
}

func (d *decoration) apply(dec Decoration, operands []uint32) {
	if dec >= 64 {
		return
	}
	d.has |= 1 << dec
	if len(operands) == 0 {
		return
	}
	switch dec {
	case DecorationSpecID:
		d.specID = operands[0]
	case DecorationArrayStride:
		d.arrayStride = operands[0]
	case DecorationMatrixStride:
		d.matrixStride = operands[0]
	case DecorationBuiltIn:
		d.builtIn = operands[0]
	case DecorationLocation:
		d.location = operands[0]
	case DecorationComponent:
		d.component = operands[0]
	case DecorationBinding:
		d.binding = operands[0]
	case DecorationDescriptorSet:
		d.set = operands[0]
	case DecorationOffset:
		d.offset = operands[0]
	case DecorationInputAttachmentIndex:
		d.inputAttachmentIndex = operands[0]
	}
}

type typeInfo struct {
	op Op
	// int/float width and signedness
	width  uint32
	signed bool
	// vector/matrix/array/runtime array/pointer/sampled image/image sampled type
	elem  uint32
	count uint32
	// array length constant
	length uint32
	// image
	dim     Dim
	depth   uint32
	arrayed uint32
	ms      uint32
	sampled uint32
	format  uint32
	// struct
	members []uint32
	storage StorageClass
}

type variable struct {
	id      uint32
	typeID  uint32
	storage StorageClass
}

type constant struct {
	typeID uint32
	value  uint64
	spec   bool
}

/*
Module is a parsed SPIR-V module.
*/
type Module struct {
	Version     uint32
	Generator   uint32
	Bound       uint32
	EntryPoints []EntryPoint

	names             map[uint32]string
	memberNames       map[uint32]map[uint32]string
	decorations       map[uint32]*decoration
	memberDecorations map[uint32]map[uint32]*decoration
	types             map[uint32]*typeInfo
	constants         map[uint32]constant
	specConstants     []uint32
	variables         []variable
}

func decodeString(words []uint32) (string, int, error) {
	b := make([]byte, 0, len(words)*4)
	for i, w := range words {
		for j := 0; j < 4; j++ {
			c := byte(w >> (8 * j))
			if c == 0 {
				return string(b), i + 1, nil
			}
			b = append(b, c)
		}
	}
	return "", 0, debug.Errorf("unterminated string literal")
}

/*
Parse decodes the module's header and every instruction the reflection needs,
modules in the opposite endianness are swapped first.
*/
func Parse(words []uint32) (*Module, error) {
	if len(words) < 5 {
		return nil, debug.Errorf("module of %d words is shorter than the header", len(words))
	}
	if words[0] != Magic {
		if bits.ReverseBytes32(words[0]) != Magic {
			return nil, debug.Errorf("invalid magic number 0x%08X", words[0])
		}
		swapped := make([]uint32, len(words))
		for i, w := range words {
			swapped[i] = bits.ReverseBytes32(w)
		}
		words = swapped
	}

	m := &Module{
		Version:           words[1],
		Generator:         words[2],
		Bound:             words[3],
		names:             map[uint32]string{},
		memberNames:       map[uint32]map[uint32]string{},
		decorations:       map[uint32]*decoration{},
		memberDecorations: map[uint32]map[uint32]*decoration{},
		types:             map[uint32]*typeInfo{},
		constants:         map[uint32]constant{},
	}

	for pos := 5; pos < len(words); {
		count := int(words[pos] >> 16)
		op := Op(words[pos] & 0xFFFF)
		if count == 0 || pos+count > len(words) {
			return nil, debug.Errorf("malformed instruction (op %d, %d words) at word %d", op, count, pos)
		}
		if err := m.parseInstruction(op, words[pos+1:pos+count]); err != nil {
			return nil, debug.ErrorWrapf(err, "op %d at word %d", op, pos)
		}
		pos += count
	}

	if len(m.EntryPoints) == 0 {
		return nil, debug.Errorf("module has no entry points")
	}
	return m, nil
}

func need(operands []uint32, n int) error {
	if len(operands) < n {
		return debug.Errorf("expected at least %d operands, got %d", n, len(operands))
	}
	return nil
}

func (m *Module) decoration(id uint32) *decoration {
	d, ok := m.decorations[id]
	if !ok {
		d = &decoration{}
		m.decorations[id] = d
	}
	return d
}

func (m *Module) memberDecoration(id, member uint32) *decoration {
	ds, ok := m.memberDecorations[id]
	if !ok {
		ds = map[uint32]*decoration{}
		m.memberDecorations[id] = ds
	}
	d, ok := ds[member]
	if !ok {
		d = &decoration{}
		ds[member] = d
	}
	return d
}

func (m *Module) parseInstruction(op Op, o []uint32) error {
	switch op {
	case OpName:
		if err := need(o, 2); err != nil {
			return err
		}
		s, _, err := decodeString(o[1:])
		if err != nil {
			return err
		}
		m.names[o[0]] = s

	case OpMemberName:
		if err := need(o, 3); err != nil {
			return err
		}
		s, _, err := decodeString(o[2:])
		if err != nil {
			return err
		}
		if m.memberNames[o[0]] == nil {
			m.memberNames[o[0]] = map[uint32]string{}
		}
		m.memberNames[o[0]][o[1]] = s

	case OpEntryPoint:
		if err := need(o, 3); err != nil {
			return err
		}
		s, n, err := decodeString(o[2:])
		if err != nil {
			return err
		}
		m.EntryPoints = append(m.EntryPoints, EntryPoint{
			Name:         s,
			Model:        ExecutionModel(o[0]),
			id:           o[1],
			interfaceIDs: append([]uint32(nil), o[2+n:]...),
		})

	case OpExecutionMode:
		if err := need(o, 2); err != nil {
			return err
		}
		if o[1] == executionModeLocalSize && len(o) >= 5 {
			for i := range m.EntryPoints {
				if m.EntryPoints[i].id == o[0] {
					copy(m.EntryPoints[i].LocalSize[:], o[2:5])
				}
			}
		}

	case OpDecorate:
		if err := need(o, 2); err != nil {
			return err
		}
		m.decoration(o[0]).apply(Decoration(o[1]), o[2:])

	case OpMemberDecorate:
		if err := need(o, 3); err != nil {
			return err
		}
		m.memberDecoration(o[0], o[1]).apply(Decoration(o[2]), o[3:])

	case OpTypeVoid, OpTypeBool, OpTypeSampler:
		if err := need(o, 1); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{op: op}

	case OpTypeInt:
		if err := need(o, 3); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{op: op, width: o[1], signed: o[2] != 0}

	case OpTypeFloat:
		if err := need(o, 2); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{op: op, width: o[1], signed: true}

	case OpTypeVector, OpTypeMatrix:
		if err := need(o, 3); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{op: op, elem: o[1], count: o[2]}

	case OpTypeImage:
		if err := need(o, 8); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{
			op: op, elem: o[1], dim: Dim(o[2]), depth: o[3], arrayed: o[4],
			ms: o[5], sampled: o[6], format: o[7],
		}

	case OpTypeSampledImage, OpTypeRuntimeArray:
		if err := need(o, 2); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{op: op, elem: o[1]}

	case OpTypeArray:
		if err := need(o, 3); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{op: op, elem: o[1], length: o[2]}

	case OpTypeStruct:
		if err := need(o, 1); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{op: op, members: append([]uint32(nil), o[1:]...)}

	case OpTypePointer:
		if err := need(o, 3); err != nil {
			return err
		}
		m.types[o[0]] = &typeInfo{op: op, storage: StorageClass(o[1]), elem: o[2]}

	case OpConstant, OpSpecConstant:
		if err := need(o, 3); err != nil {
			return err
		}
		v := uint64(o[2])
		if len(o) > 3 {
			v |= uint64(o[3]) << 32
		}
		m.constants[o[1]] = constant{typeID: o[0], value: v, spec: op == OpSpecConstant}
		if op == OpSpecConstant {
			m.specConstants = append(m.specConstants, o[1])
		}

	case OpConstantTrue, OpConstantFalse, OpSpecConstantTrue, OpSpecConstantFalse:
		if err := need(o, 2); err != nil {
			return err
		}
		v := uint64(0)
		if op == OpConstantTrue || op == OpSpecConstantTrue {
			v = 1
		}
		spec := op == OpSpecConstantTrue || op == OpSpecConstantFalse
		m.constants[o[1]] = constant{typeID: o[0], value: v, spec: spec}
		if spec {
			m.specConstants = append(m.specConstants, o[1])
		}

	case OpVariable:
		if err := need(o, 3); err != nil {
			return err
		}
		if StorageClass(o[2]) != StorageClassFunction {
			m.variables = append(m.variables, variable{id: o[1], typeID: o[0], storage: StorageClass(o[2])})
		}
	}
	return nil
}
