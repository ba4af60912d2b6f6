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

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gogpu/naga"
	"goarrg.com/debug"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/imports"
	"gopkg.in/yaml.v3"

	"goarrg.com/rhi/vez/internal/spirv"
)

type member struct {
	Name      string   `json:"name" yaml:"name"`
	BaseType  string   `json:"baseType" yaml:"baseType"`
	Offset    uint32   `json:"offset" yaml:"offset"`
	Size      uint32   `json:"size" yaml:"size"`
	VecSize   uint32   `json:"vecSize" yaml:"vecSize"`
	Columns   uint32   `json:"columns" yaml:"columns"`
	ArraySize uint32   `json:"arraySize" yaml:"arraySize"`
	Members   []member `json:"members,omitempty" yaml:"members,omitempty"`
}

type resource struct {
	Name                 string   `json:"name" yaml:"name"`
	Kind                 string   `json:"kind" yaml:"kind"`
	BaseType             string   `json:"baseType" yaml:"baseType"`
	Access               []string `json:"access,omitempty" yaml:"access,omitempty"`
	Set                  uint32   `json:"set" yaml:"set"`
	Binding              uint32   `json:"binding" yaml:"binding"`
	Location             uint32   `json:"location" yaml:"location"`
	InputAttachmentIndex uint32   `json:"inputAttachmentIndex" yaml:"inputAttachmentIndex"`
	VecSize              uint32   `json:"vecSize" yaml:"vecSize"`
	Columns              uint32   `json:"columns" yaml:"columns"`
	ArraySize            uint32   `json:"arraySize" yaml:"arraySize"`
	Offset               uint32   `json:"offset" yaml:"offset"`
	Size                 uint32   `json:"size" yaml:"size"`
	Members              []member `json:"members,omitempty" yaml:"members,omitempty"`
}

type specConstant struct {
	ID       uint32 `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	BaseType string `json:"baseType" yaml:"baseType"`
	Default  uint64 `json:"default" yaml:"default"`
}

/*
report is the serialized form of a reflected entry point.
*/
type report struct {
	EntryPoint    string         `json:"entryPoint" yaml:"entryPoint"`
	Stage         string         `json:"stage" yaml:"stage"`
	LocalSize     []uint32       `json:"localSize,omitempty" yaml:"localSize,omitempty"`
	Resources     []resource     `json:"resources" yaml:"resources"`
	SpecConstants []specConstant `json:"specConstants,omitempty" yaml:"specConstants,omitempty"`

	model spirv.ExecutionModel
	words []uint32
}

var stageConstants = map[spirv.ExecutionModel]string{
	spirv.ExecutionModelVertex:                 "vk.ShaderStageVertexBit",
	spirv.ExecutionModelTessellationControl:    "vk.ShaderStageTessellationControlBit",
	spirv.ExecutionModelTessellationEvaluation: "vk.ShaderStageTessellationEvaluationBit",
	spirv.ExecutionModelGeometry:               "vk.ShaderStageGeometryBit",
	spirv.ExecutionModelFragment:               "vk.ShaderStageFragmentBit",
	spirv.ExecutionModelGLCompute:              "vk.ShaderStageComputeBit",
}

func wordsFromBytes(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, debug.Errorf("SPIR-V byte length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, words); err != nil {
		return nil, debug.ErrorWrapf(err, "Failed to read SPIR-V words")
	}
	return words, nil
}

func accessNames(a spirv.Access) []string {
	var out []string
	if a&spirv.AccessRead != 0 {
		out = append(out, "read")
	}
	if a&spirv.AccessWrite != 0 {
		out = append(out, "write")
	}
	return out
}

func members(in []spirv.Member) []member {
	if len(in) == 0 {
		return nil
	}
	out := make([]member, len(in))
	for i, m := range in {
		out[i] = member{
			Name:      m.Name,
			BaseType:  m.BaseType.String(),
			Offset:    m.Offset,
			Size:      m.Size,
			VecSize:   m.VecSize,
			Columns:   m.Columns,
			ArraySize: m.ArraySize,
			Members:   members(m.Members),
		}
	}
	return out
}

/*
reflectSource compiles src with naga when it is WGSL and reflects entryPoint,
the first entry point of the module when empty.
*/
func reflectSource(src []byte, wgsl bool, entryPoint string) (*report, error) {
	if wgsl {
		b, err := naga.Compile(string(src))
		if err != nil {
			return nil, debug.ErrorWrapf(err, "Failed to compile WGSL")
		}
		src = b
	}
	words, err := wordsFromBytes(src)
	if err != nil {
		return nil, err
	}
	m, err := spirv.Parse(words)
	if err != nil {
		return nil, debug.ErrorWrapf(err, "Failed to parse SPIR-V")
	}
	r, err := m.Reflect(entryPoint)
	if err != nil {
		return nil, debug.ErrorWrapf(err, "Failed to reflect SPIR-V")
	}
	debug.VPrintf("Reflected %d resources of entry point %q", len(r.Resources), r.EntryPoint.Name)

	out := &report{
		EntryPoint: r.EntryPoint.Name,
		Stage:      r.EntryPoint.Model.String(),
		Resources:  make([]resource, len(r.Resources)),
		model:      r.EntryPoint.Model,
		words:      words,
	}
	if r.EntryPoint.Model == spirv.ExecutionModelGLCompute {
		out.LocalSize = r.EntryPoint.LocalSize[:]
	}
	for i, res := range r.Resources {
		out.Resources[i] = resource{
			Name:                 res.Name,
			Kind:                 res.Kind.String(),
			BaseType:             res.BaseType.String(),
			Access:               accessNames(res.Access),
			Set:                  res.Set,
			Binding:              res.Binding,
			Location:             res.Location,
			InputAttachmentIndex: res.InputAttachmentIndex,
			VecSize:              res.VecSize,
			Columns:              res.Columns,
			ArraySize:            res.ArraySize,
			Offset:               res.Offset,
			Size:                 res.Size,
			Members:              members(res.Members),
		}
	}
	for _, c := range r.SpecConstants {
		out.SpecConstants = append(out.SpecConstants, specConstant{
			ID:       c.ID,
			Name:     c.Name,
			BaseType: c.BaseType.String(),
			Default:  c.Default,
		})
	}
	return out, nil
}

func genJSON(w io.Writer, r *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(r)
}

func genYAML(w io.Writer, r *report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

/*
packageName returns the name of the go package in dir, the base name of dir
when there is none.
*/
func packageName(dir string) string {
	p, err := packages.Load(&packages.Config{Mode: packages.NeedName, Dir: dir}, ".")
	if err != nil || len(p) == 0 {
		abs, _ := filepath.Abs(dir)
		return filepath.Base(abs)
	}
	if p[0].Name != "" {
		return p[0].Name
	}
	return filepath.Base(p[0].PkgPath)
}

func loaderName(entryPoint string, model spirv.ExecutionModel) string {
	sb := strings.Builder{}
	for _, r := range entryPoint {
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return fmt.Sprintf("vezreflectLoad_%s_%s", model, sb.String())
}

func accessConstant(access []string) string {
	if len(access) == 0 {
		return "0"
	}
	names := make([]string, len(access))
	for i, a := range access {
		names[i] = "vez.ResourceAccess" + strings.ToUpper(a[:1]) + a[1:]
	}
	return strings.Join(names, " | ")
}

func writeMembers(b *bytes.Buffer, members []member) {
	fmt.Fprintf(b, "[]vez.ResourceMember{\n")
	for _, m := range members {
		fmt.Fprintf(b, "{Name: %q, BaseType: vez.BaseType%s, Offset: %d, Size: %d, VecSize: %d, Columns: %d, ArraySize: %d",
			m.Name, m.BaseType, m.Offset, m.Size, m.VecSize, m.Columns, m.ArraySize)
		if len(m.Members) > 0 {
			fmt.Fprintf(b, ", Members: ")
			writeMembers(b, m.Members)
		}
		fmt.Fprintf(b, "},\n")
	}
	fmt.Fprintf(b, "}")
}

/*
genGo writes a go file with two functions: one returning the
vez.ShaderModuleCreateInfo of the reflected entry point, the other its
resources as vez.PipelineResource values.
*/
func genGo(w io.Writer, pkg, args string, r *report) error {
	stage, ok := stageConstants[r.model]
	if !ok {
		return debug.Errorf("Unsupported execution model %s", r.model)
	}
	name := loaderName(r.EntryPoint, r.model)

	var b bytes.Buffer
	fmt.Fprintf(&b, "// go run goarrg.com/rhi/vez/cmd/vezreflect %s\n", args)
	fmt.Fprintf(&b, "// Code generated by the command above; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "import (\n\t\"goarrg.com/rhi/vez\"\n\t\"goarrg.com/rhi/vez/vk\"\n)\n\n")

	fmt.Fprintf(&b, "func %s() vez.ShaderModuleCreateInfo {\n", name)
	fmt.Fprintf(&b, "\treturn vez.ShaderModuleCreateInfo{\n")
	fmt.Fprintf(&b, "\t\tStage: %s,\n", stage)
	fmt.Fprintf(&b, "\t\tEntryPoint: %q,\n", r.EntryPoint)
	fmt.Fprintf(&b, "\t\tCode: []uint32{")
	for i, word := range r.words {
		if i%8 == 0 {
			fmt.Fprintf(&b, "\n\t\t\t")
		}
		fmt.Fprintf(&b, "0x%08x, ", word)
	}
	fmt.Fprintf(&b, "\n\t\t},\n\t}\n}\n\n")

	fmt.Fprintf(&b, "func %sResources() []vez.PipelineResource {\n", name)
	fmt.Fprintf(&b, "\treturn []vez.PipelineResource{\n")
	for _, res := range r.Resources {
		fmt.Fprintf(&b, "{Stages: %s, Kind: vez.Resource%s, BaseType: vez.BaseType%s, Access: %s, "+
			"Set: %d, Binding: %d, Location: %d, InputAttachmentIndex: %d, VecSize: %d, Columns: %d, "+
			"ArraySize: %d, Offset: %d, Size: %d, Name: %q",
			stage, res.Kind, res.BaseType, accessConstant(res.Access),
			res.Set, res.Binding, res.Location, res.InputAttachmentIndex, res.VecSize, res.Columns,
			res.ArraySize, res.Offset, res.Size, res.Name)
		if len(res.Members) > 0 {
			fmt.Fprintf(&b, ", Members: ")
			writeMembers(&b, res.Members)
		}
		fmt.Fprintf(&b, "},\n")
	}
	fmt.Fprintf(&b, "\t}\n}\n")

	src, err := imports.Process("", b.Bytes(), &imports.Options{Comments: true, TabIndent: true, TabWidth: 8, FormatOnly: true})
	if err != nil {
		return debug.ErrorWrapf(err, "Failed to format generated code")
	}
	_, err = w.Write(src)
	return err
}
