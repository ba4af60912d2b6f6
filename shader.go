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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"goarrg.com/debug"

	"goarrg.com/rhi/vez/internal/spirv"
	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

var stageExecutionModels = map[vk.ShaderStageFlags]spirv.ExecutionModel{
	vk.ShaderStageVertexBit:                 spirv.ExecutionModelVertex,
	vk.ShaderStageTessellationControlBit:    spirv.ExecutionModelTessellationControl,
	vk.ShaderStageTessellationEvaluationBit: spirv.ExecutionModelTessellationEvaluation,
	vk.ShaderStageGeometryBit:               spirv.ExecutionModelGeometry,
	vk.ShaderStageFragmentBit:               spirv.ExecutionModelFragment,
	vk.ShaderStageComputeBit:                spirv.ExecutionModelGLCompute,
}

/*
ShaderModuleCreateInfo takes either SPIR-V words in Code or WGSL source, which
is compiled to SPIR-V first. An empty EntryPoint selects the first entry point
of the module.
*/
type ShaderModuleCreateInfo struct {
	Stage      vk.ShaderStageFlags
	Code       []uint32
	WGSL       string
	EntryPoint string
}

type ShaderModule struct {
	noCopy     util.NoCopy
	device     *Device
	handle     native.ShaderModule
	stage      vk.ShaderStageFlags
	entryPoint string
	reflection spirv.Reflection
	infoLog    string
}

/*
Handle returns 0 for modules that failed compilation or reflection.
*/
func (m *ShaderModule) Handle() native.ShaderModule {
	m.noCopy.Check()
	return m.handle
}

func (m *ShaderModule) Stage() vk.ShaderStageFlags {
	m.noCopy.Check()
	return m.stage
}

func (m *ShaderModule) EntryPoint() string {
	m.noCopy.Check()
	return m.entryPoint
}

/*
InfoLog is empty unless the module failed to compile or reflect.
*/
func (m *ShaderModule) InfoLog() string {
	m.noCopy.Check()
	return m.infoLog
}

func (m *ShaderModule) poisoned() bool {
	return m.handle == 0
}

func wordsFromBytes(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, debug.Errorf("SPIR-V byte length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, words); err != nil {
		return nil, err
	}
	return words, nil
}

/*
reflectShader compiles and reflects info, the returned string is the info log
of a failure.
*/
func reflectShader(info ShaderModuleCreateInfo) ([]uint32, spirv.Reflection, string) {
	code := info.Code
	if info.WGSL != "" {
		b, err := naga.Compile(info.WGSL)
		if err != nil {
			return nil, spirv.Reflection{}, fmt.Sprintf("Failed to compile WGSL: %s", err)
		}
		code, err = wordsFromBytes(b)
		if err != nil {
			return nil, spirv.Reflection{}, err.Error()
		}
	}

	m, err := spirv.Parse(code)
	if err != nil {
		return nil, spirv.Reflection{}, fmt.Sprintf("Failed to parse SPIR-V: %s", err)
	}
	r, err := m.Reflect(info.EntryPoint)
	if err != nil {
		return nil, spirv.Reflection{}, fmt.Sprintf("Failed to reflect SPIR-V: %s", err)
	}
	if want := stageExecutionModels[info.Stage]; r.EntryPoint.Model != want {
		return nil, spirv.Reflection{}, fmt.Sprintf("Entry point %q has execution model %s, stage %s expects %s",
			r.EntryPoint.Name, r.EntryPoint.Model, info.Stage, want)
	}
	return code, r, ""
}

/*
CreateShaderModule creates a module for a single stage. When compilation or
reflection fails the returned module is still valid for InfoLog together with
ErrorInitializationFailed, it must be destroyed like any other module.
*/
func (d *Device) CreateShaderModule(info ShaderModuleCreateInfo) (*ShaderModule, error) {
	d.noCopy.Check()
	if _, ok := stageExecutionModels[info.Stage]; !ok {
		return nil, ErrorBadArgument
	}
	if (len(info.Code) == 0) == (info.WGSL == "") {
		return nil, ErrorBadArgument
	}

	m := &ShaderModule{device: d, stage: info.Stage}
	m.noCopy.Init()

	code, reflection, infoLog := reflectShader(info)
	if infoLog != "" {
		instance.logger.EPrintf("Failed to create %s shader module: %s", info.Stage, infoLog)
		m.infoLog = infoLog
		m.entryPoint = info.EntryPoint
		return m, ErrorInitializationFailed
	}

	h, err := d.native.CreateShaderModule(code)
	if err != nil {
		instance.logger.EPrintf("Failed to create %s shader module: %s", info.Stage, err)
		m.noCopy.Close()
		return nil, err
	}
	m.handle = h
	m.reflection = reflection
	m.entryPoint = reflection.EntryPoint.Name
	instance.logger.VPrintf("Created %s shader module %q with %d resources", info.Stage, m.entryPoint, len(reflection.Resources))
	return m, nil
}

func (d *Device) DestroyShaderModule(m *ShaderModule) {
	d.noCopy.Check()
	if m == nil {
		return
	}
	m.noCopy.Check()
	if !m.poisoned() {
		d.native.DestroyShaderModule(m.handle)
	}
	m.noCopy.Close()
}
