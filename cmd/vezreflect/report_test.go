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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"goarrg.com/rhi/vez/internal/spirv"
	"goarrg.com/rhi/vez/internal/spirv/spirvtest"
)

func computeSource(t *testing.T) []byte {
	t.Helper()
	words := spirvtest.Shader{
		Model:          spirv.ExecutionModelGLCompute,
		LocalSize:      [3]uint32{64, 1, 1},
		StorageBuffers: []spirvtest.Binding{{Name: "data", Set: 0, Binding: 2}},
	}.Assemble()
	var b bytes.Buffer
	require.NoError(t, binary.Write(&b, binary.LittleEndian, words))
	return b.Bytes()
}

func TestGeneratorText(t *testing.T) {
	for _, name := range []string{"json", "yaml", "go"} {
		var g generator
		require.NoError(t, g.UnmarshalText([]byte(name)))
		text, err := g.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(text))
	}
	var g generator
	assert.Error(t, g.UnmarshalText([]byte("toml")))
	_, err := generator(42).MarshalText()
	assert.Error(t, err)
}

func TestReflectSource(t *testing.T) {
	r, err := reflectSource(computeSource(t), false, "")
	require.NoError(t, err)
	assert.Equal(t, "main", r.EntryPoint)
	assert.Equal(t, "GLCompute", r.Stage)
	assert.Equal(t, []uint32{64, 1, 1}, r.LocalSize)

	var data *resource
	for i := range r.Resources {
		if r.Resources[i].Name == "data" {
			data = &r.Resources[i]
		}
	}
	require.NotNil(t, data)
	assert.Equal(t, "StorageBuffer", data.Kind)
	assert.Equal(t, uint32(2), data.Binding)

	_, err = reflectSource(computeSource(t), false, "missing")
	assert.Error(t, err)
	_, err = reflectSource([]byte{1, 2, 3}, false, "")
	assert.Error(t, err)
	_, err = reflectSource([]byte{0, 0, 0, 0}, false, "")
	assert.Error(t, err)
}

func TestGenerators(t *testing.T) {
	r, err := reflectSource(computeSource(t), false, "")
	require.NoError(t, err)

	t.Run("JSON", func(t *testing.T) {
		var b bytes.Buffer
		require.NoError(t, genJSON(&b, r))
		var out report
		require.NoError(t, json.Unmarshal(b.Bytes(), &out))
		assert.Equal(t, r.EntryPoint, out.EntryPoint)
		assert.Equal(t, r.Resources, out.Resources)
		assert.NotContains(t, b.String(), "words")
	})
	t.Run("YAML", func(t *testing.T) {
		var b bytes.Buffer
		require.NoError(t, genYAML(&b, r))
		var out report
		require.NoError(t, yaml.Unmarshal(b.Bytes(), &out))
		assert.Equal(t, r.Stage, out.Stage)
		assert.Equal(t, r.LocalSize, out.LocalSize)
		assert.Equal(t, r.Resources, out.Resources)
	})
	t.Run("Go", func(t *testing.T) {
		var b bytes.Buffer
		require.NoError(t, genGo(&b, "shaders", "-gen go compute.spv", r))
		src := b.String()
		assert.Contains(t, src, "// Code generated by the command above; DO NOT EDIT.")
		assert.Contains(t, src, "package shaders")
		assert.Contains(t, src, "func vezreflectLoad_GLCompute_main() vez.ShaderModuleCreateInfo {")
		assert.Contains(t, src, "vk.ShaderStageComputeBit,")
		assert.Contains(t, src, "func vezreflectLoad_GLCompute_mainResources() []vez.PipelineResource {")
		assert.Contains(t, src, "vez.ResourceStorageBuffer")
		assert.Contains(t, src, `Name: "data"`)
		assert.Contains(t, src, "0x07230203")
	})
}

func TestLoaderName(t *testing.T) {
	assert.Equal(t, "vezreflectLoad_Fragment_fs_main", loaderName("fs.main", spirv.ExecutionModelFragment))
}
