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
	"cmp"
	"slices"

	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type VertexInputFormatCreateInfo struct {
	Bindings   []native.VertexInputBindingDescription
	Attributes []native.VertexInputAttributeDescription
}

type VertexInputFormat struct {
	noCopy     util.NoCopy
	bindings   []native.VertexInputBindingDescription
	attributes []native.VertexInputAttributeDescription
}

func (f *VertexInputFormat) Bindings() []native.VertexInputBindingDescription {
	f.noCopy.Check()
	return slices.Clone(f.bindings)
}

func (f *VertexInputFormat) Attributes() []native.VertexInputAttributeDescription {
	f.noCopy.Check()
	return slices.Clone(f.attributes)
}

/*
CreateVertexInputFormat validates that every attribute refers to a declared
binding and that locations are unique.
*/
func (d *Device) CreateVertexInputFormat(info VertexInputFormatCreateInfo) (*VertexInputFormat, error) {
	d.noCopy.Check()
	bindings := map[uint32]struct{}{}
	for _, b := range info.Bindings {
		if _, ok := bindings[b.Binding]; ok {
			return nil, ErrorBadArgument
		}
		bindings[b.Binding] = struct{}{}
	}
	locations := map[uint32]struct{}{}
	for _, a := range info.Attributes {
		if _, ok := bindings[a.Binding]; !ok {
			return nil, ErrorBadArgument
		}
		if _, ok := locations[a.Location]; ok {
			return nil, ErrorBadArgument
		}
		if a.Format.BlockSize() == 0 {
			return nil, ErrorBadArgument
		}
		locations[a.Location] = struct{}{}
	}
	f := &VertexInputFormat{
		bindings:   slices.Clone(info.Bindings),
		attributes: slices.Clone(info.Attributes),
	}
	f.noCopy.Init()
	return f, nil
}

func (d *Device) DestroyVertexInputFormat(f *VertexInputFormat) {
	d.noCopy.Check()
	if f == nil {
		return
	}
	f.noCopy.Check()
	f.noCopy.Close()
}

var vertexAttributeFormats = map[BaseType][4]vk.Format{
	BaseTypeChar:   {vk.FormatR8Sint, vk.FormatR8G8Sint, vk.FormatR8G8B8Sint, vk.FormatR8G8B8A8Sint},
	BaseTypeInt:    {vk.FormatR32Sint, vk.FormatR32G32Sint, vk.FormatR32G32B32Sint, vk.FormatR32G32B32A32Sint},
	BaseTypeUInt:   {vk.FormatR32Uint, vk.FormatR32G32Uint, vk.FormatR32G32B32Uint, vk.FormatR32G32B32A32Uint},
	BaseTypeInt64:  {vk.FormatR64Sint, vk.FormatR64G64Sint, vk.FormatR64G64B64Sint, vk.FormatR64G64B64A64Sint},
	BaseTypeUInt64: {vk.FormatR64Uint, vk.FormatR64G64Uint, vk.FormatR64G64B64Uint, vk.FormatR64G64B64A64Uint},
	BaseTypeHalf:   {vk.FormatR16Sfloat, vk.FormatR16G16Sfloat, vk.FormatR16G16B16Sfloat, vk.FormatR16G16B16A16Sfloat},
	BaseTypeFloat:  {vk.FormatR32Sfloat, vk.FormatR32G32Sfloat, vk.FormatR32G32B32Sfloat, vk.FormatR32G32B32A32Sfloat},
	BaseTypeDouble: {vk.FormatR64Sfloat, vk.FormatR64G64Sfloat, vk.FormatR64G64B64Sfloat, vk.FormatR64G64B64A64Sfloat},
}

/*
vertexAttributeFormat maps a reflected stage input to an attribute format,
FormatUndefined when it has no attribute equivalent.
*/
func vertexAttributeFormat(t BaseType, vecSize uint32) vk.Format {
	formats, ok := vertexAttributeFormats[t]
	if !ok || vecSize == 0 || vecSize > 4 {
		return vk.FormatUndefined
	}
	return formats[vecSize-1]
}

/*
deriveVertexInputFormat packs the vertex stage inputs, sorted by location, into
one interleaved per vertex binding.
*/
func deriveVertexInputFormat(inputs []PipelineResource) *VertexInputFormat {
	inputs = slices.Clone(inputs)
	slices.SortFunc(inputs, func(a, b PipelineResource) int {
		return cmp.Compare(a.Location, b.Location)
	})

	f := &VertexInputFormat{}
	offset := uint32(0)
	for _, in := range inputs {
		format := vertexAttributeFormat(in.BaseType, in.VecSize)
		if format == vk.FormatUndefined {
			instance.logger.WPrintf("Vertex input %q at location %d has no attribute format for %s[%d]", in.Name, in.Location, in.BaseType, in.VecSize)
			continue
		}
		// matrices take one location per column
		for c := range max(in.Columns, 1) {
			f.attributes = append(f.attributes, native.VertexInputAttributeDescription{
				Location: in.Location + c,
				Binding:  0,
				Format:   format,
				Offset:   offset,
			})
			offset += format.BlockSize()
		}
	}
	if len(f.attributes) > 0 {
		f.bindings = []native.VertexInputBindingDescription{{Binding: 0, Stride: offset, InputRate: vk.VertexInputRateVertex}}
	}
	f.noCopy.Init()
	return f
}
