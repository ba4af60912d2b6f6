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
	"cmp"
	"fmt"
	"slices"
	"sync"

	"goarrg.com/rhi/vez/internal/spirv"
	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type (
	ResourceKind   = spirv.ResourceKind
	BaseType       = spirv.BaseType
	ResourceAccess = spirv.Access
	ResourceMember = spirv.Member
)

const (
	ResourceInput                = spirv.ResourceInput
	ResourceOutput               = spirv.ResourceOutput
	ResourceSampler              = spirv.ResourceSampler
	ResourceCombinedImageSampler = spirv.ResourceCombinedImageSampler
	ResourceSampledImage         = spirv.ResourceSampledImage
	ResourceStorageImage         = spirv.ResourceStorageImage
	ResourceUniformTexelBuffer   = spirv.ResourceUniformTexelBuffer
	ResourceStorageTexelBuffer   = spirv.ResourceStorageTexelBuffer
	ResourceUniformBuffer        = spirv.ResourceUniformBuffer
	ResourceStorageBuffer        = spirv.ResourceStorageBuffer
	ResourceInputAttachment      = spirv.ResourceInputAttachment
	ResourcePushConstantBuffer   = spirv.ResourcePushConstantBuffer
)

const (
	BaseTypeUnknown = spirv.BaseTypeUnknown
	BaseTypeBool    = spirv.BaseTypeBool
	BaseTypeChar    = spirv.BaseTypeChar
	BaseTypeInt     = spirv.BaseTypeInt
	BaseTypeUInt    = spirv.BaseTypeUInt
	BaseTypeInt64   = spirv.BaseTypeInt64
	BaseTypeUInt64  = spirv.BaseTypeUInt64
	BaseTypeHalf    = spirv.BaseTypeHalf
	BaseTypeFloat   = spirv.BaseTypeFloat
	BaseTypeDouble  = spirv.BaseTypeDouble
	BaseTypeStruct  = spirv.BaseTypeStruct
)

const (
	ResourceAccessRead  = spirv.AccessRead
	ResourceAccessWrite = spirv.AccessWrite
)

/*
PipelineResource is one reflected resource merged across the stages of a
pipeline. Descriptors are unique per (Set, Binding), stage inputs and outputs
per (Stages, Location).
*/
type PipelineResource struct {
	Stages               vk.ShaderStageFlags
	Kind                 ResourceKind
	BaseType             BaseType
	Access               ResourceAccess
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
	Members              []ResourceMember
}

func (r PipelineResource) isDescriptor() bool {
	_, ok := resourceDescriptorTypes[r.Kind]
	return ok
}

type PipelineShaderStageCreateInfo struct {
	Module *ShaderModule
	// EntryPoint of "" uses the module's entry point.
	EntryPoint     string
	Specialization *native.SpecializationInfo
}

type GraphicsPipelineCreateInfo struct {
	Stages []PipelineShaderStageCreateInfo
}

type ComputePipelineCreateInfo struct {
	Stage PipelineShaderStageCreateInfo
}

/*
Pipeline is a template: graphics pipelines are baked per render pass, subpass
and state permutation when a recording ends.
*/
type Pipeline struct {
	noCopy     util.NoCopy
	device     *Device
	bindPoint  vk.PipelineBindPoint
	stageFlags vk.ShaderStageFlags
	stages     []native.ShaderStageCreateInfo
	resources  []PipelineResource
	setLayouts []*descriptorSetLayout
	layout     *pipelineLayout
	localSize  [3]uint32

	// descriptors indexes the descriptor resources by (set, binding).
	descriptors map[[2]uint32]PipelineResource

	deriveOnce    sync.Once
	derivedVertex *VertexInputFormat
}

func (p *Pipeline) BindPoint() vk.PipelineBindPoint {
	p.noCopy.Check()
	return p.bindPoint
}

func (p *Pipeline) Layout() native.PipelineLayout {
	p.noCopy.Check()
	return p.layout.handle
}

/*
LocalSize is the workgroup size of a compute pipeline.
*/
func (p *Pipeline) LocalSize() [3]uint32 {
	p.noCopy.Check()
	return p.localSize
}

func (p *Pipeline) Resources() []PipelineResource {
	p.noCopy.Check()
	return slices.Clone(p.resources)
}

/*
Resource returns the first resource named name, ErrorIncomplete if there is
none.
*/
func (p *Pipeline) Resource(name string) (PipelineResource, error) {
	p.noCopy.Check()
	for _, r := range p.resources {
		if r.Name == name {
			return r, nil
		}
	}
	return PipelineResource{}, ErrorIncomplete
}

func (p *Pipeline) resourcesOf(kind ResourceKind, stage vk.ShaderStageFlags) []PipelineResource {
	var out []PipelineResource
	for _, r := range p.resources {
		if r.Kind == kind && (stage == 0 || hasBits(r.Stages, stage)) {
			out = append(out, r)
		}
	}
	return out
}

/*
vertexFormat is the format derived from the vertex stage inputs, used when no
format is set while recording.
*/
func (p *Pipeline) vertexFormat() *VertexInputFormat {
	p.deriveOnce.Do(func() {
		p.derivedVertex = deriveVertexInputFormat(p.resourcesOf(ResourceInput, vk.ShaderStageVertexBit))
	})
	return p.derivedVertex
}

func (p *Pipeline) pushConstants() native.PushConstantRange {
	return p.layout.pushConstants
}

func (p *Pipeline) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"stages\": %q,", p.stageFlags.String()))
	buff.WriteString(fmt.Sprintf("\"layout\": %q,", p.layout.id))

	buff.WriteString("\"resources\": [")
	if len(p.resources) > 0 {
		for _, r := range p.resources {
			buff.WriteString(fmt.Sprintf("{\"name\": %q, \"kind\": %q, \"stages\": %q, \"set\": %d, \"binding\": %d, \"location\": %d},",
				r.Name, r.Kind.String(), r.Stages.String(), r.Set, r.Binding, r.Location))
		}
		buff.Truncate(buff.Len() - 1)
	}
	buff.WriteString("]")

	buff.WriteString("}")
	return buff.Bytes(), nil
}

/*
mergeResources merges the reflected resources of every stage. Descriptors
sharing a slot must agree on kind and array size, push constant blocks collapse
into one range covering every stage's block.
*/
func mergeResources(stages map[vk.ShaderStageFlags]spirv.Reflection) ([]PipelineResource, error) {
	type locationKey struct {
		kind     ResourceKind
		stage    vk.ShaderStageFlags
		location uint32
	}
	descriptors := map[[2]uint32]*PipelineResource{}
	locations := map[locationKey]*PipelineResource{}
	var push *PipelineResource
	var merged []*PipelineResource

	order := make([]vk.ShaderStageFlags, 0, len(stages))
	for s := range stages {
		order = append(order, s)
	}
	slices.Sort(order)

	for _, stage := range order {
		for _, r := range stages[stage].Resources {
			res := PipelineResource{
				Stages: stage, Kind: r.Kind, BaseType: r.BaseType, Access: r.Access,
				Set: r.Set, Binding: r.Binding, Location: r.Location,
				InputAttachmentIndex: r.InputAttachmentIndex, VecSize: r.VecSize, Columns: r.Columns,
				ArraySize: r.ArraySize, Offset: r.Offset, Size: r.Size, Name: r.Name, Members: r.Members,
			}
			switch {
			case r.Kind == ResourceInput || r.Kind == ResourceOutput:
				k := locationKey{r.Kind, stage, r.Location}
				if _, ok := locations[k]; ok {
					continue
				}
				locations[k] = &res
				merged = append(merged, &res)

			case r.Kind == ResourcePushConstantBuffer:
				if push == nil {
					push = &res
					merged = append(merged, push)
					continue
				}
				end := max(push.Offset+push.Size, res.Offset+res.Size)
				push.Offset = min(push.Offset, res.Offset)
				push.Size = end - push.Offset
				push.Stages |= stage
				if push.Name == "" {
					push.Name = res.Name
				}

			default:
				k := [2]uint32{r.Set, r.Binding}
				cur, ok := descriptors[k]
				if !ok {
					descriptors[k] = &res
					merged = append(merged, &res)
					continue
				}
				if cur.Kind != res.Kind || cur.ArraySize != res.ArraySize {
					instance.logger.EPrintf("Set [%d] binding [%d] is %s[%d] in %s but %s[%d] in %s",
						r.Set, r.Binding, cur.Kind, cur.ArraySize, cur.Stages, res.Kind, res.ArraySize, stage)
					return nil, ErrorBadArgument
				}
				cur.Stages |= stage
				cur.Access |= res.Access
			}
		}
	}

	out := make([]PipelineResource, len(merged))
	for i, r := range merged {
		out[i] = *r
	}
	slices.SortStableFunc(out, func(a, b PipelineResource) int {
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Set, b.Set),
			cmp.Compare(a.Binding, b.Binding),
			cmp.Compare(a.Stages, b.Stages),
			cmp.Compare(a.Location, b.Location),
		)
	})
	return out, nil
}

/*
setBindings groups the descriptor resources into per set layout bindings,
sorted by binding. Sets without resources get an empty layout.
*/
func setBindings(resources []PipelineResource) [][]native.DescriptorSetLayoutBinding {
	var sets [][]native.DescriptorSetLayoutBinding
	for _, r := range resources {
		if !r.isDescriptor() {
			continue
		}
		sets = growSlice(sets, int(r.Set)+1)[:max(len(sets), int(r.Set)+1)]
		sets[r.Set] = append(sets[r.Set], native.DescriptorSetLayoutBinding{
			Binding:         r.Binding,
			DescriptorType:  resourceDescriptorTypes[r.Kind],
			DescriptorCount: max(r.ArraySize, 1),
			StageFlags:      r.Stages,
		})
	}
	for _, s := range sets {
		slices.SortFunc(s, func(a, b native.DescriptorSetLayoutBinding) int {
			return cmp.Compare(a.Binding, b.Binding)
		})
	}
	return sets
}

func (d *Device) newPipeline(bindPoint vk.PipelineBindPoint, stages []PipelineShaderStageCreateInfo) (*Pipeline, error) {
	reflections := map[vk.ShaderStageFlags]spirv.Reflection{}
	p := &Pipeline{device: d, bindPoint: bindPoint}

	for _, s := range stages {
		m := s.Module
		if m == nil {
			return nil, ErrorBadArgument
		}
		m.noCopy.Check()
		if m.poisoned() {
			instance.logger.WPrintf("Trying to create pipeline with a %s shader module that failed: %s", m.stage, m.infoLog)
			return nil, ErrorBadArgument
		}
		if hasBits(p.stageFlags, m.stage) {
			instance.logger.WPrintf("Trying to create pipeline with more than one %s stage", m.stage)
			return nil, ErrorBadArgument
		}
		if s.EntryPoint != "" && s.EntryPoint != m.entryPoint {
			instance.logger.WPrintf("Trying to create pipeline with entry point %q on a module reflected for %q", s.EntryPoint, m.entryPoint)
			return nil, ErrorBadArgument
		}
		p.stageFlags |= m.stage
		reflections[m.stage] = m.reflection
		p.stages = append(p.stages, native.ShaderStageCreateInfo{
			Stage:          m.stage,
			Module:         m.handle,
			EntryPoint:     m.entryPoint,
			Specialization: s.Specialization,
		})
		if m.stage == vk.ShaderStageComputeBit {
			p.localSize = m.reflection.EntryPoint.LocalSize
		}
	}

	resources, err := mergeResources(reflections)
	if err != nil {
		return nil, err
	}
	p.resources = resources
	p.descriptors = map[[2]uint32]PipelineResource{}
	for _, r := range resources {
		if r.isDescriptor() {
			p.descriptors[[2]uint32{r.Set, r.Binding}] = r
		}
	}

	var push native.PushConstantRange
	for _, r := range resources {
		if r.Kind == ResourcePushConstantBuffer {
			push = native.PushConstantRange{StageFlags: r.Stages, Offset: r.Offset, Size: r.Size}
		}
	}
	if limit := d.limits.MaxPushConstantsSize; limit > 0 && push.Offset+push.Size > limit {
		instance.logger.WPrintf("Push constant range [%d, %d) exceeds MaxPushConstantsSize [%d]", push.Offset, push.Offset+push.Size, limit)
		return nil, ErrorBadArgument
	}

	sets := setBindings(resources)
	if limit := d.limits.MaxBoundDescriptorSets; limit > 0 && uint32(len(sets)) > limit {
		instance.logger.WPrintf("Pipeline uses %d descriptor sets, MaxBoundDescriptorSets is %d", len(sets), limit)
		return nil, ErrorBadArgument
	}
	for _, bindings := range sets {
		l, err := d.setLayouts.acquire(bindings)
		if err != nil {
			p.releaseLayouts()
			return nil, err
		}
		p.setLayouts = append(p.setLayouts, l)
	}
	p.layout, err = d.pipelineLayouts.acquire(p.setLayouts, push)
	if err != nil {
		p.releaseLayouts()
		return nil, err
	}
	p.noCopy.Init()
	return p, nil
}

func (p *Pipeline) releaseLayouts() {
	if p.layout != nil {
		p.device.pipelineLayouts.release(p.layout)
		p.layout = nil
	}
	for _, l := range p.setLayouts {
		p.device.setLayouts.release(l)
	}
	p.setLayouts = nil
}

/*
CreateGraphicsPipeline merges the resources of every stage and derives the
descriptor set and pipeline layouts, a vertex stage is required.
*/
func (d *Device) CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (*Pipeline, error) {
	d.noCopy.Check()
	p, err := d.newPipeline(vk.PipelineBindPointGraphics, info.Stages)
	if err != nil {
		return nil, err
	}
	if !hasBits(p.stageFlags, vk.ShaderStageVertexBit) || hasBits(p.stageFlags, vk.ShaderStageComputeBit) {
		instance.logger.WPrintf("Trying to create graphics pipeline with stages %s", p.stageFlags)
		p.releaseLayouts()
		p.noCopy.Close()
		return nil, ErrorBadArgument
	}
	instance.logger.VPrintf("Created graphics pipeline with stages %s and layout %s", p.stageFlags, p.layout.id)
	return p, nil
}

func (d *Device) CreateComputePipeline(info ComputePipelineCreateInfo) (*Pipeline, error) {
	d.noCopy.Check()
	if info.Stage.Module == nil || info.Stage.Module.stage != vk.ShaderStageComputeBit {
		return nil, ErrorBadArgument
	}
	p, err := d.newPipeline(vk.PipelineBindPointCompute, []PipelineShaderStageCreateInfo{info.Stage})
	if err != nil {
		return nil, err
	}
	if _, err := d.pipelines.compute(p); err != nil {
		p.releaseLayouts()
		p.noCopy.Close()
		return nil, err
	}
	instance.logger.VPrintf("Created compute pipeline with layout %s", p.layout.id)
	return p, nil
}

/*
DestroyPipeline destroys every permutation baked from p, recordings using p
must not be pending.
*/
func (d *Device) DestroyPipeline(p *Pipeline) {
	d.noCopy.Check()
	if p == nil {
		return
	}
	p.noCopy.Check()
	d.pipelines.remove(p)
	p.releaseLayouts()
	p.noCopy.Close()
}
