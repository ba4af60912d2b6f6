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
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type pipelineKey struct {
	pipeline *Pipeline
	rp       *renderPass
	subpass  uint32
	state    graphicsStateKey
}

/*
pipelineCache bakes native pipelines. Compute pipelines have one native object
per Pipeline, graphics pipelines one per render pass, subpass and state.
*/
type pipelineCache struct {
	device *Device
	mtx    sync.RWMutex

	graphics   map[pipelineKey]native.Pipeline
	computes   map[*Pipeline]native.Pipeline
	byPipeline map[*Pipeline][]pipelineKey
	hits       atomic.Uint64
	misses     atomic.Uint64
}

func (c *pipelineCache) init(d *Device) {
	c.device = d
	c.graphics = map[pipelineKey]native.Pipeline{}
	c.computes = map[*Pipeline]native.Pipeline{}
	c.byPipeline = map[*Pipeline][]pipelineKey{}
}

func (c *pipelineCache) compute(p *Pipeline) (native.Pipeline, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if h, ok := c.computes[p]; ok {
		c.hits.Add(1)
		return h, nil
	}
	h, err := c.device.native.CreateComputePipeline(native.ComputePipelineCreateInfo{
		Stage:  p.stages[0],
		Layout: p.layout.handle,
	})
	if err != nil {
		instance.logger.EPrintf("Failed to create compute pipeline with layout %s: %s", p.layout.id, err)
		return 0, err
	}
	c.misses.Add(1)
	c.computes[p] = h
	return h, nil
}

/*
graphicsCreateInfo derives the full native create info of p against subpass
of rp with state s.
*/
func graphicsCreateInfo(p *Pipeline, rp *renderPass, subpass uint32, s *graphicsState) native.GraphicsPipelineCreateInfo {
	desc := rp.info.Subpasses[subpass]
	info := native.GraphicsPipelineCreateInfo{
		Stages: p.stages,

		Topology:               s.inputAssembly.Topology,
		PrimitiveRestartEnable: s.inputAssembly.PrimitiveRestartEnable,
		ViewportCount:          max(s.viewportCount, 1),

		DepthClampEnable:        s.rasterization.DepthClampEnable,
		RasterizerDiscardEnable: s.rasterization.RasterizerDiscardEnable,
		PolygonMode:             s.rasterization.PolygonMode,
		CullMode:                s.rasterization.CullMode,
		FrontFace:               s.rasterization.FrontFace,
		DepthBiasEnable:         s.rasterization.DepthBiasEnable,
		LineWidth:               1,

		RasterizationSamples:  s.multisample.RasterizationSamples,
		SampleShadingEnable:   s.multisample.SampleShadingEnable,
		MinSampleShading:      s.multisample.MinSampleShading,
		AlphaToCoverageEnable: s.multisample.AlphaToCoverageEnable,
		AlphaToOneEnable:      s.multisample.AlphaToOneEnable,

		DepthTestEnable:       s.depthStencil.DepthTestEnable,
		DepthWriteEnable:      s.depthStencil.DepthWriteEnable,
		DepthCompareOp:        s.depthStencil.DepthCompareOp,
		DepthBoundsTestEnable: s.depthStencil.DepthBoundsTestEnable,
		StencilTestEnable:     s.depthStencil.StencilTestEnable,
		Front:                 nativeStencilOpState(s.depthStencil.Front),
		Back:                  nativeStencilOpState(s.depthStencil.Back),

		LogicOpEnable:    s.logicOpEnable,
		LogicOp:          s.logicOp,
		BlendAttachments: s.blendAttachments(len(desc.ColorAttachments)),

		DynamicStates: allDynamicStates,

		Layout:     p.layout.handle,
		RenderPass: rp.handle,
		Subpass:    subpass,
	}

	if info.RasterizationSamples == 0 {
		info.RasterizationSamples = rp.subpassSamples(subpass)
	}
	if hasBits(p.stageFlags, vk.ShaderStageTessellationControlBit) {
		info.PatchControlPoints = 3
	}

	format := s.vertexFormat
	if format == nil {
		format = p.vertexFormat()
	}
	info.VertexBindings = format.bindings
	info.VertexAttributes = format.attributes
	return info
}

func nativeStencilOpState(s StencilOpState) native.StencilOpState {
	return native.StencilOpState{
		FailOp:      s.FailOp,
		PassOp:      s.PassOp,
		DepthFailOp: s.DepthFailOp,
		CompareOp:   s.CompareOp,
	}
}

/*
graphicsPipeline returns the native pipeline for p with state s in subpass of rp,
creating it on the first request.
*/
func (c *pipelineCache) graphicsPipeline(p *Pipeline, rp *renderPass, subpass uint32, s *graphicsState) (native.Pipeline, error) {
	key := pipelineKey{pipeline: p, rp: rp, subpass: subpass, state: s.key()}

	c.mtx.RLock()
	h, ok := c.graphics[key]
	c.mtx.RUnlock()
	if ok {
		c.hits.Add(1)
		return h, nil
	}

	h, err := c.device.native.CreateGraphicsPipeline(graphicsCreateInfo(p, rp, subpass, s))
	if err != nil {
		instance.logger.EPrintf("Failed to create graphics pipeline with layout %s for subpass %d: %s", p.layout.id, subpass, err)
		return 0, err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	if cur, ok := c.graphics[key]; ok {
		c.device.native.DestroyPipeline(h)
		c.hits.Add(1)
		return cur, nil
	}
	c.misses.Add(1)
	c.graphics[key] = h
	c.byPipeline[p] = append(c.byPipeline[p], key)
	instance.logger.VPrintf("Created graphics pipeline %s with layout %s for subpass %d", toHex(h), p.layout.id, subpass)
	return h, nil
}

/*
purge destroys every graphics pipeline baked against one of rps.
*/
func (c *pipelineCache) purge(rps []*renderPass) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for k, h := range c.graphics {
		if !slices.Contains(rps, k.rp) {
			continue
		}
		c.device.native.DestroyPipeline(h)
		delete(c.graphics, k)
		c.byPipeline[k.pipeline] = slices.DeleteFunc(c.byPipeline[k.pipeline], func(o pipelineKey) bool {
			return o == k
		})
	}
}

func (c *pipelineCache) remove(p *Pipeline) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if h, ok := c.computes[p]; ok {
		c.device.native.DestroyPipeline(h)
		delete(c.computes, p)
	}
	for _, k := range c.byPipeline[p] {
		c.device.native.DestroyPipeline(c.graphics[k])
		delete(c.graphics, k)
	}
	delete(c.byPipeline, p)
}

func (c *pipelineCache) stats() (int, uint64, uint64) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.graphics) + len(c.computes), c.hits.Load(), c.misses.Load()
}

func (c *pipelineCache) destroy() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for _, h := range c.graphics {
		c.device.native.DestroyPipeline(h)
	}
	for _, h := range c.computes {
		c.device.native.DestroyPipeline(h)
	}
	clear(c.graphics)
	clear(c.computes)
	clear(c.byPipeline)
}

func (c *pipelineCache) MarshalJSON() ([]byte, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"hits\": %d,", c.hits.Load()))
	buff.WriteString(fmt.Sprintf("\"misses\": %d,", c.misses.Load()))

	buff.WriteString("\"compute\": {")
	{
		entries := map[string]native.Pipeline{}
		for p, h := range c.computes {
			entries[p.layout.id] = h
		}
		err := mapRunFuncSorted(entries, func(k string, v native.Pipeline) error {
			buff.WriteString(fmt.Sprintf("%q: %q,", k, toHex(v)))
			return nil
		})
		if err == nil {
			buff.Truncate(buff.Len() - 1)
		}
	}
	buff.WriteString("},")

	buff.WriteString("\"graphics\": {")
	{
		entries := map[string]native.Pipeline{}
		for k, h := range c.graphics {
			entries[genID(k.pipeline.layout.id, k.rp.key, k.subpass, toHex(uint64(k.state.words[0])<<32|uint64(k.state.words[1])), toHex(h))] = h
		}
		err := mapRunFuncSorted(entries, func(k string, v native.Pipeline) error {
			buff.WriteString(fmt.Sprintf("%q: %q,", k, toHex(v)))
			return nil
		})
		if err == nil {
			buff.Truncate(buff.Len() - 1)
		}
	}
	buff.WriteString("}")

	buff.WriteString("}")
	return buff.Bytes(), nil
}
