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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/rhi/vez/internal/spirv"
	"goarrg.com/rhi/vez/internal/spirv/spirvtest"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/native/nativetest"
	"goarrg.com/rhi/vez/vk"
)

func createShader(t *testing.T, d *Device, stage vk.ShaderStageFlags, s spirvtest.Shader) *ShaderModule {
	t.Helper()
	m, err := d.CreateShaderModule(ShaderModuleCreateInfo{Stage: stage, Code: s.Assemble()})
	require.NoError(t, err)
	t.Cleanup(func() { d.DestroyShaderModule(m) })
	return m
}

func createComputePipeline(t *testing.T, d *Device) *Pipeline {
	t.Helper()
	m := createShader(t, d, vk.ShaderStageComputeBit, spirvtest.Shader{
		Model:          spirv.ExecutionModelGLCompute,
		LocalSize:      [3]uint32{8, 1, 1},
		StorageBuffers: []spirvtest.Binding{{Name: "data", Set: 0, Binding: 0}},
	})
	p, err := d.CreateComputePipeline(ComputePipelineCreateInfo{Stage: PipelineShaderStageCreateInfo{Module: m}})
	require.NoError(t, err)
	return p
}

func createGraphicsPipeline(t *testing.T, d *Device) *Pipeline {
	t.Helper()
	vs := createShader(t, d, vk.ShaderStageVertexBit, spirvtest.Shader{
		Model:   spirv.ExecutionModelVertex,
		Outputs: []spirvtest.Var{{Name: "uv", Location: 0, Type: spirvtest.Float, Components: 2}},
	})
	fs := createShader(t, d, vk.ShaderStageFragmentBit, spirvtest.Shader{
		Model:   spirv.ExecutionModelFragment,
		Inputs:  []spirvtest.Var{{Name: "uv", Location: 0, Type: spirvtest.Float, Components: 2}},
		Outputs: []spirvtest.Var{{Name: "color", Location: 0, Type: spirvtest.Float, Components: 4}},
	})
	p, err := d.CreateGraphicsPipeline(GraphicsPipelineCreateInfo{Stages: []PipelineShaderStageCreateInfo{{Module: vs}, {Module: fs}}})
	require.NoError(t, err)
	return p
}

func TestCreateShaderModule(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	code := spirvtest.Shader{Model: spirv.ExecutionModelVertex}.Assemble()

	_, err := d.CreateShaderModule(ShaderModuleCreateInfo{Code: code})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateShaderModule(ShaderModuleCreateInfo{Stage: vk.ShaderStageVertexBit})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateShaderModule(ShaderModuleCreateInfo{Stage: vk.ShaderStageVertexBit, Code: code, WGSL: "fn main() {}"})
	assert.ErrorIs(t, err, ErrorBadArgument)

	m, err := d.CreateShaderModule(ShaderModuleCreateInfo{Stage: vk.ShaderStageVertexBit, Code: code})
	require.NoError(t, err)
	assert.NotZero(t, m.Handle())
	assert.Equal(t, "main", m.EntryPoint())
	assert.Empty(t, m.InfoLog())
	d.DestroyShaderModule(m)
	assert.Equal(t, 0, e.native.Live(nativetest.KindShaderModule))

	tests := []struct {
		name  string
		stage vk.ShaderStageFlags
		code  []uint32
	}{
		{"Garbage", vk.ShaderStageVertexBit, []uint32{0xDEADBEEF, 1, 2, 3, 4}},
		{"StageMismatch", vk.ShaderStageFragmentBit, code},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := d.CreateShaderModule(ShaderModuleCreateInfo{Stage: tc.stage, Code: tc.code})
			assert.ErrorIs(t, err, ErrorInitializationFailed)
			require.NotNil(t, m)
			assert.Zero(t, m.Handle())
			assert.NotEmpty(t, m.InfoLog())

			_, err = d.CreateGraphicsPipeline(GraphicsPipelineCreateInfo{Stages: []PipelineShaderStageCreateInfo{{Module: m}}})
			assert.ErrorIs(t, err, ErrorBadArgument)
			d.DestroyShaderModule(m)
		})
	}
}

func TestComputePipelineReflection(t *testing.T) {
	e := newTestEnv(t)
	p := createComputePipeline(t, e.device)

	assert.Equal(t, vk.PipelineBindPointCompute, p.BindPoint())
	assert.Equal(t, [3]uint32{8, 1, 1}, p.LocalSize())
	r, err := p.Resource("data")
	require.NoError(t, err)
	assert.Equal(t, ResourceStorageBuffer, r.Kind)
	assert.Equal(t, vk.ShaderStageComputeBit, r.Stages)
	assert.Equal(t, uint32(0), r.Set)
	assert.Equal(t, uint32(0), r.Binding)
	_, err = p.Resource("missing")
	assert.ErrorIs(t, err, ErrorIncomplete)

	layout := e.native.PipelineLayout(p.Layout())
	require.Len(t, layout.SetLayouts, 1)
	bindings := e.native.DescriptorSetLayoutBindings(layout.SetLayouts[0])
	require.Len(t, bindings, 1)
	assert.Equal(t, vk.DescriptorTypeStorageBuffer, bindings[0].DescriptorType)

	// layouts are shared between pipelines with the same bindings
	other := createComputePipeline(t, e.device)
	assert.Equal(t, p.Layout(), other.Layout())
	assert.Equal(t, 1, e.device.Stats().PipelineLayouts)

	e.device.DestroyPipeline(other)
	e.device.DestroyPipeline(p)
}

func TestCreatePipelineValidation(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	vs := createShader(t, d, vk.ShaderStageVertexBit, spirvtest.Shader{Model: spirv.ExecutionModelVertex})
	fs := createShader(t, d, vk.ShaderStageFragmentBit, spirvtest.Shader{Model: spirv.ExecutionModelFragment})

	_, err := d.CreateGraphicsPipeline(GraphicsPipelineCreateInfo{Stages: []PipelineShaderStageCreateInfo{{Module: fs}}})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateGraphicsPipeline(GraphicsPipelineCreateInfo{Stages: []PipelineShaderStageCreateInfo{{Module: vs}, {Module: vs}}})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateGraphicsPipeline(GraphicsPipelineCreateInfo{Stages: []PipelineShaderStageCreateInfo{{Module: vs, EntryPoint: "other"}}})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateComputePipeline(ComputePipelineCreateInfo{Stage: PipelineShaderStageCreateInfo{Module: vs}})
	assert.ErrorIs(t, err, ErrorBadArgument)
	_, err = d.CreateComputePipeline(ComputePipelineCreateInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)
	assert.Equal(t, 0, d.Stats().PipelineLayouts)
}

func TestDispatch(t *testing.T) {
	e := newTestEnv(t)
	q := e.graphicsQueue(t)
	p := createComputePipeline(t, e.device)
	bufs := newTransferBuffers(t, e.device, 2, 256)
	b, c := bufs[0], bufs[1]

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.BindPipeline(p)
		cb.BindBuffer(b, 0, vk.WholeSize, 0, 0, 0)
		cb.Dispatch(4, 1, 1)
		cb.CopyBuffer(b, c, []vk.BufferCopy{{Size: 256}})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"BindPipeline", "BindDescriptorSets", "Dispatch", "PipelineBarrier", "CopyBuffer"}, e.native.Ops(cb.Handle()))

	calls := e.native.Calls(cb.Handle())
	bind := calls[1].Args.(nativetest.BindDescriptorSetsArgs)
	assert.Equal(t, vk.PipelineBindPointCompute, bind.BindPoint)
	assert.Equal(t, p.Layout(), bind.Layout)
	require.Len(t, bind.Sets, 1)
	writes := e.native.DescriptorWrites(bind.Sets[0])
	require.Len(t, writes, 1)
	assert.Equal(t, b.Handle(), writes[0].BufferInfo.Buffer)
	assert.Equal(t, vk.WholeSize, writes[0].BufferInfo.Range)
	assert.Equal(t, nativetest.DispatchArgs{X: 4, Y: 1, Z: 1}, calls[2].Args)

	barrier := calls[3].Args.(native.PipelineBarrier)
	require.Len(t, barrier.BufferBarriers, 1)
	assert.Equal(t, b.Handle(), barrier.BufferBarriers[0].Buffer)
	assert.Equal(t, vk.PipelineStageComputeShaderBit, barrier.SrcStageMask)
	assert.Equal(t, vk.PipelineStageTransferBit, barrier.DstStageMask)

	assert.Equal(t, 1, e.device.Stats().DescriptorSetsInUse)
	e.submit(t, q, cb)
	require.NoError(t, cb.Reset())
	assert.Equal(t, 0, e.device.Stats().DescriptorSetsInUse)
}

func TestDispatchReusesBoundSets(t *testing.T) {
	e := newTestEnv(t)
	p := createComputePipeline(t, e.device)
	b := newTransferBuffers(t, e.device, 1, 256)[0]

	cb, err := e.record(t, e.graphicsQueue(t), func(cb *CommandBuffer) {
		cb.BindPipeline(p)
		cb.BindBuffer(b, 0, vk.WholeSize, 0, 0, 0)
		cb.Dispatch(1, 1, 1)
		cb.Dispatch(1, 1, 1)
		cb.BindBuffer(b, 128, 128, 0, 0, 0)
		cb.Dispatch(1, 1, 1)
	})
	require.NoError(t, err)
	ops := e.native.Ops(cb.Handle())
	sets := 0
	for _, op := range ops {
		if op == "BindDescriptorSets" {
			sets++
		}
	}
	assert.Equal(t, 2, sets)
	assert.Equal(t, 0, opIndex(ops, "BindPipeline"))
	assert.Equal(t, 1, e.native.Created(nativetest.KindPipeline))
}

func TestDraw(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	p := createGraphicsPipeline(t, d)

	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 64, 64, vk.ImageUsageColorAttachmentBit|vk.ImageUsageSampledBit))
	require.NoError(t, err)
	view, err := d.CreateImageView(ImageViewCreateInfo{Image: img})
	require.NoError(t, err)
	fb, err := d.CreateFramebuffer(FramebufferCreateInfo{Attachments: []*ImageView{view}})
	require.NoError(t, err)
	assert.Equal(t, vk.Extent2D{Width: 64, Height: 64}, fb.Extent())

	draw := func(cb *CommandBuffer) {
		cb.BeginRenderPass(RenderPassBeginInfo{
			Framebuffer: fb,
			Attachments: []AttachmentInfo{{LoadOp: vk.AttachmentLoadOpClear, ClearValue: vk.ClearValueColor(vk.ClearColorFloat32(0, 0, 0, 1))}},
		})
		cb.BindPipeline(p)
		cb.Draw(3, 1, 0, 0)
		cb.EndRenderPass()
	}

	cb, err := e.record(t, q, draw)
	require.NoError(t, err)
	ops := e.native.Ops(cb.Handle())
	begin := opIndex(ops, "BeginRenderPass")
	require.GreaterOrEqual(t, begin, 0)
	assert.Less(t, begin, opIndex(ops, "BindPipeline"))
	assert.Less(t, opIndex(ops, "BindPipeline"), opIndex(ops, "Draw"))
	assert.Less(t, opIndex(ops, "Draw"), opIndex(ops, "EndRenderPass"))
	assert.Greater(t, opIndex(ops, "SetViewport"), begin)
	assert.Greater(t, opIndex(ops, "SetScissor"), begin)

	calls := e.native.Calls(cb.Handle())
	info := calls[begin].Args.(native.RenderPassBeginInfo)
	assert.Equal(t, vk.Extent2D{Width: 64, Height: 64}, info.RenderArea.Extent)
	require.Len(t, info.ClearValues, 1)
	rp := e.native.RenderPass(info.RenderPass)
	require.Len(t, rp.Attachments, 1)
	assert.Equal(t, vk.AttachmentLoadOpClear, rp.Attachments[0].LoadOp)
	assert.Equal(t, vk.FormatR8G8B8A8Unorm, rp.Attachments[0].Format)

	viewport := calls[opIndex(ops, "SetViewport")].Args.(nativetest.ViewportArgs)
	require.Len(t, viewport.Viewports, 1)
	assert.Equal(t, float32(64), viewport.Viewports[0].Width)

	bound := calls[opIndex(ops, "BindPipeline")].Args.(nativetest.BindPipelineArgs)
	assert.Equal(t, vk.PipelineBindPointGraphics, bound.BindPoint)
	assert.Len(t, e.native.GraphicsPipeline(bound.Pipeline).Stages, 2)
	assert.Equal(t, nativetest.DrawArgs{VertexCount: 3, InstanceCount: 1}, calls[opIndex(ops, "Draw")].Args)

	// a clear discards the old contents, the transition starts from undefined
	barriers := e.native.Barriers(cb.Handle())
	require.NotEmpty(t, barriers)
	require.Len(t, barriers[0].ImageBarriers, 1)
	assert.Equal(t, vk.ImageLayoutUndefined, barriers[0].ImageBarriers[0].OldLayout)
	assert.Equal(t, vk.ImageLayoutColorAttachmentOptimal, barriers[0].ImageBarriers[0].NewLayout)
	assert.Less(t, opIndex(ops, "PipelineBarrier"), begin)

	pipelines := e.native.Created(nativetest.KindPipeline)
	renderPasses := e.native.Created(nativetest.KindRenderPass)
	framebuffers := e.native.Created(nativetest.KindFramebuffer)
	hits := d.Stats().PipelineHits

	again, err := e.record(t, q, draw)
	require.NoError(t, err)
	assert.Equal(t, ops, e.native.Ops(again.Handle()))
	assert.Equal(t, pipelines, e.native.Created(nativetest.KindPipeline))
	assert.Equal(t, renderPasses, e.native.Created(nativetest.KindRenderPass))
	assert.Equal(t, framebuffers, e.native.Created(nativetest.KindFramebuffer))
	assert.Greater(t, d.Stats().PipelineHits, hits)
	assert.Positive(t, d.Stats().RenderPassHits)

	e.submit(t, q, cb)
	e.submit(t, q, again)
}

func TestDrawValidation(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	compute := createComputePipeline(t, d)

	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 16, 16, vk.ImageUsageColorAttachmentBit))
	require.NoError(t, err)
	view, err := d.CreateImageView(ImageViewCreateInfo{Image: img})
	require.NoError(t, err)
	fb, err := d.CreateFramebuffer(FramebufferCreateInfo{Attachments: []*ImageView{view}})
	require.NoError(t, err)

	tests := []struct {
		name   string
		record func(cb *CommandBuffer)
	}{
		{"NoPipeline", func(cb *CommandBuffer) {
			cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
			cb.Draw(3, 1, 0, 0)
			cb.EndRenderPass()
		}},
		{"ComputePipeline", func(cb *CommandBuffer) {
			cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
			cb.BindPipeline(compute)
			cb.Draw(3, 1, 0, 0)
			cb.EndRenderPass()
		}},
		{"NoFramebuffer", func(cb *CommandBuffer) {
			cb.BeginRenderPass(RenderPassBeginInfo{})
		}},
		{"TooManyAttachmentInfos", func(cb *CommandBuffer) {
			cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb, Attachments: make([]AttachmentInfo, 2)})
		}},
		{"NestedRenderPass", func(cb *CommandBuffer) {
			cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
			cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
			cb.EndRenderPass()
		}},
		{"CopyInsideRenderPass", func(cb *CommandBuffer) {
			cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
			cb.ClearColorImage(img, vk.ClearColorFloat32(0, 0, 0, 0), nil)
			cb.EndRenderPass()
		}},
		{"Unterminated", func(cb *CommandBuffer) {
			cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.record(t, q, tc.record)
			assert.ErrorIs(t, err, ErrorBadArgument)
		})
	}

	_, err = d.CreateFramebuffer(FramebufferCreateInfo{})
	assert.ErrorIs(t, err, ErrorBadArgument)
}

func TestSubpassInputAttachmentDependency(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	first := createGraphicsPipeline(t, d)
	vs := createShader(t, d, vk.ShaderStageVertexBit, spirvtest.Shader{
		Model:   spirv.ExecutionModelVertex,
		Outputs: []spirvtest.Var{{Name: "uv", Location: 0, Type: spirvtest.Float, Components: 2}},
	})
	fs := createShader(t, d, vk.ShaderStageFragmentBit, spirvtest.Shader{
		Model:            spirv.ExecutionModelFragment,
		Inputs:           []spirvtest.Var{{Name: "uv", Location: 0, Type: spirvtest.Float, Components: 2}},
		Outputs:          []spirvtest.Var{{Name: "color", Location: 1, Type: spirvtest.Float, Components: 4}},
		InputAttachments: []spirvtest.InputAttachment{{Binding: spirvtest.Binding{Name: "previous", Set: 0, Binding: 0}, Index: 0}},
	})
	second, err := d.CreateGraphicsPipeline(GraphicsPipelineCreateInfo{Stages: []PipelineShaderStageCreateInfo{{Module: vs}, {Module: fs}}})
	require.NoError(t, err)

	views := make([]*ImageView, 2)
	for i := range views {
		img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 32, 32,
			vk.ImageUsageColorAttachmentBit|vk.ImageUsageInputAttachmentBit))
		require.NoError(t, err)
		views[i], err = d.CreateImageView(ImageViewCreateInfo{Image: img})
		require.NoError(t, err)
	}
	fb, err := d.CreateFramebuffer(FramebufferCreateInfo{Attachments: views})
	require.NoError(t, err)

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
		cb.BindPipeline(first)
		cb.Draw(3, 1, 0, 0)
		cb.NextSubpass()
		cb.BindPipeline(second)
		cb.Draw(3, 1, 0, 0)
		cb.EndRenderPass()
	})
	require.NoError(t, err)
	ops := e.native.Ops(cb.Handle())
	begin, end := opIndex(ops, "BeginRenderPass"), opIndex(ops, "EndRenderPass")
	require.GreaterOrEqual(t, begin, 0)
	require.Greater(t, end, begin)
	assert.Contains(t, ops[begin:end], "NextSubpass")
	assert.NotContains(t, ops[begin:end], "PipelineBarrier")

	info := e.native.Calls(cb.Handle())[begin].Args.(native.RenderPassBeginInfo)
	rp := e.native.RenderPass(info.RenderPass)
	require.Len(t, rp.Subpasses, 2)
	assert.Equal(t, []native.AttachmentReference{{Attachment: 0, Layout: vk.ImageLayoutColorAttachmentOptimal}}, rp.Subpasses[0].ColorAttachments)
	assert.Equal(t, []native.AttachmentReference{{Attachment: 0, Layout: vk.ImageLayoutShaderReadOnlyOptimal}}, rp.Subpasses[1].InputAttachments)
	require.Len(t, rp.Subpasses[1].ColorAttachments, 2)
	assert.Equal(t, vk.AttachmentUnused, rp.Subpasses[1].ColorAttachments[0].Attachment)
	assert.Equal(t, uint32(1), rp.Subpasses[1].ColorAttachments[1].Attachment)

	var dep *native.SubpassDependency
	for i := range rp.Dependencies {
		if rp.Dependencies[i].SrcSubpass == 0 && rp.Dependencies[i].DstSubpass == 1 {
			dep = &rp.Dependencies[i]
		}
	}
	require.NotNil(t, dep)
	assert.Equal(t, vk.PipelineStageColorAttachmentOutputBit, dep.SrcStageMask)
	assert.Equal(t, vk.AccessColorAttachmentWriteBit, dep.SrcAccessMask)
	assert.Equal(t, vk.PipelineStageFragmentShaderBit, dep.DstStageMask)
	assert.Equal(t, vk.AccessInputAttachmentReadBit, dep.DstAccessMask)
	assert.Equal(t, vk.DependencyByRegionBit, dep.DependencyFlags)

	e.submit(t, q, cb)
}

func TestDepthOnlyRenderPass(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	q := e.graphicsQueue(t)
	vs := createShader(t, d, vk.ShaderStageVertexBit, spirvtest.Shader{Model: spirv.ExecutionModelVertex})
	p, err := d.CreateGraphicsPipeline(GraphicsPipelineCreateInfo{Stages: []PipelineShaderStageCreateInfo{{Module: vs}}})
	require.NoError(t, err)

	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatD32Sfloat, 32, 32, vk.ImageUsageDepthStencilAttachmentBit))
	require.NoError(t, err)
	view, err := d.CreateImageView(ImageViewCreateInfo{Image: img})
	require.NoError(t, err)
	fb, err := d.CreateFramebuffer(FramebufferCreateInfo{Attachments: []*ImageView{view}})
	require.NoError(t, err)

	cb, err := e.record(t, q, func(cb *CommandBuffer) {
		cb.BeginRenderPass(RenderPassBeginInfo{
			Framebuffer: fb,
			Attachments: []AttachmentInfo{{LoadOp: vk.AttachmentLoadOpClear, ClearValue: vk.ClearValueDepthStencil(1, 0)}},
		})
		cb.SetDepthStencilState(DepthStencilState{DepthTestEnable: true, DepthWriteEnable: true, DepthCompareOp: vk.CompareOpLess})
		cb.BindPipeline(p)
		cb.Draw(3, 1, 0, 0)
		cb.EndRenderPass()
	})
	require.NoError(t, err)
	ops := e.native.Ops(cb.Handle())
	begin := opIndex(ops, "BeginRenderPass")
	require.GreaterOrEqual(t, begin, 0)
	calls := e.native.Calls(cb.Handle())

	rp := e.native.RenderPass(calls[begin].Args.(native.RenderPassBeginInfo).RenderPass)
	require.Len(t, rp.Attachments, 1)
	assert.Equal(t, vk.FormatD32Sfloat, rp.Attachments[0].Format)
	assert.Equal(t, vk.ImageLayoutDepthStencilAttachmentOptimal, rp.Attachments[0].InitialLayout)
	require.Len(t, rp.Subpasses, 1)
	assert.Empty(t, rp.Subpasses[0].ColorAttachments)
	require.NotNil(t, rp.Subpasses[0].DepthStencilAttachment)
	assert.Equal(t, native.AttachmentReference{Attachment: 0, Layout: vk.ImageLayoutDepthStencilAttachmentOptimal},
		*rp.Subpasses[0].DepthStencilAttachment)

	gp := e.native.GraphicsPipeline(calls[opIndex(ops, "BindPipeline")].Args.(nativetest.BindPipelineArgs).Pipeline)
	assert.Empty(t, gp.BlendAttachments)
	assert.True(t, gp.DepthTestEnable)
	assert.True(t, gp.DepthWriteEnable)

	barriers := e.native.Barriers(cb.Handle())
	require.NotEmpty(t, barriers)
	require.Len(t, barriers[0].ImageBarriers, 1)
	assert.Equal(t, vk.ImageLayoutDepthStencilAttachmentOptimal, barriers[0].ImageBarriers[0].NewLayout)
	assert.Less(t, opIndex(ops, "PipelineBarrier"), begin)
}

func TestRepeatedBindsBakeOnePipeline(t *testing.T) {
	e := newTestEnv(t)
	d := e.device
	p := createGraphicsPipeline(t, d)
	img, err := d.CreateImage(MemoryGPUOnly, image2D(vk.FormatR8G8B8A8Unorm, 16, 16, vk.ImageUsageColorAttachmentBit))
	require.NoError(t, err)
	view, err := d.CreateImageView(ImageViewCreateInfo{Image: img})
	require.NoError(t, err)
	fb, err := d.CreateFramebuffer(FramebufferCreateInfo{Attachments: []*ImageView{view}})
	require.NoError(t, err)

	_, err = e.record(t, e.graphicsQueue(t), func(cb *CommandBuffer) {
		cb.BeginRenderPass(RenderPassBeginInfo{Framebuffer: fb})
		for range 100 {
			cb.BindPipeline(p)
			cb.Draw(3, 1, 0, 0)
		}
		cb.EndRenderPass()
	})
	require.NoError(t, err)
	assert.Equal(t, 1, e.native.Created(nativetest.KindPipeline))
	stats := d.Stats()
	assert.Equal(t, 1, stats.Pipelines)
	assert.Equal(t, uint64(1), stats.PipelineMisses)
	assert.Equal(t, uint64(99), stats.PipelineHits)
}
