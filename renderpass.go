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
	"strings"
	"sync"
	"sync/atomic"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
AttachmentInfo sets the load and store ops of one framebuffer attachment, the
zero value loads and stores.
*/
type AttachmentInfo struct {
	LoadOp     vk.AttachmentLoadOp
	StoreOp    vk.AttachmentStoreOp
	ClearValue vk.ClearValue
}

type RenderPassBeginInfo struct {
	Framebuffer *Framebuffer
	// RenderArea with a zero extent covers the whole framebuffer.
	RenderArea vk.Rect2D
	// Attachments is indexed like the framebuffer's attachments, missing
	// entries load and store.
	Attachments []AttachmentInfo
}

type attachmentUse uint8

const (
	attachmentColor attachmentUse = 1 << iota
	attachmentInput
	attachmentDepthRead
	attachmentDepthWrite
)

type subpassDesc struct {
	uses []attachmentUse
}

/*
renderPassDesc is what a recording observed between BeginRenderPass and
EndRenderPass, turned into a cached render pass when the pass ends.
*/
type renderPassDesc struct {
	pos         int
	framebuffer *Framebuffer
	renderArea  vk.Rect2D
	attachments []AttachmentInfo
	depth       int
	subpasses   []subpassDesc
	rp          *renderPass
}

func (desc *renderPassDesc) current() *subpassDesc {
	return &desc.subpasses[len(desc.subpasses)-1]
}

func (desc *renderPassDesc) nextSubpass() {
	desc.subpasses = append(desc.subpasses, subpassDesc{uses: make([]attachmentUse, len(desc.attachments))})
}

func (desc *renderPassDesc) use(attachment uint32, u attachmentUse) {
	if int(attachment) < len(desc.attachments) {
		desc.current().uses[attachment] |= u
	}
}

func (desc *renderPassDesc) clearValues() []vk.ClearValue {
	out := make([]vk.ClearValue, len(desc.attachments))
	for i, a := range desc.attachments {
		out[i] = a.ClearValue
	}
	return out
}

func attachmentLayout(format vk.Format) vk.ImageLayout {
	if format.HasDepth() || format.HasStencil() {
		return vk.ImageLayoutDepthStencilAttachmentOptimal
	}
	return vk.ImageLayoutColorAttachmentOptimal
}

func inputAttachmentLayout(format vk.Format) vk.ImageLayout {
	if format.HasDepth() || format.HasStencil() {
		return vk.ImageLayoutDepthStencilReadOnlyOptimal
	}
	return vk.ImageLayoutShaderReadOnlyOptimal
}

/*
subpassAccess returns the stages and accesses of the uses in u of the
attachments selected by mask.
*/
func subpassAccess(u []attachmentUse, mask []bool) (vk.PipelineStageFlags, vk.AccessFlags) {
	var stages vk.PipelineStageFlags
	var access vk.AccessFlags
	for a, use := range u {
		if mask != nil && !mask[a] {
			continue
		}
		if hasBits(use, attachmentColor) {
			stages |= vk.PipelineStageColorAttachmentOutputBit
			access |= vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit
		}
		if hasBits(use, attachmentInput) {
			stages |= vk.PipelineStageFragmentShaderBit
			access |= vk.AccessInputAttachmentReadBit
		}
		if hasBits(use, attachmentDepthRead) {
			stages |= vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit
			access |= vk.AccessDepthStencilAttachmentReadBit
		}
		if hasBits(use, attachmentDepthWrite) {
			stages |= vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit
			access |= vk.AccessDepthStencilAttachmentWriteBit
		}
	}
	return stages, access
}

/*
subpassWrites returns the stages and accesses of the attachment writes in u and
which attachments were written.
*/
func subpassWrites(u []attachmentUse) (vk.PipelineStageFlags, vk.AccessFlags, []bool) {
	var stages vk.PipelineStageFlags
	var access vk.AccessFlags
	written := make([]bool, len(u))
	for a, use := range u {
		if hasBits(use, attachmentColor) {
			stages |= vk.PipelineStageColorAttachmentOutputBit
			access |= vk.AccessColorAttachmentWriteBit
			written[a] = true
		}
		if hasBits(use, attachmentDepthWrite) {
			stages |= vk.PipelineStageLateFragmentTestsBit
			access |= vk.AccessDepthStencilAttachmentWriteBit
			written[a] = true
		}
	}
	return stages, access, written
}

/*
createInfo derives the native render pass. Attachment layouts are the layouts
the barrier tracker moved the attachments into before the pass, color output
location L writes attachment L and input attachment index I reads attachment I.
*/
func (desc *renderPassDesc) createInfo() native.RenderPassCreateInfo {
	info := native.RenderPassCreateInfo{}
	views := desc.framebuffer.attachments

	used := make([]bool, len(views))
	for _, s := range desc.subpasses {
		for a, u := range s.uses {
			used[a] = used[a] || u != 0
		}
	}
	// attachments no subpass touches still have to be loaded or cleared
	for a := range views {
		if !used[a] && a != desc.depth {
			desc.subpasses[0].uses[a] |= attachmentColor
		}
	}

	for i, v := range views {
		format := v.info.Format
		layout := attachmentLayout(format)
		a := native.AttachmentDescription{
			Format:         format,
			Samples:        v.image.info.Samples,
			LoadOp:         desc.attachments[i].LoadOp,
			StoreOp:        desc.attachments[i].StoreOp,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  layout,
			FinalLayout:    layout,
		}
		if format.HasStencil() {
			a.StencilLoadOp = a.LoadOp
			a.StencilStoreOp = a.StoreOp
		}
		info.Attachments = append(info.Attachments, a)
	}

	for i, s := range desc.subpasses {
		sub := native.SubpassDescription{}
		for a, u := range s.uses {
			if hasBits(u, attachmentInput) {
				sub.InputAttachments = growSlice(sub.InputAttachments, a+1)[:max(len(sub.InputAttachments), a+1)]
				sub.InputAttachments[a] = native.AttachmentReference{Attachment: uint32(a), Layout: inputAttachmentLayout(views[a].info.Format)}
			}
			if hasBits(u, attachmentColor) && a != desc.depth {
				sub.ColorAttachments = growSlice(sub.ColorAttachments, a+1)[:max(len(sub.ColorAttachments), a+1)]
				sub.ColorAttachments[a] = native.AttachmentReference{Attachment: uint32(a), Layout: vk.ImageLayoutColorAttachmentOptimal}
			}
		}
		// gaps left by growSlice are zero references to attachment 0
		for r := range sub.InputAttachments {
			if sub.InputAttachments[r].Layout == vk.ImageLayoutUndefined {
				sub.InputAttachments[r].Attachment = vk.AttachmentUnused
			}
		}
		for r := range sub.ColorAttachments {
			if sub.ColorAttachments[r].Layout == vk.ImageLayoutUndefined {
				sub.ColorAttachments[r].Attachment = vk.AttachmentUnused
			}
		}
		if desc.depth >= 0 && !hasBits(s.uses[desc.depth], attachmentInput) {
			sub.DepthStencilAttachment = &native.AttachmentReference{
				Attachment: uint32(desc.depth),
				Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
			}
		}
		info.Subpasses = append(info.Subpasses, sub)

		if i == 0 {
			dstStages, dstAccess := subpassAccess(s.uses, nil)
			if dstStages != 0 {
				info.Dependencies = append(info.Dependencies, native.SubpassDependency{
					SrcSubpass:    vk.SubpassExternal,
					DstSubpass:    0,
					SrcStageMask:  vk.PipelineStageTopOfPipeBit,
					DstStageMask:  dstStages,
					DstAccessMask: dstAccess,
				})
			}
			continue
		}
		srcStages, srcAccess, written := subpassWrites(desc.subpasses[i-1].uses)
		dstStages, dstAccess := subpassAccess(s.uses, written)
		if srcStages != 0 && dstStages != 0 {
			info.Dependencies = append(info.Dependencies, native.SubpassDependency{
				SrcSubpass:      uint32(i - 1),
				DstSubpass:      uint32(i),
				SrcStageMask:    srcStages,
				DstStageMask:    dstStages,
				SrcAccessMask:   srcAccess,
				DstAccessMask:   dstAccess,
				DependencyFlags: vk.DependencyByRegionBit,
			})
		}
	}
	return info
}

/*
renderPassKey identifies a create info by value, two descriptions with equal
keys are compatible.
*/
func renderPassKey(info native.RenderPassCreateInfo) string {
	sb := strings.Builder{}
	for _, a := range info.Attachments {
		fmt.Fprintf(&sb, "a%d.%d.%d.%d.%d.%d.%d.%d;", a.Format, a.Samples, a.LoadOp, a.StoreOp,
			a.StencilLoadOp, a.StencilStoreOp, a.InitialLayout, a.FinalLayout)
	}
	refs := func(tag string, r []native.AttachmentReference) {
		sb.WriteString(tag)
		for _, ref := range r {
			fmt.Fprintf(&sb, "%d.%d,", ref.Attachment, ref.Layout)
		}
	}
	for _, s := range info.Subpasses {
		sb.WriteString("s")
		refs("i", s.InputAttachments)
		refs("c", s.ColorAttachments)
		if s.DepthStencilAttachment != nil {
			fmt.Fprintf(&sb, "d%d.%d", s.DepthStencilAttachment.Attachment, s.DepthStencilAttachment.Layout)
		}
		sb.WriteString(";")
	}
	for _, d := range info.Dependencies {
		fmt.Fprintf(&sb, "p%d.%d.%X.%X.%X.%X.%X;", d.SrcSubpass, d.DstSubpass, d.SrcStageMask, d.DstStageMask,
			d.SrcAccessMask, d.DstAccessMask, d.DependencyFlags)
	}
	return sb.String()
}

/*
renderPass is a cached native render pass. refs counts the recordings holding
it, unreferenced passes are destroyed by the periodic sweep together with their
framebuffers and pipelines.
*/
type renderPass struct {
	key    string
	handle native.RenderPass
	info   native.RenderPassCreateInfo
	refs   int

	// guarded by Device.framebufferMtx
	framebuffers map[*Framebuffer]native.Framebuffer
}

func (rp *renderPass) subpassSamples(subpass uint32) vk.SampleCountFlags {
	s := rp.info.Subpasses[subpass]
	for _, r := range s.ColorAttachments {
		if r.Attachment != vk.AttachmentUnused {
			return rp.info.Attachments[r.Attachment].Samples
		}
	}
	if s.DepthStencilAttachment != nil {
		return rp.info.Attachments[s.DepthStencilAttachment.Attachment].Samples
	}
	return vk.SampleCount1Bit
}

type renderPassCache struct {
	device *Device
	mtx    sync.Mutex
	cache  map[string]*renderPass
	hits   atomic.Uint64
	misses atomic.Uint64
}

func (c *renderPassCache) init(d *Device) {
	c.device = d
	c.cache = map[string]*renderPass{}
}

/*
acquire returns the render pass matching info with a new reference.
*/
func (c *renderPassCache) acquire(info native.RenderPassCreateInfo) (*renderPass, error) {
	// keyed by attachments and subpasses only, every pipeline used in the pass shares it
	key := renderPassKey(info)

	c.mtx.Lock()
	if rp, ok := c.cache[key]; ok {
		rp.refs++
		c.mtx.Unlock()
		c.hits.Add(1)
		return rp, nil
	}
	c.mtx.Unlock()

	h, err := c.device.native.CreateRenderPass(info)
	if err != nil {
		instance.logger.EPrintf("Failed to create render pass with %d attachments and %d subpasses: %s",
			len(info.Attachments), len(info.Subpasses), err)
		return nil, err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	if rp, ok := c.cache[key]; ok {
		c.device.native.DestroyRenderPass(h)
		rp.refs++
		c.hits.Add(1)
		return rp, nil
	}
	rp := &renderPass{key: key, handle: h, info: info, refs: 1, framebuffers: map[*Framebuffer]native.Framebuffer{}}
	c.cache[key] = rp
	c.misses.Add(1)
	instance.logger.VPrintf("Created render pass %s with %d attachments and %d subpasses", toHex(h), len(info.Attachments), len(info.Subpasses))
	return rp, nil
}

func (c *renderPassCache) release(rp *renderPass) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if rp.refs <= 0 {
		abort("Trying to release render pass %s with no references", toHex(rp.handle))
	}
	rp.refs--
}

/*
sweep destroys every render pass without references and returns them so the
pipelines baked against them can be purged.
*/
func (c *renderPassCache) sweep() []*renderPass {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	var destroyed []*renderPass
	for k, rp := range c.cache {
		if rp.refs > 0 {
			continue
		}
		c.destroyLocked(rp)
		delete(c.cache, k)
		destroyed = append(destroyed, rp)
	}
	return destroyed
}

func (c *renderPassCache) destroyLocked(rp *renderPass) {
	d := c.device
	d.framebufferMtx.Lock()
	for fb, h := range rp.framebuffers {
		d.native.DestroyFramebuffer(h)
		delete(fb.natives, rp)
	}
	clear(rp.framebuffers)
	d.framebufferMtx.Unlock()
	d.native.DestroyRenderPass(rp.handle)
}

func (c *renderPassCache) stats() (int, uint64, uint64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.cache), c.hits.Load(), c.misses.Load()
}

func (c *renderPassCache) destroy() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for _, rp := range c.cache {
		c.destroyLocked(rp)
	}
	clear(c.cache)
}

func (c *renderPassCache) MarshalJSON() ([]byte, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"hits\": %d,", c.hits.Load()))
	buff.WriteString(fmt.Sprintf("\"misses\": %d,", c.misses.Load()))
	buff.WriteString("\"cache\": {")
	{
		err := mapRunFuncSorted(c.cache, func(k string, v *renderPass) error {
			buff.WriteString(fmt.Sprintf("%q: {\"handle\": %q, \"refs\": %d, \"subpasses\": %d},", k, toHex(v.handle), v.refs, len(v.info.Subpasses)))
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
