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
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
barrierRecord is a barrier the decoder emits right before the token at pos.
Records are appended in non decreasing pos order.
*/
type barrierRecord struct {
	pos     int
	barrier native.PipelineBarrier
}

type resourceState struct {
	stages vk.PipelineStageFlags
	access vk.AccessFlags
	// pos of the last access, record of the last barrier synchronizing it or -1
	pos    int
	record int
}

type imageState struct {
	resourceState
	image  *Image
	layout vk.ImageLayout
}

/*
barrierTracker tracks whole buffers and whole images. While a render pass is
open every barrier is hoisted to the record at the pass's begin position since
no barrier may be recorded inside it.
*/
type barrierTracker struct {
	records    []barrierRecord
	buffers    map[native.Buffer]*resourceState
	images     map[native.Image]*imageState
	imageOrder []*imageState
	hoist      int
}

func (t *barrierTracker) reset() {
	clear(t.records)
	t.records = t.records[:0]
	if t.buffers == nil {
		t.buffers = map[native.Buffer]*resourceState{}
		t.images = map[native.Image]*imageState{}
	}
	clear(t.buffers)
	clear(t.images)
	clear(t.imageOrder)
	t.imageOrder = t.imageOrder[:0]
	t.hoist = -1
}

func (t *barrierTracker) beginRenderPass(pos int) {
	t.hoist = pos
}

func (t *barrierTracker) endRenderPass() {
	t.hoist = -1
}

/*
record returns the index of the record a barrier between an access at prevPos
and one at pos goes into.
*/
func (t *barrierTracker) record(prevPos, pos int) int {
	if t.hoist >= 0 {
		pos = t.hoist
	}
	if n := len(t.records); n > 0 {
		last := &t.records[n-1]
		if last.pos == pos || (t.hoist < 0 && last.pos > prevPos) {
			return n - 1
		}
	}
	t.records = append(t.records, barrierRecord{pos: pos})
	return len(t.records) - 1
}

func srcStages(stages vk.PipelineStageFlags) vk.PipelineStageFlags {
	if stages == 0 {
		return vk.PipelineStageTopOfPipeBit
	}
	return stages
}

func needsBarrier(prev, next vk.AccessFlags) bool {
	return (prev|next)&vk.AccessWriteBits != 0
}

func (t *barrierTracker) addBuffer(r int, h native.Buffer, src, dst resourceState) {
	b := &t.records[r].barrier
	b.SrcStageMask |= srcStages(src.stages)
	b.DstStageMask |= dst.stages
	for i := range b.BufferBarriers {
		e := &b.BufferBarriers[i]
		if e.Buffer == h {
			e.SrcAccessMask |= src.access & vk.AccessWriteBits
			e.DstAccessMask |= dst.access
			return
		}
	}
	b.BufferBarriers = append(b.BufferBarriers, native.BufferMemoryBarrier{
		SrcAccessMask:       src.access & vk.AccessWriteBits,
		DstAccessMask:       dst.access,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Buffer:              h,
		Offset:              0,
		Size:                vk.WholeSize,
	})
}

func (t *barrierTracker) addImage(r int, img *Image, src, dst resourceState, oldLayout, newLayout vk.ImageLayout) {
	b := &t.records[r].barrier
	b.SrcStageMask |= srcStages(src.stages)
	b.DstStageMask |= dst.stages
	for i := range b.ImageBarriers {
		e := &b.ImageBarriers[i]
		if e.Image == img.handle {
			e.SrcAccessMask |= src.access & vk.AccessWriteBits
			e.DstAccessMask |= dst.access
			e.NewLayout = newLayout
			return
		}
	}
	b.ImageBarriers = append(b.ImageBarriers, native.ImageMemoryBarrier{
		SrcAccessMask:       src.access & vk.AccessWriteBits,
		DstAccessMask:       dst.access,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img.handle,
		SubresourceRange:    img.fullRange(),
	})
}

/*
widen makes the barrier that last synchronized s also cover an access that
needed none of its own.
*/
func (t *barrierTracker) widen(s *resourceState, stages vk.PipelineStageFlags, access vk.AccessFlags, pos int) {
	if s.record >= 0 {
		b := &t.records[s.record].barrier
		b.DstStageMask |= stages
	}
	s.stages |= stages
	s.access |= access
	s.pos = max(s.pos, pos)
}

func (t *barrierTracker) buffer(b *Buffer, pos int, stages vk.PipelineStageFlags, access vk.AccessFlags) {
	s, ok := t.buffers[b.handle]
	if !ok {
		t.buffers[b.handle] = &resourceState{stages: stages, access: access, pos: pos, record: -1}
		return
	}
	if !needsBarrier(s.access, access) {
		t.widen(s, stages, access, pos)
		if s.record >= 0 {
			bb := t.records[s.record].barrier.BufferBarriers
			for i := range bb {
				if bb[i].Buffer == b.handle {
					bb[i].DstAccessMask |= access
				}
			}
		}
		return
	}
	next := resourceState{stages: stages, access: access, pos: pos}
	next.record = t.record(s.pos, pos)
	t.addBuffer(next.record, b.handle, *s, next)
	*s = next
}

/*
image tracks an access of img in layout. discard means the previous contents
are not needed so the transition starts from undefined.
*/
func (t *barrierTracker) image(img *Image, pos int, stages vk.PipelineStageFlags, access vk.AccessFlags, layout vk.ImageLayout, discard bool) {
	s, ok := t.images[img.handle]
	if !ok {
		s = &imageState{
			resourceState: resourceState{pos: -1, record: -1},
			image:         img,
			layout:        img.defaultLayout,
		}
		t.images[img.handle] = s
		t.imageOrder = append(t.imageOrder, s)
		if layout == s.layout && !discard {
			s.stages, s.access, s.pos = stages, access, pos
			return
		}
	} else if !discard && layout == s.layout && !needsBarrier(s.access, access) {
		t.widen(&s.resourceState, stages, access, pos)
		if s.record >= 0 {
			ib := t.records[s.record].barrier.ImageBarriers
			for i := range ib {
				if ib[i].Image == img.handle {
					ib[i].DstAccessMask |= access
				}
			}
		}
		return
	}

	old := s.layout
	if discard {
		old = vk.ImageLayoutUndefined
	}
	next := resourceState{stages: stages, access: access, pos: pos}
	next.record = t.record(s.pos, pos)
	t.addImage(next.record, img, s.resourceState, next, old, layout)
	s.resourceState = next
	s.layout = layout
}

/*
imageLayout returns the layout img is in at this point of the recording.
*/
func (t *barrierTracker) imageLayout(img *Image) vk.ImageLayout {
	if s, ok := t.images[img.handle]; ok {
		return s.layout
	}
	return img.defaultLayout
}

/*
setImagePos moves the last access of img to pos, used once a render pass ends
so that later barriers are placed after it.
*/
func (t *barrierTracker) setImagePos(img *Image, pos int) {
	if s, ok := t.images[img.handle]; ok {
		s.pos = max(s.pos, pos)
	}
}

/*
explicit schedules a caller built barrier before the token at pos.
*/
func (t *barrierTracker) explicit(pos int, barrier native.PipelineBarrier) {
	if n := len(t.records); n > 0 && t.records[n-1].pos == pos {
		b := &t.records[n-1].barrier
		b.SrcStageMask |= barrier.SrcStageMask
		b.DstStageMask |= barrier.DstStageMask
		b.DependencyFlags |= barrier.DependencyFlags
		b.MemoryBarriers = append(b.MemoryBarriers, barrier.MemoryBarriers...)
		b.BufferBarriers = append(b.BufferBarriers, barrier.BufferBarriers...)
		b.ImageBarriers = append(b.ImageBarriers, barrier.ImageBarriers...)
		return
	}
	t.records = append(t.records, barrierRecord{pos: pos, barrier: barrier})
}

/*
finish transitions every image that is not in its default layout back to it
at pos, the end of the recording.
*/
func (t *barrierTracker) finish(pos int) {
	t.hoist = -1
	for _, s := range t.imageOrder {
		if s.layout == s.image.defaultLayout {
			continue
		}
		next := resourceState{
			stages: vk.PipelineStageAllCommandsBit,
			access: vk.AccessMemoryReadBit | vk.AccessMemoryWriteBit,
			pos:    pos,
		}
		next.record = t.record(s.pos, pos)
		t.addImage(next.record, s.image, s.resourceState, next, s.layout, s.image.defaultLayout)
		s.resourceState = next
		s.layout = s.image.defaultLayout
	}
}
