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
	"errors"
	"sync"

	"goarrg.com/rhi/vez/internal/container"
	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
SubmitInfo waits on WaitSemaphores, which are consumed by the submission and
must not be used again, and signals SignalSemaphores new semaphores.
*/
type SubmitInfo struct {
	WaitSemaphores    []*Semaphore
	WaitDstStageMasks []vk.PipelineStageFlags
	CommandBuffers    []*CommandBuffer
	SignalSemaphores  uint32
}

/*
Submission holds the fence of a submit and the semaphores signaled by each of
its SubmitInfos. The fence must be destroyed by the caller.
*/
type Submission struct {
	Fence            *Fence
	SignalSemaphores [][]*Semaphore
}

/*
PresentInfo presents Images[i] on Swapchains[i]. Multisampled images are
resolved, other images are copied, or blitted when the extents differ.
*/
type PresentInfo struct {
	WaitSemaphores    []*Semaphore
	WaitDstStageMasks []vk.PipelineStageFlags
	Swapchains        []*Swapchain
	Images            []*Image
	SignalSemaphores  uint32
}

type Presentation struct {
	Results          []vk.Result
	SignalSemaphores []*Semaphore
}

/*
presentSlot is one command buffer of the present helper ring. semaphores are
the ones its submission waited on, recycled once fence is signaled.
*/
type presentSlot struct {
	cb         *CommandBuffer
	fence      native.Fence
	semaphores []native.Semaphore
	pending    bool
}

type Queue struct {
	noCopy util.NoCopy
	device *Device
	handle native.Queue
	family uint32
	index  uint32
	flags  vk.QueueFlags

	// guards every native call on handle
	mtx sync.Mutex

	presentMtx sync.Mutex
	present    container.Queue[*presentSlot]
	slots      int
	// signaled by an acquire nothing waits on, destroyed once the device is idle
	orphaned []native.Semaphore
}

func newQueue(d *Device, family, index uint32, flags vk.QueueFlags) *Queue {
	q := &Queue{
		device: d,
		handle: d.native.Queue(family, index),
		family: family,
		index:  index,
		flags:  flags,
	}
	q.noCopy.Init()
	return q
}

func (q *Queue) Handle() native.Queue {
	q.noCopy.Check()
	return q.handle
}

func (q *Queue) Family() uint32 {
	q.noCopy.Check()
	return q.family
}

func (q *Queue) Index() uint32 {
	q.noCopy.Check()
	return q.index
}

func (q *Queue) Flags() vk.QueueFlags {
	q.noCopy.Check()
	return q.flags
}

func (q *Queue) acquireSemaphores(n uint32) ([]native.Semaphore, error) {
	out := make([]native.Semaphore, 0, n)
	for range n {
		s, err := q.device.syncPool.acquireSemaphore()
		if err != nil {
			q.releaseSemaphores(out)
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (q *Queue) releaseSemaphores(semaphores []native.Semaphore) {
	for _, s := range semaphores {
		q.device.syncPool.releaseSemaphore(s)
	}
}

func waitHandles(waits []*Semaphore, masks []vk.PipelineStageFlags) ([]native.Semaphore, error) {
	if len(waits) != len(masks) {
		return nil, ErrorBadArgument
	}
	out := make([]native.Semaphore, len(waits))
	for i, s := range waits {
		if s == nil || masks[i] == 0 {
			return nil, ErrorBadArgument
		}
		s.noCopy.Check()
		out[i] = s.handle
	}
	return out, nil
}

/*
Submit submits infos with fence, or with a fence from the pool when fence is
nil. Either way the fence is tracked so the semaphores waited on are recycled
once it signals.
*/
func (q *Queue) Submit(infos []SubmitInfo, fence *Fence) (Submission, error) {
	q.noCopy.Check()
	d := q.device
	if len(infos) == 0 {
		return Submission{}, ErrorBadArgument
	}

	natives := make([]native.SubmitInfo, len(infos))
	var waited []native.Semaphore
	var signaled []native.Semaphore
	for i, info := range infos {
		waits, err := waitHandles(info.WaitSemaphores, info.WaitDstStageMasks)
		if err != nil {
			q.releaseSemaphores(signaled)
			return Submission{}, err
		}
		cbs := make([]native.CommandBuffer, len(info.CommandBuffers))
		for c, cb := range info.CommandBuffers {
			if cb == nil {
				q.releaseSemaphores(signaled)
				return Submission{}, ErrorBadArgument
			}
			cb.noCopy.Check()
			if cb.state != commandBufferExecutable || cb.queue.family != q.family {
				instance.logger.WPrintf("Trying to submit command buffer %s that is not executable on family %d", toHex(cb.handle), q.family)
				q.releaseSemaphores(signaled)
				return Submission{}, ErrorBadArgument
			}
			cbs[c] = cb.handle
		}
		signals, err := q.acquireSemaphores(info.SignalSemaphores)
		if err != nil {
			q.releaseSemaphores(signaled)
			return Submission{}, err
		}
		signaled = append(signaled, signals...)
		waited = append(waited, waits...)
		natives[i] = native.SubmitInfo{
			WaitSemaphores:    waits,
			WaitDstStageMasks: info.WaitDstStageMasks,
			CommandBuffers:    cbs,
			SignalSemaphores:  signals,
		}
	}

	if fence == nil {
		h, err := d.syncPool.acquireFence()
		if err != nil {
			q.releaseSemaphores(signaled)
			return Submission{}, err
		}
		// one reference for the caller and one for the tracker
		fence = d.newFence(h, 2)
	} else {
		fence.noCopy.Check()
		fence.refs.Add(1)
	}

	q.mtx.Lock()
	err := d.native.QueueSubmit(q.handle, natives, fence.handle)
	q.mtx.Unlock()
	if err != nil {
		instance.logger.EPrintf("Failed to submit %d batches to queue %s: %s", len(natives), toHex(q.handle), err)
		q.releaseSemaphores(signaled)
		d.releaseFence(fence)
		return Submission{}, err
	}

	for _, info := range infos {
		for _, s := range info.WaitSemaphores {
			s.noCopy.Close()
		}
	}
	d.trackSubmission(fence, waited)

	out := Submission{Fence: fence, SignalSemaphores: make([][]*Semaphore, len(natives))}
	for i, n := range natives {
		for _, s := range n.SignalSemaphores {
			out.SignalSemaphores[i] = append(out.SignalSemaphores[i], d.newSemaphore(s))
		}
	}
	return out, nil
}

/*
submitUntracked submits without a fence, used by internal transfers that wait
for the queue to be idle.
*/
func (q *Queue) submitUntracked(infos []native.SubmitInfo) error {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	if err := q.device.native.QueueSubmit(q.handle, infos, 0); err != nil {
		instance.logger.EPrintf("Failed to submit to queue %s: %s", toHex(q.handle), err)
		return err
	}
	return nil
}

func (q *Queue) WaitIdle() error {
	q.noCopy.Check()
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return q.device.native.QueueWaitIdle(q.handle)
}

/*
nextPresentSlot returns a free present helper slot, waiting on the oldest one
once the ring is full.
*/
func (q *Queue) nextPresentSlot() (*presentSlot, error) {
	d := q.device
	q.presentMtx.Lock()
	defer q.presentMtx.Unlock()

	if q.slots < int(d.config.PresentRingSize) || q.present.Empty() {
		cbs, err := d.AllocateCommandBuffers(q, 1)
		if err != nil {
			return nil, err
		}
		f, err := d.syncPool.acquireFence()
		if err != nil {
			d.FreeCommandBuffers(cbs)
			return nil, err
		}
		q.slots++
		return &presentSlot{cb: cbs[0], fence: f}, nil
	}

	slot := q.present.Pop()
	if err := q.recycleSlot(slot); err != nil {
		q.present.Push(slot)
		return nil, err
	}
	return slot, nil
}

func (q *Queue) recycleSlot(slot *presentSlot) error {
	if !slot.pending {
		return nil
	}
	d := q.device
	timeout := uint64(d.config.FenceTimeout.Nanoseconds())
	if err := d.native.WaitForFences([]native.Fence{slot.fence}, true, timeout); err != nil {
		instance.logger.EPrintf("Failed to wait for present fence %s: %s", toHex(slot.fence), err)
		return err
	}
	if err := d.native.ResetFences([]native.Fence{slot.fence}); err != nil {
		return err
	}
	q.releaseSemaphores(slot.semaphores)
	clear(slot.semaphores)
	slot.semaphores = slot.semaphores[:0]
	slot.pending = false
	return nil
}

func (q *Queue) pushPresentSlot(slot *presentSlot) {
	q.presentMtx.Lock()
	q.present.Push(slot)
	q.presentMtx.Unlock()
}

/*
recordPresent records the copy of src into the acquired swapchain image dst.
*/
func recordPresent(cb *CommandBuffer, src, dst *Image) {
	se, de := src.info.Extent, dst.info.Extent
	layers := vk.ImageSubresourceLayers{MipLevel: 0, BaseArrayLayer: 0, LayerCount: 1}
	switch {
	case src.info.Samples > vk.SampleCount1Bit:
		cb.resolveImage(src, dst, []vk.ImageResolve{{
			SrcSubresource: layers,
			DstSubresource: layers,
			Extent: vk.Extent3D{
				Width:  min(se.Width, de.Width),
				Height: min(se.Height, de.Height),
				Depth:  1,
			},
		}}, true)
	case se.Width == de.Width && se.Height == de.Height && src.info.Format == dst.info.Format:
		cb.copyImage(src, dst, []vk.ImageCopy{{
			SrcSubresource: layers,
			DstSubresource: layers,
			Extent:         vk.Extent3D{Width: se.Width, Height: se.Height, Depth: 1},
		}}, true)
	default:
		cb.blitImage(src, dst, []vk.ImageBlit{{
			SrcSubresource: layers,
			SrcOffsets:     [2]vk.Offset3D{{}, {X: int32(se.Width), Y: int32(se.Height), Z: 1}},
			DstSubresource: layers,
			DstOffsets:     [2]vk.Offset3D{{}, {X: int32(de.Width), Y: int32(de.Height), Z: 1}},
		}}, vk.FilterLinear, true)
	}
}

/*
Present acquires an image of every swapchain, copies the matching source image
into it with the present helper ring and presents it. The wait semaphores are
consumed.
*/
func (q *Queue) Present(info PresentInfo) (Presentation, error) {
	q.noCopy.Check()
	d := q.device
	if len(info.Swapchains) == 0 || len(info.Swapchains) != len(info.Images) {
		return Presentation{}, ErrorBadArgument
	}
	if !hasBits(q.flags, vk.QueueGraphicsBit) {
		instance.logger.WPrintf("Trying to present on queue %s of family %d without graphics support", toHex(q.handle), q.family)
		return Presentation{}, ErrorBadArgument
	}
	waits, err := waitHandles(info.WaitSemaphores, info.WaitDstStageMasks)
	if err != nil {
		return Presentation{}, err
	}
	for i, sc := range info.Swapchains {
		if sc == nil || info.Images[i] == nil {
			return Presentation{}, ErrorBadArgument
		}
		sc.noCopy.Check()
		info.Images[i].noCopy.Check()
	}

	slot, err := q.nextPresentSlot()
	if err != nil {
		return Presentation{}, err
	}
	defer q.pushPresentSlot(slot)

	acquired, err := q.acquireSemaphores(uint32(len(info.Swapchains)))
	if err != nil {
		return Presentation{}, err
	}
	handles := make([]native.Swapchain, len(info.Swapchains))
	indices := make([]uint32, len(info.Swapchains))
	targets := make([]*Image, len(info.Swapchains))
	for i, sc := range info.Swapchains {
		idx, img, err := sc.acquire(acquired[i])
		if err != nil {
			q.releaseSemaphores(acquired[i:])
			q.orphan(acquired[:i])
			return Presentation{}, err
		}
		handles[i], indices[i], targets[i] = sc.handle, idx, img
	}

	cb := slot.cb
	if err := cb.Begin(vk.CommandBufferUsageOneTimeSubmitBit); err != nil {
		q.orphan(acquired)
		return Presentation{}, err
	}
	for i, src := range info.Images {
		recordPresent(cb, src, targets[i])
	}
	if err := cb.End(); err != nil {
		q.orphan(acquired)
		return Presentation{}, err
	}

	signals, err := q.acquireSemaphores(info.SignalSemaphores + 1)
	if err != nil {
		q.orphan(acquired)
		return Presentation{}, err
	}
	finished := signals[0]

	submitWaits := append(append([]native.Semaphore(nil), waits...), acquired...)
	masks := append([]vk.PipelineStageFlags(nil), info.WaitDstStageMasks...)
	for range acquired {
		masks = append(masks, vk.PipelineStageTransferBit)
	}
	q.mtx.Lock()
	err = d.native.QueueSubmit(q.handle, []native.SubmitInfo{{
		WaitSemaphores:    submitWaits,
		WaitDstStageMasks: masks,
		CommandBuffers:    []native.CommandBuffer{cb.handle},
		SignalSemaphores:  signals,
	}}, slot.fence)
	if err != nil {
		q.mtx.Unlock()
		instance.logger.EPrintf("Failed to submit present helper to queue %s: %s", toHex(q.handle), err)
		q.orphan(acquired)
		q.releaseSemaphores(signals)
		return Presentation{}, err
	}
	slot.pending = true
	slot.semaphores = append(slot.semaphores, submitWaits...)
	slot.semaphores = append(slot.semaphores, finished)
	for _, s := range info.WaitSemaphores {
		s.noCopy.Close()
	}

	results, err := d.native.QueuePresent(q.handle, native.PresentInfo{
		WaitSemaphores: []native.Semaphore{finished},
		Swapchains:     handles,
		ImageIndices:   indices,
	})
	q.mtx.Unlock()

	out := Presentation{Results: results}
	for _, s := range signals[1:] {
		out.SignalSemaphores = append(out.SignalSemaphores, d.newSemaphore(s))
	}
	if err != nil && !errors.Is(err, vk.Suboptimal) {
		instance.logger.EPrintf("Failed to present %d swapchains on queue %s: %s", len(handles), toHex(q.handle), err)
		return out, err
	}
	return out, nil
}

func (q *Queue) orphan(semaphores []native.Semaphore) {
	if len(semaphores) == 0 {
		return
	}
	q.presentMtx.Lock()
	q.orphaned = append(q.orphaned, semaphores...)
	q.presentMtx.Unlock()
}

/*
recycleUntracked recycles every pending present slot and destroys the orphaned
semaphores, the device must be idle.
*/
func (q *Queue) recycleUntracked() {
	q.presentMtx.Lock()
	defer q.presentMtx.Unlock()
	for _, slot := range q.present.Data() {
		if err := q.recycleSlot(slot); err != nil {
			instance.logger.WPrintf("Failed to recycle present slot: %s", err)
		}
	}
	for _, s := range q.orphaned {
		q.device.native.DestroySemaphore(s)
	}
	clear(q.orphaned)
	q.orphaned = q.orphaned[:0]
}

func (q *Queue) destroy() {
	d := q.device
	q.presentMtx.Lock()
	for !q.present.Empty() {
		slot := q.present.Pop()
		q.releaseSemaphores(slot.semaphores)
		slot.cb.destroy()
		d.native.DestroyFence(slot.fence)
	}
	q.slots = 0
	for _, s := range q.orphaned {
		d.native.DestroySemaphore(s)
	}
	q.orphaned = nil
	q.presentMtx.Unlock()
	q.noCopy.Close()
}
