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

package managed

import (
	"goarrg.com/rhi/vez"
	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/vk"
)

const DefaultFramesInFlight = 2

type frame struct {
	cb         *vez.CommandBuffer
	fence      *vez.Fence
	destroyers []Destroyer
}

/*
wait blocks until the last submission of the frame is done and runs every
destroyer queued while it was recorded.
*/
func (f *frame) wait(d *vez.Device) error {
	if f.fence != nil {
		if err := d.WaitForFences([]*vez.Fence{f.fence}, true, d.Config().FenceTimeout); err != nil {
			instance.logger.EPrintf("Failed to wait for frame fence: %s", err)
			return err
		}
		d.DestroyFence(f.fence)
		f.fence = nil
	}
	for _, destroyer := range f.destroyers {
		destroyer.Destroy()
	}
	clear(f.destroyers)
	f.destroyers = f.destroyers[:0]
	return nil
}

/*
Frames is a ring of command buffers, each guarded by the fence of its last
submission. At most len(ring) frames are in flight on the queue.
*/
type Frames struct {
	noCopy util.NoCopy
	device *vez.Device
	queue  *vez.Queue
	frames []frame
	index  int
	active bool
}

/*
NewFrames allocates framesInFlight command buffers on q, DefaultFramesInFlight
when 0.
*/
func NewFrames(d *vez.Device, q *vez.Queue, framesInFlight uint32) (*Frames, error) {
	if d == nil || q == nil {
		return nil, vez.ErrorBadArgument
	}
	if framesInFlight == 0 {
		framesInFlight = DefaultFramesInFlight
	}
	cbs, err := d.AllocateCommandBuffers(q, framesInFlight)
	if err != nil {
		return nil, err
	}
	fs := &Frames{device: d, queue: q, frames: make([]frame, framesInFlight)}
	for i, cb := range cbs {
		fs.frames[i].cb = cb
	}
	fs.noCopy.Init()
	instance.logger.VPrintf("Created %d frames in flight on queue family %d", framesInFlight, q.Family())
	return fs, nil
}

func (fs *Frames) Len() int {
	fs.noCopy.Check()
	return len(fs.frames)
}

/*
Begin waits for the oldest frame to be done and starts recording it. Only one
frame may be recorded at a time.
*/
func (fs *Frames) Begin() (*Frame, error) {
	fs.noCopy.Check()
	if fs.active {
		abort("Begin called when there's an active frame")
	}
	f := &fs.frames[fs.index]
	if err := f.wait(fs.device); err != nil {
		return nil, err
	}
	if err := f.cb.Begin(vk.CommandBufferUsageOneTimeSubmitBit); err != nil {
		return nil, err
	}
	fs.active = true
	ret := &Frame{frames: fs, frame: f, index: fs.index}
	ret.noCopy.Init()
	return ret, nil
}

/*
Wait blocks until every frame in flight is done.
*/
func (fs *Frames) Wait() error {
	fs.noCopy.Check()
	if fs.active {
		abort("Wait called when there's an active frame")
	}
	for i := range fs.frames {
		if err := fs.frames[i].wait(fs.device); err != nil {
			return err
		}
	}
	return nil
}

func (fs *Frames) Destroy() {
	fs.noCopy.Check()
	if err := fs.Wait(); err != nil {
		instance.logger.WPrintf("Destroying frames while waiting failed: %s", err)
	}
	cbs := make([]*vez.CommandBuffer, len(fs.frames))
	for i := range fs.frames {
		cbs[i] = fs.frames[i].cb
	}
	fs.device.FreeCommandBuffers(cbs)
	fs.frames = nil
	fs.noCopy.Close()
}

/*
Frame is the frame being recorded, it is invalid after End or Cancel.
*/
type Frame struct {
	noCopy util.NoCopy
	frames *Frames
	frame  *frame
	index  int
}

func (f *Frame) Index() int {
	f.noCopy.Check()
	return f.index
}

func (f *Frame) CommandBuffer() *vez.CommandBuffer {
	f.noCopy.Check()
	return f.frame.cb
}

/*
QueueDestroy defers d until the next time a frame with the same index begins,
when the GPU is done with everything recorded in f.
*/
func (f *Frame) QueueDestroy(d Destroyer) {
	f.noCopy.Check()
	f.frame.destroyers = append(f.frame.destroyers, d)
}

type FrameSubmitInfo struct {
	WaitSemaphores    []*vez.Semaphore
	WaitDstStageMasks []vk.PipelineStageFlags
	SignalSemaphores  uint32
}

/*
End submits the frame and returns the semaphores it signals. On error the
recording is dropped and the destroyers run on the next Begin of the index.
*/
func (f *Frame) End(info FrameSubmitInfo) ([]*vez.Semaphore, error) {
	f.noCopy.Check()
	fs := f.frames
	defer f.close()

	if err := f.frame.cb.End(); err != nil {
		instance.logger.EPrintf("Failed to end frame %d: %s", f.index, err)
		return nil, err
	}
	s, err := fs.queue.Submit([]vez.SubmitInfo{{
		WaitSemaphores:    info.WaitSemaphores,
		WaitDstStageMasks: info.WaitDstStageMasks,
		CommandBuffers:    []*vez.CommandBuffer{f.frame.cb},
		SignalSemaphores:  info.SignalSemaphores,
	}}, nil)
	if err != nil {
		instance.logger.EPrintf("Failed to submit frame %d: %s", f.index, err)
		return nil, err
	}
	f.frame.fence = s.Fence
	return s.SignalSemaphores[0], nil
}

/*
Cancel drops the recording without submitting it. The frame index is still
consumed.
*/
func (f *Frame) Cancel() error {
	f.noCopy.Check()
	defer f.close()
	return f.frame.cb.Reset()
}

func (f *Frame) close() {
	fs := f.frames
	fs.active = false
	fs.index = (fs.index + 1) % len(fs.frames)
	f.noCopy.Close()
}
