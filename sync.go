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
	"sync"
	"sync/atomic"
	"time"

	"goarrg.com/rhi/vez/internal/container"
	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

/*
Fence is host visible completion of a submission. Fences returned by
Queue.Submit are shared with the device's fence tracker, DestroyFence only
drops the caller's reference.
*/
type Fence struct {
	noCopy util.NoCopy
	device *Device
	handle native.Fence
	refs   atomic.Int32
}

func (f *Fence) Handle() native.Fence {
	f.noCopy.Check()
	return f.handle
}

type Semaphore struct {
	noCopy util.NoCopy
	device *Device
	handle native.Semaphore
}

func (s *Semaphore) Handle() native.Semaphore {
	s.noCopy.Check()
	return s.handle
}

type Event struct {
	noCopy util.NoCopy
	device *Device
	handle native.Event
}

func (e *Event) Handle() native.Event {
	e.noCopy.Check()
	return e.handle
}

/*
syncPool recycles unsignaled fences and semaphores.
*/
type syncPool struct {
	mtx        sync.Mutex
	device     native.Device
	fences     container.Stack[native.Fence]
	semaphores container.Stack[native.Semaphore]
}

func (p *syncPool) acquireFence() (native.Fence, error) {
	p.mtx.Lock()
	if !p.fences.Empty() {
		f := p.fences.Pop()
		p.mtx.Unlock()
		return f, nil
	}
	p.mtx.Unlock()
	return p.device.CreateFence(false)
}

func (p *syncPool) releaseFence(f native.Fence) {
	if err := p.device.ResetFences([]native.Fence{f}); err != nil {
		instance.logger.WPrintf("Failed to reset fence %s: %s", toHex(f), err)
		p.device.DestroyFence(f)
		return
	}
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.fences.Push(f)
}

func (p *syncPool) acquireSemaphore() (native.Semaphore, error) {
	p.mtx.Lock()
	if !p.semaphores.Empty() {
		s := p.semaphores.Pop()
		p.mtx.Unlock()
		return s, nil
	}
	p.mtx.Unlock()
	return p.device.CreateSemaphore()
}

func (p *syncPool) releaseSemaphore(s native.Semaphore) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.semaphores.Push(s)
}

func (p *syncPool) pooled() (fences, semaphores int) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.fences.Len(), p.semaphores.Len()
}

func (p *syncPool) destroy() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.fences.Drain(p.device.DestroyFence)
	p.semaphores.Drain(p.device.DestroySemaphore)
}

func (d *Device) newFence(h native.Fence, refs int32) *Fence {
	f := &Fence{device: d, handle: h}
	f.noCopy.Init()
	f.refs.Store(refs)
	return f
}

/*
CreateFence returns an unsignaled fence from the pool, or a new signaled one.
*/
func (d *Device) CreateFence(signaled bool) (*Fence, error) {
	d.noCopy.Check()
	var h native.Fence
	var err error
	if signaled {
		h, err = d.native.CreateFence(true)
	} else {
		h, err = d.syncPool.acquireFence()
	}
	if err != nil {
		instance.logger.EPrintf("Failed to create fence: %s", err)
		return nil, err
	}
	return d.newFence(h, 1), nil
}

func (d *Device) releaseFence(f *Fence) {
	if f.refs.Add(-1) > 0 {
		return
	}
	d.syncPool.releaseFence(f.handle)
	f.noCopy.Close()
}

func (d *Device) DestroyFence(f *Fence) {
	d.noCopy.Check()
	if f == nil {
		return
	}
	f.noCopy.Check()
	d.releaseFence(f)
}

/*
WaitForFences blocks until one or all fences are signaled, vk.Timeout is
returned when timeout expires first.
*/
func (d *Device) WaitForFences(fences []*Fence, waitAll bool, timeout time.Duration) error {
	d.noCopy.Check()
	handles := make([]native.Fence, len(fences))
	for i, f := range fences {
		if f == nil {
			return ErrorBadArgument
		}
		f.noCopy.Check()
		handles[i] = f.handle
	}
	return d.native.WaitForFences(handles, waitAll, uint64(timeout.Nanoseconds()))
}

/*
FenceStatus returns nil once f is signaled and vk.NotReady before.
*/
func (d *Device) FenceStatus(f *Fence) error {
	d.noCopy.Check()
	f.noCopy.Check()
	return d.native.FenceStatus(f.handle)
}

func (d *Device) CreateSemaphore() (*Semaphore, error) {
	d.noCopy.Check()
	h, err := d.syncPool.acquireSemaphore()
	if err != nil {
		instance.logger.EPrintf("Failed to create semaphore: %s", err)
		return nil, err
	}
	return d.newSemaphore(h), nil
}

func (d *Device) newSemaphore(h native.Semaphore) *Semaphore {
	s := &Semaphore{device: d, handle: h}
	s.noCopy.Init()
	return s
}

/*
DestroySemaphore returns s to the pool, s must not be pending on a queue.
*/
func (d *Device) DestroySemaphore(s *Semaphore) {
	d.noCopy.Check()
	if s == nil {
		return
	}
	s.noCopy.Check()
	d.syncPool.releaseSemaphore(s.handle)
	s.noCopy.Close()
}

func (d *Device) CreateEvent() (*Event, error) {
	d.noCopy.Check()
	h, err := d.native.CreateEvent()
	if err != nil {
		instance.logger.EPrintf("Failed to create event: %s", err)
		return nil, err
	}
	e := &Event{device: d, handle: h}
	e.noCopy.Init()
	return e, nil
}

func (d *Device) DestroyEvent(e *Event) {
	d.noCopy.Check()
	if e == nil {
		return
	}
	e.noCopy.Check()
	d.native.DestroyEvent(e.handle)
	e.noCopy.Close()
}

/*
EventStatus returns vk.EventSet or vk.EventReset.
*/
func (d *Device) EventStatus(e *Event) vk.Result {
	d.noCopy.Check()
	e.noCopy.Check()
	return d.native.EventStatus(e.handle)
}

func (d *Device) SetEvent(e *Event) error {
	d.noCopy.Check()
	e.noCopy.Check()
	return d.native.SetEvent(e.handle)
}

func (d *Device) ResetEvent(e *Event) error {
	d.noCopy.Check()
	e.noCopy.Check()
	return d.native.ResetEvent(e.handle)
}
