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
	"sync"

	"goarrg.com/rhi/vez/internal/container"
	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type DeviceCreateInfo struct {
	EnabledLayers     []string
	EnabledExtensions []string
	Config            DeviceConfig
}

type trackedFence struct {
	fence      *Fence
	semaphores []native.Semaphore
}

type commandPool struct {
	mtx    sync.Mutex
	handle native.CommandPool
	family uint32
}

/*
Device owns every cache and pool shared by the command buffers recorded on it.
All methods are safe for concurrent use.
*/
type Device struct {
	noCopy   util.NoCopy
	physical *PhysicalDevice
	native   native.Device
	config   DeviceConfig
	limits   native.PhysicalDeviceLimits
	families []native.QueueFamilyProperties
	queues   [][]*Queue

	buffers handleTable[native.Buffer, Buffer]
	images  handleTable[native.Image, Image]

	syncPool        syncPool
	setLayouts      descriptorSetLayoutCache
	pipelineLayouts pipelineLayoutCache
	renderPasses    renderPassCache
	pipelines       pipelineCache

	// guards the native framebuffers of every Framebuffer and render pass pair
	framebufferMtx sync.Mutex

	poolMtx      sync.Mutex
	commandPools map[uint32]*commandPool

	fenceMtx    sync.Mutex
	fences      container.Queue[trackedFence]
	submissions uint64

	oneTimeMtx sync.Mutex
	oneTime    container.Stack[*CommandBuffer]

	staging stagingBuffer
}

/*
CreateDevice creates a logical device exposing every queue of every family of
pd. Invalid configuration returns ErrorBadArgument.
*/
func (i *Instance) CreateDevice(pd *PhysicalDevice, info DeviceCreateInfo) (*Device, error) {
	i.noCopy.Check()
	if pd == nil || pd.instance != i {
		return nil, ErrorBadArgument
	}
	config := info.Config
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	queueInfos := make([]native.DeviceQueueCreateInfo, 0, len(pd.families))
	for f, family := range pd.families {
		priorities := make([]float32, family.Count)
		for p := range priorities {
			priorities[p] = 1
		}
		queueInfos = append(queueInfos, native.DeviceQueueCreateInfo{Family: uint32(f), Priorities: priorities})
	}
	h, err := pd.native.CreateDevice(native.DeviceCreateInfo{
		Queues:            queueInfos,
		EnabledLayers:     info.EnabledLayers,
		EnabledExtensions: info.EnabledExtensions,
	})
	if err != nil {
		instance.logger.EPrintf("Failed to create device on %s: %s", pd, err)
		return nil, err
	}

	d := &Device{
		physical:     pd,
		native:       h,
		config:       config,
		limits:       pd.properties.Limits,
		families:     pd.families,
		commandPools: map[uint32]*commandPool{},
	}
	d.noCopy.Init()
	d.syncPool.device = h
	d.setLayouts.init(d)
	d.pipelineLayouts.init(d)
	d.renderPasses.init(d)
	d.pipelines.init(d)
	d.staging.device = d

	d.queues = make([][]*Queue, len(pd.families))
	for f, family := range pd.families {
		for q := range family.Count {
			d.queues[f] = append(d.queues[f], newQueue(d, uint32(f), q, family.Flags))
		}
	}

	instance.logger.IPrintf("Created device on %s", pd)
	return d, nil
}

func (d *Device) PhysicalDevice() *PhysicalDevice {
	d.noCopy.Check()
	return d.physical
}

func (d *Device) Config() DeviceConfig {
	d.noCopy.Check()
	return d.config
}

func (d *Device) Native() native.Device {
	d.noCopy.Check()
	return d.native
}

/*
Queue returns queue index of family, vk.Incomplete when it does not exist.
*/
func (d *Device) Queue(family, index uint32) (*Queue, error) {
	d.noCopy.Check()
	if int(family) >= len(d.queues) || int(index) >= len(d.queues[family]) {
		return nil, ErrorIncomplete
	}
	return d.queues[family][index], nil
}

/*
QueueByFlags returns queue index of the first family supporting every bit of
flags. Families with the fewest extra capabilities are preferred so that
dedicated compute and transfer families are found first.
*/
func (d *Device) QueueByFlags(flags vk.QueueFlags, index uint32) (*Queue, error) {
	d.noCopy.Check()
	best := -1
	bestExtra := 33
	for f, family := range d.families {
		if !hasBits(family.Flags, flags) || index >= family.Count {
			continue
		}
		extra := 0
		for b := family.Flags &^ flags; b != 0; b &= b - 1 {
			extra++
		}
		if extra < bestExtra {
			best, bestExtra = f, extra
		}
	}
	if best < 0 {
		return nil, ErrorIncomplete
	}
	return d.queues[best][index], nil
}

func (d *Device) GraphicsQueue(index uint32) (*Queue, error) {
	return d.QueueByFlags(vk.QueueGraphicsBit, index)
}

func (d *Device) ComputeQueue(index uint32) (*Queue, error) {
	return d.QueueByFlags(vk.QueueComputeBit, index)
}

func (d *Device) TransferQueue(index uint32) (*Queue, error) {
	return d.QueueByFlags(vk.QueueTransferBit, index)
}

/*
WaitIdle blocks until the device is idle and recycles every tracked fence and
semaphore.
*/
func (d *Device) WaitIdle() error {
	d.noCopy.Check()
	if err := d.native.WaitIdle(); err != nil {
		return err
	}
	d.sweepFences(true)
	for _, family := range d.queues {
		for _, q := range family {
			q.recycleUntracked()
		}
	}
	return nil
}

/*
Destroy waits for the device to be idle and destroys every cached object. All
objects created from d must be destroyed first.
*/
func (d *Device) Destroy() {
	d.noCopy.Check()
	if err := d.WaitIdle(); err != nil {
		instance.logger.WPrintf("WaitIdle failed during destroy: %s", err)
	}

	for _, family := range d.queues {
		for _, q := range family {
			q.destroy()
		}
	}
	d.oneTimeMtx.Lock()
	d.oneTime.Drain(func(cb *CommandBuffer) { cb.destroy() })
	d.oneTimeMtx.Unlock()
	d.staging.destroy()

	d.pipelines.destroy()
	d.renderPasses.destroy()
	d.pipelineLayouts.destroy()
	d.setLayouts.destroy()
	d.syncPool.destroy()

	d.poolMtx.Lock()
	for _, p := range d.commandPools {
		d.native.DestroyCommandPool(p.handle)
	}
	clear(d.commandPools)
	d.poolMtx.Unlock()

	d.native.Destroy()
	d.noCopy.Close()
}

func (d *Device) commandPool(family uint32) (*commandPool, error) {
	d.poolMtx.Lock()
	defer d.poolMtx.Unlock()
	if p, ok := d.commandPools[family]; ok {
		return p, nil
	}
	h, err := d.native.CreateCommandPool(family)
	if err != nil {
		instance.logger.EPrintf("Failed to create command pool for family %d: %s", family, err)
		return nil, err
	}
	p := &commandPool{handle: h, family: family}
	d.commandPools[family] = p
	return p, nil
}

/*
trackSubmission hands f and the semaphores waited on by its submission to the
fence tracker, they are recycled once f is signaled.
*/
func (d *Device) trackSubmission(f *Fence, semaphores []native.Semaphore) {
	d.fenceMtx.Lock()
	d.fences.Push(trackedFence{fence: f, semaphores: semaphores})
	d.submissions++
	n := d.submissions
	d.fenceMtx.Unlock()

	if n%uint64(d.config.FenceSweepPeriod) == 0 {
		d.sweepFences(false)
	}
	if n%uint64(d.config.RenderPassSweepPeriod) == 0 {
		d.sweepRenderPasses()
	}
}

/*
sweepFences releases tracked fences in submission order, stopping at the first
unsignaled one unless idle is set.
*/
func (d *Device) sweepFences(idle bool) {
	d.fenceMtx.Lock()
	defer d.fenceMtx.Unlock()

	released := 0
	for !d.fences.Empty() {
		t := d.fences.Front()
		if !idle && d.native.FenceStatus(t.fence.handle) != nil {
			break
		}
		d.fences.Pop()
		for _, s := range t.semaphores {
			d.syncPool.releaseSemaphore(s)
		}
		d.releaseFence(t.fence)
		released++
	}
	if released > 0 {
		instance.logger.VPrintf("Fence sweep released %d fences, %d still pending", released, d.fences.Len())
	}
}

func (d *Device) sweepRenderPasses() {
	destroyed := d.renderPasses.sweep()
	if len(destroyed) > 0 {
		d.pipelines.purge(destroyed)
		instance.logger.VPrintf("Render pass sweep destroyed %d render passes", len(destroyed))
	}
}

/*
submitOneTime records f into a device owned one time command buffer, submits
it on the first queue and waits for that queue to be idle.
*/
func (d *Device) submitOneTime(f func(cb *CommandBuffer) error) error {
	var cb *CommandBuffer
	d.oneTimeMtx.Lock()
	if !d.oneTime.Empty() {
		cb = d.oneTime.Pop()
	}
	d.oneTimeMtx.Unlock()

	q := d.queues[0][0]
	if cb == nil {
		cbs, err := d.AllocateCommandBuffers(q, 1)
		if err != nil {
			return err
		}
		cb = cbs[0]
	}
	defer func() {
		d.oneTimeMtx.Lock()
		d.oneTime.Push(cb)
		d.oneTimeMtx.Unlock()
	}()

	if err := cb.Begin(vk.CommandBufferUsageOneTimeSubmitBit); err != nil {
		return err
	}
	if err := f(cb); err != nil {
		cb.abandon()
		return err
	}
	if err := cb.End(); err != nil {
		return err
	}
	if err := q.submitUntracked([]native.SubmitInfo{{CommandBuffers: []native.CommandBuffer{cb.handle}}}); err != nil {
		return err
	}
	return q.WaitIdle()
}

type Stats struct {
	DescriptorSetLayouts    int
	DescriptorSetsAllocated int
	DescriptorSetsInUse     int
	PipelineLayouts         int
	RenderPasses            int
	RenderPassHits          uint64
	RenderPassMisses        uint64
	Pipelines               int
	PipelineHits            uint64
	PipelineMisses          uint64
	TrackedFences           int
	Submissions             uint64
	PooledFences            int
	PooledSemaphores        int
	// Buffers excludes the internal staging buffer.
	Buffers                 int
	Images                  int
}

/*
Stats returns a snapshot of the cache and pool counters of d.
*/
func (d *Device) Stats() Stats {
	d.noCopy.Check()
	s := Stats{}
	s.DescriptorSetLayouts, s.DescriptorSetsAllocated, s.DescriptorSetsInUse = d.setLayouts.stats()
	s.PipelineLayouts = d.pipelineLayouts.len()
	s.RenderPasses, s.RenderPassHits, s.RenderPassMisses = d.renderPasses.stats()
	s.Pipelines, s.PipelineHits, s.PipelineMisses = d.pipelines.stats()
	d.fenceMtx.Lock()
	s.TrackedFences = d.fences.Len()
	s.Submissions = d.submissions
	d.fenceMtx.Unlock()
	s.PooledFences, s.PooledSemaphores = d.syncPool.pooled()
	s.Buffers = d.buffers.len()
	if d.staging.live.Load() {
		s.Buffers--
	}
	s.Images = d.images.len()
	return s
}

func (d *Device) MarshalJSON() ([]byte, error) {
	d.noCopy.Check()
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"PhysicalDevice\": %s,", jsonString(d.physical)))
	buff.WriteString(fmt.Sprintf("\"Config\": %s,", jsonString(&d.config)))
	buff.WriteString(fmt.Sprintf("\"Stats\": %s,", jsonString(d.Stats())))
	buff.WriteString(fmt.Sprintf("\"DescriptorSetLayoutCache\": %s,", jsonString(&d.setLayouts)))
	buff.WriteString(fmt.Sprintf("\"PipelineLayoutCache\": %s,", jsonString(&d.pipelineLayouts)))
	buff.WriteString(fmt.Sprintf("\"RenderPassCache\": %s,", jsonString(&d.renderPasses)))
	buff.WriteString(fmt.Sprintf("\"PipelineCache\": %s", jsonString(&d.pipelines)))

	buff.WriteString("}")
	return buff.Bytes(), nil
}
