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
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type descriptorPoolPage struct {
	handle    native.DescriptorPool
	allocated uint32
	cap       uint32
	free      container.Stack[native.DescriptorSet]
}

func (p *descriptorPoolPage) canAllocate() bool {
	return !p.free.Empty() || p.allocated < p.cap
}

func (p *descriptorPoolPage) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"handle\": %q,", toHex(p.handle)))
	buff.WriteString(fmt.Sprintf("\"allocated\": %d,", p.allocated))
	buff.WriteString(fmt.Sprintf("\"cap\": %d,", p.cap))
	buff.WriteString(fmt.Sprintf("\"free\": %d", p.free.Len()))

	buff.WriteString("}")
	return buff.Bytes(), nil
}

/*
descriptorSetLayout owns the pool pages its sets are allocated from. A layout
whose last pipeline reference is gone stays alive until every set allocated
from it is freed.
*/
type descriptorSetLayout struct {
	id       string
	handle   native.DescriptorSetLayout
	bindings []native.DescriptorSetLayoutBinding
	refs     int

	mtx       sync.Mutex
	pages     []*descriptorPoolPage
	allocated int
	inUse     int
	dead      bool
}

func (l *descriptorSetLayout) binding(b uint32) (native.DescriptorSetLayoutBinding, bool) {
	for _, lb := range l.bindings {
		if lb.Binding == b {
			return lb, true
		}
	}
	return native.DescriptorSetLayoutBinding{}, false
}

func (l *descriptorSetLayout) newPage(d *Device) (*descriptorPoolPage, error) {
	pageSize := d.config.DescriptorPoolPageSize
	sizes := make([]native.DescriptorPoolSize, 0, len(l.bindings))
	for _, b := range l.bindings {
		sizes = append(sizes, native.DescriptorPoolSize{
			Type:            b.DescriptorType,
			DescriptorCount: b.DescriptorCount * pageSize,
		})
	}
	h, err := d.native.CreateDescriptorPool(pageSize, sizes)
	if err != nil {
		return nil, err
	}
	p := &descriptorPoolPage{handle: h, cap: pageSize}
	l.pages = append(l.pages, p)
	instance.logger.VPrintf("Created descriptor pool page %d with %d sets for layout %s", len(l.pages)-1, pageSize, l.id)
	return p, nil
}

/*
allocate returns a set and the page it must be freed to.
*/
func (l *descriptorSetLayout) allocate(d *Device) (native.DescriptorSet, *descriptorPoolPage, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	var page *descriptorPoolPage
	for _, p := range l.pages {
		if p.canAllocate() {
			page = p
			break
		}
	}
	if page == nil {
		p, err := l.newPage(d)
		if err != nil {
			return 0, nil, err
		}
		page = p
	}

	var set native.DescriptorSet
	if !page.free.Empty() {
		set = page.free.Pop()
	} else {
		s, err := d.native.AllocateDescriptorSet(page.handle, l.handle)
		if err != nil {
			return 0, nil, err
		}
		set = s
		page.allocated++
		l.allocated++
	}
	l.inUse++
	return set, page, nil
}

func (l *descriptorSetLayout) free(d *Device, page *descriptorPoolPage, set native.DescriptorSet) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	page.free.Push(set)
	l.inUse--
	if l.dead && l.inUse == 0 {
		l.destroyLocked(d)
	}
}

func (l *descriptorSetLayout) destroyLocked(d *Device) {
	for _, p := range l.pages {
		d.native.DestroyDescriptorPool(p.handle)
	}
	l.pages = nil
	l.allocated = 0
	d.native.DestroyDescriptorSetLayout(l.handle)
	instance.logger.VPrintf("Destroyed descriptor set layout %s", l.id)
}

func (l *descriptorSetLayout) MarshalJSON() ([]byte, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"handle\": %q,", toHex(l.handle)))
	buff.WriteString(fmt.Sprintf("\"refs\": %d,", l.refs))
	buff.WriteString(fmt.Sprintf("\"allocated\": %d,", l.allocated))
	buff.WriteString(fmt.Sprintf("\"inUse\": %d,", l.inUse))

	buff.WriteString("\"pages\": [")
	if len(l.pages) > 0 {
		for _, p := range l.pages {
			buff.WriteString(fmt.Sprintf("%s,", jsonString(p)))
		}
		buff.Truncate(buff.Len() - 1)
	}
	buff.WriteString("]")

	buff.WriteString("}")
	return buff.Bytes(), nil
}

func descriptorSetLayoutID(bindings []native.DescriptorSetLayoutBinding) string {
	items := make([]any, 0, len(bindings))
	// the set index is not part of the key, equal bindings at any set share a layout
	for _, b := range bindings {
		items = append(items, genID(b.Binding, uint32(b.DescriptorType), b.DescriptorCount, uint32(b.StageFlags)))
	}
	return genID(items...)
}

type descriptorSetLayoutCache struct {
	device *Device
	mtx    sync.RWMutex
	cache  map[string]*descriptorSetLayout
}

func (c *descriptorSetLayoutCache) init(d *Device) {
	c.device = d
	c.cache = map[string]*descriptorSetLayout{}
}

/*
acquire returns the layout for bindings, which must be sorted by binding, and
adds a reference to it. Creation happens outside the lock, a creator that loses
the race destroys its duplicate.
*/
func (c *descriptorSetLayoutCache) acquire(bindings []native.DescriptorSetLayoutBinding) (*descriptorSetLayout, error) {
	id := descriptorSetLayoutID(bindings)

	c.mtx.Lock()
	if l, ok := c.cache[id]; ok {
		l.refs++
		c.mtx.Unlock()
		return l, nil
	}
	c.mtx.Unlock()

	h, err := c.device.native.CreateDescriptorSetLayout(bindings)
	if err != nil {
		instance.logger.EPrintf("Failed to create descriptor set layout %s: %s", id, err)
		return nil, err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	if l, ok := c.cache[id]; ok {
		c.device.native.DestroyDescriptorSetLayout(h)
		l.refs++
		return l, nil
	}
	l := &descriptorSetLayout{id: id, handle: h, bindings: bindings, refs: 1}
	c.cache[id] = l
	instance.logger.VPrintf("Created descriptor set layout %s", id)
	return l, nil
}

func (c *descriptorSetLayoutCache) release(l *descriptorSetLayout) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	l.refs--
	if l.refs > 0 {
		return
	}
	delete(c.cache, l.id)

	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.dead = true
	if l.inUse == 0 {
		l.destroyLocked(c.device)
	}
}

/*
stats returns the number of cached layouts and the number of descriptor sets
allocated from and in use by them.
*/
func (c *descriptorSetLayoutCache) stats() (layouts, allocated, inUse int) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	for _, l := range c.cache {
		l.mtx.Lock()
		allocated += l.allocated
		inUse += l.inUse
		l.mtx.Unlock()
	}
	return len(c.cache), allocated, inUse
}

func (c *descriptorSetLayoutCache) destroy() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for id, l := range c.cache {
		l.mtx.Lock()
		if l.inUse > 0 {
			instance.logger.WPrintf("Destroying descriptor set layout %s with %d sets in use", id, l.inUse)
		}
		l.destroyLocked(c.device)
		l.mtx.Unlock()
	}
	clear(c.cache)
}

func (c *descriptorSetLayoutCache) MarshalJSON() ([]byte, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	buff := bytes.Buffer{}
	buff.WriteString("{")

	{
		err := mapRunFuncSorted(c.cache, func(k string, v *descriptorSetLayout) error {
			buff.WriteString(fmt.Sprintf("%q: %s,", k, jsonString(v)))
			return nil
		})
		if err == nil {
			buff.Truncate(buff.Len() - 1)
		}
	}

	buff.WriteString("}")
	return buff.Bytes(), nil
}

type pipelineLayout struct {
	id            string
	handle        native.PipelineLayout
	setLayouts    []*descriptorSetLayout
	pushConstants native.PushConstantRange
	refs          int
}

type pipelineLayoutCache struct {
	device *Device
	mtx    sync.RWMutex
	cache  map[string]*pipelineLayout
}

func (c *pipelineLayoutCache) init(d *Device) {
	c.device = d
	c.cache = map[string]*pipelineLayout{}
}

func pipelineLayoutID(setLayouts []*descriptorSetLayout, push native.PushConstantRange) string {
	items := make([]any, 0, len(setLayouts)+3)
	items = append(items, uint32(push.StageFlags), push.Offset, push.Size)
	for _, l := range setLayouts {
		items = append(items, l.id)
	}
	return genID(items...)
}

func (c *pipelineLayoutCache) acquire(setLayouts []*descriptorSetLayout, push native.PushConstantRange) (*pipelineLayout, error) {
	id := pipelineLayoutID(setLayouts, push)

	c.mtx.Lock()
	if l, ok := c.cache[id]; ok {
		l.refs++
		c.mtx.Unlock()
		return l, nil
	}
	c.mtx.Unlock()

	info := native.PipelineLayoutCreateInfo{SetLayouts: make([]native.DescriptorSetLayout, len(setLayouts))}
	for i, l := range setLayouts {
		info.SetLayouts[i] = l.handle
	}
	if push.Size > 0 {
		info.PushConstantRanges = []native.PushConstantRange{push}
	}
	h, err := c.device.native.CreatePipelineLayout(info)
	if err != nil {
		instance.logger.EPrintf("Failed to create pipeline layout %s: %s", id, err)
		return nil, err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	if l, ok := c.cache[id]; ok {
		c.device.native.DestroyPipelineLayout(h)
		l.refs++
		return l, nil
	}
	l := &pipelineLayout{id: id, handle: h, setLayouts: setLayouts, pushConstants: push, refs: 1}
	c.cache[id] = l
	instance.logger.VPrintf("Created pipeline layout %s", id)
	return l, nil
}

func (c *pipelineLayoutCache) release(l *pipelineLayout) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	l.refs--
	if l.refs > 0 {
		return
	}
	delete(c.cache, l.id)
	c.device.native.DestroyPipelineLayout(l.handle)
}

func (c *pipelineLayoutCache) len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.cache)
}

func (c *pipelineLayoutCache) destroy() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for _, l := range c.cache {
		c.device.native.DestroyPipelineLayout(l.handle)
	}
	clear(c.cache)
}

func (c *pipelineLayoutCache) MarshalJSON() ([]byte, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	buff := bytes.Buffer{}
	buff.WriteString("{")

	{
		err := mapRunFuncSorted(c.cache, func(k string, v *pipelineLayout) error {
			buff.WriteString(fmt.Sprintf("%q: {\"handle\": %q, \"refs\": %d},", k, toHex(v.handle), v.refs))
			return nil
		})
		if err == nil {
			buff.Truncate(buff.Len() - 1)
		}
	}

	buff.WriteString("}")
	return buff.Bytes(), nil
}

var resourceDescriptorTypes = map[ResourceKind]vk.DescriptorType{
	ResourceSampler:              vk.DescriptorTypeSampler,
	ResourceCombinedImageSampler: vk.DescriptorTypeCombinedImageSampler,
	ResourceSampledImage:         vk.DescriptorTypeSampledImage,
	ResourceStorageImage:         vk.DescriptorTypeStorageImage,
	ResourceUniformTexelBuffer:   vk.DescriptorTypeUniformTexelBuffer,
	ResourceStorageTexelBuffer:   vk.DescriptorTypeStorageTexelBuffer,
	ResourceUniformBuffer:        vk.DescriptorTypeUniformBuffer,
	ResourceStorageBuffer:        vk.DescriptorTypeStorageBuffer,
	ResourceInputAttachment:      vk.DescriptorTypeInputAttachment,
}
