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

import "goarrg.com/rhi/vez/vk"

type bindingKind uint8

const (
	bindingNone bindingKind = iota
	bindingBuffer
	bindingBufferView
	bindingImage
	bindingSampler
)

/*
bindingInfo is what the caller bound to one array element. layout overrides
the image layout written into the descriptor, used for input attachments.
*/
type bindingInfo struct {
	kind       bindingKind
	buffer     *Buffer
	offset     uint64
	size       uint64
	bufferView *BufferView
	imageView  *ImageView
	sampler    *Sampler
	layout     vk.ImageLayout
}

type bindingSet struct {
	bindings map[uint32]map[uint32]bindingInfo
	version  uint64
}

/*
bindingTable maps set, binding and array element to the resource bound there.
The version of a set changes with any of its elements, a descriptor set written
at one version is stale at any other.
*/
type bindingTable struct {
	sets []bindingSet
}

func (t *bindingTable) reset() {
	for i := range t.sets {
		clear(t.sets[i].bindings)
		t.sets[i].version++
	}
}

/*
bind sets the element, a bindingNone info erases it. Binding what is already
bound keeps the version.
*/
func (t *bindingTable) bind(set, binding, element uint32, info bindingInfo) {
	t.sets = growSlice(t.sets, int(set)+1)[:max(len(t.sets), int(set)+1)]
	s := &t.sets[set]
	if s.bindings == nil {
		s.bindings = map[uint32]map[uint32]bindingInfo{}
	}
	elements := s.bindings[binding]

	if info.kind == bindingNone {
		if _, ok := elements[element]; ok {
			delete(elements, element)
			s.version++
		}
		return
	}
	if elements == nil {
		elements = map[uint32]bindingInfo{}
		s.bindings[binding] = elements
	}
	if cur, ok := elements[element]; ok && cur == info {
		return
	}
	elements[element] = info
	s.version++
}

func (t *bindingTable) lookup(set, binding, element uint32) (bindingInfo, bool) {
	if int(set) >= len(t.sets) {
		return bindingInfo{}, false
	}
	info, ok := t.sets[set].bindings[binding][element]
	return info, ok
}

func (t *bindingTable) version(set uint32) uint64 {
	if int(set) < len(t.sets) {
		return t.sets[set].version
	}
	return 0
}
