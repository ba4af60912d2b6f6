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

	"goarrg.com/rhi/vez/native"
)

/*
handleTable maps native handles of one kind to their records. Tables live on
the Device since native handles are only unique per device.
*/
type handleTable[H ~uint64, T any] struct {
	mtx     sync.RWMutex
	records map[H]*T
}

func (t *handleTable[H, T]) insert(h H, r *T) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.records == nil {
		t.records = map[H]*T{}
	}
	t.records[h] = r
}

func (t *handleTable[H, T]) remove(h H) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	delete(t.records, h)
}

func (t *handleTable[H, T]) lookup(h H) (*T, bool) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	r, ok := t.records[h]
	return r, ok
}

func (t *handleTable[H, T]) len() int {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return len(t.records)
}

/*
LookupBuffer returns the record of a buffer created or imported through d,
vk.Incomplete otherwise.
*/
func (d *Device) LookupBuffer(h native.Buffer) (*Buffer, error) {
	d.noCopy.Check()
	if b, ok := d.buffers.lookup(h); ok {
		return b, nil
	}
	return nil, ErrorIncomplete
}

/*
LookupImage returns the record of an image created, imported or owned by a
swapchain of d, vk.Incomplete otherwise.
*/
func (d *Device) LookupImage(h native.Image) (*Image, error) {
	d.noCopy.Check()
	if i, ok := d.images.lookup(h); ok {
		return i, nil
	}
	return nil, ErrorIncomplete
}
