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

/*
Package vulkan is the native backend that drives a system Vulkan loader through
cgo. Native handles are registry keys, the driver objects never leave this
package.
*/
package vulkan

import (
	"bytes"
	"sync"
	"unsafe"

	"goarrg.com/debug"
	vulkan "github.com/goki/vulkan"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

var logger = debug.NewLogger("vez", "vulkan")

func SetLogLevel(l uint32) {
	logger.SetLevel(l)
}

var (
	_ native.Driver         = (*Driver)(nil)
	_ native.Instance       = (*Instance)(nil)
	_ native.PhysicalDevice = (*physicalDevice)(nil)
	_ native.Device         = (*Device)(nil)
)

/*
Driver loads the Vulkan entry points on first use. GetInstanceProcAddr may be
set to the loader pointer of a windowing library, the system loader is used
otherwise.
*/
type Driver struct {
	GetInstanceProcAddr unsafe.Pointer

	once sync.Once
	err  error
}

func (d *Driver) load() error {
	d.once.Do(func() {
		if d.GetInstanceProcAddr != nil {
			vulkan.SetGetInstanceProcAddr(d.GetInstanceProcAddr)
		} else if err := vulkan.SetDefaultGetInstanceProcAddr(); err != nil {
			logger.EPrintf("Failed to find the vulkan loader: %s", err)
			d.err = vk.ErrorInitializationFailed
			return
		}
		if err := vulkan.Init(); err != nil {
			logger.EPrintf("Failed to load vulkan: %s", err)
			d.err = vk.ErrorInitializationFailed
		}
	})
	return d.err
}

/*
registry maps native handles to driver objects. Zero is never handed out.
*/
type registry[T any] struct {
	mtx     sync.RWMutex
	next    uint64
	objects map[uint64]T
}

func (r *registry[T]) add(v T) uint64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.objects == nil {
		r.objects = map[uint64]T{}
	}
	r.next++
	r.objects[r.next] = v
	return r.next
}

func (r *registry[T]) get(h uint64) T {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.objects[h]
}

func (r *registry[T]) remove(h uint64) (T, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	v, ok := r.objects[h]
	delete(r.objects, h)
	return v, ok
}

func (r *registry[T]) len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.objects)
}

func result(r vulkan.Result) error {
	if r == vulkan.Success {
		return nil
	}
	return vk.Result(r)
}

func bool32(b bool) vulkan.Bool32 {
	if b {
		return vulkan.True
	}
	return vulkan.False
}

func cstrings(s []string) []string {
	out := make([]string, len(s))
	for i, str := range s {
		out[i] = str + "\x00"
	}
	return out
}

func gostring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func extent2D(e vk.Extent2D) vulkan.Extent2D {
	return vulkan.Extent2D{Width: e.Width, Height: e.Height}
}

func extent3D(e vk.Extent3D) vulkan.Extent3D {
	return vulkan.Extent3D{Width: e.Width, Height: e.Height, Depth: e.Depth}
}

func offset3D(o vk.Offset3D) vulkan.Offset3D {
	return vulkan.Offset3D{X: o.X, Y: o.Y, Z: o.Z}
}

func rect2D(r vk.Rect2D) vulkan.Rect2D {
	return vulkan.Rect2D{
		Offset: vulkan.Offset2D{X: r.Offset.X, Y: r.Offset.Y},
		Extent: extent2D(r.Extent),
	}
}

func subresourceRange(r vk.ImageSubresourceRange) vulkan.ImageSubresourceRange {
	return vulkan.ImageSubresourceRange{
		AspectMask:     vulkan.ImageAspectFlags(r.AspectMask),
		BaseMipLevel:   r.BaseMipLevel,
		LevelCount:     r.LevelCount,
		BaseArrayLayer: r.BaseArrayLayer,
		LayerCount:     r.LayerCount,
	}
}

func subresourceLayers(l vk.ImageSubresourceLayers) vulkan.ImageSubresourceLayers {
	return vulkan.ImageSubresourceLayers{
		AspectMask:     vulkan.ImageAspectFlags(l.AspectMask),
		MipLevel:       l.MipLevel,
		BaseArrayLayer: l.BaseArrayLayer,
		LayerCount:     l.LayerCount,
	}
}

/*
clearBytes packs 4 words into the byte layout of the native clear unions.
*/
func clearBytes(words [4]uint32) [16]byte {
	var out [16]byte
	for i, w := range words {
		out[i*4] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}

func clearValue(v vk.ClearValue) vulkan.ClearValue {
	return vulkan.ClearValue(clearBytes(v))
}

func clearColorValue(v vk.ClearColorValue) vulkan.ClearColorValue {
	return vulkan.ClearColorValue(clearBytes(v))
}
