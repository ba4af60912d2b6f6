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

package util

import (
	"unsafe"

	"goarrg.com"
	"goarrg.com/debug"
	"golang.org/x/exp/constraints"
)

type platform struct{}

func (platform) Abort()                           { panic("Fatal Error") }
func (platform) AbortPopup(f string, args ...any) { panic("Fatal Error") }

var instance = struct {
	platform goarrg.PlatformInterface
	logger   *debug.Logger
}{
	platform: platform{},
	logger:   debug.NewLogger("vez", "internal", "util"),
}

func abort(fmt string, args ...any) {
	instance.logger.EPrintf(fmt, args...)
	instance.platform.Abort()
}

func Init(platform goarrg.PlatformInterface) {
	instance.platform = platform
}

/*
HostWriter is host visible memory addressed by byte offset, the staging buffer
and mapped allocations implement it.
*/
type HostWriter interface {
	HostWrite(offset uintptr, data []byte)
}

/*
HostWrite and HostWriteSlice copy the memory of plain old data, T must not
contain Go pointers.
*/
func HostWrite[T any](target HostWriter, offset uintptr, data T) uintptr {
	target.HostWrite(offset, Bytes(&data))
	return unsafe.Sizeof(data)
}

func HostWriteSlice[T any](target HostWriter, offset uintptr, data []T) uintptr {
	b := SliceBytes(data)
	target.HostWrite(offset, b)
	return uintptr(len(b))
}

/*
Bytes returns the memory of *v as a byte slice aliasing v.
*/
func Bytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

/*
SliceBytes returns the backing memory of s as a byte slice aliasing s.
*/
func SliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), uintptr(len(s))*unsafe.Sizeof(zero))
}

func AlignUp[N constraints.Unsigned](v, alignment N) N {
	if alignment == 0 {
		return v
	}
	return ((v + alignment - 1) / alignment) * alignment
}

func AlignDown[N constraints.Unsigned](v, alignment N) N {
	if alignment == 0 {
		return v
	}
	return (v / alignment) * alignment
}

func DivRoundUp[N constraints.Unsigned](v, d N) N {
	return (v + d - 1) / d
}
