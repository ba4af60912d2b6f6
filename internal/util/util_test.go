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
	"testing"

	"github.com/stretchr/testify/assert"
)

type hostMemory []byte

func (m hostMemory) HostWrite(offset uintptr, data []byte) {
	copy(m[offset:], data)
}

func TestHostWrite(t *testing.T) {
	type pod struct {
		A uint32
		B uint16
		C uint8
		D uint8
	}
	m := make(hostMemory, 16)
	n := HostWrite(m, 4, pod{A: 0x04030201, B: 0x0605, C: 7, D: 8})
	assert.Equal(t, uintptr(8), n)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 0, 0, 0, 0}, []byte(m))

	n = HostWriteSlice(m, 12, []uint16{0x0A09, 0x0C0B})
	assert.Equal(t, uintptr(4), n)
	assert.Equal(t, []byte{9, 10, 11, 12}, []byte(m[12:]))
	assert.Nil(t, SliceBytes([]uint32{}))
}

func TestAlign(t *testing.T) {
	assert.Equal(t, uint64(64), AlignUp(uint64(1), 64))
	assert.Equal(t, uint64(64), AlignUp(uint64(64), 64))
	assert.Equal(t, uint64(128), AlignUp(uint64(65), 64))
	assert.Equal(t, uint64(7), AlignUp(uint64(7), 0))
	assert.Equal(t, uint64(64), AlignDown(uint64(127), 64))
	assert.Equal(t, uint32(3), DivRoundUp(uint32(9), 4))
}

func TestNoCopy(t *testing.T) {
	var n NoCopy
	assert.True(t, n.InitLazy())
	assert.False(t, n.InitLazy())
	assert.NotPanics(t, n.Check)
	assert.True(t, n.Alive())

	c := NoCopy{addr: n.addr}
	assert.Panics(t, c.Check)

	n.Close()
	assert.False(t, n.Alive())
	assert.Panics(t, n.Check)
}
