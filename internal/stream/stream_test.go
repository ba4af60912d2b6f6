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

package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	A uint64
	B [3]uint32
	C float32
}

func TestPagesAreSpanned(t *testing.T) {
	s := New(7)
	want := payload{A: 1 << 40, B: [3]uint32{1, 2, 3}, C: 0.5}
	Put(s, uint16(0xBEEF))
	Put(s, want)
	PutSlice(s, []uint32{9, 8, 7, 6, 5})
	assert.Equal(t, 2+24+4+20, s.Tell())
	assert.Equal(t, 8, s.Pages())

	s.Seek(0)
	tag, err := Get[uint16](s)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), tag)
	got, err := Get[payload](s)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	slice, err := GetSlice[uint32](s)
	require.NoError(t, err)
	assert.Equal(t, []uint32{9, 8, 7, 6, 5}, slice)
	assert.Equal(t, 0, s.Remaining())
}

func TestReadOverrun(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultPageSize, s.PageSize())
	Put(s, uint32(1))
	s.Seek(0)
	_, err := Get[uint64](s)
	assert.Error(t, err)

	s.Seek(0)
	Put(s, uint32(100))
	s.Seek(4)
	_, err = GetSlice[uint64](s)
	assert.Error(t, err)
}

func TestResetKeepsPages(t *testing.T) {
	s := New(16)
	PutBytes(s, make([]byte, 40))
	pages := s.Pages()
	s.Reset()
	assert.Equal(t, 0, s.Tell())
	assert.Equal(t, pages, s.Pages())

	PutBytes(s, []byte{1, 2, 3})
	s.Seek(0)
	b, err := GetSlice[byte](s)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)

	s.Release()
	assert.Equal(t, 0, s.Pages())
}
