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
Package stream implements the paged byte stream command buffers are encoded into.
Pages are allocated on demand and kept across Reset so a command buffer that is
re-recorded every frame stops allocating after the first one.
*/
package stream

import (
	"unsafe"

	"goarrg.com/debug"
	"goarrg.com/rhi/vez/internal/util"
)

const DefaultPageSize = 8 << 20

type Stream struct {
	pageSize int
	pages    [][]byte
	len      int
	rpos     int
}

func New(pageSize int) *Stream {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Stream{pageSize: pageSize}
}

func (s *Stream) PageSize() int {
	return s.pageSize
}

/*
Pages returns the number of pages allocated so far.
*/
func (s *Stream) Pages() int {
	return len(s.pages)
}

/*
Tell returns the write position, which is also the length of the stream.
*/
func (s *Stream) Tell() int {
	return s.len
}

func (s *Stream) ReadPos() int {
	return s.rpos
}

func (s *Stream) Remaining() int {
	return s.len - s.rpos
}

/*
Seek moves the read position, it is clamped to [0, Tell()].
*/
func (s *Stream) Seek(pos int) {
	s.rpos = max(min(pos, s.len), 0)
}

/*
Reset empties the stream without releasing its pages.
*/
func (s *Stream) Reset() {
	s.len = 0
	s.rpos = 0
}

/*
Release empties the stream and drops its pages.
*/
func (s *Stream) Release() {
	s.Reset()
	s.pages = nil
}

func (s *Stream) Write(data []byte) {
	for len(data) > 0 {
		page, off := s.len/s.pageSize, s.len%s.pageSize
		if page == len(s.pages) {
			s.pages = append(s.pages, make([]byte, s.pageSize))
		}
		n := copy(s.pages[page][off:], data)
		data = data[n:]
		s.len += n
	}
}

func (s *Stream) Read(data []byte) error {
	if len(data) > s.Remaining() {
		return debug.Errorf("read of %d bytes at %d overruns stream of length %d", len(data), s.rpos, s.len)
	}
	for len(data) > 0 {
		page, off := s.rpos/s.pageSize, s.rpos%s.pageSize
		n := copy(data, s.pages[page][off:])
		data = data[n:]
		s.rpos += n
	}
	return nil
}

/*
Put and PutSlice append plain old data, T must not contain Go pointers.
PutSlice prefixes the elements with their count.
*/
func Put[T any](s *Stream, v T) {
	s.Write(util.Bytes(&v))
}

func PutSlice[T any](s *Stream, v []T) {
	Put(s, uint32(len(v)))
	s.Write(util.SliceBytes(v))
}

func PutBytes(s *Stream, v []byte) {
	PutSlice(s, v)
}

func Get[T any](s *Stream) (T, error) {
	var v T
	err := s.Read(util.Bytes(&v))
	return v, err
}

func GetSlice[T any](s *Stream) ([]T, error) {
	n, err := Get[uint32](s)
	if err != nil {
		return nil, err
	}
	var zero T
	if uint64(n)*uint64(unsafe.Sizeof(zero)) > uint64(s.Remaining()) {
		return nil, debug.Errorf("slice of %d elements overruns stream", n)
	}
	v := make([]T, n)
	if err := s.Read(util.SliceBytes(v)); err != nil {
		return nil, err
	}
	return v, nil
}
