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

package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	s := Stack[int]{}
	assert.True(t, s.Empty())
	for i := range 5 {
		s.Push(i)
	}
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 4, s.Pop())
	assert.Equal(t, []int{0, 1, 2, 3}, s.Data())

	var drained []int
	s.Drain(func(i int) { drained = append(drained, i) })
	assert.Equal(t, []int{3, 2, 1, 0}, drained)
	assert.True(t, s.Empty())
}

func TestQueueWrapAndGrow(t *testing.T) {
	q := Queue[int]{}
	for i := range 6 {
		q.Push(i)
	}
	for i := range 4 {
		assert.Equal(t, i, q.Pop())
	}
	// wraps around the end of the ring, then forces a grow
	for i := 6; i < 20; i++ {
		q.Push(i)
	}
	assert.Equal(t, 16, q.Len())
	assert.Equal(t, 4, q.Front())

	want := []int{}
	for i := 4; i < 20; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, q.Data())
	for _, w := range want {
		assert.Equal(t, w, q.Pop())
	}
	assert.True(t, q.Empty())
	assert.Panics(t, func() { q.Pop() })
}
