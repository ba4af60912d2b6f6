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

/*
Queue is a FIFO backed by a ring buffer that doubles when full.
*/
type Queue[E any] struct {
	data []E
	head int
	len  int
}

func (q *Queue[E]) Len() int {
	return q.len
}

func (q *Queue[E]) Empty() bool {
	return q.len == 0
}

func (q *Queue[E]) grow() {
	c := max(len(q.data)*2, 8)
	data := make([]E, c)
	for i := 0; i < q.len; i++ {
		data[i] = q.data[(q.head+i)%len(q.data)]
	}
	q.data = data
	q.head = 0
}

func (q *Queue[E]) Push(e E) {
	if q.len == len(q.data) {
		q.grow()
	}
	q.data[(q.head+q.len)%len(q.data)] = e
	q.len++
}

func (q *Queue[E]) Front() E {
	if q.len == 0 {
		panic("container: Front called on empty Queue")
	}
	return q.data[q.head]
}

func (q *Queue[E]) Pop() E {
	if q.len == 0 {
		panic("container: Pop called on empty Queue")
	}
	e := q.data[q.head]
	var zero E
	q.data[q.head] = zero
	q.head = (q.head + 1) % len(q.data)
	q.len--
	return e
}

/*
Data returns a copy of the elements from front to back.
*/
func (q *Queue[E]) Data() []E {
	ret := make([]E, q.len)
	for i := range ret {
		ret[i] = q.data[(q.head+i)%len(q.data)]
	}
	return ret
}
