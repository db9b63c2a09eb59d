/*
Copyright 2022 The Numaproj Authors.

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

// Package queue provides a bounded queue keeping the most recent elements.
package queue

import "sync"

// OverflowQueue is a thread safe ring buffer with a max size, the oldest elements overflow.
type OverflowQueue[T any] struct {
	lock     sync.RWMutex
	elements []T
	// head is the index of the oldest element once the buffer is full
	head       int
	full       bool
	overflowed uint64
}

// New returns a queue keeping at most size elements, a non-positive size keeps one element.
func New[T any](size int) *OverflowQueue[T] {
	if size <= 0 {
		size = 1
	}
	return &OverflowQueue[T]{
		elements: make([]T, 0, size),
	}
}

// Append adds an element, dropping the oldest one when the queue is full.
func (q *OverflowQueue[T]) Append(value T) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if !q.full {
		q.elements = append(q.elements, value)
		q.full = len(q.elements) == cap(q.elements)
		return
	}
	q.elements[q.head] = value
	q.head = (q.head + 1) % len(q.elements)
	q.overflowed++
}

// Items returns a copy of the elements, oldest first.
func (q *OverflowQueue[T]) Items() []T {
	q.lock.RLock()
	defer q.lock.RUnlock()
	r := make([]T, 0, len(q.elements))
	r = append(r, q.elements[q.head:]...)
	return append(r, q.elements[:q.head]...)
}

// ReversedItems returns a copy of the elements, newest first.
func (q *OverflowQueue[T]) ReversedItems() []T {
	r := q.Items()
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return r
}

// Length returns the current length of the queue.
func (q *OverflowQueue[T]) Length() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return len(q.elements)
}

// Overflowed returns the number of elements pushed out of the queue.
func (q *OverflowQueue[T]) Overflowed() uint64 {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return q.overflowed
}
