// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package queue

// Queue is a FIFO queue backed by a slice.  Items are consumed from the front
// and the backing array is compacted once the consumed prefix dominates.
type Queue[T any] struct {
	items []T
	head  int
}

// NewQueue returns an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// IsEmpty checks whether any items remain.
func (q *Queue[T]) IsEmpty() bool {
	return q.head == len(q.items)
}

// Len returns the number of items remaining.
func (q *Queue[T]) Len() uint {
	return uint(len(q.items) - q.head)
}

// Enqueue an item at the back.
func (q *Queue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Dequeue the item at the front, or panic if the queue is empty.
func (q *Queue[T]) Dequeue() T {
	var empty T
	//
	if q.IsEmpty() {
		panic("cannot dequeue from empty queue")
	}
	//
	item := q.items[q.head]
	q.items[q.head] = empty
	q.head++
	// Compact
	if q.head > 32 && 2*q.head > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	//
	return item
}

// Clear discards all remaining items.
func (q *Queue[T]) Clear() {
	q.items = nil
	q.head = 0
}
