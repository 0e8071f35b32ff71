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
package hash

import (
	"fmt"
	"strings"
)

// Map is a generic hash map.  Collisions are handled using buckets, rather
// than trusting the hash to identify a key.
type Map[K Hasher[K], V any] struct {
	// items maps hashcodes to *buckets* of items.
	buckets map[uint64]hashMapBucket[K, V]
	// number of keys stored
	size uint
}

// NewMap creates a new HashMap with a given underlying capacity.
func NewMap[K Hasher[K], V any](size uint) *Map[K, V] {
	items := make(map[uint64]hashMapBucket[K, V], size)
	return &Map[K, V]{items, 0}
}

// Size returns the number of unique keys stored in this map.
func (p *Map[K, V]) Size() uint {
	return p.size
}

// MaxBucket returns the size of the largest bucket.
func (p *Map[K, V]) MaxBucket() uint {
	m := uint(0)
	for _, b := range p.buckets {
		m = max(m, uint(len(b.keys)))
	}

	return m
}

// Insert a new item into this map, returning true if the key was already
// contained (in which case its value is replaced) and false otherwise.
func (p *Map[K, V]) Insert(key K, value V) bool {
	hash := key.Hash()
	b := p.buckets[hash]
	r := b.insert(key, value)
	p.buckets[hash] = b
	//
	if !r {
		p.size++
	}
	//
	return r
}

// Delete removes a key from this map, returning true if it was present.
func (p *Map[K, V]) Delete(key K) bool {
	hash := key.Hash()
	//
	b, ok := p.buckets[hash]
	if !ok || !b.delete(key) {
		return false
	}
	//
	if len(b.keys) == 0 {
		delete(p.buckets, hash)
	} else {
		p.buckets[hash] = b
	}
	//
	p.size--
	//
	return true
}

// ContainsKey checks whether the given key is contained within this map, or not.
func (p *Map[K, V]) ContainsKey(key K) bool {
	_, ok := p.Get(key)
	return ok
}

// Get the value associated with a key, or return false otherwise.
func (p *Map[K, V]) Get(key K) (V, bool) {
	var empty V
	// Look for bucket
	if bucket, ok := p.buckets[key.Hash()]; ok {
		return bucket.get(key)
	}

	return empty, false
}

// Keys returns every key in this map, in no specified order.
func (p *Map[K, V]) Keys() []K {
	keys := make([]K, 0, p.size)
	//
	for _, b := range p.buckets {
		keys = append(keys, b.keys...)
	}
	//
	return keys
}

func (p *Map[K, V]) String() string {
	var r strings.Builder
	//
	first := true
	//
	r.WriteString("{")
	//
	for _, b := range p.buckets {
		for i, k := range b.keys {
			if !first {
				r.WriteString(",")
			}

			first = false

			r.WriteString(fmt.Sprintf("%v:=%v", any(k), any(b.values[i])))
		}
	}
	//
	r.WriteString("}")
	//
	return r.String()
}

// ============================================================================
// Bucket
// ============================================================================

type hashMapBucket[K Hasher[K], V any] struct {
	keys   []K
	values []V
}

func (b *hashMapBucket[K, V]) insert(key K, value V) bool {
	for i, k := range b.keys {
		if key.Equals(k) {
			b.values[i] = value
			return true
		}
	}
	//
	b.keys = append(b.keys, key)
	b.values = append(b.values, value)
	//
	return false
}

func (b *hashMapBucket[K, V]) delete(key K) bool {
	for i, k := range b.keys {
		if key.Equals(k) {
			n := len(b.keys) - 1
			b.keys[i], b.values[i] = b.keys[n], b.values[n]
			b.keys, b.values = b.keys[:n], b.values[:n]
			//
			return true
		}
	}
	//
	return false
}

func (b *hashMapBucket[K, V]) get(key K) (V, bool) {
	var empty V
	//
	for i, k := range b.keys {
		if key.Equals(k) {
			return b.values[i], true
		}
	}
	//
	return empty, false
}
