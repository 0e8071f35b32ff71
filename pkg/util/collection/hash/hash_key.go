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

// A hashtable which permits collisions.  hashicorp's go-set assumes its hash
// function uniquely identifies the data, which does not hold for structural
// hashes of terms.  Hence buckets are compared with Equals.

// Hasher provides a generic definition of a hashing function suitable for use
// within the map.  Unlike go-set's Hasher it additionally includes equality.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

// FNV-1a constants.
const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Combine mixes a sequence of 64-bit words into a single FNV-1a style hash.
func Combine(words ...uint64) uint64 {
	h := offset64
	//
	for _, w := range words {
		for i := 0; i < 8; i++ {
			h ^= (w >> (8 * i)) & 0xff
			h *= prime64
		}
	}
	//
	return h
}

// String hashes a string with FNV-1a.
func String(s string) uint64 {
	h := offset64
	//
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	//
	return h
}
