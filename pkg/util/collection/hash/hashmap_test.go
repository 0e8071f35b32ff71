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
	"math/rand"
	"testing"
)

func Test_HashMap_01(t *testing.T) {
	items := []uint{1, 2, 3, 4, 3, 2, 1}
	check_HashMap(t, items)
}

func Test_HashMap_02(t *testing.T) {
	check_HashMap(t, randomUints(10, 32))
}

func Test_HashMap_03(t *testing.T) {
	check_HashMap(t, randomUints(100, 32))
}

func Test_HashMap_04(t *testing.T) {
	check_HashMap(t, randomUints(1000, 1024))
}

// Every key collides, so correctness relies entirely on bucket equality.
func Test_HashMap_05(t *testing.T) {
	hmap := NewMap[collidingKey, string](0)
	hmap.Insert(collidingKey{1}, "one")
	hmap.Insert(collidingKey{2}, "two")
	hmap.Insert(collidingKey{1}, "uno")
	//
	if hmap.Size() != 2 || hmap.MaxBucket() != 2 {
		t.Errorf("unexpected layout: %s", hmap.String())
	}
	//
	if v, ok := hmap.Get(collidingKey{1}); !ok || v != "uno" {
		t.Errorf("expected uno, got %s", v)
	}
	//
	if !hmap.Delete(collidingKey{1}) || hmap.ContainsKey(collidingKey{1}) {
		t.Errorf("delete failed: %s", hmap.String())
	}
	//
	if v, ok := hmap.Get(collidingKey{2}); !ok || v != "two" {
		t.Errorf("expected two, got %s", v)
	}
}

func Test_HashMap_06(t *testing.T) {
	if Combine(1, 2) == Combine(2, 1) {
		t.Errorf("combine should be order sensitive")
	}
	//
	if String("eq") != String("eq") || String("eq") == String("heq") {
		t.Errorf("string hash inconsistent")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_HashMap(t *testing.T, items []uint) {
	gmap := make(map[uint]uint)
	hmap := NewMap[testKey, uint](0)
	// Insert items
	for i, key := range items {
		gmap[key] = uint(i)
		hmap.Insert(testKey{key}, uint(i))
	}
	// Sanity check number of unique items
	if hmap.Size() != uint(len(gmap)) {
		t.Errorf("expected %d items, got %d: %s", len(gmap), hmap.Size(), hmap.String())
	}
	// Sanity check containership
	for key, val := range gmap {
		if v, ok := hmap.Get(testKey{key}); !ok {
			t.Errorf("missing item %d=>%d: %s", key, val, hmap.String())
		} else if v != val {
			t.Errorf("expecting %d=>%d, got %d=>%d", key, val, key, v)
		}
	}
	// Remove everything
	for key := range gmap {
		if !hmap.Delete(testKey{key}) {
			t.Errorf("failed to delete %d", key)
		}
	}
	//
	if hmap.Size() != 0 || len(hmap.Keys()) != 0 {
		t.Errorf("expected empty map, got %s", hmap.String())
	}
}

func randomUints(n uint, m uint) []uint {
	items := make([]uint, n)
	for i := uint(0); i < n; i++ {
		items[i] = uint(rand.Intn(int(m)))
	}
	//
	return items
}

type testKey struct {
	value uint
}

func (p testKey) Equals(other testKey) bool {
	return p.value == other.value
}

func (p testKey) Hash() uint64 {
	return Combine(uint64(p.value))
}

type collidingKey struct {
	value uint
}

func (p collidingKey) Equals(other collidingKey) bool {
	return p.value == other.value
}

func (p collidingKey) Hash() uint64 {
	return 0
}
