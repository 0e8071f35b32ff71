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
package expr

import "strings"

// Equal checks structural equality.  Binder names and binder infos are
// ignored, as they do not affect meaning.
func Equal(a *Expr, b *Expr) bool {
	if a == b {
		return true
	} else if a.hash != b.hash || a.kind != b.kind {
		return false
	}
	//
	switch a.kind {
	case VAR, SORT:
		return a.index == b.index
	case CONST:
		return a.name == b.name
	case LOCAL, META:
		return a.name == b.name && Equal(a.left, b.left)
	case APP, LAMBDA, PI:
		return Equal(a.left, b.left) && Equal(a.right, b.right)
	case LIT:
		return a.value.Equal(&b.value)
	}
	//
	panic("unreachable")
}

// Compare imposes a total order on terms.  The order is quick rather than
// meaningful: hashes are compared before structure, so unequal terms are
// usually distinguished in constant time.
func Compare(a *Expr, b *Expr) int {
	if a == b {
		return 0
	} else if a.hash != b.hash {
		if a.hash < b.hash {
			return -1
		}
		//
		return 1
	} else if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	//
	switch a.kind {
	case VAR, SORT:
		return cmpUint(a.index, b.index)
	case CONST:
		return strings.Compare(a.name, b.name)
	case LOCAL, META:
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		//
		return Compare(a.left, b.left)
	case APP, LAMBDA, PI:
		if c := Compare(a.left, b.left); c != 0 {
			return c
		}
		//
		return Compare(a.right, b.right)
	case LIT:
		return a.value.Cmp(&b.value)
	}
	//
	panic("unreachable")
}

func cmpUint(a uint, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	//
	return 0
}

// Comparer adapts Compare for ordered collections.
type Comparer struct{}

// Compare implements the comparer interface of persistent sorted maps.
func (Comparer) Compare(a *Expr, b *Expr) int {
	return Compare(a, b)
}
