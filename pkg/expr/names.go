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

// Names of the logical vocabulary the closure recognises.
const (
	EQ      = "eq"
	HEQ     = "heq"
	IFF     = "iff"
	NOT     = "not"
	NE      = "ne"
	AND     = "and"
	OR      = "or"
	TRUE    = "true"
	FALSE   = "false"
	CAST    = "cast"
	FIELD   = "field"
	INTRO   = "true.intro"
	PROPEXT = "propext"
)

// True returns the true proposition.
func True() *Expr { return Const(TRUE) }

// False returns the false proposition.
func False() *Expr { return Const(FALSE) }

// Eq constructs the homogeneous equality a = b at type ty.
func Eq(ty *Expr, a *Expr, b *Expr) *Expr {
	return Apps(Const(EQ), ty, a, b)
}

// HEq constructs the heterogeneous equality a == b.
func HEq(tyA *Expr, a *Expr, tyB *Expr, b *Expr) *Expr {
	return Apps(Const(HEQ), tyA, a, tyB, b)
}

// Iff constructs the propositional equivalence a <-> b.
func Iff(a *Expr, b *Expr) *Expr {
	return Apps(Const(IFF), a, b)
}

// Not constructs the negation of p.
func Not(p *Expr) *Expr {
	return App(Const(NOT), p)
}

// Ne constructs the disequality a != b at type ty.
func Ne(ty *Expr, a *Expr, b *Expr) *Expr {
	return Apps(Const(NE), ty, a, b)
}

// IsTrue checks whether e is the true proposition.
func IsTrue(e *Expr) bool { return IsConstOf(e, TRUE) }

// IsFalse checks whether e is the false proposition.
func IsFalse(e *Expr) bool { return IsConstOf(e, FALSE) }

// IsEq matches a homogeneous equality, returning its type and both sides.
func IsEq(e *Expr) (ty *Expr, lhs *Expr, rhs *Expr, ok bool) {
	if !IsAppOf(e, EQ, 3) {
		return nil, nil, nil, false
	}
	//
	return e.left.left.right, e.left.right, e.right, true
}

// IsHEq matches a heterogeneous equality.
func IsHEq(e *Expr) (tyA *Expr, a *Expr, tyB *Expr, b *Expr, ok bool) {
	if !IsAppOf(e, HEQ, 4) {
		return nil, nil, nil, nil, false
	}
	//
	args := AppArgs(e)
	//
	return args[0], args[1], args[2], args[3], true
}

// IsIff matches a propositional equivalence.
func IsIff(e *Expr) (lhs *Expr, rhs *Expr, ok bool) {
	if !IsAppOf(e, IFF, 2) {
		return nil, nil, false
	}
	//
	return e.left.right, e.right, true
}

// IsNot matches either (not p) or the arrow p -> false.
func IsNot(e *Expr) (p *Expr, ok bool) {
	if IsAppOf(e, NOT, 1) {
		return e.right, true
	} else if e.kind == PI && !e.right.HasLooseBVars() && IsFalse(e.right) {
		return e.left, true
	}
	//
	return nil, false
}

// IsNe matches a disequality.
func IsNe(e *Expr) (ty *Expr, lhs *Expr, rhs *Expr, ok bool) {
	if !IsAppOf(e, NE, 3) {
		return nil, nil, nil, false
	}
	//
	return e.left.left.right, e.left.right, e.right, true
}

// IsArrow checks whether e is a non-dependent function type.
func IsArrow(e *Expr) bool {
	return e.kind == PI && !HasLooseBVar(e.right, 0)
}
