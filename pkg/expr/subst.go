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

// replace rebuilds e bottom-up, giving fn the chance to substitute each
// subterm.  The offset counts binders crossed so far.  Subterms are shared
// whenever nothing beneath them changes.
func replace(e *Expr, offset uint, fn func(*Expr, uint) *Expr) *Expr {
	if r := fn(e, offset); r != nil {
		return r
	}
	//
	switch e.kind {
	case APP:
		f := replace(e.left, offset, fn)
		a := replace(e.right, offset, fn)
		//
		if f == e.left && a == e.right {
			return e
		}
		//
		return App(f, a)
	case LAMBDA, PI:
		d := replace(e.left, offset, fn)
		b := replace(e.right, offset+1, fn)
		//
		if d == e.left && b == e.right {
			return e
		}
		//
		return mkBinding(e.kind, e.name, e.info, d, b)
	}
	// Locals and metavariables are atomic, their types are never rewritten.
	return e
}

// Lift shifts every loose bound variable with index at least start by delta.
func Lift(e *Expr, start uint, delta uint) *Expr {
	if delta == 0 {
		return e
	}
	//
	return replace(e, 0, func(t *Expr, offset uint) *Expr {
		if t.looseRange <= start+offset {
			return t
		} else if t.kind == VAR {
			return Var(t.index + delta)
		}
		//
		return nil
	})
}

// Instantiate replaces VAR 0 in the body of a binder with v, lowering every
// other loose variable by one.
func Instantiate(body *Expr, v *Expr) *Expr {
	return replace(body, 0, func(t *Expr, offset uint) *Expr {
		if t.looseRange <= offset {
			return t
		} else if t.kind == VAR {
			if t.index == offset {
				return Lift(v, 0, offset)
			}
			//
			return Var(t.index - 1)
		}
		//
		return nil
	})
}

// InstantiateAll instantiates the leading binders of a telescope body with
// args in order, i.e. args[0] replaces the outermost binder.
func InstantiateAll(e *Expr, args ...*Expr) *Expr {
	for _, arg := range args {
		e = Instantiate(e.right, arg)
	}
	//
	return e
}

// Abstract replaces every occurrence of the closed term t in e with VAR 0,
// adjusted for binder depth.  The result is suitable as the body of a
// binder.  Existing loose variables of e are shifted up by one.
func Abstract(e *Expr, t *Expr) *Expr {
	e = Lift(e, 0, 1)
	//
	return replace(e, 0, func(s *Expr, offset uint) *Expr {
		if t.kind == LOCAL && !s.hasLocal {
			return s
		} else if t.kind == META && !s.hasMeta {
			return s
		} else if Equal(s, t) {
			return Var(offset)
		}
		//
		return nil
	})
}

// Occurs checks whether t occurs as a subterm of e.
func Occurs(t *Expr, e *Expr) bool {
	found := false
	//
	replace(e, 0, func(s *Expr, _ uint) *Expr {
		if found {
			return s
		} else if Equal(s, t) {
			found = true
			return s
		}
		//
		return nil
	})
	//
	return found
}

// HasLooseBVar checks whether the bound variable with the given index occurs
// loose in e.
func HasLooseBVar(e *Expr, index uint) bool {
	if e.looseRange <= index {
		return false
	}
	//
	switch e.kind {
	case VAR:
		return e.index == index
	case APP:
		return HasLooseBVar(e.left, index) || HasLooseBVar(e.right, index)
	case LAMBDA, PI:
		return HasLooseBVar(e.left, index) || HasLooseBVar(e.right, index+1)
	}
	//
	return false
}
