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
package kernel

import (
	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/syntax"
)

// Whnf puts a term into weak head normal form, unfolding definitions
// according to the transparency of this checker.
func (tc *TypeChecker) Whnf(e *expr.Expr) *expr.Expr {
	return tc.whnf(e, tc.mode)
}

// IsDefEq checks whether two terms are definitionally equal, unfolding
// definitions according to the transparency of this checker.
func (tc *TypeChecker) IsDefEq(a *expr.Expr, b *expr.Expr) bool {
	return tc.isDefEq(a, b, tc.mode)
}

func (tc *TypeChecker) whnf(e *expr.Expr, mode Transparency) *expr.Expr {
	for {
		e = whnfCore(e)
		//
		u, ok := tc.unfold(e, mode)
		if !ok {
			return e
		}
		//
		e = u
	}
}

// whnfCore performs beta reduction at the head.
func whnfCore(e *expr.Expr) *expr.Expr {
	for {
		fn := expr.AppFn(e)
		if fn.Kind() != expr.LAMBDA || e.Kind() != expr.APP {
			return e
		}
		//
		args := expr.AppArgs(e)
		i := 0
		//
		for ; fn.Kind() == expr.LAMBDA && i < len(args); i++ {
			fn = expr.Instantiate(fn.Body(), args[i])
		}
		//
		e = expr.Apps(fn, args[i:]...)
	}
}

// unfold the head constant of e, if it is a definition visible under mode.
func (tc *TypeChecker) unfold(e *expr.Expr, mode Transparency) (*expr.Expr, bool) {
	head := expr.AppFn(e)
	//
	if head.Kind() != expr.CONST || mode == NONE {
		return nil, false
	}
	//
	d, ok := tc.env.decls[head.Name()]
	if !ok || d.Kind != DEFINITION || (mode == REDUCIBLE && !d.Reducible) {
		return nil, false
	}
	//
	return expr.Apps(d.Value, expr.AppArgs(e)...), true
}

func (tc *TypeChecker) isDefEq(a *expr.Expr, b *expr.Expr, mode Transparency) bool {
	if expr.Equal(a, b) {
		return true
	}
	//
	a, b = whnfCore(a), whnfCore(b)
	//
	if expr.Equal(a, b) || tc.isDefEqStructural(a, b, mode) {
		return true
	}
	// Lazy delta reduction
	ua, okA := tc.unfold(a, mode)
	ub, okB := tc.unfold(b, mode)
	//
	switch {
	case okA && okB:
		return tc.isDefEq(ua, ub, mode)
	case okA:
		return tc.isDefEq(ua, b, mode)
	case okB:
		return tc.isDefEq(a, ub, mode)
	}
	// Eta
	if a.Kind() == expr.LAMBDA && b.Kind() != expr.LAMBDA {
		return tc.isDefEqEta(a, b, mode)
	} else if b.Kind() == expr.LAMBDA && a.Kind() != expr.LAMBDA {
		return tc.isDefEqEta(b, a, mode)
	}
	//
	return false
}

func (tc *TypeChecker) isDefEqStructural(a *expr.Expr, b *expr.Expr, mode Transparency) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	//
	switch a.Kind() {
	case expr.SORT:
		return a.Level() == b.Level()
	case expr.LAMBDA, expr.PI:
		if !tc.isDefEq(a.Domain(), b.Domain(), mode) {
			return false
		}
		//
		x := syntax.FreshLocal(a.Name(), a.Domain())
		//
		return tc.isDefEq(expr.Instantiate(a.Body(), x), expr.Instantiate(b.Body(), x), mode)
	case expr.APP:
		argsA, argsB := expr.AppArgs(a), expr.AppArgs(b)
		//
		if len(argsA) != len(argsB) || !tc.isDefEq(expr.AppFn(a), expr.AppFn(b), mode) {
			return false
		}
		//
		for i := range argsA {
			if !tc.isDefEq(argsA[i], argsB[i], mode) {
				return false
			}
		}
		//
		return true
	}
	//
	return false
}

// Compare (fun x => body) with b by comparing body with (b x).
func (tc *TypeChecker) isDefEqEta(lambda *expr.Expr, b *expr.Expr, mode Transparency) bool {
	x := syntax.FreshLocal(lambda.Name(), lambda.Domain())
	//
	return tc.isDefEq(expr.Instantiate(lambda.Body(), x), expr.App(b, x), mode)
}
