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
	"fmt"

	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/syntax"
	"github.com/consensys/go-cclosure/pkg/util"
	"github.com/consensys/go-cclosure/pkg/util/collection/hash"
)

// Transparency determines which definitions may be unfolded when comparing
// terms.
type Transparency uint8

const (
	// NONE unfolds no definitions.
	NONE Transparency = iota
	// REDUCIBLE unfolds only definitions marked reducible.
	REDUCIBLE
	// ALL unfolds every definition.
	ALL
)

func (t Transparency) String() string {
	switch t {
	case NONE:
		return "none"
	case REDUCIBLE:
		return "reducible"
	default:
		return "all"
	}
}

// ParseTransparency converts a textual mode into a Transparency.
func ParseTransparency(s string) (Transparency, error) {
	switch s {
	case "none":
		return NONE, nil
	case "reducible":
		return REDUCIBLE, nil
	case "all":
		return ALL, nil
	}
	//
	return NONE, fmt.Errorf("unknown transparency %q", s)
}

// TypeChecker infers and checks types against an environment.  Inference
// always unfolds definitions as needed, whilst the public definitional
// equality and normalisation queries honour the configured transparency.
type TypeChecker struct {
	env   *Environment
	mode  Transparency
	cache *hash.Map[*expr.Expr, *expr.Expr]
}

// NewTypeChecker constructs a type checker for a given environment.
func NewTypeChecker(env *Environment, mode Transparency) *TypeChecker {
	return &TypeChecker{env, mode, hash.NewMap[*expr.Expr, *expr.Expr](64)}
}

// Environment returns the environment being checked against.
func (tc *TypeChecker) Environment() *Environment {
	return tc.env
}

// Mode returns the transparency of this checker.
func (tc *TypeChecker) Mode() Transparency {
	return tc.mode
}

// Infer the type of a term, or fail if the term is ill-typed.
func (tc *TypeChecker) Infer(e *expr.Expr) (*expr.Expr, error) {
	if ty, ok := tc.cache.Get(e); ok {
		return ty, nil
	}
	//
	ty, err := tc.infer(e)
	if err != nil {
		return nil, err
	}
	//
	tc.cache.Insert(e, ty)
	//
	return ty, nil
}

// Check that a term has the given type.  A proposition is accepted where a
// type is expected.
func (tc *TypeChecker) Check(e *expr.Expr, ty *expr.Expr) error {
	actual, err := tc.Infer(e)
	if err != nil {
		return err
	} else if !tc.isSubtype(actual, ty) {
		return fmt.Errorf("type mismatch, %s has type %s but is expected to have type %s", e, actual, ty)
	}
	//
	return nil
}

// EnsureSort checks that a term is a type, returning its sort.
func (tc *TypeChecker) EnsureSort(e *expr.Expr) (*expr.Expr, error) {
	ty, err := tc.Infer(e)
	if err != nil {
		return nil, err
	}
	//
	if s := tc.whnf(ty, ALL); s.Kind() == expr.SORT {
		return s, nil
	}
	//
	return nil, fmt.Errorf("type expected, %s has type %s", e, ty)
}

// IsProp checks whether e is a proposition.
func (tc *TypeChecker) IsProp(e *expr.Expr) bool {
	ty, err := tc.Infer(e)
	//
	return err == nil && expr.Equal(tc.whnf(ty, ALL), expr.Prop())
}

// IsProof checks whether e is the proof of some proposition.
func (tc *TypeChecker) IsProof(e *expr.Expr) bool {
	ty, err := tc.Infer(e)
	//
	return err == nil && tc.IsProp(ty)
}

// SubsingletonInstance returns a witness that all inhabitants of ty are
// equal, if one is known.  Every proposition is a subsingleton.
func (tc *TypeChecker) SubsingletonInstance(ty *expr.Expr) util.Option[*expr.Expr] {
	if tc.IsProp(ty) {
		return util.Some(expr.App(expr.Const(PROP_SUBSINGLETON), ty))
	}
	//
	for _, name := range tc.env.subsingletons {
		d := tc.env.decls[name]
		//
		if tc.IsDefEq(d.Type.Arg(), ty) {
			return util.Some(expr.Const(name))
		}
	}
	//
	return util.None[*expr.Expr]()
}

func (tc *TypeChecker) infer(e *expr.Expr) (*expr.Expr, error) {
	switch e.Kind() {
	case expr.VAR:
		return nil, fmt.Errorf("unexpected bound variable %s", e)
	case expr.SORT:
		return expr.Type(), nil
	case expr.CONST:
		if d, ok := tc.env.decls[e.Name()]; ok {
			return d.Type, nil
		}
		//
		return nil, fmt.Errorf("unknown constant %s", e.Name())
	case expr.LOCAL, expr.META:
		return e.Type(), nil
	case expr.LIT:
		return expr.Const(expr.FIELD), nil
	case expr.APP:
		return tc.inferApp(e)
	case expr.LAMBDA:
		return tc.inferLambda(e)
	case expr.PI:
		return tc.inferPi(e)
	}
	//
	panic("unreachable")
}

func (tc *TypeChecker) inferApp(e *expr.Expr) (*expr.Expr, error) {
	fnTy, err := tc.Infer(e.Fn())
	if err != nil {
		return nil, err
	}
	//
	pi := tc.whnf(fnTy, ALL)
	if pi.Kind() != expr.PI {
		return nil, fmt.Errorf("function expected, %s has type %s", e.Fn(), fnTy)
	}
	//
	argTy, err := tc.Infer(e.Arg())
	if err != nil {
		return nil, err
	} else if !tc.isSubtype(argTy, pi.Domain()) {
		return nil, fmt.Errorf("argument %s has type %s but is expected to have type %s", e.Arg(), argTy, pi.Domain())
	}
	//
	if expr.IsAppOf(e, NO_CONFUSION, 3) {
		args := expr.AppArgs(e)
		//
		if !tc.distinctValues(args[1], args[2]) {
			return nil, fmt.Errorf("no_confusion requires distinct values, got %s and %s", args[1], args[2])
		}
	}
	//
	return expr.Instantiate(pi.Body(), e.Arg()), nil
}

func (tc *TypeChecker) inferLambda(e *expr.Expr) (*expr.Expr, error) {
	if _, err := tc.EnsureSort(e.Domain()); err != nil {
		return nil, err
	}
	//
	x := syntax.FreshLocal(e.Name(), e.Domain())
	//
	bodyTy, err := tc.Infer(expr.Instantiate(e.Body(), x))
	if err != nil {
		return nil, err
	}
	//
	return expr.Pi(e.Name(), e.Info(), e.Domain(), expr.Abstract(bodyTy, x)), nil
}

func (tc *TypeChecker) inferPi(e *expr.Expr) (*expr.Expr, error) {
	if _, err := tc.EnsureSort(e.Domain()); err != nil {
		return nil, err
	}
	//
	x := syntax.FreshLocal(e.Name(), e.Domain())
	//
	s, err := tc.EnsureSort(expr.Instantiate(e.Body(), x))
	if err != nil {
		return nil, err
	}
	// Prop is impredicative
	if s.Level() == 0 {
		return expr.Prop(), nil
	}
	//
	return expr.Type(), nil
}

// isSubtype checks whether a term of type a may be used where type b is
// expected.  This is definitional equality, extended so that Prop is accepted
// where Type is expected (including in the codomain of function types).
func (tc *TypeChecker) isSubtype(a *expr.Expr, b *expr.Expr) bool {
	if tc.isDefEq(a, b, ALL) {
		return true
	}
	//
	a, b = tc.whnf(a, ALL), tc.whnf(b, ALL)
	//
	switch {
	case a.Kind() == expr.SORT && b.Kind() == expr.SORT:
		return a.Level() <= b.Level()
	case a.Kind() == expr.PI && b.Kind() == expr.PI:
		if !tc.isDefEq(a.Domain(), b.Domain(), ALL) {
			return false
		}
		//
		x := syntax.FreshLocal(a.Name(), a.Domain())
		//
		return tc.isSubtype(expr.Instantiate(a.Body(), x), expr.Instantiate(b.Body(), x))
	}
	//
	return false
}

// distinctValues checks whether two terms are provably distinct, either as
// unequal literals or as applications of different constructors of the same
// inductive type.
func (tc *TypeChecker) distinctValues(a *expr.Expr, b *expr.Expr) bool {
	a, b = tc.whnf(a, ALL), tc.whnf(b, ALL)
	//
	if a.Kind() == expr.LIT && b.Kind() == expr.LIT {
		return !expr.Equal(a, b)
	}
	//
	ca, okA := tc.constructorOf(a)
	cb, okB := tc.constructorOf(b)
	//
	return okA && okB && ca.Inductive == cb.Inductive && ca.Name != cb.Name
}
