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
)

// Constructor is a constructor of an inductive type being declared.
type Constructor struct {
	Name string
	Type *expr.Expr
}

// AddInductive declares an inductive type along with its constructors.  The
// type must have the form (pi params... Sort), and every constructor must
// have the form (pi params... fields... (I params...)).  An injectivity axiom
// named "c.inj.i" is generated for each field whose type does not depend on
// earlier fields.
func (env *Environment) AddInductive(name string, ty *expr.Expr, ctors []Constructor) error {
	if err := env.beginInductive(name, ty); err != nil {
		return err
	}
	//
	return env.endInductive(name, ctors)
}

func (env *Environment) beginInductive(name string, ty *expr.Expr) error {
	if err := env.checkType(name, ty); err != nil {
		return err
	}
	//
	params := uint(0)
	result := ty
	//
	for ; result.Kind() == expr.PI; result = result.Body() {
		params++
	}
	//
	if result.Kind() != expr.SORT {
		return fmt.Errorf("type of inductive %s must end in a sort", name)
	}
	//
	return env.add(&Declaration{Name: name, Kind: INDUCTIVE, Type: ty, Params: params})
}

// Remove an inductive type, along with everything declared after it, following
// a failed declaration.
func (env *Environment) abortInductive(name string) {
	for i, n := range env.order {
		if n != name {
			continue
		}
		//
		for _, m := range env.order[i:] {
			delete(env.decls, m)
		}
		//
		env.order = env.order[:i]
		//
		return
	}
}

func (env *Environment) endInductive(name string, ctors []Constructor) error {
	ind := env.decls[name]
	//
	for i, c := range ctors {
		d, err := env.checkConstructor(ind, c, uint(i))
		if err == nil {
			err = env.add(d)
		}
		//
		if err == nil {
			err = env.addInjections(ind, d)
		}
		//
		if err != nil {
			env.abortInductive(name)
			return err
		}
		//
		ind.Constructors = append(ind.Constructors, c.Name)
	}
	//
	return nil
}

func (env *Environment) checkConstructor(ind *Declaration, c Constructor, index uint) (*Declaration, error) {
	if err := env.checkType(c.Name, c.Type); err != nil {
		return nil, err
	}
	//
	params, fields, result := env.telescope(ind, c.Type)
	//
	if uint(len(params)) != ind.Params {
		return nil, fmt.Errorf("constructor %s must take the %d parameters of %s", c.Name, ind.Params, ind.Name)
	}
	//
	expected := expr.Apps(expr.Const(ind.Name), params...)
	if !expr.Equal(result, expected) {
		return nil, fmt.Errorf("constructor %s must construct %s, not %s", c.Name, expected, result)
	}
	//
	return &Declaration{Name: c.Name, Kind: CONSTRUCTOR, Type: c.Type, Params: ind.Params, Inductive: ind.Name,
		Index: index, Fields: uint(len(fields))}, nil
}

// telescope opens the type of a constructor, checking that the parameter
// domains agree with those of the inductive type.  It returns locals for the
// parameters and fields, along with the instantiated result type.  Parameters
// which disagree end the parameter prefix early.
func (env *Environment) telescope(ind *Declaration, ty *expr.Expr) ([]*expr.Expr, []*expr.Expr, *expr.Expr) {
	var (
		params []*expr.Expr
		fields []*expr.Expr
		indTy  = ind.Type
	)
	//
	for ty.Kind() == expr.PI {
		l := syntax.FreshLocal(ty.Name(), ty.Domain())
		//
		if uint(len(params)) < ind.Params && len(fields) == 0 && indTy.Kind() == expr.PI &&
			env.checker.IsDefEq(indTy.Domain(), ty.Domain()) {
			params = append(params, l)
			indTy = expr.Instantiate(indTy.Body(), l)
		} else {
			fields = append(fields, l)
		}
		//
		ty = expr.Instantiate(ty.Body(), l)
	}
	//
	return params, fields, ty
}

// Generate injectivity axioms for the fields of a constructor.
func (env *Environment) addInjections(ind *Declaration, c *Declaration) error {
	params, xs, _ := env.telescope(ind, c.Type)
	// A second copy of the fields, typed according to the ys
	var ys []*expr.Expr
	//
	ty := expr.InstantiateAll(c.Type, params...)
	//
	for range xs {
		y := syntax.FreshLocal("y", ty.Domain())
		ys = append(ys, y)
		ty = expr.Instantiate(ty.Body(), y)
	}
	//
	indTy := expr.Apps(expr.Const(ind.Name), params...)
	lhs := expr.Apps(expr.Apps(expr.Const(c.Name), params...), xs...)
	rhs := expr.Apps(expr.Apps(expr.Const(c.Name), params...), ys...)
	h := syntax.FreshLocal("h", expr.Eq(indTy, lhs, rhs))
	//
	binders := append(append(append([]*expr.Expr{}, params...), xs...), ys...)
	binders = append(binders, h)
	//
	c.Injections = make([]string, len(xs))
	//
	for i, x := range xs {
		dependent := false
		//
		for _, prev := range xs[:i] {
			dependent = dependent || expr.Occurs(prev, x.Type())
		}
		// Only fields whose types agree on both sides have an injection
		if dependent {
			continue
		}
		//
		name := fmt.Sprintf("%s.inj.%d", c.Name, i)
		//
		if err := env.AddAxiom(name, expr.PiOver(binders, expr.Eq(x.Type(), x, ys[i]))); err != nil {
			return err
		}
		//
		c.Injections[i] = name
	}
	//
	return nil
}

// constructorOf matches a fully applied constructor.
func (tc *TypeChecker) constructorOf(e *expr.Expr) (*Declaration, bool) {
	head := expr.AppFn(e)
	//
	if head.Kind() != expr.CONST {
		return nil, false
	}
	//
	d, ok := tc.env.decls[head.Name()]
	if !ok || d.Kind != CONSTRUCTOR || uint(expr.AppNumArgs(e)) != d.Params+d.Fields {
		return nil, false
	}
	//
	return d, true
}

// IsConstructorApp checks whether e is a fully applied constructor.
func (tc *TypeChecker) IsConstructorApp(e *expr.Expr) bool {
	_, ok := tc.constructorOf(e)
	return ok
}

// ConstructorApp matches a fully applied constructor of a data type, returning
// the constructor name and its number of parameters.  Constructors of
// propositions are not matched, as their proofs carry no information.
func (tc *TypeChecker) ConstructorApp(e *expr.Expr) (string, int, bool) {
	d, ok := tc.constructorOf(e)
	//
	if !ok || tc.env.decls[d.Inductive].resultSort().Level() == 0 {
		return "", 0, false
	}
	//
	return d.Name, int(d.Params), true
}

// Injection returns the injectivity axiom for a field of a constructor.
func (tc *TypeChecker) Injection(ctor string, field int) (string, bool) {
	d, ok := tc.env.decls[ctor]
	//
	if !ok || d.Kind != CONSTRUCTOR || field < 0 || field >= len(d.Injections) || d.Injections[field] == "" {
		return "", false
	}
	//
	return d.Injections[field], true
}

// resultSort returns the sort an inductive type lives in.
func (d *Declaration) resultSort() *expr.Expr {
	ty := d.Type
	//
	for ty.Kind() == expr.PI {
		ty = ty.Body()
	}
	//
	return ty
}
