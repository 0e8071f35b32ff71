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
	"github.com/consensys/go-cclosure/pkg/relation"
)

// Kind distinguishes the forms of declaration.
type Kind uint8

const (
	// AXIOM is a constant with a type but no value.
	AXIOM Kind = iota
	// DEFINITION is a constant with a value which may be unfolded.
	DEFINITION
	// THEOREM is a constant whose value is a checked proof, never unfolded.
	THEOREM
	// INDUCTIVE is an inductive type.
	INDUCTIVE
	// CONSTRUCTOR is a constructor of an inductive type.
	CONSTRUCTOR
)

func (k Kind) String() string {
	switch k {
	case AXIOM:
		return "axiom"
	case DEFINITION:
		return "def"
	case THEOREM:
		return "theorem"
	case INDUCTIVE:
		return "inductive"
	default:
		return "constructor"
	}
}

// Declaration is a named constant of the environment.
type Declaration struct {
	Name string
	Kind Kind
	Type *expr.Expr
	// Value of a definition or theorem
	Value *expr.Expr
	// Reducible definitions are unfolded under REDUCIBLE transparency.
	Reducible bool
	// Number of parameters of an inductive type, or of the inductive type a
	// constructor belongs to.
	Params uint
	// Constructors of an inductive type.
	Constructors []string
	// For constructors: owning type, index among its siblings and number of
	// fields.
	Inductive string
	Index     uint
	Fields    uint
	// For constructors: injectivity lemma for each field, or "" when the
	// field's type depends on earlier fields.
	Injections []string
}

// Environment holds the declarations, relations and subsingleton instances
// available to a problem.  An environment only grows.
type Environment struct {
	decls     map[string]*Declaration
	order     []string
	relations *relation.Table
	// Constants whose type is (subsingleton T)
	subsingletons []string
	// Typechecker used to validate new declarations.
	checker *TypeChecker
}

// NewEmptyEnvironment constructs an environment without any declarations.
// Most clients want NewEnvironment instead.
func NewEmptyEnvironment() *Environment {
	env := &Environment{decls: make(map[string]*Declaration), relations: relation.NewTable()}
	env.checker = NewTypeChecker(env, ALL)
	//
	return env
}

// Lookup a declaration by name.
func (env *Environment) Lookup(name string) (*Declaration, bool) {
	d, ok := env.decls[name]
	return d, ok
}

// Declarations returns all declarations in the order they were added.
func (env *Environment) Declarations() []*Declaration {
	decls := make([]*Declaration, len(env.order))
	//
	for i, n := range env.order {
		decls[i] = env.decls[n]
	}
	//
	return decls
}

// Relations returns the relation table of this environment.
func (env *Environment) Relations() *relation.Table {
	return env.relations
}

// Checker returns a type checker which unfolds all definitions.
func (env *Environment) Checker() *TypeChecker {
	return env.checker
}

// AddAxiom declares a constant of the given type.
func (env *Environment) AddAxiom(name string, ty *expr.Expr) error {
	if err := env.checkType(name, ty); err != nil {
		return err
	}
	//
	return env.add(&Declaration{Name: name, Kind: AXIOM, Type: ty})
}

// AddDefinition declares a constant with a value which can be unfolded.
func (env *Environment) AddDefinition(name string, ty *expr.Expr, value *expr.Expr, reducible bool) error {
	if err := env.checkValue(name, ty, value); err != nil {
		return err
	}
	//
	return env.add(&Declaration{Name: name, Kind: DEFINITION, Type: ty, Value: value, Reducible: reducible})
}

// AddTheorem declares a proposition together with its proof.
func (env *Environment) AddTheorem(name string, ty *expr.Expr, proof *expr.Expr) error {
	if err := env.checkValue(name, ty, proof); err != nil {
		return err
	} else if !env.checker.IsProp(ty) {
		return fmt.Errorf("theorem %s does not state a proposition", name)
	}
	//
	return env.add(&Declaration{Name: name, Kind: THEOREM, Type: ty, Value: proof})
}

// AddRelation registers a relation.  The relation must be declared, and its
// type must end in Prop after exactly info.Arity arguments.
func (env *Environment) AddRelation(info relation.Info) error {
	d, ok := env.decls[info.Name]
	if !ok {
		return fmt.Errorf("unknown relation %s", info.Name)
	}
	//
	ty := d.Type
	//
	for i := 0; i < info.Arity; i++ {
		if ty = env.checker.Whnf(ty); ty.Kind() != expr.PI {
			return fmt.Errorf("relation %s has fewer than %d arguments", info.Name, info.Arity)
		}
		//
		ty = ty.Body()
	}
	//
	if !expr.Equal(env.checker.Whnf(ty), expr.Prop()) {
		return fmt.Errorf("relation %s is not a predicate", info.Name)
	}
	//
	for _, lemma := range []string{info.Refl, info.Symm, info.Trans} {
		if _, ok := env.decls[lemma]; lemma != "" && !ok {
			return fmt.Errorf("unknown lemma %s", lemma)
		}
	}
	//
	return env.relations.Register(info)
}

// AddSubsingletonInstance records that a declared constant witnesses
// (subsingleton T) for some type T.
func (env *Environment) AddSubsingletonInstance(name string) error {
	d, ok := env.decls[name]
	if !ok {
		return fmt.Errorf("unknown instance %s", name)
	} else if !expr.IsAppOf(d.Type, SUBSINGLETON, 1) {
		return fmt.Errorf("%s is not a subsingleton instance", name)
	}
	//
	env.subsingletons = append(env.subsingletons, name)
	//
	return nil
}

func (env *Environment) add(d *Declaration) error {
	if _, ok := env.decls[d.Name]; ok {
		return fmt.Errorf("%s already declared", d.Name)
	}
	//
	env.decls[d.Name] = d
	env.order = append(env.order, d.Name)
	//
	return nil
}

// Check a declaration's type is closed and is itself a type.
func (env *Environment) checkType(name string, ty *expr.Expr) error {
	if _, ok := env.decls[name]; ok {
		return fmt.Errorf("%s already declared", name)
	} else if ty.HasLooseBVars() || ty.HasLocal() || ty.HasMeta() {
		return fmt.Errorf("type of %s is not closed", name)
	} else if _, err := env.checker.EnsureSort(ty); err != nil {
		return fmt.Errorf("type of %s: %w", name, err)
	}
	//
	return nil
}

func (env *Environment) checkValue(name string, ty *expr.Expr, value *expr.Expr) error {
	if err := env.checkType(name, ty); err != nil {
		return err
	} else if value.HasLooseBVars() || value.HasLocal() || value.HasMeta() {
		return fmt.Errorf("value of %s is not closed", name)
	} else if err := env.checker.Check(value, ty); err != nil {
		return fmt.Errorf("value of %s: %w", name, err)
	}
	//
	return nil
}
