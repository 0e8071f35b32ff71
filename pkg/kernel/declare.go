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
	"strconv"

	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/relation"
	"github.com/consensys/go-cclosure/pkg/syntax"
	"github.com/consensys/go-cclosure/pkg/util/source"
	"github.com/consensys/go-cclosure/pkg/util/source/sexp"
)

// Declare processes a declaration command, returning false if the command is
// not a declaration.  The supported forms are:
//
//	(axiom name type)
//	(def name type value)
//	(reducible name type value)
//	(theorem name type proof)
//	(inductive name type (ctor type)...)
//	(instance name type)
//	(relation name refl symm trans)
//
// Within (relation ...), a lemma name "_" indicates the property is absent.
func (env *Environment) Declare(list *sexp.List, t *syntax.Translator) (bool, *source.SyntaxError) {
	var err *source.SyntaxError
	//
	switch list.Head() {
	case "axiom", "instance":
		err = env.declareAxiom(list, t)
	case "def", "reducible", "theorem":
		err = env.declareValue(list, t)
	case "inductive":
		err = env.declareInductive(list, t)
	case "relation":
		err = env.declareRelation(list, t)
	default:
		return false, nil
	}
	//
	return true, err
}

func (env *Environment) declareAxiom(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 3 || list.Get(1).AsSymbol() == nil {
		return t.SyntaxError(list, "expected ("+list.Head()+" name type)")
	}
	//
	name := list.Get(1).AsSymbol().Value
	//
	ty, serr := t.Translate(list.Get(2))
	if serr != nil {
		return serr
	} else if err := env.AddAxiom(name, ty); err != nil {
		return t.SyntaxError(list, err.Error())
	} else if list.Head() == "instance" {
		if err := env.AddSubsingletonInstance(name); err != nil {
			return t.SyntaxError(list.Get(2), err.Error())
		}
	}
	//
	return nil
}

func (env *Environment) declareValue(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 4 || list.Get(1).AsSymbol() == nil {
		return t.SyntaxError(list, "expected ("+list.Head()+" name type value)")
	}
	//
	name := list.Get(1).AsSymbol().Value
	//
	ty, serr := t.Translate(list.Get(2))
	if serr != nil {
		return serr
	}
	//
	value, serr := t.Translate(list.Get(3))
	if serr != nil {
		return serr
	}
	//
	var err error
	//
	switch list.Head() {
	case "theorem":
		err = env.AddTheorem(name, ty, value)
	default:
		err = env.AddDefinition(name, ty, value, list.Head() == "reducible")
	}
	//
	if err != nil {
		return t.SyntaxError(list, err.Error())
	}
	//
	return nil
}

func (env *Environment) declareInductive(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() < 3 || list.Get(1).AsSymbol() == nil {
		return t.SyntaxError(list, "expected (inductive name type (ctor type)...)")
	}
	//
	name := list.Get(1).AsSymbol().Value
	//
	ty, serr := t.Translate(list.Get(2))
	if serr != nil {
		return serr
	}
	// Constructor types refer to the inductive type itself, hence it must be
	// declared before they are translated.
	if err := env.beginInductive(name, ty); err != nil {
		return t.SyntaxError(list, err.Error())
	}
	//
	var ctors []Constructor
	//
	for _, c := range list.Elements[3:] {
		cl := c.AsList()
		//
		if cl == nil || cl.Len() != 2 || cl.Get(0).AsSymbol() == nil {
			env.abortInductive(name)
			return t.SyntaxError(c, "expected (ctor type)")
		}
		//
		cty, serr := t.Translate(cl.Get(1))
		if serr != nil {
			env.abortInductive(name)
			return serr
		}
		//
		ctors = append(ctors, Constructor{cl.Get(0).AsSymbol().Value, cty})
	}
	//
	if err := env.endInductive(name, ctors); err != nil {
		return t.SyntaxError(list, err.Error())
	}
	//
	return nil
}

func (env *Environment) declareRelation(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 5 {
		return t.SyntaxError(list, "expected (relation name refl symm trans)")
	}
	//
	var names [4]string
	//
	for i := range names {
		sym := list.Get(i + 1).AsSymbol()
		if sym == nil {
			return t.SyntaxError(list.Get(i+1), "expected identifier")
		} else if sym.Value != "_" {
			names[i] = sym.Value
		}
	}
	//
	d, ok := env.Lookup(names[0])
	if !ok {
		return t.SyntaxError(list.Get(1), "unknown relation "+names[0])
	}
	//
	arity := telescopeLength(env.checker, d.Type)
	info := relation.Info{Name: names[0], Arity: arity, Lhs: arity - 2, Rhs: arity - 1,
		Refl: names[1], Symm: names[2], Trans: names[3]}
	//
	if err := env.AddRelation(info); err != nil {
		return t.SyntaxError(list, err.Error()+" (arity "+strconv.Itoa(arity)+")")
	}
	//
	return nil
}

// Count the binders of a (weak head normalised) telescope.
func telescopeLength(tc *TypeChecker, ty *expr.Expr) int {
	n := 0
	//
	for ty = tc.Whnf(ty); ty.Kind() == expr.PI; ty = tc.Whnf(ty.Body()) {
		n++
	}
	//
	return n
}
