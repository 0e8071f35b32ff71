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
	"github.com/consensys/go-cclosure/pkg/syntax"
	"github.com/consensys/go-cclosure/pkg/util/source"
	"github.com/consensys/go-cclosure/pkg/util/source/sexp"
)

// Names of prelude constants used outside the logical vocabulary.
const (
	SUBSINGLETON           = "subsingleton"
	SUBSINGLETON_ELIM      = "subsingleton.elim"
	SUBSINGLETON_HELIM     = "subsingleton.helim"
	PROP_SUBSINGLETON      = "prop_subsingleton"
	NO_CONFUSION           = "no_confusion"
	FALSE_ELIM             = "false.elim"
	EQ_REFL                = "eq.refl"
	EQ_SYMM                = "eq.symm"
	EQ_TRANS               = "eq.trans"
	EQ_SUBST               = "eq.subst"
	HEQ_REFL               = "heq.refl"
	HEQ_SYMM               = "heq.symm"
	HEQ_TRANS              = "heq.trans"
	HEQ_OF_EQ              = "heq_of_eq"
	EQ_OF_HEQ              = "eq_of_heq"
	CONGR                  = "congr"
	CONGR_ARG              = "congr_arg"
	CONGR_FUN              = "congr_fun"
	IFF_INTRO              = "iff.intro"
	IFF_REFL               = "iff.refl"
	IFF_SYMM               = "iff.symm"
	IFF_TRANS              = "iff.trans"
	IFF_OF_EQ              = "iff_of_eq"
	EQ_TRUE_INTRO          = "eq_true_intro"
	EQ_FALSE_INTRO         = "eq_false_intro"
	OF_EQ_TRUE             = "of_eq_true"
	NOT_OF_EQ_FALSE        = "not_of_eq_false"
	FALSE_OF_TRUE_EQ_FALSE = "false_of_true_eq_false"
	TRUE_EQ_FALSE_OF_FALSE = "true_eq_false_of_false"
	CAST_HEQ               = "cast_heq"
)

// The prelude is written in the surface syntax and loaded into every
// environment created by NewEnvironment.
const prelude = `
(inductive true Prop (true.intro true))
(inductive false Prop)
(axiom false.elim (pi (C Prop) (-> false C)))
(axiom field Type)

(axiom eq (pi (A Type) (-> A A Prop)))
(axiom eq.refl (pi (A Type) (a A) (= a a)))
(axiom eq.symm (pi (A Type) (a A) (b A) (-> (= a b) (= b a))))
(axiom eq.trans (pi (A Type) (a A) (b A) (c A) (-> (= a b) (= b c) (= a c))))
(axiom eq.subst (pi (A Type) (P (-> A Prop)) (a A) (b A) (-> (= a b) (P a) (P b))))

(reducible not (-> Prop Prop) (fun (a Prop) (-> a false)))
(reducible ne (pi (A Type) (-> A A Prop)) (fun (A Type) (a A) (b A) (not (= a b))))
(axiom and (-> Prop Prop Prop))
(axiom or (-> Prop Prop Prop))

(axiom heq (pi (A Type) (a A) (B Type) (b B) Prop))
(axiom heq.refl (pi (A Type) (a A) (== a a)))
(axiom heq.symm (pi (A Type) (a A) (B Type) (b B) (-> (== a b) (== b a))))
(axiom heq.trans (pi (A Type) (a A) (B Type) (b B) (C Type) (c C) (-> (== a b) (== b c) (== a c))))
(axiom heq_of_eq (pi (A Type) (a A) (b A) (-> (= a b) (== a b))))
(axiom eq_of_heq (pi (A Type) (a A) (b A) (-> (== a b) (= a b))))

(axiom congr (pi (A Type) (B Type) (f (-> A B)) (g (-> A B)) (a A) (b A) (-> (= f g) (= a b) (= (f a) (g b)))))
(axiom congr_arg (pi (A Type) (B Type) (a A) (b A) (f (-> A B)) (-> (= a b) (= (f a) (f b)))))
(axiom congr_fun (pi (A Type) (B Type) (f (-> A B)) (g (-> A B)) (-> (= f g) (pi (a A) (= (f a) (g a))))))

(axiom iff (-> Prop Prop Prop))
(axiom iff.intro (pi (a Prop) (b Prop) (-> (-> a b) (-> b a) (<-> a b))))
(axiom iff.refl (pi (a Prop) (<-> a a)))
(axiom iff.symm (pi (a Prop) (b Prop) (-> (<-> a b) (<-> b a))))
(axiom iff.trans (pi (a Prop) (b Prop) (c Prop) (-> (<-> a b) (<-> b c) (<-> a c))))
(axiom propext (pi (a Prop) (b Prop) (-> (<-> a b) (= a b))))
(axiom iff_of_eq (pi (a Prop) (b Prop) (-> (= a b) (<-> a b))))

(axiom eq_true_intro (pi (p Prop) (-> p (= p true))))
(axiom eq_false_intro (pi (p Prop) (-> (not p) (= p false))))
(axiom of_eq_true (pi (p Prop) (-> (= p true) p)))
(axiom not_of_eq_false (pi (p Prop) (-> (= p false) (not p))))
(axiom false_of_true_eq_false (-> (= true false) false))
(axiom true_eq_false_of_false (-> false (= true false)))

(axiom cast (pi (A Type) (B Type) (-> (= A B) A B)))
(axiom cast_heq (pi (A Type) (B Type) (h (= A B)) (a A) (== (cast A B h a) a)))

(axiom subsingleton (-> Type Prop))
(axiom subsingleton.elim (pi (A Type) (h (subsingleton A)) (a A) (b A) (= a b)))
(axiom subsingleton.helim (pi (A Type) (B Type) (h (subsingleton A)) (H (= A B)) (a A) (b B) (== a b)))
(axiom prop_subsingleton (pi (p Prop) (subsingleton p)))
(axiom no_confusion (pi (A Type) (a A) (b A) (-> (= a b) false)))
`

// NewEnvironment constructs an environment holding the prelude, with eq, heq
// and iff registered as relations.
func NewEnvironment() *Environment {
	env := NewEmptyEnvironment()
	//
	if err := env.Load(source.NewSourceFile("prelude", []byte(prelude))); err != nil {
		panic(err.Error())
	}
	//
	relations := []relation.Info{
		{Name: expr.EQ, Arity: 3, Lhs: 1, Rhs: 2, Refl: EQ_REFL, Symm: EQ_SYMM, Trans: EQ_TRANS},
		{Name: expr.HEQ, Arity: 4, Lhs: 1, Rhs: 3, Refl: HEQ_REFL, Trans: HEQ_TRANS},
		{Name: expr.IFF, Arity: 2, Lhs: 0, Rhs: 1, Refl: IFF_REFL, Symm: IFF_SYMM, Trans: IFF_TRANS},
	}
	//
	for _, info := range relations {
		if err := env.AddRelation(info); err != nil {
			panic(fmt.Sprintf("prelude: %s", err))
		}
	}
	//
	return env
}

// Load every declaration of a source file into this environment, stopping at
// the first error.
func (env *Environment) Load(srcfile *source.File) *source.SyntaxError {
	terms, err := sexp.ParseAll(srcfile)
	if err != nil {
		return err
	}
	//
	translator := syntax.NewTranslator(srcfile, env.Scope())
	//
	for _, term := range terms {
		list := term.AsList()
		//
		if list == nil || list.Len() == 0 {
			return srcfile.SyntaxError(term.Span(), "expected declaration")
		} else if ok, err := env.Declare(list, translator); err != nil {
			return err
		} else if !ok {
			return srcfile.SyntaxError(term.Span(), "unknown declaration "+list.Head())
		}
	}
	//
	return nil
}

// Scope returns a scope resolving identifiers against the constants of this
// environment.
func (env *Environment) Scope() syntax.Scope {
	return envScope{env}
}

type envScope struct {
	env *Environment
}

func (p envScope) Resolve(name string) (*expr.Expr, bool) {
	if _, ok := p.env.decls[name]; ok {
		return expr.Const(name), true
	}
	//
	return nil, false
}

func (p envScope) Infer(e *expr.Expr) (*expr.Expr, error) {
	return p.env.checker.Infer(e)
}
