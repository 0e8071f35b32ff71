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
package syntax

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/util/source"
	"github.com/consensys/go-cclosure/pkg/util/source/sexp"
)

// Scope resolves the free identifiers of a term, and infers types when
// elaborating relation notation such as (= a b).
type Scope interface {
	// Resolve a free identifier to a constant, local or metavariable.
	Resolve(name string) (*expr.Expr, bool)
	// Infer the type of a term.
	Infer(e *expr.Expr) (*expr.Expr, error)
}

// Generated binder names are unique across all translators.
var fresh atomic.Uint64

// FreshLocal constructs a local of the given type whose name is unique, but
// which displays as base.
func FreshLocal(base string, ty *expr.Expr) *expr.Expr {
	return expr.Local(fmt.Sprintf("%s@%d", base, fresh.Add(1)), ty)
}

// Translator converts S-expressions into terms.  Binders are translated by
// introducing fresh locals, so that types of bound variables are available
// when elaborating notation beneath them.
type Translator struct {
	srcfile *source.File
	scope   Scope
	// Locals introduced by enclosing binders (innermost last).
	bound []*expr.Expr
}

// NewTranslator constructs a translator for terms read from a given file.
func NewTranslator(srcfile *source.File, scope Scope) *Translator {
	return &Translator{srcfile, scope, nil}
}

// Translate a single S-expression into a term.
func (p *Translator) Translate(s sexp.SExp) (*expr.Expr, *source.SyntaxError) {
	if sym := s.AsSymbol(); sym != nil {
		return p.translateSymbol(sym)
	}
	//
	list := s.AsList()
	//
	if list.Len() == 0 {
		return nil, p.SyntaxError(s, "empty term")
	}
	//
	switch list.Head() {
	case "fun":
		return p.translateBinding(list, expr.LAMBDA)
	case "pi":
		return p.translateBinding(list, expr.PI)
	case "->":
		return p.translateArrow(list)
	case "=", "!=", "==", "<->":
		return p.translateRelation(list)
	}
	//
	terms, err := p.translateAll(list.Elements)
	if err != nil {
		return nil, err
	}
	//
	return expr.Apps(terms[0], terms[1:]...), nil
}

// translateAll translates a sequence of S-expressions.
func (p *Translator) translateAll(elements []sexp.SExp) ([]*expr.Expr, *source.SyntaxError) {
	terms := make([]*expr.Expr, len(elements))
	//
	for i, element := range elements {
		term, err := p.Translate(element)
		if err != nil {
			return nil, err
		}
		//
		terms[i] = term
	}
	//
	return terms, nil
}

func (p *Translator) translateSymbol(sym *sexp.Symbol) (*expr.Expr, *source.SyntaxError) {
	name := sym.Value
	//
	switch {
	case name == "Prop":
		return expr.Prop(), nil
	case name == "Type":
		return expr.Type(), nil
	case isNumeral(name):
		var v fr.Element
		//
		if _, err := v.SetString(name); err != nil {
			return nil, p.SyntaxError(sym, err.Error())
		}
		//
		return expr.Lit(v), nil
	}
	// Innermost binder wins
	for i := len(p.bound) - 1; i >= 0; i-- {
		if expr.BaseName(p.bound[i].Name()) == name {
			return p.bound[i], nil
		}
	}
	//
	if e, ok := p.scope.Resolve(name); ok {
		return e, nil
	}
	//
	return nil, p.SyntaxError(sym, fmt.Sprintf("unknown identifier %s", name))
}

// Translate (fun (x A) ... body) or (pi (x A) ... body).  A binder may carry a
// trailing "implicit" or "inst" marker.
func (p *Translator) translateBinding(list *sexp.List, kind expr.Kind) (*expr.Expr, *source.SyntaxError) {
	var (
		n      = list.Len()
		locals []*expr.Expr
		infos  []expr.BinderInfo
		depth  = len(p.bound)
	)
	//
	if n < 3 {
		return nil, p.SyntaxError(list, "binder requires at least one variable and a body")
	}
	// Restore scope however we exit
	defer func() { p.bound = p.bound[:depth] }()
	//
	for _, b := range list.Elements[1 : n-1] {
		binder := b.AsList()
		//
		if binder == nil || binder.Len() < 2 || binder.Len() > 3 || binder.Get(0).AsSymbol() == nil {
			return nil, p.SyntaxError(b, "malformed binder")
		}
		//
		info, ok := binderInfo(binder)
		if !ok {
			return nil, p.SyntaxError(binder.Get(2), "unknown binder annotation")
		}
		//
		ty, err := p.Translate(binder.Get(1))
		if err != nil {
			return nil, err
		}
		//
		local := FreshLocal(binder.Get(0).AsSymbol().Value, ty)
		locals = append(locals, local)
		infos = append(infos, info)
		p.bound = append(p.bound, local)
	}
	//
	body, err := p.Translate(list.Get(n - 1))
	if err != nil {
		return nil, err
	}
	//
	if kind == expr.PI {
		return expr.PiOverInfo(locals, infos, body), nil
	}
	//
	for i := len(locals) - 1; i >= 0; i-- {
		l := locals[i]
		body = expr.Lambda(expr.BaseName(l.Name()), infos[i], l.Type(), expr.Abstract(body, l))
	}
	//
	return body, nil
}

func binderInfo(binder *sexp.List) (expr.BinderInfo, bool) {
	if binder.Len() == 2 {
		return expr.DEFAULT, true
	} else if s := binder.Get(2).AsSymbol(); s != nil {
		switch s.Value {
		case "implicit":
			return expr.IMPLICIT, true
		case "inst":
			return expr.INST_IMPLICIT, true
		}
	}
	//
	return expr.DEFAULT, false
}

// Translate (-> A B ... C), which associates to the right.
func (p *Translator) translateArrow(list *sexp.List) (*expr.Expr, *source.SyntaxError) {
	if list.Len() < 3 {
		return nil, p.SyntaxError(list, "arrow requires at least two types")
	}
	//
	terms, err := p.translateAll(list.Elements[1:])
	if err != nil {
		return nil, err
	}
	//
	result := terms[len(terms)-1]
	//
	for i := len(terms) - 2; i >= 0; i-- {
		result = expr.Arrow(terms[i], result)
	}
	//
	return result, nil
}

func (p *Translator) translateRelation(list *sexp.List) (*expr.Expr, *source.SyntaxError) {
	if list.Len() != 3 {
		return nil, p.SyntaxError(list, fmt.Sprintf("%s requires exactly two arguments", list.Head()))
	}
	//
	terms, err := p.translateAll(list.Elements[1:])
	if err != nil {
		return nil, err
	}
	//
	lhs, rhs := terms[0], terms[1]
	//
	if list.Head() == "<->" {
		return expr.Iff(lhs, rhs), nil
	}
	//
	lhsTy, ierr := p.scope.Infer(lhs)
	if ierr != nil {
		return nil, p.SyntaxError(list.Get(1), ierr.Error())
	}
	//
	switch list.Head() {
	case "=":
		return expr.Eq(lhsTy, lhs, rhs), nil
	case "!=":
		return expr.Ne(lhsTy, lhs, rhs), nil
	}
	//
	rhsTy, ierr := p.scope.Infer(rhs)
	if ierr != nil {
		return nil, p.SyntaxError(list.Get(2), ierr.Error())
	}
	//
	return expr.HEq(lhsTy, lhs, rhsTy, rhs), nil
}

// SyntaxError constructs an error covering the given S-expression.
func (p *Translator) SyntaxError(s sexp.SExp, msg string) *source.SyntaxError {
	return p.srcfile.SyntaxError(s.Span(), msg)
}

func isNumeral(name string) bool {
	return name != "" && strings.Trim(name, "0123456789") == ""
}
