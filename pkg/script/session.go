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
package script

import (
	"fmt"
	"io"
	"strings"

	"github.com/consensys/go-cclosure/pkg/cc"
	"github.com/consensys/go-cclosure/pkg/congr"
	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/kernel"
	"github.com/consensys/go-cclosure/pkg/syntax"
	"github.com/consensys/go-cclosure/pkg/util/collection/stack"
	"github.com/consensys/go-cclosure/pkg/util/source"
	"github.com/consensys/go-cclosure/pkg/util/source/sexp"
	log "github.com/sirupsen/logrus"
)

// Session executes problem script commands against a single environment and
// closure.  Declarations are global, whilst push and pop save and restore the
// closure state only.
type Session struct {
	env *kernel.Environment
	// Checker used by the closure, whose transparency determines which
	// definitions are unfolded when comparing terms.
	tc      *kernel.TypeChecker
	lemmas  *congr.Manager
	closure *cc.Closure
	// Saved closure states
	snapshots *stack.Stack[*cc.State]
	// Locals and metavariables declared with var or hyp
	locals map[string]*expr.Expr
	out    io.Writer
	// Number of failed expectations
	failures uint
}

// NewSession constructs a fresh session whose output is written to a given
// writer.
func NewSession(config cc.Config, hoFns []string, mode kernel.Transparency, out io.Writer) *Session {
	env := kernel.NewEnvironment()
	tc := kernel.NewTypeChecker(env, mode)
	lemmas := congr.NewManager(env)
	closure := cc.NewClosure(cc.NewState(hoFns, config), tc, env.Relations(), lemmas)
	//
	return &Session{env, tc, lemmas, closure, stack.NewStack[*cc.State](), make(map[string]*expr.Expr), out, 0}
}

// Environment returns the environment of this session.
func (s *Session) Environment() *kernel.Environment {
	return s.env
}

// Closure returns the closure of this session.
func (s *Session) Closure() *cc.Closure {
	return s.closure
}

// SetOutput redirects the output of later commands.
func (s *Session) SetOutput(out io.Writer) {
	s.out = out
}

// Failures returns the number of expectations which have failed so far.
func (s *Session) Failures() uint {
	return s.failures
}

// Run executes every command in a given source file, stopping at the first
// malformed command.
func (s *Session) Run(srcfile *source.File) *source.SyntaxError {
	commands, err := sexp.ParseAll(srcfile)
	if err != nil {
		return err
	}
	//
	for _, command := range commands {
		if err := s.Execute(srcfile, command); err != nil {
			return err
		}
	}
	//
	return nil
}

// Execute a single command.
func (s *Session) Execute(srcfile *source.File, command sexp.SExp) *source.SyntaxError {
	list := command.AsList()
	//
	if list == nil || list.Len() == 0 {
		return srcfile.SyntaxError(command.Span(), "expected command")
	}
	//
	t := syntax.NewTranslator(srcfile, s)
	//
	if ok, err := s.env.Declare(list, t); ok {
		return err
	}
	//
	switch list.Head() {
	case "subsingleton":
		return s.subsingleton(list, t)
	case "var":
		return s.declareVar(list, t)
	case "hyp":
		return s.hypothesis(list, t)
	case "internalize":
		return s.internalize(list, t)
	case "ho":
		return s.higherOrder(list, t)
	case "push":
		return s.push(list, t)
	case "pop":
		return s.pop(list, t)
	case "freeze":
		return s.freeze(list, t)
	case "expect-eqv", "expect-not-eqv":
		return s.expectEqv(srcfile, list, t)
	case "expect-proved":
		return s.expectProved(srcfile, list, t)
	case "expect-inconsistent", "expect-consistent":
		return s.expectConsistency(srcfile, list, t)
	case "prove":
		return s.prove(list, t)
	case "classes":
		return s.classes(list, t)
	case "parents":
		return s.parents(list, t)
	case "roots":
		return s.roots(list, t)
	}
	//
	return srcfile.SyntaxError(list.Span(), "unknown command "+list.Head())
}

// Resolve an identifier against the declared locals, then the environment.
func (s *Session) Resolve(name string) (*expr.Expr, bool) {
	if e, ok := s.locals[name]; ok {
		return e, true
	}
	//
	return s.env.Scope().Resolve(name)
}

// Infer the type of a term.
func (s *Session) Infer(e *expr.Expr) (*expr.Expr, error) {
	return s.env.Checker().Infer(e)
}

// ============================================================================
// Declarations
// ============================================================================

// (subsingleton T) declares every inhabitant of T equal.
func (s *Session) subsingleton(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 2 {
		return t.SyntaxError(list, "expected (subsingleton type)")
	}
	//
	ty, err := s.typeOf(list.Get(1), t)
	if err != nil {
		return err
	}
	//
	name := fmt.Sprintf("%s.subsingleton", list.Get(1).String(false))
	//
	if err := s.env.AddAxiom(name, expr.App(expr.Const(kernel.SUBSINGLETON), ty)); err != nil {
		return t.SyntaxError(list, err.Error())
	} else if err := s.env.AddSubsingletonInstance(name); err != nil {
		return t.SyntaxError(list, err.Error())
	}
	//
	return nil
}

// (var x type) declares a local, or a metavariable when the name begins with ?.
func (s *Session) declareVar(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	name, ty, err := s.binding(list, t)
	if err != nil {
		return err
	} else if strings.HasPrefix(name, "?") {
		s.locals[name] = expr.Meta(name, ty)
	} else {
		s.locals[name] = expr.Local(name, ty)
	}
	//
	return nil
}

// (hyp h prop) declares a hypothesis and asserts it.
func (s *Session) hypothesis(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	name, prop, err := s.binding(list, t)
	if err != nil {
		return err
	}
	//
	h := expr.Local(name, prop)
	s.locals[name] = h
	//
	if err := s.closure.Add(prop, h); err != nil {
		return t.SyntaxError(list.Get(2), err.Error())
	}
	//
	return nil
}

func (s *Session) binding(list *sexp.List, t *syntax.Translator) (string, *expr.Expr, *source.SyntaxError) {
	if list.Len() != 3 || list.Get(1).AsSymbol() == nil {
		return "", nil, t.SyntaxError(list, "expected ("+list.Head()+" name type)")
	}
	//
	name := list.Get(1).AsSymbol().Value
	//
	if _, ok := s.Resolve(name); ok {
		return "", nil, t.SyntaxError(list.Get(1), name+" already declared")
	}
	//
	ty, err := s.typeOf(list.Get(2), t)
	//
	return name, ty, err
}

// Translate a term which must be a type.
func (s *Session) typeOf(e sexp.SExp, t *syntax.Translator) (*expr.Expr, *source.SyntaxError) {
	ty, err := t.Translate(e)
	if err != nil {
		return nil, err
	} else if _, err := s.env.Checker().EnsureSort(ty); err != nil {
		return nil, t.SyntaxError(e, err.Error())
	}
	//
	return ty, nil
}

// ============================================================================
// Closure commands
// ============================================================================

func (s *Session) internalize(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	terms, err := s.terms(list, t, -1)
	if err != nil {
		return err
	}
	//
	for i, e := range terms {
		if err := s.closure.Internalize(e, true); err != nil {
			return t.SyntaxError(list.Get(i+1), err.Error())
		}
	}
	//
	return nil
}

// (ho f ...) uses the higher-order encoding for later applications of f.
func (s *Session) higherOrder(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	for _, arg := range list.Elements[1:] {
		if arg.AsSymbol() == nil {
			return t.SyntaxError(arg, "expected function name")
		}
		//
		s.closure.State().AddHOFunction(arg.AsSymbol().Value)
	}
	//
	return nil
}

func (s *Session) push(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 1 {
		return t.SyntaxError(list, "expected (push)")
	}
	//
	s.snapshots.Push(s.closure.State().Clone())
	//
	return nil
}

func (s *Session) pop(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 1 {
		return t.SyntaxError(list, "expected (pop)")
	} else if s.snapshots.IsEmpty() {
		return t.SyntaxError(list, "no state to restore")
	}
	//
	s.closure = cc.NewClosure(s.snapshots.Pop(), s.tc, s.env.Relations(), s.lemmas)
	//
	return nil
}

func (s *Session) freeze(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 1 {
		return t.SyntaxError(list, "expected (freeze)")
	}
	//
	s.closure.FreezePartitions()
	//
	return nil
}

// ============================================================================
// Expectations
// ============================================================================

func (s *Session) expectEqv(srcfile *source.File, list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	terms, err := s.terms(list, t, 2)
	if err != nil {
		return err
	}
	//
	var (
		lhs, rhs = terms[0], terms[1]
		expected = list.Head() == "expect-eqv"
	)
	//
	if s.closure.IsEqv(lhs, rhs) != expected {
		s.fail(srcfile, list, "")
	} else if expected && !s.closure.State().Frozen() {
		// Equalities must also come with a valid proof
		if proof := s.closure.Proof(lhs, rhs); proof.IsEmpty() {
			s.fail(srcfile, list, "no proof")
		} else if err := s.checkProof(proof.Unwrap(), s.equality(lhs, rhs)); err != nil {
			s.fail(srcfile, list, err.Error())
		}
	}
	//
	return nil
}

func (s *Session) expectProved(srcfile *source.File, list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	terms, err := s.terms(list, t, 1)
	if err != nil {
		return err
	}
	//
	if proof := s.closure.Prove(terms[0]); proof.IsEmpty() {
		s.fail(srcfile, list, "")
	} else if err := s.checkProof(proof.Unwrap(), terms[0]); err != nil {
		s.fail(srcfile, list, err.Error())
	}
	//
	return nil
}

func (s *Session) expectConsistency(srcfile *source.File, list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 1 {
		return t.SyntaxError(list, "expected ("+list.Head()+")")
	}
	//
	expected := list.Head() == "expect-inconsistent"
	//
	if s.closure.State().Inconsistent() != expected {
		s.fail(srcfile, list, "")
	} else if expected && !s.closure.State().Frozen() {
		if proof := s.closure.InconsistencyProof(); proof.IsEmpty() {
			s.fail(srcfile, list, "no proof")
		} else if err := s.checkProof(proof.Unwrap(), expr.False()); err != nil {
			s.fail(srcfile, list, err.Error())
		}
	}
	//
	return nil
}

// Build the equality between two terms, which is heterogeneous when their types
// differ.
func (s *Session) equality(lhs *expr.Expr, rhs *expr.Expr) *expr.Expr {
	tc := s.env.Checker()
	tyL, _ := tc.Infer(lhs)
	tyR, _ := tc.Infer(rhs)
	//
	if tc.IsDefEq(tyL, tyR) {
		return expr.Eq(tyL, lhs, rhs)
	}
	//
	return expr.HEq(tyL, lhs, tyR, rhs)
}

func (s *Session) checkProof(proof *expr.Expr, prop *expr.Expr) error {
	if err := s.env.Checker().Check(proof, prop); err != nil {
		return fmt.Errorf("invalid proof %s: %w", proof, err)
	}
	//
	return nil
}

func (s *Session) fail(srcfile *source.File, list *sexp.List, msg string) {
	span := list.Span()
	line := srcfile.FindFirstEnclosingLine(span)
	//
	s.failures++
	//
	if msg == "" {
		fmt.Fprintf(s.out, "%s:%d: failed %s\n", srcfile.Filename(), line.Number(), list.String(false))
	} else {
		fmt.Fprintf(s.out, "%s:%d: failed %s: %s\n", srcfile.Filename(), line.Number(), list.String(false), msg)
	}
	//
	log.Debugf("expectation failed: %s", list.String(false))
}

// ============================================================================
// Queries
// ============================================================================

func (s *Session) prove(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	terms, err := s.terms(list, t, 1)
	if err != nil {
		return err
	}
	//
	if proof := s.closure.Prove(terms[0]); proof.HasValue() {
		fmt.Fprintln(s.out, proof.Unwrap().String())
	} else {
		fmt.Fprintln(s.out, "no proof")
	}
	//
	return nil
}

func (s *Session) classes(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 1 {
		return t.SyntaxError(list, "expected (classes)")
	}
	//
	fmt.Fprint(s.out, s.closure.State().FormatClasses(true))
	//
	return nil
}

func (s *Session) parents(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	terms, err := s.terms(list, t, 1)
	if err != nil {
		return err
	}
	//
	fmt.Fprintln(s.out, s.closure.State().FormatParents(terms[0]))
	//
	return nil
}

func (s *Session) roots(list *sexp.List, t *syntax.Translator) *source.SyntaxError {
	if list.Len() != 1 {
		return t.SyntaxError(list, "expected (roots)")
	}
	//
	for _, root := range s.closure.State().Roots(false) {
		fmt.Fprintln(s.out, root.String())
	}
	//
	return nil
}

// Translate the arguments of a command, of which there should be exactly n
// (or at least one when n is negative).
func (s *Session) terms(list *sexp.List, t *syntax.Translator, n int) ([]*expr.Expr, *source.SyntaxError) {
	if (n >= 0 && list.Len() != n+1) || (n < 0 && list.Len() < 2) {
		return nil, t.SyntaxError(list, "incorrect number of arguments")
	}
	//
	terms := make([]*expr.Expr, list.Len()-1)
	//
	for i, arg := range list.Elements[1:] {
		e, err := t.Translate(arg)
		if err != nil {
			return nil, err
		} else if _, err := s.env.Checker().Infer(e); err != nil {
			return nil, t.SyntaxError(arg, err.Error())
		}
		//
		terms[i] = e
	}
	//
	return terms, nil
}
