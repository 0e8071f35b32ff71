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
package cc

import (
	"sort"
	"testing"

	"github.com/consensys/go-cclosure/pkg/congr"
	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/kernel"
	"github.com/consensys/go-cclosure/pkg/syntax"
	"github.com/consensys/go-cclosure/pkg/util/source"
	"github.com/consensys/go-cclosure/pkg/util/source/sexp"
	"github.com/google/go-cmp/cmp"
)

const decls = `
(axiom a field)
(axiom b field)
(axiom c field)
(axiom d field)
(axiom f (-> field field))
(axiom g (-> field field field))
(axiom p Prop)
(axiom q Prop)
(axiom hab (= a b))
(axiom hbc (= b c))
(axiom hcd (= c d))
(axiom hfa (= (f a) d))
(axiom hp p)
(axiom hp2 p)
(axiom hnq (not q))
(axiom hnac (not (= a c)))
(axiom hpq (and p q))
(axiom htf (= true false))
(axiom k field)
(axiom hdk (= d k))
(axiom ha1 (= a 1))
(axiom ha2 (= a 2))
(inductive nat Type (zero nat) (succ (-> nat nat)))
(axiom n nat)
(axiom m nat)
(axiom hsucc (= (succ n) (succ m)))
(axiom hzero (= (succ n) zero))
(axiom T Type)
(axiom U Type)
(axiom x T)
(axiom hTU (= T U))
(axiom P (pi (A Type) (-> A Prop)))
(axiom semiring (-> Type Type))
(axiom add (pi (A Type) (s (semiring A) inst) (-> A A A)))
(axiom s1 (semiring field))
(def s2 (semiring field) s1)
`

// ============================================================================
// Basic merging
// ============================================================================

func Test_Closure_01(t *testing.T) {
	env, cc := checkClosure(t)
	// Ties keep the root of the right-hand side
	checkAdd(t, env, cc, "hab")
	checkRoot(t, env, cc, "a", "b")
	checkEqv(t, env, cc, "a", "b")
	checkNotEqv(t, env, cc, "a", "c")
	checkEqProof(t, env, cc, "a", "b")
	checkEqProof(t, env, cc, "b", "a")
	checkInvariant(t, cc)
}

func Test_Closure_02(t *testing.T) {
	env, cc := checkClosure(t)
	// Transitivity
	checkAdd(t, env, cc, "hab")
	checkAdd(t, env, cc, "hcd")
	checkAdd(t, env, cc, "hbc")
	checkClass(t, env, cc, "a", "b", "c", "d")
	checkEqProof(t, env, cc, "a", "d")
	checkEqProof(t, env, cc, "d", "a")
	checkEqProof(t, env, cc, "b", "c")
	checkInvariant(t, cc)
}

func Test_Closure_03(t *testing.T) {
	env, cc := checkClosure(t)
	// Reflexivity
	checkInternalize(t, env, cc, "a")
	checkEqv(t, env, cc, "a", "a")
	checkEqProof(t, env, cc, "a", "a")
	// Unregistered terms are only equal to themselves
	checkEqv(t, env, cc, "(f c)", "(f c)")
	checkNotEqv(t, env, cc, "(f c)", "a")
}

func Test_Closure_04(t *testing.T) {
	env, cc := checkClosure(t)
	checkAdd(t, env, cc, "hab")
	gmt := cc.State().GlobalModTime()
	// Reasserting a known equality changes nothing
	checkAdd(t, env, cc, "hab")
	checkAdd(t, env, cc, "hab")
	//
	if cc.State().GlobalModTime() != gmt {
		t.Errorf("modification time changed from %d to %d", gmt, cc.State().GlobalModTime())
	}
	//
	checkInvariant(t, cc)
}

func Test_Closure_05(t *testing.T) {
	env, cc := checkClosure(t)
	// Smaller classes are merged into larger ones
	checkAdd(t, env, cc, "hab")
	checkAdd(t, env, cc, "hcd")
	checkAdd(t, env, cc, "hbc")
	checkAdd(t, env, cc, "hfa")
	checkRoot(t, env, cc, "(f a)", "d")
	checkSize(t, env, cc, "d", 5)
	checkAdd(t, env, cc, "hdk")
	checkRoot(t, env, cc, "k", "d")
	checkSize(t, env, cc, "k", 6)
	checkEqProof(t, env, cc, "k", "(f a)")
	checkInvariant(t, cc)
}

func Test_Closure_06(t *testing.T) {
	env, cc := checkClosure(t)
	// Disequalities hold in either orientation
	checkAdd(t, env, cc, "hnac")
	checkAdd(t, env, cc, "hab")
	checkDistinct(t, env, cc, "a", "c", true)
	checkDistinct(t, env, cc, "c", "a", true)
	checkDistinct(t, env, cc, "a", "b", false)
	checkDistinct(t, env, cc, "b", "d", false)
	checkInvariant(t, cc)
}

func Test_Closure_07(t *testing.T) {
	env, cc := checkClosure(t)
	checkInternalize(t, env, cc, "a")
	checkInternalize(t, env, cc, "c")
	checkSingleton(t, env, cc, "a", true)
	checkAdd(t, env, cc, "hab")
	checkSingleton(t, env, cc, "a", false)
	checkSingleton(t, env, cc, "b", false)
	checkSingleton(t, env, cc, "c", true)
	checkInvariant(t, cc)
}

func Test_Closure_08(t *testing.T) {
	env, cc := checkClosure(t)
	fa, fd := checkTerm(t, env, "(f a)"), checkTerm(t, env, "(f d)")
	//
	checkInternalize(t, env, cc, "(f a)")
	checkInternalize(t, env, cc, "(f d)")
	//
	if cc.State().ModTime(fa) != 0 || cc.State().ModTime(fd) != 0 {
		t.Errorf("fresh terms should have modification time 0")
	}
	// Only ancestors of merged classes are touched
	checkAdd(t, env, cc, "hab")
	//
	if gmt := cc.State().GlobalModTime(); gmt == 0 {
		t.Errorf("global modification time unchanged")
	} else if mt := cc.State().ModTime(fa); mt != gmt {
		t.Errorf("modification time of (f a) is %d, expected %d", mt, gmt)
	} else if mt := cc.State().ModTime(fd); mt != 0 {
		t.Errorf("modification time of (f d) is %d, expected 0", mt)
	}
	//
	checkInvariant(t, cc)
}

// ============================================================================
// Congruence
// ============================================================================

func Test_Congruence_01(t *testing.T) {
	env, cc := checkClosure(t)
	checkInternalize(t, env, cc, "(f a)")
	checkInternalize(t, env, cc, "(f b)")
	checkNotEqv(t, env, cc, "(f a)", "(f b)")
	checkAdd(t, env, cc, "hab")
	checkEqv(t, env, cc, "(f a)", "(f b)")
	checkEqProof(t, env, cc, "(f a)", "(f b)")
	checkEqProof(t, env, cc, "(f b)", "(f a)")
	checkInvariant(t, cc)
}

func Test_Congruence_02(t *testing.T) {
	env, cc := checkClosure(t)
	// Congruences are discovered regardless of assertion order
	checkAdd(t, env, cc, "hab")
	checkAdd(t, env, cc, "hbc")
	checkInternalize(t, env, cc, "(g a (f c))")
	checkInternalize(t, env, cc, "(g c (f a))")
	checkEqv(t, env, cc, "(g a (f c))", "(g c (f a))")
	checkEqProof(t, env, cc, "(g a (f c))", "(g c (f a))")
	checkInvariant(t, cc)
}

func Test_Congruence_03(t *testing.T) {
	env, cc := checkClosure(t)
	// Nested congruences
	checkInternalize(t, env, cc, "(f (f a))")
	checkInternalize(t, env, cc, "(f (f d))")
	checkAdd(t, env, cc, "hfa")
	checkAdd(t, env, cc, "hab")
	checkAdd(t, env, cc, "hbc")
	checkAdd(t, env, cc, "hcd")
	checkEqv(t, env, cc, "(f (f a))", "(f (f d))")
	checkEqv(t, env, cc, "(f a)", "a")
	checkEqProof(t, env, cc, "(f (f a))", "(f (f d))")
	checkEqProof(t, env, cc, "(f (f a))", "a")
	checkInvariant(t, cc)
}

func Test_Congruence_04(t *testing.T) {
	env, cc := checkClosure(t)
	// Definitionally equal instances are merged
	checkInternalize(t, env, cc, "(add field s1 a b)")
	checkInternalize(t, env, cc, "(add field s2 a b)")
	checkEqv(t, env, cc, "(add field s1 a b)", "(add field s2 a b)")
	checkEqProof(t, env, cc, "(add field s1 a b)", "(add field s2 a b)")
	checkInvariant(t, cc)
}

func Test_Congruence_05(t *testing.T) {
	env, cc := checkClosure(t, "g")
	// Partial applications use the higher-order encoding
	checkInternalize(t, env, cc, "(g a c)")
	checkInternalize(t, env, cc, "(g b c)")
	checkAdd(t, env, cc, "hab")
	checkEqv(t, env, cc, "(g a)", "(g b)")
	checkEqv(t, env, cc, "(g a c)", "(g b c)")
	checkEqProof(t, env, cc, "(g a c)", "(g b c)")
	checkInvariant(t, cc)
}

func Test_Congruence_07(t *testing.T) {
	env, cc := checkClosure(t)
	fa, fb := checkTerm(t, env, "(f a)"), checkTerm(t, env, "(f b)")
	//
	checkInternalize(t, env, cc, "(f a)")
	checkInternalize(t, env, cc, "(f b)")
	//
	if !cc.State().IsCongruenceRoot(fa) || !cc.State().IsCongruenceRoot(fb) {
		t.Errorf("distinct applications should be congruence roots")
	}
	// Congruent applications share one representative
	checkAdd(t, env, cc, "hab")
	//
	if cc.State().IsCongruenceRoot(fa) == cc.State().IsCongruenceRoot(fb) {
		t.Errorf("exactly one of (f a) and (f b) should be a congruence root")
	}
	//
	checkInvariant(t, cc)
}

func Test_Congruence_06(t *testing.T) {
	env, cc := checkClosure(t)
	// Partial applications are not registered in the first-order encoding
	checkInternalize(t, env, cc, "(g a c)")
	//
	if cc.State().IsRegistered(checkTerm(t, env, "(g a)")) {
		t.Errorf("partial application (g a) registered")
	}
}

// ============================================================================
// Symmetric relations
// ============================================================================

func Test_Symmetric_01(t *testing.T) {
	env, cc := checkClosure(t)
	checkInternalize(t, env, cc, "(= a b)")
	checkInternalize(t, env, cc, "(= b a)")
	checkEqv(t, env, cc, "(= a b)", "(= b a)")
	checkEqProof(t, env, cc, "(= a b)", "(= b a)")
	checkEqProof(t, env, cc, "(= b a)", "(= a b)")
	checkInvariant(t, cc)
}

func Test_Symmetric_02(t *testing.T) {
	env, cc := checkClosure(t)
	checkInternalize(t, env, cc, "(= (f a) c)")
	checkInternalize(t, env, cc, "(= d (f b))")
	checkAdd(t, env, cc, "hab")
	checkAdd(t, env, cc, "hcd")
	checkEqv(t, env, cc, "(= (f a) c)", "(= d (f b))")
	checkEqProof(t, env, cc, "(= (f a) c)", "(= d (f b))")
	checkInvariant(t, cc)
}

func Test_Symmetric_03(t *testing.T) {
	env, cc := checkClosure(t)
	// Equalities between equal terms are true
	checkInternalize(t, env, cc, "(= a b)")
	checkAdd(t, env, cc, "hab")
	checkProved(t, env, cc, "(= a b)")
	checkEqProof(t, env, cc, "(= a b)", "true")
	checkInternalize(t, env, cc, "(<-> p p)")
	checkProved(t, env, cc, "(<-> p p)")
	checkEqProof(t, env, cc, "(<-> p p)", "true")
	checkInvariant(t, cc)
}

// ============================================================================
// Propositions
// ============================================================================

func Test_Prop_01(t *testing.T) {
	env, cc := checkClosure(t)
	checkAdd(t, env, cc, "hp")
	checkProved(t, env, cc, "p")
	checkProve(t, env, cc, "p")
	checkAdd(t, env, cc, "hnq")
	checkEqv(t, env, cc, "q", "false")
	checkProve(t, env, cc, "(not q)")
	checkInvariant(t, cc)
}

func Test_Prop_02(t *testing.T) {
	env, cc := checkClosure(t)
	// Goals discharged from equalities
	checkAdd(t, env, cc, "hab")
	checkAdd(t, env, cc, "hbc")
	checkProve(t, env, cc, "(= a c)")
	checkProve(t, env, cc, "(== c a)")
	//
	if cc.Prove(checkTerm(t, env, "(= a d)")).HasValue() {
		t.Errorf("unexpected proof of (= a d)")
	}
}

func Test_Prop_03(t *testing.T) {
	var (
		env, cc = checkClosure(t)
		handler = &recorder{}
	)
	//
	cc.SetPropagationHandler(handler)
	checkInternalize(t, env, cc, "q")
	checkAdd(t, env, cc, "hp")
	//
	if diff := cmp.Diff([]string{"p"}, handler.props); diff != "" {
		t.Errorf("unexpected propagation (-expected +actual):\n%s", diff)
	}
}

func Test_Prop_05(t *testing.T) {
	env, cc := checkClosure(t)
	// Goals over terms not yet internalized
	checkAdd(t, env, cc, "hab")
	checkProve(t, env, cc, "(= (f a) (f b))")
	checkProve(t, env, cc, "(= (g a c) (g b c))")
	checkInvariant(t, cc)
}

func Test_Prop_06(t *testing.T) {
	var (
		env, cc = checkClosure(t)
		handler = &recorder{}
	)
	// Connectives are propagated like any other proposition
	cc.SetPropagationHandler(handler)
	checkAdd(t, env, cc, "hpq")
	checkProved(t, env, cc, "(and p q)")
	//
	if diff := cmp.Diff([]string{"(and p q)"}, handler.props); diff != "" {
		t.Errorf("unexpected propagation (-expected +actual):\n%s", diff)
	}
}

func Test_Prop_04(t *testing.T) {
	env, cc := checkClosure(t)
	//
	if err := cc.Add(checkTerm(t, env, "a"), checkTerm(t, env, "a")); err == nil {
		t.Errorf("asserting a non-proposition should fail")
	}
}

// ============================================================================
// Inconsistency
// ============================================================================

func Test_Inconsistent_01(t *testing.T) {
	env, cc := checkClosure(t)
	// Distinct literals
	checkAdd(t, env, cc, "ha1")
	checkConsistent(t, cc)
	checkAdd(t, env, cc, "ha2")
	checkInconsistent(t, env, cc)
	// Further assertions are ignored
	checkAdd(t, env, cc, "hab")
	checkNotEqv(t, env, cc, "a", "b")
}

func Test_Inconsistent_02(t *testing.T) {
	env, cc := checkClosure(t)
	// Distinct constructors
	checkAdd(t, env, cc, "hzero")
	checkInconsistent(t, env, cc)
	checkProve(t, env, cc, "(= a b)")
}

func Test_Inconsistent_03(t *testing.T) {
	env, cc := checkClosure(t)
	checkAdd(t, env, cc, "hp")
	checkConsistent(t, cc)
	checkInternalize(t, env, cc, "(not p)")
	checkConsistent(t, cc)
	//
	if err := cc.Add(expr.Not(checkTerm(t, env, "p")), expr.Const("hnq")); err != nil {
		t.Fatal(err)
	}
	//
	if !cc.State().Inconsistent() {
		t.Errorf("p and (not p) should be inconsistent")
	}
}

func Test_Inconsistent_04(t *testing.T) {
	env, cc := checkClosure(t)
	checkConsistent(t, cc)
	checkAdd(t, env, cc, "htf")
	checkInconsistent(t, env, cc)
	checkProve(t, env, cc, "q")
}

func Test_Injection_01(t *testing.T) {
	env, cc := checkClosure(t)
	checkAdd(t, env, cc, "hsucc")
	checkEqv(t, env, cc, "n", "m")
	checkEqProof(t, env, cc, "n", "m")
	checkConsistent(t, cc)
	checkInvariant(t, cc)
}

// ============================================================================
// Heterogeneous equality
// ============================================================================

func Test_HEq_01(t *testing.T) {
	env, cc := checkClosure(t)
	checkInternalize(t, env, cc, "(cast T U hTU x)")
	checkEqv(t, env, cc, "(cast T U hTU x)", "x")
	checkHEqProof(t, env, cc, "(cast T U hTU x)", "x")
	checkHEqProof(t, env, cc, "x", "(cast T U hTU x)")
	//
	if !cc.State().InHeterogeneousClass(checkTerm(t, env, "x")) {
		t.Errorf("class of x should be heterogeneous")
	}
	// No homogeneous proof between terms of distinct types
	if cc.EqProof(checkTerm(t, env, "(cast T U hTU x)"), checkTerm(t, env, "x")).HasValue() {
		t.Errorf("unexpected homogeneous proof")
	}
	//
	checkInvariant(t, cc)
}

func Test_HEq_02(t *testing.T) {
	env, cc := checkClosure(t)
	checkInternalize(t, env, cc, "(P U (cast T U hTU x))")
	checkInternalize(t, env, cc, "(P T x)")
	checkAdd(t, env, cc, "hTU")
	checkEqv(t, env, cc, "(P U (cast T U hTU x))", "(P T x)")
	checkEqProof(t, env, cc, "(P U (cast T U hTU x))", "(P T x)")
	checkInvariant(t, cc)
}

func Test_Subsingleton_01(t *testing.T) {
	env, cc := checkClosure(t)
	// Proofs of the same proposition are equal
	checkInternalize(t, env, cc, "hp")
	checkInternalize(t, env, cc, "hp2")
	checkEqv(t, env, cc, "hp", "hp2")
	checkEqProof(t, env, cc, "hp", "hp2")
	checkInvariant(t, cc)
}

// ============================================================================
// Snapshots
// ============================================================================

func Test_Snapshot_01(t *testing.T) {
	env, cc := checkClosure(t)
	checkAdd(t, env, cc, "hab")
	snapshot := cc.State().Clone()
	checkAdd(t, env, cc, "hbc")
	checkEqv(t, env, cc, "a", "c")
	// Snapshot is unaffected by later merges
	other := NewClosure(snapshot, env.Checker(), env.Relations(), congr.NewManager(env))
	checkEqv(t, env, other, "a", "b")
	checkNotEqv(t, env, other, "a", "c")
	checkInvariant(t, other)
	// Nor is the original affected by merges in the snapshot
	checkAdd(t, env, other, "hcd")
	checkEqv(t, env, other, "c", "d")
	checkNotEqv(t, env, cc, "c", "d")
}

func Test_Snapshot_02(t *testing.T) {
	env, cc := checkClosure(t)
	snapshot := cc.State().Clone()
	// Higher-order functions are part of the snapshot
	snapshot.AddHOFunction("g")
	other := NewClosure(snapshot, env.Checker(), env.Relations(), congr.NewManager(env))
	checkInternalize(t, env, other, "(g a c)")
	checkInternalize(t, env, cc, "(g a c)")
	//
	if !other.State().IsRegistered(checkTerm(t, env, "(g a)")) {
		t.Errorf("partial application (g a) not registered in snapshot")
	} else if cc.State().IsRegistered(checkTerm(t, env, "(g a)")) {
		t.Errorf("partial application (g a) registered in original")
	}
}

func Test_Frozen_01(t *testing.T) {
	env, cc := checkClosure(t)
	m := expr.Meta("?m", expr.Const(expr.FIELD))
	// Metavariables are ignored before freezing
	if err := cc.Internalize(expr.App(expr.Const("f"), m), false); err != nil {
		t.Fatal(err)
	} else if cc.State().IsRegistered(m) {
		t.Errorf("metavariable registered before freezing")
	}
	//
	checkAdd(t, env, cc, "hab")
	cc.FreezePartitions()
	//
	if err := cc.Internalize(expr.App(expr.Const("f"), m), false); err != nil {
		t.Fatal(err)
	} else if !cc.State().IsRegistered(m) {
		t.Errorf("metavariable not registered after freezing")
	}
	// Roots are abstract values, and no proofs are produced
	checkEqv(t, env, cc, "a", "b")
	//
	if cc.EqProof(checkTerm(t, env, "a"), checkTerm(t, env, "b")).HasValue() {
		t.Errorf("unexpected proof in frozen state")
	}
	//
	if n, _ := cc.State().Entry(checkTerm(t, env, "b")); !n.interpreted {
		t.Errorf("root b should be interpreted after freezing")
	}
}

func Test_Format_01(t *testing.T) {
	env, cc := checkClosure(t)
	checkInternalize(t, env, cc, "(f a)")
	checkAdd(t, env, cc, "hab")
	//
	if s := cc.State().FormatClass(checkTerm(t, env, "a")); s != "{a, b}" {
		t.Errorf("unexpected class %s", s)
	}
	//
	if s := cc.State().FormatParents(checkTerm(t, env, "a")); s != "[(f a)]" {
		t.Errorf("unexpected parents %s", s)
	}
}

// ============================================================================
// Helpers
// ============================================================================

type recorder struct {
	props []string
}

func (p *recorder) Propagated(props []*expr.Expr) {
	for _, e := range props {
		p.props = append(p.props, e.String())
	}
}

func checkClosure(t *testing.T, hoFns ...string) (*kernel.Environment, *Closure) {
	env := kernel.NewEnvironment()
	//
	if err := env.Load(source.NewSourceFile("test", []byte(decls))); err != nil {
		t.Fatalf("%s", err.Error())
	}
	//
	state := NewState(hoFns, DefaultConfig())
	//
	return env, NewClosure(state, env.Checker(), env.Relations(), congr.NewManager(env))
}

func checkTerm(t *testing.T, env *kernel.Environment, text string) *expr.Expr {
	srcfile := source.NewSourceFile("test", []byte(text))
	//
	s, err := sexp.Parse(srcfile)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	//
	e, err := syntax.NewTranslator(srcfile, env.Scope()).Translate(s)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	//
	return e
}

// Assert the statement of a given axiom.
func checkAdd(t *testing.T, env *kernel.Environment, cc *Closure, hyp string) {
	d, ok := env.Lookup(hyp)
	if !ok {
		t.Fatalf("unknown hypothesis %s", hyp)
	}
	//
	if err := cc.Add(d.Type, expr.Const(hyp)); err != nil {
		t.Fatalf("%s", err)
	}
}

func checkInternalize(t *testing.T, env *kernel.Environment, cc *Closure, term string) {
	if err := cc.Internalize(checkTerm(t, env, term), false); err != nil {
		t.Fatalf("%s", err)
	}
}

func checkRoot(t *testing.T, env *kernel.Environment, cc *Closure, term string, root string) {
	actual := cc.State().Root(checkTerm(t, env, term))
	//
	if !expr.Equal(actual, checkTerm(t, env, root)) {
		t.Errorf("root of %s is %s, expected %s", term, actual, root)
	}
}

func checkEqv(t *testing.T, env *kernel.Environment, cc *Closure, lhs string, rhs string) {
	if !cc.IsEqv(checkTerm(t, env, lhs), checkTerm(t, env, rhs)) {
		t.Errorf("%s and %s should be equivalent", lhs, rhs)
	}
}

func checkNotEqv(t *testing.T, env *kernel.Environment, cc *Closure, lhs string, rhs string) {
	if cc.IsEqv(checkTerm(t, env, lhs), checkTerm(t, env, rhs)) {
		t.Errorf("%s and %s should not be equivalent", lhs, rhs)
	}
}

func checkDistinct(t *testing.T, env *kernel.Environment, cc *Closure, lhs string, rhs string, expected bool) {
	if cc.IsNotEqv(checkTerm(t, env, lhs), checkTerm(t, env, rhs)) != expected {
		t.Errorf("distinctness of %s and %s should be %t", lhs, rhs, expected)
	}
}

func checkSingleton(t *testing.T, env *kernel.Environment, cc *Closure, term string, expected bool) {
	if cc.State().InSingletonClass(checkTerm(t, env, term)) != expected {
		t.Errorf("%s being alone in its class should be %t", term, expected)
	}
}

func checkSize(t *testing.T, env *kernel.Environment, cc *Closure, term string, expected uint) {
	if size := cc.State().Size(checkTerm(t, env, term)); size != expected {
		t.Errorf("class of %s has %d members, expected %d", term, size, expected)
	}
}

// Check the members of a class, irrespective of their order.
func checkClass(t *testing.T, env *kernel.Environment, cc *Closure, terms ...string) {
	var actual []string
	//
	for _, m := range cc.State().Members(checkTerm(t, env, terms[0])) {
		actual = append(actual, m.String())
	}
	//
	expected := append([]string{}, terms...)
	sort.Strings(expected)
	sort.Strings(actual)
	//
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("unexpected class of %s (-expected +actual):\n%s", terms[0], diff)
	}
}

func checkProved(t *testing.T, env *kernel.Environment, cc *Closure, prop string) {
	if !cc.Proved(checkTerm(t, env, prop)) {
		t.Errorf("%s should be proved", prop)
	}
}

func checkEqProof(t *testing.T, env *kernel.Environment, cc *Closure, lhs string, rhs string) {
	l, r := checkTerm(t, env, lhs), checkTerm(t, env, rhs)
	ty, err := env.Checker().Infer(l)
	//
	if err != nil {
		t.Fatalf("%s", err)
	}
	//
	checkProof(t, env, cc.EqProof(l, r).UnwrapOr(nil), expr.Eq(ty, l, r))
}

func checkHEqProof(t *testing.T, env *kernel.Environment, cc *Closure, lhs string, rhs string) {
	l, r := checkTerm(t, env, lhs), checkTerm(t, env, rhs)
	tyL, errL := env.Checker().Infer(l)
	tyR, errR := env.Checker().Infer(r)
	//
	if errL != nil || errR != nil {
		t.Fatalf("cannot infer types of %s and %s", lhs, rhs)
	}
	//
	checkProof(t, env, cc.HEqProof(l, r).UnwrapOr(nil), expr.HEq(tyL, l, tyR, r))
}

func checkProve(t *testing.T, env *kernel.Environment, cc *Closure, goal string) {
	g := checkTerm(t, env, goal)
	checkProof(t, env, cc.Prove(g).UnwrapOr(nil), g)
}

func checkProof(t *testing.T, env *kernel.Environment, proof *expr.Expr, prop *expr.Expr) {
	if proof == nil {
		t.Errorf("no proof of %s", prop)
	} else if err := env.Checker().Check(proof, prop); err != nil {
		t.Errorf("invalid proof of %s: %s", prop, err)
	}
}

func checkConsistent(t *testing.T, cc *Closure) {
	if cc.State().Inconsistent() {
		t.Errorf("state should be consistent")
	}
}

func checkInconsistent(t *testing.T, env *kernel.Environment, cc *Closure) {
	if !cc.State().Inconsistent() {
		t.Fatalf("state should be inconsistent")
	}
	//
	checkProof(t, env, cc.InconsistencyProof().UnwrapOr(nil), expr.False())
}

func checkInvariant(t *testing.T, cc *Closure) {
	if err := cc.State().CheckInvariant(); err != nil {
		t.Errorf("invariant violated: %s", err)
	}
}
