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
package congr

import (
	"testing"

	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/kernel"
	"github.com/consensys/go-cclosure/pkg/syntax"
	"github.com/consensys/go-cclosure/pkg/util/source"
	"github.com/consensys/go-cclosure/pkg/util/source/sexp"
)

const decls = `
(axiom f (-> field field field))
(axiom g (pi (A Type) (-> A A)))
(axiom semiring (-> Type Type))
(axiom add (pi (A Type) (s (semiring A) inst) (-> A A A)))
(axiom k (pi (n field) (A Type) (-> A A)))
(axiom a field)
(axiom b field)
(axiom hab (= a b))
`

func Test_CongrSimp_01(t *testing.T) {
	env := checkEnv(t)
	m := NewManager(env)
	//
	lemma := checkCongrSimp(t, m, "f", EQ, EQ)
	checkType(t, env, lemma.Type,
		"(pi (x1 field) (y1 field) (h1 (= x1 y1)) (x2 field) (y2 field) (h2 (= x2 y2)) (= (f x1 x2) (f y1 y2)))")
	// Cached
	if m.CongrSimp(expr.Const("f"), 2).Unwrap() != lemma {
		t.Errorf("lemma for f was not cached")
	}
}

func Test_CongrSimp_02(t *testing.T) {
	env := checkEnv(t)
	m := NewManager(env)
	lemma := checkCongrSimp(t, m, "f", EQ, EQ)
	a, b := expr.Const("a"), expr.Const("b")
	refl := expr.Apps(expr.Const(kernel.EQ_REFL), expr.Const(expr.FIELD), a)
	proof := lemma.Instantiate(a, b, expr.Const("hab"), a, a, refl)
	// No redexes remain
	if expr.AppFn(proof).Kind() != expr.CONST {
		t.Errorf("instantiated proof %s not reduced", proof)
	}
	//
	checkType(t, env, proof, "(= (f a a) (f b a))")
}

func Test_CongrSimp_03(t *testing.T) {
	m := NewManager(checkEnv(t))
	// Later types depend upon the first argument
	checkCongrSimp(t, m, "g", FIXED, EQ)
	// Instance implicit arguments are fixed
	checkCongrSimp(t, m, "add", FIXED, FIXED, EQ, EQ)
	// Partial applications
	checkCongrSimp(t, m, "f", EQ)
	checkCongrSimp(t, m, "add", FIXED, FIXED)
}

func Test_CongrSimp_04(t *testing.T) {
	m := NewManager(checkEnv(t))
	// Too many arguments
	if m.CongrSimp(expr.Const("f"), 3).HasValue() {
		t.Errorf("unexpected lemma for f with three arguments")
	}
	// Dependency follows an equality
	if m.CongrSimp(expr.Const("k"), 3).HasValue() {
		t.Errorf("unexpected lemma for k")
	}
}

func Test_HCongr_01(t *testing.T) {
	env := checkEnv(t)
	m := NewManager(env)
	lemma := m.HCongr(expr.Const("k"), 3)
	//
	if !lemma.HasValue() || !lemma.Unwrap().Heterogeneous || lemma.Unwrap().NumParams() != 9 {
		t.Fatalf("missing heterogeneous lemma for k")
	} else if m.HCongr(expr.Const("k"), 3).Unwrap() != lemma.Unwrap() {
		t.Errorf("lemma for k was not cached")
	}
	//
	name := lemma.Unwrap().Proof.Name()
	//
	if d, ok := env.Lookup(name); !ok || d.Kind != kernel.AXIOM {
		t.Errorf("lemma %s not registered", name)
	}
	//
	checkType(t, env, lemma.Unwrap().Proof,
		"(pi (n1 field) (n2 field) (h1 (== n1 n2)) (A1 Type) (A2 Type) (h2 (== A1 A2)) (x1 A1) (x2 A2) (h3 (== x1 x2)) (== (k n1 A1 x1) (k n2 A2 x2)))")
}

func Test_HCongr_02(t *testing.T) {
	env := checkEnv(t)
	m := NewManager(env)
	h := syntax.FreshLocal("h", checkTerm(t, env, "(-> field field)"))
	// Local functions cannot be registered
	if m.HCongr(h, 1).HasValue() {
		t.Errorf("unexpected lemma for local function")
	}
	// Nor can over application
	if m.HCongr(expr.Const("f"), 3).HasValue() {
		t.Errorf("unexpected lemma for f with three arguments")
	}
}

// ============================================================================
// Helpers
// ============================================================================

func checkCongrSimp(t *testing.T, m *Manager, fn string, kinds ...ArgKind) *Lemma {
	lemma := m.CongrSimp(expr.Const(fn), len(kinds))
	//
	if !lemma.HasValue() {
		t.Fatalf("missing congruence lemma for %s", fn)
	}
	//
	for i, k := range kinds {
		if lemma.Unwrap().Kinds[i] != k {
			t.Errorf("argument %d of %s expected %s, got %s", i, fn, k, lemma.Unwrap().Kinds[i])
		}
	}
	//
	return lemma.Unwrap()
}

func checkEnv(t *testing.T) *kernel.Environment {
	env := kernel.NewEnvironment()
	//
	if err := env.Load(source.NewSourceFile("test", []byte(decls))); err != nil {
		t.Fatalf("%s", err.Error())
	}
	//
	return env
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

// Check a term has the expected type, or a term is equivalent to the
// expected term when the latter is itself a type.
func checkType(t *testing.T, env *kernel.Environment, e *expr.Expr, expected string) {
	tc := env.Checker()
	expectedTy := checkTerm(t, env, expected)
	//
	if tc.IsDefEq(e, expectedTy) {
		return
	}
	//
	ty, err := tc.Infer(e)
	if err != nil {
		t.Fatalf("%s: %s", e, err)
	} else if !tc.IsDefEq(ty, expectedTy) {
		t.Errorf("%s has type %s, expected %s", e, ty, expectedTy)
	}
}
