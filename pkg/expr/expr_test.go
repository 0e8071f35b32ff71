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
package expr

import (
	"testing"
)

var (
	tyA = Const("A")
	fnF = Const("f")
	a   = Local("a", tyA)
	b   = Local("b", tyA)
)

func Test_Expr_01(t *testing.T) {
	e1 := Apps(fnF, a, b)
	e2 := Apps(Const("f"), Local("a", tyA), Local("b", tyA))
	//
	if !Equal(e1, e2) || Compare(e1, e2) != 0 || e1.Hash() != e2.Hash() {
		t.Errorf("structurally equal terms differ: %s vs %s", e1, e2)
	}
}

func Test_Expr_02(t *testing.T) {
	e1 := Apps(fnF, a, b)
	e2 := Apps(fnF, b, a)
	//
	if Equal(e1, e2) || Compare(e1, e2) == 0 {
		t.Errorf("distinct terms are equal: %s vs %s", e1, e2)
	} else if Compare(e1, e2) != -Compare(e2, e1) {
		t.Errorf("comparison is not antisymmetric")
	}
}

func Test_Expr_03(t *testing.T) {
	if !Equal(Num(42), Num(42)) || Equal(Num(1), Num(2)) {
		t.Errorf("literal equality broken")
	}
}

func Test_Expr_04(t *testing.T) {
	// Binder names are irrelevant
	l1 := Lambda("x", DEFAULT, tyA, App(fnF, Var(0)))
	l2 := Lambda("y", IMPLICIT, tyA, App(fnF, Var(0)))
	//
	if !Equal(l1, l2) {
		t.Errorf("alpha-equivalent terms differ")
	}
}

func Test_Expr_Subst_01(t *testing.T) {
	body := Apps(fnF, Var(0), b)
	//
	if r := Instantiate(body, a); !Equal(r, Apps(fnF, a, b)) {
		t.Errorf("unexpected instantiation %s", r)
	}
}

func Test_Expr_Subst_02(t *testing.T) {
	e := LambdaOver([]*Expr{a, b}, Apps(fnF, a, b))
	expected := Lambda("a", DEFAULT, tyA, Lambda("b", DEFAULT, tyA, Apps(fnF, Var(1), Var(0))))
	//
	if !Equal(e, expected) {
		t.Errorf("expected %s, got %s", expected, e)
	} else if e.HasLooseBVars() || e.HasLocal() {
		t.Errorf("abstraction left free variables in %s", e)
	}
}

func Test_Expr_Subst_03(t *testing.T) {
	e := Lambda("x", DEFAULT, tyA, Apps(fnF, Var(0), Var(1)))
	//
	if r := Instantiate(e, a); !Equal(r, Lambda("x", DEFAULT, tyA, Apps(fnF, Var(0), a))) {
		t.Errorf("unexpected instantiation under binder %s", r)
	}
}

func Test_Expr_Subst_04(t *testing.T) {
	arr := Arrow(tyA, Prop())
	//
	if !IsArrow(arr) || arr.HasLooseBVars() {
		t.Errorf("arrow malformed %s", arr)
	}
	//
	if r := InstantiateAll(Pi("x", DEFAULT, tyA, Arrow(Var(0), Var(0))), a); r.String() != "(-> a a)" {
		t.Errorf("unexpected telescope instantiation %s", r)
	}
}

func Test_Expr_Subst_05(t *testing.T) {
	e := Apps(fnF, a, App(fnF, a))
	//
	if !Occurs(a, e) || Occurs(b, e) {
		t.Errorf("occurs check broken")
	}
}

func Test_Expr_Match_01(t *testing.T) {
	e := Eq(tyA, a, b)
	//
	if ty, lhs, rhs, ok := IsEq(e); !ok || ty != tyA || lhs != a || rhs != b {
		t.Errorf("failed to match equality %s", e)
	}
	//
	if _, _, _, ok := IsEq(Iff(a, b)); ok {
		t.Errorf("matched iff as equality")
	}
}

func Test_Expr_Match_02(t *testing.T) {
	p := Local("p", Prop())
	//
	if q, ok := IsNot(Not(p)); !ok || q != p {
		t.Errorf("failed to match negation")
	}
	//
	if q, ok := IsNot(Arrow(p, False())); !ok || q != p {
		t.Errorf("failed to match implication into false")
	}
}

func Test_Expr_Format_01(t *testing.T) {
	checkFormat(t, Eq(tyA, App(fnF, a), b), "(= (f a) b)")
	checkFormat(t, HEq(tyA, a, tyA, b), "(== a b)")
	checkFormat(t, Lambda("x", DEFAULT, tyA, App(fnF, Var(0))), "(fun (x A) (f x))")
	checkFormat(t, Pi("x", IMPLICIT, Type(), Arrow(Var(0), Prop())), "(pi (x Type implicit) (-> x Prop))")
	checkFormat(t, Meta("m", tyA), "?m")
	checkFormat(t, Num(7), "7")
}

func checkFormat(t *testing.T, e *Expr, expected string) {
	if actual := e.String(); actual != expected {
		t.Errorf("expected %s, got %s", expected, actual)
	}
}
