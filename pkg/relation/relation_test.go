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
package relation

import (
	"testing"

	"github.com/consensys/go-cclosure/pkg/expr"
)

func Test_Relation_01(t *testing.T) {
	table := NewTable()
	checkRegister(t, table, Info{Name: "eq", Arity: 3, Lhs: 1, Rhs: 2, Refl: "eq.refl", Symm: "eq.symm"}, true)
	checkRegister(t, table, Info{Name: "bad", Arity: 2, Lhs: 1, Rhs: 1}, false)
	checkRegister(t, table, Info{Name: "bad", Arity: 3, Lhs: 0, Rhs: 3}, false)
	//
	if info, ok := table.Relation("eq"); !ok || !info.IsSymmetric() || !info.IsReflexive() || info.IsTransitive() {
		t.Errorf("unexpected relation info %v", info)
	}
	//
	if _, ok := table.Relation("bad"); ok {
		t.Errorf("invalid relation was registered")
	}
}

func Test_Relation_02(t *testing.T) {
	table := NewTable()
	checkRegister(t, table, Info{Name: "eq", Arity: 3, Lhs: 1, Rhs: 2}, true)
	//
	a := expr.Local("a", expr.Const("A"))
	b := expr.Local("b", expr.Const("A"))
	//
	if _, lhs, rhs, ok := table.Match(expr.Eq(expr.Const("A"), a, b)); !ok || lhs != a || rhs != b {
		t.Errorf("failed to match equality")
	}
	// Partial applications are not relation instances
	if _, _, _, ok := table.Match(expr.Apps(expr.Const("eq"), expr.Const("A"), a)); ok {
		t.Errorf("matched partial application")
	}
	//
	if _, _, _, ok := table.Match(expr.Iff(a, b)); ok {
		t.Errorf("matched unregistered relation")
	}
}

func checkRegister(t *testing.T, table *Table, info Info, valid bool) {
	if err := table.Register(info); (err == nil) != valid {
		t.Errorf("registering %s: expected valid=%t, got error %v", info.String(), valid, err)
	}
}
