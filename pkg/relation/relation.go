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
	"fmt"
	"sort"

	"github.com/consensys/go-cclosure/pkg/expr"
)

// Info describes a binary relation R, applied as (R params... lhs rhs) with
// the two related terms at positions Lhs and Rhs.  Lemma names are empty when
// the relation lacks the corresponding property.
//
// The reflexivity lemma takes the relation's arguments up to and including the
// left-hand side.  The symmetry lemma takes all relation arguments, followed by
// the hypothesis.  Transitivity lemmas are recorded but the closure composes
// proofs with eq.trans and heq.trans directly.
type Info struct {
	Name  string
	Arity int
	Lhs   int
	Rhs   int
	Refl  string
	Symm  string
	Trans string
}

// IsReflexive checks whether a reflexivity lemma is known.
func (p Info) IsReflexive() bool { return p.Refl != "" }

// IsSymmetric checks whether a symmetry lemma is known.
func (p Info) IsSymmetric() bool { return p.Symm != "" }

// IsTransitive checks whether a transitivity lemma is known.
func (p Info) IsTransitive() bool { return p.Trans != "" }

func (p Info) String() string {
	return fmt.Sprintf("%s/%d[%d,%d]", p.Name, p.Arity, p.Lhs, p.Rhs)
}

// Table records the relations known to an environment.
type Table struct {
	infos map[string]Info
}

// NewTable constructs an empty relation table.
func NewTable() *Table {
	return &Table{make(map[string]Info)}
}

// Register adds (or replaces) the information for a relation.
func (t *Table) Register(info Info) error {
	if info.Arity < 2 || info.Lhs < 0 || info.Lhs >= info.Rhs || info.Rhs >= info.Arity {
		return fmt.Errorf("invalid relation %s", info.String())
	}
	//
	t.infos[info.Name] = info
	//
	return nil
}

// Relation returns the information for a given relation, if known.
func (t *Table) Relation(name string) (Info, bool) {
	info, ok := t.infos[name]
	return info, ok
}

// Match checks whether e is a full application of a known relation, returning
// its information along with both sides.
func (t *Table) Match(e *expr.Expr) (info Info, lhs *expr.Expr, rhs *expr.Expr, ok bool) {
	fn := expr.AppFn(e)
	//
	if fn.Kind() != expr.CONST {
		return info, nil, nil, false
	} else if info, ok = t.infos[fn.Name()]; !ok || expr.AppNumArgs(e) != info.Arity {
		return info, nil, nil, false
	}
	//
	args := expr.AppArgs(e)
	//
	return info, args[info.Lhs], args[info.Rhs], true
}

// Names returns the registered relation names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.infos))
	//
	for n := range t.infos {
		names = append(names, n)
	}
	//
	sort.Strings(names)
	//
	return names
}
