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
	"github.com/consensys/go-cclosure/pkg/congr"
	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/relation"
	"github.com/consensys/go-cclosure/pkg/util"
)

// TypeContext provides the type inference and definitional equality used by
// the closure.  Definitional equality is decided at whatever transparency the
// context was configured with.
type TypeContext interface {
	// Infer the type of a term.
	Infer(e *expr.Expr) (*expr.Expr, error)
	// Whnf reduces a term to weak head normal form.
	Whnf(e *expr.Expr) *expr.Expr
	// IsDefEq checks whether two terms are definitionally equal.
	IsDefEq(a *expr.Expr, b *expr.Expr) bool
	// IsProp checks whether a term is a proposition.
	IsProp(e *expr.Expr) bool
	// SubsingletonInstance returns a proof that a type is a subsingleton, when
	// one is known.
	SubsingletonInstance(ty *expr.Expr) util.Option[*expr.Expr]
	// ConstructorApp matches a fully applied constructor, returning its name
	// and number of parameters.
	ConstructorApp(e *expr.Expr) (string, int, bool)
	// Injection returns the injectivity lemma for a given constructor field.
	Injection(ctor string, field int) (string, bool)
}

// RelationManager classifies relations.
type RelationManager interface {
	Relation(name string) (relation.Info, bool)
	// Match an application of a registered relation, returning its left and
	// right-hand sides.
	Match(e *expr.Expr) (relation.Info, *expr.Expr, *expr.Expr, bool)
}

// CongrLemmaManager supplies congruence lemmas.
type CongrLemmaManager interface {
	CongrSimp(fn *expr.Expr, nargs int) util.Option[*congr.Lemma]
	HCongr(fn *expr.Expr, nargs int) util.Option[*congr.Lemma]
}

// PropagationHandler is notified of propositions whose class has just been
// merged with true or false.
type PropagationHandler interface {
	Propagated(props []*expr.Expr)
}
