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
	"fmt"
	"strings"

	"github.com/consensys/go-cclosure/pkg/expr"
)

// ArgKind determines how a congruence lemma treats an argument.
type ArgKind uint8

const (
	// FIXED arguments are shared by both sides of the conclusion.  The lemma
	// takes a single term for them.
	FIXED ArgKind = iota
	// EQ arguments may differ on each side of the conclusion.  The lemma takes
	// both terms along with a proof of (heterogeneous) equality between them.
	EQ
)

func (k ArgKind) String() string {
	if k == FIXED {
		return "fixed"
	}
	//
	return "eq"
}

// Lemma is a congruence lemma for some function applied to a given number of
// arguments.  Its proof expects, for each argument in turn, one term (FIXED)
// or a left term, a right term and a proof relating them (EQ).
type Lemma struct {
	Fn    *expr.Expr
	Kinds []ArgKind
	// Statement of this lemma
	Type *expr.Expr
	// Proof of this lemma, either a closed lambda term or a constant.
	Proof *expr.Expr
	// Heterogeneous lemmas relate EQ arguments with heq, and conclude heq.
	Heterogeneous bool
}

// NumArgs returns the number of arguments the lemma is for.
func (p *Lemma) NumArgs() int {
	return len(p.Kinds)
}

// NumParams returns the number of terms the lemma's proof expects.
func (p *Lemma) NumParams() int {
	n := 0
	//
	for _, k := range p.Kinds {
		if k == FIXED {
			n++
		} else {
			n += 3
		}
	}
	//
	return n
}

// Instantiate applies the lemma's proof to the given terms, reducing any
// resulting beta redexes.
func (p *Lemma) Instantiate(args ...*expr.Expr) *expr.Expr {
	if len(args) != p.NumParams() {
		panic(fmt.Sprintf("congruence lemma expects %d terms, got %d", p.NumParams(), len(args)))
	}
	//
	proof := p.Proof
	i := 0
	//
	for ; i < len(args) && proof.Kind() == expr.LAMBDA; i++ {
		proof = expr.Instantiate(proof.Body(), args[i])
	}
	//
	return expr.Apps(proof, args[i:]...)
}

func (p *Lemma) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Fn.String())
	builder.WriteString("[")
	//
	for i, k := range p.Kinds {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(k.String())
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
