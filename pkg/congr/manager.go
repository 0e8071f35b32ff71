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

	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/kernel"
	"github.com/consensys/go-cclosure/pkg/syntax"
	"github.com/consensys/go-cclosure/pkg/util"
	"github.com/consensys/go-cclosure/pkg/util/collection/hash"
	log "github.com/sirupsen/logrus"
)

// Manager constructs congruence lemmas on demand, caching them per function
// and number of arguments.
type Manager struct {
	env *kernel.Environment
	// Lemmas are always built with full transparency.
	tc     *kernel.TypeChecker
	simp   *hash.Map[lemmaKey, util.Option[*Lemma]]
	hcongr *hash.Map[lemmaKey, util.Option[*Lemma]]
	// Number of heterogeneous lemmas registered so far.
	axioms uint
}

// NewManager constructs a lemma manager for a given environment.  Heterogeneous
// lemmas are registered in that environment as axioms.
func NewManager(env *kernel.Environment) *Manager {
	return &Manager{env, kernel.NewTypeChecker(env, kernel.ALL),
		hash.NewMap[lemmaKey, util.Option[*Lemma]](32),
		hash.NewMap[lemmaKey, util.Option[*Lemma]](32), 0}
}

// CongrSimp returns a lemma of the form (f xs = f ys) for fn applied to nargs
// arguments.  Arguments which later types depend on, or which are instance
// implicit, are FIXED.  No lemma exists when fn does not accept nargs
// arguments, or when a dependent argument follows an EQ argument.
func (p *Manager) CongrSimp(fn *expr.Expr, nargs int) util.Option[*Lemma] {
	key := lemmaKey{fn, nargs}
	//
	if lemma, ok := p.simp.Get(key); ok {
		return lemma
	}
	//
	lemma := p.mkCongrSimp(fn, nargs)
	p.simp.Insert(key, lemma)
	//
	return lemma
}

// HCongr returns a lemma of the form (f xs == f ys) for fn applied to nargs
// arguments, where every argument is EQ and related by heq.  Such lemmas are
// only available for closed functions.  The kernel has no heq eliminator for
// dependent function types, so the lemma is registered as an axiom rather
// than proved.  Proofs using it are only as sound as that axiom.
func (p *Manager) HCongr(fn *expr.Expr, nargs int) util.Option[*Lemma] {
	key := lemmaKey{fn, nargs}
	//
	if lemma, ok := p.hcongr.Get(key); ok {
		return lemma
	}
	//
	lemma := p.mkHCongr(fn, nargs)
	p.hcongr.Insert(key, lemma)
	//
	return lemma
}

func (p *Manager) mkCongrSimp(fn *expr.Expr, nargs int) util.Option[*Lemma] {
	fnTy, err := p.tc.Infer(fn)
	if err != nil {
		return util.None[*Lemma]()
	}
	//
	var (
		kinds   = make([]ArgKind, nargs)
		binders []*expr.Expr
		lhs     = fn
		rhs     = fn
		ty      = fnTy
		seenEq  = false
		proof   = expr.Apps(expr.Const(kernel.EQ_REFL), fnTy, fn)
	)
	//
	for i := 0; i < nargs; i++ {
		pi := p.tc.Whnf(ty)
		if pi.Kind() != expr.PI {
			return util.None[*Lemma]()
		}
		//
		dependent := expr.HasLooseBVar(pi.Body(), 0)
		x := syntax.FreshLocal("x", pi.Domain())
		// Result type of the partial applications when not dependent
		body := expr.Instantiate(pi.Body(), x)
		//
		switch {
		case dependent && seenEq:
			return util.None[*Lemma]()
		case dependent:
			kinds[i] = FIXED
			binders = append(binders, x)
			lhs, rhs = expr.App(lhs, x), expr.App(rhs, x)
			proof = expr.Apps(expr.Const(kernel.EQ_REFL), body, lhs)
		case pi.Info() == expr.INST_IMPLICIT:
			kinds[i] = FIXED
			binders = append(binders, x)
			proof = expr.Apps(expr.Const(kernel.CONGR_FUN), pi.Domain(), body, lhs, rhs, proof, x)
			lhs, rhs = expr.App(lhs, x), expr.App(rhs, x)
		default:
			y := syntax.FreshLocal("y", pi.Domain())
			h := syntax.FreshLocal("h", expr.Eq(pi.Domain(), x, y))
			kinds[i] = EQ
			seenEq = true
			binders = append(binders, x, y, h)
			proof = expr.Apps(expr.Const(kernel.CONGR), pi.Domain(), body, lhs, rhs, x, y, proof, h)
			lhs, rhs = expr.App(lhs, x), expr.App(rhs, y)
		}
		//
		ty = body
	}
	//
	lemma := &Lemma{fn, kinds, expr.PiOver(binders, expr.Eq(ty, lhs, rhs)), expr.LambdaOver(binders, proof), false}
	//
	if err := p.tc.Check(lemma.Proof, lemma.Type); err != nil {
		log.Debugf("congruence lemma for %s rejected: %s", fn, err)
		return util.None[*Lemma]()
	}
	//
	return util.Some(lemma)
}

func (p *Manager) mkHCongr(fn *expr.Expr, nargs int) util.Option[*Lemma] {
	if fn.HasLocal() || fn.HasMeta() || fn.HasLooseBVars() {
		return util.None[*Lemma]()
	}
	//
	fnTy, err := p.tc.Infer(fn)
	if err != nil {
		return util.None[*Lemma]()
	}
	//
	var (
		kinds   = make([]ArgKind, nargs)
		binders []*expr.Expr
		lhs     = fn
		rhs     = fn
		lhsTy   = fnTy
		rhsTy   = fnTy
	)
	//
	for i := 0; i < nargs; i++ {
		lpi, rpi := p.tc.Whnf(lhsTy), p.tc.Whnf(rhsTy)
		if lpi.Kind() != expr.PI || rpi.Kind() != expr.PI {
			return util.None[*Lemma]()
		}
		//
		x := syntax.FreshLocal("x", lpi.Domain())
		y := syntax.FreshLocal("y", rpi.Domain())
		h := syntax.FreshLocal("h", expr.HEq(lpi.Domain(), x, rpi.Domain(), y))
		kinds[i] = EQ
		binders = append(binders, x, y, h)
		lhs, rhs = expr.App(lhs, x), expr.App(rhs, y)
		lhsTy, rhsTy = expr.Instantiate(lpi.Body(), x), expr.Instantiate(rpi.Body(), y)
	}
	//
	ty := expr.PiOver(binders, expr.HEq(lhsTy, lhs, rhsTy, rhs))
	name := p.freshAxiomName()
	//
	if err := p.env.AddAxiom(name, ty); err != nil {
		log.Debugf("heterogeneous congruence lemma for %s rejected: %s", fn, err)
		return util.None[*Lemma]()
	}
	//
	return util.Some(&Lemma{fn, kinds, ty, expr.Const(name), true})
}

func (p *Manager) freshAxiomName() string {
	for {
		p.axioms++
		name := fmt.Sprintf("hcongr.%d", p.axioms)
		//
		if _, ok := p.env.Lookup(name); !ok {
			return name
		}
	}
}

type lemmaKey struct {
	fn    *expr.Expr
	nargs int
}

func (p lemmaKey) Equals(other lemmaKey) bool {
	return p.nargs == other.nargs && expr.Equal(p.fn, other.fn)
}

func (p lemmaKey) Hash() uint64 {
	return hash.Combine(p.fn.Hash(), uint64(p.nargs))
}
