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
	"fmt"

	"github.com/consensys/go-cclosure/pkg/congr"
	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/kernel"
	"github.com/consensys/go-cclosure/pkg/relation"
	"github.com/consensys/go-cclosure/pkg/syntax"
	"github.com/consensys/go-cclosure/pkg/util"
	"github.com/consensys/go-cclosure/pkg/util/collection/hash"
)

// EqProof constructs a proof of (a = b), when the two terms are known to be
// equal and have the same type.
func (p *Closure) EqProof(a *expr.Expr, b *expr.Expr) util.Option[*expr.Expr] {
	return p.eqProof(a, b, false)
}

// HEqProof constructs a proof of (a == b), when the two terms are known to be
// equal.
func (p *Closure) HEqProof(a *expr.Expr, b *expr.Expr) util.Option[*expr.Expr] {
	return p.eqProof(a, b, true)
}

// Proof constructs a proof that two terms are equal, using eq when their types
// are definitionally equal and heq otherwise.
func (p *Closure) Proof(a *expr.Expr, b *expr.Expr) util.Option[*expr.Expr] {
	return p.eqProof(a, b, !p.sameType(a, b))
}

// InconsistencyProof constructs a proof of false, when the state is
// inconsistent.
func (p *Closure) InconsistencyProof() util.Option[*expr.Expr] {
	if !p.state.inconsistent {
		return util.None[*expr.Expr]()
	}
	//
	h := p.EqProof(expr.True(), expr.False())
	if h.IsEmpty() {
		return h
	}
	//
	return util.Some(expr.Apps(expr.Const(kernel.FALSE_OF_TRUE_EQ_FALSE), h.Unwrap()))
}

// Prove attempts to discharge a goal using the facts known to the closure.
// The goal is internalized first, so congruences between its subterms are
// taken into account.
func (p *Closure) Prove(goal *expr.Expr) util.Option[*expr.Expr] {
	none := util.None[*expr.Expr]()
	//
	if p.state.frozen || goal.HasMeta() || goal.HasLooseBVars() {
		return none
	} else if !p.state.inconsistent {
		p.internalize(goal, false, false)
		p.processTodo()
	}
	//
	if p.state.inconsistent {
		if h := p.InconsistencyProof(); h.HasValue() {
			return util.Some(expr.Apps(expr.Const(kernel.FALSE_ELIM), goal, h.Unwrap()))
		}
		//
		return none
	}
	//
	if _, lhs, rhs, ok := expr.IsEq(goal); ok {
		return p.EqProof(lhs, rhs)
	} else if _, lhs, _, rhs, ok := expr.IsHEq(goal); ok {
		return p.HEqProof(lhs, rhs)
	} else if lhs, rhs, ok := expr.IsIff(goal); ok {
		if h := p.EqProof(lhs, rhs); h.HasValue() {
			return util.Some(expr.Apps(expr.Const(kernel.IFF_OF_EQ), lhs, rhs, h.Unwrap()))
		}
	} else if q, ok := negation(goal); ok {
		if h := p.EqProof(q, expr.False()); h.HasValue() {
			return util.Some(expr.Apps(expr.Const(kernel.NOT_OF_EQ_FALSE), q, h.Unwrap()))
		}
	}
	//
	if h := p.EqProof(goal, expr.True()); h.HasValue() {
		return util.Some(expr.Apps(expr.Const(kernel.OF_EQ_TRUE), goal, h.Unwrap()))
	}
	//
	return none
}

func (p *Closure) eqProof(a *expr.Expr, b *expr.Expr, heq bool) util.Option[*expr.Expr] {
	none := util.None[*expr.Expr]()
	//
	if p.state.frozen || a.HasMeta() || b.HasMeta() || !p.IsEqv(a, b) {
		return none
	}
	//
	tyA, errA := p.ctx.Infer(a)
	tyB, errB := p.ctx.Infer(b)
	//
	if errA != nil || errB != nil || (!heq && !p.ctx.IsDefEq(tyA, tyB)) {
		return none
	} else if expr.Equal(a, b) || p.ctx.IsDefEq(a, b) {
		return util.Some(p.mkRefl(a, heq))
	}
	//
	proof, isHeq := p.pathProof(a, b)
	//
	switch {
	case heq && !isHeq:
		proof = expr.Apps(expr.Const(kernel.HEQ_OF_EQ), tyA, a, b, proof)
	case !heq && isHeq:
		proof = expr.Apps(expr.Const(kernel.EQ_OF_HEQ), tyA, a, b, proof)
	}
	//
	return util.Some(proof)
}

func (p *Closure) mustProof(a *expr.Expr, b *expr.Expr, heq bool) *expr.Expr {
	if h := p.eqProof(a, b, heq); h.HasValue() {
		return h.Unwrap()
	}
	//
	panic(fmt.Sprintf("no proof of %s ~ %s", a, b))
}

// ============================================================================
// Paths
// ============================================================================

// A single step along a justification path, proving from = to.
type step struct {
	from  *expr.Expr
	to    *expr.Expr
	proof *expr.Expr
	heq   bool
}

// Compose the edges along the path between two members of the same class.
func (p *Closure) pathProof(lhs *expr.Expr, rhs *expr.Expr) (*expr.Expr, bool) {
	var (
		s       = p.state
		visited = hash.NewMap[*expr.Expr, bool](16)
		steps   []step
		back    []step
	)
	//
	for it := lhs; it != nil; it = s.entry(it).target {
		visited.Insert(it, true)
	}
	// Walk up from rhs until the common ancestor
	it := rhs
	for !visited.ContainsKey(it) {
		n := s.entry(it)
		back = append(back, p.edgeProof(n.target, it, n.proof, !n.flipped))
		it = n.target
	}
	//
	for x := lhs; !expr.Equal(x, it); {
		n := s.entry(x)
		steps = append(steps, p.edgeProof(x, n.target, n.proof, n.flipped))
		x = n.target
	}
	//
	for i := len(back) - 1; i >= 0; i-- {
		steps = append(steps, back[i])
	}
	//
	acc := steps[0]
	//
	for _, next := range steps[1:] {
		acc = p.mkTrans(acc, next)
	}
	//
	return acc.proof, acc.heq
}

// Construct a proof of from = to, for an edge whose stored proof relates the
// two terms the other way round when flipped.
func (p *Closure) edgeProof(from *expr.Expr, to *expr.Expr, proof *Proof, flipped bool) step {
	switch proof.Kind {
	case CONGRUENCE:
		heq := !p.sameType(from, to)
		return step{from, to, p.mkCongrProof(from, to, heq), heq}
	case EQ_TRUE:
		if expr.IsTrue(to) {
			return step{from, to, p.eqTrueProof(from), false}
		}
		//
		return p.mkSymm(step{to, from, p.eqTrueProof(to), false})
	case REFL:
		return step{from, to, p.mkRefl(from, false), false}
	}
	//
	if flipped {
		return p.mkSymm(step{to, from, p.mkTermProof(proof), proof.Heterogeneous})
	}
	//
	return step{from, to, p.mkTermProof(proof), proof.Heterogeneous}
}

// Reverse a step.
func (p *Closure) mkSymm(s step) step {
	tyA := p.mustInfer(s.from)
	//
	if s.heq {
		tyB := p.mustInfer(s.to)
		return step{s.to, s.from, expr.Apps(expr.Const(kernel.HEQ_SYMM), tyA, s.from, tyB, s.to, s.proof), true}
	}
	//
	return step{s.to, s.from, expr.Apps(expr.Const(kernel.EQ_SYMM), tyA, s.from, s.to, s.proof), false}
}

func (p *Closure) mkTrans(h1 step, h2 step) step {
	if !h1.heq && !h2.heq {
		ty := p.mustInfer(h1.from)
		proof := expr.Apps(expr.Const(kernel.EQ_TRANS), ty, h1.from, h1.to, h2.to, h1.proof, h2.proof)
		//
		return step{h1.from, h2.to, proof, false}
	}
	//
	h1, h2 = p.toHeq(h1), p.toHeq(h2)
	tyA, tyB, tyC := p.mustInfer(h1.from), p.mustInfer(h1.to), p.mustInfer(h2.to)
	proof := expr.Apps(expr.Const(kernel.HEQ_TRANS), tyA, h1.from, tyB, h1.to, tyC, h2.to, h1.proof, h2.proof)
	//
	return step{h1.from, h2.to, proof, true}
}

func (p *Closure) toHeq(s step) step {
	if s.heq {
		return s
	}
	//
	ty := p.mustInfer(s.from)
	//
	return step{s.from, s.to, expr.Apps(expr.Const(kernel.HEQ_OF_EQ), ty, s.from, s.to, s.proof), true}
}

func (p *Closure) mkRefl(e *expr.Expr, heq bool) *expr.Expr {
	if heq {
		return expr.Apps(expr.Const(kernel.HEQ_REFL), p.mustInfer(e), e)
	}
	//
	return expr.Apps(expr.Const(kernel.EQ_REFL), p.mustInfer(e), e)
}

// ============================================================================
// Edge proofs
// ============================================================================

// Construct the proof carried by a non-marker edge, in the orientation it was
// pushed.
func (p *Closure) mkTermProof(proof *Proof) *expr.Expr {
	switch proof.Kind {
	case EXPLICIT:
		return proof.Term
	case NO_CONFUSION:
		// true = false, from two equal but distinct values
		ty := p.mustInfer(proof.Lhs)
		h := p.mustProof(proof.Lhs, proof.Rhs, false)
		absurd := expr.Apps(expr.Const(kernel.NO_CONFUSION), ty, proof.Lhs, proof.Rhs, h)
		//
		return expr.Apps(expr.Const(kernel.TRUE_EQ_FALSE_OF_FALSE), absurd)
	case INJECTION:
		ctor, nparams, _ := p.ctx.ConstructorApp(proof.Lhs)
		inj, _ := p.ctx.Injection(ctor, proof.Field)
		argsA, argsB := expr.AppArgs(proof.Lhs), expr.AppArgs(proof.Rhs)
		//
		args := append([]*expr.Expr{}, argsA...)
		args = append(args, argsB[nparams:]...)
		args = append(args, p.mustProof(proof.Lhs, proof.Rhs, false))
		//
		return expr.Apps(expr.Const(inj), args...)
	case SUBSINGLETON_HELIM:
		tyA, tyB := p.mustInfer(proof.Lhs), p.mustInfer(proof.Rhs)
		inst := p.ctx.SubsingletonInstance(tyA).Unwrap()
		h := p.mustProof(tyA, tyB, false)
		//
		return expr.Apps(expr.Const(kernel.SUBSINGLETON_HELIM), tyA, tyB, inst, h, proof.Lhs, proof.Rhs)
	}
	//
	panic(fmt.Sprintf("unexpected proof kind %d", proof.Kind))
}

// Prove (e = true), where e is an application of a reflexive relation whose
// sides are equal.
func (p *Closure) eqTrueProof(e *expr.Expr) *expr.Expr {
	var (
		info, lhs, rhs, _ = p.relations.Match(e)
		args              = expr.AppArgs(e)
		h                 *expr.Expr
	)
	//
	switch {
	case expr.Equal(lhs, rhs):
		h = expr.Apps(expr.Const(info.Refl), args[:info.Lhs+1]...)
	case info.Name == expr.EQ:
		h = p.mustProof(lhs, rhs, false)
	case info.Name == expr.IFF:
		h = expr.Apps(expr.Const(kernel.IFF_OF_EQ), lhs, rhs, p.mustProof(lhs, rhs, false))
	default:
		// Rewrite the rhs of (R lhs lhs) using lhs = rhs.
		x := syntax.FreshLocal("x", p.mustInfer(lhs))
		motive := expr.LambdaOver([]*expr.Expr{x}, replaceArg(e, info.Rhs, x))
		refl := expr.Apps(expr.Const(info.Refl), args[:info.Lhs+1]...)
		h = expr.Apps(expr.Const(kernel.EQ_SUBST), p.mustInfer(lhs), motive, lhs, rhs, p.mustProof(lhs, rhs, false), refl)
	}
	//
	return expr.Apps(expr.Const(kernel.EQ_TRUE_INTRO), e, h)
}

// ============================================================================
// Congruence proofs
// ============================================================================

// Prove that two congruent applications are equal.
func (p *Closure) mkCongrProof(lhs *expr.Expr, rhs *expr.Expr, heq bool) *expr.Expr {
	if info, ok := p.symmRelation(lhs); ok {
		return p.mkSymmCongrProof(lhs, rhs, info)
	} else if p.state.entry(lhs).fo {
		return p.mkCongrProofCore(lhs, rhs, heq)
	}
	// Higher-order encoding
	if heq {
		return p.mkCongrProofCore(lhs, rhs, heq)
	}
	//
	f, a, g, b := lhs.Fn(), lhs.Arg(), rhs.Fn(), rhs.Arg()
	pi := p.ctx.Whnf(p.mustInfer(f))
	//
	return expr.Apps(expr.Const(kernel.CONGR), pi.Domain(), pi.Body(), f, g, a, b,
		p.mustProof(f, g, false), p.mustProof(a, b, false))
}

// Prove that two applications with equal heads and pairwise equal arguments
// are equal.
func (p *Closure) mkCongrProofCore(lhs *expr.Expr, rhs *expr.Expr, heq bool) *expr.Expr {
	var (
		fn1, fn2     = expr.AppFn(lhs), expr.AppFn(rhs)
		args1, args2 = expr.AppArgs(lhs), expr.AppArgs(rhs)
	)
	//
	if len(args1) != len(args2) {
		panic(fmt.Sprintf("incompatible applications %s and %s", lhs, rhs))
	}
	// (fn1 args1) ~ (fn1 args2)
	proof, isHeq := p.mkCongrLemmaProof(fn1, args1, args2)
	//
	if !expr.Equal(fn1, fn2) && !p.ctx.IsDefEq(fn1, fn2) {
		// Rewrite the head using fn1 = fn2
		var (
			fnTy   = p.mustInfer(fn1)
			x      = syntax.FreshLocal("f", fnTy)
			target *expr.Expr
		)
		//
		if isHeq {
			target = expr.HEq(p.mustInfer(lhs), lhs, p.mustInfer(rhs), expr.Apps(x, args2...))
		} else {
			target = expr.Eq(p.mustInfer(lhs), lhs, expr.Apps(x, args2...))
		}
		//
		motive := expr.LambdaOver([]*expr.Expr{x}, target)
		proof = expr.Apps(expr.Const(kernel.EQ_SUBST), fnTy, motive, fn1, fn2, p.mustProof(fn1, fn2, false), proof)
	}
	//
	switch {
	case heq && !isHeq:
		return p.toHeq(step{lhs, rhs, proof, false}).proof
	case !heq && isHeq:
		return expr.Apps(expr.Const(kernel.EQ_OF_HEQ), p.mustInfer(lhs), lhs, rhs, proof)
	}
	//
	return proof
}

// Instantiate a congruence lemma for a function, preferring the homogeneous
// lemma where it applies.
func (p *Closure) mkCongrLemmaProof(fn *expr.Expr, lhs []*expr.Expr, rhs []*expr.Expr) (*expr.Expr, bool) {
	if lemma := p.lemmas.CongrSimp(fn, len(lhs)); lemma.HasValue() && p.congrSimpApplies(lemma.Unwrap(), lhs, rhs) {
		return lemma.Unwrap().Instantiate(p.lemmaParams(lemma.Unwrap(), lhs, rhs, false)...), false
	} else if lemma := p.lemmas.HCongr(fn, len(lhs)); lemma.HasValue() {
		return lemma.Unwrap().Instantiate(p.lemmaParams(lemma.Unwrap(), lhs, rhs, true)...), true
	}
	//
	panic(fmt.Sprintf("no congruence lemma for %s", fn))
}

// The homogeneous lemma applies when fixed arguments coincide, and the
// remaining arguments have the same types.
func (p *Closure) congrSimpApplies(lemma *congr.Lemma, lhs []*expr.Expr, rhs []*expr.Expr) bool {
	for i, kind := range lemma.Kinds {
		if kind == congr.FIXED && !p.ctx.IsDefEq(lhs[i], rhs[i]) {
			return false
		} else if kind == congr.EQ && !p.sameType(lhs[i], rhs[i]) {
			return false
		}
	}
	//
	return true
}

func (p *Closure) lemmaParams(lemma *congr.Lemma, lhs []*expr.Expr, rhs []*expr.Expr, heq bool) []*expr.Expr {
	var params []*expr.Expr
	//
	for i, kind := range lemma.Kinds {
		if kind == congr.FIXED {
			params = append(params, lhs[i])
		} else {
			params = append(params, lhs[i], rhs[i], p.mustProof(lhs[i], rhs[i], heq))
		}
	}
	//
	return params
}

// Prove that two congruent applications of a symmetric relation are equal,
// where the sides may be swapped.
func (p *Closure) mkSymmCongrProof(lhs *expr.Expr, rhs *expr.Expr, info relation.Info) *expr.Expr {
	var (
		args1 = expr.AppArgs(lhs)
		args2 = expr.AppArgs(rhs)
	)
	//
	if p.IsEqv(args1[info.Lhs], args2[info.Lhs]) && p.IsEqv(args1[info.Rhs], args2[info.Rhs]) {
		return p.mkCongrProofCore(lhs, rhs, false)
	}
	// lhs = swapped, by congruence, then swapped = rhs, by symmetry
	swapped := swapSides(rhs, info)
	h2 := p.mkSymmSwapProof(swapped, rhs, info)
	//
	if expr.Equal(lhs, swapped) {
		return h2
	}
	//
	h1 := p.mkCongrProofCore(lhs, swapped, false)
	//
	return expr.Apps(expr.Const(kernel.EQ_TRANS), expr.Prop(), lhs, swapped, rhs, h1, h2)
}

// Prove (R a b) = (R b a) for a symmetric relation R, by propositional
// extensionality.
func (p *Closure) mkSymmSwapProof(e1 *expr.Expr, e2 *expr.Expr, info relation.Info) *expr.Expr {
	var (
		h1 = syntax.FreshLocal("h", e1)
		h2 = syntax.FreshLocal("h", e2)
		a1 = expr.AppArgs(e1)
		a2 = expr.AppArgs(e2)
	)
	//
	mp := expr.LambdaOver([]*expr.Expr{h1}, expr.Apps(expr.Const(info.Symm), append(a1[:len(a1):len(a1)], h1)...))
	mpr := expr.LambdaOver([]*expr.Expr{h2}, expr.Apps(expr.Const(info.Symm), append(a2[:len(a2):len(a2)], h2)...))
	iff := expr.Apps(expr.Const(kernel.IFF_INTRO), e1, e2, mp, mpr)
	//
	return expr.Apps(expr.Const(expr.PROPEXT), e1, e2, iff)
}

func (p *Closure) mustInfer(e *expr.Expr) *expr.Expr {
	ty, err := p.ctx.Infer(e)
	if err != nil {
		panic(err.Error())
	}
	//
	return ty
}

// Exchange the last two arguments of an application.
func swapSides(e *expr.Expr, info relation.Info) *expr.Expr {
	args := append([]*expr.Expr{}, expr.AppArgs(e)...)
	args[info.Lhs], args[info.Rhs] = args[info.Rhs], args[info.Lhs]
	//
	return expr.Apps(expr.AppFn(e), args...)
}

// Replace a given argument of an application.
func replaceArg(e *expr.Expr, index int, arg *expr.Expr) *expr.Expr {
	args := append([]*expr.Expr{}, expr.AppArgs(e)...)
	args[index] = arg
	//
	return expr.Apps(expr.AppFn(e), args...)
}
