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

	"github.com/benbjohnson/immutable"
	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/kernel"
	"github.com/consensys/go-cclosure/pkg/relation"
	"github.com/consensys/go-cclosure/pkg/util/collection/queue"
	"github.com/consensys/go-cclosure/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// Closure maintains the congruence closure of a set of asserted equalities
// within a given state.
type Closure struct {
	state     *State
	ctx       TypeContext
	relations RelationManager
	lemmas    CongrLemmaManager
	handler   PropagationHandler
	// Pending equalities, processed in order.
	todo *queue.Queue[todo]
}

// A pending equality.
type todo struct {
	lhs   *expr.Expr
	rhs   *expr.Expr
	proof *Proof
	heq   bool
}

// NewClosure constructs a closure operating over a given state.
func NewClosure(state *State, ctx TypeContext, relations RelationManager, lemmas CongrLemmaManager) *Closure {
	return &Closure{state, ctx, relations, lemmas, nil, queue.NewQueue[todo]()}
}

// State returns the state this closure operates over.
func (p *Closure) State() *State {
	return p.state
}

// SetPropagationHandler registers a handler to be notified of propositions
// merged with true or false.
func (p *Closure) SetPropagationHandler(handler PropagationHandler) {
	p.handler = handler
}

// FreezePartitions marks every root as an abstract value and disables proof
// production.  Terms containing metavariables can be internalized afterwards.
func (p *Closure) FreezePartitions() {
	p.state.freeze()
}

// Internalize registers a term and its subterms.  Toplevel propositions are
// reported to the propagation handler when merged with true or false.
func (p *Closure) Internalize(e *expr.Expr, toplevel bool) error {
	if e.HasLooseBVars() {
		return fmt.Errorf("cannot internalize open term %s", e)
	}
	//
	p.internalize(e, toplevel, toplevel)
	p.processTodo()
	//
	return nil
}

// Add asserts a proposition with a given proof.  Equalities, heterogeneous
// equalities and equivalences merge their sides.  Negations merge the negated
// proposition with false, and any other proposition is merged with true.
func (p *Closure) Add(prop *expr.Expr, proof *expr.Expr) error {
	if p.state.inconsistent {
		return nil
	} else if prop.HasLooseBVars() {
		return fmt.Errorf("cannot assert open term %s", prop)
	} else if !p.ctx.IsProp(prop) {
		return fmt.Errorf("%s is not a proposition", prop)
	}
	//
	if _, lhs, rhs, ok := expr.IsEq(prop); ok {
		p.internalize(lhs, false, false)
		p.internalize(rhs, false, false)
		p.pushTodo(lhs, rhs, explicit(proof, false), false)
	} else if _, lhs, _, rhs, ok := expr.IsHEq(prop); ok {
		p.internalize(lhs, false, false)
		p.internalize(rhs, false, false)
		p.pushTodo(lhs, rhs, explicit(proof, true), true)
	} else if lhs, rhs, ok := expr.IsIff(prop); ok {
		p.internalize(lhs, false, true)
		p.internalize(rhs, false, true)
		p.pushTodo(lhs, rhs, explicit(expr.Apps(expr.Const(expr.PROPEXT), lhs, rhs, proof), false), false)
	} else if q, ok := negation(prop); ok {
		p.internalize(q, true, true)
		p.pushTodo(q, expr.False(), explicit(expr.Apps(expr.Const(kernel.EQ_FALSE_INTRO), q, proof), false), false)
	} else {
		p.internalize(prop, true, true)
		p.pushTodo(prop, expr.True(), explicit(expr.Apps(expr.Const(kernel.EQ_TRUE_INTRO), prop, proof), false), false)
	}
	//
	p.processTodo()
	//
	return nil
}

// IsEqv checks whether two terms are known to be equal.
func (p *Closure) IsEqv(a *expr.Expr, b *expr.Expr) bool {
	if expr.Equal(a, b) {
		return true
	}
	//
	na, okA := p.state.entries.Get(a)
	nb, okB := p.state.entries.Get(b)
	//
	return okA && okB && expr.Equal(na.root, nb.root)
}

// IsNotEqv checks whether two terms are known to be distinct, i.e. their
// equality (in either orientation) is known to be false.
func (p *Closure) IsNotEqv(a *expr.Expr, b *expr.Expr) bool {
	tyA, errA := p.ctx.Infer(a)
	tyB, errB := p.ctx.Infer(b)
	//
	if errA != nil || errB != nil {
		return false
	}
	//
	candidates := []*expr.Expr{expr.HEq(tyA, a, tyB, b), expr.HEq(tyB, b, tyA, a)}
	//
	if p.ctx.IsDefEq(tyA, tyB) {
		candidates = append(candidates, expr.Eq(tyA, a, b), expr.Eq(tyA, b, a))
	}
	//
	for _, c := range candidates {
		if p.IsEqv(c, expr.False()) {
			return true
		}
	}
	//
	return false
}

// Proved checks whether a proposition is known to be true.
func (p *Closure) Proved(e *expr.Expr) bool {
	return p.IsEqv(e, expr.True())
}

// ============================================================================
// Internalization
// ============================================================================

func (p *Closure) internalize(e *expr.Expr, toplevel bool, toPropagate bool) {
	s := p.state
	//
	if (e.HasMeta() && !s.frozen) || s.IsRegistered(e) {
		return
	}
	//
	switch e.Kind() {
	case expr.VAR:
		panic("unreachable")
	case expr.SORT:
		return
	case expr.CONST, expr.LOCAL, expr.META, expr.LAMBDA:
		p.mkEntry(e, toPropagate, false)
	case expr.LIT:
		p.mkEntry(e, false, s.config.Values)
	case expr.PI:
		p.internalizePi(e, toplevel, toPropagate)
	case expr.APP:
		p.internalizeApp(e, toPropagate)
	}
}

func (p *Closure) internalizePi(e *expr.Expr, toplevel bool, toPropagate bool) {
	if expr.IsArrow(e) {
		if p.ctx.IsProp(e.Domain()) && p.ctx.IsProp(e.Body()) {
			p.internalize(e.Domain(), toplevel, true)
			p.internalize(e.Body(), toplevel, true)
		}
	} else if p.ctx.IsProp(e.Domain()) {
		p.internalize(e.Domain(), toplevel, true)
	}
	//
	if p.ctx.IsProp(e) {
		p.mkEntry(e, toPropagate, false)
	}
}

func (p *Closure) internalizeApp(e *expr.Expr, toPropagate bool) {
	var (
		head = expr.AppFn(e)
		args = expr.AppArgs(e)
	)
	// Connectives are registered, but never tabled
	if isConnective(e) {
		for _, arg := range args {
			p.internalize(arg, false, true)
		}
		//
		p.mkEntry(e, toPropagate, false)
		//
		return
	}
	//
	if info, ok := p.symmRelation(e); ok {
		for _, arg := range args {
			p.internalize(arg, false, info.Name == expr.IFF)
		}
		//
		p.mkEntry(e, toPropagate, false)
		//
		for _, arg := range args {
			p.addOccurrence(e, arg, true)
		}
		//
		p.addSymmCongruenceTable(e, info)
		//
		return
	}
	//
	if p.useHigherOrder(e) {
		p.internalize(e.Fn(), false, false)
		p.internalize(e.Arg(), false, false)
		p.mkEntry(e, toPropagate, false)
		p.addOccurrence(e, e.Fn(), false)
		p.addOccurrence(e, e.Arg(), false)
	} else {
		infos := p.binderInfos(head, args)
		//
		p.internalize(head, false, false)
		//
		for i, arg := range args {
			if p.state.config.IgnoreInstances && infos[i] == expr.INST_IMPLICIT {
				// Instances are not recursed into
				p.mkEntry(arg, false, false)
				p.propagateInstImplicit(arg)
			} else {
				p.internalize(arg, false, false)
			}
		}
		//
		p.mkEntry(e, toPropagate, false)
		p.setFirstOrder(e)
		p.addOccurrence(e, head, false)
		//
		for _, arg := range args {
			p.addOccurrence(e, arg, false)
		}
	}
	//
	p.addCongruenceTable(e)
	p.applySimpleEqvs(e)
}

// Check whether an application uses the higher-order encoding.  Dependent
// functions never do, as their partial applications cannot be related by
// congruence.
func (p *Closure) useHigherOrder(e *expr.Expr) bool {
	head := expr.AppFn(e)
	//
	if !p.state.config.AllHO && (head.Kind() != expr.CONST || !p.state.isHOFunction(head.Name())) {
		return false
	}
	//
	ty, err := p.ctx.Infer(e.Fn())
	if err != nil {
		return false
	}
	//
	return expr.IsArrow(p.ctx.Whnf(ty))
}

// Determine the binder info of each argument in an application.
func (p *Closure) binderInfos(fn *expr.Expr, args []*expr.Expr) []expr.BinderInfo {
	infos := make([]expr.BinderInfo, len(args))
	//
	ty, err := p.ctx.Infer(fn)
	if err != nil {
		return infos
	}
	//
	for i, arg := range args {
		pi := p.ctx.Whnf(ty)
		if pi.Kind() != expr.PI {
			break
		}
		//
		infos[i] = pi.Info()
		ty = expr.Instantiate(pi.Body(), arg)
	}
	//
	return infos
}

func (p *Closure) symmRelation(e *expr.Expr) (relation.Info, bool) {
	info, _, _, ok := p.relations.Match(e)
	//
	if !ok || !info.IsSymmetric() || info.Lhs != info.Arity-2 || info.Rhs != info.Arity-1 {
		return info, false
	}
	//
	return info, true
}

func (p *Closure) mkEntry(e *expr.Expr, toPropagate bool, interpreted bool) {
	if p.state.IsRegistered(e) {
		return
	}
	//
	_, _, constructor := p.ctx.ConstructorApp(e)
	p.state.mkEntry(e, toPropagate && p.ctx.IsProp(e), interpreted, constructor)
	p.processSubsingletonElem(e)
}

func (p *Closure) setFirstOrder(e *expr.Expr) {
	n := p.state.entry(e)
	n.fo = true
	p.state.entries = p.state.entries.Set(e, n)
}

// Sorts and other unregistered children never change root, so are not
// recorded.
func (p *Closure) addOccurrence(parent *expr.Expr, child *expr.Expr, symm bool) {
	s := p.state
	//
	if !s.IsRegistered(child) {
		return
	}
	//
	root := s.Root(child)
	//
	ps, ok := s.parents.Get(root)
	if !ok {
		ps = immutable.NewSortedMap[*expr.Expr, bool](expr.Comparer{})
	}
	//
	s.parents = s.parents.Set(root, ps.Set(parent, symm))
}

func (p *Closure) addCongruenceTable(e *expr.Expr) {
	s := p.state
	n := s.entry(e)
	k := s.mkCongrKey(e, n.fo)
	//
	if old, ok := s.congruences.Get(k); ok && !expr.Equal(old, e) {
		n.cgRoot = old
		s.entries = s.entries.Set(e, n)
		p.pushTodo(e, old, &Proof{Kind: CONGRUENCE}, !p.sameType(e, old))
	} else {
		n.cgRoot = e
		s.entries = s.entries.Set(e, n)
		s.congruences = s.congruences.Set(k, e)
	}
}

func (p *Closure) addSymmCongruenceTable(e *expr.Expr, info relation.Info) {
	s := p.state
	n := s.entry(e)
	k := s.mkSymmKey(e, info.Name)
	//
	if old, ok := s.symmCongruences.Get(k); ok && !expr.Equal(old, e) {
		n.cgRoot = old
		s.entries = s.entries.Set(e, n)
		p.pushTodo(e, old, &Proof{Kind: CONGRUENCE}, false)
	} else {
		n.cgRoot = e
		s.entries = s.entries.Set(e, n)
		s.symmCongruences = s.symmCongruences.Set(k, e)
		p.checkEqTrue(e, info)
	}
}

// An application of a reflexive relation whose sides are equivalent is true.
func (p *Closure) checkEqTrue(e *expr.Expr, info relation.Info) {
	if !info.IsReflexive() || p.IsEqv(e, expr.True()) {
		return
	}
	//
	args := expr.AppArgs(e)
	//
	if p.IsEqv(args[info.Lhs], args[info.Rhs]) {
		p.pushTodo(e, expr.True(), &Proof{Kind: EQ_TRUE}, false)
	}
}

func (p *Closure) applySimpleEqvs(e *expr.Expr) {
	if expr.IsAppOf(e, expr.CAST, 4) {
		// (cast A B h a) == a
		args := expr.AppArgs(e)
		p.internalize(args[3], false, false)
		proof := expr.Apps(expr.Const(kernel.CAST_HEQ), args...)
		p.pushTodo(e, args[3], explicit(proof, true), true)
	}
	//
	if info, lhs, rhs, ok := p.relations.Match(e); ok && info.IsReflexive() && expr.Equal(lhs, rhs) {
		p.pushTodo(e, expr.True(), &Proof{Kind: EQ_TRUE}, false)
	}
}

// Merge elements of subsingleton types with the representative of their type.
func (p *Closure) processSubsingletonElem(e *expr.Expr) {
	s := p.state
	//
	ty, err := p.ctx.Infer(e)
	if err != nil || !p.ctx.SubsingletonInstance(ty).HasValue() {
		return
	}
	//
	p.internalize(ty, false, false)
	//
	for _, key := range []*expr.Expr{ty, s.Root(ty)} {
		if repr, ok := s.subsingletonReprs.Get(key); !ok {
			s.subsingletonReprs = s.subsingletonReprs.Set(key, e)
		} else if !expr.Equal(repr, e) {
			p.pushSubsingletonEq(e, repr)
		}
		//
		if expr.Equal(key, s.Root(ty)) {
			break
		}
	}
}

func (p *Closure) pushSubsingletonEq(a *expr.Expr, b *expr.Expr) {
	tyA, errA := p.ctx.Infer(a)
	tyB, errB := p.ctx.Infer(b)
	//
	if errA != nil || errB != nil {
		return
	} else if !p.ctx.IsDefEq(tyA, tyB) {
		p.pushTodo(a, b, &Proof{Kind: SUBSINGLETON_HELIM, Lhs: a, Rhs: b, Heterogeneous: true}, true)
	} else if inst := p.ctx.SubsingletonInstance(tyA); inst.HasValue() {
		proof := expr.Apps(expr.Const(kernel.SUBSINGLETON_ELIM), tyA, inst.Unwrap(), a, b)
		p.pushTodo(a, b, explicit(proof, false), false)
	}
}

// Representatives of subsingleton types must be merged when those types are.
func (p *Closure) checkNewSubsingletonEq(oldRoot *expr.Expr, newRoot *expr.Expr) {
	s := p.state
	//
	r1, ok := s.subsingletonReprs.Get(oldRoot)
	if !ok {
		return
	}
	//
	if r2, ok := s.subsingletonReprs.Get(newRoot); ok {
		p.pushSubsingletonEq(r1, r2)
	} else {
		s.subsingletonReprs = s.subsingletonReprs.Set(newRoot, r1)
	}
}

// Merge an instance with a definitionally equal instance of the same type.
func (p *Closure) propagateInstImplicit(e *expr.Expr) {
	s := p.state
	//
	ty, err := p.ctx.Infer(e)
	if err != nil {
		return
	}
	//
	insts, _ := s.instImplicitReprs.Get(ty)
	//
	for _, inst := range insts {
		if p.ctx.IsDefEq(inst, e) {
			if !expr.Equal(inst, e) {
				p.pushTodo(inst, e, &Proof{Kind: REFL}, false)
			}
			//
			return
		}
	}
	// Full slice expression forces a copy, leaving snapshots unaffected
	s.instImplicitReprs = s.instImplicitReprs.Set(ty, append(insts[:len(insts):len(insts)], e))
}

// ============================================================================
// Merging
// ============================================================================

func (p *Closure) pushTodo(lhs *expr.Expr, rhs *expr.Expr, proof *Proof, heq bool) {
	p.todo.Enqueue(todo{lhs, rhs, proof, heq})
}

func (p *Closure) processTodo() {
	for !p.todo.IsEmpty() {
		if p.state.inconsistent {
			p.todo.Clear()
			return
		}
		//
		t := p.todo.Dequeue()
		p.addEqvStep(t.lhs, t.rhs, t.proof, t.heq)
	}
}

func (p *Closure) addEqvStep(e1 *expr.Expr, e2 *expr.Expr, proof *Proof, heq bool) {
	s := p.state
	n1, ok1 := s.entries.Get(e1)
	n2, ok2 := s.entries.Get(e2)
	//
	if !ok1 || !ok2 || expr.Equal(n1.root, n2.root) {
		return
	}
	//
	r1, r2 := s.entry(n1.root), s.entry(n2.root)
	flipped := false
	// The root of e2 becomes the root of the merged class.
	if (r1.interpreted && !r2.interpreted) || (r1.constructor && !r2.interpreted) ||
		(r1.size > r2.size && !r2.interpreted && !r2.constructor) {
		e1, e2 = e2, e1
		n1, n2 = n2, n1
		r1, r2 = r2, r1
		flipped = true
	}
	//
	e1Root, e2Root := n1.root, n2.root
	valueInconsistency := r1.interpreted && r2.interpreted && e1Root.Kind() == expr.LIT && e2Root.Kind() == expr.LIT
	//
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("merge %s ~ %s (%s), root %s", e1, e2, proof, e2Root)
	}
	//
	s.gmt++
	p.removeParents(e1Root)
	p.invertTrans(e1)
	//
	n1 = s.entry(e1)
	n1.target, n1.proof, n1.flipped = e2, proof, flipped
	s.entries = s.entries.Set(e1, n1)
	// Move every member of the class of e1
	var (
		propagate   = expr.IsTrue(e2Root) || expr.IsFalse(e2Root)
		toPropagate []*expr.Expr
	)
	//
	for it := e1; ; {
		m := s.entry(it)
		//
		if propagate && m.toPropagate {
			toPropagate = append(toPropagate, it)
		}
		//
		m.root = e2Root
		m.mt = s.gmt
		s.entries = s.entries.Set(it, m)
		//
		if it = m.next; expr.Equal(it, e1) {
			break
		}
	}
	//
	p.reinsertParents(e1Root)
	// Splice membership lists
	r1, r2 = s.entry(e1Root), s.entry(e2Root)
	r1.next, r2.next = r2.next, r1.next
	r2.size += r1.size
	r2.heqProofs = r2.heqProofs || r1.heqProofs || heq
	r2.mt = s.gmt
	s.entries = s.entries.Set(e1Root, r1).Set(e2Root, r2)
	//
	p.mergeParents(e1Root, e2Root)
	//
	if (expr.IsTrue(e1Root) && expr.IsFalse(e2Root)) || (expr.IsFalse(e1Root) && expr.IsTrue(e2Root)) {
		log.Debug("inconsistency: true = false")
		//
		s.inconsistent = true
	}
	//
	if !s.inconsistent {
		if r1.constructor && r2.constructor {
			p.propagateConstructorEq(e1Root, e2Root)
		}
		//
		if valueInconsistency {
			p.pushTodo(expr.True(), expr.False(), &Proof{Kind: NO_CONFUSION, Lhs: e1Root, Rhs: e2Root}, false)
		}
		//
		p.checkNewSubsingletonEq(e1Root, e2Root)
		//
		if len(toPropagate) > 0 && p.handler != nil {
			p.handler.Propagated(toPropagate)
		}
	}
	//
	p.updateModTime(e2Root)
}

// Reverse the path from a term to its root, making the term the root of its
// own justification tree.
func (p *Closure) invertTrans(e *expr.Expr) {
	var (
		s           = p.state
		prevTarget  *expr.Expr
		prevProof   *Proof
		prevFlipped bool
	)
	//
	for it := e; it != nil; {
		n := s.entry(it)
		next, proof, flipped := n.target, n.proof, n.flipped
		n.target, n.proof, n.flipped = prevTarget, prevProof, prevFlipped
		s.entries = s.entries.Set(it, n)
		prevTarget, prevProof, prevFlipped = it, proof, !flipped
		it = next
	}
}

// Remove the parents of a root from the congruence tables, before the roots
// of their arguments change.
func (p *Closure) removeParents(root *expr.Expr) {
	s := p.state
	//
	ps, ok := s.parents.Get(root)
	if !ok {
		return
	}
	//
	for it := ps.Iterator(); !it.Done(); {
		parent, symm, _ := it.Next()
		//
		if parent.Kind() != expr.APP {
			continue
		} else if symm {
			k := s.mkSymmKey(parent, expr.AppFn(parent).Name())
			//
			if holder, ok := s.symmCongruences.Get(k); ok && expr.Equal(holder, parent) {
				s.symmCongruences = s.symmCongruences.Delete(k)
			}
		} else {
			k := s.mkCongrKey(parent, s.entry(parent).fo)
			//
			if holder, ok := s.congruences.Get(k); ok && expr.Equal(holder, parent) {
				s.congruences = s.congruences.Delete(k)
			}
		}
	}
}

// Reinsert the parents of a root into the congruence tables, discovering any
// new congruences.
func (p *Closure) reinsertParents(root *expr.Expr) {
	ps, ok := p.state.parents.Get(root)
	if !ok {
		return
	}
	//
	for it := ps.Iterator(); !it.Done(); {
		parent, symm, _ := it.Next()
		//
		if parent.Kind() != expr.APP {
			continue
		} else if !symm {
			p.addCongruenceTable(parent)
		} else if info, ok := p.relations.Relation(expr.AppFn(parent).Name()); ok {
			p.addSymmCongruenceTable(parent, info)
		}
	}
}

// Move the parents of an old root onto its new root.  Applications which are
// not congruence roots are dropped, as their congruence root stands for them.
func (p *Closure) mergeParents(oldRoot *expr.Expr, newRoot *expr.Expr) {
	s := p.state
	//
	ps1, ok := s.parents.Get(oldRoot)
	if !ok {
		return
	}
	//
	ps2, ok := s.parents.Get(newRoot)
	if !ok {
		ps2 = immutable.NewSortedMap[*expr.Expr, bool](expr.Comparer{})
	}
	//
	for it := ps1.Iterator(); !it.Done(); {
		parent, symm, _ := it.Next()
		//
		if parent.Kind() != expr.APP || s.IsCongruenceRoot(parent) {
			ps2 = ps2.Set(parent, symm)
		}
	}
	//
	s.parents = s.parents.Delete(oldRoot).Set(newRoot, ps2)
}

func (p *Closure) propagateConstructorEq(a *expr.Expr, b *expr.Expr) {
	ctorA, nparams, _ := p.ctx.ConstructorApp(a)
	ctorB, _, _ := p.ctx.ConstructorApp(b)
	//
	if !p.sameType(a, b) {
		return
	} else if ctorA != ctorB {
		log.Debugf("inconsistency: distinct constructors %s and %s", a, b)
		p.pushTodo(expr.True(), expr.False(), &Proof{Kind: NO_CONFUSION, Lhs: a, Rhs: b}, false)
		//
		return
	}
	//
	argsA, argsB := expr.AppArgs(a), expr.AppArgs(b)
	// Injectivity applies only to a common instance of an inductive family
	for i := 0; i < nparams; i++ {
		if !p.ctx.IsDefEq(argsA[i], argsB[i]) {
			return
		}
	}
	//
	for i := nparams; i < len(argsA); i++ {
		field := i - nparams
		//
		if _, ok := p.ctx.Injection(ctorA, field); ok && p.sameType(argsA[i], argsB[i]) {
			p.pushTodo(argsA[i], argsB[i], &Proof{Kind: INJECTION, Lhs: a, Rhs: b, Field: field}, false)
		}
	}
}

// Propagate the modification time of a root to every ancestor.
func (p *Closure) updateModTime(root *expr.Expr) {
	var (
		s        = p.state
		worklist = stack.NewStack[*expr.Expr]()
	)
	//
	worklist.Push(root)
	//
	for !worklist.IsEmpty() {
		ps, ok := s.parents.Get(s.Root(worklist.Pop()))
		if !ok {
			continue
		}
		//
		for it := ps.Iterator(); !it.Done(); {
			parent, _, _ := it.Next()
			//
			if n := s.entry(parent); n.mt < s.gmt {
				n.mt = s.gmt
				s.entries = s.entries.Set(parent, n)
				worklist.Push(parent)
			}
		}
	}
}

func (p *Closure) sameType(a *expr.Expr, b *expr.Expr) bool {
	tyA, errA := p.ctx.Infer(a)
	tyB, errB := p.ctx.Infer(b)
	//
	return errA != nil || errB != nil || p.ctx.IsDefEq(tyA, tyB)
}

func explicit(term *expr.Expr, heq bool) *Proof {
	return &Proof{Kind: EXPLICIT, Term: term, Heterogeneous: heq}
}

func isConnective(e *expr.Expr) bool {
	return expr.IsAppOf(e, expr.NOT, 1) || expr.IsAppOf(e, expr.AND, 2) || expr.IsAppOf(e, expr.OR, 2)
}

// Match a negated proposition, either (not p) or (ne a b).
func negation(e *expr.Expr) (*expr.Expr, bool) {
	if q, ok := expr.IsNot(e); ok {
		return q, true
	} else if ty, lhs, rhs, ok := expr.IsNe(e); ok {
		return expr.Eq(ty, lhs, rhs), true
	}
	//
	return nil, false
}
