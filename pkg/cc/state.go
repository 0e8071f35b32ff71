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
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/consensys/go-cclosure/pkg/expr"
	"github.com/consensys/go-cclosure/pkg/util/collection/hash"
)

// ProofKind identifies how an edge of the justification forest is proved.
type ProofKind uint8

const (
	// EXPLICIT edges carry a proof term.
	EXPLICIT ProofKind = iota
	// CONGRUENCE edges relate two congruent applications.
	CONGRUENCE
	// EQ_TRUE edges relate an application of a reflexive relation, whose
	// sides are equivalent, with true.
	EQ_TRUE
	// REFL edges relate definitionally equal terms.
	REFL
	// NO_CONFUSION edges relate true and false, following the merge of two
	// distinct values.
	NO_CONFUSION
	// INJECTION edges relate the fields of two equivalent applications of the
	// same constructor.
	INJECTION
	// SUBSINGLETON_HELIM edges relate elements of equivalent subsingleton
	// types.
	SUBSINGLETON_HELIM
)

// Proof justifies an edge.  Except for explicit proofs, the proof term is only
// constructed on demand.
type Proof struct {
	Kind ProofKind
	// Proof term for an explicit edge.
	Term *expr.Expr
	// Equivalent terms from which NO_CONFUSION and INJECTION proofs are built,
	// or the two elements of a SUBSINGLETON_HELIM edge.
	Lhs *expr.Expr
	Rhs *expr.Expr
	// Field index of an INJECTION edge.
	Field int
	// Heterogeneous proofs conclude a heq, rather than an eq.
	Heterogeneous bool
}

// IsMarker checks whether this proof is reconstructed from the endpoints of
// the edge it justifies, rather than from a term in a fixed orientation.
func (p *Proof) IsMarker() bool {
	return p.Kind == CONGRUENCE || p.Kind == EQ_TRUE || p.Kind == REFL
}

func (p *Proof) String() string {
	switch p.Kind {
	case EXPLICIT:
		return p.Term.String()
	case CONGRUENCE:
		return "<congr>"
	case EQ_TRUE:
		return "<eq_true>"
	case REFL:
		return "<refl>"
	case NO_CONFUSION:
		return fmt.Sprintf("<no_confusion %s %s>", p.Lhs, p.Rhs)
	case INJECTION:
		return fmt.Sprintf("<injection %s %s %d>", p.Lhs, p.Rhs, p.Field)
	default:
		return fmt.Sprintf("<subsingleton %s %s>", p.Lhs, p.Rhs)
	}
}

// Entry holds the class information for a registered term.
type Entry struct {
	// Next member in the circular list of this class.
	next *expr.Expr
	// Root of the class.
	root *expr.Expr
	// Root of the congruence class (applications only).
	cgRoot *expr.Expr
	// Edge towards the root, absent for the root itself.  The proof relates
	// this term with target, or target with this term when flipped.
	target  *expr.Expr
	proof   *Proof
	flipped bool
	// Members of classes merged with true or false are reported.
	toPropagate bool
	// Interpreted terms are abstract values.
	interpreted bool
	// Fully applied constructors.
	constructor bool
	// Some edge in this class is heterogeneous (roots only).
	heqProofs bool
	// Application encoded in first-order fashion, ignoring its partial
	// applications.
	fo bool
	// Number of members in this class (roots only).
	size uint
	// Last time a descendant of this term participated in a merge.
	mt uint
}

// Target returns the next term along the path to the root, and the proof
// justifying that edge.
func (p *Entry) Target() (*expr.Expr, *Proof, bool) {
	return p.target, p.proof, p.flipped
}

// State is a persistent snapshot of the closure.  All mutation goes through a
// Closure, and copying the state with Clone() is a constant time operation.
type State struct {
	entries         *immutable.SortedMap[*expr.Expr, Entry]
	parents         *immutable.SortedMap[*expr.Expr, *immutable.SortedMap[*expr.Expr, bool]]
	congruences     *immutable.SortedMap[congrKey, *expr.Expr]
	symmCongruences *immutable.SortedMap[symmKey, *expr.Expr]
	// Representative for each subsingleton type.
	subsingletonReprs *immutable.SortedMap[*expr.Expr, *expr.Expr]
	// Instances seen so far for each instance type.
	instImplicitReprs *immutable.SortedMap[*expr.Expr, []*expr.Expr]
	// Functions whose applications use the higher-order encoding.
	hoFns        *immutable.SortedMap[string, bool]
	config       Config
	frozen       bool
	inconsistent bool
	gmt          uint
}

// NewState constructs an empty closure state, holding only true and false.
func NewState(hoFns []string, config Config) *State {
	s := &State{
		entries:           immutable.NewSortedMap[*expr.Expr, Entry](expr.Comparer{}),
		parents:           immutable.NewSortedMap[*expr.Expr, *immutable.SortedMap[*expr.Expr, bool]](expr.Comparer{}),
		congruences:       immutable.NewSortedMap[congrKey, *expr.Expr](congrKeyComparer{}),
		symmCongruences:   immutable.NewSortedMap[symmKey, *expr.Expr](symmKeyComparer{}),
		subsingletonReprs: immutable.NewSortedMap[*expr.Expr, *expr.Expr](expr.Comparer{}),
		instImplicitReprs: immutable.NewSortedMap[*expr.Expr, []*expr.Expr](expr.Comparer{}),
		hoFns:             immutable.NewSortedMap[string, bool](nameComparer{}),
		config:            config,
	}
	//
	for _, name := range hoFns {
		s.hoFns = s.hoFns.Set(name, true)
	}
	//
	s.mkEntry(expr.True(), true, true, false)
	s.mkEntry(expr.False(), true, true, false)
	//
	return s
}

// Clone returns a snapshot of this state.  Subsequent changes to either state
// are not visible in the other.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// Config returns the configuration of this state.
func (s *State) Config() Config {
	return s.config
}

// AddHOFunction registers a function whose subsequently internalized
// applications use the higher-order encoding.
func (s *State) AddHOFunction(name string) {
	s.hoFns = s.hoFns.Set(name, true)
}

func (s *State) isHOFunction(name string) bool {
	_, ok := s.hoFns.Get(name)
	return ok
}

// Inconsistent checks whether true and false have been merged.
func (s *State) Inconsistent() bool {
	return s.inconsistent
}

// Frozen checks whether partitions have been frozen.
func (s *State) Frozen() bool {
	return s.frozen
}

// GlobalModTime returns the number of merges performed so far.
func (s *State) GlobalModTime() uint {
	return s.gmt
}

// Entry returns the class information of a registered term.
func (s *State) Entry(e *expr.Expr) (Entry, bool) {
	return s.entries.Get(e)
}

// IsRegistered checks whether a term has an entry.
func (s *State) IsRegistered(e *expr.Expr) bool {
	_, ok := s.entries.Get(e)
	return ok
}

// Root returns the root of a term's class.  Unregistered terms are their own
// root.
func (s *State) Root(e *expr.Expr) *expr.Expr {
	if n, ok := s.entries.Get(e); ok {
		return n.root
	}
	//
	return e
}

// Next returns the next member of a term's class.
func (s *State) Next(e *expr.Expr) *expr.Expr {
	if n, ok := s.entries.Get(e); ok {
		return n.next
	}
	//
	return e
}

// ModTime returns the last time a descendant of this term was merged.
func (s *State) ModTime(e *expr.Expr) uint {
	if n, ok := s.entries.Get(e); ok {
		return n.mt
	}
	//
	return 0
}

// IsCongruenceRoot checks whether a term represents its congruence class.
func (s *State) IsCongruenceRoot(e *expr.Expr) bool {
	if n, ok := s.entries.Get(e); ok {
		return expr.Equal(n.cgRoot, e)
	}
	//
	return true
}

// InSingletonClass checks whether a term is the only member of its class.
func (s *State) InSingletonClass(e *expr.Expr) bool {
	if n, ok := s.entries.Get(e); ok {
		return expr.Equal(n.next, e)
	}
	//
	return true
}

// InHeterogeneousClass checks whether some edge in a term's class is
// heterogeneous.
func (s *State) InHeterogeneousClass(e *expr.Expr) bool {
	if n, ok := s.entries.Get(s.Root(e)); ok {
		return n.heqProofs
	}
	//
	return false
}

// Size returns the number of members in a term's class.
func (s *State) Size(e *expr.Expr) uint {
	if n, ok := s.entries.Get(s.Root(e)); ok {
		return n.size
	}
	//
	return 1
}

// Members returns the members of a term's class, starting with the term.
func (s *State) Members(e *expr.Expr) []*expr.Expr {
	members := []*expr.Expr{e}
	//
	for it := s.Next(e); !expr.Equal(it, e); it = s.Next(it) {
		members = append(members, it)
	}
	//
	return members
}

// Roots returns the root of every class in term order, optionally skipping
// singleton classes.
func (s *State) Roots(nonSingletonOnly bool) []*expr.Expr {
	var roots []*expr.Expr
	//
	for it := s.entries.Iterator(); !it.Done(); {
		e, n, _ := it.Next()
		//
		if expr.Equal(n.root, e) && (!nonSingletonOnly || !expr.Equal(n.next, e)) {
			roots = append(roots, e)
		}
	}
	//
	return roots
}

// Parents returns the recorded parent occurrences of a term's root, along
// with whether each is indexed by the symmetric table.
func (s *State) Parents(e *expr.Expr) ([]*expr.Expr, []bool) {
	var (
		parents []*expr.Expr
		symm    []bool
	)
	//
	if ps, ok := s.parents.Get(s.Root(e)); ok {
		for it := ps.Iterator(); !it.Done(); {
			p, sym, _ := it.Next()
			parents = append(parents, p)
			symm = append(symm, sym)
		}
	}
	//
	return parents, symm
}

// CheckInvariant audits this state, returning a description of the first
// inconsistency found.
func (s *State) CheckInvariant() error {
	for it := s.entries.Iterator(); !it.Done(); {
		e, n, _ := it.Next()
		//
		if n.mt > s.gmt {
			return fmt.Errorf("modification time of %s exceeds global modification time", e)
		} else if expr.Equal(n.root, e) {
			if err := s.checkClass(e, n); err != nil {
				return err
			}
		}
	}
	//
	for it := s.congruences.Iterator(); !it.Done(); {
		k, e, _ := it.Next()
		//
		if n, ok := s.entries.Get(e); !ok || k.compare(s.mkCongrKey(e, n.fo)) != 0 {
			return fmt.Errorf("stale congruence table entry for %s", e)
		}
	}
	//
	for it := s.symmCongruences.Iterator(); !it.Done(); {
		k, e, _ := it.Next()
		//
		if k.compare(s.mkSymmKey(e, k.rel)) != 0 {
			return fmt.Errorf("stale symmetric congruence table entry for %s", e)
		}
	}
	//
	return nil
}

// Check the class of a given root.
func (s *State) checkClass(root *expr.Expr, n Entry) error {
	if n.target != nil {
		return fmt.Errorf("root %s has a target", root)
	}
	//
	size := uint(0)
	it := root
	//
	for {
		m, ok := s.entries.Get(it)
		//
		if !ok {
			return fmt.Errorf("member %s of class %s has no entry", it, root)
		} else if !expr.Equal(m.root, root) {
			return fmt.Errorf("member %s of class %s has root %s", it, root, m.root)
		} else if size++; size > n.size {
			return fmt.Errorf("class %s has more than %d members", root, n.size)
		}
		// Path to root must be acyclic
		steps := uint(0)
		//
		for p := m; p.target != nil; steps++ {
			if steps > n.size {
				return fmt.Errorf("path from %s does not reach root %s", it, root)
			}
			//
			p, _ = s.entries.Get(p.target)
		}
		//
		if it = m.next; expr.Equal(it, root) {
			break
		}
	}
	//
	if size != n.size {
		return fmt.Errorf("class %s has %d members, expected %d", root, size, n.size)
	}
	//
	return nil
}

// Freeze marks every root as interpreted and disables proof production.
func (s *State) freeze() {
	s.frozen = true
	//
	for it := s.entries.Iterator(); !it.Done(); {
		e, n, _ := it.Next()
		//
		if expr.Equal(n.root, e) && !n.interpreted {
			n.interpreted = true
			s.entries = s.entries.Set(e, n)
		}
	}
}

func (s *State) mkEntry(e *expr.Expr, toPropagate bool, interpreted bool, constructor bool) {
	s.entries = s.entries.Set(e, Entry{next: e, root: e, cgRoot: e, toPropagate: toPropagate,
		interpreted: interpreted, constructor: constructor, size: 1, mt: s.gmt})
}

func (s *State) entry(e *expr.Expr) Entry {
	n, ok := s.entries.Get(e)
	if !ok {
		panic(fmt.Sprintf("%s has not been internalized", e))
	}
	//
	return n
}

// ============================================================================
// Congruence keys
// ============================================================================

// Key for the congruence table, holding the roots of the relevant subterms of
// an application at the time the key was constructed.  First-order keys hold
// the roots of the head and of every argument.  Higher-order keys hold the
// roots of the function and the argument.
type congrKey struct {
	hash  uint64
	fo    bool
	roots []*expr.Expr
}

func (s *State) mkCongrKey(e *expr.Expr, fo bool) congrKey {
	var roots []*expr.Expr
	//
	if fo {
		roots = append(roots, s.Root(expr.AppFn(e)))
		//
		for _, arg := range expr.AppArgs(e) {
			roots = append(roots, s.Root(arg))
		}
	} else {
		roots = []*expr.Expr{s.Root(e.Fn()), s.Root(e.Arg())}
	}
	//
	return congrKey{hashRoots(roots...), fo, roots}
}

func (p congrKey) compare(other congrKey) int {
	switch {
	case p.hash != other.hash:
		return cmpUint64(p.hash, other.hash)
	case p.fo != other.fo:
		if p.fo {
			return 1
		}
		//
		return -1
	}
	//
	return compareRoots(p.roots, other.roots)
}

type congrKeyComparer struct{}

func (congrKeyComparer) Compare(a congrKey, b congrKey) int {
	return a.compare(b)
}

// Key for the symmetric congruence table.  The roots of both sides are held in
// term order, such that (R a b) and (R b a) have the same key.
type symmKey struct {
	hash   uint64
	rel    string
	lhs    *expr.Expr
	rhs    *expr.Expr
	params []*expr.Expr
}

func (s *State) mkSymmKey(e *expr.Expr, rel string) symmKey {
	var (
		fn     = expr.AppFn(e)
		args   = expr.AppArgs(e)
		params = []*expr.Expr{s.Root(fn)}
	)
	// Sides are always the last two arguments of a tabled relation
	lhs, rhs := s.Root(args[len(args)-2]), s.Root(args[len(args)-1])
	//
	if expr.Compare(lhs, rhs) > 0 {
		lhs, rhs = rhs, lhs
	}
	//
	for _, arg := range args[:len(args)-2] {
		params = append(params, s.Root(arg))
	}
	//
	h := hash.Combine(hash.String(rel), hashRoots(params...), lhs.Hash()^rhs.Hash())
	//
	return symmKey{h, rel, lhs, rhs, params}
}

func (p symmKey) compare(other symmKey) int {
	switch {
	case p.hash != other.hash:
		return cmpUint64(p.hash, other.hash)
	case p.rel != other.rel:
		if p.rel < other.rel {
			return -1
		}
		//
		return 1
	}
	//
	if c := expr.Compare(p.lhs, other.lhs); c != 0 {
		return c
	} else if c := expr.Compare(p.rhs, other.rhs); c != 0 {
		return c
	}
	//
	return compareRoots(p.params, other.params)
}

type symmKeyComparer struct{}

func (symmKeyComparer) Compare(a symmKey, b symmKey) int {
	return a.compare(b)
}

type nameComparer struct{}

func (nameComparer) Compare(a string, b string) int {
	return strings.Compare(a, b)
}

func hashRoots(roots ...*expr.Expr) uint64 {
	words := make([]uint64, len(roots))
	//
	for i, r := range roots {
		words[i] = r.Hash()
	}
	//
	return hash.Combine(words...)
}

func compareRoots(lhs []*expr.Expr, rhs []*expr.Expr) int {
	if len(lhs) != len(rhs) {
		return len(lhs) - len(rhs)
	}
	//
	for i := range lhs {
		if c := expr.Compare(lhs[i], rhs[i]); c != 0 {
			return c
		}
	}
	//
	return 0
}

func cmpUint64(a uint64, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	//
	return 0
}
