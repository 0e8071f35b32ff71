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
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-cclosure/pkg/util/collection/hash"
)

// Kind identifies the syntactic category of a term.
type Kind uint8

const (
	// VAR is a bound variable, using de Bruijn indices.
	VAR Kind = iota
	// SORT is either Prop or Type.
	SORT
	// CONST is a reference to a declaration in the environment.
	CONST
	// LOCAL is a free variable (hypothesis or fixed term) carrying its type.
	LOCAL
	// META is a metavariable carrying its type.
	META
	// APP is a binary application.
	APP
	// LAMBDA is a function abstraction.
	LAMBDA
	// PI is a dependent function type.
	PI
	// LIT is a numeral literal, evaluated in the BLS12-377 scalar field.
	LIT
)

// BinderInfo determines how the argument of a binder is supplied.
type BinderInfo uint8

const (
	// DEFAULT binders are supplied explicitly.
	DEFAULT BinderInfo = iota
	// IMPLICIT binders are inferred by unification.
	IMPLICIT
	// INST_IMPLICIT binders are inferred by instance resolution.
	//nolint:revive
	INST_IMPLICIT
)

// Expr is an immutable term.  Structural information (hash, loose bound
// variable range, occurrence flags) is computed once at construction.
type Expr struct {
	kind Kind
	// Identifier for CONST, LOCAL, META and binder names.
	name string
	// De Bruijn index for VAR, level for SORT.
	index uint
	info  BinderInfo
	// APP: function / argument.  LAMBDA & PI: domain / body.  LOCAL & META:
	// type / nil.
	left, right *Expr
	value       fr.Element
	// Cached structural data
	hash       uint64
	looseRange uint
	hasMeta    bool
	hasLocal   bool
}

// Kind returns the syntactic kind of this term.
func (e *Expr) Kind() Kind { return e.kind }

// Name returns the identifier of a constant, local, metavariable or binder.
func (e *Expr) Name() string { return e.name }

// Index returns the de Bruijn index of a bound variable.
func (e *Expr) Index() uint { return e.index }

// Level returns 0 for Prop and 1 for Type.
func (e *Expr) Level() uint { return e.index }

// Info returns the binder info of a lambda or pi.
func (e *Expr) Info() BinderInfo { return e.info }

// Fn returns the function of an application.
func (e *Expr) Fn() *Expr { return e.left }

// Arg returns the argument of an application.
func (e *Expr) Arg() *Expr { return e.right }

// Domain returns the domain of a lambda or pi.
func (e *Expr) Domain() *Expr { return e.left }

// Body returns the body of a lambda or pi, which may refer to VAR 0.
func (e *Expr) Body() *Expr { return e.right }

// Type returns the type of a local or metavariable.
func (e *Expr) Type() *Expr { return e.left }

// Value returns the field element denoted by a literal.
func (e *Expr) Value() fr.Element { return e.value }

// Hash returns the cached structural hash.
func (e *Expr) Hash() uint64 { return e.hash }

// HasLooseBVars checks whether any bound variable escapes this term.
func (e *Expr) HasLooseBVars() bool { return e.looseRange > 0 }

// LooseBVarRange returns one more than the largest loose de Bruijn index.
func (e *Expr) LooseBVarRange() uint { return e.looseRange }

// HasMeta checks whether a metavariable occurs in this term.
func (e *Expr) HasMeta() bool { return e.hasMeta }

// HasLocal checks whether a local occurs in this term.
func (e *Expr) HasLocal() bool { return e.hasLocal }

// IsBinding checks whether this is a lambda or pi.
func (e *Expr) IsBinding() bool { return e.kind == LAMBDA || e.kind == PI }

// Equals implements hash.Hasher.
func (e *Expr) Equals(other *Expr) bool { return Equal(e, other) }

var _ hash.Hasher[*Expr] = (*Expr)(nil)

// ============================================================================
// Constructors
// ============================================================================

var (
	prop   = mkSort(0)
	type0  = mkSort(1)
	vars  [32]*Expr
)

func init() {
	for i := range vars {
		vars[i] = mkVar(uint(i))
	}
}

// Var constructs a bound variable with the given de Bruijn index.
func Var(index uint) *Expr {
	if index < uint(len(vars)) {
		return vars[index]
	}
	//
	return mkVar(index)
}

func mkVar(index uint) *Expr {
	return &Expr{kind: VAR, index: index, hash: hash.Combine(uint64(VAR), uint64(index)), looseRange: index + 1}
}

func mkSort(level uint) *Expr {
	return &Expr{kind: SORT, index: level, hash: hash.Combine(uint64(SORT), uint64(level))}
}

// Prop returns the sort of propositions.
func Prop() *Expr { return prop }

// Type returns the sort of data types.
func Type() *Expr { return type0 }

// Const constructs a reference to a named declaration.
func Const(name string) *Expr {
	return &Expr{kind: CONST, name: name, hash: hash.Combine(uint64(CONST), hash.String(name))}
}

// Local constructs a free variable of the given type.  Locals are identified
// by name, hence callers must keep names unique within a problem.
func Local(name string, ty *Expr) *Expr {
	return &Expr{kind: LOCAL, name: name, left: ty, hash: hash.Combine(uint64(LOCAL), hash.String(name), ty.hash),
		hasMeta: ty.hasMeta, hasLocal: true}
}

// Meta constructs a metavariable of the given type.
func Meta(name string, ty *Expr) *Expr {
	return &Expr{kind: META, name: name, left: ty, hash: hash.Combine(uint64(META), hash.String(name), ty.hash),
		hasMeta: true, hasLocal: ty.hasLocal}
}

// App constructs the application of fn to arg.
func App(fn *Expr, arg *Expr) *Expr {
	return &Expr{kind: APP, left: fn, right: arg, hash: hash.Combine(uint64(APP), fn.hash, arg.hash),
		looseRange: max(fn.looseRange, arg.looseRange),
		hasMeta:    fn.hasMeta || arg.hasMeta, hasLocal: fn.hasLocal || arg.hasLocal}
}

// Apps applies fn to zero or more arguments, left to right.
func Apps(fn *Expr, args ...*Expr) *Expr {
	for _, arg := range args {
		fn = App(fn, arg)
	}
	//
	return fn
}

// Lambda constructs a function abstraction whose body refers to the bound
// variable via VAR 0.
func Lambda(name string, info BinderInfo, domain *Expr, body *Expr) *Expr {
	return mkBinding(LAMBDA, name, info, domain, body)
}

// Pi constructs a dependent function type whose body refers to the bound
// variable via VAR 0.
func Pi(name string, info BinderInfo, domain *Expr, body *Expr) *Expr {
	return mkBinding(PI, name, info, domain, body)
}

// Arrow constructs the non-dependent function type from domain to rng.
func Arrow(domain *Expr, rng *Expr) *Expr {
	return mkBinding(PI, "_", DEFAULT, domain, Lift(rng, 0, 1))
}

func mkBinding(kind Kind, name string, info BinderInfo, domain *Expr, body *Expr) *Expr {
	bodyRange := body.looseRange
	if bodyRange > 0 {
		bodyRange--
	}
	// Binder names and infos are irrelevant to the hash, as with equality.
	return &Expr{kind: kind, name: name, info: info, left: domain, right: body,
		hash:       hash.Combine(uint64(kind), domain.hash, body.hash),
		looseRange: max(domain.looseRange, bodyRange),
		hasMeta:    domain.hasMeta || body.hasMeta, hasLocal: domain.hasLocal || body.hasLocal}
}

// Lit constructs a numeral literal.
func Lit(value fr.Element) *Expr {
	bits := value.Bits()
	return &Expr{kind: LIT, value: value, hash: hash.Combine(uint64(LIT), bits[0], bits[1], bits[2], bits[3])}
}

// Num constructs a numeral literal from a machine integer.
func Num(n uint64) *Expr {
	var v fr.Element
	//
	v.SetUint64(n)
	//
	return Lit(v)
}

// LambdaOver abstracts the given locals (outermost first) over body.
func LambdaOver(locals []*Expr, body *Expr) *Expr {
	return bindOver(LAMBDA, locals, nil, body)
}

// PiOver abstracts the given locals (outermost first) over body.
func PiOver(locals []*Expr, body *Expr) *Expr {
	return bindOver(PI, locals, nil, body)
}

// PiOverInfo is PiOver with explicit binder infos per local.
func PiOverInfo(locals []*Expr, infos []BinderInfo, body *Expr) *Expr {
	return bindOver(PI, locals, infos, body)
}

func bindOver(kind Kind, locals []*Expr, infos []BinderInfo, body *Expr) *Expr {
	for i := len(locals) - 1; i >= 0; i-- {
		l := locals[i]
		info := DEFAULT
		//
		if infos != nil {
			info = infos[i]
		}
		//
		body = mkBinding(kind, BaseName(l.name), info, l.left, Abstract(body, l))
	}
	//
	return body
}

// BaseName strips the suffix of a generated name "base@n".
func BaseName(name string) string {
	if i := strings.IndexByte(name, '@'); i > 0 {
		return name[:i]
	}
	//
	return name
}

// ============================================================================
// Application spine
// ============================================================================

// AppFn returns the head of an application spine.
func AppFn(e *Expr) *Expr {
	for e.kind == APP {
		e = e.left
	}
	//
	return e
}

// AppNumArgs returns the number of arguments in an application spine.
func AppNumArgs(e *Expr) int {
	n := 0
	for ; e.kind == APP; e = e.left {
		n++
	}
	//
	return n
}

// AppArgs returns the arguments of an application spine, outermost last.
func AppArgs(e *Expr) []*Expr {
	args := make([]*Expr, AppNumArgs(e))
	//
	for i := len(args) - 1; i >= 0; i-- {
		args[i] = e.right
		e = e.left
	}
	//
	return args
}

// IsAppOf checks whether e is an application of the named constant to exactly
// nargs arguments.
func IsAppOf(e *Expr, name string, nargs int) bool {
	fn := AppFn(e)
	return fn.kind == CONST && fn.name == name && AppNumArgs(e) == nargs
}

// IsConstOf checks whether e is the named constant.
func IsConstOf(e *Expr, name string) bool {
	return e.kind == CONST && e.name == name
}
