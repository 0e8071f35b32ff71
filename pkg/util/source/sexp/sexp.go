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
package sexp

import (
	"strings"
	"unicode"

	"github.com/consensys/go-cclosure/pkg/util/source"
)

// SExp is an S-Expression: either a List of zero or more S-Expressions, or a
// Symbol.  Each node remembers the span of text it was parsed from.
type SExp interface {
	// AsList checks whether this S-Expression is a list and, if
	// so, returns it.  Otherwise, it returns nil.
	AsList() *List
	// AsSymbol checks whether this S-Expression is a symbol and,
	// if so, returns it.  Otherwise, it returns nil.
	AsSymbol() *Symbol
	// Span returns the span of the original text covered by this node.
	Span() source.Span
	// String generates a string representation which may (may not) be quoted.
	String(quote bool) string
}

// ===================================================================
// List
// ===================================================================

// List represents a list of zero or more S-Expressions.
type List struct {
	Elements []SExp
	span     source.Span
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*List)(nil)

// NewList creates a new list from a given array of S-Expressions.
func NewList(elements []SExp, span source.Span) *List {
	return &List{elements, span}
}

// AsList returns the given list.
func (l *List) AsList() *List { return l }

// AsSymbol returns nil for a list.
func (l *List) AsSymbol() *Symbol { return nil }

// Span returns the span of text covered by this list.
func (l *List) Span() source.Span { return l.span }

// Len gets the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get the ith element of this list
func (l *List) Get(i int) SExp { return l.Elements[i] }

// Head returns the first element as a symbol, or the empty string if the list
// is empty or does not start with a symbol.
func (l *List) Head() string {
	if len(l.Elements) == 0 {
		return ""
	} else if s := l.Elements[0].AsSymbol(); s != nil {
		return s.Value
	}
	//
	return ""
}

func (l *List) String(quote bool) string {
	var s strings.Builder
	//
	s.WriteString("(")
	//
	for i := 0; i < len(l.Elements); i++ {
		if i != 0 {
			s.WriteString(" ")
		}

		s.WriteString(l.Elements[i].String(quote))
	}
	//
	s.WriteString(")")
	//
	return s.String()
}

// MatchSymbols matches a list which starts with at least n elements, of which
// the first m are symbols matching the given strings.
func (l *List) MatchSymbols(n int, symbols ...string) bool {
	if len(l.Elements) < n || len(symbols) > n {
		return false
	}

	for i := 0; i < len(symbols); i++ {
		switch ith := l.Elements[i].(type) {
		case *Symbol:
			if ith.Value != symbols[i] {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// ===================================================================
// Symbol
// ===================================================================

// Symbol represents a terminating symbol.
type Symbol struct {
	Value string
	span  source.Span
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*Symbol)(nil)

// NewSymbol creates a new symbol from a given string.
func NewSymbol(value string, span source.Span) *Symbol {
	return &Symbol{value, span}
}

// AsList returns nil for a Symbol.
func (s *Symbol) AsList() *List { return nil }

// AsSymbol returns the given symbol
func (s *Symbol) AsSymbol() *Symbol { return s }

// Span returns the span of text covered by this symbol.
func (s *Symbol) Span() source.Span { return s.span }

func (s *Symbol) String(quote bool) string {
	if quote && needsQuotes(s.Value) {
		return "\"" + s.Value + "\""
	}
	//
	return s.Value
}

func needsQuotes(s string) bool {
	for _, c := range s {
		if c == '(' || c == ')' || unicode.IsSpace(c) {
			return true
		}
	}
	//
	return false
}
