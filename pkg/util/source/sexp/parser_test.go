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
	"testing"

	"github.com/consensys/go-cclosure/pkg/util/source"
)

func Test_SExp_01(t *testing.T) {
	checkParse(t, "abc", "abc")
}

func Test_SExp_02(t *testing.T) {
	checkParse(t, "(f a b)", "(f a b)")
}

func Test_SExp_03(t *testing.T) {
	checkParse(t, "  ( = (f a)\n\t b ) ; trailing", "(= (f a) b)")
}

func Test_SExp_04(t *testing.T) {
	checkParse(t, "()", "()")
}

func Test_SExp_05(t *testing.T) {
	checkParseAll(t, "(var a A) ; decl\n(hyp h (= a b))", "(var a A)", "(hyp h (= a b))")
}

func Test_SExp_06(t *testing.T) {
	checkParseAll(t, "")
	checkParseAll(t, "; only a comment")
}

func Test_SExp_Invalid_01(t *testing.T) {
	checkInvalid(t, "(f a", 1)
}

func Test_SExp_Invalid_02(t *testing.T) {
	checkInvalid(t, ")", 1)
}

func Test_SExp_Invalid_03(t *testing.T) {
	checkInvalid(t, "(a)\n(b))", 2)
}

func Test_SExp_Match_01(t *testing.T) {
	l := parseOne(t, "(hyp h (= a b))").AsList()
	//
	if l == nil || l.Head() != "hyp" || !l.MatchSymbols(3, "hyp") || l.MatchSymbols(3, "var") {
		t.Errorf("unexpected match on %s", l.String(false))
	}
}

func Test_SExp_Span_01(t *testing.T) {
	l := parseOne(t, "  (f  abc)").AsList()
	span := l.Get(1).Span()
	//
	if span.Start() != 6 || span.End() != 9 {
		t.Errorf("unexpected span %d:%d", span.Start(), span.End())
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func parseOne(t *testing.T, input string) SExp {
	term, err := Parse(source.NewSourceFile("test", []byte(input)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	//
	return term
}

func checkParse(t *testing.T, input string, expected string) {
	if actual := parseOne(t, input).String(false); actual != expected {
		t.Errorf("expected %s, got %s", expected, actual)
	}
}

func checkParseAll(t *testing.T, input string, expected ...string) {
	terms, err := ParseAll(source.NewSourceFile("test", []byte(input)))
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	} else if len(terms) != len(expected) {
		t.Fatalf("expected %d terms, got %d", len(expected), len(terms))
	}
	//
	for i, term := range terms {
		if term.String(false) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], term.String(false))
		}
	}
}

func checkInvalid(t *testing.T, input string, line int) {
	_, err := ParseAll(source.NewSourceFile("test", []byte(input)))
	//
	if err == nil {
		t.Fatalf("expected syntax error for %q", input)
	}
	//
	if l := err.FirstEnclosingLine(); l.Number() != line {
		t.Errorf("expected error on line %d, got %d", line, l.Number())
	}
}
