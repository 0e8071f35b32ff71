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
	"unicode"

	"github.com/consensys/go-cclosure/pkg/util/source"
)

// Parse a given file into exactly one S-expression, or return an error if the
// text is malformed.
func Parse(srcfile *source.File) (SExp, *source.SyntaxError) {
	p := NewParser(srcfile)
	// Parse the input
	sExp, err := p.Parse()
	// Sanity check everything was parsed
	if err == nil {
		p.SkipWhiteSpace()
		//
		if p.index != len(p.text) {
			return nil, p.error("unexpected remainder")
		}
	}
	//
	return sExp, err
}

// ParseAll converts a given file into zero or more S-expressions, or returns
// an error if the text is malformed.
func ParseAll(srcfile *source.File) ([]SExp, *source.SyntaxError) {
	p := NewParser(srcfile)
	//
	terms := make([]SExp, 0)
	//
	for {
		term, err := p.Parse()
		//
		if err != nil {
			return terms, err
		} else if term == nil {
			// EOF reached
			return terms, nil
		}

		terms = append(terms, term)
	}
}

// Parser represents a parser in the process of parsing a given string into one
// or more S-expressions.
type Parser struct {
	// Source file being parsed
	srcfile *source.File
	// Cache (for simplicity)
	text []rune
	// Determine current position within text
	index int
}

// NewParser constructs a new instance of Parser
func NewParser(srcfile *source.File) *Parser {
	return &Parser{
		srcfile: srcfile,
		text:    srcfile.Contents(),
		index:   0,
	}
}

// Parse the next S-Expression, returning nil at end-of-file.
func (p *Parser) Parse() (SExp, *source.SyntaxError) {
	// Skip over any whitespace.  This is important to get the correct starting
	// point for this term.
	p.SkipWhiteSpace()
	// Record start of this term
	start := p.index
	// Extract next token from the stream
	token := p.Next()
	//
	switch {
	case token == nil:
		return nil, nil
	case len(token) == 1 && token[0] == ')':
		p.index-- // backup
		return nil, p.error("unexpected end-of-list")
	case len(token) == 1 && token[0] == '(':
		elements, err := p.parseSequence(')')
		// Check for error
		if err != nil {
			return nil, err
		}
		//
		return NewList(elements, source.NewSpan(start, p.index)), nil
	}
	// Must be a symbol
	return NewSymbol(string(token), source.NewSpan(start, p.index)), nil
}

// Next extracts the next token from a given string.
func (p *Parser) Next() []rune {
	// Skip any whitespace and/or comments.
	p.SkipWhiteSpace()
	// Catch end-of-file
	if p.index == len(p.text) {
		return nil
	}
	//
	switch p.text[p.index] {
	case '(', ')':
		p.index = p.index + 1
		return p.text[p.index-1 : p.index]
	}
	// Symbol
	return p.parseSymbol()
}

// SkipWhiteSpace skips over any whitespace, including comments.
func (p *Parser) SkipWhiteSpace() {
	for p.index < len(p.text) && (unicode.IsSpace(p.text[p.index]) || p.text[p.index] == ';') {
		if p.text[p.index] == ';' {
			i := len(p.text)
			//
			for j := p.index; j < i; j++ {
				if p.text[j] == '\n' {
					i = j + 1
					break
				}
			}
			// Skip comment
			p.index = i
		} else {
			p.index++
		}
	}
}

// Lookahead and see what punctuation is next, skipping whitespace and
// comments.
func (p *Parser) Lookahead() *rune {
	saved := p.index
	p.SkipWhiteSpace()
	pos := p.index
	p.index = saved
	//
	if pos < len(p.text) && (p.text[pos] == '(' || p.text[pos] == ')') {
		r := p.text[pos]
		return &r
	}
	//
	return nil
}

func (p *Parser) parseSymbol() []rune {
	i := len(p.text)
	//
	for j := p.index; j < i; j++ {
		c := p.text[j]
		if c == '(' || c == ')' || c == ';' || unicode.IsSpace(c) {
			i = j
			break
		}
	}
	// Reached end of token
	token := p.text[p.index:i]
	p.index = i
	//
	return token
}

func (p *Parser) parseSequence(terminator rune) ([]SExp, *source.SyntaxError) {
	var elements []SExp
	//
	for c := p.Lookahead(); c == nil || *c != terminator; c = p.Lookahead() {
		element, err := p.Parse()
		//
		if err != nil {
			return nil, err
		} else if element == nil {
			return nil, p.error("unexpected end-of-file")
		}
		//
		elements = append(elements, element)
	}
	// Consume terminator
	p.Next()
	//
	return elements, nil
}

// Construct a parser error at the current position in the input stream.
func (p *Parser) error(msg string) *source.SyntaxError {
	end := min(p.index+1, len(p.text))
	start := min(p.index, end)
	//
	return p.srcfile.SyntaxError(source.NewSpan(start, end), msg)
}
