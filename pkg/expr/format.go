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
	"fmt"
	"strings"
)

// String renders a term in the S-expression syntax accepted by problem
// scripts.  Bound variables are named after their binders, with primes added
// to avoid capture.
func (e *Expr) String() string {
	var (
		buf   strings.Builder
		names []string
	)
	//
	format(&buf, e, &names)
	//
	return buf.String()
}

func format(buf *strings.Builder, e *Expr, names *[]string) {
	switch e.kind {
	case VAR:
		if n := len(*names); int(e.index) < n {
			buf.WriteString((*names)[n-1-int(e.index)])
		} else {
			fmt.Fprintf(buf, "#%d", e.index)
		}
	case SORT:
		if e.index == 0 {
			buf.WriteString("Prop")
		} else {
			buf.WriteString("Type")
		}
	case CONST:
		buf.WriteString(e.name)
	case LOCAL:
		buf.WriteString(BaseName(e.name))
	case META:
		buf.WriteString("?")
		buf.WriteString(e.name)
	case LIT:
		buf.WriteString(e.value.Text(10))
	case APP:
		formatApp(buf, e, names)
	case LAMBDA, PI:
		formatBinding(buf, e, names)
	}
}

// sugar maps relation heads to infix-style operators, with the arguments
// which are displayed.
var sugar = map[string]struct {
	op    string
	nargs int
	shown []int
}{
	EQ:  {"=", 3, []int{1, 2}},
	HEQ: {"==", 4, []int{1, 3}},
	IFF: {"<->", 2, []int{0, 1}},
	NE:  {"!=", 3, []int{1, 2}},
}

func formatApp(buf *strings.Builder, e *Expr, names *[]string) {
	fn := AppFn(e)
	args := AppArgs(e)
	//
	if fn.kind == CONST {
		if s, ok := sugar[fn.name]; ok && len(args) == s.nargs {
			buf.WriteString("(")
			buf.WriteString(s.op)
			//
			for _, i := range s.shown {
				buf.WriteString(" ")
				format(buf, args[i], names)
			}
			//
			buf.WriteString(")")
			//
			return
		}
	}
	//
	buf.WriteString("(")
	format(buf, fn, names)
	//
	for _, arg := range args {
		buf.WriteString(" ")
		format(buf, arg, names)
	}
	//
	buf.WriteString(")")
}

func formatBinding(buf *strings.Builder, e *Expr, names *[]string) {
	if e.kind == PI && !HasLooseBVar(e.right, 0) {
		buf.WriteString("(-> ")
		format(buf, e.left, names)
		buf.WriteString(" ")
		// The bound variable is unused but still occupies an index.
		*names = append(*names, "_")
		format(buf, e.right, names)
		*names = (*names)[:len(*names)-1]
		buf.WriteString(")")
		//
		return
	}
	//
	keyword := "fun"
	if e.kind == PI {
		keyword = "pi"
	}
	//
	name := freshName(e.name, *names)
	//
	fmt.Fprintf(buf, "(%s (%s ", keyword, name)
	format(buf, e.left, names)
	//
	switch e.info {
	case IMPLICIT:
		buf.WriteString(" implicit")
	case INST_IMPLICIT:
		buf.WriteString(" inst")
	}
	//
	buf.WriteString(") ")
	*names = append(*names, name)
	format(buf, e.right, names)
	*names = (*names)[:len(*names)-1]
	buf.WriteString(")")
}

func freshName(name string, names []string) string {
	if name == "" || name == "_" {
		name = "x"
	}
	//
	for {
		clash := false
		//
		for _, n := range names {
			if n == name {
				clash = true
				break
			}
		}
		//
		if !clash {
			return name
		}
		//
		name += "'"
	}
}
