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
	"strings"

	"github.com/consensys/go-cclosure/pkg/expr"
)

// FormatClass renders the members of a term's class, starting from the term
// itself.
func (s *State) FormatClass(e *expr.Expr) string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, m := range s.Members(e) {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(m.String())
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// FormatClasses renders every class, one per line.  Singleton classes are
// omitted when requested.
func (s *State) FormatClasses(nonSingletonOnly bool) string {
	var builder strings.Builder
	//
	for _, root := range s.Roots(nonSingletonOnly) {
		builder.WriteString(s.FormatClass(root))
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// FormatParents renders the parents recorded for the root of a term's class.
// Parents recorded for the symmetric congruence table are marked with *.
func (s *State) FormatParents(e *expr.Expr) string {
	var (
		builder       strings.Builder
		parents, symm = s.Parents(e)
	)
	//
	builder.WriteString("[")
	//
	for i, parent := range parents {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(parent.String())
		//
		if symm[i] {
			builder.WriteString("*")
		}
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
