// Copyright 2020 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"fmt"
	"strings"

	"github.com/kestrelcel/cel/internal/ast"
	"github.com/kestrelcel/cel/internal/ir"
)

// Render produces a debug pseudo-source rendering of an IR tree, the form
// CompileResult.Source (§6.1) exposes to a caller that wants to see what a
// source string actually lowered to — including the fused qualified
// identifiers and the logical-operator temporaries that are invisible in
// the original source. Tagged with a DebugID so concurrently rendered
// programs compiled from identical source text are still distinguishable
// in a caller's own trace output.
func Render(n ir.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// compiled %s\n", DebugID())
	renderNode(&b, n)
	return b.String()
}

func renderNode(b *strings.Builder, n ir.Node) {
	switch x := n.(type) {
	case *ir.Lit:
		fmt.Fprintf(b, "%v", x.Value)
	case *ir.QualIdent:
		b.WriteString(strings.Join(x.Parts, "."))
	case *ir.Select:
		renderNode(b, x.Operand)
		if x.TestOnly {
			b.WriteString(".has(" + x.Field + ")")
		} else {
			b.WriteString("." + x.Field)
		}
	case *ir.OptSelect:
		renderNode(b, x.Operand)
		b.WriteString("?." + x.Field)
	case *ir.Index:
		renderNode(b, x.Operand)
		b.WriteString("[")
		renderNode(b, x.Key)
		b.WriteString("]")
	case *ir.OptIndex:
		renderNode(b, x.Operand)
		b.WriteString("?[")
		renderNode(b, x.Key)
		b.WriteString("]")
	case *ir.Unary:
		b.WriteString(x.Op[:len(x.Op)-1])
		renderNode(b, x.Operand)
	case *ir.LogicalAnd:
		renderBinary(b, "&&", x.Left, x.Right, x.TempL, x.TempR)
	case *ir.LogicalOr:
		renderBinary(b, "||", x.Left, x.Right, x.TempL, x.TempR)
	case *ir.Ternary:
		renderNode(b, x.Cond)
		b.WriteString(" ? ")
		renderNode(b, x.Then)
		b.WriteString(" : ")
		renderNode(b, x.Else)
	case *ir.CreateList:
		b.WriteString("[")
		for i, e := range x.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			renderNode(b, e.Value)
		}
		b.WriteString("]")
	case *ir.CreateMap:
		b.WriteString("{")
		for i, e := range x.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			renderNode(b, e.Key)
			b.WriteString(": ")
			renderNode(b, e.Value)
		}
		b.WriteString("}")
	case *ir.CreateStruct:
		b.WriteString(x.MessageName + "{")
		for i, e := range x.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Field + ": ")
			renderNode(b, e.Value)
		}
		b.WriteString("}")
	case *ir.Comprehension:
		fmt.Fprintf(b, "fold(%s in ", x.IterVar)
		renderNode(b, x.Range)
		b.WriteString(", ")
		renderNode(b, x.AccuInit)
		b.WriteString(", ")
		renderNode(b, x.Cond)
		b.WriteString(", ")
		renderNode(b, x.Step)
		b.WriteString(", ")
		renderNode(b, x.Result)
		b.WriteString(")")
	case *ir.Call:
		renderCall(b, x)
	default:
		b.WriteString("<?>")
	}
}

func renderBinary(b *strings.Builder, op string, left, right ir.Node, tempL, tempR string) {
	b.WriteString("(")
	fmt.Fprintf(b, "%s=", tempL)
	renderNode(b, left)
	b.WriteString(" " + op + " ")
	fmt.Fprintf(b, "%s=", tempR)
	renderNode(b, right)
	b.WriteString(")")
}

var infixSpelling = map[string]string{
	ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/", ast.OpMod: "%",
	ast.OpEq: "==", ast.OpNeq: "!=", ast.OpLss: "<", ast.OpLeq: "<=",
	ast.OpGtr: ">", ast.OpGeq: ">=", ast.OpIn: "in",
}

func renderCall(b *strings.Builder, c *ir.Call) {
	if op, ok := infixSpelling[c.Fn]; ok {
		renderNode(b, c.Args[0])
		b.WriteString(" " + op + " ")
		renderNode(b, c.Args[1])
		return
	}
	if c.Target != nil {
		renderNode(b, c.Target)
		b.WriteString(".")
	}
	b.WriteString(c.Fn + "(")
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		renderNode(b, a)
	}
	b.WriteString(")")
}
