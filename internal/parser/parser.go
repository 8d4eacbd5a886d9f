// Copyright 2018 The CUE Authors
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

// Package parser implements a hand-written recursive-descent parser for
// CEL source text, in the style of cuelang.org/go/cue/parser: a single
// entry point driving the scanner one token of lookahead at a time,
// building the AST directly with no intermediate parse tree. Binary
// operator precedence is handled by a cascade of mutually recursive
// methods (cue/parser's own shape for its expression grammar), and the
// macro table (has/all/exists/exists_one/map/filter) is expanded inline as
// each call is recognized, per §4.1.
package parser

import (
	"strconv"

	"github.com/kestrelcel/cel/internal/ast"
	"github.com/kestrelcel/cel/internal/errors"
	"github.com/kestrelcel/cel/internal/literal"
	"github.com/kestrelcel/cel/internal/scanner"
	"github.com/kestrelcel/cel/internal/token"
)

// ParseExpr parses a single CEL expression, the only production the
// grammar has (§4.1). It returns every diagnostic collected, not just the
// first, matching the rest of the pipeline's list-of-diagnostics style.
// When disableMacros is set, has/all/exists/exists_one/map/filter/optMap/
// optFlatMap are rejected as ordinary undeclared-macro errors instead of
// being expanded, for embedders that want the restricted predicate subset.
func ParseExpr(src string, disableMacros bool) (ast.Expr, error) {
	p := &parser{disableMacros: disableMacros}
	p.scanner.Init(src, func(pos token.Position, msg string) {
		p.errs.Addf(pos, "%s", msg)
	})
	p.next()
	e := p.parseExpr()
	if p.tok != token.EOF {
		p.errorf("unexpected trailing input at %s", p.tok)
	}
	if err := p.errs.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

type parser struct {
	scanner       scanner.Scanner
	errs          errors.List
	disableMacros bool

	pos token.Position
	tok token.Token
	lit string
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.scanner.Scan()
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.errs.Addf(p.pos, format, args...)
}

func (p *parser) expect(tok token.Token) token.Position {
	pos := p.pos
	if p.tok != tok {
		p.errorf("expected %s, found %s", tok, p.tok)
	}
	p.next()
	return pos
}

// parseExpr is the grammar's top production: `cond ? then : else`,
// right-associative, binding looser than everything else (§4.1).
func (p *parser) parseExpr() ast.Expr {
	pos := p.pos
	cond := p.parseConditionalOr()
	if p.tok != token.QUESTION {
		return cond
	}
	p.next()
	then := p.parseConditionalOr()
	p.expect(token.COLON)
	els := p.parseExpr()
	return &ast.Call{Base: ast.NewBase(pos), Fn: ast.OpTernary, Args: []ast.Expr{cond, then, els}}
}

func (p *parser) parseConditionalOr() ast.Expr {
	left := p.parseConditionalAnd()
	for p.tok == token.LOR {
		pos := p.pos
		p.next()
		right := p.parseConditionalAnd()
		left = &ast.Call{Base: ast.NewBase(pos), Fn: ast.OpOr, Args: []ast.Expr{left, right}}
	}
	return left
}

func (p *parser) parseConditionalAnd() ast.Expr {
	left := p.parseRelation()
	for p.tok == token.LAND {
		pos := p.pos
		p.next()
		right := p.parseRelation()
		left = &ast.Call{Base: ast.NewBase(pos), Fn: ast.OpAnd, Args: []ast.Expr{left, right}}
	}
	return left
}

// relOp maps a relational/equality/`in` token to its AST operator spelling.
// Relational operators are grammatically non-associative in CEL, but this
// parses left-to-right chains anyway (`a < b < c` becomes `(a<b)<c`) and
// lets evaluation surface the resulting type error, the same tolerance
// cue/parser's own binary-expression cascade gives ambiguous chains.
func relOp(tok token.Token) (string, bool) {
	switch tok {
	case token.EQL:
		return ast.OpEq, true
	case token.NEQ:
		return ast.OpNeq, true
	case token.LSS:
		return ast.OpLss, true
	case token.LEQ:
		return ast.OpLeq, true
	case token.GTR:
		return ast.OpGtr, true
	case token.GEQ:
		return ast.OpGeq, true
	case token.IN:
		return ast.OpIn, true
	}
	return "", false
}

func (p *parser) parseRelation() ast.Expr {
	left := p.parseAddition()
	for {
		op, ok := relOp(p.tok)
		if !ok {
			return left
		}
		pos := p.pos
		p.next()
		right := p.parseAddition()
		left = &ast.Call{Base: ast.NewBase(pos), Fn: op, Args: []ast.Expr{left, right}}
	}
}

func (p *parser) parseAddition() ast.Expr {
	left := p.parseMultiplication()
	for p.tok == token.ADD || p.tok == token.SUB {
		op := ast.OpAdd
		if p.tok == token.SUB {
			op = ast.OpSub
		}
		pos := p.pos
		p.next()
		right := p.parseMultiplication()
		left = &ast.Call{Base: ast.NewBase(pos), Fn: op, Args: []ast.Expr{left, right}}
	}
	return left
}

func (p *parser) parseMultiplication() ast.Expr {
	left := p.parseUnary()
	for p.tok == token.MUL || p.tok == token.QUO || p.tok == token.REM {
		var op string
		switch p.tok {
		case token.MUL:
			op = ast.OpMul
		case token.QUO:
			op = ast.OpDiv
		case token.REM:
			op = ast.OpMod
		}
		pos := p.pos
		p.next()
		right := p.parseUnary()
		left = &ast.Call{Base: ast.NewBase(pos), Fn: op, Args: []ast.Expr{left, right}}
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok {
	case token.NOT:
		pos := p.pos
		p.next()
		operand := p.parseUnary()
		return &ast.Call{Base: ast.NewBase(pos), Fn: ast.OpNot, Args: []ast.Expr{operand}}
	case token.SUB:
		pos := p.pos
		p.next()
		operand := p.parseUnary()
		return &ast.Call{Base: ast.NewBase(pos), Fn: ast.OpNeg, Args: []ast.Expr{operand}}
	}
	return p.parsePostfix()
}

// parsePostfix handles the left-recursive tail of the grammar: selects,
// optional selects, indices and calls chained onto a primary expression.
func (p *parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.tok {
		case token.PERIOD:
			pos := p.pos
			p.next()
			name := p.parseFieldName()
			if p.tok == token.LPAREN {
				e = p.parseMemberCall(pos, e, name)
			} else {
				e = &ast.Select{Base: ast.NewBase(pos), Operand: e, Field: name}
			}
		case token.OPT_DOT:
			pos := p.pos
			p.next()
			name := p.parseFieldName()
			e = &ast.Select{Base: ast.NewBase(pos), Operand: e, Field: name, Optional: true}
		case token.LBRACK:
			pos := p.pos
			p.next()
			key := p.parseExpr()
			p.expect(token.RBRACK)
			e = &ast.Call{Base: ast.NewBase(pos), Fn: ast.OpIndex, Args: []ast.Expr{e, key}}
		case token.OPT_IDX:
			pos := p.pos
			p.next()
			key := p.parseExpr()
			p.expect(token.RBRACK)
			e = &ast.Call{Base: ast.NewBase(pos), Fn: ast.OpOptIndex, Args: []ast.Expr{e, key}}
		default:
			return e
		}
	}
}

func (p *parser) parseFieldName() string {
	if p.tok != token.IDENT {
		p.errorf("expected field name, found %s", p.tok)
		return ""
	}
	name := p.lit
	p.next()
	return name
}

func (p *parser) parsePrimary() ast.Expr {
	pos := p.pos
	switch p.tok {
	case token.INT:
		lit := p.lit
		p.next()
		return p.parseIntLit(pos, lit)
	case token.UINT:
		lit := p.lit
		p.next()
		return p.parseUintLit(pos, lit)
	case token.FLOAT:
		lit := p.lit
		p.next()
		v, err := parseFloatLit(lit)
		if err != nil {
			p.errs.Addf(pos, "malformed float literal %q: %v", lit, err)
		}
		return &ast.DoubleLit{Base: ast.NewBase(pos), Value: v}
	case token.STRING:
		lit := p.lit
		p.next()
		return p.parseStringOrBytes(pos, lit)
	case token.TRUE:
		p.next()
		return &ast.BoolLit{Base: ast.NewBase(pos), Value: true}
	case token.FALSE:
		p.next()
		return &ast.BoolLit{Base: ast.NewBase(pos), Value: false}
	case token.NULL_LIT:
		p.next()
		return &ast.NullLit{Base: ast.NewBase(pos)}
	case token.IDENT:
		name := p.lit
		p.next()
		if p.tok == token.LPAREN {
			return p.parseFreeCall(pos, name)
		}
		if token.IsKeyword(name) || token.ReservedWords[name] {
			p.errorf("%q is a reserved word and cannot be used as an identifier", name)
		}
		if isReservedAccumulatorName(name) {
			p.errorf("identifier %q is reserved for macro expansion", name)
		}
		return &ast.Ident{Base: ast.NewBase(pos), Name: name}
	case token.LPAREN:
		p.next()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.LBRACK:
		return p.parseListLit(pos)
	case token.LBRACE:
		return p.parseMapLit(pos)
	}
	p.errorf("unexpected token %s", p.tok)
	p.next()
	return &ast.NullLit{Base: ast.NewBase(pos)}
}

func isReservedAccumulatorName(name string) bool {
	return len(name) > 4 && name[:2] == "__" && name[len(name)-2:] == "__"
}

// parseIntLit parses a decimal or 0x-hex int literal with strconv, the way
// parseFloatLit already does for floats, so an out-of-range literal (e.g.
// 9223372036854775808) is a parse error instead of a silent int64 overflow.
func (p *parser) parseIntLit(pos token.Position, lit string) ast.Expr {
	v, err := parseIntLiteralValue(lit)
	if err != nil {
		p.errs.Addf(pos, "malformed int literal %q: %v", lit, err)
	}
	return &ast.IntLit{Base: ast.NewBase(pos), Value: v}
}

func (p *parser) parseUintLit(pos token.Position, lit string) ast.Expr {
	// Strip the trailing u/U suffix before parsing the integer body.
	body := lit[:len(lit)-1]
	v, err := parseUintLiteralValue(body)
	if err != nil {
		p.errs.Addf(pos, "malformed uint literal %q: %v", lit, err)
	}
	return &ast.UintLit{Base: ast.NewBase(pos), Value: v}
}

func parseIntLiteralValue(lit string) (int64, error) {
	if len(lit) > 1 && (lit[1] == 'x' || lit[1] == 'X') {
		return strconv.ParseInt(lit[2:], 16, 64)
	}
	// Base 10, not base 0: a leading-zero decimal literal like "0123" is
	// decimal 123 in CEL, not Go's base-0 octal.
	return strconv.ParseInt(lit, 10, 64)
}

func parseUintLiteralValue(lit string) (uint64, error) {
	if len(lit) > 1 && (lit[1] == 'x' || lit[1] == 'X') {
		return strconv.ParseUint(lit[2:], 16, 64)
	}
	return strconv.ParseUint(lit, 10, 64)
}

func parseFloatLit(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}

// parseStringOrBytes decodes the scanner's raw STRING token text (quotes,
// prefix and all) into the right literal node, dispatching on the b/B and
// r/R prefixes the scanner leaves for the parser to interpret (§4.1).
func (p *parser) parseStringOrBytes(pos token.Position, raw string) ast.Expr {
	asBytes := false
	isRaw := false
	i := 0
	for i < len(raw) && (raw[i] == 'b' || raw[i] == 'B' || raw[i] == 'r' || raw[i] == 'R') {
		switch raw[i] {
		case 'b', 'B':
			asBytes = true
		case 'r', 'R':
			isRaw = true
		}
		i++
	}
	body := raw[i:]
	quote := rune(body[0])
	triple := len(body) >= 6 && body[1] == byte(quote) && body[2] == byte(quote)
	var inner string
	if triple {
		inner = body[3 : len(body)-3]
	} else {
		inner = body[1 : len(body)-1]
	}
	decoded, err := literal.Unquote(inner, quote, isRaw, asBytes)
	if err != nil {
		p.errs.Addf(pos, "invalid literal: %v", err)
		decoded = ""
	}
	if asBytes {
		return &ast.BytesLit{Base: ast.NewBase(pos), Value: []byte(decoded)}
	}
	return &ast.StringLit{Base: ast.NewBase(pos), Value: decoded}
}

func (p *parser) parseListLit(pos token.Position) ast.Expr {
	p.expect(token.LBRACK)
	var elems []ast.ListElem
	for p.tok != token.RBRACK && p.tok != token.EOF {
		optional := false
		if p.tok == token.QUESTION {
			optional = true
			p.next()
		}
		elems = append(elems, ast.ListElem{Value: p.parseExpr(), Optional: optional})
		if p.tok != token.COMMA {
			break
		}
		p.next()
	}
	p.expect(token.RBRACK)
	return &ast.CreateList{Base: ast.NewBase(pos), Elements: elems}
}

func (p *parser) parseMapLit(pos token.Position) ast.Expr {
	p.expect(token.LBRACE)
	var entries []ast.MapEntry
	for p.tok != token.RBRACE && p.tok != token.EOF {
		optional := false
		if p.tok == token.QUESTION {
			optional = true
			p.next()
		}
		key := p.parseExpr()
		p.expect(token.COLON)
		val := p.parseExpr()
		entries = append(entries, ast.MapEntry{Key: key, Value: val, Optional: optional})
		if p.tok != token.COMMA {
			break
		}
		p.next()
	}
	p.expect(token.RBRACE)
	return &ast.CreateMap{Base: ast.NewBase(pos), Entries: entries}
}

// parseFreeCall handles `name(args...)`, recognizing `has` as a macro and
// everything else as a plain function call.
func (p *parser) parseFreeCall(pos token.Position, name string) ast.Expr {
	args := p.parseArgList()
	if name == "has" {
		if p.disableMacros {
			p.errs.Addf(pos, "macros are disabled: has() is unavailable")
			return &ast.NullLit{Base: ast.NewBase(pos)}
		}
		return p.expandHas(pos, args)
	}
	return &ast.Call{Base: ast.NewBase(pos), Fn: name, Args: args}
}

// parseMemberCall handles `target.name(args...)`, recognizing the
// all/exists/exists_one/map/filter macros and falling back to a plain
// member function call.
func (p *parser) parseMemberCall(pos token.Position, target ast.Expr, name string) ast.Expr {
	args := p.parseArgList()
	switch name {
	case "all", "exists", "exists_one", "map", "filter":
		if p.disableMacros {
			p.errs.Addf(pos, "macros are disabled: %s() is unavailable", name)
			return &ast.NullLit{Base: ast.NewBase(pos)}
		}
		return p.expandComprehensionMacro(pos, name, target, args)
	case "optMap", "optFlatMap":
		if p.disableMacros {
			p.errs.Addf(pos, "macros are disabled: %s() is unavailable", name)
			return &ast.NullLit{Base: ast.NewBase(pos)}
		}
		return p.expandOptionalMacro(pos, name, target, args)
	}
	return &ast.Call{Base: ast.NewBase(pos), Fn: name, Target: target, Args: args}
}

func (p *parser) parseArgList() []ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseExpr())
		if p.tok != token.COMMA {
			break
		}
		p.next()
	}
	p.expect(token.RPAREN)
	return args
}

// expandHas implements `has(e.f)` → `Select(e, f, testOnly=true)` (§4.1).
// The argument must itself be a (non-test-only, non-optional) select.
func (p *parser) expandHas(pos token.Position, args []ast.Expr) ast.Expr {
	if len(args) != 1 {
		p.errs.Addf(pos, "has() takes exactly one argument")
		return &ast.NullLit{Base: ast.NewBase(pos)}
	}
	sel, ok := args[0].(*ast.Select)
	if !ok || sel.TestOnly || sel.Optional {
		p.errs.Addf(pos, "has() requires a field-select argument")
		return &ast.NullLit{Base: ast.NewBase(pos)}
	}
	return &ast.Select{Base: ast.NewBase(pos), Operand: sel.Operand, Field: sel.Field, TestOnly: true}
}

// notStrictlyFalseFn/notStrictlyTrueFn are the probe operator spellings
// all()/exists() loop conditions use (§4.1): "not decisively false" lets
// `all` keep folding through an error until a concrete false is found;
// "not decisively true" is the mirror for `exists`.
const (
	notStrictlyFalseFn = "@not_strictly_false"
	notStrictlyTrueFn  = "@not_strictly_true"
)

// expandComprehensionMacro lowers one of all/exists/exists_one/map/filter
// into the single Comprehension primitive, per the table in §4.1. The
// (k, v) two-variable form binds IterVar to the key/index and IterVar2 to
// the value/element.
func (p *parser) expandComprehensionMacro(pos token.Position, name string, target ast.Expr, args []ast.Expr) ast.Expr {
	iterVar, iterVar2, rest, ok := p.splitMacroVars(pos, name, args)
	if !ok {
		return &ast.NullLit{Base: ast.NewBase(pos)}
	}
	accu := ast.AccumulatorName
	switch name {
	case "all":
		if len(rest) != 1 {
			p.errs.Addf(pos, "all() takes exactly one predicate argument")
			return &ast.NullLit{Base: ast.NewBase(pos)}
		}
		pred := rest[0]
		return &ast.Comprehension{
			Base: ast.NewBase(pos), IterVar: iterVar, IterVar2: iterVar2, IterRange: target,
			AccuVar: accu, AccuInit: &ast.BoolLit{Value: true},
			LoopCondition: notStrictlyFalse(accu),
			LoopStep:      &ast.Call{Fn: ast.OpAnd, Args: []ast.Expr{identOf(accu), pred}},
			Result:        identOf(accu),
		}
	case "exists":
		if len(rest) != 1 {
			p.errs.Addf(pos, "exists() takes exactly one predicate argument")
			return &ast.NullLit{Base: ast.NewBase(pos)}
		}
		pred := rest[0]
		return &ast.Comprehension{
			Base: ast.NewBase(pos), IterVar: iterVar, IterVar2: iterVar2, IterRange: target,
			AccuVar: accu, AccuInit: &ast.BoolLit{Value: false},
			LoopCondition: notStrictlyTrue(accu),
			LoopStep:      &ast.Call{Fn: ast.OpOr, Args: []ast.Expr{identOf(accu), pred}},
			Result:        identOf(accu),
		}
	case "exists_one":
		if len(rest) != 1 {
			p.errs.Addf(pos, "exists_one() takes exactly one predicate argument")
			return &ast.NullLit{Base: ast.NewBase(pos)}
		}
		pred := rest[0]
		step := &ast.Call{
			Fn: ast.OpTernary,
			Args: []ast.Expr{
				pred,
				&ast.Call{Fn: ast.OpAdd, Args: []ast.Expr{identOf(accu), &ast.IntLit{Value: 1}}},
				identOf(accu),
			},
		}
		return &ast.Comprehension{
			Base: ast.NewBase(pos), IterVar: iterVar, IterVar2: iterVar2, IterRange: target,
			AccuVar: accu, AccuInit: &ast.IntLit{Value: 0},
			LoopCondition: &ast.BoolLit{Value: true},
			LoopStep:      step,
			Result:        &ast.Call{Fn: ast.OpEq, Args: []ast.Expr{identOf(accu), &ast.IntLit{Value: 1}}},
		}
	case "map":
		switch len(rest) {
		case 1:
			transform := rest[0]
			return &ast.Comprehension{
				Base: ast.NewBase(pos), IterVar: iterVar, IterVar2: iterVar2, IterRange: target,
				AccuVar: accu, AccuInit: &ast.CreateList{},
				LoopCondition: &ast.BoolLit{Value: true},
				LoopStep:      appendCall(accu, transform),
				Result:        identOf(accu),
			}
		case 2:
			filter, transform := rest[0], rest[1]
			return &ast.Comprehension{
				Base: ast.NewBase(pos), IterVar: iterVar, IterVar2: iterVar2, IterRange: target,
				AccuVar: accu, AccuInit: &ast.CreateList{},
				LoopCondition: &ast.BoolLit{Value: true},
				LoopStep: &ast.Call{Fn: ast.OpTernary, Args: []ast.Expr{
					filter, appendCall(accu, transform), identOf(accu),
				}},
				Result: identOf(accu),
			}
		}
		p.errs.Addf(pos, "map() takes a predicate+transform or a single transform argument")
		return &ast.NullLit{Base: ast.NewBase(pos)}
	case "filter":
		if len(rest) != 1 {
			p.errs.Addf(pos, "filter() takes exactly one predicate argument")
			return &ast.NullLit{Base: ast.NewBase(pos)}
		}
		pred := rest[0]
		return &ast.Comprehension{
			Base: ast.NewBase(pos), IterVar: iterVar, IterVar2: iterVar2, IterRange: target,
			AccuVar: accu, AccuInit: &ast.CreateList{},
			LoopCondition: &ast.BoolLit{Value: true},
			LoopStep: &ast.Call{Fn: ast.OpTernary, Args: []ast.Expr{
				pred, appendCall(accu, identOfIterVar(iterVar, iterVar2)), identOf(accu),
			}},
			Result: identOf(accu),
		}
	}
	p.errs.Addf(pos, "unknown macro %q", name)
	return &ast.NullLit{Base: ast.NewBase(pos)}
}

// splitMacroVars pulls the leading one or two bare-identifier binding
// arguments off a macro call's argument list, per the two-variable-form
// rule in §4.1.
func (p *parser) splitMacroVars(pos token.Position, name string, args []ast.Expr) (iterVar, iterVar2 string, rest []ast.Expr, ok bool) {
	if len(args) < 2 {
		p.errs.Addf(pos, "%s() requires a binding variable and a predicate/transform", name)
		return "", "", nil, false
	}
	id1, is1 := args[0].(*ast.Ident)
	if !is1 {
		p.errs.Addf(pos, "%s(): first argument must be a bare identifier", name)
		return "", "", nil, false
	}
	if len(args) >= 3 {
		if id2, is2 := args[1].(*ast.Ident); is2 {
			return id1.Name, id2.Name, args[2:], true
		}
	}
	return id1.Name, "", args[1:], true
}

func identOf(name string) ast.Expr { return &ast.Ident{Name: name} }

// identOfIterVar returns the loop value for filter()'s step: the
// two-variable value if present, else the single iteration variable.
func identOfIterVar(iterVar, iterVar2 string) ast.Expr {
	if iterVar2 != "" {
		return identOf(iterVar2)
	}
	return identOf(iterVar)
}

func appendCall(accu string, value ast.Expr) ast.Expr {
	return &ast.Call{Fn: ast.OpAdd, Args: []ast.Expr{identOf(accu), &ast.CreateList{Elements: []ast.ListElem{{Value: value}}}}}
}

func notStrictlyFalse(accu string) ast.Expr {
	return &ast.Call{Fn: notStrictlyFalseFn, Args: []ast.Expr{identOf(accu)}}
}

func notStrictlyTrue(accu string) ast.Expr {
	return &ast.Call{Fn: notStrictlyTrueFn, Args: []ast.Expr{identOf(accu)}}
}

// expandOptionalMacro lowers `target.optMap(v, transform)` and
// `target.optFlatMap(v, transform)` (§4.10) into a single-iteration
// Comprehension over `[target.value()]`, guarded by a ternary on
// `target.hasValue()` so `target.value()` is never evaluated on an empty
// optional. optMap wraps the transform result back in `optional.of`;
// optFlatMap's transform already returns an optional, so it is used as-is.
func (p *parser) expandOptionalMacro(pos token.Position, name string, target ast.Expr, args []ast.Expr) ast.Expr {
	if len(args) != 2 {
		p.errs.Addf(pos, "%s() takes a binding variable and a transform expression", name)
		return &ast.NullLit{Base: ast.NewBase(pos)}
	}
	v, ok := args[0].(*ast.Ident)
	if !ok {
		p.errs.Addf(pos, "%s(): first argument must be a bare identifier", name)
		return &ast.NullLit{Base: ast.NewBase(pos)}
	}
	transform := args[1]
	accu := ast.AccumulatorName
	none := &ast.Call{Fn: "none", Target: &ast.Ident{Name: "optional"}}
	step := transform
	if name == "optMap" {
		step = &ast.Call{Fn: "of", Target: &ast.Ident{Name: "optional"}, Args: []ast.Expr{transform}}
	}
	comp := &ast.Comprehension{
		Base:          ast.NewBase(pos),
		IterVar:       v.Name,
		IterRange:     &ast.CreateList{Elements: []ast.ListElem{{Value: &ast.Call{Fn: "value", Target: target}}}},
		AccuVar:       accu,
		AccuInit:      none,
		LoopCondition: &ast.BoolLit{Value: true},
		LoopStep:      step,
		Result:        identOf(accu),
	}
	return &ast.Call{
		Base: ast.NewBase(pos), Fn: ast.OpTernary,
		Args: []ast.Expr{&ast.Call{Fn: "hasValue", Target: target}, comp, none},
	}
}
