package parser

import (
	"github.com/shopspring/decimal"

	"polaris-hq/borealis/pkg/expr/ast"
	exprErrors "polaris-hq/borealis/pkg/expr/errors"
)

// Parse parses a catalog expression into its AST. Any syntax the dialect
// does not support is reported as an *errors.RejectedError identifying the
// offending construct; the caller decides whether that aborts a single rule
// or the whole request.
func Parse(src string) (*ast.Node, error) {
	lx := &lexer{src: src}
	var toks []token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}

	p := &parser{src: src, toks: toks}
	node, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		t := p.peek()
		return nil, exprErrors.Reject("unexpected trailing input", t.text, t.pos)
	}
	return node, nil
}

// parser is a hand-written recursive-descent parser over the pre-lexed
// token stream. Precedence, loosest first:
//
//	?:  ||  &&  comparisons  + -  * /  unary - !  postfix . ()  primary
type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) advance() token {
	t := p.toks[p.i]
	if p.toks[p.i].kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) atEOF() bool { return p.peek().kind == tokEOF }

func (p *parser) acceptPunct(text string) bool {
	t := p.peek()
	if t.kind == tokPunct && t.text == text {
		p.i++
		return true
	}
	return false
}

func (p *parser) expectPunct(text string) error {
	if p.acceptPunct(text) {
		return nil
	}
	t := p.peek()
	return exprErrors.Reject("expected "+quoted(text), t.text, t.pos)
}

func quoted(s string) string { return "'" + s + "'" }

// conditional parses cond ? then : else. The then and else branches
// recurse, which gives nested ternaries the right associativity:
// a ? b : c ? d : e groups as a ? b : (c ? d : e).
func (p *parser) conditional() (*ast.Node, error) {
	cond, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.acceptPunct("?") {
		return cond, nil
	}
	then, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	els, err := p.conditional()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindConditional, Cond: cond, Then: then, Else: els, Pos: cond.Pos}, nil
}

func (p *parser) logicalOr() (*ast.Node, error) {
	left, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptPunct("||") {
		right, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindLogical, Op: ast.OpOr, Left: left, Right: right, Pos: left.Pos}
	}
	return left, nil
}

func (p *parser) logicalAnd() (*ast.Node, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.acceptPunct("&&") {
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindLogical, Op: ast.OpAnd, Left: left, Right: right, Pos: left.Pos}
	}
	return left, nil
}

var compareOps = map[string]ast.Op{
	"==": ast.OpEq, "!=": ast.OpNe,
	"<": ast.OpLt, ">": ast.OpGt, "<=": ast.OpLe, ">=": ast.OpGe,
}

// comparison parses a chain such as a < b <= c into a single compare node.
// A chain holds only if every adjacent link holds, evaluated left to right.
func (p *parser) comparison() (*ast.Node, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	var ops []ast.Op
	var comparators []*ast.Node
	for {
		t := p.peek()
		op, ok := ast.Op(""), false
		if t.kind == tokPunct {
			op, ok = compareOps[t.text]
		}
		if !ok {
			break
		}
		p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comparators = append(comparators, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &ast.Node{Kind: ast.KindCompare, Left: left, Ops: ops, Comparators: comparators, Pos: left.Pos}, nil
}

func (p *parser) additive() (*ast.Node, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch {
		case p.acceptPunct("+"):
			op = ast.OpAdd
		case p.acceptPunct("-"):
			op = ast.OpSub
		default:
			return left, nil
		}
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindBinary, Op: op, Left: left, Right: right, Pos: left.Pos}
	}
}

func (p *parser) multiplicative() (*ast.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch {
		case p.acceptPunct("*"):
			op = ast.OpMul
		case p.acceptPunct("/"):
			op = ast.OpDiv
		default:
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindBinary, Op: op, Left: left, Right: right, Pos: left.Pos}
	}
}

func (p *parser) unary() (*ast.Node, error) {
	t := p.peek()
	if t.kind == tokPunct && (t.text == "-" || t.text == "!") {
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		op := ast.OpNeg
		if t.text == "!" {
			op = ast.OpNot
		}
		return &ast.Node{Kind: ast.KindUnary, Op: op, X: operand, Pos: t.pos}, nil
	}
	return p.postfix()
}

// postfix parses dotted attribute access and call argument lists. The
// parser is permissive here; the evaluator enforces that attributes hang
// off allow-listed root names only and that calls target bare names.
func (p *parser) postfix() (*ast.Node, error) {
	node, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.acceptPunct("."):
			t := p.peek()
			if t.kind != tokIdent {
				return nil, exprErrors.Reject("expected attribute name after '.'", t.text, t.pos)
			}
			p.advance()
			node = &ast.Node{Kind: ast.KindAttr, X: node, Name: t.text, Pos: node.Pos}
		case p.acceptPunct("("):
			var args []*ast.Node
			if !p.acceptPunct(")") {
				for {
					arg, err := p.conditional()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.acceptPunct(",") {
						continue
					}
					if err := p.expectPunct(")"); err != nil {
						return nil, err
					}
					break
				}
			}
			node = &ast.Node{Kind: ast.KindCall, X: node, Elems: args, Pos: node.Pos}
		default:
			return node, nil
		}
	}
}

func (p *parser) primary() (*ast.Node, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.advance()
		d, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, exprErrors.Reject("malformed number literal", t.text, t.pos)
		}
		return &ast.Node{Kind: ast.KindLiteral, Literal: d, Pos: t.pos}, nil

	case tokString:
		p.advance()
		return &ast.Node{Kind: ast.KindLiteral, Literal: t.text, Pos: t.pos}, nil

	case tokIdent:
		p.advance()
		switch t.text {
		case "null":
			return &ast.Node{Kind: ast.KindLiteral, Literal: nil, Pos: t.pos}, nil
		case "true":
			return &ast.Node{Kind: ast.KindLiteral, Literal: true, Pos: t.pos}, nil
		case "false":
			return &ast.Node{Kind: ast.KindLiteral, Literal: false, Pos: t.pos}, nil
		}
		return &ast.Node{Kind: ast.KindName, Name: t.text, Pos: t.pos}, nil

	case tokPunct:
		switch t.text {
		case "(":
			p.advance()
			node, err := p.conditional()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return node, nil
		case "[":
			p.advance()
			return p.listLiteral(t.pos)
		case "{":
			p.advance()
			return p.objectLiteral(t.pos)
		}
	}
	return nil, exprErrors.Reject("unexpected token", t.text, t.pos)
}

func (p *parser) listLiteral(pos int) (*ast.Node, error) {
	var elems []*ast.Node
	if !p.acceptPunct("]") {
		for {
			elem, err := p.conditional()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if p.acceptPunct(",") {
				continue
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			break
		}
	}
	return &ast.Node{Kind: ast.KindList, Elems: elems, Pos: pos}, nil
}

// objectLiteral parses {'key': value, ...}. Keys are string literals or
// bare identifiers.
func (p *parser) objectLiteral(pos int) (*ast.Node, error) {
	var entries []ast.Entry
	if !p.acceptPunct("}") {
		for {
			t := p.peek()
			if t.kind != tokString && t.kind != tokIdent {
				return nil, exprErrors.Reject("expected object key", t.text, t.pos)
			}
			p.advance()
			if err := p.expectPunct(":"); err != nil {
				return nil, err
			}
			val, err := p.conditional()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.Entry{Key: t.text, Value: val})
			if p.acceptPunct(",") {
				continue
			}
			if err := p.expectPunct("}"); err != nil {
				return nil, err
			}
			break
		}
	}
	return &ast.Node{Kind: ast.KindObject, Entries: entries, Pos: pos}, nil
}
