package parser

import (
	"strconv"

	"github.com/cwbudde/ibscript/internal/ast"
	"github.com/cwbudde/ibscript/internal/langerr"
	"github.com/cwbudde/ibscript/internal/lexer"
)

// levelKind picks which generic combinator parseLevel uses to climb a
// given precedence level; the call/subscript/member level and the
// primary level fall outside the generic binary/unary shapes and are
// handled by dedicated functions.
type levelKind int

const (
	binLeft levelKind = iota
	binRight
	prefixUnary
	postfixUnary
	callSubscript
	primaryLevel
)

type level struct {
	kind levelKind
	ops  map[lexer.Kind]ast.Operator
}

// levels lists precedence groups from lowest to highest. parseLevel(0) is the entry point
// for a full expression; parseLevel climbs to len(levels)-1 (primary)
// at the top.
var levels = []level{
	{kind: binLeft, ops: map[lexer.Kind]ast.Operator{ // 0: comma
		lexer.COMMA: ast.OpComma,
	}},
	{kind: binRight, ops: map[lexer.Kind]ast.Operator{ // 1: assignment
		lexer.ASSIGN:    ast.OpAssign,
		lexer.PLUSEQ:    ast.OpAddAssign,
		lexer.MINUSEQ:   ast.OpSubAssign,
		lexer.STAREQ:    ast.OpMulAssign,
		lexer.SLASHEQ:   ast.OpDivAssign,
		lexer.PERCENTEQ: ast.OpModAssign,
	}},
	{kind: binLeft, ops: map[lexer.Kind]ast.Operator{ // 2: or
		lexer.OROR: ast.OpOr,
		lexer.OR:   ast.OpOr,
	}},
	{kind: binLeft, ops: map[lexer.Kind]ast.Operator{ // 3: and
		lexer.ANDAND: ast.OpAnd,
		lexer.AND:    ast.OpAnd,
	}},
	{kind: binLeft, ops: map[lexer.Kind]ast.Operator{ // 4: equality
		lexer.EQ:    ast.OpEq,
		lexer.NOTEQ: ast.OpNotEq,
	}},
	{kind: binLeft, ops: map[lexer.Kind]ast.Operator{ // 5: relational
		lexer.LT: ast.OpLess, lexer.LE: ast.OpLessEq,
		lexer.GT: ast.OpGreater, lexer.GE: ast.OpGreaterEq,
	}},
	{kind: binLeft, ops: map[lexer.Kind]ast.Operator{ // 6: additive
		lexer.PLUS: ast.OpAdd, lexer.MINUS: ast.OpSub,
	}},
	{kind: binLeft, ops: map[lexer.Kind]ast.Operator{ // 7: multiplicative
		lexer.STAR: ast.OpMul, lexer.SLASH: ast.OpDiv, lexer.PERCENT: ast.OpMod,
		lexer.MOD: ast.OpMod, lexer.DIV: ast.OpIntDiv,
	}},
	{kind: prefixUnary, ops: map[lexer.Kind]ast.Operator{ // 8: prefix
		lexer.PLUS: ast.OpPos, lexer.MINUS: ast.OpNeg,
		lexer.BANG: ast.OpNot, lexer.NOT: ast.OpNot,
		lexer.PLUSPLUS: ast.OpPreIncr, lexer.MINUSMINUS: ast.OpPreDecr,
	}},
	{kind: postfixUnary, ops: map[lexer.Kind]ast.Operator{ // 9: postfix
		lexer.PLUSPLUS: ast.OpPostIncr, lexer.MINUSMINUS: ast.OpPostDecr,
	}},
	{kind: callSubscript}, // 10: call/subscript/member access
	{kind: primaryLevel},  // 11: primary
}

func (p *Parser) parseLevel(idx int) (ast.Expr, error) {
	lv := levels[idx]
	switch lv.kind {
	case binLeft:
		return p.parseBinLeft(idx)
	case binRight:
		return p.parseBinRight(idx)
	case prefixUnary:
		return p.parsePrefix(idx)
	case postfixUnary:
		return p.parsePostfix(idx)
	case callSubscript:
		return p.parseCallSubscript(idx)
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parseBinLeft(idx int) (ast.Expr, error) {
	left, err := p.parseLevel(idx + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := levels[idx].ops[p.cur().Kind]
		if !ok {
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseLevel(idx + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Token: tok, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseBinRight(idx int) (ast.Expr, error) {
	left, err := p.parseLevel(idx + 1)
	if err != nil {
		return nil, err
	}
	op, ok := levels[idx].ops[p.cur().Kind]
	if !ok {
		return left, nil
	}
	tok := p.advance()
	right, err := p.parseLevel(idx) // right-associative: recurse at same level
	if err != nil {
		return nil, err
	}
	if left.ForceRval() {
		return nil, langerr.At(langerr.Parsing, tok.Pos, "left-hand side of assignment is not assignable")
	}
	return &ast.Binary{Token: tok, Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parsePrefix(idx int) (ast.Expr, error) {
	op, ok := levels[idx].ops[p.cur().Kind]
	if !ok {
		return p.parseLevel(idx + 1)
	}
	tok := p.advance()
	operand, err := p.parseLevel(idx) // right-associative chain of prefix ops
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Token: tok, Op: op, Operand: operand, Postfix: false}, nil
}

func (p *Parser) parsePostfix(idx int) (ast.Expr, error) {
	node, err := p.parseLevel(idx + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := levels[idx].ops[p.cur().Kind]
		if !ok {
			return node, nil
		}
		tok := p.advance()
		node = &ast.Unary{Token: tok, Op: op, Operand: node, Postfix: true}
	}
}

// parseCallSubscript handles the highest non-primary precedence group:
// a chain of `(args)`, `[args]`, and `.identifier` suffixes attached to
// a primary, left-associatively. A `.identifier` suffix
// immediately followed by `(args)` is the method-call shape; the
// evaluator recognizes it by inspecting the Head of the resulting call
// node.
func (p *Parser) parseCallSubscript(idx int) (ast.Expr, error) {
	node, err := p.parseLevel(idx + 1)
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case lexer.LPAREN:
			tok := p.advance()
			args, err := p.parseArgList(lexer.RPAREN)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			node = &ast.NAry{Token: tok, Kind: ast.Call, Head: node, Args: args}
		case lexer.LBRACKET:
			tok := p.advance()
			args, err := p.parseArgList(lexer.RBRACKET)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET); err != nil {
				return nil, err
			}
			node = &ast.NAry{Token: tok, Kind: ast.Subscript, Head: node, Args: args}
		case lexer.DOT:
			tok := p.advance()
			nameTok, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			member := &ast.Identifier{Token: nameTok, Value: nameTok.Lexeme}
			node = &ast.Binary{Token: tok, Op: ast.OpMemberAccess, Left: node, Right: member}
		default:
			return node, nil
		}
	}
}

// parseArgList parses a comma-separated argument list, each argument
// starting above the comma-operator level so a bare `,` inside an
// argument is never mistaken for the comma operator.
func (p *Parser) parseArgList(closer lexer.Kind) ([]ast.Expr, error) {
	var args []ast.Expr
	if p.cur().Kind == closer {
		return args, nil
	}
	for {
		arg, err := p.parseLevel(1)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().Kind == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.INT:
		p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, langerr.At(langerr.Range, tok.Pos, "integer literal %q out of range", tok.Lexeme)
		}
		return &ast.Literal{Token: tok, Value: v}, nil
	case lexer.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, langerr.At(langerr.Range, tok.Pos, "float literal %q out of range", tok.Lexeme)
		}
		return &ast.Literal{Token: tok, Value: v}, nil
	case lexer.CHAR:
		p.advance()
		return &ast.Literal{Token: tok, Value: []rune(tok.Lexeme)[0]}, nil
	case lexer.STRING:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Lexeme}, nil
	case lexer.TRUE:
		p.advance()
		return &ast.Literal{Token: tok, Value: true}, nil
	case lexer.FALSE:
		p.advance()
		return &ast.Literal{Token: tok, Value: false}, nil
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Token: tok, Value: tok.Lexeme}, nil
	case lexer.LPAREN:
		p.advance()
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		x.SetForceRval(true)
		return x, nil
	default:
		return nil, langerr.At(langerr.Parsing, tok.Pos, "unexpected token %q", tok.Lexeme)
	}
}
