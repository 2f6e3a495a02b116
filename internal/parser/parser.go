// Package parser builds an AST from a lexer token stream using a
// precedence-climbing (Pratt-style) expression parser and an
// indentation-driven statement/block parser.
package parser

import (
	"github.com/cwbudde/ibscript/internal/ast"
	"github.com/cwbudde/ibscript/internal/langerr"
	"github.com/cwbudde/ibscript/internal/lexer"
)

// Parser consumes a fixed token slice (produced by the lexer ahead of
// time) and builds the program AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
	depth  int // current expected indentation depth; -1 before the outer block
}

// New creates a Parser over tokens (the lexer's full output, including
// its trailing EOF token).
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens, depth: -1}
}

// ParseProgram parses the entire token stream as a block at block level
// 0 and reports an error if trailing tokens remain.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lexer.EOF {
		return nil, langerr.At(langerr.Parsing, p.cur().Pos, "unexpected token %q", p.cur().Lexeme)
	}
	return &ast.Program{Statements: block.Statements}, nil
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}
func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, langerr.At(langerr.Parsing, p.cur().Pos,
			"expected %s, got %q", k, p.cur().Lexeme)
	}
	return p.advance(), nil
}

// parseBlock parses a contiguous run of statements all prefixed by
// exactly p.depth+1 leading tab tokens. Blank lines never
// reach the parser: diag.Clean strips them before lexing.
func (p *Parser) parseBlock() (*ast.Block, error) {
	p.depth++
	defer func() { p.depth-- }()

	block := &ast.Block{Token: p.cur()}
	for p.cur().Kind != lexer.EOF {
		tabs := 0
		for p.peek(tabs).Kind == lexer.TAB {
			tabs++
		}
		if tabs < p.depth {
			break
		}
		if tabs > p.depth {
			return nil, langerr.At(langerr.Parsing, p.cur().Pos, "indentation error")
		}
		for i := 0; i < p.depth; i++ {
			p.advance()
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Kind {
	case lexer.WHILE, lexer.LOOPWHILE:
		return p.parseWhile()
	case lexer.IF:
		return p.parseIf()
	case lexer.FOR, lexer.LOOPFOR:
		return p.parseFor()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.METHOD:
		return p.parseFunctionDef()
	default:
		return p.parseExprStmt()
	}
}

// consumeNewline expects and consumes the newline terminating a
// single-line statement header. End of input also terminates a
// statement, since diag.Clean drops the final newline.
func (p *Parser) consumeNewline() error {
	if p.cur().Kind == lexer.EOF {
		return nil
	}
	if p.cur().Kind != lexer.NEWLINE {
		return langerr.At(langerr.Parsing, p.cur().Pos, "expected newline, got %q", p.cur().Lexeme)
	}
	p.advance()
	return nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Token: tok, Cond: cond, Block: block}, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return nil, err
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Token: tok, Cases: []ast.IfCase{{Cond: cond, Block: block}}}

	// `else if` and `else` sit at the if statement's own indentation:
	// atClause consumes those leading tabs only when k follows them.
	atClause := func(k lexer.Kind) bool {
		for i := 0; i < p.depth; i++ {
			if p.peek(i).Kind != lexer.TAB {
				return false
			}
		}
		if p.peek(p.depth).Kind != k {
			return false
		}
		for i := 0; i < p.depth; i++ {
			p.advance()
		}
		return true
	}

	for atClause(lexer.ELSEIF) {
		p.advance()
		c, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.THEN); err != nil {
			return nil, err
		}
		if err := p.consumeNewline(); err != nil {
			return nil, err
		}
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Cases = append(stmt.Cases, ast.IfCase{Cond: c, Block: b})
	}

	if atClause(lexer.ELSE) {
		p.advance()
		if err := p.consumeNewline(); err != nil {
			return nil, err
		}
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Cases = append(stmt.Cases, ast.IfCase{Cond: nil, Block: b})
	}

	return stmt, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	tok := p.advance()
	idTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	counter := &ast.Identifier{Token: idTok, Value: idTok.Lexeme}
	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	lower, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TO); err != nil {
		return nil, err
	}
	upper, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForRange{Token: tok, Counter: counter, Lower: lower, Upper: upper, Block: block}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.advance()
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	return &ast.Return{Token: tok, X: x}, nil
}

func (p *Parser) parseFunctionDef() (ast.Statement, error) {
	tok := p.advance()
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	for p.cur().Kind != lexer.RPAREN {
		pTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Identifier{Token: pTok, Value: pTok.Lexeme})
		if p.cur().Kind == lexer.COMMA {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDef{
		Token:  tok,
		Name:   &ast.Identifier{Token: nameTok, Value: nameTok.Lexeme},
		Params: params,
		Block:  block,
	}, nil
}

func (p *Parser) parseExprStmt() (ast.Statement, error) {
	tok := p.cur()
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Token: tok, X: x}, nil
}

// parseExpression parses a full expression from the lowest precedence
// level (comma).
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseLevel(0)
}
