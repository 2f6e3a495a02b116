package ast

import (
	"testing"

	"github.com/cwbudde/ibscript/internal/lexer"
)

func TestBinaryStringRendersInfix(t *testing.T) {
	left := &Identifier{Token: lexer.Token{Lexeme: "x"}, Value: "x"}
	right := &Literal{Token: lexer.Token{Lexeme: "1"}, Value: int64(1)}
	b := &Binary{Token: lexer.Token{Pos: lexer.Position{Line: 1, Column: 3}}, Op: OpAdd, Left: left, Right: right}

	if got, want := b.String(), "(x + 1)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if b.Pos().Line != 1 || b.Pos().Column != 3 {
		t.Fatalf("expected position (1,3), got %v", b.Pos())
	}
}

func TestNAryStringUsesBracketsForSubscript(t *testing.T) {
	head := &Identifier{Value: "arr"}
	idx := &Literal{Value: int64(0)}
	n := &NAry{Kind: Subscript, Head: head, Args: []Expr{idx}}
	if got, want := n.String(), "arr[0]"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNAryStringUsesParensForCall(t *testing.T) {
	head := &Identifier{Value: "f"}
	n := &NAry{Kind: Call, Head: head, Args: []Expr{&Literal{Value: int64(1)}, &Literal{Value: int64(2)}}}
	if got, want := n.String(), "f(1, 2)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestForceRvalRoundTrip(t *testing.T) {
	id := &Identifier{Value: "x"}
	if id.ForceRval() {
		t.Fatal("expected ForceRval to default false")
	}
	id.SetForceRval(true)
	if !id.ForceRval() {
		t.Fatal("expected ForceRval to be settable")
	}
}

func TestUnaryStringPrefixAndPostfix(t *testing.T) {
	operand := &Identifier{Value: "i"}
	pre := &Unary{Op: OpNeg, Operand: operand, Postfix: false}
	post := &Unary{Op: OpPostIncr, Operand: operand, Postfix: true}

	if got, want := pre.String(), "(-i)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got, want := post.String(), "(i++)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
