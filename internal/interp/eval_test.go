package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/ibscript/internal/diag"
	"github.com/cwbudde/ibscript/internal/lexer"
	"github.com/cwbudde/ibscript/internal/parser"
)

func runProgram(t *testing.T, src string) string {
	t.Helper()
	cleaned := diag.Clean(src)
	toks, err := lexer.New(cleaned).Lex()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var buf bytes.Buffer
	ev := New(&buf, strings.NewReader(""))
	if err := ev.Run(prog); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return buf.String()
}

func TestNumericPromotionIntFloat(t *testing.T) {
	out := runProgram(t, "output(1 + 2.5)\n")
	if strings.TrimSpace(out) != "3.5" {
		t.Fatalf("expected 3.5, got %q", out)
	}
}

func TestStringCoercionOnPlus(t *testing.T) {
	out := runProgram(t, `output("n=" + 7)` + "\n")
	if strings.TrimSpace(out) != "n=7" {
		t.Fatalf("expected n=7, got %q", out)
	}
}

func TestLogicalOperatorsNotShortCircuited(t *testing.T) {
	// Both sides of 'or' must be evaluated even though the left side
	// is already true: a divide-by-zero on the right still raises.
	_, err := evalOnly(t, `output(true or (1 / 0 == 0))`+"\n")
	if err == nil {
		t.Fatal("expected evaluating the right-hand side to raise a division-by-zero error")
	}
}

func evalOnly(t *testing.T, src string) (string, error) {
	t.Helper()
	cleaned := diag.Clean(src)
	toks, err := lexer.New(cleaned).Lex()
	if err != nil {
		return "", err
	}
	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	ev := New(&buf, strings.NewReader(""))
	err = ev.Run(prog)
	return buf.String(), err
}

func TestForRangeInclusiveBounds(t *testing.T) {
	out := runProgram(t, "for i from 1 to 3\n\toutput(i)\n")
	if strings.TrimSpace(out) != "1\n2\n3" {
		t.Fatalf("expected 1,2,3 inclusive, got %q", out)
	}
}

func TestClosureCapturesDefinitionTimeFuncLevel(t *testing.T) {
	src := "method makeAdder(x)\n\tmethod adder(y)\n\t\treturn x + y\n\treturn adder\n\nadd5 = makeAdder(5)\noutput(add5(3))\n"
	out := runProgram(t, src)
	if strings.TrimSpace(out) != "8" {
		t.Fatalf("expected 8, got %q", out)
	}
}

func TestArrayBoundsError(t *testing.T) {
	_, err := evalOnly(t, "arr = Array(3)\noutput(arr[5])\n")
	if err == nil {
		t.Fatal("expected a range error for an out-of-bounds array access")
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := evalOnly(t, "output(1 / 0)\n")
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestStackPushPop(t *testing.T) {
	out := runProgram(t, "s = Stack()\ns.push(1)\ns.push(2)\noutput(s.pop())\noutput(s.size())\n")
	if strings.TrimSpace(out) != "2\n1" {
		t.Fatalf("expected 2,1, got %q", out)
	}
}

func TestScopeTeardownOnBlockExit(t *testing.T) {
	// A variable declared inside an if-block must not leak into the
	// enclosing scope once the block exits.
	_, err := evalOnly(t, "if true then\n\ty = 1\noutput(y)\n")
	if err == nil {
		t.Fatal("expected a name error: y should not be visible outside its block")
	}
}

func TestPlainVariableDiscriminantChangesFreely(t *testing.T) {
	// A plain (non-persistent-typed) binding's assignment replaces its
	// tagged payload outright: no narrowing back to the prior kind.
	out := runProgram(t, "x = 5\nx = 2.5\noutput(x)\n")
	if strings.TrimSpace(out) != "2.5" {
		t.Fatalf("expected 2.5 with no narrowing, got %q", out)
	}
}

func TestLogicalOperatorsAcceptNonBooleanOperands(t *testing.T) {
	out := runProgram(t, "output(5 and 3)\noutput(0 and 3)\noutput(not 0)\n")
	if strings.TrimSpace(out) != "true\nfalse\ntrue" {
		t.Fatalf("expected true,false,true via the isTrue projection, got %q", out)
	}
}

func TestModRejectsFloatOperand(t *testing.T) {
	_, err := evalOnly(t, "output(5.0 mod 2)\n")
	if err == nil {
		t.Fatal("expected a type error for mod with a float operand")
	}
}

func TestStringSubscriptReadsCharacter(t *testing.T) {
	out := runProgram(t, `s = "hello"` + "\n" + "output(s[1])\n")
	if strings.TrimSpace(out) != "e" {
		t.Fatalf("expected 'e', got %q", out)
	}
}

func TestStringSubscriptAssignmentNarrowsToChar(t *testing.T) {
	out := runProgram(t, `s = "hello"` + "\n" + `s[0] = 'H'` + "\n" + "output(s)\n")
	if strings.TrimSpace(out) != "Hello" {
		t.Fatalf("expected Hello, got %q", out)
	}
}

func TestStringSubscriptAssignmentRejectsNonNumeric(t *testing.T) {
	_, err := evalOnly(t, `s = "hello"` + "\n" + `s[0] = "oops"` + "\n")
	if err == nil {
		t.Fatal("expected a type error assigning a non-numeric value into a string element")
	}
}

func TestStringConstructorAndGetMethod(t *testing.T) {
	out := runProgram(t, "s = String()\noutput(s.length())\n")
	if strings.TrimSpace(out) != "0" {
		t.Fatalf("expected empty-string length 0, got %q", out)
	}
	out = runProgram(t, `output("abc".get(1))` + "\n")
	if strings.TrimSpace(out) != "b" {
		t.Fatalf("expected 'b', got %q", out)
	}
}

func TestArrayGetMethod(t *testing.T) {
	out := runProgram(t, "a = Array(3)\na[1] = 9\noutput(a.get(1))\n")
	if strings.TrimSpace(out) != "9" {
		t.Fatalf("expected 9, got %q", out)
	}
}

func TestMultidimensionalArrayIndexing(t *testing.T) {
	out := runProgram(t, "a = Array(2, 3)\na[1, 2] = 7\noutput(a[1, 2])\noutput(a.size())\n")
	if strings.TrimSpace(out) != "7\n2" {
		t.Fatalf("expected 7,2, got %q", out)
	}
}

func TestArrayZeroOrNegativeSizeIsValueError(t *testing.T) {
	if _, err := evalOnly(t, "a = Array(0)\n"); err == nil {
		t.Fatal("expected a value error constructing Array(0)")
	}
	if _, err := evalOnly(t, "a = Array(-1)\n"); err == nil {
		t.Fatal("expected a value error constructing Array(-1)")
	}
}

func TestInputEOFYieldsEmptyString(t *testing.T) {
	var buf bytes.Buffer
	ev := New(&buf, strings.NewReader(""))
	toks, err := lexer.New(`output(input())` + "\n").Lex()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := ev.Run(prog); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if buf.String() != "\n" {
		t.Fatalf("expected an empty string line, got %q", buf.String())
	}
}

func TestInputSniffsIntFloatThenString(t *testing.T) {
	var buf bytes.Buffer
	ev := New(&buf, strings.NewReader("42\n3.5\nhello\n"))
	toks, err := lexer.New("output(input())\noutput(input())\noutput(input())\n").Lex()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := ev.Run(prog); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "42\n3.5\nhello" {
		t.Fatalf("expected 42,3.5,hello, got %q", buf.String())
	}
}

func TestInputStoresByReferenceIntoSingleArgument(t *testing.T) {
	var buf bytes.Buffer
	ev := New(&buf, strings.NewReader("99\n"))
	toks, err := lexer.New("x = 0\ninput(x)\noutput(x)\n").Lex()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := ev.Run(prog); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "99" {
		t.Fatalf("expected input() to store 99 into x by reference, got %q", buf.String())
	}
}
