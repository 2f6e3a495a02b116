package langerr

import (
	"testing"

	"github.com/cwbudde/ibscript/internal/lexer"
)

func TestNewLeavesPositionUnset(t *testing.T) {
	e := New(Type, "bad operand")
	if e.PosSet {
		t.Fatal("expected New to leave PosSet false")
	}
}

func TestAtSetsPosition(t *testing.T) {
	pos := lexer.Position{Line: 3, Column: 5}
	e := At(Range, pos, "index out of bounds")
	if !e.PosSet || e.Pos != pos {
		t.Fatalf("expected position %v set, got %v (set=%v)", pos, e.Pos, e.PosSet)
	}
}

func TestSetPosIfUnsetDoesNotOverwrite(t *testing.T) {
	first := lexer.Position{Line: 1, Column: 1}
	second := lexer.Position{Line: 9, Column: 9}
	e := At(Value, first, "division by zero")
	e.SetPosIfUnset(second)
	if e.Pos != first {
		t.Fatalf("expected position to remain %v, got %v", first, e.Pos)
	}
}

func TestSetPosIfUnsetSetsWhenUnset(t *testing.T) {
	pos := lexer.Position{Line: 2, Column: 4}
	e := New(Name, "undefined identifier 'x'")
	e.SetPosIfUnset(pos)
	if e.Pos != pos || !e.PosSet {
		t.Fatalf("expected position %v to be set, got %v (set=%v)", pos, e.Pos, e.PosSet)
	}
}

func TestKindStringCoversAllKinds(t *testing.T) {
	kinds := []Kind{Custom, Lexing, Parsing, Name, Type, Value, Range, Argument, Fatal}
	for _, k := range kinds {
		if k.String() == "Error" {
			t.Errorf("kind %d missing a name in kindNames", k)
		}
	}
}

func TestErrorMessageFormat(t *testing.T) {
	e := At(Argument, lexer.Position{Line: 1, Column: 1}, "expected %d args, got %d", 2, 1)
	want := "ArgumentError: expected 2 args, got 1"
	if e.Error() != want {
		t.Fatalf("expected %q, got %q", want, e.Error())
	}
}
