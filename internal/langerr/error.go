// Package langerr implements the interpreter's positioned error
// taxonomy. Every failure path — lexer, parser,
// operator engine, scope lookup, container bounds — raises one of these
// and propagation never overwrites a position that has already been set.
package langerr

import (
	"fmt"

	"github.com/cwbudde/ibscript/internal/lexer"
)

// Kind is one of the eight error categories, plus the base Custom kind
// used by lvalue/return-placement violations that don't fit the other
// eight.
type Kind int

const (
	Custom Kind = iota
	Lexing
	Parsing
	Name
	Type
	Value
	Range
	Argument
	Fatal
)

var kindNames = [...]string{
	"CustomError", "LexingError", "ParsingError", "NameError",
	"TypeError", "ValueError", "RangeError", "ArgumentError", "FatalError",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Error"
}

// Error is a positioned interpreter diagnostic. The PosSet flag
// implements a "position set once" discipline: once an error carries a
// position, nothing further up the call stack may change it.
type Error struct {
	Kind    Kind
	Message string
	Pos     lexer.Position
	PosSet  bool
}

// New creates an Error with no position set yet.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At creates an Error already carrying a position.
func At(kind Kind, pos lexer.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, PosSet: true}
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// SetPosIfUnset records pos as the error's position the first time it is
// caught by an enclosing evaluator, and is a no-op on every subsequent
// call.
func (e *Error) SetPosIfUnset(pos lexer.Position) {
	if !e.PosSet {
		e.Pos = pos
		e.PosSet = true
	}
}
