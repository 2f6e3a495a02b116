package interp

import (
	"github.com/cwbudde/ibscript/internal/ast"
	"github.com/cwbudde/ibscript/internal/langerr"
	"github.com/cwbudde/ibscript/internal/lexer"
)

// asFloat/asInt/asChar convert a numeric Value to the requested
// representation for a promoted binary operation.
func asFloat(v Value) float64 {
	switch t := v.(type) {
	case Char:
		return float64(t)
	case Int:
		return float64(t)
	case Float:
		return float64(t)
	}
	return 0
}

func asInt(v Value) int64 {
	switch t := v.(type) {
	case Char:
		return int64(t)
	case Int:
		return int64(t)
	case Float:
		return int64(t)
	}
	return 0
}

// promote computes the common numeric kind of two numeric operands.
func promote(a, b Value) Kind {
	ra, rb := numericRank(a.Kind()), numericRank(b.Kind())
	if ra >= rb {
		return a.Kind()
	}
	return b.Kind()
}

// BinaryOp evaluates a non-assigning binary operator over two already
// -evaluated operands. pos positions any raised error.
func BinaryOp(op ast.Operator, left, right Value, pos lexer.Position) (Value, error) {
	switch op {
	case ast.OpAdd:
		if left.Kind() == KindString || right.Kind() == KindString {
			return String(left.String() + right.String()), nil
		}
		return arith(op, left, right, pos)
	case ast.OpSub, ast.OpMul, ast.OpDiv:
		return arith(op, left, right, pos)
	case ast.OpMod:
		return intArith(op, left, right, pos)
	case ast.OpIntDiv:
		return intArith(op, left, right, pos)
	case ast.OpEq:
		return Bool(valuesEqual(left, right)), nil
	case ast.OpNotEq:
		return Bool(!valuesEqual(left, right)), nil
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		return compare(op, left, right, pos)
	case ast.OpAnd:
		return Bool(isTrue(left) && isTrue(right)), nil
	case ast.OpOr:
		return Bool(isTrue(left) || isTrue(right)), nil
	}
	return nil, langerr.At(langerr.Fatal, pos, "unsupported binary operator %s", op)
}

func arith(op ast.Operator, left, right Value, pos lexer.Position) (Value, error) {
	if !isNumeric(left.Kind()) || !isNumeric(right.Kind()) {
		return nil, langerr.At(langerr.Type, pos, "operator %s requires numeric operands", op)
	}
	if promote(left, right) == KindFloat {
		l, r := asFloat(left), asFloat(right)
		switch op {
		case ast.OpAdd:
			return Float(l + r), nil
		case ast.OpSub:
			return Float(l - r), nil
		case ast.OpMul:
			return Float(l * r), nil
		case ast.OpDiv:
			if r == 0 {
				return nil, langerr.At(langerr.Value, pos, "division by zero")
			}
			return Float(l / r), nil
		}
	}
	l, r := asInt(left), asInt(right)
	switch op {
	case ast.OpAdd:
		return Int(l + r), nil
	case ast.OpSub:
		return Int(l - r), nil
	case ast.OpMul:
		return Int(l * r), nil
	case ast.OpDiv:
		if r == 0 {
			return nil, langerr.At(langerr.Value, pos, "division by zero")
		}
		return Int(l / r), nil
	}
	return nil, langerr.At(langerr.Fatal, pos, "unsupported arithmetic operator %s", op)
}

func intArith(op ast.Operator, left, right Value, pos lexer.Position) (Value, error) {
	if !isNumeric(left.Kind()) || !isNumeric(right.Kind()) {
		return nil, langerr.At(langerr.Type, pos, "operator %s requires numeric operands", op)
	}
	if left.Kind() == KindFloat || right.Kind() == KindFloat {
		return nil, langerr.At(langerr.Type, pos, "operator %s rejects float operands", op)
	}
	l, r := asInt(left), asInt(right)
	if r == 0 {
		return nil, langerr.At(langerr.Value, pos, "division by zero")
	}
	switch op {
	case ast.OpMod:
		return Int(l % r), nil
	case ast.OpIntDiv:
		return Int(l / r), nil
	}
	return nil, langerr.At(langerr.Fatal, pos, "unsupported arithmetic operator %s", op)
}

func compare(op ast.Operator, left, right Value, pos lexer.Position) (Value, error) {
	if left.Kind() == KindString && right.Kind() == KindString {
		l, r := string(left.(String)), string(right.(String))
		switch op {
		case ast.OpLess:
			return Bool(l < r), nil
		case ast.OpLessEq:
			return Bool(l <= r), nil
		case ast.OpGreater:
			return Bool(l > r), nil
		case ast.OpGreaterEq:
			return Bool(l >= r), nil
		}
	}
	if !isNumeric(left.Kind()) || !isNumeric(right.Kind()) {
		return nil, langerr.At(langerr.Type, pos, "operator %s requires numeric or string operands", op)
	}
	l, r := asFloat(left), asFloat(right)
	switch op {
	case ast.OpLess:
		return Bool(l < r), nil
	case ast.OpLessEq:
		return Bool(l <= r), nil
	case ast.OpGreater:
		return Bool(l > r), nil
	case ast.OpGreaterEq:
		return Bool(l >= r), nil
	}
	return nil, langerr.At(langerr.Fatal, pos, "unsupported comparison operator %s", op)
}

func valuesEqual(left, right Value) bool {
	if left.Kind() == KindString && right.Kind() == KindString {
		return string(left.(String)) == string(right.(String))
	}
	if left.Kind() == KindBool && right.Kind() == KindBool {
		return bool(left.(Bool)) == bool(right.(Bool))
	}
	if isNumeric(left.Kind()) && isNumeric(right.Kind()) {
		if promote(left, right) == KindFloat {
			return asFloat(left) == asFloat(right)
		}
		return asInt(left) == asInt(right)
	}
	return left == right
}

// isTrue is the boolean projection used by '!', 'and', 'or', and any
// truthy condition: numeric kinds are nonzero-is-true, booleans are
// themselves, everything else is false.
func isTrue(v Value) bool {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Char:
		return t != 0
	case Int:
		return t != 0
	case Float:
		return t != 0
	}
	return false
}

// narrow truncates v toward zero when assigning a wider numeric value
// into a binding whose persistent type is narrower.
func narrow(target Kind, v Value) Value {
	if !isNumeric(target) || !isNumeric(v.Kind()) {
		return v
	}
	switch target {
	case KindChar:
		return Char(rune(asInt(v)))
	case KindInt:
		return Int(asInt(v))
	case KindFloat:
		return Float(asFloat(v))
	}
	return v
}
