package interp

import (
	"bufio"
	"io"

	"github.com/cwbudde/ibscript/internal/ast"
	"github.com/cwbudde/ibscript/internal/langerr"
	"github.com/cwbudde/ibscript/internal/lexer"
)

// Evaluator tree-walks a parsed program against a global scope. Out and
// In back the output/input built-ins.
type Evaluator struct {
	Global *Scope
	Out    io.Writer
	In     *bufio.Reader
}

// New creates an Evaluator with its global scope populated with the
// standard built-ins.
func New(out io.Writer, in io.Reader) *Evaluator {
	ev := &Evaluator{Global: NewScope(), Out: out, In: bufio.NewReader(in)}
	registerBuiltins(ev.Global)
	return ev
}

// Run evaluates every top-level statement of prog in order.
func (ev *Evaluator) Run(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		fl, err := ev.evalStatement(ev.Global, stmt)
		if err != nil {
			return err
		}
		if fl.kind == flowReturn {
			return langerr.At(langerr.Custom, stmt.Pos(), "return statement outside of a function")
		}
	}
	return nil
}

type flowKind int

const (
	flowNone flowKind = iota
	flowReturn
)

type flow struct {
	kind  flowKind
	value Value
}

// evalBlock executes a block's statements at one deeper block level,
// tearing its declarations down again on exit.
func (ev *Evaluator) evalBlock(scope *Scope, block *ast.Block) (flow, error) {
	scope.IncBlockLevel()
	defer scope.DecrBlockLevel()

	for _, stmt := range block.Statements {
		fl, err := ev.evalStatement(scope, stmt)
		if err != nil {
			return flow{}, err
		}
		if fl.kind == flowReturn {
			return fl, nil
		}
	}
	return flow{}, nil
}

func (ev *Evaluator) evalStatement(scope *Scope, stmt ast.Statement) (flow, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := ev.evalExpr(scope, s.X)
		return flow{}, err

	case *ast.If:
		for _, c := range s.Cases {
			if c.Cond == nil {
				return ev.evalBlock(scope, c.Block)
			}
			v, err := ev.evalExpr(scope, c.Cond)
			if err != nil {
				return flow{}, err
			}
			if isTrue(v) {
				return ev.evalBlock(scope, c.Block)
			}
		}
		return flow{}, nil

	case *ast.While:
		for {
			v, err := ev.evalExpr(scope, s.Cond)
			if err != nil {
				return flow{}, err
			}
			if !isTrue(v) {
				return flow{}, nil
			}
			fl, err := ev.evalBlock(scope, s.Block)
			if err != nil {
				return flow{}, err
			}
			if fl.kind == flowReturn {
				return fl, nil
			}
		}

	case *ast.ForRange:
		lowerV, err := ev.evalExpr(scope, s.Lower)
		if err != nil {
			return flow{}, err
		}
		upperV, err := ev.evalExpr(scope, s.Upper)
		if err != nil {
			return flow{}, err
		}
		if !isNumeric(lowerV.Kind()) || !isNumeric(upperV.Kind()) {
			return flow{}, langerr.At(langerr.Type, s.Pos(), "for-range bounds must be numeric")
		}
		lower, upper := asInt(lowerV), asInt(upperV)

		scope.IncBlockLevel()
		scope.Define(s.Counter.Value, Int(lower), false, false)
		// Inclusive upper bound.
		for i := lower; i <= upper; i++ {
			scope.Assign(s.Counter.Value, Int(i))
			fl, err := ev.evalBlock(scope, s.Block)
			if err != nil {
				scope.DecrBlockLevel()
				return flow{}, err
			}
			if fl.kind == flowReturn {
				scope.DecrBlockLevel()
				return fl, nil
			}
		}
		scope.DecrBlockLevel()
		return flow{}, nil

	case *ast.Return:
		v, err := ev.evalExpr(scope, s.X)
		if err != nil {
			return flow{}, err
		}
		return flow{kind: flowReturn, value: v}, nil

	case *ast.FunctionDef:
		fn := &Function{
			Name:     s.Name.Value,
			Params:   identNames(s.Params),
			Body:     s.Block,
			Captured: scope.GetRestricted(scope.FuncLevel()),
		}
		// The function's own name is visible in its snapshot so that it
		// can call itself recursively.
		fn.Captured.Define(s.Name.Value, fn, false, false)
		scope.Define(s.Name.Value, fn, false, false)
		return flow{}, nil

	default:
		return flow{}, langerr.At(langerr.Fatal, stmt.Pos(), "unhandled statement type")
	}
}

func identNames(ids []*ast.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Value
	}
	return out
}

// evalExpr evaluates x and returns its value. Any langerr.Error bubbling
// up has SetPosIfUnset called so the innermost failure keeps its
// original position.
func (ev *Evaluator) evalExpr(scope *Scope, x ast.Expr) (v Value, err error) {
	defer func() {
		if err != nil {
			if le, ok := err.(*langerr.Error); ok {
				le.SetPosIfUnset(x.Pos())
			}
		}
	}()

	switch e := x.(type) {
	case *ast.Literal:
		return literalValue(e), nil

	case *ast.Identifier:
		val, ok := scope.Get(e.Value)
		if !ok {
			return nil, langerr.At(langerr.Name, e.Pos(), "undefined identifier %q", e.Value)
		}
		return val, nil

	case *ast.Unary:
		return ev.evalUnary(scope, e)

	case *ast.Binary:
		return ev.evalBinary(scope, e)

	case *ast.NAry:
		return ev.evalNAry(scope, e)

	default:
		return nil, langerr.At(langerr.Fatal, x.Pos(), "unhandled expression type")
	}
}

func literalValue(lit *ast.Literal) Value {
	switch v := lit.Value.(type) {
	case bool:
		return Bool(v)
	case int64:
		return Int(v)
	case float64:
		return Float(v)
	case rune:
		return Char(v)
	case string:
		return String(v)
	}
	return Nil{}
}

func (ev *Evaluator) evalUnary(scope *Scope, e *ast.Unary) (Value, error) {
	switch e.Op {
	case ast.OpPreIncr, ast.OpPreDecr, ast.OpPostIncr, ast.OpPostDecr:
		id, ok := e.Operand.(*ast.Identifier)
		if !ok || e.Operand.ForceRval() {
			return nil, langerr.At(langerr.Custom, e.Pos(), "increment/decrement target must be a variable")
		}
		cur, ok := scope.Get(id.Value)
		if !ok {
			return nil, langerr.At(langerr.Name, id.Pos(), "undefined identifier %q", id.Value)
		}
		if !isNumeric(cur.Kind()) {
			return nil, langerr.At(langerr.Type, e.Pos(), "increment/decrement requires a numeric variable")
		}
		delta := int64(1)
		if e.Op == ast.OpPreDecr || e.Op == ast.OpPostDecr {
			delta = -1
		}
		var next Value
		if cur.Kind() == KindFloat {
			next = Float(asFloat(cur) + float64(delta))
		} else {
			next = narrow(cur.Kind(), Int(asInt(cur)+delta))
		}
		scope.Assign(id.Value, next)
		if e.Op == ast.OpPostIncr || e.Op == ast.OpPostDecr {
			return cur, nil
		}
		return next, nil
	}

	operand, err := ev.evalExpr(scope, e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpNeg:
		if !isNumeric(operand.Kind()) {
			return nil, langerr.At(langerr.Type, e.Pos(), "unary - requires a numeric operand")
		}
		if operand.Kind() == KindFloat {
			return Float(-asFloat(operand)), nil
		}
		return Int(-asInt(operand)), nil
	case ast.OpPos:
		if !isNumeric(operand.Kind()) {
			return nil, langerr.At(langerr.Type, e.Pos(), "unary + requires a numeric operand")
		}
		return operand, nil
	case ast.OpNot:
		return Bool(!isTrue(operand)), nil
	}
	return nil, langerr.At(langerr.Fatal, e.Pos(), "unhandled unary operator %s", e.Op)
}

func (ev *Evaluator) evalBinary(scope *Scope, e *ast.Binary) (Value, error) {
	switch e.Op {
	case ast.OpAssign:
		return ev.evalAssign(scope, e, nil)
	case ast.OpAddAssign, ast.OpSubAssign, ast.OpMulAssign, ast.OpDivAssign, ast.OpModAssign:
		return ev.evalAssign(scope, e, &e.Op)
	case ast.OpComma:
		if _, err := ev.evalExpr(scope, e.Left); err != nil {
			return nil, err
		}
		return ev.evalExpr(scope, e.Right)
	case ast.OpMemberAccess:
		return ev.evalMemberAccess(scope, e)
	}

	left, err := ev.evalExpr(scope, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evalExpr(scope, e.Right)
	if err != nil {
		return nil, err
	}
	return BinaryOp(e.Op, left, right, e.Pos())
}

var compoundToPlain = map[ast.Operator]ast.Operator{
	ast.OpAddAssign: ast.OpAdd, ast.OpSubAssign: ast.OpSub,
	ast.OpMulAssign: ast.OpMul, ast.OpDivAssign: ast.OpDiv, ast.OpModAssign: ast.OpMod,
}

// evalAssign handles both `=` and the compound assignment operators.
// compoundOp is nil for a plain assignment.
func (ev *Evaluator) evalAssign(scope *Scope, e *ast.Binary, compoundOp *ast.Operator) (Value, error) {
	rhs, err := ev.evalExpr(scope, e.Right)
	if err != nil {
		return nil, err
	}
	rhs = rhs.Clone()

	switch target := e.Left.(type) {
	case *ast.Identifier:
		if e.Left.ForceRval() {
			return nil, langerr.At(langerr.Custom, e.Pos(), "left-hand side is not assignable")
		}
		b, ok := scope.Lookup(target.Value)
		if !ok {
			if compoundOp != nil {
				return nil, langerr.At(langerr.Name, target.Pos(), "undefined identifier %q", target.Value)
			}
			// The first plain assignment to a name declares it at the
			// current block and function level.
			scope.Define(target.Value, rhs, false, false)
			return rhs, nil
		}
		cur := b.value
		newVal := rhs
		if compoundOp != nil {
			newVal, err = BinaryOp(compoundToPlain[*compoundOp], cur, rhs, e.Pos())
			if err != nil {
				return nil, err
			}
		}
		// A plain binding's assignment replaces the tagged payload
		// outright; only a persistent-typed slot preserves its
		// discriminant, force-casting numeric kinds and rejecting
		// anything else.
		if b.persistent {
			switch {
			case isNumeric(cur.Kind()) && isNumeric(newVal.Kind()):
				newVal = narrow(cur.Kind(), newVal)
			case cur.Kind() != newVal.Kind():
				return nil, langerr.At(langerr.Type, target.Pos(),
					"%q is persistent-typed as %s", target.Value, cur.Kind())
			}
		}
		if !scope.Assign(target.Value, newVal) {
			return nil, langerr.At(langerr.Value, target.Pos(), "%q is not assignable", target.Value)
		}
		return newVal, nil

	case *ast.NAry:
		if target.Kind != ast.Subscript {
			return nil, langerr.At(langerr.Custom, e.Pos(), "left-hand side is not assignable")
		}
		headVal, err := ev.evalExpr(scope, target.Head)
		if err != nil {
			return nil, err
		}
		switch h := headVal.(type) {
		case *Array:
			arr, idx, err := ev.resolveArraySubscript(scope, target, h)
			if err != nil {
				return nil, err
			}
			newVal := rhs
			if compoundOp != nil {
				newVal, err = BinaryOp(compoundToPlain[*compoundOp], arr.Elems[idx], rhs, e.Pos())
				if err != nil {
					return nil, err
				}
			}
			arr.Elems[idx] = newVal
			return newVal, nil
		case String:
			return ev.assignStringIndex(scope, target, h, rhs, compoundOp)
		default:
			return nil, langerr.At(langerr.Type, target.Pos(), "subscript target is not an Array or String")
		}

	default:
		return nil, langerr.At(langerr.Custom, e.Pos(), "left-hand side is not assignable")
	}
}

// resolveArraySubscript drills an already-evaluated array head down
// through n.Args, consuming one non-negative integer index per
// dimension, and returns the innermost array and the bounds-checked
// index the final argument names.
func (ev *Evaluator) resolveArraySubscript(scope *Scope, n *ast.NAry, arr *Array) (*Array, int, error) {
	if len(n.Args) == 0 {
		return nil, 0, langerr.At(langerr.Argument, n.Pos(), "subscript requires at least one index")
	}
	for _, a := range n.Args[:len(n.Args)-1] {
		idx, err := ev.subscriptIndex(scope, n, a, len(arr.Elems))
		if err != nil {
			return nil, 0, err
		}
		next, ok := arr.Elems[idx].(*Array)
		if !ok {
			return nil, 0, langerr.At(langerr.Type, n.Pos(), "too many indices for the array's dimensions")
		}
		arr = next
	}
	idx, err := ev.subscriptIndex(scope, n, n.Args[len(n.Args)-1], len(arr.Elems))
	if err != nil {
		return nil, 0, err
	}
	return arr, idx, nil
}

// subscriptIndex evaluates one subscript argument to a non-negative
// integer below length.
func (ev *Evaluator) subscriptIndex(scope *Scope, n *ast.NAry, arg ast.Expr, length int) (int, error) {
	idxVal, err := ev.evalExpr(scope, arg)
	if err != nil {
		return 0, err
	}
	if !isNumeric(idxVal.Kind()) {
		return 0, langerr.At(langerr.Type, n.Pos(), "index must be numeric")
	}
	idx := int(asInt(idxVal))
	if idx < 0 || idx >= length {
		return 0, langerr.At(langerr.Range, n.Pos(), "index %d out of range [0, %d)", idx, length)
	}
	return idx, nil
}

// assignStringIndex implements `s[i] = v`. A string's elements are
// persistent-typed characters: the assigned value must be numeric
// (force-cast to char) or the assignment fails with a type error. The
// underlying string is immutable, so the new character is spliced in
// and the rebuilt string is written back into the identifier's
// binding — the target must therefore be a plain, assignable name.
func (ev *Evaluator) assignStringIndex(scope *Scope, n *ast.NAry, s String, rhs Value, compoundOp *ast.Operator) (Value, error) {
	id, ok := n.Head.(*ast.Identifier)
	if !ok || n.Head.ForceRval() {
		return nil, langerr.At(langerr.Custom, n.Pos(), "left-hand side is not assignable")
	}
	if len(n.Args) != 1 {
		return nil, langerr.At(langerr.Argument, n.Pos(), "string subscript takes exactly one index")
	}
	runes := []rune(string(s))
	idx, err := ev.subscriptIndex(scope, n, n.Args[0], len(runes))
	if err != nil {
		return nil, err
	}
	cur := Char(runes[idx])
	newVal := rhs
	if compoundOp != nil {
		newVal, err = BinaryOp(compoundToPlain[*compoundOp], cur, rhs, n.Pos())
		if err != nil {
			return nil, err
		}
	}
	if !isNumeric(newVal.Kind()) {
		return nil, langerr.At(langerr.Type, n.Pos(), "string element is persistent-typed as char")
	}
	charVal := Char(rune(asInt(newVal)))
	runes[idx] = rune(charVal)
	if !scope.Assign(id.Value, String(string(runes))) {
		return nil, langerr.At(langerr.Value, id.Pos(), "%q is not assignable", id.Value)
	}
	return charVal, nil
}

// evalSubscriptRead evaluates `head[args…]` for read access. Only
// arrays (multidimensional index drilling) and strings (exactly one
// index, yielding a character) accept a subscript.
func (ev *Evaluator) evalSubscriptRead(scope *Scope, e *ast.NAry) (Value, error) {
	headVal, err := ev.evalExpr(scope, e.Head)
	if err != nil {
		return nil, err
	}
	switch h := headVal.(type) {
	case *Array:
		arr, idx, err := ev.resolveArraySubscript(scope, e, h)
		if err != nil {
			return nil, err
		}
		return arr.Elems[idx], nil
	case String:
		if len(e.Args) != 1 {
			return nil, langerr.At(langerr.Argument, e.Pos(), "string subscript takes exactly one index")
		}
		runes := []rune(string(h))
		idx, err := ev.subscriptIndex(scope, e, e.Args[0], len(runes))
		if err != nil {
			return nil, err
		}
		return Char(runes[idx]), nil
	default:
		return nil, langerr.At(langerr.Type, e.Pos(), "subscript target is not an Array or String")
	}
}

// evalInputCall implements the input() built-in's call protocol: it
// reads and sniffs one line via builtinInput, then — when called with
// exactly one argument — stores the produced value back into that
// argument's binding by reference, matching the original scope.cpp
// `*argVec[0] = *inputObj` behavior. The argument is never evaluated
// as an rvalue: it names the slot to fill, not a value to read.
func (ev *Evaluator) evalInputCall(scope *Scope, e *ast.NAry) (Value, error) {
	if len(e.Args) > 1 {
		return nil, langerr.At(langerr.Argument, e.Pos(), "input expects at most one argument")
	}
	result, err := builtinInput(ev, nil, e.Pos())
	if err != nil {
		return nil, err
	}
	if len(e.Args) == 1 {
		id, ok := e.Args[0].(*ast.Identifier)
		if !ok || e.Args[0].ForceRval() {
			return nil, langerr.At(langerr.Type, e.Pos(), "input's argument must be an assignable variable")
		}
		if _, ok := scope.Get(id.Value); !ok {
			return nil, langerr.At(langerr.Name, id.Pos(), "undefined identifier %q", id.Value)
		}
		if !scope.Assign(id.Value, result.Clone()) {
			return nil, langerr.At(langerr.Value, id.Pos(), "%q is not assignable", id.Value)
		}
	}
	return result, nil
}

// evalMemberAccess evaluates a bare `obj.field` with no trailing call.
// A member access immediately followed by `(args)` is instead handled
// in evalNAry, which recognizes a Call whose Head is a member-access
// Binary.
func (ev *Evaluator) evalMemberAccess(scope *Scope, e *ast.Binary) (Value, error) {
	obj, err := ev.evalExpr(scope, e.Left)
	if err != nil {
		return nil, err
	}
	name, ok := e.Right.(*ast.Identifier)
	if !ok {
		return nil, langerr.At(langerr.Custom, e.Pos(), "member access target must be an identifier")
	}
	return dispatchMethod(obj, name.Value, nil, e.Pos())
}

func (ev *Evaluator) evalArgs(scope *Scope, exprs []ast.Expr) ([]Value, error) {
	args := make([]Value, len(exprs))
	for i, a := range exprs {
		v, err := ev.evalExpr(scope, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (ev *Evaluator) evalNAry(scope *Scope, e *ast.NAry) (Value, error) {
	if e.Kind == ast.Subscript {
		return ev.evalSubscriptRead(scope, e)
	}

	// Call. A head of `obj.method` dispatches as a container method;
	// otherwise head must resolve to a Function or Builtin value.
	if memberAccess, ok := e.Head.(*ast.Binary); ok && memberAccess.Op == ast.OpMemberAccess {
		obj, err := ev.evalExpr(scope, memberAccess.Left)
		if err != nil {
			return nil, err
		}
		name, ok := memberAccess.Right.(*ast.Identifier)
		if !ok {
			return nil, langerr.At(langerr.Custom, memberAccess.Pos(), "method name must be an identifier")
		}
		args, err := ev.evalArgs(scope, e.Args)
		if err != nil {
			return nil, err
		}
		return dispatchMethod(obj, name.Value, args, e.Pos())
	}

	// The callee is resolved before its arguments are evaluated.
	headIdent, isIdent := e.Head.(*ast.Identifier)
	var callee Value
	var err error
	if isIdent {
		var ok bool
		callee, ok = scope.Get(headIdent.Value)
		if !ok {
			return nil, langerr.At(langerr.Name, e.Pos(), "undefined identifier %q", headIdent.Value)
		}
	} else {
		callee, err = ev.evalExpr(scope, e.Head)
		if err != nil {
			return nil, err
		}
	}

	// input()'s optional argument is a pass-by-reference target, not a
	// value to evaluate — handled before the generic arg evaluation
	// below, which would otherwise just read its current value.
	if b, ok := callee.(*Builtin); ok && b.Name == "input" {
		return ev.evalInputCall(scope, e)
	}

	args, err := ev.evalArgs(scope, e.Args)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *Builtin:
		return fn.Fn(ev, args, e.Pos())
	case *Function:
		return ev.callFunction(fn, args, e.Pos())
	default:
		return nil, langerr.At(langerr.Type, e.Pos(), "value is not callable")
	}
}

// callFunction runs a user-defined function's body against a fresh
// call scope seeded with its captured closure snapshot.
func (ev *Evaluator) callFunction(fn *Function, args []Value, pos lexer.Position) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, langerr.At(langerr.Argument, pos,
			"function %s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	callScope := NewCallScope(fn.Captured)
	for i, p := range fn.Params {
		callScope.Define(p, args[i].Clone(), false, false)
	}
	fl, err := ev.evalBlock(callScope, fn.Body)
	if err != nil {
		return nil, err
	}
	if fl.kind == flowReturn {
		return fl.value, nil
	}
	return Nil{}, nil
}
