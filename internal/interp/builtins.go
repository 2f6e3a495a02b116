package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/ibscript/internal/langerr"
	"github.com/cwbudde/ibscript/internal/lexer"
)

// registerBuiltins installs the standard library as const global
// bindings: the container constructors, output, and input.
func registerBuiltins(g *Scope) {
	for _, b := range []*Builtin{
		{Name: "Array", Fn: builtinArray},
		{Name: "Stack", Fn: builtinStack},
		{Name: "Queue", Fn: builtinQueue},
		{Name: "Collection", Fn: builtinCollection},
		{Name: "String", Fn: builtinString},
		{Name: "output", Fn: builtinOutput},
		{Name: "input", Fn: builtinInput},
	} {
		g.Define(b.Name, b, true, false)
	}
}

// builtinArray constructs an n-dimensional array: Array(d1, d2, …).
// Each dimension must be a positive integer; with more than one
// dimension, every element of the outermost array is itself a fresh
// array of the remaining dimensions.
func builtinArray(ev *Evaluator, args []Value, pos lexer.Position) (Value, error) {
	if len(args) == 0 {
		return nil, langerr.At(langerr.Argument, pos, "Array expects at least one dimension")
	}
	dims := make([]int, len(args))
	for i, a := range args {
		if !isNumeric(a.Kind()) {
			return nil, langerr.At(langerr.Type, pos, "Array dimension must be numeric")
		}
		d := int(asInt(a))
		if d <= 0 {
			return nil, langerr.At(langerr.Value, pos, "Array dimension must be a positive integer")
		}
		dims[i] = d
	}
	return newNDArray(dims), nil
}

func newNDArray(dims []int) *Array {
	if len(dims) == 1 {
		return NewArray(dims[0], Int(0))
	}
	a := &Array{Elems: make([]Value, dims[0])}
	for i := range a.Elems {
		a.Elems[i] = newNDArray(dims[1:])
	}
	return a
}

func builtinString(ev *Evaluator, args []Value, pos lexer.Position) (Value, error) {
	if len(args) != 0 {
		return nil, langerr.At(langerr.Argument, pos, "String expects no arguments")
	}
	return String(""), nil
}

func builtinStack(ev *Evaluator, args []Value, pos lexer.Position) (Value, error) {
	if len(args) != 0 {
		return nil, langerr.At(langerr.Argument, pos, "Stack expects no arguments")
	}
	return NewStack(), nil
}

func builtinQueue(ev *Evaluator, args []Value, pos lexer.Position) (Value, error) {
	if len(args) != 0 {
		return nil, langerr.At(langerr.Argument, pos, "Queue expects no arguments")
	}
	return NewQueue(), nil
}

func builtinCollection(ev *Evaluator, args []Value, pos lexer.Position) (Value, error) {
	if len(args) != 0 {
		return nil, langerr.At(langerr.Argument, pos, "Collection expects no arguments")
	}
	return NewCollection(), nil
}

func builtinOutput(ev *Evaluator, args []Value, pos lexer.Position) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(ev.Out, strings.Join(parts, " "))
	return Nil{}, nil
}

// builtinInput reads one line of stdin, sniffing it as an integer, else
// a float, else falling back to a string. EOF on an empty line yields
// an empty string rather than an error. The pass-by-reference store
// into an optional single argument is handled by evalInputCall, which
// intercepts the call before args are evaluated as values (this
// builtin never receives them).
func builtinInput(ev *Evaluator, args []Value, pos lexer.Position) (Value, error) {
	line, err := ev.In.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return String(""), nil
	}

	if n, convErr := strconv.ParseInt(line, 10, 64); convErr == nil {
		return Int(n), nil
	}
	if f, convErr := strconv.ParseFloat(line, 64); convErr == nil {
		return Float(f), nil
	}
	return String(line), nil
}

// dispatchMethod routes `obj.name(args…)` to the matching container
// operation.
func dispatchMethod(obj Value, name string, args []Value, pos lexer.Position) (Value, error) {
	switch c := obj.(type) {
	case *Array:
		switch name {
		case "length", "size":
			return Int(len(c.Elems)), nil
		case "get":
			if len(args) != 1 {
				return nil, langerr.At(langerr.Argument, pos, "get expects exactly one argument")
			}
			if !isNumeric(args[0].Kind()) {
				return nil, langerr.At(langerr.Type, pos, "get index must be numeric")
			}
			idx := int(asInt(args[0]))
			if idx < 0 || idx >= len(c.Elems) {
				return nil, langerr.At(langerr.Range, pos, "array index %d out of range [0, %d)", idx, len(c.Elems))
			}
			return c.Elems[idx], nil
		}
	case *Stack:
		switch name {
		case "push":
			if len(args) != 1 {
				return nil, langerr.At(langerr.Argument, pos, "push expects exactly one argument")
			}
			c.Push(args[0].Clone())
			return Nil{}, nil
		case "pop":
			v, ok := c.Pop()
			if !ok {
				return nil, langerr.At(langerr.Value, pos, "pop from an empty Stack")
			}
			return v, nil
		case "isEmpty":
			return Bool(len(c.Elems) == 0), nil
		case "size":
			return Int(len(c.Elems)), nil
		}
	case *Queue:
		switch name {
		case "enqueue":
			if len(args) != 1 {
				return nil, langerr.At(langerr.Argument, pos, "enqueue expects exactly one argument")
			}
			c.Enqueue(args[0].Clone())
			return Nil{}, nil
		case "dequeue":
			v, ok := c.Dequeue()
			if !ok {
				return nil, langerr.At(langerr.Value, pos, "dequeue from an empty Queue")
			}
			return v, nil
		case "isEmpty":
			return Bool(len(c.Elems) == 0), nil
		case "size":
			return Int(len(c.Elems)), nil
		}
	case *Collection:
		switch name {
		case "addItem":
			if len(args) != 1 {
				return nil, langerr.At(langerr.Argument, pos, "addItem expects exactly one argument")
			}
			c.AddItem(args[0].Clone())
			return Nil{}, nil
		case "resetNext":
			c.ResetNext()
			return Nil{}, nil
		case "hasNext":
			return Bool(c.HasNext()), nil
		case "getNext":
			v, ok := c.GetNext()
			if !ok {
				return nil, langerr.At(langerr.Value, pos, "getNext past the end of a Collection")
			}
			return v, nil
		case "size":
			return Int(len(c.Elems)), nil
		}
	case String:
		switch name {
		case "length", "size":
			return Int(len([]rune(string(c)))), nil
		case "get":
			if len(args) != 1 {
				return nil, langerr.At(langerr.Argument, pos, "get expects exactly one argument")
			}
			if !isNumeric(args[0].Kind()) {
				return nil, langerr.At(langerr.Type, pos, "get index must be numeric")
			}
			runes := []rune(string(c))
			idx := int(asInt(args[0]))
			if idx < 0 || idx >= len(runes) {
				return nil, langerr.At(langerr.Range, pos, "string index %d out of range [0, %d)", idx, len(runes))
			}
			return Char(runes[idx]), nil
		}
	}
	return nil, langerr.At(langerr.Name, pos, "%s has no method %q", obj.Kind(), name)
}
