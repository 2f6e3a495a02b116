package ast

// Operator identifies which operation a Unary/Binary node performs,
// independent of which token spelled it (e.g. `&&` and `and` both
// produce OpAnd).
type Operator int

const (
	OpUnknown Operator = iota
	OpComma

	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign

	OpOr
	OpAnd

	OpEq
	OpNotEq

	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpIntDiv

	OpNeg // unary -
	OpPos // unary +
	OpNot // unary !/not

	OpPreIncr
	OpPreDecr
	OpPostIncr
	OpPostDecr

	OpMemberAccess
)

var operatorNames = map[Operator]string{
	OpComma: ",",
	OpAssign: "=", OpAddAssign: "+=", OpSubAssign: "-=", OpMulAssign: "*=",
	OpDivAssign: "/=", OpModAssign: "%=",
	OpOr: "or", OpAnd: "and",
	OpEq: "==", OpNotEq: "!=",
	OpLess: "<", OpLessEq: "<=", OpGreater: ">", OpGreaterEq: ">=",
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpIntDiv: "div",
	OpNeg: "-", OpPos: "+", OpNot: "!",
	OpPreIncr: "++", OpPreDecr: "--", OpPostIncr: "++", OpPostDecr: "--",
	OpMemberAccess: ".",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "?"
}
