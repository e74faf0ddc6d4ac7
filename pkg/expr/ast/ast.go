package ast

// Kind identifies the variant of an expression Node.
type Kind string

const (
	KindLiteral     Kind = "literal"     // number, string, boolean, null
	KindList        Kind = "list"        // [a, b, c]
	KindObject      Kind = "object"      // {'k': v}
	KindName        Kind = "name"        // bare identifier
	KindAttr        Kind = "attr"        // receiver.attribute
	KindUnary       Kind = "unary"       // -x, !x
	KindBinary      Kind = "binary"      // a + b, a * b, ...
	KindLogical     Kind = "logical"     // a && b, a || b
	KindCompare     Kind = "compare"     // a < b <= c (chained)
	KindConditional Kind = "conditional" // cond ? then : else
	KindCall        Kind = "call"        // fn(a, b)
)

// Op is an operator token attached to unary, binary, logical, and compare nodes.
type Op string

const (
	OpNeg Op = "-"
	OpNot Op = "!"

	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"

	OpAnd Op = "&&"
	OpOr  Op = "||"

	OpEq Op = "=="
	OpNe Op = "!="
	OpLt Op = "<"
	OpGt Op = ">"
	OpLe Op = "<="
	OpGe Op = ">="
)

// Entry is a single key/value pair of an object literal.
type Entry struct {
	Key   string
	Value *Node
}

// Node is a tagged-variant expression tree node. Only the fields relevant
// to the node's Kind are populated; everything else is left zero.
//
// Nodes are immutable after parsing. The same tree may be evaluated
// concurrently by any number of goroutines.
type Node struct {
	Kind Kind

	// Literal holds the constant for KindLiteral: decimal.Decimal,
	// string, bool, or nil for the null literal.
	Literal any

	// Elems holds list elements (KindList) or call arguments (KindCall).
	Elems []*Node

	// Entries holds object literal pairs (KindObject).
	Entries []Entry

	// Name holds the identifier for KindName, the attribute for KindAttr,
	// and nothing for other kinds.
	Name string

	// X is the single operand: the receiver of KindAttr, the operand of
	// KindUnary, and the callee of KindCall.
	X *Node

	// Op and Left/Right serve KindUnary (Op only), KindBinary, and
	// KindLogical.
	Op    Op
	Left  *Node
	Right *Node

	// Ops and Comparators serve KindCompare: Left holds the leading
	// operand, then Ops[i] relates the running value to Comparators[i].
	Ops         []Op
	Comparators []*Node

	// Cond, Then, Else serve KindConditional.
	Cond *Node
	Then *Node
	Else *Node

	// Pos is the byte offset of the node in the source expression,
	// used for error reporting.
	Pos int
}
