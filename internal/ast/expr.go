package ast

import "github.com/fastutils/fawk/internal/token"

// NumLit represents a numeric literal.
// Examples: 42, 3.14, 1e10, 0x1F
type NumLit struct {
	BaseExpr
	Value float64 // Parsed numeric value
	Raw   string  // Original source text
}

// StrLit represents a string literal with escapes already processed.
type StrLit struct {
	BaseExpr
	Value string
}

// RegexLit represents a regex literal such as /[a-z]+/.
// As a standalone expression it matches against the current record;
// as an argument to sub, gsub, match or split it supplies the pattern.
type RegexLit struct {
	BaseExpr
	Pattern string // Pattern without delimiters
}

// Ident represents a variable name.
// Examples: x, NF, FILENAME
type Ident struct {
	BaseExpr
	Name string
}

// FieldExpr represents a field reference.
// Examples: $0, $1, $NF, $(i+1)
type FieldExpr struct {
	BaseExpr
	Index Expr // Field index expression
}

// IndexExpr represents an array subscript expression.
// Examples: arr[key], arr[i,j]
type IndexExpr struct {
	BaseExpr
	Array Expr   // Array expression (usually *Ident)
	Index []Expr // Subscripts (multiple for multi-dimensional access)
}

// BinaryExpr represents a binary operation.
// Examples: a + b, x == y
type BinaryExpr struct {
	BaseExpr
	Left  Expr
	Op    token.Token
	Right Expr
}

// UnaryExpr represents a unary operation.
// Examples: -x, !flag, ++i, i++
type UnaryExpr struct {
	BaseExpr
	Op   token.Token // SUB, ADD, NOT, INCR, or DECR
	Expr Expr
	Post bool // true for postfix (i++), false for prefix (++i)
}

// TernaryExpr represents a conditional expression.
// Example: cond ? a : b
type TernaryExpr struct {
	BaseExpr
	Cond Expr
	Then Expr
	Else Expr
}

// AssignExpr represents an assignment expression.
// Examples: x = 1, arr[k] = v, $1 = "new", n += 2
type AssignExpr struct {
	BaseExpr
	Left  Expr        // Target (must be an lvalue)
	Op    token.Token // ASSIGN, ADD_ASSIGN, etc.
	Right Expr
}

// ConcatExpr represents implicit string concatenation of adjacent
// expressions. Example: "a" x $1
type ConcatExpr struct {
	BaseExpr
	Exprs []Expr // At least 2
}

// GroupExpr represents a parenthesized expression, preserved so that
// the printer can round-trip explicit grouping.
type GroupExpr struct {
	BaseExpr
	Expr Expr
}

// CallExpr represents a user-defined function call.
// Example: my_func(a, b)
type CallExpr struct {
	BaseExpr
	Name string
	Args []Expr
}

// BuiltinExpr represents a built-in function call.
// Examples: length($0), substr(s, 1, 5), split(s, arr, ":")
// Argument counts are validated at evaluation time.
type BuiltinExpr struct {
	BaseExpr
	Func token.Token // F_LENGTH, F_SUBSTR, etc.
	Args []Expr
}

// GetlineExpr represents a getline expression.
// Forms:
//   - getline              -> read next record
//   - getline var          -> read next record into var
//   - getline < file       -> read from file
//   - cmd | getline        -> read from command
//
// Only the plain forms are executable; the file and command forms
// parse but fail at evaluation time.
type GetlineExpr struct {
	BaseExpr
	Target  Expr // Variable to read into (nil means $0)
	File    Expr // File to read from (nil if none)
	Command Expr // Command to pipe from (nil if none)
}

// InExpr represents an array membership test.
// Examples: key in arr, (i,j) in arr
type InExpr struct {
	BaseExpr
	Index []Expr // Key expression(s)
	Array Expr   // Array expression (usually *Ident)
}

// MatchExpr represents a regex match expression.
// Examples: str ~ /re/, str !~ pat
type MatchExpr struct {
	BaseExpr
	Expr    Expr        // String expression to match
	Op      token.Token // MATCH (~) or NOT_MATCH (!~)
	Pattern Expr        // RegexLit or dynamic expression
}

// CommaExpr represents a range pattern: pat1, pat2.
// Only valid at rule pattern position.
type CommaExpr struct {
	BaseExpr
	Left  Expr
	Right Expr
}

// Ensure all expression types implement Expr.
var (
	_ Expr = (*NumLit)(nil)
	_ Expr = (*StrLit)(nil)
	_ Expr = (*RegexLit)(nil)
	_ Expr = (*Ident)(nil)
	_ Expr = (*FieldExpr)(nil)
	_ Expr = (*IndexExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*TernaryExpr)(nil)
	_ Expr = (*AssignExpr)(nil)
	_ Expr = (*ConcatExpr)(nil)
	_ Expr = (*GroupExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*BuiltinExpr)(nil)
	_ Expr = (*GetlineExpr)(nil)
	_ Expr = (*InExpr)(nil)
	_ Expr = (*MatchExpr)(nil)
	_ Expr = (*CommaExpr)(nil)
)
