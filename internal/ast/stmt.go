package ast

import "github.com/fastutils/fawk/internal/token"

// ExprStmt represents an expression used as a statement.
// Examples: count++, helper()
type ExprStmt struct {
	BaseStmt
	Expr Expr
}

// PrintStmt represents a print or printf statement.
// Examples:
//   - print
//   - print $1, $2
//   - print "hello" > "file.txt"
//   - print "data" >> "log.txt"
//   - print line | "sort"
//   - printf "%d\n", count
type PrintStmt struct {
	BaseStmt
	Printf   bool        // true for printf
	Args     []Expr      // May be empty for plain print
	Redirect token.Token // GREATER, APPEND, PIPE, or ILLEGAL if none
	Dest     Expr        // Redirection destination (file name or command)
}

// BlockStmt represents a brace-delimited block of statements.
type BlockStmt struct {
	BaseStmt
	Stmts []Stmt
}

// IfStmt represents an if or if-else statement.
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else; *IfStmt for else-if chains
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body Stmt
}

// DoWhileStmt represents a do-while loop. The body runs at least once.
type DoWhileStmt struct {
	BaseStmt
	Body Stmt
	Cond Expr
}

// ForStmt represents a C-style for loop.
// Example: for (init; cond; post) { body }
type ForStmt struct {
	BaseStmt
	Init Stmt // may be nil
	Cond Expr // may be nil, meaning true
	Post Stmt // may be nil
	Body Stmt
}

// ForInStmt represents a for-in loop over array keys.
// Example: for (key in arr) { print key }
type ForInStmt struct {
	BaseStmt
	Var   *Ident // Loop variable receiving each key
	Array Expr   // Array to iterate (usually *Ident)
	Body  Stmt
}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	BaseStmt
}

// ContinueStmt jumps to the next iteration of the innermost loop.
type ContinueStmt struct {
	BaseStmt
}

// NextStmt stops processing the current record and moves to the next one.
type NextStmt struct {
	BaseStmt
}

// ReturnStmt returns from the current function, optionally with a value.
type ReturnStmt struct {
	BaseStmt
	Value Expr // nil for bare return
}

// ExitStmt terminates record processing, optionally with an exit code.
// END rules still run after exit.
type ExitStmt struct {
	BaseStmt
	Code Expr // nil defaults to 0
}

// DeleteStmt represents a delete statement.
// Examples:
//   - delete arr[key]
//   - delete arr[i,j]
//   - delete arr (clears the whole array)
type DeleteStmt struct {
	BaseStmt
	Array Expr   // Array expression (usually *Ident)
	Index []Expr // Key expression(s); empty to clear the whole array
}

// Ensure all statement types implement Stmt.
var (
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*PrintStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*DoWhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*ForInStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*ContinueStmt)(nil)
	_ Stmt = (*NextStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)
	_ Stmt = (*ExitStmt)(nil)
	_ Stmt = (*DeleteStmt)(nil)
)
