package ast

import "github.com/fastutils/fawk/internal/token"

// Program represents a complete script:
//   - BEGIN blocks, executed in order before any input
//   - pattern-action rules, executed for each input record
//   - END blocks, executed after all input
//   - user-defined functions
type Program struct {
	Begin []*BlockStmt

	// Rules are executed in order for each record.
	Rules []*Rule

	// EndBlocks are executed in order after all input is processed.
	// Named EndBlocks to avoid colliding with the End() method.
	EndBlocks []*BlockStmt

	Functions []*FuncDecl

	StartPos token.Position
	EndPos   token.Position
}

// Pos returns the position of the first token in the program.
func (p *Program) Pos() token.Position { return p.StartPos }

// End returns the position after the last token in the program.
func (p *Program) End() token.Position { return p.EndPos }

// Rule represents a pattern-action rule.
// Examples:
//   - { print }              -> Pattern is nil (matches every record)
//   - /regex/ { print }      -> Pattern is *RegexLit
//   - $1 > 100 { print $2 }  -> Pattern is *BinaryExpr
//   - NR == 1, NR == 10      -> range pattern (*CommaExpr)
type Rule struct {
	// Pattern determines whether the action runs for a record.
	// nil matches every record. *CommaExpr marks a range pattern.
	Pattern Expr

	// Action to execute when the pattern matches.
	// nil means the default action: { print $0 }
	Action *BlockStmt

	StartPos token.Position
	EndPos   token.Position
}

// Pos returns the position of the first token in the rule.
func (r *Rule) Pos() token.Position { return r.StartPos }

// End returns the position after the last token in the rule.
func (r *Rule) End() token.Position { return r.EndPos }

// FuncDecl represents a user-defined function declaration.
// Example: function add(a, b) { return a + b }
//
// Parameters double as local variables: callers may pass fewer
// arguments than there are parameters, and the extras start undefined.
type FuncDecl struct {
	BaseDecl

	Name   string
	Params []string
	Body   *BlockStmt

	// NamePos is the position of the function name, for error messages.
	NamePos token.Position
}

var (
	_ Node = (*Program)(nil)
	_ Node = (*Rule)(nil)
	_ Decl = (*FuncDecl)(nil)
)
