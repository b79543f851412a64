package interp

import (
	"github.com/fastutils/fawk/internal/ast"
	"github.com/fastutils/fawk/internal/token"
)

// analyzeArrayParams determines, for each function, which parameters
// are used as arrays inside its body. Callers use the result to pass
// those arguments by reference. Array usage propagates through calls:
// if f passes its parameter x straight to an array parameter of g,
// then x is an array parameter of f too, so the analysis iterates to a
// fixed point.
func analyzeArrayParams(prog *ast.Program, funcs map[string]*ast.FuncDecl) map[*ast.FuncDecl][]bool {
	result := make(map[*ast.FuncDecl][]bool, len(prog.Functions))
	for _, fn := range prog.Functions {
		result[fn] = make([]bool, len(fn.Params))
	}

	for changed := true; changed; {
		changed = false
		for _, fn := range prog.Functions {
			a := &paramAnalysis{
				params: paramIndexes(fn),
				marks:  result[fn],
				funcs:  funcs,
				result: result,
			}
			if a.walkStmt(fn.Body) {
				changed = true
			}
		}
	}
	return result
}

func paramIndexes(fn *ast.FuncDecl) map[string]int {
	m := make(map[string]int, len(fn.Params))
	for i, p := range fn.Params {
		m[p] = i
	}
	return m
}

type paramAnalysis struct {
	params map[string]int
	marks  []bool
	funcs  map[string]*ast.FuncDecl
	result map[*ast.FuncDecl][]bool
}

// markArray marks an expression that appears in array position.
// Returns true when a new parameter was marked.
func (a *paramAnalysis) markArray(e ast.Expr) bool {
	ident, ok := e.(*ast.Ident)
	if !ok {
		return false
	}
	i, ok := a.params[ident.Name]
	if !ok || a.marks[i] {
		return false
	}
	a.marks[i] = true
	return true
}

func (a *paramAnalysis) walkStmt(s ast.Stmt) bool {
	changed := false
	switch n := s.(type) {
	case nil:
	case *ast.BlockStmt:
		for _, sub := range n.Stmts {
			changed = a.walkStmt(sub) || changed
		}
	case *ast.ExprStmt:
		changed = a.walkExpr(n.Expr)
	case *ast.PrintStmt:
		for _, arg := range n.Args {
			changed = a.walkExpr(arg) || changed
		}
		if n.Dest != nil {
			changed = a.walkExpr(n.Dest) || changed
		}
	case *ast.IfStmt:
		changed = a.walkExpr(n.Cond)
		changed = a.walkStmt(n.Then) || changed
		changed = a.walkStmt(n.Else) || changed
	case *ast.WhileStmt:
		changed = a.walkExpr(n.Cond)
		changed = a.walkStmt(n.Body) || changed
	case *ast.DoWhileStmt:
		changed = a.walkStmt(n.Body)
		changed = a.walkExpr(n.Cond) || changed
	case *ast.ForStmt:
		changed = a.walkStmt(n.Init)
		if n.Cond != nil {
			changed = a.walkExpr(n.Cond) || changed
		}
		changed = a.walkStmt(n.Post) || changed
		changed = a.walkStmt(n.Body) || changed
	case *ast.ForInStmt:
		changed = a.markArray(n.Array)
		changed = a.walkStmt(n.Body) || changed
	case *ast.ReturnStmt:
		if n.Value != nil {
			changed = a.walkExpr(n.Value)
		}
	case *ast.ExitStmt:
		if n.Code != nil {
			changed = a.walkExpr(n.Code)
		}
	case *ast.DeleteStmt:
		changed = a.markArray(n.Array)
		for _, idx := range n.Index {
			changed = a.walkExpr(idx) || changed
		}
	}
	return changed
}

func (a *paramAnalysis) walkExpr(e ast.Expr) bool {
	changed := false
	switch n := e.(type) {
	case nil:
	case *ast.IndexExpr:
		changed = a.markArray(n.Array)
		for _, idx := range n.Index {
			changed = a.walkExpr(idx) || changed
		}
	case *ast.InExpr:
		changed = a.markArray(n.Array)
		for _, idx := range n.Index {
			changed = a.walkExpr(idx) || changed
		}
	case *ast.BinaryExpr:
		changed = a.walkExpr(n.Left)
		changed = a.walkExpr(n.Right) || changed
	case *ast.UnaryExpr:
		changed = a.walkExpr(n.Expr)
	case *ast.TernaryExpr:
		changed = a.walkExpr(n.Cond)
		changed = a.walkExpr(n.Then) || changed
		changed = a.walkExpr(n.Else) || changed
	case *ast.AssignExpr:
		changed = a.walkExpr(n.Left)
		changed = a.walkExpr(n.Right) || changed
	case *ast.ConcatExpr:
		for _, sub := range n.Exprs {
			changed = a.walkExpr(sub) || changed
		}
	case *ast.GroupExpr:
		changed = a.walkExpr(n.Expr)
	case *ast.FieldExpr:
		changed = a.walkExpr(n.Index)
	case *ast.MatchExpr:
		changed = a.walkExpr(n.Expr)
		changed = a.walkExpr(n.Pattern) || changed
	case *ast.GetlineExpr:
		if n.File != nil {
			changed = a.walkExpr(n.File)
		}
		if n.Command != nil {
			changed = a.walkExpr(n.Command) || changed
		}
	case *ast.BuiltinExpr:
		// split's second argument is an array position
		if n.Func == token.F_SPLIT && len(n.Args) >= 2 {
			changed = a.markArray(n.Args[1])
		}
		if n.Func == token.F_LENGTH && len(n.Args) == 1 {
			// length(arr) is valid for arrays; do not mark, a scalar
			// is equally valid here
			changed = a.walkExpr(n.Args[0]) || changed
			return changed
		}
		for i, arg := range n.Args {
			if n.Func == token.F_SPLIT && i == 1 {
				continue
			}
			changed = a.walkExpr(arg) || changed
		}
	case *ast.CallExpr:
		// Propagate array-ness from callee parameters to arguments
		if fn, ok := a.funcs[n.Name]; ok {
			callee := a.result[fn]
			for i, arg := range n.Args {
				if i < len(callee) && callee[i] {
					changed = a.markArray(arg) || changed
				} else {
					changed = a.walkExpr(arg) || changed
				}
			}
		} else {
			for _, arg := range n.Args {
				changed = a.walkExpr(arg) || changed
			}
		}
	}
	return changed
}
