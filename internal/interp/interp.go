// Package interp implements a tree-walking evaluator for parsed
// scripts. The driver feeds records one at a time: Begin runs BEGIN
// blocks, Record runs the pattern-action rules against one record, and
// End runs END blocks and flushes redirected output.
package interp

import (
	"time"

	"github.com/fastutils/fawk/internal/ast"
	"github.com/fastutils/fawk/internal/runtime"
	"github.com/fastutils/fawk/internal/token"
	"github.com/fastutils/fawk/internal/types"
)

// flow is a control-flow signal threaded through statement execution.
// Loops absorb flowBreak and flowContinue, the record loop absorbs
// flowNext, function calls absorb flowReturn, and flowExit propagates
// to the driver.
type flow int

const (
	flowNone flow = iota
	flowBreak
	flowContinue
	flowNext
	flowExit
	flowReturn
)

// maxCallDepth bounds user-function recursion.
const maxCallDepth = 1000

// Interpreter executes a parsed program against a Context.
type Interpreter struct {
	prog  *ast.Program
	ctx   *runtime.Context
	funcs map[string]*ast.FuncDecl

	// arrayParams[fn][i] is true when parameter i of fn is used as an
	// array, so callers pass it by reference.
	arrayParams map[*ast.FuncDecl][]bool

	// rangeActive[i] tracks whether range pattern i is between its
	// start and end match.
	rangeActive []bool

	retVal types.Value // Value captured by the last return statement

	now func() int64 // Clock for srand(), swappable in tests
}

// New creates an Interpreter for prog evaluating in ctx.
func New(prog *ast.Program, ctx *runtime.Context) (*Interpreter, error) {
	funcs := make(map[string]*ast.FuncDecl, len(prog.Functions))
	for _, fn := range prog.Functions {
		if _, ok := funcs[fn.Name]; ok {
			return nil, runtime.Errorf("function %q defined twice", fn.Name)
		}
		funcs[fn.Name] = fn
	}

	in := &Interpreter{
		prog:        prog,
		ctx:         ctx,
		funcs:       funcs,
		rangeActive: make([]bool, len(prog.Rules)),
		now:         func() int64 { return time.Now().Unix() },
	}
	in.arrayParams = analyzeArrayParams(prog, funcs)
	return in, nil
}

// Context returns the evaluation context.
func (in *Interpreter) Context() *runtime.Context {
	return in.ctx
}

// Begin runs all BEGIN blocks in order.
func (in *Interpreter) Begin() error {
	for _, block := range in.prog.Begin {
		f, err := in.execBlock(block)
		if err != nil {
			return err
		}
		if f == flowExit {
			return nil
		}
	}
	return nil
}

// Record processes one input record through the pattern-action rules.
// It is a no-op once an exit statement has run.
func (in *Interpreter) Record(line string) error {
	if in.ctx.Exited() {
		return nil
	}
	in.ctx.SetRecord(line)

	for i, rule := range in.prog.Rules {
		matched, err := in.matchRule(i, rule)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}

		f, err := in.execAction(rule.Action)
		if err != nil {
			return err
		}
		switch f {
		case flowNext:
			return nil
		case flowExit:
			return nil
		}
	}
	return nil
}

// matchRule decides whether a rule's action runs for the current
// record. Range patterns track activation across records: the start
// match turns the range on and the end match (possibly on the same
// record) turns it off, with the action running on every record in
// between, endpoints included.
func (in *Interpreter) matchRule(i int, rule *ast.Rule) (bool, error) {
	if rule.Pattern == nil {
		return true, nil
	}

	if rng, ok := rule.Pattern.(*ast.CommaExpr); ok {
		if !in.rangeActive[i] {
			start, err := in.evalExpr(rng.Left)
			if err != nil {
				return false, err
			}
			if !start.AsBool() {
				return false, nil
			}
			end, err := in.evalExpr(rng.Right)
			if err != nil {
				return false, err
			}
			// A single-record range stays inactive afterwards
			in.rangeActive[i] = !end.AsBool()
			return true, nil
		}
		end, err := in.evalExpr(rng.Right)
		if err != nil {
			return false, err
		}
		if end.AsBool() {
			in.rangeActive[i] = false
		}
		return true, nil
	}

	v, err := in.evalExpr(rule.Pattern)
	if err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

// execAction runs a rule body; a nil action prints the record.
func (in *Interpreter) execAction(action *ast.BlockStmt) (flow, error) {
	if action == nil {
		return flowNone, in.printValues(nil, token.ILLEGAL, nil)
	}
	return in.execBlock(action)
}

// End runs all END blocks. They run even after an exit statement, and
// an exit inside an END block stops the remaining ones.
func (in *Interpreter) End() error {
	defer in.ctx.IO().CloseAll()

	for _, block := range in.prog.EndBlocks {
		f, err := in.execBlock(block)
		if err != nil {
			return err
		}
		if f == flowExit {
			break
		}
	}
	return nil
}

// Exited reports whether an exit statement has run.
func (in *Interpreter) Exited() bool {
	return in.ctx.Exited()
}

// ExitCode returns the code passed to exit, or 0.
func (in *Interpreter) ExitCode() int {
	return in.ctx.ExitCode()
}

// Statements

func (in *Interpreter) execBlock(block *ast.BlockStmt) (flow, error) {
	for _, stmt := range block.Stmts {
		f, err := in.execStmt(stmt)
		if err != nil {
			return flowNone, err
		}
		if f != flowNone {
			return f, nil
		}
	}
	return flowNone, nil
}

func (in *Interpreter) execStmt(stmt ast.Stmt) (flow, error) {
	switch s := stmt.(type) {
	case nil:
		return flowNone, nil

	case *ast.ExprStmt:
		_, err := in.evalExpr(s.Expr)
		return flowNone, err

	case *ast.BlockStmt:
		return in.execBlock(s)

	case *ast.PrintStmt:
		return flowNone, in.execPrint(s)

	case *ast.IfStmt:
		cond, err := in.evalExpr(s.Cond)
		if err != nil {
			return flowNone, err
		}
		if cond.AsBool() {
			return in.execOptStmt(s.Then)
		}
		return in.execOptStmt(s.Else)

	case *ast.WhileStmt:
		for {
			cond, err := in.evalExpr(s.Cond)
			if err != nil {
				return flowNone, err
			}
			if !cond.AsBool() {
				return flowNone, nil
			}
			f, err := in.execOptStmt(s.Body)
			if err != nil {
				return flowNone, err
			}
			if done, out := loopFlow(f); done {
				return out, nil
			}
		}

	case *ast.DoWhileStmt:
		for {
			f, err := in.execOptStmt(s.Body)
			if err != nil {
				return flowNone, err
			}
			if done, out := loopFlow(f); done {
				return out, nil
			}
			cond, err := in.evalExpr(s.Cond)
			if err != nil {
				return flowNone, err
			}
			if !cond.AsBool() {
				return flowNone, nil
			}
		}

	case *ast.ForStmt:
		if s.Init != nil {
			if _, err := in.execStmt(s.Init); err != nil {
				return flowNone, err
			}
		}
		for {
			if s.Cond != nil {
				cond, err := in.evalExpr(s.Cond)
				if err != nil {
					return flowNone, err
				}
				if !cond.AsBool() {
					return flowNone, nil
				}
			}
			f, err := in.execOptStmt(s.Body)
			if err != nil {
				return flowNone, err
			}
			if done, out := loopFlow(f); done {
				return out, nil
			}
			if s.Post != nil {
				if _, err := in.execStmt(s.Post); err != nil {
					return flowNone, err
				}
			}
		}

	case *ast.ForInStmt:
		arr, err := in.resolveArray(s.Array)
		if err != nil {
			return flowNone, err
		}
		for _, key := range arr.ArrayKeys() {
			if err := in.ctx.SetVar(s.Var.Name, types.NumStr(key)); err != nil {
				return flowNone, err
			}
			f, err := in.execOptStmt(s.Body)
			if err != nil {
				return flowNone, err
			}
			if done, out := loopFlow(f); done {
				return out, nil
			}
		}
		return flowNone, nil

	case *ast.BreakStmt:
		return flowBreak, nil

	case *ast.ContinueStmt:
		return flowContinue, nil

	case *ast.NextStmt:
		return flowNext, nil

	case *ast.ReturnStmt:
		in.retVal = types.Undefined()
		if s.Value != nil {
			v, err := in.evalExpr(s.Value)
			if err != nil {
				return flowNone, err
			}
			in.retVal = v
		}
		return flowReturn, nil

	case *ast.ExitStmt:
		code := 0
		if s.Code != nil {
			v, err := in.evalExpr(s.Code)
			if err != nil {
				return flowNone, err
			}
			code = int(v.AsNum())
		}
		in.ctx.SetExit(code)
		return flowExit, nil

	case *ast.DeleteStmt:
		return flowNone, in.execDelete(s)

	default:
		return flowNone, runtime.Errorf("unhandled statement %T", stmt)
	}
}

// execOptStmt runs a possibly-nil statement (empty loop bodies and
// if branches parse to nil).
func (in *Interpreter) execOptStmt(stmt ast.Stmt) (flow, error) {
	if stmt == nil {
		return flowNone, nil
	}
	return in.execStmt(stmt)
}

// loopFlow translates a body's flow signal at the loop boundary:
// break and continue are absorbed, anything else propagates.
func loopFlow(f flow) (done bool, out flow) {
	switch f {
	case flowBreak:
		return true, flowNone
	case flowContinue, flowNone:
		return false, flowNone
	default:
		return true, f
	}
}

func (in *Interpreter) execDelete(s *ast.DeleteStmt) error {
	arr, err := in.resolveArray(s.Array)
	if err != nil {
		return err
	}
	if len(s.Index) == 0 {
		arr.ArrayClear()
		return nil
	}
	key, err := in.evalIndexKey(s.Index)
	if err != nil {
		return err
	}
	arr.ArrayDelete(key)
	return nil
}

// Print

func (in *Interpreter) execPrint(s *ast.PrintStmt) error {
	if s.Printf {
		return in.execPrintf(s)
	}
	return in.printValues(s.Args, s.Redirect, s.Dest)
}

// printValues writes the print form: arguments joined by OFS and
// terminated by ORS. With no arguments the whole record prints.
func (in *Interpreter) printValues(args []ast.Expr, redirect token.Token, dest ast.Expr) error {
	var sb []byte
	if len(args) == 0 {
		sb = append(sb, in.ctx.Field(0).AsStr("%.6g")...)
	} else {
		for i, arg := range args {
			if i > 0 {
				sb = append(sb, in.ctx.OFS()...)
			}
			v, err := in.evalExpr(arg)
			if err != nil {
				return err
			}
			sb = append(sb, in.ctx.ToStr(v)...)
		}
	}
	sb = append(sb, in.ctx.ORS()...)
	return in.writeOutput(sb, redirect, dest)
}

func (in *Interpreter) execPrintf(s *ast.PrintStmt) error {
	format, err := in.evalExpr(s.Args[0])
	if err != nil {
		return err
	}
	values := make([]types.Value, 0, len(s.Args)-1)
	for _, arg := range s.Args[1:] {
		v, err := in.evalExpr(arg)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	out, err := in.ctx.Sprintf(in.ctx.ToStr(format), values)
	if err != nil {
		return err
	}
	return in.writeOutput([]byte(out), s.Redirect, s.Dest)
}

// writeOutput sends bytes to the main output or a redirection target.
func (in *Interpreter) writeOutput(b []byte, redirect token.Token, dest ast.Expr) error {
	if dest == nil {
		_, err := in.ctx.Output().Write(b)
		return err
	}

	destVal, err := in.evalExpr(dest)
	if err != nil {
		return err
	}
	name := in.ctx.ToStr(destVal)

	switch redirect {
	case token.GREATER:
		w, err := in.ctx.IO().GetOutputFile(name, false)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case token.APPEND:
		w, err := in.ctx.IO().GetOutputFile(name, true)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case token.PIPE:
		w, err := in.ctx.IO().GetOutputPipe(name)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return runtime.Errorf("unknown print redirection")
	}
}
