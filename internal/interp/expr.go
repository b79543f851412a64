package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/fastutils/fawk/internal/ast"
	"github.com/fastutils/fawk/internal/runtime"
	"github.com/fastutils/fawk/internal/token"
	"github.com/fastutils/fawk/internal/types"
)

// evalExpr evaluates an expression to a scalar value. A regex literal
// in expression position matches against the current record.
func (in *Interpreter) evalExpr(e ast.Expr) (types.Value, error) {
	switch n := e.(type) {
	case *ast.NumLit:
		return types.Num(n.Value), nil

	case *ast.StrLit:
		return types.Str(n.Value), nil

	case *ast.RegexLit:
		re, err := in.ctx.Regex(n.Pattern)
		if err != nil {
			return types.Value{}, err
		}
		record := in.ctx.Field(0).AsStr("%.6g")
		return types.Bool(re.MatchString(record)), nil

	case *ast.Ident:
		return in.ctx.Var(n.Name), nil

	case *ast.FieldExpr:
		idx, err := in.fieldIndex(n.Index)
		if err != nil {
			return types.Value{}, err
		}
		return in.ctx.Field(idx), nil

	case *ast.IndexExpr:
		arr, err := in.resolveArray(n.Array)
		if err != nil {
			return types.Value{}, err
		}
		key, err := in.evalIndexKey(n.Index)
		if err != nil {
			return types.Value{}, err
		}
		v, ok := arr.ArrayGet(key)
		if !ok {
			// Reading a missing element creates it
			v = types.Undefined()
			arr.ArraySet(key, v)
		}
		return v, nil

	case *ast.GroupExpr:
		return in.evalExpr(n.Expr)

	case *ast.BinaryExpr:
		return in.evalBinary(n)

	case *ast.UnaryExpr:
		return in.evalUnary(n)

	case *ast.TernaryExpr:
		cond, err := in.evalExpr(n.Cond)
		if err != nil {
			return types.Value{}, err
		}
		if cond.AsBool() {
			return in.evalExpr(n.Then)
		}
		return in.evalExpr(n.Else)

	case *ast.AssignExpr:
		return in.evalAssign(n)

	case *ast.ConcatExpr:
		var sb strings.Builder
		for _, sub := range n.Exprs {
			v, err := in.evalExpr(sub)
			if err != nil {
				return types.Value{}, err
			}
			sb.WriteString(in.ctx.ToStr(v))
		}
		return types.Str(sb.String()), nil

	case *ast.MatchExpr:
		return in.evalMatch(n)

	case *ast.InExpr:
		arr, err := in.resolveArray(n.Array)
		if err != nil {
			return types.Value{}, err
		}
		key, err := in.evalIndexKey(n.Index)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(arr.ArrayContains(key)), nil

	case *ast.CallExpr:
		return in.callUserFunc(n)

	case *ast.BuiltinExpr:
		return in.callBuiltin(n)

	case *ast.GetlineExpr:
		return in.evalGetline(n)

	case *ast.CommaExpr:
		return types.Value{}, runtime.Errorf("range pattern only valid as a rule pattern")

	default:
		return types.Value{}, runtime.Errorf("unhandled expression %T", e)
	}
}

// fieldIndex evaluates a field index expression, truncating to int.
func (in *Interpreter) fieldIndex(e ast.Expr) (int, error) {
	v, err := in.evalExpr(e)
	if err != nil {
		return 0, err
	}
	idx := int(v.AsNum())
	if idx < 0 {
		return 0, &runtime.InvalidArrayIndexError{
			Message: fmt.Sprintf("field index negative: %d", idx),
		}
	}
	return idx, nil
}

// evalIndexKey joins subscript expressions into one array key,
// separated by SUBSEP for multi-dimensional access.
func (in *Interpreter) evalIndexKey(index []ast.Expr) (string, error) {
	if len(index) == 1 {
		v, err := in.evalExpr(index[0])
		if err != nil {
			return "", err
		}
		return in.ctx.ToStr(v), nil
	}

	parts := make([]string, len(index))
	for i, sub := range index {
		v, err := in.evalExpr(sub)
		if err != nil {
			return "", err
		}
		parts[i] = in.ctx.ToStr(v)
	}
	return in.ctx.SubsepJoin(parts), nil
}

// resolveArray returns the array variable behind an expression,
// promoting an unset variable to an empty array.
func (in *Interpreter) resolveArray(e ast.Expr) (types.Value, error) {
	ident, ok := e.(*ast.Ident)
	if !ok {
		return types.Value{}, runtime.Errorf("expected array variable")
	}
	return in.ctx.Array(ident.Name)
}

func (in *Interpreter) evalBinary(n *ast.BinaryExpr) (types.Value, error) {
	// && and || short-circuit
	switch n.Op {
	case token.AND:
		left, err := in.evalExpr(n.Left)
		if err != nil {
			return types.Value{}, err
		}
		if !left.AsBool() {
			return types.Bool(false), nil
		}
		right, err := in.evalExpr(n.Right)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(right.AsBool()), nil

	case token.OR:
		left, err := in.evalExpr(n.Left)
		if err != nil {
			return types.Value{}, err
		}
		if left.AsBool() {
			return types.Bool(true), nil
		}
		right, err := in.evalExpr(n.Right)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(right.AsBool()), nil
	}

	left, err := in.evalExpr(n.Left)
	if err != nil {
		return types.Value{}, err
	}
	right, err := in.evalExpr(n.Right)
	if err != nil {
		return types.Value{}, err
	}

	switch n.Op {
	case token.EQUALS:
		return types.Bool(types.Compare(left, right) == 0), nil
	case token.NOT_EQUALS:
		return types.Bool(types.Compare(left, right) != 0), nil
	case token.LESS:
		return types.Bool(types.Compare(left, right) < 0), nil
	case token.LTE:
		return types.Bool(types.Compare(left, right) <= 0), nil
	case token.GREATER:
		return types.Bool(types.Compare(left, right) > 0), nil
	case token.GTE:
		return types.Bool(types.Compare(left, right) >= 0), nil
	default:
		return arith(n.Op, left.AsNum(), right.AsNum())
	}
}

// arith evaluates a numeric binary operator.
func arith(op token.Token, l, r float64) (types.Value, error) {
	switch op {
	case token.ADD:
		return types.Num(l + r), nil
	case token.SUB:
		return types.Num(l - r), nil
	case token.MUL:
		return types.Num(l * r), nil
	case token.DIV:
		if r == 0 {
			return types.Value{}, &runtime.DivisionByZeroError{}
		}
		return types.Num(l / r), nil
	case token.MOD:
		if r == 0 {
			return types.Value{}, &runtime.DivisionByZeroError{}
		}
		return types.Num(math.Mod(l, r)), nil
	case token.POW:
		return types.Num(math.Pow(l, r)), nil
	default:
		return types.Value{}, runtime.Errorf("unhandled binary operator")
	}
}

func (in *Interpreter) evalUnary(n *ast.UnaryExpr) (types.Value, error) {
	switch n.Op {
	case token.NOT:
		v, err := in.evalExpr(n.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(!v.AsBool()), nil

	case token.SUB:
		v, err := in.evalExpr(n.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(-v.AsNum()), nil

	case token.ADD:
		v, err := in.evalExpr(n.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(v.AsNum()), nil

	case token.INCR, token.DECR:
		old, err := in.evalExpr(n.Expr)
		if err != nil {
			return types.Value{}, err
		}
		delta := 1.0
		if n.Op == token.DECR {
			delta = -1
		}
		updated := types.Num(old.AsNum() + delta)
		if err := in.assignTo(n.Expr, updated); err != nil {
			return types.Value{}, err
		}
		if n.Post {
			return types.Num(old.AsNum()), nil
		}
		return updated, nil

	default:
		return types.Value{}, runtime.Errorf("unhandled unary operator")
	}
}

func (in *Interpreter) evalAssign(n *ast.AssignExpr) (types.Value, error) {
	right, err := in.evalExpr(n.Right)
	if err != nil {
		return types.Value{}, err
	}

	if n.Op != token.ASSIGN {
		current, err := in.evalExpr(n.Left)
		if err != nil {
			return types.Value{}, err
		}
		right, err = arith(compoundOp(n.Op), current.AsNum(), right.AsNum())
		if err != nil {
			return types.Value{}, err
		}
	}

	if err := in.assignTo(n.Left, right); err != nil {
		return types.Value{}, err
	}
	return right, nil
}

// compoundOp maps a compound assignment operator to its arithmetic op.
func compoundOp(op token.Token) token.Token {
	switch op {
	case token.ADD_ASSIGN:
		return token.ADD
	case token.SUB_ASSIGN:
		return token.SUB
	case token.MUL_ASSIGN:
		return token.MUL
	case token.DIV_ASSIGN:
		return token.DIV
	case token.MOD_ASSIGN:
		return token.MOD
	case token.POW_ASSIGN:
		return token.POW
	default:
		return token.ILLEGAL
	}
}

// assignTo stores a value through an lvalue: a variable, a field, or
// an array element.
func (in *Interpreter) assignTo(lhs ast.Expr, v types.Value) error {
	switch l := lhs.(type) {
	case *ast.Ident:
		return in.ctx.SetVar(l.Name, v)

	case *ast.FieldExpr:
		idx, err := in.fieldIndex(l.Index)
		if err != nil {
			return err
		}
		return in.ctx.SetField(idx, in.ctx.ToStr(v))

	case *ast.IndexExpr:
		arr, err := in.resolveArray(l.Array)
		if err != nil {
			return err
		}
		key, err := in.evalIndexKey(l.Index)
		if err != nil {
			return err
		}
		arr.ArraySet(key, v)
		return nil

	default:
		return &runtime.InvalidAssignmentError{Target: "expression"}
	}
}

func (in *Interpreter) evalMatch(n *ast.MatchExpr) (types.Value, error) {
	subject, err := in.evalExpr(n.Expr)
	if err != nil {
		return types.Value{}, err
	}

	pattern, err := in.patternText(n.Pattern)
	if err != nil {
		return types.Value{}, err
	}
	re, err := in.ctx.Regex(pattern)
	if err != nil {
		return types.Value{}, err
	}

	matched := re.MatchString(in.ctx.ToStr(subject))
	if n.Op == token.NOT_MATCH {
		matched = !matched
	}
	return types.Bool(matched), nil
}

// patternText returns the regex pattern an expression supplies: the
// literal text of a /re/, or the string value of anything else.
func (in *Interpreter) patternText(e ast.Expr) (string, error) {
	if lit, ok := e.(*ast.RegexLit); ok {
		return lit.Pattern, nil
	}
	v, err := in.evalExpr(e)
	if err != nil {
		return "", err
	}
	return in.ctx.ToStr(v), nil
}

// evalGetline handles getline expressions. Only the plain forms are
// supported; reading from files or commands is not.
func (in *Interpreter) evalGetline(n *ast.GetlineExpr) (types.Value, error) {
	if n.File != nil {
		return types.Value{}, runtime.Errorf("getline from file is not supported")
	}
	if n.Command != nil {
		return types.Value{}, runtime.Errorf("getline from command is not supported")
	}
	// The driver owns the input stream, so plain getline cannot
	// advance it; it reports no record available.
	return types.Num(0), nil
}

// User-defined functions

func (in *Interpreter) callUserFunc(n *ast.CallExpr) (types.Value, error) {
	fn, ok := in.funcs[n.Name]
	if !ok {
		return types.Value{}, &runtime.UndefinedFunctionError{Name: n.Name}
	}
	if len(n.Args) > len(fn.Params) {
		return types.Value{}, &runtime.InvalidFunctionCallError{
			Func:    n.Name,
			Message: "too many arguments",
		}
	}
	if in.ctx.FrameDepth() >= maxCallDepth {
		return types.Value{}, runtime.Errorf("call depth limit exceeded in %s", n.Name)
	}

	// Bind arguments in the caller's scope before pushing the frame.
	// Array parameters share storage with the caller's array; scalar
	// parameters are copied. Unsupplied parameters start undefined and
	// serve as locals.
	isArray := in.arrayParams[fn]
	vars := make(map[string]types.Value, len(fn.Params))
	for i, param := range fn.Params {
		if i >= len(n.Args) {
			vars[param] = types.Undefined()
			continue
		}
		arg := n.Args[i]
		if isArray[i] {
			if ident, ok := arg.(*ast.Ident); ok {
				arr, err := in.ctx.Array(ident.Name)
				if err != nil {
					return types.Value{}, err
				}
				vars[param] = arr
				continue
			}
		}
		v, err := in.evalExpr(arg)
		if err != nil {
			return types.Value{}, err
		}
		if v.IsArray() && !isArray[i] {
			// An array passed to a scalar position still shares
			vars[param] = v
			continue
		}
		vars[param] = v
	}

	in.ctx.PushFrame(vars)
	defer in.ctx.PopFrame()

	in.retVal = types.Undefined()
	f, err := in.execBlock(fn.Body)
	if err != nil {
		return types.Value{}, err
	}
	switch f {
	case flowReturn, flowNone:
		return in.retVal, nil
	case flowExit:
		// Exit unwinds through the call; the driver sees it via the
		// exited flag.
		return types.Undefined(), nil
	case flowNext:
		return types.Undefined(), runtime.Errorf("next used inside function %s", fn.Name)
	default:
		return types.Undefined(), nil
	}
}

// Built-in functions

func (in *Interpreter) callBuiltin(n *ast.BuiltinExpr) (types.Value, error) {
	switch n.Func {
	case token.F_LENGTH:
		return in.builtinLength(n.Args)
	case token.F_SPLIT:
		return in.builtinSplit(n.Args)
	case token.F_SUB:
		return in.builtinSub(n.Args, false)
	case token.F_GSUB:
		return in.builtinSub(n.Args, true)
	case token.F_MATCH:
		return in.builtinMatch(n.Args)
	}

	// The remaining builtins take scalar arguments only
	args := make([]types.Value, 0, len(n.Args))
	for _, arg := range n.Args {
		v, err := in.evalExpr(arg)
		if err != nil {
			return types.Value{}, err
		}
		args = append(args, v)
	}

	switch n.Func {
	case token.F_ATAN2:
		return in.ctx.BuiltinAtan2(args)
	case token.F_COS, token.F_SIN, token.F_EXP, token.F_LOG, token.F_SQRT, token.F_INT:
		return in.ctx.BuiltinMath(token.BuiltinName(n.Func), args)
	case token.F_RAND:
		return in.ctx.BuiltinRand(args)
	case token.F_SRAND:
		return in.ctx.BuiltinSrand(args, in.now)
	case token.F_INDEX:
		return in.ctx.BuiltinIndex(args)
	case token.F_SUBSTR:
		return in.ctx.BuiltinSubstr(args)
	case token.F_SPRINTF:
		return in.ctx.BuiltinSprintf(args)
	case token.F_TOUPPER:
		// The subject defaults to $0 when omitted
		if len(args) == 0 {
			args = []types.Value{in.ctx.Field(0)}
		}
		return in.ctx.BuiltinToupper(args)
	case token.F_TOLOWER:
		if len(args) == 0 {
			args = []types.Value{in.ctx.Field(0)}
		}
		return in.ctx.BuiltinTolower(args)
	default:
		return types.Value{}, &runtime.UndefinedFunctionError{Name: token.BuiltinName(n.Func)}
	}
}

// builtinLength returns the length of a string, an array's element
// count, or the length of $0 with no argument.
func (in *Interpreter) builtinLength(args []ast.Expr) (types.Value, error) {
	switch len(args) {
	case 0:
		return types.Num(float64(len(in.ctx.Field(0).AsStr("%.6g")))), nil
	case 1:
		if ident, ok := args[0].(*ast.Ident); ok {
			if v := in.ctx.Var(ident.Name); v.IsArray() {
				return types.Num(float64(v.ArrayLen())), nil
			}
		}
		v, err := in.evalExpr(args[0])
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(float64(len(in.ctx.ToStr(v)))), nil
	default:
		return types.Value{}, &runtime.InvalidFunctionCallError{
			Func:    "length",
			Message: "expected at most 1 argument",
		}
	}
}

func (in *Interpreter) builtinSplit(args []ast.Expr) (types.Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return types.Value{}, &runtime.InvalidFunctionCallError{
			Func:    "split",
			Message: "expected 2 or 3 arguments",
		}
	}

	str, err := in.evalExpr(args[0])
	if err != nil {
		return types.Value{}, err
	}
	arr, err := in.resolveArray(args[1])
	if err != nil {
		return types.Value{}, err
	}

	sep := in.ctx.FS()
	if len(args) == 3 {
		sep, err = in.patternText(args[2])
		if err != nil {
			return types.Value{}, err
		}
	}

	count, err := in.ctx.BuiltinSplit(in.ctx.ToStr(str), arr, sep)
	if err != nil {
		return types.Value{}, err
	}
	return types.Num(float64(count)), nil
}

// builtinSub implements sub and gsub: replace in the target lvalue
// ($0 when omitted) and return the substitution count.
func (in *Interpreter) builtinSub(args []ast.Expr, global bool) (types.Value, error) {
	name := "sub"
	if global {
		name = "gsub"
	}
	if len(args) != 2 && len(args) != 3 {
		return types.Value{}, &runtime.InvalidFunctionCallError{
			Func:    name,
			Message: "expected 2 or 3 arguments",
		}
	}

	pattern, err := in.patternText(args[0])
	if err != nil {
		return types.Value{}, err
	}
	replVal, err := in.evalExpr(args[1])
	if err != nil {
		return types.Value{}, err
	}
	repl := in.ctx.ToStr(replVal)

	var target ast.Expr
	if len(args) == 3 {
		target = args[2]
	}

	var current string
	if target == nil {
		current = in.ctx.Field(0).AsStr("%.6g")
	} else {
		v, err := in.evalExpr(target)
		if err != nil {
			return types.Value{}, err
		}
		current = in.ctx.ToStr(v)
	}

	result, count, err := in.ctx.Replace(pattern, repl, current, global)
	if err != nil {
		return types.Value{}, err
	}

	if count > 0 {
		if target == nil {
			if err := in.ctx.SetField(0, result); err != nil {
				return types.Value{}, err
			}
		} else if err := in.assignTo(target, types.Str(result)); err != nil {
			return types.Value{}, err
		}
	}
	return types.Num(float64(count)), nil
}

func (in *Interpreter) builtinMatch(args []ast.Expr) (types.Value, error) {
	if len(args) != 2 {
		return types.Value{}, &runtime.InvalidFunctionCallError{
			Func:    "match",
			Message: "expected 2 arguments",
		}
	}
	str, err := in.evalExpr(args[0])
	if err != nil {
		return types.Value{}, err
	}
	pattern, err := in.patternText(args[1])
	if err != nil {
		return types.Value{}, err
	}
	return in.ctx.BuiltinMatch(in.ctx.ToStr(str), pattern)
}
