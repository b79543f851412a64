package parser_test

import (
	"strings"
	"testing"

	"github.com/fastutils/fawk/internal/ast"
	"github.com/fastutils/fawk/internal/parser"
	"github.com/fastutils/fawk/internal/token"
)

func TestParseEmpty(t *testing.T) {
	prog, err := parser.Parse("")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if prog == nil {
		t.Fatal("Parse() returned nil program")
	}
	if len(prog.Begin) != 0 {
		t.Errorf("Begin blocks = %d, want 0", len(prog.Begin))
	}
	if len(prog.Rules) != 0 {
		t.Errorf("Rules = %d, want 0", len(prog.Rules))
	}
	if len(prog.EndBlocks) != 0 {
		t.Errorf("End blocks = %d, want 0", len(prog.EndBlocks))
	}
	if len(prog.Functions) != 0 {
		t.Errorf("Functions = %d, want 0", len(prog.Functions))
	}
}

func TestParseProgram(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantBegin int
		wantRules int
		wantEnd   int
		wantFuncs int
		wantErr   bool
	}{
		{
			name:      "empty",
			src:       "",
			wantRules: 0,
		},
		{
			name:      "begin block",
			src:       "BEGIN { print }",
			wantBegin: 1,
		},
		{
			name:    "end block",
			src:     "END { print }",
			wantEnd: 1,
		},
		{
			name:      "pattern-action",
			src:       "/foo/ { print }",
			wantRules: 1,
		},
		{
			name:      "action only",
			src:       "{ print $1 }",
			wantRules: 1,
		},
		{
			name:      "pattern only",
			src:       "/foo/",
			wantRules: 1,
		},
		{
			name:      "expression pattern",
			src:       "NR > 1 { print }",
			wantRules: 1,
		},
		{
			name:      "function",
			src:       "function add(a, b) { return a + b }",
			wantFuncs: 1,
		},
		{
			name:      "multiple items",
			src:       "BEGIN { x = 0 }\n{ x += $1 }\nEND { print x }",
			wantBegin: 1,
			wantRules: 1,
			wantEnd:   1,
		},
		{
			name:      "range pattern",
			src:       "/start/,/end/ { print }",
			wantRules: 1,
		},
		{
			name:    "unclosed block",
			src:     "BEGIN { print",
			wantErr: true,
		},
		{
			name:    "begin without action",
			src:     "BEGIN",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.Parse(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(prog.Begin) != tt.wantBegin {
				t.Errorf("Begin blocks = %d, want %d", len(prog.Begin), tt.wantBegin)
			}
			if len(prog.Rules) != tt.wantRules {
				t.Errorf("Rules = %d, want %d", len(prog.Rules), tt.wantRules)
			}
			if len(prog.EndBlocks) != tt.wantEnd {
				t.Errorf("End blocks = %d, want %d", len(prog.EndBlocks), tt.wantEnd)
			}
			if len(prog.Functions) != tt.wantFuncs {
				t.Errorf("Functions = %d, want %d", len(prog.Functions), tt.wantFuncs)
			}
		})
	}
}

func TestParseRangePattern(t *testing.T) {
	prog, err := parser.Parse("/start/,/end/ { print }")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Rules) != 1 {
		t.Fatalf("Rules = %d, want 1", len(prog.Rules))
	}
	comma, ok := prog.Rules[0].Pattern.(*ast.CommaExpr)
	if !ok {
		t.Fatalf("pattern is %T, want *ast.CommaExpr", prog.Rules[0].Pattern)
	}
	if _, ok := comma.Left.(*ast.RegexLit); !ok {
		t.Errorf("range start is %T, want *ast.RegexLit", comma.Left)
	}
	if _, ok := comma.Right.(*ast.RegexLit); !ok {
		t.Errorf("range end is %T, want *ast.RegexLit", comma.Right)
	}
}

func TestParseMissingAction(t *testing.T) {
	prog, err := parser.Parse("/foo/")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if prog.Rules[0].Action != nil {
		t.Errorf("expected nil action for pattern-only rule")
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // type of top-level expression
	}{
		{"number", "1", "*ast.NumLit"},
		{"string", `"x"`, "*ast.StrLit"},
		{"name", "x", "*ast.Ident"},
		{"field", "$1", "*ast.FieldExpr"},
		{"index", "a[1]", "*ast.IndexExpr"},
		{"binary", "1 + 2", "*ast.BinaryExpr"},
		{"unary", "-x", "*ast.UnaryExpr"},
		{"ternary", "a ? b : c", "*ast.TernaryExpr"},
		{"assign", "x = 1", "*ast.AssignExpr"},
		{"compound assign", "x += 1", "*ast.AssignExpr"},
		{"concat", `"a" "b"`, "*ast.ConcatExpr"},
		{"match", "$0 ~ /x/", "*ast.MatchExpr"},
		{"in", "k in a", "*ast.InExpr"},
		{"call", "f(1)", "*ast.CallExpr"},
		{"builtin", "length($0)", "*ast.BuiltinExpr"},
		{"grouping", "(1 + 2)", "*ast.GroupExpr"},
		{"getline", "getline", "*ast.GetlineExpr"},
		{"post incr", "x++", "*ast.UnaryExpr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := parser.ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr() error = %v", err)
			}
			got := typeName(expr)
			if got != tt.want {
				t.Errorf("expression is %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(e ast.Expr) string {
	switch e.(type) {
	case *ast.NumLit:
		return "*ast.NumLit"
	case *ast.StrLit:
		return "*ast.StrLit"
	case *ast.RegexLit:
		return "*ast.RegexLit"
	case *ast.Ident:
		return "*ast.Ident"
	case *ast.FieldExpr:
		return "*ast.FieldExpr"
	case *ast.IndexExpr:
		return "*ast.IndexExpr"
	case *ast.BinaryExpr:
		return "*ast.BinaryExpr"
	case *ast.UnaryExpr:
		return "*ast.UnaryExpr"
	case *ast.TernaryExpr:
		return "*ast.TernaryExpr"
	case *ast.AssignExpr:
		return "*ast.AssignExpr"
	case *ast.ConcatExpr:
		return "*ast.ConcatExpr"
	case *ast.GroupExpr:
		return "*ast.GroupExpr"
	case *ast.CallExpr:
		return "*ast.CallExpr"
	case *ast.BuiltinExpr:
		return "*ast.BuiltinExpr"
	case *ast.GetlineExpr:
		return "*ast.GetlineExpr"
	case *ast.InExpr:
		return "*ast.InExpr"
	case *ast.MatchExpr:
		return "*ast.MatchExpr"
	case *ast.CommaExpr:
		return "*ast.CommaExpr"
	default:
		return "unknown"
	}
}

func TestParsePrecedence(t *testing.T) {
	// 2 + 3 * 4 must parse as 2 + (3 * 4)
	expr, err := parser.ParseExpr("2 + 3 * 4")
	if err != nil {
		t.Fatalf("ParseExpr() error = %v", err)
	}
	add, ok := expr.(*ast.BinaryExpr)
	if !ok || add.Op != token.ADD {
		t.Fatalf("top is %T, want ADD BinaryExpr", expr)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != token.MUL {
		t.Fatalf("right is %T, want MUL BinaryExpr", add.Right)
	}
}

func TestParsePowerRightAssoc(t *testing.T) {
	// 2 ^ 3 ^ 2 must parse as 2 ^ (3 ^ 2)
	expr, err := parser.ParseExpr("2 ^ 3 ^ 2")
	if err != nil {
		t.Fatalf("ParseExpr() error = %v", err)
	}
	pow, ok := expr.(*ast.BinaryExpr)
	if !ok || pow.Op != token.POW {
		t.Fatalf("top is %T, want POW BinaryExpr", expr)
	}
	if _, ok := pow.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("right is %T, want nested POW", pow.Right)
	}
	if _, ok := pow.Left.(*ast.NumLit); !ok {
		t.Fatalf("left is %T, want NumLit", pow.Left)
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"if", `{ if (x) print }`},
		{"if else", `{ if (x) print; else print "no" }`},
		{"while", `{ while (x < 10) x++ }`},
		{"do while", `{ do x++; while (x < 10) }`},
		{"for", `{ for (i = 0; i < 10; i++) print i }`},
		{"for in", `{ for (k in a) print k }`},
		{"infinite for", `{ for (;;) break }`},
		{"break in loop", `{ while (1) break }`},
		{"continue in loop", `{ while (1) continue }`},
		{"next", `{ next }`},
		{"exit", `{ exit }`},
		{"exit with code", `{ exit 2 }`},
		{"delete element", `{ delete a[1] }`},
		{"delete array", `{ delete a }`},
		{"print redirect", `{ print > "file" }`},
		{"print append", `{ print >> "file" }`},
		{"print pipe", `{ print | "sort" }`},
		{"printf", `{ printf "%d\n", 42 }`},
		{"multi statements", `{ x = 1; y = 2
			z = 3 }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse(tt.src); err != nil {
				t.Errorf("Parse() error = %v", err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"break outside loop", `{ break }`, "break"},
		{"continue outside loop", `{ continue }`, "continue"},
		{"return outside function", `{ return 1 }`, "return"},
		{"next in BEGIN", `BEGIN { next }`, "next"},
		{"sub non-lvalue target", `{ sub(/x/, "y", "z") }`, "lvalue"},
		{"bad number", `BEGIN { x = 0x }`, "number"},
		{"unterminated string", `{ print "abc }`, ""},
		{"dangling comma", `{ print 1, }`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.src)
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseFunctionParams(t *testing.T) {
	prog, err := parser.Parse("function f(a, b, c) { return a }")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	fn := prog.Functions[0]
	if fn.Name != "f" {
		t.Errorf("Name = %q, want %q", fn.Name, "f")
	}
	if len(fn.Params) != 3 {
		t.Fatalf("Params = %d, want 3", len(fn.Params))
	}
	for i, want := range []string{"a", "b", "c"} {
		if fn.Params[i] != want {
			t.Errorf("Params[%d] = %q, want %q", i, fn.Params[i], want)
		}
	}
}

func TestParseBuiltinCalls(t *testing.T) {
	tests := []string{
		`{ x = length }`,
		`{ x = length($0) }`,
		`{ x = substr("hello", 2, 3) }`,
		`{ x = index("hello", "ll") }`,
		`{ n = split($0, parts, ",") }`,
		`{ n = split($0, parts, /,/) }`,
		`{ sub(/a/, "b") }`,
		`{ gsub(/a/, "b", x) }`,
		`{ if (match($0, /err/)) print RSTART }`,
		`{ x = sprintf("%05.2f", 3.14159) }`,
		`{ x = atan2(1, 1) }`,
		`{ srand(); x = rand() }`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			if _, err := parser.Parse(src); err != nil {
				t.Errorf("Parse(%q) error = %v", src, err)
			}
		})
	}
}

// Builtin arity problems are left for the interpreter, so too many
// arguments still parse.
func TestParseBuiltinExtraArgs(t *testing.T) {
	prog, err := parser.Parse(`{ x = substr("a", 1, 2, 3) }`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Rules) != 1 {
		t.Fatalf("Rules = %d, want 1", len(prog.Rules))
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := parser.Parse("{ if }")
	if err == nil {
		t.Fatal("Parse() succeeded, want error")
	}
	var pe *parser.ParseError
	if el, ok := err.(parser.ErrorList); ok && len(el) > 0 {
		pe = el[0]
	} else if p, ok := err.(*parser.ParseError); ok {
		pe = p
	}
	if pe == nil {
		t.Fatalf("error is %T, want ParseError", err)
	}
	if pe.Pos.Line != 1 {
		t.Errorf("Line = %d, want 1", pe.Pos.Line)
	}
}
