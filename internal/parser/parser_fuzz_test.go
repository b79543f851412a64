package parser_test

import (
	"testing"

	"github.com/fastutils/fawk/internal/parser"
)

// FuzzParser feeds random source to the parser to find crashes. Any
// input may be rejected with an error but must never panic.
func FuzzParser(f *testing.F) {
	seeds := []string{
		// Empty and minimal
		"",
		"{}",
		"{ print }",

		// BEGIN/END blocks
		"BEGIN { print }",
		"END { print }",
		"BEGIN { x = 0 } { x++ } END { print x }",

		// Patterns
		"/foo/",
		"/foo/ { print }",
		"$1 > 0 { print $2 }",
		"/start/,/end/ { print }",
		"NR == 1",
		"NR == 1, NR == 10",

		// Functions
		"function f() { }",
		"function f(a) { return a }",
		"function max(a, b) { if (a > b) return a; return b }",

		// Expressions
		"{ print 42 }",
		"{ print 1e10 }",
		`{ print "hello" }`,
		"{ print $NF }",
		"{ print $(1+2) }",
		"{ print a % b }",
		"{ print a ^ b }",
		"{ print a <= b }",
		"{ print a && b || c }",
		"{ print !a }",
		"{ print ++a }",
		"{ print a-- }",
		"{ print a ? b : c }",
		"{ x += 1 }",
		"{ x ^= 2 }",
		"{ print arr[i, j] }",
		"{ print (i, j) in arr }",
		`{ print x ~ "pat" }`,
		`{ print x !~ /pat/ }`,
		"{ print g(a, b) }",
		"{ print a b c }",
		"{ print (a + b) }",

		// Statements
		"{ if (x) print; else print y }",
		"{ while (x > 0) { x--; print x } }",
		"{ do x++; while (x < 10) }",
		"{ for (i = 0; i < 10; i++) print i }",
		"{ for (;;) print }",
		"{ for (k in arr) print k }",
		"{ while (1) { break } }",
		"{ while (1) { continue } }",
		"{ next }",
		"{ exit 1 }",
		"{ delete arr[k] }",
		"{ delete arr }",
		`{ print "x" > "file" }`,
		`{ print "x" >> "file" }`,
		`{ print "x" | "cmd" }`,
		`{ printf "%d\n", x }`,

		// Builtins
		"{ print length }",
		"{ print substr(s, 1, 5) }",
		`{ print split(s, a, ":") }`,
		`{ print sprintf("%d", x) }`,
		"{ sub(/re/, r) }",
		"{ gsub(/re/, r, s) }",
		"{ print match(s, /re/) }",
		"{ print atan2(y, x) }",
		"{ print rand() }",
		"{ srand() }",

		// Getline
		"{ getline }",
		"{ getline x }",
		`{ getline < "file" }`,
		`{ "cmd" | getline x }`,

		// Complex programs
		"BEGIN { FS = \":\" } { print $1 } END { print NR }",
		"{ arr[$1]++ } END { for (k in arr) print k, arr[k] }",

		// Edge cases
		"{ print 2 ^ 3 ^ 4 }",
		"{ print a = b = c }",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	// Invalid inputs must produce errors, not panics
	invalid := []string{
		"{",
		"{ print(",
		"{ if () print }",
		"BEGIN { break }",
		"BEGIN { continue }",
		"BEGIN { return 1 }",
		"BEGIN { next }",
		"function f(a, a) {}",
		`{ print "unterminated }`,
		"{ x = 0x }",
	}

	for _, inv := range invalid {
		f.Add(inv)
	}

	f.Fuzz(func(t *testing.T, src string) {
		const maxLen = 10000
		if len(src) > maxLen {
			return
		}

		_, _ = parser.Parse(src)
		_, _ = parser.ParseExpr(src)
	})
}

// FuzzParseExpr fuzzes the expression entry point on its own.
func FuzzParseExpr(f *testing.F) {
	exprs := []string{
		"42",
		"1e10",
		`"hello"`,
		"$1",
		"$NF",
		"a + b",
		"a % b",
		"a ^ b",
		"a != b",
		"a <= b",
		"a && b",
		"a || b",
		"!a",
		"-a",
		"++a",
		"a--",
		"a ? b : c",
		"a += 1",
		"arr[i, j]",
		"i in arr",
		`x ~ "pat"`,
		"g(a, b)",
		"a b c",
		"(a + b)",
		"length($0)",
		"substr(s, 1, 5)",
		"1 + 2 * 3",
		"2 ^ 3 ^ 4",
	}

	for _, expr := range exprs {
		f.Add(expr)
	}

	f.Fuzz(func(t *testing.T, src string) {
		const maxLen = 1000
		if len(src) > maxLen {
			return
		}
		_, _ = parser.ParseExpr(src)
	})
}
