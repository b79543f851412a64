package ast_test

import (
	"strings"
	"testing"

	"github.com/fastutils/fawk/internal/ast"
	"github.com/fastutils/fawk/internal/parser"
)

func TestPrintSimple(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // substring of the rendering
	}{
		{"print field", `{ print $1 }`, "print $1"},
		{"pattern", `/foo/ { print }`, "/foo/"},
		{"range pattern", `/a/,/b/ { print }`, "/a/, /b/"},
		{"begin", `BEGIN { x = 1 }`, "BEGIN"},
		{"function", `function f(a, b) { return a }`, "function f(a, b)"},
		{"ternary", `{ x = a ? b : c }`, "a ? b : c"},
		{"regex escaping", `{ x = $0 ~ /a\/b/ }`, `/a\/b/`},
		{"builtin", `{ n = split($0, a, ",") }`, "split($0, a"},
		{"for in", `{ for (k in a) print k }`, "for (k in a)"},
		{"redirect", `{ print x > "file" }`, `> "file"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.Parse(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			got := ast.String(prog)
			if !strings.Contains(got, tt.want) {
				t.Errorf("rendering %q does not contain %q", got, tt.want)
			}
		})
	}
}

// The rendering must itself parse, and re-rendering it must be stable.
func TestPrintRoundTrip(t *testing.T) {
	sources := []string{
		`BEGIN { print "start" }`,
		`{ sum += $1 } END { print sum }`,
		`/err/ { count++ }`,
		`$1 > 10 { print $2, $3 }`,
		`function fact(n) { return n <= 1 ? 1 : n * fact(n - 1) }
		BEGIN { print fact(5) }`,
		`{ for (i = 1; i <= NF; i++) total[i] += $i }
		END { for (k in total) print k, total[k] }`,
		`{ if ($0 ~ /warn/) { print > "warnings" } else { print } }`,
		`{ gsub(/[0-9]+/, "N"); print }`,
		`{ while ((x = index($0, "a")) > 0) $0 = substr($0, x + 1) }`,
		`{ do n++; while (n < NF) }`,
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			prog, err := parser.Parse(src)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			first := ast.String(prog)

			reparsed, err := parser.Parse(first)
			if err != nil {
				t.Fatalf("reparse of %q: %v", first, err)
			}
			second := ast.String(reparsed)
			if first != second {
				t.Errorf("rendering not stable:\nfirst:  %q\nsecond: %q", first, second)
			}
		})
	}
}
