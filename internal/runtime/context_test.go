package runtime

import (
	"io"
	"strings"
	"testing"

	"github.com/fastutils/fawk/internal/types"
)

func newTestContext() *Context {
	return NewContext(io.Discard)
}

func TestSetRecordFields(t *testing.T) {
	tests := []struct {
		name   string
		fs     string
		record string
		nf     int
		fields []string
	}{
		{
			name:   "default whitespace",
			fs:     " ",
			record: "  alpha   beta\tgamma  ",
			nf:     3,
			fields: []string{"alpha", "beta", "gamma"},
		},
		{
			name:   "single char",
			fs:     ":",
			record: "a:b::c",
			nf:     4,
			fields: []string{"a", "b", "", "c"},
		},
		{
			name:   "regex separator",
			fs:     ", *",
			record: "a, b,c,   d",
			nf:     4,
			fields: []string{"a", "b", "c", "d"},
		},
		{
			name:   "empty record",
			fs:     " ",
			record: "",
			nf:     0,
			fields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			ctx.SetFS(tt.fs)
			ctx.SetRecord(tt.record)
			if ctx.NF() != tt.nf {
				t.Errorf("NF = %d, want %d", ctx.NF(), tt.nf)
			}
			for i, want := range tt.fields {
				got := ctx.Field(i + 1).AsStr("%.6g")
				if got != want {
					t.Errorf("$%d = %q, want %q", i+1, got, want)
				}
			}
			if got := ctx.Field(0).AsStr("%.6g"); got != tt.record {
				t.Errorf("$0 = %q, want %q", got, tt.record)
			}
		})
	}
}

func TestNRAdvances(t *testing.T) {
	ctx := newTestContext()
	if ctx.NR() != 0 {
		t.Fatalf("initial NR = %d, want 0", ctx.NR())
	}
	ctx.SetRecord("one")
	ctx.SetRecord("two")
	if ctx.NR() != 2 {
		t.Errorf("NR = %d, want 2", ctx.NR())
	}
}

func TestFieldOutOfRange(t *testing.T) {
	ctx := newTestContext()
	ctx.SetRecord("a b")
	if got := ctx.Field(5).AsStr("%.6g"); got != "" {
		t.Errorf("$5 = %q, want empty", got)
	}
}

func TestSetFieldRebuildsRecord(t *testing.T) {
	ctx := newTestContext()
	ctx.SetRecord("a b c")

	if err := ctx.SetField(2, "X"); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Field(0).AsStr("%.6g"); got != "a X c" {
		t.Errorf("$0 = %q, want %q", got, "a X c")
	}

	// Assigning beyond NF extends with empty fields.
	if err := ctx.SetField(5, "z"); err != nil {
		t.Fatal(err)
	}
	if ctx.NF() != 5 {
		t.Errorf("NF = %d, want 5", ctx.NF())
	}
	if got := ctx.Field(0).AsStr("%.6g"); got != "a X c  z" {
		t.Errorf("$0 = %q, want %q", got, "a X c  z")
	}
}

func TestSetFieldZeroKeepsFields(t *testing.T) {
	ctx := newTestContext()
	ctx.SetRecord("a b")
	if err := ctx.SetField(0, "x y z"); err != nil {
		t.Fatal(err)
	}
	// Assigning $0 replaces the record text only; $1..$NF stay as
	// split from the original record.
	if got := ctx.Field(0).AsStr("%.6g"); got != "x y z" {
		t.Errorf("$0 = %q, want %q", got, "x y z")
	}
	if ctx.NF() != 2 {
		t.Errorf("NF = %d, want 2", ctx.NF())
	}
	if got := ctx.Field(2).AsStr("%.6g"); got != "b" {
		t.Errorf("$2 = %q, want %q", got, "b")
	}
	if ctx.NR() != 1 {
		t.Errorf("NR = %d, want 1", ctx.NR())
	}
}

func TestSetFieldNegative(t *testing.T) {
	ctx := newTestContext()
	ctx.SetRecord("a")
	err := ctx.SetField(-1, "x")
	if err == nil {
		t.Fatal("expected error for negative field index")
	}
	if _, ok := err.(*InvalidArrayIndexError); !ok {
		t.Errorf("error is %T, want *InvalidArrayIndexError", err)
	}
}

func TestVarSpecials(t *testing.T) {
	ctx := newTestContext()
	ctx.SetRecord("a b c")
	if got := ctx.Var("NF").AsNum(); got != 3 {
		t.Errorf("NF = %v, want 3", got)
	}
	if got := ctx.Var("NR").AsNum(); got != 1 {
		t.Errorf("NR = %v, want 1", got)
	}
	if got := ctx.Var("FS").AsStr("%.6g"); got != " " {
		t.Errorf("FS = %q, want %q", got, " ")
	}
	if got := ctx.Var("SUBSEP").AsStr("%.6g"); got != "\x1c" {
		t.Errorf("SUBSEP = %q, want %q", got, "\x1c")
	}
}

func TestSetVarReadOnly(t *testing.T) {
	ctx := newTestContext()
	ctx.SetRecord("a b c")
	for _, name := range []string{"NR", "NF", "FILENAME", "RSTART", "RLENGTH"} {
		if err := ctx.SetVar(name, types.Num(99)); err != nil {
			t.Errorf("SetVar(%s) = %v, want nil", name, err)
		}
	}
	// The writes are dropped; the engine keeps its own values
	if got := ctx.Var("NR").AsNum(); got != 1 {
		t.Errorf("NR = %v after ignored write, want 1", got)
	}
	if got := ctx.Var("NF").AsNum(); got != 3 {
		t.Errorf("NF = %v after ignored write, want 3", got)
	}
}

func TestSetVarSeparators(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.SetVar("FS", types.Str(",")); err != nil {
		t.Fatal(err)
	}
	if ctx.FS() != "," {
		t.Errorf("FS = %q, want %q", ctx.FS(), ",")
	}
	if err := ctx.SetVar("OFS", types.Str("-")); err != nil {
		t.Fatal(err)
	}
	ctx.SetRecord("a,b")
	if err := ctx.SetField(1, "x"); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Field(0).AsStr("%.6g"); got != "x-b" {
		t.Errorf("$0 = %q, want %q", got, "x-b")
	}
}

func TestGlobals(t *testing.T) {
	ctx := newTestContext()
	if !ctx.Var("nope").IsUndefined() {
		t.Error("unset variable should be undefined")
	}
	if err := ctx.SetVar("x", types.Num(7)); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Var("x").AsNum(); got != 7 {
		t.Errorf("x = %v, want 7", got)
	}
}

func TestFrameShadowing(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.SetVar("x", types.Num(1)); err != nil {
		t.Fatal(err)
	}

	// A parameter shadows the global even before assignment.
	ctx.PushFrame(map[string]types.Value{"x": types.Undefined()})
	if !ctx.Var("x").IsUndefined() {
		t.Error("local x should shadow global")
	}
	if err := ctx.SetVar("x", types.Num(2)); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Var("x").AsNum(); got != 2 {
		t.Errorf("local x = %v, want 2", got)
	}
	ctx.PopFrame()

	if got := ctx.Var("x").AsNum(); got != 1 {
		t.Errorf("global x = %v, want 1", got)
	}
}

func TestArrayPromotion(t *testing.T) {
	ctx := newTestContext()

	arr, err := ctx.Array("a")
	if err != nil {
		t.Fatal(err)
	}
	arr.ArraySet("k", types.Num(1))

	// A second lookup returns the same storage.
	again, err := ctx.Array("a")
	if err != nil {
		t.Fatal(err)
	}
	if !again.ArrayContains("k") {
		t.Error("array lookup lost elements")
	}
}

func TestArrayScalarConflict(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.SetVar("s", types.Num(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Array("s"); err == nil {
		t.Error("expected type error using scalar as array")
	}
	if _, err := ctx.Array("NR"); err == nil {
		t.Error("expected type error using NR as array")
	}
}

func TestSubsepJoin(t *testing.T) {
	ctx := newTestContext()
	if got := ctx.SubsepJoin([]string{"a"}); got != "a" {
		t.Errorf("single = %q, want %q", got, "a")
	}
	if got := ctx.SubsepJoin([]string{"a", "b"}); got != "a\x1cb" {
		t.Errorf("joined = %q, want %q", got, "a\x1cb")
	}
}

func TestExitState(t *testing.T) {
	ctx := newTestContext()
	if ctx.Exited() {
		t.Fatal("fresh context reports exited")
	}
	ctx.SetExit(3)
	if !ctx.Exited() || ctx.ExitCode() != 3 {
		t.Errorf("Exited=%v ExitCode=%d, want true/3", ctx.Exited(), ctx.ExitCode())
	}
}

func TestOutput(t *testing.T) {
	var sb strings.Builder
	ctx := NewContext(&sb)
	if _, err := io.WriteString(ctx.Output(), "hi"); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "hi" {
		t.Errorf("output = %q, want %q", sb.String(), "hi")
	}
}
