package lexer

import (
	"testing"

	"github.com/fastutils/fawk/internal/token"
)

func TestScanBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Token
	}{
		{"+", []token.Token{token.ADD, token.EOF}},
		{"-", []token.Token{token.SUB, token.EOF}},
		{"*", []token.Token{token.MUL, token.EOF}},
		{"%", []token.Token{token.MOD, token.EOF}},
		{"^", []token.Token{token.POW, token.EOF}},
		{"++", []token.Token{token.INCR, token.EOF}},
		{"--", []token.Token{token.DECR, token.EOF}},
		{"+=", []token.Token{token.ADD_ASSIGN, token.EOF}},
		{"-=", []token.Token{token.SUB_ASSIGN, token.EOF}},
		{"*=", []token.Token{token.MUL_ASSIGN, token.EOF}},
		{"x /= 1", []token.Token{token.NAME, token.DIV_ASSIGN, token.NUMBER, token.EOF}},
		{"%=", []token.Token{token.MOD_ASSIGN, token.EOF}},
		{"^=", []token.Token{token.POW_ASSIGN, token.EOF}},
		{"=", []token.Token{token.ASSIGN, token.EOF}},
		{"==", []token.Token{token.EQUALS, token.EOF}},
		{"!=", []token.Token{token.NOT_EQUALS, token.EOF}},
		{"<", []token.Token{token.LESS, token.EOF}},
		{"<=", []token.Token{token.LTE, token.EOF}},
		{">", []token.Token{token.GREATER, token.EOF}},
		{">=", []token.Token{token.GTE, token.EOF}},
		{">>", []token.Token{token.APPEND, token.EOF}},
		{"~", []token.Token{token.MATCH, token.EOF}},
		{"!~", []token.Token{token.NOT_MATCH, token.EOF}},
		{"!", []token.Token{token.NOT, token.EOF}},
		{"&&", []token.Token{token.AND, token.EOF}},
		{"||", []token.Token{token.OR, token.EOF}},
		{"|", []token.Token{token.PIPE, token.EOF}},
		{"(", []token.Token{token.LPAREN, token.EOF}},
		{")", []token.Token{token.RPAREN, token.EOF}},
		{"{", []token.Token{token.LBRACE, token.EOF}},
		{"}", []token.Token{token.RBRACE, token.EOF}},
		{"[", []token.Token{token.LBRACKET, token.EOF}},
		{"]", []token.Token{token.RBRACKET, token.EOF}},
		{",", []token.Token{token.COMMA, token.EOF}},
		{";", []token.Token{token.SEMICOLON, token.EOF}},
		{":", []token.Token{token.COLON, token.EOF}},
		{"?", []token.Token{token.QUESTION, token.EOF}},
		{"$", []token.Token{token.DOLLAR, token.EOF}},
		{"\n", []token.Token{token.NEWLINE, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New([]byte(tt.input))
			for i, exp := range tt.expected {
				tok := l.Scan()
				if tok.Type != exp {
					t.Errorf("token[%d]: expected %v, got %v", i, exp, tok.Type)
				}
			}
		})
	}
}

func TestScanKeywords(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Token
	}{
		{"BEGIN", token.BEGIN},
		{"END", token.END},
		{"if", token.IF},
		{"else", token.ELSE},
		{"while", token.WHILE},
		{"for", token.FOR},
		{"do", token.DO},
		{"break", token.BREAK},
		{"continue", token.CONTINUE},
		{"function", token.FUNCTION},
		{"return", token.RETURN},
		{"delete", token.DELETE},
		{"exit", token.EXIT},
		{"next", token.NEXT},
		{"getline", token.GETLINE},
		{"print", token.PRINT},
		{"printf", token.PRINTF},
		{"in", token.IN},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New([]byte(tt.input))
			tok := l.Scan()
			if tok.Type != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, tok.Type)
			}
		})
	}
}

func TestScanBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Token
	}{
		{"atan2", token.F_ATAN2},
		{"cos", token.F_COS},
		{"exp", token.F_EXP},
		{"gsub", token.F_GSUB},
		{"index", token.F_INDEX},
		{"int", token.F_INT},
		{"length", token.F_LENGTH},
		{"log", token.F_LOG},
		{"match", token.F_MATCH},
		{"rand", token.F_RAND},
		{"sin", token.F_SIN},
		{"split", token.F_SPLIT},
		{"sprintf", token.F_SPRINTF},
		{"sqrt", token.F_SQRT},
		{"srand", token.F_SRAND},
		{"sub", token.F_SUB},
		{"substr", token.F_SUBSTR},
		{"tolower", token.F_TOLOWER},
		{"toupper", token.F_TOUPPER},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New([]byte(tt.input))
			tok := l.Scan()
			if tok.Type != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, tok.Type)
			}
		})
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{"0", "0"},
		{"42", "42"},
		{"3.14", "3.14"},
		{".5", ".5"},
		{"1.", "1."},
		{"1e5", "1e5"},
		{"1E5", "1E5"},
		{"1e+5", "1e+5"},
		{"1e-5", "1e-5"},
		{"1.5e-3", "1.5e-3"},
		{"0x1F", "0x1F"},
		{"0XaB", "0XaB"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New([]byte(tt.input))
			tok := l.Scan()
			if tok.Type != token.NUMBER {
				t.Fatalf("expected NUMBER, got %v", tok.Type)
			}
			if tok.Value != tt.value {
				t.Errorf("expected value %q, got %q", tt.value, tok.Value)
			}
		})
	}
}

// "1e+a" must not swallow the e: the exponent is only part of the
// number when a digit follows.
func TestScanNumberBadExponent(t *testing.T) {
	l := New([]byte("1e+a"))
	tok := l.Scan()
	if tok.Type != token.NUMBER || tok.Value != "1" {
		t.Fatalf("expected NUMBER %q, got %v %q", "1", tok.Type, tok.Value)
	}
	tok = l.Scan()
	if tok.Type != token.NAME || tok.Value != "e" {
		t.Fatalf("expected NAME %q, got %v %q", "e", tok.Type, tok.Value)
	}
	tok = l.Scan()
	if tok.Type != token.ADD {
		t.Fatalf("expected ADD, got %v", tok.Type)
	}
	tok = l.Scan()
	if tok.Type != token.NAME || tok.Value != "a" {
		t.Fatalf("expected NAME %q, got %v %q", "a", tok.Type, tok.Value)
	}
}

func TestScanStrings(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\tb"`, "a\tb"},
		{`"a\nb"`, "a\nb"},
		{`"a\rb"`, "a\rb"},
		{`"a\\b"`, `a\b`},
		{`"say \"hi\""`, `say "hi"`},
		{`"unknown \q escape"`, "unknown q escape"},
		{`'raw\n'`, `raw\n`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New([]byte(tt.input))
			tok := l.Scan()
			if tok.Type != token.STRING {
				t.Fatalf("expected STRING, got %v", tok.Type)
			}
			if tok.Value != tt.value {
				t.Errorf("expected value %q, got %q", tt.value, tok.Value)
			}
		})
	}
}

func TestScanUnterminatedString(t *testing.T) {
	l := New([]byte(`"no end`))
	tok := l.Scan()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %v", tok.Type)
	}
}

func TestScanRegexPositions(t *testing.T) {
	// A slash after a value token is division; elsewhere it starts a regex.
	tests := []struct {
		name     string
		input    string
		expected []token.Token
	}{
		{
			"regex at start",
			"/foo/",
			[]token.Token{token.REGEX, token.EOF},
		},
		{
			"division after name",
			"x / 2",
			[]token.Token{token.NAME, token.DIV, token.NUMBER, token.EOF},
		},
		{
			"division after number",
			"1 / 2",
			[]token.Token{token.NUMBER, token.DIV, token.NUMBER, token.EOF},
		},
		{
			"regex after match op",
			"$0 ~ /foo/",
			[]token.Token{token.DOLLAR, token.NUMBER, token.MATCH, token.REGEX, token.EOF},
		},
		{
			"regex after lparen",
			"(/foo/)",
			[]token.Token{token.LPAREN, token.REGEX, token.RPAREN, token.EOF},
		},
		{
			"regex after and",
			"/a/ && /b/",
			[]token.Token{token.REGEX, token.AND, token.REGEX, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New([]byte(tt.input))
			for i, exp := range tt.expected {
				tok := l.Scan()
				if tok.Type != exp {
					t.Errorf("token[%d]: expected %v, got %v", i, exp, tok.Type)
				}
			}
		})
	}
}

func TestScanRegexEscapedSlash(t *testing.T) {
	l := New([]byte(`/a\/b/`))
	tok := l.Scan()
	if tok.Type != token.REGEX {
		t.Fatalf("expected REGEX, got %v", tok.Type)
	}
	if tok.Value != `a\/b` {
		t.Errorf("expected value %q, got %q", `a\/b`, tok.Value)
	}
}

func TestScanComments(t *testing.T) {
	l := New([]byte("x # comment to end of line\ny"))
	types := []token.Token{token.NAME, token.NEWLINE, token.NAME, token.EOF}
	for i, exp := range types {
		tok := l.Scan()
		if tok.Type != exp {
			t.Errorf("token[%d]: expected %v, got %v", i, exp, tok.Type)
		}
	}
}

func TestScanLineContinuation(t *testing.T) {
	l := New([]byte("x \\\n+ y"))
	types := []token.Token{token.NAME, token.ADD, token.NAME, token.EOF}
	for i, exp := range types {
		tok := l.Scan()
		if tok.Type != exp {
			t.Errorf("token[%d]: expected %v, got %v", i, exp, tok.Type)
		}
	}
}

func TestScanPositions(t *testing.T) {
	l := New([]byte("x\n  y"))
	tok := l.Scan()
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Errorf("x: expected 1:1, got %d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	l.Scan() // newline
	tok = l.Scan()
	if tok.Pos.Line != 2 || tok.Pos.Column != 3 {
		t.Errorf("y: expected 2:3, got %d:%d", tok.Pos.Line, tok.Pos.Column)
	}
}

func TestHadSpace(t *testing.T) {
	l := New([]byte("f (x)"))
	l.Scan() // f
	l.Scan() // (
	if !l.HadSpace() {
		t.Error("expected HadSpace after space before lparen")
	}

	l = New([]byte("f(x)"))
	l.Scan() // f
	l.Scan() // (
	if l.HadSpace() {
		t.Error("expected no HadSpace for adjacent lparen")
	}
}
