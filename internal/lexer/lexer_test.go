package lexer

import (
	"testing"

	"github.com/tangzhangming/mel/internal/i18n"
	"github.com/tangzhangming/mel/internal/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `+ - * / = == != < <= > >= && || & | ( ) { } [ ] , ;`

	expected := []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.ASSIGN, token.EQ, token.NE,
		token.LT, token.LE, token.GT, token.GE,
		token.AND, token.OR, token.BIT_AND, token.BIT_OR,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET,
		token.COMMA, token.SEMICOLON,
		token.EOF,
	}

	l := New(input, "test.mel")
	tokens := l.ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	input := `if else for while return int string iffy _tmp x1`

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.IF, "if"},
		{token.ELSE, "else"},
		{token.FOR, "for"},
		{token.WHILE, "while"},
		{token.RETURN, "return"},
		{token.IDENT, "int"},
		{token.IDENT, "string"},
		{token.IDENT, "iffy"},
		{token.IDENT, "_tmp"},
		{token.IDENT, "x1"},
		{token.EOF, ""},
	}

	l := New(input, "test.mel")
	tokens := l.ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i].typ {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i].typ)
		}
		if tok.Literal != expected[i].literal {
			t.Errorf("token[%d] literal mismatch: got %q, want %q", i, tok.Literal, expected[i].literal)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		value interface{}
	}{
		{"123", int64(123)},
		{"0", int64(0)},
		{"7", int64(7)},
		{"3.14", 3.14},
		{".5", 0.5},
		{"2.", 2.0},
		{"1e10", 1e10},
		{"2.5e-3", 2.5e-3},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.mel")
		tokens := l.ScanTokens()

		if len(tokens) != 2 { // number + EOF
			t.Errorf("input %q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}

		tok := tokens[0]
		if tok.Type != token.NUMBER {
			t.Errorf("input %q: type mismatch: got %s, want NUMBER", tt.input, tok.Type)
		}
		if tok.Value != tt.value {
			t.Errorf("input %q: value mismatch: got %#v, want %#v", tt.input, tok.Value, tt.value)
		}
		if tok.Literal != tt.input {
			t.Errorf("input %q: literal mismatch: got %q", tt.input, tok.Literal)
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"hello\nworld"`, "hello\nworld"},
		{`"tab\there"`, "tab\there"},
		{`"quote\"here"`, `quote"here`},
		{`"Введите "`, "Введите "},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.mel")
		tokens := l.ScanTokens()

		if len(tokens) != 2 {
			t.Errorf("input %q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}

		tok := tokens[0]
		if tok.Type != token.STRING {
			t.Errorf("input %q: type mismatch: got %s, want STRING", tt.input, tok.Type)
		}
		if tok.Value.(string) != tt.expected {
			t.Errorf("input %q: value mismatch: got %q, want %q", tt.input, tok.Value, tt.expected)
		}
	}
}

func TestLexerComments(t *testing.T) {
	input := `
	// single line comment
	a = 1;
	/* multi
	   line
	   comment */
	b = 2; // trailing`

	l := New(input, "test.mel")
	tokens := l.ScanTokens()

	expectedTypes := []token.TokenType{
		token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.EOF,
	}

	if len(tokens) != len(expectedTypes) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expectedTypes))
	}

	for i, tok := range tokens {
		if tok.Type != expectedTypes[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expectedTypes[i])
		}
	}

	if tokens[4].Pos.Line != 7 {
		t.Errorf("line tracking across block comment: got line %d, want 7", tokens[4].Pos.Line)
	}
}

func TestLexerBlockCommentsDoNotNest(t *testing.T) {
	l := New(`/* a /* b */ x /* c */`, "test.mel")
	tokens := l.ScanTokens()

	if len(tokens) != 2 || tokens[0].Type != token.IDENT || tokens[0].Literal != "x" {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestLexerPositions(t *testing.T) {
	input := "int a;\n  a = b + 10;"

	l := New(input, "test.mel")
	tokens := l.ScanTokens()

	expected := []struct {
		literal string
		line    int
		column  int
	}{
		{"int", 1, 1},
		{"a", 1, 5},
		{";", 1, 6},
		{"a", 2, 3},
		{"=", 2, 5},
		{"b", 2, 7},
		{"+", 2, 9},
		{"10", 2, 11},
		{";", 2, 13},
	}

	for i, exp := range expected {
		tok := tokens[i]
		if tok.Literal != exp.literal || tok.Pos.Line != exp.line || tok.Pos.Column != exp.column {
			t.Errorf("token[%d]: got %q at %d:%d, want %q at %d:%d",
				i, tok.Literal, tok.Pos.Line, tok.Pos.Column, exp.literal, exp.line, exp.column)
		}
	}

	if tokens[0].Pos.Filename != "test.mel" {
		t.Errorf("filename not propagated: %q", tokens[0].Pos.Filename)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input  string
		line   int
		column int
	}{
		{`a = "open`, 1, 5},
		{"a = \"x\\\ny\"", 1, 5},
		{"a = 1;\n/* never closed", 2, 1},
		{`a = 1 ! b`, 1, 7},
		{`a = 1e+`, 1, 5},
		{`x = @;`, 1, 5},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.mel")
		tokens := l.ScanTokens()

		if !l.HasErrors() {
			t.Errorf("input %q: expected lexer error", tt.input)
			continue
		}

		err := l.Errors()[0]
		if err.Pos.Line != tt.line || err.Pos.Column != tt.column {
			t.Errorf("input %q: error at %d:%d, want %d:%d", tt.input, err.Pos.Line, err.Pos.Column, tt.line, tt.column)
		}

		var illegal *token.Token
		for i := range tokens {
			if tokens[i].Type == token.ILLEGAL {
				illegal = &tokens[i]
				break
			}
		}
		if illegal == nil {
			t.Errorf("input %q: expected ILLEGAL token", tt.input)
			continue
		}
		if illegal.Value != err {
			t.Errorf("input %q: ILLEGAL value %v, want %v", tt.input, illegal.Value, err)
		}
	}
}

func TestLexerEscapedNewlineEndsString(t *testing.T) {
	l := New("x = \"a\\\n\ny = 1;", "test.mel")
	tokens := l.ScanTokens()

	if len(l.Errors()) == 0 || l.Errors()[0].ID != i18n.ErrUnterminatedString {
		t.Fatalf("errors = %v, want unterminated string", l.Errors())
	}

	for _, tok := range tokens {
		if tok.Type == token.IDENT && tok.Literal == "y" {
			if tok.Pos.Line != 3 || tok.Pos.Column != 1 {
				t.Errorf("y at %d:%d, want 3:1", tok.Pos.Line, tok.Pos.Column)
			}
			return
		}
	}
	t.Fatal("token y not found")
}
