package grammar

import (
	"strings"
	"sync"
	"testing"

	"github.com/tangzhangming/mel/internal/token"
)

// sexpr 把解析树渲染为紧凑的 S 表达式，便于比较结构
func sexpr(c Child) string {
	switch c := c.(type) {
	case Leaf:
		return c.Literal
	case *Tree:
		parts := []string{string(c.Rule)}
		for _, child := range c.Children {
			parts = append(parts, sexpr(child))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "?"
}

func TestParseTreeShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", ``, `(stmt_list)`},
		{"precedence", `a = 1 + 2 * 3;`,
			`(stmt_list (assign (ident a) (bin_op (literal 1) + (bin_op (literal 2) * (literal 3)))))`},
		{"left assoc", `a = 1 - 2 - 3;`,
			`(stmt_list (assign (ident a) (bin_op (bin_op (literal 1) - (literal 2)) - (literal 3))))`},
		{"parens", `a = (1 + 2) * 3;`,
			`(stmt_list (assign (ident a) (bin_op (bin_op (literal 1) + (literal 2)) * (literal 3))))`},
		{"logic", `a = b || c && d;`,
			`(stmt_list (assign (ident a) (bin_op (ident b) || (bin_op (ident c) && (ident d)))))`},
		{"comparison", `a = b + 1 >= c == d;`,
			`(stmt_list (assign (ident a) (bin_op (bin_op (bin_op (ident b) + (literal 1)) >= (ident c)) == (ident d))))`},
		{"vars", `int a, b = 2;`,
			`(stmt_list (vars (type int) (ident a) (assign (ident b) (literal 2))))`},
		{"array decl", `int[3] b = [1, 2, 3];`,
			`(stmt_list (vars (type int (literal 3)) (assign (ident b) (arr (literal 1) (literal 2) (literal 3)))))`},
		{"array update", `b = [1, 2];`,
			`(stmt_list (array_update (ident b) (arr (literal 1) (literal 2))))`},
		{"array set", `b[0] = 5;`,
			`(stmt_list (array_set_element (array_get_element (ident b) (literal 0)) (literal 5)))`},
		{"array get", `a = b[1] * 2;`,
			`(stmt_list (assign (ident a) (bin_op (array_get_element (ident b) (literal 1)) * (literal 2))))`},
		{"call stmt", `print(a, "s");`,
			`(stmt_list (call (ident print) (ident a) (literal "s")))`},
		{"call no args", `a = f();`,
			`(stmt_list (assign (ident a) (call (ident f))))`},
		{"func", `int f(int a, float[2] b) { return a; };`,
			`(stmt_list (func (type int) (ident f) (func_vars (param (type int) (ident a)) (param (type float (literal 2)) (ident b))) (stmt_list (return (ident a)))))`},
		{"empty func", `void g() {};`,
			`(stmt_list (func (type void) (ident g) (func_vars) (stmt_list)))`},
		{"for", `for (int i = 0; i < 10; i = i + 1) ;`,
			`(stmt_list (for (vars (type int) (assign (ident i) (literal 0))) (bin_op (ident i) < (literal 10)) (stmt_list (assign (ident i) (bin_op (ident i) + (literal 1)))) (stmt_list)))`},
		{"for empty", `for (;;) {}`,
			`(stmt_list (for (stmt_list) (stmt_list) (stmt_list) (stmt_list)))`},
		{"for lists", `for (i = 0, j = 1; ; i = i + 1, j = j * 2) f(i);`,
			`(stmt_list (for (stmt_list (assign (ident i) (literal 0)) (assign (ident j) (literal 1))) (stmt_list) (stmt_list (assign (ident i) (bin_op (ident i) + (literal 1))) (assign (ident j) (bin_op (ident j) * (literal 2)))) (call (ident f) (ident i))))`},
		{"while", `while (a) { a = a - 1; }`,
			`(stmt_list (while (ident a) (stmt_list (assign (ident a) (bin_op (ident a) - (literal 1))))))`},
		{"if else", `if (a == 1) b = 2; else { b = 3; }`,
			`(stmt_list (if (bin_op (ident a) == (literal 1)) (assign (ident b) (literal 2)) (stmt_list (assign (ident b) (literal 3)))))`},
		{"block", `{ a = 1; } b = 2;;`,
			`(stmt_list (stmt_list (assign (ident a) (literal 1))) (assign (ident b) (literal 2)))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := ParseSource(tt.input, "test.mel")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sexpr(tree); got != tt.expected {
				t.Errorf("tree mismatch\n got: %s\nwant: %s", got, tt.expected)
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		column  int
		message string
	}{
		{"missing semicolon", `a = 1`, 1, 6, "expected ';'"},
		{"func without semicolon", `int f() { }`, 1, 12, "expected ';'"},
		{"variable index", `a = b[x];`, 1, 7, "array index"},
		{"float index", `a = b[1.5];`, 1, 7, "array index"},
		{"bit and", `a = 1 & 2;`, 1, 7, "expected ';'"},
		{"missing expression", `a = ;`, 1, 5, "expected expression"},
		{"literal statement", `1 = a;`, 1, 1, "expected statement"},
		{"bare ident", "a = 1;\nfoo;", 2, 4, "unexpected token"},
		{"empty array", `b = [];`, 1, 6, "expected expression"},
		{"unclosed block", `{ a = 1;`, 1, 9, "expected '}'"},
		{"lexer error", `a = "open`, 1, 5, "unterminated string"},
		{"lexer error wins", "a = 1 ! 2;", 1, 7, "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := ParseSource(tt.input, "test.mel")
			if err == nil {
				t.Fatalf("expected error, got tree %s", sexpr(tree))
			}
			if tree != nil {
				t.Errorf("expected nil tree on error")
			}

			se, ok := err.(*SyntaxError)
			if !ok {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if se.Pos.Line != tt.line || se.Pos.Column != tt.column {
				t.Errorf("position: got %d:%d, want %d:%d", se.Pos.Line, se.Pos.Column, tt.line, tt.column)
			}
			if !strings.Contains(se.Message, tt.message) {
				t.Errorf("message %q does not contain %q", se.Message, tt.message)
			}
			if se.Pos.Filename != "test.mel" {
				t.Errorf("filename: got %q", se.Pos.Filename)
			}
		})
	}
}

func TestParseNestingLimit(t *testing.T) {
	deep := "a = " + strings.Repeat("(", maxDepth+10) + "1" + strings.Repeat(")", maxDepth+10) + ";"
	_, err := ParseSource(deep, "")
	if err == nil {
		t.Fatal("expected nesting error")
	}
	if !strings.Contains(err.Error(), "nesting too deep") {
		t.Errorf("unexpected error: %v", err)
	}

	shallow := "a = " + strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50) + ";"
	if _, err := ParseSource(shallow, ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseAppendsEOF(t *testing.T) {
	tokens := []token.Token{
		{Type: token.IDENT, Literal: "a"},
		{Type: token.ASSIGN, Literal: "="},
		{Type: token.NUMBER, Literal: "1", Value: int64(1)},
		{Type: token.SEMICOLON, Literal: ";"},
	}
	tree, err := Parse(tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sexpr(tree); got != `(stmt_list (assign (ident a) (literal 1)))` {
		t.Errorf("got %s", got)
	}
}

func TestTerminalsCoverLeaves(t *testing.T) {
	terminals := make(map[token.TokenType]bool)
	for _, tt := range Terminals() {
		terminals[tt] = true
	}

	src := `int[2] a = [1, "x"]; a[0] = 1 + 2 - 3 * 4 / 5;
	if (a || b && c == d != e > f < g >= h <= i) f(a);`
	tree, err := ParseSource(src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var walk func(c Child)
	walk = func(c Child) {
		switch c := c.(type) {
		case Leaf:
			if !terminals[c.Type] {
				t.Errorf("leaf %s is not a declared terminal", c.Type)
			}
		case *Tree:
			for _, child := range c.Children {
				walk(child)
			}
		}
	}
	walk(tree)
}

func TestPretty(t *testing.T) {
	tree, err := ParseSource(`a = 1 + b;`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "stmt_list\n" +
		"  assign\n" +
		"    ident\ta\n" +
		"    bin_op\n" +
		"      literal\t1\n" +
		"      +\n" +
		"      ident\tb\n"
	if got := tree.Pretty(); got != expected {
		t.Errorf("pretty mismatch\n got: %q\nwant: %q", got, expected)
	}
}

func TestParseConcurrent(t *testing.T) {
	src := `int[3] b = [1, 2, 3]; for (int i = 0; i < 3; i = i + 1) { b[0] = b[1] + i; }`
	want, err := ParseSource(src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := sexpr(want)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := ParseSource(src, "")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got := sexpr(tree); got != expected {
				t.Errorf("concurrent parse differs: %s", got)
			}
		}()
	}
	wg.Wait()
}
