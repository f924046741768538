package parser

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/tangzhangming/mel/internal/ast"
)

const sampleProgram = `
/* 冒泡排序 */
int[5] a = [5, 3, 1, 4, 2];
int n = 5;

int swap(int i, int j) {
    int t = a[0];
    a[0] = a[1];
    a[1] = t;
    return 0;
};

for (int i = 0; i < n; i = i + 1) {
    for (int j = 0; j < n - i - 1; j = j + 1) {
        if (a[0] > a[1]) swap(j, j + 1);
    }
}

string s = "done\n";
print(s);
while (n > 0 && n != 3 || n == 10) n = n - 1;
`

func mustParse(t *testing.T, input string) *ast.StmtList {
	t.Helper()
	list, err := Parse(input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return list
}

func TestParsePrecedence(t *testing.T) {
	list := mustParse(t, `x = 1 + 2 * 3;`)
	assign, ok := list.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", list.Statements[0])
	}

	add, ok := assign.Value.(*ast.BinOp)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("expected + at root, got %s", assign.Value)
	}
	if lit, ok := add.Left.(*ast.Literal); !ok || lit.Value != int64(1) {
		t.Errorf("expected left literal 1, got %s", add.Left)
	}
	mul, ok := add.Right.(*ast.BinOp)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("expected * on the right, got %s", add.Right)
	}
	if mul.String() != "(2 * 3)" {
		t.Errorf("unexpected right operand %s", mul)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`x = 8 - 3 - 2;`, "((8 - 3) - 2)"},
		{`x = 8 / 4 / 2;`, "((8 / 4) / 2)"},
		{`x = a || b || c;`, "((a || b) || c)"},
		{`x = a == b != c;`, "((a == b) != c)"},
		{`x = a < b > c;`, "((a < b) > c)"},
	}

	for _, tt := range tests {
		list := mustParse(t, tt.input)
		got := list.Statements[0].(*ast.Assign).Value.String()
		if got != tt.expected {
			t.Errorf("%s: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseFlattening(t *testing.T) {
	plain := mustParse(t, `a = 1; b = 2;`)
	nested := mustParse(t, `a = 1; {} { { b = 2; } };;`)

	if plain.String() != nested.String() {
		t.Errorf("flattening changed the sequence:\n%s\n%s", plain, nested)
	}
	if nested.Len() != 2 {
		t.Errorf("expected 2 statements, got %d", nested.Len())
	}
}

func TestParseArrays(t *testing.T) {
	list := mustParse(t, `int[3] b = [1,2,3]; b = [1,3,2]; x = b[0];`)
	if list.Len() != 3 {
		t.Fatalf("expected 3 statements, got %d", list.Len())
	}

	decl, ok := list.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", list.Statements[0])
	}
	if decl.TypeName() != "int" {
		t.Errorf("expected type int, got %s", decl.TypeName())
	}
	if size, ok := decl.ArraySize(); !ok || size != 3 {
		t.Errorf("expected array size 3, got %d (%v)", size, ok)
	}
	if init, ok := decl.Bindings[0].Init.(*ast.ArrayLiteral); !ok || init.String() != "[1, 2, 3]" {
		t.Errorf("unexpected initializer %v", decl.Bindings[0].Init)
	}

	update, ok := list.Statements[1].(*ast.ArrayUpdate)
	if !ok {
		t.Fatalf("expected ArrayUpdate, got %T", list.Statements[1])
	}
	if update.Name != "b" || update.Value.String() != "[1, 3, 2]" {
		t.Errorf("unexpected update %s", update)
	}

	get, ok := list.Statements[2].(*ast.Assign).Value.(*ast.ArrayGetElement)
	if !ok {
		t.Fatalf("expected ArrayGetElement")
	}
	if get.Name != "b" || get.Index != 0 {
		t.Errorf("unexpected element access %s", get)
	}
}

func TestParseRejectsNonLiteralIndex(t *testing.T) {
	for _, input := range []string{`x = b[x];`, `b[i] = 1;`, `x = b[1 + 1];`} {
		_, err := Parse(input)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%s: expected SyntaxError, got %v", input, err)
		}
	}
}

func TestParseFuncDecl(t *testing.T) {
	list := mustParse(t, `int f(string a, int b) { return b; };`)
	fn, ok := list.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", list.Statements[0])
	}

	if fn.ReturnType.Name != "int" || fn.Name != "f" {
		t.Errorf("unexpected signature %s %s", fn.ReturnType, fn.Name)
	}

	want := [][2]string{{"string", "a"}, {"int", "b"}}
	if len(fn.Params) != len(want) {
		t.Fatalf("expected %d params, got %d", len(want), len(fn.Params))
	}
	for i, p := range fn.Params {
		if p.Type.Name != want[i][0] || p.Name != want[i][1] {
			t.Errorf("param %d: got %s", i, p)
		}
	}

	if fn.Body.Len() != 1 {
		t.Fatalf("expected 1 body statement, got %d", fn.Body.Len())
	}
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected Return, got %T", fn.Body.Statements[0])
	}
	if id, ok := ret.Value.(*ast.Ident); !ok || id.Name != "b" {
		t.Errorf("expected return b, got %s", ret.Value)
	}
}

func TestParseCommentsIgnored(t *testing.T) {
	plain := mustParse(t, `int a = 1; a = a + 2;`)
	commented := mustParse(t, `// head
int /* type */ a = 1; /* multi
line */ a = a // tail
   + 2;   `)

	if plain.String() != commented.String() {
		t.Errorf("comments changed the AST:\n%s\n%s", plain, commented)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		input  string
		line   int
		column int
	}{
		{"int a = 1;\nint b = ;", 2, 9},
		{"if (a) {", 1, 9},
		{"a = 1 +;", 1, 8},
		{"int f() {}", 1, 11},
		{"x = \"abc", 1, 5},
		{"x = \"a\\\nb\";\ny = 1;", 1, 5},
		{"/* open\n a = 1;", 1, 1},
		{"a = 1; # b", 1, 8},
	}

	for _, tt := range tests {
		list, err := ParseFile(tt.input, "bad.mel")
		if err == nil {
			t.Errorf("%q: expected error, got %s", tt.input, list)
			continue
		}
		if list != nil {
			t.Errorf("%q: expected no partial AST", tt.input)
		}

		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%q: expected SyntaxError, got %T", tt.input, err)
			continue
		}
		if se.Pos.Line != tt.line || se.Pos.Column != tt.column {
			t.Errorf("%q: position %d:%d, want %d:%d (%s)", tt.input, se.Pos.Line, se.Pos.Column, tt.line, tt.column, se.Message)
		}
		if !strings.HasPrefix(err.Error(), "bad.mel:") {
			t.Errorf("%q: error should carry filename: %v", tt.input, err)
		}
	}
}

func TestParseSampleProgram(t *testing.T) {
	list := mustParse(t, sampleProgram)
	if list.Len() != 7 {
		t.Fatalf("expected 7 top-level statements, got %d: %s", list.Len(), list)
	}

	kinds := []string{}
	for _, s := range list.Statements {
		switch s.(type) {
		case *ast.VarDecl:
			kinds = append(kinds, "var")
		case *ast.FuncDecl:
			kinds = append(kinds, "func")
		case *ast.For:
			kinds = append(kinds, "for")
		case *ast.Call:
			kinds = append(kinds, "call")
		case *ast.While:
			kinds = append(kinds, "while")
		default:
			kinds = append(kinds, "?")
		}
	}
	if got := strings.Join(kinds, ","); got != "var,var,func,for,var,call,while" {
		t.Errorf("unexpected statement kinds %s", got)
	}

	loop := list.Statements[3].(*ast.For)
	inner, ok := loop.Body.(*ast.StmtList)
	if !ok || inner.Len() != 1 {
		t.Fatalf("expected block body with one statement, got %s", loop.Body)
	}
	if _, ok := inner.Statements[0].(*ast.For); !ok {
		t.Errorf("expected nested for, got %T", inner.Statements[0])
	}
}

func TestParseDeterministic(t *testing.T) {
	first := mustParse(t, sampleProgram).String()
	second := mustParse(t, sampleProgram).String()
	if first != second {
		t.Errorf("parsing is not deterministic")
	}
}

func TestParseConcurrent(t *testing.T) {
	expected := mustParse(t, sampleProgram).String()

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := Parse(sampleProgram)
			if err != nil {
				errs <- err.Error()
				return
			}
			if list.String() != expected {
				errs <- "mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

func TestParserTokensAndTree(t *testing.T) {
	p := New(`a = "x" @;`, "t.mel")
	if len(p.LexErrors()) != 1 {
		t.Fatalf("expected 1 lexer error, got %d", len(p.LexErrors()))
	}
	if _, err := p.Parse(); err == nil {
		t.Fatal("expected error")
	}

	p = New(`a = 1;`, "t.mel")
	tokens := p.Tokens()
	if len(tokens) != 5 {
		t.Errorf("expected 5 tokens including EOF, got %d", len(tokens))
	}
	tree, err := p.ParseTree()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, _ := p.ParseTree()
	if tree != again {
		t.Errorf("ParseTree should cache its result")
	}
	if p.Filename() != "t.mel" {
		t.Errorf("unexpected filename %q", p.Filename())
	}
}

func TestParseLinesAfterEscapedNewline(t *testing.T) {
	p := New("x = \"a\\\nb\";\ny = (;", "bad.mel")
	if _, err := p.Parse(); err == nil {
		t.Fatal("expected error for string continued with a backslash")
	}

	// 续行的字符串不会吞掉换行，后面的 token 行号正确
	for _, tok := range p.Tokens() {
		if tok.Literal == "(" {
			if tok.Pos.Line != 3 || tok.Pos.Column != 5 {
				t.Errorf("'(' at %d:%d, want 3:5", tok.Pos.Line, tok.Pos.Column)
			}
			return
		}
	}
	t.Fatal("token ( not found")
}
