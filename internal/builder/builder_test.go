package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangzhangming/mel/internal/ast"
	"github.com/tangzhangming/mel/internal/grammar"
	"github.com/tangzhangming/mel/internal/token"
)

func build(t *testing.T, src string) *ast.StmtList {
	t.Helper()
	tree, err := grammar.ParseSource(src, "test.mel")
	require.NoError(t, err)
	list, err := Build(tree)
	require.NoError(t, err)
	return list
}

func leaf(tt token.TokenType, lit string, value interface{}) grammar.Leaf {
	return grammar.Leaf{Token: token.Token{Type: tt, Literal: lit, Value: value, Pos: token.Position{Line: 1, Column: 1}}}
}

func TestEveryRuleHasResolver(t *testing.T) {
	for _, r := range grammar.Rules() {
		_, ok := resolvers[r]
		assert.True(t, ok, "rule %s has no resolver", r)
	}
	for _, tt := range grammar.Terminals() {
		assert.True(t, passthrough[tt], "terminal %s is not passed through", tt)
	}
	assert.Len(t, resolvers, len(grammar.Rules()))
}

func TestBuildStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`a = 1 + 2 * 3;`, `{ a = (1 + (2 * 3)); }`},
		{`a = 1 - 2 - 3;`, `{ a = ((1 - 2) - 3); }`},
		{`int a, b = 2;`, `{ int a, b = 2; }`},
		{`int[3] b = [1, 2, 3];`, `{ int[3] b = [1, 2, 3]; }`},
		{`b = [1, 2];`, `{ b = [1, 2]; }`},
		{`b[0] = b[1];`, `{ b[0] = b[1]; }`},
		{`print("hi", 2.5);`, `{ print("hi", 2.5); }`},
		{`int f(int a, float[2] b) { return a; };`, `{ int f(int a, float[2] b) { return a; }; }`},
		{`void g() {};`, `{ void g() {}; }`},
		{`for (int i = 0; i < 10; i = i + 1) ;`, `{ for (int i = 0; (i < 10); i = (i + 1)) {}; }`},
		{`for (;;) {}`, `{ for (; ; ) {}; }`},
		{`while (a) { a = a - 1; }`, `{ while (a) { a = (a - 1); }; }`},
		{`if (a == 1) b = 2; else { b = 3; }`, `{ if ((a == 1)) b = 2 else { b = 3; }; }`},
		{`{ a = 1; { b = 2; } } c = 3;`, `{ a = 1; b = 2; c = 3; }`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, build(t, tt.input).String())
		})
	}
}

func TestBuildNodeTypes(t *testing.T) {
	list := build(t, `int[3] b = [1, 2, 3];
int f(int a) { return a * 2; };
for (i = 0; ; i = i + 1) f(i);
while (x) ;`)
	require.Equal(t, 4, list.Len())

	decl, ok := list.Statements[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "int", decl.TypeName())
	size, isArray := decl.ArraySize()
	assert.True(t, isArray)
	assert.Equal(t, int64(3), size)
	require.Len(t, decl.Bindings, 1)
	arr, ok := decl.Bindings[0].Init.(*ast.ArrayLiteral)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)
	assert.Equal(t, int64(1), arr.Elements[0].(*ast.Literal).Value)

	fn, ok := list.Statements[1].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "a", fn.Params[0].Name)
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, bin.Op)

	loop, ok := list.Statements[2].(*ast.For)
	require.True(t, ok)
	assert.Nil(t, loop.Cond)
	assert.Equal(t, 1, loop.Init.Len())
	assert.Equal(t, 1, loop.Update.Len())
	_, ok = loop.Body.(*ast.Call)
	assert.True(t, ok)

	w, ok := list.Statements[3].(*ast.While)
	require.True(t, ok)
	body, ok := w.Body.(*ast.StmtList)
	require.True(t, ok)
	assert.Equal(t, 0, body.Len())
}

func TestBuildPositions(t *testing.T) {
	list := build(t, "int a;\n  a = b + 10;")
	require.Equal(t, 2, list.Len())

	decl := list.Statements[0].(*ast.VarDecl)
	assert.Equal(t, 1, decl.Pos().Line)
	assert.Equal(t, 1, decl.Pos().Column)
	assert.Equal(t, 5, decl.Bindings[0].NamePos.Column)

	assign := list.Statements[1].(*ast.Assign)
	assert.Equal(t, 2, assign.Pos().Line)
	assert.Equal(t, 3, assign.Pos().Column)

	bin := assign.Value.(*ast.BinOp)
	assert.Equal(t, 9, bin.Pos().Column)
	assert.Equal(t, 11, bin.Right.Pos().Column)
	assert.Equal(t, "test.mel", bin.Pos().Filename)
}

func TestBuildLiteralValues(t *testing.T) {
	list := build(t, `a = f(42, 2.5, .5, "line\n", 1e3);`)
	call := list.Statements[0].(*ast.Assign).Value.(*ast.Call)
	require.Len(t, call.Args, 5)

	values := make([]interface{}, len(call.Args))
	for i, a := range call.Args {
		values[i] = a.(*ast.Literal).Value
	}
	assert.Equal(t, []interface{}{int64(42), 2.5, 0.5, "line\n", 1000.0}, values)
}

func TestUnmappedRule(t *testing.T) {
	tree := &grammar.Tree{
		Rule: grammar.RuleStmtList,
		Children: []grammar.Child{
			&grammar.Tree{Rule: "unknown_rule", Children: []grammar.Child{leaf(token.IDENT, "a", nil)}},
		},
	}

	_, err := Build(tree)
	require.Error(t, err)
	var unmapped *UnmappedRuleError
	require.ErrorAs(t, err, &unmapped)
	assert.Equal(t, grammar.Rule("unknown_rule"), unmapped.Rule)
	assert.Contains(t, err.Error(), "unknown_rule")
}

func TestUnmappedToken(t *testing.T) {
	tree := &grammar.Tree{
		Rule:     grammar.RuleIdent,
		Children: []grammar.Child{leaf(token.SEMICOLON, ";", nil)},
	}

	_, err := Build(tree)
	var unmapped *UnmappedRuleError
	require.ErrorAs(t, err, &unmapped)
	assert.Empty(t, unmapped.Rule)
	assert.Equal(t, token.SEMICOLON, unmapped.Token.Type)
	assert.Equal(t, 1, unmapped.Pos.Line)
}

func TestShapeErrors(t *testing.T) {
	ident := &grammar.Tree{Rule: grammar.RuleIdent, Children: []grammar.Child{leaf(token.IDENT, "a", nil)}}
	number := &grammar.Tree{Rule: grammar.RuleLiteral, Children: []grammar.Child{leaf(token.NUMBER, "1", int64(1))}}
	float := &grammar.Tree{Rule: grammar.RuleLiteral, Children: []grammar.Child{leaf(token.NUMBER, "1.5", 1.5)}}

	tests := []struct {
		name string
		tree *grammar.Tree
		rule grammar.Rule
	}{
		{"assign arity", &grammar.Tree{Rule: grammar.RuleAssign, Children: []grammar.Child{ident}}, grammar.RuleAssign},
		{"assign target", &grammar.Tree{Rule: grammar.RuleAssign, Children: []grammar.Child{number, number}}, grammar.RuleAssign},
		{"float index", &grammar.Tree{Rule: grammar.RuleArrayGetElement, Children: []grammar.Child{ident, float}}, grammar.RuleArrayGetElement},
		{"bad operator", &grammar.Tree{Rule: grammar.RuleBinOp, Children: []grammar.Child{number, leaf(token.IDENT, "x", nil), number}}, grammar.RuleBinOp},
		{"root not list", &grammar.Tree{Rule: grammar.RuleReturn, Children: []grammar.Child{number}}, grammar.RuleReturn},
		{"expr in list", &grammar.Tree{Rule: grammar.RuleStmtList, Children: []grammar.Child{number}}, grammar.RuleStmtList},
		{"vars binding", &grammar.Tree{Rule: grammar.RuleVars, Children: []grammar.Child{
			&grammar.Tree{Rule: grammar.RuleType, Children: []grammar.Child{leaf(token.IDENT, "int", nil)}},
			number,
		}}, grammar.RuleVars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.tree)
			var shape *ShapeError
			require.ErrorAs(t, err, &shape)
			assert.Equal(t, tt.rule, shape.Rule)
			assert.Contains(t, err.Error(), string(tt.rule))
		})
	}
}
