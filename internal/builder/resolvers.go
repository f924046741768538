package builder

import (
	"fmt"

	"github.com/tangzhangming/mel/internal/ast"
	"github.com/tangzhangming/mel/internal/grammar"
	"github.com/tangzhangming/mel/internal/token"
)

// ============================================================================
// 参数检查
// ============================================================================

func arity(rule grammar.Rule, args []any, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return &ShapeError{Rule: rule, Detail: fmt.Sprintf("unexpected child count %d", len(args))}
	}
	return nil
}

// argAs 取第 i 个已转换子节点并断言为 T
func argAs[T any](rule grammar.Rule, args []any, i int) (T, error) {
	v, ok := args[i].(T)
	if !ok {
		var zero T
		return zero, &ShapeError{
			Rule:   rule,
			Detail: fmt.Sprintf("child %d: expected %T, got %T", i, zero, args[i]),
		}
	}
	return v, nil
}

// ============================================================================
// 叶子规则：单个 token 子节点，取字面值并打上 token 位置
// ============================================================================

func resolveLiteral(args []any) (any, error) {
	if err := arity(grammar.RuleLiteral, args, 1, 1); err != nil {
		return nil, err
	}
	tok, err := argAs[token.Token](grammar.RuleLiteral, args, 0)
	if err != nil {
		return nil, err
	}
	return ast.NewLiteral(tok), nil
}

func resolveIdent(args []any) (any, error) {
	if err := arity(grammar.RuleIdent, args, 1, 1); err != nil {
		return nil, err
	}
	tok, err := argAs[token.Token](grammar.RuleIdent, args, 0)
	if err != nil {
		return nil, err
	}
	return ast.NewIdent(tok), nil
}

func resolveType(args []any) (any, error) {
	if err := arity(grammar.RuleType, args, 1, 2); err != nil {
		return nil, err
	}
	tok, err := argAs[token.Token](grammar.RuleType, args, 0)
	if err != nil {
		return nil, err
	}

	var size *ast.Literal
	if len(args) == 2 {
		if size, err = argAs[*ast.Literal](grammar.RuleType, args, 1); err != nil {
			return nil, err
		}
		if _, ok := size.Value.(int64); !ok {
			return nil, &ShapeError{Rule: grammar.RuleType, Detail: "array size must be an integer literal"}
		}
	}
	return ast.NewType(ast.NewIdent(tok), size), nil
}

// ============================================================================
// 表达式
// ============================================================================

// resolveBinOp 接收 (左操作数, 运算符 token, 右操作数)，位置取运算符
func resolveBinOp(args []any) (any, error) {
	if err := arity(grammar.RuleBinOp, args, 3, 3); err != nil {
		return nil, err
	}
	left, err := argAs[ast.Expression](grammar.RuleBinOp, args, 0)
	if err != nil {
		return nil, err
	}
	op, err := argAs[token.Token](grammar.RuleBinOp, args, 1)
	if err != nil {
		return nil, err
	}
	right, err := argAs[ast.Expression](grammar.RuleBinOp, args, 2)
	if err != nil {
		return nil, err
	}
	if _, ok := ast.LookupOperator(op.Literal); !ok {
		return nil, &ShapeError{Rule: grammar.RuleBinOp, Detail: "unknown operator " + op.Literal}
	}
	return ast.NewBinOp(left, op, right), nil
}

func resolveCall(args []any) (any, error) {
	if err := arity(grammar.RuleCall, args, 1, -1); err != nil {
		return nil, err
	}
	name, err := argAs[*ast.Ident](grammar.RuleCall, args, 0)
	if err != nil {
		return nil, err
	}
	callArgs, err := expressions(grammar.RuleCall, args, 1)
	if err != nil {
		return nil, err
	}
	return ast.NewCall(name, callArgs), nil
}

func resolveArr(args []any) (any, error) {
	if err := arity(grammar.RuleArr, args, 1, -1); err != nil {
		return nil, err
	}
	elems, err := expressions(grammar.RuleArr, args, 0)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Elements: elems}, nil
}

func resolveArrayGetElement(args []any) (any, error) {
	if err := arity(grammar.RuleArrayGetElement, args, 2, 2); err != nil {
		return nil, err
	}
	name, err := argAs[*ast.Ident](grammar.RuleArrayGetElement, args, 0)
	if err != nil {
		return nil, err
	}
	index, err := argAs[*ast.Literal](grammar.RuleArrayGetElement, args, 1)
	if err != nil {
		return nil, err
	}
	if _, ok := index.Value.(int64); !ok {
		return nil, &ShapeError{Rule: grammar.RuleArrayGetElement, Detail: "index must be an integer literal"}
	}
	return ast.NewArrayGetElement(name, index), nil
}

func expressions(rule grammar.Rule, args []any, from int) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(args)-from)
	for i := from; i < len(args); i++ {
		e, err := argAs[ast.Expression](rule, args, i)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ============================================================================
// 简单语句
// ============================================================================

func resolveAssign(args []any) (any, error) {
	if err := arity(grammar.RuleAssign, args, 2, 2); err != nil {
		return nil, err
	}
	name, err := argAs[*ast.Ident](grammar.RuleAssign, args, 0)
	if err != nil {
		return nil, err
	}
	value, err := argAs[ast.Expression](grammar.RuleAssign, args, 1)
	if err != nil {
		return nil, err
	}
	return ast.NewAssign(name, value), nil
}

func resolveArrayUpdate(args []any) (any, error) {
	if err := arity(grammar.RuleArrayUpdate, args, 2, 2); err != nil {
		return nil, err
	}
	name, err := argAs[*ast.Ident](grammar.RuleArrayUpdate, args, 0)
	if err != nil {
		return nil, err
	}
	value, err := argAs[*ast.ArrayLiteral](grammar.RuleArrayUpdate, args, 1)
	if err != nil {
		return nil, err
	}
	return ast.NewArrayUpdate(name, value), nil
}

func resolveArraySetElement(args []any) (any, error) {
	if err := arity(grammar.RuleArraySetElement, args, 2, 2); err != nil {
		return nil, err
	}
	target, err := argAs[*ast.ArrayGetElement](grammar.RuleArraySetElement, args, 0)
	if err != nil {
		return nil, err
	}
	value, err := argAs[ast.Expression](grammar.RuleArraySetElement, args, 1)
	if err != nil {
		return nil, err
	}
	return ast.NewArraySetElement(target, value), nil
}

// ============================================================================
// 声明
// ============================================================================

// resolveVars 接收 (类型, 绑定...)，绑定是 Ident（无初值）或 Assign（有初值）
func resolveVars(args []any) (any, error) {
	if err := arity(grammar.RuleVars, args, 2, -1); err != nil {
		return nil, err
	}
	typ, err := argAs[*ast.Type](grammar.RuleVars, args, 0)
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDecl{Type: typ, Bindings: make([]*ast.Binding, 0, len(args)-1)}
	for i, a := range args[1:] {
		switch b := a.(type) {
		case *ast.Ident:
			decl.Bindings = append(decl.Bindings, &ast.Binding{Name: b.Name, NamePos: b.NamePos})
		case *ast.Assign:
			decl.Bindings = append(decl.Bindings, &ast.Binding{Name: b.Name, NamePos: b.NamePos, Init: b.Value})
		default:
			return nil, &ShapeError{Rule: grammar.RuleVars, Detail: fmt.Sprintf("child %d: unexpected binding %T", i+1, a)}
		}
	}
	return decl, nil
}

func resolveParam(args []any) (any, error) {
	if err := arity(grammar.RuleParam, args, 2, 2); err != nil {
		return nil, err
	}
	typ, err := argAs[*ast.Type](grammar.RuleParam, args, 0)
	if err != nil {
		return nil, err
	}
	name, err := argAs[*ast.Ident](grammar.RuleParam, args, 1)
	if err != nil {
		return nil, err
	}
	return ast.NewParam(typ, name), nil
}

func resolveFuncVars(args []any) (any, error) {
	params := make([]*ast.Param, 0, len(args))
	for i := range args {
		p, err := argAs[*ast.Param](grammar.RuleFuncVars, args, i)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func resolveFunc(args []any) (any, error) {
	if err := arity(grammar.RuleFunc, args, 3, 4); err != nil {
		return nil, err
	}
	typ, err := argAs[*ast.Type](grammar.RuleFunc, args, 0)
	if err != nil {
		return nil, err
	}
	name, err := argAs[*ast.Ident](grammar.RuleFunc, args, 1)
	if err != nil {
		return nil, err
	}
	params, err := argAs[[]*ast.Param](grammar.RuleFunc, args, 2)
	if err != nil {
		return nil, err
	}

	var body *ast.StmtList
	if len(args) == 4 {
		if body, err = argAs[*ast.StmtList](grammar.RuleFunc, args, 3); err != nil {
			return nil, err
		}
	}
	return ast.NewFuncDecl(typ, name, params, body), nil
}

// ============================================================================
// 控制流
// ============================================================================

func resolveIf(args []any) (any, error) {
	if err := arity(grammar.RuleIf, args, 2, 3); err != nil {
		return nil, err
	}
	cond, err := argAs[ast.Expression](grammar.RuleIf, args, 0)
	if err != nil {
		return nil, err
	}
	then, err := argAs[ast.Statement](grammar.RuleIf, args, 1)
	if err != nil {
		return nil, err
	}

	node := &ast.If{Cond: cond, Then: then}
	if len(args) == 3 {
		if node.Else, err = argAs[ast.Statement](grammar.RuleIf, args, 2); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// resolveFor 接收 (初始化, 条件, 更新, 循环体)
//
// 初始化可能是单个变量声明，统一包装成语句列表；省略的条件在解析树中
// 表现为空的 stmt_list，转换为 nil。
func resolveFor(args []any) (any, error) {
	if err := arity(grammar.RuleFor, args, 4, 4); err != nil {
		return nil, err
	}
	init, err := argAs[ast.Statement](grammar.RuleFor, args, 0)
	if err != nil {
		return nil, err
	}
	cond, err := optionalCond(grammar.RuleFor, args, 1)
	if err != nil {
		return nil, err
	}
	update, err := argAs[ast.Statement](grammar.RuleFor, args, 2)
	if err != nil {
		return nil, err
	}
	body, err := argAs[ast.Statement](grammar.RuleFor, args, 3)
	if err != nil {
		return nil, err
	}
	return &ast.For{
		Init:   ast.AsStmtList(init),
		Cond:   cond,
		Update: ast.AsStmtList(update),
		Body:   body,
	}, nil
}

func resolveWhile(args []any) (any, error) {
	if err := arity(grammar.RuleWhile, args, 2, 2); err != nil {
		return nil, err
	}
	cond, err := optionalCond(grammar.RuleWhile, args, 0)
	if err != nil {
		return nil, err
	}
	body, err := argAs[ast.Statement](grammar.RuleWhile, args, 1)
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

// optionalCond 空 stmt_list 表示省略的条件
func optionalCond(rule grammar.Rule, args []any, i int) (ast.Expression, error) {
	if list, ok := args[i].(*ast.StmtList); ok {
		if list.Len() != 0 {
			return nil, &ShapeError{Rule: rule, Detail: "condition must be an expression"}
		}
		return nil, nil
	}
	return argAs[ast.Expression](rule, args, i)
}

func resolveReturn(args []any) (any, error) {
	if err := arity(grammar.RuleReturn, args, 1, 1); err != nil {
		return nil, err
	}
	value, err := argAs[ast.Expression](grammar.RuleReturn, args, 0)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: value}, nil
}

// resolveStmtList 把嵌套的语句列表和单条语句按顺序拍平成一个列表
func resolveStmtList(args []any) (any, error) {
	list := &ast.StmtList{Statements: make([]ast.Statement, 0, len(args))}
	for i, a := range args {
		switch s := a.(type) {
		case *ast.StmtList:
			list.Statements = append(list.Statements, s.Statements...)
		case ast.Statement:
			list.Statements = append(list.Statements, s)
		default:
			return nil, &ShapeError{Rule: grammar.RuleStmtList, Detail: fmt.Sprintf("child %d: %T is not a statement", i, a)}
		}
	}
	return list, nil
}
