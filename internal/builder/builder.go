// Package builder 把规则标签解析树转换为带类型的 AST
package builder

import (
	"fmt"

	"github.com/tangzhangming/mel/internal/ast"
	"github.com/tangzhangming/mel/internal/grammar"
	"github.com/tangzhangming/mel/internal/i18n"
	"github.com/tangzhangming/mel/internal/token"
)

// ============================================================================
// AST 构建器
// ============================================================================
//
// 构建过程自底向上：先转换全部子节点，再把转换结果按位置交给该规则的
// 构造函数（resolver）。每个规则标签在 resolvers 表中都有且只有一个
// 构造函数；没有登记的规则、或不在 passthrough 中的 token 都是硬错误，
// 不会把原始子节点原样传上去。
//
// 构建器是纯函数，不持有任何状态。
//
// ============================================================================

// UnmappedRuleError 规则标签（或 token 类型）没有对应的 AST 构造器
type UnmappedRuleError struct {
	Rule  grammar.Rule   // 未登记的规则，token 未登记时为空
	Token token.Token    // 未登记的 token，仅当 Rule 为空时有效
	Pos   token.Position // 相关位置（可能无效）
}

func (e *UnmappedRuleError) Error() string {
	if e.Rule != "" {
		return i18n.T(i18n.ErrUnmappedRule, e.Rule)
	}
	return fmt.Sprintf("%s: %s", e.Pos, i18n.T(i18n.ErrUnmappedToken, e.Token.Type))
}

// ShapeError 规则的子节点形状与构造函数的期望不一致
type ShapeError struct {
	Rule   grammar.Rule
	Detail string
}

func (e *ShapeError) Error() string {
	return i18n.T(i18n.ErrShapeMismatch, e.Rule, e.Detail)
}

// resolver 接收已转换的子节点，返回该规则对应的 AST 值
type resolver func(args []any) (any, error)

// passthrough 作为原样值向上传递的 token 类型
var passthrough = map[token.TokenType]bool{
	token.NUMBER: true,
	token.STRING: true,
	token.IDENT:  true,

	token.PLUS:    true,
	token.MINUS:   true,
	token.STAR:    true,
	token.SLASH:   true,
	token.AND:     true,
	token.OR:      true,
	token.BIT_AND: true,
	token.BIT_OR:  true,
	token.GE:      true,
	token.LE:      true,
	token.NE:      true,
	token.EQ:      true,
	token.GT:      true,
	token.LT:      true,
}

var resolvers map[grammar.Rule]resolver

func init() {
	resolvers = map[grammar.Rule]resolver{
		grammar.RuleLiteral:         resolveLiteral,
		grammar.RuleIdent:           resolveIdent,
		grammar.RuleType:            resolveType,
		grammar.RuleCall:            resolveCall,
		grammar.RuleArr:             resolveArr,
		grammar.RuleArrayGetElement: resolveArrayGetElement,
		grammar.RuleBinOp:           resolveBinOp,
		grammar.RuleAssign:          resolveAssign,
		grammar.RuleArrayUpdate:     resolveArrayUpdate,
		grammar.RuleArraySetElement: resolveArraySetElement,
		grammar.RuleVars:            resolveVars,
		grammar.RuleParam:           resolveParam,
		grammar.RuleFuncVars:        resolveFuncVars,
		grammar.RuleFunc:            resolveFunc,
		grammar.RuleIf:              resolveIf,
		grammar.RuleFor:             resolveFor,
		grammar.RuleWhile:           resolveWhile,
		grammar.RuleReturn:          resolveReturn,
		grammar.RuleStmtList:        resolveStmtList,
	}

	// 语法与构建器不同步属于编程错误，启动时即暴露
	for _, r := range grammar.Rules() {
		if _, ok := resolvers[r]; !ok {
			panic("builder: no resolver for grammar rule " + string(r))
		}
	}
	for _, t := range grammar.Terminals() {
		if !passthrough[t] {
			panic("builder: grammar terminal " + t.String() + " is not passed through")
		}
	}
}

// Build 把整棵解析树转换为 AST，根节点必须是 stmt_list
func Build(tree *grammar.Tree) (*ast.StmtList, error) {
	v, err := transform(tree)
	if err != nil {
		return nil, err
	}
	list, ok := v.(*ast.StmtList)
	if !ok {
		return nil, &ShapeError{Rule: tree.Rule, Detail: fmt.Sprintf("root must be a statement list, got %T", v)}
	}
	return list, nil
}

// transform 转换任意子树，返回对应的 AST 值
//
// 返回值可能是 ast.Node，也可能是 *ast.Type、*ast.Param、[]*ast.Param
// 这类只出现在父节点内部的中间值。
func transform(c grammar.Child) (any, error) {
	switch c := c.(type) {
	case grammar.Leaf:
		if !passthrough[c.Type] {
			return nil, &UnmappedRuleError{Token: c.Token, Pos: c.Pos}
		}
		return c.Token, nil

	case *grammar.Tree:
		// 子节点先转换：每个构造函数拿到的都是已转换的值
		args := make([]any, len(c.Children))
		for i, child := range c.Children {
			v, err := transform(child)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}

		resolve, ok := resolvers[c.Rule]
		if !ok {
			return nil, &UnmappedRuleError{Rule: c.Rule}
		}
		return resolve(args)
	}

	return nil, fmt.Errorf("builder: unexpected parse tree child %T", c)
}
