package grammar

import (
	"strings"

	"github.com/tangzhangming/mel/internal/token"
)

// ============================================================================
// 解析树
// ============================================================================
//
// 解析树是语法分析的直接产物：每个内部节点带一个规则标签，子节点要么是
// 嵌套的 *Tree，要么是保留下来的 token（Leaf）。括号、逗号、分号和关键字
// 这类标点在解析时直接丢弃，只保留 Terminals() 列出的 token。
//
// 解析树是临时的，AST 构建完成后即被丢弃。
//
// ============================================================================

// Rule 规则标签，标识产生该节点的语法规则
type Rule string

const (
	RuleLiteral         Rule = "literal"
	RuleIdent           Rule = "ident"
	RuleType            Rule = "type"
	RuleCall            Rule = "call"
	RuleArr             Rule = "arr"
	RuleArrayGetElement Rule = "array_get_element"
	RuleBinOp           Rule = "bin_op"
	RuleAssign          Rule = "assign"
	RuleArrayUpdate     Rule = "array_update"
	RuleArraySetElement Rule = "array_set_element"
	RuleVars            Rule = "vars"
	RuleParam           Rule = "param"
	RuleFuncVars        Rule = "func_vars"
	RuleFunc            Rule = "func"
	RuleIf              Rule = "if"
	RuleFor             Rule = "for"
	RuleWhile           Rule = "while"
	RuleReturn          Rule = "return"
	RuleStmtList        Rule = "stmt_list"
)

var allRules = []Rule{
	RuleLiteral, RuleIdent, RuleType, RuleCall, RuleArr, RuleArrayGetElement,
	RuleBinOp, RuleAssign, RuleArrayUpdate, RuleArraySetElement, RuleVars,
	RuleParam, RuleFuncVars, RuleFunc, RuleIf, RuleFor, RuleWhile, RuleReturn,
	RuleStmtList,
}

// Rules 返回语法可能产生的全部规则标签
func Rules() []Rule {
	out := make([]Rule, len(allRules))
	copy(out, allRules)
	return out
}

// Terminals 返回会作为 Leaf 保留在解析树中的 token 类型
func Terminals() []token.TokenType {
	return []token.TokenType{
		token.NUMBER, token.STRING, token.IDENT,
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.AND, token.OR, token.BIT_AND, token.BIT_OR,
		token.GE, token.LE, token.NE, token.EQ, token.GT, token.LT,
	}
}

// Child 是解析树节点的子元素：*Tree 或 Leaf
type Child interface {
	child()
}

// Leaf 解析树中保留的 token
type Leaf struct {
	token.Token
}

func (Leaf) child() {}

// Tree 带规则标签的解析树节点
type Tree struct {
	Rule     Rule
	Children []Child
}

func (*Tree) child() {}

func newTree(rule Rule, children ...Child) *Tree {
	if children == nil {
		children = []Child{}
	}
	return &Tree{Rule: rule, Children: children}
}

// Pretty 返回缩进格式的解析树（用于调试）
func (t *Tree) Pretty() string {
	var sb strings.Builder
	t.pretty(&sb, 0)
	return sb.String()
}

func (t *Tree) pretty(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)

	// 单个 token 子节点时写在同一行，与常见的解析树打印格式一致
	if len(t.Children) == 1 {
		if leaf, ok := t.Children[0].(Leaf); ok {
			sb.WriteString(indent + string(t.Rule) + "\t" + leaf.Literal + "\n")
			return
		}
	}

	sb.WriteString(indent + string(t.Rule) + "\n")
	for _, c := range t.Children {
		switch c := c.(type) {
		case *Tree:
			c.pretty(sb, depth+1)
		case Leaf:
			sb.WriteString(indent + "  " + c.Literal + "\n")
		}
	}
}
