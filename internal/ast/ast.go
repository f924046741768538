package ast

import (
	"strconv"
	"strings"

	"github.com/tangzhangming/mel/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置（可能无效）
	String() string      // 返回节点的字符串表示（用于调试和比较结构）
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// ============================================================================
// 类型描述
// ============================================================================

// Type 类型描述：基础类型名 + 可选的固定数组长度 (int, int[3])
type Type struct {
	Name    string
	NamePos token.Position
	Array   bool  // 是否为定长数组类型
	Len     int64 // 数组长度，仅当 Array 为 true 时有效
}

func (t *Type) Pos() token.Position { return t.NamePos }
func (t *Type) String() string {
	if t.Array {
		return t.Name + "[" + strconv.FormatInt(t.Len, 10) + "]"
	}
	return t.Name
}

// ArraySize 返回数组长度，非数组类型返回 false
func (t *Type) ArraySize() (int64, bool) {
	return t.Len, t.Array
}

// ============================================================================
// 表达式节点
// ============================================================================

// Literal 数字或字符串字面量
//
// Value 的动态类型为 int64、float64 或 string。
type Literal struct {
	Value    interface{}
	Raw      string // 源码中的原始文本
	ValuePos token.Position
}

func (e *Literal) Pos() token.Position { return e.ValuePos }
func (e *Literal) String() string {
	if s, ok := e.Value.(string); ok {
		return strconv.Quote(s)
	}
	return e.Raw
}
func (e *Literal) exprNode() {}

// Ident 标识符引用
type Ident struct {
	Name    string
	NamePos token.Position
}

func (e *Ident) Pos() token.Position { return e.NamePos }
func (e *Ident) String() string      { return e.Name }
func (e *Ident) exprNode()           {}

// Operator 二元运算符
type Operator string

const (
	OpAdd    Operator = "+"
	OpSub    Operator = "-"
	OpMul    Operator = "*"
	OpDiv    Operator = "/"
	OpAnd    Operator = "&&"
	OpOr     Operator = "||"
	OpBitAnd Operator = "&"
	OpBitOr  Operator = "|"
	OpGe     Operator = ">="
	OpLe     Operator = "<="
	OpNe     Operator = "!="
	OpEq     Operator = "=="
	OpGt     Operator = ">"
	OpLt     Operator = "<"
)

var operators = map[string]Operator{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv,
	"&&": OpAnd, "||": OpOr, "&": OpBitAnd, "|": OpBitOr,
	">=": OpGe, "<=": OpLe, "!=": OpNe, "==": OpEq, ">": OpGt, "<": OpLt,
}

// LookupOperator 根据符号查找运算符
func LookupOperator(symbol string) (Operator, bool) {
	op, ok := operators[symbol]
	return op, ok
}

// BinOp 二元运算 (a + b, a == b, etc.)，位置为运算符所在位置
type BinOp struct {
	Op    Operator
	OpPos token.Position
	Left  Expression
	Right Expression
}

func (e *BinOp) Pos() token.Position { return e.OpPos }
func (e *BinOp) String() string {
	return "(" + e.Left.String() + " " + string(e.Op) + " " + e.Right.String() + ")"
}
func (e *BinOp) exprNode() {}

// Call 函数调用，既可作为表达式也可作为语句
type Call struct {
	Name    string
	NamePos token.Position
	Args    []Expression
}

func (e *Call) Pos() token.Position { return e.NamePos }
func (e *Call) String() string {
	return e.Name + "(" + joinExprs(e.Args) + ")"
}
func (e *Call) exprNode() {}
func (e *Call) stmtNode() {}

// ArrayLiteral 数组字面量 [1, 2, 3]
type ArrayLiteral struct {
	Elements []Expression
}

func (e *ArrayLiteral) Pos() token.Position {
	if len(e.Elements) > 0 {
		return e.Elements[0].Pos()
	}
	return token.Position{}
}
func (e *ArrayLiteral) String() string { return "[" + joinExprs(e.Elements) + "]" }
func (e *ArrayLiteral) exprNode()      {}

// ArrayGetElement 数组下标访问 b[0]，下标只能是整数字面量
type ArrayGetElement struct {
	Name    string
	NamePos token.Position
	Index   int64
}

func (e *ArrayGetElement) Pos() token.Position { return e.NamePos }
func (e *ArrayGetElement) String() string {
	return e.Name + "[" + strconv.FormatInt(e.Index, 10) + "]"
}
func (e *ArrayGetElement) exprNode() {}

// ============================================================================
// 语句节点
// ============================================================================

// ArraySetElement 数组元素赋值 b[0] = expr
type ArraySetElement struct {
	Name    string
	NamePos token.Position
	Index   int64
	Value   Expression
}

func (s *ArraySetElement) Pos() token.Position { return s.NamePos }
func (s *ArraySetElement) String() string {
	return s.Name + "[" + strconv.FormatInt(s.Index, 10) + "] = " + s.Value.String()
}
func (s *ArraySetElement) stmtNode() {}

// Assign 赋值 a = expr
type Assign struct {
	Name    string
	NamePos token.Position
	Value   Expression
}

func (s *Assign) Pos() token.Position { return s.NamePos }
func (s *Assign) String() string      { return s.Name + " = " + s.Value.String() }
func (s *Assign) stmtNode()           {}

// ArrayUpdate 整体替换数组 b = [1, 2, 3]
type ArrayUpdate struct {
	Name    string
	NamePos token.Position
	Value   *ArrayLiteral
}

func (s *ArrayUpdate) Pos() token.Position { return s.NamePos }
func (s *ArrayUpdate) String() string      { return s.Name + " = " + s.Value.String() }
func (s *ArrayUpdate) stmtNode()           {}

// Binding 变量声明中的单个绑定，Init 可为 nil
type Binding struct {
	Name    string
	NamePos token.Position
	Init    Expression
}

func (b *Binding) String() string {
	if b.Init != nil {
		return b.Name + " = " + b.Init.String()
	}
	return b.Name
}

// VarDecl 变量声明 int a, b = 1
type VarDecl struct {
	Type     *Type
	Bindings []*Binding
}

func (s *VarDecl) Pos() token.Position { return s.Type.Pos() }
func (s *VarDecl) String() string {
	parts := make([]string, len(s.Bindings))
	for i, b := range s.Bindings {
		parts[i] = b.String()
	}
	return s.Type.String() + " " + strings.Join(parts, ", ")
}
func (s *VarDecl) stmtNode() {}

// TypeName 返回声明的基础类型名
func (s *VarDecl) TypeName() string { return s.Type.Name }

// ArraySize 返回声明的数组长度，非数组声明返回 false
func (s *VarDecl) ArraySize() (int64, bool) { return s.Type.ArraySize() }

// If 条件语句，Else 可为 nil
type If struct {
	Cond Expression
	Then Statement
	Else Statement
}

func (s *If) Pos() token.Position { return s.Cond.Pos() }
func (s *If) String() string {
	out := "if (" + s.Cond.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}
func (s *If) stmtNode() {}

// For 循环，Cond 为 nil 表示无条件
type For struct {
	Init   *StmtList
	Cond   Expression
	Update *StmtList
	Body   Statement
}

func (s *For) Pos() token.Position {
	if s.Cond != nil {
		return s.Cond.Pos()
	}
	return s.Init.Pos()
}
func (s *For) String() string {
	cond := ""
	if s.Cond != nil {
		cond = s.Cond.String()
	}
	return "for (" + s.Init.inline() + "; " + cond + "; " + s.Update.inline() + ") " + s.Body.String()
}
func (s *For) stmtNode() {}

// While 循环，Cond 为 nil 表示无条件
type While struct {
	Cond Expression
	Body Statement
}

func (s *While) Pos() token.Position {
	if s.Cond != nil {
		return s.Cond.Pos()
	}
	return s.Body.Pos()
}
func (s *While) String() string {
	cond := ""
	if s.Cond != nil {
		cond = s.Cond.String()
	}
	return "while (" + cond + ") " + s.Body.String()
}
func (s *While) stmtNode() {}

// Return 返回语句
type Return struct {
	Value Expression
}

func (s *Return) Pos() token.Position { return s.Value.Pos() }
func (s *Return) String() string      { return "return " + s.Value.String() }
func (s *Return) stmtNode()           {}

// Param 函数参数
type Param struct {
	Type    *Type
	Name    string
	NamePos token.Position
}

func (p *Param) String() string { return p.Type.String() + " " + p.Name }

// FuncDecl 函数声明
type FuncDecl struct {
	ReturnType *Type
	Name       string
	NamePos    token.Position
	Params     []*Param
	Body       *StmtList
}

func (s *FuncDecl) Pos() token.Position { return s.NamePos }
func (s *FuncDecl) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	return s.ReturnType.String() + " " + s.Name + "(" + strings.Join(params, ", ") + ") " + s.Body.String()
}
func (s *FuncDecl) stmtNode() {}

// StmtList 语句列表（代码块或整个程序），总是扁平的
type StmtList struct {
	Statements []Statement
}

func (s *StmtList) Pos() token.Position {
	for _, stmt := range s.Statements {
		if pos := stmt.Pos(); pos.IsValid() {
			return pos
		}
	}
	return token.Position{}
}
func (s *StmtList) String() string {
	if len(s.Statements) == 0 {
		return "{}"
	}
	parts := make([]string, len(s.Statements))
	for i, stmt := range s.Statements {
		parts[i] = stmt.String() + ";"
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
func (s *StmtList) stmtNode() {}

// Len 返回语句数量
func (s *StmtList) Len() int { return len(s.Statements) }

// inline 返回 for 头部中使用的逗号分隔形式
func (s *StmtList) inline() string {
	parts := make([]string, len(s.Statements))
	for i, stmt := range s.Statements {
		parts[i] = stmt.String()
	}
	return strings.Join(parts, ", ")
}

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
