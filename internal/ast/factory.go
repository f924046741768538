package ast

import (
	"github.com/tangzhangming/mel/internal/token"
)

// ============================================================================
// AST 节点工厂函数
// ============================================================================
//
// 从 token 构造叶子节点时统一在这里完成取值和打位置，AST 构建器只负责
// 把已转换好的子节点按形状组装起来。
//
// ============================================================================

// NewLiteral 从 NUMBER 或 STRING token 创建字面量节点
func NewLiteral(tok token.Token) *Literal {
	value := tok.Value
	if value == nil {
		value = tok.Literal
	}
	return &Literal{
		Value:    value,
		Raw:      tok.Literal,
		ValuePos: tok.Pos,
	}
}

// NewIdent 从 IDENT token 创建标识符节点
func NewIdent(tok token.Token) *Ident {
	return &Ident{
		Name:    tok.Literal,
		NamePos: tok.Pos,
	}
}

// NewType 创建类型描述，size 为 nil 表示非数组类型
func NewType(name *Ident, size *Literal) *Type {
	t := &Type{
		Name:    name.Name,
		NamePos: name.NamePos,
	}
	if size != nil {
		t.Array = true
		t.Len, _ = size.Value.(int64)
	}
	return t
}

// NewBinOp 创建二元运算节点，位置取运算符 token 的位置
func NewBinOp(left Expression, opTok token.Token, right Expression) *BinOp {
	op, _ := LookupOperator(opTok.Literal)
	return &BinOp{
		Op:    op,
		OpPos: opTok.Pos,
		Left:  left,
		Right: right,
	}
}

// NewCall 创建函数调用节点
func NewCall(name *Ident, args []Expression) *Call {
	return &Call{
		Name:    name.Name,
		NamePos: name.NamePos,
		Args:    args,
	}
}

// NewArrayGetElement 创建数组下标访问节点
func NewArrayGetElement(name *Ident, index *Literal) *ArrayGetElement {
	idx, _ := index.Value.(int64)
	return &ArrayGetElement{
		Name:    name.Name,
		NamePos: name.NamePos,
		Index:   idx,
	}
}

// NewArraySetElement 创建数组元素赋值节点
func NewArraySetElement(target *ArrayGetElement, value Expression) *ArraySetElement {
	return &ArraySetElement{
		Name:    target.Name,
		NamePos: target.NamePos,
		Index:   target.Index,
		Value:   value,
	}
}

// NewAssign 创建赋值节点
func NewAssign(name *Ident, value Expression) *Assign {
	return &Assign{
		Name:    name.Name,
		NamePos: name.NamePos,
		Value:   value,
	}
}

// NewArrayUpdate 创建数组整体替换节点
func NewArrayUpdate(name *Ident, value *ArrayLiteral) *ArrayUpdate {
	return &ArrayUpdate{
		Name:    name.Name,
		NamePos: name.NamePos,
		Value:   value,
	}
}

// NewParam 创建函数参数
func NewParam(typ *Type, name *Ident) *Param {
	return &Param{
		Type:    typ,
		Name:    name.Name,
		NamePos: name.NamePos,
	}
}

// NewFuncDecl 创建函数声明节点，body 为 nil 时使用空语句列表
func NewFuncDecl(returnType *Type, name *Ident, params []*Param, body *StmtList) *FuncDecl {
	if body == nil {
		body = &StmtList{}
	}
	return &FuncDecl{
		ReturnType: returnType,
		Name:       name.Name,
		NamePos:    name.NamePos,
		Params:     params,
		Body:       body,
	}
}

// AsStmtList 把单条语句包装成语句列表；本身已是列表则原样返回
func AsStmtList(stmt Statement) *StmtList {
	if list, ok := stmt.(*StmtList); ok {
		return list
	}
	return &StmtList{Statements: []Statement{stmt}}
}
