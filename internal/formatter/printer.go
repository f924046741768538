package formatter

import (
	"strconv"
	"strings"

	"github.com/tangzhangming/mel/internal/ast"
)

// precedence 二元运算符优先级，数值越大结合越紧
var precedence = map[ast.Operator]int{
	ast.OpOr: 1, ast.OpBitOr: 1,
	ast.OpAnd: 2, ast.OpBitAnd: 2,
	ast.OpEq: 3, ast.OpNe: 3,
	ast.OpGt: 4, ast.OpLt: 4, ast.OpGe: 4, ast.OpLe: 4,
	ast.OpAdd: 5, ast.OpSub: 5,
	ast.OpMul: 6, ast.OpDiv: 6,
}

// Printer AST 打印器
type Printer struct {
	options *Options
	buf     strings.Builder
	indent  int
}

// NewPrinter 创建打印器
func NewPrinter(options *Options) *Printer {
	return &Printer{options: options}
}

// Print 打印 AST 并返回格式化的代码，非空结果以换行结尾
func (p *Printer) Print(prog *ast.StmtList) string {
	p.buf.Reset()
	p.indent = 0
	p.printStatements(prog.Statements)
	return p.buf.String()
}

// printStatements 打印语句序列，函数声明前后空行
func (p *Printer) printStatements(stmts []ast.Statement) {
	for i, stmt := range stmts {
		_, isFunc := stmt.(*ast.FuncDecl)
		if p.options.BlankLineFuncs && i > 0 {
			_, prevFunc := stmts[i-1].(*ast.FuncDecl)
			if isFunc || prevFunc {
				p.writeln()
			}
		}
		p.printStatement(stmt)
	}
}

// 辅助方法

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writeln(s ...string) {
	for _, str := range s {
		p.buf.WriteString(str)
	}
	p.buf.WriteString("\n")
}

func (p *Printer) writeIndent() {
	p.buf.WriteString(strings.Repeat(p.options.IndentString(), p.indent))
}

func (p *Printer) writeOperator(op string) {
	if p.options.SpaceAroundOps {
		p.write(" " + op + " ")
		return
	}
	p.write(op)
}

// printBlock 打印代码块，K&R 风格：开括号前一个空格，不换行；结尾不换行
func (p *Printer) printBlock(block *ast.StmtList) {
	if len(block.Statements) == 0 {
		p.write(" {}")
		return
	}
	p.writeln(" {")
	p.indent++
	p.printStatements(block.Statements)
	p.indent--
	p.writeIndent()
	p.write("}")
}

// printBody 打印 if/for/while 的分支体
//
// 代码块写在同一行，返回 true 且不换行；单条语句另起一行缩进，返回 false。
func (p *Printer) printBody(stmt ast.Statement) bool {
	if block, ok := stmt.(*ast.StmtList); ok {
		p.printBlock(block)
		return true
	}
	p.writeln()
	p.indent++
	p.printStatement(stmt)
	p.indent--
	return false
}

// ============================================================================
// 语句打印
// ============================================================================

func (p *Printer) printStatement(stmt ast.Statement) {
	p.writeIndent()

	switch s := stmt.(type) {
	case *ast.If:
		p.printIf(s)

	case *ast.For:
		p.write("for (")
		p.printInlineList(s.Init)
		p.write(";")
		if s.Cond != nil {
			p.write(" ")
			p.printExpression(s.Cond, 0)
		}
		p.write(";")
		if s.Update != nil && len(s.Update.Statements) > 0 {
			p.write(" ")
			p.printInlineList(s.Update)
		}
		p.write(")")
		if p.printBody(s.Body) {
			p.writeln()
		}

	case *ast.While:
		p.write("while (")
		if s.Cond != nil {
			p.printExpression(s.Cond, 0)
		}
		p.write(")")
		if p.printBody(s.Body) {
			p.writeln()
		}

	case *ast.FuncDecl:
		p.write(s.ReturnType.String() + " " + s.Name + "(")
		for i, param := range s.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.String())
		}
		p.write(")")
		p.printBlock(s.Body)
		p.writeln(";")

	case *ast.StmtList:
		p.write("{")
		p.indent++
		if len(s.Statements) > 0 {
			p.writeln()
			p.printStatements(s.Statements)
			p.indent--
			p.writeIndent()
		} else {
			p.indent--
		}
		p.writeln("}")

	default:
		p.printStatementInline(stmt)
		p.writeln(";")
	}
}

// printIf 打印条件语句，else if 连写
func (p *Printer) printIf(s *ast.If) {
	p.write("if (")
	p.printExpression(s.Cond, 0)
	p.write(")")
	block := p.printBody(s.Then)

	if s.Else == nil {
		if block {
			p.writeln()
		}
		return
	}

	if block {
		p.write(" else")
	} else {
		p.writeIndent()
		p.write("else")
	}

	if elif, ok := s.Else.(*ast.If); ok {
		p.write(" ")
		p.printIf(elif)
		return
	}
	if p.printBody(s.Else) {
		p.writeln()
	}
}

// printStatementInline 打印不带结尾分号的简单语句
func (p *Printer) printStatementInline(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Assign:
		p.write(s.Name)
		p.writeOperator("=")
		p.printExpression(s.Value, 0)
	case *ast.ArrayUpdate:
		p.write(s.Name)
		p.writeOperator("=")
		p.printExpression(s.Value, 0)
	case *ast.ArraySetElement:
		p.write(s.Name + "[" + formatIndex(s.Index) + "]")
		p.writeOperator("=")
		p.printExpression(s.Value, 0)
	case *ast.Call:
		p.printExpression(s, 0)
	case *ast.VarDecl:
		p.write(s.Type.String() + " ")
		for i, b := range s.Bindings {
			if i > 0 {
				p.write(", ")
			}
			p.write(b.Name)
			if b.Init != nil {
				p.writeOperator("=")
				p.printExpression(b.Init, 0)
			}
		}
	case *ast.Return:
		p.write("return ")
		p.printExpression(s.Value, 0)
	}
}

// printInlineList 打印 for 头部的初始化或更新部分，语句之间用逗号分隔
func (p *Printer) printInlineList(list *ast.StmtList) {
	if list == nil {
		return
	}
	for i, stmt := range list.Statements {
		if i > 0 {
			p.write(", ")
		}
		p.printStatementInline(stmt)
	}
}

// ============================================================================
// 表达式打印
// ============================================================================

// printExpression 打印表达式，优先级低于 minPrec 的二元运算加括号
func (p *Printer) printExpression(expr ast.Expression, minPrec int) {
	switch e := expr.(type) {
	case *ast.Literal:
		p.write(literalText(e))
	case *ast.Ident:
		p.write(e.Name)
	case *ast.BinOp:
		prec := precedence[e.Op]
		if prec < minPrec {
			p.write("(")
		}
		p.printExpression(e.Left, prec)
		p.writeOperator(string(e.Op))
		// 左结合：右侧同级运算需要括号
		p.printExpression(e.Right, prec+1)
		if prec < minPrec {
			p.write(")")
		}
	case *ast.Call:
		p.write(e.Name + "(")
		p.printExpressionList(e.Args)
		p.write(")")
	case *ast.ArrayLiteral:
		p.write("[")
		p.printExpressionList(e.Elements)
		p.write("]")
	case *ast.ArrayGetElement:
		p.write(e.Name + "[" + formatIndex(e.Index) + "]")
	}
}

func (p *Printer) printExpressionList(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpression(e, 0)
	}
}

func formatIndex(i int64) string {
	return strconv.FormatInt(i, 10)
}

// literalText 优先保留源码原文，手工构造的节点没有原文时按值输出
func literalText(lit *ast.Literal) string {
	if lit.Raw != "" {
		return lit.Raw
	}
	switch v := lit.Value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return lit.String()
}
