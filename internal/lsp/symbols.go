package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/mel/internal/ast"
	"github.com/tangzhangming/mel/internal/token"
)

// getDocumentSymbols 获取文档符号列表
//
// 顶层函数声明为 Function，其参数和函数体内的变量声明作为子符号；
// 变量声明中的每个绑定为 Variable。解析失败的文档没有符号。
func getDocumentSymbols(doc *Document) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	if doc.Program == nil {
		return symbols
	}
	return appendStmtSymbols(doc, symbols, doc.Program.Statements)
}

func appendStmtSymbols(doc *Document, symbols []protocol.DocumentSymbol, stmts []ast.Statement) []protocol.DocumentSymbol {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FuncDecl:
			symbols = append(symbols, funcSymbol(doc, s))
		case *ast.VarDecl:
			for _, b := range s.Bindings {
				symbols = append(symbols, variableSymbol(doc, s.Type, b.Name, b.NamePos))
			}
		case *ast.StmtList:
			symbols = appendStmtSymbols(doc, symbols, s.Statements)
		case *ast.If:
			symbols = appendStmtSymbols(doc, symbols, []ast.Statement{s.Then})
			if s.Else != nil {
				symbols = appendStmtSymbols(doc, symbols, []ast.Statement{s.Else})
			}
		case *ast.For:
			if s.Init != nil {
				symbols = appendStmtSymbols(doc, symbols, s.Init.Statements)
			}
			symbols = appendStmtSymbols(doc, symbols, []ast.Statement{s.Body})
		case *ast.While:
			symbols = appendStmtSymbols(doc, symbols, []ast.Statement{s.Body})
		}
	}
	return symbols
}

func funcSymbol(doc *Document, fn *ast.FuncDecl) protocol.DocumentSymbol {
	nameRange := doc.tokenRange(fn.NamePos, len(fn.Name))

	var children []protocol.DocumentSymbol
	for _, p := range fn.Params {
		children = append(children, variableSymbol(doc, p.Type, p.Name, p.NamePos))
	}
	children = appendStmtSymbols(doc, children, fn.Body.Statements)

	return protocol.DocumentSymbol{
		Name:   fn.Name,
		Detail: signature(fn),
		Kind:   protocol.SymbolKindFunction,
		Range: protocol.Range{
			Start: doc.toPosition(fn.ReturnType.NamePos.Line, fn.ReturnType.NamePos.Column),
			End:   nameRange.End,
		},
		SelectionRange: nameRange,
		Children:       children,
	}
}

func variableSymbol(doc *Document, typ *ast.Type, name string, pos token.Position) protocol.DocumentSymbol {
	r := doc.tokenRange(pos, len(name))
	return protocol.DocumentSymbol{
		Name:           name,
		Detail:         typ.String(),
		Kind:           protocol.SymbolKindVariable,
		Range:          r,
		SelectionRange: r,
	}
}

// signature 返回函数签名，不含函数体
func signature(fn *ast.FuncDecl) string {
	out := fn.ReturnType.String() + " " + fn.Name + "("
	for i, p := range fn.Params {
		if i > 0 {
			out += ", "
		}
		out += p.String()
	}
	return out + ")"
}
