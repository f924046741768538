// Package astdump 把 AST 序列化为 JSON、YAML 或缩进文本，供命令行和调试使用
package astdump

import (
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/tangzhangming/mel/internal/ast"
	"github.com/tangzhangming/mel/internal/token"
)

// ============================================================================
// 通用值
// ============================================================================

// ToValue 把 AST 转换为由 map[string]interface{} 和切片组成的通用值
//
// 每个节点都有 "node" 键（节点类型名）；位置有效时带 "line" 和 "column"。
// 可选子节点为 nil 时省略对应的键。
func ToValue(node ast.Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *ast.Literal:
		return obj("Literal", n.Pos(), "value", n.Value)
	case *ast.Ident:
		return obj("Ident", n.Pos(), "name", n.Name)
	case *ast.BinOp:
		return obj("BinOp", n.Pos(), "op", string(n.Op), "left", ToValue(n.Left), "right", ToValue(n.Right))
	case *ast.Call:
		return obj("Call", n.Pos(), "name", n.Name, "args", exprList(n.Args))
	case *ast.ArrayLiteral:
		return obj("ArrayLiteral", n.Pos(), "elements", exprList(n.Elements))
	case *ast.ArrayGetElement:
		return obj("ArrayGetElement", n.Pos(), "name", n.Name, "index", n.Index)
	case *ast.ArraySetElement:
		return obj("ArraySetElement", n.Pos(), "name", n.Name, "index", n.Index, "value", ToValue(n.Value))
	case *ast.Assign:
		return obj("Assign", n.Pos(), "name", n.Name, "value", ToValue(n.Value))
	case *ast.ArrayUpdate:
		return obj("ArrayUpdate", n.Pos(), "name", n.Name, "value", ToValue(n.Value))
	case *ast.VarDecl:
		bindings := make([]interface{}, len(n.Bindings))
		for i, b := range n.Bindings {
			m := map[string]interface{}{"name": b.Name}
			if b.Init != nil {
				m["init"] = ToValue(b.Init)
			}
			bindings[i] = m
		}
		return obj("VarDecl", n.Pos(), "type", typeValue(n.Type), "bindings", bindings)
	case *ast.If:
		m := obj("If", n.Pos(), "cond", ToValue(n.Cond), "then", ToValue(n.Then))
		if n.Else != nil {
			m["else"] = ToValue(n.Else)
		}
		return m
	case *ast.For:
		m := obj("For", n.Pos(), "init", ToValue(n.Init), "update", ToValue(n.Update), "body", ToValue(n.Body))
		if n.Cond != nil {
			m["cond"] = ToValue(n.Cond)
		}
		return m
	case *ast.While:
		m := obj("While", n.Pos(), "body", ToValue(n.Body))
		if n.Cond != nil {
			m["cond"] = ToValue(n.Cond)
		}
		return m
	case *ast.Return:
		return obj("Return", n.Pos(), "value", ToValue(n.Value))
	case *ast.FuncDecl:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = map[string]interface{}{"type": typeValue(p.Type), "name": p.Name}
		}
		return obj("FuncDecl", n.Pos(), "return_type", typeValue(n.ReturnType), "name", n.Name,
			"params", params, "body", ToValue(n.Body))
	case *ast.StmtList:
		stmts := make([]interface{}, len(n.Statements))
		for i, s := range n.Statements {
			stmts[i] = ToValue(s)
		}
		return obj("StmtList", n.Pos(), "statements", stmts)
	}

	return map[string]interface{}{"node": fmt.Sprintf("%T", node)}
}

func obj(kind string, pos token.Position, kv ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2+3)
	m["node"] = kind
	if pos.IsValid() {
		m["line"] = pos.Line
		m["column"] = pos.Column
	}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func exprList(exprs []ast.Expression) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = ToValue(e)
	}
	return out
}

func typeValue(t *ast.Type) map[string]interface{} {
	m := map[string]interface{}{"name": t.Name}
	if size, ok := t.ArraySize(); ok {
		m["size"] = size
	}
	return m
}

// ============================================================================
// 编码
// ============================================================================

// JSON 把 AST 编码为 JSON，indent 为 true 时使用两个空格缩进
func JSON(node ast.Node, indent bool) ([]byte, error) {
	v := ToValue(node)
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// YAML 把 AST 编码为 YAML
func YAML(node ast.Node) ([]byte, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(ToValue(node)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// ============================================================================
// 缩进文本
// ============================================================================

type field struct {
	label string
	node  ast.Node
}

// Text 返回 AST 的缩进文本表示，每个节点一行
//
//	StmtList @1:1
//	  Assign a @1:1
//	    BinOp + @1:7
//	      Ident b @1:5
//	      Literal 1 @1:9
func Text(node ast.Node) string {
	var sb strings.Builder
	writeText(&sb, "", node, 0)
	return sb.String()
}

func writeText(sb *strings.Builder, label string, node ast.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if label != "" {
		sb.WriteString(label + ": ")
	}
	if node == nil {
		sb.WriteString("<none>\n")
		return
	}

	title, children := describe(node)
	sb.WriteString(title)
	if pos := node.Pos(); pos.IsValid() {
		fmt.Fprintf(sb, " @%d:%d", pos.Line, pos.Column)
	}
	sb.WriteString("\n")

	for _, c := range children {
		writeText(sb, c.label, c.node, depth+1)
	}
}

func describe(node ast.Node) (string, []field) {
	switch n := node.(type) {
	case *ast.Literal:
		return "Literal " + n.String(), nil
	case *ast.Ident:
		return "Ident " + n.Name, nil
	case *ast.BinOp:
		return "BinOp " + string(n.Op), []field{{"", n.Left}, {"", n.Right}}
	case *ast.Call:
		return "Call " + n.Name, exprFields(n.Args)
	case *ast.ArrayLiteral:
		return "ArrayLiteral", exprFields(n.Elements)
	case *ast.ArrayGetElement:
		return fmt.Sprintf("ArrayGetElement %s[%d]", n.Name, n.Index), nil
	case *ast.ArraySetElement:
		return fmt.Sprintf("ArraySetElement %s[%d]", n.Name, n.Index), []field{{"", n.Value}}
	case *ast.Assign:
		return "Assign " + n.Name, []field{{"", n.Value}}
	case *ast.ArrayUpdate:
		return "ArrayUpdate " + n.Name, []field{{"", n.Value}}
	case *ast.VarDecl:
		var children []field
		for _, b := range n.Bindings {
			if b.Init != nil {
				children = append(children, field{b.Name, b.Init})
			}
		}
		names := make([]string, len(n.Bindings))
		for i, b := range n.Bindings {
			names[i] = b.Name
		}
		return "VarDecl " + n.Type.String() + " " + strings.Join(names, ", "), children
	case *ast.If:
		children := []field{{"cond", n.Cond}, {"then", n.Then}}
		if n.Else != nil {
			children = append(children, field{"else", n.Else})
		}
		return "If", children
	case *ast.For:
		children := []field{{"init", n.Init}}
		if n.Cond != nil {
			children = append(children, field{"cond", n.Cond})
		}
		return "For", append(children, field{"update", n.Update}, field{"body", n.Body})
	case *ast.While:
		var children []field
		if n.Cond != nil {
			children = append(children, field{"cond", n.Cond})
		}
		return "While", append(children, field{"body", n.Body})
	case *ast.Return:
		return "Return", []field{{"", n.Value}}
	case *ast.FuncDecl:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.String()
		}
		title := fmt.Sprintf("FuncDecl %s %s(%s)", n.ReturnType, n.Name, strings.Join(params, ", "))
		return title, []field{{"", n.Body}}
	case *ast.StmtList:
		children := make([]field, len(n.Statements))
		for i, s := range n.Statements {
			children[i] = field{"", s}
		}
		return "StmtList", children
	}
	return fmt.Sprintf("%T", node), nil
}

func exprFields(exprs []ast.Expression) []field {
	out := make([]field, len(exprs))
	for i, e := range exprs {
		out[i] = field{"", e}
	}
	return out
}
