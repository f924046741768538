package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF）
// 2. 字面量（标识符、数字、字符串）
// 3. 运算符（算术、比较、逻辑、位运算）
// 4. 分隔符（括号、逗号、分号等）
// 5. 关键字（控制流）
//
// mel 的类型名（int, string, bool ...）不是关键字，语法上就是普通标识符。
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 文件结束

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT  // 标识符 (变量名、函数名、类型名)
	NUMBER // 数字字面量 (整数或浮点数)
	STRING // 字符串字面量 "..."

	// ----------------------------------------------------------
	// 算术运算符
	// ----------------------------------------------------------
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	ASSIGN // =

	// ----------------------------------------------------------
	// 比较运算符
	// ----------------------------------------------------------
	EQ // ==
	NE // !=
	LT // <
	LE // <=
	GT // >
	GE // >=

	// ----------------------------------------------------------
	// 逻辑运算符
	// ----------------------------------------------------------
	AND // &&
	OR  // ||

	// ----------------------------------------------------------
	// 位运算符
	// ----------------------------------------------------------
	BIT_AND // &
	BIT_OR  // |

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;

	// ----------------------------------------------------------
	// 关键字 - 控制流
	// ----------------------------------------------------------
	keyword_beg // 关键字起始标记（不是实际 token）
	IF          // if
	ELSE        // else
	FOR         // for
	WHILE       // while
	RETURN      // return
	keyword_end // 关键字结束标记（不是实际 token）
)

// ============================================================================
// Token 类型名称映射
// ============================================================================

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	ASSIGN: "=",

	EQ: "==",
	NE: "!=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",

	AND: "&&",
	OR:  "||",

	BIT_AND: "&",
	BIT_OR:  "|",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",

	IF:     "if",
	ELSE:   "else",
	FOR:    "for",
	WHILE:  "while",
	RETURN: "return",
}

// ============================================================================
// 关键字查找
// ============================================================================

var keywords = map[string]TokenType{
	"if":     IF,
	"else":   ELSE,
	"for":    FOR,
	"while":  WHILE,
	"return": RETURN,
}

// LookupIdent 查找标识符是否为关键字
//
// 返回:
//   - TokenType: 如果是关键字返回对应类型，否则返回 IDENT
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// IsOperator 判断 TokenType 是否为二元运算符
func IsOperator(t TokenType) bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH,
		EQ, NE, LT, LE, GT, GE,
		AND, OR, BIT_AND, BIT_OR:
		return true
	}
	return false
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Token 是词法分析的产物，包含：
// - Type: token 类型（如 IDENT, NUMBER, IF 等）
// - Literal: 原始字面量文本
// - Value: 解析后的值（int64、float64 或去掉引号的 string）
// - Pos: 在源代码中的位置
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始字面量
	Value   interface{} // 解析后的值 (用于数字、字符串)
	Pos     Position    // 位置信息
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, NUMBER, STRING:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}

// NewWithValue 创建一个带值的 Token
//
// 用于数字和字符串字面量，value 参数存储解析后的实际值。
func NewWithValue(tokenType TokenType, literal string, value interface{}, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}
