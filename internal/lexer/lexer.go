package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tangzhangming/mel/internal/i18n"
	"github.com/tangzhangming/mel/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器负责将 mel 源代码字符串转换为 Token 序列。
//
// 词法规则：
//   - 数字字面量：123, 3.14, .5, 1e10, 2.5E-3
//   - 字符串字面量：双引号，支持 \n \r \t \\ \" 转义，不能跨行
//   - 标识符：ASCII 字母或下划线开头，后跟字母、数字、下划线
//   - 注释：// 行注释，/* */ 块注释（可跨行，不嵌套）
//
// 词法错误不会中断扫描：错误被记录下来，同时在出错位置生成一个 ILLEGAL
// token（Value 为对应的 Error），由语法分析器在到达该位置时报告。
//
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source   string        // 源代码字符串
	filename string        // 源文件名（用于错误报告）
	tokens   []token.Token // 已扫描的 Token 列表

	start   int // 当前 Token 的起始位置（字节偏移）
	current int // 当前扫描位置（字节偏移）
	line    int // 当前行号（从1开始）
	column  int // 当前列号（从1开始）

	startLine   int // 当前 Token 起始行号
	startColumn int // 当前 Token 起始列号

	errors []Error // 词法错误列表
}

// Error 表示词法分析错误
type Error struct {
	Pos     token.Position // 错误位置
	Message string         // 错误信息
	ID      string         // i18n 消息 ID
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的词法分析器
//
// 参数:
//   - source: 源代码字符串
//   - filename: 源文件名（用于错误报告，可为空）
func New(source, filename string) *Lexer {
	// 预估 token 数量：源码长度 / 5 是一个经验值
	estimatedTokens := len(source) / 5
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}

	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]token.Token, 0, estimatedTokens),
		line:     1,
		column:   1,
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// ScanTokens 扫描所有 tokens
//
// 最后一个 Token 总是 EOF，表示文件结束。
func (l *Lexer) ScanTokens() []token.Token {
	for !l.isAtEnd() {
		l.markStart()
		l.scanToken()
	}

	l.markStart()
	l.tokens = append(l.tokens, token.Token{
		Type: token.EOF,
		Pos:  l.startPos(),
	})

	return l.tokens
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// scanToken 扫描单个 token
func (l *Lexer) scanToken() {
	ch := l.advance()

	switch ch {

	// ----------------------------------------------------------
	// 空白字符
	// ----------------------------------------------------------
	case ' ', '\t', '\r', '\f', '\v':
		l.skipWhitespace()

	case '\n':
		l.newLine()
		l.skipWhitespace()

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case '{':
		l.addToken(token.LBRACE)
	case '}':
		l.addToken(token.RBRACE)
	case '[':
		l.addToken(token.LBRACKET)
	case ']':
		l.addToken(token.RBRACKET)
	case ',':
		l.addToken(token.COMMA)
	case ';':
		l.addToken(token.SEMICOLON)

	// ----------------------------------------------------------
	// 运算符
	// ----------------------------------------------------------
	case '=':
		if l.match('=') {
			l.addToken(token.EQ)
		} else {
			l.addToken(token.ASSIGN)
		}

	case '+':
		l.addToken(token.PLUS)
	case '-':
		l.addToken(token.MINUS)
	case '*':
		l.addToken(token.STAR)

	case '/':
		// / 或 // 注释 或 /* 块注释
		if l.match('/') {
			l.lineComment()
		} else if l.match('*') {
			l.blockComment()
		} else {
			l.addToken(token.SLASH)
		}

	case '!':
		// 只有 != ，单独的 ! 不是 mel 的运算符
		if l.match('=') {
			l.addToken(token.NE)
		} else {
			l.error(i18n.ErrUnexpectedChar, ch)
		}

	case '<':
		if l.match('=') {
			l.addToken(token.LE)
		} else {
			l.addToken(token.LT)
		}

	case '>':
		if l.match('=') {
			l.addToken(token.GE)
		} else {
			l.addToken(token.GT)
		}

	case '&':
		if l.match('&') {
			l.addToken(token.AND)
		} else {
			l.addToken(token.BIT_AND)
		}

	case '|':
		if l.match('|') {
			l.addToken(token.OR)
		} else {
			l.addToken(token.BIT_OR)
		}

	// ----------------------------------------------------------
	// 字符串字面量
	// ----------------------------------------------------------
	case '"':
		l.string()

	// ----------------------------------------------------------
	// 默认：标识符、数字或非法字符
	// ----------------------------------------------------------
	default:
		if isDigit(ch) || (ch == '.' && isDigit(l.peek())) {
			l.number()
		} else if isAlpha(ch) {
			l.identifier()
		} else {
			l.error(i18n.ErrUnexpectedChar, ch)
		}
	}
}

// ============================================================================
// 空白字符处理
// ============================================================================

// skipWhitespace 批量跳过连续的空白字符
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\f', '\v':
			l.advance()
		case '\n':
			l.advance()
			l.newLine()
		default:
			return
		}
	}
}

// ============================================================================
// 注释处理
// ============================================================================

// lineComment 处理单行注释 //
//
// 注释一直延伸到行尾或文件结束，不生成 Token。
func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	// 不消费换行符，让主循环处理（更新行号）
}

// blockComment 处理多行注释 /* */
//
// 与 C 一致，块注释不嵌套：遇到第一个 */ 即结束。
func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.advance() == '\n' {
			l.newLine()
		}
	}

	l.error(i18n.ErrUnterminatedComment)
}

// ============================================================================
// 字符串处理
// ============================================================================

// string 处理双引号字符串字面量
//
// 快速路径：无转义字符时直接切片；否则使用 strings.Builder 处理转义。
func (l *Lexer) string() {
	startOffset := l.current

	hasEscape := false
	scanPos := l.current
	for scanPos < len(l.source) {
		b := l.source[scanPos]
		if b == '\\' {
			hasEscape = true
			break
		}
		if b == '"' || b == '\n' {
			break
		}
		scanPos++
	}

	// ==========================================================
	// 快速路径：无转义字符，直接切片
	// ==========================================================
	if !hasEscape {
		for l.current < scanPos {
			l.advance()
		}
		if l.isAtEnd() || l.peek() == '\n' {
			l.error(i18n.ErrUnterminatedString)
			return
		}

		value := l.source[startOffset:l.current]
		l.advance() // 跳过结束引号
		l.addTokenWithValue(token.STRING, value)
		return
	}

	// ==========================================================
	// 慢速路径：包含转义字符
	// ==========================================================
	var sb strings.Builder
	sb.Grow(scanPos - startOffset + 16)

	for !l.isAtEnd() {
		ch := l.peek()
		if ch == '"' {
			break
		}
		if ch == '\n' {
			l.error(i18n.ErrUnterminatedString)
			return
		}

		if ch == '\\' {
			l.advance()
			if l.isAtEnd() {
				break
			}
			// 反斜杠不能续行；换行留给主循环处理行号
			if l.peek() == '\n' {
				l.error(i18n.ErrUnterminatedString)
				return
			}
			escaped := l.advance()
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				// 未知转义，保留原样
				sb.WriteByte('\\')
				sb.WriteByte(escaped)
			}
			continue
		}

		sb.WriteByte(l.advance())
	}

	if l.isAtEnd() {
		l.error(i18n.ErrUnterminatedString)
		return
	}

	l.advance() // 跳过结束引号
	l.addTokenWithValue(token.STRING, sb.String())
}

// ============================================================================
// 数字处理
// ============================================================================

// number 处理数字字面量
//
// 整数解析为 int64，带小数点或指数的解析为 float64。
func (l *Lexer) number() {
	isFloat := l.source[l.start] == '.'

	for isDigit(l.peek()) {
		l.advance()
	}

	// 小数部分（允许 "1." 这种写法）
	if !isFloat && l.peek() == '.' {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// 科学计数法 e/E
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			l.error(i18n.ErrInvalidExponent)
			return
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	literal := l.source[l.start:l.current]

	if isFloat {
		value, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			l.error(i18n.ErrInvalidNumber, literal)
			return
		}
		l.addTokenWithValue(token.NUMBER, value)
		return
	}

	// 单位数整数快速路径
	if len(literal) == 1 {
		l.addTokenWithValue(token.NUMBER, int64(literal[0]-'0'))
		return
	}

	value, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		l.error(i18n.ErrInvalidNumber, literal)
		return
	}
	l.addTokenWithValue(token.NUMBER, value)
}

// ============================================================================
// 标识符处理
// ============================================================================

// identifier 处理标识符和关键字
func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]
	l.addToken(token.LookupIdent(text))
}

// ============================================================================
// 底层字符操作
// ============================================================================
//
// mel 的词法单元全部由 ASCII 组成；非 ASCII 字节只会出现在字符串和
// 注释里，按字节前进即可，列号按字节计算。

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字节并返回它
func (l *Lexer) advance() byte {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	l.current++
	l.column++
	return b
}

func (l *Lexer) peek() byte {
	if l.current >= len(l.source) {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// match 如果当前字符匹配则前进
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

// ============================================================================
// 位置追踪
// ============================================================================

func (l *Lexer) newLine() {
	l.line++
	l.column = 1
}

// markStart 记录当前 token 的起始位置
func (l *Lexer) markStart() {
	l.start = l.current
	l.startLine = l.line
	l.startColumn = l.column
}

// startPos 返回当前 token 的起始位置
func (l *Lexer) startPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.startColumn,
		Offset:   l.start,
	}
}

// ============================================================================
// Token 生成
// ============================================================================

func (l *Lexer) addToken(tokenType token.TokenType) {
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Pos:     l.startPos(),
	})
}

func (l *Lexer) addTokenWithValue(tokenType token.TokenType, value interface{}) {
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Value:   value,
		Pos:     l.startPos(),
	})
}

// ============================================================================
// 错误处理
// ============================================================================

// error 记录一个词法错误
//
// 同时生成一个 ILLEGAL token，Value 保存该 Error。
func (l *Lexer) error(msgID string, args ...interface{}) {
	err := Error{
		Pos:     l.startPos(),
		Message: i18n.T(msgID, args...),
		ID:      msgID,
	}
	l.errors = append(l.errors, err)
	l.tokens = append(l.tokens, token.Token{
		Type:    token.ILLEGAL,
		Literal: l.source[l.start:l.current],
		Value:   err,
		Pos:     err.Pos,
	})
}

// ============================================================================
// 字符分类函数
// ============================================================================

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isAlpha 判断是否为 ASCII 字母或下划线
func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
