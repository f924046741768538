package grammar

import (
	"fmt"

	"github.com/tangzhangming/mel/internal/i18n"
	"github.com/tangzhangming/mel/internal/lexer"
	"github.com/tangzhangming/mel/internal/token"
)

// ============================================================================
// mel 语法
// ============================================================================
//
//	prog        : stmt_list
//	stmt_list   : ( stmt ";"* )*
//	stmt        : "if" "(" expr ")" stmt ( "else" stmt )?        -> if
//	            | "for" "(" for_list ";" cond ";" for_list ")" body -> for
//	            | "while" "(" cond ")" body                     -> while
//	            | "return" expr ";"                             -> return
//	            | vars ";"
//	            | simple_stmt ";"
//	            | "{" stmt_list "}"
//	            | type ident "(" func_vars ")" "{" stmt_list "}" ";" -> func
//	simple_stmt : ident "=" arr                    -> array_update
//	            | ident "=" expr                   -> assign
//	            | call
//	            | array_element "=" expr           -> array_set_element
//	vars        : type var_inner ( "," var_inner )*
//	var_inner   : ident | ident "=" expr -> assign
//	for_list    : vars | ( simple_stmt ( "," simple_stmt )* )?  -> stmt_list
//	cond        : expr | <empty> -> stmt_list
//	body        : stmt | ";" -> stmt_list
//	func_vars   : ( param ( "," param )* )?
//	param       : type ident
//	type        : IDENT | IDENT "[" NUMBER "]"
//
//	expr        : or
//	or          : or "||" and | and                    -> bin_op
//	and         : and "&&" equality | equality         -> bin_op
//	equality    : equality ("=="|"!=") relational      -> bin_op
//	relational  : relational (">"|"<"|">="|"<=") add   -> bin_op
//	add         : add ("+"|"-") mul                    -> bin_op
//	mul         : mul ("*"|"/") group                  -> bin_op
//	group       : NUMBER | STRING                      -> literal
//	            | call | ident | "(" expr ")" | arr | array_element
//	call        : ident "(" ( expr ( "," expr )* )? ")"
//	arr         : "[" expr ( "," expr )* "]"
//	array_element : ident "[" NUMBER "]"               -> array_get_element
//
// 语法本身是不可变的包级定义；每次 Parse 调用都使用独立的 Parser 状态，
// 因此可以安全地并发调用。
//
// ============================================================================

// maxDepth 最大嵌套深度，防止栈溢出
const maxDepth = 256

// binaryLevels 按优先级从低到高排列的二元运算符层级，每层左结合
var binaryLevels = [][]token.TokenType{
	{token.OR},
	{token.AND},
	{token.EQ, token.NE},
	{token.GT, token.LT, token.GE, token.LE},
	{token.PLUS, token.MINUS},
	{token.STAR, token.SLASH},
}

// SyntaxError 语法错误：输入不符合语法
type SyntaxError struct {
	Pos     token.Position // 出错位置
	Message string         // 错误信息
	ID      string         // i18n 消息 ID，用于映射错误码
	Token   token.Token    // 出错的 token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// bailout 用于在遇到第一个错误时从递归下降中整体退出
type bailout struct {
	err *SyntaxError
}

// Parser 语法分析器状态，只在单次 Parse 调用内使用
type Parser struct {
	tokens  []token.Token
	current int
	depth   int
}

// ParseSource 对源代码做词法和语法分析，返回解析树
func ParseSource(source, filename string) (*Tree, error) {
	l := lexer.New(source, filename)
	return Parse(l.ScanTokens())
}

// Parse 把 token 序列解析为解析树
//
// tokens 必须以 EOF 结尾（lexer.ScanTokens 的输出）。遇到第一个不匹配的
// token 即返回 *SyntaxError，不返回部分结果。
func Parse(tokens []token.Token) (tree *Tree, err error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}

	p := &Parser{tokens: tokens}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			tree, err = nil, b.err
		}
	}()

	tree = p.parseStmtList(token.EOF)
	if !p.isAtEnd() {
		p.fail(p.peek(), i18n.ErrUnexpectedToken, describe(p.peek()))
	}
	return tree, nil
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

// peekAt 向前查看第 n 个 token，越界时返回 EOF
func (p *Parser) peekAt(n int) token.Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) check(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) checkAny(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t token.TokenType) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(p.peek(), i18n.ErrExpectedToken, "'"+t.String()+"'", describe(p.peek()))
	return token.Token{}
}

// fail 以 tok 的位置报告语法错误并终止解析
//
// 如果出错的 token 本身是词法错误（ILLEGAL），使用词法分析器的错误信息。
func (p *Parser) fail(tok token.Token, msgID string, args ...interface{}) {
	err := &SyntaxError{Pos: tok.Pos, ID: msgID, Token: tok}
	if lexErr, ok := tok.Value.(lexer.Error); ok && tok.Type == token.ILLEGAL {
		err.Message, err.ID = lexErr.Message, lexErr.ID
	} else {
		err.Message = i18n.T(msgID, args...)
	}
	panic(bailout{err: err})
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > maxDepth {
		p.fail(p.peek(), i18n.ErrNestingTooDeep)
	}
}

func (p *Parser) leave() {
	p.depth--
}

// describe 返回 token 在错误信息中的描述
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return "illegal input"
	}
	return "'" + tok.Literal + "'"
}

// ============================================================================
// 语句
// ============================================================================

// parseStmtList 解析语句序列直到 end（不消费 end）
func (p *Parser) parseStmtList(end token.TokenType) *Tree {
	list := newTree(RuleStmtList)
	for !p.check(end) && !p.isAtEnd() {
		list.Children = append(list.Children, p.parseStmt())
		for p.match(token.SEMICOLON) {
		}
	}
	return list
}

func (p *Parser) parseStmt() Child {
	p.enter()
	defer p.leave()

	tok := p.peek()
	switch tok.Type {
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		p.advance()
		value := p.parseExpr()
		p.consume(token.SEMICOLON)
		return newTree(RuleReturn, value)
	case token.LBRACE:
		p.advance()
		block := p.parseStmtList(token.RBRACE)
		p.consume(token.RBRACE)
		return block
	case token.IDENT:
		if p.startsDeclaration() {
			return p.parseDeclaration()
		}
		stmt := p.parseSimpleStmt()
		p.consume(token.SEMICOLON)
		return stmt
	}

	p.fail(tok, i18n.ErrExpectedStatement, describe(tok))
	return nil
}

// startsDeclaration 判断当前位置是否为 "type name ..." 形式的声明
//
// 类型名就是普通标识符，需要向前看才能和赋值、调用区分：
//
//	int a ...        声明
//	int[3] a ...     声明
//	b[0] = ...       数组元素赋值
func (p *Parser) startsDeclaration() bool {
	next := p.peekAt(1)
	if next.Type == token.IDENT {
		return true
	}
	if next.Type == token.LBRACKET {
		return p.peekAt(2).Type == token.NUMBER &&
			p.peekAt(3).Type == token.RBRACKET &&
			p.peekAt(4).Type == token.IDENT
	}
	return false
}

func (p *Parser) parseIf() Child {
	p.consume(token.IF)
	p.consume(token.LPAREN)
	cond := p.parseExpr()
	p.consume(token.RPAREN)
	then := p.parseStmt()

	if p.match(token.ELSE) {
		return newTree(RuleIf, cond, then, p.parseStmt())
	}
	return newTree(RuleIf, cond, then)
}

func (p *Parser) parseFor() Child {
	p.consume(token.FOR)
	p.consume(token.LPAREN)
	init := p.parseForList()
	p.consume(token.SEMICOLON)
	cond := p.parseCond(token.SEMICOLON)
	p.consume(token.SEMICOLON)
	update := p.parseForList()
	p.consume(token.RPAREN)
	body := p.parseBody()
	return newTree(RuleFor, init, cond, update, body)
}

func (p *Parser) parseWhile() Child {
	p.consume(token.WHILE)
	p.consume(token.LPAREN)
	cond := p.parseCond(token.RPAREN)
	p.consume(token.RPAREN)
	body := p.parseBody()
	return newTree(RuleWhile, cond, body)
}

// parseForList 解析 for 头部的初始化/更新部分：一个变量声明，
// 或逗号分隔的简单语句（可以为空）
func (p *Parser) parseForList() Child {
	if p.check(token.IDENT) && p.startsDeclaration() {
		return p.parseVars()
	}

	list := newTree(RuleStmtList)
	if p.checkAny(token.SEMICOLON, token.RPAREN) {
		return list
	}
	list.Children = append(list.Children, p.parseSimpleStmt())
	for p.match(token.COMMA) {
		list.Children = append(list.Children, p.parseSimpleStmt())
	}
	return list
}

// parseCond 解析可省略的条件，省略时产生空的 stmt_list
func (p *Parser) parseCond(end token.TokenType) Child {
	if p.check(end) {
		return newTree(RuleStmtList)
	}
	return p.parseExpr()
}

// parseBody 解析循环体，单独的 ";" 表示空循环体
func (p *Parser) parseBody() Child {
	if p.match(token.SEMICOLON) {
		return newTree(RuleStmtList)
	}
	return p.parseStmt()
}

// parseSimpleStmt 解析赋值、数组赋值、数组元素赋值或调用
func (p *Parser) parseSimpleStmt() Child {
	tok := p.peek()
	if tok.Type != token.IDENT {
		p.fail(tok, i18n.ErrExpectedStatement, describe(tok))
	}

	switch p.peekAt(1).Type {
	case token.LPAREN:
		return p.parseCall()
	case token.ASSIGN:
		name := p.parseIdent()
		p.consume(token.ASSIGN)
		value := p.parseExpr()
		if v, ok := value.(*Tree); ok && v.Rule == RuleArr {
			return newTree(RuleArrayUpdate, name, value)
		}
		return newTree(RuleAssign, name, value)
	case token.LBRACKET:
		target := p.parseArrayElement()
		p.consume(token.ASSIGN)
		return newTree(RuleArraySetElement, target, p.parseExpr())
	}

	next := p.peekAt(1)
	p.fail(next, i18n.ErrUnexpectedToken, describe(next))
	return nil
}

// parseDeclaration 解析变量声明或函数声明
func (p *Parser) parseDeclaration() Child {
	if p.isFuncDecl() {
		return p.parseFunc()
	}
	vars := p.parseVars()
	p.consume(token.SEMICOLON)
	return vars
}

// isFuncDecl 判断 type name 之后是否紧跟 "("
func (p *Parser) isFuncDecl() bool {
	n := 2 // type name
	if p.peekAt(1).Type == token.LBRACKET {
		n = 5 // type [ N ] name
	}
	return p.peekAt(n).Type == token.LPAREN
}

func (p *Parser) parseVars() *Tree {
	vars := newTree(RuleVars, p.parseType())
	vars.Children = append(vars.Children, p.parseVarInner())
	for p.match(token.COMMA) {
		vars.Children = append(vars.Children, p.parseVarInner())
	}
	return vars
}

func (p *Parser) parseVarInner() Child {
	name := p.parseIdent()
	if p.match(token.ASSIGN) {
		return newTree(RuleAssign, name, p.parseExpr())
	}
	return name
}

func (p *Parser) parseFunc() Child {
	typ := p.parseType()
	name := p.parseIdent()

	p.consume(token.LPAREN)
	params := newTree(RuleFuncVars)
	if !p.check(token.RPAREN) {
		params.Children = append(params.Children, p.parseParam())
		for p.match(token.COMMA) {
			params.Children = append(params.Children, p.parseParam())
		}
	}
	p.consume(token.RPAREN)

	p.consume(token.LBRACE)
	body := p.parseStmtList(token.RBRACE)
	p.consume(token.RBRACE)
	p.consume(token.SEMICOLON)

	return newTree(RuleFunc, typ, name, params, body)
}

func (p *Parser) parseParam() Child {
	typ := p.parseType()
	return newTree(RuleParam, typ, p.parseIdent())
}

func (p *Parser) parseType() *Tree {
	tok := p.peek()
	if tok.Type != token.IDENT {
		p.fail(tok, i18n.ErrExpectedType, describe(tok))
	}
	p.advance()

	if p.match(token.LBRACKET) {
		size := p.parseIndex()
		p.consume(token.RBRACKET)
		return newTree(RuleType, Leaf{tok}, size)
	}
	return newTree(RuleType, Leaf{tok})
}

// ============================================================================
// 表达式
// ============================================================================

func (p *Parser) parseExpr() Child {
	p.enter()
	defer p.leave()
	return p.parseBinary(0)
}

// parseBinary 解析第 level 层的左结合二元运算
func (p *Parser) parseBinary(level int) Child {
	if level == len(binaryLevels) {
		return p.parseGroup()
	}

	left := p.parseBinary(level + 1)
	for p.checkAny(binaryLevels[level]...) {
		op := p.advance()
		right := p.parseBinary(level + 1)
		left = newTree(RuleBinOp, left, Leaf{op}, right)
	}
	return left
}

func (p *Parser) parseGroup() Child {
	tok := p.peek()
	switch tok.Type {
	case token.NUMBER, token.STRING:
		p.advance()
		return newTree(RuleLiteral, Leaf{tok})
	case token.IDENT:
		switch p.peekAt(1).Type {
		case token.LPAREN:
			return p.parseCall()
		case token.LBRACKET:
			return p.parseArrayElement()
		}
		return p.parseIdent()
	case token.LPAREN:
		p.advance()
		expr := p.parseExpr()
		p.consume(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseArr()
	}

	p.fail(tok, i18n.ErrExpectedExpression, describe(tok))
	return nil
}

func (p *Parser) parseIdent() *Tree {
	tok := p.peek()
	if tok.Type != token.IDENT {
		p.fail(tok, i18n.ErrExpectedIdent, describe(tok))
	}
	p.advance()
	return newTree(RuleIdent, Leaf{tok})
}

func (p *Parser) parseCall() Child {
	call := newTree(RuleCall, p.parseIdent())
	p.consume(token.LPAREN)
	if !p.check(token.RPAREN) {
		call.Children = append(call.Children, p.parseExpr())
		for p.match(token.COMMA) {
			call.Children = append(call.Children, p.parseExpr())
		}
	}
	p.consume(token.RPAREN)
	return call
}

func (p *Parser) parseArr() Child {
	p.consume(token.LBRACKET)
	arr := newTree(RuleArr, p.parseExpr())
	for p.match(token.COMMA) {
		arr.Children = append(arr.Children, p.parseExpr())
	}
	p.consume(token.RBRACKET)
	return arr
}

// parseArrayElement 解析 ident "[" NUMBER "]"
func (p *Parser) parseArrayElement() *Tree {
	name := p.parseIdent()
	p.consume(token.LBRACKET)
	index := p.parseIndex()
	p.consume(token.RBRACKET)
	return newTree(RuleArrayGetElement, name, index)
}

// parseIndex 解析数组下标或长度：只接受整数字面量
func (p *Parser) parseIndex() *Tree {
	tok := p.peek()
	if tok.Type != token.NUMBER {
		p.fail(tok, i18n.ErrExpectedIndex, describe(tok))
	}
	if _, ok := tok.Value.(int64); !ok {
		p.fail(tok, i18n.ErrExpectedIndex, describe(tok))
	}
	p.advance()
	return newTree(RuleLiteral, Leaf{tok})
}
