// Package parser 是 mel 前端的入口：源代码 → 解析树 → AST
package parser

import (
	"github.com/tangzhangming/mel/internal/ast"
	"github.com/tangzhangming/mel/internal/builder"
	"github.com/tangzhangming/mel/internal/grammar"
	"github.com/tangzhangming/mel/internal/lexer"
	"github.com/tangzhangming/mel/internal/token"
)

// SyntaxError 语法错误（包括词法错误），带出错位置
type SyntaxError = grammar.SyntaxError

// UnmappedRuleError 解析树中出现了没有 AST 构造器的规则
type UnmappedRuleError = builder.UnmappedRuleError

// Parser 单个源文件的语法分析器
//
// Parser 只在一次解析中使用，不能在多个 goroutine 之间共享；
// 需要并发解析时每个 goroutine 各自调用 New 或 Parse。
type Parser struct {
	filename string
	tokens   []token.Token
	lexErrs  []lexer.Error
	tree     *grammar.Tree
}

// New 创建一个新的语法分析器，词法分析在这里完成
func New(source, filename string) *Parser {
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()

	return &Parser{
		filename: filename,
		tokens:   tokens,
		lexErrs:  l.Errors(),
	}
}

// Parse 解析整个源文件，返回语句列表根节点
//
// 出错时返回 *SyntaxError（第一个错误）或构建器错误，不返回部分结果。
func (p *Parser) Parse() (*ast.StmtList, error) {
	tree, err := p.ParseTree()
	if err != nil {
		return nil, err
	}
	return builder.Build(tree)
}

// ParseTree 只做语法分析，返回带规则标签的解析树
func (p *Parser) ParseTree() (*grammar.Tree, error) {
	if p.tree != nil {
		return p.tree, nil
	}
	tree, err := grammar.Parse(p.tokens)
	if err != nil {
		return nil, err
	}
	p.tree = tree
	return tree, nil
}

// Tokens 返回词法分析结果（以 EOF 结尾）
func (p *Parser) Tokens() []token.Token {
	return p.tokens
}

// LexErrors 返回全部词法错误；Parse 只报告其中最早被语法分析遇到的一个
func (p *Parser) LexErrors() []lexer.Error {
	return p.lexErrs
}

// Filename 返回文件名
func (p *Parser) Filename() string {
	return p.filename
}

// Parse 解析一段没有文件名的 mel 程序
func Parse(source string) (*ast.StmtList, error) {
	return New(source, "").Parse()
}

// ParseFile 解析 mel 程序，错误位置带上 filename
func ParseFile(source, filename string) (*ast.StmtList, error) {
	return New(source, filename).Parse()
}
