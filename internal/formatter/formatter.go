// Package formatter 把 mel 源代码重新打印为统一风格
package formatter

import (
	stderrors "errors"
	"strings"

	"github.com/tangzhangming/mel/internal/parser"
	"github.com/tangzhangming/mel/internal/token"
)

// ErrHasComments 源代码包含注释。注释不进入 AST，格式化会丢失它们，因此拒绝格式化。
var ErrHasComments = stderrors.New("source contains comments; formatting would discard them")

// Format 格式化源代码
//
// 语法错误原样返回（*parser.SyntaxError 等），调用方可以用 errors.FromError 报告。
func Format(source, filename string, options *Options) (string, error) {
	if options == nil {
		options = DefaultOptions()
	}
	if err := options.Validate(); err != nil {
		return "", err
	}

	// 解析源代码
	p := parser.New(source, filename)
	prog, err := p.Parse()
	if err != nil {
		return "", err
	}

	if hasComments(source, p.Tokens()) {
		return "", ErrHasComments
	}

	// 使用打印器生成格式化的代码
	printer := NewPrinter(options)
	return printer.Print(prog), nil
}

// FormatWithDefaultOptions 使用默认选项格式化
func FormatWithDefaultOptions(source, filename string) (string, error) {
	return Format(source, filename, DefaultOptions())
}

// IsFormatted 判断源代码是否已经是格式化后的样子
func IsFormatted(source, filename string, options *Options) (bool, error) {
	formatted, err := Format(source, filename, options)
	if err != nil {
		return false, err
	}
	return formatted == source, nil
}

// hasComments 检查 token 之间的空隙里是否有非空白内容
//
// 词法分析器丢弃注释，所以注释只会出现在这些空隙中。
func hasComments(source string, tokens []token.Token) bool {
	prev := 0
	for _, tok := range tokens {
		start := tok.Pos.Offset
		if start < prev || start > len(source) {
			continue
		}
		if strings.TrimSpace(source[prev:start]) != "" {
			return true
		}
		prev = start + len(tok.Literal)
	}
	return prev < len(source) && strings.TrimSpace(source[prev:]) != ""
}
