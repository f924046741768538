// Package i18n 提供词法、语法和 AST 构建错误信息的中英文翻译
package i18n

import (
	"fmt"
	"strings"

	"go.uber.org/atomic"
)

// ============================================================================
// 消息 ID
// ============================================================================

const (
	// 词法分析器
	ErrUnexpectedChar      = "lexer.unexpected_char"
	ErrUnterminatedComment = "lexer.unterminated_comment"
	ErrUnterminatedString  = "lexer.unterminated_string"
	ErrInvalidExponent     = "lexer.invalid_exponent"
	ErrInvalidNumber       = "lexer.invalid_number"

	// 语法分析器
	ErrExpectedToken      = "parser.expected_token"
	ErrUnexpectedToken    = "parser.unexpected_token"
	ErrExpectedExpression = "parser.expected_expression"
	ErrExpectedStatement  = "parser.expected_statement"
	ErrExpectedType       = "parser.expected_type"
	ErrExpectedIdent      = "parser.expected_ident"
	ErrExpectedIndex      = "parser.expected_index"
	ErrNestingTooDeep     = "parser.nesting_too_deep"

	// AST 构建
	ErrUnmappedRule  = "builder.unmapped_rule"
	ErrUnmappedToken = "builder.unmapped_token"
	ErrShapeMismatch = "builder.shape_mismatch"

	// 修复建议
	HintAddSemicolon = "suggestion.add_semicolon"
	HintLiteralIndex = "suggestion.literal_index"
	HintCloseString  = "suggestion.close_string"
	HintCloseComment = "suggestion.close_comment"
	HintNotEqual     = "suggestion.use_not_equal"
	HintNoBitwise    = "suggestion.no_bitwise"
	HintDidYouMean   = "suggestion.did_you_mean"
	HintReportBug    = "suggestion.report_bug"

	// 汇总
	MsgErrorCount    = "report.error_count"
	MsgErrorCountOne = "report.error_count_one"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// catalogs 各语言的消息表，英文是回退语言
var catalogs = map[Language]map[string]string{
	LangEnglish: messagesEN,
	LangChinese: messagesZH,
}

// 全局语言设置，错误信息在任意 goroutine 中生成
var currentLang = atomic.NewString(string(LangEnglish))

// SetLanguage 设置当前语言，未知语言按英文处理
func SetLanguage(lang Language) {
	if _, ok := catalogs[lang]; !ok {
		lang = LangEnglish
	}
	currentLang.Store(string(lang))
}

// SetLanguageFromString 从字符串设置语言，接受 "zh"、"zh-CN"、"zh_TW.UTF-8" 等写法
func SetLanguageFromString(lang string) {
	parsed, _ := ParseLanguage(lang)
	SetLanguage(parsed)
}

// ParseLanguage 解析语言标签或 locale 名，无法识别时返回英文和 false
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	// 去掉编码和修饰部分：zh_CN.UTF-8@pinyin
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	base, _, _ := strings.Cut(strings.ReplaceAll(s, "_", "-"), "-")

	switch base {
	case "zh", "chinese":
		return LangChinese, true
	case "en", "english":
		return LangEnglish, true
	}
	return LangEnglish, false
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	return Language(currentLang.Load())
}

// T 翻译消息（支持格式化参数）
//
// 当前语言缺少的消息回退到英文，英文也没有时返回消息 ID 本身。
func T(msgID string, args ...interface{}) string {
	msg, ok := catalogs[GetLanguage()][msgID]
	if !ok {
		if msg, ok = messagesEN[msgID]; !ok {
			return msgID
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
