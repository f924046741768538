// Package errors 提供 mel 前端的错误码、错误格式化与报告
package errors

import "github.com/tangzhangming/mel/internal/i18n"

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 错误码
// ============================================================================

const (
	// E0001-E0099: 词法与语法错误
	E0001 = "E0001" // 语法错误
	E0002 = "E0002" // 意外的字符
	E0003 = "E0003" // 未闭合的字符串
	E0004 = "E0004" // 未闭合的注释
	E0005 = "E0005" // 无效的数字
	E0006 = "E0006" // 期望的 token
	E0007 = "E0007" // 意外的 token
	E0008 = "E0008" // 数组下标不是整数字面量
	E0009 = "E0009" // 嵌套过深

	// E0900-E0999: 内部错误（语法与 AST 构建器不一致）
	E0900 = "E0900" // 规则没有 AST 构造器
	E0901 = "E0901" // 子节点形状不匹配
)

// ErrorInfo 错误码信息
type ErrorInfo struct {
	Code      string // 错误码
	Level     Level  // 错误级别
	MessageID string // i18n 消息 ID
	Category  string // 错误分类
}

var errorInfos = map[string]ErrorInfo{
	E0001: {E0001, LevelError, "", "syntax"},
	E0002: {E0002, LevelError, i18n.ErrUnexpectedChar, "lexical"},
	E0003: {E0003, LevelError, i18n.ErrUnterminatedString, "lexical"},
	E0004: {E0004, LevelError, i18n.ErrUnterminatedComment, "lexical"},
	E0005: {E0005, LevelError, i18n.ErrInvalidNumber, "lexical"},
	E0006: {E0006, LevelError, i18n.ErrExpectedToken, "syntax"},
	E0007: {E0007, LevelError, i18n.ErrUnexpectedToken, "syntax"},
	E0008: {E0008, LevelError, i18n.ErrExpectedIndex, "syntax"},
	E0009: {E0009, LevelError, i18n.ErrNestingTooDeep, "syntax"},

	E0900: {E0900, LevelError, i18n.ErrUnmappedRule, "internal"},
	E0901: {E0901, LevelError, i18n.ErrShapeMismatch, "internal"},
}

// codeByMessage 消息 ID → 错误码，未列出的语法消息归入 E0001
var codeByMessage = map[string]string{
	i18n.ErrUnexpectedChar:      E0002,
	i18n.ErrUnterminatedString:  E0003,
	i18n.ErrUnterminatedComment: E0004,
	i18n.ErrInvalidNumber:       E0005,
	i18n.ErrInvalidExponent:     E0005,
	i18n.ErrExpectedToken:       E0006,
	i18n.ErrUnexpectedToken:     E0007,
	i18n.ErrExpectedIndex:       E0008,
	i18n.ErrNestingTooDeep:      E0009,
	i18n.ErrUnmappedRule:        E0900,
	i18n.ErrUnmappedToken:       E0900,
	i18n.ErrShapeMismatch:       E0901,
}

// GetErrorInfo 获取错误码信息
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, ok := errorInfos[code]
	return info, ok
}

// CodeFor 返回消息 ID 对应的错误码
func CodeFor(msgID string) string {
	if code, ok := codeByMessage[msgID]; ok {
		return code
	}
	return E0001
}

// IsInternal 检查错误码是否表示解析器内部错误
func IsInternal(code string) bool {
	info, ok := errorInfos[code]
	return ok && info.Category == "internal"
}
