package errors

import (
	"os"
	"strings"

	"go.uber.org/atomic"

	"github.com/tangzhangming/mel/internal/lexer"
	"github.com/tangzhangming/mel/internal/token"
)

// Color 终端颜色
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBoldRed
	ColorBoldGreen
	ColorBoldYellow
	ColorBoldBlue
	ColorBoldMagenta
	ColorBoldCyan
	ColorBoldWhite
)

// ANSI 颜色代码
var ansiCodes = map[Color]string{
	ColorReset:       "\033[0m",
	ColorRed:         "\033[31m",
	ColorGreen:       "\033[32m",
	ColorYellow:      "\033[33m",
	ColorBlue:        "\033[34m",
	ColorMagenta:     "\033[35m",
	ColorCyan:        "\033[36m",
	ColorWhite:       "\033[37m",
	ColorBoldRed:     "\033[1;31m",
	ColorBoldGreen:   "\033[1;32m",
	ColorBoldYellow:  "\033[1;33m",
	ColorBoldBlue:    "\033[1;34m",
	ColorBoldMagenta: "\033[1;35m",
	ColorBoldCyan:    "\033[1;36m",
	ColorBoldWhite:   "\033[1;37m",
}

// colorsEnabled 是否启用颜色（CLI 和 LSP 可能在不同 goroutine 中读取）
var colorsEnabled = atomic.NewBool(detectColorSupport(os.Stderr))

// detectColorSupport 检测输出是否支持颜色
func detectColorSupport(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	term := os.Getenv("TERM")
	if term == "dumb" {
		return false
	}

	if isTerminal(f) {
		return true
	}

	// Windows Terminal / ConEmu 在管道检测之外单独声明支持
	if os.Getenv("WT_SESSION") != "" || os.Getenv("ConEmuANSI") == "ON" {
		return true
	}

	return false
}

// SetColorMode 按配置设置颜色模式：auto、always 或 never
func SetColorMode(mode string) {
	switch strings.ToLower(mode) {
	case "always", "on", "true":
		colorsEnabled.Store(true)
	case "never", "off", "false":
		colorsEnabled.Store(false)
	default:
		colorsEnabled.Store(detectColorSupport(os.Stderr))
	}
}

// ColorsEnabled 检查颜色是否启用
func ColorsEnabled() bool {
	return colorsEnabled.Load()
}

// Colorize 着色字符串（颜色被禁用时原样返回）
func Colorize(s string, color Color) string {
	if !ColorsEnabled() {
		return s
	}
	return paint(s, color)
}

func paint(s string, color Color) string {
	code, ok := ansiCodes[color]
	if !ok || s == "" {
		return s
	}
	return code + s + ansiCodes[ColorReset]
}

// Red 红色
func Red(s string) string {
	return Colorize(s, ColorRed)
}

// Green 绿色
func Green(s string) string {
	return Colorize(s, ColorGreen)
}

// Yellow 黄色
func Yellow(s string) string {
	return Colorize(s, ColorYellow)
}

// Cyan 青色
func Cyan(s string) string {
	return Colorize(s, ColorCyan)
}

// BoldRed 加粗红色
func BoldRed(s string) string {
	return Colorize(s, ColorBoldRed)
}

// BoldGreen 加粗绿色
func BoldGreen(s string) string {
	return Colorize(s, ColorBoldGreen)
}

// Strip 移除 ANSI 颜色代码
func Strip(s string) string {
	result := s
	for _, code := range ansiCodes {
		result = strings.ReplaceAll(result, code, "")
	}
	return result
}

// ============================================================================
// 代码语法高亮
// ============================================================================

// HighlightLine 用 mel 词法分析器对单行源代码着色
//
// 空白、注释和无法识别的字符原样保留。
func HighlightLine(line string) string {
	tokens := lexer.New(line, "").ScanTokens()

	var sb strings.Builder
	last := 0
	for _, tok := range tokens {
		if tok.Type == token.EOF {
			break
		}
		start := tok.Pos.Offset
		end := start + len(tok.Literal)
		if start < last || end > len(line) {
			continue
		}
		sb.WriteString(line[last:start])
		if c := tokenColor(tok.Type); c != ColorReset {
			sb.WriteString(paint(tok.Literal, c))
		} else {
			sb.WriteString(tok.Literal)
		}
		last = end
	}
	sb.WriteString(line[last:])
	return sb.String()
}

func tokenColor(t token.TokenType) Color {
	switch {
	case token.IsKeyword(t):
		return ColorYellow
	case t == token.NUMBER:
		return ColorMagenta
	case t == token.STRING:
		return ColorGreen
	case t == token.ILLEGAL:
		return ColorBoldRed
	case token.IsOperator(t):
		return ColorRed
	}
	return ColorReset
}
