package errors

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/mel/internal/i18n"
)

// ============================================================================
// 错误标签
// ============================================================================

// Label 代码标签（用于标注错误位置）
type Label struct {
	Line    int    // 行号（1-based）
	Column  int    // 列号（1-based）
	Length  int    // 标注长度
	Message string // 标签消息
	Primary bool   // 是否为主要标签
}

// ============================================================================
// 编译错误
// ============================================================================

// CompileError 带错误码和位置的前端错误
type CompileError struct {
	Code      string   // 错误码 (E0006)
	Level     Level    // 错误级别
	Message   string   // 主消息
	File      string   // 文件路径
	Line      int      // 行号
	Column    int      // 列号
	EndColumn int      // 结束列
	Labels    []Label  // 代码标签
	Hints     []string // 修复建议
	Notes     []string // 附加说明

	cause error
}

// Error 实现 error 接口
func (e *CompileError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Unwrap 返回原始错误
func (e *CompileError) Unwrap() error {
	return e.cause
}

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 错误格式化器
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	ShowHints  bool // 是否显示修复建议
	MaxContext int  // 错误行之前显示的上下文行数
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器，颜色取决于终端检测结果
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     ColorsEnabled(),
		ShowSource: true,
		ShowHints:  true,
		MaxContext: 0,
		TabWidth:   4,
	}
}

// FormatCompileError 格式化单个错误
//
//	error[E0006]: expected ';', found end of input
//	 --> prog.mel:3:9
//	  |
//	3 | int b = 2
//	  |          ^
//	 = help: add ';' after the statement
func (f *Formatter) FormatCompileError(err *CompileError, sourceLines []string) string {
	var sb strings.Builder

	levelStr := f.colorize(err.Level.String(), f.levelColor(err.Level))
	codeStr := f.colorize(fmt.Sprintf("[%s]", err.Code), f.levelColor(err.Level))
	sb.WriteString(fmt.Sprintf("%s%s: %s\n", levelStr, codeStr, err.Message))

	file := err.File
	if file == "" {
		file = "<input>"
	}
	arrow := f.colorize("-->", ColorCyan)
	location := f.colorize(fmt.Sprintf("%s:%d:%d", file, err.Line, err.Column), ColorCyan)
	sb.WriteString(fmt.Sprintf(" %s %s\n", arrow, location))

	if f.ShowSource && len(sourceLines) > 0 && err.Line > 0 && err.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceContext(sourceLines, err.Line, err.Column, err.EndColumn, err.Labels))
	}

	if f.ShowHints {
		for _, hint := range err.Hints {
			hintLabel := f.colorize(" = help:", ColorCyan)
			sb.WriteString(fmt.Sprintf("%s %s\n", hintLabel, hint))
		}
	}

	for _, note := range err.Notes {
		noteLabel := f.colorize(" = note:", ColorCyan)
		sb.WriteString(fmt.Sprintf("%s %s\n", noteLabel, note))
	}

	return sb.String()
}

// formatSourceContext 格式化源代码上下文
func (f *Formatter) formatSourceContext(lines []string, errorLine, startCol, endCol int, labels []Label) string {
	var sb strings.Builder

	first := errorLine - f.MaxContext
	if first < 1 {
		first = 1
	}
	lineNumWidth := len(fmt.Sprintf("%d", errorLine))

	separator := f.colorize(strings.Repeat(" ", lineNumWidth)+" |", ColorBlue)
	sb.WriteString(separator + "\n")

	for n := first; n < errorLine; n++ {
		sb.WriteString(f.sourceLine(lines[n-1], n, lineNumWidth))
	}

	line := lines[errorLine-1]
	sb.WriteString(f.sourceLine(line, errorLine, lineNumWidth))

	if endCol == 0 {
		endCol = startCol + 1
	}
	length := endCol - startCol
	if length < 1 {
		length = 1
	}

	actualCol := f.calculateActualColumn(line, startCol)
	underline := separator + strings.Repeat(" ", actualCol+1) +
		f.colorize(strings.Repeat("^", length), ColorRed)
	sb.WriteString(underline + "\n")

	for _, label := range labels {
		if label.Line == errorLine || label.Line <= 0 || label.Line > len(lines) {
			continue
		}
		labelLine := lines[label.Line-1]
		sb.WriteString(f.sourceLine(labelLine, label.Line, lineNumWidth))
		if label.Message != "" {
			col := f.calculateActualColumn(labelLine, label.Column)
			msgLine := separator + strings.Repeat(" ", col+1) +
				f.colorize(strings.Repeat("^", label.Length)+" "+label.Message, f.labelColor(label.Primary))
			sb.WriteString(msgLine + "\n")
		}
	}

	return sb.String()
}

func (f *Formatter) sourceLine(line string, n, width int) string {
	lineNum := f.colorize(fmt.Sprintf("%*d", width, n), ColorBlue)
	pipe := f.colorize(" |", ColorBlue)
	if f.Colors {
		line = HighlightLine(line)
	}
	return fmt.Sprintf("%s%s %s\n", lineNum, pipe, f.expandTabs(line))
}

// expandTabs 展开 Tab 为空格
func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// calculateActualColumn 计算实际列位置（考虑 Tab）
func (f *Formatter) calculateActualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	for i := 0; i < col-1; i++ {
		if i < len(line) && line[i] == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
	}
	return actual
}

// levelColor 获取错误级别对应的颜色
func (f *Formatter) levelColor(level Level) Color {
	switch level {
	case LevelError:
		return ColorBoldRed
	case LevelWarning:
		return ColorYellow
	case LevelNote:
		return ColorCyan
	case LevelHelp:
		return ColorGreen
	default:
		return ColorWhite
	}
}

// labelColor 获取标签颜色
func (f *Formatter) labelColor(primary bool) Color {
	if primary {
		return ColorRed
	}
	return ColorYellow
}

func (f *Formatter) colorize(s string, color Color) string {
	if !f.Colors {
		return s
	}
	return paint(s, color)
}

// FormatCompileErrors 格式化多个错误并附加错误计数
func (f *Formatter) FormatCompileErrors(errors []*CompileError, sourceCache map[string][]string) string {
	var sb strings.Builder

	for i, err := range errors {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.FormatCompileError(err, sourceCache[err.File]))
	}

	if len(errors) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.errorCount(len(errors)))
	}

	return sb.String()
}

// errorCount 返回错误计数行
func (f *Formatter) errorCount(n int) string {
	countMsg := i18n.T(i18n.MsgErrorCount, n)
	if n == 1 {
		countMsg = i18n.T(i18n.MsgErrorCountOne)
	}
	return f.colorize(countMsg, ColorRed) + "\n"
}
