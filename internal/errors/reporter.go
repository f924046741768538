package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ============================================================================
// 错误报告器
// ============================================================================

// Reporter 收集并输出格式化的错误
//
// Reporter 可以被多个 goroutine 同时使用（mel check 并发解析多个文件）。
type Reporter struct {
	mu          sync.Mutex
	out         io.Writer
	formatter   *Formatter
	sourceCache map[string][]string // 源代码缓存
	errors      []*CompileError
}

// NewReporter 创建错误报告器，格式化后的错误写入 out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:         out,
		formatter:   NewFormatter(),
		sourceCache: make(map[string][]string),
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatter = f
}

// LoadSource 从磁盘加载源文件
func (r *Reporter) LoadSource(filename string) error {
	r.mu.Lock()
	_, ok := r.sourceCache[filename]
	r.mu.Unlock()
	if ok || filename == "" {
		return nil
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	r.SetSource(filename, string(content))
	return nil
}

// SetSource 设置源代码（用于已在内存中的源代码）
func (r *Reporter) SetSource(filename string, content string) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sourceCache[filename] = lines
}

// GetSourceLine 获取源代码行
func (r *Reporter) GetSourceLine(filename string, line int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lines, ok := r.sourceCache[filename]; ok && line > 0 && line <= len(lines) {
		return lines[line-1]
	}
	return ""
}

// ============================================================================
// 报告
// ============================================================================

// Report 转换并输出一个解析错误，返回对应的 CompileError
func (r *Reporter) Report(err error) *CompileError {
	ce := FromError(err)
	if ce == nil {
		return nil
	}
	r.ReportError(ce)
	return ce
}

// ReportError 输出一个已构造的 CompileError
func (r *Reporter) ReportError(ce *CompileError) {
	// 源文件不可读时仍然输出错误，只是没有源代码摘录
	_ = r.LoadSource(ce.File)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, ce)
	fmt.Fprint(r.out, r.formatter.FormatCompileError(ce, r.sourceCache[ce.File]))
}

// Summary 输出错误计数（没有错误时不输出）
func (r *Reporter) Summary() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errors) == 0 {
		return
	}
	fmt.Fprint(r.out, "\n"+r.formatter.errorCount(len(r.errors)))
}

// ============================================================================
// 状态查询
// ============================================================================

// HasErrors 是否有错误
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors) > 0
}

// ErrorCount 错误数量
func (r *Reporter) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// Errors 获取所有错误
func (r *Reporter) Errors() []*CompileError {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*CompileError, len(r.errors))
	copy(out, r.errors)
	return out
}

// Clear 清空已收集的错误
func (r *Reporter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
}
