package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"

	"github.com/tangzhangming/mel/internal/token"
)

// splitLines 将内容按行分割，兼容 \r\n
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

// toPosition 把 1-based 的行号和字节列号转换为 LSP 位置
//
// LSP 的 character 以 UTF-16 码元计数，需要根据行内容换算。
func (d *Document) toPosition(line, column int) protocol.Position {
	if line < 1 {
		return protocol.Position{}
	}
	return protocol.Position{
		Line:      uint32(line - 1),
		Character: uint32(utf16Len(d.Line(line), column-1)),
	}
}

// tokenRange 返回从 pos 开始、长度为 width 字节的范围
func (d *Document) tokenRange(pos token.Position, width int) protocol.Range {
	return protocol.Range{
		Start: d.toPosition(pos.Line, pos.Column),
		End:   d.toPosition(pos.Line, pos.Column+width),
	}
}

// utf16Len 返回 line 前 n 个字节对应的 UTF-16 码元数，n 超出行长时按行长计算
func utf16Len(line string, n int) int {
	if n > len(line) {
		n = len(line)
	}
	count := 0
	for i := 0; i < n; {
		r, size := utf8.DecodeRuneInString(line[i:])
		count += max(utf16.RuneLen(r), 1)
		i += size
	}
	return count
}
