package lsp

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/tangzhangming/mel/internal/formatter"
)

// formatting 处理文档格式化请求
//
// 返回一个替换整个文档的编辑；有语法错误、包含注释或内容已经格式化时
// 返回空编辑。
func (s *Server) formatting(params *protocol.DocumentFormattingParams) []protocol.TextEdit {
	edits := []protocol.TextEdit{}

	doc := s.documents.Get(uri.URI(params.TextDocument.URI))
	if doc == nil || doc.Err != nil {
		return edits
	}

	options := s.formatOptions(params.Options)
	formatted, err := formatter.Format(doc.Text, documentFilename(doc.URI), options)
	if err != nil {
		s.logger.Debug("format skipped", zap.String("uri", string(doc.URI)), zap.Error(err))
		return edits
	}
	if formatted == doc.Text {
		return edits
	}

	return append(edits, protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{},
			End:   doc.end(),
		},
		NewText: formatted,
	})
}

// formatOptions 以服务器配置为基础，客户端给出的缩进设置优先
func (s *Server) formatOptions(client protocol.FormattingOptions) *formatter.Options {
	options := formatter.DefaultOptions()
	if s.opts.Format != nil {
		copied := *s.opts.Format
		options = &copied
	}

	if client.TabSize > 0 {
		options.IndentSize = int(client.TabSize)
	}
	if client.InsertSpaces {
		options.IndentStyle = "spaces"
	} else if client.TabSize > 0 {
		options.IndentStyle = "tabs"
	}
	return options
}

// end 返回文档末尾的位置
func (d *Document) end() protocol.Position {
	last := len(d.lines) - 1
	if last < 0 {
		return protocol.Position{}
	}
	line := d.lines[last]
	return protocol.Position{
		Line:      uint32(last),
		Character: uint32(utf16Len(line, len(line))),
	}
}
