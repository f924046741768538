package lsp

import (
	"strings"

	"go.lsp.dev/protocol"

	"github.com/tangzhangming/mel/internal/errors"
)

// diagnosticSource 诊断来源名
const diagnosticSource = "mel"

// getDiagnostics 获取文档的诊断信息，解析成功时返回空切片
func getDiagnostics(doc *Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc.Err == nil {
		return diagnostics
	}

	ce := errors.FromError(doc.Err)

	end := ce.EndColumn
	if end <= ce.Column {
		end = ce.Column + 1
	}

	message := ce.Message
	for _, hint := range ce.Hints {
		message += "\nhelp: " + hint
	}

	diagnostics = append(diagnostics, protocol.Diagnostic{
		Range: protocol.Range{
			Start: doc.toPosition(ce.Line, ce.Column),
			End:   doc.toPosition(ce.Line, end),
		},
		Severity: severity(ce),
		Code:     ce.Code,
		Source:   diagnosticSource,
		Message:  strings.TrimSpace(message),
	})
	return diagnostics
}

// severity 将错误级别转换为诊断严重程度
func severity(ce *errors.CompileError) protocol.DiagnosticSeverity {
	switch ce.Level {
	case errors.LevelWarning:
		return protocol.DiagnosticSeverityWarning
	case errors.LevelNote:
		return protocol.DiagnosticSeverityInformation
	case errors.LevelHelp:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}
