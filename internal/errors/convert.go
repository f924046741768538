package errors

import (
	stderrors "errors"

	"github.com/tangzhangming/mel/internal/builder"
	"github.com/tangzhangming/mel/internal/grammar"
	"github.com/tangzhangming/mel/internal/lexer"
	"github.com/tangzhangming/mel/internal/token"
)

// FromError 把解析过程返回的错误转换为 CompileError
//
// 识别 grammar.SyntaxError、lexer.Error 和构建器错误；其它错误归入 E0001，
// 只保留消息。返回值的 Unwrap 指向原始错误。
func FromError(err error) *CompileError {
	if err == nil {
		return nil
	}

	var ce *CompileError
	if stderrors.As(err, &ce) {
		return ce
	}

	var (
		syntaxErr   *grammar.SyntaxError
		lexErr      lexer.Error
		unmappedErr *builder.UnmappedRuleError
		shapeErr    *builder.ShapeError
	)

	switch {
	case stderrors.As(err, &syntaxErr):
		ce = newAt(CodeFor(syntaxErr.ID), syntaxErr.Message, syntaxErr.Pos, tokenWidth(syntaxErr.Token))
		ce.Hints = GetSuggestions(ce.Code, map[string]interface{}{
			"id":    syntaxErr.ID,
			"token": syntaxErr.Token,
		})

	case stderrors.As(err, &lexErr):
		ce = newAt(CodeFor(lexErr.ID), lexErr.Message, lexErr.Pos, 1)
		ce.Hints = GetSuggestions(ce.Code, map[string]interface{}{"id": lexErr.ID})

	case stderrors.As(err, &unmappedErr):
		ce = newAt(E0900, unmappedErr.Error(), unmappedErr.Pos, 1)
		ce.Hints = GetSuggestions(E0900, nil)

	case stderrors.As(err, &shapeErr):
		ce = &CompileError{Code: E0901, Level: LevelError, Message: shapeErr.Error()}
		ce.Hints = GetSuggestions(E0901, nil)

	default:
		ce = &CompileError{Code: E0001, Level: LevelError, Message: err.Error()}
	}

	ce.cause = err
	return ce
}

func newAt(code, message string, pos token.Position, width int) *CompileError {
	return &CompileError{
		Code:      code,
		Level:     LevelError,
		Message:   message,
		File:      pos.Filename,
		Line:      pos.Line,
		Column:    pos.Column,
		EndColumn: pos.Column + width,
	}
}

// tokenWidth 返回标注下划线的宽度，只标注 token 的第一行
func tokenWidth(tok token.Token) int {
	n := 0
	for n < len(tok.Literal) && tok.Literal[n] != '\n' {
		n++
	}
	if n == 0 {
		return 1
	}
	return n
}
