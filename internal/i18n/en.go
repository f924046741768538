package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "unexpected character '%c'",
	ErrUnterminatedComment: "unterminated block comment",
	ErrUnterminatedString:  "unterminated string",
	ErrInvalidExponent:     "invalid number: expected exponent",
	ErrInvalidNumber:       "invalid number: %s",

	// ========== Parser ==========
	ErrExpectedToken:      "expected %s, found %s",
	ErrUnexpectedToken:    "unexpected token: %s",
	ErrExpectedExpression: "expected expression, found %s",
	ErrExpectedStatement:  "expected statement, found %s",
	ErrExpectedType:       "expected type name, found %s",
	ErrExpectedIdent:      "expected identifier, found %s",
	ErrExpectedIndex:      "array index must be a number literal, found %s",
	ErrNestingTooDeep:     "expression nesting too deep",

	// ========== Builder ==========
	ErrUnmappedRule:  "no AST constructor for rule '%s'",
	ErrUnmappedToken: "token %s cannot appear in the parse tree",
	ErrShapeMismatch: "rule '%s': %s",

	// ========== Suggestions ==========
	HintAddSemicolon: "add ';' after the statement (function declarations also end with '};')",
	HintLiteralIndex: "array indices must be integer literals, e.g. b[0]",
	HintCloseString:  "close the string with '\"'; strings cannot span lines",
	HintCloseComment: "close the comment with '*/'; block comments do not nest",
	HintNotEqual:     "mel has no '!' operator; use '!=' or compare with 0",
	HintNoBitwise:    "'&' and '|' are not valid in expressions; use '&&' or '||'",
	HintDidYouMean:   "did you mean '%s'?",
	HintReportBug:    "this is an internal error in the parser, please report it",

	// ========== Report ==========
	MsgErrorCount:    "error: found %d errors",
	MsgErrorCountOne: "error: found 1 error",
}
