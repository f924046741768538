package i18n

var messagesZH = map[string]string{
	// ========== 词法分析器 ==========
	ErrUnexpectedChar:      "意外字符 '%c'",
	ErrUnterminatedComment: "未闭合的块注释",
	ErrUnterminatedString:  "未闭合的字符串",
	ErrInvalidExponent:     "无效的数字: 需要指数部分",
	ErrInvalidNumber:       "无效的数字: %s",

	// ========== 语法分析器 ==========
	ErrExpectedToken:      "需要 %s，实际为 %s",
	ErrUnexpectedToken:    "意外的符号: %s",
	ErrExpectedExpression: "需要表达式，实际为 %s",
	ErrExpectedStatement:  "需要语句，实际为 %s",
	ErrExpectedType:       "需要类型名，实际为 %s",
	ErrExpectedIdent:      "需要标识符，实际为 %s",
	ErrExpectedIndex:      "数组下标必须是数字字面量，实际为 %s",
	ErrNestingTooDeep:     "表达式嵌套过深",

	// ========== AST 构建 ==========
	ErrUnmappedRule:  "规则 '%s' 没有对应的 AST 构造器",
	ErrUnmappedToken: "符号 %s 不应出现在语法树中",
	ErrShapeMismatch: "规则 '%s': %s",

	// ========== 修复建议 ==========
	HintAddSemicolon: "在语句末尾添加 ';'（函数声明同样以 '};' 结尾）",
	HintLiteralIndex: "数组下标必须是整数字面量，例如 b[0]",
	HintCloseString:  "使用 '\"' 闭合字符串；字符串不能跨行",
	HintCloseComment: "使用 '*/' 闭合注释；块注释不能嵌套",
	HintNotEqual:     "mel 没有 '!' 运算符；请使用 '!=' 或与 0 比较",
	HintNoBitwise:    "表达式中不能使用 '&' 和 '|'；请使用 '&&' 或 '||'",
	HintDidYouMean:   "你是不是想写 '%s'？",
	HintReportBug:    "这是语法分析器的内部错误，请报告此问题",

	// ========== 汇总 ==========
	MsgErrorCount:    "错误: 发现 %d 个错误",
	MsgErrorCountOne: "错误: 发现 1 个错误",
}
