package main

import (
	"os"
	"strings"

	"github.com/tangzhangming/mel/internal/i18n"
)

// Messages 命令行消息
type Messages struct {
	// 版本信息
	VersionTitle string
	VersionDesc  string

	// 命令描述
	CmdRoot    string
	CmdTokens  string
	CmdAST     string
	CmdTree    string
	CmdCheck   string
	CmdFmt     string
	CmdLSP     string
	CmdInit    string
	CmdVersion string

	// 选项
	OptConfig  string
	OptLang    string
	OptColor   string
	OptVerbose string
	OptFormat  string
	OptLog     string
	OptForce   string

	OptFmtWrite      string
	OptFmtCheck      string
	OptFmtIndent     string
	OptFmtIndentSize string

	// 错误信息
	ErrReadFile     string
	ErrConfig       string
	ErrLogger       string
	ErrUnknownFmt   string
	ErrConfigExists string
	ErrGetWorkDir   string
	ErrLSP          string
	ErrStdinTwice   string

	ErrFmtNotFormatted string
	ErrFmtWriteCheck   string

	// 成功信息
	SuccessSyntaxOK string
	InitCreated     string

	SuccessFormatOK       string
	SuccessFormatComplete string
}

var messagesEN = &Messages{
	VersionTitle: "mel %s",
	VersionDesc:  "Parser front end and language server for the mel teaching language",

	CmdRoot:    "mel parses programs written in the mel teaching language",
	CmdTokens:  "Print the token stream of a file",
	CmdAST:     "Print the AST of a file",
	CmdTree:    "Print the rule-labeled parse tree of a file",
	CmdCheck:   "Check files for syntax errors",
	CmdFmt:     "Format source files",
	CmdLSP:     "Run the language server on stdin/stdout",
	CmdInit:    "Create a mel.toml in the current directory",
	CmdVersion: "Show version information",

	OptConfig:  "config file (default: nearest mel.toml)",
	OptLang:    "message language (en, zh)",
	OptColor:   "color mode (auto, always, never)",
	OptVerbose: "enable debug logging",
	OptFormat:  "output format (text, json, yaml)",
	OptLog:     "log file (default: stderr)",
	OptForce:   "overwrite an existing mel.toml",

	OptFmtWrite:      "write result to the file instead of stdout",
	OptFmtCheck:      "check if files are formatted (exit code 1 if not)",
	OptFmtIndent:     "indent style: tabs or spaces",
	OptFmtIndentSize: "indent size (when using spaces)",

	ErrReadFile:     "error: cannot read file: %v",
	ErrConfig:       "error: %v",
	ErrLogger:       "error: cannot create logger: %v",
	ErrUnknownFmt:   "unknown output format %q (want text, json or yaml)",
	ErrConfigExists: "error: %s already exists (use --force to overwrite)",
	ErrGetWorkDir:   "error: cannot get working directory: %v",
	ErrLSP:          "error: language server: %v",
	ErrStdinTwice:   "error: standard input (-) can only be given once",

	ErrFmtNotFormatted: "%s: not formatted",
	ErrFmtWriteCheck:   "--write and --check cannot be used together",

	SuccessSyntaxOK: "✓ %s: syntax OK",
	InitCreated:     "Created %s",

	SuccessFormatOK:       "✓ %s: already formatted",
	SuccessFormatComplete: "✓ Formatted: %s",
}

var messagesZH = &Messages{
	VersionTitle: "mel %s",
	VersionDesc:  "mel 教学语言的语法分析前端与语言服务器",

	CmdRoot:    "mel 解析用 mel 教学语言编写的程序",
	CmdTokens:  "输出文件的 token 序列",
	CmdAST:     "输出文件的 AST",
	CmdTree:    "输出文件带规则标签的解析树",
	CmdCheck:   "检查文件的语法错误",
	CmdFmt:     "格式化源文件",
	CmdLSP:     "在标准输入输出上运行语言服务器",
	CmdInit:    "在当前目录创建 mel.toml",
	CmdVersion: "显示版本信息",

	OptConfig:  "配置文件（默认：最近的 mel.toml）",
	OptLang:    "消息语言 (en, zh)",
	OptColor:   "颜色模式 (auto, always, never)",
	OptVerbose: "启用调试日志",
	OptFormat:  "输出格式 (text, json, yaml)",
	OptLog:     "日志文件（默认：stderr）",
	OptForce:   "覆盖已存在的 mel.toml",

	OptFmtWrite:      "将结果写入文件而不是标准输出",
	OptFmtCheck:      "检查文件是否已格式化（未格式化则退出码为 1）",
	OptFmtIndent:     "缩进风格：tabs 或 spaces",
	OptFmtIndentSize: "缩进大小（使用 spaces 时）",

	ErrReadFile:     "错误: 无法读取文件: %v",
	ErrConfig:       "错误: %v",
	ErrLogger:       "错误: 无法创建日志记录器: %v",
	ErrUnknownFmt:   "未知的输出格式 %q（可选 text、json、yaml）",
	ErrConfigExists: "错误: %s 已存在（使用 --force 覆盖）",
	ErrGetWorkDir:   "错误: 无法获取工作目录: %v",
	ErrLSP:          "错误: 语言服务器: %v",
	ErrStdinTwice:   "错误: 标准输入 (-) 只能指定一次",

	ErrFmtNotFormatted: "%s: 未格式化",
	ErrFmtWriteCheck:   "--write 和 --check 不能同时使用",

	SuccessSyntaxOK: "✓ %s: 语法正确",
	InitCreated:     "已创建 %s",

	SuccessFormatOK:       "✓ %s: 已格式化",
	SuccessFormatComplete: "✓ 已格式化: %s",
}

// LangEnv 指定语言的环境变量
const LangEnv = "MEL_LANG"

// Msg 返回当前语言的消息
func Msg() *Messages {
	if i18n.GetLanguage() == i18n.LangChinese {
		return messagesZH
	}
	return messagesEN
}

// InitLanguage 初始化语言设置
// 优先级: 命令行参数 > 环境变量 MEL_LANG > 配置文件 > 操作系统语言 > 默认英文
func InitLanguage(flagLang, configLang string) {
	for _, lang := range []string{flagLang, os.Getenv(LangEnv), configLang} {
		if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" {
			i18n.SetLanguageFromString(lang)
			return
		}
	}

	if detectChineseOS() {
		i18n.SetLanguage(i18n.LangChinese)
		return
	}
	i18n.SetLanguage(i18n.LangEnglish)
}

// detectChineseOS 检测操作系统是否为中文环境
func detectChineseOS() bool {
	candidates := []string{systemLocale()}
	for _, v := range []string{"LC_ALL", "LC_MESSAGES", "LANG", "LANGUAGE"} {
		candidates = append(candidates, os.Getenv(v))
	}
	for _, c := range candidates {
		if lang, ok := i18n.ParseLanguage(c); ok {
			return lang == i18n.LangChinese
		}
	}
	return false
}
