package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangzhangming/mel/internal/config"
	"github.com/tangzhangming/mel/internal/errors"
	"github.com/tangzhangming/mel/internal/logging"
)

// Version 版本号
var Version = "0.1.0"

// exitError 已经输出过诊断信息，只需以指定退出码结束
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// app 命令之间共享的状态
type app struct {
	// 全局参数
	configPath string
	lang       string
	color      string
	verbose    bool
	logFile    string

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func()
}

func main() {
	root, a := newRootCmd(os.Args[1:])
	if err := a.execute(root); err != nil {
		var exit exitError
		if stderrors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd 构建命令树
//
// 命令描述在构建时就需要确定语言，因此先预扫描 --lang 参数。
func newRootCmd(args []string) (*cobra.Command, *app) {
	a := &app{logger: logging.Nop(), closeLog: func() {}}
	InitLanguage(scanLang(args), "")
	m := Msg()

	root := &cobra.Command{
		Use:           "mel",
		Short:         m.CmdRoot,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, args)
		},
	}
	root.SetArgs(args)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", m.OptConfig)
	flags.StringVar(&a.lang, "lang", "", m.OptLang)
	flags.StringVar(&a.color, "color", "", m.OptColor)
	flags.BoolVarP(&a.verbose, "verbose", "v", false, m.OptVerbose)

	root.AddCommand(
		a.newTokensCmd(),
		a.newASTCmd(),
		a.newTreeCmd(),
		a.newCheckCmd(),
		a.newFmtCmd(),
		a.newLSPCmd(),
		a.newInitCmd(),
		a.newVersionCmd(),
	)
	return root, a
}

// execute 执行命令，命令失败时同样刷新并关闭日志
//
// cobra 在 RunE 返回错误时不会调用 PersistentPostRun，所以不能依赖它。
func (a *app) execute(root *cobra.Command) error {
	defer a.releaseLog()
	return root.Execute()
}

// releaseLog 关闭日志，之后的日志调用不再输出
func (a *app) releaseLog() {
	a.closeLog()
	a.logger = logging.Nop()
	a.closeLog = func() {}
}

// scanLang 预扫描 --lang 参数
func scanLang(args []string) string {
	for i, arg := range args {
		if arg == "--lang" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--lang=") {
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

// setup 加载配置，设置语言、颜色和日志
//
// 配置文件从第一个输入文件所在目录向上查找，没有输入文件时从工作目录开始。
func (a *app) setup(cmd *cobra.Command, args []string) error {
	m := Msg()

	dir := "."
	if len(args) > 0 && args[0] != "-" {
		dir = args[0]
	}

	cfg, err := config.Resolve(a.configPath, dir)
	if err != nil {
		return fmt.Errorf(m.ErrConfig, err)
	}
	a.cfg = cfg

	InitLanguage(a.lang, cfg.Output.Lang)

	if a.color != "" {
		cfg.Output.Color = a.color
	}
	errors.SetColorMode(cfg.Output.Color)

	logCfg := cfg.Log
	if a.verbose {
		logCfg.Level = "debug"
	}
	if a.logFile != "" {
		logCfg.File = a.logFile
	}
	logger, closeLog, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf(Msg().ErrLogger, err)
	}
	a.logger = logger
	a.closeLog = closeLog

	a.logger.Debug("config loaded",
		zap.String("command", cmd.Name()),
		zap.String("format", cfg.Output.Format),
		zap.String("color", cfg.Output.Color),
	)
	return nil
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: Msg().CmdVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			m := Msg()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, m.VersionTitle+"\n", Version)
			fmt.Fprintln(out, m.VersionDesc)
		},
	}
}
