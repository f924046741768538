package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/mel/internal/ast"
	"github.com/tangzhangming/mel/internal/astdump"
	"github.com/tangzhangming/mel/internal/errors"
	"github.com/tangzhangming/mel/internal/lexer"
	"github.com/tangzhangming/mel/internal/parser"
)

// stdinName 从标准输入读取时使用的文件名
const stdinName = "<stdin>"

// readSource 读取源文件，"-" 表示标准输入
func readSource(cmd *cobra.Command, path string) (name, source string, err error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf(Msg().ErrReadFile, err)
		}
		return stdinName, string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf(Msg().ErrReadFile, err)
	}
	return path, string(data), nil
}

// stdinOnce 标准输入只能读取一次，"-" 不能在参数中重复出现
func stdinOnce(args []string) error {
	seen := false
	for _, arg := range args {
		if arg != "-" {
			continue
		}
		if seen {
			return stderrors.New(Msg().ErrStdinTwice)
		}
		seen = true
	}
	return nil
}

// newReporter 创建写入 stderr 的错误报告器
func newReporter(cmd *cobra.Command) *errors.Reporter {
	return errors.NewReporter(cmd.ErrOrStderr())
}

// ============================================================================
// tokens
// ============================================================================

func (a *app) newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: Msg().CmdTokens,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			l := lexer.New(source, name)
			tokens := l.ScanTokens()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Tokens ===")
			for _, tok := range tokens {
				fmt.Fprintf(out, "  %s\n", tok)
			}

			if !l.HasErrors() {
				return nil
			}
			reporter := newReporter(cmd)
			reporter.SetSource(name, source)
			for _, lexErr := range l.Errors() {
				reporter.Report(lexErr)
			}
			reporter.Summary()
			return exitError{code: 1}
		},
	}
}

// ============================================================================
// ast
// ============================================================================

func (a *app) newASTCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: Msg().CmdAST,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}

			name, source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			prog, err := a.parse(name, source)
			if err != nil {
				return a.report(cmd, name, source, err)
			}

			var out []byte
			switch strings.ToLower(format) {
			case "text":
				out = []byte(astdump.Text(prog))
			case "json":
				out, err = astdump.JSON(prog, true)
				out = append(out, '\n')
			case "yaml":
				out, err = astdump.YAML(prog)
			default:
				return fmt.Errorf(Msg().ErrUnknownFmt, format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", Msg().OptFormat)
	return cmd
}

// ============================================================================
// tree
// ============================================================================

func (a *app) newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: Msg().CmdTree,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			tree, err := parser.New(source, name).ParseTree()
			if err != nil {
				return a.report(cmd, name, source, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), tree.Pretty())
			return nil
		},
	}
}

// ============================================================================
// check
// ============================================================================

type checkResult struct {
	name   string
	source string
	err    error
}

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: Msg().CmdCheck,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stdinOnce(args); err != nil {
				return err
			}
			results := make([]checkResult, len(args))

			// 各文件的解析互不依赖，并发进行；输出按参数顺序
			var wg sync.WaitGroup
			for i, path := range args {
				wg.Add(1)
				go func(i int, path string) {
					defer wg.Done()
					name, source, err := readSource(cmd, path)
					if err == nil {
						_, err = a.parse(name, source)
					}
					results[i] = checkResult{name: name, source: source, err: err}
				}(i, path)
			}
			wg.Wait()

			m := Msg()
			reporter := newReporter(cmd)
			var errs error
			for i, r := range results {
				if r.err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), m.SuccessSyntaxOK+"\n", r.name)
					continue
				}
				errs = multierr.Append(errs, r.err)
				if r.name == "" {
					// 读取失败，没有源代码可供摘录
					fmt.Fprintln(cmd.ErrOrStderr(), r.err)
					a.logger.Debug("read failed", zap.String("path", args[i]), zap.Error(r.err))
					continue
				}
				reporter.SetSource(r.name, r.source)
				reporter.Report(r.err)
			}
			reporter.Summary()

			if errs != nil {
				a.logger.Debug("check failed",
					zap.Int("files", len(args)),
					zap.Int("failed", len(multierr.Errors(errs))),
				)
				return exitError{code: 1}
			}
			return nil
		},
	}
}

// ============================================================================
// 公共
// ============================================================================

func (a *app) parse(name, source string) (*ast.StmtList, error) {
	start := time.Now()
	prog, err := parser.ParseFile(source, name)
	a.logger.Debug("parsed",
		zap.String("file", name),
		zap.Int("bytes", len(source)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil),
	)
	return prog, err
}

// report 输出单个文件的解析错误
func (a *app) report(cmd *cobra.Command, name, source string, err error) error {
	reporter := newReporter(cmd)
	reporter.SetSource(name, source)
	reporter.Report(err)
	return exitError{code: 1}
}
