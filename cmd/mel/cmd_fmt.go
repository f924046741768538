package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/mel/internal/formatter"
)

// newFmtCmd 格式化源文件
//
// 默认输出到 stdout；--write 写回文件；--check 只检查，不修改任何文件。
func (a *app) newFmtCmd() *cobra.Command {
	var (
		write      bool
		check      bool
		indent     string
		indentSize int
	)

	cmd := &cobra.Command{
		Use:   "fmt <file>...",
		Short: Msg().CmdFmt,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := Msg()
			if write && check {
				return stderrors.New(m.ErrFmtWriteCheck)
			}
			if err := stdinOnce(args); err != nil {
				return err
			}

			// 命令行参数覆盖配置文件
			opts := formatter.FromConfig(a.cfg.Format)
			if cmd.Flags().Changed("indent") {
				opts.IndentStyle = indent
			}
			if cmd.Flags().Changed("indent-size") {
				opts.IndentSize = indentSize
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			reporter := newReporter(cmd)
			var errs error

			for _, path := range args {
				name, source, err := readSource(cmd, path)
				if err != nil {
					fmt.Fprintln(errOut, err)
					errs = multierr.Append(errs, err)
					continue
				}

				formatted, err := formatter.Format(source, name, opts)
				if err != nil {
					errs = multierr.Append(errs, err)
					if stderrors.Is(err, formatter.ErrHasComments) {
						fmt.Fprintf(errOut, "%s: %v\n", name, err)
						continue
					}
					reporter.SetSource(name, source)
					reporter.Report(err)
					continue
				}

				switch {
				case check:
					if formatted != source {
						msg := fmt.Sprintf(m.ErrFmtNotFormatted, name)
						fmt.Fprintln(errOut, msg)
						errs = multierr.Append(errs, stderrors.New(msg))
						continue
					}
					fmt.Fprintf(out, m.SuccessFormatOK+"\n", name)

				case write && path != "-":
					if formatted == source {
						fmt.Fprintf(out, m.SuccessFormatOK+"\n", name)
						continue
					}
					if err := writeFormatted(path, formatted); err != nil {
						fmt.Fprintln(errOut, err)
						errs = multierr.Append(errs, err)
						continue
					}
					fmt.Fprintf(out, m.SuccessFormatComplete+"\n", name)

				default:
					fmt.Fprint(out, formatted)
				}
			}
			reporter.Summary()

			if errs != nil {
				a.logger.Debug("fmt failed",
					zap.Int("files", len(args)),
					zap.Int("failed", len(multierr.Errors(errs))),
				)
				return exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, Msg().OptFmtWrite)
	cmd.Flags().BoolVar(&check, "check", false, Msg().OptFmtCheck)
	cmd.Flags().StringVar(&indent, "indent", "spaces", Msg().OptFmtIndent)
	cmd.Flags().IntVar(&indentSize, "indent-size", 4, Msg().OptFmtIndentSize)
	return cmd
}

// writeFormatted 写回源文件，保留原有权限
func writeFormatted(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}
