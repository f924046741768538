package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tangzhangming/mel/internal/formatter"
	"github.com/tangzhangming/mel/internal/lsp"
)

// newLSPCmd 语言服务器
//
// stdout 是协议通道，日志只能写到 stderr 或 --log 指定的文件。
func (a *app) newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: Msg().CmdLSP,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			server := lsp.NewServer(lsp.Options{
				Version:      Version,
				MaxDocuments: a.cfg.LSP.MaxDocuments,
				Format:       formatter.FromConfig(a.cfg.Format),
			}, a.logger.Named("lsp"))

			if err := server.Run(ctx); err != nil {
				return fmt.Errorf(Msg().ErrLSP, err)
			}
			if code := server.ExitCode(); code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&a.logFile, "log", "", Msg().OptLog)
	return cmd
}
