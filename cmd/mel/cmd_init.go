package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tangzhangming/mel/internal/config"
)

// newInitCmd 在当前目录生成默认配置文件
func (a *app) newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: Msg().CmdInit,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := Msg()

			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf(m.ErrGetWorkDir, err)
			}

			// 检查是否已存在配置文件
			path := filepath.Join(dir, config.FileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf(m.ErrConfigExists, config.FileName)
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), m.InitCreated+"\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, Msg().OptForce)
	return cmd
}
