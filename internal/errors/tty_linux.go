//go:build linux

package errors

import (
	"os"

	"golang.org/x/sys/unix"
)

// isTerminal 检查文件是否连接到终端
func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}
