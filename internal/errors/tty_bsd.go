//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package errors

import (
	"os"

	"golang.org/x/sys/unix"
)

// isTerminal 检查文件是否连接到终端
func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TIOCGETA)
	return err == nil
}
