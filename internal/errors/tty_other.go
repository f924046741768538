//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package errors

import "os"

// isTerminal 检查文件是否为字符设备
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
