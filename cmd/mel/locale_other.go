//go:build !windows

package main

// systemLocale 非 Windows 系统只依赖环境变量
func systemLocale() string {
	return ""
}
