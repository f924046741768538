// Package logging 基于 zap 构建 mel 工具使用的日志记录器
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/mel/internal/config"
)

// DebugEnv 设置为 1/true/on 时强制使用 debug 级别
const DebugEnv = "MEL_DEBUG"

// New 按配置创建日志记录器
//
// 返回的 close 函数会刷新缓冲并关闭日志文件，调用方应在退出前调用。
// cfg.File 为空时写入 stderr（LSP 模式下 stdout 是协议通道，不能写日志）。
func New(cfg config.LogConfig) (logger *zap.Logger, closeFn func(), err error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if debugForced() {
		level = zapcore.DebugLevel
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "", "console":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	sink := zapcore.Lock(os.Stderr)
	closeFile := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		sink = zapcore.Lock(f)
		closeFile = func() { _ = f.Close() }
	}

	core := zapcore.NewCore(encoder, sink, level)
	logger = zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr)))

	return logger, func() {
		_ = logger.Sync()
		closeFile()
	}, nil
}

// Nop 返回不输出任何内容的日志记录器
func Nop() *zap.Logger {
	return zap.NewNop()
}

func parseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func debugForced() bool {
	switch strings.ToLower(os.Getenv(DebugEnv)) {
	case "1", "true", "on":
		return true
	}
	return false
}
