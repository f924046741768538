package formatter

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/mel/internal/config"
)

// Options 格式化选项
type Options struct {
	// 缩进设置
	IndentStyle string // "tabs" 或 "spaces"
	IndentSize  int    // 空格数（当使用 spaces 时）

	// 代码风格
	SpaceAroundOps bool // 二元运算符两侧加空格
	BlankLineFuncs bool // 函数声明前后各空一行
}

// DefaultOptions 返回默认格式化选项（K&R 风格 + 4空格缩进）
func DefaultOptions() *Options {
	return &Options{
		IndentStyle:    "spaces",
		IndentSize:     4,
		SpaceAroundOps: true,
		BlankLineFuncs: true,
	}
}

// FromConfig 从 mel.toml 的 [format] 段构造选项，其余选项取默认值
func FromConfig(cfg config.FormatConfig) *Options {
	opts := DefaultOptions()
	opts.IndentStyle = strings.ToLower(cfg.IndentStyle)
	opts.IndentSize = cfg.IndentSize
	return opts
}

// Validate 检查选项取值
func (o *Options) Validate() error {
	switch strings.ToLower(o.IndentStyle) {
	case "tabs":
	case "spaces":
		if o.IndentSize < 1 || o.IndentSize > 16 {
			return fmt.Errorf("indent size must be between 1 and 16, got %d", o.IndentSize)
		}
	default:
		return fmt.Errorf("indent style must be tabs or spaces, got %q", o.IndentStyle)
	}
	return nil
}

// IndentString 返回一级缩进
func (o *Options) IndentString() string {
	if strings.EqualFold(o.IndentStyle, "tabs") {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentSize)
}
