// Package config 读取和写入 mel 工具的配置文件 mel.toml
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// 常量定义
const (
	FileName = "mel.toml" // 配置文件名

	DefaultMaxDocuments = 256
)

// Config 工具配置
type Config struct {
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
	LSP    LSPConfig    `toml:"lsp"`
	Format FormatConfig `toml:"format"`
}

// OutputConfig 命令行输出设置
type OutputConfig struct {
	// Format AST 输出格式：text、json 或 yaml
	Format string `toml:"format"`

	// Color 颜色模式：auto、always 或 never
	Color string `toml:"color"`

	// Lang 错误信息语言：en 或 zh，为空时按环境自动检测
	Lang string `toml:"lang,omitempty"`
}

// LogConfig 日志设置
type LogConfig struct {
	Level  string `toml:"level"`  // debug、info、warn、error
	Format string `toml:"format"` // console 或 json
	File   string `toml:"file"`   // 为空时写入 stderr
}

// LSPConfig 语言服务器设置
type LSPConfig struct {
	// MaxDocuments 同时打开的文档数上限，超出时淘汰最久未使用的文档
	MaxDocuments int `toml:"max_documents"`
}

// FormatConfig mel fmt 与编辑器格式化共用的设置
type FormatConfig struct {
	IndentStyle string `toml:"indent_style"` // tabs 或 spaces
	IndentSize  int    `toml:"indent_size"`  // 每级缩进的空格数
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		LSP: LSPConfig{
			MaxDocuments: DefaultMaxDocuments,
		},
		Format: FormatConfig{
			IndentStyle: "spaces",
			IndentSize:  4,
		},
	}
}

// Load 从文件加载配置，文件中未出现的字段保留默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	if !oneOf(c.Output.Format, "text", "json", "yaml") {
		return fmt.Errorf("output.format must be text, json or yaml, got %q", c.Output.Format)
	}
	if !oneOf(c.Output.Color, "auto", "always", "never") {
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	if !oneOf(c.Output.Lang, "", "en", "zh") {
		return fmt.Errorf("output.lang must be en, zh or empty, got %q", c.Output.Lang)
	}
	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if !oneOf(c.Log.Format, "console", "json") {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.LSP.MaxDocuments <= 0 {
		return fmt.Errorf("lsp.max_documents must be positive, got %d", c.LSP.MaxDocuments)
	}
	if !oneOf(c.Format.IndentStyle, "tabs", "spaces") {
		return fmt.Errorf("format.indent_style must be tabs or spaces, got %q", c.Format.IndentStyle)
	}
	if c.Format.IndentSize < 1 || c.Format.IndentSize > 16 {
		return fmt.Errorf("format.indent_size must be between 1 and 16, got %d", c.Format.IndentSize)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	content := "# mel 工具配置\n# 未列出的字段使用默认值\n\n" + string(data)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Find 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func Find(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Resolve 加载配置：explicit 非空时读取该文件，否则从 dir 向上查找，
// 都找不到时返回默认配置
func Resolve(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path := Find(dir); path != "" {
		return Load(path)
	}
	return Default(), nil
}
