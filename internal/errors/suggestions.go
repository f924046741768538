package errors

import (
	"github.com/tangzhangming/mel/internal/i18n"
	"github.com/tangzhangming/mel/internal/token"
)

// ============================================================================
// 修复建议生成器
// ============================================================================

// SuggestionGenerator 修复建议生成器
type SuggestionGenerator struct{}

// NewSuggestionGenerator 创建修复建议生成器
func NewSuggestionGenerator() *SuggestionGenerator {
	return &SuggestionGenerator{}
}

// keywords 用于拼写纠正的关键字
var keywords = []string{"if", "else", "for", "while", "return"}

// GetSuggestions 根据错误码和上下文获取修复建议
//
// 上下文键：
//   - "id":    消息 ID (string)
//   - "token": 出错的 token (token.Token)
func (g *SuggestionGenerator) GetSuggestions(code string, context map[string]interface{}) []string {
	tok, _ := context["token"].(token.Token)

	switch code {
	case E0002:
		return g.unexpectedCharSuggestions(tok)
	case E0003:
		return []string{i18n.T(i18n.HintCloseString)}
	case E0004:
		return []string{i18n.T(i18n.HintCloseComment)}
	case E0006:
		return g.expectedTokenSuggestions(tok)
	case E0007, E0001:
		return g.misspelledKeywordSuggestions(tok)
	case E0008:
		return []string{i18n.T(i18n.HintLiteralIndex)}
	case E0900, E0901:
		return []string{i18n.T(i18n.HintReportBug)}
	}
	return nil
}

// ============================================================================
// 具体建议生成
// ============================================================================

func (g *SuggestionGenerator) unexpectedCharSuggestions(tok token.Token) []string {
	if tok.Literal == "!" {
		return []string{i18n.T(i18n.HintNotEqual)}
	}
	return nil
}

// expectedTokenSuggestions 缺少分隔符时的建议
func (g *SuggestionGenerator) expectedTokenSuggestions(tok token.Token) []string {
	switch tok.Type {
	case token.BIT_AND, token.BIT_OR:
		return []string{i18n.T(i18n.HintNoBitwise)}
	case token.ILLEGAL:
		return nil
	}

	suggestions := []string{i18n.T(i18n.HintAddSemicolon)}
	return append(suggestions, g.misspelledKeywordSuggestions(tok)...)
}

// misspelledKeywordSuggestions 出错 token 是拼错的关键字时给出建议
func (g *SuggestionGenerator) misspelledKeywordSuggestions(tok token.Token) []string {
	if tok.Type != token.IDENT {
		return nil
	}
	if similar := FindSimilar(tok.Literal, keywords, 2); similar != "" {
		return []string{i18n.T(i18n.HintDidYouMean, similar)}
	}
	return nil
}

// ============================================================================
// 相似名称查找
// ============================================================================

// FindSimilar 在候选中查找编辑距离不超过 maxDistance 的最相似名称
func FindSimilar(name string, candidates []string, maxDistance int) string {
	best := ""
	bestDistance := maxDistance + 1

	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshteinDistance(name, c)
		if d < bestDistance && d < len(c) {
			best = c
			bestDistance = d
		}
	}

	return best
}

// levenshteinDistance 计算编辑距离
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// ============================================================================
// 全局生成器
// ============================================================================

var defaultGenerator = NewSuggestionGenerator()

// GetSuggestions 使用默认生成器获取修复建议
func GetSuggestions(code string, context map[string]interface{}) []string {
	return defaultGenerator.GetSuggestions(code, context)
}
