package i18n

import (
	"strings"
	"testing"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	for id := range messagesEN {
		if _, ok := messagesZH[id]; !ok {
			t.Errorf("message %q missing from zh catalog", id)
		}
	}
	for id := range messagesZH {
		if _, ok := messagesEN[id]; !ok {
			t.Errorf("message %q missing from en catalog", id)
		}
	}
}

func TestCatalogsAgreeOnVerbs(t *testing.T) {
	for id, en := range messagesEN {
		zh, ok := messagesZH[id]
		if !ok {
			continue
		}
		if got, want := strings.Count(zh, "%"), strings.Count(en, "%"); got != want {
			t.Errorf("message %q: zh has %d format verbs, en has %d", id, got, want)
		}
	}
}

func TestTranslate(t *testing.T) {
	defer SetLanguage(GetLanguage())

	SetLanguage(LangEnglish)
	if got := T(ErrExpectedToken, "';'", "EOF"); got != "expected ';', found EOF" {
		t.Errorf("T(en) = %q", got)
	}

	SetLanguageFromString("zh-cn")
	if GetLanguage() != LangChinese {
		t.Fatalf("language = %q, want zh", GetLanguage())
	}
	if got := T(ErrExpectedToken, "';'", "EOF"); got == "expected ';', found EOF" {
		t.Errorf("T(zh) returned the English message")
	}

	if got := T("no.such.message"); got != "no.such.message" {
		t.Errorf("unknown id = %q, want the id itself", got)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"zh", LangChinese, true},
		{"zh-CN", LangChinese, true},
		{"zh_TW.UTF-8", LangChinese, true},
		{" Chinese ", LangChinese, true},
		{"en_US.UTF-8", LangEnglish, true},
		{"en", LangEnglish, true},
		{"fr_FR", LangEnglish, false},
		{"", LangEnglish, false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLanguage(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
