package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangzhangming/mel/internal/builder"
	"github.com/tangzhangming/mel/internal/grammar"
	"github.com/tangzhangming/mel/internal/i18n"
	"github.com/tangzhangming/mel/internal/parser"
)

func parseErr(t *testing.T, src string) error {
	t.Helper()
	_, err := parser.ParseFile(src, "prog.mel")
	require.Error(t, err)
	return err
}

func TestFromErrorCodes(t *testing.T) {
	tests := []struct {
		input string
		code  string
		line  int
		col   int
	}{
		{"int a = 1", E0006, 1, 10},
		{"a = 1 ! 2;", E0002, 1, 7},
		{"a = \"open", E0003, 1, 5},
		{"/* open", E0004, 1, 1},
		{"a = 1e+;", E0005, 1, 5},
		{"a = 1;\nfoo;", E0007, 2, 4},
		{"a = b[x];", E0008, 1, 7},
		{"a = ;", E0001, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := parseErr(t, tt.input)
			ce := FromError(err)
			require.NotNil(t, ce)
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, tt.line, ce.Line)
			assert.Equal(t, tt.col, ce.Column)
			assert.Equal(t, "prog.mel", ce.File)
			assert.Equal(t, LevelError, ce.Level)

			var se *grammar.SyntaxError
			assert.True(t, stderrors.As(ce, &se), "CompileError should unwrap to the syntax error")
		})
	}
}

func TestFromErrorBuilderAndOther(t *testing.T) {
	ce := FromError(&builder.UnmappedRuleError{Rule: "mystery"})
	assert.Equal(t, E0900, ce.Code)
	assert.True(t, IsInternal(ce.Code))
	assert.NotEmpty(t, ce.Hints)

	ce = FromError(&builder.ShapeError{Rule: grammar.RuleFor, Detail: "bad"})
	assert.Equal(t, E0901, ce.Code)

	ce = FromError(fmt.Errorf("read prog.mel: %w", stderrors.New("boom")))
	assert.Equal(t, E0001, ce.Code)
	assert.Contains(t, ce.Message, "boom")

	assert.Nil(t, FromError(nil))
	assert.Same(t, ce, FromError(ce))
}

func TestSuggestions(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)

	ce := FromError(parseErr(t, "int a = 1"))
	require.NotEmpty(t, ce.Hints)
	assert.Contains(t, ce.Hints[0], "';'")

	ce = FromError(parseErr(t, "a = b[x];"))
	assert.Equal(t, []string{i18n.T(i18n.HintLiteralIndex)}, ce.Hints)

	ce = FromError(parseErr(t, "a = 1 ! 2;"))
	assert.Equal(t, []string{i18n.T(i18n.HintNotEqual)}, ce.Hints)

	ce = FromError(parseErr(t, "a = 1 & 2;"))
	assert.Equal(t, []string{i18n.T(i18n.HintNoBitwise)}, ce.Hints)

	assert.Equal(t, "while", FindSimilar("whlie", keywords, 2))
	assert.Equal(t, "return", FindSimilar("retrun", keywords, 2))
	assert.Empty(t, FindSimilar("banana", keywords, 2))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestFormatCompileError(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)

	src := "int a = 1;\nint b = 2"
	ce := FromError(parseErr(t, src))

	f := NewFormatter()
	f.Colors = false
	out := f.FormatCompileError(ce, []string{"int a = 1;", "int b = 2"})

	expected := "error[E0006]: expected ';', found end of input\n" +
		" --> prog.mel:2:10\n" +
		"  |\n" +
		"2 | int b = 2\n" +
		"  |          ^\n" +
		" = help: " + i18n.T(i18n.HintAddSemicolon) + "\n"
	assert.Equal(t, expected, out)
}

func TestFormatWithColors(t *testing.T) {
	ce := &CompileError{Code: E0001, Level: LevelError, Message: "bad", File: "x.mel", Line: 1, Column: 5}

	f := NewFormatter()
	f.Colors = true
	colored := f.FormatCompileError(ce, []string{"if (a) b = \"s\";"})
	assert.NotEqual(t, Strip(colored), colored)

	f.Colors = false
	assert.Equal(t, f.FormatCompileError(ce, []string{"if (a) b = \"s\";"}), Strip(colored))
}

func TestHighlightLine(t *testing.T) {
	lines := []string{
		`int a = 1; // comment`,
		`while (x >= 2.5) print("hi");`,
		`a = "unterminated`,
		`	if (a) { b[0] = 1; }`,
	}
	for _, line := range lines {
		highlighted := HighlightLine(line)
		assert.Equal(t, line, Strip(highlighted))
	}
	assert.Contains(t, HighlightLine("if (a) ;"), ansiCodes[ColorYellow]+"if")
}

func TestReporter(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)

	var buf bytes.Buffer
	r := NewReporter(&buf)
	f := NewFormatter()
	f.Colors = false
	r.SetFormatter(f)

	src := "a = 1;\nb = ;"
	r.SetSource("prog.mel", src)
	ce := r.Report(parseErr(t, src))
	require.NotNil(t, ce)
	assert.Nil(t, r.Report(nil))

	assert.True(t, r.HasErrors())
	assert.Equal(t, 1, r.ErrorCount())
	assert.Equal(t, "b = ;", r.GetSourceLine("prog.mel", 2))
	assert.Contains(t, buf.String(), "2 | b = ;")
	assert.Contains(t, buf.String(), "error[E0001]")

	r.Summary()
	assert.Contains(t, buf.String(), i18n.T(i18n.MsgErrorCountOne))

	r.Clear()
	assert.False(t, r.HasErrors())
	assert.Empty(t, r.Errors())
}

func TestSetColorMode(t *testing.T) {
	defer SetColorMode("auto")

	SetColorMode("always")
	assert.True(t, ColorsEnabled())
	assert.Equal(t, ansiCodes[ColorRed]+"x"+ansiCodes[ColorReset], Red("x"))

	SetColorMode("never")
	assert.False(t, ColorsEnabled())
	assert.Equal(t, "x", Red("x"))
}
