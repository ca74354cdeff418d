package domain

import (
	"regexp"
	"strings"
)

// digitPattern は2桁以上の数字、または "$" で始まる金額表記に一致します。
// "5,000" のような区切り付きの数値は先頭の1桁も含めて1つのマッチとして扱います。
var digitPattern = regexp.MustCompile(`\$\s?\d[\d,.]*|\d[\d,.]*\d`)

// ScriptLine は台本の1行（話し言葉）と、そこから導出した値を保持します。
type ScriptLine struct {
	Text         string   `json:"text"`
	WordCount    int      `json:"word_count"`
	DigitMatches []string `json:"digit_matches,omitempty"`
}

// NewScriptLine はテキストから ScriptLine を生成します。
func NewScriptLine(text string) ScriptLine {
	return ScriptLine{
		Text:         text,
		WordCount:    len(strings.Fields(text)),
		DigitMatches: digitPattern.FindAllString(text, -1),
	}
}

// ScriptValidationResult は台本検証の結果です。Errors が空なら有効です。
type ScriptValidationResult struct {
	Errors []string `json:"errors"`
}

// Valid は違反が1つもない場合に true を返します。
func (r ScriptValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ClipSpec は1クリップ分のシーン描写とセリフです。
type ClipSpec struct {
	Scene string `json:"scene" yaml:"scene"`
	Line  string `json:"line" yaml:"line"`
}

// Lines は clips からセリフだけを順番に取り出します。
func Lines(clips []ClipSpec) []string {
	lines := make([]string, len(clips))
	for i, c := range clips {
		lines[i] = c.Line
	}
	return lines
}
