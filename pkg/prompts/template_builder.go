package prompts

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

var (
	// ErrUnknownMode は登録されていないブリーフモードが指定された場合のエラーです。
	ErrUnknownMode = errors.New("unknown brief mode")
	// ErrNoRevisionErrors は書き直しブリーフに前回の違反が渡されなかった場合のエラーです。
	ErrNoRevisionErrors = errors.New("revision brief requires previous errors")
)

// TextPromptBuilder はコピー生成用のブリーフを組み立てます。
// 初回は ModeCopyBrief、検証で却下された後は ModeRevision を使います。
type TextPromptBuilder struct {
	briefs map[string]*template.Template
}

// NewTextPromptBuilder は埋め込みのブリーフテンプレートをすべて解析します。
// テンプレートが空、または未定義のフィールドを参照している場合はエラーを返します。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	briefs := make(map[string]*template.Template, len(briefSources))
	for _, src := range briefSources {
		if strings.TrimSpace(src.body) == "" {
			return nil, fmt.Errorf("ブリーフ %q の埋め込みテンプレートが空です", src.mode)
		}
		tmpl, err := template.New(src.mode).Option("missingkey=error").Parse(src.body)
		if err != nil {
			return nil, fmt.Errorf("ブリーフ %q の解析に失敗: %w", src.mode, err)
		}
		briefs[src.mode] = tmpl
	}
	return &TextPromptBuilder{briefs: briefs}, nil
}

// Build は mode のブリーフに data を流し込みます。
// ModeRevision では data.PreviousErrors が1件以上必要です。
func (b *TextPromptBuilder) Build(mode string, data TemplateData) (string, error) {
	tmpl, ok := b.briefs[mode]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if mode == ModeRevision && len(data.PreviousErrors) == 0 {
		return "", ErrNoRevisionErrors
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("ブリーフ %q の実行に失敗しました: %w", mode, err)
	}
	return sb.String(), nil
}
