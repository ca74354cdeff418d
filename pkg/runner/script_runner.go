package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/prompts"
	"github.com/shouni/go-video-ad-kit/pkg/script"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// ErrScriptAttemptsExhausted は再生成しても検証を通過する台本が得られなかったことを表します。
var ErrScriptAttemptsExhausted = errors.New("no valid script after all attempts")

// CopyGenerator は、ブリーフから台本 JSON を生成する外部コラボレータ (LLM) です。
type CopyGenerator interface {
	GenerateCopy(ctx context.Context, brief string) (string, error)
}

// scriptResponse はコピー生成の応答形式です。
type scriptResponse struct {
	Clips []domain.ClipSpec `json:"clips"`
}

// ScriptAttemptError は最後の試行で残った違反を保持します。
type ScriptAttemptError struct {
	Attempts int
	Errors   []string
}

func (e *ScriptAttemptError) Error() string {
	return fmt.Sprintf("%v (%d attempts): %s", ErrScriptAttemptsExhausted, e.Attempts, strings.Join(e.Errors, "; "))
}

func (e *ScriptAttemptError) Unwrap() error { return ErrScriptAttemptsExhausted }

// AdScriptRunner はブリーフを組み立ててコピー生成を呼び出し、検証を通過するまで再生成します。
type AdScriptRunner struct {
	promptBuilder prompts.BriefBuilder
	copyGen       CopyGenerator
	maxAttempts   int
}

// NewAdScriptRunner は依存関係を注入して初期化します。
func NewAdScriptRunner(pb prompts.BriefBuilder, copyGen CopyGenerator, maxAttempts int) *AdScriptRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &AdScriptRunner{
		promptBuilder: pb,
		copyGen:       copyGen,
		maxAttempts:   maxAttempts,
	}
}

// Run は data のブリーフから台本を生成します。
// 検証に失敗した場合は違反をブリーフに含めて書き直しを依頼し、最大 maxAttempts 回まで試行します。
func (sr *AdScriptRunner) Run(ctx context.Context, data prompts.TemplateData) ([]domain.ClipSpec, error) {
	mode := prompts.ModeCopyBrief
	var lastErrors []string

	for attempt := 1; attempt <= sr.maxAttempts; attempt++ {
		brief, err := sr.promptBuilder.Build(mode, data)
		if err != nil {
			return nil, fmt.Errorf("ブリーフ生成に失敗: %w", err)
		}

		slog.InfoContext(ctx, "ScriptRunner: Requesting ad copy", "mode", mode, "attempt", attempt, "stage", data.Stage, "category", data.Category)
		raw, err := sr.copyGen.GenerateCopy(ctx, brief)
		if err != nil {
			return nil, fmt.Errorf("コピー生成に失敗: %w", err)
		}

		clips, err := parseResponse(raw)
		if err != nil {
			lastErrors = []string{err.Error()}
		} else {
			result := script.ValidateScript(domain.Lines(clips))
			if result.Valid() {
				return clips, nil
			}
			lastErrors = result.Errors
		}

		slog.WarnContext(ctx, "ScriptRunner: Script rejected, requesting revision", "attempt", attempt, "errors", len(lastErrors))
		mode = prompts.ModeRevision
		data.PreviousErrors = lastErrors
	}

	return nil, &ScriptAttemptError{Attempts: sr.maxAttempts, Errors: lastErrors}
}

func parseResponse(raw string) ([]domain.ClipSpec, error) {
	raw = strings.TrimSpace(raw)
	var rawJSON string

	matches := jsonBlockRegex.FindStringSubmatch(raw)
	if len(matches) > 1 {
		rawJSON = matches[1]
	} else {
		first := strings.Index(raw, "{")
		last := strings.LastIndex(raw, "}")
		if first != -1 && last > first {
			rawJSON = raw[first : last+1]
		} else {
			rawJSON = raw
		}
	}

	var resp scriptResponse
	if err := json.Unmarshal([]byte(rawJSON), &resp); err != nil {
		return nil, fmt.Errorf("台本 JSON の解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), err)
	}
	if len(resp.Clips) == 0 {
		return nil, fmt.Errorf("台本にクリップがありません")
	}
	return resp.Clips, nil
}

// truncateString は maxLen バイト以内で、文字の途中を切らずに切り詰めます。
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// StaticCopyGenerator は固定の台本 JSON を返すコピー生成です。オフライン実行とテストで使います。
type StaticCopyGenerator struct {
	Responses []string

	mu    sync.Mutex
	calls int
}

// GenerateCopy は Responses を順に返し、尽きた後は最後の応答を返し続けます。
func (g *StaticCopyGenerator) GenerateCopy(_ context.Context, _ string) (string, error) {
	if len(g.Responses) == 0 {
		return "", errors.New("no static copy configured")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	if i >= len(g.Responses) {
		i = len(g.Responses) - 1
	}
	g.calls++
	return g.Responses[i], nil
}
