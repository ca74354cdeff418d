package runner

import (
	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/safety"
	"github.com/shouni/go-video-ad-kit/pkg/script"
)

// SceneReview は1クリップ分のシーン書き換え結果なのだ。
type SceneReview struct {
	Index     int      `json:"index"`
	Original  string   `json:"original"`
	Sanitized string   `json:"sanitized"`
	Triggers  []string `json:"triggers,omitempty"`
}

// ScriptReport は台本ファイルのレビュー結果なのだ。
type ScriptReport struct {
	Lines      []domain.ScriptLine           `json:"lines"`
	Validation domain.ScriptValidationResult `json:"validation"`
	Scenes     []SceneReview                 `json:"scenes"`
	Hooks      []script.HookResult           `json:"hooks"`
}

// Passed は台本が検証を通過し、どのシーンにもトリガー語が残っていない場合に true を返すのだ。
func (r ScriptReport) Passed() bool {
	if !r.Validation.Valid() {
		return false
	}
	for _, s := range r.Scenes {
		if len(s.Triggers) > 0 {
			return false
		}
	}
	return true
}

// ReviewScript は台本を検証し、シーンの書き換え結果とフックの順位をまとめるのだ。
func ReviewScript(clips []domain.ClipSpec, offer domain.Offer) ScriptReport {
	lines := domain.Lines(clips)
	report := ScriptReport{
		Lines:      make([]domain.ScriptLine, len(lines)),
		Validation: script.ValidateScript(lines),
		Scenes:     make([]SceneReview, len(clips)),
		Hooks:      script.RankHooks(offer),
	}
	for i, l := range lines {
		report.Lines[i] = domain.NewScriptLine(l)
	}
	for i, c := range clips {
		sanitized := safety.SanitizeScene(c.Scene)
		report.Scenes[i] = SceneReview{
			Index:     i,
			Original:  c.Scene,
			Sanitized: sanitized,
			Triggers:  safety.FindVeoTriggers(sanitized),
		}
	}
	return report
}
