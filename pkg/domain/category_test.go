package domain

import "testing"

func TestParseAwarenessStage(t *testing.T) {
	for _, s := range AllStages() {
		got, err := ParseAwarenessStage(s.String())
		if err != nil || got != s {
			t.Errorf("ParseAwarenessStage(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, err := ParseAwarenessStage("Problem-Aware"); err != nil || got != StageProblemAware {
		t.Errorf("表記ゆれを解決できませんでした: %v, %v", got, err)
	}
	if _, err := ParseAwarenessStage("curious"); err == nil {
		t.Error("未知の段階でエラーが発生しませんでした")
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory(""); err == nil {
		t.Error("空文字列でエラーが発生しませんでした")
	}
}

func TestParseGenerationMode(t *testing.T) {
	for raw, want := range map[string]GenerationMode{"": ModeChained, "Chained": ModeChained, " validate ": ModeValidate} {
		got, err := ParseGenerationMode(raw)
		if err != nil || got != want {
			t.Errorf("ParseGenerationMode(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	if _, err := ParseGenerationMode("turbo"); err == nil {
		t.Error("未知のモードでエラーが返りませんでした")
	}
}
