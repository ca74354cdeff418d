package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

func TestLoadConfig(t *testing.T) {
	t.Run("環境変数が設定に反映される", func(t *testing.T) {
		t.Setenv("FAL_KEY", "secret")
		t.Setenv("FAL_BASE_URL", "https://example.test")
		t.Setenv("RATE_INTERVAL", "3s")
		t.Setenv("GENERATE_AUDIO", "false")
		t.Setenv("MAX_RETRIES", "5")

		cfg := LoadConfig()
		if cfg.Ad.ProviderAPIKey != "secret" {
			t.Errorf("api key = %q", cfg.Ad.ProviderAPIKey)
		}
		if cfg.Ad.ProviderBaseURL != "https://example.test" {
			t.Errorf("base url = %q", cfg.Ad.ProviderBaseURL)
		}
		if cfg.Ad.RateInterval != 3*time.Second {
			t.Errorf("rate interval = %v", cfg.Ad.RateInterval)
		}
		if cfg.Ad.GenerateAudio {
			t.Error("generate audio should be false")
		}
		if cfg.Ad.MaxRetries != 5 {
			t.Errorf("max retries = %d", cfg.Ad.MaxRetries)
		}
	})

	t.Run("解釈できない値は既定値になる", func(t *testing.T) {
		t.Setenv("RATE_INTERVAL", "soon")
		t.Setenv("MAX_RETRIES", "many")
		cfg := LoadConfig()
		if cfg.Ad.RateInterval <= 0 {
			t.Errorf("rate interval = %v", cfg.Ad.RateInterval)
		}
		if cfg.Ad.MaxRetries != 3 {
			t.Errorf("max retries = %d", cfg.Ad.MaxRetries)
		}
	})
}

const sampleRun = `
offer: offer.json
characters: characters.json
mode: validate
clip_count: 4
combos:
  - stage: problem-aware
    category: Skeptic
anchors:
  sheet: https://cdn.example.com/sheet.png
probes:
  - name: provider
    url: https://example.test/health
`

func TestParseRunConfig(t *testing.T) {
	t.Run("YAML をパースして既定値を補う", func(t *testing.T) {
		rc, err := ParseRunConfig([]byte(sampleRun))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rc.Mode != domain.ModeValidate {
			t.Errorf("mode = %v", rc.Mode)
		}
		if rc.ClipCount != 4 {
			t.Errorf("clip count = %d", rc.ClipCount)
		}
		if rc.VariantCount != DefaultVariantCount {
			t.Errorf("variant count = %d", rc.VariantCount)
		}
		want := domain.Combo{Stage: domain.StageProblemAware, Category: domain.CategorySkeptic}
		if len(rc.Combos) != 1 || rc.Combos[0] != want {
			t.Errorf("combos = %+v", rc.Combos)
		}
		if rc.Anchors.Sheet != "https://cdn.example.com/sheet.png" {
			t.Errorf("sheet = %q", rc.Anchors.Sheet)
		}
		if rc.OutputDir != DefaultOutputDir || rc.Learnings != DefaultLearningsFile {
			t.Errorf("defaults not applied: %+v", rc)
		}
		if len(rc.Probes) != 1 || rc.Probes[0].Name != "provider" {
			t.Errorf("probes = %+v", rc.Probes)
		}
	})

	t.Run("未知のモードはエラー", func(t *testing.T) {
		_, err := ParseRunConfig([]byte("mode: turbo\ncombos:\n  - stage: unaware\n    category: friend\n"))
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("未知のカテゴリはエラー", func(t *testing.T) {
		_, err := ParseRunConfig([]byte("combos:\n  - stage: unaware\n    category: pirate\n"))
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("combos が空ならエラー", func(t *testing.T) {
		if _, err := ParseRunConfig([]byte("mode: chained\n")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("url のない probe はエラー", func(t *testing.T) {
		raw := "combos:\n  - stage: unaware\n    category: friend\nprobes:\n  - name: x\n"
		if _, err := ParseRunConfig([]byte(raw)); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestLoadRunConfig(t *testing.T) {
	t.Run("ファイルから読み込める", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.yaml")
		if err := os.WriteFile(path, []byte(sampleRun), 0o644); err != nil {
			t.Fatal(err)
		}
		rc, err := LoadRunConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rc.Offer != "offer.json" {
			t.Errorf("offer = %q", rc.Offer)
		}
	})

	t.Run("存在しないファイルはエラー", func(t *testing.T) {
		if _, err := LoadRunConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestApplyOptions(t *testing.T) {
	t.Run("フラグが run 設定を上書きする", func(t *testing.T) {
		rc, err := ParseRunConfig([]byte(sampleRun))
		if err != nil {
			t.Fatal(err)
		}
		err = rc.ApplyOptions(GenerateOptions{Mode: "chained", VariantCount: 3, CharacterID: "CHR_X", OutputDir: "out"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rc.Mode != domain.ModeChained || rc.VariantCount != 3 || rc.Character.PreferredID != "CHR_X" || rc.OutputDir != "out" {
			t.Errorf("options not applied: %+v", rc)
		}
	})

	t.Run("不正なモードフラグはエラー", func(t *testing.T) {
		rc := &RunConfig{}
		if err := rc.ApplyOptions(GenerateOptions{Mode: "fast"}); err == nil {
			t.Fatal("expected error")
		}
	})
}
