package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-video-ad-kit/examples"
	"github.com/shouni/go-video-ad-kit/pkg/config"
	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/probe"
)

type fakeProber struct {
	results map[string]probe.Status
}

func (f fakeProber) Probe(_ context.Context, target probe.Target) probe.Result {
	return probe.Result{Target: target.Name, Status: f.results[target.Name]}
}

func fixtureInputs(t *testing.T) CheckInputs {
	t.Helper()
	pack, err := examples.LoadCharacterPack()
	if err != nil {
		t.Fatal(err)
	}
	offer, err := examples.LoadOffer()
	if err != nil {
		t.Fatal(err)
	}
	clips, err := examples.LoadClips()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	return CheckInputs{
		Pack:          pack,
		Offer:         offer,
		Clips:         clips,
		Selector:      cfg.Selector(),
		StyleSuffix:   cfg.StyleSuffix,
		LearningsPath: filepath.Join(t.TempDir(), "learnings.json"),
	}
}

func TestCheckRunner_Run(t *testing.T) {
	t.Run("埋め込みフィクスチャはすべて通過する", func(t *testing.T) {
		report := NewCheckRunner(fixtureInputs(t), nil).Run(context.Background())
		if got := report.Verdict(); got != VerdictGo {
			t.Errorf("verdict = %s, failed = %+v", got, report.Failed())
		}
		if len(report.Checks) == 0 {
			t.Fatal("no checks ran")
		}
	})

	t.Run("壊れた learnings は警告になる", func(t *testing.T) {
		in := fixtureInputs(t)
		if err := os.WriteFile(in.LearningsPath, []byte("{broken"), 0o644); err != nil {
			t.Fatal(err)
		}
		report := NewCheckRunner(in, nil).Run(context.Background())
		if got := report.Verdict(); got != VerdictWarnings {
			t.Errorf("verdict = %s", got)
		}
	})

	t.Run("形の壊れた learnings も警告になる", func(t *testing.T) {
		in := fixtureInputs(t)
		raw := `{"totals": {}, "segments": {"unaware/friend": null}}`
		if err := os.WriteFile(in.LearningsPath, []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
		report := NewCheckRunner(in, nil).Run(context.Background())
		if got := report.Verdict(); got != VerdictWarnings {
			t.Errorf("verdict = %s", got)
		}
		for _, c := range report.Checks {
			if c.Group == groupLearnings && c.Status != CheckWarn {
				t.Errorf("learnings check = %s", c.Status)
			}
		}
	})

	t.Run("不正な台本は失敗になる", func(t *testing.T) {
		in := fixtureInputs(t)
		in.Clips = []domain.ClipSpec{{Scene: "kitchen", Line: "only 19 dollars today"}}
		report := NewCheckRunner(in, nil).Run(context.Background())
		if got := report.Verdict(); got != VerdictFix {
			t.Errorf("verdict = %s", got)
		}
	})

	t.Run("疎通確認の結果を反映する", func(t *testing.T) {
		in := fixtureInputs(t)
		in.Targets = []probe.Target{{Name: "video", URL: "https://a"}, {Name: "storage", URL: "https://b"}}
		prober := fakeProber{results: map[string]probe.Status{
			"video":   probe.StatusOK,
			"storage": probe.StatusUnreachable,
		}}
		report := NewCheckRunner(in, prober).Run(context.Background())
		if got := report.Verdict(); got != VerdictWarnings {
			t.Errorf("verdict = %s", got)
		}

		prober.results["storage"] = probe.StatusQuotaExhausted
		report = NewCheckRunner(in, prober).Run(context.Background())
		if got := report.Verdict(); got != VerdictFix {
			t.Errorf("verdict = %s", got)
		}
	})
}

func TestReport_Verdict(t *testing.T) {
	tests := []struct {
		name     string
		statuses []CheckStatus
		want     Verdict
	}{
		{"空なら問題なし", nil, VerdictGo},
		{"PASS のみ", []CheckStatus{CheckPass, CheckPass}, VerdictGo},
		{"WARN を含む", []CheckStatus{CheckPass, CheckWarn}, VerdictWarnings},
		{"FAIL が優先される", []CheckStatus{CheckWarn, CheckFail, CheckPass}, VerdictFix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Report
			for _, s := range tt.statuses {
				r.add("g", "n", s, "")
			}
			if got := r.Verdict(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVerdict_String(t *testing.T) {
	want := map[Verdict]string{
		VerdictGo:       "all systems go",
		VerdictWarnings: "ready with warnings",
		VerdictFix:      "fix failures first",
	}
	for v, s := range want {
		if v.String() != s {
			t.Errorf("%d: got %q, want %q", v, v.String(), s)
		}
	}
}

func TestReviewScript(t *testing.T) {
	in := fixtureInputs(t)

	t.Run("サンプル台本は通過する", func(t *testing.T) {
		report := ReviewScript(in.Clips, in.Offer)
		if !report.Passed() {
			t.Errorf("expected pass: %+v", report.Validation.Errors)
		}
		if report.Scenes[0].Sanitized == report.Scenes[0].Original {
			t.Error("first scene should have been rewritten")
		}
		if len(report.Hooks) != 3 {
			t.Errorf("got %d hooks, want 3", len(report.Hooks))
		}
	})

	t.Run("書き換えで消えないトリガーは不合格", func(t *testing.T) {
		clips := []domain.ClipSpec{{Scene: "a man waving a knife", Line: "you need this"}}
		report := ReviewScript(clips, in.Offer)
		if report.Passed() {
			t.Error("expected failure")
		}
		if len(report.Scenes[0].Triggers) != 1 || report.Scenes[0].Triggers[0] != "knife" {
			t.Errorf("triggers = %v", report.Scenes[0].Triggers)
		}
	})
}
