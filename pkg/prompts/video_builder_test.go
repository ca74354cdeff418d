package prompts

import (
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/safety"
)

func testPack() *domain.CharacterPack {
	return &domain.CharacterPack{
		Characters: []domain.Character{{ID: "CHR_A", Name: "Avery", Gender: "female", VoiceProfile: "warm, unhurried"}},
		Globals:    domain.PackGlobals{ConsistencyBlock: "same face and outfit in every clip", NegativeBlock: "no text overlays"},
		Libraries:  domain.PackLibraries{Angles: []string{"eye-level close-up", "over-the-shoulder", ""}},
	}
}

func TestVideoPromptBuilder_BuildClipPrompt(t *testing.T) {
	pack := testPack()
	b := NewVideoPromptBuilder(pack, "vertical UGC")
	clip := domain.ClipSpec{Scene: "A stressed woman in her kitchen", Line: "i finally sleep through the night"}

	got, err := b.BuildClipPrompt(pack.Characters[0], clip, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Clip 1 of 3 (first).",
		"Scene: A thoughtful woman in her kitchen",
		"Voice: warm, unhurried",
		"Camera: eye-level close-up",
		"Consistency: same face and outfit in every clip",
		"Style: vertical UGC",
	} {
		if !strings.Contains(got.Prompt, want) {
			t.Errorf("プロンプトに %q が含まれていません:\n%s", want, got.Prompt)
		}
	}
	if safety.ContainsSceneTrigger(got.Prompt) {
		t.Errorf("トリガー語が残っています:\n%s", got.Prompt)
	}
	if got.NegativePrompt != "no text overlays" {
		t.Errorf("unexpected negative prompt %q", got.NegativePrompt)
	}
}

func TestVideoPromptBuilder_Angle(t *testing.T) {
	b := NewVideoPromptBuilder(testPack(), "")
	if b.Angle(0) != "eye-level close-up" || b.Angle(1) != "over-the-shoulder" || b.Angle(2) != "eye-level close-up" {
		t.Errorf("アングルの循環が不正です: %q %q %q", b.Angle(0), b.Angle(1), b.Angle(2))
	}

	empty := NewVideoPromptBuilder(nil, "")
	if empty.Angle(3) != "" {
		t.Error("空のライブラリでアングルが返りました")
	}
	if empty.negative != DefaultNegativePrompt {
		t.Errorf("デフォルトのネガティブプロンプトを期待しましたが %q でした", empty.negative)
	}
}

func TestVideoPromptBuilder_Audit(t *testing.T) {
	t.Run("セリフのトリガー語で却下されること", func(t *testing.T) {
		b := NewVideoPromptBuilder(testPack(), "")
		_, err := b.BuildClipPrompt(domain.Character{Name: "Avery"}, domain.ClipSpec{Scene: "kitchen", Line: "no weapon needed"}, 1, 3)
		var auditErr *safety.AuditError
		if !errors.As(err, &auditErr) {
			t.Fatalf("*safety.AuditError を期待しましたが %v でした", err)
		}
	})

	t.Run("共通ブロックのトリガー語も監査されること", func(t *testing.T) {
		pack := testPack()
		pack.Globals.ConsistencyBlock = "looks like a celebrity"
		b := NewVideoPromptBuilder(pack, "")
		_, err := b.BuildClipPrompt(pack.Characters[0], domain.ClipSpec{Scene: "kitchen", Line: "hello"}, 0, 1)
		var auditErr *safety.AuditError
		if !errors.As(err, &auditErr) || auditErr.Hits[0] != "celebrity" {
			t.Fatalf("celebrity の監査エラーを期待しましたが %v でした", err)
		}
	})
}
