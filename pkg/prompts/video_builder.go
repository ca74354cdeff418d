package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/safety"
)

// DefaultNegativePrompt はパックに negative_block が無い場合に使うネガティブプロンプトです。
const DefaultNegativePrompt = "on-screen text, captions, subtitles, watermark, logo, distorted hands, extra fingers, face morphing, identity drift, low quality"

// ClipPrompt は動画生成に渡すプロンプトの組です。
type ClipPrompt struct {
	Prompt         string
	NegativePrompt string
}

// VideoPromptBuilder はキャラクターパックの共通ブロックを使ってクリップ用プロンプトを構築します。
type VideoPromptBuilder struct {
	consistency string
	negative    string
	angles      []string
	styleSuffix string
}

// NewVideoPromptBuilder は pack の globals と libraries から VideoPromptBuilder を生成します。
// pack が nil の場合は共通ブロックなしで動作します。
func NewVideoPromptBuilder(pack *domain.CharacterPack, styleSuffix string) *VideoPromptBuilder {
	b := &VideoPromptBuilder{
		negative:    DefaultNegativePrompt,
		styleSuffix: strings.TrimSpace(styleSuffix),
	}
	if pack == nil {
		return b
	}
	b.consistency = strings.TrimSpace(pack.Globals.ConsistencyBlock)
	if nb := strings.TrimSpace(pack.Globals.NegativeBlock); nb != "" {
		b.negative = nb
	}
	for _, a := range pack.Libraries.Angles {
		if a = strings.TrimSpace(a); a != "" {
			b.angles = append(b.angles, a)
		}
	}
	return b
}

// Angle は index 番目のクリップに使うカメラアングルを返します。
// ライブラリが空なら空文字列です。
func (b *VideoPromptBuilder) Angle(index int) string {
	if len(b.angles) == 0 || index < 0 {
		return ""
	}
	return b.angles[index%len(b.angles)]
}

// BuildClipPrompt はキャラクター・シーン・セリフを合成し、共通ブロックを付与して監査します。
// シーンは SanitizeScene で書き換えられます。監査に失敗した場合は *safety.AuditError を返します。
func (b *VideoPromptBuilder) BuildClipPrompt(char domain.Character, clip domain.ClipSpec, index, total int) (ClipPrompt, error) {
	core, err := safety.ComposePrompt(char.Description(), char.VoiceProfile, clip.Scene, clip.Line)
	if err != nil {
		return ClipPrompt{}, fmt.Errorf("clip %d: %w", index+1, err)
	}

	var sb strings.Builder
	if pos, ok := domain.PositionOf(index, total); ok {
		sb.WriteString(fmt.Sprintf("Clip %d of %d (%s).\n", index+1, total, pos))
	}
	sb.WriteString(core)
	if angle := b.Angle(index); angle != "" {
		sb.WriteString("\nCamera: " + angle)
	}
	if b.consistency != "" {
		sb.WriteString("\nConsistency: " + b.consistency)
	}
	if b.styleSuffix != "" {
		sb.WriteString("\nStyle: " + b.styleSuffix)
	}

	prompt := sb.String()
	if err := safety.AuditPrompt(prompt); err != nil {
		return ClipPrompt{}, fmt.Errorf("clip %d: %w", index+1, err)
	}
	return ClipPrompt{Prompt: prompt, NegativePrompt: b.negative}, nil
}
