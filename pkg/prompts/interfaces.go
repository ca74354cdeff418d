package prompts

import "github.com/shouni/go-video-ad-kit/pkg/domain"

// ClipPromptBuilder は、動画クリップ用プロンプトを構築する契約です。
type ClipPromptBuilder interface {
	// BuildClipPrompt は、clip 用の監査済みプロンプトとネガティブプロンプトを返します。
	BuildClipPrompt(char domain.Character, clip domain.ClipSpec, index, total int) (ClipPrompt, error)
}

// BriefBuilder は、コピー生成 AI に渡すブリーフを構築する契約です。
type BriefBuilder interface {
	Build(mode string, data TemplateData) (string, error)
}
