package prompts

import (
	_ "embed"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/script"
)

const (
	// ModeCopyBrief は新規に台本を依頼するブリーフです。
	ModeCopyBrief = "copy_brief"
	// ModeRevision は検証で却下された台本の書き直しを依頼するブリーフです。
	ModeRevision = "revision"
)

// TemplateData はブリーフテンプレートに渡すデータ構造です。
type TemplateData struct {
	ProductName   string
	ProblemSolved string
	SocialProof   string
	CTA           string
	FrameworkName string
	Tone          string

	Stage    string
	Category string
	Persona  string
	Hook     string

	ClipCount    int
	MaxLineWords int
	MaxHookWords int
	Banned       []string

	PreviousErrors []string
}

// NewTemplateData はオファーとバリエーションからテンプレートデータを組み立てます。
func NewTemplateData(offer domain.Offer, entry domain.VariantEntry, persona domain.Character, hook string, clipCount int) TemplateData {
	return TemplateData{
		ProductName:   offer.ProductName,
		ProblemSolved: offer.ProblemSolved,
		SocialProof:   offer.SocialProof,
		CTA:           offer.CTA,
		FrameworkName: offer.Framework.Name,
		Tone:          offer.Framework.Tone,
		Stage:         entry.Stage.String(),
		Category:      entry.Category.String(),
		Persona:       persona.Description(),
		Hook:          hook,
		ClipCount:     clipCount,
		MaxLineWords:  script.MaxLineWords,
		MaxHookWords:  script.MaxHookWords,
		Banned:        append([]string(nil), script.BannedBuzzwords...),
	}
}

var (
	//go:embed copy_brief.md
	CopyBriefPrompt string
	//go:embed revision.md
	RevisionPrompt string
)

// briefSources はコピー生成の試行順に並べたブリーフです。
var briefSources = []struct {
	mode string
	body string
}{
	{ModeCopyBrief, CopyBriefPrompt},
	{ModeRevision, RevisionPrompt},
}
