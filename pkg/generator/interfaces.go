package generator

import (
	"context"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/endpoint"
)

// VideoGenerator は、リクエスト記述子を受け取って動画プロバイダを呼び出す外部コラボレータです。
type VideoGenerator interface {
	Generate(ctx context.Context, req endpoint.Request) (*ClipOutput, error)
}

// Uploader は、ローカル画像などをストレージへアップロードし、公開 URL を返す外部コラボレータです。
type Uploader interface {
	Upload(ctx context.Context, source string) (string, error)
}

// AdGenerator は、1本の広告プランを生成します。
type AdGenerator interface {
	Run(ctx context.Context, plan domain.AdPlan) (domain.AdResult, error)
}

// ClipOutput はプロバイダが返した1クリップ分の結果です。
type ClipOutput struct {
	VideoURL     string `json:"video_url"`
	LastFrameURL string `json:"last_frame_url,omitempty"`
}
