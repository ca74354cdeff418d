// Package endpoint はアンカーの有無から動画生成エンドポイントとペイロードを選択します。
package endpoint

import (
	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

const (
	// DefaultTextToVideo はテキストのみから動画を生成するエンドポイントです。
	DefaultTextToVideo = "fal-ai/veo3.1/fast"
	// DefaultFirstLastFrame は先頭・末尾フレームを指定して動画を生成するエンドポイントです。
	DefaultFirstLastFrame = "fal-ai/veo3.1/fast/first-last-frame-to-video"
)

// Payload はプロバイダに送る JSON ボディです。
// フレーム URL は有効な https URL の場合にのみ設定されます。
type Payload struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	FirstFrameURL  string `json:"first_frame_url,omitempty"`
	LastFrameURL   string `json:"last_frame_url,omitempty"`
	Duration       string `json:"duration,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	GenerateAudio  bool   `json:"generate_audio"`
}

// HasFrames はフレーム指定が1つ以上ある場合に true を返します。
func (p Payload) HasFrames() bool {
	return p.FirstFrameURL != "" || p.LastFrameURL != ""
}

// Request は HTTP クライアントが実際にプロバイダへ送る呼び出しの記述子です。
type Request struct {
	Endpoint string  `json:"endpoint"`
	Payload  Payload `json:"payload"`
}

// Selector はエンドポイント名と共通のペイロード設定を保持します。
type Selector struct {
	TextToVideo    string
	FirstLastFrame string
	Duration       string
	AspectRatio    string
	GenerateAudio  bool
}

// NewSelector は既定のエンドポイント名で Selector を生成します。
func NewSelector() Selector {
	return Selector{
		TextToVideo:    DefaultTextToVideo,
		FirstLastFrame: DefaultFirstLastFrame,
		GenerateAudio:  true,
	}
}

// Select はアンカーペアからリクエストを組み立てます。
// どちらも有効な https URL でなければテキストから動画を生成するエンドポイントを選び、
// フレームのフィールドは送りません。
func (s Selector) Select(pair domain.AnchorPair) Request {
	first, last := pair.First.IsHTTPS(), pair.Last.IsHTTPS()
	if !first && !last {
		return s.TextOnly()
	}

	req := Request{Endpoint: s.FirstLastFrame, Payload: s.basePayload()}
	if first {
		req.Payload.FirstFrameURL = pair.First.String()
	}
	if last {
		req.Payload.LastFrameURL = pair.Last.String()
	}
	return req
}

// TextOnly はアンカーを使わない validate モード用のリクエストを返します。
func (s Selector) TextOnly() Request {
	return Request{Endpoint: s.TextToVideo, Payload: s.basePayload()}
}

// WithPrompt はプロンプトを設定したリクエストのコピーを返します。
func (r Request) WithPrompt(prompt, negative string) Request {
	r.Payload.Prompt = prompt
	r.Payload.NegativePrompt = negative
	return r
}

func (s Selector) basePayload() Payload {
	return Payload{
		Duration:      s.Duration,
		AspectRatio:   s.AspectRatio,
		GenerateAudio: s.GenerateAudio,
	}
}
