package config

import (
	"time"

	"github.com/shouni/go-video-ad-kit/pkg/endpoint"
)

// デフォルト値の定義
const (
	DefaultProviderBaseURL   = "https://fal.run"
	DefaultClipDuration      = "8s"
	DefaultAspectRatio       = "9:16"
	DefaultRateInterval      = 10 * time.Second
	DefaultRateBurst         = 1
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 2 * time.Second
	DefaultRequestTimeout    = 5 * time.Minute
	DefaultConcurrency       = 2
	DefaultMaxScriptAttempts = 3
	DefaultStyleSuffix       = "vertical UGC smartphone footage, natural window light, handheld, authentic, realistic skin texture, no on-screen text, no captions, no logos"
)

// Config は Go Video Ad Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- Provider Settings ---
	ProviderBaseURL string
	ProviderAPIKey  string
	TextToVideo     string // アンカー無しで使うエンドポイント
	FirstLastFrame  string // 先頭・末尾フレーム指定で使うエンドポイント

	// --- Generation Settings ---
	ClipDuration  string
	AspectRatio   string
	GenerateAudio bool
	StyleSuffix   string

	// --- Rate Limit & Concurrency ---
	RateInterval time.Duration
	RateBurst    int
	Concurrency  int

	// --- Timeout & Retries ---
	RequestTimeout time.Duration
	MaxRetries     int
	InitialBackoff time.Duration

	// --- Script Settings ---
	MaxScriptAttempts int
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		ProviderBaseURL:   DefaultProviderBaseURL,
		TextToVideo:       endpoint.DefaultTextToVideo,
		FirstLastFrame:    endpoint.DefaultFirstLastFrame,
		ClipDuration:      DefaultClipDuration,
		AspectRatio:       DefaultAspectRatio,
		GenerateAudio:     true,
		StyleSuffix:       DefaultStyleSuffix,
		RateInterval:      DefaultRateInterval,
		RateBurst:         DefaultRateBurst,
		Concurrency:       DefaultConcurrency,
		RequestTimeout:    DefaultRequestTimeout,
		MaxRetries:        DefaultMaxRetries,
		InitialBackoff:    DefaultInitialBackoff,
		MaxScriptAttempts: DefaultMaxScriptAttempts,
	}
}

// Selector は設定からエンドポイントセレクタを組み立てます。
func (c Config) Selector() endpoint.Selector {
	s := endpoint.Selector{
		TextToVideo:    c.TextToVideo,
		FirstLastFrame: c.FirstLastFrame,
		Duration:       c.ClipDuration,
		AspectRatio:    c.AspectRatio,
		GenerateAudio:  c.GenerateAudio,
	}
	if s.TextToVideo == "" {
		s.TextToVideo = endpoint.DefaultTextToVideo
	}
	if s.FirstLastFrame == "" {
		s.FirstLastFrame = endpoint.DefaultFirstLastFrame
	}
	return s
}
