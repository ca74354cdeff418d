package config

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/shouni/go-utils/envutil"

	adconfig "github.com/shouni/go-video-ad-kit/pkg/config"
)

// デフォルト値の定義なのだ
const (
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultRunFile       = "examples/run.yaml"
	DefaultOutputDir     = "output"
	DefaultLearningsFile = "output/learnings.json"
	DefaultUploadURL     = "https://rest.alpha.fal.ai/storage/upload"
	DefaultVariantCount  = 1
)

// Config はアプリケーション全体の環境設定（APIキーやプロバイダ設定）を保持する構造体なのだ。
type Config struct {
	Ad        adconfig.Config
	UploadURL string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	ad := adconfig.DefaultConfig()
	ad.ProviderBaseURL = envutil.GetEnv("FAL_BASE_URL", ad.ProviderBaseURL)
	ad.ProviderAPIKey = envutil.GetEnv("FAL_KEY", "")
	ad.TextToVideo = envutil.GetEnv("VIDEO_TEXT_ENDPOINT", ad.TextToVideo)
	ad.FirstLastFrame = envutil.GetEnv("VIDEO_FRAMES_ENDPOINT", ad.FirstLastFrame)
	ad.ClipDuration = envutil.GetEnv("CLIP_DURATION", ad.ClipDuration)
	ad.AspectRatio = envutil.GetEnv("ASPECT_RATIO", ad.AspectRatio)
	ad.StyleSuffix = envutil.GetEnv("STYLE_SUFFIX", ad.StyleSuffix)
	ad.GenerateAudio = envBool("GENERATE_AUDIO", ad.GenerateAudio)
	ad.RateInterval = envDuration("RATE_INTERVAL", ad.RateInterval)
	ad.RequestTimeout = envDuration("REQUEST_TIMEOUT", ad.RequestTimeout)
	ad.MaxRetries = envInt("MAX_RETRIES", ad.MaxRetries)

	return &Config{
		Ad:        ad,
		UploadURL: envutil.GetEnv("UPLOAD_URL", DefaultUploadURL),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入力関連
	RunFile    string // --run
	ScriptFile string // --script-file
	CharConfig string // --char-config

	// 出力関連
	OutputDir     string // --output-dir
	LearningsFile string // --learnings

	// 生成挙動
	Mode         string // --mode: chained | validate
	VariantCount int    // --variants
	ClipCount    int    // --clips
	Concurrency  int    // --concurrency
	CharacterID  string // --character

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
	SkipProbes  bool          // --skip-probes
	Verbose     bool          // --verbose
}

func envInt(key string, fallback int) int {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("環境変数を整数として解釈できないので既定値を使うのだ", "key", key, "value", raw)
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("環境変数を真偽値として解釈できないので既定値を使うのだ", "key", key, "value", raw)
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("環境変数を時間として解釈できないので既定値を使うのだ", "key", key, "value", raw)
		return fallback
	}
	return v
}
