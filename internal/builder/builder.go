package builder

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/time/rate"

	"github.com/shouni/go-video-ad-kit/examples"
	"github.com/shouni/go-video-ad-kit/internal/config"
	"github.com/shouni/go-video-ad-kit/pkg/character"
	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/generator"
	"github.com/shouni/go-video-ad-kit/pkg/probe"
	"github.com/shouni/go-video-ad-kit/pkg/prompts"
	"github.com/shouni/go-video-ad-kit/pkg/provider"
	"github.com/shouni/go-video-ad-kit/pkg/runner"
	"github.com/shouni/go-video-ad-kit/pkg/stats"
)

// embeddedPackKey は埋め込みキャラクターパックのキャッシュキーです。
const embeddedPackKey = "embedded:characters.json"

var packLoader = character.NewLoader()

// LoadOffer は run 設定のオファーを読み込みます。パスが空なら埋め込みのサンプルを使います。
func LoadOffer(run *config.RunConfig) (domain.Offer, error) {
	if run.Offer == "" {
		slog.Debug("オファーの指定がないので埋め込みサンプルを使います")
		return examples.LoadOffer()
	}
	data, err := os.ReadFile(run.Offer)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("オファー '%s' の読み込みに失敗しました: %w", run.Offer, err)
	}
	return domain.ParseOffer(data)
}

// LoadCharacterPack は run 設定のキャラクターパックを読み込みます。パスが空なら埋め込みのサンプルを使います。
func LoadCharacterPack(run *config.RunConfig) (*domain.CharacterPack, error) {
	if run.Characters == "" {
		return packLoader.LoadBytes(embeddedPackKey, examples.CharactersJSON)
	}
	return packLoader.Load(run.Characters)
}

// BuildSequencer はプロバイダ・レートリミッタ・統計シンクを束ねた Sequencer を構築します。
func BuildSequencer(appCtx *AppContext) *generator.Sequencer {
	cfg := appCtx.Config.Ad
	videoGen := provider.NewClient(appCtx.httpClient, cfg.ProviderBaseURL, cfg.ProviderAPIKey)

	var limiter *rate.Limiter
	if cfg.RateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RateInterval), max(cfg.RateBurst, 1))
	}

	var sink stats.Sink
	if appCtx.Stats != nil {
		sink = appCtx.Stats
	}

	composer := generator.NewVideoComposer(
		videoGen,
		prompts.NewVideoPromptBuilder(appCtx.Pack, cfg.StyleSuffix),
		cfg.Selector(),
		limiter,
		sink,
	)
	composer.Retry.MaxRetries = cfg.MaxRetries
	if cfg.InitialBackoff > 0 {
		composer.Retry.InitialInterval = cfg.InitialBackoff
	}
	composer.RequestTimeout = cfg.RequestTimeout
	return generator.NewSequencer(composer)
}

// BuildScriptRunner は台本ファイルをコピー生成の応答として扱う AdScriptRunner を構築します。
// 台本の指定がない場合は nil を返します。
func BuildScriptRunner(appCtx *AppContext) (*runner.AdScriptRunner, error) {
	if appCtx.Run.Script == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(appCtx.Run.Script)
	if err != nil {
		return nil, fmt.Errorf("台本ファイル '%s' の読み込みに失敗しました: %w", appCtx.Run.Script, err)
	}
	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("ブリーフビルダーの初期化に失敗しました: %w", err)
	}
	copyGen := &runner.StaticCopyGenerator{Responses: []string{string(raw)}}
	return runner.NewAdScriptRunner(pb, copyGen, 1), nil
}

// BuildAdRunner はバリエーション単位の生成を担当する AdRunner を構築します。
func BuildAdRunner(appCtx *AppContext, anchors domain.AnchorURLs) (*runner.AdRunner, error) {
	scripts, err := BuildScriptRunner(appCtx)
	if err != nil {
		return nil, err
	}
	if scripts == nil {
		return nil, fmt.Errorf("台本 (script) が指定されていません")
	}

	run := appCtx.Run
	concurrency := appCtx.Options.Concurrency
	if concurrency < 1 {
		concurrency = appCtx.Config.Ad.Concurrency
	}
	opts := runner.Options{
		ClipCount:            run.ClipCount,
		Mode:                 run.Mode,
		Anchors:              anchors,
		OutputDir:            run.OutputDir,
		PreferredCharacterID: run.Character.PreferredID,
		AgeHint:              run.Character.AgeHint,
		GenderPref:           run.Character.Gender,
		Concurrency:          concurrency,
	}
	return runner.NewAdRunner(appCtx.Offer, appCtx.Pack, scripts, BuildSequencer(appCtx), appCtx.Writer, opts), nil
}

// BuildAnchorPreparer はローカル画像をアップロードする AnchorPreparer を構築します。
func BuildAnchorPreparer(appCtx *AppContext) *generator.AnchorPreparer {
	cfg := appCtx.Config
	return generator.NewAnchorPreparer(provider.NewUploader(appCtx.httpClient, cfg.UploadURL, cfg.Ad.ProviderAPIKey))
}

// BuildProber は疎通確認用の Prober を構築します。
func BuildProber(appCtx *AppContext) *probe.Prober {
	return probe.NewProber(appCtx.httpClient)
}
