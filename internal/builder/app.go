package builder

import (
	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/go-video-ad-kit/internal/config"
	"github.com/shouni/go-video-ad-kit/pkg/asset"
	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/stats"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、エンドポイントなど）。
	Options    config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です（モード、出力先など）。
	Run        *config.RunConfig       // Runは、run.yaml に書かれた生成ジョブです。
	Offer      domain.Offer            // Offerは、広告対象の商品情報です。
	Pack       *domain.CharacterPack   // Packは、ペルソナ選択とプロンプト構築に使うキャラクターパックです。
	Writer     asset.Writer            // Writerは、マニフェストを保存するための出力先です。
	Stats      *stats.FileSink         // Statsは、learnings.json へ集計を書き出すシンクです。
	httpClient httpkit.ClientInterface // httpClient は外部APIとの通信に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	run *config.RunConfig,
	httpClient httpkit.ClientInterface,
	offer domain.Offer,
	pack *domain.CharacterPack,
	writer asset.Writer,
	sink *stats.FileSink,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Run:        run,
		Offer:      offer,
		Pack:       pack,
		Writer:     writer,
		Stats:      sink,
		httpClient: httpClient,
	}
}
