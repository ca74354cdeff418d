package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shouni/go-video-ad-kit/internal/config"
)

const appName = "video-ad-kit"

// opts は全サブコマンドで共有する CLI フラグの格納先なのだ。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:               appName,
	Short:             "複数クリップの UGC 動画広告を、アンカーフレームでつなぎながら生成するのだ。",
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.RunFile, "run", "r", "", "生成ジョブを記述した run.yaml のパスなのだ（未指定なら埋め込みサンプル）。")
	rootCmd.PersistentFlags().StringVarP(&opts.ScriptFile, "script-file", "f", "", "台本 JSON のパス（run.yaml の script を上書きするのだ）。")
	rootCmd.PersistentFlags().StringVarP(&opts.CharConfig, "char-config", "c", "", "キャラクターパック JSON のパスなのだ。")

	// --- 出力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "マニフェストの保存先ディレクトリなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.LearningsFile, "learnings", "", "learnings.json のパスなのだ。")

	// --- 生成挙動 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Mode, "mode", "m", "", "生成モード（chained | validate）なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.VariantCount, "variants", 0, "組み合わせごとのバリエーション数なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.ClipCount, "clips", 0, "1本あたりのクリップ数なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Concurrency, "concurrency", 0, "同時に生成する広告の数なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.CharacterID, "character", "", "ペルソナ選択を上書きするキャラクター ID なのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "HTTP リクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
	checkCmd.Flags().BoolVar(&opts.SkipProbes, "skip-probes", false, "疎通確認を飛ばすのだ。")
}

// preRunAppE は、コマンド実行前に .env の読み込みとロガーの設定を行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn(".env の読み込みに失敗したのだ", "error", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数と CLI フラグから設定を組み立てるのだ
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	if opts.Concurrency > 0 {
		cfg.Ad.Concurrency = opts.Concurrency
	}
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		checkCmd,
		planCmd,
		generateCmd,
		variantsCmd,
		scriptCmd,
	)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
