package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-video-ad-kit/internal/pipeline"
)

// generateCmd は、プロバイダを実際に呼び出して広告を生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "動画プロバイダを呼び出して広告を生成するのだ。",
	Long: `run.yaml の組み合わせをバリエーションに展開し、ペルソナと台本を決めて
クリップを順番に生成するのだ。chained モードでは前のクリップの末尾フレームを次へ引き継ぐのだよ。`,
	RunE: generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	slog.Info("広告生成パイプラインを起動するのだ！",
		"run", opts.RunFile,
		"mode", opts.Mode,
		"text_endpoint", cfg.Ad.TextToVideo,
		"frames_endpoint", cfg.Ad.FirstLastFrame)

	if err := pipeline.ExecuteGenerate(ctx, cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
