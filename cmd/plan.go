package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-video-ad-kit/internal/pipeline"
)

// planCmd は、プロバイダを呼ばずにリクエスト記述子だけを書き出すのだ。
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "生成せずに、各クリップのエンドポイントとアンカーを確認するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecutePlan(cmd.Context(), loadConfig(), cmd.OutOrStdout())
	},
}
