package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-video-ad-kit/internal/pipeline"
)

// checkCmd は、有料の生成を呼ばずにパイプラインの各部品を検査するのだ。
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "埋め込みフィクスチャでパイプラインを検査し、判定を表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := pipeline.ExecuteCheck(cmd.Context(), loadConfig(), cmd.OutOrStdout())
		return err
	},
}
