package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-video-ad-kit/internal/pipeline"
)

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "run.yaml から展開されるバリエーション ID を一覧するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteVariants(loadConfig(), cmd.OutOrStdout())
	},
}
