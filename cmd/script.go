package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-video-ad-kit/internal/pipeline"
)

// scriptCmd は、台本ファイルの検証とフックの順位付けを行うのだ。
var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "台本を検証し、シーンの書き換えとフック候補を表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := pipeline.ExecuteScript(loadConfig(), cmd.OutOrStdout())
		return err
	},
}
