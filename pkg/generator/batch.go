package generator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

// BatchGenerator は独立した広告プランを並列に生成します。
type BatchGenerator struct {
	ads   AdGenerator
	limit int
}

// NewBatchGenerator は同時実行数 limit の BatchGenerator を初期化します。limit <= 0 は無制限です。
func NewBatchGenerator(ads AdGenerator, limit int) *BatchGenerator {
	return &BatchGenerator{ads: ads, limit: limit}
}

// Run はすべてのプランを生成し、入力と同じ順序で結果を返します。
// 1本の広告の却下は他の広告を止めません。コンテキストのキャンセルのみが全体を止めます。
func (bg *BatchGenerator) Run(ctx context.Context, plans []domain.AdPlan) ([]domain.AdResult, error) {
	runID := uuid.NewString()
	results := make([]domain.AdResult, len(plans))

	eg, egCtx := errgroup.WithContext(ctx)
	if bg.limit > 0 {
		eg.SetLimit(bg.limit)
	}

	for i, plan := range plans {
		i, plan := i, plan
		if plan.RunID == "" {
			plan.RunID = runID
		}
		if plan.ID == "" {
			plan.ID = plan.Entry.ID
		}

		eg.Go(func() error {
			res, err := bg.ads.Run(egCtx, plan)
			results[i] = res
			if err == nil {
				return nil
			}
			if errors.Is(err, ErrScriptRejected) || errors.Is(err, ErrPromptRejected) {
				slog.Warn("広告を却下しました", "run_id", plan.RunID, "ad_id", plan.ID, "error", err)
				return nil
			}
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	slog.Info("バッチ生成が完了しました", "run_id", runID, "ads", len(plans))
	return results, nil
}
