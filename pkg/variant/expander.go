// Package variant は認知段階×カテゴリの組み合わせを広告バリエーションに展開します。
package variant

import (
	"fmt"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

// Expand は combos を順に variantCount 件ずつ展開します。
//
// ID は1始まりの組み合わせ番号を含み、variantCount > 1 のときだけ "_v{n}" を付けます。
// variantCount == 1 の ID は従来の単一バリエーションの ID と同じです。
// variantCount < 1 の場合は nil を返します。
func Expand(combos []domain.Combo, variantCount int) []domain.VariantEntry {
	if variantCount < 1 || len(combos) == 0 {
		return nil
	}

	entries := make([]domain.VariantEntry, 0, len(combos)*variantCount)
	for ci, combo := range combos {
		base := fmt.Sprintf("ad%02d_%s_%s", ci+1, combo.Stage, combo.Category)
		for v := 1; v <= variantCount; v++ {
			id := base
			if variantCount > 1 {
				id = fmt.Sprintf("%s_v%d", base, v)
			}
			entries = append(entries, domain.VariantEntry{
				ID:            id,
				StageIndex:    stageIndex(combo.Stage),
				CategoryIndex: categoryIndex(combo.Category),
				VariantIndex:  v,
				Stage:         combo.Stage,
				Category:      combo.Category,
			})
		}
	}
	return entries
}

// Combos は stages と categories の直積を stage 優先の順序で返します。
func Combos(stages []domain.AwarenessStage, categories []domain.Category) []domain.Combo {
	combos := make([]domain.Combo, 0, len(stages)*len(categories))
	for _, s := range stages {
		for _, c := range categories {
			combos = append(combos, domain.Combo{Stage: s, Category: c})
		}
	}
	return combos
}

func stageIndex(s domain.AwarenessStage) int {
	for i, v := range domain.AllStages() {
		if v == s {
			return i
		}
	}
	return -1
}

func categoryIndex(c domain.Category) int {
	for i, v := range domain.AllCategories() {
		if v == c {
			return i
		}
	}
	return -1
}
