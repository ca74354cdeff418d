package variant

import (
	"strings"
	"testing"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

func TestExpand(t *testing.T) {
	combos := []domain.Combo{
		{Stage: domain.StageProblemAware, Category: domain.CategoryFriend},
		{Stage: domain.StageProblemAware, Category: domain.CategoryExpert},
	}

	for _, count := range []int{1, 2, 3} {
		entries := Expand(combos, count)
		if len(entries) != len(combos)*count {
			t.Fatalf("count=%d: 期待値 %d, 実際の値 %d", count, len(combos)*count, len(entries))
		}
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			if seen[e.ID] {
				t.Errorf("count=%d: ID %q が重複しています", count, e.ID)
			}
			seen[e.ID] = true
			if count == 1 && strings.Contains(e.ID, "_v") {
				t.Errorf("count=1 で _v サフィックスが付いています: %q", e.ID)
			}
		}
	}
}

func TestExpand_IDs(t *testing.T) {
	combos := []domain.Combo{
		{Stage: domain.StageUnaware, Category: domain.CategoryParent},
		{Stage: domain.StageMostAware, Category: domain.CategorySkeptic},
	}

	single := Expand(combos, 1)
	if single[0].ID != "ad01_unaware_parent" || single[1].ID != "ad02_most_aware_skeptic" {
		t.Errorf("unexpected ids: %q, %q", single[0].ID, single[1].ID)
	}

	multi := Expand(combos, 2)
	want := []string{
		"ad01_unaware_parent_v1",
		"ad01_unaware_parent_v2",
		"ad02_most_aware_skeptic_v1",
		"ad02_most_aware_skeptic_v2",
	}
	for i, w := range want {
		if multi[i].ID != w {
			t.Errorf("entries[%d].ID = %q, want %q", i, multi[i].ID, w)
		}
	}
	if multi[3].VariantIndex != 2 || multi[3].StageIndex != 4 || multi[3].CategoryIndex != 2 {
		t.Errorf("インデックスが不正です: %+v", multi[3])
	}
}

// 同じ組み合わせが重複していても ID は組み合わせ番号で区別されます。
func TestExpand_Exhaustive(t *testing.T) {
	all := Combos(domain.AllStages(), domain.AllCategories())
	withDup := append(all, all...)
	for count := 1; count <= 5; count++ {
		entries := Expand(withDup, count)
		if len(entries) != len(withDup)*count {
			t.Fatalf("count=%d: 件数 %d", count, len(entries))
		}
		seen := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			if _, ok := seen[e.ID]; ok {
				t.Fatalf("count=%d: ID %q が重複しています", count, e.ID)
			}
			seen[e.ID] = struct{}{}
		}
	}
}

func TestExpand_Empty(t *testing.T) {
	if got := Expand([]domain.Combo{{}}, 0); got != nil {
		t.Errorf("count=0 で nil を期待しましたが %v でした", got)
	}
	if got := Expand(nil, 3); got != nil {
		t.Errorf("combos が空で nil を期待しましたが %v でした", got)
	}
}
