package character

import (
	"testing"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

func newTestPack(t *testing.T) *domain.CharacterPack {
	t.Helper()
	pack, err := domain.ParseCharacterPack([]byte(`{
		"characters": [
			{"id": "CHR_JULES_BENNETT", "name": "Jules Bennett", "archetype": "friend", "gender": "female", "age_range": "30s", "traits": ["warm"]},
			{"id": "CHR_MARCUS_HALE", "name": "Marcus Hale", "archetype": "expert", "gender": "male", "age_range": "40s"},
			{"id": "CHR_DANA_REYES", "name": "Dana Reyes", "archetype": "skeptic", "gender": "female", "age_range": "40s"}
		],
		"affinities": {
			"friend": {"archetypes": {"friend": 3}},
			"expert": {"archetypes": {"expert": 3}, "genders": {"male": 1}},
			"skeptic": {"archetypes": {"skeptic": 3, "expert": 1}}
		}
	}`))
	if err != nil {
		t.Fatalf("テスト用パックの生成に失敗しました: %v", err)
	}
	return pack
}

func TestSelectCharacter(t *testing.T) {
	pack := newTestPack(t)

	tests := []struct {
		name        string
		category    domain.Category
		ageHint     string
		genderPref  string
		preferredID string
		wantID      string
	}{
		{"指定IDがスコアに優先すること", domain.CategoryExpert, "", "male", "CHR_JULES_BENNETT", "CHR_JULES_BENNETT"},
		{"指定IDは大文字小文字を無視すること", domain.CategoryExpert, "", "", "chr_dana_reyes", "CHR_DANA_REYES"},
		{"未知の指定IDはスコアリングに戻ること", domain.CategoryExpert, "", "", "CHR_UNKNOWN", "CHR_MARCUS_HALE"},
		{"カテゴリのアーキタイプが最優先されること", domain.CategoryFriend, "", "male", "", "CHR_JULES_BENNETT"},
		{"希望性別で加点されること", domain.CategoryParent, "", "male", "", "CHR_MARCUS_HALE"},
		{"年齢ヒントで加点されること", domain.CategoryParent, "40s", "female", "", "CHR_DANA_REYES"},
		{"同点は名簿順で決まること", domain.CategoryProfessional, "", "", "", "CHR_JULES_BENNETT"},
		{"スケプティックカテゴリ", domain.CategorySkeptic, "", "", "", "CHR_DANA_REYES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectCharacter(pack, tt.category, tt.ageHint, tt.genderPref, tt.preferredID)
			if got.ID != tt.wantID {
				t.Errorf("期待値 %s, 実際の値 %s", tt.wantID, got.ID)
			}
		})
	}
}

func TestSelectCharacter_Deterministic(t *testing.T) {
	pack := newTestPack(t)
	first := SelectCharacter(pack, domain.CategorySkeptic, "40s", "female", "")
	for i := 0; i < 50; i++ {
		if got := SelectCharacter(pack, domain.CategorySkeptic, "40s", "female", ""); got.ID != first.ID {
			t.Fatalf("試行 %d で結果が変わりました: %s != %s", i, got.ID, first.ID)
		}
	}
}

func TestSelectCharacter_Degraded(t *testing.T) {
	t.Run("nil パックでもパニックしないこと", func(t *testing.T) {
		got := SelectCharacter(nil, domain.CategoryFriend, "", "", "CHR_JULES_BENNETT")
		if got.ID != "" {
			t.Errorf("ゼロ値を期待しましたが %s でした", got.ID)
		}
	})

	t.Run("返り値を変更してもパックに影響しないこと", func(t *testing.T) {
		pack := newTestPack(t)
		got := SelectCharacter(pack, domain.CategoryFriend, "", "", "")
		got.Traits[0] = "cold"
		if pack.Characters[0].Traits[0] != "warm" {
			t.Errorf("パックが変更されました: %v", pack.Characters[0].Traits)
		}
	})
}

func TestScore(t *testing.T) {
	affinity := domain.CategoryAffinity{
		Archetypes: map[string]int{"expert": 3},
		Genders:    map[string]int{"male": 1},
		AgeRanges:  map[string]int{"40s": 2},
	}
	c := domain.Character{Archetype: "Expert", Gender: "male", AgeRange: "40s"}
	// 3 (archetype) + 1 (gender) + 2 (age) + 2 (pref) + 1 (hint)
	if got := Score(c, affinity, "40s", "Male"); got != 9 {
		t.Errorf("期待値 9, 実際の値 %d", got)
	}
	if got := Score(c, domain.CategoryAffinity{}, "", ""); got != 0 {
		t.Errorf("期待値 0, 実際の値 %d", got)
	}
}

func TestSelectCharacter_MixedCaseAffinityKeys(t *testing.T) {
	pack, err := domain.ParseCharacterPack([]byte(`{
		"characters": [
			{"id": "CHR_JULES_BENNETT", "archetype": "Friend", "gender": "female"},
			{"id": "CHR_MARCUS_HALE", "archetype": "EXPERT", "gender": "Male"}
		],
		"affinities": {"expert": {"archetypes": {"Expert": 3}, "genders": {"MALE": 1}}}
	}`))
	if err != nil {
		t.Fatalf("パックの生成に失敗しました: %v", err)
	}
	for i := 0; i < 20; i++ {
		if got := SelectCharacter(pack, domain.CategoryExpert, "", "", ""); got.ID != "CHR_MARCUS_HALE" {
			t.Fatalf("試行 %d: 期待値 CHR_MARCUS_HALE, 実際の値 %s", i, got.ID)
		}
	}
	if got := Score(pack.Characters[1], pack.Affinities[domain.CategoryExpert], "", ""); got != 4 {
		t.Errorf("期待値 4, 実際の値 %d", got)
	}
}
