// Package character は広告1本ごとに登場させるペルソナを決定論的に選びます。
package character

import (
	"log/slog"
	"strings"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

// genderPreferenceBonus は希望性別と一致したキャラクターへの加点です。
const genderPreferenceBonus = 2

// ageHintBonus は年齢ヒントと年齢帯が一致したキャラクターへの加点です。
const ageHintBonus = 1

// SelectCharacter はパックからキャラクターを1人選びます。
//
// preferredID がパック内のキャラクターに一致する場合はスコアに関係なくそれを返します。
// 一致しない場合はスコアリングにフォールバックします。スコアが最も高いキャラクターを返し、
// 同点の場合は名簿順で先のキャラクターが勝ちます。
// パックが空の場合はゼロ値の Character を返します。
func SelectCharacter(pack *domain.CharacterPack, category domain.Category, ageHint, genderPref, preferredID string) domain.Character {
	if pack == nil || len(pack.Characters) == 0 {
		slog.Debug("キャラクターパックが空のため選択をスキップします", "category", category.String())
		return domain.Character{}
	}

	if id := strings.TrimSpace(preferredID); id != "" {
		if c, ok := pack.Find(id); ok {
			return c
		}
		slog.Debug("指定されたキャラクターが見つからないためスコアリングで選択します",
			"preferred_id", id,
			"category", category.String(),
		)
	}

	affinity := pack.Affinities[category]
	best := 0
	bestScore := Score(pack.Characters[0], affinity, ageHint, genderPref)
	for i := 1; i < len(pack.Characters); i++ {
		if s := Score(pack.Characters[i], affinity, ageHint, genderPref); s > bestScore {
			best, bestScore = i, s
		}
	}

	selected, _ := pack.Find(pack.Characters[best].ID)
	return selected
}

// Score はカテゴリのアフィニティと希望条件に対するキャラクターの適合度を返します。
// affinity のキーは ParseCharacterPack と同じく小文字であることを前提とします。
func Score(c domain.Character, affinity domain.CategoryAffinity, ageHint, genderPref string) int {
	score := lookup(affinity.Archetypes, c.Archetype)
	score += lookup(affinity.Genders, c.Gender)
	score += lookup(affinity.AgeRanges, c.AgeRange)

	if g := strings.TrimSpace(genderPref); g != "" && strings.EqualFold(g, c.Gender) {
		score += genderPreferenceBonus
	}
	if a := strings.TrimSpace(ageHint); a != "" && strings.EqualFold(a, c.AgeRange) {
		score += ageHintBonus
	}
	return score
}

func lookup(scores map[string]int, key string) int {
	if len(scores) == 0 || key == "" {
		return 0
	}
	if v, ok := scores[key]; ok {
		return v
	}
	return scores[strings.ToLower(strings.TrimSpace(key))]
}
