package domain

import (
	"fmt"
	"strings"
)

// AwarenessStage は視聴者の認知段階です。
type AwarenessStage int

const (
	StageUnaware AwarenessStage = iota
	StageProblemAware
	StageSolutionAware
	StageProductAware
	StageMostAware
)

// AllStages は定義済みの認知段階を優先順で返します。
func AllStages() []AwarenessStage {
	return []AwarenessStage{StageUnaware, StageProblemAware, StageSolutionAware, StageProductAware, StageMostAware}
}

func (s AwarenessStage) String() string {
	switch s {
	case StageUnaware:
		return "unaware"
	case StageProblemAware:
		return "problem_aware"
	case StageSolutionAware:
		return "solution_aware"
	case StageProductAware:
		return "product_aware"
	case StageMostAware:
		return "most_aware"
	}
	return fmt.Sprintf("AwarenessStage(%d)", int(s))
}

// ParseAwarenessStage は文字列から認知段階を解決します。
func ParseAwarenessStage(raw string) (AwarenessStage, error) {
	key := normalizeEnumKey(raw)
	for _, s := range AllStages() {
		if s.String() == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown awareness stage %q", raw)
}

func (s AwarenessStage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AwarenessStage) UnmarshalText(text []byte) error {
	parsed, err := ParseAwarenessStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Category はペルソナ／オーディエンスのカテゴリです。
// キャラクターパックのアフィニティもこのカテゴリをキーにします。
type Category int

const (
	CategoryFriend Category = iota
	CategoryExpert
	CategorySkeptic
	CategoryParent
	CategoryProfessional
)

// AllCategories は定義済みのカテゴリを返します。
func AllCategories() []Category {
	return []Category{CategoryFriend, CategoryExpert, CategorySkeptic, CategoryParent, CategoryProfessional}
}

func (c Category) String() string {
	switch c {
	case CategoryFriend:
		return "friend"
	case CategoryExpert:
		return "expert"
	case CategorySkeptic:
		return "skeptic"
	case CategoryParent:
		return "parent"
	case CategoryProfessional:
		return "professional"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory は文字列からカテゴリを解決します。
func ParseCategory(raw string) (Category, error) {
	key := normalizeEnumKey(raw)
	for _, c := range AllCategories() {
		if c.String() == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", raw)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func normalizeEnumKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer("-", "_", " ", "_").Replace(key)
}
