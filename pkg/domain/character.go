package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyRoster はキャラクターが1人も登録されていないパックを表します。
var ErrEmptyRoster = errors.New("character pack has no characters")

// Character は広告に登場するペルソナの定義です。ID が同一性を表します。
type Character struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Archetype    string   `json:"archetype"`
	Ethnicity    string   `json:"ethnicity"`
	Gender       string   `json:"gender"`
	AgeRange     string   `json:"age_range,omitempty"`
	Traits       []string `json:"traits"`
	VisualCues   []string `json:"visual_cues,omitempty"` // 生成プロンプトに注入する外見上の特徴
	VoiceProfile string   `json:"voice_profile,omitempty"`
	ReferenceURL string   `json:"reference_url,omitempty"`
}

// String はキャラクターの情報を文字列で返します。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

// Description はプロンプトに埋め込む人物描写を返します。
func (c Character) Description() string {
	parts := make([]string, 0, 4)
	subject := strings.TrimSpace(strings.Join(nonEmpty(c.AgeRange, c.Ethnicity, c.Gender), " "))
	if subject != "" {
		parts = append(parts, subject)
	}
	if c.Archetype != "" {
		parts = append(parts, c.Archetype+" archetype")
	}
	if len(c.Traits) > 0 {
		parts = append(parts, strings.Join(c.Traits, ", "))
	}
	if len(c.VisualCues) > 0 {
		parts = append(parts, strings.Join(c.VisualCues, ", "))
	}
	if len(parts) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s: %s", c.Name, strings.Join(parts, "; "))
}

func (c Character) clone() Character {
	copied := c
	if c.Traits != nil {
		copied.Traits = append([]string(nil), c.Traits...)
	}
	if c.VisualCues != nil {
		copied.VisualCues = append([]string(nil), c.VisualCues...)
	}
	return copied
}

// PackGlobals はすべてのプロンプトに付与する共通ブロックです。
type PackGlobals struct {
	ConsistencyBlock string `json:"consistency_block"`
	NegativeBlock    string `json:"negative_block"`
}

// PackLibraries はプロンプト構築に使う語彙ライブラリです。
type PackLibraries struct {
	Angles             []string `json:"angles"`
	UnghostingContexts []string `json:"unghosting_contexts"`
}

// CategoryAffinity はカテゴリごとのスコア表です。
// キーはアーキタイプ／性別／年齢帯、値は加点です。ParseCharacterPack はキーを小文字に正規化します。
type CategoryAffinity struct {
	Archetypes map[string]int `json:"archetypes"`
	Genders    map[string]int `json:"genders,omitempty"`
	AgeRanges  map[string]int `json:"age_ranges,omitempty"`
}

// CharacterPack はキャラクターの名簿とスコアリング用メタデータです。
// 読み込み後は不変として扱い、外部へは Clone したものを渡します。
type CharacterPack struct {
	Characters []Character                   `json:"characters"`
	Globals    PackGlobals                   `json:"globals"`
	Libraries  PackLibraries                 `json:"libraries"`
	Affinities map[Category]CategoryAffinity `json:"affinities"`
}

// ParseCharacterPack は JSON バイト列からキャラクターパックをパースします。
// この関数はステートレスであり、キャッシュを行いません。
func ParseCharacterPack(data []byte) (*CharacterPack, error) {
	var pack CharacterPack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("キャラクターパックの JSON パースに失敗しました: %w", err)
	}
	if len(pack.Characters) == 0 {
		return nil, ErrEmptyRoster
	}

	seen := make(map[string]struct{}, len(pack.Characters))
	for i, c := range pack.Characters {
		if c.ID == "" {
			return nil, fmt.Errorf("characters[%d] に id がありません", i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("キャラクター ID %q が重複しています", c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	for cat, aff := range pack.Affinities {
		normalized, err := aff.normalize()
		if err != nil {
			return nil, fmt.Errorf("affinities.%s: %w", cat, err)
		}
		pack.Affinities[cat] = normalized
	}
	return &pack, nil
}

func (a CategoryAffinity) normalize() (CategoryAffinity, error) {
	var err error
	if a.Archetypes, err = lowerKeys("archetypes", a.Archetypes); err != nil {
		return a, err
	}
	if a.Genders, err = lowerKeys("genders", a.Genders); err != nil {
		return a, err
	}
	if a.AgeRanges, err = lowerKeys("age_ranges", a.AgeRanges); err != nil {
		return a, err
	}
	return a, nil
}

// lowerKeys はキーを小文字にした表を返します。大文字小文字だけが異なるキーはエラーです。
func lowerKeys(field string, src map[string]int) (map[string]int, error) {
	if src == nil {
		return nil, nil
	}
	dst := make(map[string]int, len(src))
	for k, v := range src {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, dup := dst[key]; dup {
			return nil, fmt.Errorf("%s のキー %q が大文字小文字違いで重複しています", field, key)
		}
		dst[key] = v
	}
	return dst, nil
}

// Find は ID からキャラクターを特定します。完全一致を優先し、次に大文字小文字を無視して探します。
func (p *CharacterPack) Find(id string) (Character, bool) {
	if p == nil || id == "" {
		return Character{}, false
	}
	for _, c := range p.Characters {
		if c.ID == id {
			return c.clone(), true
		}
	}
	for _, c := range p.Characters {
		if strings.EqualFold(c.ID, id) {
			return c.clone(), true
		}
	}
	return Character{}, false
}

// Clone はパックのディープコピーを返します。
func (p *CharacterPack) Clone() *CharacterPack {
	if p == nil {
		return nil
	}
	copied := &CharacterPack{
		Characters: make([]Character, len(p.Characters)),
		Globals:    p.Globals,
		Libraries: PackLibraries{
			Angles:             append([]string(nil), p.Libraries.Angles...),
			UnghostingContexts: append([]string(nil), p.Libraries.UnghostingContexts...),
		},
	}
	for i, c := range p.Characters {
		copied.Characters[i] = c.clone()
	}
	if p.Affinities != nil {
		copied.Affinities = make(map[Category]CategoryAffinity, len(p.Affinities))
		for k, v := range p.Affinities {
			copied.Affinities[k] = CategoryAffinity{
				Archetypes: copyScores(v.Archetypes),
				Genders:    copyScores(v.Genders),
				AgeRanges:  copyScores(v.AgeRanges),
			}
		}
	}
	return copied
}

func copyScores(src map[string]int) map[string]int {
	if src == nil {
		return nil
	}
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
