package domain

import (
	"encoding/json"
	"fmt"
)

// FrameworkConfig はコピー生成のフレームワーク設定です。
type FrameworkConfig struct {
	Name         string   `json:"name"`
	Tone         string   `json:"tone"`
	HookFormulas []string `json:"hook_formulas,omitempty"`
}

// Offer は広告対象の商品情報です。パイプラインは読み取り専用で扱います。
type Offer struct {
	ProductName   string          `json:"product_name"`
	ProblemSolved string          `json:"problem_solved"`
	SocialProof   string          `json:"social_proof"`
	CTA           string          `json:"cta"`
	Framework     FrameworkConfig `json:"framework"`
}

// ParseOffer は JSON バイト列から Offer をパースします。
func ParseOffer(data []byte) (Offer, error) {
	var offer Offer
	if err := json.Unmarshal(data, &offer); err != nil {
		return Offer{}, fmt.Errorf("オファー JSON のパースに失敗しました: %w", err)
	}
	if offer.ProductName == "" {
		return Offer{}, fmt.Errorf("オファーに product_name がありません")
	}
	return offer, nil
}
