package domain

// Combo は認知段階とオーディエンスカテゴリの組み合わせです。
type Combo struct {
	Stage    AwarenessStage `json:"stage" yaml:"stage"`
	Category Category       `json:"category" yaml:"category"`
}

// VariantEntry は展開された広告バリエーション1件です。
// ID は1回の展開の中で一意です。
type VariantEntry struct {
	ID            string         `json:"id"`
	StageIndex    int            `json:"stage_index"`
	CategoryIndex int            `json:"category_index"`
	VariantIndex  int            `json:"variant_index"`
	Stage         AwarenessStage `json:"stage"`
	Category      Category       `json:"category"`
}
