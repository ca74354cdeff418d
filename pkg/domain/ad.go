package domain

import (
	"fmt"
	"strings"
)

// GenerationMode は広告生成時のアンカー計算の有無を切り替えます。
type GenerationMode int

const (
	// ModeChained はクリップ間でアンカーフレームを引き継ぎます。
	ModeChained GenerationMode = iota
	// ModeValidate はアンカーを計算せず、常にテキストから動画を生成します。
	ModeValidate
)

func (m GenerationMode) String() string {
	switch m {
	case ModeChained:
		return "chained"
	case ModeValidate:
		return "validate"
	}
	return "unknown"
}

// ParseGenerationMode は文字列から生成モードを解決します。空文字列は chained です。
func ParseGenerationMode(raw string) (GenerationMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "chained":
		return ModeChained, nil
	case "validate":
		return ModeValidate, nil
	}
	return 0, fmt.Errorf("unknown generation mode %q", raw)
}

func (m GenerationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *GenerationMode) UnmarshalText(text []byte) error {
	parsed, err := ParseGenerationMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// AdPlan は1本の広告を生成するための入力一式です。
type AdPlan struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id"`
	Entry     VariantEntry   `json:"entry"`
	Character Character      `json:"character"`
	Clips     []ClipSpec     `json:"clips"`
	Anchors   AnchorURLs     `json:"anchors"`
	Mode      GenerationMode `json:"-"`
}

// ClipStatus はクリップ生成の結果状態です。
type ClipStatus int

const (
	ClipPlanned ClipStatus = iota
	ClipGenerated
	ClipFailed
)

func (s ClipStatus) String() string {
	switch s {
	case ClipPlanned:
		return "planned"
	case ClipGenerated:
		return "generated"
	case ClipFailed:
		return "failed"
	}
	return "unknown"
}

func (s ClipStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ClipResult は1クリップ分の生成記録です。
type ClipResult struct {
	Index     int          `json:"index"`
	Position  ClipPosition `json:"position"`
	Endpoint  string       `json:"endpoint"`
	Anchors   AnchorPair   `json:"anchors"`
	Prompt    string       `json:"prompt"`
	VideoURL  string       `json:"video_url,omitempty"`
	LastFrame URL          `json:"last_frame_url"`
	Status    ClipStatus   `json:"status"`
	Attempts  int          `json:"attempts"`
	Error     string       `json:"error,omitempty"`
}

// AdResult は1本の広告の生成結果です。
type AdResult struct {
	PlanID    string       `json:"plan_id"`
	EntryID   string       `json:"entry_id"`
	Character string       `json:"character_id"`
	Mode      string       `json:"mode"`
	Clips     []ClipResult `json:"clips"`
	Rejected  []string     `json:"rejected,omitempty"`
}

// Failed は失敗したクリップの数を返します。
func (r AdResult) Failed() int {
	n := 0
	for _, c := range r.Clips {
		if c.Status == ClipFailed {
			n++
		}
	}
	return n
}
