package domain

// AnchorURLs は1本の広告で使う3枚の静的アセットです。
// 各フィールドはアップロード済みの URL か、失敗・未要求を表す空文字列です。
type AnchorURLs struct {
	Before string `json:"before" yaml:"before"`
	Sheet  string `json:"sheet" yaml:"sheet"`
	After  string `json:"after" yaml:"after"`
}

func (a AnchorURLs) BeforeURL() URL { return SomeURL(a.Before) }
func (a AnchorURLs) SheetURL() URL  { return SomeURL(a.Sheet) }
func (a AnchorURLs) AfterURL() URL  { return SomeURL(a.After) }

// IsEmpty は3枚すべてが欠けている場合に true を返します。
func (a AnchorURLs) IsEmpty() bool {
	return !a.BeforeURL().IsSome() && !a.SheetURL().IsSome() && !a.AfterURL().IsSome()
}

// AnchorSources はアップロード前のアンカー画像（ローカルパスまたは URL）です。
type AnchorSources struct {
	Before string `json:"before" yaml:"before"`
	Sheet  string `json:"sheet" yaml:"sheet"`
	After  string `json:"after" yaml:"after"`
}

// AnchorPair はクリップ1本の動画生成に渡す先頭・末尾フレームです。
// 両方 None の状態はテキストのみの生成を意味し、エラーではありません。
type AnchorPair struct {
	First URL `json:"first_url"`
	Last  URL `json:"last_url"`
}

// IsTextOnly は両方のアンカーが欠けている場合に true を返します。
func (p AnchorPair) IsTextOnly() bool {
	return !p.First.IsSome() && !p.Last.IsSome()
}
