package domain

import (
	"encoding/json"
	"net/url"
	"strings"
)

// URL は「未指定」を明示できる URL のオプション型です。
// 空文字列（空白のみを含む）は常に None として扱います。
type URL struct {
	value string
}

// SomeURL は raw を保持する URL を返します。raw が空なら None になります。
func SomeURL(raw string) URL {
	return URL{value: strings.TrimSpace(raw)}
}

// NoURL は値を持たない URL を返します。
func NoURL() URL {
	return URL{}
}

// Get は値と、値が存在するかどうかを返します。
func (u URL) Get() (string, bool) {
	return u.value, u.value != ""
}

// IsSome は値が存在する場合に true を返します。
func (u URL) IsSome() bool {
	return u.value != ""
}

// Or は自身が None の場合に fallback を返します。
func (u URL) Or(fallback URL) URL {
	if u.IsSome() {
		return u
	}
	return fallback
}

// IsHTTPS は値が host を持つ https:// URL である場合に true を返します。
func (u URL) IsHTTPS() bool {
	if !u.IsSome() {
		return false
	}
	parsed, err := url.Parse(u.value)
	if err != nil {
		return false
	}
	return parsed.Scheme == "https" && parsed.Host != ""
}

// String は値を返します。None の場合は空文字列です。
func (u URL) String() string {
	return u.value
}

// MarshalJSON は None を null として出力します。
func (u URL) MarshalJSON() ([]byte, error) {
	if !u.IsSome() {
		return []byte("null"), nil
	}
	return json.Marshal(u.value)
}

// UnmarshalJSON は null と空文字列を None として読み込みます。
func (u *URL) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = NoURL()
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = SomeURL(raw)
	return nil
}
