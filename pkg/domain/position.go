package domain

import "fmt"

// ClipPosition はシーケンス内でのクリップの位置です。
// (index, total) から導出される値で、保存はしません。
type ClipPosition int

const (
	PositionSingle ClipPosition = iota
	PositionFirst
	PositionMiddle
	PositionLast
)

// PositionOf は index と total からクリップの位置を求めます。
// total < 1 または index が範囲外の場合は false を返します。
func PositionOf(index, total int) (ClipPosition, bool) {
	if total < 1 || index < 0 || index >= total {
		return 0, false
	}
	switch {
	case total == 1:
		return PositionSingle, true
	case index == 0:
		return PositionFirst, true
	case index == total-1:
		return PositionLast, true
	default:
		return PositionMiddle, true
	}
}

func (p ClipPosition) String() string {
	switch p {
	case PositionSingle:
		return "single"
	case PositionFirst:
		return "first"
	case PositionMiddle:
		return "middle"
	case PositionLast:
		return "last"
	}
	return fmt.Sprintf("ClipPosition(%d)", int(p))
}

func (p ClipPosition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
