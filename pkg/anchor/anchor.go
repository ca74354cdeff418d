// Package anchor はクリップごとの先頭・末尾フレームのアンカー画像を決定します。
package anchor

import (
	"errors"
	"fmt"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

// ErrClipOutOfRange は (i, n) が n >= 1 かつ 0 <= i < n を満たさない呼び出しを表します。
var ErrClipOutOfRange = errors.New("clip index out of range")

// GetAnchors はシーケンス内の位置に応じてアンカーフレームを解決します。
//
//   - single: first = before, last = after
//   - first:  first = before → sheet, last = sheet
//   - middle: first = chained → sheet, last = sheet
//   - last:   first = chained → sheet, last = after → sheet
//
// 空文字列は欠落として扱い、次の候補へフォールバックします。
// すべて欠けている場合は両方 None（テキストのみの生成）になります。
// 複数クリップの先頭クリップは chained を参照しません。
func GetAnchors(i, n int, urls domain.AnchorURLs, chained domain.URL) (domain.AnchorPair, error) {
	pos, ok := domain.PositionOf(i, n)
	if !ok {
		return domain.AnchorPair{}, fmt.Errorf("%w: index %d of %d", ErrClipOutOfRange, i, n)
	}
	return Resolve(pos, urls, chained), nil
}

// Resolve は位置が既知の場合のアンカー解決です。
func Resolve(pos domain.ClipPosition, urls domain.AnchorURLs, chained domain.URL) domain.AnchorPair {
	before, sheet, after := urls.BeforeURL(), urls.SheetURL(), urls.AfterURL()

	switch pos {
	case domain.PositionSingle:
		return domain.AnchorPair{First: before, Last: after}
	case domain.PositionFirst:
		return domain.AnchorPair{First: before.Or(sheet), Last: sheet}
	case domain.PositionMiddle:
		return domain.AnchorPair{First: chained.Or(sheet), Last: sheet}
	case domain.PositionLast:
		// 末尾クリップは開始を生成結果に、終了を静的な after に合わせます。
		return domain.AnchorPair{First: chained.Or(sheet), Last: after.Or(sheet)}
	}
	return domain.AnchorPair{}
}
