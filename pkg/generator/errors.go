package generator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrScriptRejected は台本が検証ルールに違反したことを表します。
	ErrScriptRejected = errors.New("script rejected")
	// ErrPromptRejected は合成したプロンプトが監査に失敗したことを表します。
	ErrPromptRejected = errors.New("prompt rejected")
)

// RejectionError はプロバイダを呼ぶ前のゲートで却下された理由をすべて保持します。
type RejectionError struct {
	Reason  error
	Details []string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%v: %s", e.Reason, strings.Join(e.Details, "; "))
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}
