package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer は生成物を保存する契約です。
type Writer interface {
	Write(ctx context.Context, path string, data []byte) error
}

// LocalWriter はローカルファイルシステムへ書き込みます。
type LocalWriter struct{}

func (LocalWriter) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.Contains(path, "://") {
		return fmt.Errorf("LocalWriter はリモートパス %s に書き込めません", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ファイル %s の書き込みに失敗しました: %w", path, err)
	}
	return nil
}

// WriteJSON は v をインデント付き JSON で保存します。
func WriteJSON(ctx context.Context, w Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON のエンコードに失敗しました: %w", err)
	}
	return w.Write(ctx, path, append(data, '\n'))
}
