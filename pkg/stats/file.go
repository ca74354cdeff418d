package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultLearningsFile は累積カウンタの既定のファイル名です。
const DefaultLearningsFile = "learnings.json"

// Learnings は learnings.json の内容です。
type Learnings struct {
	UpdatedAt time.Time                 `json:"updated_at"`
	Totals    map[string]int            `json:"totals"`
	Segments  map[string]map[string]int `json:"segments,omitempty"`
}

func newLearnings() Learnings {
	return Learnings{
		Totals:   make(map[string]int),
		Segments: make(map[string]map[string]int),
	}
}

// ErrInvalidLearnings は JSON としては読めるが、カウンタの形になっていない learnings ファイルを表します。
var ErrInvalidLearnings = errors.New("invalid learnings shape")

// validate は null のカウンタ表を不正な形として扱います。
func (l Learnings) validate() error {
	if l.Totals == nil {
		return fmt.Errorf("%w: totals is null", ErrInvalidLearnings)
	}
	for seg, counts := range l.Segments {
		if counts == nil {
			return fmt.Errorf("%w: segment %q is null", ErrInvalidLearnings, seg)
		}
	}
	return nil
}

// FileSink はイベントを learnings.json の累積カウンタとして保存します。
// 書き込みは Flush 時のみで、Record はメモリ上のカウンタを更新するだけです。
type FileSink struct {
	path string

	mu    sync.Mutex
	data  Learnings
	dirty bool
}

// OpenFileSink は path の learnings.json を読み込みます。
// ファイルが壊れている場合は警告を出し、空のカウンタから始めます。
func OpenFileSink(path string) *FileSink {
	s := &FileSink{path: path, data: newLearnings()}

	loaded, err := ReadLearnings(path)
	switch {
	case err == nil:
		s.data = loaded
	case errors.Is(err, fs.ErrNotExist):
	default:
		slog.Warn("learnings ファイルを読み込めないため、統計なしで続行します", "path", path, "error", err)
	}
	return s
}

// ReadLearnings は learnings.json をパースします。
func ReadLearnings(path string) (Learnings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Learnings{}, err
	}
	data := newLearnings()
	if err := json.Unmarshal(raw, &data); err != nil {
		return Learnings{}, fmt.Errorf("learnings ファイル %s のパースに失敗しました: %w", path, err)
	}
	if err := data.validate(); err != nil {
		return Learnings{}, fmt.Errorf("learnings ファイル %s: %w", path, err)
	}
	if data.Segments == nil {
		data.Segments = make(map[string]map[string]int)
	}
	return data, nil
}

func (s *FileSink) Record(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := e.Kind.String()
	s.data.Totals[key]++
	if e.Segment != "" {
		seg := s.data.Segments[e.Segment]
		if seg == nil {
			seg = make(map[string]int)
			s.data.Segments[e.Segment] = seg
		}
		seg[key]++
	}
	s.dirty = true
}

// Snapshot は現在のカウンタのコピーを返します。
func (s *FileSink) Snapshot() Learnings {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := newLearnings()
	out.UpdatedAt = s.data.UpdatedAt
	for k, v := range s.data.Totals {
		out.Totals[k] = v
	}
	for seg, counts := range s.data.Segments {
		copied := make(map[string]int, len(counts))
		for k, v := range counts {
			copied[k] = v
		}
		out.Segments[seg] = copied
	}
	return out
}

// Flush は変更があればカウンタを一時ファイル経由でアトミックに書き出します。
func (s *FileSink) Flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	s.data.UpdatedAt = time.Now().UTC()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.dirty = false
	s.mu.Unlock()
	if err != nil {
		s.markDirty()
		return fmt.Errorf("learnings のエンコードに失敗しました: %w", err)
	}
	if err := s.write(raw); err != nil {
		s.markDirty()
		return err
	}
	return nil
}

func (s *FileSink) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

func (s *FileSink) write(raw []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("learnings ディレクトリの作成に失敗しました: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".learnings-*.json")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("learnings の書き込みに失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("learnings の置き換えに失敗しました: %w", err)
	}
	return nil
}
