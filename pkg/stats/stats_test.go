package stats

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestEventKind_String(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range AllEventKinds() {
		s := k.String()
		if seen[s] {
			t.Errorf("イベント名 %q が重複しています", s)
		}
		seen[s] = true
	}
	if got := EventKind(99).String(); got != "EventKind(99)" {
		t.Errorf("unexpected %q", got)
	}
}

func TestMemorySink_Concurrent(t *testing.T) {
	var sink MemorySink
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := EventClipGenerated
			if i%2 == 1 {
				kind = EventClipFailed
			}
			sink.Record(Event{Kind: kind, Clip: i})
		}(i)
	}
	wg.Wait()

	if got := sink.Count(EventClipGenerated); got != 10 {
		t.Errorf("期待値 10, 実際の値 %d", got)
	}
	if got := len(sink.Events()); got != 20 {
		t.Errorf("期待値 20, 実際の値 %d", got)
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultLearningsFile)

	t.Run("存在しないファイルから開始できること", func(t *testing.T) {
		sink := OpenFileSink(path)
		sink.Record(Event{Kind: EventClipGenerated, Segment: "problem_aware/friend"})
		sink.Record(Event{Kind: EventClipGenerated, Segment: "problem_aware/friend"})
		sink.Record(Event{Kind: EventScriptRejected})
		if err := sink.Flush(); err != nil {
			t.Fatalf("Flush に失敗しました: %v", err)
		}
	})

	t.Run("再オープンでカウンタが累積されること", func(t *testing.T) {
		sink := OpenFileSink(path)
		sink.Record(Event{Kind: EventClipGenerated})
		if err := sink.Flush(); err != nil {
			t.Fatalf("Flush に失敗しました: %v", err)
		}

		data, err := ReadLearnings(path)
		if err != nil {
			t.Fatalf("ReadLearnings に失敗しました: %v", err)
		}
		if data.Totals["clip_generated"] != 3 || data.Totals["script_rejected"] != 1 {
			t.Errorf("unexpected totals: %v", data.Totals)
		}
		if data.Segments["problem_aware/friend"]["clip_generated"] != 2 {
			t.Errorf("unexpected segments: %v", data.Segments)
		}
		if data.UpdatedAt.IsZero() {
			t.Error("updated_at が設定されていません")
		}
	})

	t.Run("壊れたファイルは空から再開すること", func(t *testing.T) {
		broken := filepath.Join(t.TempDir(), DefaultLearningsFile)
		if err := os.WriteFile(broken, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadLearnings(broken); err == nil {
			t.Error("壊れたファイルでエラーが返りませんでした")
		}

		sink := OpenFileSink(broken)
		if got := len(sink.Snapshot().Totals); got != 0 {
			t.Errorf("空のカウンタを期待しましたが %d 件ありました", got)
		}
		sink.Record(Event{Kind: EventAdCompleted})
		if err := sink.Flush(); err != nil {
			t.Fatalf("Flush に失敗しました: %v", err)
		}
		data, err := ReadLearnings(broken)
		if err != nil || data.Totals["ad_completed"] != 1 {
			t.Errorf("上書き後のファイルが不正です: %v, %v", data.Totals, err)
		}
	})

	t.Run("壊れたファイル: null のカウンタ表は空から再開すること", func(t *testing.T) {
		cases := map[string]string{
			"segment が null": `{"totals": {}, "segments": {"unaware/friend": null}}`,
			"totals が null":  `{"totals": null, "segments": {}}`,
		}
		for name, raw := range cases {
			t.Run(name, func(t *testing.T) {
				broken := filepath.Join(t.TempDir(), DefaultLearningsFile)
				if err := os.WriteFile(broken, []byte(raw), 0o644); err != nil {
					t.Fatal(err)
				}
				if _, err := ReadLearnings(broken); !errors.Is(err, ErrInvalidLearnings) {
					t.Errorf("ErrInvalidLearnings を期待しましたが %v でした", err)
				}

				sink := OpenFileSink(broken)
				sink.Record(Event{Kind: EventClipGenerated, Segment: "unaware/friend"})
				got := sink.Snapshot()
				if got.Totals["clip_generated"] != 1 || got.Segments["unaware/friend"]["clip_generated"] != 1 {
					t.Errorf("unexpected counters: %+v", got)
				}
			})
		}
	})

	t.Run("変更がなければ書き込まないこと", func(t *testing.T) {
		untouched := filepath.Join(t.TempDir(), DefaultLearningsFile)
		if err := OpenFileSink(untouched).Flush(); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(untouched); !os.IsNotExist(err) {
			t.Errorf("ファイルが作成されました: %v", err)
		}
	})
}
