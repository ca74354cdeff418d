// Package stats は広告生成の統計イベントを受け取るシンクを提供します。
package stats

import (
	"fmt"
	"sync"
	"time"
)

// EventKind は統計イベントの種類です。
type EventKind int

const (
	EventClipGenerated EventKind = iota
	EventClipFailed
	EventFrameChained
	EventFrameFallback
	EventScriptRejected
	EventPromptRejected
	EventAdCompleted
)

// AllEventKinds は定義済みのイベント種別を返します。
func AllEventKinds() []EventKind {
	return []EventKind{
		EventClipGenerated,
		EventClipFailed,
		EventFrameChained,
		EventFrameFallback,
		EventScriptRejected,
		EventPromptRejected,
		EventAdCompleted,
	}
}

func (k EventKind) String() string {
	switch k {
	case EventClipGenerated:
		return "clip_generated"
	case EventClipFailed:
		return "clip_failed"
	case EventFrameChained:
		return "frame_chained"
	case EventFrameFallback:
		return "frame_fallback"
	case EventScriptRejected:
		return "script_rejected"
	case EventPromptRejected:
		return "prompt_rejected"
	case EventAdCompleted:
		return "ad_completed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event は1件の統計イベントです。
type Event struct {
	Kind    EventKind
	EntryID string
	// Segment は "stage/category" 形式の集計キーです。空なら合計のみに加算します。
	Segment string
	Clip    int
	At      time.Time
}

// Sink は統計イベントの送り先です。Record はブロックしてはいけません。
type Sink interface {
	Record(Event)
}

// NopSink はイベントを捨てます。
type NopSink struct{}

func (NopSink) Record(Event) {}

// MemorySink はイベントをメモリに保持します。テストと check コマンドで使います。
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (s *MemorySink) Record(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Events は記録済みイベントのコピーを返します。
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Count は kind のイベント数を返します。
func (s *MemorySink) Count(kind EventKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
