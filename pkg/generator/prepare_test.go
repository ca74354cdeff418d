package generator

import (
	"context"
	"sync"
	"testing"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

func TestAnchorPreparer_Prepare(t *testing.T) {
	up := &fakeUploader{}
	ap := NewAnchorPreparer(up)
	src := domain.AnchorSources{
		Before: "local/before.png",
		Sheet:  "https://cdn.example.com/sheet.png",
		After:  "local/broken.png",
	}

	got := ap.Prepare(context.Background(), src)
	want := domain.AnchorURLs{
		Before: "https://storage.example.com/local/before.png",
		Sheet:  "https://cdn.example.com/sheet.png",
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if up.count("https://cdn.example.com/sheet.png") != 0 {
		t.Error("https URL はアップロードされるべきではありません")
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ap.Prepare(context.Background(), src)
		}()
	}
	wg.Wait()

	if n := up.count("local/before.png"); n != 1 {
		t.Errorf("before は1回だけアップロードされるべきですが %d 回でした", n)
	}
}

func TestAnchorPreparer_NoUploader(t *testing.T) {
	ap := NewAnchorPreparer(nil)
	got := ap.Prepare(context.Background(), domain.AnchorSources{Before: "local/before.png", After: "https://cdn.example.com/after.png"})
	if got.Before != "" || got.After != "https://cdn.example.com/after.png" {
		t.Errorf("unexpected %+v", got)
	}
}
