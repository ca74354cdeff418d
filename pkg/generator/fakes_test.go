package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/endpoint"
)

type fakeVideoGenerator struct {
	mu       sync.Mutex
	requests []endpoint.Request
	respond  func(call int, req endpoint.Request) (*ClipOutput, error)
}

func (f *fakeVideoGenerator) Generate(ctx context.Context, req endpoint.Request) (*ClipOutput, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	call := len(f.requests)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.respond != nil {
		return f.respond(call, req)
	}
	return &ClipOutput{
		VideoURL:     fmt.Sprintf("https://cdn.example.com/video%d.mp4", call),
		LastFrameURL: fmt.Sprintf("https://cdn.example.com/frame%d.png", call),
	}, nil
}

func (f *fakeVideoGenerator) calls() []endpoint.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]endpoint.Request(nil), f.requests...)
}

type fakeUploader struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeUploader) Upload(_ context.Context, source string) (string, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[source]++
	f.mu.Unlock()

	if source == "local/broken.png" {
		return "", errors.New("upload failed")
	}
	return "https://storage.example.com/" + source, nil
}

func (f *fakeUploader) count(source string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[source]
}

func testClips() []domain.ClipSpec {
	return []domain.ClipSpec{
		{Scene: "A stressed woman sits on her couch at night", Line: "ever lie awake replaying the whole day?"},
		{Scene: "She scrolls her phone in bed", Line: "i tried everything and nothing stuck"},
		{Scene: "She opens a small box on the nightstand", Line: "then a friend told me about drift"},
		{Scene: "She sleeps calmly as morning light arrives", Line: "now i wake up actually rested"},
		{Scene: "She smiles at the camera in the kitchen", Line: "tap the link and try it tonight"},
	}
}

func testAnchors() domain.AnchorURLs {
	return domain.AnchorURLs{
		Before: "https://cdn.example.com/before.png",
		Sheet:  "https://cdn.example.com/sheet.png",
		After:  "https://cdn.example.com/after.png",
	}
}

func testPlan(mode domain.GenerationMode) domain.AdPlan {
	return domain.AdPlan{
		ID:        "ad01_problem_aware_friend",
		Entry:     domain.VariantEntry{ID: "ad01_problem_aware_friend", Stage: domain.StageProblemAware, Category: domain.CategoryFriend},
		Character: domain.Character{ID: "CHR_JULES_BENNETT", Name: "Jules Bennett", Gender: "female"},
		Clips:     testClips(),
		Anchors:   testAnchors(),
		Mode:      mode,
	}
}
