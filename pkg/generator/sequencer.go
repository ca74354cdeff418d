package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-video-ad-kit/pkg/anchor"
	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/endpoint"
	"github.com/shouni/go-video-ad-kit/pkg/prompts"
	"github.com/shouni/go-video-ad-kit/pkg/script"
	"github.com/shouni/go-video-ad-kit/pkg/stats"
)

// FrameState は前のクリップから引き継ぐ末尾フレームの状態です。
type FrameState int

const (
	// FramePending は前のクリップの生成が終わっていない状態です。
	FramePending FrameState = iota
	// FrameMissing は引き継げるフレームが無いことが確定した状態です。
	FrameMissing
	// FrameReady は有効な https の末尾フレームがある状態です。
	FrameReady
)

func (s FrameState) String() string {
	switch s {
	case FramePending:
		return "pending"
	case FrameMissing:
		return "missing"
	case FrameReady:
		return "ready"
	}
	return fmt.Sprintf("FrameState(%d)", int(s))
}

// chainedFrame はクリップ間で受け渡す末尾フレームです。
type chainedFrame struct {
	state FrameState
	url   domain.URL
}

func missingFrame() chainedFrame { return chainedFrame{state: FrameMissing} }

// frameFrom は有効な https URL のときだけ Ready になります。
func frameFrom(raw string) chainedFrame {
	u := domain.SomeURL(raw)
	if !u.IsHTTPS() {
		return missingFrame()
	}
	return chainedFrame{state: FrameReady, url: u}
}

func (f chainedFrame) resolved() (domain.URL, error) {
	switch f.state {
	case FrameReady:
		return f.url, nil
	case FrameMissing:
		return domain.NoURL(), nil
	case FramePending:
		return domain.NoURL(), errors.New("previous clip has not finished")
	}
	return domain.NoURL(), fmt.Errorf("unknown frame state %d", int(f.state))
}

// Sequencer は1本の広告のクリップを順番に生成し、末尾フレームを次のクリップへ引き継ぎます。
type Sequencer struct {
	composer *VideoComposer
}

// NewSequencer は Sequencer の新しいインスタンスを初期化します。
func NewSequencer(composer *VideoComposer) *Sequencer {
	return &Sequencer{composer: composer}
}

// Run は plan の台本とプロンプトを検証し、通過した場合のみクリップを順番に生成します。
//
// 検証で却下された場合は *RejectionError を返し、プロバイダは呼び出しません。
// クリップの生成失敗はそのクリップを failed として記録して続行し、次のクリップは
// フォールバックのアンカーを使います。エラーを返すのは却下とコンテキストのキャンセルのみです。
func (s *Sequencer) Run(ctx context.Context, plan domain.AdPlan) (domain.AdResult, error) {
	vc := s.composer
	result := domain.AdResult{
		PlanID:    plan.ID,
		EntryID:   plan.Entry.ID,
		Character: plan.Character.ID,
		Mode:      plan.Mode.String(),
	}
	segment := fmt.Sprintf("%s/%s", plan.Entry.Stage, plan.Entry.Category)

	validation := script.ValidateScript(domain.Lines(plan.Clips))
	if !validation.Valid() {
		vc.Stats.Record(stats.Event{Kind: stats.EventScriptRejected, EntryID: plan.Entry.ID, Segment: segment, At: time.Now()})
		result.Rejected = validation.Errors
		return result, &RejectionError{Reason: ErrScriptRejected, Details: validation.Errors}
	}

	clipPrompts, rejected := s.buildPrompts(plan)
	if len(rejected) > 0 {
		vc.Stats.Record(stats.Event{Kind: stats.EventPromptRejected, EntryID: plan.Entry.ID, Segment: segment, At: time.Now()})
		result.Rejected = rejected
		return result, &RejectionError{Reason: ErrPromptRejected, Details: rejected}
	}

	total := len(plan.Clips)
	frame := missingFrame()
	adLogger := slog.With("ad_id", plan.ID, "entry_id", plan.Entry.ID, "character_id", plan.Character.ID, "mode", plan.Mode.String())

	for i := range plan.Clips {
		pos, _ := domain.PositionOf(i, total)
		clip := domain.ClipResult{
			Index:    i,
			Position: pos,
			Prompt:   clipPrompts[i].Prompt,
			Status:   domain.ClipPlanned,
		}

		req, err := s.request(plan, i, total, frame, &clip)
		if err != nil {
			return result, fmt.Errorf("clip %d: %w", i+1, err)
		}
		if plan.Mode == domain.ModeChained && i > 0 {
			kind := stats.EventFrameFallback
			if frame.state == FrameReady {
				kind = stats.EventFrameChained
			}
			vc.Stats.Record(stats.Event{Kind: kind, EntryID: plan.Entry.ID, Segment: segment, Clip: i, At: time.Now()})
		}
		req = req.WithPrompt(clipPrompts[i].Prompt, clipPrompts[i].NegativePrompt)
		clip.Endpoint = req.Endpoint

		logger := adLogger.With("clip", i+1, "of", total, "position", pos.String())
		logger.InfoContext(ctx, "Starting clip generation",
			"endpoint", req.Endpoint,
			"first_frame", req.Payload.FirstFrameURL != "",
			"last_frame", req.Payload.LastFrameURL != "",
		)

		frame = chainedFrame{state: FramePending}
		startTime := time.Now()
		out, attempts, err := vc.generate(ctx, req)
		clip.Attempts = attempts

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				clip.Status = domain.ClipFailed
				clip.Error = ctxErr.Error()
				result.Clips = append(result.Clips, clip)
				return result, fmt.Errorf("ad %s canceled at clip %d: %w", plan.ID, i+1, ctxErr)
			}
			frame = missingFrame()
			clip.Status = domain.ClipFailed
			clip.Error = err.Error()
			vc.Stats.Record(stats.Event{Kind: stats.EventClipFailed, EntryID: plan.Entry.ID, Segment: segment, Clip: i, At: time.Now()})
			logger.Warn("Clip generation failed, next clip falls back to static anchors", "attempts", attempts, "error", err)
			result.Clips = append(result.Clips, clip)
			continue
		}

		frame = frameFrom(out.LastFrameURL)
		if frame.state != FrameReady && out.LastFrameURL != "" {
			logger.Debug("Discarding last frame that is not a valid https URL", "last_frame_url", out.LastFrameURL)
		}
		clip.Status = domain.ClipGenerated
		clip.VideoURL = out.VideoURL
		clip.LastFrame = frame.url
		vc.Stats.Record(stats.Event{Kind: stats.EventClipGenerated, EntryID: plan.Entry.ID, Segment: segment, Clip: i, At: time.Now()})
		logger.Info("Clip generation completed",
			"duration", time.Since(startTime).Round(time.Millisecond),
			"attempts", attempts,
			"frame", frame.state.String(),
		)
		result.Clips = append(result.Clips, clip)
	}

	vc.Stats.Record(stats.Event{Kind: stats.EventAdCompleted, EntryID: plan.Entry.ID, Segment: segment, At: time.Now()})
	adLogger.Info("Ad generation completed", "clips", total, "failed", result.Failed())
	return result, nil
}

// Plan はプロバイダを呼ばずに、各クリップのリクエスト記述子を組み立てます。
// チェーンモードでは前のクリップの末尾フレームが得られないものとして計算します。
func (s *Sequencer) Plan(plan domain.AdPlan) ([]endpoint.Request, error) {
	validation := script.ValidateScript(domain.Lines(plan.Clips))
	if !validation.Valid() {
		return nil, &RejectionError{Reason: ErrScriptRejected, Details: validation.Errors}
	}
	clipPrompts, rejected := s.buildPrompts(plan)
	if len(rejected) > 0 {
		return nil, &RejectionError{Reason: ErrPromptRejected, Details: rejected}
	}

	total := len(plan.Clips)
	reqs := make([]endpoint.Request, 0, total)
	for i := range plan.Clips {
		var clip domain.ClipResult
		req, err := s.request(plan, i, total, missingFrame(), &clip)
		if err != nil {
			return nil, fmt.Errorf("clip %d: %w", i+1, err)
		}
		reqs = append(reqs, req.WithPrompt(clipPrompts[i].Prompt, clipPrompts[i].NegativePrompt))
	}
	return reqs, nil
}

// request はモードに応じてアンカーとエンドポイントを決めます。
// validate モードではアンカーを一切計算しません。
func (s *Sequencer) request(plan domain.AdPlan, i, total int, frame chainedFrame, clip *domain.ClipResult) (endpoint.Request, error) {
	selector := s.composer.Selector
	switch plan.Mode {
	case domain.ModeValidate:
		return selector.TextOnly(), nil
	case domain.ModeChained:
		chained, err := frame.resolved()
		if err != nil {
			return endpoint.Request{}, err
		}
		pair, err := anchor.GetAnchors(i, total, plan.Anchors, chained)
		if err != nil {
			return endpoint.Request{}, err
		}
		clip.Anchors = pair
		return selector.Select(pair), nil
	}
	return endpoint.Request{}, fmt.Errorf("unknown generation mode %d", int(plan.Mode))
}

func (s *Sequencer) buildPrompts(plan domain.AdPlan) ([]prompts.ClipPrompt, []string) {
	total := len(plan.Clips)
	out := make([]prompts.ClipPrompt, total)
	var rejected []string
	for i, clip := range plan.Clips {
		cp, err := s.composer.PromptBuilder.BuildClipPrompt(plan.Character, clip, i, total)
		if err != nil {
			rejected = append(rejected, err.Error())
			continue
		}
		out[i] = cp
	}
	return out, rejected
}
