package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/shouni/go-video-ad-kit/pkg/endpoint"
	"github.com/shouni/go-video-ad-kit/pkg/prompts"
	"github.com/shouni/go-video-ad-kit/pkg/stats"
)

// RetryPolicy はプロバイダ呼び出しの再試行設定です。
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy は推奨される再試行設定を返します。
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 2 * time.Second,
		MaxInterval:     30 * time.Second,
	}
}

// VideoComposer は広告生成で共有する依存関係をまとめたものです。
// 広告間で可変な状態は持たず、レートリミッタだけを共有します。
type VideoComposer struct {
	VideoGenerator VideoGenerator
	PromptBuilder  prompts.ClipPromptBuilder
	Selector       endpoint.Selector
	RateLimiter    *rate.Limiter
	Stats          stats.Sink
	Retry          RetryPolicy
	RequestTimeout time.Duration
}

// NewVideoComposer は VideoComposer の新しいインスタンスを初期化済みの状態で生成します。
func NewVideoComposer(
	videoGen VideoGenerator,
	pb prompts.ClipPromptBuilder,
	selector endpoint.Selector,
	limiter *rate.Limiter,
	sink stats.Sink,
) *VideoComposer {
	if sink == nil {
		sink = stats.NopSink{}
	}
	return &VideoComposer{
		VideoGenerator: videoGen,
		PromptBuilder:  pb,
		Selector:       selector,
		RateLimiter:    limiter,
		Stats:          sink,
		Retry:          DefaultRetryPolicy(),
	}
}

// generate はレート制限・呼び出しごとのタイムアウト・指数バックオフ付きでプロバイダを呼び出します。
// 戻り値の int は実際に呼び出した回数です。
func (vc *VideoComposer) generate(ctx context.Context, req endpoint.Request) (*ClipOutput, int, error) {
	attempts := 0
	op := func() (*ClipOutput, error) {
		if vc.RateLimiter != nil {
			if err := vc.RateLimiter.Wait(ctx); err != nil {
				return nil, backoff.Permanent(err)
			}
		}
		attempts++

		callCtx := ctx
		if vc.RequestTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, vc.RequestTimeout)
			defer cancel()
		}

		out, err := vc.VideoGenerator.Generate(callCtx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}
		if out == nil {
			return nil, fmt.Errorf("provider returned no output for %s", req.Endpoint)
		}
		return out, nil
	}

	out, err := backoff.RetryWithData(op, backoff.WithContext(vc.newBackOff(), ctx))
	return out, attempts, err
}

func (vc *VideoComposer) newBackOff() backoff.BackOff {
	p := vc.Retry
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0
	b.Reset()

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(b, uint64(retries))
}
