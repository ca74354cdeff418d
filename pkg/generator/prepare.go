package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

// AnchorPreparer はアンカー画像をアップロードし、公開 URL を揃えます。
// 同じソースの同時アップロードは1回にまとめ、結果はキャッシュします。
type AnchorPreparer struct {
	uploader    Uploader
	cache       *cache.Cache
	uploadGroup singleflight.Group
}

// NewAnchorPreparer は AnchorPreparer を初期化します。uploader が nil の場合は https URL のみを通します。
func NewAnchorPreparer(uploader Uploader) *AnchorPreparer {
	return &AnchorPreparer{
		uploader: uploader,
		cache:    cache.New(30*time.Minute, 1*time.Hour),
	}
}

// Prepare は before/sheet/after を並列に解決します。
// アップロードに失敗したアセットは警告を出して空文字列になり、アンカー選択のフォールバックに委ねます。
func (ap *AnchorPreparer) Prepare(ctx context.Context, src domain.AnchorSources) domain.AnchorURLs {
	var urls domain.AnchorURLs
	targets := []struct {
		name   string
		source string
		dst    *string
	}{
		{"before", src.Before, &urls.Before},
		{"sheet", src.Sheet, &urls.Sheet},
		{"after", src.After, &urls.After},
	}

	var eg errgroup.Group
	for _, t := range targets {
		t := t
		eg.Go(func() error {
			if t.source == "" {
				return nil
			}
			uri, err := ap.getOrUpload(ctx, t.source)
			if err != nil {
				slog.WarnContext(ctx, "アンカー画像を準備できないため、フォールバックを使います", "anchor", t.name, "source", t.source, "error", err)
				return nil
			}
			*t.dst = uri
			return nil
		})
	}
	_ = eg.Wait()
	return urls
}

// getOrUpload はキャッシュを確認し、必要な場合だけアップロードします。
func (ap *AnchorPreparer) getOrUpload(ctx context.Context, source string) (string, error) {
	if domain.SomeURL(source).IsHTTPS() {
		return source, nil
	}
	if uri, ok := ap.cache.Get(source); ok {
		return uri.(string), nil
	}
	if ap.uploader == nil {
		return "", fmt.Errorf("no uploader configured for %s", source)
	}

	val, err, _ := ap.uploadGroup.Do(source, func() (interface{}, error) {
		// singleflight で待機中に他のゴルーチンがアップロードを完了させている可能性があるため再確認
		if uri, ok := ap.cache.Get(source); ok {
			return uri, nil
		}
		uploaded, err := ap.uploader.Upload(ctx, source)
		if err != nil {
			return nil, err
		}
		if !domain.SomeURL(uploaded).IsHTTPS() {
			return nil, fmt.Errorf("uploader returned a non-https URL %q", uploaded)
		}
		ap.cache.Set(source, uploaded, cache.DefaultExpiration)
		return uploaded, nil
	})
	if err != nil {
		return "", err
	}

	uri, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return uri, nil
}
