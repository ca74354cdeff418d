// Package provider は動画生成プロバイダの HTTP アダプタです。
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shouni/go-video-ad-kit/pkg/endpoint"
	"github.com/shouni/go-video-ad-kit/pkg/generator"
)

// Doer は HTTP リクエストを実行するクライアントです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody はエラー応答から読み込むボディの上限です。
const maxErrorBody = 2048

// Client は generator.VideoGenerator の HTTP 実装です。
type Client struct {
	httpClient Doer
	baseURL    string
	apiKey     string
}

var _ generator.VideoGenerator = (*Client)(nil)

// NewClient は Client を生成します。
func NewClient(httpClient Doer, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type fileRef struct {
	URL string `json:"url"`
}

type generateResponse struct {
	Video        fileRef  `json:"video"`
	LastFrame    *fileRef `json:"last_frame,omitempty"`
	LastFrameURL string   `json:"last_frame_url,omitempty"`
}

// StatusError はプロバイダが 2xx 以外を返したことを表します。
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Generate は {base}/{endpoint} にペイロードを POST し、動画 URL と末尾フレーム URL を返します。
func (c *Client) Generate(ctx context.Context, req endpoint.Request) (*generator.ClipOutput, error) {
	body, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("ペイロードのエンコードに失敗しました: %w", err)
	}

	url := c.baseURL + "/" + strings.TrimLeft(req.Endpoint, "/")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Key "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("provider %s request failed: %w", req.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Endpoint: req.Endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("provider %s のレスポンスのパースに失敗しました: %w", req.Endpoint, err)
	}
	if out.Video.URL == "" {
		return nil, fmt.Errorf("provider %s のレスポンスに video.url がありません", req.Endpoint)
	}

	last := out.LastFrameURL
	if out.LastFrame != nil && out.LastFrame.URL != "" {
		last = out.LastFrame.URL
	}
	return &generator.ClipOutput{VideoURL: out.Video.URL, LastFrameURL: last}, nil
}
