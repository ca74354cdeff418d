package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-video-ad-kit/pkg/generator"
)

// Uploader はローカルのアンカー画像をプロバイダのストレージへ送り、公開 URL を受け取ります。
type Uploader struct {
	httpClient Doer
	uploadURL  string
	apiKey     string
	readFile   func(string) ([]byte, error)
}

var _ generator.Uploader = (*Uploader)(nil)

// NewUploader は Uploader を生成します。
func NewUploader(httpClient Doer, uploadURL, apiKey string) *Uploader {
	return &Uploader{
		httpClient: httpClient,
		uploadURL:  uploadURL,
		apiKey:     apiKey,
		readFile:   os.ReadFile,
	}
}

type uploadResponse struct {
	URL     string `json:"url"`
	FileURL string `json:"file_url"`
}

// Upload は source のバイト列を POST し、応答の url (または file_url) を返します。
func (u *Uploader) Upload(ctx context.Context, source string) (string, error) {
	if strings.Contains(source, "://") {
		return "", fmt.Errorf("リモートのソースはアップロードできません: %s", source)
	}
	data, err := u.readFile(source)
	if err != nil {
		return "", fmt.Errorf("アンカー画像の読み込みに失敗しました: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(source))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-File-Name", filepath.Base(source))
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Key "+u.apiKey)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s failed: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Endpoint: "upload", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("アップロード応答のパースに失敗しました: %w", err)
	}
	if out.URL != "" {
		return out.URL, nil
	}
	if out.FileURL != "" {
		return out.FileURL, nil
	}
	return "", fmt.Errorf("アップロード応答に url がありません")
}
