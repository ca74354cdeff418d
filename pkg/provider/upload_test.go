package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestUploader_Upload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("ファイルを送信して URL を受け取る", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "image/png" {
				t.Errorf("content type = %q", r.Header.Get("Content-Type"))
			}
			if r.Header.Get("Authorization") != "Key k" {
				t.Errorf("auth = %q", r.Header.Get("Authorization"))
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "png-bytes" {
				t.Errorf("body = %q", body)
			}
			_, _ = w.Write([]byte(`{"url": "https://cdn.example.com/sheet.png"}`))
		}))
		defer srv.Close()

		u := NewUploader(srv.Client(), srv.URL, "k")
		got, err := u.Upload(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "https://cdn.example.com/sheet.png" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("file_url 形式の応答も受け付ける", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"file_url": "https://cdn.example.com/x.png"}`))
		}))
		defer srv.Close()

		got, err := NewUploader(srv.Client(), srv.URL, "").Upload(context.Background(), path)
		if err != nil || got != "https://cdn.example.com/x.png" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("2xx 以外は StatusError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := NewUploader(srv.Client(), srv.URL, "").Upload(context.Background(), path)
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
			t.Errorf("expected StatusError 403, got %v", err)
		}
	})

	t.Run("存在しないファイルはエラー", func(t *testing.T) {
		u := NewUploader(http.DefaultClient, "http://127.0.0.1:0", "")
		if _, err := u.Upload(context.Background(), filepath.Join(dir, "missing.png")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("リモートのソースは拒否する", func(t *testing.T) {
		u := NewUploader(http.DefaultClient, "http://127.0.0.1:0", "")
		if _, err := u.Upload(context.Background(), "gs://bucket/a.png"); err == nil {
			t.Error("expected error")
		}
	})
}
