// Package probe は外部コラボレータへの読み取り専用の疎通確認を行います。
package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Status は疎通確認の分類結果です。
type Status int

const (
	StatusOK Status = iota
	StatusAuthFailed
	StatusQuotaExhausted
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAuthFailed:
		return "auth_failed"
	case StatusQuotaExhausted:
		return "quota_exhausted"
	case StatusUnreachable:
		return "unreachable"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Doer は HTTP リクエストを実行するクライアントです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Target は疎通確認の対象です。
type Target struct {
	Name   string            `yaml:"name" json:"name"`
	URL    string            `yaml:"url" json:"url"`
	Header map[string]string `yaml:"header,omitempty" json:"header,omitempty"`
}

// Result は1件の疎通確認の結果です。
type Result struct {
	Target     string        `json:"target"`
	Status     Status        `json:"status"`
	HTTPStatus int           `json:"http_status,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	Latency    time.Duration `json:"latency"`
}

// maxBodyPeek は分類のために読み込むレスポンスボディの上限です。
const maxBodyPeek = 4096

var quotaMarkers = []string{"balance", "quota", "credit", "exhausted", "billing"}

// Prober は読み取り専用の GET で疎通を確認します。
type Prober struct {
	client Doer
}

// NewProber は Prober を生成します。
func NewProber(client Doer) *Prober {
	return &Prober{client: client}
}

// Probe は target に GET を送り、結果を分類します。エラーは返さず、常に Result に含めます。
func (p *Prober) Probe(ctx context.Context, target Target) (res Result) {
	res.Target = target.Name
	start := time.Now()
	defer func() { res.Latency = time.Since(start) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		res.Status = StatusUnreachable
		res.Detail = err.Error()
		return res
	}
	for k, v := range target.Header {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		res.Status = StatusUnreachable
		res.Detail = err.Error()
		slog.DebugContext(ctx, "疎通確認に失敗しました", "target", target.Name, "error", err)
		return res
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyPeek))
	res.HTTPStatus = resp.StatusCode
	res.Status = Classify(resp.StatusCode, string(body))
	if res.Status != StatusOK {
		res.Detail = strings.TrimSpace(string(body))
	}
	return res
}

// Classify は HTTP ステータスとボディから疎通状態を分類します。
func Classify(code int, body string) Status {
	switch {
	case code >= 200 && code < 300:
		return StatusOK
	case code == http.StatusPaymentRequired || code == http.StatusTooManyRequests:
		return StatusQuotaExhausted
	case code == http.StatusForbidden && mentionsQuota(body):
		return StatusQuotaExhausted
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return StatusAuthFailed
	default:
		return StatusUnreachable
	}
}

func mentionsQuota(body string) bool {
	lower := strings.ToLower(body)
	for _, m := range quotaMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
