package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// VeoTriggers は動画生成プロバイダに拒否されやすい語句です。
// 自動では書き換えず、1件でも含まれればプロンプトの再設計が必要です。
var VeoTriggers = []string{
	"real person",
	"real people",
	"celebrity",
	"weapon",
	"gun",
	"knife",
	"blood",
	"bloody",
	"nude",
	"naked",
	"explicit",
	"violence",
	"violent",
	"kill",
	"suicide",
	"self-harm",
	"drugs",
}

var veoPattern = regexp.MustCompile(`(?i)\b(?:` + quoteAll(VeoTriggers) + `)\b`)

// AuditError はプロンプト監査で検出されたトリガー語の一覧です。
type AuditError struct {
	Hits []string
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("prompt contains video trigger terms: %s", strings.Join(e.Hits, ", "))
}

// AuditPrompt は合成済みプロンプトを VeoTriggers に照らして監査します。
// 検出されたトリガー語はすべて *AuditError にまとめて返します。
func AuditPrompt(prompt string) error {
	hits := FindVeoTriggers(prompt)
	if len(hits) == 0 {
		return nil
	}
	return &AuditError{Hits: hits}
}

// FindVeoTriggers はプロンプト内のトリガー語を出現順・重複なしで返します。
func FindVeoTriggers(prompt string) []string {
	matches := veoPattern.FindAllString(prompt, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	hits := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToLower(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		hits = append(hits, key)
	}
	return hits
}

// ComposePrompt はキャラクター描写・声の特徴・シーン・セリフを1つのプロンプトに合成し、監査します。
// シーンは合成前に SanitizeScene で書き換えます。
func ComposePrompt(characterDesc, voiceProfile, scene, line string) (string, error) {
	parts := make([]string, 0, 4)
	if s := strings.TrimSpace(characterDesc); s != "" {
		parts = append(parts, "Character: "+s)
	}
	if s := strings.TrimSpace(voiceProfile); s != "" {
		parts = append(parts, "Voice: "+s)
	}
	if s := strings.TrimSpace(SanitizeScene(scene)); s != "" {
		parts = append(parts, "Scene: "+s)
	}
	if s := strings.TrimSpace(line); s != "" {
		parts = append(parts, fmt.Sprintf("Says: %q", s))
	}

	prompt := strings.Join(parts, "\n")
	if err := AuditPrompt(prompt); err != nil {
		return prompt, err
	}
	return prompt, nil
}

func quoteAll(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
