// Package script は広告台本の作成ルール（語数・数字・バズワード）を検証します。
package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

const (
	// MaxLineWords は1行あたりの最大語数です（クリップ尺の目安）。
	MaxLineWords = 20
	// MaxHookWords はフック（1行目）の最大語数です。
	MaxHookWords = 15
)

// BannedBuzzwords は台本に使用できない宣伝文句です。
var BannedBuzzwords = []string{
	"revolutionary",
	"game-changer",
	"game changer",
	"game-changing",
	"groundbreaking",
	"cutting-edge",
	"innovative",
	"disruptive",
	"next-level",
	"best-in-class",
	"world-class",
	"synergy",
	"unleash",
	"supercharge",
	"miracle",
}

var buzzwordPattern = compileWordList(BannedBuzzwords)

// ValidateScript は台本全体を検証し、違反をすべて収集して返します。
// 1つでも違反があれば台本は不採用です。
func ValidateScript(lines []string) domain.ScriptValidationResult {
	var errs []string
	if len(lines) == 0 {
		return domain.ScriptValidationResult{Errors: []string{"script is empty"}}
	}

	for i, raw := range lines {
		line := domain.NewScriptLine(raw)
		label := fmt.Sprintf("line %d", i+1)

		if strings.TrimSpace(raw) == "" {
			errs = append(errs, fmt.Sprintf("%s: line is empty", label))
			continue
		}
		if line.WordCount > MaxLineWords {
			errs = append(errs, fmt.Sprintf("%s: %d words exceeds the %d word limit", label, line.WordCount, MaxLineWords))
		}
		if i == 0 && line.WordCount > MaxHookWords {
			errs = append(errs, fmt.Sprintf("%s: hook has %d words, exceeds the %d word hook limit", label, line.WordCount, MaxHookWords))
		}
		errs = append(errs, digitErrors(label, line)...)
		for _, word := range findBuzzwords(raw) {
			errs = append(errs, fmt.Sprintf("%s: banned buzzword %q", label, word))
		}
	}

	return domain.ScriptValidationResult{Errors: errs}
}

func digitErrors(label string, line domain.ScriptLine) []string {
	errs := make([]string, 0, len(line.DigitMatches))
	for _, m := range line.DigitMatches {
		errs = append(errs, fmt.Sprintf("%s: number %q must be spelled out", label, m))
	}
	return errs
}

func findBuzzwords(text string) []string {
	matches := buzzwordPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToLower(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// compileWordList は大文字小文字を無視した単語単位の一致パターンを生成します。
func compileWordList(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
