// Package safety は画像・動画生成プロンプトのコンテンツポリシー対策を提供します。
package safety

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SceneReplacements はシーン描写から取り除くトリガー語と、その中立的な置き換えです。
// どの置き換え語もトリガー語を含まないため、1回の走査で置換が完了します。
var SceneReplacements = map[string]string{
	"stressed":    "thoughtful",
	"overwhelmed": "busy",
	"ignored":     "overlooked",
	"crying":      "emotional",
	"sobbing":     "emotional",
	"tearful":     "emotional",
	"sad":         "reflective",
	"depressed":   "pensive",
	"miserable":   "quiet",
	"hopeless":    "uncertain",
	"lonely":      "independent",
	"anxious":     "curious",
	"panicked":    "surprised",
	"angry":       "determined",
	"furious":     "determined",
	"frustrated":  "focused",
	"desperate":   "eager",
	"exhausted":   "tired",
	"upset":       "concerned",
	"devastated":  "moved",
}

var scenePattern = compileTriggerPattern(SceneReplacements)

// SanitizeScene はシーン描写に含まれるトリガー語を中立的な語へ置き換えます。
// 大文字小文字を無視した単語単位の置換で、元の語の大文字表記は置き換え語に引き継ぎます。
// 表に無い語は変更しません。
func SanitizeScene(text string) string {
	return scenePattern.ReplaceAllStringFunc(text, func(match string) string {
		replacement, ok := SceneReplacements[strings.ToLower(match)]
		if !ok {
			return match
		}
		return matchCase(match, replacement)
	})
}

// ContainsSceneTrigger はテキストにトリガー語が残っている場合に true を返します。
func ContainsSceneTrigger(text string) bool {
	return scenePattern.MatchString(text)
}

func matchCase(original, replacement string) string {
	if strings.ToUpper(original) == original && strings.ToLower(original) != original {
		return strings.ToUpper(replacement)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(replacement)
		return string(unicode.ToUpper(r)) + replacement[size:]
	}
	return replacement
}

func compileTriggerPattern(table map[string]string) *regexp.Regexp {
	words := make([]string, 0, len(table))
	for w := range table {
		words = append(words, w)
	}
	// 長い語を先に並べ、パターンを決定論的にします。
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
