package script

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

// HookFormula はフック（冒頭の1行）のテンプレートです。
type HookFormula int

const (
	HookQuestion HookFormula = iota
	HookCallout
	HookConfession
	HookContrarian
	HookSocialProof
	HookBeforeAfter
)

// HookFormulas は優先順に並んだフックテンプレートです。順序に意味があります。
var HookFormulas = []HookFormula{
	HookQuestion,
	HookCallout,
	HookConfession,
	HookContrarian,
	HookSocialProof,
	HookBeforeAfter,
}

func (f HookFormula) String() string {
	switch f {
	case HookQuestion:
		return "question"
	case HookCallout:
		return "callout"
	case HookConfession:
		return "confession"
	case HookContrarian:
		return "contrarian"
	case HookSocialProof:
		return "social_proof"
	case HookBeforeAfter:
		return "before_after"
	}
	return fmt.Sprintf("HookFormula(%d)", int(f))
}

// ParseHookFormula は名前からフックテンプレートを解決します。
func ParseHookFormula(name string) (HookFormula, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, f := range HookFormulas {
		if f.String() == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown hook formula %q", name)
}

// BuildHookLine はオファーの内容からフックの1行を組み立てます。
func BuildHookLine(formula HookFormula, offer domain.Offer) string {
	problem := lowerFirst(strings.TrimSpace(offer.ProblemSolved))
	product := strings.TrimSpace(offer.ProductName)

	switch formula {
	case HookQuestion:
		return fmt.Sprintf("Still dealing with %s?", problem)
	case HookCallout:
		return fmt.Sprintf("If you're tired of %s, watch this.", problem)
	case HookConfession:
		return fmt.Sprintf("I almost gave up on %s until I found %s.", problem, product)
	case HookContrarian:
		return fmt.Sprintf("Stop trying to fix %s the hard way.", problem)
	case HookSocialProof:
		proof := strings.TrimSpace(offer.SocialProof)
		if proof == "" {
			return fmt.Sprintf("Everyone keeps asking me about %s.", product)
		}
		return fmt.Sprintf("%s, and now I get why.", strings.TrimSuffix(proof, "."))
	case HookBeforeAfter:
		return fmt.Sprintf("This is me before %s fixed %s.", product, problem)
	}
	return ""
}

// CheckHookLine はフックに語数と数字のルールを適用し、違反をすべて返します。
func CheckHookLine(line string) []string {
	sl := domain.NewScriptLine(line)
	var errs []string
	if strings.TrimSpace(line) == "" {
		return []string{"hook: line is empty"}
	}
	if sl.WordCount > MaxHookWords {
		errs = append(errs, fmt.Sprintf("hook: %d words exceeds the %d word hook limit", sl.WordCount, MaxHookWords))
	}
	errs = append(errs, digitErrors("hook", sl)...)
	return errs
}

// HookResult はフックテンプレート1件の組み立て結果と検証結果です。
type HookResult struct {
	Formula HookFormula `json:"formula"`
	Line    string      `json:"line"`
	Errors  []string    `json:"errors,omitempty"`
}

// Passed は違反がない場合に true を返します。
func (r HookResult) Passed() bool {
	return len(r.Errors) == 0
}

// RankHooks はすべてのフックテンプレートを優先順に組み立てて検証します。
// オファーのフレームワークに hook_formulas があれば、その順序と範囲に従います。
func RankHooks(offer domain.Offer) []HookResult {
	formulas := formulasFor(offer)
	results := make([]HookResult, 0, len(formulas))
	for _, f := range formulas {
		line := BuildHookLine(f, offer)
		results = append(results, HookResult{Formula: f, Line: line, Errors: CheckHookLine(line)})
	}
	return results
}

// FirstPassingHook は優先順で最初に検証を通過したフックを返します。
func FirstPassingHook(offer domain.Offer) (HookResult, bool) {
	for _, r := range RankHooks(offer) {
		if r.Passed() {
			return r, true
		}
	}
	return HookResult{}, false
}

func formulasFor(offer domain.Offer) []HookFormula {
	if len(offer.Framework.HookFormulas) == 0 {
		return HookFormulas
	}
	out := make([]HookFormula, 0, len(offer.Framework.HookFormulas))
	for _, name := range offer.Framework.HookFormulas {
		f, err := ParseHookFormula(name)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return HookFormulas
	}
	return out
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
