package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-video-ad-kit/pkg/anchor"
	"github.com/shouni/go-video-ad-kit/pkg/character"
	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/endpoint"
	"github.com/shouni/go-video-ad-kit/pkg/probe"
	"github.com/shouni/go-video-ad-kit/pkg/prompts"
	"github.com/shouni/go-video-ad-kit/pkg/safety"
	"github.com/shouni/go-video-ad-kit/pkg/script"
	"github.com/shouni/go-video-ad-kit/pkg/stats"
	"github.com/shouni/go-video-ad-kit/pkg/variant"
)

const (
	groupAnchors    = "anchors"
	groupEndpoint   = "endpoint"
	groupValidator  = "validator"
	groupSafety     = "safety"
	groupCharacter  = "character"
	groupVariants   = "variants"
	groupHooks      = "hooks"
	groupLearnings  = "learnings"
	groupProbes     = "probes"
	maxAnchorClips  = 6
	sampleAnchorURL = "https://cdn.example.com/anchors/"
)

// Prober は疎通確認を行うコラボレータなのだ。
type Prober interface {
	Probe(ctx context.Context, target probe.Target) probe.Result
}

// CheckInputs はハーネスに渡すフィクスチャなのだ。
type CheckInputs struct {
	Pack          *domain.CharacterPack
	Offer         domain.Offer
	Clips         []domain.ClipSpec
	Selector      endpoint.Selector
	StyleSuffix   string
	LearningsPath string
	Targets       []probe.Target
}

// CheckRunner は有料の生成エンドポイントを呼ばずに、パイプラインの各部品を検査するのだ。
type CheckRunner struct {
	in     CheckInputs
	prober Prober
}

// NewCheckRunner は CheckRunner を生成するのだ。prober が nil なら疎通確認は飛ばすのだ。
func NewCheckRunner(in CheckInputs, prober Prober) *CheckRunner {
	return &CheckRunner{in: in, prober: prober}
}

// Run はすべてのチェックを実行してレポートを返すのだ。
func (cr *CheckRunner) Run(ctx context.Context) Report {
	var r Report
	cr.checkAnchors(&r)
	cr.checkEndpoint(&r)
	cr.checkValidator(&r)
	cr.checkSafety(&r)
	cr.checkCharacter(&r)
	cr.checkVariants(&r)
	cr.checkHooks(&r)
	cr.checkLearnings(&r)
	cr.checkProbes(ctx, &r)

	pass, warn, fail := r.Counts()
	slog.InfoContext(ctx, "チェックが完了したのだ", "pass", pass, "warn", warn, "fail", fail, "verdict", r.Verdict().String())
	return r
}

func sampleAnchors() domain.AnchorURLs {
	return domain.AnchorURLs{
		Before: sampleAnchorURL + "before.png",
		Sheet:  sampleAnchorURL + "sheet.png",
		After:  sampleAnchorURL + "after.png",
	}
}

func (cr *CheckRunner) checkAnchors(r *Report) {
	urls := sampleAnchors()
	chained := domain.SomeURL(sampleAnchorURL + "chained.png")

	var problems []string
	for n := 1; n <= maxAnchorClips; n++ {
		for i := 0; i < n; i++ {
			pair, err := anchor.GetAnchors(i, n, urls, chained)
			if err != nil {
				problems = append(problems, fmt.Sprintf("(%d,%d): %v", i, n, err))
				continue
			}
			if !pair.First.IsHTTPS() || !pair.Last.IsHTTPS() {
				problems = append(problems, fmt.Sprintf("(%d,%d): non-https anchor", i, n))
			}
			if n > 1 && i == 0 && pair.First.String() == chained.String() {
				problems = append(problems, fmt.Sprintf("(%d,%d): first clip used the chained frame", i, n))
			}
			if i > 0 && pair.First.String() != chained.String() {
				problems = append(problems, fmt.Sprintf("(%d,%d): chained frame not propagated", i, n))
			}
		}
	}
	r.expect(groupAnchors, "all positions resolve https anchors", len(problems) == 0, strings.Join(problems, "; "))

	last, err := anchor.GetAnchors(4, 5, urls, chained)
	r.expect(groupAnchors, "last clip ends on the after image", err == nil && last.Last.String() == urls.After, fmt.Sprintf("got %v (%v)", last.Last, err))

	degraded, err := anchor.GetAnchors(2, 5, domain.AnchorURLs{}, domain.NoURL())
	r.expect(groupAnchors, "missing assets degrade to text-only", err == nil && degraded.IsTextOnly(), fmt.Sprintf("got %+v (%v)", degraded, err))

	_, err = anchor.GetAnchors(5, 5, urls, chained)
	r.expect(groupAnchors, "out-of-range index is rejected", errors.Is(err, anchor.ErrClipOutOfRange), fmt.Sprintf("got %v", err))
}

func (cr *CheckRunner) checkEndpoint(r *Report) {
	sel := cr.in.Selector
	urls := sampleAnchors()

	framed := sel.Select(domain.AnchorPair{First: urls.BeforeURL(), Last: urls.SheetURL()})
	r.expect(groupEndpoint, "anchored clip uses first-last-frame endpoint",
		framed.Endpoint == sel.FirstLastFrame && framed.Payload.HasFrames(), fmt.Sprintf("got %s", framed.Endpoint))

	textOnly := sel.Select(domain.AnchorPair{})
	r.expect(groupEndpoint, "text-only clip uses text-to-video endpoint",
		textOnly.Endpoint == sel.TextToVideo && !textOnly.Payload.HasFrames(), fmt.Sprintf("got %s", textOnly.Endpoint))

	insecure := sel.Select(domain.AnchorPair{First: domain.SomeURL("http://cdn.example.com/a.png")})
	r.expect(groupEndpoint, "non-https frames are never sent",
		insecure.Endpoint == sel.TextToVideo, fmt.Sprintf("got %s", insecure.Endpoint))

	validate := sel.TextOnly()
	r.expect(groupEndpoint, "validate mode bypasses anchors",
		validate.Endpoint == sel.TextToVideo && !validate.Payload.HasFrames(), fmt.Sprintf("got %s", validate.Endpoint))
}

func (cr *CheckRunner) checkValidator(r *Report) {
	res := script.ValidateScript(domain.Lines(cr.in.Clips))
	r.expect(groupValidator, "sample script passes", res.Valid(), strings.Join(res.Errors, "; "))

	bad := script.ValidateScript([]string{
		"this revolutionary serum changed everything for me and my whole family in under a week honestly",
		"over 50,000 people already switched",
	})
	r.expect(groupValidator, "rule violations are collected", len(bad.Errors) >= 3, fmt.Sprintf("got %d errors", len(bad.Errors)))

	empty := script.ValidateScript(nil)
	r.expect(groupValidator, "empty script is rejected", !empty.Valid(), "empty script accepted")
}

func (cr *CheckRunner) checkSafety(r *Report) {
	sanitized := safety.SanitizeScene("A stressed woman feeling overwhelmed and frustrated")
	r.expect(groupSafety, "scene triggers are rewritten", !safety.ContainsSceneTrigger(sanitized), sanitized)

	r.expect(groupSafety, "sanitizer keeps word count",
		len(strings.Fields(sanitized)) == 7, fmt.Sprintf("got %q", sanitized))

	hits := safety.FindVeoTriggers("a real person holding a weapon")
	r.expect(groupSafety, "provider triggers are detected", len(hits) == 2, fmt.Sprintf("got %v", hits))

	if cr.in.Pack == nil || len(cr.in.Clips) == 0 {
		r.add(groupSafety, "sample prompts pass audit", CheckWarn, "no character pack or clips loaded")
		return
	}
	builder := prompts.NewVideoPromptBuilder(cr.in.Pack, cr.in.StyleSuffix)
	char := cr.in.Pack.Characters[0]
	var failed []string
	for i, clip := range cr.in.Clips {
		if _, err := builder.BuildClipPrompt(char, clip, i, len(cr.in.Clips)); err != nil {
			failed = append(failed, err.Error())
		}
	}
	r.expect(groupSafety, "sample prompts pass audit", len(failed) == 0, strings.Join(failed, "; "))
}

func (cr *CheckRunner) checkCharacter(r *Report) {
	pack := cr.in.Pack
	if pack == nil || len(pack.Characters) == 0 {
		r.add(groupCharacter, "roster loaded", CheckFail, "character pack is empty")
		return
	}
	r.pass(groupCharacter, "roster loaded")

	var missing []string
	deterministic := true
	for _, c := range domain.AllCategories() {
		a := character.SelectCharacter(pack, c, "", "", "")
		b := character.SelectCharacter(pack, c, "", "", "")
		if a.ID == "" {
			missing = append(missing, c.String())
		}
		if a.ID != b.ID {
			deterministic = false
		}
	}
	r.expect(groupCharacter, "every category selects a persona", len(missing) == 0, "no persona for "+strings.Join(missing, ", "))
	r.expect(groupCharacter, "selection is deterministic", deterministic, "repeated selection differed")

	want := pack.Characters[len(pack.Characters)-1].ID
	got := character.SelectCharacter(pack, domain.CategoryFriend, "", "", want)
	r.expect(groupCharacter, "preferred id overrides scoring", got.ID == want, fmt.Sprintf("got %s", got.ID))

	if len(pack.Affinities) == 0 {
		r.add(groupCharacter, "category affinities defined", CheckWarn, "pack has no affinities; roster order decides")
	} else {
		r.pass(groupCharacter, "category affinities defined")
	}
}

func (cr *CheckRunner) checkVariants(r *Report) {
	combos := variant.Combos(domain.AllStages(), domain.AllCategories())
	entries := variant.Expand(combos, 2)
	want := len(combos) * 2

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.ID] = struct{}{}
	}
	r.expect(groupVariants, "expansion size", len(entries) == want, fmt.Sprintf("got %d, want %d", len(entries), want))
	r.expect(groupVariants, "variant ids are unique", len(seen) == len(entries), fmt.Sprintf("%d duplicates", len(entries)-len(seen)))
}

func (cr *CheckRunner) checkHooks(r *Report) {
	results := script.RankHooks(cr.in.Offer)
	if len(results) == 0 {
		r.add(groupHooks, "a hook formula passes", CheckWarn, "no hook formulas configured")
		return
	}
	if best, ok := script.FirstPassingHook(cr.in.Offer); ok {
		r.add(groupHooks, "a hook formula passes", CheckPass, best.Formula.String()+": "+best.Line)
		return
	}
	r.add(groupHooks, "a hook formula passes", CheckWarn, "every hook formula breaks a rule; the copy generator must write its own")
}

func (cr *CheckRunner) checkLearnings(r *Report) {
	path := cr.in.LearningsPath
	if path == "" {
		path = stats.DefaultLearningsFile
	}
	data, err := stats.ReadLearnings(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.add(groupLearnings, "learnings file healthy", CheckPass, "not created yet")
	case err != nil:
		r.add(groupLearnings, "learnings file healthy", CheckWarn, err.Error())
	default:
		r.add(groupLearnings, "learnings file healthy", CheckPass, fmt.Sprintf("%d segments", len(data.Segments)))
	}
}

func (cr *CheckRunner) checkProbes(ctx context.Context, r *Report) {
	if cr.prober == nil || len(cr.in.Targets) == 0 {
		return
	}

	results := make([]probe.Result, len(cr.in.Targets))
	var eg errgroup.Group
	for i, target := range cr.in.Targets {
		i, target := i, target
		eg.Go(func() error {
			results[i] = cr.prober.Probe(ctx, target)
			return nil
		})
	}
	_ = eg.Wait()

	for _, res := range results {
		detail := fmt.Sprintf("%s (%s)", res.Status, res.Latency.Round(time.Millisecond))
		if res.Detail != "" {
			detail += ": " + res.Detail
		}
		name := res.Target
		if name == "" {
			name = "probe"
		}
		r.add(groupProbes, name, probeStatus(res.Status), detail)
	}
}

// probeStatus は到達不能を一時的な問題として WARN に、認証とクォータの問題を FAIL に振り分けるのだ
func probeStatus(s probe.Status) CheckStatus {
	switch s {
	case probe.StatusOK:
		return CheckPass
	case probe.StatusUnreachable:
		return CheckWarn
	}
	return CheckFail
}
