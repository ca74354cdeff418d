package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/go-video-ad-kit/examples"
	"github.com/shouni/go-video-ad-kit/internal/builder"
	"github.com/shouni/go-video-ad-kit/internal/config"
	checkrunner "github.com/shouni/go-video-ad-kit/internal/runner"
	"github.com/shouni/go-video-ad-kit/pkg/asset"
	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/stats"
	"github.com/shouni/go-video-ad-kit/pkg/variant"
)

// ErrChecksFailed は check で FAIL が1件以上あったことを表すのだ。
var ErrChecksFailed = errors.New("pipeline checks failed")

// ExecuteGenerate は run 設定のすべてのバリエーションについて、実際にプロバイダを呼び出して広告を生成するのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}
	if cfg.Ad.ProviderAPIKey == "" {
		return fmt.Errorf("環境変数 FAL_KEY が設定されていないのだ。generate にはプロバイダの API キーが必須なのだ")
	}

	entries := expandEntries(appCtx.Run)
	anchors := domain.AnchorURLs{}
	if appCtx.Run.Mode == domain.ModeChained {
		slog.InfoContext(ctx, "Phase 1: アンカー画像を準備するのだ...")
		anchors = builder.BuildAnchorPreparer(appCtx).Prepare(ctx, appCtx.Run.Anchors)
	}

	adRunner, err := builder.BuildAdRunner(appCtx, anchors)
	if err != nil {
		return fmt.Errorf("AdRunnerの構築に失敗したのだ: %w", err)
	}

	slog.InfoContext(ctx, "Phase 2: 広告の生成を開始するのだ...", "variants", len(entries), "mode", appCtx.Run.Mode.String())
	results, runErr := adRunner.Run(ctx, entries)

	if err := appCtx.Stats.Flush(); err != nil {
		slog.WarnContext(ctx, "learnings の保存に失敗したのだ", "path", appCtx.Run.Learnings, "error", err)
	}
	printResults(out, results)
	if runErr != nil {
		return fmt.Errorf("広告生成に失敗したのだ: %w", runErr)
	}
	return nil
}

// ExecutePlan はプロバイダを呼ばずに、各バリエーションのリクエスト記述子をマニフェストとして書き出すのだ。
func ExecutePlan(ctx context.Context, cfg *config.Config, out io.Writer) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}

	entries := expandEntries(appCtx.Run)
	anchors := domain.AnchorURLs{
		Before: httpsOnly(appCtx.Run.Anchors.Before),
		Sheet:  httpsOnly(appCtx.Run.Anchors.Sheet),
		After:  httpsOnly(appCtx.Run.Anchors.After),
	}
	adRunner, err := builder.BuildAdRunner(appCtx, anchors)
	if err != nil {
		return fmt.Errorf("AdRunnerの構築に失敗したのだ: %w", err)
	}

	plans, err := adRunner.DryRun(ctx, entries)
	if err != nil {
		return fmt.Errorf("プランの作成に失敗したのだ: %w", err)
	}

	ids := make([]string, 0, len(plans))
	for id := range plans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "%s\n", id)
		for i, req := range plans[id] {
			frames := "text-only"
			if req.Payload.HasFrames() {
				frames = fmt.Sprintf("first=%s last=%s", orDash(req.Payload.FirstFrameURL), orDash(req.Payload.LastFrameURL))
			}
			fmt.Fprintf(out, "  clip %d  %-50s %s\n", i+1, req.Endpoint, frames)
		}
	}
	fmt.Fprintf(out, "%d/%d variants planned, manifests under %s\n", len(plans), len(entries), appCtx.Run.OutputDir)
	return nil
}

// ExecuteVariants は run 設定から展開されるバリエーション ID を表示するのだ。
func ExecuteVariants(cfg *config.Config, out io.Writer) error {
	run, err := loadRun(cfg.Options)
	if err != nil {
		return err
	}
	for _, e := range expandEntries(run) {
		fmt.Fprintf(out, "%s\t%s\t%s\n", e.ID, e.Stage, e.Category)
	}
	return nil
}

// ExecuteCheck は埋め込みフィクスチャでパイプラインの各部品を検査し、判定を表示するのだ。
func ExecuteCheck(ctx context.Context, cfg *config.Config, out io.Writer) (checkrunner.Report, error) {
	pack, err := examples.LoadCharacterPack()
	if err != nil {
		return checkrunner.Report{}, fmt.Errorf("埋め込みキャラクターパックの読み込みに失敗したのだ: %w", err)
	}
	offer, err := examples.LoadOffer()
	if err != nil {
		return checkrunner.Report{}, fmt.Errorf("埋め込みオファーの読み込みに失敗したのだ: %w", err)
	}
	clips, err := examples.LoadClips()
	if err != nil {
		return checkrunner.Report{}, fmt.Errorf("埋め込み台本の読み込みに失敗したのだ: %w", err)
	}

	in := checkrunner.CheckInputs{
		Pack:          pack,
		Offer:         offer,
		Clips:         clips,
		Selector:      cfg.Ad.Selector(),
		StyleSuffix:   cfg.Ad.StyleSuffix,
		LearningsPath: config.DefaultLearningsFile,
	}

	var prober checkrunner.Prober
	if run, err := loadRun(cfg.Options); err != nil {
		slog.WarnContext(ctx, "run 設定を読み込めないので疎通確認は飛ばすのだ", "error", err)
	} else {
		in.LearningsPath = run.Learnings
		if !cfg.Options.SkipProbes {
			in.Targets = run.Probes
		}
	}
	if len(in.Targets) > 0 {
		appCtx := builder.NewAppContext(cfg, nil, httpkit.New(httpTimeout(cfg.Options)), offer, pack, nil, nil)
		prober = builder.BuildProber(&appCtx)
	}

	report := checkrunner.NewCheckRunner(in, prober).Run(ctx)
	printReport(out, report)
	if report.Verdict() == checkrunner.VerdictFix {
		return report, ErrChecksFailed
	}
	return report, nil
}

// ExecuteScript は台本ファイルを検証し、シーンの書き換えとフックの順位を表示するのだ。
func ExecuteScript(cfg *config.Config, out io.Writer) (checkrunner.ScriptReport, error) {
	path := cfg.Options.ScriptFile
	var raw []byte
	var err error
	if path == "" {
		raw = examples.ScriptJSON
	} else if raw, err = os.ReadFile(path); err != nil {
		return checkrunner.ScriptReport{}, fmt.Errorf("台本ファイル '%s' の読み込みに失敗したのだ: %w", path, err)
	}
	clips, err := examples.ParseClips(raw)
	if err != nil {
		return checkrunner.ScriptReport{}, err
	}

	offer, err := examples.LoadOffer()
	if cfg.Options.RunFile != "" {
		run, runErr := loadRun(cfg.Options)
		if runErr != nil {
			return checkrunner.ScriptReport{}, runErr
		}
		offer, err = builder.LoadOffer(run)
	}
	if err != nil {
		return checkrunner.ScriptReport{}, err
	}

	report := checkrunner.ReviewScript(clips, offer)
	for i, l := range report.Lines {
		fmt.Fprintf(out, "line %d (%d words): %s\n", i+1, l.WordCount, l.Text)
	}
	for _, e := range report.Validation.Errors {
		fmt.Fprintf(out, "  ✗ %s\n", e)
	}
	for _, s := range report.Scenes {
		if s.Sanitized != s.Original {
			fmt.Fprintf(out, "scene %d rewritten: %s\n", s.Index+1, s.Sanitized)
		}
		if len(s.Triggers) > 0 {
			fmt.Fprintf(out, "  ✗ scene %d triggers: %s\n", s.Index+1, strings.Join(s.Triggers, ", "))
		}
	}
	fmt.Fprintln(out, "hooks:")
	for _, h := range report.Hooks {
		mark := "✓"
		if !h.Passed() {
			mark = "✗"
		}
		fmt.Fprintf(out, "  %s %-13s %s\n", mark, h.Formula, h.Line)
	}
	if !report.Passed() {
		return report, fmt.Errorf("台本が検証を通過しなかったのだ")
	}
	return report, nil
}

// setupAppContext は run 設定・入力ファイル・共有コンポーネントを読み込んで AppContext を組み立てるのだ。
func setupAppContext(cfg *config.Config) (*builder.AppContext, error) {
	run, err := loadRun(cfg.Options)
	if err != nil {
		return nil, err
	}
	offer, err := builder.LoadOffer(run)
	if err != nil {
		return nil, err
	}
	pack, err := builder.LoadCharacterPack(run)
	if err != nil {
		return nil, err
	}
	if run.Script == "" {
		return nil, fmt.Errorf("台本 (run 設定の script または --script-file) を指定してほしいのだ")
	}

	httpClient := httpkit.New(httpTimeout(cfg.Options))
	sink := stats.OpenFileSink(run.Learnings)
	appCtx := builder.NewAppContext(cfg, run, httpClient, offer, pack, asset.LocalWriter{}, sink)
	return &appCtx, nil
}

// loadRun は --run のファイルを読み込み、なければ埋め込みの run.yaml を使うのだ。
func loadRun(opts config.GenerateOptions) (*config.RunConfig, error) {
	var run *config.RunConfig
	var err error
	if opts.RunFile == "" {
		run, err = config.ParseRunConfig(examples.RunYAML)
	} else {
		run, err = config.LoadRunConfig(opts.RunFile)
	}
	if err != nil {
		return nil, err
	}
	if err := run.ApplyOptions(opts); err != nil {
		return nil, err
	}
	return run, nil
}

func expandEntries(run *config.RunConfig) []domain.VariantEntry {
	return variant.Expand(run.Combos, run.VariantCount)
}

func httpTimeout(opts config.GenerateOptions) time.Duration {
	if opts.HTTPTimeout > 0 {
		return opts.HTTPTimeout
	}
	return config.DefaultHTTPTimeout
}

// httpsOnly はアップロード前のローカルパスをプランから外すのだ
func httpsOnly(source string) string {
	if domain.SomeURL(source).IsHTTPS() {
		return source
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printResults(out io.Writer, results []domain.AdResult) {
	for _, r := range results {
		switch {
		case len(r.Rejected) > 0:
			fmt.Fprintf(out, "✗ %s rejected: %s\n", r.EntryID, strings.Join(r.Rejected, "; "))
		case r.Failed() > 0:
			fmt.Fprintf(out, "△ %s %d/%d clips failed (%s)\n", r.EntryID, r.Failed(), len(r.Clips), r.Character)
		default:
			fmt.Fprintf(out, "✓ %s %d clips (%s)\n", r.EntryID, len(r.Clips), r.Character)
		}
	}
}

func printReport(out io.Writer, report checkrunner.Report) {
	group := ""
	for _, c := range report.Checks {
		if c.Group != group {
			group = c.Group
			fmt.Fprintf(out, "[%s]\n", group)
		}
		line := fmt.Sprintf("  %-4s %s", c.Status, c.Name)
		if c.Detail != "" && c.Status != checkrunner.CheckPass {
			line += " - " + c.Detail
		}
		fmt.Fprintln(out, line)
	}
	pass, warn, fail := report.Counts()
	fmt.Fprintf(out, "\n%d passed, %d warnings, %d failed: %s\n", pass, warn, fail, report.Verdict())
}
