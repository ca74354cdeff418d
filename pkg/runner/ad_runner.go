package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-video-ad-kit/pkg/asset"
	"github.com/shouni/go-video-ad-kit/pkg/character"
	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/endpoint"
	"github.com/shouni/go-video-ad-kit/pkg/generator"
	"github.com/shouni/go-video-ad-kit/pkg/prompts"
	"github.com/shouni/go-video-ad-kit/pkg/script"
)

// DefaultClipCount は1本の広告のクリップ数の既定値です。
const DefaultClipCount = 5

// Options は AdRunner の実行時パラメータです。
type Options struct {
	ClipCount            int
	Mode                 domain.GenerationMode
	Anchors              domain.AnchorURLs
	OutputDir            string
	PreferredCharacterID string
	AgeHint              string
	GenderPref           string
	// Clips が指定された場合はコピー生成を呼ばず、すべてのバリエーションでこの台本を使います。
	Clips                []domain.ClipSpec
	Concurrency          int
}

// Manifest はバリエーションごとに保存する生成記録です。
type Manifest struct {
	EntryID     string             `json:"entry_id"`
	Stage       string             `json:"stage"`
	Category    string             `json:"category"`
	Hook        string             `json:"hook,omitempty"`
	Character   domain.Character   `json:"character"`
	Clips       []domain.ClipSpec  `json:"clips,omitempty"`
	Requests    []endpoint.Request `json:"requests,omitempty"`
	Result      *domain.AdResult   `json:"result,omitempty"`
	ClipFiles   map[string]string  `json:"clip_files,omitempty"` // 保存先パス -> 生成済み動画 URL
	GeneratedAt time.Time          `json:"generated_at"`
}

// AdRunner はバリエーションごとにペルソナと台本を決め、広告をまとめて生成します。
type AdRunner struct {
	offer     domain.Offer
	pack      *domain.CharacterPack
	scripts   *AdScriptRunner
	sequencer *generator.Sequencer
	writer    asset.Writer
	opts      Options
}

// NewAdRunner は依存関係を注入して初期化します。writer が nil の場合はマニフェストを保存しません。
func NewAdRunner(
	offer domain.Offer,
	pack *domain.CharacterPack,
	scripts *AdScriptRunner,
	sequencer *generator.Sequencer,
	writer asset.Writer,
	opts Options,
) *AdRunner {
	if opts.ClipCount < 1 {
		opts.ClipCount = DefaultClipCount
	}
	if opts.Mode == domain.ModeChained && opts.Anchors.IsEmpty() {
		slog.Warn("アンカー画像がないため、すべてのクリップをテキストのみで生成します")
	}
	return &AdRunner{
		offer:     offer,
		pack:      pack,
		scripts:   scripts,
		sequencer: sequencer,
		writer:    writer,
		opts:      opts,
	}
}

// draft はプラン作成段階の1バリエーション分の状態です。
type draft struct {
	entry    domain.VariantEntry
	hook     string
	plan     domain.AdPlan
	rejected []string
}

// Run はすべてのバリエーションを生成し、entries と同じ順序で結果を返します。
func (ar *AdRunner) Run(ctx context.Context, entries []domain.VariantEntry) ([]domain.AdResult, error) {
	drafts, err := ar.prepare(ctx, entries)
	if err != nil {
		return nil, err
	}

	plans := make([]domain.AdPlan, 0, len(drafts))
	index := make([]int, 0, len(drafts))
	for i, d := range drafts {
		if d.rejected == nil {
			plans = append(plans, d.plan)
			index = append(index, i)
		}
	}

	batch := generator.NewBatchGenerator(ar.sequencer, ar.opts.Concurrency)
	generated, batchErr := batch.Run(ctx, plans)

	results := make([]domain.AdResult, len(drafts))
	for i, d := range drafts {
		results[i] = domain.AdResult{
			PlanID:    d.entry.ID,
			EntryID:   d.entry.ID,
			Character: d.plan.Character.ID,
			Mode:      ar.opts.Mode.String(),
			Rejected:  d.rejected,
		}
	}
	for j, i := range index {
		if j < len(generated) && generated[j].EntryID != "" {
			results[i] = generated[j]
		}
	}

	for i, d := range drafts {
		res := results[i]
		if err := ar.writeManifest(ctx, d, nil, &res); err != nil {
			return results, err
		}
	}
	if batchErr != nil {
		return results, fmt.Errorf("バッチ生成が中断されました: %w", batchErr)
	}
	return results, nil
}

// DryRun はプロバイダを呼ばずに各バリエーションのリクエスト記述子を返します。
func (ar *AdRunner) DryRun(ctx context.Context, entries []domain.VariantEntry) (map[string][]endpoint.Request, error) {
	drafts, err := ar.prepare(ctx, entries)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]endpoint.Request, len(drafts))
	for _, d := range drafts {
		if d.rejected != nil {
			slog.Warn("台本が却下されたためプランを作成できません", "entry_id", d.entry.ID, "errors", d.rejected)
			continue
		}
		reqs, err := ar.sequencer.Plan(d.plan)
		if err != nil {
			var rej *generator.RejectionError
			if errors.As(err, &rej) {
				slog.Warn("プランが却下されました", "entry_id", d.entry.ID, "error", err)
				continue
			}
			return out, err
		}
		out[d.entry.ID] = reqs
		if err := ar.writeManifest(ctx, d, reqs, nil); err != nil {
			return out, err
		}
	}
	return out, nil
}

// prepare はバリエーションごとにペルソナ・フック・台本を決めます。
func (ar *AdRunner) prepare(ctx context.Context, entries []domain.VariantEntry) ([]draft, error) {
	drafts := make([]draft, len(entries))
	hook, hasHook := script.FirstPassingHook(ar.offer)

	eg, egCtx := errgroup.WithContext(ctx)
	if ar.opts.Concurrency > 0 {
		eg.SetLimit(ar.opts.Concurrency)
	}

	for i, entry := range entries {
		i, entry := i, entry
		eg.Go(func() error {
			persona := character.SelectCharacter(ar.pack, entry.Category, ar.opts.AgeHint, ar.opts.GenderPref, ar.opts.PreferredCharacterID)
			d := draft{entry: entry}
			if hasHook {
				d.hook = hook.Line
			}

			clips, err := ar.clipsFor(egCtx, entry, persona, d.hook)
			var attemptErr *ScriptAttemptError
			switch {
			case errors.As(err, &attemptErr):
				d.rejected = attemptErr.Errors
				if d.rejected == nil {
					d.rejected = []string{attemptErr.Error()}
				}
			case err != nil:
				return fmt.Errorf("entry %s: %w", entry.ID, err)
			}

			d.plan = domain.AdPlan{
				ID:        entry.ID,
				Entry:     entry,
				Character: persona,
				Clips:     clips,
				Anchors:   ar.opts.Anchors,
				Mode:      ar.opts.Mode,
			}
			drafts[i] = d
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (ar *AdRunner) clipsFor(ctx context.Context, entry domain.VariantEntry, persona domain.Character, hook string) ([]domain.ClipSpec, error) {
	if len(ar.opts.Clips) > 0 {
		return append([]domain.ClipSpec(nil), ar.opts.Clips...), nil
	}
	if ar.scripts == nil {
		return nil, errors.New("no copy generator configured and no static clips given")
	}
	data := prompts.NewTemplateData(ar.offer, entry, persona, hook, ar.opts.ClipCount)
	return ar.scripts.Run(ctx, data)
}

func (ar *AdRunner) writeManifest(ctx context.Context, d draft, reqs []endpoint.Request, res *domain.AdResult) error {
	if ar.writer == nil || ar.opts.OutputDir == "" {
		return nil
	}
	resolve := asset.ManifestPath
	if res == nil {
		resolve = asset.PlanPath
	}
	path, err := resolve(ar.opts.OutputDir, d.entry)
	if err != nil {
		return err
	}
	files, err := clipFiles(ar.opts.OutputDir, d.entry, res)
	if err != nil {
		return err
	}
	m := Manifest{
		EntryID:     d.entry.ID,
		Stage:       d.entry.Stage.String(),
		Category:    d.entry.Category.String(),
		Hook:        d.hook,
		Character:   d.plan.Character,
		Clips:       d.plan.Clips,
		Requests:    reqs,
		Result:      res,
		ClipFiles:   files,
		GeneratedAt: time.Now().UTC(),
	}
	if err := asset.WriteJSON(ctx, ar.writer, path, m); err != nil {
		return fmt.Errorf("マニフェストの保存に失敗しました: %w", err)
	}
	slog.Debug("マニフェストを保存しました", "entry_id", d.entry.ID, "path", path)
	return nil
}

// clipFiles は生成済みクリップの保存先パスと動画 URL の対応を返します。
func clipFiles(baseDir string, entry domain.VariantEntry, res *domain.AdResult) (map[string]string, error) {
	if res == nil {
		return nil, nil
	}
	var files map[string]string
	for _, c := range res.Clips {
		if c.VideoURL == "" {
			continue
		}
		path, err := asset.ClipPath(baseDir, entry, c.Index)
		if err != nil {
			return nil, err
		}
		if files == nil {
			files = make(map[string]string)
		}
		files[path] = c.VideoURL
	}
	return files, nil
}
