package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
	"github.com/shouni/go-video-ad-kit/pkg/probe"
)

// CharacterPrefs はペルソナ選択の任意指定なのだ。
type CharacterPrefs struct {
	PreferredID string `yaml:"preferred_id"`
	AgeHint     string `yaml:"age_hint"`
	Gender      string `yaml:"gender"`
}

// RunConfig は run.yaml に書かれた1回分の生成ジョブなのだ。
// パスは実行ディレクトリからの相対パスとして扱うのだ。
type RunConfig struct {
	Offer        string                `yaml:"offer"`
	Characters   string                `yaml:"characters"`
	Mode         domain.GenerationMode `yaml:"mode"`
	ClipCount    int                   `yaml:"clip_count"`
	VariantCount int                   `yaml:"variant_count"`
	Combos       []domain.Combo        `yaml:"combos"`
	Anchors      domain.AnchorSources  `yaml:"anchors"`
	Character    CharacterPrefs        `yaml:"character"`
	Script       string                `yaml:"script"`
	OutputDir    string                `yaml:"output_dir"`
	Learnings    string                `yaml:"learnings"`
	Probes       []probe.Target        `yaml:"probes"`
}

// ParseRunConfig は YAML をパースして既定値を補うのだ。
func ParseRunConfig(data []byte) (*RunConfig, error) {
	var rc RunConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("run 設定の YAML パースに失敗したのだ: %w", err)
	}
	rc.applyDefaults()
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return &rc, nil
}

// LoadRunConfig はファイルから RunConfig を読み込むのだ。
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("run 設定 '%s' の読み込みに失敗したのだ: %w", path, err)
	}
	return ParseRunConfig(data)
}

func (rc *RunConfig) applyDefaults() {
	if rc.VariantCount < 1 {
		rc.VariantCount = DefaultVariantCount
	}
	if rc.OutputDir == "" {
		rc.OutputDir = DefaultOutputDir
	}
	if rc.Learnings == "" {
		rc.Learnings = DefaultLearningsFile
	}
}

// Validate は生成に必要な項目が揃っているかを確認するのだ。
func (rc *RunConfig) Validate() error {
	if len(rc.Combos) == 0 {
		return errors.New("run 設定に combos が1件もないのだ")
	}
	if rc.ClipCount < 0 {
		return fmt.Errorf("clip_count は0以上にしてほしいのだ: %d", rc.ClipCount)
	}
	for i, p := range rc.Probes {
		if p.URL == "" {
			return fmt.Errorf("probes[%d] に url がないのだ", i)
		}
	}
	return nil
}

// ApplyOptions は CLI フラグで指定された値を run 設定に上書きするのだ。
func (rc *RunConfig) ApplyOptions(opts GenerateOptions) error {
	if opts.Mode != "" {
		mode, err := domain.ParseGenerationMode(opts.Mode)
		if err != nil {
			return err
		}
		rc.Mode = mode
	}
	if opts.VariantCount > 0 {
		rc.VariantCount = opts.VariantCount
	}
	if opts.ClipCount > 0 {
		rc.ClipCount = opts.ClipCount
	}
	if opts.ScriptFile != "" {
		rc.Script = opts.ScriptFile
	}
	if opts.CharConfig != "" {
		rc.Characters = opts.CharConfig
	}
	if opts.CharacterID != "" {
		rc.Character.PreferredID = opts.CharacterID
	}
	if opts.OutputDir != "" {
		rc.OutputDir = opts.OutputDir
	}
	if opts.LearningsFile != "" {
		rc.Learnings = opts.LearningsFile
	}
	return nil
}
