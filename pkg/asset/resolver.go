package asset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shouni/go-utils/urlpath"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

const (
	// DefaultOutputDir は生成結果を格納するデフォルトのディレクトリ名です。
	DefaultOutputDir = "output"
	// DefaultManifestFile は広告1本ごとのマニフェスト JSON のファイル名です。
	DefaultManifestFile = "manifest.json"
	// DefaultPlanFile は dry-run で出力するリクエスト記述子のファイル名です。
	DefaultPlanFile = "plan.json"
	// DefaultClipFileName はクリップ動画の共通のベースファイル名です。
	DefaultClipFileName = "clip.mp4"
)

// ClipFileRegex はクリップ動画 (clip_1.mp4 等) に一致します
var ClipFileRegex = createIndexedRegex(DefaultClipFileName)

// VariantDir はバリエーションごとの出力ディレクトリを返します。
func VariantDir(baseDir string, entry domain.VariantEntry) (string, error) {
	if entry.ID == "" {
		return "", fmt.Errorf("variant entry has no id")
	}
	return urlpath.ResolveOutputPath(baseDir, entry.ID)
}

// ManifestPath はバリエーションのマニフェストのパスを返します。
func ManifestPath(baseDir string, entry domain.VariantEntry) (string, error) {
	return fileInVariant(baseDir, entry, DefaultManifestFile)
}

// PlanPath はバリエーションの dry-run 記述子のパスを返します。
func PlanPath(baseDir string, entry domain.VariantEntry) (string, error) {
	return fileInVariant(baseDir, entry, DefaultPlanFile)
}

// ClipPath は index 番目 (0 始まり) のクリップ動画のパスを返します。
// 例: "output/ad01_unaware_friend", 0 -> "output/ad01_unaware_friend/clip_1.mp4"
func ClipPath(baseDir string, entry domain.VariantEntry, index int) (string, error) {
	base, err := fileInVariant(baseDir, entry, DefaultClipFileName)
	if err != nil {
		return "", err
	}
	return urlpath.GenerateIndexedPath(base, index+1)
}

func fileInVariant(baseDir string, entry domain.VariantEntry, fileName string) (string, error) {
	dir, err := VariantDir(baseDir, entry)
	if err != nil {
		return "", err
	}
	return urlpath.ResolveOutputPath(dir, fileName)
}

// createIndexedRegex は、ファイル名に基づきインデックス付きファイル用の正規表現を生成します。
// 例: "clip.mp4" -> ^clip_\d+\.mp4$
func createIndexedRegex(fileName string) *regexp.Regexp {
	ext := filepath.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	pattern := fmt.Sprintf(`^%s_\d+%s$`, regexp.QuoteMeta(baseName), regexp.QuoteMeta(ext))
	return regexp.MustCompile(pattern)
}
