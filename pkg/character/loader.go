package character

import (
	"fmt"
	"os"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-video-ad-kit/pkg/domain"
)

// Loader はキャラクターパックをパスごとに1度だけ読み込み、以降はキャッシュから返します。
// 返すパックは常に複製なので、呼び出し側が書き換えてもキャッシュには影響しません。
type Loader struct {
	cache    *cache.Cache
	readFile func(string) ([]byte, error)
}

// NewLoader は Loader を生成します。
func NewLoader() *Loader {
	return &Loader{
		cache:    cache.New(30*time.Minute, 1*time.Hour),
		readFile: os.ReadFile,
	}
}

// Load は path のキャラクターパックを返します。
func (l *Loader) Load(path string) (*domain.CharacterPack, error) {
	if cached, ok := l.cache.Get(path); ok {
		if pack, ok := cached.(*domain.CharacterPack); ok {
			return pack.Clone(), nil
		}
	}

	data, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("キャラクターパック %s の読み込みに失敗しました: %w", path, err)
	}
	pack, err := domain.ParseCharacterPack(data)
	if err != nil {
		return nil, fmt.Errorf("キャラクターパック %s: %w", path, err)
	}

	l.cache.Set(path, pack, cache.DefaultExpiration)
	return pack.Clone(), nil
}

// LoadBytes は埋め込み済みのパックなど、ファイル以外のソースを key でキャッシュします。
func (l *Loader) LoadBytes(key string, data []byte) (*domain.CharacterPack, error) {
	if cached, ok := l.cache.Get(key); ok {
		if pack, ok := cached.(*domain.CharacterPack); ok {
			return pack.Clone(), nil
		}
	}
	pack, err := domain.ParseCharacterPack(data)
	if err != nil {
		return nil, err
	}
	l.cache.Set(key, pack, cache.DefaultExpiration)
	return pack.Clone(), nil
}
