package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssets() []ModelAsset {
	return []ModelAsset{
		{Name: "craft", Payload: []byte("craft-weights"), FileName: "craft_mlt_25k.pth"},
		{Name: "english_g2", Payload: []byte("english-weights"), FileName: "english_g2.pth"},
	}
}

// countWrites 统计每个文件的写入次数
func countWrites(s *Stager) map[string]int {
	var mu sync.Mutex
	counts := make(map[string]int)
	next := s.writeFile
	s.writeFile = func(path string, data []byte) error {
		mu.Lock()
		counts[filepath.Base(path)]++
		mu.Unlock()
		return next(path, data)
	}
	return counts
}

func TestCacheDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp", "easyocr-models-v1.2.3"), CacheDir("/tmp", "1.2.3"))
	assert.Equal(t, CacheDir("/tmp", "1.2.3"), CacheDir("/tmp", "1.2.3"))
	assert.NotEqual(t, CacheDir("/tmp", "1.2.3"), CacheDir("/tmp", "1.2.4"))
}

func TestStager_Idempotent(t *testing.T) {
	root := t.TempDir()
	s := NewStager(root, "9.9.9", testAssets())
	counts := countWrites(s)

	var dirs []string
	for i := 0; i < 5; i++ {
		dir, err := s.Stage()
		require.NoError(t, err)
		dirs = append(dirs, dir)
	}

	for _, d := range dirs {
		assert.Equal(t, CacheDir(root, "9.9.9"), d)
	}
	assert.Equal(t, map[string]int{"craft_mlt_25k.pth": 1, "english_g2.pth": 1}, counts)

	for _, a := range testAssets() {
		got, err := os.ReadFile(filepath.Join(dirs[0], a.FileName))
		require.NoError(t, err)
		assert.Equal(t, a.Payload, got)
	}
}

func TestStager_ConcurrentStage(t *testing.T) {
	s := NewStager(t.TempDir(), "1.0.0", testAssets())
	counts := countWrites(s)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Stage()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, counts["craft_mlt_25k.pth"])
	assert.Equal(t, 1, counts["english_g2.pth"])
}

func TestStager_ReusesExistingFiles(t *testing.T) {
	root := t.TempDir()
	dir := CacheDir(root, "1.0.0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "craft_mlt_25k.pth"), []byte("already here"), 0o644))

	s := NewStager(root, "1.0.0", testAssets())
	counts := countWrites(s)

	_, err := s.Stage()
	require.NoError(t, err)

	assert.Equal(t, 0, counts["craft_mlt_25k.pth"])
	assert.Equal(t, 1, counts["english_g2.pth"])

	// 已存在的文件不做校验
	got, err := os.ReadFile(filepath.Join(dir, "craft_mlt_25k.pth"))
	require.NoError(t, err)
	assert.Equal(t, "already here", string(got))
}

func TestStager_VersionsDoNotCollide(t *testing.T) {
	root := t.TempDir()
	a, err := NewStager(root, "1.0.0", testAssets()).Stage()
	require.NoError(t, err)
	b, err := NewStager(root, "2.0.0", testAssets()).Stage()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStager_RetryAfterFailure(t *testing.T) {
	s := NewStager(t.TempDir(), "1.0.0", testAssets())
	counts := countWrites(s)

	fail := true
	next := s.writeFile
	s.writeFile = func(path string, data []byte) error {
		if fail {
			return errors.New("disk full")
		}
		return next(path, data)
	}

	_, err := s.Stage()
	require.Error(t, err)
	assert.False(t, s.staged)

	fail = false
	dir, err := s.Stage()
	require.NoError(t, err)
	assert.Equal(t, s.Dir(), dir)
	assert.True(t, s.staged)
	assert.Equal(t, 1, counts["english_g2.pth"])
}

func TestStager_MkdirFailure(t *testing.T) {
	// root 是一个普通文件, 无法在其下创建目录
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	_, err := NewStager(root, "1.0.0", testAssets()).Stage()
	assert.Error(t, err)
}

func TestStager_PayloadMissing(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"empty", nil},
		{"lfs pointer", []byte("version https://git-lfs.github.com/spec/v1\noid sha256:00\nsize 1\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			s := NewStager(root, "1.0.0", []ModelAsset{{Name: "craft", Payload: tt.payload, FileName: "craft_mlt_25k.pth"}})
			_, err := s.Stage()
			require.ErrorIs(t, err, ErrPayloadMissing)

			_, statErr := os.Stat(s.Dir())
			assert.True(t, os.IsNotExist(statErr), "nothing should be written")
		})
	}
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Equal(t, CacheDir(os.TempDir(), Version), Default().Dir())
	assert.Len(t, Models, 2)
}

func TestStager_StatErrorNotTreatedAsStaged(t *testing.T) {
	root := t.TempDir()
	s := NewStager(root, "1.0.0", testAssets())
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	// nested.pth 的父级是普通文件, stat 返回 ENOTDIR, 不能当作已释放
	s.assets = append(s.assets, ModelAsset{Name: "nested", Payload: []byte("x"), FileName: filepath.Join("craft_mlt_25k.pth", "nested.pth")})
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "craft_mlt_25k.pth"), []byte("w"), 0o644))

	_, err := s.Stage()
	require.Error(t, err)
	assert.False(t, s.staged)
}
