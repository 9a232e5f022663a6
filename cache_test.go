package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thiremani/segarr/config"
)

func TestIsHashDir(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"0a1b2c3d", true},
		{"deadbeef", true},
		{"0a1b2c3", false},
		{"0a1b2c3d4", false},
		{"notahash", false},
		{".lock", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isHashDir(tt.name), tt.name)
	}
}

func TestCacheKey(t *testing.T) {
	srcs := []source{{path: "/a/tables.seg", data: []byte("a = int [1]\n")}}
	cfg := config.Config{Package: "tables", Output: config.DefaultOutput, Module: "tables"}

	short, full := cacheKey(srcs, cfg)
	assert.Len(t, full, 64)
	assert.Equal(t, full[:8], short)
	assert.True(t, isHashDir(short))

	// directory does not matter, only the file name
	_, same := cacheKey([]source{{path: "/b/tables.seg", data: srcs[0].data}}, cfg)
	assert.Equal(t, full, same)

	// output path does not change the generated text
	moved := cfg
	moved.Output = "other_gen.go"
	_, same = cacheKey(srcs, moved)
	assert.Equal(t, full, same)

	variants := map[string]func() string{
		"source": func() string {
			_, k := cacheKey([]source{{path: "/a/tables.seg", data: []byte("a = int [2]\n")}}, cfg)
			return k
		},
		"name": func() string {
			_, k := cacheKey([]source{{path: "/a/other.seg", data: srcs[0].data}}, cfg)
			return k
		},
		"package": func() string {
			c := cfg
			c.Package = "lut"
			_, k := cacheKey(srcs, c)
			return k
		},
		"ir": func() string {
			c := cfg
			c.IR = "tables.ll"
			_, k := cacheKey(srcs, c)
			return k
		},
		"max_len": func() string {
			c := cfg
			c.MaxLen = 16
			_, k := cacheKey(srcs, c)
			return k
		},
		// "ab"+"c" and "a"+"bc" must not collide
		"boundary": func() string {
			c := cfg
			c.Package = "tablest"
			c.Module = "ables"
			_, k := cacheKey(srcs, c)
			return k
		},
	}
	for name, key := range variants {
		assert.NotEqual(t, full, key(), name)
	}
}

func TestCachedOutput(t *testing.T) {
	cacheDir := t.TempDir()
	builds := 0
	build := func() (*output, error) {
		builds++
		return &output{Go: []byte("package tables\n"), IR: "; ModuleID = 'tables'\n"}, nil
	}

	short, full := "0a1b2c3d", "0a1b2c3d"+"ffff"

	out, cached, err := cachedOutput(cacheDir, short, full, build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, builds)

	hash, err := os.ReadFile(filepath.Join(cacheDir, GEN_DIR, short, HASH_FILE))
	require.NoError(t, err)
	assert.Equal(t, full, string(hash))

	again, cached, err := cachedOutput(cacheDir, short, full, build)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, builds)
	assert.Equal(t, out, again)
}

func TestCachedOutputWithoutIR(t *testing.T) {
	cacheDir := t.TempDir()
	build := func() (*output, error) { return &output{Go: []byte("package tables\n")}, nil }

	_, _, err := cachedOutput(cacheDir, "0a1b2c3d", "full", build)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(cacheDir, GEN_DIR, "0a1b2c3d", IR_FILE))

	out, cached, err := cachedOutput(cacheDir, "0a1b2c3d", "full", build)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Empty(t, out.IR)
}

func TestCachedOutputMismatch(t *testing.T) {
	cacheDir := t.TempDir()
	builds := 0
	build := func() (*output, error) {
		builds++
		return &output{Go: []byte("package tables\n")}, nil
	}

	_, _, err := cachedOutput(cacheDir, "0a1b2c3d", "first", build)
	require.NoError(t, err)

	// same short key, different full key: treated as a collision
	_, cached, err := cachedOutput(cacheDir, "0a1b2c3d", "second", build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, builds)

	// entry without its Go file is rebuilt
	require.NoError(t, os.Remove(filepath.Join(cacheDir, GEN_DIR, "0a1b2c3d", GO_FILE)))
	_, cached, err = cachedOutput(cacheDir, "0a1b2c3d", "second", build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, builds)
}

func TestCachedOutputBuildError(t *testing.T) {
	cacheDir := t.TempDir()
	failed := errors.New("bad source")

	_, _, err := cachedOutput(cacheDir, "0a1b2c3d", "full", func() (*output, error) { return nil, failed })
	assert.ErrorIs(t, err, failed)
	assert.NoFileExists(t, filepath.Join(cacheDir, GEN_DIR, "0a1b2c3d", HASH_FILE))

	_, cached, err := cachedOutput(cacheDir, "0a1b2c3d", "full", func() (*output, error) {
		return &output{Go: []byte("package tables\n")}, nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestCleanupOldEntries(t *testing.T) {
	genDir := t.TempDir()
	now := time.Now()
	ages := map[string]time.Duration{
		"00000001": 10 * 24 * time.Hour,
		"00000002": 9 * 24 * time.Hour,
		"00000003": 8 * 24 * time.Hour,
		"00000004": time.Hour,
		"00000005": 0,
		"notahash": 30 * 24 * time.Hour,
	}
	for name, age := range ages {
		path := filepath.Join(genDir, name)
		require.NoError(t, os.Mkdir(path, 0755))
		mtime := now.Add(-age)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	cleanupOldEntries(genDir, 2, int64((7 * 24 * time.Hour).Seconds()))

	for _, name := range []string{"00000001", "00000002", "00000003"} {
		assert.NoDirExists(t, filepath.Join(genDir, name))
	}
	for _, name := range []string{"00000004", "00000005", "notahash"} {
		assert.DirExists(t, filepath.Join(genDir, name))
	}
}

func TestCleanupKeepsRecentEntries(t *testing.T) {
	genDir := t.TempDir()
	for _, name := range []string{"00000001", "00000002", "00000003", "00000004"} {
		require.NoError(t, os.Mkdir(filepath.Join(genDir, name), 0755))
	}
	old := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(genDir, "00000001"), old, old))

	cleanupOldEntries(genDir, 1, int64((7 * 24 * time.Hour).Seconds()))

	assert.NoDirExists(t, filepath.Join(genDir, "00000001"))
	for _, name := range []string{"00000002", "00000003", "00000004"} {
		assert.DirExists(t, filepath.Join(genDir, name))
	}
}
