package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	"github.com/thiremani/segarr/config"
)

const (
	GEN_DIR   = "gen"
	GO_FILE   = "gen.go"
	IR_FILE   = "gen.ll"
	HASH_FILE = ".hash"

	keepEntries = 20
	minEntryAge = 7 * 24 * 60 * 60 // one week, in seconds
)

// isHashDir returns true if name is an 8-char hex string (matches the short key).
func isHashDir(name string) bool {
	if len(name) != 8 {
		return false
	}
	_, err := hex.DecodeString(name)
	return err == nil
}

// cacheKey hashes everything that affects the generated output: the tool
// build, the settings, and each source's name and contents. Returns the
// short key (directory name) and the full key (collision check).
func cacheKey(srcs []source, cfg config.Config) (shortKey, fullKey string) {
	h := sha256.New()
	field := func(s string) {
		// length prefix keeps adjacent fields from running together
		h.Write([]byte(strconv.Itoa(len(s))))
		h.Write([]byte{':'})
		h.Write([]byte(s))
	}

	field(buildStamp())
	field(cfg.Package)
	field(cfg.Module)
	field(cfg.Header)
	field(strconv.FormatBool(cfg.IR != ""))
	field(strconv.Itoa(cfg.MaxLen))
	for _, src := range srcs {
		field(filepath.Base(src.path))
		field(string(src.data))
	}

	fullKey = hex.EncodeToString(h.Sum(nil))
	return fullKey[:8], fullKey
}

// cleanupOldEntries removes old cache entries.
// Only deletes entries older than minAge AND keeps at least 'keep' most recent,
// so an entry another process just wrote is never removed.
func cleanupOldEntries(genDir string, keep int, minAge int64) {
	entries, err := os.ReadDir(genDir)
	if err != nil || len(entries) <= keep {
		return
	}

	type dirInfo struct {
		name  string
		mtime int64
	}
	var dirs []dirInfo
	for _, e := range entries {
		if e.IsDir() && isHashDir(e.Name()) {
			if info, err := e.Info(); err == nil {
				dirs = append(dirs, dirInfo{e.Name(), info.ModTime().Unix()})
			}
		}
	}

	if len(dirs) <= keep {
		return
	}

	// oldest first
	cutoff := time.Now().Unix() - minAge
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].mtime < dirs[j].mtime })
	for i := 0; i < len(dirs)-keep; i++ {
		if dirs[i].mtime < cutoff {
			path := filepath.Join(genDir, dirs[i].name)
			if err := os.RemoveAll(path); err != nil {
				log.Warn().Err(err).Str("dir", path).Msg("Failed to remove old cache entry")
			}
		}
	}
}

// cachedOutput returns the output stored under the key, or calls build and
// stores its result. A file lock makes concurrent go generate runs see either
// a complete entry or build it themselves. Failed builds are not cached.
func cachedOutput(cacheDir, shortKey, fullKey string, build func() (*output, error)) (*output, bool, error) {
	genDir := filepath.Join(cacheDir, GEN_DIR)
	if err := os.MkdirAll(genDir, 0755); err != nil {
		return nil, false, fmt.Errorf("create cache dir: %w", err)
	}

	lock := flock.New(filepath.Join(genDir, ".lock"))
	if err := lock.Lock(); err != nil {
		return nil, false, fmt.Errorf("acquire cache lock: %w", err)
	}
	defer lock.Unlock()

	entryDir := filepath.Join(genDir, shortKey)
	hashFile := filepath.Join(entryDir, HASH_FILE)

	if stored, err := os.ReadFile(hashFile); err == nil {
		if string(stored) == fullKey {
			if out, err := readEntry(entryDir); err == nil {
				log.Debug().Str("dir", entryDir).Msg("Using cached output")
				return out, true, nil
			}
		}
		// collision or corrupted entry
		log.Debug().Str("dir", entryDir).Msg("Cache entry mismatch, rebuilding")
	}
	os.RemoveAll(entryDir)

	cleanupOldEntries(genDir, keepEntries, minEntryAge)

	out, err := build()
	if err != nil {
		return nil, false, err
	}
	if err := writeEntry(entryDir, out); err != nil {
		return nil, false, err
	}
	// written last: marks the entry complete
	if err := os.WriteFile(hashFile, []byte(fullKey), 0644); err != nil {
		return nil, false, fmt.Errorf("write hash file: %w", err)
	}
	return out, false, nil
}

func readEntry(entryDir string) (*output, error) {
	goSrc, err := os.ReadFile(filepath.Join(entryDir, GO_FILE))
	if err != nil {
		return nil, err
	}
	out := &output{Go: goSrc}
	ir, err := os.ReadFile(filepath.Join(entryDir, IR_FILE))
	switch {
	case err == nil:
		out.IR = string(ir)
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	return out, nil
}

func writeEntry(entryDir string, out *output) error {
	if err := os.MkdirAll(entryDir, 0755); err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(entryDir, GO_FILE), out.Go, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if out.IR == "" {
		return nil
	}
	if err := os.WriteFile(filepath.Join(entryDir, IR_FILE), []byte(out.IR), 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}
