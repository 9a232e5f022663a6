package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSourceEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"seg_write", fsnotify.Event{Name: "/d/tables.seg", Op: fsnotify.Write}, true},
		{"seg_create", fsnotify.Event{Name: "/d/tables.seg", Op: fsnotify.Create}, true},
		{"seg_remove", fsnotify.Event{Name: "/d/tables.seg", Op: fsnotify.Remove}, true},
		{"seg_rename", fsnotify.Event{Name: "/d/tables.seg", Op: fsnotify.Rename}, true},
		{"seg_chmod", fsnotify.Event{Name: "/d/tables.seg", Op: fsnotify.Chmod}, false},
		{"config", fsnotify.Event{Name: "/d/segarr.yaml", Op: fsnotify.Write}, true},
		{"output", fsnotify.Event{Name: "/d/segarr_gen.go", Op: fsnotify.Write}, false},
		{"ir", fsnotify.Event{Name: "/d/tables.ll", Op: fsnotify.Create}, false},
		{"other_yaml", fsnotify.Event{Name: "/d/other.yaml", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSourceEvent(tt.event))
		})
	}
}

func TestWatchDir(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan struct{}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- watchDir(ctx, dir, 50*time.Millisecond, func() { changes <- struct{}{} })
	}()

	// give the watcher time to register dir
	time.Sleep(200 * time.Millisecond)

	// a burst of writes collapses into one rebuild
	for i := 0; i < 3; i++ {
		writeFile(t, dir, "tables.seg", "a = int [1]\n")
	}
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after .seg change")
	}
	select {
	case <-changes:
		t.Fatal("burst triggered more than one rebuild")
	case <-time.After(300 * time.Millisecond):
	}

	// generated files are ignored
	writeFile(t, dir, "segarr_gen.go", "package tables\n")
	select {
	case <-changes:
		t.Fatal("output file triggered a rebuild")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchDir did not stop after cancel")
	}
}

func TestWatchDirMissing(t *testing.T) {
	err := watchDir(context.Background(), filepath.Join(t.TempDir(), "missing"), time.Millisecond, func() {})
	assert.ErrorContains(t, err, "failed to watch")
}
