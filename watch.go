package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thiremani/segarr/config"
)

const regenDelay = 500 * time.Millisecond

func newWatchCommand() *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate whenever a .seg file or segarr.yaml in dir changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dirArg(args)
			regen := func() {
				// reloaded each time so segarr.yaml edits apply
				cfg, err := flags.resolve(cmd, dir)
				if err == nil {
					err = runGen(dir, cfg, !flags.noCache, cmd.ErrOrStderr())
				}
				if err != nil {
					log.Error().Err(err).Msg("Generation failed")
				}
			}

			regen()
			log.Info().Str("dir", dir).Msg("Watching for changes")
			return watchDir(cmd.Context(), dir, regenDelay, regen)
		},
	}
	flags.register(cmd)

	return cmd
}

// watchDir calls onChange once a burst of source changes in dir has been
// quiet for delay. It returns when ctx is cancelled.
func watchDir(ctx context.Context, dir string, delay time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceEvent(event) {
				continue
			}
			log.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Source changed")

			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

// isSourceEvent reports whether event touches an input. Generated files are
// ignored so writing the output does not retrigger a build.
func isSourceEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	return filepath.Ext(name) == SEG_SUFFIX || name == config.FileName
}
