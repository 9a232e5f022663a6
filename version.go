package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

// Build-time variables injected via linker flags:
//
//	go build -ldflags "-X main.Version=$(git describe --tags) -X main.Commit=..." -o segarr
//
// The defaults are used for development builds.
var (
	Version   = "dev"     // git tag (e.g., "v0.3.0")
	Commit    = "unknown" // git commit hash
	BuildDate = "unknown" // build timestamp
)

// printVersion writes version information to w.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "segarr %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	if Commit != "unknown" {
		fmt.Fprintf(w, "  commit: %s\n", Commit)
	}
	if BuildDate != "unknown" {
		fmt.Fprintf(w, "  built:  %s\n", BuildDate)
	}
}

// buildStamp identifies the running generator for cache keys. Released
// builds are told apart by Version and Commit. A dev build also carries the
// VCS revision, plus the executable's size and mtime when the revision is
// unknown or the tree was modified, so rebuilding the tool invalidates the
// cache.
var buildStamp = sync.OnceValue(func() string {
	parts := []string{Version, Commit}

	revision, modified := "", false
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
	}
	if revision != "" {
		parts = append(parts, revision)
	}
	if Version == "dev" && (revision == "" || modified) {
		if exe, err := os.Executable(); err == nil {
			if info, err := os.Stat(exe); err == nil {
				parts = append(parts,
					strconv.FormatInt(info.Size(), 10),
					strconv.FormatInt(info.ModTime().UnixNano(), 10))
			}
		}
	}
	return strings.Join(parts, " ")
})

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
