package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/thiremani/segarr/ast"
	"github.com/thiremani/segarr/compiler"
	"github.com/thiremani/segarr/config"
	"github.com/thiremani/segarr/parser"
	"github.com/thiremani/segarr/token"
)

const SEG_SUFFIX = ".seg"

type source struct {
	path string
	data []byte
}

// collectSources reads every .seg file directly under dir, sorted by name.
func collectSources(dir string) ([]source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	paths := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SEG_SUFFIX) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s files in %s", SEG_SUFFIX, dir)
	}
	return readSources(paths)
}

func readSources(paths []string) ([]source, error) {
	srcs := make([]source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		srcs = append(srcs, source{path: path, data: data})
	}
	return srcs, nil
}

// sourcesFor reads the named files, or every .seg file in the current
// directory when none are named.
func sourcesFor(args []string) ([]source, error) {
	if len(args) == 0 {
		return collectSources(".")
	}
	return readSources(args)
}

// compileErrors holds every diagnostic from one run.
type compileErrors []*token.CompileError

func (e compileErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ce := range e {
		msgs[i] = ce.Error()
	}
	return strings.Join(msgs, "\n")
}

// reportErrors prints each diagnostic in err on its own line and returns a
// summary. Other errors pass through.
func reportErrors(w io.Writer, err error) error {
	var errs compileErrors
	if !errors.As(err, &errs) {
		return err
	}
	for _, e := range errs {
		fmt.Fprintln(w, e)
	}
	if len(errs) == 1 {
		return fmt.Errorf("compilation failed with 1 error")
	}
	return fmt.Errorf("compilation failed with %d errors", len(errs))
}

// compileSources parses and evaluates srcs. A positive maxLen replaces the
// default array length limit.
func compileSources(srcs []source, maxLen int) (*compiler.Unit, error) {
	files := make([]*ast.File, 0, len(srcs))
	var errs compileErrors
	for _, src := range srcs {
		file, perrs := parser.Parse(src.path, string(src.data))
		errs = append(errs, perrs...)
		files = append(files, file)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	c := compiler.NewCompiler()
	c.MaxLen = maxLen
	unit, cerrs := c.Compile(files)
	if len(cerrs) > 0 {
		return nil, compileErrors(cerrs)
	}
	return unit, nil
}

type output struct {
	Go []byte
	IR string
}

// generate compiles srcs and renders the Go file, plus IR when cfg.IR is set.
func generate(srcs []source, cfg config.Config) (*output, error) {
	unit, err := compileSources(srcs, cfg.MaxLen)
	if err != nil {
		return nil, err
	}

	goSrc, err := compiler.GenerateGo(unit, compiler.GoOptions{
		Package: cfg.Package,
		Header:  header(cfg, srcs),
	})
	if err != nil {
		return nil, err
	}

	out := &output{Go: goSrc}
	if cfg.IR != "" {
		if out.IR, err = compiler.GenerateIR(unit, cfg.Module); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func header(cfg config.Config, srcs []source) string {
	names := make([]string, len(srcs))
	for i, src := range srcs {
		names[i] = filepath.Base(src.path)
	}
	h := "Sources: " + strings.Join(names, ", ")
	if cfg.Header != "" {
		h = strings.TrimRight(cfg.Header, "\n") + "\n\n" + h
	}
	return h
}

// writeIfChanged writes data to path unless the file already holds it, so
// an unchanged output keeps its mtime.
func writeIfChanged(path string, data []byte) (bool, error) {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// resolvePath makes a config path relative to the input directory.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
