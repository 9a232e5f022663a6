package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thiremani/segarr/compiler"
	"github.com/thiremani/segarr/config"
)

// genFlags override the matching segarr.yaml settings when set.
type genFlags struct {
	pkg     string
	out     string
	ir      string
	module  string
	maxLen  int
	noCache bool
}

func (f *genFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pkg, "package", "", "Go package name (default: $GOPACKAGE or the directory name)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Go output file (default: "+config.DefaultOutput+")")
	cmd.Flags().StringVar(&f.ir, "ir", "", "also write LLVM IR to this file")
	cmd.Flags().StringVar(&f.module, "module", "", "module path used to mangle IR symbols")
	cmd.Flags().IntVar(&f.maxLen, "max-len", 0, "maximum elements per array (0 keeps the default)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "always rebuild instead of using $"+config.CacheEnv)
}

// resolve loads the config for dir and applies the flags that were set.
func (f *genFlags) resolve(cmd *cobra.Command, dir string) (config.Config, error) {
	cfg, err := config.Load(dir, configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("package") {
		cfg.Package = f.pkg
		cfg.Module = f.pkg
	}
	if flags.Changed("out") {
		cfg.Output = f.out
	}
	if flags.Changed("ir") {
		cfg.IR = f.ir
	}
	if flags.Changed("module") {
		cfg.Module = f.module
	}
	if flags.Changed("max-len") {
		cfg.MaxLen = f.maxLen
	}
	return cfg, cfg.Validate()
}

func dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func newGenCommand() *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "gen [dir]",
		Short: "Generate Go source from the .seg files in a directory",
		Long: `Evaluate every .seg file in dir and write the arrays as one Go file.
With --ir (or ir: in segarr.yaml) the same arrays are also written as LLVM IR
constant globals.

Outputs are cached in $SEGCACHE keyed by the sources and settings, and a
file whose contents did not change is left untouched.`,
		Example: `  # In a Go file next to the .seg files
  //go:generate segarr gen

  # Write IR as well
  segarr gen --ir tables.ll --module github.com/user/tables ./tables`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dirArg(args)
			cfg, err := flags.resolve(cmd, dir)
			if err != nil {
				return err
			}
			return runGen(dir, cfg, !flags.noCache, cmd.ErrOrStderr())
		},
	}
	flags.register(cmd)

	return cmd
}

// runGen builds the outputs for dir and writes the ones that changed.
// Diagnostics go to diag.
func runGen(dir string, cfg config.Config, useCache bool, diag io.Writer) error {
	srcs, err := collectSources(dir)
	if err != nil {
		return err
	}

	build := func() (*output, error) { return generate(srcs, cfg) }
	var out *output
	cached := false
	if useCache {
		shortKey, fullKey := cacheKey(srcs, cfg)
		out, cached, err = cachedOutput(config.CacheDir(), shortKey, fullKey, build)
	} else {
		out, err = build()
	}
	if err != nil {
		return reportErrors(diag, err)
	}

	goPath := resolvePath(dir, cfg.Output)
	changed, err := writeIfChanged(goPath, out.Go)
	if err != nil {
		return err
	}
	log.Info().
		Str("file", goPath).
		Int("sources", len(srcs)).
		Bool("changed", changed).
		Bool("cached", cached).
		Msg("Generated Go source")

	if cfg.IR == "" {
		return nil
	}
	irPath := resolvePath(dir, cfg.IR)
	changed, err = writeIfChanged(irPath, []byte(out.IR))
	if err != nil {
		return err
	}
	log.Info().
		Str("file", irPath).
		Str("module", cfg.Module).
		Bool("changed", changed).
		Msg("Generated LLVM IR")
	return nil
}

func newIRCommand() *cobra.Command {
	var (
		module string
		maxLen int
	)

	cmd := &cobra.Command{
		Use:   "ir [dir]",
		Short: "Print the LLVM IR for the .seg files in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dirArg(args)
			cfg, err := config.Load(dir, configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("module") {
				cfg.Module = module
			}
			if cmd.Flags().Changed("max-len") {
				cfg.MaxLen = maxLen
			}
			if err := compiler.ValidateModulePath(cfg.Module); err != nil {
				return fmt.Errorf("module %q: %w", cfg.Module, err)
			}

			srcs, err := collectSources(dir)
			if err != nil {
				return err
			}
			unit, err := compileSources(srcs, cfg.MaxLen)
			if err != nil {
				return reportErrors(cmd.ErrOrStderr(), err)
			}
			ir, err := compiler.GenerateIR(unit, cfg.Module)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), ir)
			return err
		},
	}

	cmd.Flags().StringVar(&module, "module", "", "module path used to mangle symbols (default: the package name)")
	cmd.Flags().IntVar(&maxLen, "max-len", 0, "maximum elements per array (0 keeps the default)")

	return cmd
}

func newDemangleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "demangle SYMBOL...",
		Short:   "Translate IR global names back to module.name form",
		Example: "  segarr demangle Seg_6tables_p_3lut",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, sym := range args {
				name, err := compiler.DemangleGlobal(sym)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
