package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thiremani/segarr/compiler"
	"github.com/thiremani/segarr/config"
	"gopkg.in/yaml.v3"
)

type evalResult struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Values []any  `json:"values" yaml:"values"`
}

func newEvalCommand() *cobra.Command {
	var (
		format string
		maxLen int
	)

	cmd := &cobra.Command{
		Use:   "eval [files...]",
		Short: "Evaluate .seg files and print the arrays",
		Example: `  segarr eval tables.seg
  segarr eval --format json a.seg b.seg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := sourcesFor(args)
			if err != nil {
				return err
			}
			limit, err := maxLenFor(cmd, args, maxLen)
			if err != nil {
				return err
			}
			unit, err := compileSources(srcs, limit)
			if err != nil {
				return reportErrors(cmd.ErrOrStderr(), err)
			}
			return printUnit(cmd.OutOrStdout(), unit, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().IntVar(&maxLen, "max-len", 0, "maximum elements per array (0 keeps the default)")

	return cmd
}

// maxLenFor resolves the array length limit the same way gen does: max_len
// from the segarr.yaml next to the sources, replaced by --max-len when set.
func maxLenFor(cmd *cobra.Command, args []string, flagVal int) (int, error) {
	dir := "."
	if len(args) > 0 {
		dir = filepath.Dir(args[0])
	}
	cfg, err := config.Load(dir, configPath)
	if err != nil {
		return 0, err
	}
	if cmd.Flags().Changed("max-len") {
		cfg.MaxLen = flagVal
	}
	if cfg.MaxLen < 0 {
		return 0, fmt.Errorf("max_len must not be negative, got %d", cfg.MaxLen)
	}
	return cfg.MaxLen, nil
}

func printUnit(w io.Writer, unit *compiler.Unit, format string) error {
	switch format {
	case "text":
		for _, r := range unit.Results {
			vals := make([]string, len(r.Values))
			for i, v := range r.Values {
				vals[i] = v.String()
			}
			fmt.Fprintf(w, "%s %s = [%s]\n", r.Name, r.Type, strings.Join(vals, ", "))
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(evalResults(unit))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(evalResults(unit)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

func evalResults(unit *compiler.Unit) []evalResult {
	out := make([]evalResult, len(unit.Results))
	for i, r := range unit.Results {
		out[i] = evalResult{
			Name:   r.Name,
			Type:   r.Type.String(),
			Values: compiler.Natives(r.Values),
		}
	}
	return out
}

func newCheckCommand() *cobra.Command {
	var maxLen int

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse and evaluate .seg files, reporting errors only",
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := sourcesFor(args)
			if err != nil {
				return err
			}
			limit, err := maxLenFor(cmd, args, maxLen)
			if err != nil {
				return err
			}
			unit, err := compileSources(srcs, limit)
			if err != nil {
				return reportErrors(cmd.ErrOrStderr(), err)
			}
			log.Info().
				Int("files", len(srcs)).
				Int("arrays", len(unit.Results)).
				Msg("No errors")
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLen, "max-len", 0, "maximum elements per array (0 keeps the default)")

	return cmd
}
