package compiler

import (
	"bytes"
	"fmt"
	"go/format"
	gotoken "go/token"
	"strings"
)

const generatedLine = "// Code generated by segarr. DO NOT EDIT."

// valuesPerLine bounds how many scalar elements share one line of output.
const valuesPerLine = 8

type GoOptions struct {
	Package string
	Header  string // extra comment text placed after the generated line
}

// GenerateGo renders unit as a gofmt'd Go file with one var per result.
func GenerateGo(unit *Unit, opts GoOptions) ([]byte, error) {
	if err := ValidatePackage(opts.Package); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.WriteString(generatedLine + "\n")
	if opts.Header != "" {
		out.WriteString("\n")
		for _, line := range strings.Split(strings.TrimRight(opts.Header, "\n"), "\n") {
			out.WriteString(strings.TrimRight("// "+line, " ") + "\n")
		}
	}
	fmt.Fprintf(&out, "\npackage %s\n", opts.Package)

	for _, r := range unit.Results {
		if !gotoken.IsIdentifier(r.Name) {
			return nil, fmt.Errorf("%s is not a valid Go identifier", r.Name)
		}
		if r.Name == "init" || (r.Name == "main" && opts.Package == "main") {
			return nil, fmt.Errorf("%s:%d:%d: cannot declare %s as a variable in package %s",
				r.Token.FileName, r.Token.Line, r.Token.Column, r.Name, opts.Package)
		}
		fmt.Fprintf(&out, "\nvar %s = %s{", r.Name, r.Type)
		writeValues(&out, r.Values)
		out.WriteString("}\n")
	}

	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return src, nil
}

// writeValues writes short scalar lists inline and everything else one
// group per line.
func writeValues(out *bytes.Buffer, vals []Value) {
	if len(vals) == 0 {
		return
	}
	_, nested := vals[0].(Array)
	if !nested && len(vals) <= valuesPerLine {
		out.WriteString(joinValues(vals))
		return
	}

	perLine := valuesPerLine
	if nested {
		perLine = 1
	}
	out.WriteString("\n")
	for i := 0; i < len(vals); i += perLine {
		end := min(i+perLine, len(vals))
		out.WriteString(joinValues(vals[i:end]))
		out.WriteString(",\n")
	}
}

// ValidatePackage checks that name can be used as a Go package clause.
func ValidatePackage(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	if !gotoken.IsIdentifier(name) || name == "_" {
		return fmt.Errorf("invalid package name %q", name)
	}
	return nil
}
