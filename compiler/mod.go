package compiler

import (
	"fmt"
	"strings"
)

// windowsReserved holds device names Windows refuses as file names, with
// or without an extension.
var windowsReserved = func() map[string]bool {
	m := map[string]bool{"con": true, "prn": true, "aux": true, "nul": true}
	for d := '1'; d <= '9'; d++ {
		m["com"+string(d)] = true
		m["lpt"+string(d)] = true
	}
	return m
}()

// ValidateModulePath validates the module path that prefixes IR symbols.
// Rules:
//   - Segments are separated by /
//   - ASCII lowercase letters, digits, underscore, . and - only
//   - No double underscores (__)
//   - No segment ending in an underscore or a dot
//   - No empty segments
//   - No segment whose base name (before the first dot) is a Windows
//     reserved name
func ValidateModulePath(path string) error {
	if path == "" {
		return fmt.Errorf("module path cannot be empty")
	}

	segStart := 0
	for i, r := range path {
		switch {
		case r == '/':
			if err := checkSegment(path[segStart:i]); err != nil {
				return err
			}
			segStart = i + 1
		case r >= 'A' && r <= 'Z':
			return fmt.Errorf("uppercase letter %q at position %d: module paths must be lowercase", r, i)
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
		case r == '_':
			if i > segStart && path[i-1] == '_' {
				return fmt.Errorf("double underscore at position %d", i)
			}
		default:
			return fmt.Errorf("invalid character %q at position %d in module path", r, i)
		}
	}

	return checkSegment(path[segStart:])
}

func checkSegment(seg string) error {
	if seg == "" {
		return fmt.Errorf("empty segment in module path (consecutive separators)")
	}
	switch seg[len(seg)-1] {
	case '_':
		return fmt.Errorf("segment %q ends with underscore", seg)
	case '.':
		return fmt.Errorf("segment %q ends with dot", seg)
	}
	base, _, _ := strings.Cut(seg, ".")
	if windowsReserved[strings.ToLower(base)] {
		return fmt.Errorf("segment %q is a Windows reserved name", seg)
	}
	return nil
}
