package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Global symbols are mangled as Seg_[ModPath]_p_[Name]. Both parts use a
// length-prefixed encoding so symbols stay valid C identifiers.
const (
	GlobalPrefix = "Seg_"
	PathEnd      = "_p_"
)

// SeparatorCode returns the letter that encodes a module path separator,
// or 0 if r is not one.
func SeparatorCode(r rune) rune {
	switch r {
	case '.':
		return 'd'
	case '/':
		return 's'
	case '-':
		return 'h'
	}
	return 0
}

func separatorFromCode(c byte) (byte, bool) {
	switch c {
	case 'd':
		return '.', true
	case 's':
		return '/', true
	case 'h':
		return '-', true
	}
	return 0, false
}

// MangleIdent encodes an identifier. ASCII runs become <len><chars> and
// non-ASCII runs become u<count>_ followed by six hex digits per rune. A
// run of digits right after non-ASCII is written n<digits>.
func MangleIdent(ident string) string {
	var sb strings.Builder
	mangleRuns(&sb, ident)
	return sb.String()
}

func mangleRuns(sb *strings.Builder, s string) {
	runes := []rune(s)
	for i := 0; i < len(runes); {
		j := i
		if runes[i] < utf8.RuneSelf {
			for j < len(runes) && runes[j] < utf8.RuneSelf {
				j++
			}
			writeASCIIRun(sb, string(runes[i:j]), j < len(runes))
		} else {
			for j < len(runes) && runes[j] >= utf8.RuneSelf {
				j++
			}
			fmt.Fprintf(sb, "u%d_", j-i)
			for _, r := range runes[i:j] {
				fmt.Fprintf(sb, "%06X", r)
			}
		}
		i = j
	}
}

// writeASCIIRun writes a run that cannot start with a length prefix when it
// begins with a digit. more reports whether a non-ASCII run follows.
func writeASCIIRun(sb *strings.Builder, run string, more bool) {
	if !isDigit(run[0]) {
		sb.WriteString(strconv.Itoa(len(run)))
		sb.WriteString(run)
		return
	}

	d := 0
	for d < len(run) && isDigit(run[d]) {
		d++
	}
	sb.WriteByte('n')
	sb.WriteString(run[:d])
	rest := run[d:]
	switch {
	case rest != "":
		sb.WriteByte('_')
		sb.WriteString(strconv.Itoa(len(rest)))
		sb.WriteString(rest)
	case more:
		sb.WriteByte('_')
	}
}

type runState int

const (
	runStart runState = iota
	runASCII
	runUnicode
	runDone
)

// demangleIdent decodes a leading mangled identifier and returns the
// unconsumed rest.
func demangleIdent(s string) (string, string) {
	var sb strings.Builder
	i := 0
	state := runStart

	for i < len(s) && state != runDone {
		c := s[i]
		switch {
		case isDigit(c) && state != runASCII:
			n, j, ok := readNumber(s, i)
			if !ok || j+n > len(s) {
				return sb.String(), s[i:]
			}
			sb.WriteString(s[j : j+n])
			i = j + n
			state = runASCII

		case c == 'u' && state != runUnicode:
			count, j, ok := readNumber(s, i+1)
			if !ok || j >= len(s) || s[j] != '_' || j+1+6*count > len(s) {
				return sb.String(), s[i:]
			}
			j++
			for k := 0; k < count; k++ {
				r, err := strconv.ParseUint(s[j:j+6], 16, 32)
				if err != nil {
					return sb.String(), s[i:]
				}
				sb.WriteRune(rune(r))
				j += 6
			}
			i = j
			state = runUnicode

		case c == 'n' && state != runASCII:
			j := i + 1
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			if j == i+1 {
				return sb.String(), s[i:]
			}
			sb.WriteString(s[i+1 : j])
			i = j
			state = runDone
			if i+1 < len(s) && s[i] == '_' && (isDigit(s[i+1]) || s[i+1] == 'u') {
				i++
				// a length-prefixed tail continues the run, u starts the next
				state = runUnicode
				if s[i] == 'u' {
					state = runASCII
				}
			}

		default:
			state = runDone
		}
	}
	return sb.String(), s[i:]
}

// ManglePath encodes a module path. Runs of separators become _<codes>_
// and a trailing separator is dropped.
func ManglePath(path string) string {
	var sb strings.Builder
	for i := 0; i < len(path); {
		if SeparatorCode(rune(path[i])) != 0 {
			j := i
			var codes []byte
			for j < len(path) && SeparatorCode(rune(path[j])) != 0 {
				codes = append(codes, byte(SeparatorCode(rune(path[j]))))
				j++
			}
			if j == len(path) {
				break
			}
			if sb.Len() > 0 {
				sb.WriteByte('_')
			}
			sb.Write(codes)
			sb.WriteByte('_')
			i = j
			continue
		}

		j := i
		for j < len(path) && SeparatorCode(rune(path[j])) == 0 {
			j++
		}
		mangleRuns(&sb, path[i:j])
		i = j
	}
	return sb.String()
}

// demanglePath decodes a leading mangled module path.
func demanglePath(s string) (string, string) {
	var sb strings.Builder
	rest := s

	if seps, r, ok := readSeparators(rest); ok {
		sb.WriteString(seps)
		rest = r
	}
	for {
		seg, r := demangleIdent(rest)
		if seg == "" {
			return sb.String(), rest
		}
		sb.WriteString(seg)
		rest = r

		if len(rest) == 0 || rest[0] != '_' {
			return sb.String(), rest
		}
		seps, r, ok := readSeparators(rest[1:])
		if !ok {
			return sb.String(), rest
		}
		sb.WriteString(seps)
		rest = r
	}
}

// readSeparators decodes <codes>_ at the start of s.
func readSeparators(s string) (string, string, bool) {
	var seps []byte
	i := 0
	for i < len(s) {
		sep, ok := separatorFromCode(s[i])
		if !ok {
			break
		}
		seps = append(seps, sep)
		i++
	}
	if len(seps) == 0 || i >= len(s) || s[i] != '_' {
		return "", s, false
	}
	return string(seps), s[i+1:], true
}

// MangleGlobal returns the symbol for declaration name in module modPath.
func MangleGlobal(modPath, name string) string {
	return GlobalPrefix + ManglePath(modPath) + PathEnd + MangleIdent(name)
}

// DemangleGlobal reverses MangleGlobal, returning modPath.name.
func DemangleGlobal(sym string) (string, error) {
	body, ok := strings.CutPrefix(sym, GlobalPrefix)
	if !ok {
		return "", fmt.Errorf("%q does not start with %s", sym, GlobalPrefix)
	}
	path, rest := demanglePath(body)
	rest, ok = strings.CutPrefix(rest, PathEnd)
	if !ok || path == "" {
		return "", fmt.Errorf("%q has no module path", sym)
	}
	name, rest := demangleIdent(rest)
	if name == "" || rest != "" {
		return "", fmt.Errorf("%q has a malformed name", sym)
	}
	return path + "." + name, nil
}

func readNumber(s string, i int) (int, int, bool) {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == i {
		return 0, i, false
	}
	n, err := strconv.Atoi(s[i:j])
	if err != nil {
		return 0, i, false
	}
	return n, j, true
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
