package compiler

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thiremani/segarr/ast"
	"github.com/thiremani/segarr/parser"
	"github.com/thiremani/segarr/token"
)

func mustParse(t *testing.T, name, src string) *ast.File {
	t.Helper()
	file, errs := parser.Parse(name, src)
	for _, e := range errs {
		t.Errorf("parser error: %q", e)
	}
	if len(errs) > 0 {
		t.FailNow()
	}
	return file
}

func mustCompile(t *testing.T, src string) *Unit {
	t.Helper()
	unit, errs := Compile([]*ast.File{mustParse(t, "test.seg", src)})
	for _, e := range errs {
		t.Errorf("compile error: %q", e)
	}
	if len(errs) > 0 {
		t.FailNow()
	}
	return unit
}

func compileErrors(t *testing.T, src string) []*token.CompileError {
	t.Helper()
	_, errs := Compile([]*ast.File{mustParse(t, "bad.seg", src)})
	require.NotEmpty(t, errs, "expected compile errors for %q", src)
	return errs
}

func strs(vals []Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}

func TestCompileValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
		typ  string
	}{
		{"literal", "a = int [0, 1, 2]", []string{"0", "1", "2"}, "[3]int"},
		{"repeat", "a = int [1; 4]", []string{"1", "1", "1", "1"}, "[4]int"},
		{"pad_to", "a = int [2; ..5], [0; ..10]",
			[]string{"2", "2", "2", "2", "2", "0", "0", "0", "0", "0"}, "[10]int"},
		{"to_index_noop", "a = int [1, 2, 3], [9; ..2]", []string{"1", "2", "3"}, "[3]int"},
		{"cycle", "a = uint8 [*[1, 2]; 3]", []string{"1", "2", "1", "2", "1", "2"}, "[6]uint8"},
		{"cycle_to", "a = int [*[1, 2, 3]; ..5]", []string{"1", "2", "3", "1", "2"}, "[5]int"},
		{"cycle_to_restarts", "a = int [9], [*[1, 2]; ..4]", []string{"9", "1", "2", "1"}, "[4]int"},
		{"cycle_all", "a = int [*[4, 5]]", []string{"4", "5"}, "[2]int"},
		{"empty", "a = int []", []string{}, "[0]int"},
		{"no_clauses", "a = string", []string{}, "[0]string"},
		{"arith", "a = int [1 + 2 * 3; 2 * 2 - 1]", []string{"7", "7", "7"}, "[3]int"},
		{"negative", "a = int8 [-128, 127, -(1 + 1)]", []string{"-128", "127", "-2"}, "[3]int8"},
		{"chars", "a = rune ['a', 'é']", []string{"97", "233"}, "[2]int32"},
		{"byte", "a = byte [0xff, 0b1, 'A']", []string{"255", "1", "65"}, "[3]uint8"},
		{"uint64_max", "a = uint64 [18446744073709551615]", []string{"18446744073709551615"}, "[1]uint64"},
		{"int_to_float", "a = float64 [1, 2.5, 1 / 4]", []string{"1.0", "2.5", "0.25"}, "[3]float64"},
		{"float32", "a = float32 [0.1]", []string{"0.1"}, "[1]float32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := mustCompile(t, tt.src)
			require.Len(t, unit.Results, 1)
			res := unit.Results[0]
			assert.Equal(t, tt.typ, res.Type.String())
			assert.Equal(t, len(tt.want), res.Type.Len)
			if diff := cmp.Diff(tt.want, strs(res.Values)); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileScalars(t *testing.T) {
	unit := mustCompile(t, `s = string ["x", "y"], ["z"; 2]
b = bool [true], [false; ..3]
`)
	s, ok := unit.Lookup("s")
	require.True(t, ok)
	assert.Equal(t, []string{`"x"`, `"y"`, `"z"`, `"z"`}, strs(s.Values))
	assert.Equal(t, []any{"x", "y", "z", "z"}, Natives(s.Values))

	b, ok := unit.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, []string{"true", "false", "false"}, strs(b.Values))
}

func TestCompileReferences(t *testing.T) {
	unit := mustCompile(t, `base = int [1, 2, 3]
twice = int [*base; 2]
padded = int [*base; ..len(base) * 2 + 1]
rows = [3]int [base; 2], [[7, 8, 9]]
all = int [*base], [0; len(rows)]
`)
	want := map[string][]string{
		"base":   {"1", "2", "3"},
		"twice":  {"1", "2", "3", "1", "2", "3"},
		"padded": {"1", "2", "3", "1", "2", "3", "1"},
		"rows":   {"{1, 2, 3}", "{1, 2, 3}", "{7, 8, 9}"},
		"all":    {"1", "2", "3", "0", "0", "0"},
	}
	require.Len(t, unit.Results, len(want))
	for _, r := range unit.Results {
		assert.Equal(t, want[r.Name], strs(r.Values), r.Name)
	}
	assert.Equal(t, "[3][3]int", unit.Results[3].Type.String())
}

func TestCompileNested(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"nested_1", "a = int [*array(int, [*[1, 2]; 2]); 2]",
			[]string{"1", "2", "1", "2", "1", "2", "1", "2"}},
		{"nested_2", "a = int [*array(int, [0], [*[1, 2]; ..3]); ..7]",
			[]string{"0", "1", "2", "0", "1", "2", "0"}},
		{"nested_3", "a = int [*array(int, [*array(int, [5; 2]); 2]); 2]",
			[]string{"5", "5", "5", "5", "5", "5", "5", "5"}},
		{"nested_len", "a = int [0; len(array(int, [1; ..6]))]",
			[]string{"0", "0", "0", "0", "0", "0"}},
		{"nested_elem", "a = [2]int [array(int, [3; 2]); 2]",
			[]string{"{3, 3}", "{3, 3}"}},
		{"nested_empty", "a = int [*array(int)], [1]", []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := mustCompile(t, tt.src)
			require.Len(t, unit.Results, 1)
			assert.Equal(t, tt.want, strs(unit.Results[0].Values))
		})
	}
}

func TestCompileMultipleFiles(t *testing.T) {
	first := mustParse(t, "a.seg", "base = int [1, 2]\n")
	second := mustParse(t, "b.seg", "more = int [*base; 2]\n")

	unit, errs := Compile([]*ast.File{first, second})
	require.Empty(t, errs)
	require.Len(t, unit.Results, 2)
	assert.Equal(t, "base", unit.Results[0].Name)
	assert.Equal(t, []string{"1", "2", "1", "2"}, strs(unit.Results[1].Values))

	_, errs = Compile([]*ast.File{first, mustParse(t, "c.seg", "base = int [3]\n")})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Msg, "redeclaration of base (previous declaration at a.seg:1:1)")
	assert.Equal(t, "c.seg", errs[0].Token.FileName)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   string
		line   int
		column int
	}{
		{"unknown_type", "a = complex128 [1]", "unknown type complex128", 1, 5},
		{"float_to_int", "a = int [1, 2.5]", "float constant 2.5 used as integer", 1, 13},
		{"overflow_int8", "a = int8 [128]", "constant 128 overflows int8", 1, 11},
		{"overflow_uint", "a = uint8 [-1]", "constant -1 overflows uint8", 1, 12},
		{"overflow_float32", "a = float32 [1e39]", "overflows float32", 1, 14},
		{"string_as_int", `a = int ["x"]`, "is not an integer constant", 1, 10},
		{"int_as_string", "a = string [1]", "cannot use 1 as string", 1, 13},
		{"int_as_bool", "a = bool [1]", "cannot use 1 as bool", 1, 11},
		{"negative_count", "a = int [0], [1; -2]", "count or target is negative", 1, 14},
		{"negative_target", "a = int [*[1]; ..-1]", "count or target is negative", 1, 10},
		{"empty_cycle", "a = int [*[]; 3]", "cycle source has no elements", 1, 10},
		{"empty_cycle_to", "a = int [*[]; ..3]", "cycle source has no elements", 1, 10},
		{"div_zero", "a = int [1 / 0]", "division by zero", 1, 12},
		{"undefined", "a = int [*b]", "undefined: b", 1, 11},
		{"self_ref", "a = int [1], [*a]", "a refers to itself", 1, 16},
		{"forward_ref", "a = int [*b]\nb = int [1]", "b is used before its declaration at bad.seg:2:1", 1, 11},
		{"len_unknown", "a = int [0; len(b)]", "undefined: b", 1, 17},
		{"unknown_func", "a = int [0; cap(b)]", "unknown function cap", 1, 16},
		{"len_arity", "a = int [0; len()]", "len takes exactly 1 argument", 1, 16},
		{"row_length", "a = [2]int [[1, 2, 3]]", "has 3 elements, want 2", 1, 13},
		{"row_type", "r = [3]int [[1, 2, 3]]\na = [2]int [r]", "cannot use r ([1][3]int) as [2]int", 2, 13},
		{"cycle_type", "r = int8 [1]\na = int [*r]", "cannot cycle r ([1]int8) into int elements", 2, 11},
		{"cycle_source", `a = int [*"x"]`, "must be a list", 1, 11},
		{"nested_type", "a = int [*array(int8, [1])]", "cannot cycle int8 elements into int elements", 1, 11},
		{"negative_len", "a = [-1]int [[]]", "negative array length -1", 1, 6},
		{"count_overflow", "a = int [0; 9223372036854775807 * 2]", "overflows int", 1, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := compileErrors(t, tt.src)
			assert.Contains(t, errs[0].Msg, tt.want)
			assert.Equal(t, tt.line, errs[0].Token.Line, "line")
			assert.Equal(t, tt.column, errs[0].Token.Column, "column")
		})
	}
}

func TestCompileTooLong(t *testing.T) {
	file := mustParse(t, "long.seg", "a = int [0; 8], [1; 3]")

	c := NewCompiler()
	c.MaxLen = 10
	_, errs := c.Compile([]*ast.File{file})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Msg, "array length exceeds limit (10)")
	assert.Equal(t, 17, errs[0].Token.Column)

	// other compilers keep the default limit
	unit, errs := Compile([]*ast.File{file})
	require.Empty(t, errs)
	res, ok := unit.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 11, res.Type.Len)
}

func TestCompileSkipsBadDecls(t *testing.T) {
	file := mustParse(t, "mixed.seg", "a = int [1]\nb = int [*missing]\nc = int [*a; 2]\n")
	unit, errs := Compile([]*ast.File{file})
	require.Len(t, errs, 1)
	assert.True(t, strings.HasPrefix(errs[0].Error(), "mixed.seg:2:11:"), errs[0].Error())

	names := []string{}
	for _, r := range unit.Results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"a", "c"}, names)
}

func TestCompileFailedReference(t *testing.T) {
	file := mustParse(t, "chain.seg", "a = int8 [300]\nb = int8 [*a]\n")
	_, errs := Compile([]*ast.File{file})
	require.Len(t, errs, 2)
	assert.Equal(t, "chain.seg:2:12:a has errors", errs[1].Error())
}
