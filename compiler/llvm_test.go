package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIR(t *testing.T) {
	unit := mustCompile(t, `small = int [*[1, 2]; ..3]
neg = int16 [-1, 7]
big = uint64 [18446744073709551615]
ratios = float64 [1.5, 0.25]
rows = [2]int [[1, 2], [3, 4]]
`)

	ir, err := GenerateIR(unit, "github.com/user/tables")
	require.NoError(t, err)

	expected := []string{
		"; ModuleID = 'github.com/user/tables'",
		"@Seg_6github_d_3com_s_4user_s_6tables_p_5small = unnamed_addr constant [3 x i64] [i64 1, i64 2, i64 1]",
		"@Seg_6github_d_3com_s_4user_s_6tables_p_3neg = unnamed_addr constant [2 x i16] [i16 -1, i16 7]",
		"@Seg_6github_d_3com_s_4user_s_6tables_p_3big = unnamed_addr constant [1 x i64] [i64 -1]",
		"@Seg_6github_d_3com_s_4user_s_6tables_p_6ratios = unnamed_addr constant [2 x double] [double 1.500000e+00, double 2.500000e-01]",
		"@Seg_6github_d_3com_s_4user_s_6tables_p_4rows = unnamed_addr constant [2 x [2 x i64]] [[2 x i64] [i64 1, i64 2], [2 x i64] [i64 3, i64 4]]",
	}
	for _, want := range expected {
		assert.Contains(t, ir, want)
	}
}

func TestGenerateIRStrings(t *testing.T) {
	unit := mustCompile(t, `names = string ["ab", "c"]`)

	ir, err := GenerateIR(unit, "tables")
	require.NoError(t, err)

	assert.Contains(t, ir, `@static_str_0 = private unnamed_addr constant [3 x i8] c"ab\00"`)
	assert.Contains(t, ir, `@static_str_1 = private unnamed_addr constant [2 x i8] c"c\00"`)
	assert.Contains(t, ir, "@Seg_6tables_p_5names = unnamed_addr constant [2 x ptr] [ptr @static_str_0, ptr @static_str_1]")
}

func TestGenerateIRBadModule(t *testing.T) {
	unit := mustCompile(t, "a = int [1]")

	_, err := GenerateIR(unit, "Tables")
	assert.ErrorContains(t, err, "uppercase")

	_, err = GenerateIR(unit, "")
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestGenerateIRSymbolsDemangle(t *testing.T) {
	unit := mustCompile(t, "π = int [1]\nsin_lut = float32 [0.5]")

	ir, err := GenerateIR(unit, "math/v2")
	require.NoError(t, err)

	for _, r := range unit.Results {
		sym := MangleGlobal("math/v2", r.Name)
		assert.Contains(t, ir, "@"+sym+" = ")
		name, err := DemangleGlobal(sym)
		require.NoError(t, err)
		assert.Equal(t, "math/v2."+r.Name, name)
	}
}
