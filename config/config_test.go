package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
}

func TestDefault(t *testing.T) {
	t.Setenv("GOPACKAGE", "")

	tests := []struct {
		dir  string
		want string
	}{
		{"/src/tables", "tables"},
		{"/src/My-Tables", "my_tables"},
		{"/src/lut.v2", "lut_v2"},
		{"/src/123", "main"},
		{"/src/func", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			cfg := Default(tt.dir)
			assert.Equal(t, tt.want, cfg.Package)
			assert.Equal(t, tt.want, cfg.Module)
			assert.Equal(t, DefaultOutput, cfg.Output)
			assert.Empty(t, cfg.IR)
		})
	}
}

func TestDefaultGoPackage(t *testing.T) {
	t.Setenv("GOPACKAGE", "lut")
	assert.Equal(t, "lut", Default("/src/tables").Package)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("GOPACKAGE", "tables")
	dir := t.TempDir()

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, Default(dir), cfg)

	_, err = Load(dir, filepath.Join(dir, "other.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoad(t *testing.T) {
	t.Setenv("GOPACKAGE", "tables")
	dir := t.TempDir()
	writeConfig(t, dir, `# generator settings
package: lut
output: gen/lut_gen.go
ir: lut.ll
header: |
  Lookup tables for the decoder.
max_len: 4096
`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, Config{
		Package: "lut",
		Output:  "gen/lut_gen.go",
		IR:      "lut.ll",
		Module:  "lut",
		Header:  "Lookup tables for the decoder.\n",
		MaxLen:  4096,
	}, cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadModuleOverride(t *testing.T) {
	t.Setenv("GOPACKAGE", "tables")
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("module: github.com/user/tables\n"), 0644))

	cfg, err := Load(dir, path)
	require.NoError(t, err)
	assert.Equal(t, "tables", cfg.Package)
	assert.Equal(t, "github.com/user/tables", cfg.Module)
}

func TestLoadEmptyFile(t *testing.T) {
	t.Setenv("GOPACKAGE", "tables")
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, Default(dir), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown_field", "pakage: lut\n", "field pakage not found"},
		{"bad_type", "max_len: lots\n", "cannot unmarshal"},
		{"bad_yaml", "package: [lut\n", "segarr.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir, "")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Package: "tables", Output: DefaultOutput, Module: "tables"}

	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"valid", func(c *Config) {}, ""},
		{"valid_ir", func(c *Config) { c.IR = "t.ll"; c.Module = "github.com/user/tables" }, ""},
		{"bad_package", func(c *Config) { c.Package = "my-tables" }, "invalid package name"},
		{"empty_output", func(c *Config) { c.Output = "" }, "output path cannot be empty"},
		{"output_not_go", func(c *Config) { c.Output = "tables.txt" }, "must be a .go file"},
		{"bad_module", func(c *Config) { c.IR = "t.ll"; c.Module = "Tables" }, "uppercase"},
		{"module_unused", func(c *Config) { c.Module = "Tables" }, ""},
		{"negative_max_len", func(c *Config) { c.MaxLen = -1 }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv(CacheEnv, "/tmp/segcache")
	assert.Equal(t, "/tmp/segcache", CacheDir())

	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return
	}
	t.Setenv(CacheEnv, "")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "segarr"), CacheDir())
}
