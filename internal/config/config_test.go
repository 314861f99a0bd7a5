package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwtly10/protex"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	opts := Options(v)
	assert.False(t, opts.Bare)
	assert.Equal(t, protex.Flavor(""), opts.Flavor)
	assert.Equal(t, protex.DefaultKeys, opts.Keys)
	assert.Equal(t, protex.DefaultLanguage, opts.File.Language)
	assert.False(t, opts.File.ShutUp)
	assert.True(t, v.GetBool("backup"))
	assert.Equal(t, "latex", v.GetString("format"))
}

func TestOptionsFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "protex.yaml")
	content := `language: S
bare: true
style: mystyle
flavor: geos
new_page: true
no_source_info: true
keys:
  - "!USES:"
  - "!REVISION HISTORY:"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	opts := Options(v)
	require.NoError(t, opts.Validate())

	assert.True(t, opts.Bare)
	assert.Equal(t, "mystyle", opts.Style)
	assert.Equal(t, protex.FlavorGEOS, opts.Flavor)
	assert.Equal(t, []string{"!USES:", "!REVISION HISTORY:"}, opts.Keys)
	assert.Equal(t, "S", opts.File.Language)
	assert.True(t, opts.File.NewPage)
	assert.True(t, opts.File.NoSourceInfo)
	assert.False(t, opts.File.Internal)
}

func TestUnknownLanguageInConfigFailsValidation(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("language", "Z")

	err := Options(v).Validate()
	require.ErrorIs(t, err, protex.ErrUnknownLanguage)
}
