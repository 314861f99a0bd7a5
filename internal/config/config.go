package config

import (
	"os"
	"path/filepath"

	"github.com/jwtly10/protex"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Language     string   `mapstructure:"language"`
	Style        string   `mapstructure:"style"`
	Flavor       string   `mapstructure:"flavor"`
	Format       string   `mapstructure:"format"`
	Bare         bool     `mapstructure:"bare"`
	Internal     bool     `mapstructure:"internal"`
	NewPage      bool     `mapstructure:"new_page"`
	ShutUp       bool     `mapstructure:"shut_up"`
	NoLaTeX      bool     `mapstructure:"no_latex"`
	NoSourceInfo bool     `mapstructure:"no_source_info"`
	Keys         []string `mapstructure:"keys"`
	Backup       bool     `mapstructure:"backup"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	SetDefaults(viper.GetViper())

	viper.SetConfigName("protex")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "protex"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("PROTEX")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("language", protex.DefaultLanguage)
	v.SetDefault("style", "")
	v.SetDefault("flavor", "")
	v.SetDefault("format", "latex")
	v.SetDefault("bare", false)
	v.SetDefault("internal", false)
	v.SetDefault("new_page", false)
	v.SetDefault("shut_up", false)
	v.SetDefault("no_latex", false)
	v.SetDefault("no_source_info", false)
	v.SetDefault("keys", protex.DefaultKeys)
	v.SetDefault("backup", true)
}

// Options builds the run options from the configuration held by v
func Options(v *viper.Viper) protex.Options {
	keys := v.GetStringSlice("keys")
	if len(keys) == 0 {
		keys = protex.DefaultKeys
	}

	return protex.Options{
		Bare:   v.GetBool("bare"),
		Style:  v.GetString("style"),
		Flavor: protex.Flavor(v.GetString("flavor")),
		Keys:   keys,
		File: protex.FileOptions{
			Language:     v.GetString("language"),
			Internal:     v.GetBool("internal"),
			NewPage:      v.GetBool("new_page"),
			ShutUp:       v.GetBool("shut_up"),
			NoLaTeX:      v.GetBool("no_latex"),
			NoSourceInfo: v.GetBool("no_source_info"),
		},
	}
}

// RunOptions returns the run options of the global configuration
func RunOptions() protex.Options {
	return Options(viper.GetViper())
}

// GetFormat returns the output format name
func GetFormat() string {
	return viper.GetString("format")
}

// GetBackup returns whether an existing output file is backed up before writing
func GetBackup() bool {
	return viper.GetBool("backup")
}
