// Package config loads the epubtools configuration from JSON files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "EPUB_TOOLS"
	// LogLevelEnv overrides log.level without the prefix.
	LogLevelEnv = "EPUB_LOG"

	projectFile = ".epub-tools.json"
)

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"maxSize" validate:"gte=0"`
	MaxBackups int    `mapstructure:"maxBackups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"maxAge" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

type Config struct {
	// PythonPath is the interpreter probed for the font tooling. When empty,
	// python3 and then python are tried.
	PythonPath string    `mapstructure:"pythonPath"`
	Log        LogConfig `mapstructure:"log"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pythonPath", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSize", 10)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAge", 28)
	v.SetDefault("log.compress", false)
}

// SearchPaths returns the configuration files tried when none is given
// explicitly, most specific first.
func SearchPaths() []string {
	paths := []string{}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, projectFile))
	}
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "epub-tools", "config.json"))
	}
	return paths
}

// Load reads the configuration. An explicit file must exist; otherwise the
// first existing entry of SearchPaths is used, and defaults apply if there is
// none.
func Load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", LogLevelEnv); err != nil {
		return nil, err
	}
	if err := v.BindEnv("pythonPath", EnvPrefix+"_PYTHON_PATH"); err != nil {
		return nil, err
	}

	if file == "" {
		file = findFile(SearchPaths())
	}
	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s %s)", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func findFile(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
