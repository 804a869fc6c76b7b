package cmd

import (
	"os"

	"github.com/YoshihikoAbe/epubtools/config"
	"github.com/YoshihikoAbe/epubtools/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is set at build time:
// go build -ldflags "-X github.com/YoshihikoAbe/epubtools/epubtools/cmd.Version=1.0.0"
var Version = "0.0.0"

var (
	cfgFile string

	current    *config.Config
	restoreLog = func() {}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "epubtools",
	Short:        "EPUB processing tools",
	Version:      Version,
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.New(), cfgFile)
		if err != nil {
			return err
		}
		setup(cfg)
		return nil
	},
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	err := rootCmd.Execute()
	restoreLog()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.epub-tools.json, then ~/.config/epub-tools/config.json)")
}

func setup(cfg *config.Config) {
	restoreLog()

	current = cfg
	_, restoreLog = logging.Init(cfg.Log)
	zap.L().Debug("starting epubtools", zap.String("version", Version), zap.String("config", cfg.File))
}

// defaultConfig is used when the configuration cannot be loaded but the
// command must run anyway.
func defaultConfig() *config.Config {
	return &config.Config{
		Log: config.LogConfig{Level: "info", Format: "console"},
	}
}
