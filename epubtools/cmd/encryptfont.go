package cmd

import (
	"strings"

	"github.com/YoshihikoAbe/epubtools/config"
	"github.com/YoshihikoAbe/epubtools/fontobf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// encryptFontCmd represents the encrypt-font command
var encryptFontCmd = &cobra.Command{
	Use:   "encrypt-font [--config FILE] EPUB OUTPUT [--families FONT...]",
	Short: "Obfuscate the fonts embedded in an EPUB (not implemented yet)",
	Long: `Obfuscate the fonts embedded in an EPUB, optionally restricted to the given font families.
The transform has not been ported yet, so this command always fails and never writes OUTPUT.

--config is the only flag recognized, and only ahead of EPUB. Every other argument is passed through as given.`,

	// every token is handed to the stub untouched
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		file, _ := splitConfigFlag(args)
		cfg, err := config.Load(viper.New(), file)
		if err != nil {
			cfg = defaultConfig()
		}
		// the stub writes nothing besides its report
		cfg.Log.File = ""
		setup(cfg)
		if err != nil {
			zap.L().Debug("using default configuration", zap.Error(err))
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, args = splitConfigFlag(args)
		return fontobf.Run(cmd.Context(), cmd.OutOrStdout(), cmd.CommandPath(), args)
	},
}

func init() {
	rootCmd.AddCommand(encryptFontCmd)
}

// splitConfigFlag removes leading --config/-c flags from args. With flag
// parsing disabled, cobra passes root flags given before the subcommand
// through to it.
func splitConfigFlag(args []string) (file string, rest []string) {
	for len(args) > 0 {
		arg := args[0]
		switch {
		case arg == "--config" || arg == "-c":
			if len(args) < 2 {
				return file, args[1:]
			}
			file, args = args[1], args[2:]
		case strings.HasPrefix(arg, "--config="):
			file, args = strings.TrimPrefix(arg, "--config="), args[1:]
		case strings.HasPrefix(arg, "-c="):
			file, args = strings.TrimPrefix(arg, "-c="), args[1:]
		default:
			return file, args
		}
	}
	return file, args
}
