package cmd

import (
	"fmt"

	"github.com/YoshihikoAbe/epubtools/namecrypt"
	"github.com/spf13/cobra"
)

// nameCmd represents the name command
var nameCmd = &cobra.Command{
	Use:   "name ID [HREF]",
	Short: "Convert a manifest id to an obfuscated filename",
	Long: `Convert a manifest id to its obfuscated name.
When HREF is given, the full filename including the extension of HREF is printed.`,
	Args: cobra.RangeArgs(1, 2),

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 2 {
			fmt.Fprintln(cmd.OutOrStdout(), namecrypt.BuildFilename(args[0], args[1]))
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), namecrypt.GenerateName(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(nameCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// nameCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// nameCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
