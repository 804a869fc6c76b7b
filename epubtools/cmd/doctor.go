package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/YoshihikoAbe/epubtools/doctor"
	"github.com/spf13/cobra"
)

// swapped out by tests
var doctorRunner doctor.Runner = doctor.ExecRunner

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the external tools and runtimes used by epubtools",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	python := ""
	if current != nil {
		python = current.PythonPath
	}

	statuses, err := doctor.Check(cmd.Context(), doctorRunner, doctor.DefaultTools(python))
	if err != nil {
		return err
	}
	missing := doctor.MissingRequired(statuses)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		b, err := json.MarshalIndent(statuses, "", " ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	} else {
		printStatuses(out, statuses, len(missing))
	}

	return doctor.RequireAll(statuses)
}

func printStatuses(w io.Writer, statuses []doctor.Status, missing int) {
	fmt.Fprintln(w, "\n🔍 epubtools doctor — 环境检测")
	fmt.Fprintln(w)

	for _, s := range statuses {
		icon := "⚠️"
		status := "未安装"
		if s.Available {
			icon = "✅"
			status = s.Version
		} else if s.Required {
			icon = "❌"
		}
		req := "(可选)"
		if s.Required {
			req = "(必需)"
		}

		fmt.Fprintf(w, "  %s %s %s: %s\n", icon, s.Name, req, status)
		if !s.Available {
			fmt.Fprintf(w, "     💡 %s\n", s.InstallHint)
		}
	}

	if missing > 0 {
		fmt.Fprintf(w, "\n❌ 有 %d 个必需工具未安装，请先安装后再使用。\n\n", missing)
	} else {
		fmt.Fprint(w, "\n✅ 所有必需工具已就绪！\n\n")
	}
}
