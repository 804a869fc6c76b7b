// Package doctor checks which external tools are available to epubtools.
package doctor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxProbes bounds the number of tool processes started at once.
const maxProbes = 4

type doctorError string

func (e doctorError) Error() string {
	return "epubtools/doctor: " + string(e)
}

var ErrMissingRequired = doctorError("required tools missing")

// Tool describes an external program. Commands lists alternative invocations
// tried in order; the first one that runs decides the version.
type Tool struct {
	Name        string
	Commands    [][]string
	Required    bool
	InstallHint string
}

type Status struct {
	Name        string `json:"name"`
	Available   bool   `json:"available"`
	Version     string `json:"version,omitempty"`
	Required    bool   `json:"required"`
	InstallHint string `json:"install_hint"`
}

// Runner runs a command and returns its standard output and error streams.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultTools lists the programs used by the font pipeline and its sibling
// commands. python overrides the interpreter; when empty python3 is tried
// before python.
func DefaultTools(python string) []Tool {
	pythons := []string{"python3", "python"}
	if python != "" {
		pythons = []string{python}
	}

	var (
		pyVersion   [][]string
		pyFontTools [][]string
	)
	for _, py := range pythons {
		pyVersion = append(pyVersion, []string{py, "--version"})
		pyFontTools = append(pyFontTools, []string{py, "-c", "import fontTools; print(fontTools.version)"})
	}

	return []Tool{
		{
			Name:        "Python",
			Commands:    pyVersion,
			InstallHint: "字体混淆需要。https://python.org/ 或使用 mise install python",
		},
		{
			Name:        "fonttools (Python)",
			Commands:    pyFontTools,
			InstallHint: "字体混淆需要。pip install fonttools",
		},
		{
			Name:        "jpegoptim",
			Commands:    [][]string{{"jpegoptim", "--version"}},
			InstallHint: "JPEG 压缩需要。brew install jpegoptim / apt install jpegoptim",
		},
		{
			Name:        "oxipng",
			Commands:    [][]string{{"oxipng", "--version"}},
			InstallHint: "PNG 压缩需要。brew install oxipng / cargo install oxipng",
		},
		{
			Name:        "zopflipng",
			Commands:    [][]string{{"zopflipng", "--help"}},
			InstallHint: "PNG 极限压缩。brew install zopfli / apt install zopfli",
		},
		{
			Name:        "Git",
			Commands:    [][]string{{"git", "--version"}},
			InstallHint: "编辑工作流需要。https://git-scm.com/",
		},
	}
}

// Check probes every tool concurrently. The returned statuses are in the
// same order as tools. An error is only returned if ctx is done.
func Check(ctx context.Context, run Runner, tools []Tool) ([]Status, error) {
	statuses := make([]Status, len(tools))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProbes)
	for i, tool := range tools {
		g.Go(func() error {
			statuses[i] = probe(ctx, run, tool)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// MissingRequired returns the required tools that are not available.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if s.Required && !s.Available {
			missing = append(missing, s)
		}
	}
	return missing
}

// RequireAll fails with ErrMissingRequired if a required tool is not
// available.
func RequireAll(statuses []Status) error {
	missing := MissingRequired(statuses)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, s := range missing {
		names[i] = s.Name
	}
	return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(names, ", "))
}

func probe(ctx context.Context, run Runner, tool Tool) Status {
	status := Status{
		Name:        tool.Name,
		Required:    tool.Required,
		InstallHint: tool.InstallHint,
	}
	log := zap.L().Named("doctor")

	for _, command := range tool.Commands {
		if len(command) == 0 {
			continue
		}
		stdout, stderr, err := run(ctx, command[0], command[1:]...)
		if err != nil {
			log.Debug("probe failed", zap.String("tool", tool.Name), zap.Strings("command", command), zap.Error(err))
			continue
		}

		status.Available = true
		status.Version = firstLine(stdout)
		if status.Version == "" {
			status.Version = firstLine(stderr)
		}
		log.Debug("probe succeeded", zap.String("tool", tool.Name), zap.String("version", status.Version))
		break
	}
	return status
}

func firstLine(b []byte) string {
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
