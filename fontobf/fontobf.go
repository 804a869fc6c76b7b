// Package fontobf is the entry point for obfuscating the fonts embedded in an
// EPUB. The transform itself has not been ported yet: every request is
// rejected with ErrNotImplemented and nothing is written to disk.
package fontobf

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	// FamiliesFlag marks the start of the font family list on the command line.
	FamiliesFlag = "--families"

	usageFormat          = "用法: %s <epub_path> <output_path> [--families ...]\n"
	requestFormat        = "字体混淆: %s -> %s\n"
	notImplementedNotice = "尚未实现 — 请等待 Sprint 3"
)

type fontobfError string

func (e fontobfError) Error() string {
	return "epubtools/fontobf: " + string(e)
}

var (
	ErrUsage          = fontobfError("at least two arguments are required")
	ErrNotImplemented = fontobfError("font obfuscation is not implemented")
)

// Options controls a single obfuscation request.
type Options struct {
	// OutputPath is where the processed EPUB would be written.
	OutputPath string
	// Families restricts obfuscation to the named font families.
	// An empty list selects every embedded font.
	Families []string
}

// Result summarises an obfuscation request.
type Result struct {
	FontsProcessed int
	Errors         []string
}

// Encrypt obfuscates the fonts of the EPUB at epubPath.
// It currently always fails with ErrNotImplemented and never touches the
// filesystem.
func Encrypt(ctx context.Context, epubPath string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return &Result{Errors: []string{err.Error()}}, err
	}

	zap.L().Named("fontobf").Debug("font obfuscation requested",
		zap.String("epub", epubPath),
		zap.String("output", opts.OutputPath),
		zap.Strings("families", opts.Families),
	)

	return &Result{Errors: []string{notImplementedNotice}}, ErrNotImplemented
}

// ParseArgs splits a command line of the form
// EPUB OUTPUT [--families FONT...] into its parts. The first two arguments are
// taken verbatim; anything after them other than the families list is ignored.
func ParseArgs(args []string) (epubPath string, opts Options, err error) {
	if len(args) < 2 {
		return "", Options{}, ErrUsage
	}

	opts.OutputPath = args[1]
	rest := args[2:]
	for i, arg := range rest {
		if arg == FamiliesFlag {
			opts.Families = append([]string(nil), rest[i+1:]...)
			break
		}
	}
	return args[0], opts, nil
}

// Run executes the font obfuscation command line for program, reporting to w.
// The returned error is never nil: either the arguments were insufficient or
// the request could not be fulfilled.
func Run(ctx context.Context, w io.Writer, program string, args []string) error {
	epubPath, opts, err := ParseArgs(args)
	if err != nil {
		fmt.Fprintf(w, usageFormat, program)
		return err
	}

	fmt.Fprintf(w, requestFormat, epubPath, opts.OutputPath)

	result, err := Encrypt(ctx, epubPath, opts)
	for _, msg := range result.Errors {
		fmt.Fprintln(w, msg)
	}
	return err
}
