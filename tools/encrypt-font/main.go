package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/YoshihikoAbe/epubtools/fontobf"
)

func main() {
	if err := fontobf.Run(context.Background(), os.Stdout, filepath.Base(os.Args[0]), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
