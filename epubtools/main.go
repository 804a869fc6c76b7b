package main

import "github.com/YoshihikoAbe/epubtools/epubtools/cmd"

func main() {
	cmd.Execute()
}
