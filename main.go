package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"image-gallery/cmd"
)

const version = "0.3.0"

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
