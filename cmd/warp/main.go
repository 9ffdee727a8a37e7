// warp - software 3D renderer
// Render primitives and OBJ/glTF models to PNG files or the terminal.
//
// Commands:
//
//	render     - Render one frame to a PNG file
//	turntable  - Render frames orbiting the subject in parallel
//	view       - Interactive terminal viewer
//	info       - Print model statistics
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), rootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var level string
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "warp"})

	root := &cobra.Command{
		Use:   "warp",
		Short: "Software 3D renderer",
		Long: `warp - software 3D renderer

Renders primitives and OBJ/glTF models with a fixed-point scanline
rasterizer: flat, Phong, textured, environment-mapped and wireframe
materials lit by directional lights.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(
		renderCmd(logger),
		turntableCmd(logger),
		viewCmd(logger),
		infoCmd(),
	)
	return root
}
