package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/warp"
)

func renderCmd(logger *log.Logger) *cobra.Command {
	var (
		opts   sceneOptions
		out    string
		bounds string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to a PNG file",
		Example: `  warp render --shape sphere --color orange -o ball.png
  warp render -m teapot.obj --rotate 20,30,0 --bounds yellow -o teapot.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.build(logger)
			if err != nil {
				return err
			}
			if err := e.Render(); err != nil {
				return err
			}
			if bounds != "" {
				if err := drawBounds(e, bounds); err != nil {
					return err
				}
			}
			if err := e.SavePNG(out); err != nil {
				return err
			}

			st := e.Pipeline().Stats()
			logger.Info("frame written", "path", out, "subject", opts.subjectName(),
				"opaque", st.Opaque, "transparent", st.Transparent, "culled", st.Culled)
			return nil
		},
	}
	opts.register(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "warp.png", "output PNG path")
	cmd.Flags().StringVar(&bounds, "bounds", "", "overlay object bounding boxes in this color")
	return cmd
}

func drawBounds(e *warp.Engine, color string) error {
	c, err := argb.Parse(color)
	if err != nil {
		return fmt.Errorf("bounds: %w", err)
	}
	p := e.Pipeline()
	for _, o := range e.Scene().Objects() {
		p.DrawBounds(o, nil, c)
	}
	return nil
}
