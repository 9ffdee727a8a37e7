package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/warp/pkg/argb"
)

// Draw presents the screen on a terminal. Each cell shows two pixel rows
// with an upper half block: foreground is the top pixel and background
// the bottom one. The screen height should be twice the area height.
func (s *Screen) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= s.Width {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(s.Pixel(x, topY)),
					Bg: cellColor(s.Pixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor converts a packed pixel for the terminal. Fully transparent
// pixels leave the terminal default.
func cellColor(c uint32) color.Color {
	if argb.A(c) == 0 {
		return nil
	}
	return color.RGBA{R: uint8(argb.R(c)), G: uint8(argb.G(c)), B: uint8(argb.B(c)), A: 255}
}
