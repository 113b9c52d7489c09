package report

import (
	"image/color"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/plotutil"
)

// barAlpha is the fill opacity of bars, 0.8 of 255.
const barAlpha = 204

// BarPalette colours the bars of a grouped chart in configuration order:
// the baseline first, then SF7 to SF12.
var BarPalette = []color.RGBA{
	colornames.Black,
	colornames.Burlywood,
	colornames.Dimgray,
	colornames.Cornflowerblue,
	colornames.Thistle,
	colornames.Mediumpurple,
	colornames.Indigo,
}

// barColor returns the translucent fill for a bar colour key, cycling
// through BarPalette.
func barColor(key int) color.Color {
	c := BarPalette[((key%len(BarPalette))+len(BarPalette))%len(BarPalette)]
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: barAlpha}
}

// lineColor returns the stroke colour for a line colour key.
func lineColor(key int) color.Color {
	return plotutil.Color(key)
}
