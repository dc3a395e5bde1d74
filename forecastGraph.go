package main

import (
	"bytes"
	"fmt"
	"image"

	svg "github.com/ajstarks/svgo"
)

const (
	GRAPH_BAR_GAP    = 6
	GRAPH_TOP_PAD    = 4
	GRAPH_BOTTOM_PAD = 4
	GRAPH_MIN_SPAN_C = 4.0
	GRAPH_BAR_RADIUS = 2
)

// renderForecastGraph builds a per-day min/max temperature bar graph as
// an SVG in memory and rasterizes it to an RGBA image. Generating the
// vector first keeps the bars crisp at any panel size.
func renderForecastGraph(days []ForecastDay, width, height int) (*image.RGBA, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("no forecast days to graph")
	}

	lo, hi := days[0].MinC, days[0].MaxC
	for _, d := range days[1:] {
		if d.MinC < lo {
			lo = d.MinC
		}
		if d.MaxC > hi {
			hi = d.MaxC
		}
	}
	// A flat forecast still gets visible bars.
	if hi-lo < GRAPH_MIN_SPAN_C {
		mid := (hi + lo) / 2
		lo = mid - GRAPH_MIN_SPAN_C/2
		hi = mid + GRAPH_MIN_SPAN_C/2
	}

	plotH := height - GRAPH_TOP_PAD - GRAPH_BOTTOM_PAD
	scaleY := func(t float64) int {
		p := (t - lo) / (hi - lo)
		return GRAPH_TOP_PAD + plotH - int(p*float64(plotH))
	}

	barW := (width - GRAPH_BAR_GAP*(len(days)+1)) / len(days)
	if barW < 2 {
		barW = 2
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)

	warmFill := fmt.Sprintf("fill:#%02X%02X%02X", SKY_YELLOW.R, SKY_YELLOW.G, SKY_YELLOW.B)
	coldFill := fmt.Sprintf("fill:#%02X%02X%02X", SKY_BLUE.R, SKY_BLUE.G, SKY_BLUE.B)

	for i, d := range days {
		x := GRAPH_BAR_GAP + i*(barW+GRAPH_BAR_GAP)
		yMax := scaleY(d.MaxC)
		yMin := scaleY(d.MinC)
		if yMin-yMax < 2 {
			yMin = yMax + 2
		}
		canvas.Roundrect(x, yMax, barW, yMin-yMax, GRAPH_BAR_RADIUS, GRAPH_BAR_RADIUS, warmFill)
		// cold tick at the bottom of each bar
		canvas.Roundrect(x, yMin-2, barW, 2, 1, 1, coldFill)
	}
	canvas.End()

	return rasterizeSVG(buf.Bytes(), width, height)
}
