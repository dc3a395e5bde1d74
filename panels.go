package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	svg "github.com/ajstarks/svgo"
)

// PanelID enumerates the closed set of panels the device cycles
// through. Render dispatch switches over this set exhaustively.
type PanelID int

const (
	PanelClock PanelID = iota
	PanelWeather
	PanelForecast
	PanelSun
	PanelMoon
	PanelStatus
)

// Panel couples an identifier with its display name and refresh
// cadence. The clock redraws every second; data-backed panels follow
// their provider's useful resolution instead.
type Panel struct {
	ID      PanelID
	Name    string
	Refresh time.Duration
}

func defaultPanels() []Panel {
	return []Panel{
		{ID: PanelClock, Name: "clock", Refresh: time.Second},
		{ID: PanelWeather, Name: "weather", Refresh: 30 * time.Second},
		{ID: PanelForecast, Name: "forecast", Refresh: time.Minute},
		{ID: PanelSun, Name: "sun", Refresh: time.Minute},
		{ID: PanelMoon, Name: "moon", Refresh: time.Minute},
		{ID: PanelStatus, Name: "status", Refresh: 15 * time.Second},
	}
}

// panelRenderer draws panels into fresh RGBA frames. All remote data
// comes through TimedCache readers, so a slow or failing provider can
// never stall a render; the panels show the last known values instead.
type panelRenderer struct {
	width        int
	height       int
	navBarHeight int
	buttons      navButtons

	weather *TimedCache[WeatherBundle]
	sun     *TimedCache[SunTimes]
	moon    *TimedCache[MoonInfo]
	status  *TimedCache[StatusInfo]

	now func() time.Time
}

func newPanelRenderer(width, height, navBarHeight int, weather *TimedCache[WeatherBundle], sun *TimedCache[SunTimes], moon *TimedCache[MoonInfo], status *TimedCache[StatusInfo]) *panelRenderer {
	return &panelRenderer{
		width:        width,
		height:       height,
		navBarHeight: navBarHeight,
		buttons:      makeNavButtons(width, height, navBarHeight),
		weather:      weather,
		sun:          sun,
		moon:         moon,
		status:       status,
		now:          time.Now,
	}
}

// Render produces a complete frame for the given panel, footer
// included.
func (r *panelRenderer) Render(p Panel, index, count int) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	clearFrame(frame, r.width, r.height)

	switch p.ID {
	case PanelClock:
		r.renderClock(frame)
	case PanelWeather:
		r.renderWeather(frame)
	case PanelForecast:
		r.renderForecast(frame)
	case PanelSun:
		r.renderSun(frame)
	case PanelMoon:
		r.renderMoon(frame)
	case PanelStatus:
		r.renderStatus(frame)
	default:
		r.renderUnavailable(frame, "unknown panel")
	}

	r.drawNavBar(frame, p.Name, index, count)
	return frame
}

func (r *panelRenderer) renderClock(frame *image.RGBA) {
	now := r.now()
	faceBig, _ := getFontFace("gigantic")
	faceSmall, _ := getFontFace("reg")

	cx := r.width / 2
	drawText(frame, now.Format("15:04:05"), cx, r.height/4, faceBig, SKY_WHITE, true)
	drawText(frame, now.Format("Mon 2006-01-02"), cx, r.height/2+10, faceSmall, SKY_GREY, true)
}

func (r *panelRenderer) renderWeather(frame *image.RGBA) {
	bundle, ok := r.weather.Get()
	if !ok {
		r.renderUnavailable(frame, "weather unavailable")
		return
	}

	faceHuge, _ := getFontFace("huge")
	faceReg, _ := getFontFace("reg")
	faceUnit, _ := getFontFace("unit")

	cur := bundle.Current
	drawText(frame, fmt.Sprintf("%.1f°C", cur.TempC), 14, 16, faceHuge, SKY_WHITE, false)
	drawText(frame, weatherDescription(cur.Code), 14, 62, faceReg, SKY_YELLOW, false)
	drawText(frame, fmt.Sprintf("wind %.0f km/h", cur.WindKmh), 14, 88, faceUnit, SKY_GREY, false)

	iconSize := r.height - r.navBarHeight - 32
	if iconSize > 96 {
		iconSize = 96
	}
	if err := drawSVGData(frame, weatherIconSVG(cur.Code, cur.Daytime), r.width-iconSize-16, 16, iconSize, iconSize); err != nil {
		drawText(frame, "?", r.width-40, 24, faceHuge, SKY_GREY, false)
	}
}

func (r *panelRenderer) renderForecast(frame *image.RGBA) {
	bundle, ok := r.weather.Get()
	if !ok || len(bundle.Days) == 0 {
		r.renderUnavailable(frame, "forecast unavailable")
		return
	}

	faceUnit, _ := getFontFace("unit")
	graphH := r.height - r.navBarHeight - 40
	graph, err := renderForecastGraph(bundle.Days, r.width-24, graphH)
	if err == nil {
		copyImageToImageAt(frame, graph, 12, 8)
	}

	// day initials + max temps under the bars
	n := len(bundle.Days)
	slot := (r.width - 24) / n
	for i, d := range bundle.Days {
		label := d.Date
		if t, err := time.Parse("2006-01-02", d.Date); err == nil {
			label = t.Format("Mon")[:1]
		}
		x := 12 + i*slot + slot/2
		drawText(frame, label, x, graphH+10, faceUnit, SKY_WHITE, true)
		drawText(frame, fmt.Sprintf("%.0f", d.MaxC), x, graphH+24, faceUnit, SKY_GREY, true)
	}
}

func (r *panelRenderer) renderSun(frame *image.RGBA) {
	st, ok := r.sun.Get()
	if !ok {
		r.renderUnavailable(frame, "sun times unavailable")
		return
	}

	faceBig, _ := getFontFace("big")
	faceReg, _ := getFontFace("reg")

	drawText(frame, "SUNRISE", 14, 10, faceReg, SKY_GREY, false)
	drawText(frame, st.Sunrise.Format("15:04"), 14, 32, faceBig, SKY_YELLOW, false)
	drawText(frame, "SUNSET", 14, 68, faceReg, SKY_GREY, false)
	drawText(frame, st.Sunset.Format("15:04"), 14, 90, faceBig, SKY_RED, false)

	dayLen := fmt.Sprintf("%dh %02dm", int(st.DayLength.Hours()), int(st.DayLength.Minutes())%60)
	drawText(frame, "daylight "+dayLen, r.width/2, r.height-r.navBarHeight-24, faceReg, SKY_WHITE, true)

	r.drawSunArc(frame)
}

// drawSunArc sketches the day's solar arc with the current position
// marked.
func (r *panelRenderer) drawSunArc(frame *image.RGBA) {
	st, ok := r.sun.Peek()
	if !ok {
		return
	}
	now := r.now()
	span := st.Sunset.Sub(st.Sunrise)
	if span <= 0 {
		return
	}
	p := now.Sub(st.Sunrise).Seconds() / span.Seconds()
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	baseY := r.height - r.navBarHeight - 44
	x0 := r.width/2 + 30
	arcW := r.width - x0 - 20
	if arcW < 40 {
		return
	}
	drawRect(frame, x0, baseY, arcW, 1, SKY_GREY)
	sunX := x0 + int(float64(arcW)*p)
	sunY := baseY - int(26*math.Sin(p*math.Pi))
	fillCircle(frame, float64(sunX), float64(sunY), 5, SKY_YELLOW)
}

func (r *panelRenderer) renderMoon(frame *image.RGBA) {
	mi, ok := r.moon.Get()
	if !ok {
		r.renderUnavailable(frame, "moon data unavailable")
		return
	}

	faceBig, _ := getFontFace("big")
	faceUnit, _ := getFontFace("unit")

	radius := (r.height - r.navBarHeight) / 3
	cx := r.width / 4
	cy := (r.height - r.navBarHeight) / 2
	drawMoonDisc(frame, cx, cy, radius, mi)

	drawText(frame, mi.Name, r.width/2+10, cy-30, faceBig, SKY_WHITE, false)
	drawText(frame, fmt.Sprintf("%.0f%% lit", mi.Illumination*100), r.width/2+10, cy+4, faceUnit, SKY_GREY, false)
	drawText(frame, fmt.Sprintf("age %.1f days", mi.AgeDays), r.width/2+10, cy+24, faceUnit, SKY_GREY, false)
}

// drawMoonDisc paints the lit portion of the moon. Per row, the
// terminator is an ellipse scaled by the phase angle; the lit side
// follows waxing/waning.
func drawMoonDisc(frame *image.RGBA, cx, cy, radius int, mi MoonInfo) {
	lit := SKY_WHITE
	dark := color.RGBA{40, 44, 52, 255}
	term := math.Cos(2 * math.Pi * mi.Phase)

	for dy := -radius; dy <= radius; dy++ {
		half := int(math.Sqrt(float64(radius*radius - dy*dy)))
		for dx := -half; dx <= half; dx++ {
			edge := float64(half) * term
			isLit := false
			if mi.Waxing {
				isLit = float64(dx) >= edge
			} else {
				isLit = float64(dx) <= -edge
			}
			c := dark
			if isLit {
				c = lit
			}
			frame.SetRGBA(cx+dx, cy+dy, c)
		}
	}
}

func (r *panelRenderer) renderStatus(frame *image.RGBA) {
	si, ok := r.status.Get()
	if !ok {
		r.renderUnavailable(frame, "status unavailable")
		return
	}

	faceReg, _ := getFontFace("reg")
	faceBig, _ := getFontFace("big")

	drawText(frame, "LAN IP", 14, 10, faceReg, SKY_GREY, false)
	drawText(frame, si.LocalIP, 14, 32, faceBig, SKY_WHITE, false)

	drawText(frame, "PING "+si.PingHost, 14, 68, faceReg, SKY_GREY, false)
	if si.Reachable {
		drawText(frame, fmt.Sprintf("%d ms", si.PingMs), 14, 90, faceBig, SKY_GREEN, false)
	} else {
		drawText(frame, "unreachable", 14, 90, faceBig, SKY_RED, false)
	}
}

func (r *panelRenderer) renderUnavailable(frame *image.RGBA, msg string) {
	faceReg, _ := getFontFace("reg")
	drawText(frame, msg, r.width/2, (r.height-r.navBarHeight)/2-8, faceReg, SKY_GREY, true)
}

// drawNavBar paints the footer strip: prev/next buttons at the edges
// and "name (pos/count)" in the middle. The gesture hit rects are
// derived from the same geometry, so what you see is what you tap.
func (r *panelRenderer) drawNavBar(frame *image.RGBA, name string, index, count int) {
	barTop := r.height - r.navBarHeight
	drawRect(frame, 0, barTop, r.width, r.navBarHeight, color.RGBA{24, 28, 34, 255})

	btnY := float64(barTop + 3)
	btnH := float64(r.navBarHeight - 6)
	fillRoundedRect(frame, float64(NAV_BUTTON_INSET), btnY, float64(NAV_BUTTON_WIDTH), btnH, 4, SKY_GREY)
	fillRoundedRect(frame, float64(r.width-NAV_BUTTON_INSET-NAV_BUTTON_WIDTH), btnY, float64(NAV_BUTTON_WIDTH), btnH, 4, SKY_GREY)

	faceUnit, fh := getFontFace("unit")
	textY := barTop + (r.navBarHeight-fh)/2
	drawText(frame, "<", NAV_BUTTON_INSET+NAV_BUTTON_WIDTH/2, textY, faceUnit, SKY_BLACK, true)
	drawText(frame, ">", r.width-NAV_BUTTON_INSET-NAV_BUTTON_WIDTH/2, textY, faceUnit, SKY_BLACK, true)
	drawText(frame, fmt.Sprintf("%s (%d/%d)", name, index+1, count), r.width/2, textY, faceUnit, SKY_WHITE, true)
}

// weatherIconSVG builds a small vector icon for the current conditions.
func weatherIconSVG(code int, daytime bool) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(48, 48)

	sun := "fill:#FFE500"
	if !daytime {
		sun = "fill:#C9D1D9"
	}
	cloud := "fill:#98A6B3"
	drop := "fill:#50A0FF"

	switch {
	case code == 0:
		canvas.Circle(24, 24, 12, sun)
	case code <= 3:
		canvas.Circle(18, 18, 9, sun)
		canvas.Roundrect(10, 22, 30, 14, 7, 7, cloud)
	case code >= 71 && code <= 77:
		canvas.Roundrect(8, 12, 32, 14, 7, 7, cloud)
		canvas.Circle(16, 34, 3, "fill:#FFFFFF")
		canvas.Circle(24, 40, 3, "fill:#FFFFFF")
		canvas.Circle(32, 34, 3, "fill:#FFFFFF")
	case code >= 51:
		canvas.Roundrect(8, 12, 32, 14, 7, 7, cloud)
		canvas.Circle(16, 34, 3, drop)
		canvas.Circle(24, 40, 3, drop)
		canvas.Circle(32, 34, 3, drop)
	default:
		canvas.Roundrect(8, 16, 32, 16, 8, 8, cloud)
	}
	canvas.End()
	return buf.Bytes()
}
