package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	SKY_YELLOW = color.RGBA{255, 229, 0, 255}
	SKY_WHITE  = color.RGBA{255, 255, 255, 255}
	SKY_RED    = color.RGBA{226, 72, 38, 255}
	SKY_GREY   = color.RGBA{98, 116, 130, 255}
	SKY_GREEN  = color.RGBA{70, 235, 145, 255}
	SKY_BLUE   = color.RGBA{80, 160, 255, 255}
	SKY_BLACK  = color.RGBA{0, 0, 0, 255}
)

// FontConfig holds parameters for a font.
type FontConfig struct {
	FontPath string
	FontSize float64
}

var fonts = map[string]FontConfig{
	"clock":    {FontPath: "assets/fonts/Orbitron-Medium.ttf", FontSize: 16},
	"reg":      {FontPath: "assets/fonts/Orbitron-ExtraBold.ttf", FontSize: 17},
	"big":      {FontPath: "assets/fonts/Orbitron-ExtraBold.ttf", FontSize: 25},
	"unit":     {FontPath: "assets/fonts/Orbitron-Medium.ttf", FontSize: 15},
	"huge":     {FontPath: "assets/fonts/Orbitron-ExtraBold.ttf", FontSize: 34},
	"gigantic": {FontPath: "assets/fonts/Orbitron-ExtraBold.ttf", FontSize: 48},
}

var (
	faceMu    sync.Mutex
	faceCache = make(map[string]font.Face)
)

// getFontFace loads a face from the font mapping, caching the parsed
// result. When the TTF asset is missing (dev machines, tests) it falls
// back to the builtin bitmap face instead of failing the render.
func getFontFace(fontName string) (font.Face, int) {
	faceMu.Lock()
	defer faceMu.Unlock()

	if face, ok := faceCache[fontName]; ok {
		return face, faceHeight(face)
	}

	face := font.Face(basicfont.Face7x13)
	if fc, ok := fonts[fontName]; ok {
		if loaded, err := loadOpentypeFace(fc); err == nil {
			face = loaded
		}
	}
	faceCache[fontName] = face
	return face, faceHeight(face)
}

func loadOpentypeFace(fc FontConfig) (font.Face, error) {
	fontBytes, err := os.ReadFile(fc.FontPath)
	if err != nil {
		return nil, fmt.Errorf("error reading font file: %v", err)
	}
	ttfFont, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("error parsing font: %v", err)
	}
	return opentype.NewFace(ttfFont, &opentype.FaceOptions{
		Size:    fc.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func faceHeight(face font.Face) int {
	metrics := face.Metrics()
	return metrics.Ascent.Round() + metrics.Descent.Round()
}

// drawText draws a string onto an *image.RGBA at (x,y) using the given
// face and color. posY is the top of the text, not the baseline.
func drawText(img *image.RGBA, text string, posX, posY int, face font.Face, clr color.Color, center bool) (finishX, finishY int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
	}

	metrics := face.Metrics()
	x := posX
	if center {
		x = posX - d.MeasureString(text).Round()/2
	}
	y := posY + metrics.Ascent.Round()

	d.Dot = fixed.P(x, y)
	d.DrawString(text)

	finishX = x + d.MeasureString(text).Round()
	finishY = posY + metrics.Ascent.Round() + metrics.Descent.Round()
	return
}

func clearFrame(frame *image.RGBA, width, height int) {
	for i := 0; i < width*height*4; i += 4 {
		frame.Pix[i] = 0
		frame.Pix[i+1] = 0
		frame.Pix[i+2] = 0
		frame.Pix[i+3] = 255
	}
}

func drawRect(img *image.RGBA, x0, y0, width, height int, c color.Color) {
	r, g, b, a := c.RGBA()
	col := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	for x := x0; x < x0+width; x++ {
		for y := y0; y < y0+height; y++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// copyImageToImageAt alpha-blends img onto frame at (x0, y0).
func copyImageToImageAt(frame *image.RGBA, img *image.RGBA, x0, y0 int) error {
	if frame == nil || img == nil {
		return fmt.Errorf("nil image provided")
	}
	if x0 < 0 || y0 < 0 {
		return fmt.Errorf("x, y is negative: %d,%d", x0, y0)
	}

	targetWidth := img.Bounds().Dx()
	targetHeight := img.Bounds().Dy()
	for y := 0; y < targetHeight; y++ {
		for x := 0; x < targetWidth; x++ {
			sample := img.RGBAAt(x, y)
			if sample.A == 0 {
				continue
			}
			dst := frame.RGBAAt(x0+x, y0+y)
			if sample.A == 255 {
				frame.SetRGBA(x0+x, y0+y, sample)
				continue
			}
			a := uint16(sample.A)
			invA := uint16(255 - sample.A)
			outR := (uint16(sample.R)*a + uint16(dst.R)*invA) / 255
			outG := (uint16(sample.G)*a + uint16(dst.G)*invA) / 255
			outB := (uint16(sample.B)*a + uint16(dst.B)*invA) / 255
			outA := uint8(uint16(sample.A) + (uint16(dst.A)*invA)/255)
			frame.SetRGBA(x0+x, y0+y, color.RGBA{R: uint8(outR), G: uint8(outG), B: uint8(outB), A: outA})
		}
	}
	return nil
}

// rasterizeSVG renders in-memory SVG data to an RGBA image of the
// requested size.
func rasterizeSVG(svgData []byte, targetWidth, targetHeight int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	if targetWidth == 0 {
		targetWidth = int(icon.ViewBox.W)
	}
	if targetHeight == 0 {
		targetHeight = int(icon.ViewBox.H)
	}

	icon.SetTarget(0, 0, float64(targetWidth), float64(targetHeight))
	img := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(targetWidth, targetHeight, img, img.Bounds())
	dasher := rasterx.NewDasher(targetWidth, targetHeight, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}

// drawSVGData rasterizes SVG bytes and blends the result into frame.
func drawSVGData(frame *image.RGBA, svgData []byte, x0, y0, targetWidth, targetHeight int) error {
	img, err := rasterizeSVG(svgData, targetWidth, targetHeight)
	if err != nil {
		return err
	}
	return copyImageToImageAt(frame, img, x0, y0)
}

// fillRoundedRect draws a filled rounded rectangle on frame.
func fillRoundedRect(frame *image.RGBA, x, y, w, h, r float64, fill color.Color) {
	gc := draw2dimg.NewGraphicContext(frame)
	gc.SetFillColor(fill)
	tracePathRoundedRect(gc, x, y, w, h, r)
	gc.Fill()
}

// strokeRoundedRect draws a rounded rectangle outline on frame.
func strokeRoundedRect(frame *image.RGBA, x, y, w, h, r, lineWidth float64, stroke color.Color) {
	gc := draw2dimg.NewGraphicContext(frame)
	gc.SetStrokeColor(stroke)
	gc.SetLineWidth(lineWidth)
	tracePathRoundedRect(gc, x, y, w, h, r)
	gc.Stroke()
}

func tracePathRoundedRect(gc *draw2dimg.GraphicContext, x, y, w, h, r float64) {
	gc.MoveTo(x+r, y)
	gc.LineTo(x+w-r, y)
	gc.ArcTo(x+w-r, y+r, r, r, -90, 90)
	gc.LineTo(x+w, y+h-r)
	gc.ArcTo(x+w-r, y+h-r, r, r, 0, 90)
	gc.LineTo(x+r, y+h)
	gc.ArcTo(x+r, y+h-r, r, r, 90, 90)
	gc.LineTo(x, y+r)
	gc.ArcTo(x+r, y+r, r, r, 180, 90)
	gc.Close()
}

// fillCircle draws a filled disc, used for the moon face.
func fillCircle(frame *image.RGBA, cx, cy, r float64, fill color.Color) {
	gc := draw2dimg.NewGraphicContext(frame)
	gc.SetFillColor(fill)
	gc.ArcTo(cx, cy, r, r, 0, 360)
	gc.Close()
	gc.Fill()
}
