package main

import (
	"errors"
	"image"
	"image/color"
	"log"
	"os"
	"strconv"

	gc9307 "github.com/photonicat/periph.io-gc9307"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	RST_PIN = "GPIO122"
	DC_PIN  = "GPIO121"
	CS_PIN  = "GPIO13"
	BL_PIN  = "GPIO117"

	LCD_X_OFFSET = 34
	SPI_PORT     = "SPI1.0"
	SPI_SPEED    = 100000 * physic.KiloHertz

	BACKLIGHT_PATH = "/sys/class/backlight/backlight/brightness"
)

var errFrameSize = errors.New("frame does not match display geometry")

// lcdSink drives the SPI LCD. It accepts full RGBA frames and hands
// them to the panel controller, which does its own color depth
// conversion on the way out.
type lcdSink struct {
	display gc9307.Device
	width   int
	height  int
	buffer  []color.RGBA
	close   func()
}

// openDisplay brings up the SPI bus and configures the panel. The
// framebuffer is logical landscape; the controller rotates into the
// physically portrait-mounted glass.
func openDisplay(width, height int) (*lcdSink, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	spiPort, err := spireg.Open(SPI_PORT)
	if err != nil {
		return nil, err
	}

	conn, err := spiPort.Connect(SPI_SPEED, spi.Mode0, 8)
	if err != nil {
		spiPort.Close()
		return nil, err
	}

	display := gc9307.New(conn,
		gpioreg.ByName(RST_PIN),
		gpioreg.ByName(DC_PIN),
		gpioreg.ByName(CS_PIN),
		gpioreg.ByName(BL_PIN))
	display.Configure(gc9307.Config{
		Width:        int16(height),
		Height:       int16(width),
		Rotation:     gc9307.ROTATION_90,
		RowOffset:    0,
		ColumnOffset: LCD_X_OFFSET,
		FrameRate:    gc9307.FRAMERATE_60,
		VSyncLines:   gc9307.MAX_VSYNC_SCANLINES,
		UseCS:        false,
	})

	return &lcdSink{
		display: display,
		width:   width,
		height:  height,
		buffer:  make([]color.RGBA, width*height),
		close:   func() { spiPort.Close() },
	}, nil
}

// PushFrame sends one frame to the glass. Only the render thread calls
// this, so the scratch buffer needs no locking.
func (s *lcdSink) PushFrame(frame *image.RGBA) error {
	bounds := frame.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w != s.width || h != s.height {
		return errFrameSize
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.buffer[y*w+x] = frame.RGBAAt(x, y)
		}
	}
	return s.display.FillRectangleWithBuffer(0, 0, int16(w), int16(h), s.buffer)
}

// Close releases the SPI port.
func (s *lcdSink) Close() {
	if s.close != nil {
		s.close()
	}
}

// discardSink keeps the daemon useful when the LCD is absent: the
// render loop and control plane still run, frames just go nowhere. The
// screenshot endpoint remains the way to see them.
type discardSink struct{}

func (discardSink) PushFrame(frame *image.RGBA) error { return nil }

// setBacklight writes the PWM backlight brightness, clamped to 0-100.
func setBacklight(brightness int) {
	switch {
	case brightness < 0:
		brightness = 0
	case brightness > 100:
		brightness = 100
	}
	if err := os.WriteFile(BACKLIGHT_PATH, []byte(strconv.Itoa(brightness)), 0644); err != nil {
		log.Printf("backlight write error: %v", err)
	}
}
