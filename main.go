package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"
)

const (
	DEFAULT_LCD_WIDTH      = 320
	DEFAULT_LCD_HEIGHT     = 172
	DEFAULT_NAV_BAR_HEIGHT = 28
	DEFAULT_TOUCH_DEVICE   = "generic ft5x06 (79)"

	NAV_BUTTON_WIDTH = 48
	NAV_BUTTON_INSET = 6
	NAV_HIT_MARGIN   = 8

	FORECAST_DAYS         = 5
	PROVIDER_HTTP_TIMEOUT = 10 * time.Second

	ETC_CONFIG_PATH = "/etc/skyal_touch_display-config.json"
)

func main() {
	cfg, err := loadConfig(ETC_CONFIG_PATH)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Data providers, each behind its own TTL cache slot. The render
	// path only ever sees cached values; the caches absorb slow or
	// failing fetches.
	weatherAPI := newWeatherClient(cfg.WeatherURL, cfg.Latitude, cfg.Longitude)
	weatherCache := NewTimedCache(time.Duration(cfg.WeatherTTLSecs)*time.Second, weatherAPI.FetchBundle)

	astroTTL := time.Duration(cfg.AstroTTLSecs) * time.Second
	sunCache := NewTimedCache(astroTTL, func() (SunTimes, error) {
		now := time.Now()
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return sunTimesFor(day, cfg.Latitude, cfg.Longitude, now.Location())
	})
	moonCache := NewTimedCache(astroTTL, func() (MoonInfo, error) {
		return moonInfoAt(time.Now()), nil
	})

	statusAPI := newStatusClient(cfg.PingSite)
	statusCache := NewTimedCache(time.Duration(cfg.StatusTTLSecs)*time.Second, statusAPI.FetchStatus)

	nav := newNavigationState(defaultPanels())
	renderer := newPanelRenderer(cfg.Width, cfg.Height, cfg.NavBarHeight, weatherCache, sunCache, moonCache, statusCache)

	var sink frameSink
	lcd, err := openDisplay(cfg.Width, cfg.Height)
	if err != nil {
		log.Printf("display unavailable, frames go to /screenshot only: %v", err)
		sink = discardSink{}
	} else {
		sink = lcd
		setBacklight(cfg.Brightness)
		defer func() {
			setBacklight(0)
			lcd.Close()
		}()
	}

	sched := newRenderScheduler(nav, sink, renderer)

	// Touch thread. A missing controller is logged and the device
	// keeps running on swipe-free navigation via the control plane.
	if dev, err := openTouchDevice(cfg.TouchDevice, 3); err != nil {
		log.Printf("touch unavailable: %v", err)
	} else {
		gc := newGestureClassifier(cfg.touchTransform(), cfg.SwipeThreshold, cfg.TapThreshold, cfg.tapTimeout())
		buttons := makeNavButtons(cfg.Width, cfg.Height, cfg.NavBarHeight)
		go runTouchLoop(ctx, dev, gc, nav, buttons)
	}

	// Control plane thread.
	cp := newControlPlane(nav, sched, newTokenBucket(cfg.RateLimit), cfg.AuthUser, cfg.AuthPass)
	go cp.run(ctx, cfg.ListenAddr)

	// Render thread runs here until shutdown.
	sched.Run(ctx)
	log.Println("shutdown complete")
}
