package main

import (
	"encoding/json"
	"os"
	"time"
)

// Config represents the overall config JSON.
type Config struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	NavBarHeight int `json:"nav_bar_height"`
	Brightness   int `json:"brightness"`

	TouchDevice    string `json:"touch_device"`
	RawMin         int    `json:"raw_min"`
	RawMax         int    `json:"raw_max"`
	SwapAxes       bool   `json:"swap_axes"`
	InvertX        bool   `json:"invert_x"`
	InvertY        bool   `json:"invert_y"`
	Rotate180      bool   `json:"rotate_180"`
	SwipeThreshold int    `json:"swipe_threshold"`
	TapThreshold   int    `json:"tap_threshold"`
	TapTimeoutMs   int    `json:"tap_timeout_ms"`

	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	WeatherURL     string  `json:"weather_url"`
	WeatherTTLSecs int     `json:"weather_ttl_secs"`
	AstroTTLSecs   int     `json:"astro_ttl_secs"`
	StatusTTLSecs  int     `json:"status_ttl_secs"`
	PingSite       string  `json:"ping_site"`

	ListenAddr string  `json:"listen_addr"`
	RateLimit  float64 `json:"rate_limit"`
	AuthUser   string  `json:"auth_user"`
	AuthPass   string  `json:"auth_pass"`
}

func defaultConfig() Config {
	return Config{
		Width:          DEFAULT_LCD_WIDTH,
		Height:         DEFAULT_LCD_HEIGHT,
		NavBarHeight:   DEFAULT_NAV_BAR_HEIGHT,
		Brightness:     80,
		TouchDevice:    DEFAULT_TOUCH_DEVICE,
		RawMin:         0,
		RawMax:         4095,
		SwapAxes:       true,
		SwipeThreshold: 40,
		TapThreshold:   12,
		TapTimeoutMs:   400,
		Latitude:       37.7749,
		Longitude:      -122.4194,
		WeatherURL:     "https://api.open-meteo.com",
		WeatherTTLSecs: 600,
		AstroTTLSecs:   300,
		StatusTTLSecs:  30,
		PingSite:       "1.1.1.1",
		ListenAddr:     ":8081",
		RateLimit:      5,
	}
}

// loadConfig reads the config file over the defaults. A missing file is
// not an error; the defaults suffice for a stock unit.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) tapTimeout() time.Duration {
	return time.Duration(c.TapTimeoutMs) * time.Millisecond
}

func (c Config) touchTransform() TouchTransform {
	return TouchTransform{
		RawMin:    c.RawMin,
		RawMax:    c.RawMax,
		Width:     c.Width,
		Height:    c.Height,
		SwapAxes:  c.SwapAxes,
		InvertX:   c.InvertX,
		InvertY:   c.InvertY,
		Rotate180: c.Rotate180,
	}
}
