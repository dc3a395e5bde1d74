package main

import (
	"errors"
	"math"
	"time"
)

// SunTimes holds the sun events for one calendar day at the configured
// location.
type SunTimes struct {
	Sunrise   time.Time
	Sunset    time.Time
	DayLength time.Duration
}

// MoonInfo describes the lunar state for a point in time.
type MoonInfo struct {
	AgeDays      float64
	Phase        float64 // 0..1, 0 = new moon, 0.5 = full
	Illumination float64 // 0..1 fraction lit
	Name         string
	Waxing       bool
}

var errPolarSun = errors.New("sun does not rise or set on this date at this latitude")

// sunTimesFor computes sunrise and sunset for the given day using the
// NOAA-style approximation. Inside polar day or night it returns
// errPolarSun rather than a fabricated time.
func sunTimesFor(day time.Time, lat, lon float64, loc *time.Location) (SunTimes, error) {
	sunrise, err := sunEventForDate(day, lat, lon, loc, true)
	if err != nil {
		return SunTimes{}, err
	}
	sunset, err := sunEventForDate(day, lat, lon, loc, false)
	if err != nil {
		return SunTimes{}, err
	}
	return SunTimes{
		Sunrise:   sunrise,
		Sunset:    sunset,
		DayLength: sunset.Sub(sunrise),
	}, nil
}

func sunEventForDate(day time.Time, lat, lon float64, loc *time.Location, rising bool) (time.Time, error) {
	n := float64(day.YearDay())
	lngHour := lon / 15.0

	var t float64
	if rising {
		t = n + (6.0-lngHour)/24.0
	} else {
		t = n + (18.0-lngHour)/24.0
	}

	m := 0.9856*t - 3.289
	l := normalizeDeg(m + 1.916*math.Sin(deg2rad(m)) + 0.020*math.Sin(2*deg2rad(m)) + 282.634)
	ra := normalizeDeg(rad2deg(math.Atan(0.91764 * math.Tan(deg2rad(l)))))
	lQuadrant := math.Floor(l/90.0) * 90.0
	raQuadrant := math.Floor(ra/90.0) * 90.0
	ra = (ra + (lQuadrant - raQuadrant)) / 15.0

	sinDec := 0.39782 * math.Sin(deg2rad(l))
	cosDec := math.Cos(math.Asin(sinDec))
	cosH := (math.Cos(deg2rad(90.833)) - sinDec*math.Sin(deg2rad(lat))) / (cosDec * math.Cos(deg2rad(lat)))
	if cosH > 1 || cosH < -1 {
		return time.Time{}, errPolarSun
	}

	var h float64
	if rising {
		h = (360.0 - rad2deg(math.Acos(cosH))) / 15.0
	} else {
		h = rad2deg(math.Acos(cosH)) / 15.0
	}

	localT := h + ra - 0.06571*t - 6.622
	ut := normalizeHour(localT - lngHour)
	utc := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(ut * float64(time.Hour)))
	return utc.In(loc), nil
}

// Reference new moon: 2000-01-06 18:14 UTC.
var moonEpoch = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

const synodicMonthDays = 29.530588861

// moonInfoAt derives the lunar phase from the days elapsed since a
// known new moon, modulo the synodic month.
func moonInfoAt(t time.Time) MoonInfo {
	days := t.Sub(moonEpoch).Hours() / 24.0
	age := math.Mod(days, synodicMonthDays)
	if age < 0 {
		age += synodicMonthDays
	}
	phase := age / synodicMonthDays
	illum := (1 - math.Cos(2*math.Pi*phase)) / 2
	return MoonInfo{
		AgeDays:      age,
		Phase:        phase,
		Illumination: illum,
		Name:         moonPhaseName(phase),
		Waxing:       phase < 0.5,
	}
}

func moonPhaseName(phase float64) string {
	switch {
	case phase < 0.0339 || phase >= 0.9661:
		return "New Moon"
	case phase < 0.2161:
		return "Waxing Crescent"
	case phase < 0.2839:
		return "First Quarter"
	case phase < 0.4661:
		return "Waxing Gibbous"
	case phase < 0.5339:
		return "Full Moon"
	case phase < 0.7161:
		return "Waning Gibbous"
	case phase < 0.7839:
		return "Last Quarter"
	default:
		return "Waning Crescent"
	}
}

func deg2rad(v float64) float64 { return v * math.Pi / 180.0 }
func rad2deg(v float64) float64 { return v * 180.0 / math.Pi }

func normalizeDeg(v float64) float64 {
	for v < 0 {
		v += 360
	}
	for v >= 360 {
		v -= 360
	}
	return v
}

func normalizeHour(v float64) float64 {
	for v < 0 {
		v += 24
	}
	for v >= 24 {
		v -= 24
	}
	return v
}
