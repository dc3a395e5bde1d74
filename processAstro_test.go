package main

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSunTimesMidLatitudeSummer(t *testing.T) {
	day := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	st, err := sunTimesFor(day, 37.77, -122.42, time.UTC)
	if err != nil {
		t.Fatalf("sunTimesFor: %v", err)
	}
	if !st.Sunrise.Before(st.Sunset) {
		t.Fatalf("sunrise %v not before sunset %v", st.Sunrise, st.Sunset)
	}
	// San Francisco solstice day runs close to 14h40m.
	if st.DayLength < 14*time.Hour || st.DayLength > 15*time.Hour {
		t.Errorf("solstice day length = %v, want ~14.7h", st.DayLength)
	}
}

func TestSunTimesEquatorNearTwelveHours(t *testing.T) {
	for _, month := range []time.Month{time.March, time.June, time.September, time.December} {
		day := time.Date(2026, month, 15, 0, 0, 0, 0, time.UTC)
		st, err := sunTimesFor(day, 0, 0, time.UTC)
		if err != nil {
			t.Fatalf("%v: %v", month, err)
		}
		off := st.DayLength - 12*time.Hour
		if off < 0 {
			off = -off
		}
		if off > 30*time.Minute {
			t.Errorf("%v: equator day length %v, want within 30m of 12h", month, st.DayLength)
		}
	}
}

func TestSunTimesPolarDay(t *testing.T) {
	day := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	_, err := sunTimesFor(day, 80, 0, time.UTC)
	if !errors.Is(err, errPolarSun) {
		t.Fatalf("midnight sun at 80N: err = %v, want errPolarSun", err)
	}
}

func TestMoonInfoAtEpochIsNew(t *testing.T) {
	info := moonInfoAt(moonEpoch)
	if info.Name != "New Moon" {
		t.Fatalf("name = %q, want New Moon", info.Name)
	}
	if info.Illumination > 0.01 {
		t.Errorf("illumination = %v, want ~0", info.Illumination)
	}
	if !info.Waxing {
		t.Error("a fresh new moon should be waxing")
	}
}

func TestMoonInfoHalfCycleIsFull(t *testing.T) {
	half := time.Duration(synodicMonthDays / 2 * 24 * float64(time.Hour))
	info := moonInfoAt(moonEpoch.Add(half))
	if info.Name != "Full Moon" {
		t.Fatalf("name = %q, want Full Moon", info.Name)
	}
	if info.Illumination < 0.99 {
		t.Errorf("illumination = %v, want ~1", info.Illumination)
	}
	if info.Waxing {
		t.Error("phase 0.5 should report waning")
	}
}

func TestMoonInfoQuarterIllumination(t *testing.T) {
	quarter := time.Duration(synodicMonthDays / 4 * 24 * float64(time.Hour))
	info := moonInfoAt(moonEpoch.Add(quarter))
	if math.Abs(info.Illumination-0.5) > 0.01 {
		t.Errorf("first quarter illumination = %v, want ~0.5", info.Illumination)
	}
	if info.Name != "First Quarter" {
		t.Errorf("name = %q, want First Quarter", info.Name)
	}
}

func TestMoonInfoBeforeEpoch(t *testing.T) {
	info := moonInfoAt(moonEpoch.Add(-time.Hour))
	if info.AgeDays < 0 || info.AgeDays >= synodicMonthDays {
		t.Fatalf("age %v out of [0,%v)", info.AgeDays, synodicMonthDays)
	}
}

func TestMoonPhaseNames(t *testing.T) {
	tests := []struct {
		phase float64
		want  string
	}{
		{0.00, "New Moon"},
		{0.98, "New Moon"},
		{0.12, "Waxing Crescent"},
		{0.25, "First Quarter"},
		{0.37, "Waxing Gibbous"},
		{0.50, "Full Moon"},
		{0.62, "Waning Gibbous"},
		{0.75, "Last Quarter"},
		{0.88, "Waning Crescent"},
	}
	for _, tt := range tests {
		if got := moonPhaseName(tt.phase); got != tt.want {
			t.Errorf("moonPhaseName(%v) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
