package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WeatherCurrent holds the latest observed conditions.
type WeatherCurrent struct {
	TempC    float64
	WindKmh  float64
	Code     int
	Daytime  bool
	Observed time.Time
}

// ForecastDay is one day's aggregate of the hourly forecast.
type ForecastDay struct {
	Date    string
	MinC    float64
	MaxC    float64
	Samples int
}

// WeatherBundle is the unit the weather cache slot stores. Current
// conditions and the forecast come from two dependent calls but are
// committed to the cache together or not at all.
type WeatherBundle struct {
	Current WeatherCurrent
	Days    []ForecastDay
}

type weatherClient struct {
	baseURL string
	lat     float64
	lon     float64
	client  *http.Client
}

func newWeatherClient(baseURL string, lat, lon float64) *weatherClient {
	return &weatherClient{
		baseURL: baseURL,
		lat:     lat,
		lon:     lon,
		client:  &http.Client{Timeout: PROVIDER_HTTP_TIMEOUT},
	}
}

// FetchBundle performs the two-step weather fetch: current conditions
// first, then the hourly forecast. Either step failing fails the whole
// bundle, which keeps the cache's previous entry intact.
func (w *weatherClient) FetchBundle() (WeatherBundle, error) {
	current, err := w.fetchCurrent()
	if err != nil {
		return WeatherBundle{}, fmt.Errorf("current conditions: %w", err)
	}
	days, err := w.fetchForecast()
	if err != nil {
		return WeatherBundle{}, fmt.Errorf("forecast: %w", err)
	}
	return WeatherBundle{Current: current, Days: days}, nil
}

func (w *weatherClient) fetchCurrent() (WeatherCurrent, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", w.lat))
	q.Set("longitude", fmt.Sprintf("%.4f", w.lon))
	q.Set("current_weather", "true")

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			Windspeed   float64 `json:"windspeed"`
			Weathercode int     `json:"weathercode"`
			IsDay       int     `json:"is_day"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}
	if err := w.getJSON("/v1/forecast", q, &payload); err != nil {
		return WeatherCurrent{}, err
	}

	observed, _ := time.Parse("2006-01-02T15:04", payload.CurrentWeather.Time)
	return WeatherCurrent{
		TempC:    payload.CurrentWeather.Temperature,
		WindKmh:  payload.CurrentWeather.Windspeed,
		Code:     payload.CurrentWeather.Weathercode,
		Daytime:  payload.CurrentWeather.IsDay == 1,
		Observed: observed,
	}, nil
}

func (w *weatherClient) fetchForecast() ([]ForecastDay, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", w.lat))
	q.Set("longitude", fmt.Sprintf("%.4f", w.lon))
	q.Set("hourly", "temperature_2m")
	q.Set("forecast_days", fmt.Sprintf("%d", FORECAST_DAYS))

	// Temperatures decode as interface{} so a null or junk entry in
	// the array spoils only itself, not the whole response.
	var payload struct {
		Hourly struct {
			Time        []string      `json:"time"`
			Temperature []interface{} `json:"temperature_2m"`
		} `json:"hourly"`
	}
	if err := w.getJSON("/v1/forecast", q, &payload); err != nil {
		return nil, err
	}
	days := aggregateHourly(payload.Hourly.Time, payload.Hourly.Temperature)
	if len(days) == 0 {
		return nil, fmt.Errorf("no usable hourly records")
	}
	return days, nil
}

func (w *weatherClient) getJSON(path string, q url.Values, out interface{}) error {
	resp, err := w.client.Get(w.baseURL + path + "?" + q.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// aggregateHourly groups hourly samples into per-day min/max rows. A
// malformed sample (unparseable time, non-numeric temperature) is
// skipped without discarding the rest of its day; a day whose samples
// are all malformed is dropped while the other days survive.
func aggregateHourly(times []string, temps []interface{}) []ForecastDay {
	n := len(times)
	if len(temps) < n {
		n = len(temps)
	}

	var days []ForecastDay
	byDate := make(map[string]int)

	for i := 0; i < n; i++ {
		if len(times[i]) < 10 {
			continue
		}
		date := times[i][:10]
		if _, err := time.Parse("2006-01-02", date); err != nil {
			continue
		}
		temp, ok := temps[i].(float64)
		if !ok {
			continue
		}

		idx, seen := byDate[date]
		if !seen {
			days = append(days, ForecastDay{Date: date, MinC: temp, MaxC: temp, Samples: 1})
			byDate[date] = len(days) - 1
			continue
		}

		d := &days[idx]
		if temp < d.MinC {
			d.MinC = temp
		}
		if temp > d.MaxC {
			d.MaxC = temp
		}
		d.Samples++
	}

	return days
}

// weatherDescription maps WMO weather codes to short display strings.
func weatherDescription(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
