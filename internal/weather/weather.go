// Package weather fetches 5-day/3-hour forecasts from OpenWeatherMap and
// condenses them into per-day summaries with agronomic alerts.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Sentinel errors surfaced before or during a forecast fetch. Callers show
// these to the farmer instead of a raw HTTP failure.
var (
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrCoordinatesNotSet  = errors.New("farm location not set")
	ErrMissingAPIKey      = errors.New("weather API key not configured")
	ErrUnauthorized       = errors.New("weather API key rejected")
	ErrLocationNotFound   = errors.New("location not found by weather service")
	ErrRateLimited        = errors.New("weather service rate limit exceeded")
	ErrEmptySummary       = errors.New("no usable forecast data returned")
)

const maxSummaryDays = 5

// Forecast is the condensed multi-day outlook for one location.
type Forecast struct {
	Location string
	Days     []string
}

// Client fetches forecasts from the OpenWeatherMap 5-day/3-hour endpoint.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient creates a forecast client. Timeout bounds the whole HTTP
// exchange; an empty API key is allowed and surfaces per request.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
		logger:     logger.With("component", "weather"),
		now:        time.Now,
	}
}

// forecastResponse mirrors the slice of the OpenWeatherMap payload we use.
type forecastResponse struct {
	List []forecastEntry `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

type forecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     *float64 `json:"temp"`
		TempMin  *float64 `json:"temp_min"`
		TempMax  *float64 `json:"temp_max"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Rain struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Forecast fetches and aggregates the 5-day outlook for the given
// coordinates. The (0,0) origin is treated as "location not set" and, like
// a missing API key, fails before any network traffic.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, ErrInvalidCoordinates
	}
	if lat == 0 && lon == 0 {
		return nil, ErrCoordinatesNotSet
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("cnt", "40")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}

	c.logger.DebugContext(ctx, "Fetching forecast", "lat", lat, "lon", lon)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrLocationNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	location := payload.City.Name
	if location == "" {
		location = fmt.Sprintf("Lat:%.2f,Lon:%.2f", lat, lon)
	}

	days := summarize(payload.List, c.now())
	if len(days) == 0 {
		return nil, ErrEmptySummary
	}

	return &Forecast{Location: location, Days: days}, nil
}

// dayAggregate accumulates the 3-hour points falling on one calendar day.
type dayAggregate struct {
	date       time.Time
	minTemp    float64
	maxTemp    float64
	conditions map[string]struct{}
	rainTotal  float64
	alerts     map[string]struct{}
}

// summarize folds the 3-hour entries into at most five ascending day lines,
// skipping days already past. Day boundaries follow the clock of the
// reference time, so points group by the farmer's calendar rather than UTC.
// Entries missing a temperature range or a condition description are
// dropped; missing rain and wind default to zero.
func summarize(entries []forecastEntry, now time.Time) []string {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	byDay := make(map[string]*dayAggregate)
	for _, e := range entries {
		if e.Main.TempMin == nil || e.Main.TempMax == nil || len(e.Weather) == 0 || e.Weather[0].Description == "" {
			continue
		}

		t := time.Unix(e.Dt, 0).In(loc)
		key := t.Format("2006-01-02")

		agg, ok := byDay[key]
		if !ok {
			agg = &dayAggregate{
				date:       time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc),
				minTemp:    *e.Main.TempMin,
				maxTemp:    *e.Main.TempMax,
				conditions: make(map[string]struct{}),
				alerts:     make(map[string]struct{}),
			}
			byDay[key] = agg
		}

		if *e.Main.TempMin < agg.minTemp {
			agg.minTemp = *e.Main.TempMin
		}
		if *e.Main.TempMax > agg.maxTemp {
			agg.maxTemp = *e.Main.TempMax
		}
		agg.conditions[capitalize(e.Weather[0].Description)] = struct{}{}
		agg.rainTotal += e.Rain.ThreeHour

		for _, alert := range pointAlerts(e) {
			agg.alerts[alert] = struct{}{}
		}
	}

	aggs := make([]*dayAggregate, 0, len(byDay))
	for _, agg := range byDay {
		if agg.date.Before(today) {
			continue
		}
		aggs = append(aggs, agg)
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].date.Before(aggs[j].date) })

	if len(aggs) > maxSummaryDays {
		aggs = aggs[:maxSummaryDays]
	}

	lines := make([]string, 0, len(aggs))
	for _, agg := range aggs {
		lines = append(lines, agg.format(today))
	}
	return lines
}

// pointAlerts evaluates the alert thresholds for one 3-hour point. Wind
// speed arrives in m/s and is reported in km/h.
func pointAlerts(e forecastEntry) []string {
	var alerts []string

	if e.Rain.ThreeHour > 7 {
		alerts = append(alerts, fmt.Sprintf("Heavy rain (%.1fmm/3hr)", e.Rain.ThreeHour))
	} else if e.Rain.ThreeHour > 2 {
		alerts = append(alerts, fmt.Sprintf("Moderate rain (%.1fmm/3hr)", e.Rain.ThreeHour))
	}

	if e.Main.Temp != nil {
		temp := *e.Main.Temp
		switch {
		case temp > 40:
			alerts = append(alerts, fmt.Sprintf("Very High Temp (%.0f°C)", temp))
		case temp > 37:
			alerts = append(alerts, fmt.Sprintf("High Temp (%.0f°C)", temp))
		case temp < 8:
			alerts = append(alerts, fmt.Sprintf("Low Temp (%.0f°C)", temp))
		}
	}

	windKmh := e.Wind.Speed * 3.6
	if e.Wind.Speed > 17 {
		alerts = append(alerts, fmt.Sprintf("Very Strong Wind (%.0f km/h)", windKmh))
	} else if e.Wind.Speed > 12 {
		alerts = append(alerts, fmt.Sprintf("Strong Wind (%.0f km/h)", windKmh))
	}

	return alerts
}

func (a *dayAggregate) format(today time.Time) string {
	label := a.date.Format("Mon")
	switch {
	case a.date.Equal(today):
		label = "Today"
	case a.date.Equal(today.AddDate(0, 0, 1)):
		label = "Tomorrow"
	}

	line := fmt.Sprintf("%s (%s): Temp %.0f°C / %.0f°C, %s",
		label, a.date.Format("02 Jan"), a.minTemp, a.maxTemp, describeConditions(a.conditions))

	if a.rainTotal > 0.1 {
		line += fmt.Sprintf(" Rain: %.1fmm", a.rainTotal)
	}

	if len(a.alerts) > 0 {
		alerts := make([]string, 0, len(a.alerts))
		for alert := range a.alerts {
			alerts = append(alerts, alert)
		}
		sort.Strings(alerts)
		line += fmt.Sprintf(". Alerts: %s", strings.Join(alerts, ", "))
	}

	return line
}

// describeConditions joins the deduplicated condition set: "Light rain" is
// dropped when plain "Rain" is present, and "Few clouds" is dropped when a
// heavier cloud condition is present.
func describeConditions(conditions map[string]struct{}) string {
	_, hasRain := conditions["Rain"]
	_, hasScattered := conditions["Scattered clouds"]
	_, hasBroken := conditions["Broken clouds"]
	_, hasOvercast := conditions["Overcast clouds"]

	names := make([]string, 0, len(conditions))
	for name := range conditions {
		if name == "Light rain" && hasRain {
			continue
		}
		if name == "Few clouds" && (hasScattered || hasBroken || hasOvercast) {
			continue
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return "Conditions unclear"
	}

	sort.Strings(names)
	return strings.Join(names, ", ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
