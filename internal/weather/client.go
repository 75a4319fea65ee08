// Package weather talks to Open-Meteo compatible forecast and geocoding APIs.
// Soft misses (unknown place, nothing to forecast) are empty results, not errors.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// HorizonDays is how far ahead, today included, the forecast API answers.
const HorizonDays = 16

const dateLayout = "2006-01-02"

// Client calls the forecast and geocoding endpoints.
type Client struct {
	http        *http.Client
	forecastURL string
	geocodeURL  string
	now         func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (15s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock sets the clock the forecast horizon is measured from.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient constructs a Client. forecastBase and geocodeBase are scheme+host
// roots such as "https://api.open-meteo.com".
func NewClient(forecastBase, geocodeBase string, opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 15 * time.Second},
		forecastURL: strings.TrimRight(forecastBase, "/") + "/v1/forecast",
		geocodeURL:  strings.TrimRight(geocodeBase, "/") + "/v1/search",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type forecastResponse struct {
	Daily struct {
		Time                        []string   `json:"time"`
		TemperatureMax              []float64  `json:"temperature_2m_max"`
		TemperatureMin              []float64  `json:"temperature_2m_min"`
		PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
		WeatherCode                 []int      `json:"weather_code"`
	} `json:"daily"`
}

// Forecast returns one WeatherDay per date of [start, end] that falls inside
// the forecast horizon. A range entirely outside the horizon returns an empty
// slice without calling the API.
func (c *Client) Forecast(ctx context.Context, at domain.Coordinates, start, end time.Time) ([]domain.WeatherDay, error) {
	today := domain.Date(c.now())
	last := today.AddDate(0, 0, HorizonDays-1)
	from, to := domain.Date(start), domain.Date(end)
	if from.Before(today) {
		from = today
	}
	if to.After(last) {
		to = last
	}
	if to.Before(from) {
		return []domain.WeatherDay{}, nil
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(at.Lng, 'f', 4, 64))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,weather_code")
	q.Set("timezone", "auto")
	q.Set("start_date", from.Format(dateLayout))
	q.Set("end_date", to.Format(dateLayout))

	var body forecastResponse
	if err := c.getJSON(ctx, c.forecastURL+"?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("weather.Client.Forecast: %w", err)
	}

	d := body.Daily
	days := make([]domain.WeatherDay, 0, len(d.Time))
	for i, raw := range d.Time {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("weather.Client.Forecast: date %q: %w", raw, err)
		}
		day := domain.WeatherDay{Date: date}
		if i < len(d.TemperatureMax) {
			day.TempMax = d.TemperatureMax[i]
		}
		if i < len(d.TemperatureMin) {
			day.TempMin = d.TemperatureMin[i]
		}
		if i < len(d.PrecipitationProbabilityMax) && d.PrecipitationProbabilityMax[i] != nil {
			day.PrecipitationProbability = *d.PrecipitationProbabilityMax[i]
		}
		if i < len(d.WeatherCode) {
			day.WeatherCode = d.WeatherCode[i]
		}
		days = append(days, day)
	}
	return days, nil
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

// Geocode resolves a free-text destination. It queries the full string first
// and then ever shorter prefixes, dropping the last comma-separated segment
// each time ("Shibuya, Tokyo, Japan" → "Shibuya, Tokyo" → "Shibuya").
// Returns nil when no prefix matches.
func (c *Client) Geocode(ctx context.Context, destination string) (*domain.Coordinates, error) {
	for _, name := range Prefixes(destination) {
		at, err := c.search(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("weather.Client.Geocode: %w", err)
		}
		if at != nil {
			return at, nil
		}
	}
	return nil, nil
}

func (c *Client) search(ctx context.Context, name string) (*domain.Coordinates, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var body geocodeResponse
	if err := c.getJSON(ctx, c.geocodeURL+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	if len(body.Results) == 0 {
		return nil, nil
	}
	return &domain.Coordinates{Lat: body.Results[0].Latitude, Lng: body.Results[0].Longitude}, nil
}

// Prefixes lists the lookup candidates for a destination, longest first.
// Empty segments are skipped.
func Prefixes(destination string) []string {
	var parts []string
	for _, p := range strings.Split(destination, ",") {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	out := make([]string, 0, len(parts))
	for n := len(parts); n > 0; n-- {
		out = append(out, strings.Join(parts[:n], ", "))
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
