package domain

import "time"

// WeatherDay is one day of a cached forecast.
type WeatherDay struct {
	Date                     time.Time `json:"date"`
	TempMax                  float64   `json:"tempMax"`
	TempMin                  float64   `json:"tempMin"`
	PrecipitationProbability float64   `json:"precipitationProbability"`
	WeatherCode              int       `json:"weatherCode"`
}

// WeatherFreshness is how long a cached forecast is served without refetching.
const WeatherFreshness = 4 * time.Hour

// WeatherIsFresh reports whether t carries a forecast younger than maxAge at now.
func WeatherIsFresh(t Trip, now time.Time, maxAge time.Duration) bool {
	if len(t.Weather) == 0 || t.WeatherLastUpdated == nil {
		return false
	}
	return now.Sub(*t.WeatherLastUpdated) < maxAge
}
