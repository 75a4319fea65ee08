// Package domain contains the core data types for the trip planner.
// This package has no dependencies on other internal packages and is imported
// by every other layer (store, persist, repo, service, handler).
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Trip is the root aggregate. A trip exclusively owns its days, tasks,
// expenses, packing items and photos; nothing nested is shared across trips.
//
// Days always spans [StartDate, EndDate] inclusive, one entry per calendar
// date, sorted ascending.
type Trip struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Destination string       `json:"destination"`
	StartDate   time.Time    `json:"startDate"`
	EndDate     time.Time    `json:"endDate"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	CoverImage  string       `json:"coverImage,omitempty"`
	Budget      float64      `json:"budget"`
	Currency    string       `json:"currency"`

	Days        []Day         `json:"days"`
	Tasks       []Task        `json:"tasks"`
	Expenses    []Expense     `json:"expenses"`
	PackingList []PackingItem `json:"packingList"`
	Photos      []Photo       `json:"photos,omitempty"`

	Weather            []WeatherDay `json:"weather,omitempty"`
	WeatherLastUpdated *time.Time   `json:"weatherLastUpdated,omitempty"`

	// Members and OwnerID only exist for trips loaded from the remote store.
	Members   []Member  `json:"members,omitempty"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Day is one calendar date of a trip and its ordered activities.
type Day struct {
	ID         string     `json:"id"`
	Date       time.Time  `json:"date"`
	Activities []Activity `json:"activities"`
}

// Coordinates is a geocoded position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewTrip carries the caller-supplied fields of a trip about to be created.
type NewTrip struct {
	Name        string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	CoverImage  string
	Budget      float64
	Currency    string
}

// TripPatch holds optional header changes. Nil fields are left untouched.
// Dates are not patchable: the day list is derived once at creation.
type TripPatch struct {
	Name        *string
	Destination *string
	CoverImage  *string
	Budget      *float64
	Currency    *string
}

// DefaultCurrency is used when a trip is created without a currency code.
const DefaultCurrency = "USD"

// Date truncates t to a calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayCount returns the number of calendar dates in [start, end] inclusive,
// or 0 when end is before start.
func DayCount(start, end time.Time) int {
	s, e := Date(start), Date(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// BuildDays enumerates every calendar date from start to end inclusive and
// returns one empty Day per date with a fresh identifier.
func BuildDays(start, end time.Time) []Day {
	n := DayCount(start, end)
	days := make([]Day, 0, n)
	first := Date(start)
	for i := 0; i < n; i++ {
		days = append(days, Day{
			ID:         uuid.NewString(),
			Date:       first.AddDate(0, 0, i),
			Activities: []Activity{},
		})
	}
	return days
}

// Validate enforces the fields a trip cannot be created without.
func (n NewTrip) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(n.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if n.StartDate.IsZero() || n.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end date are required", ErrValidation)
	}
	if Date(n.EndDate).Before(Date(n.StartDate)) {
		return fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}
	if n.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}
	return nil
}

// Build materialises a Trip from n: fresh id, normalised dates, derived days
// and empty (non-nil) nested collections.
func (n NewTrip) Build(now time.Time) Trip {
	currency := n.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return Trip{
		ID:          uuid.NewString(),
		Name:        n.Name,
		Destination: n.Destination,
		StartDate:   Date(n.StartDate),
		EndDate:     Date(n.EndDate),
		CoverImage:  n.CoverImage,
		Budget:      n.Budget,
		Currency:    currency,
		Days:        BuildDays(n.StartDate, n.EndDate),
		Tasks:       []Task{},
		Expenses:    []Expense{},
		PackingList: []PackingItem{},
		CreatedAt:   now.UTC(),
	}
}

// Apply returns a copy of t with the non-nil patch fields applied.
func (p TripPatch) Apply(t Trip) (Trip, error) {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return t, fmt.Errorf("%w: name is required", ErrValidation)
		}
		t.Name = *p.Name
	}
	if p.Destination != nil {
		if strings.TrimSpace(*p.Destination) == "" {
			return t, fmt.Errorf("%w: destination is required", ErrValidation)
		}
		if *p.Destination != t.Destination {
			// cached coordinates and forecast belong to the old destination
			t.Coordinates = nil
			t.Weather = nil
			t.WeatherLastUpdated = nil
		}
		t.Destination = *p.Destination
	}
	if p.CoverImage != nil {
		t.CoverImage = *p.CoverImage
	}
	if p.Budget != nil {
		if *p.Budget < 0 {
			return t, fmt.Errorf("%w: budget must not be negative", ErrValidation)
		}
		t.Budget = *p.Budget
	}
	if p.Currency != nil && *p.Currency != "" {
		t.Currency = *p.Currency
	}
	return t, nil
}

// FindDay returns the index of the day with the given id, or -1.
func (t Trip) FindDay(dayID string) int {
	for i, d := range t.Days {
		if d.ID == dayID {
			return i
		}
	}
	return -1
}
