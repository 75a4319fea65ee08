package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Category classifies an activity.
type Category string

const (
	CategoryAttraction Category = "attraction"
	CategoryRestaurant Category = "restaurant"
	CategoryHotel      Category = "hotel"
	CategoryTransport  Category = "transport"
	CategoryOther      Category = "other"
)

// AppendOrder is the rank given to a freshly added activity so it sorts
// after every existing sibling. Ranks only become dense again when the day
// is reordered.
const AppendOrder = 999_999

// Activity is one itinerary entry, owned by exactly one Day.
// TripID and DayID are lookup back-references, not ownership.
type Activity struct {
	ID          string    `json:"id"`
	TripID      string    `json:"tripId"`
	DayID       string    `json:"dayId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Location    *Location `json:"location,omitempty"`
	StartTime   string    `json:"startTime,omitempty"`
	EndTime     string    `json:"endTime,omitempty"`
	Cost        *float64  `json:"cost,omitempty"`
	Order       int       `json:"order"`
}

// Location is a named, optionally geocoded place.
type Location struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// ActivityPatch holds optional activity changes. Nil fields are left untouched.
type ActivityPatch struct {
	Title       *string
	Description *string
	Category    *Category
	Location    *Location
	StartTime   *string
	EndTime     *string
	Cost        *float64
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAttraction, CategoryRestaurant, CategoryHotel, CategoryTransport, CategoryOther:
		return true
	}
	return false
}

// Validate enforces the activity business rules shared by add and update.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, a.Category)
	}
	for _, clock := range []string{a.StartTime, a.EndTime} {
		if clock != "" && !clockPattern.MatchString(clock) {
			return fmt.Errorf("%w: time %q must be HH:MM", ErrValidation, clock)
		}
	}
	if a.StartTime != "" && a.EndTime != "" && a.EndTime < a.StartTime {
		return fmt.Errorf("%w: end time must not be before start time", ErrValidation)
	}
	if a.Cost != nil && *a.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrValidation)
	}
	return nil
}

// Apply returns a copy of a with the non-nil patch fields applied.
func (p ActivityPatch) Apply(a Activity) Activity {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Location != nil {
		loc := *p.Location
		a.Location = &loc
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		a.EndTime = *p.EndTime
	}
	if p.Cost != nil {
		c := *p.Cost
		a.Cost = &c
	}
	return a
}
