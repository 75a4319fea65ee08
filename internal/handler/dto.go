package handler

import (
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Request bodies. Calendar dates travel as "YYYY-MM-DD" via openapi_types.Date.

type createTripRequest struct {
	Name        string             `json:"name"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	CoverImage  string             `json:"coverImage,omitempty"`
	Budget      float64            `json:"budget,omitempty"`
	Currency    string             `json:"currency,omitempty"`
}

func (r createTripRequest) toDomain() domain.NewTrip {
	return domain.NewTrip{
		Name:        r.Name,
		Destination: r.Destination,
		StartDate:   r.StartDate.Time,
		EndDate:     r.EndDate.Time,
		CoverImage:  r.CoverImage,
		Budget:      r.Budget,
		Currency:    r.Currency,
	}
}

type updateTripRequest struct {
	Name        *string  `json:"name,omitempty"`
	Destination *string  `json:"destination,omitempty"`
	CoverImage  *string  `json:"coverImage,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
}

func (r updateTripRequest) toDomain() domain.TripPatch {
	return domain.TripPatch(r)
}

type createdResponse struct {
	ID string `json:"id"`
}

type activeTripRequest struct {
	TripID string `json:"tripId"`
}

type activityRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Category    domain.Category  `json:"category,omitempty"`
	Location    *domain.Location `json:"location,omitempty"`
	StartTime   string           `json:"startTime,omitempty"`
	EndTime     string           `json:"endTime,omitempty"`
	Cost        *float64         `json:"cost,omitempty"`
}

func (r activityRequest) toDomain() domain.Activity {
	return domain.Activity{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Cost:        r.Cost,
	}
}

type activityPatchRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *domain.Category `json:"category,omitempty"`
	Location    *domain.Location `json:"location,omitempty"`
	StartTime   *string          `json:"startTime,omitempty"`
	EndTime     *string          `json:"endTime,omitempty"`
	Cost        *float64         `json:"cost,omitempty"`
}

func (r activityPatchRequest) toDomain() domain.ActivityPatch {
	return domain.ActivityPatch(r)
}

type reorderRequest struct {
	ActivityIDs []string `json:"activityIds"`
}

type taskRequest struct {
	Title    string              `json:"title"`
	Status   domain.TaskStatus   `json:"status,omitempty"`
	Priority domain.Priority     `json:"priority,omitempty"`
	DueDate  *openapi_types.Date `json:"dueDate,omitempty"`
}

func (r taskRequest) toDomain() domain.Task {
	return domain.Task{
		Title:    r.Title,
		Status:   r.Status,
		Priority: r.Priority,
		DueDate:  datePtr(r.DueDate),
	}
}

type taskPatchRequest struct {
	Title    *string             `json:"title,omitempty"`
	Status   *domain.TaskStatus  `json:"status,omitempty"`
	Priority *domain.Priority    `json:"priority,omitempty"`
	DueDate  *openapi_types.Date `json:"dueDate,omitempty"`
	ClearDue bool                `json:"clearDueDate,omitempty"`
}

func (r taskPatchRequest) toDomain() domain.TaskPatch {
	return domain.TaskPatch{
		Title:    r.Title,
		Status:   r.Status,
		Priority: r.Priority,
		DueDate:  datePtr(r.DueDate),
		ClearDue: r.ClearDue,
	}
}

type subtaskRequest struct {
	Title string `json:"title"`
}

type budgetRequest struct {
	Budget   float64 `json:"budget"`
	Currency string  `json:"currency,omitempty"`
}

type expenseRequest struct {
	Category    domain.ExpenseCategory `json:"category"`
	Amount      float64                `json:"amount"`
	Description string                 `json:"description,omitempty"`
	Date        *openapi_types.Date    `json:"date,omitempty"`
}

func (r expenseRequest) toDomain() domain.Expense {
	e := domain.Expense{Category: r.Category, Amount: r.Amount, Description: r.Description}
	if d := datePtr(r.Date); d != nil {
		e.Date = *d
	}
	return e
}

type expensePatchRequest struct {
	Category    *domain.ExpenseCategory `json:"category,omitempty"`
	Amount      *float64                `json:"amount,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Date        *openapi_types.Date     `json:"date,omitempty"`
}

func (r expensePatchRequest) toDomain() domain.ExpensePatch {
	return domain.ExpensePatch{
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
		Date:        datePtr(r.Date),
	}
}

type packingItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type photoPatchRequest struct {
	Description *string `json:"description,omitempty"`
	DayID       *string `json:"dayId,omitempty"`
	ActivityID  *string `json:"activityId,omitempty"`
}

type inviteRequest struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type roleRequest struct {
	Role domain.Role `json:"role"`
}

type signInRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Authenticated bool    `json:"authenticated"`
	Loading       bool    `json:"loading"`
	UserID        *string `json:"userId,omitempty"`
	Email         *string `json:"email,omitempty"`
}

type weatherResponse struct {
	Status string       `json:"status"`
	Trip   *domain.Trip `json:"trip,omitempty"`
}

func datePtr(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// parseTime reads an optional RFC 3339 form value.
func parseTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an RFC 3339 timestamp", domain.ErrValidation, v)
	}
	return &t, nil
}
