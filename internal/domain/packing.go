package domain

import (
	"fmt"
	"strings"
)

// PackingItem is one line of a trip's packing list. Category is free text;
// IsCustom separates user-added items from generated ones.
type PackingItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
	IsCustom bool   `json:"isCustom"`
}

// Validate enforces packing item business rules.
func (p PackingItem) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}
