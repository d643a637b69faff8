package domain

import (
	"fmt"
	"strings"
)

// Category is the accessory mid-category the dashboard breaks figures out by.
type Category string

// Recognized categories.
const (
	CategoryShoes Category = "shoes"
	CategoryHat   Category = "hat"
	CategoryBag   Category = "bag"
	CategoryOther Category = "other"
)

// Categories lists every recognized category in display order.
func Categories() []Category {
	return []Category{CategoryShoes, CategoryHat, CategoryBag, CategoryOther}
}

// ParseCategory normalizes and validates a category string.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether the category is one of the recognized set.
func (c Category) Valid() bool {
	switch c {
	case CategoryShoes, CategoryHat, CategoryBag, CategoryOther:
		return true
	}
	return false
}
