package service

import (
	"fmt"

	"github.com/event-checkin-api/internal/models"
)

// NoMatchError means an identifier resolved to zero roster rows.
// The roster is left untouched when this is returned.
type NoMatchError struct {
	Identifier string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("No matching row found for id '%s'", e.Identifier)
}

// UnknownCategoryError means a requested category is not a known
// attendance column.
type UnknownCategoryError struct {
	Category models.Category
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown attendance category '%s'", e.Category)
}
