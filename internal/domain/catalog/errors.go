// internal/domain/catalog/errors.go
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateDiscount is returned when a discount is created for a book
	// that already has one.
	ErrDuplicateDiscount = errors.New("book already has an active discount")
	// ErrInvalidDateRange is returned when a discount's start date is after
	// its end date.
	ErrInvalidDateRange = errors.New("discount start date must not be after end date")
)

// BookNotFoundError indicates a referenced book does not exist.
type BookNotFoundError struct {
	BookID uint
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book %d not found", e.BookID)
}
