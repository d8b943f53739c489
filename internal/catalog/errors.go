package catalog

import "errors"

var (
	// ErrCategoryNotFound is returned when a category name is not in the dataset
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTechnologyNotFound is returned when a technology name is not in its category
	ErrTechnologyNotFound = errors.New("technology not found")
)

// IsNotFound reports whether err is one of the not-found errors
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) || errors.Is(err, ErrTechnologyNotFound)
}
