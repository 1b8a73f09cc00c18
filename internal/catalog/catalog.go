// Package catalog holds the product workflows shared by the terminal UI and
// the CLI: the cached product service, the create and edit forms, and the
// list view with its delete confirmation.
package catalog

import (
	"errors"
	"sync"

	"github.com/colonyops/catalog/internal/core/product"
)

var (
	// ErrInvalid wraps the field errors of a form that failed validation.
	ErrInvalid = errors.New("form is invalid")
	// ErrSubmitInProgress is returned when a submit or delete overlaps one
	// that has not finished.
	ErrSubmitInProgress = errors.New("submit already in progress")
	// ErrNoSelection is returned when an operation needs a selected product
	// and none is set.
	ErrNoSelection = errors.New("no product selected")
	// ErrNotFound is returned when a product id is not in the collection.
	ErrNotFound = errors.New("product not found")
	// ErrFieldDisabled is returned when writing to a disabled form field.
	ErrFieldDisabled = errors.New("field is disabled")
	// ErrUnknownField is returned for field names outside the form.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnsafeURL is returned when the logo does not survive sanitizing.
	ErrUnsafeURL = errors.New("logo URL rejected by sanitizer")
)

// Route is a screen the workflows can navigate to.
type Route string

const (
	RouteList   Route = "list"
	RouteCreate Route = "create"
	RouteEdit   Route = "edit"
)

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

// Selection is the single-slot store for the product the user acted on last.
// Writes replace the previous value.
type Selection struct {
	mu      sync.RWMutex
	product product.Product
	set     bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Set stores p as the selected product.
func (s *Selection) Set(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.product = p
	s.set = true
}

// Get returns the selected product, if any.
func (s *Selection) Get() (product.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.product, s.set
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.product = product.Product{}
	s.set = false
}
