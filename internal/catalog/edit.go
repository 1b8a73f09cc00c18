package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/product"
)

// ProductUpdater replaces existing products.
type ProductUpdater interface {
	Update(ctx context.Context, id string, p product.Product) (string, error)
}

// EditDeps are the collaborators of an EditWorkflow.
type EditDeps struct {
	Products  ProductUpdater
	Selection *Selection
	Sanitizer URLSanitizer
	Navigator Navigator
	Logger    zerolog.Logger
	Today     func() product.Date
}

// EditWorkflow drives the edit form for the selected product. The id field
// is read-only and is not checked for uniqueness.
type EditWorkflow struct {
	mu   sync.Mutex
	form *form
	busy bool
	id   string

	products  ProductUpdater
	selection *Selection
	sanitizer URLSanitizer
	nav       Navigator
	log       zerolog.Logger
}

// NewEditWorkflow returns an empty edit form. Call Init before use.
func NewEditWorkflow(deps EditDeps) *EditWorkflow {
	return &EditWorkflow{
		form:      newForm(NewSchema(nil, deps.Sanitizer), deps.Today, FieldID),
		products:  deps.Products,
		selection: deps.Selection,
		sanitizer: deps.Sanitizer,
		nav:       deps.Navigator,
		log:       deps.Logger.With().Str("component", "catalog").Str("form", "edit").Logger(),
	}
}

// Init loads the selected product into the form without recomputing the
// review date. With nothing selected it navigates to the list and returns
// ErrNoSelection. It returns ErrSubmitInProgress while a submit is running.
func (w *EditWorkflow) Init() error {
	p, ok := w.selection.Get()
	if !ok {
		w.nav.Navigate(RouteList)
		return ErrNoSelection
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return ErrSubmitInProgress
	}
	w.form.reset()
	w.form.patch(p)
	w.id = p.ID
	return nil
}

// ID returns the id of the product being edited.
func (w *EditWorkflow) ID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.id
}

// Set writes a field value. The id and review date are rejected with
// ErrFieldDisabled.
func (w *EditWorkflow) Set(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.set(field, value)
}

// State returns a snapshot of the form.
func (w *EditWorkflow) State() FormState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.snapshot()
}

// Submit validates the form and updates the product keyed by its id. Errors
// are returned to the caller; on success the user is sent back to the list
// and the server message is returned.
func (w *EditWorkflow) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.id == "" {
		w.mu.Unlock()
		return "", ErrNoSelection
	}
	if w.busy {
		w.mu.Unlock()
		return "", ErrSubmitInProgress
	}
	id := w.id
	values := w.form.begin()
	w.busy = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.form.finish()
		w.busy = false
		w.mu.Unlock()
	}()

	verr := w.form.schema.Validate(ctx, values, w.form.skip)

	w.mu.Lock()
	w.form.errs = verr
	w.mu.Unlock()
	if verr != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalid, verr)
	}

	values[FieldID] = id
	p, err := payload(values, w.sanitizer)
	if err != nil {
		return "", err
	}

	ctx = logging.WithProductID(logging.WithWorkflow(ctx, "edit"), id)
	msg, err := w.products.Update(ctx, id, p)
	if err != nil {
		w.log.Error().Ctx(ctx).Err(err).Msg("update product failed")
		return "", err
	}

	w.nav.Navigate(RouteList)
	return msg, nil
}

// Cancel leaves the form.
func (w *EditWorkflow) Cancel() {
	w.nav.Navigate(RouteList)
}
