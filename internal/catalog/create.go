package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/product"
	"github.com/colonyops/catalog/internal/core/validate"
)

// ProductCreator stores new products.
type ProductCreator interface {
	Create(ctx context.Context, p product.Product) (product.Product, error)
}

// CreateDeps are the collaborators of a CreateWorkflow.
type CreateDeps struct {
	Products  ProductCreator
	Unique    validate.AsyncRule // nil disables the uniqueness check
	Sanitizer URLSanitizer
	Notifier  Notifier
	Navigator Navigator
	Logger    zerolog.Logger
	Today     func() product.Date
}

// CreateWorkflow drives the new-product form.
type CreateWorkflow struct {
	mu   sync.Mutex
	form *form
	busy bool

	products  ProductCreator
	sanitizer URLSanitizer
	notifier  Notifier
	nav       Navigator
	log       zerolog.Logger
}

// NewCreateWorkflow returns a form populated with the default dates.
func NewCreateWorkflow(deps CreateDeps) *CreateWorkflow {
	return &CreateWorkflow{
		form:      newForm(NewSchema(deps.Unique, deps.Sanitizer), deps.Today),
		products:  deps.Products,
		sanitizer: deps.Sanitizer,
		notifier:  deps.Notifier,
		nav:       deps.Navigator,
		log:       deps.Logger.With().Str("component", "catalog").Str("form", "create").Logger(),
	}
}

// Set writes a field value. Setting the release date recomputes the review
// date.
func (w *CreateWorkflow) Set(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.set(field, value)
}

// State returns a snapshot of the form.
func (w *CreateWorkflow) State() FormState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.snapshot()
}

// Submit validates the form and creates the product. Invalid forms return
// an error wrapping ErrInvalid and never reach the backend. Backend failures
// are published as error notifications and returned. On success the user is
// sent back to the list.
func (w *CreateWorkflow) Submit(ctx context.Context) (product.Product, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return product.Product{}, ErrSubmitInProgress
	}
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
		return product.Product{}, fmt.Errorf("%w: %w", ErrInvalid, verr)
	}

	p, err := payload(values, w.sanitizer)
	if err != nil {
		return product.Product{}, err
	}

	ctx = logging.WithProductID(logging.WithWorkflow(ctx, "create"), p.ID)
	created, err := w.products.Create(ctx, p)
	if err != nil {
		w.log.Error().Ctx(ctx).Err(err).Msg("create product failed")
		w.notifier.Error(UserMessage(err))
		return product.Product{}, err
	}

	w.nav.Navigate(RouteList)
	return created, nil
}

// Reset clears the form and restores the default dates. It does nothing
// while a submit is running.
func (w *CreateWorkflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return
	}
	w.form.reset()
}

// Cancel leaves the form without clearing it.
func (w *CreateWorkflow) Cancel() {
	w.nav.Navigate(RouteList)
}
