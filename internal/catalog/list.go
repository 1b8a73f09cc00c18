package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/product"
)

// DefaultPageSizes are the page sizes offered by the list.
var DefaultPageSizes = []int{5, 10, 20}

// DefaultPageSize is the initial page size.
const DefaultPageSize = 10

// ErrInvalidPageSize is returned for page sizes below one.
var ErrInvalidPageSize = errors.New("page size must be positive")

// ProductSource loads and deletes products for the list.
type ProductSource interface {
	Products(ctx context.Context) ([]product.Product, error)
	Delete(ctx context.Context, id string) (string, error)
}

// ListDeps are the collaborators of a ListWorkflow.
type ListDeps struct {
	Products        ProductSource
	Selection       *Selection
	Navigator       Navigator
	Logger          zerolog.Logger
	PageSizes       []int
	DefaultPageSize int
}

// ListView is a snapshot of the list for rendering.
type ListView struct {
	Items        []product.Product
	Query        string
	Page         int
	PageSize     int
	TotalPages   int
	TotalRecords int
	PromptOpen   bool
	Deleting     bool
	Selected     *product.Product
}

// ListWorkflow filters and paginates the product collection and runs the
// delete confirmation.
type ListWorkflow struct {
	mu         sync.Mutex
	items      []product.Product
	query      string
	pageSize   int
	pageSizes  []int
	page       int
	promptOpen bool
	deleting   bool

	products  ProductSource
	selection *Selection
	nav       Navigator
	log       zerolog.Logger
}

// NewListWorkflow returns an empty list on page one.
func NewListWorkflow(deps ListDeps) *ListWorkflow {
	sizes := deps.PageSizes
	if len(sizes) == 0 {
		sizes = DefaultPageSizes
	}
	size := deps.DefaultPageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	return &ListWorkflow{
		pageSize:  size,
		pageSizes: slices.Clone(sizes),
		page:      1,
		products:  deps.Products,
		selection: deps.Selection,
		nav:       deps.Navigator,
		log:       deps.Logger.With().Str("component", "catalog").Str("view", "list").Logger(),
	}
}

// Load refreshes the collection from the product source. The current page is
// pulled back when the collection shrank below it.
func (w *ListWorkflow) Load(ctx context.Context) error {
	items, err := w.products.Products(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = items
	if total := w.totalPagesLocked(); w.page > total {
		w.page = max(total, 1)
	}
	return nil
}

// SetItems replaces the collection without fetching.
func (w *ListWorkflow) SetItems(items []product.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = slices.Clone(items)
}

// SetQuery changes the filter and returns to page one.
func (w *ListWorkflow) SetQuery(q string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.query = q
	w.page = 1
}

// Query returns the current filter text.
func (w *ListWorkflow) Query() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

// PageSizes returns the selectable page sizes.
func (w *ListWorkflow) PageSizes() []int {
	return slices.Clone(w.pageSizes)
}

// SetPageSize changes the page size and returns to page one.
func (w *ListWorkflow) SetPageSize(n int) error {
	if n < 1 {
		return ErrInvalidPageSize
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pageSize = n
	w.page = 1
	return nil
}

// CyclePageSize advances to the next configured page size.
func (w *ListWorkflow) CyclePageSize() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	idx := slices.Index(w.pageSizes, w.pageSize)
	w.pageSize = w.pageSizes[(idx+1)%len(w.pageSizes)]
	w.page = 1
	return w.pageSize
}

// NextPage moves forward unless already on the last page.
func (w *ListWorkflow) NextPage() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.page < w.totalPagesLocked() {
		w.page++
	}
}

// PrevPage moves back unless already on the first page.
func (w *ListWorkflow) PrevPage() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.page > 1 {
		w.page--
	}
}

// GoToPage jumps to page n. Out-of-range pages are ignored and reported as
// false.
func (w *ListWorkflow) GoToPage(n int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n < 1 || n > w.totalPagesLocked() {
		return false
	}
	w.page = n
	return true
}

// View returns the derived list state.
func (w *ListWorkflow) View() ListView {
	w.mu.Lock()
	defer w.mu.Unlock()

	filtered := w.filteredLocked()
	start := min((w.page-1)*w.pageSize, len(filtered))
	end := min(start+w.pageSize, len(filtered))

	v := ListView{
		Items:        slices.Clone(filtered[start:end]),
		Query:        w.query,
		Page:         w.page,
		PageSize:     w.pageSize,
		TotalPages:   pageCount(len(filtered), w.pageSize),
		TotalRecords: len(filtered),
		PromptOpen:   w.promptOpen,
		Deleting:     w.deleting,
	}
	if p, ok := w.selection.Get(); ok {
		v.Selected = &p
	}
	return v
}

// Edit selects p and opens the edit form.
func (w *ListWorkflow) Edit(p product.Product) {
	w.selection.Set(p)
	w.nav.Navigate(RouteEdit)
}

// Create opens the new-product form.
func (w *ListWorkflow) Create() {
	w.nav.Navigate(RouteCreate)
}

// RequestDelete selects p and opens the confirmation prompt.
func (w *ListWorkflow) RequestDelete(p product.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection.Set(p)
	w.promptOpen = true
}

// ConfirmDelete deletes the selected product. Calls made while a delete is
// pending return ErrSubmitInProgress without touching the backend. On
// success the selection is cleared and the prompt closed; on failure both
// are kept so the user can retry or cancel.
func (w *ListWorkflow) ConfirmDelete(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.deleting {
		w.mu.Unlock()
		return "", ErrSubmitInProgress
	}
	p, ok := w.selection.Get()
	if !ok {
		w.mu.Unlock()
		return "", ErrNoSelection
	}
	w.deleting = true
	w.mu.Unlock()

	ctx = logging.WithProductID(logging.WithWorkflow(ctx, "delete"), p.ID)
	msg, err := w.products.Delete(ctx, p.ID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.deleting = false
	if err != nil {
		w.log.Error().Ctx(ctx).Err(err).Msg("delete product failed")
		return "", err
	}

	w.items = slices.DeleteFunc(w.items, func(it product.Product) bool { return it.ID == p.ID })
	if total := w.totalPagesLocked(); w.page > total {
		w.page = max(total, 1)
	}
	w.selection.Clear()
	w.promptOpen = false
	return msg, nil
}

// CancelDelete closes the prompt and clears the selection without calling
// the backend.
func (w *ListWorkflow) CancelDelete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.promptOpen = false
	w.selection.Clear()
}

func (w *ListWorkflow) filteredLocked() []product.Product {
	return filterProducts(w.items, w.query)
}

func filterProducts(items []product.Product, query string) []product.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	var out []product.Product
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

func (w *ListWorkflow) totalPagesLocked() int {
	return pageCount(len(w.filteredLocked()), w.pageSize)
}

func pageCount(n, size int) int {
	return (n + size - 1) / size
}

// Filter returns the products whose name or description contains query,
// ignoring case.
func Filter(items []product.Product, query string) []product.Product {
	return slices.Clone(filterProducts(items, query))
}

// Paginate returns page (1-indexed) of items and the total page count.
func Paginate(items []product.Product, page, size int) ([]product.Product, int) {
	if size < 1 {
		size = DefaultPageSize
	}
	total := pageCount(len(items), size)
	if page < 1 || page > total {
		return []product.Product{}, total
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return slices.Clone(items[start:end]), total
}
