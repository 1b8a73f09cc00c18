package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/catalog/internal/core/product"
)

func manyProducts(n int) []product.Product {
	items := make([]product.Product, 0, n)
	for i := range n {
		items = append(items, sample(fmt.Sprintf("p%02d", i), fmt.Sprintf("Product %02d", i), "generic description"))
	}
	return items
}

type listFixture struct {
	wf  *ListWorkflow
	api *fakeAPI
	sel *Selection
	nav *navRecorder
}

func newListFixture(t *testing.T, items []product.Product) listFixture {
	t.Helper()
	api := &fakeAPI{items: items}
	sel := NewSelection()
	nav := &navRecorder{}
	wf := NewListWorkflow(ListDeps{
		Products:  NewService(api, testLogger()),
		Selection: sel,
		Navigator: nav,
		Logger:    testLogger(),
	})
	require.NoError(t, wf.Load(context.Background()))
	return listFixture{wf: wf, api: api, sel: sel, nav: nav}
}

func TestListWorkflow_Defaults(t *testing.T) {
	f := newListFixture(t, manyProducts(23))
	v := f.wf.View()

	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 10, v.PageSize)
	assert.Equal(t, 23, v.TotalRecords)
	assert.Equal(t, 3, v.TotalPages)
	assert.Len(t, v.Items, 10)
	assert.Equal(t, []int{5, 10, 20}, f.wf.PageSizes())
}

func TestListWorkflow_Filter(t *testing.T) {
	items := []product.Product{
		sample("aaa", "Credit Card", "consumer credit"),
		sample("bbb", "Savings", "account with CARD access"),
		sample("ccc", "Loan", "mortgage"),
	}
	f := newListFixture(t, items)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"aaa", "bbb", "ccc"}},
		{"card", []string{"aaa", "bbb"}},
		{"  MORT  ", []string{"ccc"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f.wf.SetQuery(tt.query)
			v := f.wf.View()

			var ids []string
			for _, p := range v.Items {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), v.TotalRecords)
		})
	}
}

func TestListWorkflow_QueryAndPageSizeResetPage(t *testing.T) {
	f := newListFixture(t, manyProducts(30))

	require.True(t, f.wf.GoToPage(3))
	f.wf.SetQuery("product")
	assert.Equal(t, 1, f.wf.View().Page)
	assert.Equal(t, "product", f.wf.Query())

	require.True(t, f.wf.GoToPage(2))
	require.NoError(t, f.wf.SetPageSize(5))
	v := f.wf.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 6, v.TotalPages)

	assert.ErrorIs(t, f.wf.SetPageSize(0), ErrInvalidPageSize)
}

func TestListWorkflow_CyclePageSize(t *testing.T) {
	f := newListFixture(t, manyProducts(3))

	assert.Equal(t, 20, f.wf.CyclePageSize())
	assert.Equal(t, 5, f.wf.CyclePageSize())
	assert.Equal(t, 10, f.wf.CyclePageSize())
}

func TestListWorkflow_Paging(t *testing.T) {
	f := newListFixture(t, manyProducts(25))

	f.wf.PrevPage()
	assert.Equal(t, 1, f.wf.View().Page, "prev is a no-op on the first page")

	f.wf.NextPage()
	f.wf.NextPage()
	v := f.wf.View()
	assert.Equal(t, 3, v.Page)
	assert.Len(t, v.Items, 5)
	assert.Equal(t, "p20", v.Items[0].ID)

	f.wf.NextPage()
	assert.Equal(t, 3, f.wf.View().Page, "next is a no-op on the last page")

	assert.False(t, f.wf.GoToPage(0))
	assert.False(t, f.wf.GoToPage(4))
	assert.Equal(t, 3, f.wf.View().Page)

	assert.True(t, f.wf.GoToPage(1))
	assert.Equal(t, 1, f.wf.View().Page)
}

func TestListWorkflow_EmptyCollection(t *testing.T) {
	f := newListFixture(t, nil)
	v := f.wf.View()

	assert.Equal(t, 0, v.TotalPages)
	assert.Empty(t, v.Items)
	assert.False(t, f.wf.GoToPage(1))

	f.wf.NextPage()
	assert.Equal(t, 1, f.wf.View().Page)
}

func TestListWorkflow_Edit(t *testing.T) {
	items := manyProducts(2)
	f := newListFixture(t, items)

	f.wf.Edit(items[1])

	got, ok := f.sel.Get()
	require.True(t, ok)
	assert.Equal(t, items[1].ID, got.ID)
	assert.Equal(t, []Route{RouteEdit}, f.nav.Routes())

	f.wf.Create()
	assert.Equal(t, []Route{RouteEdit, RouteCreate}, f.nav.Routes())
}

func TestListWorkflow_ConfirmDelete(t *testing.T) {
	items := manyProducts(3)
	f := newListFixture(t, items)

	f.wf.RequestDelete(items[1])
	v := f.wf.View()
	assert.True(t, v.PromptOpen)
	require.NotNil(t, v.Selected)
	assert.Equal(t, items[1].ID, v.Selected.ID)

	msg, err := f.wf.ConfirmDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Product removed successfully", msg)
	assert.Equal(t, []string{items[1].ID}, f.api.deleteCalls)

	v = f.wf.View()
	assert.False(t, v.PromptOpen)
	assert.Nil(t, v.Selected)
	assert.Equal(t, 2, v.TotalRecords)
}

func TestListWorkflow_ConfirmDeleteIgnoresReentry(t *testing.T) {
	items := manyProducts(2)
	f := newListFixture(t, items)

	var reentry error
	f.api.onDelete = func(string) (string, error) {
		_, reentry = f.wf.ConfirmDelete(context.Background())
		assert.True(t, f.wf.View().Deleting)
		return "ok", nil
	}

	f.wf.RequestDelete(items[0])
	_, err := f.wf.ConfirmDelete(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, reentry, ErrSubmitInProgress)
	assert.Len(t, f.api.deleteCalls, 1)
	assert.False(t, f.wf.View().Deleting)
}

func TestListWorkflow_ConfirmDeleteFailureKeepsSelection(t *testing.T) {
	items := manyProducts(2)
	f := newListFixture(t, items)
	f.api.onDelete = func(string) (string, error) { return "", errBoom }

	f.wf.RequestDelete(items[0])
	_, err := f.wf.ConfirmDelete(context.Background())
	require.ErrorIs(t, err, errBoom)

	v := f.wf.View()
	assert.True(t, v.PromptOpen)
	require.NotNil(t, v.Selected)
	assert.Equal(t, 2, v.TotalRecords)
	assert.False(t, v.Deleting)
}

func TestListWorkflow_ConfirmDeleteWithoutSelection(t *testing.T) {
	f := newListFixture(t, manyProducts(1))

	_, err := f.wf.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, f.api.deleteCalls)
}

func TestListWorkflow_CancelDelete(t *testing.T) {
	items := manyProducts(1)
	f := newListFixture(t, items)

	f.wf.RequestDelete(items[0])
	f.wf.CancelDelete()

	v := f.wf.View()
	assert.False(t, v.PromptOpen)
	assert.Nil(t, v.Selected)
	assert.Empty(t, f.api.deleteCalls)
}

func TestListWorkflow_LoadClampsPage(t *testing.T) {
	f := newListFixture(t, manyProducts(25))
	require.True(t, f.wf.GoToPage(3))

	f.api.items = manyProducts(12)
	f.wf.products.(*Service).Invalidate()
	require.NoError(t, f.wf.Load(context.Background()))
	assert.Equal(t, 2, f.wf.View().Page)
}

func TestPaginate(t *testing.T) {
	items := manyProducts(7)

	page, total := Paginate(items, 2, 5)
	assert.Equal(t, 2, total)
	assert.Len(t, page, 2)

	page, _ = Paginate(items, 3, 5)
	assert.Empty(t, page)

	assert.Len(t, Filter(items, "product 0"), 7)
	assert.Empty(t, Filter(items, "nothing"))
}
