package tui

import "github.com/colonyops/catalog/internal/core/product"

// productsLoadedMsg is sent when the list finished loading.
type productsLoadedMsg struct {
	err error
}

// createdMsg is sent when a create submit returns.
type createdMsg struct {
	product product.Product
	err     error
}

// updatedMsg is sent when an edit submit returns.
type updatedMsg struct {
	message string
	err     error
}

// deletedMsg is sent when a confirmed delete returns.
type deletedMsg struct {
	name    string
	message string
	err     error
}
