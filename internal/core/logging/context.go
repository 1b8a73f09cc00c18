// Package logging tags log events with the catalog operation in flight so
// API request logs can be traced back to the workflow that issued them.
package logging

import "context"

type contextKey string

const (
	workflowKey  contextKey = "workflow"
	productIDKey contextKey = "product_id"
)

// WithWorkflow records the name of the running workflow (create, edit,
// delete) in ctx.
func WithWorkflow(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, workflowKey, name)
}

// WithProductID records the product being acted on in ctx.
func WithProductID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, productIDKey, id)
}

// Workflow returns the workflow name stored in ctx, or "".
func Workflow(ctx context.Context) string {
	if name, ok := ctx.Value(workflowKey).(string); ok {
		return name
	}
	return ""
}

// ProductID returns the product ID stored in ctx, or "".
func ProductID(ctx context.Context) string {
	if id, ok := ctx.Value(productIDKey).(string); ok {
		return id
	}
	return ""
}
