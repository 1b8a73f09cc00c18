package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the workflow and product ID from the event context onto
// log events created with Ctx.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if name := Workflow(ctx); name != "" {
		e.Str("workflow", name)
	}
	if id := ProductID(ctx); id != "" {
		e.Str("product_id", id)
	}
}
