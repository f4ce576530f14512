package http

import (
	"context"

	"combinercli/internal/services"
)

func contextWithBatch(ctx context.Context, batch *services.Batch) context.Context {
	return context.WithValue(ctx, batchKey, batch)
}

func batchFromContext(ctx context.Context) *services.Batch {
	batch, _ := ctx.Value(batchKey).(*services.Batch)
	return batch
}
