package standings

import (
	"context"

	"github.com/google/uuid"
)

type cycleKey struct{}

// WithCycleID tags ctx with the id that fetch logs are grouped under.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleKey{}, id)
}

// CycleID returns the id set by WithCycleID, or "" when there is none.
func CycleID(ctx context.Context) string {
	id, _ := ctx.Value(cycleKey{}).(string)
	return id
}

// NewCycle tags ctx with a fresh random id.
func NewCycle(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return WithCycleID(ctx, id), id
}
