// Package reqctx tags a context with the identity of one scrape run.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

type key int

const runKey key = 0

// RunContext identifies one scrape run
type RunContext struct {
	RunID     string
	StartTime time.Time
}

// WithRun returns ctx carrying a new RunContext. A ctx that already carries one is returned unchanged.
func WithRun(ctx context.Context) context.Context {
	if _, ok := ctx.Value(runKey).(*RunContext); ok {
		return ctx
	}
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     generateID(),
		StartTime: time.Now(),
	})
}

// FromContext returns the RunContext carried by ctx, or one with RunID "unknown"
func FromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
