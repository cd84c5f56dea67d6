package job

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"
)

// executor runs a task from its raw JSON payload.
type executor interface {
	Execute(ctx context.Context, payload json.RawMessage) error
}

type registry struct {
	mu        sync.RWMutex
	executors map[string]executor
}

func newRegistry() *registry {
	return &registry{executors: make(map[string]executor)}
}

func (r *registry) register(name string, e executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[name] = e
}

func (r *registry) get(name string) (executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.executors[name]
	return e, ok
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.executors))
}

type payloadTask[P any] interface {
	Name() string
	Handle(context.Context, P) error
}

type typedExecutor[P any, T payloadTask[P]] struct {
	task T
}

func (e typedExecutor[P, T]) Execute(ctx context.Context, raw json.RawMessage) error {
	var payload P
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return errors.Join(ErrInvalidPayload, err)
		}
	}
	return e.task.Handle(ctx, payload)
}

type funcExecutor func(context.Context) error

func (f funcExecutor) Execute(ctx context.Context, _ json.RawMessage) error {
	return f(ctx)
}
