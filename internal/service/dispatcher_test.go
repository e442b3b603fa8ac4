package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventforge/hackathon-api/internal/domain"
)

type countingGenerator struct {
	mu      sync.Mutex
	events  []uint
	ctxErrs []error
}

func (g *countingGenerator) GenerateForEvent(ctx context.Context, event domain.Event) (domain.BulkResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event.ID)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	return domain.BulkResult{EventID: event.ID, Recipients: 1, Inserted: 1}, nil
}

func (g *countingGenerator) seen() []uint {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]uint(nil), g.events...)
}

type recordingNotifier struct {
	mu      sync.Mutex
	results []domain.BulkResult
}

func (n *recordingNotifier) Publish(result domain.BulkResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, result)
}

func TestInlineDispatcher(t *testing.T) {
	gen := &countingGenerator{}
	n := &recordingNotifier{}

	NewInlineDispatcher(gen, n).Dispatch(context.Background(), domain.Event{ID: 3})

	assert.Equal(t, []uint{3}, gen.seen())
	assert.Len(t, n.results, 1)
}

func TestQueueDispatcher_DrainsOnShutdown(t *testing.T) {
	gen := &countingGenerator{}
	n := &recordingNotifier{}
	d := NewQueueDispatcher(gen, n, 4)

	d.Dispatch(context.Background(), domain.Event{ID: 1})
	d.Dispatch(context.Background(), domain.Event{ID: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go d.Run(ctx)
	d.Wait()

	assert.ElementsMatch(t, []uint{1, 2}, gen.seen())
	assert.Len(t, n.results, 2)
}

func TestQueueDispatcher_FullQueueRunsInline(t *testing.T) {
	gen := &countingGenerator{}
	d := NewQueueDispatcher(gen, nil, 1)

	d.Dispatch(context.Background(), domain.Event{ID: 1})
	d.Dispatch(context.Background(), domain.Event{ID: 2})

	// the first event waits in the queue, the second ran on this goroutine
	assert.Equal(t, []uint{2}, gen.seen())
}

func TestDispatchers_IgnoreCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &countingGenerator{}
	NewInlineDispatcher(gen, nil).Dispatch(ctx, domain.Event{ID: 1})

	d := NewQueueDispatcher(gen, nil, 1)
	d.Dispatch(ctx, domain.Event{ID: 2})
	d.Dispatch(ctx, domain.Event{ID: 3})

	assert.Equal(t, []uint{1, 3}, gen.seen())
	assert.Equal(t, []error{nil, nil}, gen.ctxErrs)
}
