package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventforge/hackathon-api/internal/domain"
)

type BulkGenerator interface {
	GenerateForEvent(ctx context.Context, event domain.Event) (domain.BulkResult, error)
}

// BulkNotifier is told about every finished bulk run.
type BulkNotifier interface {
	Publish(result domain.BulkResult)
}

// InlineDispatcher runs bulk issuance on the caller's goroutine, so the update
// response is sent only after every certificate is stored. The run is detached
// from the caller's cancellation: the completion is already persisted and will
// not fire again.
type InlineDispatcher struct {
	gen      BulkGenerator
	notifier BulkNotifier
}

func NewInlineDispatcher(gen BulkGenerator, notifier BulkNotifier) *InlineDispatcher {
	return &InlineDispatcher{gen: gen, notifier: notifier}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, event domain.Event) {
	runBulk(context.WithoutCancel(ctx), d.gen, d.notifier, event)
}

// QueueDispatcher hands completed events to a background worker.
type QueueDispatcher struct {
	gen      BulkGenerator
	notifier BulkNotifier
	jobs     chan domain.Event
	done     chan struct{}
}

func NewQueueDispatcher(gen BulkGenerator, notifier BulkNotifier, size int) *QueueDispatcher {
	if size <= 0 {
		size = 1
	}
	return &QueueDispatcher{
		gen:      gen,
		notifier: notifier,
		jobs:     make(chan domain.Event, size),
		done:     make(chan struct{}),
	}
}

// Dispatch enqueues the event. With a full queue the run happens inline rather than being lost.
func (d *QueueDispatcher) Dispatch(ctx context.Context, event domain.Event) {
	select {
	case d.jobs <- event:
	default:
		zap.L().Warn("certificate queue is full, generating inline", zap.Uint("eventID", event.ID))
		runBulk(context.WithoutCancel(ctx), d.gen, d.notifier, event)
	}
}

// Run processes queued events until ctx is done, then drains what is left.
// Cancelling ctx stops the loop but never interrupts a run in progress.
func (d *QueueDispatcher) Run(ctx context.Context) {
	defer close(d.done)

	for {
		select {
		case event := <-d.jobs:
			runBulk(context.WithoutCancel(ctx), d.gen, d.notifier, event)
		case <-ctx.Done():
			for {
				select {
				case event := <-d.jobs:
					runBulk(context.WithoutCancel(ctx), d.gen, d.notifier, event)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until Run has returned.
func (d *QueueDispatcher) Wait() {
	<-d.done
}

func runBulk(ctx context.Context, gen BulkGenerator, notifier BulkNotifier, event domain.Event) {
	result, err := gen.GenerateForEvent(ctx, event)
	if err != nil {
		zap.L().Error("bulk certificate generation failed", zap.Uint("eventID", event.ID), zap.Error(err))
	} else {
		zap.L().Info("bulk certificate generation finished",
			zap.Uint("eventID", result.EventID),
			zap.Int("recipients", result.Recipients),
			zap.Int("inserted", result.Inserted),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
	}

	if notifier != nil {
		notifier.Publish(result)
	}
}
