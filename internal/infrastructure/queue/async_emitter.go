package queue

import (
	"context"

	"github.com/rolodexhq/rolodex/internal/application/ports"
)

// AsyncEmitter implements ports.WebhookEmitter by queueing the event, keeping
// webhook delivery off the request path. The worker's handleWebhook performs
// the actual HTTP delivery.
type AsyncEmitter struct {
	enqueuer ports.TaskEnqueuer
}

func NewAsyncEmitter(enqueuer ports.TaskEnqueuer) *AsyncEmitter {
	return &AsyncEmitter{enqueuer: enqueuer}
}

func (e *AsyncEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	return e.enqueuer.EnqueueWebhook(ctx, event.Event, event)
}

var _ ports.WebhookEmitter = (*AsyncEmitter)(nil)
