package queue

import (
	"context"

	"github.com/rolodexhq/rolodex/internal/application/ports"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueSendConfirmationEmail(ctx context.Context, email, confirmURL string) error {
	return nil
}

func (q *NoopEnqueuer) EnqueueWebhook(ctx context.Context, event string, payload interface{}) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
