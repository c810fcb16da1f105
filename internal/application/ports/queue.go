package ports

import "context"

// TaskEnqueuer enqueues async tasks (email, webhook).
type TaskEnqueuer interface {
	EnqueueSendConfirmationEmail(ctx context.Context, email, confirmURL string) error
	EnqueueWebhook(ctx context.Context, event string, payload interface{}) error
}
