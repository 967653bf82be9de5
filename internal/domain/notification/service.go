package notification

import (
	"context"
)

// Dispatcher is the narrow interface the ledgers depend on. Dispatch enqueues
// and returns; persistence and push happen on background workers, so a
// dispatch failure can never roll back the ledger mutation that produced the
// event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
	DispatchAll(ctx context.Context, events []Event)
}

// Service is the full boundary exposed to callers outside the ledger.
type Service interface {
	Dispatcher

	List(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, recipientID string, req MarkReadRequest) error
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, recipientID string, notificationID string) error

	// Subscribe streams new notices for a recipient (SSE).
	Subscribe(ctx context.Context, recipientID string) (<-chan NotificationResponse, func())

	// Stop flushes the queue and stops the workers.
	Stop()
}
