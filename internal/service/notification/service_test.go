package notification

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/notification"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu            sync.Mutex
	notifications []*notification.Notification
}

func (f *fakeRepo) Create(_ context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeRepo) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	for _, n := range notifications {
		if err := f.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRepo) GetByRecipient(_ context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*notification.Notification
	for _, n := range f.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetUnreadCount(_ context.Context, recipientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkAsRead(_ context.Context, ids []string, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		for _, id := range ids {
			if n.ID == id && n.RecipientID == recipientID {
				n.IsRead = true
			}
		}
	}
	return nil
}

func (f *fakeRepo) MarkAllAsRead(_ context.Context, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifications)
}

func newTestService(repo *fakeRepo) notification.Service {
	return NewNotificationService(repo, sse.NewHub(), slog.Default(), Config{
		BatchSize:     2,
		FlushInterval: 10 * time.Millisecond,
		WorkerCount:   1,
		QueueSize:     16,
	})
}

func event(recipient string) notification.Event {
	return notification.Event{
		RecipientID: recipient,
		Title:       "Leave request approved",
		Message:     "Your annual leave was approved",
		Category:    notification.CategoryLeaveApproved,
	}
}

func TestDispatchPersistsAsync(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	svc.Dispatch(context.Background(), event("emp-1"))
	svc.Dispatch(context.Background(), event("emp-1"))
	svc.Dispatch(context.Background(), event("emp-2"))

	require.Eventually(t, func() bool {
		return repo.count() == 3
	}, time.Second, 5*time.Millisecond)

	svc.Stop()
}

func TestStopFlushesQueue(t *testing.T) {
	repo := &fakeRepo{}
	// Long flush interval so only Stop can drain the queue.
	svc := NewNotificationService(repo, sse.NewHub(), slog.Default(), Config{
		BatchSize:     100,
		FlushInterval: time.Hour,
		WorkerCount:   1,
		QueueSize:     16,
	})

	for i := 0; i < 5; i++ {
		svc.Dispatch(context.Background(), event("emp-1"))
	}
	svc.Stop()

	assert.Equal(t, 5, repo.count())
}

func TestReadBoundary(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := newTestService(repo)
	defer svc.Stop()

	svc.DispatchAll(ctx, []notification.Event{event("emp-1"), event("emp-1"), event("emp-2")})
	require.Eventually(t, func() bool { return repo.count() == 3 }, time.Second, 5*time.Millisecond)

	unread, err := svc.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	list, err := svc.List(ctx, "emp-1", 1, 20, false)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)

	err = svc.MarkRead(ctx, "emp-1", notification.MarkReadRequest{NotificationIDs: []string{list.Notifications[0].ID}})
	require.NoError(t, err)

	unread, err = svc.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	err = svc.MarkAllRead(ctx, "emp-1")
	require.NoError(t, err)

	unread, err = svc.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	// Another recipient's notices are untouched.
	unread, err = svc.UnreadCount(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestSubscribeReceivesPush(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &fakeRepo{}
	svc := newTestService(repo)
	defer svc.Stop()

	stream, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	svc.Dispatch(ctx, event("emp-1"))

	select {
	case resp := <-stream:
		assert.Equal(t, notification.CategoryLeaveApproved, resp.Category)
	case <-time.After(time.Second):
		t.Fatal("expected a pushed notification")
	}
}
