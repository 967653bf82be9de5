package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/notification"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config tunes the background dispatch pipeline.
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	logger *slog.Logger
	config Config

	queue  chan notification.Event
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService starts the background workers that drain the
// dispatch queue into batch inserts and SSE pushes.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, logger *slog.Logger, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		logger: logger,
		config: cfg,
		queue:  make(chan notification.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	logger.Info("notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.Event, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, event := range batch {
			notifications[i] = newNotification(event)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			s.logger.Error("failed to batch insert notifications", "worker", id, "count", len(notifications), "error", err)
		} else {
			for _, n := range notifications {
				s.hub.Publish(n.RecipientID, sse.Event{
					RecipientID: n.RecipientID,
					Name:        "notification",
					Data:        toResponse(n),
				})
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case event := <-s.queue:
			batch = append(batch, event)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain whatever is already queued before the final flush.
			for {
				select {
				case event := <-s.queue:
					batch = append(batch, event)
				default:
					flush()
					return
				}
			}
		}
	}
}

func newNotification(event notification.Event) *notification.Notification {
	priority := event.Priority
	if priority == "" {
		priority = notification.PriorityNormal
	}
	return &notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: event.RecipientID,
		SenderID:    event.SenderID,
		Title:       event.Title,
		Message:     event.Message,
		Category:    event.Category,
		Priority:    priority,
		Payload:     event.Payload,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
}

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		SenderID:  n.SenderID,
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		Priority:  n.Priority,
		Payload:   n.Payload,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// Dispatch implements notification.Dispatcher. Delivery failure never reaches
// the caller; a full queue falls back to a synchronous insert.
func (s *service) Dispatch(ctx context.Context, event notification.Event) {
	select {
	case s.queue <- event:
	default:
		s.logger.Warn("notification queue saturated, inserting synchronously",
			"recipient_id", event.RecipientID, "error", notification.ErrQueueFull)
		if err := s.directInsert(ctx, event); err != nil {
			s.logger.Error("failed to insert notification", "recipient_id", event.RecipientID, "error", err)
		}
	}
}

// DispatchAll implements notification.Dispatcher.
func (s *service) DispatchAll(ctx context.Context, events []notification.Event) {
	for _, event := range events {
		s.Dispatch(ctx, event)
	}
}

func (s *service) directInsert(ctx context.Context, event notification.Event) error {
	n := newNotification(event)

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.hub.Publish(n.RecipientID, sse.Event{
		RecipientID: n.RecipientID,
		Name:        "notification",
		Data:        toResponse(n),
	})

	return nil
}

// List implements notification.Service.
func (s *service) List(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByRecipient(ctx, recipientID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// UnreadCount implements notification.Service.
func (s *service) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

// MarkRead implements notification.Service.
func (s *service) MarkRead(ctx context.Context, recipientID string, req notification.MarkReadRequest) error {
	if len(req.NotificationIDs) == 0 {
		return nil
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, recipientID)
}

// MarkAllRead implements notification.Service.
func (s *service) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

// Delete implements notification.Service.
func (s *service) Delete(ctx context.Context, recipientID string, notificationID string) error {
	return s.repo.Delete(ctx, notificationID, recipientID)
}

// Subscribe implements notification.Service.
func (s *service) Subscribe(ctx context.Context, recipientID string) (<-chan notification.NotificationResponse, func()) {
	events, cleanup := s.hub.Subscribe(recipientID)

	out := make(chan notification.NotificationResponse, 10)
	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if resp, ok := event.Data.(notification.NotificationResponse); ok {
					select {
					case out <- resp:
					default:
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop flushes queued events and stops the workers.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
