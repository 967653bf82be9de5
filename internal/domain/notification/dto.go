package notification

import (
	"time"
)

// ============= Events from the ledgers =============

// Event is the domain event value a ledger hands to the dispatcher after its
// own mutation has committed. Delivery outcome never reaches the ledger
// caller.
type Event struct {
	RecipientID string
	SenderID    *string
	Title       string
	Message     string
	Category    Category
	Priority    Priority
	Payload     map[string]interface{}
}

// ============= Request DTOs =============

// MarkReadRequest marks specific notices read for the recipient.
type MarkReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

// ============= Response DTOs =============

type NotificationResponse struct {
	ID        string                 `json:"id"`
	SenderID  *string                `json:"sender_id,omitempty"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Category  Category               `json:"category"`
	Priority  Priority               `json:"priority"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}
