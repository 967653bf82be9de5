package notification

import (
	"time"
)

// Category tags what ledger event produced the notice.
type Category string

const (
	CategoryLeaveApplied     Category = "leave_applied"
	CategoryLeaveApproved    Category = "leave_approved"
	CategoryLeaveRejected    Category = "leave_rejected"
	CategoryPayrollGenerated Category = "payroll_generated"
	CategoryPayrollPaid      Category = "payroll_paid"
	CategoryBroadcast        Category = "broadcast"
)

// Priority of a notice.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is one per-recipient notice persisted by the dispatch
// collaborator.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Title       string
	Message     string
	Category    Category
	Priority    Priority
	Payload     map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
