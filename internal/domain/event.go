package domain

import (
	"time"

	"github.com/google/uuid"
)

// Moderation event types published after a successful write
const (
	EventReportCreated          = "report.created"
	EventReportResolved         = "report.resolved"
	EventProductApprovalChanged = "product.approval_changed"
)

// ModerationEvent is the payload sent to the notification pipeline
type ModerationEvent struct {
	EventType  string       `json:"event_type"`
	Timestamp  time.Time    `json:"timestamp"`
	ReportID   *uuid.UUID   `json:"report_id,omitempty"`
	ReportType ReportType   `json:"report_type,omitempty"`
	Status     ReportStatus `json:"status,omitempty"`
	ProductID  *uuid.UUID   `json:"product_id,omitempty"`
	CommentID  *uuid.UUID   `json:"comment_id,omitempty"`
	Approved   *bool        `json:"approved,omitempty"`
	ActorID    *uuid.UUID   `json:"actor_id,omitempty"`
}
