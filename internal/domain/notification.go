package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Notification
var (
	ErrEmptyNotificationID        = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationRecipient = errors.New("notification recipient cannot be empty")
	ErrEmptyNotificationMessage   = errors.New("notification message cannot be empty")
)

// Notification is an in-app message addressed to a single user. Rows are
// immutable after creation except for the read flag.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewNotification creates a new unread Notification for the given recipient.
// The recipient is required: callers with a potentially absent recipient must
// skip creation rather than pass uuid.Nil. Returns an error if validation
// fails.
func NewNotification(recipientID uuid.UUID, message string) (*Notification, error) {
	notification := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Message:     message,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := notification.Validate(); err != nil {
		return nil, err
	}

	return notification, nil
}

// Validate checks if the Notification has valid data.
// Returns an error if any field fails validation.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}

	if n.RecipientID == uuid.Nil {
		return ErrEmptyNotificationRecipient
	}

	if n.Message == "" {
		return ErrEmptyNotificationMessage
	}

	return nil
}
