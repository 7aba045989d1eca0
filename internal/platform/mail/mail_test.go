package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPayload(t *testing.T) {
	msg := Message{
		From:    AssignmentSender,
		To:      []string{"dev@example.com", "lead@example.com"},
		Subject: "New Task Assigned",
		Body:    "You have been assigned to task ID 42",
	}

	payload := string(buildPayload(msg))

	assert.Contains(t, payload, "From: no-reply@projectmanager.com\r\n")
	assert.Contains(t, payload, "To: dev@example.com, lead@example.com\r\n")
	assert.Contains(t, payload, "Subject: New Task Assigned\r\n")
	assert.Contains(t, payload, "\r\n\r\nYou have been assigned to task ID 42")
}
