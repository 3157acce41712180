package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/authkit-labs/token-auth/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued    EventType = "token_issued"
	EventTokenRefreshed EventType = "token_refreshed"
	EventTokenRevoked   EventType = "token_revoked"
)

// Event represents a token lifecycle event emitted by services. It never carries token values.
type Event struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	Subject   string           `json:"subject,omitempty"`
	TokenKind domain.TokenKind `json:"token_kind"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   interface{}      `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(eventType EventType, subject string, kind domain.TokenKind, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		TokenKind: kind,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// TokenRefreshedPayload payload.
type TokenRefreshedPayload struct {
	AccessExpiresAt time.Time `json:"access_expires_at"`
}
