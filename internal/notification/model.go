package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSystem      Type = "system"
	TypeReminder    Type = "reminder"
	TypeAppointment Type = "appointment"
	TypeUser        Type = "user"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}
