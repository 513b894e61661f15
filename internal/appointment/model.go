package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Cancellable reports whether a patient may still cancel.
func (s AppointmentStatus) Cancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// AvailabilityWindow is a doctor's bookable range for one calendar day.
// Date is always UTC midnight.
type AvailabilityWindow struct {
	ID           uuid.UUID
	DoctorID     uuid.UUID
	Date         time.Time
	StartHour    string
	EndHour      string
	SlotDuration int
	Active       bool
	CreatedAt    time.Time
}

type Appointment struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
	Status    AppointmentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot is one fixed-length piece of an availability window.
type Slot struct {
	StartTime string
	EndTime   string
	Available bool
}

type BookingRequest struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      string
	StartTime string
	EndTime   string
}

// AvailabilityEntry is one day of an admin provisioning batch.
type AvailabilityEntry struct {
	Date         string `validate:"required"`
	StartHour    string `validate:"required,hhmm"`
	EndHour      string `validate:"required,hhmm"`
	SlotDuration int    `validate:"min=5"`
}
