package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAvailabilityNotFound = errors.New("no availability found")
	ErrDoctorNotFound       = errors.New("doctor not found")
	// ErrDuplicateAppointment is returned by the store when the
	// (doctor, date, start time) uniqueness constraint rejects an insert.
	ErrDuplicateAppointment = errors.New("appointment already exists for slot")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	// Availability
	GetActiveAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time) (*AvailabilityWindow, error)
	ListAvailabilityByDoctor(ctx context.Context, doctorID uuid.UUID) ([]AvailabilityWindow, error)
	// CreateAvailability inserts all windows atomically, silently skipping
	// days that already have one, and returns only the inserted windows.
	CreateAvailability(ctx context.Context, windows []AvailabilityWindow) ([]AvailabilityWindow, error)

	// For conflict checks and slot listing
	FindAppointmentAt(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (*Appointment, error)
	ListAppointmentsForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error)
	ListAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Creation and updates
	CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	// UpdateAppointmentStatus sets the status. When from is non-empty the row
	// is only updated if its current status is one of from; otherwise
	// ErrAppointmentNotFound is returned.
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, to AppointmentStatus, from ...AppointmentStatus) (*Appointment, error)

	// DeleteDoctorCascade removes the doctor with all windows and appointments.
	DeleteDoctorCascade(ctx context.Context, doctorID uuid.UUID) error
}
