package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/metrics"
	"github.com/hackgods/clinic-scheduling/internal/notification"
	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("not authorized for this appointment")
	ErrSlotUnavailable   = errors.New("slot is no longer available")
	ErrInvalidTransition = errors.New("appointment cannot be cancelled")
	ErrInvalidStatus     = errors.New("invalid status value")
)

// Notifier is the write-only notification sink.
type Notifier interface {
	Record(ctx context.Context, typ notification.Type, message string) (*notification.Notification, error)
}

type Service struct {
	repo     Repository
	locker   redisclient.Locker
	users    directory.Directory
	notifier Notifier
	metrics  *metrics.Metrics
	log      zerolog.Logger
	validate *validator.Validate
}

func NewService(repo Repository, locker redisclient.Locker, users directory.Directory, notifier Notifier, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		users:    users,
		notifier: notifier,
		metrics:  m,
		log:      log,
		validate: newValidator(),
	}
}

// ListSlots returns the slot grid of a doctor's day. A day without an active
// window has no slots.
func (s *Service) ListSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]Slot, error) {
	if doctorID == uuid.Nil || date == "" {
		return nil, fmt.Errorf("%w: doctor ID and date are required", ErrValidation)
	}
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	window, err := s.repo.GetActiveAvailability(ctx, doctorID, day)
	if errors.Is(err, ErrAvailabilityNotFound) {
		return []Slot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}

	existing, err := s.repo.ListAppointmentsForDay(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	s.metrics.SlotQueries.Inc()
	return GenerateSlots(*window, existing)
}

// BookAppointment reserves a slot for a patient. The requested times must be
// one of the slots of the doctor's active window for that day. The check and
// the insert run under a per-slot lock, and the store's uniqueness constraint rejects
// anything that gets past it. When the lock backend is down the booking runs
// on the constraint alone.
func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	date, err := validateBooking(req)
	if err != nil {
		s.metrics.Bookings.WithLabelValues("invalid").Inc()
		return nil, err
	}

	var created *Appointment
	started := time.Now()

	book := func(lockCtx context.Context) error {
		window, err := s.repo.GetActiveAvailability(lockCtx, req.DoctorID, date)
		if errors.Is(err, ErrAvailabilityNotFound) {
			return fmt.Errorf("%w: doctor has no availability on %s", ErrValidation, date.Format(time.DateOnly))
		}
		if err != nil {
			return fmt.Errorf("load availability: %w", err)
		}
		if err := CheckSlot(*window, req.StartTime, req.EndTime); err != nil {
			return err
		}

		existing, err := s.repo.FindAppointmentAt(lockCtx, req.DoctorID, date, req.StartTime)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check slot: %w", err)
		}
		if existing != nil {
			return ErrSlotUnavailable
		}

		appt, err := s.repo.CreateAppointment(lockCtx, Appointment{
			DoctorID:  req.DoctorID,
			PatientID: req.PatientID,
			Date:      date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    StatusPending,
		})
		if err != nil {
			if errors.Is(err, ErrDuplicateAppointment) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		return nil
	}

	key := SlotKey(req.DoctorID, date, req.StartTime)
	err = s.locker.WithSlotLock(ctx, key, book)
	if errors.Is(err, redisclient.ErrLockUnavailable) {
		s.log.Warn().Err(err).Str("slot", key).Msg("slot lock unavailable, relying on unique index")
		err = book(ctx)
	}
	s.metrics.LockLatency.Observe(time.Since(started).Seconds())

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			err = fmt.Errorf("%w: slot is currently being booked", ErrSlotUnavailable)
		}
		switch {
		case errors.Is(err, ErrSlotUnavailable):
			s.metrics.Bookings.WithLabelValues("conflict").Inc()
		case errors.Is(err, ErrValidation):
			s.metrics.Bookings.WithLabelValues("invalid").Inc()
		default:
			s.metrics.Bookings.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.metrics.Bookings.WithLabelValues("created").Inc()
	s.notify(ctx, actionBooked, created, false)

	return created, nil
}

func validateBooking(req BookingRequest) (time.Time, error) {
	if req.DoctorID == uuid.Nil || req.PatientID == uuid.Nil || req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		return time.Time{}, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return time.Time{}, err
	}
	if _, err := ClockMinutes(req.StartTime); err != nil {
		return time.Time{}, err
	}
	return date, nil
}

// CancelAppointment lets the owning patient cancel a pending or confirmed
// appointment.
func (s *Service) CancelAppointment(ctx context.Context, id, requesterID uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.PatientID != requesterID {
		return nil, ErrForbidden
	}
	if !appt.Status.Cancellable() {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, StatusCancelled, StatusPending, StatusConfirmed)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// status moved on between the read and the conditional update
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.metrics.StatusChanges.WithLabelValues(string(StatusCancelled)).Inc()
	s.notify(ctx, actionCancelled, updated, false)

	return updated, nil
}

// UpdateStatus is the doctor side status change. Any known status is
// accepted regardless of the current one.
func (s *Service) UpdateStatus(ctx context.Context, id, requesterID uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.DoctorID != requesterID {
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	s.metrics.StatusChanges.WithLabelValues(string(status)).Inc()

	switch status {
	case StatusConfirmed:
		s.notify(ctx, actionConfirmed, updated, true)
	case StatusCancelled:
		s.notify(ctx, actionCancelled, updated, true)
	}

	return updated, nil
}

func (s *Service) ListPatientAppointments(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	items, err := s.repo.ListAppointmentsByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return items, nil
}

func (s *Service) ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) ([]Appointment, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: date parameter is required", ErrValidation)
	}
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListAppointmentsForDay(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}
	return items, nil
}

// RemoveDoctor deletes a doctor together with their windows and appointments.
func (s *Service) RemoveDoctor(ctx context.Context, doctorID uuid.UUID) error {
	if err := s.repo.DeleteDoctorCascade(ctx, doctorID); err != nil {
		return fmt.Errorf("remove doctor: %w", err)
	}

	if f, ok := s.users.(interface{ Forget(uuid.UUID) }); ok {
		f.Forget(doctorID)
	}

	s.log.Info().Str("doctor_id", doctorID.String()).Msg("doctor and associated data deleted")
	return nil
}
