package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/notification"
)

type action string

const (
	actionBooked    action = "booked"
	actionCancelled action = "cancelled"
	actionConfirmed action = "confirmed"
)

// notify records the notification for an appointment event. It never fails
// the caller: errors are logged and counted.
func (s *Service) notify(ctx context.Context, act action, appt *Appointment, byDoctor bool) {
	msg, err := s.message(ctx, act, appt, byDoctor)
	if err != nil {
		s.metrics.NotificationFails.Inc()
		s.log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Str("action", string(act)).
			Msg("failed to build notification")
		return
	}
	if msg == "" {
		return
	}

	if _, err := s.notifier.Record(ctx, notification.TypeAppointment, msg); err != nil {
		s.metrics.NotificationFails.Inc()
		s.log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Str("action", string(act)).
			Msg("failed to create notification")
	}
}

// message renders the notification text. An empty message means one of the
// participants is unknown and nothing should be recorded.
func (s *Service) message(ctx context.Context, act action, appt *Appointment, byDoctor bool) (string, error) {
	doctor, err := s.users.GetUser(ctx, appt.DoctorID)
	if errors.Is(err, directory.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load doctor: %w", err)
	}

	patient, err := s.users.GetUser(ctx, appt.PatientID)
	if errors.Is(err, directory.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load patient: %w", err)
	}

	switch act {
	case actionBooked:
		return fmt.Sprintf("New appointment booked by %s with Dr. %s", patient.Name, doctor.Name), nil
	case actionCancelled:
		if byDoctor {
			return fmt.Sprintf("Appointment cancelled by Dr. %s with %s", doctor.Name, patient.Name), nil
		}
		return fmt.Sprintf("Appointment cancelled by %s with Dr. %s", patient.Name, doctor.Name), nil
	case actionConfirmed:
		return fmt.Sprintf("Dr. %s confirmed appointment with %s", doctor.Name, patient.Name), nil
	}
	return "", nil
}
