package appointment

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return ValidClock(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register hhmm validation: %v", err))
	}
	return v
}

// ProvisionAvailability creates one window per entry for the doctor. Every
// entry is validated before anything is written, so a single bad entry
// rejects the whole batch. Days that already have a window are skipped and
// left out of the result.
func (s *Service) ProvisionAvailability(ctx context.Context, doctorID uuid.UUID, entries []AvailabilityEntry) ([]AvailabilityWindow, error) {
	if doctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor ID is required", ErrValidation)
	}

	windows := make([]AvailabilityWindow, 0, len(entries))
	for i, e := range entries {
		date, err := ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: invalid date format", ErrValidation, i)
		}
		if err := s.validate.Struct(e); err != nil {
			return nil, fmt.Errorf("%w: entry %d: invalid availability format", ErrValidation, i)
		}

		windows = append(windows, AvailabilityWindow{
			DoctorID:     doctorID,
			Date:         date,
			StartHour:    e.StartHour,
			EndHour:      e.EndHour,
			SlotDuration: e.SlotDuration,
			Active:       true,
		})
	}

	created, err := s.repo.CreateAvailability(ctx, windows)
	if err != nil {
		return nil, fmt.Errorf("create availability: %w", err)
	}

	s.log.Info().
		Str("doctor_id", doctorID.String()).
		Int("requested", len(entries)).
		Int("created", len(created)).
		Msg("availability provisioned")

	return created, nil
}

// ListAvailability returns all windows of a doctor ordered by date.
func (s *Service) ListAvailability(ctx context.Context, doctorID uuid.UUID) ([]AvailabilityWindow, error) {
	windows, err := s.repo.ListAvailabilityByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	if len(windows) == 0 {
		return nil, ErrAvailabilityNotFound
	}
	return windows, nil
}
