package appointment

import (
	"fmt"
)

const MinSlotDuration = 5

// GenerateSlots splits [StartHour, EndHour) of the window into SlotDuration
// minute pieces. A slot is unavailable when any appointment of the same day
// starts at the same time, whatever its status. The final slot may run past
// EndHour. An empty window yields an empty, non-nil slice.
func GenerateSlots(w AvailabilityWindow, existing []Appointment) ([]Slot, error) {
	start, err := ClockMinutes(w.StartHour)
	if err != nil {
		return nil, err
	}
	end, err := ClockMinutes(w.EndHour)
	if err != nil {
		return nil, err
	}
	if w.SlotDuration < MinSlotDuration {
		return nil, fmt.Errorf("%w: slot duration must be at least %d minutes", ErrValidation, MinSlotDuration)
	}

	taken := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		taken[a.StartTime] = struct{}{}
	}

	slots := []Slot{}
	for cur := start; cur < end; cur += w.SlotDuration {
		startTime := FormatClock(cur)
		_, booked := taken[startTime]
		slots = append(slots, Slot{
			StartTime: startTime,
			EndTime:   FormatClock(cur + w.SlotDuration),
			Available: !booked,
		})
	}

	return slots, nil
}

// CheckSlot accepts startTime-endTime only when it is one of the slots
// GenerateSlots yields for w. endTime is compared as text since the last slot
// of a late window may end past 23:59.
func CheckSlot(w AvailabilityWindow, startTime, endTime string) error {
	winStart, err := ClockMinutes(w.StartHour)
	if err != nil {
		return err
	}
	winEnd, err := ClockMinutes(w.EndHour)
	if err != nil {
		return err
	}
	if w.SlotDuration < MinSlotDuration {
		return fmt.Errorf("%w: slot duration must be at least %d minutes", ErrValidation, MinSlotDuration)
	}
	start, err := ClockMinutes(startTime)
	if err != nil {
		return err
	}

	if start < winStart || start >= winEnd || (start-winStart)%w.SlotDuration != 0 {
		return fmt.Errorf("%w: %s is not a slot start for this day", ErrValidation, startTime)
	}
	if want := FormatClock(start + w.SlotDuration); endTime != want {
		return fmt.Errorf("%w: slot starting %s ends at %s", ErrValidation, startTime, want)
	}
	return nil
}
