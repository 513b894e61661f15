package appointment

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type dayKey struct {
	doctorID uuid.UUID
	date     time.Time
}

type slotKey struct {
	doctorID  uuid.UUID
	date      time.Time
	startTime string
}

// MemoryRepository is an in-process Repository with the same uniqueness
// guarantees as the Postgres schema. Used by tests.
type MemoryRepository struct {
	mu           sync.RWMutex
	windows      map[dayKey]AvailabilityWindow
	appointments map[uuid.UUID]*Appointment
	bySlot       map[slotKey]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		windows:      make(map[dayKey]AvailabilityWindow),
		appointments: make(map[uuid.UUID]*Appointment),
		bySlot:       make(map[slotKey]uuid.UUID),
	}
}

func (r *MemoryRepository) GetActiveAvailability(_ context.Context, doctorID uuid.UUID, date time.Time) (*AvailabilityWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[dayKey{doctorID, date}]
	if !ok || !w.Active {
		return nil, ErrAvailabilityNotFound
	}
	return &w, nil
}

func (r *MemoryRepository) ListAvailabilityByDoctor(_ context.Context, doctorID uuid.UUID) ([]AvailabilityWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []AvailabilityWindow{}
	for k, w := range r.windows {
		if k.doctorID == doctorID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MemoryRepository) CreateAvailability(_ context.Context, windows []AvailabilityWindow) ([]AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := []AvailabilityWindow{}
	for _, w := range windows {
		k := dayKey{w.DoctorID, w.Date}
		if _, exists := r.windows[k]; exists {
			continue
		}
		if w.ID == uuid.Nil {
			w.ID = uuid.New()
		}
		w.CreatedAt = time.Now().UTC()
		r.windows[k] = w
		created = append(created, w)
	}
	return created, nil
}

func (r *MemoryRepository) FindAppointmentAt(_ context.Context, doctorID uuid.UUID, date time.Time, startTime string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlot[slotKey{doctorID, date, startTime}]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a := *r.appointments[id]
	return &a, nil
}

func (r *MemoryRepository) ListAppointmentsForDay(_ context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Appointment{}
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *MemoryRepository) ListAppointmentsByPatient(_ context.Context, patientID uuid.UUID) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Appointment{}
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *MemoryRepository) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) CreateAppointment(_ context.Context, a Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := slotKey{a.DoctorID, a.Date, a.StartTime}
	if _, taken := r.bySlot[k]; taken {
		return nil, ErrDuplicateAppointment
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.appointments[a.ID] = &a
	r.bySlot[k] = a.ID
	cp := a
	return &cp, nil
}

func (r *MemoryRepository) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, to AppointmentStatus, from ...AppointmentStatus) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if len(from) > 0 && !slices.Contains(from, a.Status) {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

// DeleteDoctorCascade reports ErrDoctorNotFound when the doctor owns no
// records, since this store does not track users.
func (r *MemoryRepository) DeleteDoctorCascade(_ context.Context, doctorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := false
	for k := range r.windows {
		if k.doctorID == doctorID {
			delete(r.windows, k)
			found = true
		}
	}
	for id, a := range r.appointments {
		if a.DoctorID == doctorID {
			delete(r.bySlot, slotKey{a.DoctorID, a.Date, a.StartTime})
			delete(r.appointments, id)
			found = true
		}
	}
	if !found {
		return ErrDoctorNotFound
	}
	return nil
}
