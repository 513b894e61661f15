package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/metrics"
	"github.com/hackgods/clinic-scheduling/internal/notification"
	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
)

// mutexLocker serializes critical sections per key inside one process.
type mutexLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMutexLocker() *mutexLocker {
	return &mutexLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *mutexLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

// noLocker runs every critical section without coordination.
type noLocker struct{}

func (noLocker) WithSlotLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type busyLocker struct{}

func (busyLocker) WithSlotLock(context.Context, string, func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

type downLocker struct{}

func (downLocker) WithSlotLock(context.Context, string, func(ctx context.Context) error) error {
	return fmt.Errorf("%w: dial tcp: connection refused", redisclient.ErrLockUnavailable)
}

type failingNotifier struct{ calls atomic.Int32 }

func (f *failingNotifier) Record(context.Context, notification.Type, string) (*notification.Notification, error) {
	f.calls.Add(1)
	return nil, errors.New("notification store down")
}

type fixture struct {
	svc     *Service
	repo    *MemoryRepository
	notes   *notification.MemoryRepository
	metrics *metrics.Metrics
	doctor  directory.User
	patient directory.User
}

func newFixture(t *testing.T, locker redisclient.Locker) *fixture {
	t.Helper()

	f := &fixture{
		repo:    NewMemoryRepository(),
		notes:   notification.NewMemoryRepository(),
		metrics: metrics.Discard(),
		doctor:  directory.User{ID: uuid.New(), Name: "Smith", Role: directory.RoleDoctor},
		patient: directory.User{ID: uuid.New(), Name: "Alice", Role: directory.RolePatient},
	}
	users := directory.NewMemoryDirectory(f.doctor, f.patient)
	notifier := notification.NewService(f.notes, nil, zerolog.Nop())
	f.svc = NewService(f.repo, locker, users, notifier, f.metrics, zerolog.Nop())
	f.provision(t, "2025-03-10", "08:00", "09:00", 30)
	return f
}

func (f *fixture) provision(t *testing.T, date, start, end string, duration int) {
	t.Helper()
	_, err := f.svc.ProvisionAvailability(context.Background(), f.doctor.ID, []AvailabilityEntry{
		{Date: date, StartHour: start, EndHour: end, SlotDuration: duration},
	})
	require.NoError(t, err)
}

func (f *fixture) book(t *testing.T, start, end string) *Appointment {
	t.Helper()
	appt, err := f.svc.BookAppointment(context.Background(), BookingRequest{
		DoctorID:  f.doctor.ID,
		PatientID: f.patient.ID,
		Date:      "2025-03-10",
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return appt
}

func messages(t *testing.T, repo *notification.MemoryRepository) []string {
	t.Helper()
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.Message)
	}
	return out
}

func TestListSlots(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()

	slots, err := f.svc.ListSlots(ctx, f.doctor.ID, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, []Slot{
		{StartTime: "08:00", EndTime: "08:30", Available: true},
		{StartTime: "08:30", EndTime: "09:00", Available: true},
	}, slots)

	f.book(t, "08:00", "08:30")

	slots, err = f.svc.ListSlots(ctx, f.doctor.ID, "2025-03-10T10:00:00Z")
	require.NoError(t, err)
	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}

func TestListSlots_NoWindow(t *testing.T) {
	f := newFixture(t, newMutexLocker())

	slots, err := f.svc.ListSlots(context.Background(), f.doctor.ID, "2025-03-11")
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestListSlots_Validation(t *testing.T) {
	f := newFixture(t, newMutexLocker())

	_, err := f.svc.ListSlots(context.Background(), uuid.Nil, "2025-03-10")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.ListSlots(context.Background(), f.doctor.ID, "March 10")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookAppointment(t *testing.T) {
	f := newFixture(t, newMutexLocker())

	appt := f.book(t, "08:00", "08:30")

	assert.NotEqual(t, uuid.Nil, appt.ID)
	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), appt.Date)
	assert.Equal(t, []string{"New appointment booked by Alice with Dr. Smith"}, messages(t, f.notes))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Bookings.WithLabelValues("created")))
}

func TestBookAppointment_SlotTaken(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	f.book(t, "08:00", "08:30")

	other := uuid.New()
	_, err := f.svc.BookAppointment(context.Background(), BookingRequest{
		DoctorID:  f.doctor.ID,
		PatientID: other,
		Date:      "2025-03-10",
		StartTime: "08:00",
		EndTime:   "08:30",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	items, err := f.svc.ListDoctorAppointments(context.Background(), f.doctor.ID, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.patient.ID, items[0].PatientID)
}

func TestBookAppointment_CancelledSlotStaysTaken(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	appt := f.book(t, "08:00", "08:30")

	_, err := f.svc.CancelAppointment(context.Background(), appt.ID, f.patient.ID)
	require.NoError(t, err)

	_, err = f.svc.BookAppointment(context.Background(), BookingRequest{
		DoctorID: f.doctor.ID, PatientID: f.patient.ID,
		Date: "2025-03-10", StartTime: "08:00", EndTime: "08:30",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookAppointment_Validation(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	base := BookingRequest{
		DoctorID: f.doctor.ID, PatientID: f.patient.ID,
		Date: "2025-03-10", StartTime: "08:00", EndTime: "08:30",
	}

	cases := map[string]func(r *BookingRequest){
		"missing doctor":   func(r *BookingRequest) { r.DoctorID = uuid.Nil },
		"missing date":     func(r *BookingRequest) { r.Date = "" },
		"bad date":         func(r *BookingRequest) { r.Date = "2025/03/10" },
		"bad start":        func(r *BookingRequest) { r.StartTime = "8:00" },
		"bad end":          func(r *BookingRequest) { r.EndTime = "25:00" },
		"end before start": func(r *BookingRequest) { r.EndTime = "07:30" },
		"no window":        func(r *BookingRequest) { r.Date = "2025-03-11" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := base
			mutate(&req)
			_, err := f.svc.BookAppointment(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBookAppointment_OffGrid(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()

	cases := map[string][2]string{
		"start between slots": {"08:10", "08:40"},
		"end not slot length": {"08:00", "08:45"},
		"start before window": {"07:30", "08:00"},
		"start at window end": {"09:00", "09:30"},
		"two slots at once":   {"08:00", "09:00"},
	}

	for name, times := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.BookAppointment(ctx, BookingRequest{
				DoctorID: f.doctor.ID, PatientID: f.patient.ID,
				Date: "2025-03-10", StartTime: times[0], EndTime: times[1],
			})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	slots, err := f.svc.ListSlots(ctx, f.doctor.ID, "2025-03-10")
	require.NoError(t, err)
	for _, slot := range slots {
		assert.True(t, slot.Available, slot.StartTime)
	}
	assert.Equal(t, 5.0, testutil.ToFloat64(f.metrics.Bookings.WithLabelValues("invalid")))

	// the on-grid slot overlapping a rejected request is still bookable exactly once
	f.book(t, "08:00", "08:30")
	items, err := f.svc.ListDoctorAppointments(ctx, f.doctor.ID, "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestBookAppointment_NoWindow(t *testing.T) {
	f := newFixture(t, newMutexLocker())

	_, err := f.svc.BookAppointment(context.Background(), BookingRequest{
		DoctorID: f.doctor.ID, PatientID: f.patient.ID,
		Date: "2025-03-11", StartTime: "08:00", EndTime: "08:30",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "no availability on 2025-03-11")

	items, err := f.repo.ListAppointmentsByPatient(context.Background(), f.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBookAppointment_LastSlotPastMidnight(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()
	f.provision(t, "2025-03-12", "23:00", "23:59", 45)

	slots, err := f.svc.ListSlots(ctx, f.doctor.ID, "2025-03-12")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	last := slots[1]
	assert.Equal(t, Slot{StartTime: "23:45", EndTime: "24:30", Available: true}, last)

	appt, err := f.svc.BookAppointment(ctx, BookingRequest{
		DoctorID: f.doctor.ID, PatientID: f.patient.ID,
		Date: "2025-03-12", StartTime: last.StartTime, EndTime: last.EndTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "24:30", appt.EndTime)

	slots, err = f.svc.ListSlots(ctx, f.doctor.ID, "2025-03-12")
	require.NoError(t, err)
	assert.False(t, slots[1].Available)
}

func TestBookAppointment_LockContention(t *testing.T) {
	f := newFixture(t, busyLocker{})

	_, err := f.svc.BookAppointment(context.Background(), BookingRequest{
		DoctorID: f.doctor.ID, PatientID: f.patient.ID,
		Date: "2025-03-10", StartTime: "08:00", EndTime: "08:30",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Bookings.WithLabelValues("conflict")))
}

func TestBookAppointment_LockBackendDown(t *testing.T) {
	f := newFixture(t, downLocker{})
	req := BookingRequest{
		DoctorID: f.doctor.ID, PatientID: f.patient.ID,
		Date: "2025-03-10", StartTime: "08:00", EndTime: "08:30",
	}

	appt, err := f.svc.BookAppointment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, appt.Status)

	_, err = f.svc.BookAppointment(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookAppointment_ConcurrentSingleWinner(t *testing.T) {
	lockers := map[string]redisclient.Locker{
		"keyed mutex": newMutexLocker(),
		"no lock":     noLocker{},
	}

	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, locker)
			const attempts = 32

			var (
				wg        sync.WaitGroup
				successes atomic.Int32
				conflicts atomic.Int32
			)
			start := make(chan struct{})

			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, err := f.svc.BookAppointment(context.Background(), BookingRequest{
						DoctorID: f.doctor.ID, PatientID: uuid.New(),
						Date: "2025-03-10", StartTime: "08:30", EndTime: "09:00",
					})
					switch {
					case err == nil:
						successes.Add(1)
					case errors.Is(err, ErrSlotUnavailable):
						conflicts.Add(1)
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			close(start)
			wg.Wait()

			assert.Equal(t, int32(1), successes.Load())
			assert.Equal(t, int32(attempts-1), conflicts.Load())

			items, err := f.repo.ListAppointmentsForDay(context.Background(), f.doctor.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			assert.Len(t, items, 1)
		})
	}
}

func TestBookAppointment_NotificationFailureKeepsBooking(t *testing.T) {
	repo := NewMemoryRepository()
	notifier := &failingNotifier{}
	m := metrics.Discard()
	doctor := directory.User{ID: uuid.New(), Name: "Smith"}
	patient := directory.User{ID: uuid.New(), Name: "Alice"}
	svc := NewService(repo, newMutexLocker(), directory.NewMemoryDirectory(doctor, patient), notifier, m, zerolog.Nop())
	_, err := repo.CreateAvailability(context.Background(), []AvailabilityWindow{{
		DoctorID: doctor.ID, Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartHour: "08:00", EndHour: "09:00", SlotDuration: 30, Active: true,
	}})
	require.NoError(t, err)

	appt, err := svc.BookAppointment(context.Background(), BookingRequest{
		DoctorID: doctor.ID, PatientID: patient.ID,
		Date: "2025-03-10", StartTime: "08:00", EndTime: "08:30",
	})
	require.NoError(t, err)

	stored, err := repo.GetAppointmentByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, int32(1), notifier.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationFails))
}

func TestBookAppointment_UnknownPatientSkipsNotification(t *testing.T) {
	f := newFixture(t, newMutexLocker())

	_, err := f.svc.BookAppointment(context.Background(), BookingRequest{
		DoctorID: f.doctor.ID, PatientID: uuid.New(),
		Date: "2025-03-10", StartTime: "08:00", EndTime: "08:30",
	})
	require.NoError(t, err)
	assert.Empty(t, messages(t, f.notes))
}

func TestCancelAppointment(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	appt := f.book(t, "08:00", "08:30")

	updated, err := f.svc.CancelAppointment(context.Background(), appt.ID, f.patient.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)
	assert.Contains(t, messages(t, f.notes), "Appointment cancelled by Alice with Dr. Smith")
}

func TestCancelAppointment_Rules(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()

	_, err := f.svc.CancelAppointment(ctx, uuid.New(), f.patient.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	appt := f.book(t, "08:00", "08:30")

	_, err = f.svc.CancelAppointment(ctx, appt.ID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, appt.ID, f.doctor.ID, StatusCompleted)
	require.NoError(t, err)

	_, err = f.svc.CancelAppointment(ctx, appt.ID, f.patient.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.repo.GetAppointmentByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestCancelAppointment_Twice(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	appt := f.book(t, "08:00", "08:30")

	_, err := f.svc.CancelAppointment(context.Background(), appt.ID, f.patient.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelAppointment(context.Background(), appt.ID, f.patient.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()
	appt := f.book(t, "08:00", "08:30")

	updated, err := f.svc.UpdateStatus(ctx, appt.ID, f.doctor.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)
	assert.Contains(t, messages(t, f.notes), "Dr. Smith confirmed appointment with Alice")

	_, err = f.svc.UpdateStatus(ctx, appt.ID, f.doctor.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Contains(t, messages(t, f.notes), "Appointment cancelled by Dr. Smith with Alice")

	// doctor side changes are not restricted by the current status
	updated, err = f.svc.UpdateStatus(ctx, appt.ID, f.doctor.ID, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, updated.Status)
	assert.Len(t, messages(t, f.notes), 3)
}

func TestUpdateStatus_Rules(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()
	appt := f.book(t, "08:00", "08:30")

	_, err := f.svc.UpdateStatus(ctx, appt.ID, f.doctor.ID, AppointmentStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, appt.ID, f.patient.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, uuid.New(), f.doctor.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListPatientAppointments(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	f.book(t, "08:30", "09:00")
	f.book(t, "08:00", "08:30")

	items, err := f.svc.ListPatientAppointments(context.Background(), f.patient.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "08:00", items[0].StartTime)

	items, err = f.svc.ListPatientAppointments(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListDoctorAppointments_RequiresDate(t *testing.T) {
	f := newFixture(t, newMutexLocker())

	_, err := f.svc.ListDoctorAppointments(context.Background(), f.doctor.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProvisionAvailability(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()
	doctorID := uuid.New()
	entries := []AvailabilityEntry{
		{Date: "2025-03-10", StartHour: "08:00", EndHour: "12:00", SlotDuration: 30},
		{Date: "2025-03-11T00:00:00Z", StartHour: "13:00", EndHour: "17:00", SlotDuration: 15},
		{Date: "2025-03-10", StartHour: "14:00", EndHour: "15:00", SlotDuration: 20},
	}

	created, err := f.svc.ProvisionAvailability(ctx, doctorID, entries)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "08:00", created[0].StartHour)
	assert.True(t, created[0].Active)

	again, err := f.svc.ProvisionAvailability(ctx, doctorID, entries)
	require.NoError(t, err)
	assert.Empty(t, again)

	windows, err := f.svc.ListAvailability(ctx, doctorID)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.True(t, windows[0].Date.Before(windows[1].Date))
}

func TestProvisionAvailability_AllOrNothing(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()

	cases := map[string]AvailabilityEntry{
		"bad date":     {Date: "next monday", StartHour: "08:00", EndHour: "09:00", SlotDuration: 30},
		"bad start":    {Date: "2025-03-12", StartHour: "8am", EndHour: "09:00", SlotDuration: 30},
		"bad end":      {Date: "2025-03-12", StartHour: "08:00", EndHour: "24:00", SlotDuration: 30},
		"short slot":   {Date: "2025-03-12", StartHour: "08:00", EndHour: "09:00", SlotDuration: 4},
		"missing date": {StartHour: "08:00", EndHour: "09:00", SlotDuration: 30},
	}

	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			doctorID := uuid.New()
			_, err := f.svc.ProvisionAvailability(ctx, doctorID, []AvailabilityEntry{
				{Date: "2025-03-10", StartHour: "08:00", EndHour: "09:00", SlotDuration: 30},
				bad,
			})
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), "entry 1")

			_, err = f.svc.ListAvailability(ctx, doctorID)
			assert.ErrorIs(t, err, ErrAvailabilityNotFound)
		})
	}
}

func TestProvisionAvailability_DateMessage(t *testing.T) {
	f := newFixture(t, newMutexLocker())

	_, err := f.svc.ProvisionAvailability(context.Background(), f.doctor.ID, []AvailabilityEntry{
		{Date: "10.03.2025", StartHour: "08:00", EndHour: "09:00", SlotDuration: 30},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date format")

	_, err = f.svc.ProvisionAvailability(context.Background(), f.doctor.ID, []AvailabilityEntry{
		{Date: "2025-03-10", StartHour: "08:00", EndHour: "09:00", SlotDuration: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid availability format")
}

func TestProvisionAvailability_StoresUTCDay(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	doctorID := uuid.New()

	created, err := f.svc.ProvisionAvailability(context.Background(), doctorID, []AvailabilityEntry{
		{Date: "2025-03-12T23:30:00-02:00", StartHour: "08:00", EndHour: "09:00", SlotDuration: 30},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), created[0].Date)
}

func TestNewValidator_ClockTag(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Var("23:59", "hhmm"))
	assert.Error(t, v.Var("24:00", "hhmm"))
}

func TestRemoveDoctor(t *testing.T) {
	f := newFixture(t, newMutexLocker())
	ctx := context.Background()
	f.book(t, "08:00", "08:30")

	require.NoError(t, f.svc.RemoveDoctor(ctx, f.doctor.ID))

	_, err := f.svc.ListAvailability(ctx, f.doctor.ID)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)

	items, err := f.svc.ListPatientAppointments(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = f.svc.RemoveDoctor(ctx, f.doctor.ID)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}
