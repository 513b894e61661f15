package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hackgods/clinic-scheduling/internal/api"
	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/logger"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	ConfirmRatio float64
	ReadRatio    float64
	DoctorLimit  int
	PatientLimit int
	Date         string
	Contend      bool
	PostgresDSN  string
	JWTSecret    string
}

type booked struct {
	ID       uuid.UUID
	DoctorID uuid.UUID
}

type DataPool struct {
	Doctors      []uuid.UUID
	Patients     []uuid.UUID
	mu           sync.RWMutex
	appointments []booked
}

func (dp *DataPool) AddAppointment(b booked) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, b)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (booked, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return booked{}, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case success:
		atomic.AddInt64(&om.Success, 1)
	case conflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[min2(len(latencies)*50/100, len(latencies)-1)]
	p95 = latencies[min2(len(latencies)*95/100, len(latencies)-1)]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Booking   OperationMetrics
	Confirm   OperationMetrics
	ListSlots OperationMetrics
	ListMine  OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	log     zerolog.Logger
	metrics Metrics

	tokenMu sync.Mutex
	tokens  map[uuid.UUID]string
}

func main() {
	_ = godotenv.Load()

	cfg := SimConfig{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive concurrent booking load against a running api-server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
			if err := validateConfig(&cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.APIBaseURL, "base-url", "http://localhost:8080", "api-server base URL")
	f.DurationVar(&cfg.Duration, "duration", 30*time.Second, "How long to run")
	f.IntVar(&cfg.Workers, "workers", 10, "Concurrent workers")
	f.Float64Var(&cfg.BookingRatio, "booking-ratio", 0.5, "Share of booking operations")
	f.Float64Var(&cfg.ConfirmRatio, "confirm-ratio", 0.2, "Share of doctor confirmations")
	f.Float64Var(&cfg.ReadRatio, "read-ratio", 0.3, "Share of read operations")
	f.IntVar(&cfg.DoctorLimit, "doctor-limit", 50, "Doctors loaded from the database")
	f.IntVar(&cfg.PatientLimit, "patient-limit", 2000, "Patients loaded from the database")
	f.StringVar(&cfg.Date, "date", time.Now().UTC().Format(time.DateOnly), "Day to book on")
	f.BoolVar(&cfg.Contend, "contend", false, "Every booking targets the first slot of the first doctor")
	f.StringVar(&cfg.PostgresDSN, "dsn", os.Getenv("POSTGRES_DSN"), "Postgres connection string")
	f.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to sign test tokens")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func validateConfig(cfg *SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (set in .env, environment or --dsn)")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required (set in .env, environment or --jwt-secret)")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("--workers must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}

	total := cfg.BookingRatio + cfg.ConfirmRatio + cfg.ReadRatio
	if total <= 0 {
		return fmt.Errorf("operation ratios must sum to a positive value")
	}
	cfg.BookingRatio /= total
	cfg.ConfirmRatio /= total
	cfg.ReadRatio /= total
	return nil
}

func run(ctx context.Context, cfg SimConfig, log zerolog.Logger) error {
	log.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("booking", cfg.BookingRatio).
		Float64("confirm", cfg.ConfirmRatio).
		Float64("read", cfg.ReadRatio).
		Bool("contend", cfg.Contend).
		Msg("simulator starting")

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(loadCtx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(loadCtx, pgPool, cfg)
	if err != nil {
		return fmt.Errorf("load data pool: %w", err)
	}
	log.Info().Int("doctors", len(dataPool.Doctors)).Int("patients", len(dataPool.Patients)).Msg("data pool loaded")

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
		tokens: make(map[uuid.UUID]string),
	}

	sim.Run(ctx)
	sim.PrintReport()
	return nil
}

func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	var err error
	dataPool.Doctors, err = loadUserIDs(ctx, pool, directory.RoleDoctor, cfg.DoctorLimit)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	dataPool.Patients, err = loadUserIDs(ctx, pool, directory.RolePatient, cfg.PatientLimit)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	if len(dataPool.Doctors) == 0 {
		return nil, fmt.Errorf("no doctors loaded")
	}
	if len(dataPool.Patients) == 0 {
		return nil, fmt.Errorf("no patients loaded")
	}

	return dataPool, nil
}

func loadUserIDs(ctx context.Context, pool *pgxpool.Pool, role directory.Role, limit int) ([]uuid.UUID, error) {
	rows, err := pool.Query(ctx, `SELECT id FROM users WHERE role = $1 ORDER BY created_at LIMIT $2`, string(role), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Simulator) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Duration)
	defer cancel()

	s.log.Info().Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookingRatio:
				s.doBooking(ctx, rng)
			case r < s.config.BookingRatio+s.config.ConfirmRatio:
				s.doConfirm(ctx, rng)
			case rng.Intn(2) == 0:
				s.doListSlots(ctx, rng)
			default:
				s.doListMine(ctx, rng)
			}
		}
	}
}

func (s *Simulator) token(id uuid.UUID, role directory.Role) string {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	if t, ok := s.tokens[id]; ok {
		return t
	}
	claims := api.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		s.log.Fatal().Err(err).Msg("sign token")
	}
	s.tokens[id] = signed
	return signed
}

func (s *Simulator) fetchSlots(ctx context.Context, doctorID uuid.UUID) ([]api.SlotResponse, int, error) {
	url := fmt.Sprintf("%s/api/v1/appointments/slots?doctorId=%s&date=%s", s.config.APIBaseURL, doctorID, s.config.Date)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var slots []api.SlotResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&slots); err != nil {
			return nil, resp.StatusCode, err
		}
	}
	return slots, resp.StatusCode, nil
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	doctorID := s.pool.Doctors[0]
	if !s.config.Contend {
		doctorID = s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	}
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	slots, _, err := s.fetchSlots(ctx, doctorID)
	if err != nil || len(slots) == 0 {
		return
	}
	slot := slots[0]
	if !s.config.Contend {
		slot = slots[rng.Intn(len(slots))]
	}

	body, _ := json.Marshal(api.BookAppointmentRequest{
		DoctorID:  doctorID.String(),
		Date:      s.config.Date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	})

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+"/api/v1/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token(patientID, directory.RolePatient))

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success, conflict := false, false
	if err == nil {
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
			var appt api.AppointmentResponse
			if json.NewDecoder(resp.Body).Decode(&appt) == nil && appt.ID != uuid.Nil {
				s.pool.AddAppointment(booked{ID: appt.ID, DoctorID: appt.DoctorID})
			}
		case http.StatusBadRequest:
			var e api.ErrorResponse
			if json.NewDecoder(resp.Body).Decode(&e) == nil {
				conflict = e.Code == "slot_unavailable"
			}
		case http.StatusTooManyRequests:
			conflict = true
		}
	}

	s.metrics.Booking.Record(latency, success, conflict)
}

func (s *Simulator) doConfirm(ctx context.Context, rng *rand.Rand) {
	appt, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/api/v1/appointments/%s/status", s.config.APIBaseURL, appt.ID),
		strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token(appt.DoctorID, directory.RoleDoctor))

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.Confirm.Record(latency, success, false)
}

func (s *Simulator) doListSlots(ctx context.Context, rng *rand.Rand) {
	doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]

	start := time.Now()
	_, status, err := s.fetchSlots(ctx, doctorID)
	s.metrics.ListSlots.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doListMine(ctx context.Context, rng *rand.Rand) {
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIBaseURL+"/api/v1/appointments/patient", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(patientID, directory.RolePatient))

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.ListMine.Record(latency, success, false)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Printf("Date: %s (contend=%t)\n", s.config.Date, s.config.Contend)
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Confirm", &s.metrics.Confirm)
	printOperationReport("List slots", &s.metrics.ListSlots)
	printOperationReport("List my appointments", &s.metrics.ListMine)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}
