package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/logger"
	"github.com/hackgods/clinic-scheduling/internal/metrics"
)

type seedOptions struct {
	dsn          string
	doctors      int
	patients     int
	days         int
	startHour    string
	endHour      string
	slotDuration int
}

func main() {
	_ = godotenv.Load()

	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate users and availability windows with fake data",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
			return run(cmd.Context(), opts, log)
		},
	}

	cmd.Flags().StringVar(&opts.dsn, "dsn", os.Getenv("POSTGRES_DSN"), "Postgres connection string")
	cmd.Flags().IntVar(&opts.doctors, "doctors", 20, "Number of doctors to create")
	cmd.Flags().IntVar(&opts.patients, "patients", 500, "Number of patients to create")
	cmd.Flags().IntVar(&opts.days, "days", 14, "Days of availability per doctor, starting today")
	cmd.Flags().StringVar(&opts.startHour, "start-hour", "08:00", "Daily window start (HH:MM)")
	cmd.Flags().StringVar(&opts.endHour, "end-hour", "17:00", "Daily window end (HH:MM)")
	cmd.Flags().IntVar(&opts.slotDuration, "slot-duration", 30, "Slot length in minutes")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts seedOptions, log zerolog.Logger) error {
	if opts.dsn == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := db.ConnectPostgres(connectCtx, opts.dsn)
	if err == nil {
		err = db.Migrate(connectCtx, pool)
	}
	cancel()
	if err != nil {
		return fmt.Errorf("postgres setup: %w", err)
	}
	defer pool.Close()

	users := directory.NewPgDirectory(pool)
	svc := appointment.NewService(appointment.NewPgRepository(pool), nil, users, nil, metrics.Discard(), log)

	admin := directory.User{ID: uuid.New(), Name: "Clinic Admin", Email: gofakeit.Email(), Role: directory.RoleAdmin}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("admin_id", admin.ID.String()).Msg("admin seeded")

	doctorIDs, err := seedUsers(ctx, users, directory.RoleDoctor, opts.doctors)
	if err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}
	log.Info().Int("count", len(doctorIDs)).Msg("doctors seeded")

	patientIDs, err := seedUsers(ctx, users, directory.RolePatient, opts.patients)
	if err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}
	log.Info().Int("count", len(patientIDs)).Msg("patients seeded")

	today := appointment.NormalizeDate(time.Now())
	for _, doctorID := range doctorIDs {
		entries := make([]appointment.AvailabilityEntry, 0, opts.days)
		for d := 0; d < opts.days; d++ {
			entries = append(entries, appointment.AvailabilityEntry{
				Date:         today.AddDate(0, 0, d).Format(time.DateOnly),
				StartHour:    opts.startHour,
				EndHour:      opts.endHour,
				SlotDuration: opts.slotDuration,
			})
		}
		if _, err := svc.ProvisionAvailability(ctx, doctorID, entries); err != nil {
			return fmt.Errorf("seed availability for %s: %w", doctorID, err)
		}
	}

	log.Info().Msg("seed complete")
	return nil
}

func seedUsers(ctx context.Context, users *directory.PgDirectory, role directory.Role, count int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		u := directory.User{
			ID:    uuid.New(),
			Name:  gofakeit.Name(),
			Email: gofakeit.Email(),
			Role:  role,
		}
		if role == directory.RoleDoctor {
			u.Name = gofakeit.LastName()
		}
		if err := users.CreateUser(ctx, u); err != nil {
			return nil, err
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}
