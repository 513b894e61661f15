package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Publisher pushes a recorded notification to live listeners.
type Publisher interface {
	Publish(ctx context.Context, message any) error
}

type Service struct {
	repo      Repository
	publisher Publisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewService wires the sink. publisher may be nil when no fan-out is wanted.
func NewService(repo Repository, publisher Publisher, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Record stores a notification and fans it out. Only the insert can fail the
// call; a publish error is logged.
func (s *Service) Record(ctx context.Context, typ Type, message string) (*Notification, error) {
	n := Notification{
		ID:        uuid.New(),
		Type:      typ,
		Message:   message,
		Timestamp: s.now().UTC(),
	}

	if err := s.repo.Insert(ctx, n); err != nil {
		return nil, fmt.Errorf("record notification: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, n); err != nil {
			s.log.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("publish notification failed")
		}
	}

	s.log.Info().
		Str("notification_id", n.ID.String()).
		Str("type", string(typ)).
		Str("text", message).
		Msg("notification created")
	return &n, nil
}

func (s *Service) List(ctx context.Context) ([]Notification, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error) {
	n, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}
