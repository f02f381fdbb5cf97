package service

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/collegedesk/collegedesk-api/internal/models"
	"github.com/collegedesk/collegedesk-api/internal/observability"
	"github.com/collegedesk/collegedesk-api/internal/repository"
	"github.com/collegedesk/collegedesk-api/pkg/remote"
)

const syncNudgeSubject = "collegedesk.sync.nudge"

// SyncRecorder enqueues a durable record of a committed local mutation for
// best-effort replication. Callers log failures and move on; the local commit
// is never rolled back.
type SyncRecorder interface {
	Enqueue(ctx context.Context, entity, entityID, op string, payload map[string]interface{}) error
}

// SyncService is the outbox dispatcher: mutations enqueue records, a
// background loop drains them to the remote collaborator. Each record is
// attempted once; failures are recorded and never retried.
type SyncService interface {
	SyncRecorder
	DrainOnce(ctx context.Context) (int, error)
	Start(ctx context.Context)
}

type syncService struct {
	repo     repository.OutboxRepository
	store    remote.Store
	nats     *nats.Conn
	interval time.Duration
	batch    int
	logger   zerolog.Logger
	nudge    chan struct{}
}

// NewSyncService constructs the sync dispatcher. The NATS connection is
// optional and only used to nudge the drain loop across nodes.
func NewSyncService(repo repository.OutboxRepository, store remote.Store, natsConn *nats.Conn, interval time.Duration, logger zerolog.Logger) SyncService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if store == nil {
		store = remote.NopStore{}
	}

	return &syncService{
		repo:     repo,
		store:    store,
		nats:     natsConn,
		interval: interval,
		batch:    50,
		logger:   logger.With().Str("component", "sync_service").Logger(),
		nudge:    make(chan struct{}, 1),
	}
}

func (s *syncService) Enqueue(ctx context.Context, entity, entityID, op string, payload map[string]interface{}) error {
	record := models.SyncOutbox{
		Entity:   entity,
		EntityID: entityID,
		Op:       op,
		Payload:  datatypes.JSONMap(payload),
	}
	if err := s.repo.Enqueue(ctx, &record); err != nil {
		return err
	}

	select {
	case s.nudge <- struct{}{}:
	default:
	}

	if s.nats != nil {
		if err := s.nats.Publish(syncNudgeSubject, []byte(entity)); err != nil {
			s.logger.Debug().Err(err).Msg("failed to publish sync nudge")
		}
	}

	return nil
}

// DrainOnce dispatches up to one batch of pending records. Every record is
// marked sent or failed; a failure never blocks the rest of the batch.
func (s *syncService) DrainOnce(ctx context.Context) (int, error) {
	records, err := s.repo.ListPending(ctx, s.batch)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, record := range records {
		err := s.store.Apply(ctx, remote.Record{
			Entity:   record.Entity,
			EntityID: record.EntityID,
			Op:       record.Op,
			Payload:  map[string]interface{}(record.Payload),
		})
		if err != nil {
			s.logger.Warn().Err(err).
				Str("entity", record.Entity).
				Str("entity_id", record.EntityID).
				Msg("remote sync failed")
			observability.OutboxDispatched().WithLabelValues("failed").Inc()
			if markErr := s.repo.MarkFailed(ctx, record.ID, err.Error()); markErr != nil {
				s.logger.Error().Err(markErr).Uint("outbox_id", record.ID).Msg("failed to mark outbox record failed")
			}
			continue
		}

		observability.OutboxDispatched().WithLabelValues("sent").Inc()
		if markErr := s.repo.MarkSent(ctx, record.ID); markErr != nil {
			s.logger.Error().Err(markErr).Uint("outbox_id", record.ID).Msg("failed to mark outbox record sent")
			continue
		}
		dispatched++
	}

	return dispatched, nil
}

// Start runs the drain loop until the context is cancelled.
func (s *syncService) Start(ctx context.Context) {
	if s.nats != nil {
		sub, err := s.nats.Subscribe(syncNudgeSubject, func(msg *nats.Msg) {
			select {
			case s.nudge <- struct{}{}:
			default:
			}
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to subscribe to sync nudge subject")
		} else {
			go func() {
				<-ctx.Done()
				if err := sub.Unsubscribe(); err != nil {
					s.logger.Debug().Err(err).Msg("failed to unsubscribe sync nudge")
				}
			}()
		}
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-s.nudge:
			}

			if _, err := s.DrainOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("outbox drain failed")
			}
		}
	}()
}
